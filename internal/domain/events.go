package domain

import "time"

// Domain events are explicit values emitted by the state service after a
// transition commits. Listeners are registered on an EventBus in main; there
// are no implicit persistence hooks.

type Event interface {
	EventName() string
}

type EventBus interface {
	Publish(event Event)
}

type TransactionEndorsed struct {
	TransactionID string
	Reference     string
	Category      Category
	FromOfficeID  string
	ToOfficeID    string
	ActorID       string
	EndorsedAt    time.Time
}

func (TransactionEndorsed) EventName() string { return "transaction.endorsed" }

// OutOfWorkflowEndorsement is emitted in addition to TransactionEndorsed when
// the destination office differs from the configured next step.
type OutOfWorkflowEndorsement struct {
	TransactionID    string
	Reference        string
	Category         Category
	FromOfficeID     string
	ToOfficeID       string
	ExpectedOfficeID string
	ActorID          string
	EndorsedAt       time.Time
}

func (OutOfWorkflowEndorsement) EventName() string { return "transaction.endorsed.out_of_workflow" }

type TransactionReceived struct {
	TransactionID string
	Reference     string
	Category      Category
	OfficeID      string
	ReceiverID    string
	SenderID      string
	ReceivedAt    time.Time
}

func (TransactionReceived) EventName() string { return "transaction.received" }

type TransactionCompleted struct {
	TransactionID string
	Reference     string
	Category      Category
	CreatorID     string
	ActorID       string
	CompletedAt   time.Time
}

func (TransactionCompleted) EventName() string { return "transaction.completed" }

type TransactionStatusChanged struct {
	TransactionID string
	Reference     string
	Category      Category
	OldStatus     TransactionStatus
	NewStatus     TransactionStatus
	Reason        string
	CreatorID     string
	ActorID       string
	ChangedAt     time.Time
}

func (TransactionStatusChanged) EventName() string { return "transaction.status_changed" }

type TransactionOverdue struct {
	TransactionID string
	Reference     string
	Category      Category
	HolderID      string
	OfficeID      string
	DelayDays     int
	DetectedAt    time.Time
}

func (TransactionOverdue) EventName() string { return "transaction.overdue" }
