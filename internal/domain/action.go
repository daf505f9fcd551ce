package domain

import "time"

type ActionType string

const (
	ActionEndorse  ActionType = "endorse"
	ActionReceive  ActionType = "receive"
	ActionComplete ActionType = "complete"
	ActionHold     ActionType = "hold"
	ActionCancel   ActionType = "cancel"
	ActionResume   ActionType = "resume"
	ActionBypass   ActionType = "bypass"
)

// TransactionAction is one immutable entry of the routing audit trail.
// Rows are insert-only; ordering by CreatedAt is the canonical timeline.
type TransactionAction struct {
	ID              string
	TransactionID   string
	ActionType      ActionType
	FromOfficeID    string
	ToOfficeID      string // empty for complete/hold/cancel/resume
	FromUserID      string
	ToUserID        string // empty until received
	ActionTakenID   string
	WorkflowStepID  string
	IsOutOfWorkflow bool
	Notes           string
	Reason          string
	IPAddress       string
	CreatedAt       time.Time
}
