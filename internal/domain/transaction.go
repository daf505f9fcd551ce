package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionStatus string

const (
	StatusCreated    TransactionStatus = "Created"
	StatusInProgress TransactionStatus = "In Progress"
	StatusOnHold     TransactionStatus = "On Hold"
	StatusCancelled  TransactionStatus = "Cancelled"
	StatusCompleted  TransactionStatus = "Completed"
)

type Category string

const (
	CategoryPR  Category = "PR"
	CategoryPO  Category = "PO"
	CategoryVCH Category = "VCH"
)

// CategoryVCH is the terminal category of a procurement: its completion
// is what may flip the owning procurement to Completed.

func (s TransactionStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

func (c Category) IsValid() bool {
	return c == CategoryPR || c == CategoryPO || c == CategoryVCH
}

// Transaction is a PR/PO/VCH document being routed through a workflow.
// The current_* pointers are a denormalized projection of the action log:
// they are maintained explicitly on every transition, never derived at read time.
type Transaction struct {
	ID              string
	ReferenceNumber string
	Category        Category
	Title           string
	Amount          decimal.Decimal
	Status          TransactionStatus

	ProcurementID string
	WorkflowID    string // empty: no workflow assigned
	CurrentStepID string
	CurrentOffice string
	CurrentUserID string

	CreatedByID string
	OriginOffID string

	ReceivedAt            *time.Time
	EndorsedAt            *time.Time
	LastOverdueNotifiedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

type StatusChange struct {
	ID            string
	TransactionID string
	OldStatus     TransactionStatus
	NewStatus     TransactionStatus
	Reason        string
	ChangedByID   string
	CreatedAt     time.Time
}

type TransactionFilter struct {
	Statuses  []TransactionStatus
	Category  Category
	OfficeID  string
	CreatedBy string
	Reference string
	DateFrom  time.Time
	DateTo    time.Time
}
