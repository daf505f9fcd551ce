package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionModel struct {
	ID              string          `gorm:"primaryKey;type:uuid"`
	ReferenceNumber string          `gorm:"uniqueIndex;not null"`
	Category        string          `gorm:"index;not null"`
	Title           string          `gorm:"not null"`
	Amount          decimal.Decimal `gorm:"type:numeric(14,2)"`
	Status          string          `gorm:"index:idx_status_received;not null"`

	ProcurementID   *string `gorm:"type:uuid;index"`
	WorkflowID      *string `gorm:"type:uuid"`
	CurrentStepID   *string `gorm:"type:uuid"`
	CurrentOfficeID *string `gorm:"type:uuid;index"`
	CurrentUserID   *string `gorm:"type:uuid"`

	CreatedByID    string `gorm:"type:uuid;not null"`
	OriginOfficeID string `gorm:"type:uuid"`

	ReceivedAt            *time.Time `gorm:"index:idx_status_received"`
	EndorsedAt            *time.Time
	LastOverdueNotifiedAt *time.Time

	CreatedAt time.Time `gorm:"index:idx_txn_created_at"`
	UpdatedAt time.Time
}

func (TransactionModel) TableName() string {
	return "transactions"
}

// TransactionActionModel rows are append-only: no update or delete path
// exists in the repository.
type TransactionActionModel struct {
	ID              string  `gorm:"primaryKey;type:uuid"`
	TransactionID   string  `gorm:"type:uuid;index;not null"`
	ActionType      string  `gorm:"index;not null"`
	FromOfficeID    *string `gorm:"type:uuid"`
	ToOfficeID      *string `gorm:"type:uuid"`
	FromUserID      *string `gorm:"type:uuid"`
	ToUserID        *string `gorm:"type:uuid"`
	ActionTakenID   *string `gorm:"type:uuid"`
	WorkflowStepID  *string `gorm:"type:uuid"`
	IsOutOfWorkflow bool    `gorm:"not null;default:false"`
	Notes           string
	Reason          string
	IPAddress       string
	CreatedAt       time.Time `gorm:"index"`
}

func (TransactionActionModel) TableName() string {
	return "transaction_actions"
}

type StatusChangeModel struct {
	ID            string `gorm:"primaryKey;type:uuid"`
	TransactionID string `gorm:"type:uuid;index;not null"`
	OldStatus     string `gorm:"not null"`
	NewStatus     string `gorm:"not null"`
	Reason        string
	ChangedByID   *string `gorm:"type:uuid"`
	CreatedAt     time.Time
}

func (StatusChangeModel) TableName() string {
	return "transaction_status_changes"
}
