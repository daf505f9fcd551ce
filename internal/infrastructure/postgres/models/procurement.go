package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type ProcurementModel struct {
	ID          string          `gorm:"primaryKey;type:uuid"`
	Title       string          `gorm:"not null"`
	Amount      decimal.Decimal `gorm:"type:numeric(14,2)"`
	Status      string          `gorm:"index;not null"`
	CreatedByID string          `gorm:"type:uuid"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (ProcurementModel) TableName() string {
	return "procurements"
}

type ProcurementStatusChangeModel struct {
	ID            string `gorm:"primaryKey;type:uuid"`
	ProcurementID string `gorm:"type:uuid;index;not null"`
	OldStatus     string `gorm:"not null"`
	NewStatus     string `gorm:"not null"`
	Reason        string
	CreatedAt     time.Time
}

func (ProcurementStatusChangeModel) TableName() string {
	return "procurement_status_changes"
}
