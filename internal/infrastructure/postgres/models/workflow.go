package models

import "time"

type WorkflowModel struct {
	ID        string `gorm:"primaryKey;type:uuid"`
	Name      string `gorm:"not null"`
	Category  string `gorm:"index:idx_category_active;not null"`
	IsActive  bool   `gorm:"index:idx_category_active;not null;default:false"`
	Steps     []WorkflowStepModel `gorm:"foreignKey:WorkflowID;references:ID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (WorkflowModel) TableName() string {
	return "workflows"
}

type WorkflowStepModel struct {
	ID           string `gorm:"primaryKey;type:uuid"`
	WorkflowID   string `gorm:"type:uuid;index;uniqueIndex:idx_workflow_step_order;not null"`
	OfficeID     string `gorm:"type:uuid;not null"`
	StepOrder    int    `gorm:"uniqueIndex:idx_workflow_step_order;not null"`
	ExpectedDays int    `gorm:"not null"`
	IsFinalStep  bool   `gorm:"not null;default:false"`
}

func (WorkflowStepModel) TableName() string {
	return "workflow_steps"
}
