package mappers

import (
	"github.com/proc-track/workflow-service/internal/domain"
	"github.com/proc-track/workflow-service/internal/infrastructure/postgres/models"
)

func ToGORMWorkflow(workflow *domain.Workflow) *models.WorkflowModel {
	m := &models.WorkflowModel{
		ID:        workflow.ID,
		Name:      workflow.Name,
		Category:  string(workflow.Category),
		IsActive:  workflow.IsActive,
		CreatedAt: workflow.CreatedAt,
		UpdatedAt: workflow.UpdatedAt,
	}
	for _, step := range workflow.Steps {
		m.Steps = append(m.Steps, models.WorkflowStepModel{
			ID:           step.ID,
			WorkflowID:   workflow.ID,
			OfficeID:     step.OfficeID,
			StepOrder:    step.StepOrder,
			ExpectedDays: step.ExpectedDays,
			IsFinalStep:  step.IsFinalStep,
		})
	}
	return m
}

func ToDomainWorkflow(m *models.WorkflowModel) *domain.Workflow {
	workflow := &domain.Workflow{
		ID:        m.ID,
		Name:      m.Name,
		Category:  domain.Category(m.Category),
		IsActive:  m.IsActive,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	for _, step := range m.Steps {
		workflow.Steps = append(workflow.Steps, domain.WorkflowStep{
			ID:           step.ID,
			WorkflowID:   step.WorkflowID,
			OfficeID:     step.OfficeID,
			StepOrder:    step.StepOrder,
			ExpectedDays: step.ExpectedDays,
			IsFinalStep:  step.IsFinalStep,
		})
	}
	return workflow
}
