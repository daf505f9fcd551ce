package workflow

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/proc-track/workflow-service/internal/domain"
)

type WorkflowUsecase interface {
	CreateWorkflow(ctx context.Context, input *CreateWorkflowInput) (*domain.Workflow, error)
	UpdateWorkflow(ctx context.Context, workflowID string, input *CreateWorkflowInput) (*domain.Workflow, error)
	GetWorkflowByID(ctx context.Context, id string) (*domain.Workflow, error)
	GetActiveWorkflowByCategory(ctx context.Context, category domain.Category) (*domain.Workflow, error)
	ListWorkflows(ctx context.Context) ([]*domain.Workflow, error)
	ActivateWorkflow(ctx context.Context, id string) error
}

type StepInput struct {
	OfficeID     string
	StepOrder    int
	ExpectedDays int
	IsFinalStep  bool
}

type CreateWorkflowInput struct {
	Name     string
	Category string
	Steps    []StepInput
}

type DefaultWorkflowUsecase struct {
	WorkflowRepo domain.WorkflowRepository
	Now          domain.Clock
}

func NewDefaultWorkflowUsecase(workflowRepo domain.WorkflowRepository, now domain.Clock) *DefaultWorkflowUsecase {
	return &DefaultWorkflowUsecase{WorkflowRepo: workflowRepo, Now: now}
}

func (uc *DefaultWorkflowUsecase) buildWorkflow(workflowID string, input *CreateWorkflowInput) (*domain.Workflow, error) {
	category := domain.Category(input.Category)
	if !category.IsValid() {
		return nil, fmt.Errorf("unknown document category %q", input.Category)
	}

	now := uc.Now()
	workflow := &domain.Workflow{
		ID:        workflowID,
		Name:      input.Name,
		Category:  category,
		Steps:     make([]domain.WorkflowStep, 0, len(input.Steps)),
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, s := range input.Steps {
		workflow.Steps = append(workflow.Steps, domain.WorkflowStep{
			ID:           uuid.New().String(),
			WorkflowID:   workflowID,
			OfficeID:     s.OfficeID,
			StepOrder:    s.StepOrder,
			ExpectedDays: s.ExpectedDays,
			IsFinalStep:  s.IsFinalStep,
		})
	}

	if err := workflow.ValidateSteps(); err != nil {
		return nil, err
	}
	return workflow, nil
}

func (uc *DefaultWorkflowUsecase) CreateWorkflow(ctx context.Context, input *CreateWorkflowInput) (*domain.Workflow, error) {
	workflow, err := uc.buildWorkflow(uuid.New().String(), input)
	if err != nil {
		return nil, err
	}

	if err := uc.WorkflowRepo.CreateWorkflow(ctx, workflow); err != nil {
		return nil, fmt.Errorf("failed to create workflow: %w", err)
	}

	slog.Info("workflow created", "workflow_id", workflow.ID, "category", workflow.Category, "steps", len(workflow.Steps))
	return workflow, nil
}

// UpdateWorkflow replaces the step list wholesale. Transactions already in
// flight keep their step pointers; editing an active workflow under them is
// an administrative decision, not something the service blocks.
func (uc *DefaultWorkflowUsecase) UpdateWorkflow(ctx context.Context, workflowID string, input *CreateWorkflowInput) (*domain.Workflow, error) {
	existing, err := uc.WorkflowRepo.GetWorkflowByID(ctx, workflowID)
	if err != nil {
		return nil, err
	}

	workflow, err := uc.buildWorkflow(existing.ID, input)
	if err != nil {
		return nil, err
	}
	workflow.IsActive = existing.IsActive
	workflow.CreatedAt = existing.CreatedAt

	if err := uc.WorkflowRepo.UpdateWorkflow(ctx, workflow); err != nil {
		return nil, fmt.Errorf("failed to update workflow: %w", err)
	}
	return workflow, nil
}

func (uc *DefaultWorkflowUsecase) GetWorkflowByID(ctx context.Context, id string) (*domain.Workflow, error) {
	return uc.WorkflowRepo.GetWorkflowByID(ctx, id)
}

func (uc *DefaultWorkflowUsecase) GetActiveWorkflowByCategory(ctx context.Context, category domain.Category) (*domain.Workflow, error) {
	return uc.WorkflowRepo.GetActiveWorkflowByCategory(ctx, category)
}

func (uc *DefaultWorkflowUsecase) ListWorkflows(ctx context.Context) ([]*domain.Workflow, error) {
	return uc.WorkflowRepo.ListWorkflows(ctx)
}

func (uc *DefaultWorkflowUsecase) ActivateWorkflow(ctx context.Context, id string) error {
	if err := uc.WorkflowRepo.ActivateWorkflow(ctx, id); err != nil {
		return err
	}
	slog.Info("workflow activated", "workflow_id", id)
	return nil
}
