package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/proc-track/workflow-service/internal/domain"
	"github.com/proc-track/workflow-service/internal/infrastructure/postgres/mappers"
	"github.com/proc-track/workflow-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultWorkflowRepository struct {
	DB *gorm.DB
}

func NewDefaultWorkflowRepository(db *gorm.DB) *DefaultWorkflowRepository {
	return &DefaultWorkflowRepository{DB: db}
}

func (r *DefaultWorkflowRepository) CreateWorkflow(ctx context.Context, workflow *domain.Workflow) error {
	if err := r.DB.WithContext(ctx).Create(mappers.ToGORMWorkflow(workflow)).Error; err != nil {
		return fmt.Errorf("failed to insert workflow: %w", err)
	}
	return nil
}

// UpdateWorkflow replaces the step list wholesale inside one transaction.
func (r *DefaultWorkflowRepository) UpdateWorkflow(ctx context.Context, workflow *domain.Workflow) error {
	m := mappers.ToGORMWorkflow(workflow)
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("workflow_id = ?", workflow.ID).Delete(&models.WorkflowStepModel{}).Error; err != nil {
			return fmt.Errorf("failed to clear workflow steps: %w", err)
		}
		steps := m.Steps
		m.Steps = nil
		if err := tx.Model(&models.WorkflowModel{}).
			Where("id = ?", workflow.ID).
			Select("name", "category", "is_active", "updated_at").
			Updates(m).Error; err != nil {
			return fmt.Errorf("failed to update workflow: %w", err)
		}
		if len(steps) > 0 {
			if err := tx.Create(&steps).Error; err != nil {
				return fmt.Errorf("failed to insert workflow steps: %w", err)
			}
		}
		return nil
	})
}

func (r *DefaultWorkflowRepository) GetWorkflowByID(ctx context.Context, id string) (*domain.Workflow, error) {
	var m models.WorkflowModel
	err := r.DB.WithContext(ctx).
		Preload("Steps", func(db *gorm.DB) *gorm.DB {
			return db.Order("workflow_steps.step_order ASC")
		}).
		First(&m, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return mappers.ToDomainWorkflow(&m), nil
}

func (r *DefaultWorkflowRepository) GetActiveWorkflowByCategory(ctx context.Context, category domain.Category) (*domain.Workflow, error) {
	var m models.WorkflowModel
	err := r.DB.WithContext(ctx).
		Preload("Steps", func(db *gorm.DB) *gorm.DB {
			return db.Order("workflow_steps.step_order ASC")
		}).
		Where("category = ? AND is_active = ?", category, true).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return mappers.ToDomainWorkflow(&m), nil
}

func (r *DefaultWorkflowRepository) ListWorkflows(ctx context.Context) ([]*domain.Workflow, error) {
	var workflowModels []models.WorkflowModel
	if err := r.DB.WithContext(ctx).
		Preload("Steps", func(db *gorm.DB) *gorm.DB {
			return db.Order("workflow_steps.step_order ASC")
		}).
		Order("created_at DESC").
		Find(&workflowModels).Error; err != nil {
		return nil, err
	}

	workflows := make([]*domain.Workflow, len(workflowModels))
	for i := range workflowModels {
		workflows[i] = mappers.ToDomainWorkflow(&workflowModels[i])
	}
	return workflows, nil
}

// ActivateWorkflow flips the workflow active and deactivates any other
// workflow of the same category atomically, keeping at most one active
// workflow per category.
func (r *DefaultWorkflowRepository) ActivateWorkflow(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m models.WorkflowModel
		if err := tx.First(&m, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}

		if err := tx.Model(&models.WorkflowModel{}).
			Where("category = ? AND id <> ?", m.Category, id).
			Update("is_active", false).Error; err != nil {
			return fmt.Errorf("failed to deactivate workflows: %w", err)
		}

		return tx.Model(&models.WorkflowModel{}).
			Where("id = ?", id).
			Update("is_active", true).Error
	})
}
