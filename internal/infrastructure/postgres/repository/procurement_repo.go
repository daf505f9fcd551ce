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

type DefaultProcurementRepository struct {
	DB *gorm.DB
}

func NewDefaultProcurementRepository(db *gorm.DB) *DefaultProcurementRepository {
	return &DefaultProcurementRepository{DB: db}
}

func (r *DefaultProcurementRepository) GetProcurementByID(ctx context.Context, id string) (*domain.Procurement, error) {
	var m models.ProcurementModel
	if err := r.DB.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	procurement := mappers.ToDomainProcurement(&m)

	var linked []models.TransactionModel
	if err := r.DB.WithContext(ctx).
		Where("procurement_id = ?", id).
		Find(&linked).Error; err != nil {
		return nil, fmt.Errorf("failed to load linked transactions: %w", err)
	}
	for i := range linked {
		txn := mappers.ToDomainTransaction(&linked[i])
		switch txn.Category {
		case domain.CategoryPR:
			procurement.PR = txn
		case domain.CategoryPO:
			procurement.PO = txn
		case domain.CategoryVCH:
			procurement.VCH = txn
		}
	}

	return procurement, nil
}

func (r *DefaultProcurementRepository) UpdateProcurementStatus(
	ctx context.Context,
	id string,
	status domain.ProcurementStatus,
	history *domain.ProcurementStatusChange,
) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.ProcurementModel{}).
			Where("id = ?", id).
			Update("status", status).Error; err != nil {
			return fmt.Errorf("failed to update procurement status: %w", err)
		}
		if history != nil {
			m := &models.ProcurementStatusChangeModel{
				ID:            history.ID,
				ProcurementID: history.ProcurementID,
				OldStatus:     string(history.OldStatus),
				NewStatus:     string(history.NewStatus),
				Reason:        history.Reason,
				CreatedAt:     history.CreatedAt,
			}
			if err := tx.Create(m).Error; err != nil {
				return fmt.Errorf("failed to record procurement status change: %w", err)
			}
		}
		return nil
	})
}
