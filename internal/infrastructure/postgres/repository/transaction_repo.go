package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/proc-track/workflow-service/internal/domain"
	"github.com/proc-track/workflow-service/internal/infrastructure/postgres/mappers"
	"github.com/proc-track/workflow-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultTransactionRepository struct {
	DB *gorm.DB
}

func NewDefaultTransactionRepository(db *gorm.DB) *DefaultTransactionRepository {
	return &DefaultTransactionRepository{DB: db}
}

func (r *DefaultTransactionRepository) CreateTransaction(ctx context.Context, txn *domain.Transaction) error {
	if err := r.DB.WithContext(ctx).Create(mappers.ToGORMTransaction(txn)).Error; err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

func (r *DefaultTransactionRepository) GetTransactionByID(ctx context.Context, id string) (*domain.Transaction, error) {
	var m models.TransactionModel
	if err := r.DB.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return mappers.ToDomainTransaction(&m), nil
}

// routingColumns are the columns ApplyTransition is allowed to touch.
// Selecting them explicitly makes gorm write NULLs and zero values too.
var routingColumns = []string{
	"status",
	"current_step_id",
	"current_office_id",
	"current_user_id",
	"received_at",
	"endorsed_at",
	"updated_at",
}

func (r *DefaultTransactionRepository) ApplyTransition(
	ctx context.Context,
	txn *domain.Transaction,
	guard domain.TransitionGuard,
	action *domain.TransactionAction,
	history *domain.StatusChange,
) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.TransactionModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&current, "id = ?", txn.ID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}

		// Re-check the state the transition was validated against. A losing
		// racer fails here instead of silently overwriting the winner.
		if domain.TransactionStatus(current.Status) != guard.Status {
			return domain.ErrStateConflict
		}
		if guard.ReceivedAtNull != nil && (current.ReceivedAt == nil) != *guard.ReceivedAtNull {
			return domain.ErrStateConflict
		}

		if err := tx.Model(&models.TransactionModel{}).
			Where("id = ?", txn.ID).
			Select(routingColumns).
			Updates(mappers.ToGORMTransaction(txn)).Error; err != nil {
			return fmt.Errorf("failed to update transaction: %w", err)
		}

		if err := tx.Create(mappers.ToGORMAction(action)).Error; err != nil {
			return fmt.Errorf("failed to append action: %w", err)
		}

		if history != nil {
			if err := tx.Create(mappers.ToGORMStatusChange(history)).Error; err != nil {
				return fmt.Errorf("failed to record status change: %w", err)
			}
		}

		return nil
	})
}

func (r *DefaultTransactionRepository) ListTransactions(
	ctx context.Context,
	filter domain.TransactionFilter,
	page, limit int64,
) ([]*domain.Transaction, int64, error) {
	var transactionModels []models.TransactionModel
	var total int64

	baseQuery := r.DB.WithContext(ctx).Model(&models.TransactionModel{})

	if len(filter.Statuses) > 0 {
		baseQuery = baseQuery.Where("status IN (?)", filter.Statuses)
	}
	if filter.Category != "" {
		baseQuery = baseQuery.Where("category = ?", filter.Category)
	}
	if filter.OfficeID != "" {
		baseQuery = baseQuery.Where("current_office_id = ?", filter.OfficeID)
	}
	if filter.CreatedBy != "" {
		baseQuery = baseQuery.Where("created_by_id = ?", filter.CreatedBy)
	}
	if filter.Reference != "" {
		baseQuery = baseQuery.Where("reference_number = ?", filter.Reference)
	}
	if !filter.DateFrom.IsZero() {
		baseQuery = baseQuery.Where("created_at >= ?", filter.DateFrom)
	}
	if !filter.DateTo.IsZero() {
		baseQuery = baseQuery.Where("created_at <= ?", filter.DateTo)
	}

	if err := baseQuery.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	offset := (page - 1) * limit
	if err := baseQuery.
		Order("created_at DESC").
		Offset(int(offset)).
		Limit(int(limit)).
		Find(&transactionModels).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to find transactions: %w", err)
	}

	transactions := make([]*domain.Transaction, len(transactionModels))
	for i := range transactionModels {
		transactions[i] = mappers.ToDomainTransaction(&transactionModels[i])
	}
	return transactions, total, nil
}

func (r *DefaultTransactionRepository) ListActions(ctx context.Context, transactionID string) ([]*domain.TransactionAction, error) {
	var actionModels []models.TransactionActionModel
	if err := r.DB.WithContext(ctx).
		Where("transaction_id = ?", transactionID).
		Order("created_at ASC").
		Find(&actionModels).Error; err != nil {
		return nil, err
	}

	actions := make([]*domain.TransactionAction, len(actionModels))
	for i := range actionModels {
		actions[i] = mappers.ToDomainAction(&actionModels[i])
	}
	return actions, nil
}

func (r *DefaultTransactionRepository) LastActionOfType(ctx context.Context, transactionID string, actionType domain.ActionType) (*domain.TransactionAction, error) {
	var m models.TransactionActionModel
	err := r.DB.WithContext(ctx).
		Where("transaction_id = ? AND action_type = ?", transactionID, actionType).
		Order("created_at DESC").
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return mappers.ToDomainAction(&m), nil
}

func (r *DefaultTransactionRepository) FindOverdueCandidates(ctx context.Context) ([]*domain.Transaction, error) {
	var transactionModels []models.TransactionModel
	if err := r.DB.WithContext(ctx).
		Where("status = ?", domain.StatusInProgress).
		Where("received_at IS NOT NULL").
		Where("current_step_id IS NOT NULL").
		Find(&transactionModels).Error; err != nil {
		return nil, err
	}

	transactions := make([]*domain.Transaction, len(transactionModels))
	for i := range transactionModels {
		transactions[i] = mappers.ToDomainTransaction(&transactionModels[i])
	}
	return transactions, nil
}

func (r *DefaultTransactionRepository) MarkOverdueNotified(ctx context.Context, transactionID string, at time.Time) error {
	return r.DB.WithContext(ctx).
		Model(&models.TransactionModel{}).
		Where("id = ?", transactionID).
		Update("last_overdue_notified_at", at).Error
}
