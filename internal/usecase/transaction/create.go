package transaction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/proc-track/workflow-service/internal/domain"
	transactiondto "github.com/proc-track/workflow-service/internal/usecase/dto/transaction"
)

// Create registers a new transaction in status Created with no routing
// pointers. The active workflow of the category is bound at creation time so
// the first endorsement can resolve the expected route.
func (uc *DefaultTransactionUsecase) Create(ctx context.Context, input *transactiondto.CreateTransactionInput) (*domain.Transaction, error) {
	category := domain.Category(input.Category)
	if !category.IsValid() {
		return nil, fmt.Errorf("unknown document category %q", input.Category)
	}

	creator, err := uc.Directory.GetUserByID(ctx, input.CreatedByID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve creator: %w", err)
	}

	workflowID := ""
	workflow, err := uc.WorkflowRepo.GetActiveWorkflowByCategory(ctx, category)
	switch {
	case err == nil:
		workflowID = workflow.ID
	case errors.Is(err, domain.ErrNotFound):
		// Allowed: the transaction routes without step tracking until an
		// administrator configures a workflow for the category.
		slog.Warn("no active workflow for category", "category", category)
	default:
		return nil, fmt.Errorf("failed to resolve workflow: %w", err)
	}

	now := uc.Now()
	txn := &domain.Transaction{
		ID:              uuid.New().String(),
		ReferenceNumber: fmt.Sprintf("%s-%s", category, uc.newReference()),
		Category:        category,
		Title:           input.Title,
		Amount:          input.Amount,
		Status:          domain.StatusCreated,
		ProcurementID:   input.ProcurementID,
		WorkflowID:      workflowID,
		CreatedByID:     creator.ID,
		OriginOffID:     creator.OfficeID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := uc.TxnRepo.CreateTransaction(ctx, txn); err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	if uc.Metrics != nil {
		uc.Metrics.TransactionsCreatedTotal.WithLabelValues(string(category)).Inc()
	}
	slog.Info("transaction created",
		"transaction_id", txn.ID,
		"reference", txn.ReferenceNumber,
		"category", txn.Category,
		"workflow_id", workflowID,
	)

	return txn, nil
}
