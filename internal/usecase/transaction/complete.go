package transaction

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/proc-track/workflow-service/internal/domain"
	transactiondto "github.com/proc-track/workflow-service/internal/usecase/dto/transaction"
)

// Complete closes the transaction at the final workflow step, clears the
// routing pointers and opportunistically recomputes the owning procurement's
// derived status.
func (uc *DefaultTransactionUsecase) Complete(ctx context.Context, input *transactiondto.CompleteInput) error {
	txn, err := uc.TxnRepo.GetTransactionByID(ctx, input.TransactionID)
	if err != nil {
		return err
	}
	actor, err := uc.Directory.GetUserByID(ctx, input.ActingUserID)
	if err != nil {
		return fmt.Errorf("failed to resolve acting user: %w", err)
	}

	if txn.Status != domain.StatusInProgress {
		return domain.NewInvalidState("complete", txn.Status, "transaction is not in progress")
	}
	if txn.ReceivedAt == nil {
		return domain.NewInvalidState("complete", txn.Status, "transaction has not been received at the current office")
	}
	if txn.CurrentOffice != actor.OfficeID {
		return domain.NewInvalidState("complete", txn.Status, "transaction is not held by the acting user's office")
	}

	if txn.WorkflowID == "" || txn.CurrentStepID == "" {
		return domain.NewInvalidState("complete", txn.Status, "transaction has no workflow step to complete at")
	}
	workflow, err := uc.WorkflowRepo.GetWorkflowByID(ctx, txn.WorkflowID)
	if err != nil {
		return fmt.Errorf("failed to load workflow: %w", err)
	}
	currentStep := workflow.StepByID(txn.CurrentStepID)
	if currentStep == nil || !currentStep.IsFinalStep {
		return domain.NewInvalidState("complete", txn.Status, "cannot complete before the final step")
	}

	now := uc.Now()
	action := &domain.TransactionAction{
		ID:             uuid.New().String(),
		TransactionID:  txn.ID,
		ActionType:     domain.ActionComplete,
		FromOfficeID:   txn.CurrentOffice,
		FromUserID:     actor.ID,
		ActionTakenID:  input.ActionTakenID,
		WorkflowStepID: currentStep.ID,
		Notes:          input.Notes,
		IPAddress:      input.IPAddress,
		CreatedAt:      now,
	}

	guard := domain.TransitionGuard{Status: domain.StatusInProgress}
	receivedNull := false
	guard.ReceivedAtNull = &receivedNull

	oldStatus := txn.Status
	txn.Status = domain.StatusCompleted
	txn.CurrentStepID = ""
	txn.CurrentOffice = ""
	txn.CurrentUserID = ""
	txn.UpdatedAt = now

	history := &domain.StatusChange{
		ID:            uuid.New().String(),
		TransactionID: txn.ID,
		OldStatus:     oldStatus,
		NewStatus:     domain.StatusCompleted,
		Reason:        "Completed at final workflow step",
		ChangedByID:   actor.ID,
		CreatedAt:     now,
	}

	if err := uc.TxnRepo.ApplyTransition(ctx, txn, guard, action, history); err != nil {
		return err
	}

	uc.Metrics.RecordAction(string(domain.ActionComplete))
	if uc.Metrics != nil {
		uc.Metrics.TransactionsCompletedTotal.WithLabelValues(string(txn.Category)).Inc()
	}
	slog.Info("transaction completed",
		"transaction_id", txn.ID,
		"reference", txn.ReferenceNumber,
		"category", txn.Category,
	)

	uc.publish(domain.TransactionCompleted{
		TransactionID: txn.ID,
		Reference:     txn.ReferenceNumber,
		Category:      txn.Category,
		CreatorID:     txn.CreatedByID,
		ActorID:       actor.ID,
		CompletedAt:   now,
	})
	uc.publish(domain.TransactionStatusChanged{
		TransactionID: txn.ID,
		Reference:     txn.ReferenceNumber,
		Category:      txn.Category,
		OldStatus:     oldStatus,
		NewStatus:     domain.StatusCompleted,
		Reason:        history.Reason,
		CreatorID:     txn.CreatedByID,
		ActorID:       actor.ID,
		ChangedAt:     now,
	})

	// The transition is already committed; the cascade is best-effort and a
	// failure here must not fail the completion.
	if txn.ProcurementID != "" {
		if err := uc.recomputeProcurementStatus(ctx, txn.ProcurementID); err != nil {
			slog.Error("failed to recompute procurement status",
				"procurement_id", txn.ProcurementID,
				"transaction_id", txn.ID,
				"error", err.Error(),
			)
		}
	}

	return nil
}

// recomputeProcurementStatus rederives the procurement status from scratch
// over its linked transactions and persists it only when it changed.
func (uc *DefaultTransactionUsecase) recomputeProcurementStatus(ctx context.Context, procurementID string) error {
	procurement, err := uc.ProcurementRepo.GetProcurementByID(ctx, procurementID)
	if err != nil {
		return err
	}

	derived := procurement.DeriveStatus()
	if derived == procurement.Status {
		return nil
	}

	now := uc.Now()
	history := &domain.ProcurementStatusChange{
		ID:            uuid.New().String(),
		ProcurementID: procurement.ID,
		OldStatus:     procurement.Status,
		NewStatus:     derived,
		Reason:        "All linked transactions completed",
		CreatedAt:     now,
	}
	if err := uc.ProcurementRepo.UpdateProcurementStatus(ctx, procurement.ID, derived, history); err != nil {
		return err
	}

	slog.Info("procurement status recomputed",
		"procurement_id", procurement.ID,
		"old_status", procurement.Status,
		"new_status", derived,
	)
	return nil
}
