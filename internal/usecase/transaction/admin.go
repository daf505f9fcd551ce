package transaction

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/proc-track/workflow-service/internal/domain"
	transactiondto "github.com/proc-track/workflow-service/internal/usecase/dto/transaction"
)

// Hold, Cancel and Resume toggle the status without touching the routing
// pointers. They are administrator operations; role checks happen upstream,
// state eligibility is enforced here.

func (uc *DefaultTransactionUsecase) Hold(ctx context.Context, input *transactiondto.StatusChangeInput) error {
	if input.Reason == "" {
		return domain.ErrReasonRequired
	}
	return uc.changeStatus(ctx, input, domain.ActionHold, domain.StatusOnHold, input.Reason,
		domain.StatusCreated, domain.StatusInProgress)
}

// Cancel is terminal: no further routing action succeeds afterwards.
func (uc *DefaultTransactionUsecase) Cancel(ctx context.Context, input *transactiondto.StatusChangeInput) error {
	if input.Reason == "" {
		return domain.ErrReasonRequired
	}
	return uc.changeStatus(ctx, input, domain.ActionCancel, domain.StatusCancelled, input.Reason,
		domain.StatusCreated, domain.StatusInProgress, domain.StatusOnHold)
}

func (uc *DefaultTransactionUsecase) Resume(ctx context.Context, input *transactiondto.StatusChangeInput) error {
	reason := input.Reason
	if reason == "" {
		reason = "Resumed by administrator"
	}
	return uc.changeStatus(ctx, input, domain.ActionResume, domain.StatusInProgress, reason,
		domain.StatusOnHold)
}

func (uc *DefaultTransactionUsecase) changeStatus(
	ctx context.Context,
	input *transactiondto.StatusChangeInput,
	actionType domain.ActionType,
	newStatus domain.TransactionStatus,
	reason string,
	allowedFrom ...domain.TransactionStatus,
) error {
	txn, err := uc.TxnRepo.GetTransactionByID(ctx, input.TransactionID)
	if err != nil {
		return err
	}
	actor, err := uc.Directory.GetUserByID(ctx, input.ActingUserID)
	if err != nil {
		return fmt.Errorf("failed to resolve acting user: %w", err)
	}

	allowed := false
	for _, s := range allowedFrom {
		if txn.Status == s {
			allowed = true
			break
		}
	}
	if !allowed {
		return domain.NewInvalidState(string(actionType), txn.Status,
			fmt.Sprintf("cannot %s a transaction in this status", actionType))
	}

	now := uc.Now()
	action := &domain.TransactionAction{
		ID:             uuid.New().String(),
		TransactionID:  txn.ID,
		ActionType:     actionType,
		FromOfficeID:   txn.CurrentOffice,
		FromUserID:     actor.ID,
		WorkflowStepID: txn.CurrentStepID,
		Reason:         reason,
		IPAddress:      input.IPAddress,
		CreatedAt:      now,
	}

	guard := domain.TransitionGuard{Status: txn.Status}

	oldStatus := txn.Status
	txn.Status = newStatus
	txn.UpdatedAt = now

	history := &domain.StatusChange{
		ID:            uuid.New().String(),
		TransactionID: txn.ID,
		OldStatus:     oldStatus,
		NewStatus:     newStatus,
		Reason:        reason,
		ChangedByID:   actor.ID,
		CreatedAt:     now,
	}

	if err := uc.TxnRepo.ApplyTransition(ctx, txn, guard, action, history); err != nil {
		return err
	}

	uc.Metrics.RecordAction(string(actionType))
	slog.Info("transaction status changed",
		"transaction_id", txn.ID,
		"reference", txn.ReferenceNumber,
		"old_status", oldStatus,
		"new_status", newStatus,
		"reason", reason,
	)

	uc.publish(domain.TransactionStatusChanged{
		TransactionID: txn.ID,
		Reference:     txn.ReferenceNumber,
		Category:      txn.Category,
		OldStatus:     oldStatus,
		NewStatus:     newStatus,
		Reason:        reason,
		CreatorID:     txn.CreatedByID,
		ActorID:       actor.ID,
		ChangedAt:     now,
	})

	return nil
}
