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

// Receive acknowledges arrival at the acting user's office. An in-workflow
// arrival advances the step pointer by exactly one order; an out-of-workflow
// arrival leaves the pointer untouched: the document is off the rails and no
// automatic progression happens.
func (uc *DefaultTransactionUsecase) Receive(ctx context.Context, input *transactiondto.ReceiveInput) error {
	txn, err := uc.TxnRepo.GetTransactionByID(ctx, input.TransactionID)
	if err != nil {
		return err
	}
	actor, err := uc.Directory.GetUserByID(ctx, input.ActingUserID)
	if err != nil {
		return fmt.Errorf("failed to resolve acting user: %w", err)
	}

	if txn.Status != domain.StatusInProgress {
		return domain.NewInvalidState("receive", txn.Status, "transaction is not in progress")
	}
	if txn.CurrentOffice != actor.OfficeID {
		return domain.NewInvalidState("receive", txn.Status, "transaction is not addressed to the acting user's office")
	}
	if txn.ReceivedAt != nil {
		return domain.NewInvalidState("receive", txn.Status, "transaction has already been received")
	}

	lastEndorse, err := uc.TxnRepo.LastActionOfType(ctx, txn.ID, domain.ActionEndorse)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("failed to load endorsement trail: %w", err)
	}
	senderID := ""
	outOfWorkflow := false
	if lastEndorse != nil {
		senderID = lastEndorse.FromUserID
		outOfWorkflow = lastEndorse.IsOutOfWorkflow
	}

	// An arrival that followed the configured route advances the pointer onto
	// the step matching the office just arrived at. An out-of-workflow arrival
	// leaves it where it was.
	if !outOfWorkflow && txn.WorkflowID != "" && txn.CurrentStepID != "" {
		workflow, err := uc.WorkflowRepo.GetWorkflowByID(ctx, txn.WorkflowID)
		if err != nil {
			return fmt.Errorf("failed to load workflow: %w", err)
		}
		if current := workflow.StepByID(txn.CurrentStepID); current != nil {
			if next := workflow.NextStep(current); next != nil {
				txn.CurrentStepID = next.ID
			}
		}
	}

	now := uc.Now()
	action := &domain.TransactionAction{
		ID:              uuid.New().String(),
		TransactionID:   txn.ID,
		ActionType:      domain.ActionReceive,
		FromOfficeID:    firstNonEmpty(lastEndorseFromOffice(lastEndorse), txn.CurrentOffice),
		ToOfficeID:      txn.CurrentOffice,
		FromUserID:      senderID,
		ToUserID:        actor.ID,
		WorkflowStepID:  txn.CurrentStepID,
		IsOutOfWorkflow: outOfWorkflow,
		IPAddress:       input.IPAddress,
		CreatedAt:       now,
	}

	guard := domain.TransitionGuard{Status: domain.StatusInProgress}
	receivedNull := true
	guard.ReceivedAtNull = &receivedNull

	txn.CurrentUserID = actor.ID
	txn.ReceivedAt = &now
	txn.UpdatedAt = now

	if err := uc.TxnRepo.ApplyTransition(ctx, txn, guard, action, nil); err != nil {
		return err
	}

	uc.Metrics.RecordAction(string(domain.ActionReceive))
	slog.Info("transaction received",
		"transaction_id", txn.ID,
		"reference", txn.ReferenceNumber,
		"office", txn.CurrentOffice,
		"receiver", actor.ID,
	)

	uc.publish(domain.TransactionReceived{
		TransactionID: txn.ID,
		Reference:     txn.ReferenceNumber,
		Category:      txn.Category,
		OfficeID:      txn.CurrentOffice,
		ReceiverID:    actor.ID,
		SenderID:      senderID,
		ReceivedAt:    now,
	})

	return nil
}

// BulkReceive attempts each transaction independently. Items that fail their
// preconditions (wrong office, already received, wrong status) are skipped
// and reported in the per-item results; the batch itself never fails because
// of them.
func (uc *DefaultTransactionUsecase) BulkReceive(ctx context.Context, input *transactiondto.BulkReceiveInput) (*transactiondto.BulkReceiveResult, error) {
	result := &transactiondto.BulkReceiveResult{
		Results: make([]transactiondto.BulkReceiveItemResult, 0, len(input.TransactionIDs)),
	}

	for _, id := range input.TransactionIDs {
		err := uc.Receive(ctx, &transactiondto.ReceiveInput{
			TransactionID: id,
			ActingUserID:  input.ActingUserID,
			IPAddress:     input.IPAddress,
		})
		item := transactiondto.BulkReceiveItemResult{TransactionID: id, Success: err == nil}
		if err != nil {
			item.Error = err.Error()
			result.Skipped++
			if uc.Metrics != nil {
				uc.Metrics.BulkReceiveSkippedTotal.Inc()
			}
			slog.Warn("bulk receive item skipped", "transaction_id", id, "error", err.Error())
		} else {
			result.Received++
		}
		result.Results = append(result.Results, item)
	}

	return result, nil
}

func lastEndorseFromOffice(action *domain.TransactionAction) string {
	if action == nil {
		return ""
	}
	return action.FromOfficeID
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
