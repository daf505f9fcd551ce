package transaction

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/proc-track/workflow-service/internal/domain"
	transactiondto "github.com/proc-track/workflow-service/internal/usecase/dto/transaction"
)

// Endorse hands the transaction to another office. The very first endorsement
// also moves the document out of Created, pins the workflow pointer to step 1
// and records a status-history entry.
func (uc *DefaultTransactionUsecase) Endorse(ctx context.Context, input *transactiondto.EndorseInput) error {
	txn, err := uc.TxnRepo.GetTransactionByID(ctx, input.TransactionID)
	if err != nil {
		return err
	}
	actor, err := uc.Directory.GetUserByID(ctx, input.ActingUserID)
	if err != nil {
		return fmt.Errorf("failed to resolve acting user: %w", err)
	}

	first := txn.Status == domain.StatusCreated
	if !first && txn.Status != domain.StatusInProgress {
		return domain.NewInvalidState("endorse", txn.Status, "transaction is not in progress")
	}
	if !first {
		if txn.ReceivedAt == nil {
			return domain.NewInvalidState("endorse", txn.Status, "transaction has not been received at the current office")
		}
		if txn.CurrentOffice != actor.OfficeID {
			return domain.NewInvalidState("endorse", txn.Status, "transaction is not held by the acting user's office")
		}
	}

	var workflow *domain.Workflow
	var currentStep *domain.WorkflowStep
	if txn.WorkflowID != "" {
		workflow, err = uc.WorkflowRepo.GetWorkflowByID(ctx, txn.WorkflowID)
		if err != nil {
			return fmt.Errorf("failed to load workflow: %w", err)
		}
		if first {
			// A created transaction stands at step 1, its origin office.
			currentStep = workflow.FirstStep()
		} else if txn.CurrentStepID != "" {
			currentStep = workflow.StepByID(txn.CurrentStepID)
		}
		if currentStep != nil && currentStep.IsFinalStep {
			return domain.NewInvalidState("endorse", txn.Status, "cannot endorse past the final step")
		}
	}

	// The expected destination is the office of the step after the current one.
	expectedOfficeID := ""
	if workflow != nil && currentStep != nil {
		if next := workflow.NextStep(currentStep); next != nil {
			expectedOfficeID = next.OfficeID
		}
	}
	outOfWorkflow := expectedOfficeID != "" && input.ToOfficeID != expectedOfficeID

	now := uc.Now()
	fromOffice := txn.CurrentOffice
	if first {
		fromOffice = actor.OfficeID
	}

	action := &domain.TransactionAction{
		ID:              uuid.New().String(),
		TransactionID:   txn.ID,
		ActionType:      domain.ActionEndorse,
		FromOfficeID:    fromOffice,
		ToOfficeID:      input.ToOfficeID,
		FromUserID:      actor.ID,
		ActionTakenID:   input.ActionTakenID,
		IsOutOfWorkflow: outOfWorkflow,
		Notes:           input.Notes,
		IPAddress:       input.IPAddress,
		CreatedAt:       now,
	}
	if currentStep != nil {
		action.WorkflowStepID = currentStep.ID
	}

	guard := domain.TransitionGuard{Status: txn.Status}
	receivedNull := first
	guard.ReceivedAtNull = &receivedNull

	var history *domain.StatusChange
	oldStatus := txn.Status
	if first {
		txn.Status = domain.StatusInProgress
		if currentStep != nil {
			txn.CurrentStepID = currentStep.ID
		}
		history = &domain.StatusChange{
			ID:            uuid.New().String(),
			TransactionID: txn.ID,
			OldStatus:     oldStatus,
			NewStatus:     domain.StatusInProgress,
			Reason:        "First endorsement",
			ChangedByID:   actor.ID,
			CreatedAt:     now,
		}
	}
	txn.CurrentOffice = input.ToOfficeID
	txn.CurrentUserID = ""
	txn.EndorsedAt = &now
	txn.ReceivedAt = nil
	txn.UpdatedAt = now

	if err := uc.TxnRepo.ApplyTransition(ctx, txn, guard, action, history); err != nil {
		return err
	}

	uc.Metrics.RecordAction(string(domain.ActionEndorse))
	if outOfWorkflow && uc.Metrics != nil {
		uc.Metrics.OutOfWorkflowEndorsementsTotal.Inc()
	}
	slog.Info("transaction endorsed",
		"transaction_id", txn.ID,
		"reference", txn.ReferenceNumber,
		"to_office", input.ToOfficeID,
		"out_of_workflow", outOfWorkflow,
	)

	uc.publish(domain.TransactionEndorsed{
		TransactionID: txn.ID,
		Reference:     txn.ReferenceNumber,
		Category:      txn.Category,
		FromOfficeID:  fromOffice,
		ToOfficeID:    input.ToOfficeID,
		ActorID:       actor.ID,
		EndorsedAt:    now,
	})
	if outOfWorkflow {
		uc.publish(domain.OutOfWorkflowEndorsement{
			TransactionID:    txn.ID,
			Reference:        txn.ReferenceNumber,
			Category:         txn.Category,
			FromOfficeID:     fromOffice,
			ToOfficeID:       input.ToOfficeID,
			ExpectedOfficeID: expectedOfficeID,
			ActorID:          actor.ID,
			EndorsedAt:       now,
		})
	}
	if first {
		uc.publish(domain.TransactionStatusChanged{
			TransactionID: txn.ID,
			Reference:     txn.ReferenceNumber,
			Category:      txn.Category,
			OldStatus:     oldStatus,
			NewStatus:     domain.StatusInProgress,
			Reason:        "First endorsement",
			CreatorID:     txn.CreatedByID,
			ActorID:       actor.ID,
			ChangedAt:     now,
		})
	}

	return nil
}
