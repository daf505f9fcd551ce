package transaction

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/bsm/redislock"
	"github.com/proc-track/workflow-service/internal/domain"
	"github.com/proc-track/workflow-service/internal/usecase/timeline"
)

const overdueSweepLockKey = "locks:overdue-sweep"

// StartOverdueMonitor runs the overdue sweep on a ticker until ctx is done.
// When a lock client is configured, only the replica holding the lock runs a
// given pass.
func (uc *DefaultTransactionUsecase) StartOverdueMonitor(ctx context.Context) {
	ticker := time.NewTicker(uc.Opts.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			uc.runSweepPass(ctx)
		}
	}
}

func (uc *DefaultTransactionUsecase) runSweepPass(ctx context.Context) {
	if uc.Locker != nil {
		lock, err := uc.Locker.Obtain(ctx, overdueSweepLockKey, uc.Opts.SweepInterval, nil)
		if err == redislock.ErrNotObtained {
			return
		}
		if err != nil {
			slog.Error("overdue sweep lock failed", "error", err.Error())
			return
		}
		defer func() {
			if err := lock.Release(ctx); err != nil {
				slog.Warn("failed to release overdue sweep lock", "error", err.Error())
			}
		}()
	}

	if err := uc.NotifyOverdueTransactions(ctx); err != nil {
		slog.Error("overdue sweep failed", "error", err.Error())
	}
}

// NotifyOverdueTransactions scans the active transactions, computes each
// one's delay with the shared business-day logic, and notifies the current
// holder and the administrators of every overdue document. A transaction
// already notified within the debounce window is skipped, which makes the
// sweep idempotent across repeated or duplicated runs.
func (uc *DefaultTransactionUsecase) NotifyOverdueTransactions(ctx context.Context) error {
	candidates, err := uc.TxnRepo.FindOverdueCandidates(ctx)
	if err != nil {
		return err
	}

	now := uc.Now()
	notified := 0
	for _, txn := range candidates {
		if txn.ReceivedAt == nil || txn.WorkflowID == "" || txn.CurrentStepID == "" {
			continue
		}

		workflow, err := uc.WorkflowRepo.GetWorkflowByID(ctx, txn.WorkflowID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return err
		}
		step := workflow.StepByID(txn.CurrentStepID)
		if step == nil {
			continue
		}

		delayDays, overdue := timeline.Delay(*txn.ReceivedAt, step.ExpectedDays, now)
		if !overdue {
			continue
		}
		if txn.LastOverdueNotifiedAt != nil && now.Sub(*txn.LastOverdueNotifiedAt) < uc.Opts.OverdueDebounce {
			continue
		}

		uc.publish(domain.TransactionOverdue{
			TransactionID: txn.ID,
			Reference:     txn.ReferenceNumber,
			Category:      txn.Category,
			HolderID:      txn.CurrentUserID,
			OfficeID:      txn.CurrentOffice,
			DelayDays:     delayDays,
			DetectedAt:    now,
		})
		if err := uc.TxnRepo.MarkOverdueNotified(ctx, txn.ID, now); err != nil {
			slog.Error("failed to stamp overdue notification", "transaction_id", txn.ID, "error", err.Error())
			continue
		}

		if uc.Metrics != nil {
			uc.Metrics.OverdueNotificationsTotal.Inc()
		}
		notified++
		slog.Info("overdue notice sent",
			"transaction_id", txn.ID,
			"reference", txn.ReferenceNumber,
			"delay_days", delayDays,
		)
	}

	if notified > 0 {
		slog.Info("overdue sweep finished", "candidates", len(candidates), "notified", notified)
	}
	return nil
}
