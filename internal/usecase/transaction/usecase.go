package transaction

import (
	"context"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/jaevor/go-nanoid"
	"github.com/proc-track/workflow-service/internal/domain"
	"github.com/proc-track/workflow-service/internal/infrastructure/metrics"
	transactiondto "github.com/proc-track/workflow-service/internal/usecase/dto/transaction"
)

type TransactionUsecase interface {
	Create(ctx context.Context, input *transactiondto.CreateTransactionInput) (*domain.Transaction, error)

	Endorse(ctx context.Context, input *transactiondto.EndorseInput) error
	Receive(ctx context.Context, input *transactiondto.ReceiveInput) error
	BulkReceive(ctx context.Context, input *transactiondto.BulkReceiveInput) (*transactiondto.BulkReceiveResult, error)
	Complete(ctx context.Context, input *transactiondto.CompleteInput) error

	Hold(ctx context.Context, input *transactiondto.StatusChangeInput) error
	Cancel(ctx context.Context, input *transactiondto.StatusChangeInput) error
	Resume(ctx context.Context, input *transactiondto.StatusChangeInput) error

	GetTransactionByID(ctx context.Context, id string) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, filter domain.TransactionFilter, page, limit int64) ([]*domain.Transaction, int64, error)

	NotifyOverdueTransactions(ctx context.Context) error
}

// Options carries the tunables of the routing service.
type Options struct {
	IdleThresholdDays int
	OverdueDebounce   time.Duration
	SweepInterval     time.Duration
}

// DefaultTransactionUsecase is the single authority for mutating a
// transaction's routing state. Every write goes through
// TransactionRepository.ApplyTransition so the action log, the transaction
// row and the status history commit atomically.
type DefaultTransactionUsecase struct {
	TxnRepo         domain.TransactionRepository
	WorkflowRepo    domain.WorkflowRepository
	ProcurementRepo domain.ProcurementRepository
	Directory       domain.DirectoryRepository
	Bus             domain.EventBus
	Metrics         *metrics.WorkflowMetrics
	Now             domain.Clock
	Locker          *redislock.Client // nil: sweep runs unguarded
	Opts            Options

	newReference func() string
}

func NewDefaultTransactionUsecase(
	txnRepo domain.TransactionRepository,
	workflowRepo domain.WorkflowRepository,
	procurementRepo domain.ProcurementRepository,
	directory domain.DirectoryRepository,
	bus domain.EventBus,
	workflowMetrics *metrics.WorkflowMetrics,
	now domain.Clock,
	locker *redislock.Client,
	opts Options,
) (*DefaultTransactionUsecase, error) {

	refGen, err := nanoid.CustomASCII("0123456789ABCDEFGHJKMNPQRSTUVWXYZ", 8)
	if err != nil {
		return nil, fmt.Errorf("failed to init reference generator: %w", err)
	}

	if opts.IdleThresholdDays <= 0 {
		opts.IdleThresholdDays = 2
	}
	if opts.OverdueDebounce <= 0 {
		opts.OverdueDebounce = 24 * time.Hour
	}
	if opts.SweepInterval <= 0 {
		opts.SweepInterval = 15 * time.Minute
	}

	return &DefaultTransactionUsecase{
		TxnRepo:         txnRepo,
		WorkflowRepo:    workflowRepo,
		ProcurementRepo: procurementRepo,
		Directory:       directory,
		Bus:             bus,
		Metrics:         workflowMetrics,
		Now:             now,
		Locker:          locker,
		Opts:            opts,
		newReference:    refGen,
	}, nil
}

func (uc *DefaultTransactionUsecase) publish(event domain.Event) {
	if uc.Bus != nil {
		uc.Bus.Publish(event)
	}
}
