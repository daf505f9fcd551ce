package domain

import (
	"context"
	"time"
)

// Clock is the injectable time source; production wires time.Now.
type Clock func() time.Time

// TransitionGuard pins the state a transition was validated against. The
// repository re-checks it under a row lock inside the write transaction, so
// two actors racing on the same document cannot both succeed.
type TransitionGuard struct {
	Status TransactionStatus
	// ReceivedAtNull, when set, asserts received_at IS NULL (true) or
	// IS NOT NULL (false) at commit time.
	ReceivedAtNull *bool
}

type TransactionRepository interface {
	CreateTransaction(ctx context.Context, txn *Transaction) error
	GetTransactionByID(ctx context.Context, id string) (*Transaction, error)
	ListTransactions(ctx context.Context, filter TransactionFilter, page, limit int64) ([]*Transaction, int64, error)

	// ApplyTransition atomically persists one state transition: the routing
	// columns of txn, the appended action, and the optional status-history
	// row commit together or not at all.
	ApplyTransition(ctx context.Context, txn *Transaction, guard TransitionGuard, action *TransactionAction, history *StatusChange) error

	ListActions(ctx context.Context, transactionID string) ([]*TransactionAction, error)
	LastActionOfType(ctx context.Context, transactionID string, actionType ActionType) (*TransactionAction, error)

	FindOverdueCandidates(ctx context.Context) ([]*Transaction, error)
	MarkOverdueNotified(ctx context.Context, transactionID string, at time.Time) error
}

type WorkflowRepository interface {
	CreateWorkflow(ctx context.Context, workflow *Workflow) error
	UpdateWorkflow(ctx context.Context, workflow *Workflow) error
	GetWorkflowByID(ctx context.Context, id string) (*Workflow, error)
	GetActiveWorkflowByCategory(ctx context.Context, category Category) (*Workflow, error)
	ListWorkflows(ctx context.Context) ([]*Workflow, error)
	// ActivateWorkflow marks the workflow active and deactivates any other
	// workflow of the same category in the same database transaction.
	ActivateWorkflow(ctx context.Context, id string) error
}

type ProcurementRepository interface {
	GetProcurementByID(ctx context.Context, id string) (*Procurement, error)
	UpdateProcurementStatus(ctx context.Context, id string, status ProcurementStatus, history *ProcurementStatusChange) error
}

type DirectoryRepository interface {
	GetUserByID(ctx context.Context, id string) (*User, error)
	GetOfficeByID(ctx context.Context, id string) (*Office, error)
	ListAdministrators(ctx context.Context) ([]*User, error)
	ListUsersByOffice(ctx context.Context, officeID string) ([]*User, error)
}

type NotificationRepository interface {
	CreateNotifications(ctx context.Context, notifications []*Notification) error
}
