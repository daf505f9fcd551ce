package transaction

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/proc-track/workflow-service/internal/domain"
	transactiondto "github.com/proc-track/workflow-service/internal/usecase/dto/transaction"
	"github.com/stretchr/testify/require"
)

// The fixtures below model the routing scenario used throughout this
// package's tests: a three step workflow A -> B -> C for PR documents, with
// one user per office and one administrator.

var testNow = time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC) // a Monday

type fakeTxnRepo struct {
	mu      sync.Mutex
	txns    map[string]*domain.Transaction
	actions []*domain.TransactionAction
	history []*domain.StatusChange

	// failNextTransition simulates a losing racer in ApplyTransition.
	failNextTransition bool
}

func newFakeTxnRepo() *fakeTxnRepo {
	return &fakeTxnRepo{txns: map[string]*domain.Transaction{}}
}

func (r *fakeTxnRepo) CreateTransaction(ctx context.Context, txn *domain.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *txn
	r.txns[txn.ID] = &cp
	return nil
}

func (r *fakeTxnRepo) GetTransactionByID(ctx context.Context, id string) (*domain.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	txn, ok := r.txns[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *txn
	return &cp, nil
}

func (r *fakeTxnRepo) ListTransactions(ctx context.Context, filter domain.TransactionFilter, page, limit int64) ([]*domain.Transaction, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Transaction, 0, len(r.txns))
	for _, txn := range r.txns {
		cp := *txn
		out = append(out, &cp)
	}
	return out, int64(len(out)), nil
}

func (r *fakeTxnRepo) ApplyTransition(ctx context.Context, txn *domain.Transaction, guard domain.TransitionGuard, action *domain.TransactionAction, history *domain.StatusChange) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failNextTransition {
		r.failNextTransition = false
		return domain.ErrStateConflict
	}

	stored, ok := r.txns[txn.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if stored.Status != guard.Status {
		return domain.ErrStateConflict
	}
	if guard.ReceivedAtNull != nil && (stored.ReceivedAt == nil) != *guard.ReceivedAtNull {
		return domain.ErrStateConflict
	}

	cp := *txn
	r.txns[txn.ID] = &cp
	r.actions = append(r.actions, action)
	if history != nil {
		r.history = append(r.history, history)
	}
	return nil
}

func (r *fakeTxnRepo) ListActions(ctx context.Context, transactionID string) ([]*domain.TransactionAction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*domain.TransactionAction{}
	for _, a := range r.actions {
		if a.TransactionID == transactionID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeTxnRepo) LastActionOfType(ctx context.Context, transactionID string, actionType domain.ActionType) (*domain.TransactionAction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.actions) - 1; i >= 0; i-- {
		a := r.actions[i]
		if a.TransactionID == transactionID && a.ActionType == actionType {
			return a, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeTxnRepo) FindOverdueCandidates(ctx context.Context) ([]*domain.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*domain.Transaction{}
	for _, txn := range r.txns {
		if txn.Status == domain.StatusInProgress && txn.ReceivedAt != nil && txn.CurrentStepID != "" {
			cp := *txn
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeTxnRepo) MarkOverdueNotified(ctx context.Context, transactionID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	txn, ok := r.txns[transactionID]
	if !ok {
		return domain.ErrNotFound
	}
	stamp := at
	txn.LastOverdueNotifiedAt = &stamp
	return nil
}

type fakeWorkflowRepo struct {
	domain.WorkflowRepository
	workflows map[string]*domain.Workflow
}

func (r *fakeWorkflowRepo) GetWorkflowByID(ctx context.Context, id string) (*domain.Workflow, error) {
	if wf, ok := r.workflows[id]; ok {
		return wf, nil
	}
	return nil, domain.ErrNotFound
}

func (r *fakeWorkflowRepo) GetActiveWorkflowByCategory(ctx context.Context, category domain.Category) (*domain.Workflow, error) {
	for _, wf := range r.workflows {
		if wf.Category == category && wf.IsActive {
			return wf, nil
		}
	}
	return nil, domain.ErrNotFound
}

type fakeProcurementRepo struct {
	procurement   *domain.Procurement
	statusUpdates []domain.ProcurementStatus
	histories     []*domain.ProcurementStatusChange
}

func (r *fakeProcurementRepo) GetProcurementByID(ctx context.Context, id string) (*domain.Procurement, error) {
	if r.procurement == nil || r.procurement.ID != id {
		return nil, domain.ErrNotFound
	}
	return r.procurement, nil
}

func (r *fakeProcurementRepo) UpdateProcurementStatus(ctx context.Context, id string, status domain.ProcurementStatus, history *domain.ProcurementStatusChange) error {
	r.procurement.Status = status
	r.statusUpdates = append(r.statusUpdates, status)
	r.histories = append(r.histories, history)
	return nil
}

type fakeDirectory struct {
	domain.DirectoryRepository
	users   map[string]*domain.User
	offices map[string]*domain.Office
}

func (r *fakeDirectory) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

func (r *fakeDirectory) GetOfficeByID(ctx context.Context, id string) (*domain.Office, error) {
	if o, ok := r.offices[id]; ok {
		return o, nil
	}
	return nil, domain.ErrNotFound
}

func (r *fakeDirectory) ListAdministrators(ctx context.Context) ([]*domain.User, error) {
	out := []*domain.User{}
	for _, u := range r.users {
		if u.IsAdministrator() {
			out = append(out, u)
		}
	}
	return out, nil
}

type recordingBus struct {
	mu     sync.Mutex
	events []domain.Event
}

func (b *recordingBus) Publish(event domain.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
}

func (b *recordingBus) byName(name string) []domain.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := []domain.Event{}
	for _, e := range b.events {
		if e.EventName() == name {
			out = append(out, e)
		}
	}
	return out
}

type harness struct {
	uc           *DefaultTransactionUsecase
	txnRepo      *fakeTxnRepo
	workflowRepo *fakeWorkflowRepo
	procRepo     *fakeProcurementRepo
	directory    *fakeDirectory
	bus          *recordingBus
	now          time.Time
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	h := &harness{
		txnRepo: newFakeTxnRepo(),
		workflowRepo: &fakeWorkflowRepo{workflows: map[string]*domain.Workflow{
			"wf-1": {
				ID:       "wf-1",
				Name:     "PR routing",
				Category: domain.CategoryPR,
				IsActive: true,
				Steps: []domain.WorkflowStep{
					{ID: "s1", WorkflowID: "wf-1", OfficeID: "office-a", StepOrder: 1, ExpectedDays: 2},
					{ID: "s2", WorkflowID: "wf-1", OfficeID: "office-b", StepOrder: 2, ExpectedDays: 3},
					{ID: "s3", WorkflowID: "wf-1", OfficeID: "office-c", StepOrder: 3, ExpectedDays: 1, IsFinalStep: true},
				},
			},
		}},
		procRepo: &fakeProcurementRepo{},
		directory: &fakeDirectory{users: map[string]*domain.User{
			"u-a":     {ID: "u-a", Name: "Alice", Role: domain.RoleEndorser, OfficeID: "office-a"},
			"u-b":     {ID: "u-b", Name: "Bob", Role: domain.RoleEndorser, OfficeID: "office-b"},
			"u-c":     {ID: "u-c", Name: "Carol", Role: domain.RoleEndorser, OfficeID: "office-c"},
			"u-d":     {ID: "u-d", Name: "Dave", Role: domain.RoleEndorser, OfficeID: "office-d"},
			"u-admin": {ID: "u-admin", Name: "Root", Role: domain.RoleAdministrator, OfficeID: "office-a"},
		}, offices: map[string]*domain.Office{
			"office-a": {ID: "office-a", Name: "Supply Office"},
			"office-b": {ID: "office-b", Name: "Budget Office"},
			"office-c": {ID: "office-c", Name: "Accounting Office"},
		}},
		bus: &recordingBus{},
		now: testNow,
	}

	uc, err := NewDefaultTransactionUsecase(
		h.txnRepo,
		h.workflowRepo,
		h.procRepo,
		h.directory,
		h.bus,
		nil,
		func() time.Time { return h.now },
		nil,
		Options{IdleThresholdDays: 2, OverdueDebounce: 24 * time.Hour},
	)
	require.NoError(t, err)
	h.uc = uc
	return h
}

// seedTransaction stores a transaction bound to the three step workflow.
func (h *harness) seedTransaction(t *testing.T, mutate func(*domain.Transaction)) *domain.Transaction {
	t.Helper()
	txn := &domain.Transaction{
		ID:              "t-1",
		ReferenceNumber: "PR-TEST0001",
		Category:        domain.CategoryPR,
		Title:           "Office chairs",
		Status:          domain.StatusCreated,
		WorkflowID:      "wf-1",
		CreatedByID:     "u-a",
		OriginOffID:     "office-a",
		CreatedAt:       testNow,
		UpdatedAt:       testNow,
	}
	if mutate != nil {
		mutate(txn)
	}
	require.NoError(t, h.txnRepo.CreateTransaction(context.Background(), txn))
	return txn
}

// endorseTo drives one endorse as the given user.
func (h *harness) endorseTo(t *testing.T, txnID, actorID, toOfficeID string) error {
	t.Helper()
	return h.uc.Endorse(context.Background(), &transactiondto.EndorseInput{
		TransactionID: txnID,
		ActingUserID:  actorID,
		ActionTakenID: "at-1",
		ToOfficeID:    toOfficeID,
	})
}

func (h *harness) receiveAs(t *testing.T, txnID, actorID string) error {
	t.Helper()
	return h.uc.Receive(context.Background(), &transactiondto.ReceiveInput{
		TransactionID: txnID,
		ActingUserID:  actorID,
	})
}

func (h *harness) stored(t *testing.T, txnID string) *domain.Transaction {
	t.Helper()
	txn, err := h.txnRepo.GetTransactionByID(context.Background(), txnID)
	require.NoError(t, err)
	return txn
}
