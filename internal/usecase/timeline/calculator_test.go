package timeline

import (
	"context"
	"testing"
	"time"

	"github.com/proc-track/workflow-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTxnReader struct {
	domain.TransactionRepository
	txn     *domain.Transaction
	actions []*domain.TransactionAction
}

func (f *fakeTxnReader) GetTransactionByID(ctx context.Context, id string) (*domain.Transaction, error) {
	if f.txn == nil || f.txn.ID != id {
		return nil, domain.ErrNotFound
	}
	return f.txn, nil
}

func (f *fakeTxnReader) ListActions(ctx context.Context, transactionID string) ([]*domain.TransactionAction, error) {
	return f.actions, nil
}

type fakeWorkflowReader struct {
	domain.WorkflowRepository
	workflow *domain.Workflow
}

func (f *fakeWorkflowReader) GetWorkflowByID(ctx context.Context, id string) (*domain.Workflow, error) {
	if f.workflow == nil || f.workflow.ID != id {
		return nil, domain.ErrNotFound
	}
	return f.workflow, nil
}

type fakeDirectory struct {
	domain.DirectoryRepository
	users   map[string]*domain.User
	offices map[string]*domain.Office
}

func (f *fakeDirectory) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeDirectory) GetOfficeByID(ctx context.Context, id string) (*domain.Office, error) {
	if o, ok := f.offices[id]; ok {
		return o, nil
	}
	return nil, domain.ErrNotFound
}

func threeStepWorkflow() *domain.Workflow {
	return &domain.Workflow{
		ID:       "wf-1",
		Name:     "PR routing",
		Category: domain.CategoryPR,
		IsActive: true,
		Steps: []domain.WorkflowStep{
			{ID: "s1", WorkflowID: "wf-1", OfficeID: "office-a", StepOrder: 1, ExpectedDays: 2, IsFinalStep: false},
			{ID: "s2", WorkflowID: "wf-1", OfficeID: "office-b", StepOrder: 2, ExpectedDays: 3, IsFinalStep: false},
			{ID: "s3", WorkflowID: "wf-1", OfficeID: "office-c", StepOrder: 3, ExpectedDays: 1, IsFinalStep: true},
		},
	}
}

func newTestCalculator(txn *domain.Transaction, actions []*domain.TransactionAction, now time.Time) *Calculator {
	return NewCalculator(
		&fakeTxnReader{txn: txn, actions: actions},
		&fakeWorkflowReader{workflow: threeStepWorkflow()},
		&fakeDirectory{
			users: map[string]*domain.User{
				"u-holder": {ID: "u-holder", Name: "Reviewer One", OfficeID: "office-b"},
			},
			offices: map[string]*domain.Office{
				"office-a": {ID: "office-a", Name: "Budget Office"},
				"office-b": {ID: "office-b", Name: "Accounting Office"},
				"office-c": {ID: "office-c", Name: "Director's Office"},
			},
		},
		func() time.Time { return now },
		2,
	)
}

func TestGetTimelineNoWorkflow(t *testing.T) {
	txn := &domain.Transaction{ID: "t-1", Status: domain.StatusCreated}
	calc := newTestCalculator(txn, nil, monday)

	tl, err := calc.GetTimeline(context.Background(), "t-1")
	require.NoError(t, err)
	assert.Empty(t, tl.Steps)
	assert.Equal(t, 0, tl.TotalSteps)
	assert.Equal(t, 0, tl.ProgressPercentage)
	assert.False(t, tl.IsOutOfWorkflow)
}

func TestGetTimelineCurrentStep(t *testing.T) {
	receivedAt := monday
	now := monday.AddDate(0, 0, 1)
	txn := &domain.Transaction{
		ID:            "t-1",
		Status:        domain.StatusInProgress,
		WorkflowID:    "wf-1",
		CurrentStepID: "s2",
		CurrentOffice: "office-b",
		CurrentUserID: "u-holder",
		ReceivedAt:    &receivedAt,
	}
	calc := newTestCalculator(txn, nil, now)

	tl, err := calc.GetTimeline(context.Background(), "t-1")
	require.NoError(t, err)
	require.Len(t, tl.Steps, 3)

	assert.Equal(t, StepCompleted, tl.Steps[0].Status)
	assert.Equal(t, StepCurrent, tl.Steps[1].Status)
	assert.Equal(t, StepUpcoming, tl.Steps[2].Status)

	current := tl.Steps[1]
	assert.Equal(t, "Accounting Office", current.OfficeName)
	assert.Equal(t, "Reviewer One", current.Holder)
	assert.Equal(t, 1, current.DaysAtStep)
	require.NotNil(t, current.ETA)
	assert.Equal(t, AddBusinessDays(receivedAt, 3), *current.ETA)
	assert.False(t, current.IsOverdue)
	assert.Equal(t, SeverityOnTrack, current.Severity)

	// The upcoming step's arrival estimate chains from the current ETA.
	require.NotNil(t, tl.Steps[2].EstimatedArrival)
	assert.Equal(t, *current.ETA, *tl.Steps[2].EstimatedArrival)

	assert.Equal(t, 1, tl.CompletedSteps)
	assert.Equal(t, 33, tl.ProgressPercentage)
}

func TestGetTimelineSeverity(t *testing.T) {
	receivedAt := monday
	txn := &domain.Transaction{
		ID:            "t-1",
		Status:        domain.StatusInProgress,
		WorkflowID:    "wf-1",
		CurrentStepID: "s2",
		ReceivedAt:    &receivedAt,
	}

	// Two business days late is still a warning at threshold 2.
	calc := newTestCalculator(txn, nil, monday.AddDate(0, 0, 7))
	tl, err := calc.GetTimeline(context.Background(), "t-1")
	require.NoError(t, err)
	assert.True(t, tl.Steps[1].IsOverdue)
	assert.Equal(t, SeverityWarning, tl.Steps[1].Severity)

	// Three business days late crosses into overdue.
	calc = newTestCalculator(txn, nil, monday.AddDate(0, 0, 8))
	tl, err = calc.GetTimeline(context.Background(), "t-1")
	require.NoError(t, err)
	assert.Equal(t, SeverityOverdue, tl.Steps[1].Severity)
}

func TestGetTimelineInTransit(t *testing.T) {
	txn := &domain.Transaction{
		ID:            "t-1",
		Status:        domain.StatusInProgress,
		WorkflowID:    "wf-1",
		CurrentStepID: "s2",
	}
	calc := newTestCalculator(txn, nil, monday)

	tl, err := calc.GetTimeline(context.Background(), "t-1")
	require.NoError(t, err)
	current := tl.Steps[1]
	assert.Nil(t, current.ETA)
	assert.False(t, current.IsOverdue)
	assert.Equal(t, SeverityOnTrack, current.Severity)
}

func TestGetTimelineCompleted(t *testing.T) {
	txn := &domain.Transaction{
		ID:         "t-1",
		Status:     domain.StatusCompleted,
		WorkflowID: "wf-1",
	}
	calc := newTestCalculator(txn, nil, monday)

	tl, err := calc.GetTimeline(context.Background(), "t-1")
	require.NoError(t, err)
	assert.Equal(t, 3, tl.CompletedSteps)
	assert.Equal(t, 100, tl.ProgressPercentage)
	for _, s := range tl.Steps {
		assert.Equal(t, StepCompleted, s.Status)
	}
}

func TestGetTimelineOutOfWorkflowTaint(t *testing.T) {
	receivedAt := monday
	txn := &domain.Transaction{
		ID:            "t-1",
		Status:        domain.StatusInProgress,
		WorkflowID:    "wf-1",
		CurrentStepID: "s1",
		ReceivedAt:    &receivedAt,
	}
	actions := []*domain.TransactionAction{
		{ID: "a1", ActionType: domain.ActionEndorse, IsOutOfWorkflow: false},
		{ID: "a2", ActionType: domain.ActionEndorse, IsOutOfWorkflow: true},
	}
	calc := newTestCalculator(txn, actions, monday)

	tl, err := calc.GetTimeline(context.Background(), "t-1")
	require.NoError(t, err)
	assert.True(t, tl.IsOutOfWorkflow)
}

func TestGetActionHistory(t *testing.T) {
	txn := &domain.Transaction{ID: "t-1", WorkflowID: "wf-1"}
	actions := []*domain.TransactionAction{
		{
			ID:             "a1",
			ActionType:     domain.ActionEndorse,
			FromUserID:     "u-holder",
			FromOfficeID:   "office-a",
			ToOfficeID:     "office-b",
			WorkflowStepID: "s1",
			CreatedAt:      monday,
		},
		{
			ID:           "a2",
			ActionType:   domain.ActionReceive,
			ToUserID:     "u-unknown",
			FromOfficeID: "office-a",
			ToOfficeID:   "office-b",
			CreatedAt:    monday.Add(time.Hour),
		},
	}
	calc := newTestCalculator(txn, actions, monday)

	entries, err := calc.GetActionHistory(context.Background(), "t-1")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "Reviewer One", entries[0].FromUser)
	assert.Equal(t, "Budget Office", entries[0].FromOffice)
	assert.Equal(t, "Accounting Office", entries[0].ToOffice)
	assert.Equal(t, 1, entries[0].WorkflowStepOrder)

	// Unresolvable ids fall back to the raw id.
	assert.Equal(t, "u-unknown", entries[1].ToUser)
	assert.True(t, entries[1].CreatedAt.After(entries[0].CreatedAt))
}
