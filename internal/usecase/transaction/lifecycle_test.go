package transaction

import (
	"context"
	"testing"
	"time"

	"github.com/proc-track/workflow-service/internal/domain"
	"github.com/proc-track/workflow-service/internal/usecase/timeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFullRouteLifecycle drives a transaction down the whole A -> B -> C
// route: endorse to the next office, receive there, repeat, then complete at
// the final step. Every in-route hop must stay in workflow and advance the
// pointer by exactly one step, and the timeline projection must track it.
func TestFullRouteLifecycle(t *testing.T) {
	h := newHarness(t)
	h.seedTransaction(t, nil)
	calc := timeline.NewCalculator(h.txnRepo, h.workflowRepo, h.directory,
		func() time.Time { return h.now }, 2)
	ctx := context.Background()

	require.NoError(t, h.endorseTo(t, "t-1", "u-a", "office-b"))
	first := h.txnRepo.actions[len(h.txnRepo.actions)-1]
	assert.False(t, first.IsOutOfWorkflow)
	assert.Equal(t, domain.StatusInProgress, h.stored(t, "t-1").Status)

	require.NoError(t, h.receiveAs(t, "t-1", "u-b"))
	assert.Equal(t, "s2", h.stored(t, "t-1").CurrentStepID)

	require.NoError(t, h.endorseTo(t, "t-1", "u-b", "office-c"))
	require.NoError(t, h.receiveAs(t, "t-1", "u-c"))
	assert.Equal(t, "s3", h.stored(t, "t-1").CurrentStepID)

	before, err := calc.GetTimeline(ctx, "t-1")
	require.NoError(t, err)
	assert.Equal(t, 2, before.CompletedSteps)
	assert.Equal(t, 3, before.TotalSteps)
	assert.False(t, before.IsOutOfWorkflow)
	assert.Equal(t, timeline.StepCurrent, before.Steps[2].Status)

	require.NoError(t, h.completeAs(t, "t-1", "u-c"))

	txn := h.stored(t, "t-1")
	assert.Equal(t, domain.StatusCompleted, txn.Status)
	assert.Empty(t, txn.CurrentStepID)

	after, err := calc.GetTimeline(ctx, "t-1")
	require.NoError(t, err)
	assert.Equal(t, 3, after.CompletedSteps)
	assert.Equal(t, 100, after.ProgressPercentage)
	assert.False(t, after.IsOutOfWorkflow)
	for _, step := range after.Steps {
		assert.Equal(t, timeline.StepCompleted, step.Status)
	}
}
