package transaction

import (
	"context"
	"testing"

	"github.com/proc-track/workflow-service/internal/domain"
	transactiondto "github.com/proc-track/workflow-service/internal/usecase/dto/transaction"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTransaction(t *testing.T) {
	h := newHarness(t)

	txn, err := h.uc.Create(context.Background(), &transactiondto.CreateTransactionInput{
		Category:    "PR",
		Title:       "Office chairs",
		CreatedByID: "u-a",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusCreated, txn.Status)
	assert.Equal(t, "wf-1", txn.WorkflowID)
	assert.Empty(t, txn.CurrentStepID)
	assert.Empty(t, txn.CurrentOffice)
	assert.Equal(t, "office-a", txn.OriginOffID)
	assert.Regexp(t, `^PR-[0-9A-Z]{8}$`, txn.ReferenceNumber)
}

func TestCreateTransactionWithoutWorkflow(t *testing.T) {
	h := newHarness(t)

	// No active VCH workflow is configured; creation still succeeds.
	txn, err := h.uc.Create(context.Background(), &transactiondto.CreateTransactionInput{
		Category:    "VCH",
		Title:       "Disbursement voucher",
		CreatedByID: "u-a",
	})
	require.NoError(t, err)
	assert.Empty(t, txn.WorkflowID)
}

func TestCreateTransactionUnknownCategory(t *testing.T) {
	h := newHarness(t)

	_, err := h.uc.Create(context.Background(), &transactiondto.CreateTransactionInput{
		Category:    "MEMO",
		Title:       "nope",
		CreatedByID: "u-a",
	})
	assert.Error(t, err)
}

func TestFirstEndorsement(t *testing.T) {
	h := newHarness(t)
	h.seedTransaction(t, nil)

	// A created transaction stands at step 1 (office A); forwarding to step
	// 2's office is the expected route.
	require.NoError(t, h.endorseTo(t, "t-1", "u-a", "office-b"))

	txn := h.stored(t, "t-1")
	assert.Equal(t, domain.StatusInProgress, txn.Status)
	assert.Equal(t, "s1", txn.CurrentStepID)
	assert.Equal(t, "office-b", txn.CurrentOffice)
	assert.Empty(t, txn.CurrentUserID)
	assert.Nil(t, txn.ReceivedAt)
	require.NotNil(t, txn.EndorsedAt)

	last := h.txnRepo.actions[len(h.txnRepo.actions)-1]
	assert.False(t, last.IsOutOfWorkflow)
	assert.Empty(t, h.bus.byName("transaction.endorsed.out_of_workflow"))

	require.Len(t, h.txnRepo.history, 1)
	assert.Equal(t, "First endorsement", h.txnRepo.history[0].Reason)
	assert.Equal(t, domain.StatusCreated, h.txnRepo.history[0].OldStatus)
	assert.Equal(t, domain.StatusInProgress, h.txnRepo.history[0].NewStatus)

	assert.Len(t, h.bus.byName("transaction.endorsed"), 1)
	assert.Len(t, h.bus.byName("transaction.status_changed"), 1)
}

func TestEndorseFollowingRoute(t *testing.T) {
	h := newHarness(t)
	h.seedTransaction(t, nil)

	require.NoError(t, h.endorseTo(t, "t-1", "u-a", "office-b"))
	require.NoError(t, h.receiveAs(t, "t-1", "u-b"))
	require.NoError(t, h.endorseTo(t, "t-1", "u-b", "office-c"))

	txn := h.stored(t, "t-1")
	assert.Equal(t, "office-c", txn.CurrentOffice)
	assert.Nil(t, txn.ReceivedAt)

	last := h.txnRepo.actions[len(h.txnRepo.actions)-1]
	assert.Equal(t, domain.ActionEndorse, last.ActionType)
	assert.False(t, last.IsOutOfWorkflow)
	assert.Empty(t, h.bus.byName("transaction.endorsed.out_of_workflow"))
}

func TestEndorseOutOfWorkflow(t *testing.T) {
	h := newHarness(t)
	h.seedTransaction(t, nil)

	// Expected next office is B; sending straight to C skips a step.
	require.NoError(t, h.endorseTo(t, "t-1", "u-a", "office-c"))

	last := h.txnRepo.actions[len(h.txnRepo.actions)-1]
	assert.True(t, last.IsOutOfWorkflow)

	events := h.bus.byName("transaction.endorsed.out_of_workflow")
	require.Len(t, events, 1)
	oow := events[0].(domain.OutOfWorkflowEndorsement)
	assert.Equal(t, "office-b", oow.ExpectedOfficeID)
	assert.Equal(t, "office-c", oow.ToOfficeID)
}

func TestEndorseRequiresReceipt(t *testing.T) {
	h := newHarness(t)
	h.seedTransaction(t, nil)

	require.NoError(t, h.endorseTo(t, "t-1", "u-a", "office-b"))

	// Not yet received at office B: a second endorsement is ineligible.
	err := h.endorseTo(t, "t-1", "u-b", "office-c")
	assert.True(t, domain.IsInvalidState(err))
}

func TestEndorseWrongOffice(t *testing.T) {
	h := newHarness(t)
	h.seedTransaction(t, nil)

	require.NoError(t, h.endorseTo(t, "t-1", "u-a", "office-b"))
	require.NoError(t, h.receiveAs(t, "t-1", "u-b"))

	// Alice's office no longer holds the document.
	err := h.endorseTo(t, "t-1", "u-a", "office-c")
	assert.True(t, domain.IsInvalidState(err))
}

func TestEndorsePastFinalStep(t *testing.T) {
	h := newHarness(t)
	h.seedTransaction(t, func(txn *domain.Transaction) {
		txn.Status = domain.StatusInProgress
		txn.CurrentStepID = "s3"
		txn.CurrentOffice = "office-c"
		txn.ReceivedAt = &testNow
	})

	err := h.endorseTo(t, "t-1", "u-c", "office-a")
	assert.True(t, domain.IsInvalidState(err))
}

func TestEndorseTerminalStatus(t *testing.T) {
	h := newHarness(t)
	h.seedTransaction(t, func(txn *domain.Transaction) {
		txn.Status = domain.StatusCancelled
	})

	err := h.endorseTo(t, "t-1", "u-a", "office-b")
	assert.True(t, domain.IsInvalidState(err))
}

func TestEndorseConcurrentConflict(t *testing.T) {
	h := newHarness(t)
	h.seedTransaction(t, nil)

	h.txnRepo.failNextTransition = true
	err := h.endorseTo(t, "t-1", "u-a", "office-b")
	assert.ErrorIs(t, err, domain.ErrStateConflict)

	// The losing racer changed nothing.
	txn := h.stored(t, "t-1")
	assert.Equal(t, domain.StatusCreated, txn.Status)
	assert.Empty(t, h.txnRepo.actions)
}
