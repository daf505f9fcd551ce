package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// WorkflowMetrics collects the routing counters exposed on /metrics.
type WorkflowMetrics struct {
	TransactionsCreatedTotal   *prometheus.CounterVec
	TransactionsCompletedTotal *prometheus.CounterVec
	ActionsTotal               *prometheus.CounterVec

	OutOfWorkflowEndorsementsTotal prometheus.Counter
	OverdueNotificationsTotal      prometheus.Counter
	BulkReceiveSkippedTotal        prometheus.Counter
}

func NewWorkflowMetrics() *WorkflowMetrics {
	return &WorkflowMetrics{
		TransactionsCreatedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "transactions_created_total",
				Help: "Transactions created, by document category",
			},
			[]string{"category"},
		),

		TransactionsCompletedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "transactions_completed_total",
				Help: "Transactions completed at the final workflow step, by category",
			},
			[]string{"category"},
		),

		ActionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "transaction_actions_total",
				Help: "Routing actions recorded, by action type",
			},
			[]string{"action_type"},
		),

		OutOfWorkflowEndorsementsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "out_of_workflow_endorsements_total",
				Help: "Endorsements sent to an office other than the configured next step",
			},
		),

		OverdueNotificationsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "overdue_notifications_total",
				Help: "Overdue notices emitted by the sweep",
			},
		),

		BulkReceiveSkippedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "bulk_receive_skipped_total",
				Help: "Items skipped during bulk receive due to failed preconditions",
			},
		),
	}
}

func (m *WorkflowMetrics) RecordAction(actionType string) {
	if m == nil {
		return
	}
	m.ActionsTotal.WithLabelValues(actionType).Inc()
}
