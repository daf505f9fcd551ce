package domain

import "time"

type NotificationKind string

const (
	NotificationOutOfWorkflow NotificationKind = "out_of_workflow_endorsement"
	NotificationReceived      NotificationKind = "transaction_received"
	NotificationCompleted     NotificationKind = "transaction_completed"
	NotificationStatusChanged NotificationKind = "transaction_status_changed"
	NotificationOverdue       NotificationKind = "transaction_overdue"
)

// Notification is one in-app feed entry for one recipient. Delivery beyond
// persistence (push, email) is handled downstream of the Kafka fan-out.
type Notification struct {
	ID            string
	RecipientID   string
	Kind          NotificationKind
	TransactionID string
	Reference     string
	Message       string
	IsRead        bool
	CreatedAt     time.Time
}
