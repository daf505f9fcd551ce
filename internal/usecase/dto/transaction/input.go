package transactiondto

import "github.com/shopspring/decimal"

type CreateTransactionInput struct {
	Category      string
	Title         string
	Amount        decimal.Decimal
	ProcurementID string
	CreatedByID   string
	IPAddress     string
}

type EndorseInput struct {
	TransactionID string
	ActingUserID  string
	ActionTakenID string
	ToOfficeID    string
	Notes         string
	IPAddress     string
}

type ReceiveInput struct {
	TransactionID string
	ActingUserID  string
	IPAddress     string
}

type BulkReceiveInput struct {
	TransactionIDs []string
	ActingUserID   string
	IPAddress      string
}

type CompleteInput struct {
	TransactionID string
	ActingUserID  string
	ActionTakenID string
	Notes         string
	IPAddress     string
}

// StatusChangeInput covers the administrator operations hold, cancel and
// resume. Reason is required for hold and cancel; resume defaults it.
type StatusChangeInput struct {
	TransactionID string
	ActingUserID  string
	Reason        string
	IPAddress     string
}
