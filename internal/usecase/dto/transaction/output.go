package transactiondto

type BulkReceiveItemResult struct {
	TransactionID string `json:"transaction_id"`
	Success       bool   `json:"success"`
	Error         string `json:"error,omitempty"`
}

// BulkReceiveResult reports the batch outcome. Per-item failures are
// recorded, never raised: the batch as a whole always succeeds.
type BulkReceiveResult struct {
	Received int                     `json:"received"`
	Skipped  int                     `json:"skipped"`
	Results  []BulkReceiveItemResult `json:"results"`
}
