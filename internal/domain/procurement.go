package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type ProcurementStatus string

const (
	ProcurementInProgress ProcurementStatus = "In Progress"
	ProcurementCompleted  ProcurementStatus = "Completed"
)

// Procurement groups up to one PR, PO and VCH transaction. Its status is a
// derived projection over the linked transactions, recomputed after every
// completion rather than continuously maintained.
type Procurement struct {
	ID          string
	Title       string
	Amount      decimal.Decimal
	Status      ProcurementStatus
	CreatedByID string

	PR  *Transaction
	PO  *Transaction
	VCH *Transaction

	CreatedAt time.Time
	UpdatedAt time.Time
}

type ProcurementStatusChange struct {
	ID            string
	ProcurementID string
	OldStatus     ProcurementStatus
	NewStatus     ProcurementStatus
	Reason        string
	CreatedAt     time.Time
}

// DeriveStatus recomputes the procurement status from scratch over the linked
// transactions: Completed when the voucher is completed and no linked PR or PO
// remains unfinished. A procurement with no voucher is never Completed.
func (p *Procurement) DeriveStatus() ProcurementStatus {
	if p.VCH == nil || p.VCH.Status != StatusCompleted {
		return ProcurementInProgress
	}
	if p.PR != nil && p.PR.Status != StatusCompleted {
		return ProcurementInProgress
	}
	if p.PO != nil && p.PO.Status != StatusCompleted {
		return ProcurementInProgress
	}
	return ProcurementCompleted
}

// TransactionFor returns the linked transaction of the given category, or nil.
func (p *Procurement) TransactionFor(c Category) *Transaction {
	switch c {
	case CategoryPR:
		return p.PR
	case CategoryPO:
		return p.PO
	case CategoryVCH:
		return p.VCH
	}
	return nil
}
