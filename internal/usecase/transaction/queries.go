package transaction

import (
	"context"

	"github.com/proc-track/workflow-service/internal/domain"
)

func (uc *DefaultTransactionUsecase) GetTransactionByID(ctx context.Context, id string) (*domain.Transaction, error) {
	return uc.TxnRepo.GetTransactionByID(ctx, id)
}

func (uc *DefaultTransactionUsecase) ListTransactions(ctx context.Context, filter domain.TransactionFilter, page, limit int64) ([]*domain.Transaction, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}
	return uc.TxnRepo.ListTransactions(ctx, filter, page, limit)
}
