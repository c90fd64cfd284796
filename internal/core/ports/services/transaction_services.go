package services

import (
	"context"

	"github.com/spendmeter/spendmeter_backend/internal/core/domain"
	"github.com/spendmeter/spendmeter_backend/internal/dto"
)

// TransactionSvcFacade manages manual expense entry and soft deletion.
type TransactionSvcFacade interface {
	CreateTransaction(ctx context.Context, userID string, req dto.CreateTransactionRequest) (*domain.Transaction, error)

	// GetTransaction returns the transaction even when soft-deleted.
	GetTransaction(ctx context.Context, userID, transactionID string) (*domain.Transaction, error)

	// ListMonthTransactions returns one page of a month's non-deleted
	// transactions, newest first, plus the cursor for the next page.
	ListMonthTransactions(ctx context.Context, userID, monthID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)

	// SoftDeleteTransaction marks the transaction deleted; the row is kept.
	SoftDeleteTransaction(ctx context.Context, userID, transactionID string) error
}
