package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/spendmeter/spendmeter_backend/internal/core/domain"
)

// CreateTransactionRequest defines the data needed to record a manual expense.
type CreateTransactionRequest struct {
	MonthID         string          `json:"monthID" binding:"required"`
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	CategoryID      string          `json:"categoryID" binding:"required"`
	Merchant        string          `json:"merchant" binding:"required"`
	PaymentMethodID string          `json:"paymentMethodID" binding:"required"`
	Note            string          `json:"note"`
}

// TransactionResponse defines the data returned for a transaction.
type TransactionResponse struct {
	TransactionID       string          `json:"transactionID"`
	MonthID             string          `json:"monthID"`
	Amount              decimal.Decimal `json:"amount"`
	CategoryID          string          `json:"categoryID"`
	Merchant            string          `json:"merchant"`
	PaymentMethodID     string          `json:"paymentMethodID"`
	Note                string          `json:"note,omitempty"`
	IsRecurringInstance bool            `json:"isRecurringInstance"`
	RecurringTemplateID *string         `json:"recurringTemplateID,omitempty"`
	IsDeleted           bool            `json:"isDeleted"`
	CreatedAt           time.Time       `json:"createdAt"`
}

// ListTransactionsParams defines query parameters for listing a month's
// transactions. NextToken is an opaque cursor from a previous page.
type ListTransactionsParams struct {
	Limit     int    `form:"limit,default=50"`
	NextToken string `form:"nextToken"`
}

// ListTransactionsResponse wraps one page of transactions.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    string                `json:"nextToken,omitempty"`
}

// ToTransactionResponse converts a domain.Transaction to its response DTO.
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:       txn.TransactionID,
		MonthID:             txn.MonthID,
		Amount:              txn.Amount,
		CategoryID:          txn.CategoryID,
		Merchant:            txn.Merchant,
		PaymentMethodID:     txn.PaymentMethodID,
		Note:                txn.Note,
		IsRecurringInstance: txn.IsRecurringInstance,
		RecurringTemplateID: txn.RecurringTemplateID,
		IsDeleted:           txn.IsDeleted,
		CreatedAt:           txn.CreatedAt,
	}
}

// ToListTransactionsResponse converts a page of transactions plus cursor.
func ToListTransactionsResponse(txns []domain.Transaction, nextToken string) ListTransactionsResponse {
	res := ListTransactionsResponse{
		Transactions: make([]TransactionResponse, len(txns)),
		NextToken:    nextToken,
	}
	for i := range txns {
		res.Transactions[i] = ToTransactionResponse(&txns[i])
	}
	return res
}
