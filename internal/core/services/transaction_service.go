package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spendmeter/spendmeter_backend/internal/apperrors"
	"github.com/spendmeter/spendmeter_backend/internal/core/domain"
	portsrepo "github.com/spendmeter/spendmeter_backend/internal/core/ports/repositories"
	portssvc "github.com/spendmeter/spendmeter_backend/internal/core/ports/services"
	"github.com/spendmeter/spendmeter_backend/internal/dto"
	"github.com/spendmeter/spendmeter_backend/internal/platform/civiltime"
	"github.com/spendmeter/spendmeter_backend/internal/utils/pagination"
)

const (
	defaultTransactionPageSize = 50
	maxTransactionPageSize     = 200
)

// transactionService implements the TransactionSvcFacade.
type transactionService struct {
	BaseService
	transactionRepo portsrepo.TransactionRepository
	monthRepo       portsrepo.MonthRepository
	clock           civiltime.Clock
}

// NewTransactionService creates the transaction service.
func NewTransactionService(transactionRepo portsrepo.TransactionRepository, monthRepo portsrepo.MonthRepository, clock civiltime.Clock) portssvc.TransactionSvcFacade {
	return &transactionService{
		transactionRepo: transactionRepo,
		monthRepo:       monthRepo,
		clock:           clock,
	}
}

var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

func (s *transactionService) CreateTransaction(ctx context.Context, userID string, req dto.CreateTransactionRequest) (*domain.Transaction, error) {
	merchant := strings.TrimSpace(req.Merchant)
	if merchant == "" {
		return nil, apperrors.NewValidationFailedError("merchant must not be empty")
	}
	if !req.Amount.IsPositive() {
		return nil, apperrors.NewValidationFailedError("amount must be positive")
	}

	// The month must exist and belong to the caller before we post into it.
	if _, err := s.monthRepo.FindMonthByID(ctx, userID, req.MonthID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("month not found")
		}
		s.LogError(ctx, err, "Failed to verify month for transaction", slog.String("month_id", req.MonthID))
		return nil, err
	}

	now := s.clock.Now()
	txn := domain.Transaction{
		TransactionID:   uuid.NewString(),
		UserID:          userID,
		MonthID:         req.MonthID,
		Amount:          req.Amount,
		CategoryID:      req.CategoryID,
		Merchant:        merchant,
		PaymentMethodID: req.PaymentMethodID,
		Note:            strings.TrimSpace(req.Note),
		AuditFields: domain.AuditFields{
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	if err := s.transactionRepo.SaveTransaction(ctx, txn); err != nil {
		s.LogError(ctx, err, "Failed to save transaction", slog.String("month_id", req.MonthID))
		return nil, err
	}

	s.LogInfo(ctx, "Transaction created", slog.String("transaction_id", txn.TransactionID), slog.String("month_id", txn.MonthID))
	return &txn, nil
}

func (s *transactionService) GetTransaction(ctx context.Context, userID, transactionID string) (*domain.Transaction, error) {
	txn, err := s.transactionRepo.FindTransactionByID(ctx, userID, transactionID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find transaction", slog.String("transaction_id", transactionID))
		}
		return nil, err
	}
	return txn, nil
}

func (s *transactionService) ListMonthTransactions(ctx context.Context, userID, monthID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultTransactionPageSize
	}
	if limit > maxTransactionPageSize {
		limit = maxTransactionPageSize
	}

	var createdBefore *time.Time
	if params.NextToken != "" {
		cursor, err := pagination.DecodeDateBasedToken(params.NextToken)
		if err != nil {
			return nil, apperrors.NewValidationFailedError("invalid pagination token")
		}
		createdBefore = &cursor
	}

	// Fetch one extra row to know whether a next page exists.
	txns, err := s.transactionRepo.ListMonthTransactions(ctx, userID, monthID, limit+1, createdBefore)
	if err != nil {
		s.LogError(ctx, err, "Failed to list month transactions", slog.String("month_id", monthID))
		return nil, err
	}

	nextToken := ""
	if len(txns) > limit {
		txns = txns[:limit]
		nextToken = pagination.EncodeDateBasedToken(txns[len(txns)-1].CreatedAt)
	}

	res := dto.ToListTransactionsResponse(txns, nextToken)
	return &res, nil
}

func (s *transactionService) SoftDeleteTransaction(ctx context.Context, userID, transactionID string) error {
	if err := s.transactionRepo.MarkDeleted(ctx, userID, transactionID, s.clock.Now()); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to soft-delete transaction", slog.String("transaction_id", transactionID))
		}
		return err
	}
	s.LogInfo(ctx, "Transaction soft-deleted", slog.String("transaction_id", transactionID))
	return nil
}
