package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"
	portsrepo "github.com/spendmeter/spendmeter_backend/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) *portsrepo.RepositoryProvider {
	return &portsrepo.RepositoryProvider{
		MonthRepo:         newPgxMonthRepository(dbPool),
		RecurringRepo:     newPgxRecurringTemplateRepository(dbPool),
		TransactionRepo:   newPgxTransactionRepository(dbPool),
		CategoryRepo:      newPgxCategoryRepository(dbPool),
		PaymentMethodRepo: newPgxPaymentMethodRepository(dbPool),
		UserRepo:          newPgxUserRepository(dbPool),
	}
}
