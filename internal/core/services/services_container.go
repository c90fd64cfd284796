package services

import (
	portsrepo "github.com/spendmeter/spendmeter_backend/internal/core/ports/repositories"
	portssvc "github.com/spendmeter/spendmeter_backend/internal/core/ports/services"
	"github.com/spendmeter/spendmeter_backend/internal/platform/civiltime"
	"github.com/spendmeter/spendmeter_backend/internal/platform/config"
)

// NewServiceContainer wires every service facade with its repositories, the
// civil calendar, and the clock.
func NewServiceContainer(cfg *config.Config, repos *portsrepo.RepositoryProvider, calendar *civiltime.Calendar, clock civiltime.Clock) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		Period: NewPeriodService(repos.MonthRepo, calendar, clock),
		Recurring: NewRecurringService(
			repos.RecurringRepo,
			repos.TransactionRepo,
			repos.MonthRepo,
			repos.CategoryRepo,
			repos.PaymentMethodRepo,
			calendar,
			clock,
		),
		Transaction:        NewTransactionService(repos.TransactionRepo, repos.MonthRepo, clock),
		Insight:            NewInsightService(repos.TransactionRepo, repos.MonthRepo, repos.CategoryRepo),
		Category:           NewCategoryService(repos.CategoryRepo, clock),
		PaymentMethod:      NewPaymentMethodService(repos.PaymentMethodRepo, clock),
		User:               NewUserService(repos.UserRepo, clock),
		TokenService:       NewTokenService(repos.UserRepo, cfg, clock),
		GoogleOAuthHandler: NewGoogleOAuthHandlerService(cfg),
	}
}
