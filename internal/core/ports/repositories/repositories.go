package repositories

// RepositoryProvider bundles all repository implementations for injection
// into the service container.
type RepositoryProvider struct {
	MonthRepo         MonthRepository
	RecurringRepo     RecurringTemplateRepository
	TransactionRepo   TransactionRepository
	CategoryRepo      CategoryRepository
	PaymentMethodRepo PaymentMethodRepository
	UserRepo          UserRepository
}
