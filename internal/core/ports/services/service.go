package services

// ServiceContainer bundles all service facades for injection into handlers.
type ServiceContainer struct {
	Period             PeriodSvcFacade
	Recurring          RecurringSvcFacade
	Transaction        TransactionSvcFacade
	Insight            InsightSvcFacade
	Category           CategorySvcFacade
	PaymentMethod      PaymentMethodSvcFacade
	User               UserSvcFacade
	TokenService       TokenSvcFacade
	GoogleOAuthHandler GoogleOAuthHandlerSvcFacade
}
