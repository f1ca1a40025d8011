package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	StakeholderRepo StakeholderRepositoryFacade
	LedgerRepo      LedgerRepositoryFacade
	ExpenseRepo     ExpenseRepositoryFacade
	SettlementRepo  SettlementRepositoryFacade
	PayoutRepo      PayoutRepositoryFacade
	PolicyRepo      PolicyRepositoryFacade
}
