package services

import "context"

// ServiceContainer holds all service facades for dependency injection.
type ServiceContainer struct {
	Stakeholder StakeholderSvcFacade
	Policy      PolicySvcFacade
	Ledger      LedgerSvcFacade
	Fee         FeeSvcFacade
	Expense     ExpenseSvcFacade
	Settlement  SettlementSvcFacade
	Payout      PayoutSvcFacade
}

// Notifier delivers best-effort stakeholder notifications. Failures are
// logged and never affect the primary operation.
type Notifier interface {
	Notify(ctx context.Context, stakeholderID string, subject string, message string)
}
