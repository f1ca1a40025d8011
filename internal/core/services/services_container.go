package services

import (
	portsrepo "github.com/muz4miL/genius-academia-sub002/internal/core/ports/repositories"
	portssvc "github.com/muz4miL/genius-academia-sub002/internal/core/ports/services"
)

// NewServiceContainer wires every service facade against the repository
// provider. Notification delivery defaults to the logging notifier.
func NewServiceContainer(repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	notifier := NewSlogNotifier()
	return &portssvc.ServiceContainer{
		Stakeholder: NewStakeholderService(repos.StakeholderRepo),
		Policy:      NewPolicyService(repos.PolicyRepo, repos.StakeholderRepo),
		Ledger:      NewLedgerService(repos.LedgerRepo, repos.StakeholderRepo),
		Fee:         NewFeeService(repos.LedgerRepo, repos.StakeholderRepo, repos.PolicyRepo),
		Expense:     NewExpenseService(repos.ExpenseRepo, repos.LedgerRepo, repos.StakeholderRepo, repos.PolicyRepo, notifier),
		Settlement:  NewSettlementService(repos.SettlementRepo, repos.StakeholderRepo, notifier),
		Payout:      NewPayoutService(repos.PayoutRepo, repos.StakeholderRepo, repos.PolicyRepo, notifier),
	}
}
