package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/muz4miL/genius-academia-sub002/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	stakeholderRepo := newPgxStakeholderRepository(dbPool)
	ledgerRepo := newPgxLedgerRepository(dbPool, stakeholderRepo)
	expenseRepo := newPgxExpenseRepository(dbPool, stakeholderRepo, ledgerRepo)
	settlementRepo := newPgxSettlementRepository(dbPool, stakeholderRepo, ledgerRepo)
	payoutRepo := newPgxPayoutRepository(dbPool, stakeholderRepo, ledgerRepo)
	policyRepo := newPgxPolicyRepository(dbPool)

	return portsrepo.RepositoryProvider{
		StakeholderRepo: stakeholderRepo,
		LedgerRepo:      ledgerRepo,
		ExpenseRepo:     expenseRepo,
		SettlementRepo:  settlementRepo,
		PayoutRepo:      payoutRepo,
		PolicyRepo:      policyRepo,
	}
}
