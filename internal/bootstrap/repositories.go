package bootstrap

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/solcade/treasury/internal/database/postgres"
	"github.com/solcade/treasury/internal/repository"
)

// Repositories holds all repository implementations used by the application.
// This provides a centralized location for repository initialization and
// makes dependency injection clearer.
type Repositories struct {
	Account repository.Account
	Ledger  repository.Ledger
	Reward  repository.Reward
	Item    repository.Item
}

// InitializeRepositories creates all repository implementations.
func InitializeRepositories(dbPool *pgxpool.Pool) *Repositories {
	return &Repositories{
		Account: postgres.NewAccountRepository(dbPool),
		Ledger:  postgres.NewLedgerRepository(dbPool),
		Reward:  postgres.NewRewardRepository(dbPool),
		Item:    postgres.NewItemRepository(dbPool),
	}
}
