package repository

import (
	"context"
	"time"

	"github.com/solcade/treasury/internal/domain"
)

// Account defines the interface for custodial account persistence
type Account interface {
	// GetAccount returns the account for (player, mint), or nil when absent.
	GetAccount(ctx context.Context, playerID, mint string) (*domain.CustodialAccount, error)

	// InsertAccount inserts a new account row. The unique (player_id, mint)
	// constraint makes creation idempotent: on conflict the existing row is
	// returned and inserted reports false, so a racing creator can abandon
	// its freshly made on-chain address.
	InsertAccount(ctx context.Context, account *domain.CustodialAccount) (created *domain.CustodialAccount, inserted bool, err error)

	// ListAccounts returns all custodial accounts, oldest first. Used by
	// reconciliation.
	ListAccounts(ctx context.Context) ([]domain.CustodialAccount, error)

	// UpdateSyncState records the outcome of one reconciliation pass for an
	// account. It never touches the ledger balance.
	UpdateSyncState(ctx context.Context, accountID string, onChainBalance int64, synced bool, syncedAt time.Time) error
}
