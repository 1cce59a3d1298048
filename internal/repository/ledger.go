package repository

import (
	"context"

	"github.com/solcade/treasury/internal/domain"
)

// Ledger defines the interface for balance and transaction log persistence
type Ledger interface {
	// GetBalance returns the current balance for (player, mint). Absence of
	// an account implies balance 0.
	GetBalance(ctx context.Context, playerID, mint string) (int64, error)

	// GetHistory returns ledger entries for a player, newest first.
	GetHistory(ctx context.Context, playerID string, limit, offset int) ([]domain.LedgerEntry, error)

	// IsConfirmationApplied reports whether a confirmation token was already
	// recorded on a credit-kind entry.
	IsConfirmationApplied(ctx context.Context, token string) (bool, error)

	BeginTx(ctx context.Context) (LedgerTx, error)
}

// LedgerTx defines the interface for ledger transactions. A balance update
// and its entry insert always share one transaction; committing one without
// the other is a correctness violation.
type LedgerTx interface {
	Tx

	// LockAccount loads the account row for (player, mint) with a row-level
	// lock, serializing concurrent mutations on the same pair. Returns nil
	// when no account exists.
	LockAccount(ctx context.Context, playerID, mint string) (*domain.CustodialAccount, error)

	// UpdateBalance sets the ledger balance on a locked account row.
	UpdateBalance(ctx context.Context, accountID string, newBalance int64) error

	// InsertEntry appends one immutable ledger entry. Inserting a duplicate
	// confirmation token for a credit kind fails with
	// domain.ErrDuplicateConfirmation.
	InsertEntry(ctx context.Context, entry *domain.LedgerEntry) (*domain.LedgerEntry, error)

	// IsConfirmationApplied mirrors Ledger.IsConfirmationApplied inside the
	// transaction.
	IsConfirmationApplied(ctx context.Context, token string) (bool, error)
}
