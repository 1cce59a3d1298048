package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/solcade/treasury/internal/domain"
)

const accountColumns = `account_id, player_id, mint, address, balance, on_chain_balance, synced, last_synced_at, created_at, updated_at`

// AccountRepository implements the custodial account repository for PostgreSQL
type AccountRepository struct {
	db *pgxpool.Pool
}

// NewAccountRepository creates a new AccountRepository
func NewAccountRepository(db *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{db: db}
}

func scanAccount(row pgx.Row) (*domain.CustodialAccount, error) {
	var a domain.CustodialAccount
	err := row.Scan(
		&a.ID, &a.PlayerID, &a.Mint, &a.Address,
		&a.Balance, &a.OnChainBalance, &a.Synced, &a.LastSyncedAt,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// GetAccount returns the account for (player, mint), or nil when absent.
func (r *AccountRepository) GetAccount(ctx context.Context, playerID, mint string) (*domain.CustodialAccount, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM custodial_accounts WHERE player_id = $1 AND mint = $2`,
		playerID, mint)

	account, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get custodial account: %w", err)
	}
	return account, nil
}

// InsertAccount inserts a new account row. The unique (player_id, mint)
// constraint keeps creation idempotent: when a racing creator got there
// first, the existing row is returned and inserted reports false.
func (r *AccountRepository) InsertAccount(ctx context.Context, account *domain.CustodialAccount) (*domain.CustodialAccount, bool, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO custodial_accounts (player_id, mint, address)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (player_id, mint) DO NOTHING
		 RETURNING `+accountColumns,
		account.PlayerID, account.Mint, account.Address)

	created, err := scanAccount(row)
	if err == nil {
		return created, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, fmt.Errorf("failed to insert custodial account: %w", err)
	}

	// Conflict: another request already created the (player, mint) account.
	existing, err := r.GetAccount(ctx, account.PlayerID, account.Mint)
	if err != nil {
		return nil, false, err
	}
	if existing == nil {
		return nil, false, fmt.Errorf("account insert conflicted but row not found for player %s", account.PlayerID)
	}
	return existing, false, nil
}

// ListAccounts returns all custodial accounts, oldest first.
func (r *AccountRepository) ListAccounts(ctx context.Context) ([]domain.CustodialAccount, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+accountColumns+` FROM custodial_accounts ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list custodial accounts: %w", err)
	}
	defer rows.Close()

	var accounts []domain.CustodialAccount
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan custodial account: %w", err)
		}
		accounts = append(accounts, *account)
	}
	return accounts, rows.Err()
}

// UpdateSyncState records one reconciliation observation for an account.
func (r *AccountRepository) UpdateSyncState(ctx context.Context, accountID string, onChainBalance int64, synced bool, syncedAt time.Time) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE custodial_accounts
		 SET on_chain_balance = $2, synced = $3, last_synced_at = $4, updated_at = NOW()
		 WHERE account_id = $1`,
		accountID, onChainBalance, synced, syncedAt)
	if err != nil {
		return fmt.Errorf("failed to update sync state: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}
