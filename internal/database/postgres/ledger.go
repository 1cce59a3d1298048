package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/solcade/treasury/internal/domain"
	"github.com/solcade/treasury/internal/repository"
)

const entryColumns = `entry_id, player_id, mint, kind, amount, balance_before, balance_after, confirmation_token, context, created_at`

// LedgerRepository implements the ledger repository for PostgreSQL
type LedgerRepository struct {
	db *pgxpool.Pool
}

// NewLedgerRepository creates a new LedgerRepository
func NewLedgerRepository(db *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// LedgerTx implements repository.LedgerTx
type LedgerTx struct {
	tx pgx.Tx
}

// BeginTx starts a new transaction
func (r *LedgerRepository) BeginTx(ctx context.Context) (repository.LedgerTx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &LedgerTx{tx: tx}, nil
}

// Commit commits the transaction
func (t *LedgerTx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

// Rollback rolls back the transaction
func (t *LedgerTx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

// GetBalance reads the current balance for (player, mint). Absence of an
// account implies balance 0.
func (r *LedgerRepository) GetBalance(ctx context.Context, playerID, mint string) (int64, error) {
	var balance int64
	err := r.db.QueryRow(ctx,
		`SELECT balance FROM custodial_accounts WHERE player_id = $1 AND mint = $2`,
		playerID, mint).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get balance: %w", err)
	}
	return balance, nil
}

func scanEntry(row pgx.Row) (*domain.LedgerEntry, error) {
	var e domain.LedgerEntry
	var token *string
	err := row.Scan(
		&e.ID, &e.PlayerID, &e.Mint, &e.Kind, &e.Amount,
		&e.BalanceBefore, &e.BalanceAfter, &token, &e.Context, &e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.ConfirmationToken = derefText(token)
	return &e, nil
}

// GetHistory returns ledger entries for a player, newest first.
func (r *LedgerRepository) GetHistory(ctx context.Context, playerID string, limit, offset int) ([]domain.LedgerEntry, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+entryColumns+` FROM ledger_entries
		 WHERE player_id = $1
		 ORDER BY created_at DESC, entry_id DESC
		 LIMIT $2 OFFSET $3`,
		playerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger history: %w", err)
	}
	defer rows.Close()

	var entries []domain.LedgerEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		entries = append(entries, *entry)
	}
	return entries, rows.Err()
}

// IsConfirmationApplied reports whether a confirmation token was already
// recorded on a credit-kind entry.
func (r *LedgerRepository) IsConfirmationApplied(ctx context.Context, token string) (bool, error) {
	return confirmationApplied(ctx, r.db, token)
}

// IsConfirmationApplied for Tx
func (t *LedgerTx) IsConfirmationApplied(ctx context.Context, token string) (bool, error) {
	return confirmationApplied(ctx, t.tx, token)
}

type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func confirmationApplied(ctx context.Context, q querier, token string) (bool, error) {
	var applied bool
	err := q.QueryRow(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM ledger_entries
			WHERE confirmation_token = $1 AND kind IN ('deposit', 'reward')
		)`, token).Scan(&applied)
	if err != nil {
		return false, fmt.Errorf("failed to check confirmation token: %w", err)
	}
	return applied, nil
}

// LockAccount loads the account row for (player, mint) with FOR UPDATE,
// serializing concurrent balance mutations on the same pair. Returns nil
// when no account exists.
func (t *LedgerTx) LockAccount(ctx context.Context, playerID, mint string) (*domain.CustodialAccount, error) {
	row := t.tx.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM custodial_accounts
		 WHERE player_id = $1 AND mint = $2
		 FOR UPDATE`,
		playerID, mint)

	account, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to lock account row: %w", err)
	}
	return account, nil
}

// UpdateBalance sets the ledger balance on a locked account row.
func (t *LedgerTx) UpdateBalance(ctx context.Context, accountID string, newBalance int64) error {
	tag, err := t.tx.Exec(ctx,
		`UPDATE custodial_accounts SET balance = $2, updated_at = NOW() WHERE account_id = $1`,
		accountID, newBalance)
	if err != nil {
		if isCheckViolation(err, ConstraintBalanceNonNeg) {
			return domain.ErrInsufficientBalance
		}
		return fmt.Errorf("failed to update balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

// InsertEntry appends one immutable ledger entry.
func (t *LedgerTx) InsertEntry(ctx context.Context, entry *domain.LedgerEntry) (*domain.LedgerEntry, error) {
	row := t.tx.QueryRow(ctx,
		`INSERT INTO ledger_entries (player_id, mint, kind, amount, balance_before, balance_after, confirmation_token, context)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING `+entryColumns,
		entry.PlayerID, entry.Mint, entry.Kind, entry.Amount,
		entry.BalanceBefore, entry.BalanceAfter,
		textOrNil(entry.ConfirmationToken), entry.Context)

	inserted, err := scanEntry(row)
	if err != nil {
		if isUniqueViolation(err, ConstraintCreditToken) {
			return nil, fmt.Errorf("%w: %s", domain.ErrDuplicateConfirmation, entry.ConfirmationToken)
		}
		return nil, fmt.Errorf("failed to insert ledger entry: %w", err)
	}
	return inserted, nil
}
