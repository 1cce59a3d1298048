// Package ledger owns the authoritative balance for each (player, mint)
// pair. ApplyDelta is the sole balance-mutation entry point in the whole
// service: the balance update and its audit entry share one database
// transaction, and the account row lock serializes concurrent mutations on
// the same pair.
package ledger

import (
	"context"
	"fmt"

	"github.com/solcade/treasury/internal/domain"
	"github.com/solcade/treasury/internal/logger"
	"github.com/solcade/treasury/internal/metrics"
	"github.com/solcade/treasury/internal/repository"
)

// ApplyDeltaParams describes one balance mutation.
type ApplyDeltaParams struct {
	PlayerID          string
	Mint              string
	Amount            int64 // signed; negative debits
	Kind              domain.EntryKind
	ConfirmationToken string
	Context           map[string]string
}

// Service defines the interface for ledger operations
type Service interface {
	GetBalance(ctx context.Context, playerID, mint string) (int64, error)
	ApplyDelta(ctx context.Context, params ApplyDeltaParams) (*domain.LedgerEntry, error)
	History(ctx context.Context, playerID string, limit, offset int) ([]domain.LedgerEntry, error)
	IsConfirmationApplied(ctx context.Context, token string) (bool, error)
}

type service struct {
	repo repository.Ledger
}

// NewService creates a new ledger service
func NewService(repo repository.Ledger) Service {
	return &service{repo: repo}
}

func (s *service) GetBalance(ctx context.Context, playerID, mint string) (int64, error) {
	return s.repo.GetBalance(ctx, playerID, mint)
}

func (s *service) History(ctx context.Context, playerID string, limit, offset int) ([]domain.LedgerEntry, error) {
	if limit <= 0 {
		limit = domain.DefaultHistoryLimit
	}
	if limit > domain.MaxHistoryLimit {
		limit = domain.MaxHistoryLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.GetHistory(ctx, playerID, limit, offset)
}

func (s *service) IsConfirmationApplied(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, nil
	}
	return s.repo.IsConfirmationApplied(ctx, token)
}

func (s *service) ApplyDelta(ctx context.Context, params ApplyDeltaParams) (*domain.LedgerEntry, error) {
	log := logger.FromContext(ctx)

	if !params.Kind.Valid() {
		return nil, fmt.Errorf("%w: unknown entry kind %q", domain.ErrInvalidInput, params.Kind)
	}
	if params.Amount == 0 {
		return nil, fmt.Errorf("%w: zero delta", domain.ErrInvalidAmount)
	}
	if params.Kind.RequiresUniqueConfirmation() && params.ConfirmationToken == "" {
		return nil, fmt.Errorf("%w: %s requires a confirmation token", domain.ErrInvalidInput, params.Kind)
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		log.Error("Failed to begin ledger transaction", "error", err)
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer repository.SafeRollback(ctx, tx)

	account, err := tx.LockAccount(ctx, params.PlayerID, params.Mint)
	if err != nil {
		log.Error("Failed to lock account row", "error", err, "player_id", params.PlayerID)
		return nil, fmt.Errorf("failed to lock account: %w", err)
	}
	if account == nil {
		if params.Amount < 0 {
			return nil, fmt.Errorf("%w: no account for player %s", domain.ErrInsufficientBalance, params.PlayerID)
		}
		return nil, fmt.Errorf("%w: player %s mint %s", domain.ErrAccountNotFound, params.PlayerID, params.Mint)
	}

	newBalance := account.Balance + params.Amount
	if newBalance < 0 {
		log.Warn("Delta would drive balance negative",
			"player_id", params.PlayerID,
			"balance", account.Balance,
			"amount", params.Amount)
		return nil, fmt.Errorf("%w: have %d, need %d", domain.ErrInsufficientBalance, account.Balance, -params.Amount)
	}

	if err := tx.UpdateBalance(ctx, account.ID, newBalance); err != nil {
		return nil, fmt.Errorf("failed to update balance: %w", err)
	}

	entry, err := tx.InsertEntry(ctx, &domain.LedgerEntry{
		PlayerID:          params.PlayerID,
		Mint:              params.Mint,
		Kind:              params.Kind,
		Amount:            params.Amount,
		BalanceBefore:     account.Balance,
		BalanceAfter:      newBalance,
		ConfirmationToken: params.ConfirmationToken,
		Context:           params.Context,
	})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		log.Error("Failed to commit ledger transaction", "error", err, "player_id", params.PlayerID)
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	metrics.LedgerEntriesTotal.WithLabelValues(string(params.Kind)).Inc()

	log.Info("Ledger delta applied",
		"player_id", params.PlayerID,
		"mint", params.Mint,
		"kind", params.Kind,
		"amount", params.Amount,
		"balance_after", newBalance)

	return entry, nil
}
