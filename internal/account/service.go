// Package account is the custodial account registry: one operator-owned
// on-chain token account per (player, mint), created lazily on first need.
package account

import (
	"context"
	"fmt"

	"github.com/solcade/treasury/internal/chain"
	"github.com/solcade/treasury/internal/domain"
	"github.com/solcade/treasury/internal/logger"
	"github.com/solcade/treasury/internal/metrics"
	"github.com/solcade/treasury/internal/repository"
)

// Service defines the interface for custodial account registry operations
type Service interface {
	// Ensure returns the custodial account for (player, mint), creating it
	// on chain and in the registry if it does not exist yet.
	Ensure(ctx context.Context, playerID, mint string) (*domain.CustodialAccount, error)

	// Get returns the account for (player, mint), or nil when absent.
	Get(ctx context.Context, playerID, mint string) (*domain.CustodialAccount, error)
}

type service struct {
	repo    repository.Account
	adapter chain.Adapter
}

// NewService creates a new account registry service
func NewService(repo repository.Account, adapter chain.Adapter) Service {
	return &service{repo: repo, adapter: adapter}
}

func (s *service) Get(ctx context.Context, playerID, mint string) (*domain.CustodialAccount, error) {
	return s.repo.GetAccount(ctx, playerID, mint)
}

// Ensure creates the on-chain account before the registry row so a chain
// failure leaves no orphan ledger state. If the row insert loses a race, the
// freshly created on-chain address is abandoned rather than risk linking a
// wrong account to a player; the unique (player, mint) constraint decides
// the winner.
func (s *service) Ensure(ctx context.Context, playerID, mint string) (*domain.CustodialAccount, error) {
	log := logger.FromContext(ctx)

	if playerID == "" || mint == "" {
		return nil, fmt.Errorf("%w: player id and mint are required", domain.ErrInvalidInput)
	}

	existing, err := s.repo.GetAccount(ctx, playerID, mint)
	if err != nil {
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	address, err := s.adapter.CreateCustodialAccount(ctx, mint)
	if err != nil {
		metrics.ChainCallsTotal.WithLabelValues("create_account", metrics.OutcomeError).Inc()
		log.Error("Failed to create on-chain account", "error", err, "player_id", playerID, "mint", mint)
		return nil, fmt.Errorf("failed to create on-chain account: %w", err)
	}
	metrics.ChainCallsTotal.WithLabelValues("create_account", metrics.OutcomeOK).Inc()

	created, inserted, err := s.repo.InsertAccount(ctx, &domain.CustodialAccount{
		PlayerID: playerID,
		Mint:     mint,
		Address:  address,
	})
	if err != nil {
		// The chain account exists but the registry row does not. The caller
		// retries the whole Ensure; the abandoned address stays unreferenced.
		log.Error("Failed to persist custodial account after chain creation",
			"error", err,
			"player_id", playerID,
			"mint", mint,
			"abandoned_address", address)
		return nil, fmt.Errorf("failed to persist custodial account: %w", err)
	}
	if !inserted {
		log.Warn("Lost account creation race, abandoning on-chain address",
			"player_id", playerID,
			"mint", mint,
			"abandoned_address", address,
			"kept_address", created.Address)
		return created, nil
	}

	log.Info("Custodial account created",
		"player_id", playerID,
		"mint", mint,
		"address", created.Address)
	return created, nil
}
