// Package custody tracks non-fungible items held in the shared
// operator-controlled wallet and executes their withdrawal to player
// wallets. Status transitions are one-directional; a failed chain transfer
// leaves the item held and the operation safely retryable.
package custody

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/solcade/treasury/internal/chain"
	"github.com/solcade/treasury/internal/domain"
	"github.com/solcade/treasury/internal/logger"
	"github.com/solcade/treasury/internal/metrics"
	"github.com/solcade/treasury/internal/repository"
)

// IssueParams describes an item being minted into custody.
type IssueParams struct {
	PlayerID    string
	ItemID      string
	Collection  string
	MetadataURI string
	Slot        *int
}

// Service defines the interface for item custody operations
type Service interface {
	Issue(ctx context.Context, params IssueParams) (*domain.CustodialItem, error)
	Withdraw(ctx context.Context, playerID, itemID, destination string) (string, error)
	Burn(ctx context.Context, itemID string) error
	List(ctx context.Context, playerID string) ([]domain.CustodialItem, error)
}

type service struct {
	repo    repository.Item
	adapter chain.Adapter
	now     func() time.Time
}

// NewService creates a new custody service
func NewService(repo repository.Item, adapter chain.Adapter) Service {
	return &service{
		repo:    repo,
		adapter: adapter,
		now:     time.Now,
	}
}

// Issue mints the item into the shared custodial wallet on chain, then
// records it as held. Slot uniqueness per player is enforced at write time.
func (s *service) Issue(ctx context.Context, params IssueParams) (*domain.CustodialItem, error) {
	log := logger.FromContext(ctx)

	if params.PlayerID == "" || params.ItemID == "" {
		return nil, fmt.Errorf("%w: player id and item id are required", domain.ErrInvalidInput)
	}
	if params.Slot != nil && (*params.Slot < domain.ItemSlotMin || *params.Slot > domain.ItemSlotMax) {
		return nil, fmt.Errorf("%w: slot %d out of range [%d, %d]",
			domain.ErrInvalidInput, *params.Slot, domain.ItemSlotMin, domain.ItemSlotMax)
	}

	requestID := uuid.NewString()
	if _, err := s.adapter.MintNonFungible(ctx, requestID, params.ItemID, params.Collection, params.MetadataURI); err != nil {
		metrics.ChainCallsTotal.WithLabelValues("mint_item", metrics.OutcomeError).Inc()
		log.Error("Failed to mint item into custody", "error", err, "item_id", params.ItemID)
		return nil, fmt.Errorf("failed to mint item: %w", err)
	}
	metrics.ChainCallsTotal.WithLabelValues("mint_item", metrics.OutcomeOK).Inc()

	item, err := s.repo.InsertItem(ctx, &domain.CustodialItem{
		ID:          params.ItemID,
		PlayerID:    params.PlayerID,
		Collection:  params.Collection,
		MetadataURI: params.MetadataURI,
		Slot:        params.Slot,
	})
	if err != nil {
		// Minted on chain but not recorded; the item sits in the custodial
		// wallet unassigned until the issue is replayed.
		log.Error("Failed to record custodial item after mint",
			"error", err,
			"item_id", params.ItemID,
			"player_id", params.PlayerID)
		return nil, err
	}

	log.Info("Item issued into custody",
		"item_id", item.ID,
		"player_id", item.PlayerID,
		"collection", item.Collection)
	return item, nil
}

// Withdraw transfers the item from the custodial wallet to the destination
// and only on success marks it withdrawn.
func (s *service) Withdraw(ctx context.Context, playerID, itemID, destination string) (string, error) {
	log := logger.FromContext(ctx)

	if destination == "" {
		return "", fmt.Errorf("%w: destination address is required", domain.ErrInvalidInput)
	}

	item, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return "", fmt.Errorf("failed to get item: %w", err)
	}
	if item == nil || item.PlayerID != playerID {
		return "", fmt.Errorf("%w: %s", domain.ErrItemNotFound, itemID)
	}
	if !item.CanWithdraw() {
		return "", fmt.Errorf("%w: %s is %s", domain.ErrItemNotHeld, itemID, item.Status)
	}

	requestID := uuid.NewString()
	token, err := s.adapter.TransferNonFungible(ctx, requestID, itemID, destination)
	if err != nil {
		// Status stays held; the withdrawal can be retried.
		metrics.ChainCallsTotal.WithLabelValues("transfer_item", metrics.OutcomeError).Inc()
		log.Error("Item withdrawal transfer failed", "error", err, "item_id", itemID)
		return "", fmt.Errorf("failed to transfer item: %w", err)
	}
	metrics.ChainCallsTotal.WithLabelValues("transfer_item", metrics.OutcomeOK).Inc()

	if err := s.repo.MarkWithdrawn(ctx, itemID, destination, s.now()); err != nil {
		// The item left custody on chain but the row still says held. Log
		// the token so the status flip can be replayed.
		log.Error("Failed to mark item withdrawn after transfer",
			"error", err,
			"item_id", itemID,
			"destination", destination,
			"confirmation_token", token)
		return "", fmt.Errorf("%w: item %s token %s: %v", domain.ErrLedgerWriteFailed, itemID, token, err)
	}

	log.Info("Item withdrawn",
		"item_id", itemID,
		"player_id", playerID,
		"destination", destination)
	return token, nil
}

// Burn marks the item burned. The chain-level burn is a separate capability
// invoked by the caller; this only records the terminal status.
func (s *service) Burn(ctx context.Context, itemID string) error {
	if err := s.repo.MarkBurned(ctx, itemID); err != nil {
		return err
	}
	logger.FromContext(ctx).Info("Item burned", "item_id", itemID)
	return nil
}

func (s *service) List(ctx context.Context, playerID string) ([]domain.CustodialItem, error) {
	return s.repo.ListItems(ctx, playerID)
}
