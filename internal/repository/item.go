package repository

import (
	"context"
	"time"

	"github.com/solcade/treasury/internal/domain"
)

// Item defines the interface for custodial item persistence
type Item interface {
	// InsertItem records a newly minted item with status held. A duplicate
	// (player_id, slot) fails with domain.ErrSlotTaken.
	InsertItem(ctx context.Context, item *domain.CustodialItem) (*domain.CustodialItem, error)

	// GetItem returns an item by id, or nil when absent.
	GetItem(ctx context.Context, itemID string) (*domain.CustodialItem, error)

	// ListItems returns all items recorded for a player, newest first.
	ListItems(ctx context.Context, playerID string) ([]domain.CustodialItem, error)

	// MarkWithdrawn flips status held -> withdrawn, recording destination and
	// timestamp. The update is guarded on the current status; it reports
	// domain.ErrItemNotHeld when the item already left custody.
	MarkWithdrawn(ctx context.Context, itemID, destination string, withdrawnAt time.Time) error

	// MarkBurned flips status held -> burned, guarded like MarkWithdrawn.
	MarkBurned(ctx context.Context, itemID string) error
}
