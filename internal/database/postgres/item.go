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

const itemColumns = `item_id, player_id, collection, metadata_uri, status, slot, withdrawn_to, withdrawn_at, created_at, updated_at`

// ItemRepository implements the custodial item repository for PostgreSQL
type ItemRepository struct {
	db *pgxpool.Pool
}

// NewItemRepository creates a new ItemRepository
func NewItemRepository(db *pgxpool.Pool) *ItemRepository {
	return &ItemRepository{db: db}
}

func scanItem(row pgx.Row) (*domain.CustodialItem, error) {
	var i domain.CustodialItem
	var withdrawnTo *string
	err := row.Scan(
		&i.ID, &i.PlayerID, &i.Collection, &i.MetadataURI, &i.Status,
		&i.Slot, &withdrawnTo, &i.WithdrawnAt, &i.CreatedAt, &i.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	i.WithdrawnTo = derefText(withdrawnTo)
	return &i, nil
}

// InsertItem records a newly minted item with status held.
func (r *ItemRepository) InsertItem(ctx context.Context, item *domain.CustodialItem) (*domain.CustodialItem, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO custodial_items (item_id, player_id, collection, metadata_uri, status, slot)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+itemColumns,
		item.ID, item.PlayerID, item.Collection, item.MetadataURI, domain.ItemHeld, item.Slot)

	inserted, err := scanItem(row)
	if err != nil {
		if isUniqueViolation(err, ConstraintPlayerSlot) {
			return nil, fmt.Errorf("%w: player %s", domain.ErrSlotTaken, item.PlayerID)
		}
		return nil, fmt.Errorf("failed to insert custodial item: %w", err)
	}
	return inserted, nil
}

// GetItem returns an item by id, or nil when absent.
func (r *ItemRepository) GetItem(ctx context.Context, itemID string) (*domain.CustodialItem, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+itemColumns+` FROM custodial_items WHERE item_id = $1`, itemID)

	item, err := scanItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get custodial item: %w", err)
	}
	return item, nil
}

// ListItems returns all items recorded for a player, newest first.
func (r *ItemRepository) ListItems(ctx context.Context, playerID string) ([]domain.CustodialItem, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+itemColumns+` FROM custodial_items
		 WHERE player_id = $1
		 ORDER BY created_at DESC`,
		playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query custodial items: %w", err)
	}
	defer rows.Close()

	var items []domain.CustodialItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan custodial item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// MarkWithdrawn flips status held -> withdrawn. The status guard in the
// WHERE clause makes the transition one-directional.
func (r *ItemRepository) MarkWithdrawn(ctx context.Context, itemID, destination string, withdrawnAt time.Time) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE custodial_items
		 SET status = $2, withdrawn_to = $3, withdrawn_at = $4, updated_at = NOW()
		 WHERE item_id = $1 AND status = $5`,
		itemID, domain.ItemWithdrawn, destination, withdrawnAt, domain.ItemHeld)
	if err != nil {
		return fmt.Errorf("failed to mark item withdrawn: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return r.notHeldError(ctx, itemID)
	}
	return nil
}

// MarkBurned flips status held -> burned.
func (r *ItemRepository) MarkBurned(ctx context.Context, itemID string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE custodial_items
		 SET status = $2, updated_at = NOW()
		 WHERE item_id = $1 AND status = $3`,
		itemID, domain.ItemBurned, domain.ItemHeld)
	if err != nil {
		return fmt.Errorf("failed to mark item burned: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return r.notHeldError(ctx, itemID)
	}
	return nil
}

// notHeldError distinguishes a missing item from one that already left
// custody after a guarded update matched no rows.
func (r *ItemRepository) notHeldError(ctx context.Context, itemID string) error {
	item, err := r.GetItem(ctx, itemID)
	if err != nil {
		return err
	}
	if item == nil {
		return fmt.Errorf("%w: %s", domain.ErrItemNotFound, itemID)
	}
	return fmt.Errorf("%w: %s is %s", domain.ErrItemNotHeld, itemID, item.Status)
}
