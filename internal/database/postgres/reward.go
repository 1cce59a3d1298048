package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/solcade/treasury/internal/domain"
)

const rewardColumns = `reward_id, player_id, category, amount, confirmation_token, context, created_at`

// RewardRepository implements the reward report repository for PostgreSQL
type RewardRepository struct {
	db *pgxpool.Pool
}

// NewRewardRepository creates a new RewardRepository
func NewRewardRepository(db *pgxpool.Pool) *RewardRepository {
	return &RewardRepository{db: db}
}

// InsertReward records one reward issuance for reporting.
func (r *RewardRepository) InsertReward(ctx context.Context, record *domain.RewardRecord) (*domain.RewardRecord, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO reward_records (player_id, category, amount, confirmation_token, context)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+rewardColumns,
		record.PlayerID, record.Category, record.Amount, record.ConfirmationToken, record.Context)

	var inserted domain.RewardRecord
	err := row.Scan(
		&inserted.ID, &inserted.PlayerID, &inserted.Category, &inserted.Amount,
		&inserted.ConfirmationToken, &inserted.Context, &inserted.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert reward record: %w", err)
	}
	return &inserted, nil
}

// ListRewards returns recent rewards for a player, newest first.
func (r *RewardRepository) ListRewards(ctx context.Context, playerID string, limit int) ([]domain.RewardRecord, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+rewardColumns+` FROM reward_records
		 WHERE player_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		playerID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query reward records: %w", err)
	}
	defer rows.Close()

	var records []domain.RewardRecord
	for rows.Next() {
		var rec domain.RewardRecord
		err := rows.Scan(
			&rec.ID, &rec.PlayerID, &rec.Category, &rec.Amount,
			&rec.ConfirmationToken, &rec.Context, &rec.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reward record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
