package repository

import (
	"context"

	"github.com/solcade/treasury/internal/domain"
)

// Reward defines the interface for reward report persistence
type Reward interface {
	InsertReward(ctx context.Context, record *domain.RewardRecord) (*domain.RewardRecord, error)
	ListRewards(ctx context.Context, playerID string, limit int) ([]domain.RewardRecord, error)
}
