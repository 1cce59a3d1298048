package custody

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/solcade/treasury/internal/domain"
)

// MockItemRepository implements repository.Item for testing
type MockItemRepository struct {
	mock.Mock
}

func (m *MockItemRepository) InsertItem(ctx context.Context, item *domain.CustodialItem) (*domain.CustodialItem, error) {
	args := m.Called(ctx, item)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CustodialItem), args.Error(1)
}

func (m *MockItemRepository) GetItem(ctx context.Context, itemID string) (*domain.CustodialItem, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CustodialItem), args.Error(1)
}

func (m *MockItemRepository) ListItems(ctx context.Context, playerID string) ([]domain.CustodialItem, error) {
	args := m.Called(ctx, playerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CustodialItem), args.Error(1)
}

func (m *MockItemRepository) MarkWithdrawn(ctx context.Context, itemID, destination string, withdrawnAt time.Time) error {
	args := m.Called(ctx, itemID, destination, withdrawnAt)
	return args.Error(0)
}

func (m *MockItemRepository) MarkBurned(ctx context.Context, itemID string) error {
	args := m.Called(ctx, itemID)
	return args.Error(0)
}
