package account

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/solcade/treasury/internal/domain"
)

// MockAccountRepository implements repository.Account for testing
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) GetAccount(ctx context.Context, playerID, mint string) (*domain.CustodialAccount, error) {
	args := m.Called(ctx, playerID, mint)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CustodialAccount), args.Error(1)
}

func (m *MockAccountRepository) InsertAccount(ctx context.Context, account *domain.CustodialAccount) (*domain.CustodialAccount, bool, error) {
	args := m.Called(ctx, account)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*domain.CustodialAccount), args.Bool(1), args.Error(2)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context) ([]domain.CustodialAccount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CustodialAccount), args.Error(1)
}

func (m *MockAccountRepository) UpdateSyncState(ctx context.Context, accountID string, onChainBalance int64, synced bool, syncedAt time.Time) error {
	args := m.Called(ctx, accountID, onChainBalance, synced, syncedAt)
	return args.Error(0)
}
