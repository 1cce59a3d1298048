package ledger

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/solcade/treasury/internal/domain"
	"github.com/solcade/treasury/internal/repository"
)

// MockRepository implements repository.Ledger for testing
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetBalance(ctx context.Context, playerID, mint string) (int64, error) {
	args := m.Called(ctx, playerID, mint)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) GetHistory(ctx context.Context, playerID string, limit, offset int) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, playerID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

func (m *MockRepository) IsConfirmationApplied(ctx context.Context, token string) (bool, error) {
	args := m.Called(ctx, token)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) BeginTx(ctx context.Context) (repository.LedgerTx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(repository.LedgerTx), args.Error(1)
}

// MockTx implements repository.LedgerTx for testing
type MockTx struct {
	mock.Mock
}

func (m *MockTx) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTx) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTx) LockAccount(ctx context.Context, playerID, mint string) (*domain.CustodialAccount, error) {
	args := m.Called(ctx, playerID, mint)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CustodialAccount), args.Error(1)
}

func (m *MockTx) UpdateBalance(ctx context.Context, accountID string, newBalance int64) error {
	args := m.Called(ctx, accountID, newBalance)
	return args.Error(0)
}

func (m *MockTx) InsertEntry(ctx context.Context, entry *domain.LedgerEntry) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, entry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Error(1)
}

func (m *MockTx) IsConfirmationApplied(ctx context.Context, token string) (bool, error) {
	args := m.Called(ctx, token)
	return args.Bool(0), args.Error(1)
}
