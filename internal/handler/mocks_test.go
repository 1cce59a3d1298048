package handler

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/solcade/treasury/internal/custody"
	"github.com/solcade/treasury/internal/domain"
	"github.com/solcade/treasury/internal/treasury"
)

// MockTreasuryService mocks the treasury.Service interface
type MockTreasuryService struct {
	mock.Mock
}

func (m *MockTreasuryService) GetBalance(ctx context.Context, playerID, mint string) (*treasury.BalanceResult, error) {
	args := m.Called(ctx, playerID, mint)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*treasury.BalanceResult), args.Error(1)
}

func (m *MockTreasuryService) Deposit(ctx context.Context, playerID, mint string, externalAmount int64, externalToken string) (*treasury.DepositResult, error) {
	args := m.Called(ctx, playerID, mint, externalAmount, externalToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*treasury.DepositResult), args.Error(1)
}

func (m *MockTreasuryService) Withdraw(ctx context.Context, playerID, mint string, amount int64, destination string) (*treasury.WithdrawResult, error) {
	args := m.Called(ctx, playerID, mint, amount, destination)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*treasury.WithdrawResult), args.Error(1)
}

func (m *MockTreasuryService) IssueReward(ctx context.Context, playerID string, amount int64, category string, rewardCtx map[string]string) (*treasury.RewardResult, error) {
	args := m.Called(ctx, playerID, amount, category, rewardCtx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*treasury.RewardResult), args.Error(1)
}

func (m *MockTreasuryService) Transfer(ctx context.Context, fromPlayerID, toPlayerID, mint string, amount int64) (*treasury.TransferResult, error) {
	args := m.Called(ctx, fromPlayerID, toPlayerID, mint, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*treasury.TransferResult), args.Error(1)
}

func (m *MockTreasuryService) ListTransactions(ctx context.Context, playerID string, limit, offset int) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, playerID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

func (m *MockTreasuryService) ListRewards(ctx context.Context, playerID string, limit int) ([]domain.RewardRecord, error) {
	args := m.Called(ctx, playerID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RewardRecord), args.Error(1)
}

// MockCustodyService mocks the custody.Service interface
type MockCustodyService struct {
	mock.Mock
}

func (m *MockCustodyService) Issue(ctx context.Context, params custody.IssueParams) (*domain.CustodialItem, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CustodialItem), args.Error(1)
}

func (m *MockCustodyService) Withdraw(ctx context.Context, playerID, itemID, destination string) (string, error) {
	args := m.Called(ctx, playerID, itemID, destination)
	return args.String(0), args.Error(1)
}

func (m *MockCustodyService) Burn(ctx context.Context, itemID string) error {
	args := m.Called(ctx, itemID)
	return args.Error(0)
}

func (m *MockCustodyService) List(ctx context.Context, playerID string) ([]domain.CustodialItem, error) {
	args := m.Called(ctx, playerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CustodialItem), args.Error(1)
}
