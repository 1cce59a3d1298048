package treasury

import (
	"context"
	"fmt"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/solcade/treasury/internal/domain"
	"github.com/solcade/treasury/internal/ledger"
)

// MockAccountService implements account.Service for testing
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) Ensure(ctx context.Context, playerID, mint string) (*domain.CustodialAccount, error) {
	args := m.Called(ctx, playerID, mint)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CustodialAccount), args.Error(1)
}

func (m *MockAccountService) Get(ctx context.Context, playerID, mint string) (*domain.CustodialAccount, error) {
	args := m.Called(ctx, playerID, mint)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CustodialAccount), args.Error(1)
}

// MockLedgerService implements ledger.Service for testing
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) GetBalance(ctx context.Context, playerID, mint string) (int64, error) {
	args := m.Called(ctx, playerID, mint)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerService) ApplyDelta(ctx context.Context, params ledger.ApplyDeltaParams) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerService) History(ctx context.Context, playerID string, limit, offset int) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, playerID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerService) IsConfirmationApplied(ctx context.Context, token string) (bool, error) {
	args := m.Called(ctx, token)
	return args.Bool(0), args.Error(1)
}

// MockRewardRepository implements repository.Reward for testing
type MockRewardRepository struct {
	mock.Mock
}

func (m *MockRewardRepository) InsertReward(ctx context.Context, record *domain.RewardRecord) (*domain.RewardRecord, error) {
	args := m.Called(ctx, record)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RewardRecord), args.Error(1)
}

func (m *MockRewardRepository) ListRewards(ctx context.Context, playerID string, limit int) ([]domain.RewardRecord, error) {
	args := m.Called(ctx, playerID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RewardRecord), args.Error(1)
}

// stubObserver implements BalanceObserver over a fixed map.
type stubObserver struct {
	balances map[string]int64
}

func (o *stubObserver) LastObserved(address string) (int64, bool) {
	balance, ok := o.balances[address]
	return balance, ok
}

// balanceLedger implements ledger.Service over one real balance. Concurrency
// tests need arithmetic that reflects earlier deltas, which canned mock
// expectations cannot provide.
type balanceLedger struct {
	mu      sync.Mutex
	balance int64
}

func (l *balanceLedger) GetBalance(ctx context.Context, playerID, mint string) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balance, nil
}

func (l *balanceLedger) ApplyDelta(ctx context.Context, params ledger.ApplyDeltaParams) (*domain.LedgerEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	next := l.balance + params.Amount
	if next < 0 {
		return nil, fmt.Errorf("%w: have %d, need %d", domain.ErrInsufficientBalance, l.balance, -params.Amount)
	}
	before := l.balance
	l.balance = next
	return &domain.LedgerEntry{
		PlayerID:      params.PlayerID,
		Mint:          params.Mint,
		Kind:          params.Kind,
		Amount:        params.Amount,
		BalanceBefore: before,
		BalanceAfter:  next,
	}, nil
}

func (l *balanceLedger) History(ctx context.Context, playerID string, limit, offset int) ([]domain.LedgerEntry, error) {
	return nil, nil
}

func (l *balanceLedger) IsConfirmationApplied(ctx context.Context, token string) (bool, error) {
	return false, nil
}
