package reconcile

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/solcade/treasury/internal/chain"
	"github.com/solcade/treasury/internal/domain"
)

func testChainConfig() chain.Config {
	return chain.Config{
		Cluster:         "memory",
		GameMint:        "MintGame1111111111111111111111111111111111",
		CustodialWallet: "wallet-custodial",
		ReserveWallet:   "wallet-reserve",
	}
}

func testAccounts(mem *chain.Memory) []domain.CustodialAccount {
	// Register the addresses with the memory adapter at their ledger balances
	// so a clean pass observes zero divergence.
	mem.Drift("addr-1", 100)
	mem.Drift("addr-2", 250)
	return []domain.CustodialAccount{
		{ID: "acct-1", PlayerID: "player-1", Mint: "mint-1", Address: "addr-1", Balance: 100},
		{ID: "acct-2", PlayerID: "player-2", Mint: "mint-1", Address: "addr-2", Balance: 250},
	}
}

func TestRun_AllSynced(t *testing.T) {
	// ARRANGE
	mockRepo := new(MockAccountRepository)
	mem := chain.NewMemory(testChainConfig())
	svc := NewService(mockRepo, mem)
	ctx := context.Background()

	mockRepo.On("ListAccounts", ctx).Return(testAccounts(mem), nil)
	mockRepo.On("UpdateSyncState", ctx, "acct-1", int64(100), true, mock.Anything).Return(nil)
	mockRepo.On("UpdateSyncState", ctx, "acct-2", int64(250), true, mock.Anything).Return(nil)

	// ACT
	snapshot, err := svc.Run(ctx)

	// ASSERT
	require.NoError(t, err)
	assert.Equal(t, 2, snapshot.Checked)
	assert.Equal(t, 0, snapshot.Diverged)
	assert.Equal(t, 0, snapshot.Errors)
	mockRepo.AssertExpectations(t)
}

func TestRun_FlagsDrift(t *testing.T) {
	// ARRANGE: addr-2 drifts outside the ledger's knowledge.
	mockRepo := new(MockAccountRepository)
	mem := chain.NewMemory(testChainConfig())
	svc := NewService(mockRepo, mem)
	ctx := context.Background()
	accounts := testAccounts(mem)
	mem.Drift("addr-2", 37)

	mockRepo.On("ListAccounts", ctx).Return(accounts, nil)
	mockRepo.On("UpdateSyncState", ctx, "acct-1", int64(100), true, mock.Anything).Return(nil)
	mockRepo.On("UpdateSyncState", ctx, "acct-2", int64(287), false, mock.Anything).Return(nil)

	// ACT
	snapshot, err := svc.Run(ctx)

	// ASSERT: flagged, never auto-corrected.
	require.NoError(t, err)
	assert.Equal(t, 1, snapshot.Diverged)
	observed, ok := svc.LastObserved("addr-2")
	require.True(t, ok)
	assert.Equal(t, int64(287), observed)
	mockRepo.AssertExpectations(t)
}

func TestRun_ReadFailureIsNotDivergence(t *testing.T) {
	// ARRANGE: addr-missing is unknown to the chain, so its read fails.
	mockRepo := new(MockAccountRepository)
	mem := chain.NewMemory(testChainConfig())
	svc := NewService(mockRepo, mem)
	ctx := context.Background()
	mem.Drift("addr-1", 100)
	accounts := []domain.CustodialAccount{
		{ID: "acct-1", PlayerID: "player-1", Mint: "mint-1", Address: "addr-1", Balance: 100},
		{ID: "acct-2", PlayerID: "player-2", Mint: "mint-1", Address: "addr-missing", Balance: 50},
	}

	mockRepo.On("ListAccounts", ctx).Return(accounts, nil)
	mockRepo.On("UpdateSyncState", ctx, "acct-1", int64(100), true, mock.Anything).Return(nil)

	// ACT
	snapshot, err := svc.Run(ctx)

	// ASSERT: the unreadable account is skipped, not flagged.
	require.NoError(t, err)
	assert.Equal(t, 2, snapshot.Checked)
	assert.Equal(t, 0, snapshot.Diverged)
	assert.Equal(t, 1, snapshot.Errors)
	mockRepo.AssertNotCalled(t, "UpdateSyncState", ctx, "acct-2", mock.Anything, mock.Anything, mock.Anything)
}

func TestRun_ListFailure(t *testing.T) {
	mockRepo := new(MockAccountRepository)
	svc := NewService(mockRepo, chain.NewMemory(testChainConfig()))
	ctx := context.Background()
	listErr := errors.New("connection lost")

	mockRepo.On("ListAccounts", ctx).Return(nil, listErr)

	snapshot, err := svc.Run(ctx)

	require.ErrorIs(t, err, listErr)
	assert.Nil(t, snapshot)
	assert.Nil(t, svc.LastRun())
}

func TestLastRun(t *testing.T) {
	mockRepo := new(MockAccountRepository)
	mem := chain.NewMemory(testChainConfig())
	svc := NewService(mockRepo, mem)
	ctx := context.Background()

	require.Nil(t, svc.LastRun())

	mockRepo.On("ListAccounts", ctx).Return([]domain.CustodialAccount{}, nil)
	_, err := svc.Run(ctx)
	require.NoError(t, err)

	last := svc.LastRun()
	require.NotNil(t, last)
	assert.Equal(t, 0, last.Checked)
	assert.False(t, last.RanAt.IsZero())
}

func TestJob_Process(t *testing.T) {
	mockRepo := new(MockAccountRepository)
	svc := NewService(mockRepo, chain.NewMemory(testChainConfig()))
	mockRepo.On("ListAccounts", mock.Anything).Return([]domain.CustodialAccount{}, nil)

	job := NewJob(svc)
	err := job.Process(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, svc.LastRun())
}
