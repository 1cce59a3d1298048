package chain

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solcade/treasury/internal/domain"
)

func testConfig() Config {
	return Config{
		Cluster:         "test",
		GameMint:        "MintAddr111",
		CustodialWallet: "CustodyWallet111",
	}
}

func TestMemory_MintAndRead(t *testing.T) {
	m := NewMemory(testConfig())
	ctx := context.Background()

	addr, err := m.CreateCustodialAccount(ctx, "MintAddr111")
	require.NoError(t, err)

	token, err := m.Mint(ctx, "req-1", "MintAddr111", addr, 500)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	balance, err := m.ReadBalance(ctx, addr)
	require.NoError(t, err)
	assert.Equal(t, int64(500), balance)
}

func TestMemory_BurnRejectsOverdraw(t *testing.T) {
	m := NewMemory(testConfig())
	ctx := context.Background()

	addr, err := m.CreateCustodialAccount(ctx, "MintAddr111")
	require.NoError(t, err)

	_, err = m.Burn(ctx, "req-1", "MintAddr111", addr, 100)
	assert.ErrorIs(t, err, domain.ErrChainRejected)
}

func TestMemory_TimeoutStillLands(t *testing.T) {
	m := NewMemory(testConfig())
	ctx := context.Background()

	addr, err := m.CreateCustodialAccount(ctx, "MintAddr111")
	require.NoError(t, err)

	m.TimeoutNext()
	_, err = m.Mint(ctx, "req-42", "MintAddr111", addr, 250)
	assert.ErrorIs(t, err, domain.ErrChainTimeout)

	// The submission landed despite the timeout.
	balance, err := m.ReadBalance(ctx, addr)
	require.NoError(t, err)
	assert.Equal(t, int64(250), balance)

	token, ok := m.Confirmation("req-42")
	assert.True(t, ok)
	assert.NotEmpty(t, token)
}

func TestMemory_NonFungibleLifecycle(t *testing.T) {
	m := NewMemory(testConfig())
	ctx := context.Background()

	_, err := m.MintNonFungible(ctx, "req-1", "item-1", "relics", "ipfs://meta")
	require.NoError(t, err)

	_, err = m.MintNonFungible(ctx, "req-2", "item-1", "relics", "ipfs://meta")
	assert.ErrorIs(t, err, domain.ErrChainRejected)

	_, err = m.TransferNonFungible(ctx, "req-3", "item-1", "PlayerWallet111")
	require.NoError(t, err)

	// Second transfer fails: no longer in the custodial wallet.
	_, err = m.TransferNonFungible(ctx, "req-4", "item-1", "OtherWallet111")
	assert.ErrorIs(t, err, domain.ErrChainRejected)
}

func TestMemory_FailNext(t *testing.T) {
	m := NewMemory(testConfig())
	ctx := context.Background()

	m.FailNext(domain.ErrChainUnavailable)
	_, err := m.CreateCustodialAccount(ctx, "MintAddr111")
	assert.ErrorIs(t, err, domain.ErrChainUnavailable)

	// Fault is consumed; next call succeeds.
	_, err = m.CreateCustodialAccount(ctx, "MintAddr111")
	assert.NoError(t, err)
}
