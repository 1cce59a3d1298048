package chain

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/solcade/treasury/internal/domain"
)

// Memory is an in-memory Adapter used by tests and local development. It
// keeps real balances per account so reconciliation behaves like it would
// against a live cluster, and supports fault and drift injection.
type Memory struct {
	mu        sync.Mutex
	cfg       Config
	balances  map[string]int64  // account address -> balance
	items     map[string]string // item id -> holding address
	confirmed map[string]string // request id -> confirmation token
	calls     []string

	failNext    error
	timeoutNext bool
}

// NewMemory creates an in-memory chain seeded from cfg.
func NewMemory(cfg Config) *Memory {
	m := &Memory{
		cfg:       cfg,
		balances:  make(map[string]int64),
		items:     make(map[string]string),
		confirmed: make(map[string]string),
	}
	if cfg.ReserveWallet != "" {
		m.balances[cfg.ReserveWallet] = 0
	}
	return m
}

// FailNext makes the next mutating call fail with err.
func (m *Memory) FailNext(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failNext = err
}

// TimeoutNext makes the next mutating call report an unknown outcome while
// still applying its effect, mimicking a landed-but-unconfirmed submission.
func (m *Memory) TimeoutNext() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timeoutNext = true
}

// Drift mutates an account balance outside the ledger's knowledge.
func (m *Memory) Drift(account string, delta int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[account] += delta
}

// Calls returns the mutating calls seen so far, oldest first.
func (m *Memory) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

// Confirmation returns the token recorded for a request id, if the
// submission landed. Used by callers resolving unknown outcomes.
func (m *Memory) Confirmation(requestID string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	token, ok := m.confirmed[requestID]
	return token, ok
}

func (m *Memory) gate(op string) error {
	m.calls = append(m.calls, op)
	if m.failNext != nil {
		err := m.failNext
		m.failNext = nil
		return err
	}
	return nil
}

func (m *Memory) confirm(requestID string) (string, error) {
	token := "sig-" + uuid.NewString()
	m.confirmed[requestID] = token
	if m.timeoutNext {
		m.timeoutNext = false
		return "", domain.ErrChainTimeout
	}
	return token, nil
}

func (m *Memory) CreateCustodialAccount(ctx context.Context, mint string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.gate("createAccount"); err != nil {
		return "", err
	}
	addr := "acct-" + uuid.NewString()
	m.balances[addr] = 0
	return addr, nil
}

func (m *Memory) Mint(ctx context.Context, requestID, mint, toAccount string, amount int64) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.gate("mint"); err != nil {
		return "", err
	}
	if _, ok := m.balances[toAccount]; !ok {
		return "", fmt.Errorf("%w: unknown account %s", domain.ErrChainRejected, toAccount)
	}
	m.balances[toAccount] += amount
	return m.confirm(requestID)
}

func (m *Memory) Burn(ctx context.Context, requestID, mint, fromAccount string, amount int64) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.gate("burn"); err != nil {
		return "", err
	}
	if m.balances[fromAccount] < amount {
		return "", fmt.Errorf("%w: insufficient on-chain balance", domain.ErrChainRejected)
	}
	m.balances[fromAccount] -= amount
	return m.confirm(requestID)
}

func (m *Memory) TransferFungible(ctx context.Context, requestID, mint, fromAccount, toAccount string, amount int64) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.gate("transfer"); err != nil {
		return "", err
	}
	if m.balances[fromAccount] < amount {
		return "", fmt.Errorf("%w: insufficient on-chain balance", domain.ErrChainRejected)
	}
	if _, ok := m.balances[toAccount]; !ok {
		return "", fmt.Errorf("%w: unknown account %s", domain.ErrChainRejected, toAccount)
	}
	m.balances[fromAccount] -= amount
	m.balances[toAccount] += amount
	return m.confirm(requestID)
}

func (m *Memory) TransferNonFungible(ctx context.Context, requestID, itemID, toAddress string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.gate("transferItem"); err != nil {
		return "", err
	}
	holder, ok := m.items[itemID]
	if !ok {
		return "", fmt.Errorf("%w: unknown item %s", domain.ErrChainRejected, itemID)
	}
	if holder != m.cfg.CustodialWallet {
		return "", fmt.Errorf("%w: item %s not in custodial wallet", domain.ErrChainRejected, itemID)
	}
	m.items[itemID] = toAddress
	return m.confirm(requestID)
}

func (m *Memory) MintNonFungible(ctx context.Context, requestID, itemID, collection, metadataURI string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.gate("mintItem"); err != nil {
		return "", err
	}
	if _, ok := m.items[itemID]; ok {
		return "", fmt.Errorf("%w: item %s already minted", domain.ErrChainRejected, itemID)
	}
	m.items[itemID] = m.cfg.CustodialWallet
	return m.confirm(requestID)
}

func (m *Memory) ReadBalance(ctx context.Context, account string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	balance, ok := m.balances[account]
	if !ok {
		return 0, fmt.Errorf("%w: unknown account %s", domain.ErrChainUnavailable, account)
	}
	return balance, nil
}
