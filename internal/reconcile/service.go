// Package reconcile periodically compares each custodial account's ledger
// balance to a live on-chain read. Divergence is flagged and surfaced, never
// auto-corrected: overwriting either side could absorb an exploit or clobber
// legitimate pending state.
package reconcile

import (
	"context"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/solcade/treasury/internal/chain"
	"github.com/solcade/treasury/internal/logger"
	"github.com/solcade/treasury/internal/metrics"
	"github.com/solcade/treasury/internal/repository"
)

// observedCacheSize bounds the per-address cache of last on-chain reads.
const observedCacheSize = 4096

// Snapshot summarizes the most recent reconciliation pass.
type Snapshot struct {
	RanAt    time.Time `json:"ran_at"`
	Checked  int       `json:"checked"`
	Diverged int       `json:"diverged"`
	Errors   int       `json:"errors"`
}

// Service defines the interface for reconciliation operations
type Service interface {
	// Run executes one reconciliation pass over all custodial accounts.
	Run(ctx context.Context) (*Snapshot, error)

	// LastRun returns the most recent snapshot, or nil before the first pass.
	LastRun() *Snapshot

	// LastObserved returns the cached on-chain balance for an address.
	LastObserved(address string) (int64, bool)
}

type service struct {
	accounts repository.Account
	adapter  chain.Adapter
	now      func() time.Time

	mu       sync.RWMutex
	last     *Snapshot
	observed *lru.Cache[string, int64]
}

// NewService creates a new reconciliation service
func NewService(accounts repository.Account, adapter chain.Adapter) Service {
	cache, _ := lru.New[string, int64](observedCacheSize)
	return &service{
		accounts: accounts,
		adapter:  adapter,
		now:      time.Now,
		observed: cache,
	}
}

func (s *service) Run(ctx context.Context) (*Snapshot, error) {
	log := logger.FromContext(ctx)

	accounts, err := s.accounts.ListAccounts(ctx)
	if err != nil {
		log.Error("Failed to list accounts for reconciliation", "error", err)
		return nil, err
	}

	snapshot := &Snapshot{RanAt: s.now()}
	for _, acct := range accounts {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		snapshot.Checked++

		onChain, err := s.adapter.ReadBalance(ctx, acct.Address)
		if err != nil {
			// A read failure is not divergence; skip and retry next pass.
			snapshot.Errors++
			log.Warn("Failed to read on-chain balance",
				"error", err,
				"address", acct.Address,
				"player_id", acct.PlayerID)
			continue
		}
		s.observed.Add(acct.Address, onChain)

		synced := onChain == acct.Balance
		if !synced {
			snapshot.Diverged++
			log.Warn("Ledger and chain diverged",
				"player_id", acct.PlayerID,
				"mint", acct.Mint,
				"address", acct.Address,
				"ledger_balance", acct.Balance,
				"on_chain_balance", onChain)
		}

		if err := s.accounts.UpdateSyncState(ctx, acct.ID, onChain, synced, snapshot.RanAt); err != nil {
			snapshot.Errors++
			log.Error("Failed to record sync state", "error", err, "account_id", acct.ID)
		}
	}

	metrics.ReconciliationRuns.Inc()
	metrics.AccountsDiverged.Set(float64(snapshot.Diverged))

	s.mu.Lock()
	s.last = snapshot
	s.mu.Unlock()

	log.Info("Reconciliation pass complete",
		"checked", snapshot.Checked,
		"diverged", snapshot.Diverged,
		"errors", snapshot.Errors)
	return snapshot, nil
}

func (s *service) LastRun() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}

func (s *service) LastObserved(address string) (int64, bool) {
	return s.observed.Get(address)
}

// Job adapts the service to the worker pool's Job interface.
type Job struct {
	svc Service
}

// NewJob creates a reconciliation job for the scheduler.
func NewJob(svc Service) *Job {
	return &Job{svc: svc}
}

// Process runs one reconciliation pass.
func (j *Job) Process(ctx context.Context) error {
	_, err := j.svc.Run(ctx)
	return err
}
