// Package treasury implements the transaction engine: deposit, withdraw,
// reward issuance and internal transfer. Every operation follows the same
// discipline: validate locally, mutate the chain, and only after a positive
// chain confirmation apply the matching ledger delta. There is no
// cross-system transaction with the chain; idempotency keys plus
// reconciliation cover the gap.
package treasury

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/solcade/treasury/internal/account"
	"github.com/solcade/treasury/internal/chain"
	"github.com/solcade/treasury/internal/concurrency"
	"github.com/solcade/treasury/internal/domain"
	"github.com/solcade/treasury/internal/ledger"
	"github.com/solcade/treasury/internal/logger"
	"github.com/solcade/treasury/internal/metrics"
	"github.com/solcade/treasury/internal/repository"
)

// BalanceResult is the read contract for a player's balance. OnChainBalance
// is the last reconciled observation and is nil until the first pass covers
// the account.
type BalanceResult struct {
	Balance          int64     `json:"balance"`
	FormattedBalance string    `json:"formatted_balance"`
	AccountAddress   string    `json:"custodial_account_address,omitempty"`
	LastSyncedAt     time.Time `json:"last_synced_at,omitempty"`
	OnChainBalance   *int64    `json:"on_chain_balance,omitempty"`
}

// BalanceObserver reports the last on-chain balance a reconciliation pass
// recorded for an address. Satisfied by the reconcile service.
type BalanceObserver interface {
	LastObserved(address string) (int64, bool)
}

// DepositResult is returned by a successful deposit.
type DepositResult struct {
	ConfirmationToken string `json:"confirmation_token"`
	NewBalance        int64  `json:"new_balance"`
}

// WithdrawResult is returned by a successful withdrawal.
type WithdrawResult struct {
	ConfirmationToken string `json:"confirmation_token"`
	ExternalAmount    int64  `json:"external_amount"`
}

// RewardResult is returned by a successful reward issuance.
type RewardResult struct {
	ConfirmationToken string `json:"confirmation_token"`
	NewBalance        int64  `json:"new_balance"`
}

// TransferResult is returned by a successful internal transfer.
type TransferResult struct {
	ConfirmationToken string `json:"confirmation_token"`
	FromBalance       int64  `json:"from_balance"`
	ToBalance         int64  `json:"to_balance"`
}

// Service defines the interface for treasury operations
type Service interface {
	GetBalance(ctx context.Context, playerID, mint string) (*BalanceResult, error)
	Deposit(ctx context.Context, playerID, mint string, externalAmount int64, externalToken string) (*DepositResult, error)
	Withdraw(ctx context.Context, playerID, mint string, amount int64, destination string) (*WithdrawResult, error)
	IssueReward(ctx context.Context, playerID string, amount int64, category string, context map[string]string) (*RewardResult, error)
	Transfer(ctx context.Context, fromPlayerID, toPlayerID, mint string, amount int64) (*TransferResult, error)
	ListTransactions(ctx context.Context, playerID string, limit, offset int) ([]domain.LedgerEntry, error)
	ListRewards(ctx context.Context, playerID string, limit int) ([]domain.RewardRecord, error)
}

type service struct {
	accounts  account.Service
	ledgerSvc ledger.Service
	rewards   repository.Reward
	adapter   chain.Adapter
	cfg       chain.Config
	scale     int64
	printer   *message.Printer
	outflows  *concurrency.LockManager
	observer  BalanceObserver
}

// NewService creates a new treasury service
func NewService(accounts account.Service, ledgerSvc ledger.Service, rewards repository.Reward, adapter chain.Adapter, cfg chain.Config, scale int64, observer BalanceObserver) Service {
	return &service{
		accounts:  accounts,
		ledgerSvc: ledgerSvc,
		rewards:   rewards,
		adapter:   adapter,
		cfg:       cfg,
		scale:     scale,
		printer:   message.NewPrinter(language.English),
		outflows:  concurrency.NewLockManager(),
		observer:  observer,
	}
}

// lockOutflows serializes debit-side operations for one (player, mint) pair.
// The ledger row lock alone cannot help here: two concurrent withdrawals
// could both pass the pre-chain balance check and both burn on chain before
// either ledger debit lands.
func (s *service) lockOutflows(playerID, mint string) func() {
	lock := s.outflows.GetLock(playerID + "|" + mint)
	lock.Lock()
	return lock.Unlock
}

func (s *service) GetBalance(ctx context.Context, playerID, mint string) (*BalanceResult, error) {
	if playerID == "" {
		return nil, fmt.Errorf("%w: player id is required", domain.ErrInvalidInput)
	}
	acct, err := s.accounts.Get(ctx, playerID, mint)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if acct == nil {
		// No account yet means the player simply has nothing; not an error.
		return &BalanceResult{Balance: 0, FormattedBalance: s.printer.Sprintf("%d", 0)}, nil
	}
	result := &BalanceResult{
		Balance:          acct.Balance,
		FormattedBalance: s.printer.Sprintf("%d", acct.Balance),
		AccountAddress:   acct.Address,
		LastSyncedAt:     acct.LastSyncedAt,
	}
	// The reconciliation cache spares a chain round trip on the read path;
	// a miss just means no pass has covered this account yet.
	if s.observer != nil {
		if observed, ok := s.observer.LastObserved(acct.Address); ok {
			result.OnChainBalance = &observed
		}
	}
	return result, nil
}

// Deposit credits a player for an already-confirmed external deposit. The
// external confirmation token is the idempotency key: replaying the same
// token can never credit twice.
func (s *service) Deposit(ctx context.Context, playerID, mint string, externalAmount int64, externalToken string) (*DepositResult, error) {
	log := logger.FromContext(ctx)

	if externalToken == "" {
		return nil, fmt.Errorf("%w: external confirmation token is required", domain.ErrInvalidInput)
	}
	internalAmount, err := toInternal(externalAmount, s.scale)
	if err != nil {
		return nil, err
	}

	applied, err := s.ledgerSvc.IsConfirmationApplied(ctx, externalToken)
	if err != nil {
		return nil, fmt.Errorf("failed to check confirmation token: %w", err)
	}
	if applied {
		return nil, fmt.Errorf("%w: %s", domain.ErrDuplicateConfirmation, externalToken)
	}

	acct, err := s.accounts.Ensure(ctx, playerID, mint)
	if err != nil {
		return nil, err
	}

	// Chain first. A crash after the mint but before the ledger credit
	// leaves minted tokens with no matching entry; reconciliation flags the
	// divergence and the operator replays the deposit with the same token.
	mintSig, err := s.chainCall(ctx, "mint", func(requestID string) (string, error) {
		return s.adapter.Mint(ctx, requestID, mint, acct.Address, internalAmount)
	})
	if err != nil {
		return nil, err
	}

	entry, err := s.ledgerSvc.ApplyDelta(ctx, ledger.ApplyDeltaParams{
		PlayerID:          playerID,
		Mint:              mint,
		Amount:            internalAmount,
		Kind:              domain.EntryDeposit,
		ConfirmationToken: externalToken,
		Context: map[string]string{
			"mint_signature": mintSig,
		},
	})
	if err != nil {
		return nil, s.escalateLedgerFailure(ctx, err, "deposit", playerID, mint, internalAmount, externalToken)
	}

	log.Info("Deposit applied",
		"player_id", playerID,
		"external_amount", externalAmount,
		"internal_amount", internalAmount,
		"balance_after", entry.BalanceAfter)

	return &DepositResult{ConfirmationToken: externalToken, NewBalance: entry.BalanceAfter}, nil
}

// Withdraw debits a player's ledger balance and pays out the equivalent
// external token. The balance check happens before any chain call.
func (s *service) Withdraw(ctx context.Context, playerID, mint string, amount int64, destination string) (*WithdrawResult, error) {
	log := logger.FromContext(ctx)

	if destination == "" {
		return nil, fmt.Errorf("%w: destination address is required", domain.ErrInvalidInput)
	}
	externalAmount, err := toExternal(amount, s.scale)
	if err != nil {
		return nil, err
	}

	defer s.lockOutflows(playerID, mint)()

	balance, err := s.ledgerSvc.GetBalance(ctx, playerID, mint)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}
	if balance < amount {
		return nil, fmt.Errorf("%w: have %d, need %d", domain.ErrInsufficientBalance, balance, amount)
	}

	acct, err := s.accounts.Get(ctx, playerID, mint)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if acct == nil {
		return nil, fmt.Errorf("%w: no account for player %s", domain.ErrInsufficientBalance, playerID)
	}

	// Burn the custodial credit, then pay the external leg from the
	// operator reserve. A failure between the two legs leaves the ledger
	// untouched; reconciliation surfaces the burned-but-unpaid divergence.
	if _, err := s.chainCall(ctx, "burn", func(requestID string) (string, error) {
		return s.adapter.Burn(ctx, requestID, mint, acct.Address, amount)
	}); err != nil {
		return nil, err
	}

	transferSig, err := s.chainCall(ctx, "transfer", func(requestID string) (string, error) {
		return s.adapter.TransferFungible(ctx, requestID, s.cfg.ExternalMint, s.cfg.ReserveWallet, destination, externalAmount)
	})
	if err != nil {
		log.Error("Withdrawal payout failed after burn; ledger untouched, awaiting reconciliation",
			"error", err,
			"player_id", playerID,
			"account", acct.Address,
			"amount", amount)
		return nil, err
	}

	entry, err := s.ledgerSvc.ApplyDelta(ctx, ledger.ApplyDeltaParams{
		PlayerID:          playerID,
		Mint:              mint,
		Amount:            -amount,
		Kind:              domain.EntryWithdraw,
		ConfirmationToken: transferSig,
		Context: map[string]string{
			domain.ContextKeyDestination: destination,
		},
	})
	if err != nil {
		return nil, s.escalateLedgerFailure(ctx, err, "withdraw", playerID, mint, -amount, transferSig)
	}

	log.Info("Withdrawal applied",
		"player_id", playerID,
		"amount", amount,
		"external_amount", externalAmount,
		"destination", destination,
		"balance_after", entry.BalanceAfter)

	return &WithdrawResult{ConfirmationToken: transferSig, ExternalAmount: externalAmount}, nil
}

// IssueReward mints an operator-issued credit directly into the player's
// custodial account.
func (s *service) IssueReward(ctx context.Context, playerID string, amount int64, category string, rewardCtx map[string]string) (*RewardResult, error) {
	log := logger.FromContext(ctx)

	if amount <= 0 {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidAmount, amount)
	}
	if category == "" {
		return nil, fmt.Errorf("%w: reward category is required", domain.ErrInvalidInput)
	}

	acct, err := s.accounts.Ensure(ctx, playerID, s.cfg.GameMint)
	if err != nil {
		return nil, err
	}

	mintSig, err := s.chainCall(ctx, "mint", func(requestID string) (string, error) {
		return s.adapter.Mint(ctx, requestID, s.cfg.GameMint, acct.Address, amount)
	})
	if err != nil {
		return nil, err
	}

	entryCtx := map[string]string{domain.ContextKeyCategory: category}
	for k, v := range rewardCtx {
		entryCtx[k] = v
	}

	entry, err := s.ledgerSvc.ApplyDelta(ctx, ledger.ApplyDeltaParams{
		PlayerID:          playerID,
		Mint:              s.cfg.GameMint,
		Amount:            amount,
		Kind:              domain.EntryReward,
		ConfirmationToken: mintSig,
		Context:           entryCtx,
	})
	if err != nil {
		return nil, s.escalateLedgerFailure(ctx, err, "reward", playerID, s.cfg.GameMint, amount, mintSig)
	}

	// The reward record is reporting only; the ledger entry above carries
	// the balance authority. A failed insert is logged, not unwound.
	if _, err := s.rewards.InsertReward(ctx, &domain.RewardRecord{
		PlayerID:          playerID,
		Category:          category,
		Amount:            amount,
		ConfirmationToken: mintSig,
		Context:           rewardCtx,
	}); err != nil {
		log.Error("Failed to record reward for reporting", "error", err, "player_id", playerID, "token", mintSig)
	}

	log.Info("Reward issued",
		"player_id", playerID,
		"category", category,
		"amount", amount,
		"balance_after", entry.BalanceAfter)

	return &RewardResult{ConfirmationToken: mintSig, NewBalance: entry.BalanceAfter}, nil
}

// Transfer moves credit between two players' custodial accounts. Both sides
// are operator-controlled, so one signing context covers the chain leg. The
// two ledger deltas are separate transactions; if the credit side fails
// after the debit landed, the failure is escalated and reconciliation
// confirms neither-or-both.
func (s *service) Transfer(ctx context.Context, fromPlayerID, toPlayerID, mint string, amount int64) (*TransferResult, error) {
	log := logger.FromContext(ctx)

	if amount <= 0 {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidAmount, amount)
	}
	if fromPlayerID == toPlayerID {
		return nil, fmt.Errorf("%w: cannot transfer to self", domain.ErrInvalidInput)
	}

	defer s.lockOutflows(fromPlayerID, mint)()

	balance, err := s.ledgerSvc.GetBalance(ctx, fromPlayerID, mint)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}
	if balance < amount {
		return nil, fmt.Errorf("%w: have %d, need %d", domain.ErrInsufficientBalance, balance, amount)
	}

	fromAcct, err := s.accounts.Get(ctx, fromPlayerID, mint)
	if err != nil {
		return nil, fmt.Errorf("failed to get sender account: %w", err)
	}
	if fromAcct == nil {
		return nil, fmt.Errorf("%w: no account for player %s", domain.ErrInsufficientBalance, fromPlayerID)
	}

	toAcct, err := s.accounts.Ensure(ctx, toPlayerID, mint)
	if err != nil {
		return nil, err
	}

	sig, err := s.chainCall(ctx, "transfer", func(requestID string) (string, error) {
		return s.adapter.TransferFungible(ctx, requestID, mint, fromAcct.Address, toAcct.Address, amount)
	})
	if err != nil {
		return nil, err
	}

	debit, err := s.ledgerSvc.ApplyDelta(ctx, ledger.ApplyDeltaParams{
		PlayerID:          fromPlayerID,
		Mint:              mint,
		Amount:            -amount,
		Kind:              domain.EntryTransfer,
		ConfirmationToken: sig,
		Context: map[string]string{
			domain.ContextKeyCounterparty: toPlayerID,
			domain.ContextKeyDirection:    domain.DirectionOutgoing,
		},
	})
	if err != nil {
		return nil, s.escalateLedgerFailure(ctx, err, "transfer_debit", fromPlayerID, mint, -amount, sig)
	}

	credit, err := s.ledgerSvc.ApplyDelta(ctx, ledger.ApplyDeltaParams{
		PlayerID:          toPlayerID,
		Mint:              mint,
		Amount:            amount,
		Kind:              domain.EntryTransfer,
		ConfirmationToken: sig,
		Context: map[string]string{
			domain.ContextKeyCounterparty: fromPlayerID,
			domain.ContextKeyDirection:    domain.DirectionIncoming,
		},
	})
	if err != nil {
		return nil, s.escalateLedgerFailure(ctx, err, "transfer_credit", toPlayerID, mint, amount, sig)
	}

	log.Info("Internal transfer applied",
		"from_player_id", fromPlayerID,
		"to_player_id", toPlayerID,
		"amount", amount,
		"from_balance", debit.BalanceAfter,
		"to_balance", credit.BalanceAfter)

	return &TransferResult{
		ConfirmationToken: sig,
		FromBalance:       debit.BalanceAfter,
		ToBalance:         credit.BalanceAfter,
	}, nil
}

func (s *service) ListTransactions(ctx context.Context, playerID string, limit, offset int) ([]domain.LedgerEntry, error) {
	return s.ledgerSvc.History(ctx, playerID, limit, offset)
}

func (s *service) ListRewards(ctx context.Context, playerID string, limit int) ([]domain.RewardRecord, error) {
	if limit <= 0 {
		limit = domain.DefaultHistoryLimit
	}
	if limit > domain.MaxHistoryLimit {
		limit = domain.MaxHistoryLimit
	}
	return s.rewards.ListRewards(ctx, playerID, limit)
}

// chainCall wraps a mutating chain call with a fresh request id and records
// outcome metrics. A timeout is an unknown outcome: the error is returned
// untouched so callers never apply a ledger effect for it.
func (s *service) chainCall(ctx context.Context, op string, call func(requestID string) (string, error)) (string, error) {
	requestID := uuid.NewString()
	token, err := call(requestID)
	switch {
	case err == nil:
		metrics.ChainCallsTotal.WithLabelValues(op, metrics.OutcomeOK).Inc()
		return token, nil
	case domain.Retryable(err):
		metrics.ChainCallsTotal.WithLabelValues(op, metrics.OutcomeTimeout).Inc()
		return "", fmt.Errorf("chain %s did not confirm (request %s): %w", op, requestID, err)
	default:
		metrics.ChainCallsTotal.WithLabelValues(op, metrics.OutcomeRejected).Inc()
		return "", fmt.Errorf("chain %s failed: %w", op, err)
	}
}

// escalateLedgerFailure handles the most serious failure class: the chain
// mutation landed but the matching ledger write did not. Full replay context
// is logged; a balance-rule rejection is passed through unchanged since it
// reflects a pre-chain check that raced, not a lost write.
func (s *service) escalateLedgerFailure(ctx context.Context, err error, op, playerID, mint string, amount int64, token string) error {
	log := logger.FromContext(ctx)

	// A duplicate confirmation means the ledger effect already exists; a
	// balance rejection means the pre-chain check raced. Neither is a lost
	// write, so both pass through for the caller to interpret.
	if errors.Is(err, domain.ErrDuplicateConfirmation) || errors.Is(err, domain.ErrInsufficientBalance) {
		return err
	}

	metrics.LedgerWriteFailures.Inc()
	log.Error("Ledger write failed after chain mutation",
		"operation", op,
		"player_id", playerID,
		"mint", mint,
		"amount", amount,
		"confirmation_token", token,
		"error", err)

	return fmt.Errorf("%w: %s for player %s token %s: %v",
		domain.ErrLedgerWriteFailed, op, playerID, token, err)
}
