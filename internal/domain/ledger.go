package domain

import "time"

// EntryKind classifies a ledger entry.
type EntryKind string

const (
	EntryDeposit  EntryKind = "deposit"
	EntryWithdraw EntryKind = "withdraw"
	EntryReward   EntryKind = "reward"
	EntryPurchase EntryKind = "purchase"
	EntryRefund   EntryKind = "refund"
	EntryTransfer EntryKind = "transfer"
)

// Valid reports whether the kind is a known entry kind.
func (k EntryKind) Valid() bool {
	switch k {
	case EntryDeposit, EntryWithdraw, EntryReward, EntryPurchase, EntryRefund, EntryTransfer:
		return true
	}
	return false
}

// RequiresUniqueConfirmation reports whether entries of this kind must carry
// a confirmation token that has never been applied before. Deposits and
// rewards credit value into the system, so replaying one would mint money.
func (k EntryKind) RequiresUniqueConfirmation() bool {
	return k == EntryDeposit || k == EntryReward
}

// LedgerEntry is one immutable row of the transaction log. BalanceBefore and
// BalanceAfter snapshot the account balance around the mutation so the chain
// of entries for a (player, mint) pair is independently verifiable.
type LedgerEntry struct {
	ID                string            `json:"entry_id" db:"entry_id"`
	PlayerID          string            `json:"player_id" db:"player_id"`
	Mint              string            `json:"mint" db:"mint"`
	Kind              EntryKind         `json:"kind" db:"kind"`
	Amount            int64             `json:"amount" db:"amount"`
	BalanceBefore     int64             `json:"balance_before" db:"balance_before"`
	BalanceAfter      int64             `json:"balance_after" db:"balance_after"`
	ConfirmationToken string            `json:"confirmation_token,omitempty" db:"confirmation_token"`
	Context           map[string]string `json:"context,omitempty" db:"context"`
	CreatedAt         time.Time         `json:"created_at" db:"created_at"`
}
