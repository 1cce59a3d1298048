package domain

import "time"

// CustodialAccount is an operator-owned on-chain token account dedicated to
// one (player, mint) pair. Balance is the relational ledger's authoritative
// value; OnChainBalance is the last reconciliation observation and is never
// consulted by the transaction paths.
type CustodialAccount struct {
	ID             string    `json:"account_id" db:"account_id"`
	PlayerID       string    `json:"player_id" db:"player_id"`
	Mint           string    `json:"mint" db:"mint"`
	Address        string    `json:"address" db:"address"`
	Balance        int64     `json:"balance" db:"balance"`
	OnChainBalance int64     `json:"on_chain_balance" db:"on_chain_balance"`
	Synced         bool      `json:"synced" db:"synced"`
	LastSyncedAt   time.Time `json:"last_synced_at" db:"last_synced_at"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}
