package domain

import "time"

// RewardRecord is a denormalized report row for one reward issuance. The
// authoritative balance effect lives in the ledger; this table exists so
// reward reporting does not scan the transaction log.
type RewardRecord struct {
	ID                string            `json:"reward_id" db:"reward_id"`
	PlayerID          string            `json:"player_id" db:"player_id"`
	Category          string            `json:"category" db:"category"`
	Amount            int64             `json:"amount" db:"amount"`
	ConfirmationToken string            `json:"confirmation_token" db:"confirmation_token"`
	Context           map[string]string `json:"context,omitempty" db:"context"`
	CreatedAt         time.Time         `json:"created_at" db:"created_at"`
}
