package postgres

// Postgres error codes
const (
	CodeUniqueViolation = "23505"
	CodeCheckViolation  = "23514"
)

// Constraint and index names the repositories map to domain errors.
const (
	ConstraintAccountPlayerMint = "custodial_accounts_player_id_mint_key"
	ConstraintCreditToken       = "idx_ledger_entries_credit_token"
	ConstraintPlayerSlot        = "idx_custodial_items_player_slot"
	ConstraintBalanceNonNeg     = "custodial_accounts_balance_check"
	ConstraintEntryNonNeg       = "ledger_entries_balance_after_check"
)
