package schema

// SchemaSQL contains the full database schema initialization script.
// Kept in sync with the goose migrations under migrations/; used by
// integration tests and local development setup.
const SchemaSQL = `
-- Custodial accounts: one on-chain token account per (player, mint),
-- owned by the operator key. The balance column is the authoritative
-- ledger balance; on_chain_balance is the last reconciled observation.
CREATE TABLE IF NOT EXISTS custodial_accounts (
    account_id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    player_id UUID NOT NULL,
    mint VARCHAR(64) NOT NULL,
    address VARCHAR(64) UNIQUE NOT NULL,
    balance BIGINT NOT NULL DEFAULT 0 CHECK (balance >= 0),
    on_chain_balance BIGINT NOT NULL DEFAULT 0,
    synced BOOLEAN NOT NULL DEFAULT TRUE,
    last_synced_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    UNIQUE (player_id, mint)
);

-- Append-only transaction log. balance_after of entry n equals
-- balance_before of entry n+1 for a given (player_id, mint).
CREATE TABLE IF NOT EXISTS ledger_entries (
    entry_id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    player_id UUID NOT NULL,
    mint VARCHAR(64) NOT NULL,
    kind VARCHAR(16) NOT NULL CHECK (kind IN ('deposit', 'withdraw', 'reward', 'purchase', 'refund', 'transfer')),
    amount BIGINT NOT NULL,
    balance_before BIGINT NOT NULL,
    balance_after BIGINT NOT NULL CHECK (balance_after >= 0),
    confirmation_token TEXT,
    context JSONB,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_ledger_entries_player
    ON ledger_entries (player_id, created_at DESC);

-- A replayed chain confirmation must never credit twice.
CREATE UNIQUE INDEX IF NOT EXISTS idx_ledger_entries_credit_token
    ON ledger_entries (confirmation_token)
    WHERE kind IN ('deposit', 'reward') AND confirmation_token IS NOT NULL;

-- Denormalized reward reporting; the matching ledger entry is authoritative.
CREATE TABLE IF NOT EXISTS reward_records (
    reward_id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    player_id UUID NOT NULL,
    category VARCHAR(50) NOT NULL,
    amount BIGINT NOT NULL,
    confirmation_token TEXT NOT NULL,
    context JSONB,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_reward_records_player
    ON reward_records (player_id, created_at DESC);

-- Non-fungible items held in the shared custodial wallet.
CREATE TABLE IF NOT EXISTS custodial_items (
    item_id VARCHAR(64) PRIMARY KEY,
    player_id UUID NOT NULL,
    collection VARCHAR(64) NOT NULL DEFAULT '',
    metadata_uri TEXT NOT NULL DEFAULT '',
    status VARCHAR(16) NOT NULL DEFAULT 'held' CHECK (status IN ('held', 'withdrawn', 'burned')),
    slot SMALLINT CHECK (slot BETWEEN 1 AND 5),
    withdrawn_to VARCHAR(64),
    withdrawn_at TIMESTAMPTZ,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_custodial_items_player
    ON custodial_items (player_id, created_at DESC);

-- Slots are unique per player while the item is still held.
CREATE UNIQUE INDEX IF NOT EXISTS idx_custodial_items_player_slot
    ON custodial_items (player_id, slot)
    WHERE slot IS NOT NULL AND status = 'held';
`
