// Package chain defines the capability contract against the external asset
// ledger. The service never talks to the chain directly; everything goes
// through an Adapter so the signing and RPC machinery stays swappable.
//
// Submitted operations have at-least-once semantics: a call that times out
// may still have landed. Every mutating call therefore takes a
// caller-supplied request id so the outcome can be correlated on retry.
package chain

import (
	"context"
	"time"
)

// Config is the immutable chain configuration injected at adapter
// construction. Which mint is active and which cluster is targeted are
// decided once at startup, never via process-wide mutable state.
type Config struct {
	RPCURL          string
	Cluster         string
	GameMint        string // custodial fungible credit, internal units
	ExternalMint    string // freely tradable token paid out on withdrawal
	OperatorKeyPath string
	CustodialWallet string // shared wallet holding non-fungible items
	ReserveWallet   string // operator reserve funding withdrawal payouts
	Timeout         time.Duration
}

// Adapter exposes the chain capabilities the treasury needs. All account
// addresses, mints and item ids are opaque strings. Confirmation tokens are
// transaction signatures and serve as idempotency keys in the ledger.
type Adapter interface {
	// CreateCustodialAccount creates a fresh token account for mint under
	// operator control and returns its address.
	CreateCustodialAccount(ctx context.Context, mint string) (string, error)

	// Mint mints amount of the fungible token into toAccount.
	Mint(ctx context.Context, requestID, mint, toAccount string, amount int64) (string, error)

	// Burn burns amount of the fungible token from fromAccount.
	Burn(ctx context.Context, requestID, mint, fromAccount string, amount int64) (string, error)

	// TransferFungible moves amount between two operator-controlled token
	// accounts. A single signing context covers both sides.
	TransferFungible(ctx context.Context, requestID, mint, fromAccount, toAccount string, amount int64) (string, error)

	// TransferNonFungible moves an item out of the shared custodial wallet
	// to an external destination address.
	TransferNonFungible(ctx context.Context, requestID, itemID, toAddress string) (string, error)

	// MintNonFungible mints a collectible into the shared custodial wallet
	// and returns its confirmation token.
	MintNonFungible(ctx context.Context, requestID, itemID, collection, metadataURI string) (string, error)

	// ReadBalance reads the live on-chain balance of a token account.
	ReadBalance(ctx context.Context, account string) (int64, error)
}
