package store

import (
	"context"
	"errors"

	"github.com/LerianStudio/lib-tokenledger/tokenledger/token"
)

var (
	// ErrNotFound is returned when no record exists for the requested key.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateKey is returned when an insert collides with an existing key.
	ErrDuplicateKey = errors.New("record already exists")
)

// SupplyRecord tracks the circulating and maximum supply of one token.
//
// Invariants maintained by the ledger, not the store:
// Supply and MaxSupply share one symbol, 0 <= Supply.Units <= MaxSupply.Units,
// and MaxSupply.Units > 0.
type SupplyRecord struct {
	Supply    token.Amount    `json:"supply"`
	MaxSupply token.Amount    `json:"maxSupply"`
	Issuer    token.AccountID `json:"issuer"`
}

// AccountRecord holds one owner's balance for one token.
//
// Payer records which account carries the storage cost of the record; the
// store only retains the attribution, billing is the host's concern.
type AccountRecord struct {
	Balance token.Amount    `json:"balance"`
	Payer   token.AccountID `json:"payer"`
}

// Reader is the read-only capability used by supply and balance queries.
// It may address another ledger instance's tables.
type Reader interface {
	// GetSupply returns the supply record for a symbol code, or ErrNotFound.
	GetSupply(ctx context.Context, code string) (SupplyRecord, error)

	// GetAccount returns the account record for (owner, code), or ErrNotFound.
	GetAccount(ctx context.Context, owner token.AccountID, code string) (AccountRecord, error)
}

// Store is the full read-write capability the ledger mutates through.
//
// Implementations must make each method atomic on its own, and must keep
// inserts distinct from updates: inserting over an existing key fails with
// ErrDuplicateKey, updating a missing key fails with ErrNotFound.
type Store interface {
	Reader

	// InsertSupply creates the supply record for a symbol code.
	InsertSupply(ctx context.Context, code string, record SupplyRecord) error

	// UpdateSupply replaces the supply record for a symbol code.
	UpdateSupply(ctx context.Context, code string, record SupplyRecord) error

	// InsertAccount creates the account record for (owner, code).
	InsertAccount(ctx context.Context, owner token.AccountID, code string, record AccountRecord) error

	// UpdateAccount replaces the account record for (owner, code).
	UpdateAccount(ctx context.Context, owner token.AccountID, code string, record AccountRecord) error

	// RemoveAccount deletes the account record for (owner, code).
	RemoveAccount(ctx context.Context, owner token.AccountID, code string) error

	// Accounts returns every (owner, record) pair holding the symbol code.
	// Used by conservation audits; ordering is unspecified.
	Accounts(ctx context.Context, code string) (map[token.AccountID]AccountRecord, error)
}
