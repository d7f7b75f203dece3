// Package ledger implements the invariant-preserving core of the token ledger.
//
// A Ledger exposes six operations: Create, Issue, Burn, Transfer, Open, and
// Close, plus the read queries GetSupply and GetBalance. Every mutation
// funnels through the debit/credit primitives and validates fully before
// touching the store, so a rejected operation leaves no partial state.
//
// The core guarantees, for every symbol, that the sum of all account
// balances equals the recorded supply, that no balance is ever negative,
// and that supply stays within its creation-time ceiling.
//
// The ledger trusts the caller identities it is handed; verifying that an
// inbound operation really was authorized by those identities is the host's
// responsibility, as is serializing operations that touch the same records.
package ledger
