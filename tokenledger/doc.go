// Package tokenledger is the root of the fungible-token ledger library.
//
// The library tracks, per token symbol, a total supply and a set of
// per-owner balances, and guarantees value is never created or destroyed
// except through explicit issue and burn operations.
//
// Subpackages:
//   - token: Symbol, Amount, and the typed domain errors.
//   - store: the persistence capability, with memory, redis, and mongo backends.
//   - ledger: the six operations and the invariant-preserving core.
//   - journal: the audit trail, with an in-process recorder and an AMQP publisher.
//
// Typical usage:
//
//	st := memory.New()
//	l, err := ledger.New(st, ledger.WithLogger(logger))
//	if err != nil { ... }
//	err = l.Create(ctx, "alice", token.MustAmount("1000.00 TKN"))
//
// This package intentionally holds no runtime behavior of its own.
package tokenledger
