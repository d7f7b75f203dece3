// Package store defines the ledger's persistence capability.
//
// Two logical tables are exposed: supply records keyed by symbol code in a
// single global scope, and account records keyed by symbol code within each
// owner's scope. Keys are always passed explicitly; implementations must not
// derive them from record payloads.
//
// Reader is the read-only subset used by cross-scope queries. Backend
// implementations live in the memory, redis, and mongo subpackages.
package store
