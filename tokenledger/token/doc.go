// Package token provides the value types shared by every ledger component.
//
// Core types:
//   - Symbol identifies a token unit by code and decimal precision.
//   - Amount is a signed fixed-point quantity tagged with a Symbol.
//   - AccountID names the owner of balances and supply records.
//
// Amount arithmetic is checked: Add and Sub return typed domain errors on
// symbol mismatch or when the result would leave the representable range.
// The package enforces deterministic behavior using typed domain errors.
package token
