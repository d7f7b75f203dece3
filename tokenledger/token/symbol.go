package token

import (
	"fmt"
	"strings"
)

const (
	// MaxCodeLength is the longest accepted symbol code.
	MaxCodeLength = 7
	// MaxPrecision is the largest accepted number of decimal places.
	MaxPrecision = 18
)

// AccountID names the owner of balances and supply records.
//
// The ledger treats account identifiers as opaque; authorization of the
// identity behind an ID is the host's responsibility.
type AccountID string

// IsEmpty reports whether the account identifier is unset.
func (id AccountID) IsEmpty() bool {
	return strings.TrimSpace(string(id)) == ""
}

// Symbol identifies a token unit by code and decimal precision.
//
// Two symbols are compatible only when both code and precision are equal;
// a shared code with a different precision is a distinct, incompatible unit.
type Symbol struct {
	Code      string `json:"code"`
	Precision uint8  `json:"precision"`
}

// NewSymbol builds a symbol and validates its well-formedness.
func NewSymbol(code string, precision uint8) (Symbol, error) {
	s := Symbol{Code: code, Precision: precision}
	if err := s.Validate(); err != nil {
		return Symbol{}, err
	}

	return s, nil
}

// MustSymbol builds a symbol and panics when it is malformed.
// Intended for constants in tests and examples.
func MustSymbol(code string, precision uint8) Symbol {
	s, err := NewSymbol(code, precision)
	if err != nil {
		panic(err)
	}

	return s
}

// Validate checks the symbol code and precision against the unit rules:
// the code is 1 to 7 uppercase letters A-Z, the precision is at most 18.
func (s Symbol) Validate() error {
	if len(s.Code) == 0 || len(s.Code) > MaxCodeLength {
		return NewDomainError(ErrorInvalidSymbol, "symbol.code", fmt.Sprintf("code must be 1 to %d characters", MaxCodeLength))
	}

	for _, r := range s.Code {
		if r < 'A' || r > 'Z' {
			return NewDomainError(ErrorInvalidSymbol, "symbol.code", "code must contain only uppercase letters A-Z")
		}
	}

	if s.Precision > MaxPrecision {
		return NewDomainError(ErrorInvalidSymbol, "symbol.precision", fmt.Sprintf("precision must be at most %d", MaxPrecision))
	}

	return nil
}

// Equal reports whether two symbols share both code and precision.
func (s Symbol) Equal(other Symbol) bool {
	return s.Code == other.Code && s.Precision == other.Precision
}

// String returns the "precision,CODE" form, e.g. "2,TKN".
func (s Symbol) String() string {
	return fmt.Sprintf("%d,%s", s.Precision, s.Code)
}
