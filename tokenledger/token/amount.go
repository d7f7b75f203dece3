package token

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// MaxUnits is the largest representable unit magnitude: 2^62 - 1.
// One bit of the int64 range is reserved so that any two representable
// amounts can be added without wrapping before the range check runs.
const MaxUnits int64 = 1<<62 - 1

// Amount is a signed fixed-point quantity tagged with a Symbol.
//
// The semantic value is Units / 10^Symbol.Precision. Unit magnitudes are
// bounded by MaxUnits at construction and after every arithmetic step.
type Amount struct {
	Units  int64  `json:"units"`
	Symbol Symbol `json:"symbol"`
}

// NewAmount builds an amount and validates symbol and unit range.
func NewAmount(units int64, symbol Symbol) (Amount, error) {
	if err := symbol.Validate(); err != nil {
		return Amount{}, err
	}

	if units > MaxUnits || units < -MaxUnits {
		return Amount{}, NewDomainError(ErrorInvalidAmount, "amount.units", "unit magnitude must be less than 2^62")
	}

	return Amount{Units: units, Symbol: symbol}, nil
}

// Zero returns the zero-valued amount of the given symbol.
func Zero(symbol Symbol) Amount {
	return Amount{Units: 0, Symbol: symbol}
}

// IsZero reports whether the amount has zero units.
func (a Amount) IsZero() bool {
	return a.Units == 0
}

// IsPositive reports whether the amount has strictly positive units.
func (a Amount) IsPositive() bool {
	return a.Units > 0
}

// IsNegative reports whether the amount has strictly negative units.
func (a Amount) IsNegative() bool {
	return a.Units < 0
}

// Add returns a + b, failing on symbol mismatch or range overflow.
func (a Amount) Add(b Amount) (Amount, error) {
	if !a.Symbol.Equal(b.Symbol) {
		return Amount{}, NewDomainError(ErrorInvalidAmount, "amount.symbol", fmt.Sprintf("symbol mismatch: %s vs %s", a.Symbol, b.Symbol))
	}

	// Operands are bounded by MaxUnits, so the int64 sum cannot wrap.
	sum := a.Units + b.Units
	if sum > MaxUnits || sum < -MaxUnits {
		return Amount{}, NewDomainError(ErrorInvalidAmount, "amount.units", "result magnitude must be less than 2^62")
	}

	return Amount{Units: sum, Symbol: a.Symbol}, nil
}

// Sub returns a - b, failing on symbol mismatch or range overflow.
func (a Amount) Sub(b Amount) (Amount, error) {
	return a.Add(Amount{Units: -b.Units, Symbol: b.Symbol})
}

// Decimal returns the semantic value Units / 10^Precision.
func (a Amount) Decimal() decimal.Decimal {
	return decimal.New(a.Units, -int32(a.Symbol.Precision))
}

// FromDecimal converts a decimal value into an amount of the given symbol.
// The value must fit the symbol's precision exactly and stay in unit range.
func FromDecimal(d decimal.Decimal, symbol Symbol) (Amount, error) {
	if err := symbol.Validate(); err != nil {
		return Amount{}, err
	}

	shifted := d.Shift(int32(symbol.Precision))
	if !shifted.IsInteger() {
		return Amount{}, NewDomainError(ErrorInvalidAmount, "amount", fmt.Sprintf("value %s does not fit precision %d", d, symbol.Precision))
	}

	units := shifted.BigInt()
	if !units.IsInt64() {
		return Amount{}, NewDomainError(ErrorInvalidAmount, "amount.units", "unit magnitude must be less than 2^62")
	}

	return NewAmount(units.Int64(), symbol)
}

// ParseAmount parses the "<value> <CODE>" text form, e.g. "100.00 TKN".
// The precision is taken from the number of fractional digits, so
// "100.00 TKN" and "100 TKN" denote different units.
func ParseAmount(s string) (Amount, error) {
	parts := strings.Split(s, " ")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Amount{}, NewDomainError(ErrorInvalidAmount, "amount", "expected \"<value> <CODE>\" form")
	}

	precision := 0
	if dot := strings.IndexByte(parts[0], '.'); dot >= 0 {
		precision = len(parts[0]) - dot - 1
	}

	if precision > MaxPrecision {
		return Amount{}, NewDomainError(ErrorInvalidSymbol, "symbol.precision", fmt.Sprintf("precision must be at most %d", MaxPrecision))
	}

	symbol, err := NewSymbol(parts[1], uint8(precision))
	if err != nil {
		return Amount{}, err
	}

	value, err := decimal.NewFromString(parts[0])
	if err != nil {
		return Amount{}, NewDomainError(ErrorInvalidAmount, "amount", fmt.Sprintf("invalid numeric value %q", parts[0]))
	}

	return FromDecimal(value, symbol)
}

// MustAmount parses the "<value> <CODE>" text form and panics on failure.
// Intended for constants in tests and examples.
func MustAmount(s string) Amount {
	a, err := ParseAmount(s)
	if err != nil {
		panic(err)
	}

	return a
}

// String returns the "<value> <CODE>" text form with all precision digits,
// e.g. "100.00 TKN" for 10000 units at precision 2.
func (a Amount) String() string {
	return a.Decimal().StringFixed(int32(a.Symbol.Precision)) + " " + a.Symbol.Code
}
