package token

import "fmt"

// ErrorCode is a domain error code used by ledger validations.
type ErrorCode string

const (
	// ErrorInvalidSymbol indicates a malformed symbol code or precision.
	ErrorInvalidSymbol ErrorCode = "0101"
	// ErrorAlreadyExists indicates a supply record already exists for the code.
	ErrorAlreadyExists ErrorCode = "0102"
	// ErrorNoSuchToken indicates no supply record exists for the code.
	ErrorNoSuchToken ErrorCode = "0103"
	// ErrorInvalidAmount indicates a non-positive, mismatched, or overflowing amount.
	ErrorInvalidAmount ErrorCode = "0104"
	// ErrorSupplyExceeded indicates an issue would push supply past its ceiling.
	ErrorSupplyExceeded ErrorCode = "0105"
	// ErrorUnderflow indicates a burn would drive supply negative.
	ErrorUnderflow ErrorCode = "0106"
	// ErrorNotIssuer indicates the destination of an issue is not the token issuer.
	ErrorNotIssuer ErrorCode = "0107"
	// ErrorNoBalanceRecord indicates the debited owner has no account record.
	ErrorNoBalanceRecord ErrorCode = "0108"
	// ErrorOverdrawn indicates a debit exceeds the available balance.
	ErrorOverdrawn ErrorCode = "0109"
	// ErrorSelfTransfer indicates source and destination are the same account.
	ErrorSelfTransfer ErrorCode = "0110"
	// ErrorMemoTooLong indicates a memo exceeds the 256-byte cap.
	ErrorMemoTooLong ErrorCode = "0111"
	// ErrorNonZeroBalance indicates a close was attempted on a funded account.
	ErrorNonZeroBalance ErrorCode = "0112"
)

// DomainError represents a structured ledger domain validation error.
type DomainError struct {
	Code    ErrorCode
	Field   string
	Message string
}

// Error returns the formatted domain error string.
func (e DomainError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}

	return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Field)
}

// NewDomainError creates a domain error with code, field, and message.
func NewDomainError(code ErrorCode, field, message string) error {
	return DomainError{Code: code, Field: field, Message: message}
}
