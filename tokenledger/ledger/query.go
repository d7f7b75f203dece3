package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/LerianStudio/lib-tokenledger/tokenledger/store"
	"github.com/LerianStudio/lib-tokenledger/tokenledger/token"
)

// GetSupply returns the circulating supply for a symbol code.
func (l *Ledger) GetSupply(ctx context.Context, code string) (token.Amount, error) {
	return Supply(ctx, l.store, code)
}

// GetBalance returns owner's balance for a symbol code.
func (l *Ledger) GetBalance(ctx context.Context, owner token.AccountID, code string) (token.Amount, error) {
	return Balance(ctx, l.store, owner, code)
}

// Supply reads the circulating supply for a symbol code from any reader,
// which may belong to another ledger instance.
func Supply(ctx context.Context, r store.Reader, code string) (token.Amount, error) {
	record, err := r.GetSupply(ctx, code)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return token.Amount{}, token.NewDomainError(token.ErrorNoSuchToken, "symbol.code", fmt.Sprintf("token %s does not exist", code))
		}

		return token.Amount{}, fmt.Errorf("get supply: %w", err)
	}

	return record.Supply, nil
}

// Balance reads owner's balance for a symbol code from any reader, which
// may belong to another ledger instance.
func Balance(ctx context.Context, r store.Reader, owner token.AccountID, code string) (token.Amount, error) {
	record, err := r.GetAccount(ctx, owner, code)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return token.Amount{}, token.NewDomainError(token.ErrorNoBalanceRecord, "owner", fmt.Sprintf("no balance record for %s holding %s", owner, code))
		}

		return token.Amount{}, fmt.Errorf("get account: %w", err)
	}

	return record.Balance, nil
}

// Audit recomputes the conservation invariant for a symbol code: the sum
// of every account balance must equal the recorded supply. It returns the
// summed balance, and an error describing the discrepancy when the
// invariant does not hold.
func (l *Ledger) Audit(ctx context.Context, code string) (token.Amount, error) {
	record, err := l.supplyFor(ctx, code)
	if err != nil {
		return token.Amount{}, err
	}

	holders, err := l.store.Accounts(ctx, code)
	if err != nil {
		return token.Amount{}, fmt.Errorf("list accounts: %w", err)
	}

	total := token.Zero(record.Supply.Symbol)

	for owner, account := range holders {
		total, err = total.Add(account.Balance)
		if err != nil {
			return token.Amount{}, fmt.Errorf("sum balance of %s: %w", owner, err)
		}
	}

	if total.Units != record.Supply.Units {
		return total, fmt.Errorf("conservation violated for %s: balances sum to %s, supply is %s", code, total, record.Supply)
	}

	return total, nil
}
