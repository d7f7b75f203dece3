package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/LerianStudio/lib-tokenledger/tokenledger/journal"
	"github.com/LerianStudio/lib-tokenledger/tokenledger/store"
	"github.com/LerianStudio/lib-tokenledger/tokenledger/token"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Open ensures owner holds a zero-balance account record for symbol.
//
// The token must already exist and the record's symbol must match the
// token's unit exactly. Opening an already-open account is a no-op, never
// an error. The record's storage cost is attributed to payer, whose
// authorization the host has already verified.
func (l *Ledger) Open(ctx context.Context, owner token.AccountID, symbol token.Symbol, payer token.AccountID) error {
	ctx, span := startSpan(ctx, "ledger.open",
		attribute.String("token.symbol", symbol.String()),
		attribute.String("token.owner", string(owner)),
	)
	defer span.End()

	if err := symbol.Validate(); err != nil {
		spanError(span, err)
		return err
	}

	record, err := l.supplyFor(ctx, symbol.Code)
	if err != nil {
		spanError(span, err)
		return err
	}

	if !record.Supply.Symbol.Equal(symbol) {
		err := token.NewDomainError(token.ErrorInvalidSymbol, "symbol.precision", fmt.Sprintf("precision mismatch: token unit is %s", record.Supply.Symbol))
		spanError(span, err)

		return err
	}

	if _, err := l.store.GetAccount(ctx, owner, symbol.Code); err == nil {
		l.logger.Debug("account already open",
			zap.String("symbol", symbol.String()),
			zap.String("owner", string(owner)),
		)

		return nil
	} else if !errors.Is(err, store.ErrNotFound) {
		err = fmt.Errorf("get account: %w", err)
		spanError(span, err)

		return err
	}

	account := store.AccountRecord{Balance: token.Zero(symbol), Payer: payer}
	if err := l.store.InsertAccount(ctx, owner, symbol.Code, account); err != nil {
		err = fmt.Errorf("insert account: %w", err)
		spanError(span, err)

		return err
	}

	l.logger.Info("account opened",
		zap.String("symbol", symbol.String()),
		zap.String("owner", string(owner)),
		zap.String("payer", string(payer)),
	)

	entry := journal.NewEntry(journal.OperationOpen, symbol, 0, l.now())
	entry.To = owner
	l.record(ctx, entry)

	return nil
}

// Close removes owner's account record for symbol.
//
// Closing an absent record is a no-op. An existing record is removable
// only when its balance is exactly zero.
func (l *Ledger) Close(ctx context.Context, owner token.AccountID, symbol token.Symbol) error {
	ctx, span := startSpan(ctx, "ledger.close",
		attribute.String("token.symbol", symbol.String()),
		attribute.String("token.owner", string(owner)),
	)
	defer span.End()

	account, err := l.store.GetAccount(ctx, owner, symbol.Code)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			l.logger.Debug("account already closed",
				zap.String("symbol", symbol.String()),
				zap.String("owner", string(owner)),
			)

			return nil
		}

		err = fmt.Errorf("get account: %w", err)
		spanError(span, err)

		return err
	}

	if !account.Balance.IsZero() {
		err := token.NewDomainError(token.ErrorNonZeroBalance, "owner", fmt.Sprintf("cannot close account holding %s", account.Balance))
		spanError(span, err)

		return err
	}

	if err := l.store.RemoveAccount(ctx, owner, symbol.Code); err != nil {
		err = fmt.Errorf("remove account: %w", err)
		spanError(span, err)

		return err
	}

	l.logger.Info("account closed",
		zap.String("symbol", symbol.String()),
		zap.String("owner", string(owner)),
	)

	entry := journal.NewEntry(journal.OperationClose, symbol, 0, l.now())
	entry.From = owner
	l.record(ctx, entry)

	return nil
}
