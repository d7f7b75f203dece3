package ledger

import (
	"context"

	"github.com/LerianStudio/lib-tokenledger/tokenledger/journal"
	"github.com/LerianStudio/lib-tokenledger/tokenledger/token"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Transfer moves quantity from one owner to another.
//
// The two halves are logically one transaction: both sides validate before
// either writes, the debit commits first, and the credit never executes
// when the debit is rejected, so no partial transfer is observable. The destination record is
// auto-vivified with the sender as payer when absent. The caller identity
// behind from is trusted as pre-authorized by the host.
func (l *Ledger) Transfer(ctx context.Context, from, to token.AccountID, quantity token.Amount, memo string) error {
	ctx, span := startSpan(ctx, "ledger.transfer",
		attribute.String("token.symbol", quantity.Symbol.String()),
		attribute.Int64("token.units", quantity.Units),
	)
	defer span.End()

	if from == to {
		err := token.NewDomainError(token.ErrorSelfTransfer, "to", "cannot transfer to self")
		spanError(span, err)

		return err
	}

	if err := validateMemo(memo); err != nil {
		spanError(span, err)
		return err
	}

	if _, err := l.supplyFor(ctx, quantity.Symbol.Code); err != nil {
		spanError(span, err)
		return err
	}

	if !quantity.IsPositive() {
		err := token.NewDomainError(token.ErrorInvalidAmount, "quantity", "transfer quantity must be positive")
		spanError(span, err)

		return err
	}

	// The destination's new balance is validated before the debit commits,
	// so a credit-side overflow rejects the whole transfer. The two sides
	// never alias: from != to is enforced above.
	planned, err := l.prepareCredit(ctx, to, quantity, from)
	if err != nil {
		spanError(span, err)
		return err
	}

	if err := l.debit(ctx, from, quantity); err != nil {
		spanError(span, err)
		return err
	}

	if err := l.applyCredit(ctx, to, quantity.Symbol.Code, planned); err != nil {
		spanError(span, err)
		return err
	}

	l.logger.Info("tokens transferred",
		zap.String("symbol", quantity.Symbol.String()),
		zap.Int64("units", quantity.Units),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
	)

	entry := journal.NewEntry(journal.OperationTransfer, quantity.Symbol, quantity.Units, l.now())
	entry.From = from
	entry.To = to
	entry.Memo = memo
	l.record(ctx, entry)

	return nil
}
