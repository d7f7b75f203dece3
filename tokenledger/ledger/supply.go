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

// Create registers a new token under maxSupply's symbol code.
//
// The symbol code alone is the lookup key: a second creation under the same
// code is rejected even when the precision differs. Issuer is trusted as
// pre-authorized by the host and becomes the only valid Issue destination.
func (l *Ledger) Create(ctx context.Context, issuer token.AccountID, maxSupply token.Amount) error {
	ctx, span := startSpan(ctx, "ledger.create",
		attribute.String("token.symbol", maxSupply.Symbol.String()),
		attribute.Int64("token.max_supply_units", maxSupply.Units),
	)
	defer span.End()

	if err := maxSupply.Symbol.Validate(); err != nil {
		spanError(span, err)
		return err
	}

	if !maxSupply.IsPositive() {
		err := token.NewDomainError(token.ErrorInvalidAmount, "maxSupply", "maximum supply must be positive")
		spanError(span, err)

		return err
	}

	if maxSupply.Units > token.MaxUnits {
		err := token.NewDomainError(token.ErrorInvalidAmount, "maxSupply", "maximum supply must be less than 2^62")
		spanError(span, err)

		return err
	}

	record := store.SupplyRecord{
		Supply:    token.Zero(maxSupply.Symbol),
		MaxSupply: maxSupply,
		Issuer:    issuer,
	}

	if err := l.store.InsertSupply(ctx, maxSupply.Symbol.Code, record); err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			err = token.NewDomainError(token.ErrorAlreadyExists, "maxSupply.symbol", fmt.Sprintf("token %s already exists", maxSupply.Symbol.Code))
		} else {
			err = fmt.Errorf("insert supply: %w", err)
		}

		spanError(span, err)

		return err
	}

	l.logger.Info("token created",
		zap.String("symbol", maxSupply.Symbol.String()),
		zap.Int64("max_supply_units", maxSupply.Units),
		zap.String("issuer", string(issuer)),
	)

	entry := journal.NewEntry(journal.OperationCreate, maxSupply.Symbol, maxSupply.Units, l.now())
	entry.To = issuer
	l.record(ctx, entry)

	return nil
}

// Issue mints quantity into circulation and credits it to the issuer.
//
// The destination must be the token's issuer; later transfers move the
// minted value elsewhere. The account record is auto-vivified with the
// issuer as payer when absent.
func (l *Ledger) Issue(ctx context.Context, to token.AccountID, quantity token.Amount, memo string) error {
	ctx, span := startSpan(ctx, "ledger.issue",
		attribute.String("token.symbol", quantity.Symbol.String()),
		attribute.Int64("token.units", quantity.Units),
	)
	defer span.End()

	if err := validateMemo(memo); err != nil {
		spanError(span, err)
		return err
	}

	record, err := l.supplyFor(ctx, quantity.Symbol.Code)
	if err != nil {
		spanError(span, err)
		return err
	}

	if to != record.Issuer {
		err := token.NewDomainError(token.ErrorNotIssuer, "to", "tokens can only be issued to the issuer account")
		spanError(span, err)

		return err
	}

	if !quantity.IsPositive() {
		err := token.NewDomainError(token.ErrorInvalidAmount, "quantity", "issue quantity must be positive")
		spanError(span, err)

		return err
	}

	supply, err := record.Supply.Add(quantity)
	if err != nil {
		spanError(span, err)
		return err
	}

	if supply.Units > record.MaxSupply.Units {
		err := token.NewDomainError(token.ErrorSupplyExceeded, "quantity", fmt.Sprintf("issuing %s would exceed maximum supply %s", quantity, record.MaxSupply))
		spanError(span, err)

		return err
	}

	record.Supply = supply

	// The destination's new balance is validated before the supply write
	// commits, so a credit-side overflow rejects the whole operation.
	planned, err := l.prepareCredit(ctx, to, quantity, to)
	if err != nil {
		spanError(span, err)
		return err
	}

	if err := l.store.UpdateSupply(ctx, quantity.Symbol.Code, record); err != nil {
		err = fmt.Errorf("update supply: %w", err)
		spanError(span, err)

		return err
	}

	if err := l.applyCredit(ctx, to, quantity.Symbol.Code, planned); err != nil {
		spanError(span, err)
		return err
	}

	l.logger.Info("tokens issued",
		zap.String("symbol", quantity.Symbol.String()),
		zap.Int64("units", quantity.Units),
		zap.String("to", string(to)),
	)

	entry := journal.NewEntry(journal.OperationIssue, quantity.Symbol, quantity.Units, l.now())
	entry.To = to
	entry.Memo = memo
	l.record(ctx, entry)

	return nil
}

// Burn retires quantity from circulation.
//
// This is supply-only bookkeeping: no holder's account record is debited.
// Callers are expected to have already taken the burned value out of
// circulation with a prior debit, or to restrict burns to the issuer's own
// holdings by convention.
func (l *Ledger) Burn(ctx context.Context, quantity token.Amount, memo string) error {
	ctx, span := startSpan(ctx, "ledger.burn",
		attribute.String("token.symbol", quantity.Symbol.String()),
		attribute.Int64("token.units", quantity.Units),
	)
	defer span.End()

	if err := validateMemo(memo); err != nil {
		spanError(span, err)
		return err
	}

	record, err := l.supplyFor(ctx, quantity.Symbol.Code)
	if err != nil {
		spanError(span, err)
		return err
	}

	if !quantity.IsPositive() {
		err := token.NewDomainError(token.ErrorInvalidAmount, "quantity", "burn quantity must be positive")
		spanError(span, err)

		return err
	}

	supply, err := record.Supply.Sub(quantity)
	if err != nil {
		spanError(span, err)
		return err
	}

	if supply.IsNegative() {
		err := token.NewDomainError(token.ErrorUnderflow, "quantity", fmt.Sprintf("cannot burn %s with only %s in circulation", quantity, record.Supply))
		spanError(span, err)

		return err
	}

	record.Supply = supply

	if err := l.store.UpdateSupply(ctx, quantity.Symbol.Code, record); err != nil {
		err = fmt.Errorf("update supply: %w", err)
		spanError(span, err)

		return err
	}

	l.logger.Info("tokens burned",
		zap.String("symbol", quantity.Symbol.String()),
		zap.Int64("units", quantity.Units),
	)

	entry := journal.NewEntry(journal.OperationBurn, quantity.Symbol, quantity.Units, l.now())
	entry.Memo = memo
	l.record(ctx, entry)

	return nil
}
