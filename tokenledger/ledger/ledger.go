package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/LerianStudio/lib-tokenledger/tokenledger/journal"
	"github.com/LerianStudio/lib-tokenledger/tokenledger/store"
	"github.com/LerianStudio/lib-tokenledger/tokenledger/token"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// MaxMemoBytes is the longest accepted memo, in bytes.
const MaxMemoBytes = 256

// tracerName identifies this package's OpenTelemetry tracer.
const tracerName = "tokenledger"

// ErrNilStore is returned when a Ledger is constructed without a store.
var ErrNilStore = errors.New("ledger store is required")

// Ledger applies token operations against a store.Store.
//
// Methods are safe for concurrent use as far as the store is, but the
// ledger performs no locking of its own: operations touching the same
// (owner, symbol) records must be serialized by the caller.
type Ledger struct {
	store    store.Store
	logger   *zap.Logger
	recorder journal.Recorder
	now      func() time.Time
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithLogger sets the structured logger. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(l *Ledger) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithJournal sets the audit recorder. Recording is best-effort: a failing
// recorder is logged and never rolls back ledger state.
func WithJournal(recorder journal.Recorder) Option {
	return func(l *Ledger) {
		l.recorder = recorder
	}
}

// WithClock sets the time source used for journal timestamps.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		if now != nil {
			l.now = now
		}
	}
}

// New creates a ledger over the given store.
func New(st store.Store, opts ...Option) (*Ledger, error) {
	if st == nil {
		return nil, ErrNilStore
	}

	l := &Ledger{
		store:  st,
		logger: zap.NewNop(),
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l, nil
}

// validateMemo enforces the 256-byte memo cap. Memos are opaque and never
// interpreted.
func validateMemo(memo string) error {
	if len(memo) > MaxMemoBytes {
		return token.NewDomainError(token.ErrorMemoTooLong, "memo", fmt.Sprintf("memo must be at most %d bytes", MaxMemoBytes))
	}

	return nil
}

// supplyFor loads the supply record for a symbol code, mapping a missing
// record to the NoSuchToken domain error.
func (l *Ledger) supplyFor(ctx context.Context, code string) (store.SupplyRecord, error) {
	record, err := l.store.GetSupply(ctx, code)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.SupplyRecord{}, token.NewDomainError(token.ErrorNoSuchToken, "symbol.code", fmt.Sprintf("token %s does not exist", code))
		}

		return store.SupplyRecord{}, fmt.Errorf("get supply: %w", err)
	}

	return record, nil
}

// debit removes amount from owner's balance record in place.
// The owner must hold a record for the symbol and enough balance to cover
// the amount; validation completes before any write.
func (l *Ledger) debit(ctx context.Context, owner token.AccountID, amount token.Amount) error {
	account, err := l.store.GetAccount(ctx, owner, amount.Symbol.Code)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return token.NewDomainError(token.ErrorNoBalanceRecord, "from", fmt.Sprintf("no balance record for %s holding %s", owner, amount.Symbol.Code))
		}

		return fmt.Errorf("get account: %w", err)
	}

	balance, err := account.Balance.Sub(amount)
	if err != nil {
		return err
	}

	if balance.IsNegative() {
		return token.NewDomainError(token.ErrorOverdrawn, "quantity", fmt.Sprintf("balance %s cannot cover %s", account.Balance, amount))
	}

	account.Balance = balance

	if err := l.store.UpdateAccount(ctx, owner, amount.Symbol.Code, account); err != nil {
		return fmt.Errorf("update account: %w", err)
	}

	return nil
}

// plannedCredit is a credit that has been validated but not yet written.
type plannedCredit struct {
	record store.AccountRecord
	insert bool
}

// prepareCredit computes owner's post-credit record without writing,
// auto-vivifying with payer as storage sponsor when no record exists.
// Splitting preparation from apply lets callers surface a range overflow
// on the destination before any earlier write commits.
func (l *Ledger) prepareCredit(ctx context.Context, owner token.AccountID, amount token.Amount, payer token.AccountID) (plannedCredit, error) {
	account, err := l.store.GetAccount(ctx, owner, amount.Symbol.Code)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return plannedCredit{}, fmt.Errorf("get account: %w", err)
		}

		return plannedCredit{
			record: store.AccountRecord{Balance: amount, Payer: payer},
			insert: true,
		}, nil
	}

	balance, err := account.Balance.Add(amount)
	if err != nil {
		return plannedCredit{}, err
	}

	account.Balance = balance

	return plannedCredit{record: account}, nil
}

// applyCredit commits a credit prepared by prepareCredit.
func (l *Ledger) applyCredit(ctx context.Context, owner token.AccountID, code string, planned plannedCredit) error {
	if planned.insert {
		if err := l.store.InsertAccount(ctx, owner, code, planned.record); err != nil {
			return fmt.Errorf("insert account: %w", err)
		}

		return nil
	}

	if err := l.store.UpdateAccount(ctx, owner, code, planned.record); err != nil {
		return fmt.Errorf("update account: %w", err)
	}

	return nil
}

// record hands a journal entry to the configured recorder. Failures are
// logged and swallowed: the mutation has already committed.
func (l *Ledger) record(ctx context.Context, entry journal.Entry) {
	if l.recorder == nil {
		return
	}

	if err := l.recorder.Record(ctx, entry); err != nil {
		l.logger.Warn("journal record failed",
			zap.String("operation", string(entry.Operation)),
			zap.String("symbol", entry.Symbol.String()),
			zap.Error(err),
		)
	}
}

// startSpan opens an operation span with the shared tracer.
func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := otel.Tracer(tracerName)

	ctx, span := tracer.Start(ctx, name)
	span.SetAttributes(attrs...)

	return ctx, span
}

// spanError marks the span failed with the rejection that ended the operation.
func spanError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
