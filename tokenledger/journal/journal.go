package journal

import (
	"context"
	"sync"
	"time"

	"github.com/LerianStudio/lib-tokenledger/tokenledger/token"
	"github.com/google/uuid"
)

// Operation names the ledger mutation an entry records.
type Operation string

const (
	// OperationCreate records a new token creation.
	OperationCreate Operation = "CREATE"
	// OperationIssue records a supply increase with a credited destination.
	OperationIssue Operation = "ISSUE"
	// OperationBurn records a supply decrease.
	OperationBurn Operation = "BURN"
	// OperationTransfer records a balance move between two owners.
	OperationTransfer Operation = "TRANSFER"
	// OperationOpen records a new zero-balance account record.
	OperationOpen Operation = "OPEN"
	// OperationClose records the removal of an emptied account record.
	OperationClose Operation = "CLOSE"
)

// Entry is one committed ledger mutation.
//
// Memo is carried verbatim and never interpreted. From and To are empty
// when the operation has no source or destination owner.
type Entry struct {
	ID         string          `json:"id"`
	Operation  Operation       `json:"operation"`
	Symbol     token.Symbol    `json:"symbol"`
	Units      int64           `json:"units"`
	From       token.AccountID `json:"from,omitempty"`
	To         token.AccountID `json:"to,omitempty"`
	Memo       string          `json:"memo,omitempty"`
	OccurredAt time.Time       `json:"occurredAt"`
}

// NewEntry builds an entry with a fresh identifier and the given timestamp.
func NewEntry(op Operation, symbol token.Symbol, units int64, occurredAt time.Time) Entry {
	return Entry{
		ID:         uuid.NewString(),
		Operation:  op,
		Symbol:     symbol,
		Units:      units,
		OccurredAt: occurredAt,
	}
}

// Recorder receives entries after the corresponding mutation commits.
//
//go:generate mockgen --destination=journal_mock.go --package=journal . Recorder
type Recorder interface {
	Record(ctx context.Context, entry Entry) error
}

// Memory is a Recorder that retains entries in process.
type Memory struct {
	mu      sync.Mutex
	entries []Entry
}

// Compile-time assertion: *Memory implements Recorder.
var _ Recorder = (*Memory)(nil)

// NewMemory creates an empty in-memory recorder.
func NewMemory() *Memory {
	return &Memory{}
}

// Record appends the entry.
func (m *Memory) Record(_ context.Context, entry Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = append(m.entries, entry)

	return nil
}

// Entries returns a copy of everything recorded so far, in record order.
func (m *Memory) Entries() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Entry, len(m.entries))
	copy(out, m.entries)

	return out
}
