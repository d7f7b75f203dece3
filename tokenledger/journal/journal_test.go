package journal

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/LerianStudio/lib-tokenledger/tokenledger/token"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tkn = token.MustSymbol("TKN", 2)

func TestNewEntry(t *testing.T) {
	t.Parallel()

	occurredAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	entry := NewEntry(OperationTransfer, tkn, 3000, occurredAt)

	assert.Equal(t, OperationTransfer, entry.Operation)
	assert.Equal(t, tkn, entry.Symbol)
	assert.Equal(t, int64(3000), entry.Units)
	assert.Equal(t, occurredAt, entry.OccurredAt)
	assert.Empty(t, entry.From)
	assert.Empty(t, entry.To)
	assert.Empty(t, entry.Memo)

	_, err := uuid.Parse(entry.ID)
	require.NoError(t, err)

	other := NewEntry(OperationTransfer, tkn, 3000, occurredAt)
	assert.NotEqual(t, entry.ID, other.ID, "each entry gets a fresh identifier")
}

func TestMemory_Record(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewMemory()

	assert.Empty(t, m.Entries())

	first := NewEntry(OperationCreate, tkn, 100000, time.Now())
	second := NewEntry(OperationIssue, tkn, 10000, time.Now())

	require.NoError(t, m.Record(ctx, first))
	require.NoError(t, m.Record(ctx, second))

	entries := m.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, first.ID, entries[0].ID)
	assert.Equal(t, second.ID, entries[1].ID)
}

func TestMemory_EntriesReturnsCopy(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.Record(ctx, NewEntry(OperationBurn, tkn, 1, time.Now())))

	entries := m.Entries()
	entries[0].Memo = "mutated"

	assert.Empty(t, m.Entries()[0].Memo)
}

func TestMemory_ConcurrentRecord(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewMemory()

	var wg sync.WaitGroup

	for i := 0; i < 16; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for j := 0; j < 10; j++ {
				_ = m.Record(ctx, NewEntry(OperationTransfer, tkn, 1, time.Now()))
			}
		}()
	}

	wg.Wait()

	assert.Len(t, m.Entries(), 160)
}
