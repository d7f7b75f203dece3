package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/LerianStudio/lib-tokenledger/tokenledger/store"
	"github.com/LerianStudio/lib-tokenledger/tokenledger/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tkn = token.MustSymbol("TKN", 2)

func supplyRecord(units int64) store.SupplyRecord {
	return store.SupplyRecord{
		Supply:    token.Amount{Units: units, Symbol: tkn},
		MaxSupply: token.Amount{Units: 100000, Symbol: tkn},
		Issuer:    "alice",
	}
}

func accountRecord(units int64) store.AccountRecord {
	return store.AccountRecord{
		Balance: token.Amount{Units: units, Symbol: tkn},
		Payer:   "alice",
	}
}

func TestStore_Supply(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := New()

	t.Run("get missing", func(t *testing.T) {
		_, err := s.GetSupply(ctx, "TKN")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("insert then get", func(t *testing.T) {
		require.NoError(t, s.InsertSupply(ctx, "TKN", supplyRecord(0)))

		got, err := s.GetSupply(ctx, "TKN")
		require.NoError(t, err)
		assert.Equal(t, supplyRecord(0), got)
	})

	t.Run("insert duplicate", func(t *testing.T) {
		err := s.InsertSupply(ctx, "TKN", supplyRecord(0))
		require.ErrorIs(t, err, store.ErrDuplicateKey)
	})

	t.Run("update existing", func(t *testing.T) {
		require.NoError(t, s.UpdateSupply(ctx, "TKN", supplyRecord(500)))

		got, err := s.GetSupply(ctx, "TKN")
		require.NoError(t, err)
		assert.Equal(t, int64(500), got.Supply.Units)
	})

	t.Run("update missing", func(t *testing.T) {
		err := s.UpdateSupply(ctx, "OTH", supplyRecord(0))
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestStore_Account(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := New()

	t.Run("get missing", func(t *testing.T) {
		_, err := s.GetAccount(ctx, "bob", "TKN")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("insert then get", func(t *testing.T) {
		require.NoError(t, s.InsertAccount(ctx, "bob", "TKN", accountRecord(100)))

		got, err := s.GetAccount(ctx, "bob", "TKN")
		require.NoError(t, err)
		assert.Equal(t, accountRecord(100), got)
	})

	t.Run("insert duplicate", func(t *testing.T) {
		err := s.InsertAccount(ctx, "bob", "TKN", accountRecord(100))
		require.ErrorIs(t, err, store.ErrDuplicateKey)
	})

	t.Run("same owner different code is distinct", func(t *testing.T) {
		require.NoError(t, s.InsertAccount(ctx, "bob", "OTH", accountRecord(1)))
	})

	t.Run("update existing", func(t *testing.T) {
		require.NoError(t, s.UpdateAccount(ctx, "bob", "TKN", accountRecord(250)))

		got, err := s.GetAccount(ctx, "bob", "TKN")
		require.NoError(t, err)
		assert.Equal(t, int64(250), got.Balance.Units)
	})

	t.Run("update missing", func(t *testing.T) {
		err := s.UpdateAccount(ctx, "carol", "TKN", accountRecord(1))
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("remove existing", func(t *testing.T) {
		require.NoError(t, s.RemoveAccount(ctx, "bob", "TKN"))

		_, err := s.GetAccount(ctx, "bob", "TKN")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("remove missing", func(t *testing.T) {
		err := s.RemoveAccount(ctx, "bob", "TKN")
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestStore_Accounts(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := New()

	require.NoError(t, s.InsertAccount(ctx, "alice", "TKN", accountRecord(70)))
	require.NoError(t, s.InsertAccount(ctx, "bob", "TKN", accountRecord(30)))
	require.NoError(t, s.InsertAccount(ctx, "carol", "OTH", accountRecord(99)))

	holders, err := s.Accounts(ctx, "TKN")
	require.NoError(t, err)
	require.Len(t, holders, 2)
	assert.Equal(t, int64(70), holders["alice"].Balance.Units)
	assert.Equal(t, int64(30), holders["bob"].Balance.Units)
	assert.NotContains(t, holders, token.AccountID("carol"))
}

func TestStore_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := New()

	var wg sync.WaitGroup

	for i := 0; i < 32; i++ {
		wg.Add(1)

		go func(n int) {
			defer wg.Done()

			owner := token.AccountID(fmt.Sprintf("owner-%d", n))
			_ = s.InsertAccount(ctx, owner, "TKN", accountRecord(int64(n)))
			_, _ = s.GetAccount(ctx, owner, "TKN")
			_, _ = s.Accounts(ctx, "TKN")
		}(i)
	}

	wg.Wait()

	holders, err := s.Accounts(ctx, "TKN")
	require.NoError(t, err)
	assert.Len(t, holders, 32)
}
