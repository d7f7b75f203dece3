//go:build integration

package redis

import (
	"context"
	"testing"
	"time"

	"github.com/LerianStudio/lib-tokenledger/tokenledger/ledger"
	"github.com/LerianStudio/lib-tokenledger/tokenledger/store"
	"github.com/LerianStudio/lib-tokenledger/tokenledger/token"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupRedisStore starts a real Redis 7 container and returns a Store bound
// to it. The container is waited on until Redis logs readiness.
func setupRedisStore(t *testing.T) *Store {
	t.Helper()

	ctx := context.Background()

	container, err := tcredis.Run(ctx,
		"redis:7-alpine",
		testcontainers.WithWaitStrategy(
			wait.ForLog("Ready to accept connections").
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	client := goredis.NewClient(&goredis.Options{Addr: endpoint})
	t.Cleanup(func() { _ = client.Close() })

	s, err := New(client, "ledger-it")
	require.NoError(t, err)

	return s
}

func TestIntegration_Store(t *testing.T) {
	ctx := context.Background()
	s := setupRedisStore(t)

	tkn := token.MustSymbol("TKN", 2)

	supply := store.SupplyRecord{
		Supply:    token.Zero(tkn),
		MaxSupply: token.Amount{Units: 100000, Symbol: tkn},
		Issuer:    "alice",
	}

	t.Run("supply round trip", func(t *testing.T) {
		_, err := s.GetSupply(ctx, "TKN")
		require.ErrorIs(t, err, store.ErrNotFound)

		require.NoError(t, s.InsertSupply(ctx, "TKN", supply))
		require.ErrorIs(t, s.InsertSupply(ctx, "TKN", supply), store.ErrDuplicateKey)

		got, err := s.GetSupply(ctx, "TKN")
		require.NoError(t, err)
		assert.Equal(t, supply, got)

		updated := supply
		updated.Supply = token.Amount{Units: 10000, Symbol: tkn}
		require.NoError(t, s.UpdateSupply(ctx, "TKN", updated))
		require.ErrorIs(t, s.UpdateSupply(ctx, "OTH", updated), store.ErrNotFound)

		got, err = s.GetSupply(ctx, "TKN")
		require.NoError(t, err)
		assert.Equal(t, int64(10000), got.Supply.Units)
	})

	t.Run("account round trip and holder set", func(t *testing.T) {
		account := store.AccountRecord{
			Balance: token.Amount{Units: 7000, Symbol: tkn},
			Payer:   "alice",
		}

		require.NoError(t, s.InsertAccount(ctx, "alice", "TKN", account))
		require.ErrorIs(t, s.InsertAccount(ctx, "alice", "TKN", account), store.ErrDuplicateKey)

		account.Balance.Units = 3000
		require.NoError(t, s.InsertAccount(ctx, "bob", "TKN", account))

		holders, err := s.Accounts(ctx, "TKN")
		require.NoError(t, err)
		require.Len(t, holders, 2)
		assert.Equal(t, int64(7000), holders["alice"].Balance.Units)
		assert.Equal(t, int64(3000), holders["bob"].Balance.Units)

		require.NoError(t, s.RemoveAccount(ctx, "bob", "TKN"))
		require.ErrorIs(t, s.RemoveAccount(ctx, "bob", "TKN"), store.ErrNotFound)

		holders, err = s.Accounts(ctx, "TKN")
		require.NoError(t, err)
		require.Len(t, holders, 1)
	})
}

func TestIntegration_LedgerOverRedis(t *testing.T) {
	ctx := context.Background()
	s := setupRedisStore(t)

	l, err := ledger.New(s)
	require.NoError(t, err)

	require.NoError(t, l.Create(ctx, "alice", token.MustAmount("1000.00 TKN")))
	require.NoError(t, l.Issue(ctx, "alice", token.MustAmount("100.00 TKN"), "mint"))
	require.NoError(t, l.Transfer(ctx, "alice", "bob", token.MustAmount("30.00 TKN"), "rent"))

	supply, err := l.GetSupply(ctx, "TKN")
	require.NoError(t, err)
	assert.Equal(t, "100.00 TKN", supply.String())

	alice, err := l.GetBalance(ctx, "alice", "TKN")
	require.NoError(t, err)
	assert.Equal(t, "70.00 TKN", alice.String())

	total, err := l.Audit(ctx, "TKN")
	require.NoError(t, err)
	assert.Equal(t, int64(10000), total.Units)
}
