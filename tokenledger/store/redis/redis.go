// Package redis provides a Redis-backed store.Store implementation.
//
// Layout: supply records live in one hash per key prefix, account records
// in one hash per owner, both keyed by symbol code. A per-code holder set
// supports conservation audits. Single-key writes use plain hash commands;
// the two-key account insert/remove run as Lua scripts so each store method
// is atomic on the server.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/LerianStudio/lib-tokenledger/tokenledger/store"
	"github.com/LerianStudio/lib-tokenledger/tokenledger/token"
	"github.com/redis/go-redis/v9"
)

var (
	// ErrNilClient is returned when a Store is constructed without a client.
	ErrNilClient = errors.New("redis client is required")
	// ErrEmptyPrefix is returned when a Store is constructed with an empty key prefix.
	ErrEmptyPrefix = errors.New("key prefix is required")
)

// insertAccountScript creates the account hash field only when absent and
// adds the owner to the holder set. Returns 0 on duplicate. Both keys are
// always real keys so the script stays routable in cluster mode.
var insertAccountScript = redis.NewScript(`
if redis.call("HEXISTS", KEYS[1], ARGV[1]) == 1 then
  return 0
end
redis.call("HSET", KEYS[1], ARGV[1], ARGV[2])
redis.call("SADD", KEYS[2], ARGV[3])
return 1
`)

// updateScript replaces a hash field only when present. Returns 0 on miss.
var updateScript = redis.NewScript(`
if redis.call("HEXISTS", KEYS[1], ARGV[1]) == 0 then
  return 0
end
redis.call("HSET", KEYS[1], ARGV[1], ARGV[2])
return 1
`)

// removeScript deletes a hash field and the matching holder set member.
// Returns 0 on miss.
var removeScript = redis.NewScript(`
if redis.call("HDEL", KEYS[1], ARGV[1]) == 0 then
  return 0
end
redis.call("SREM", KEYS[2], ARGV[2])
return 1
`)

// Store is a Redis-backed store.Store.
type Store struct {
	client redis.UniversalClient
	prefix string
}

// Compile-time assertion: *Store implements store.Store.
var _ store.Store = (*Store)(nil)

// New creates a store over the given client. All keys are namespaced under
// prefix so multiple ledgers can share one Redis deployment.
func New(client redis.UniversalClient, prefix string) (*Store, error) {
	if client == nil {
		return nil, ErrNilClient
	}

	if prefix == "" {
		return nil, ErrEmptyPrefix
	}

	return &Store{client: client, prefix: prefix}, nil
}

func (s *Store) supplyKey() string {
	return s.prefix + ":supply"
}

func (s *Store) accountKey(owner token.AccountID) string {
	return s.prefix + ":account:" + string(owner)
}

func (s *Store) holdersKey(code string) string {
	return s.prefix + ":holders:" + code
}

// GetSupply returns the supply record for a symbol code, or store.ErrNotFound.
func (s *Store) GetSupply(ctx context.Context, code string) (store.SupplyRecord, error) {
	payload, err := s.client.HGet(ctx, s.supplyKey(), code).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return store.SupplyRecord{}, store.ErrNotFound
		}

		return store.SupplyRecord{}, fmt.Errorf("redis hget supply: %w", err)
	}

	var record store.SupplyRecord
	if err := json.Unmarshal([]byte(payload), &record); err != nil {
		return store.SupplyRecord{}, fmt.Errorf("decode supply record: %w", err)
	}

	return record, nil
}

// InsertSupply creates the supply record for a symbol code.
func (s *Store) InsertSupply(ctx context.Context, code string, record store.SupplyRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode supply record: %w", err)
	}

	// HSETNX is already create-if-absent on a single key, no script needed.
	created, err := s.client.HSetNX(ctx, s.supplyKey(), code, payload).Result()
	if err != nil {
		return fmt.Errorf("redis insert supply: %w", err)
	}

	if !created {
		return store.ErrDuplicateKey
	}

	return nil
}

// UpdateSupply replaces the supply record for a symbol code.
func (s *Store) UpdateSupply(ctx context.Context, code string, record store.SupplyRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode supply record: %w", err)
	}

	updated, err := updateScript.Run(ctx, s.client, []string{s.supplyKey()}, code, payload).Int()
	if err != nil {
		return fmt.Errorf("redis update supply: %w", err)
	}

	if updated == 0 {
		return store.ErrNotFound
	}

	return nil
}

// GetAccount returns the account record for (owner, code), or store.ErrNotFound.
func (s *Store) GetAccount(ctx context.Context, owner token.AccountID, code string) (store.AccountRecord, error) {
	payload, err := s.client.HGet(ctx, s.accountKey(owner), code).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return store.AccountRecord{}, store.ErrNotFound
		}

		return store.AccountRecord{}, fmt.Errorf("redis hget account: %w", err)
	}

	var record store.AccountRecord
	if err := json.Unmarshal([]byte(payload), &record); err != nil {
		return store.AccountRecord{}, fmt.Errorf("decode account record: %w", err)
	}

	return record, nil
}

// InsertAccount creates the account record for (owner, code).
func (s *Store) InsertAccount(ctx context.Context, owner token.AccountID, code string, record store.AccountRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode account record: %w", err)
	}

	keys := []string{s.accountKey(owner), s.holdersKey(code)}

	created, err := insertAccountScript.Run(ctx, s.client, keys, code, payload, string(owner)).Int()
	if err != nil {
		return fmt.Errorf("redis insert account: %w", err)
	}

	if created == 0 {
		return store.ErrDuplicateKey
	}

	return nil
}

// UpdateAccount replaces the account record for (owner, code).
func (s *Store) UpdateAccount(ctx context.Context, owner token.AccountID, code string, record store.AccountRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode account record: %w", err)
	}

	updated, err := updateScript.Run(ctx, s.client, []string{s.accountKey(owner)}, code, payload).Int()
	if err != nil {
		return fmt.Errorf("redis update account: %w", err)
	}

	if updated == 0 {
		return store.ErrNotFound
	}

	return nil
}

// RemoveAccount deletes the account record for (owner, code).
func (s *Store) RemoveAccount(ctx context.Context, owner token.AccountID, code string) error {
	keys := []string{s.accountKey(owner), s.holdersKey(code)}

	removed, err := removeScript.Run(ctx, s.client, keys, code, string(owner)).Int()
	if err != nil {
		return fmt.Errorf("redis remove account: %w", err)
	}

	if removed == 0 {
		return store.ErrNotFound
	}

	return nil
}

// Accounts returns every (owner, record) pair holding the symbol code.
func (s *Store) Accounts(ctx context.Context, code string) (map[token.AccountID]store.AccountRecord, error) {
	owners, err := s.client.SMembers(ctx, s.holdersKey(code)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis smembers holders: %w", err)
	}

	holders := make(map[token.AccountID]store.AccountRecord, len(owners))

	for _, owner := range owners {
		record, err := s.GetAccount(ctx, token.AccountID(owner), code)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				continue
			}

			return nil, err
		}

		holders[token.AccountID(owner)] = record
	}

	return holders, nil
}
