// Package memory provides the in-memory reference implementation of store.Store.
//
// It is safe for concurrent use and is the backend of choice for tests and
// for hosts that persist ledger state by other means.
package memory

import (
	"context"
	"sync"

	"github.com/LerianStudio/lib-tokenledger/tokenledger/store"
	"github.com/LerianStudio/lib-tokenledger/tokenledger/token"
)

type accountKey struct {
	owner token.AccountID
	code  string
}

// Store is a mutex-guarded in-memory store.Store implementation.
type Store struct {
	mu       sync.RWMutex
	supplies map[string]store.SupplyRecord
	accounts map[accountKey]store.AccountRecord
}

// Compile-time assertion: *Store implements store.Store.
var _ store.Store = (*Store)(nil)

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		supplies: make(map[string]store.SupplyRecord),
		accounts: make(map[accountKey]store.AccountRecord),
	}
}

// GetSupply returns the supply record for a symbol code, or store.ErrNotFound.
func (s *Store) GetSupply(_ context.Context, code string) (store.SupplyRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.supplies[code]
	if !ok {
		return store.SupplyRecord{}, store.ErrNotFound
	}

	return record, nil
}

// InsertSupply creates the supply record for a symbol code.
func (s *Store) InsertSupply(_ context.Context, code string, record store.SupplyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.supplies[code]; ok {
		return store.ErrDuplicateKey
	}

	s.supplies[code] = record

	return nil
}

// UpdateSupply replaces the supply record for a symbol code.
func (s *Store) UpdateSupply(_ context.Context, code string, record store.SupplyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.supplies[code]; !ok {
		return store.ErrNotFound
	}

	s.supplies[code] = record

	return nil
}

// GetAccount returns the account record for (owner, code), or store.ErrNotFound.
func (s *Store) GetAccount(_ context.Context, owner token.AccountID, code string) (store.AccountRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.accounts[accountKey{owner: owner, code: code}]
	if !ok {
		return store.AccountRecord{}, store.ErrNotFound
	}

	return record, nil
}

// InsertAccount creates the account record for (owner, code).
func (s *Store) InsertAccount(_ context.Context, owner token.AccountID, code string, record store.AccountRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := accountKey{owner: owner, code: code}
	if _, ok := s.accounts[key]; ok {
		return store.ErrDuplicateKey
	}

	s.accounts[key] = record

	return nil
}

// UpdateAccount replaces the account record for (owner, code).
func (s *Store) UpdateAccount(_ context.Context, owner token.AccountID, code string, record store.AccountRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := accountKey{owner: owner, code: code}
	if _, ok := s.accounts[key]; !ok {
		return store.ErrNotFound
	}

	s.accounts[key] = record

	return nil
}

// RemoveAccount deletes the account record for (owner, code).
func (s *Store) RemoveAccount(_ context.Context, owner token.AccountID, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := accountKey{owner: owner, code: code}
	if _, ok := s.accounts[key]; !ok {
		return store.ErrNotFound
	}

	delete(s.accounts, key)

	return nil
}

// Accounts returns every (owner, record) pair holding the symbol code.
func (s *Store) Accounts(_ context.Context, code string) (map[token.AccountID]store.AccountRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	holders := make(map[token.AccountID]store.AccountRecord)

	for key, record := range s.accounts {
		if key.code == code {
			holders[key.owner] = record
		}
	}

	return holders, nil
}
