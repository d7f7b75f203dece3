// Package mongo provides a MongoDB-backed store.Store implementation.
//
// Supply records live in one collection keyed by symbol code, account
// records in another keyed by (owner, code); both carry unique indexes on
// their keys so duplicate inserts surface as store.ErrDuplicateKey.
package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/LerianStudio/lib-tokenledger/tokenledger/store"
	"github.com/LerianStudio/lib-tokenledger/tokenledger/token"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	supplyCollection  = "supplies"
	accountCollection = "accounts"
)

var (
	// ErrNilDatabase is returned when a Store is constructed without a database.
	ErrNilDatabase = errors.New("mongo database is required")
)

type supplyDocument struct {
	Code   string             `bson:"code"`
	Record store.SupplyRecord `bson:"record"`
}

type accountDocument struct {
	Owner  token.AccountID     `bson:"owner"`
	Code   string              `bson:"code"`
	Record store.AccountRecord `bson:"record"`
}

// Store is a MongoDB-backed store.Store.
type Store struct {
	supplies *mongo.Collection
	accounts *mongo.Collection
}

// Compile-time assertion: *Store implements store.Store.
var _ store.Store = (*Store)(nil)

// New creates a store over the given database and ensures the unique
// indexes both collections rely on.
func New(ctx context.Context, db *mongo.Database) (*Store, error) {
	if db == nil {
		return nil, ErrNilDatabase
	}

	s := &Store{
		supplies: db.Collection(supplyCollection),
		accounts: db.Collection(accountCollection),
	}

	supplyIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "code", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := s.supplies.Indexes().CreateOne(ctx, supplyIndex); err != nil {
		return nil, fmt.Errorf("mongo create supply index: %w", err)
	}

	accountIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "owner", Value: 1}, {Key: "code", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := s.accounts.Indexes().CreateOne(ctx, accountIndex); err != nil {
		return nil, fmt.Errorf("mongo create account index: %w", err)
	}

	return s, nil
}

// GetSupply returns the supply record for a symbol code, or store.ErrNotFound.
func (s *Store) GetSupply(ctx context.Context, code string) (store.SupplyRecord, error) {
	var doc supplyDocument

	err := s.supplies.FindOne(ctx, bson.D{{Key: "code", Value: code}}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return store.SupplyRecord{}, store.ErrNotFound
		}

		return store.SupplyRecord{}, fmt.Errorf("mongo find supply: %w", err)
	}

	return doc.Record, nil
}

// InsertSupply creates the supply record for a symbol code.
func (s *Store) InsertSupply(ctx context.Context, code string, record store.SupplyRecord) error {
	_, err := s.supplies.InsertOne(ctx, supplyDocument{Code: code, Record: record})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return store.ErrDuplicateKey
		}

		return fmt.Errorf("mongo insert supply: %w", err)
	}

	return nil
}

// UpdateSupply replaces the supply record for a symbol code.
func (s *Store) UpdateSupply(ctx context.Context, code string, record store.SupplyRecord) error {
	result, err := s.supplies.UpdateOne(ctx,
		bson.D{{Key: "code", Value: code}},
		bson.D{{Key: "$set", Value: bson.D{{Key: "record", Value: record}}}},
	)
	if err != nil {
		return fmt.Errorf("mongo update supply: %w", err)
	}

	if result.MatchedCount == 0 {
		return store.ErrNotFound
	}

	return nil
}

// GetAccount returns the account record for (owner, code), or store.ErrNotFound.
func (s *Store) GetAccount(ctx context.Context, owner token.AccountID, code string) (store.AccountRecord, error) {
	var doc accountDocument

	filter := bson.D{{Key: "owner", Value: owner}, {Key: "code", Value: code}}

	err := s.accounts.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return store.AccountRecord{}, store.ErrNotFound
		}

		return store.AccountRecord{}, fmt.Errorf("mongo find account: %w", err)
	}

	return doc.Record, nil
}

// InsertAccount creates the account record for (owner, code).
func (s *Store) InsertAccount(ctx context.Context, owner token.AccountID, code string, record store.AccountRecord) error {
	_, err := s.accounts.InsertOne(ctx, accountDocument{Owner: owner, Code: code, Record: record})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return store.ErrDuplicateKey
		}

		return fmt.Errorf("mongo insert account: %w", err)
	}

	return nil
}

// UpdateAccount replaces the account record for (owner, code).
func (s *Store) UpdateAccount(ctx context.Context, owner token.AccountID, code string, record store.AccountRecord) error {
	result, err := s.accounts.UpdateOne(ctx,
		bson.D{{Key: "owner", Value: owner}, {Key: "code", Value: code}},
		bson.D{{Key: "$set", Value: bson.D{{Key: "record", Value: record}}}},
	)
	if err != nil {
		return fmt.Errorf("mongo update account: %w", err)
	}

	if result.MatchedCount == 0 {
		return store.ErrNotFound
	}

	return nil
}

// RemoveAccount deletes the account record for (owner, code).
func (s *Store) RemoveAccount(ctx context.Context, owner token.AccountID, code string) error {
	result, err := s.accounts.DeleteOne(ctx, bson.D{{Key: "owner", Value: owner}, {Key: "code", Value: code}})
	if err != nil {
		return fmt.Errorf("mongo delete account: %w", err)
	}

	if result.DeletedCount == 0 {
		return store.ErrNotFound
	}

	return nil
}

// Accounts returns every (owner, record) pair holding the symbol code.
func (s *Store) Accounts(ctx context.Context, code string) (map[token.AccountID]store.AccountRecord, error) {
	cursor, err := s.accounts.Find(ctx, bson.D{{Key: "code", Value: code}})
	if err != nil {
		return nil, fmt.Errorf("mongo find accounts: %w", err)
	}
	defer cursor.Close(ctx)

	holders := make(map[token.AccountID]store.AccountRecord)

	for cursor.Next(ctx) {
		var doc accountDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode account document: %w", err)
		}

		holders[doc.Owner] = doc.Record
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("mongo iterate accounts: %w", err)
	}

	return holders, nil
}
