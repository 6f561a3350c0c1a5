// Package store persists the ledger as JSON documents in a key/value table.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"patrimony/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DocumentStore reads and writes whole JSON documents by key.
type DocumentStore struct {
	db *gorm.DB
}

// NewDocumentStore creates a store over db.
func NewDocumentStore(db *gorm.DB) *DocumentStore {
	return &DocumentStore{db: db}
}

// Load decodes the document under key into v. found is false when no
// document exists; v is then left untouched.
func (s *DocumentStore) Load(ctx context.Context, key string, v interface{}) (found bool, err error) {
	var doc models.Document
	err = s.db.WithContext(ctx).Where("key = ?", key).First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading document %q: %w", key, err)
	}
	if err := json.Unmarshal([]byte(doc.Payload), v); err != nil {
		return true, fmt.Errorf("decoding document %q: %w", key, err)
	}
	return true, nil
}

// Save replaces the document under key with the JSON encoding of v.
func (s *DocumentStore) Save(ctx context.Context, key string, v interface{}) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding document %q: %w", key, err)
	}
	doc := models.Document{Key: key, Payload: string(payload), UpdatedAt: time.Now().UTC()}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(&doc).Error
	if err != nil {
		return fmt.Errorf("writing document %q: %w", key, err)
	}
	return nil
}

// LedgerStore is the typed view over the two ledger documents.
type LedgerStore struct {
	docs        *DocumentStore
	holdingsKey string
	ratesKey    string
}

// NewLedgerStore stores holdings under holdingsKey and rates under ratesKey.
func NewLedgerStore(db *gorm.DB, holdingsKey, ratesKey string) *LedgerStore {
	return &LedgerStore{docs: NewDocumentStore(db), holdingsKey: holdingsKey, ratesKey: ratesKey}
}

// LoadHoldings returns the stored holdings, or nil when none were saved yet.
func (s *LedgerStore) LoadHoldings(ctx context.Context) ([]models.Holding, error) {
	var hs []models.Holding
	if _, err := s.docs.Load(ctx, s.holdingsKey, &hs); err != nil {
		return nil, err
	}
	return hs, nil
}

// SaveHoldings writes the full ordered holdings list.
func (s *LedgerStore) SaveHoldings(ctx context.Context, hs []models.Holding) error {
	if hs == nil {
		hs = []models.Holding{}
	}
	return s.docs.Save(ctx, s.holdingsKey, hs)
}

// LoadRates returns the stored rates; found is false when none were saved.
func (s *LedgerStore) LoadRates(ctx context.Context) (rates models.Rates, found bool, err error) {
	found, err = s.docs.Load(ctx, s.ratesKey, &rates)
	return rates, found, err
}

// SaveRates writes the rate parameters.
func (s *LedgerStore) SaveRates(ctx context.Context, rates models.Rates) error {
	return s.docs.Save(ctx, s.ratesKey, rates)
}
