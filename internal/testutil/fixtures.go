package testutil

import (
	"encoding/json"
	"sync/atomic"
	"testing"
	"time"

	"patrimony/internal/models"

	"gorm.io/gorm"
)

// counter provides unique ids across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return 1_700_000_000_000 + counter.Add(1)
}

// NewHolding returns a plain EUR holding of the given category.
func NewHolding(name string, category models.Category, invested, current float64) models.Holding {
	return models.Holding{
		ID:             nextID(),
		Name:           name,
		Category:       category,
		AmountInvested: invested,
		CurrentValue:   current,
		Currency:       models.CurrencyEUR,
		PRUCurrency:    models.CurrencyEUR,
		Owner:          "main",
	}
}

// NewCryptoHolding returns a crypto holding priced by quantity and average buy price.
func NewCryptoHolding(name, coingeckoID string, quantity, avgBuyPrice float64) models.Holding {
	h := NewHolding(name, models.CategoryCrypto, quantity*avgBuyPrice, 0)
	h.Quantity = models.Float(quantity)
	h.AvgBuyPrice = models.Float(avgBuyPrice)
	if coingeckoID != "" {
		h.CoingeckoID = models.String(coingeckoID)
	}
	return h
}

// NewStockHolding returns a stock holding with a ticker and quantity.
func NewStockHolding(name, ticker string, quantity, invested float64) models.Holding {
	h := NewHolding(name, models.CategoryStocks, invested, 0)
	h.Quantity = models.Float(quantity)
	h.StockTicker = models.String(ticker)
	return h
}

// SeedDocument stores v as JSON under key.
func SeedDocument(t *testing.T, db *gorm.DB, key string, v interface{}) *models.Document {
	t.Helper()

	payload, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("failed to encode document %q: %v", key, err)
	}
	doc := &models.Document{Key: key, Payload: string(payload), UpdatedAt: time.Now()}
	if err := db.Create(doc).Error; err != nil {
		t.Fatalf("failed to create document %q: %v", key, err)
	}
	return doc
}

// CreateTestAuditLog records an audit entry for a holding.
func CreateTestAuditLog(t *testing.T, db *gorm.DB, action string, holdingID int64) *models.AuditLog {
	t.Helper()

	entry := &models.AuditLog{Action: action, HoldingID: holdingID, IPAddress: "127.0.0.1", Changes: "{}"}
	if err := db.Create(entry).Error; err != nil {
		t.Fatalf("failed to create test audit log: %v", err)
	}
	return entry
}
