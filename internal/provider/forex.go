package provider

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// cryptoQuoted lists currencies Yahoo quotes as crypto pairs ("USDT-EUR")
// rather than forex pairs ("CHFEUR=X").
var cryptoQuoted = map[string]bool{"USDT": true, "USDC": true, "BTC": true, "ETH": true}

// ForexConverter fetches exchange rates to a target currency from Yahoo
// Finance. Rates are cached for the lifetime of the converter, so a single
// instance should be used per refresh.
type ForexConverter struct {
	quotes         QuoteFetcher
	targetCurrency string
	mu             sync.RWMutex
	rates          map[string]float64 // e.g. "CHF" -> 1.05 (1 CHF = 1.05 EUR)
}

// NewForexConverter creates a converter to targetCurrency.
func NewForexConverter(quotes QuoteFetcher, targetCurrency string) *ForexConverter {
	return &ForexConverter{
		quotes:         quotes,
		targetCurrency: strings.ToUpper(targetCurrency),
		rates:          make(map[string]float64),
	}
}

// TargetCurrency returns the target currency code.
func (f *ForexConverter) TargetCurrency() string {
	return f.targetCurrency
}

// GetRate returns how many target units one unit of fromCurrency is worth.
func (f *ForexConverter) GetRate(ctx context.Context, fromCurrency string) (float64, error) {
	from := strings.ToUpper(fromCurrency)
	if from == f.targetCurrency {
		return 1.0, nil
	}

	f.mu.RLock()
	rate, ok := f.rates[from]
	f.mu.RUnlock()
	if ok {
		return rate, nil
	}

	q, err := f.quotes.FetchQuote(ctx, PairTicker(from, f.targetCurrency))
	if err != nil {
		return 0, fmt.Errorf("forex rate %s/%s: %w", from, f.targetCurrency, err)
	}

	f.mu.Lock()
	f.rates[from] = q.Price
	f.mu.Unlock()

	return q.Price, nil
}

// PairTicker returns the Yahoo ticker quoting from in to.
func PairTicker(from, to string) string {
	if cryptoQuoted[from] {
		return from + "-" + to
	}
	return from + to + "=X"
}
