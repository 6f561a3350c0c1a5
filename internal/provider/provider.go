// Package provider fetches market prices from external data sources.
package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7)"

// NewClient builds the resty client shared by a provider. Every request made
// through it is bounded by timeout.
func NewClient(baseURL string, timeout time.Duration, debug bool) *resty.Client {
	return resty.New().
		SetDebug(debug).
		SetTimeout(timeout).
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", userAgent)
}

// Quote is the last market price of a ticker.
type Quote struct {
	Symbol   string
	Price    float64
	Currency string
}

// FetchError represents a failed lookup of a single symbol.
type FetchError struct {
	Symbol string
	Err    error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch price for %s: %v", e.Symbol, e.Err)
}

// Unwrap returns the underlying error.
func (e *FetchError) Unwrap() error { return e.Err }

// CryptoPricer fetches euro prices for CoinGecko ids in one batch.
type CryptoPricer interface {
	Name() string
	FetchPrices(ctx context.Context, ids []string) (map[string]float64, error)
}

// QuoteFetcher fetches the quote of one ticker.
type QuoteFetcher interface {
	Name() string
	FetchQuote(ctx context.Context, ticker string) (Quote, error)
}

// StatusError is returned when a source answers with a non-2xx status.
type StatusError struct {
	Source string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d", e.Source, e.Status)
}
