// Package oracle fetches prices from the providers, with a short-lived cache
// in front of them.
package oracle

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"patrimony/internal/cache"
	"patrimony/internal/logger"
	"patrimony/internal/provider"
)

// StockResult contains the outcome of a stock quote run.
type StockResult struct {
	Quotes   map[string]provider.Quote
	Errors   []provider.FetchError
	Cached   int
	Duration time.Duration
}

// RatesResult holds freshly fetched conversion rates.
type RatesResult struct {
	EurUsdtRate float64
	ChfEurRate  float64
}

// Oracle fetches crypto prices, stock quotes and conversion rates.
type Oracle struct {
	crypto provider.CryptoPricer
	quotes provider.QuoteFetcher
	cache  cache.Cache
	ttl    time.Duration
}

// NewOracle creates an Oracle. A nil cache or a non-positive ttl disables
// caching.
func NewOracle(crypto provider.CryptoPricer, quotes provider.QuoteFetcher, c cache.Cache, ttl time.Duration) *Oracle {
	return &Oracle{crypto: crypto, quotes: quotes, cache: c, ttl: ttl}
}

func (o *Oracle) caching() bool {
	return o.cache != nil && o.ttl > 0
}

// CryptoPrices returns euro prices for ids. Cached ids are served from the
// cache and the rest are fetched in a single batch request.
func (o *Oracle) CryptoPrices(ctx context.Context, ids []string) (map[string]float64, error) {
	prices := make(map[string]float64, len(ids))
	missing := make([]string, 0, len(ids))
	for _, id := range ids {
		var p float64
		if o.lookup(ctx, "crypto:"+id, &p) {
			prices[id] = p
			continue
		}
		missing = append(missing, id)
	}
	if len(missing) == 0 {
		return prices, nil
	}

	logger.Get().Infow("fetching prices", "provider", o.crypto.Name(), "count", len(missing))
	fetched, err := o.crypto.FetchPrices(ctx, missing)
	if err != nil {
		return nil, err
	}
	for id, p := range fetched {
		prices[id] = p
		o.store(ctx, "crypto:"+id, p)
	}
	return prices, nil
}

// StockQuotes looks tickers up one after the other. A failed ticker is
// reported and skipped. If ctx ends, the lookups stop and the context error is
// returned with no quotes.
func (o *Oracle) StockQuotes(ctx context.Context, tickers []string) (*StockResult, error) {
	start := time.Now()
	result := &StockResult{Quotes: make(map[string]provider.Quote, len(tickers))}

	for _, ticker := range tickers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		q, cached, err := o.quote(ctx, ticker)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			logger.Get().Warnw("skipping ticker", "provider", o.quotes.Name(), "ticker", ticker, "error", err)
			result.Errors = append(result.Errors, provider.FetchError{Symbol: ticker, Err: err})
			continue
		}
		if cached {
			result.Cached++
		}
		result.Quotes[ticker] = q
	}

	result.Duration = time.Since(start)
	return result, nil
}

// Rates fetches the EUR value of one USDT and of one CHF concurrently.
func (o *Oracle) Rates(ctx context.Context) (*RatesResult, error) {
	fx := provider.NewForexConverter(cachedQuotes{o}, "EUR")

	var (
		wg      sync.WaitGroup
		usdt    float64
		chf     float64
		usdtErr error
		chfErr  error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		usdt, usdtErr = fx.GetRate(ctx, "USDT")
	}()
	go func() {
		defer wg.Done()
		chf, chfErr = fx.GetRate(ctx, "CHF")
	}()
	wg.Wait()

	if usdtErr != nil {
		return nil, usdtErr
	}
	if chfErr != nil {
		return nil, chfErr
	}
	return &RatesResult{EurUsdtRate: usdt, ChfEurRate: chf}, nil
}

func (o *Oracle) quote(ctx context.Context, ticker string) (provider.Quote, bool, error) {
	var q provider.Quote
	if o.lookup(ctx, "quote:"+ticker, &q) {
		return q, true, nil
	}
	q, err := o.quotes.FetchQuote(ctx, ticker)
	if err != nil {
		return provider.Quote{}, false, err
	}
	o.store(ctx, "quote:"+ticker, q)
	return q, false, nil
}

// lookup reads a cached value. Cache failures count as misses.
func (o *Oracle) lookup(ctx context.Context, key string, v interface{}) bool {
	if !o.caching() {
		return false
	}
	data, ok, err := o.cache.Get(ctx, key)
	if err != nil {
		logger.Get().Warnw("quote cache read failed", "key", key, "error", err)
		return false
	}
	if !ok {
		return false
	}
	return json.Unmarshal(data, v) == nil
}

func (o *Oracle) store(ctx context.Context, key string, v interface{}) {
	if !o.caching() {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := o.cache.Set(ctx, key, data, o.ttl); err != nil {
		logger.Get().Warnw("quote cache write failed", "key", key, "error", err)
	}
}

// cachedQuotes routes forex lookups through the oracle cache.
type cachedQuotes struct{ o *Oracle }

func (c cachedQuotes) Name() string { return c.o.quotes.Name() }

func (c cachedQuotes) FetchQuote(ctx context.Context, ticker string) (provider.Quote, error) {
	q, _, err := c.o.quote(ctx, ticker)
	return q, err
}
