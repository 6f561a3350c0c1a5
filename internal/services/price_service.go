package services

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	apperrors "patrimony/internal/errors"
	"patrimony/internal/ledger"
	"patrimony/internal/logger"
	"patrimony/internal/models"
)

// priceService refreshes live prices. Fetches run outside the ledger lock;
// the merge re-reads the current state.
type priceService struct {
	ledger LedgerServicer
	oracle PriceOracle
	now    func() time.Time

	cryptoBusy atomic.Bool
	stocksBusy atomic.Bool

	mu       sync.RWMutex
	cryptoAt *time.Time
	stocksAt *time.Time
	ratesAt  *time.Time
}

// NewPriceService creates a new PriceServicer.
func NewPriceService(ledger LedgerServicer, oracle PriceOracle) PriceServicer {
	return &priceService{ledger: ledger, oracle: oracle, now: time.Now}
}

// RefreshCrypto fetches euro prices for every crypto holding with a CoinGecko id.
func (s *priceService) RefreshCrypto(ctx context.Context) (*RefreshResult, error) {
	ids := ledger.CryptoIDs(s.ledger.Holdings())
	if len(ids) == 0 {
		return nil, apperrors.ErrNoPriceIdentifiers
	}
	if !s.cryptoBusy.CompareAndSwap(false, true) {
		return nil, apperrors.ErrRefreshInProgress
	}
	defer s.cryptoBusy.Store(false)

	prices, err := s.oracle.CryptoPrices(ctx, ids)
	if err != nil {
		logger.Get().Errorw("crypto price refresh failed", "ids", len(ids), "error", err)
		return nil, apperrors.Wrap(apperrors.ErrPriceSourceUnavailable, err)
	}

	result := &RefreshResult{
		Scope:     models.ScopeCrypto,
		Requested: len(ids),
		Failed:    []FailedLookup{},
	}
	for _, id := range ids {
		if p, ok := prices[id]; !ok || p <= 0 {
			result.Failed = append(result.Failed, FailedLookup{Symbol: id, Error: "no price returned"})
		}
	}
	result.Updated = s.ledger.ApplyCryptoPrices(ctx, prices)
	result.RefreshedAt = s.stamp(&s.cryptoAt)

	logger.Get().Infow("crypto prices refreshed",
		"requested", result.Requested,
		"updated", result.Updated,
		"failed", len(result.Failed),
	)
	return result, nil
}

// RefreshStocks fetches a quote for every stock holding with a ticker.
// Failed tickers are skipped and listed in the result, even when none
// succeed. Only an aborted run is reported as an error.
func (s *priceService) RefreshStocks(ctx context.Context) (*RefreshResult, error) {
	tickers := ledger.StockTickers(s.ledger.Holdings())
	if len(tickers) == 0 {
		return nil, apperrors.ErrNoPriceIdentifiers
	}
	if !s.stocksBusy.CompareAndSwap(false, true) {
		return nil, apperrors.ErrRefreshInProgress
	}
	defer s.stocksBusy.Store(false)

	res, err := s.oracle.StockQuotes(ctx, tickers)
	if err != nil {
		logger.Get().Errorw("stock price refresh aborted", "tickers", len(tickers), "error", err)
		return nil, apperrors.Wrap(apperrors.ErrPriceSourceUnavailable, err)
	}

	quotes := make(map[string]ledger.Quote, len(res.Quotes))
	for ticker, q := range res.Quotes {
		quotes[ticker] = ledger.Quote{Price: q.Price, Currency: q.Currency}
	}

	result := &RefreshResult{
		Scope:     models.ScopeStocks,
		Requested: len(tickers),
		Cached:    res.Cached,
		Failed:    make([]FailedLookup, 0, len(res.Errors)),
	}
	for _, fe := range res.Errors {
		result.Failed = append(result.Failed, FailedLookup{Symbol: fe.Symbol, Error: fe.Err.Error()})
	}
	result.Updated = s.ledger.ApplyStockQuotes(ctx, quotes)
	result.RefreshedAt = s.stamp(&s.stocksAt)

	logger.Get().Infow("stock prices refreshed",
		"requested", result.Requested,
		"updated", result.Updated,
		"cached", result.Cached,
		"failed", len(result.Failed),
		"duration", res.Duration,
	)
	return result, nil
}

// RefreshRates replaces the conversion rates with market values.
func (s *priceService) RefreshRates(ctx context.Context) (models.Rates, error) {
	res, err := s.oracle.Rates(ctx)
	if err != nil {
		logger.Get().Errorw("rate refresh failed", "error", err)
		return models.Rates{}, apperrors.Wrap(apperrors.ErrPriceSourceUnavailable, err)
	}

	rates := s.ledger.Rates()
	if res.EurUsdtRate > 0 {
		rates.EurUsdtRate = res.EurUsdtRate
	}
	if res.ChfEurRate > 0 {
		rates.ChfEurRate = res.ChfEurRate
	}
	rates = s.ledger.SetRates(ctx, rates)
	s.stamp(&s.ratesAt)

	logger.Get().Infow("rates refreshed", "eur_usdt_rate", rates.EurUsdtRate, "chf_eur_rate", rates.ChfEurRate)
	return rates, nil
}

// Status reports the last successful refreshes.
func (s *priceService) Status() PriceStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return PriceStatus{
		CryptoRefreshedAt: s.cryptoAt,
		StocksRefreshedAt: s.stocksAt,
		RatesRefreshedAt:  s.ratesAt,
		CryptoInFlight:    s.cryptoBusy.Load(),
		StocksInFlight:    s.stocksBusy.Load(),
	}
}

func (s *priceService) stamp(at **time.Time) time.Time {
	now := s.now().UTC()
	s.mu.Lock()
	*at = &now
	s.mu.Unlock()
	return now
}
