package ledger

import (
	"strings"

	"patrimony/internal/models"
)

// Quote is a stock price and the currency it is quoted in.
type Quote struct {
	Price    float64 `json:"price"`
	Currency string  `json:"currency"`
}

// CryptoIDs returns the distinct non-empty CoinGecko ids of crypto holdings,
// in stored order.
func CryptoIDs(hs []models.Holding) []string {
	return distinctKeys(hs, models.CategoryCrypto, func(h models.Holding) *string { return h.CoingeckoID })
}

// StockTickers returns the distinct non-empty tickers of stock holdings, in
// stored order.
func StockTickers(hs []models.Holding) []string {
	return distinctKeys(hs, models.CategoryStocks, func(h models.Holding) *string { return h.StockTicker })
}

func distinctKeys(hs []models.Holding, c models.Category, key func(models.Holding) *string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, h := range hs {
		k := key(h)
		if h.Category != c || k == nil {
			continue
		}
		v := strings.TrimSpace(*k)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// ApplyCryptoPrices merges euro prices keyed by CoinGecko id into the crypto
// holdings. Missing or non-positive prices leave a holding untouched. It
// returns the new state and the number of holdings updated.
func ApplyCryptoPrices(s State, prices map[string]float64) (State, int) {
	return applyPrices(s, models.CategoryCrypto, func(h models.Holding) (float64, bool) {
		if h.CoingeckoID == nil {
			return 0, false
		}
		p, ok := prices[strings.TrimSpace(*h.CoingeckoID)]
		return p, ok
	})
}

// ApplyStockQuotes merges quotes keyed by ticker into the stock holdings.
func ApplyStockQuotes(s State, quotes map[string]Quote) (State, int) {
	return applyPrices(s, models.CategoryStocks, func(h models.Holding) (float64, bool) {
		if h.StockTicker == nil {
			return 0, false
		}
		q, ok := quotes[strings.TrimSpace(*h.StockTicker)]
		return q.Price, ok
	})
}

func applyPrices(s State, c models.Category, price func(models.Holding) (float64, bool)) (State, int) {
	next := s.clone()
	updated := 0
	for i, h := range next.Holdings {
		if h.Category != c {
			continue
		}
		p, ok := price(h)
		if !ok || p <= 0 {
			continue
		}
		h.LivePrice = &p
		if isSet(h.Quantity) {
			h.CurrentValue = product(*h.Quantity, p)
		}
		next.Holdings[i] = h
		updated++
	}
	if updated == 0 {
		return s, 0
	}
	return next, updated
}
