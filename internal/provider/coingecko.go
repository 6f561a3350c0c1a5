package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
)

// CoinGeckoBaseURL is the public CoinGecko API root.
const CoinGeckoBaseURL = "https://api.coingecko.com/api/v3"

// CoinGeckoProvider fetches crypto prices in euros from CoinGecko.
type CoinGeckoProvider struct {
	client *resty.Client
}

// NewCoinGeckoProvider creates a CoinGecko provider over client, whose base URL
// points at the API root.
func NewCoinGeckoProvider(client *resty.Client) *CoinGeckoProvider {
	return &CoinGeckoProvider{client: client}
}

// Name returns the provider's display name.
func (p *CoinGeckoProvider) Name() string { return "CoinGecko" }

// simplePriceResponse maps a coin id to its prices per quote currency.
type simplePriceResponse map[string]struct {
	EUR *float64 `json:"eur"`
}

// FetchPrices returns the euro price of every id CoinGecko knows. Ids that are
// unknown or priced at zero are absent from the result.
func (p *CoinGeckoProvider) FetchPrices(ctx context.Context, ids []string) (map[string]float64, error) {
	if len(ids) == 0 {
		return map[string]float64{}, nil
	}

	resp, err := p.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"ids":           strings.Join(ids, ","),
			"vs_currencies": "eur",
		}).
		Get("/simple/price")
	if err != nil {
		return nil, fmt.Errorf("coingecko request: %w", err)
	}
	if resp.IsError() {
		return nil, &StatusError{Source: p.Name(), Status: resp.StatusCode()}
	}

	var body simplePriceResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, fmt.Errorf("decoding coingecko response: %w", err)
	}

	prices := make(map[string]float64, len(body))
	for id, info := range body {
		if info.EUR == nil || *info.EUR <= 0 {
			continue
		}
		prices[id] = *info.EUR
	}
	return prices, nil
}
