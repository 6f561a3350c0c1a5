package provider

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-resty/resty/v2"
)

// YahooBaseURL is the Yahoo Finance query host.
const YahooBaseURL = "https://query1.finance.yahoo.com"

// yahooChartResponse is the v8 chart endpoint payload. Only the metadata of
// the first result is used.
type yahooChartResponse struct {
	Chart struct {
		Result []yahooChartResult `json:"result"`
		Error  *yahooChartError   `json:"error"`
	} `json:"chart"`
}

type yahooChartResult struct {
	Meta yahooChartMeta `json:"meta"`
}

type yahooChartMeta struct {
	Symbol             string  `json:"symbol"`
	Currency           string  `json:"currency"`
	RegularMarketPrice float64 `json:"regularMarketPrice"`
}

type yahooChartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// YahooProvider fetches stock quotes and forex pairs from Yahoo Finance.
type YahooProvider struct {
	client *resty.Client
}

// NewYahooProvider creates a Yahoo Finance provider over client, whose base URL
// points at the query host.
func NewYahooProvider(client *resty.Client) *YahooProvider {
	return &YahooProvider{client: client}
}

// Name returns the provider's display name.
func (p *YahooProvider) Name() string { return "Yahoo Finance" }

// FetchQuote returns the regular market price of ticker.
func (p *YahooProvider) FetchQuote(ctx context.Context, ticker string) (Quote, error) {
	resp, err := p.client.R().
		SetContext(ctx).
		SetPathParam("ticker", ticker).
		SetQueryParams(map[string]string{"interval": "1d", "range": "1d"}).
		Get("/v8/finance/chart/{ticker}")
	if err != nil {
		return Quote{}, fmt.Errorf("yahoo request for %s: %w", ticker, err)
	}

	var chart yahooChartResponse
	if jsonErr := json.Unmarshal(resp.Body(), &chart); jsonErr != nil {
		if resp.IsError() {
			return Quote{}, &StatusError{Source: p.Name(), Status: resp.StatusCode()}
		}
		return Quote{}, fmt.Errorf("decoding yahoo response for %s: %w", ticker, jsonErr)
	}
	if chart.Chart.Error != nil {
		return Quote{}, fmt.Errorf("yahoo chart error for %s: %s: %s", ticker, chart.Chart.Error.Code, chart.Chart.Error.Description)
	}
	if resp.IsError() {
		return Quote{}, &StatusError{Source: p.Name(), Status: resp.StatusCode()}
	}
	if len(chart.Chart.Result) == 0 {
		return Quote{}, fmt.Errorf("no yahoo results for %s", ticker)
	}

	meta := chart.Chart.Result[0].Meta
	if meta.RegularMarketPrice <= 0 {
		return Quote{}, fmt.Errorf("invalid price for %s: %f", ticker, meta.RegularMarketPrice)
	}
	return Quote{Symbol: ticker, Price: meta.RegularMarketPrice, Currency: meta.Currency}, nil
}
