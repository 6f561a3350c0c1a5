package models

// Currency is the display and conversion currency tag of a holding.
type Currency string

const (
	CurrencyEUR   Currency = "EUR"
	CurrencyCHF   Currency = "CHF"
	CurrencyUSD   Currency = "USD"
	CurrencyUSDT  Currency = "USDT"
	CurrencyOther Currency = "Other"
)

// Currencies lists the accepted holding currencies.
var Currencies = []Currency{CurrencyEUR, CurrencyCHF, CurrencyUSD, CurrencyUSDT, CurrencyOther}

// PRUCurrencies lists the currencies an average buy price may be denominated in.
var PRUCurrencies = []Currency{CurrencyEUR, CurrencyUSDT}

// Holding is one row of patrimony: a position, a budget flow line or a credit.
// The JSON field names double as the backup file format.
type Holding struct {
	ID             int64    `json:"id"`
	Name           string   `json:"name"`
	Account        string   `json:"account"`
	Category       Category `json:"category"`
	AmountInvested float64  `json:"amountInvested"`
	CurrentValue   float64  `json:"currentValue"`
	Currency       Currency `json:"currency"`
	Quantity       *float64 `json:"quantity"`
	AvgBuyPrice    *float64 `json:"avgBuyPrice"`
	PRUCurrency    Currency `json:"pruCurrency"`
	LivePrice      *float64 `json:"livePrice"`
	CoingeckoID    *string  `json:"coingeckoId"`
	StockTicker    *string  `json:"stockTicker"`
	Owner          string   `json:"owner"`
}

// Clone returns a deep copy of h so that pointer fields are never shared.
func (h Holding) Clone() Holding {
	c := h
	c.Quantity = cloneFloat(h.Quantity)
	c.AvgBuyPrice = cloneFloat(h.AvgBuyPrice)
	c.LivePrice = cloneFloat(h.LivePrice)
	c.CoingeckoID = cloneString(h.CoingeckoID)
	c.StockTicker = cloneString(h.StockTicker)
	return c
}

// CloneHoldings deep-copies a list of holdings.
func CloneHoldings(hs []Holding) []Holding {
	if hs == nil {
		return nil
	}
	out := make([]Holding, len(hs))
	for i := range hs {
		out[i] = hs[i].Clone()
	}
	return out
}

func cloneFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// String returns a pointer to v.
func String(v string) *string { return &v }
