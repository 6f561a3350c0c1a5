package models

// Default conversion parameters used until the user edits them.
const (
	DefaultEurUsdtRate = 0.86
	DefaultChfEurRate  = 1.05
)

// Rates holds the process-wide exchange-rate parameters used by derivation.
type Rates struct {
	EurUsdtRate float64 `json:"eurUsdtRate" binding:"gt=0"` // EUR per 1 USDT
	ChfEurRate  float64 `json:"chfEurRate" binding:"gt=0"`  // EUR per 1 CHF
}

// DefaultRates returns the built-in rate parameters.
func DefaultRates() Rates {
	return Rates{EurUsdtRate: DefaultEurUsdtRate, ChfEurRate: DefaultChfEurRate}
}
