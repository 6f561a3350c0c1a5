package report

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// FormatAmount renders amount in currency with its symbol and grouping, for
// example "€1,234.50". Codes go-money does not know (USDT, Other) fall back
// to a fixed two-decimal number followed by the code.
func FormatAmount(amount float64, currency string) string {
	cur := money.GetCurrency(currency)
	if cur == nil {
		s := decimal.NewFromFloat(amount).StringFixed(2)
		if currency == "" {
			return s
		}
		return s + " " + currency
	}

	factor := decimal.NewFromInt(10).Pow(decimal.NewFromInt(int64(cur.Fraction)))
	minor := decimal.NewFromFloat(amount).Mul(factor).Round(0)
	return money.New(minor.IntPart(), cur.Code).Display()
}
