package ledger

import (
	"sort"

	"github.com/shopspring/decimal"

	"patrimony/internal/models"
)

// Totals are the aggregate figures of one scope.
type Totals struct {
	Invested      float64 `json:"invested"`
	Current       float64 `json:"current"`
	Profit        float64 `json:"profit"`
	ProfitPercent float64 `json:"profitPercent"`
}

// CategoryWeight is the share of one investment category.
type CategoryWeight struct {
	Category models.Category `json:"category"`
	Value    float64         `json:"value"`
	Weight   float64         `json:"weight"`
}

// AssetWeight is the share of one holding within its scope.
type AssetWeight struct {
	ID     int64   `json:"id"`
	Name   string  `json:"name"`
	Value  float64 `json:"value"`
	Weight float64 `json:"weight"`
}

// Summary is everything derived from the holdings and rates.
type Summary struct {
	Investment         Totals           `json:"investment"`
	Crypto             Totals           `json:"crypto"`
	Stocks             Totals           `json:"stocks"`
	Budget             Totals           `json:"budget"`
	Credit             Totals           `json:"credit"`
	CategoryAllocation []CategoryWeight `json:"categoryAllocation"`
	CryptoAllocation   []AssetWeight    `json:"cryptoAllocation"`
	StocksAllocation   []AssetWeight    `json:"stocksAllocation"`
	BudgetFlux         float64          `json:"budgetFlux"`
	CreditTotal        float64          `json:"creditTotal"`
	Rates              models.Rates     `json:"rates"`
}

// LineMetric is the per-holding profit shown next to each row.
type LineMetric struct {
	ID            int64   `json:"id"`
	Profit        float64 `json:"profit"`
	ProfitPercent float64 `json:"profitPercent"`
}

// Profit returns current − invested.
func Profit(current, invested float64) float64 {
	return dec(current).Sub(dec(invested)).InexactFloat64()
}

// ProfitPercent returns the profit as a percentage of invested, or 0 when
// nothing was invested.
func ProfitPercent(current, invested float64) float64 {
	inv := dec(invested)
	return percentOf(dec(current).Sub(inv), inv)
}

// ToEUR converts value in currency c to euros. Only CHF is converted; every
// other currency is taken as already in euros. A non-positive CHF rate falls
// back to the default.
func ToEUR(value float64, c models.Currency, rates models.Rates) float64 {
	return toEUR(value, c, rates).InexactFloat64()
}

func toEUR(value float64, c models.Currency, rates models.Rates) decimal.Decimal {
	if c != models.CurrencyCHF {
		return dec(value)
	}
	rate := rates.ChfEurRate
	if rate <= 0 {
		rate = models.DefaultChfEurRate
	}
	return dec(value).Mul(dec(rate))
}

// LineMetrics returns the profit of every holding, in stored order.
func LineMetrics(hs []models.Holding) []LineMetric {
	out := make([]LineMetric, 0, len(hs))
	for _, h := range hs {
		out = append(out, LineMetric{
			ID:            h.ID,
			Profit:        Profit(h.CurrentValue, h.AmountInvested),
			ProfitPercent: ProfitPercent(h.CurrentValue, h.AmountInvested),
		})
	}
	return out
}

// Summarize derives every aggregate. Investment and budget amounts are
// converted to euros; crypto, stocks and credit amounts are summed as stored.
func Summarize(hs []models.Holding, rates models.Rates) Summary {
	var (
		inv, cry, stk, bud, cre sums
		byCategory              = map[models.Category]decimal.Decimal{}
	)
	for _, h := range hs {
		switch {
		case models.ScopeBudget.Contains(h.Category):
			bud.add(toEUR(h.AmountInvested, h.Currency, rates), toEUR(h.CurrentValue, h.Currency, rates))
		case models.ScopeCredit.Contains(h.Category):
			cre.add(dec(h.AmountInvested), dec(h.CurrentValue))
		case models.ScopeCrypto.Contains(h.Category):
			cry.add(dec(h.AmountInvested), dec(h.CurrentValue))
		default:
			current := toEUR(h.CurrentValue, h.Currency, rates)
			inv.add(toEUR(h.AmountInvested, h.Currency, rates), current)
			byCategory[h.Category] = byCategory[h.Category].Add(current)
		}
		if models.ScopeStocks.Contains(h.Category) {
			stk.add(dec(h.AmountInvested), dec(h.CurrentValue))
		}
	}

	return Summary{
		Investment:         inv.totals(),
		Crypto:             cry.totals(),
		Stocks:             stk.totals(),
		Budget:             bud.totals(),
		Credit:             cre.totals(),
		CategoryAllocation: categoryAllocation(byCategory, inv.current),
		CryptoAllocation:   assetAllocation(Filter(hs, models.ScopeCrypto), cry.current),
		StocksAllocation:   assetAllocation(Filter(hs, models.ScopeStocks), stk.current),
		BudgetFlux:         bud.invested.InexactFloat64(),
		CreditTotal:        cre.current.InexactFloat64(),
		Rates:              rates,
	}
}

type sums struct {
	invested decimal.Decimal
	current  decimal.Decimal
}

func (s *sums) add(invested, current decimal.Decimal) {
	s.invested = s.invested.Add(invested)
	s.current = s.current.Add(current)
}

func (s sums) totals() Totals {
	profit := s.current.Sub(s.invested)
	return Totals{
		Invested:      s.invested.InexactFloat64(),
		Current:       s.current.InexactFloat64(),
		Profit:        profit.InexactFloat64(),
		ProfitPercent: percentOf(profit, s.invested),
	}
}

// categoryAllocation follows the category enumeration order, then any
// categories outside it in name order, and drops empty categories.
func categoryAllocation(byCategory map[models.Category]decimal.Decimal, total decimal.Decimal) []CategoryWeight {
	order := make([]models.Category, 0, len(byCategory))
	order = append(order, models.InvestmentCategories...)
	var extra []models.Category
	for c := range byCategory {
		if !c.IsInvestment() {
			extra = append(extra, c)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	order = append(order, extra...)

	out := make([]CategoryWeight, 0, len(byCategory))
	for _, c := range order {
		v, ok := byCategory[c]
		if !ok || v.IsZero() {
			continue
		}
		out = append(out, CategoryWeight{
			Category: c,
			Value:    v.InexactFloat64(),
			Weight:   percentOf(v, total),
		})
	}
	return out
}

func assetAllocation(hs []models.Holding, total decimal.Decimal) []AssetWeight {
	out := make([]AssetWeight, 0, len(hs))
	for _, h := range hs {
		v := dec(h.CurrentValue)
		out = append(out, AssetWeight{
			ID:     h.ID,
			Name:   h.Name,
			Value:  h.CurrentValue,
			Weight: percentOf(v, total),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Value > out[j].Value })
	return out
}
