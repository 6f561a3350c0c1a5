package ledger

import (
	"testing"

	"patrimony/internal/models"
	"patrimony/internal/testutil"
)

func TestSummarize(t *testing.T) {
	rates := models.DefaultRates()

	t.Run("profit_zero_when_balanced", func(t *testing.T) {
		hs := []models.Holding{
			testutil.NewHolding("A", models.CategoryETF, 1000, 1200),
			testutil.NewHolding("B", models.CategoryETF, 2000, 1800),
		}
		sum := Summarize(hs, rates)

		testutil.AssertFloat(t, "invested", sum.Investment.Invested, 3000)
		testutil.AssertFloat(t, "current", sum.Investment.Current, 3000)
		testutil.AssertFloat(t, "profit", sum.Investment.Profit, 0)
		testutil.AssertFloat(t, "percent", sum.Investment.ProfitPercent, 0)
	})

	t.Run("percent_zero_without_investment", func(t *testing.T) {
		hs := []models.Holding{testutil.NewHolding("Gift", models.CategoryOther, 0, 500)}
		sum := Summarize(hs, rates)

		testutil.AssertFloat(t, "profit", sum.Investment.Profit, 500)
		testutil.AssertFloat(t, "percent", sum.Investment.ProfitPercent, 0)
	})

	t.Run("chf_converted_in_investment_scope", func(t *testing.T) {
		h := testutil.NewHolding("Swiss", models.CategoryLiquidities, 100, 200)
		h.Currency = models.CurrencyCHF
		sum := Summarize([]models.Holding{h}, models.Rates{EurUsdtRate: 0.86, ChfEurRate: 1.1})

		testutil.AssertFloat(t, "invested", sum.Investment.Invested, 110)
		testutil.AssertFloat(t, "current", sum.Investment.Current, 220)
	})

	t.Run("non_positive_chf_rate_falls_back", func(t *testing.T) {
		h := testutil.NewHolding("Swiss", models.CategoryLiquidities, 0, 100)
		h.Currency = models.CurrencyCHF
		sum := Summarize([]models.Holding{h}, models.Rates{EurUsdtRate: 0.86, ChfEurRate: 0})

		testutil.AssertFloat(t, "current", sum.Investment.Current, 105)
	})

	t.Run("scopes_partition", func(t *testing.T) {
		btc := testutil.NewCryptoHolding("BTC", "bitcoin", 0.1, 30000)
		btc.CurrentValue = 6500
		aapl := testutil.NewStockHolding("Apple", "AAPL", 3, 450)
		aapl.CurrentValue = 500
		hs := []models.Holding{
			testutil.NewHolding("Cash", models.CategoryLiquidities, 1000, 1000),
			btc,
			aapl,
			testutil.NewHolding("Salary", models.CategorySalary, 3000, 0),
			testutil.NewHolding("Rent", models.CategoryFixedCharges, -1200, 0),
			testutil.NewHolding("Mortgage", models.CategoryMortgage, 200000, 150000),
		}
		sum := Summarize(hs, rates)

		testutil.AssertFloat(t, "investment current", sum.Investment.Current, 1500)
		testutil.AssertFloat(t, "crypto invested", sum.Crypto.Invested, 3000)
		testutil.AssertFloat(t, "crypto profit", sum.Crypto.Profit, 3500)
		testutil.AssertFloat(t, "stocks current", sum.Stocks.Current, 500)
		testutil.AssertFloat(t, "budget flux", sum.BudgetFlux, 1800)
		testutil.AssertFloat(t, "credit total", sum.CreditTotal, 150000)
	})

	t.Run("category_weights_sum_to_100", func(t *testing.T) {
		hs := []models.Holding{
			testutil.NewHolding("Cash", models.CategoryLiquidities, 0, 1000),
			testutil.NewHolding("World", models.CategoryETF, 0, 2000),
			testutil.NewHolding("Emerging", models.CategoryETF, 0, 333.33),
			testutil.NewHolding("Empty", models.CategoryStartup, 0, 0),
		}
		sum := Summarize(hs, rates)

		if len(sum.CategoryAllocation) != 2 {
			t.Fatalf("expected 2 non-empty categories, got %d", len(sum.CategoryAllocation))
		}
		if sum.CategoryAllocation[0].Category != models.CategoryLiquidities {
			t.Errorf("expected enumeration order, got %s first", sum.CategoryAllocation[0].Category)
		}
		var total float64
		for _, c := range sum.CategoryAllocation {
			total += c.Weight
		}
		if total < 99.999999 || total > 100.000001 {
			t.Errorf("expected weights to sum to 100, got %v", total)
		}
	})

	t.Run("asset_allocation_sorted_by_value", func(t *testing.T) {
		small := testutil.NewCryptoHolding("SOL", "solana", 1, 1)
		small.CurrentValue = 100
		big := testutil.NewCryptoHolding("BTC", "bitcoin", 1, 1)
		big.CurrentValue = 300
		sum := Summarize([]models.Holding{small, big}, rates)

		if len(sum.CryptoAllocation) != 2 || sum.CryptoAllocation[0].Name != "BTC" {
			t.Fatalf("expected BTC first, got %+v", sum.CryptoAllocation)
		}
		testutil.AssertFloat(t, "weight", sum.CryptoAllocation[0].Weight, 75)
	})

	t.Run("empty", func(t *testing.T) {
		sum := Summarize(nil, rates)
		if sum.Investment.Current != 0 || len(sum.CategoryAllocation) != 0 {
			t.Errorf("expected empty summary, got %+v", sum)
		}
	})
}

func TestLineMetrics(t *testing.T) {
	hs := []models.Holding{
		testutil.NewHolding("Up", models.CategoryETF, 200, 250),
		testutil.NewHolding("Free", models.CategoryOther, 0, 10),
	}
	got := LineMetrics(hs)

	testutil.AssertFloat(t, "profit", got[0].Profit, 50)
	testutil.AssertFloat(t, "percent", got[0].ProfitPercent, 25)
	testutil.AssertFloat(t, "percent without investment", got[1].ProfitPercent, 0)
}

func TestToEUR(t *testing.T) {
	rates := models.Rates{EurUsdtRate: 0.86, ChfEurRate: 1.1}

	testutil.AssertFloat(t, "chf", ToEUR(100, models.CurrencyCHF, rates), 110)
	testutil.AssertFloat(t, "usd untouched", ToEUR(100, models.CurrencyUSD, rates), 100)

	rates.ChfEurRate = 0
	testutil.AssertFloat(t, "fallback rate", ToEUR(100, models.CurrencyCHF, rates), 105)
}
