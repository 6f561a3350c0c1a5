package ledger

import (
	"testing"

	"patrimony/internal/models"
	"patrimony/internal/testutil"
)

func TestCryptoIDs(t *testing.T) {
	noID := testutil.NewCryptoHolding("Pepe", "", 1, 1)
	hs := []models.Holding{
		testutil.NewCryptoHolding("BTC", "bitcoin", 1, 1),
		testutil.NewCryptoHolding("BTC cold", "bitcoin", 1, 1),
		noID,
		testutil.NewCryptoHolding("ETH", "ethereum", 1, 1),
		testutil.NewStockHolding("Apple", "AAPL", 1, 1),
	}

	ids := CryptoIDs(hs)
	if len(ids) != 2 || ids[0] != "bitcoin" || ids[1] != "ethereum" {
		t.Errorf("expected [bitcoin ethereum], got %v", ids)
	}
	tickers := StockTickers(hs)
	if len(tickers) != 1 || tickers[0] != "AAPL" {
		t.Errorf("expected [AAPL], got %v", tickers)
	}
	if len(CryptoIDs(nil)) != 0 {
		t.Error("expected no ids for an empty ledger")
	}
}

func TestApplyCryptoPrices(t *testing.T) {
	btc := testutil.NewCryptoHolding("BTC", "bitcoin", 0.1, 30000)
	eth := testutil.NewCryptoHolding("ETH", "ethereum", 1, 2000)
	eth.CurrentValue = 2100
	cash := testutil.NewHolding("Cash", models.CategoryLiquidities, 10, 10)
	s := NewState([]models.Holding{btc, eth, cash}, models.DefaultRates())

	next, n := ApplyCryptoPrices(s, map[string]float64{"bitcoin": 65000, "ethereum": 0})
	if n != 1 {
		t.Fatalf("expected 1 updated holding, got %d", n)
	}

	got := next.Holdings[0]
	if got.LivePrice == nil || *got.LivePrice != 65000 {
		t.Errorf("expected live price 65000, got %v", got.LivePrice)
	}
	testutil.AssertFloat(t, "current", got.CurrentValue, 6500)
	testutil.AssertFloat(t, "invested", got.AmountInvested, 3000)
	if next.Holdings[1].CurrentValue != 2100 || next.Holdings[1].LivePrice != nil {
		t.Error("zero price should leave ETH untouched")
	}
	if s.Holdings[0].LivePrice != nil {
		t.Error("input state should be unchanged")
	}
}

func TestApplyStockQuotes(t *testing.T) {
	aapl := testutil.NewStockHolding("Apple", "AAPL", 3, 450)
	noQty := testutil.NewStockHolding("Tesla", "TSLA", 0, 100)
	noQty.Quantity = nil
	noQty.CurrentValue = 120
	s := NewState([]models.Holding{aapl, noQty}, models.DefaultRates())

	next, n := ApplyStockQuotes(s, map[string]Quote{
		"AAPL": {Price: 170, Currency: "USD"},
		"TSLA": {Price: 250, Currency: "USD"},
	})
	if n != 2 {
		t.Fatalf("expected 2 updated holdings, got %d", n)
	}
	testutil.AssertFloat(t, "apple current", next.Holdings[0].CurrentValue, 510)
	testutil.AssertFloat(t, "tesla current", next.Holdings[1].CurrentValue, 120)
	if p := next.Holdings[1].LivePrice; p == nil || *p != 250 {
		t.Errorf("expected tesla live price 250, got %v", p)
	}

	same, n := ApplyStockQuotes(s, map[string]Quote{"MSFT": {Price: 400}})
	if n != 0 || same.Holdings[0].LivePrice != nil {
		t.Error("unknown tickers should change nothing")
	}
}
