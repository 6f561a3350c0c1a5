package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"patrimony/internal/ledger"
	"patrimony/internal/models"
	"patrimony/internal/store"
	"patrimony/internal/testutil"
)

const (
	testHoldingsKey = "patrimony-holdings-v2"
	testRatesKey    = "patrimony-holdings-v2-rates"
)

// memPersister keeps documents in memory and can be told to fail writes.
type memPersister struct {
	mu        sync.Mutex
	holdings  []models.Holding
	rates     *models.Rates
	failSave  bool
	saveCalls int
}

func (p *memPersister) LoadHoldings(context.Context) ([]models.Holding, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return models.CloneHoldings(p.holdings), nil
}

func (p *memPersister) SaveHoldings(_ context.Context, hs []models.Holding) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.saveCalls++
	if p.failSave {
		return errors.New("disk full")
	}
	p.holdings = models.CloneHoldings(hs)
	return nil
}

func (p *memPersister) LoadRates(context.Context) (models.Rates, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.rates == nil {
		return models.Rates{}, false, nil
	}
	return *p.rates, true, nil
}

func (p *memPersister) SaveRates(_ context.Context, r models.Rates) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failSave {
		return errors.New("disk full")
	}
	p.rates = &r
	return nil
}

func newTestLedger(t *testing.T, holdings ...models.Holding) (*ledgerService, *memPersister) {
	t.Helper()
	p := &memPersister{holdings: holdings}
	svc := NewLedgerService(context.Background(), p, models.DefaultRates(), "main").(*ledgerService)
	svc.now = func() time.Time { return time.UnixMilli(1_800_000_000_000) }
	return svc, p
}

func TestNewLedgerService(t *testing.T) {
	t.Run("restores_from_store", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		saved := []models.Holding{testutil.NewHolding("Livret A", models.CategoryLiquidities, 1000, 1000)}
		testutil.SeedDocument(t, db, testHoldingsKey, saved)
		testutil.SeedDocument(t, db, testRatesKey, models.Rates{EurUsdtRate: 0.9, ChfEurRate: 1.1})

		svc := NewLedgerService(context.Background(), store.NewLedgerStore(db, testHoldingsKey, testRatesKey), models.DefaultRates(), "main")

		hs := svc.Holdings()
		if len(hs) != 1 || hs[0].Name != "Livret A" {
			t.Fatalf("expected restored holding, got %+v", hs)
		}
		if r := svc.Rates(); r.EurUsdtRate != 0.9 || r.ChfEurRate != 1.1 {
			t.Errorf("expected stored rates, got %+v", r)
		}
	})

	t.Run("malformed_payload_starts_empty", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		testutil.SeedDocument(t, db, testHoldingsKey, map[string]string{"not": "a list"})

		svc := NewLedgerService(context.Background(), store.NewLedgerStore(db, testHoldingsKey, testRatesKey), models.DefaultRates(), "main")

		if hs := svc.Holdings(); len(hs) != 0 {
			t.Errorf("expected empty ledger, got %d holdings", len(hs))
		}
		if r := svc.Rates(); r != models.DefaultRates() {
			t.Errorf("expected default rates, got %+v", r)
		}
	})
}

func TestLedgerServiceAdd(t *testing.T) {
	t.Run("crypto_derives_invested", func(t *testing.T) {
		svc, p := newTestLedger(t)

		h, reset, err := svc.Add(context.Background(), ledger.Draft{
			Name:        "BTC",
			Quantity:    "0.1",
			AvgBuyPrice: "30000",
		}, ledger.ModeCrypto)
		testutil.AssertNoError(t, err)

		testutil.AssertFloat(t, "amountInvested", h.AmountInvested, 3000)
		if h.Category != models.CategoryCrypto {
			t.Errorf("expected category Crypto, got %s", h.Category)
		}
		if h.CoingeckoID == nil || *h.CoingeckoID != "bitcoin" {
			t.Errorf("expected guessed coingecko id bitcoin, got %v", h.CoingeckoID)
		}
		if h.Owner != "main" {
			t.Errorf("expected default owner main, got %q", h.Owner)
		}
		if reset.Name != "" || reset.Owner != "main" {
			t.Errorf("unexpected reset draft %+v", reset)
		}
		if len(p.holdings) != 1 {
			t.Errorf("expected holding to be persisted, got %d", len(p.holdings))
		}
	})

	t.Run("blank_name", func(t *testing.T) {
		svc, p := newTestLedger(t)

		_, _, err := svc.Add(context.Background(), ledger.Draft{Name: "  "}, ledger.ModeGlobal)
		testutil.AssertAppError(t, err, "NAME_REQUIRED")

		if p.saveCalls != 0 {
			t.Errorf("expected no save, got %d", p.saveCalls)
		}
	})

	t.Run("save_failure_keeps_state", func(t *testing.T) {
		svc, p := newTestLedger(t)
		p.failSave = true

		_, _, err := svc.Add(context.Background(), ledger.Draft{Name: "Cash", AmountInvested: "100"}, ledger.ModeGlobal)
		testutil.AssertNoError(t, err)

		if len(svc.Holdings()) != 1 {
			t.Error("expected holding to stay in memory after a failed save")
		}
	})
}

func TestLedgerServiceUpdateField(t *testing.T) {
	btc := testutil.NewCryptoHolding("BTC", "bitcoin", 0.1, 30000)

	t.Run("live_price_updates_current_value", func(t *testing.T) {
		svc, _ := newTestLedger(t, btc)

		h, err := svc.UpdateField(context.Background(), btc.ID, ledger.FieldLivePrice, "65000")
		testutil.AssertNoError(t, err)
		testutil.AssertFloat(t, "currentValue", h.CurrentValue, 6500)
	})

	t.Run("not_found", func(t *testing.T) {
		svc, _ := newTestLedger(t, btc)

		_, err := svc.UpdateField(context.Background(), 42, ledger.FieldName, "x")
		testutil.AssertAppError(t, err, "HOLDING_NOT_FOUND")
	})

	t.Run("unknown_field", func(t *testing.T) {
		svc, _ := newTestLedger(t, btc)

		_, err := svc.UpdateField(context.Background(), btc.ID, ledger.Field("id"), "1")
		testutil.AssertAppError(t, err, "UNKNOWN_FIELD")
	})
}

func TestLedgerServiceDelete(t *testing.T) {
	a := testutil.NewHolding("A", models.CategoryETF, 100, 110)
	b := testutil.NewHolding("B", models.CategoryETF, 200, 190)
	c := testutil.NewHolding("C", models.CategoryETF, 300, 300)

	t.Run("requires_confirmation", func(t *testing.T) {
		svc, _ := newTestLedger(t, a, b, c)

		_, err := svc.Delete(context.Background(), b.ID, false)
		testutil.AssertAppError(t, err, "CONFIRMATION_REQUIRED")
		if len(svc.Holdings()) != 3 {
			t.Error("expected no holding removed")
		}
	})

	t.Run("confirmed_preserves_order", func(t *testing.T) {
		svc, p := newTestLedger(t, a, b, c)

		removed, err := svc.Delete(context.Background(), b.ID, true)
		testutil.AssertNoError(t, err)
		if removed.Name != "B" {
			t.Errorf("expected B removed, got %s", removed.Name)
		}

		hs := svc.Holdings()
		if len(hs) != 2 || hs[0].Name != "A" || hs[1].Name != "C" {
			t.Errorf("unexpected remaining holdings %+v", hs)
		}
		if len(p.holdings) != 2 {
			t.Errorf("expected persisted deletion, got %d", len(p.holdings))
		}
	})

	t.Run("not_found", func(t *testing.T) {
		svc, _ := newTestLedger(t, a)

		_, err := svc.Delete(context.Background(), 7, true)
		testutil.AssertAppError(t, err, "HOLDING_NOT_FOUND")
	})
}

func TestLedgerServiceMove(t *testing.T) {
	a := testutil.NewHolding("A", models.CategoryETF, 100, 110)
	b := testutil.NewHolding("B", models.CategoryETF, 200, 190)

	t.Run("swaps_neighbours", func(t *testing.T) {
		svc, _ := newTestLedger(t, a, b)

		moved, err := svc.Move(context.Background(), b.ID, ledger.Up)
		testutil.AssertNoError(t, err)
		if !moved {
			t.Fatal("expected move")
		}
		if hs := svc.Holdings(); hs[0].Name != "B" {
			t.Errorf("expected B first, got %s", hs[0].Name)
		}
	})

	t.Run("boundary_is_noop", func(t *testing.T) {
		svc, p := newTestLedger(t, a, b)

		moved, err := svc.Move(context.Background(), a.ID, ledger.Up)
		testutil.AssertNoError(t, err)
		if moved {
			t.Error("expected no move for first holding going up")
		}
		if p.saveCalls != 0 {
			t.Errorf("expected no save, got %d", p.saveCalls)
		}
	})

	t.Run("noop_while_sorted", func(t *testing.T) {
		svc, _ := newTestLedger(t, a, b)
		svc.ToggleSort("name")

		moved, err := svc.Move(context.Background(), b.ID, ledger.Up)
		testutil.AssertNoError(t, err)
		if moved {
			t.Error("expected no move while a sort is active")
		}
	})

	t.Run("not_found", func(t *testing.T) {
		svc, _ := newTestLedger(t, a)

		_, err := svc.Move(context.Background(), 99, ledger.Down)
		testutil.AssertAppError(t, err, "HOLDING_NOT_FOUND")
	})
}

func TestLedgerServiceList(t *testing.T) {
	zeta := testutil.NewHolding("zeta", models.CategoryETF, 100, 100)
	alpha := testutil.NewHolding("Alpha", models.CategoryETF, 100, 100)
	salary := testutil.NewHolding("Salary", models.CategorySalary, 3000, 0)
	svc, _ := newTestLedger(t, zeta, alpha, salary)

	if hs := svc.List(""); hs[0].Name != "zeta" {
		t.Errorf("expected stored order without sort, got %s first", hs[0].Name)
	}

	state := svc.ToggleSort("name")
	if state.Direction != ledger.Ascending {
		t.Errorf("expected ascending, got %s", state.Direction)
	}
	hs := svc.List(models.ScopeInvestment)
	if len(hs) != 2 || hs[0].Name != "Alpha" || hs[1].Name != "zeta" {
		t.Errorf("unexpected sorted investment view %+v", hs)
	}

	if state := svc.ToggleSort("name"); state.Direction != ledger.Descending {
		t.Errorf("expected descending after second toggle, got %s", state.Direction)
	}
	if state := svc.ClearSort(); state.Active() {
		t.Error("expected sort cleared")
	}
}

func TestLedgerServiceSummary(t *testing.T) {
	svc, _ := newTestLedger(t,
		testutil.NewHolding("A", models.CategoryETF, 1000, 1200),
		testutil.NewHolding("B", models.CategoryETF, 2000, 1800),
	)

	s := svc.Summary()
	testutil.AssertFloat(t, "profit", s.Investment.Profit, 0)
	testutil.AssertFloat(t, "profitPercent", s.Investment.ProfitPercent, 0)

	if m := svc.LineMetrics(); len(m) != 2 {
		t.Errorf("expected 2 line metrics, got %d", len(m))
	}
}

func TestLedgerServiceSetRates(t *testing.T) {
	svc, p := newTestLedger(t)

	got := svc.SetRates(context.Background(), models.Rates{EurUsdtRate: 0.95, ChfEurRate: 1.07})
	if got.EurUsdtRate != 0.95 {
		t.Errorf("expected 0.95, got %v", got.EurUsdtRate)
	}
	if p.rates == nil || p.rates.ChfEurRate != 1.07 {
		t.Errorf("expected rates persisted, got %+v", p.rates)
	}
	if svc.Rates() != got {
		t.Errorf("expected rates in memory, got %+v", svc.Rates())
	}
}

func TestLedgerServiceApplyPrices(t *testing.T) {
	btc := testutil.NewCryptoHolding("BTC", "bitcoin", 0.1, 30000)
	aapl := testutil.NewStockHolding("Apple", "AAPL", 10, 1500)
	svc, _ := newTestLedger(t, btc, aapl)

	if n := svc.ApplyCryptoPrices(context.Background(), map[string]float64{"bitcoin": 65000}); n != 1 {
		t.Errorf("expected 1 crypto update, got %d", n)
	}
	if n := svc.ApplyStockQuotes(context.Background(), map[string]ledger.Quote{"AAPL": {Price: 180, Currency: "USD"}}); n != 1 {
		t.Errorf("expected 1 stock update, got %d", n)
	}

	h, err := svc.Get(btc.ID)
	testutil.AssertNoError(t, err)
	testutil.AssertFloat(t, "btc currentValue", h.CurrentValue, 6500)

	h, err = svc.Get(aapl.ID)
	testutil.AssertNoError(t, err)
	testutil.AssertFloat(t, "aapl currentValue", h.CurrentValue, 1800)
}
