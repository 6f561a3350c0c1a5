package ledger

import (
	"reflect"
	"testing"
	"time"

	"patrimony/internal/models"
	"patrimony/internal/testutil"
)

func TestExportImportRoundTrip(t *testing.T) {
	btc := testutil.NewCryptoHolding("BTC", "bitcoin", 0.1, 30000)
	btc.LivePrice = models.Float(65000)
	hs := []models.Holding{
		testutil.NewHolding("Cash", models.CategoryLiquidities, 1000, 1000),
		btc,
		testutil.NewStockHolding("Apple", "AAPL", 3, 450),
	}
	hs[0].Owner = ""

	data, err := Export(hs)
	testutil.AssertNoError(t, err)

	got, err := ParseImport(data, ImportDefaults{Owner: "main"})
	testutil.AssertNoError(t, err)
	if !reflect.DeepEqual(got, hs) {
		t.Errorf("round trip mismatch:\n got  %+v\n want %+v", got, hs)
	}
}

func TestParseImport(t *testing.T) {
	t.Run("object_rejected", func(t *testing.T) {
		_, err := ParseImport([]byte(`{}`), ImportDefaults{})
		testutil.AssertAppError(t, err, "IMPORT_NOT_LIST")
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := ParseImport([]byte(`[{"id":`), ImportDefaults{})
		testutil.AssertAppError(t, err, "IMPORT_MALFORMED")
	})

	t.Run("non_object_entries", func(t *testing.T) {
		_, err := ParseImport([]byte(`[1, 2]`), ImportDefaults{})
		testutil.AssertAppError(t, err, "IMPORT_MALFORMED")
	})

	t.Run("duplicate_ids_rejected", func(t *testing.T) {
		_, err := ParseImport([]byte(`[{"id":5,"name":"A"},{"id":5,"name":"B"}]`), ImportDefaults{})
		testutil.AssertAppError(t, err, "IMPORT_MALFORMED")
	})

	t.Run("fills_missing_fields", func(t *testing.T) {
		got, err := ParseImport([]byte(`[{"id":1,"name":"Old","category":"ETF","amountInvested":10,"currentValue":12}]`), ImportDefaults{Owner: "main"})
		testutil.AssertNoError(t, err)

		h := got[0]
		if h.Owner != "main" || h.Currency != models.CurrencyEUR || h.PRUCurrency != models.CurrencyEUR {
			t.Errorf("expected defaults filled, got %+v", h)
		}
	})

	t.Run("keeps_present_fields", func(t *testing.T) {
		got, err := ParseImport([]byte(`[{"id":1,"name":"Swiss","category":"Liquidities","currency":"CHF","pruCurrency":"USDT","owner":""}]`), ImportDefaults{Owner: "main"})
		testutil.AssertNoError(t, err)

		h := got[0]
		if h.Owner != "" || h.Currency != models.CurrencyCHF || h.PRUCurrency != models.CurrencyUSDT {
			t.Errorf("expected present fields kept, got %+v", h)
		}
	})

	t.Run("empty_list", func(t *testing.T) {
		got, err := ParseImport([]byte(` [] `), ImportDefaults{})
		testutil.AssertNoError(t, err)
		if len(got) != 0 {
			t.Errorf("expected empty list, got %d", len(got))
		}
	})
}

func TestImport(t *testing.T) {
	old := testutil.NewHolding("Old", models.CategoryETF, 1, 1)
	s := NewState([]models.Holding{old}, models.Rates{EurUsdtRate: 0.9, ChfEurRate: 1.1})
	incoming := []models.Holding{{ID: 5, Name: "New"}}

	t.Run("requires_confirmation", func(t *testing.T) {
		next, err := Import(s, incoming, false)
		testutil.AssertAppError(t, err, "CONFIRMATION_REQUIRED")
		if next.Holdings[0].Name != "Old" {
			t.Error("state should be unchanged")
		}
	})

	t.Run("replaces_and_keeps_rates", func(t *testing.T) {
		next, err := Import(s, incoming, true)
		testutil.AssertNoError(t, err)

		if len(next.Holdings) != 1 || next.Holdings[0].Name != "New" {
			t.Errorf("expected replaced holdings, got %+v", next.Holdings)
		}
		if next.Rates.EurUsdtRate != 0.9 {
			t.Error("rates should be kept")
		}
		if next.LastID < old.ID {
			t.Error("issued ids should never be reused")
		}
	})
}

func TestExportFilename(t *testing.T) {
	got := ExportFilename(time.Date(2024, 3, 9, 23, 0, 0, 0, time.UTC))
	if got != "patrimony-2024-03-09.json" {
		t.Errorf("unexpected filename %q", got)
	}
}
