package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"patrimony/internal/cache"
	"patrimony/internal/models"
	"patrimony/internal/oracle"
	"patrimony/internal/provider"
	"patrimony/internal/report"
	"patrimony/internal/services"
	"patrimony/internal/store"
	"patrimony/internal/testutil"
)

const (
	flowHoldingsKey = "patrimony-holdings-v2"
	flowRatesKey    = "patrimony-holdings-v2-rates"
)

// newMarketServer serves CoinGecko simple prices and Yahoo charts.
func newMarketServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/simple/price", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("vs_currencies") != "eur" {
			t.Errorf("unexpected vs_currencies %q", r.URL.Query().Get("vs_currencies"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"bitcoin":{"eur":65000}}`))
	})
	mux.HandleFunc("/v8/finance/chart/", func(w http.ResponseWriter, r *http.Request) {
		symbol := strings.TrimPrefix(r.URL.Path, "/v8/finance/chart/")
		w.Header().Set("Content-Type", "application/json")
		if symbol != "AAPL" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`))
			return
		}
		_, _ = w.Write([]byte(`{"chart":{"result":[{"meta":{"symbol":"AAPL","currency":"USD","regularMarketPrice":180}}],"error":null}}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func setupFlowApp(t *testing.T, db *gorm.DB, market string) *gin.Engine {
	t.Helper()

	client := provider.NewClient(market, 5*time.Second, false)
	o := oracle.NewOracle(provider.NewCoinGeckoProvider(client), provider.NewYahooProvider(client), cache.NewMemory(), time.Minute)

	ledgerStore := store.NewLedgerStore(db, flowHoldingsKey, flowRatesKey)
	ledgerService := services.NewLedgerService(context.Background(), ledgerStore, models.DefaultRates(), "main")
	priceService := services.NewPriceService(ledgerService, o)
	backupService := services.NewBackupService(ledgerService, report.New(), nil, "main")
	auditService := services.NewAuditService(db)

	return NewRouter(Handlers{
		Holdings: NewHoldingHandler(ledgerService, auditService),
		Summary:  NewSummaryHandler(ledgerService),
		Rates:    NewRatesHandler(ledgerService, priceService, auditService),
		Prices:   NewPriceHandler(priceService, auditService),
		Backup:   NewBackupHandler(backupService, auditService),
		Audit:    NewAuditHandler(auditService),
	}, "")
}

func TestLedgerFlow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	market := newMarketServer(t)
	r := setupFlowApp(t, db, market.URL)

	// Step 1: crypto entry derives the invested amount
	rec := doRequest(r, "POST", "/api/v1/holdings", `{"name":"BTC","quantity":"0,1","avgBuyPrice":"30000","mode":"crypto"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	btc := parseJSON(t, rec)["holding"].(map[string]interface{})
	if btc["amountInvested"] != float64(3000) {
		t.Errorf("expected invested 3000, got %v", btc["amountInvested"])
	}
	if btc["coingeckoId"] != "bitcoin" {
		t.Errorf("expected guessed id bitcoin, got %v", btc["coingeckoId"])
	}

	// Step 2: stocks with one unknown ticker
	rec = doRequest(r, "POST", "/api/v1/holdings", `{"name":"Apple","quantity":10,"amountInvested":1500,"stockTicker":" AAPL ","mode":"stocks"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	appleID := parseJSON(t, rec)["holding"].(map[string]interface{})["id"].(float64)

	rec = doRequest(r, "POST", "/api/v1/holdings", `{"name":"Delisted","quantity":1,"amountInvested":10,"stockTicker":"GONE","mode":"stocks"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	// Step 3: refresh crypto
	rec = doRequest(r, "POST", "/api/v1/prices/crypto/refresh", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if parseJSON(t, rec)["updated"] != float64(1) {
		t.Errorf("expected 1 crypto update, got %s", rec.Body.String())
	}

	// Step 4: refresh stocks skips the unknown ticker
	rec = doRequest(r, "POST", "/api/v1/prices/stocks/refresh", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	stocks := parseJSON(t, rec)
	if stocks["updated"] != float64(1) {
		t.Errorf("expected 1 stock update, got %v", stocks["updated"])
	}
	if failed := stocks["failed"].([]interface{}); len(failed) != 1 {
		t.Errorf("expected GONE reported, got %v", failed)
	}

	rec = doRequest(r, "GET", fmt.Sprintf("/api/v1/holdings/%.0f", appleID), "")
	if got := parseJSON(t, rec)["currentValue"]; got != float64(1800) {
		t.Errorf("expected Apple current value 1800, got %v", got)
	}

	// Step 5: summary
	rec = doRequest(r, "GET", "/api/v1/summary", "")
	summary := parseJSON(t, rec)["summary"].(map[string]interface{})
	crypto := summary["crypto"].(map[string]interface{})
	if crypto["current"] != float64(6500) || crypto["profit"] != float64(3500) {
		t.Errorf("unexpected crypto totals %v", crypto)
	}

	// Step 6: export, delete, then restore from the export
	rec = doRequest(r, "GET", "/api/v1/backup/export", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	exported := rec.Body.String()

	rec = doRequest(r, "DELETE", fmt.Sprintf("/api/v1/holdings/%.0f", appleID), "")
	if rec.Code != http.StatusPreconditionRequired {
		t.Fatalf("expected 428, got %d", rec.Code)
	}
	rec = doRequest(r, "DELETE", fmt.Sprintf("/api/v1/holdings/%.0f?confirm=true", appleID), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(r, "POST", "/api/v1/backup/import?confirm=true", exported)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	rec = doRequest(r, "GET", "/api/v1/backup/export", "")
	if rec.Body.String() != exported {
		t.Errorf("export after restore differs:\n%s\n%s", exported, rec.Body.String())
	}

	// Step 7: the ledger survives a restart
	restarted := setupFlowApp(t, db, market.URL)
	rec = doRequest(restarted, "GET", "/api/v1/holdings", "")
	if total := parseJSON(t, rec)["total_items"]; total != float64(3) {
		t.Errorf("expected 3 persisted holdings, got %v", total)
	}

	// Step 8: every mutation is audited
	rec = doRequest(r, "GET", "/api/v1/audit?page_size=50", "")
	if total := parseJSON(t, rec)["total_items"].(float64); total < 7 {
		t.Errorf("expected at least 7 audit entries, got %.0f", total)
	}
}
