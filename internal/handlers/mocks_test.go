package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"patrimony/internal/ledger"
	"patrimony/internal/logger"
	"patrimony/internal/models"
	"patrimony/internal/pagination"
	"patrimony/internal/services"
	"patrimony/internal/validator"
)

// --- mock ledger service ---

type mockLedgerService struct {
	listFn        func(scope models.Scope) []models.Holding
	getFn         func(id int64) (*models.Holding, error)
	addFn         func(ctx context.Context, d ledger.Draft, mode ledger.Mode) (*models.Holding, ledger.Draft, error)
	updateFieldFn func(ctx context.Context, id int64, field ledger.Field, value string) (*models.Holding, error)
	deleteFn      func(ctx context.Context, id int64, confirmed bool) (*models.Holding, error)
	moveFn        func(ctx context.Context, id int64, dir ledger.Direction) (bool, error)
	sort          ledger.SortState
	rates         models.Rates
	summary       ledger.Summary
	lines         []ledger.LineMetric
}

func (m *mockLedgerService) List(scope models.Scope) []models.Holding {
	if m.listFn != nil {
		return m.listFn(scope)
	}
	return []models.Holding{}
}

func (m *mockLedgerService) Holdings() []models.Holding { return m.List("") }

func (m *mockLedgerService) Get(id int64) (*models.Holding, error) {
	if m.getFn != nil {
		return m.getFn(id)
	}
	return &models.Holding{ID: id}, nil
}

func (m *mockLedgerService) Add(ctx context.Context, d ledger.Draft, mode ledger.Mode) (*models.Holding, ledger.Draft, error) {
	if m.addFn != nil {
		return m.addFn(ctx, d, mode)
	}
	return &models.Holding{ID: 1, Name: d.Name}, d.Reset(), nil
}

func (m *mockLedgerService) UpdateField(ctx context.Context, id int64, field ledger.Field, value string) (*models.Holding, error) {
	if m.updateFieldFn != nil {
		return m.updateFieldFn(ctx, id, field, value)
	}
	return &models.Holding{ID: id}, nil
}

func (m *mockLedgerService) Delete(ctx context.Context, id int64, confirmed bool) (*models.Holding, error) {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id, confirmed)
	}
	return &models.Holding{ID: id}, nil
}

func (m *mockLedgerService) Move(ctx context.Context, id int64, dir ledger.Direction) (bool, error) {
	if m.moveFn != nil {
		return m.moveFn(ctx, id, dir)
	}
	return true, nil
}

func (m *mockLedgerService) Sort() ledger.SortState { return m.sort }

func (m *mockLedgerService) ToggleSort(key ledger.SortKey) ledger.SortState {
	m.sort = m.sort.Toggle(key)
	return m.sort
}

func (m *mockLedgerService) ClearSort() ledger.SortState {
	m.sort = ledger.SortState{}
	return m.sort
}

func (m *mockLedgerService) Summary() ledger.Summary          { return m.summary }
func (m *mockLedgerService) LineMetrics() []ledger.LineMetric { return m.lines }
func (m *mockLedgerService) Rates() models.Rates              { return m.rates }

func (m *mockLedgerService) SetRates(_ context.Context, r models.Rates) models.Rates {
	m.rates = r
	return r
}

func (m *mockLedgerService) Import(context.Context, []models.Holding, bool) (int, error) {
	return 0, nil
}

func (m *mockLedgerService) ApplyCryptoPrices(context.Context, map[string]float64) int { return 0 }

func (m *mockLedgerService) ApplyStockQuotes(context.Context, map[string]ledger.Quote) int {
	return 0
}

var _ services.LedgerServicer = (*mockLedgerService)(nil)

// --- mock price service ---

type mockPriceService struct {
	refreshCryptoFn func(ctx context.Context) (*services.RefreshResult, error)
	refreshStocksFn func(ctx context.Context) (*services.RefreshResult, error)
	refreshRatesFn  func(ctx context.Context) (models.Rates, error)
	status          services.PriceStatus
}

func (m *mockPriceService) RefreshCrypto(ctx context.Context) (*services.RefreshResult, error) {
	if m.refreshCryptoFn != nil {
		return m.refreshCryptoFn(ctx)
	}
	return &services.RefreshResult{Scope: models.ScopeCrypto, Failed: []services.FailedLookup{}}, nil
}

func (m *mockPriceService) RefreshStocks(ctx context.Context) (*services.RefreshResult, error) {
	if m.refreshStocksFn != nil {
		return m.refreshStocksFn(ctx)
	}
	return &services.RefreshResult{Scope: models.ScopeStocks, Failed: []services.FailedLookup{}}, nil
}

func (m *mockPriceService) RefreshRates(ctx context.Context) (models.Rates, error) {
	if m.refreshRatesFn != nil {
		return m.refreshRatesFn(ctx)
	}
	return models.DefaultRates(), nil
}

func (m *mockPriceService) Status() services.PriceStatus { return m.status }

var _ services.PriceServicer = (*mockPriceService)(nil)

// --- mock backup service ---

type mockBackupService struct {
	exportJSONFn   func() (*services.ExportFile, error)
	exportXLSXFn   func() (*services.ExportFile, error)
	importFn       func(ctx context.Context, data []byte, confirmed bool) (int, error)
	uploadRemoteFn func(ctx context.Context) (*services.RemoteBackup, error)
}

func (m *mockBackupService) ExportJSON() (*services.ExportFile, error) {
	if m.exportJSONFn != nil {
		return m.exportJSONFn()
	}
	return &services.ExportFile{Filename: "patrimony.json", ContentType: "application/json", Data: []byte("[]")}, nil
}

func (m *mockBackupService) ExportXLSX() (*services.ExportFile, error) {
	if m.exportXLSXFn != nil {
		return m.exportXLSXFn()
	}
	return &services.ExportFile{Filename: "patrimony.xlsx", ContentType: "application/octet-stream", Data: []byte("PK")}, nil
}

func (m *mockBackupService) Import(ctx context.Context, data []byte, confirmed bool) (int, error) {
	if m.importFn != nil {
		return m.importFn(ctx, data, confirmed)
	}
	return 0, nil
}

func (m *mockBackupService) UploadRemote(ctx context.Context) (*services.RemoteBackup, error) {
	if m.uploadRemoteFn != nil {
		return m.uploadRemoteFn(ctx)
	}
	return &services.RemoteBackup{}, nil
}

var _ services.BackupServicer = (*mockBackupService)(nil)

// --- mock audit service ---

type mockAuditService struct {
	actions []string
	listFn  func(page pagination.PageRequest, action string) (*pagination.PageResponse[models.AuditLog], error)
}

func (m *mockAuditService) Log(action string, _ int64, _ string, _ map[string]interface{}) {
	m.actions = append(m.actions, action)
}

func (m *mockAuditService) List(page pagination.PageRequest, action string) (*pagination.PageResponse[models.AuditLog], error) {
	if m.listFn != nil {
		return m.listFn(page, action)
	}
	resp := pagination.NewPageResponse([]models.AuditLog{}, 1, 20, 0)
	return &resp, nil
}

var _ services.AuditServicer = (*mockAuditService)(nil)

// --- test helpers ---

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test", "")
	validator.Register()
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}
