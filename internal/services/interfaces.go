package services

import (
	"context"
	"time"

	"patrimony/internal/ledger"
	"patrimony/internal/models"
	"patrimony/internal/oracle"
	"patrimony/internal/pagination"
)

// LedgerServicer owns the ledger state and serializes every mutation.
type LedgerServicer interface {
	// List returns the holdings in view order, restricted to scope when it is not empty.
	List(scope models.Scope) []models.Holding
	// Holdings returns the holdings in stored order.
	Holdings() []models.Holding
	Get(id int64) (*models.Holding, error)
	Add(ctx context.Context, draft ledger.Draft, mode ledger.Mode) (*models.Holding, ledger.Draft, error)
	UpdateField(ctx context.Context, id int64, field ledger.Field, value string) (*models.Holding, error)
	Delete(ctx context.Context, id int64, confirmed bool) (*models.Holding, error)
	Move(ctx context.Context, id int64, dir ledger.Direction) (bool, error)
	Sort() ledger.SortState
	ToggleSort(key ledger.SortKey) ledger.SortState
	ClearSort() ledger.SortState
	Summary() ledger.Summary
	LineMetrics() []ledger.LineMetric
	Rates() models.Rates
	SetRates(ctx context.Context, rates models.Rates) models.Rates
	Import(ctx context.Context, holdings []models.Holding, confirmed bool) (int, error)
	ApplyCryptoPrices(ctx context.Context, prices map[string]float64) int
	ApplyStockQuotes(ctx context.Context, quotes map[string]ledger.Quote) int
}

// LedgerPersister saves and restores the ledger documents.
type LedgerPersister interface {
	LoadHoldings(ctx context.Context) ([]models.Holding, error)
	SaveHoldings(ctx context.Context, hs []models.Holding) error
	LoadRates(ctx context.Context) (models.Rates, bool, error)
	SaveRates(ctx context.Context, rates models.Rates) error
}

// PriceOracle fetches market data for the price service.
type PriceOracle interface {
	CryptoPrices(ctx context.Context, ids []string) (map[string]float64, error)
	StockQuotes(ctx context.Context, tickers []string) (*oracle.StockResult, error)
	Rates(ctx context.Context) (*oracle.RatesResult, error)
}

// FailedLookup is a symbol whose price could not be fetched.
type FailedLookup struct {
	Symbol string `json:"symbol"`
	Error  string `json:"error"`
}

// RefreshResult reports one price refresh.
type RefreshResult struct {
	Scope       models.Scope   `json:"scope"`
	Requested   int            `json:"requested"`
	Updated     int            `json:"updated"`
	Cached      int            `json:"cached"`
	Failed      []FailedLookup `json:"failed"`
	RefreshedAt time.Time      `json:"refreshed_at"`
}

// PriceStatus reports when each refresh last succeeded and which are running.
type PriceStatus struct {
	CryptoRefreshedAt *time.Time `json:"crypto_refreshed_at"`
	StocksRefreshedAt *time.Time `json:"stocks_refreshed_at"`
	RatesRefreshedAt  *time.Time `json:"rates_refreshed_at"`
	CryptoInFlight    bool       `json:"crypto_in_flight"`
	StocksInFlight    bool       `json:"stocks_in_flight"`
}

// PriceServicer refreshes prices and rates from the external sources.
type PriceServicer interface {
	RefreshCrypto(ctx context.Context) (*RefreshResult, error)
	RefreshStocks(ctx context.Context) (*RefreshResult, error)
	RefreshRates(ctx context.Context) (models.Rates, error)
	Status() PriceStatus
}

// ExportFile is a generated download.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// RemoteBackup describes a completed upload.
type RemoteBackup struct {
	Destination string    `json:"destination"`
	Location    string    `json:"location"`
	Size        int       `json:"size"`
	Holdings    int       `json:"holdings"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// BackupServicer exports, imports and uploads the ledger.
type BackupServicer interface {
	ExportJSON() (*ExportFile, error)
	ExportXLSX() (*ExportFile, error)
	Import(ctx context.Context, data []byte, confirmed bool) (int, error)
	UploadRemote(ctx context.Context) (*RemoteBackup, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(action string, holdingID int64, ipAddress string, changes map[string]interface{})
	List(page pagination.PageRequest, action string) (*pagination.PageResponse[models.AuditLog], error)
}
