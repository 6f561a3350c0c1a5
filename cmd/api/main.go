package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"patrimony/internal/backup"
	"patrimony/internal/cache"
	"patrimony/internal/config"
	"patrimony/internal/database"
	"patrimony/internal/handlers"
	"patrimony/internal/logger"
	"patrimony/internal/models"
	"patrimony/internal/oracle"
	"patrimony/internal/provider"
	"patrimony/internal/report"
	"patrimony/internal/scheduler"
	"patrimony/internal/services"
	"patrimony/internal/store"
	"patrimony/internal/validator"

	_ "patrimony/internal/docs" // Import swagger docs
)

// @title           Patrimony API
// @version         1.0
// @description     Personal holdings ledger: investments, crypto, stocks, budget flows and credits, with live prices and backups.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey APIKeyAuth
// @in header
// @name X-API-Key
// @description Shared secret required on mutating requests when API_KEY is set.

func main() {
	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger.Init(appConfig.Env, appConfig.LogLevel)
	defer logger.Sync()
	log := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Database
	dbConfig := database.NewConfig(appConfig.Database)
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer func() {
		if err := dbManager.Close(); err != nil {
			log.Warnw("failed to close database", "error", err)
		}
	}()
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}
	db := dbManager.DB()

	// Quote cache
	var quoteCache cache.Cache = cache.NewMemory()
	if appConfig.Cache.RedisAddr != "" {
		client, err := cache.NewRedisClient(ctx, appConfig.Cache.RedisAddr, appConfig.Cache.RedisPassword, appConfig.Cache.RedisDB)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer client.Close()
		quoteCache = cache.NewRedis(client)
	}

	// Price sources
	coingecko := provider.NewCoinGeckoProvider(provider.NewClient(appConfig.API.CoinGeckoURL, appConfig.API.Timeout, appConfig.API.Debug))
	yahoo := provider.NewYahooProvider(provider.NewClient(appConfig.API.YahooURL, appConfig.API.Timeout, appConfig.API.Debug))
	priceOracle := oracle.NewOracle(coingecko, yahoo, quoteCache, appConfig.Cache.QuoteTTL)

	// Remote backup destination
	sink, err := backup.NewSink(ctx, appConfig.Backup.GCSBucket, appConfig.Backup.Dir)
	if err != nil {
		return fmt.Errorf("failed to open backup destination: %w", err)
	}
	if sink != nil {
		defer sink.Close()
	}

	// Services
	ledgerStore := store.NewLedgerStore(db, appConfig.Ledger.StorageKey, appConfig.Ledger.RatesKey())
	defaultRates := models.Rates{EurUsdtRate: appConfig.Ledger.EurUsdtRate, ChfEurRate: appConfig.Ledger.ChfEurRate}
	ledgerService := services.NewLedgerService(ctx, ledgerStore, defaultRates, appConfig.Ledger.DefaultOwner)
	priceService := services.NewPriceService(ledgerService, priceOracle)
	backupService := services.NewBackupService(ledgerService, report.New(), sink, appConfig.Ledger.DefaultOwner)
	auditService := services.NewAuditService(db)

	// Background jobs
	sched, err := scheduler.New()
	if err != nil {
		return err
	}
	if d := appConfig.Jobs.PriceRefreshInterval; d > 0 {
		if err := sched.NewIntervalJob("refresh-prices", scheduler.RefreshPrices(priceService), d, true); err != nil {
			return err
		}
	}
	if d := appConfig.Jobs.BackupInterval; d > 0 && sink != nil {
		if err := sched.NewIntervalJob("remote-backup", scheduler.UploadBackup(backupService), d, false); err != nil {
			return err
		}
	}
	sched.Start()
	defer func() {
		if err := sched.Stop(); err != nil {
			log.Warnw("failed to stop scheduler", "error", err)
		}
	}()

	// HTTP
	validator.Register()
	router := handlers.NewRouter(handlers.Handlers{
		Holdings: handlers.NewHoldingHandler(ledgerService, auditService),
		Summary:  handlers.NewSummaryHandler(ledgerService),
		Rates:    handlers.NewRatesHandler(ledgerService, priceService, auditService),
		Prices:   handlers.NewPriceHandler(priceService, auditService),
		Backup:   handlers.NewBackupHandler(backupService, auditService),
		Audit:    handlers.NewAuditHandler(auditService),
	}, appConfig.APIKey)

	srv := &http.Server{
		Addr:              ":" + appConfig.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Starting Patrimony server on port %s", appConfig.Port)
		log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
