package scheduler

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	apperrors "patrimony/internal/errors"
	"patrimony/internal/logger"
	"patrimony/internal/models"
	"patrimony/internal/services"
)

func TestMain(m *testing.M) {
	logger.Init("test", "")
	os.Exit(m.Run())
}

type mockPriceService struct {
	cryptoErr   error
	stocksErr   error
	cryptoCalls int
	stocksCalls int
}

func (m *mockPriceService) RefreshCrypto(context.Context) (*services.RefreshResult, error) {
	m.cryptoCalls++
	if m.cryptoErr != nil {
		return nil, m.cryptoErr
	}
	return &services.RefreshResult{Updated: 1}, nil
}

func (m *mockPriceService) RefreshStocks(context.Context) (*services.RefreshResult, error) {
	m.stocksCalls++
	if m.stocksErr != nil {
		return nil, m.stocksErr
	}
	return &services.RefreshResult{Updated: 2}, nil
}

func (m *mockPriceService) RefreshRates(context.Context) (models.Rates, error) {
	return models.DefaultRates(), nil
}

func (m *mockPriceService) Status() services.PriceStatus { return services.PriceStatus{} }

type mockBackupService struct {
	services.BackupServicer
	uploads int
	err     error
}

func (m *mockBackupService) UploadRemote(context.Context) (*services.RemoteBackup, error) {
	m.uploads++
	if m.err != nil {
		return nil, m.err
	}
	return &services.RemoteBackup{}, nil
}

func TestRefreshPrices(t *testing.T) {
	t.Run("both_scopes", func(t *testing.T) {
		m := &mockPriceService{}
		if err := RefreshPrices(m)(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if m.cryptoCalls != 1 || m.stocksCalls != 1 {
			t.Errorf("expected one call per scope, got %d/%d", m.cryptoCalls, m.stocksCalls)
		}
	})

	t.Run("no_identifiers_is_noop", func(t *testing.T) {
		m := &mockPriceService{
			cryptoErr: apperrors.ErrNoPriceIdentifiers,
			stocksErr: apperrors.ErrRefreshInProgress,
		}
		if err := RefreshPrices(m)(context.Background()); err != nil {
			t.Errorf("expected skip without error, got %v", err)
		}
	})

	t.Run("source_failure_reported", func(t *testing.T) {
		m := &mockPriceService{cryptoErr: apperrors.Wrap(apperrors.ErrPriceSourceUnavailable, errors.New("timeout"))}
		err := RefreshPrices(m)(context.Background())
		if !errors.Is(err, apperrors.ErrPriceSourceUnavailable) {
			t.Errorf("expected source unavailable, got %v", err)
		}
		if m.stocksCalls != 1 {
			t.Error("expected stock refresh to run after a crypto failure")
		}
	})
}

func TestUploadBackup(t *testing.T) {
	m := &mockBackupService{err: apperrors.ErrBackupNotConfigured}
	err := UploadBackup(m)(context.Background())
	if !errors.Is(err, apperrors.ErrBackupNotConfigured) {
		t.Errorf("expected not configured, got %v", err)
	}
	if m.uploads != 1 {
		t.Errorf("expected 1 upload, got %d", m.uploads)
	}
}

func TestSchedulerRunsJob(t *testing.T) {
	s, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ran := make(chan struct{}, 1)
	err = s.NewIntervalJob("probe", func(context.Context) error {
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	}, time.Hour, true)
	if err != nil {
		t.Fatalf("NewIntervalJob: %v", err)
	}
	if s.Jobs() != 1 {
		t.Errorf("expected 1 job, got %d", s.Jobs())
	}

	s.Start()
	defer func() { _ = s.Stop() }()

	select {
	case <-ran:
	case <-time.After(5 * time.Second):
		t.Fatal("job did not run")
	}
}

func TestWithRecover(t *testing.T) {
	task := withRecover("panics", func(context.Context) error { panic("boom") })
	task(context.Background())
}
