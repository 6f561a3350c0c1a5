package services

import (
	"bytes"
	"context"
	"time"

	"patrimony/internal/backup"
	apperrors "patrimony/internal/errors"
	"patrimony/internal/ledger"
	"patrimony/internal/logger"
	"patrimony/internal/report"
)

const (
	jsonContentType = "application/json"
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// backupService handles export, import and remote backups of the ledger.
type backupService struct {
	ledger   LedgerServicer
	reports  *report.Generator
	sink     backup.Sink
	defaults ledger.ImportDefaults
	now      func() time.Time
}

// NewBackupService creates a new BackupServicer. sink may be nil when no
// remote destination is configured.
func NewBackupService(ledgerService LedgerServicer, reports *report.Generator, sink backup.Sink, defaultOwner string) BackupServicer {
	return &backupService{
		ledger:   ledgerService,
		reports:  reports,
		sink:     sink,
		defaults: ledger.ImportDefaults{Owner: defaultOwner},
		now:      time.Now,
	}
}

// ExportJSON returns the holdings as an indented JSON array in stored order.
func (s *backupService) ExportJSON() (*ExportFile, error) {
	data, err := ledger.Export(s.ledger.Holdings())
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &ExportFile{
		Filename:    ledger.ExportFilename(s.now()),
		ContentType: jsonContentType,
		Data:        data,
	}, nil
}

// ExportXLSX renders the spreadsheet report.
func (s *backupService) ExportXLSX() (*ExportFile, error) {
	now := s.now()
	data, err := s.reports.Generate(s.ledger.Holdings(), s.ledger.Summary(), now)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &ExportFile{
		Filename:    report.Filename(now),
		ContentType: xlsxContentType,
		Data:        data,
	}, nil
}

// Import parses a backup file and replaces the ledger with it. The file is
// validated before confirmation is checked, so a bad file never asks for one.
func (s *backupService) Import(ctx context.Context, data []byte, confirmed bool) (int, error) {
	holdings, err := ledger.ParseImport(data, s.defaults)
	if err != nil {
		return 0, err
	}
	return s.ledger.Import(ctx, holdings, confirmed)
}

// UploadRemote writes the JSON export to the configured sink.
func (s *backupService) UploadRemote(ctx context.Context) (*RemoteBackup, error) {
	if s.sink == nil {
		return nil, apperrors.ErrBackupNotConfigured
	}

	holdings := s.ledger.Holdings()
	data, err := ledger.Export(holdings)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	now := s.now()
	location, err := s.sink.Put(ctx, ledger.ExportFilename(now), jsonContentType, bytes.NewReader(data))
	if err != nil {
		logger.Get().Errorw("remote backup failed", "destination", s.sink.Name(), "error", err)
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	logger.Get().Infow("remote backup written", "location", location, "holdings", len(holdings), "bytes", len(data))
	return &RemoteBackup{
		Destination: s.sink.Name(),
		Location:    location,
		Size:        len(data),
		Holdings:    len(holdings),
		UploadedAt:  now.UTC(),
	}, nil
}
