package scheduler

import (
	"context"
	"errors"

	apperrors "patrimony/internal/errors"
	"patrimony/internal/logger"
	"patrimony/internal/services"
)

// RefreshPrices refreshes crypto then stock prices. A scope without
// identifiers or with a refresh already running is skipped.
func RefreshPrices(prices services.PriceServicer) TaskFunc {
	return func(ctx context.Context) error {
		var errs []error

		if res, err := prices.RefreshCrypto(ctx); skippable(err) {
			logger.Named("scheduler").Debugw("crypto refresh skipped", "reason", err)
		} else if err != nil {
			errs = append(errs, err)
		} else {
			logger.Named("scheduler").Infow("crypto refreshed", "updated", res.Updated)
		}

		if res, err := prices.RefreshStocks(ctx); skippable(err) {
			logger.Named("scheduler").Debugw("stock refresh skipped", "reason", err)
		} else if err != nil {
			errs = append(errs, err)
		} else {
			logger.Named("scheduler").Infow("stocks refreshed", "updated", res.Updated, "failed", len(res.Failed))
		}

		return errors.Join(errs...)
	}
}

// UploadBackup writes the JSON export to the remote destination.
func UploadBackup(backups services.BackupServicer) TaskFunc {
	return func(ctx context.Context) error {
		_, err := backups.UploadRemote(ctx)
		return err
	}
}

func skippable(err error) bool {
	return errors.Is(err, apperrors.ErrNoPriceIdentifiers) || errors.Is(err, apperrors.ErrRefreshInProgress)
}
