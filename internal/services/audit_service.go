package services

import (
	"encoding/json"

	apperrors "patrimony/internal/errors"
	"patrimony/internal/logger"
	"patrimony/internal/models"
	"patrimony/internal/pagination"

	"gorm.io/gorm"
)

// Audit actions.
const (
	AuditCreateHolding = "CREATE_HOLDING"
	AuditUpdateHolding = "UPDATE_HOLDING"
	AuditDeleteHolding = "DELETE_HOLDING"
	AuditMoveHolding   = "MOVE_HOLDING"
	AuditUpdateRates   = "UPDATE_RATES"
	AuditImport        = "IMPORT_HOLDINGS"
	AuditRefreshPrices = "REFRESH_PRICES"
	AuditRemoteBackup  = "REMOTE_BACKUP"
)

// auditService handles audit log recording.
type auditService struct {
	db *gorm.DB
}

// NewAuditService creates a new AuditServicer.
func NewAuditService(db *gorm.DB) AuditServicer {
	return &auditService{db: db}
}

// Log records an audit event. Errors are logged but never propagate
// to avoid disrupting the main operation.
func (s *auditService) Log(action string, holdingID int64, ipAddress string, changes map[string]interface{}) {
	var changesJSON string
	if changes != nil {
		data, err := json.Marshal(changes)
		if err != nil {
			logger.Get().Errorw("failed to marshal audit log changes", "error", err, "action", action)
			changesJSON = "{}"
		} else {
			changesJSON = string(data)
		}
	}

	entry := &models.AuditLog{
		Action:    action,
		HoldingID: holdingID,
		IPAddress: ipAddress,
		Changes:   changesJSON,
	}

	if err := s.db.Create(entry).Error; err != nil {
		logger.Get().Errorw("failed to create audit log entry",
			"error", err,
			"action", action,
			"holding_id", holdingID,
		)
	}
}

// List returns audit entries newest first, optionally for one action.
func (s *auditService) List(page pagination.PageRequest, action string) (*pagination.PageResponse[models.AuditLog], error) {
	page.Defaults()

	query := s.db.Model(&models.AuditLog{})
	if action != "" {
		query = query.Where("action = ?", action)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var entries []models.AuditLog
	if err := query.Order("created_at DESC, id DESC").Scopes(pagination.Paginate(page)).Find(&entries).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	resp := pagination.NewPageResponse(entries, page.Page, page.PageSize, total)
	return &resp, nil
}
