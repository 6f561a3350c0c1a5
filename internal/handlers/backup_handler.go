package handlers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "patrimony/internal/errors"
	"patrimony/internal/services"
)

// maxImportSize bounds the body of an import request.
const maxImportSize = 10 << 20

// BackupHandler handles export, import and remote backups.
type BackupHandler struct {
	backupService services.BackupServicer
	auditService  services.AuditServicer
}

// NewBackupHandler creates a new BackupHandler.
func NewBackupHandler(backupService services.BackupServicer, auditService services.AuditServicer) *BackupHandler {
	return &BackupHandler{backupService: backupService, auditService: auditService}
}

// ImportResponse reports an accepted import.
type ImportResponse struct {
	Imported int `json:"imported"`
}

// ExportJSON downloads the holdings as a JSON backup.
// @Summary     Export JSON backup
// @Tags        backup
// @Produce     json
// @Success     200 {array} models.Holding
// @Router      /backup/export [get]
func (h *BackupHandler) ExportJSON(c *gin.Context) {
	file, err := h.backupService.ExportJSON()
	if err != nil {
		respondWithError(c, err)
		return
	}
	sendFile(c, file)
}

// ExportXLSX downloads the spreadsheet report.
// @Summary     Export XLSX report
// @Tags        backup
// @Produce     application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success     200 {file} file
// @Router      /backup/export.xlsx [get]
func (h *BackupHandler) ExportXLSX(c *gin.Context) {
	file, err := h.backupService.ExportXLSX()
	if err != nil {
		respondWithError(c, err)
		return
	}
	sendFile(c, file)
}

// Import replaces every holding with the content of a backup file.
// @Summary     Import JSON backup
// @Description The body is a previously exported JSON array. Records missing owner, currency or pruCurrency are completed. Replaces the whole ledger.
// @Tags        backup
// @Accept      json
// @Produce     json
// @Security    APIKeyAuth
// @Param       confirm query bool           true "Must be true"
// @Param       request body  []models.Holding true "Backup file"
// @Success     200 {object} ImportResponse
// @Failure     400 {object} ErrorResponse "Not a list or malformed"
// @Failure     428 {object} ErrorResponse "Confirmation required"
// @Router      /backup/import [post]
func (h *BackupHandler) Import(c *gin.Context) {
	data, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxImportSize))
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrImportMalformed, "The file could not be read"))
		return
	}

	n, err := h.backupService.Import(c.Request.Context(), data, confirmed(c))
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(services.AuditImport, 0, c.ClientIP(), map[string]interface{}{
		"holdings": n,
		"bytes":    len(data),
	})
	c.JSON(http.StatusOK, ImportResponse{Imported: n})
}

// UploadRemote writes a backup to the configured destination.
// @Summary     Remote backup
// @Tags        backup
// @Produce     json
// @Security    APIKeyAuth
// @Success     201 {object} services.RemoteBackup
// @Failure     503 {object} ErrorResponse "No destination configured"
// @Router      /backup/remote [post]
func (h *BackupHandler) UploadRemote(c *gin.Context) {
	res, err := h.backupService.UploadRemote(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(services.AuditRemoteBackup, 0, c.ClientIP(), map[string]interface{}{
		"location": res.Location,
	})
	c.JSON(http.StatusCreated, res)
}

func sendFile(c *gin.Context, file *services.ExportFile) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}
