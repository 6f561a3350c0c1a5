package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"patrimony/internal/pagination"
	"patrimony/internal/services"
)

// AuditHandler serves the mutation log.
type AuditHandler struct {
	auditService services.AuditServicer
}

// NewAuditHandler creates a new AuditHandler.
func NewAuditHandler(auditService services.AuditServicer) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// AuditQuery filters the audit log.
type AuditQuery struct {
	pagination.PageRequest
	Action string `form:"action" binding:"omitempty,max=50"`
}

// ListAuditLogs returns audit entries, newest first.
// @Summary     List audit log
// @Tags        audit
// @Produce     json
// @Param       action    query string false "Filter by action"
// @Param       page      query int    false "Page number"
// @Param       page_size query int    false "Page size"
// @Success     200 {object} pagination.PageResponse[models.AuditLog]
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /audit [get]
func (h *AuditHandler) ListAuditLogs(c *gin.Context) {
	var q AuditQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, invalidInput(err))
		return
	}

	page, err := h.auditService.List(q.PageRequest, q.Action)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}
