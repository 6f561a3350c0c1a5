package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"patrimony/internal/ledger"
	"patrimony/internal/services"
)

// SummaryHandler serves the derived figures.
type SummaryHandler struct {
	ledgerService services.LedgerServicer
}

// NewSummaryHandler creates a new SummaryHandler.
func NewSummaryHandler(ledgerService services.LedgerServicer) *SummaryHandler {
	return &SummaryHandler{ledgerService: ledgerService}
}

// SummaryResponse holds the scope totals, allocations and per-line profit.
type SummaryResponse struct {
	Summary ledger.Summary      `json:"summary"`
	Lines   []ledger.LineMetric `json:"lines"`
}

// GetSummary returns totals and allocations for every scope.
// @Summary     Get summary
// @Description Totals per scope, category and asset allocations, budget flux and per-line profit. Investment and budget totals convert CHF lines to EUR.
// @Tags        summary
// @Produce     json
// @Success     200 {object} SummaryResponse
// @Router      /summary [get]
func (h *SummaryHandler) GetSummary(c *gin.Context) {
	lines := h.ledgerService.LineMetrics()
	if lines == nil {
		lines = []ledger.LineMetric{}
	}
	c.JSON(http.StatusOK, SummaryResponse{
		Summary: h.ledgerService.Summary(),
		Lines:   lines,
	})
}
