package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"patrimony/internal/models"
	"patrimony/internal/services"
)

// RatesHandler handles the conversion-rate settings.
type RatesHandler struct {
	ledgerService services.LedgerServicer
	priceService  services.PriceServicer
	auditService  services.AuditServicer
}

// NewRatesHandler creates a new RatesHandler.
func NewRatesHandler(ledgerService services.LedgerServicer, priceService services.PriceServicer, auditService services.AuditServicer) *RatesHandler {
	return &RatesHandler{ledgerService: ledgerService, priceService: priceService, auditService: auditService}
}

// GetRates returns the current conversion rates.
// @Summary     Get rates
// @Tags        settings
// @Produce     json
// @Success     200 {object} models.Rates
// @Router      /settings/rates [get]
func (h *RatesHandler) GetRates(c *gin.Context) {
	c.JSON(http.StatusOK, h.ledgerService.Rates())
}

// UpdateRates replaces the conversion rates.
// @Summary     Update rates
// @Description Existing holdings keep their derived amounts until edited again.
// @Tags        settings
// @Accept      json
// @Produce     json
// @Security    APIKeyAuth
// @Param       request body models.Rates true "Rates"
// @Success     200 {object} models.Rates
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /settings/rates [put]
func (h *RatesHandler) UpdateRates(c *gin.Context) {
	var req models.Rates
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, invalidInput(err))
		return
	}

	before := h.ledgerService.Rates()
	rates := h.ledgerService.SetRates(c.Request.Context(), req)

	h.auditService.Log(services.AuditUpdateRates, 0, c.ClientIP(), map[string]interface{}{
		"before": before,
		"after":  rates,
	})
	c.JSON(http.StatusOK, rates)
}

// RefreshRates fetches the market rates.
// @Summary     Refresh rates
// @Description Fetch USDT→EUR and CHF→EUR from the quote source and store them.
// @Tags        settings
// @Produce     json
// @Security    APIKeyAuth
// @Success     200 {object} models.Rates
// @Failure     502 {object} ErrorResponse "Quote source unavailable"
// @Router      /settings/rates/refresh [post]
func (h *RatesHandler) RefreshRates(c *gin.Context) {
	rates, err := h.priceService.RefreshRates(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(services.AuditUpdateRates, 0, c.ClientIP(), map[string]interface{}{
		"source": "market",
		"after":  rates,
	})
	c.JSON(http.StatusOK, rates)
}
