package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"patrimony/internal/ledger"
	"patrimony/internal/models"
	"patrimony/internal/pagination"
	"patrimony/internal/services"
)

// HoldingHandler handles holding-related requests.
type HoldingHandler struct {
	ledgerService services.LedgerServicer
	auditService  services.AuditServicer
}

// NewHoldingHandler creates a new HoldingHandler.
func NewHoldingHandler(ledgerService services.LedgerServicer, auditService services.AuditServicer) *HoldingHandler {
	return &HoldingHandler{ledgerService: ledgerService, auditService: auditService}
}

// ListHoldingsQuery holds the filters of the holdings list.
type ListHoldingsQuery struct {
	pagination.PageRequest
	Scope models.Scope `form:"scope" binding:"omitempty,scope"`
}

// CreateHoldingRequest is a draft plus the entry mode.
type CreateHoldingRequest struct {
	ledger.Draft
	Mode ledger.Mode `json:"mode" binding:"omitempty,mode"`
}

// CreateHoldingResponse returns the new holding and the draft to continue with.
type CreateHoldingResponse struct {
	Holding models.Holding `json:"holding"`
	Draft   ledger.Draft   `json:"draft"`
}

// UpdateHoldingRequest edits a single field with raw input text.
type UpdateHoldingRequest struct {
	Field ledger.Field      `json:"field" binding:"required"`
	Value ledger.NumberText `json:"value"`
}

// MoveHoldingRequest shifts a holding in the stored order.
type MoveHoldingRequest struct {
	Direction ledger.Direction `json:"direction" binding:"required,direction"`
}

// SortRequest toggles the view ordering on a key.
type SortRequest struct {
	Key ledger.SortKey `json:"key" binding:"required,sort_key"`
}

// ListHoldings returns the holdings in view order.
// @Summary     List holdings
// @Description List holdings in the current view order, optionally restricted to a scope. Without page_size the whole list is returned.
// @Tags        holdings
// @Produce     json
// @Param       scope     query string false "investment, crypto, stocks, budget or credit"
// @Param       page      query int    false "Page number"
// @Param       page_size query int    false "Page size (max 500)"
// @Success     200 {object} pagination.PageResponse[models.Holding]
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /holdings [get]
func (h *HoldingHandler) ListHoldings(c *gin.Context) {
	var q ListHoldingsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, invalidInput(err))
		return
	}
	if q.Page == 0 {
		q.Page = 1
	}

	holdings := h.ledgerService.List(q.Scope)
	c.JSON(http.StatusOK, pagination.Slice(holdings, q.PageRequest))
}

// GetHolding returns a single holding.
// @Summary     Get holding
// @Tags        holdings
// @Produce     json
// @Param       id path int true "Holding ID"
// @Success     200 {object} models.Holding
// @Failure     404 {object} ErrorResponse "Holding not found"
// @Router      /holdings/{id} [get]
func (h *HoldingHandler) GetHolding(c *gin.Context) {
	id, err := parseHoldingID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	holding, err := h.ledgerService.Get(id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, holding)
}

// CreateHolding adds a holding from a draft.
// @Summary     Add holding
// @Description Add a holding. Numeric fields accept typed text ("0,5" reads as 0.5). In crypto mode the invested amount is derived from quantity and average buy price.
// @Tags        holdings
// @Accept      json
// @Produce     json
// @Security    APIKeyAuth
// @Param       request body CreateHoldingRequest true "Draft and mode"
// @Success     201 {object} CreateHoldingResponse
// @Failure     400 {object} ErrorResponse "Invalid input or missing name"
// @Failure     401 {object} ErrorResponse "Invalid API key"
// @Router      /holdings [post]
func (h *HoldingHandler) CreateHolding(c *gin.Context) {
	var req CreateHoldingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, invalidInput(err))
		return
	}
	mode := req.Mode
	if mode == "" {
		mode = ledger.ModeGlobal
	}

	holding, draft, err := h.ledgerService.Add(c.Request.Context(), req.Draft, mode)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(services.AuditCreateHolding, holding.ID, c.ClientIP(), map[string]interface{}{
		"name":     holding.Name,
		"category": holding.Category,
		"mode":     mode,
	})
	c.JSON(http.StatusCreated, CreateHoldingResponse{Holding: *holding, Draft: draft})
}

// UpdateHolding edits one field of a holding.
// @Summary     Edit holding field
// @Description Set one field from raw input. Quantity, average buy price, price currency and live price recompute the derived amounts.
// @Tags        holdings
// @Accept      json
// @Produce     json
// @Security    APIKeyAuth
// @Param       id      path int                  true "Holding ID"
// @Param       request body UpdateHoldingRequest true "Field and value"
// @Success     200 {object} models.Holding
// @Failure     400 {object} ErrorResponse "Unknown field"
// @Failure     404 {object} ErrorResponse "Holding not found"
// @Router      /holdings/{id} [patch]
func (h *HoldingHandler) UpdateHolding(c *gin.Context) {
	id, err := parseHoldingID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateHoldingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, invalidInput(err))
		return
	}

	holding, err := h.ledgerService.UpdateField(c.Request.Context(), id, req.Field, string(req.Value))
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(services.AuditUpdateHolding, id, c.ClientIP(), map[string]interface{}{
		"field": req.Field,
		"value": string(req.Value),
	})
	c.JSON(http.StatusOK, holding)
}

// DeleteHolding removes a holding.
// @Summary     Delete holding
// @Tags        holdings
// @Produce     json
// @Security    APIKeyAuth
// @Param       id      path  int  true "Holding ID"
// @Param       confirm query bool true "Must be true"
// @Success     200 {object} models.Holding "Removed holding"
// @Failure     404 {object} ErrorResponse "Holding not found"
// @Failure     428 {object} ErrorResponse "Confirmation required"
// @Router      /holdings/{id} [delete]
func (h *HoldingHandler) DeleteHolding(c *gin.Context) {
	id, err := parseHoldingID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	removed, err := h.ledgerService.Delete(c.Request.Context(), id, confirmed(c))
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(services.AuditDeleteHolding, id, c.ClientIP(), map[string]interface{}{
		"name": removed.Name,
	})
	c.JSON(http.StatusOK, removed)
}

// MoveHolding swaps a holding with its neighbour.
// @Summary     Move holding
// @Description Move a holding up or down in the stored order. A no-op at the ends of the list or while a sort is active.
// @Tags        holdings
// @Accept      json
// @Produce     json
// @Security    APIKeyAuth
// @Param       id      path int                true "Holding ID"
// @Param       request body MoveHoldingRequest true "Direction"
// @Success     200 {object} map[string]bool
// @Failure     404 {object} ErrorResponse "Holding not found"
// @Router      /holdings/{id}/move [post]
func (h *HoldingHandler) MoveHolding(c *gin.Context) {
	id, err := parseHoldingID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req MoveHoldingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, invalidInput(err))
		return
	}

	moved, err := h.ledgerService.Move(c.Request.Context(), id, req.Direction)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if moved {
		h.auditService.Log(services.AuditMoveHolding, id, c.ClientIP(), map[string]interface{}{
			"direction": req.Direction,
		})
	}
	c.JSON(http.StatusOK, gin.H{"moved": moved})
}

// GetSort returns the active view ordering.
// @Summary     Get sort
// @Tags        holdings
// @Produce     json
// @Success     200 {object} ledger.SortState
// @Router      /holdings/sort [get]
func (h *HoldingHandler) GetSort(c *gin.Context) {
	c.JSON(http.StatusOK, h.ledgerService.Sort())
}

// ToggleSort sorts ascending on a new key or flips the direction on the current one.
// @Summary     Toggle sort
// @Tags        holdings
// @Accept      json
// @Produce     json
// @Security    APIKeyAuth
// @Param       request body SortRequest true "Sort key"
// @Success     200 {object} ledger.SortState
// @Failure     400 {object} ErrorResponse "Invalid sort key"
// @Router      /holdings/sort [post]
func (h *HoldingHandler) ToggleSort(c *gin.Context) {
	var req SortRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, invalidInput(err))
		return
	}
	c.JSON(http.StatusOK, h.ledgerService.ToggleSort(req.Key))
}

// ClearSort restores the stored order.
// @Summary     Clear sort
// @Tags        holdings
// @Produce     json
// @Security    APIKeyAuth
// @Success     200 {object} ledger.SortState
// @Router      /holdings/sort [delete]
func (h *HoldingHandler) ClearSort(c *gin.Context) {
	c.JSON(http.StatusOK, h.ledgerService.ClearSort())
}
