package api

import (
	"myfinances/service"

	"github.com/gin-gonic/gin"
)

// RateHandler serves savings-rate benchmark lookups.
type RateHandler struct {
	rates *service.RateService
}

// NewRateHandler creates the rate handler.
func NewRateHandler(rates *service.RateService) *RateHandler {
	return &RateHandler{rates: rates}
}

// SavingsRate returns the latest benchmark observation for a rate mode.
// A benchmark that cannot be resolved yields a null payload, not an error;
// the client falls back to manual entry.
// @Summary Savings-rate benchmark
// @Description Latest observation of an ECB savings-rate benchmark. Modes:
// @Description euribor (3-month Euribor) and ecbDeposit (deposit facility).
// @Description Manual mode and lookup failures return null data.
// @Tags rates
// @Produce json
// @Security BearerAuth
// @Param mode query string true "manual, euribor or ecbDeposit"
// @Success 200 {object} Response{data=service.RateResult} "ok, data may be null"
// @Failure 400 {object} Response "missing mode"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/rates/savings [get]
func (h *RateHandler) SavingsRate(c *gin.Context) {
	mode := c.Query("mode")
	if mode == "" {
		BadRequest(c, "mode is required")
		return
	}

	result := h.rates.FetchSavingsRate(c.Request.Context(), mode)
	Success(c, result)
}
