package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "stockval/internal/errors"
	"stockval/internal/services"
)

// ValuationHandler handles free-cash-flow, valuation, and search requests.
type ValuationHandler struct {
	valuationService services.ValuationServicer
}

// NewValuationHandler creates a new ValuationHandler.
func NewValuationHandler(valuationService services.ValuationServicer) *ValuationHandler {
	return &ValuationHandler{valuationService: valuationService}
}

// GetFreeCashFlow handles fetching the historical free-cash-flow series.
// @Summary     Free cash flow history
// @Description Get the historical free-cash-flow series for a ticker, keyed by period-end date
// @Tags        valuation
// @Produce     json
// @Param       ticker path string true "Ticker symbol"
// @Success     200 {object} map[string]interface{} "Free cash flow series"
// @Failure     400 {object} ErrorResponse "Invalid ticker"
// @Failure     404 {object} ErrorResponse "No cash flow data"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /fcf/{ticker} [get]
func (h *ValuationHandler) GetFreeCashFlow(c *gin.Context) {
	var uri tickerURI
	if err := c.ShouldBindUri(&uri); err != nil {
		respondWithError(c, apperrors.ErrInvalidTicker)
		return
	}
	ticker := strings.ToUpper(uri.Ticker)

	series, err := h.valuationService.FreeCashFlow(c.Request.Context(), ticker)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ticker":         ticker,
		"free_cash_flow": series,
	})
}

// GetValuation handles computing the intrinsic per-share value.
// @Summary     Intrinsic valuation
// @Description Compute a DCF intrinsic value per share with a CAPM-derived discount rate
// @Tags        valuation
// @Produce     json
// @Param       ticker path string true "Ticker symbol"
// @Success     200 {object} models.ValuationResult "Valuation result"
// @Failure     400 {object} ErrorResponse "Invalid ticker"
// @Failure     404 {object} ErrorResponse "No cash flow data"
// @Failure     500 {object} ErrorResponse "Calculation failed"
// @Router      /valuation/{ticker} [get]
func (h *ValuationHandler) GetValuation(c *gin.Context) {
	var uri tickerURI
	if err := c.ShouldBindUri(&uri); err != nil {
		respondWithError(c, apperrors.ErrInvalidTicker)
		return
	}
	ticker := strings.ToUpper(uri.Ticker)

	result, err := h.valuationService.Valuate(c.Request.Context(), ticker)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Search handles free-text ticker search. It always returns 200: provider
// failures degrade to an empty result list.
// @Summary     Ticker search
// @Description Search for ticker candidates by free text; never errors
// @Tags        search
// @Produce     json
// @Param       query path string true "Search text"
// @Success     200 {object} map[string]interface{} "Candidate tickers"
// @Router      /search/{query} [get]
func (h *ValuationHandler) Search(c *gin.Context) {
	query := c.Param("query")

	results := h.valuationService.Search(c.Request.Context(), query)
	c.JSON(http.StatusOK, gin.H{"results": results})
}
