package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/scolaris/school_fees_app/internal/core/ports/services"
	"github.com/scolaris/school_fees_app/internal/dto"
	"github.com/scolaris/school_fees_app/internal/middleware"
)

type statisticsHandler struct {
	statisticsService portssvc.StatisticsSvcFacade
}

func newStatisticsHandler(statisticsSvc portssvc.StatisticsSvcFacade) *statisticsHandler {
	return &statisticsHandler{statisticsService: statisticsSvc}
}

func registerStatisticsRoutes(rg *gin.RouterGroup, statisticsSvc portssvc.StatisticsSvcFacade) {
	h := newStatisticsHandler(statisticsSvc)
	statsRoutes := rg.Group("/statistics")
	{
		statsRoutes.GET("/summary", h.getSummary)
		statsRoutes.GET("/collected", h.getCollected)
		statsRoutes.GET("/by-mode", h.getByMode)
		statsRoutes.GET("/pending", h.getPending)
		statsRoutes.GET("/daily", h.getDailySeries)
	}
}

// resolveRange applies the default reporting window: the current month.
func resolveRange(params dto.StatisticsParams) (time.Time, time.Time) {
	now := time.Now().UTC()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)
	if params.From != nil {
		from = *params.From
	}
	if params.To != nil {
		to = *params.To
	}
	return from, to
}

// getSummary godoc
// @Summary Ledger statistics summary
// @Description Collected total, per-mode breakdown, pending totals, daily series and invoicing totals for a date range (defaults to the current month)
// @Tags Statistics
// @Produce json
// @Param from query string false "Range start (YYYY-MM-DD)"
// @Param to query string false "Range end, exclusive (YYYY-MM-DD)"
// @Success 200 {object} dto.StatisticsSummaryResponse
// @Security BearerAuth
// @Router /statistics/summary [get]
func (h *statisticsHandler) getSummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.StatisticsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	from, to := resolveRange(params)

	summary, err := h.statisticsService.Summary(c.Request.Context(), from, to)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to compute statistics summary")
		return
	}

	c.JSON(http.StatusOK, summary)
}

// getCollected godoc
// @Summary Collected total
// @Description Sum of validated payments in the date range
// @Tags Statistics
// @Produce json
// @Param from query string false "Range start (YYYY-MM-DD)"
// @Param to query string false "Range end, exclusive (YYYY-MM-DD)"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /statistics/collected [get]
func (h *statisticsHandler) getCollected(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.StatisticsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	from, to := resolveRange(params)

	total, err := h.statisticsService.CollectedTotal(c.Request.Context(), from, to)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to compute collected total")
		return
	}

	c.JSON(http.StatusOK, gin.H{"from": from, "to": to, "collectedTotal": total})
}

// getByMode godoc
// @Summary Per-mode breakdown
// @Description Validated payments in the date range, grouped by payment mode
// @Tags Statistics
// @Produce json
// @Param from query string false "Range start (YYYY-MM-DD)"
// @Param to query string false "Range end, exclusive (YYYY-MM-DD)"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /statistics/by-mode [get]
func (h *statisticsHandler) getByMode(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.StatisticsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	from, to := resolveRange(params)

	rows, err := h.statisticsService.ByPaymentMode(c.Request.Context(), from, to)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to compute mode breakdown")
		return
	}

	c.JSON(http.StatusOK, gin.H{"from": from, "to": to, "byMode": rows})
}

// getPending godoc
// @Summary Pending payment totals
// @Description Count and sum of payments awaiting validation
// @Tags Statistics
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /statistics/pending [get]
func (h *statisticsHandler) getPending(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	pending, err := h.statisticsService.PendingTotal(c.Request.Context())
	if err != nil {
		respondServiceError(c, logger, err, "Failed to compute pending totals")
		return
	}

	c.JSON(http.StatusOK, gin.H{"pending": pending})
}

// getDailySeries godoc
// @Summary Daily collection series
// @Description Validated payments in the date range grouped by day, ascending
// @Tags Statistics
// @Produce json
// @Param from query string false "Range start (YYYY-MM-DD)"
// @Param to query string false "Range end, exclusive (YYYY-MM-DD)"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /statistics/daily [get]
func (h *statisticsHandler) getDailySeries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.StatisticsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	from, to := resolveRange(params)

	series, err := h.statisticsService.DailySeries(c.Request.Context(), from, to)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to compute daily series")
		return
	}

	c.JSON(http.StatusOK, gin.H{"from": from, "to": to, "dailySeries": series})
}
