package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/scolaris/school_fees_app/internal/core/ports/services"
	"github.com/scolaris/school_fees_app/internal/dto"
	"github.com/scolaris/school_fees_app/internal/middleware"
)

type overdueHandler struct {
	overdueService portssvc.OverdueSvcFacade
}

func newOverdueHandler(overdueSvc portssvc.OverdueSvcFacade) *overdueHandler {
	return &overdueHandler{overdueService: overdueSvc}
}

func registerOverdueRoutes(rg *gin.RouterGroup, overdueSvc portssvc.OverdueSvcFacade) {
	h := newOverdueHandler(overdueSvc)
	rg.GET("/overdue", h.listOverdue)
	rg.GET("/unpaid", h.listUnpaid)
	rg.POST("/overdue/reminders", h.scheduleReminders)
}

// listOverdue godoc
// @Summary List overdue invoices
// @Description Issued or partially paid invoices with a due date strictly before asOf and a positive solde, with the overdue total
// @Tags Overdue
// @Produce json
// @Param asOf query string false "Reference date (YYYY-MM-DD, defaults to now)"
// @Success 200 {object} dto.OverdueListResponse
// @Security BearerAuth
// @Router /overdue [get]
func (h *overdueHandler) listOverdue(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListOverdueParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	asOf := time.Now()
	if params.AsOf != nil {
		asOf = *params.AsOf
	}

	resp, err := h.overdueService.ListOverdue(c.Request.Context(), asOf)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list overdue invoices")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// listUnpaid godoc
// @Summary List unpaid invoices
// @Description Invoices with an outstanding solde regardless of due date, for the collections workflow
// @Tags Overdue
// @Produce json
// @Param schoolYearID query string false "Filter by school year"
// @Param studentDatabase query string false "Student store tag" Enums(EARLY_YEARS, MIDDLE_CYCLE, SENIOR_CYCLE)
// @Param limit query int false "Page size (default 20, max 100)"
// @Param nextToken query string false "Opaque pagination token"
// @Success 200 {object} dto.OverdueListResponse
// @Security BearerAuth
// @Router /unpaid [get]
func (h *overdueHandler) listUnpaid(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListUnpaidParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.overdueService.ListUnpaid(c.Request.Context(), params)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list unpaid invoices")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// scheduleReminders godoc
// @Summary Send reminders for a batch of invoices
// @Description Dispatches one reminder per invoice that still owes money and was not already reminded today. Safe to re-run for the same day.
// @Tags Overdue
// @Accept json
// @Produce json
// @Param batch body dto.ScheduleRemindersRequest true "Invoice IDs and channel"
// @Success 200 {object} dto.ScheduleRemindersResponse
// @Failure 400 {object} map[string]string "Empty batch"
// @Security BearerAuth
// @Router /overdue/reminders [post]
func (h *overdueHandler) scheduleReminders(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req dto.ScheduleRemindersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sent, err := h.overdueService.ScheduleReminders(c.Request.Context(), req.InvoiceIDs, req.Channel, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to schedule reminders")
		return
	}

	logger.Info("Reminder batch processed",
		slog.Int("requested", len(req.InvoiceIDs)),
		slog.Int("sent", sent))
	c.JSON(http.StatusOK, dto.ScheduleRemindersResponse{Requested: len(req.InvoiceIDs), Sent: sent})
}
