package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/scolaris/school_fees_app/internal/core/ports/services"
	"github.com/scolaris/school_fees_app/internal/dto"
	"github.com/scolaris/school_fees_app/internal/middleware"
)

type invoiceHandler struct {
	invoiceService portssvc.InvoiceSvcFacade
	overdueService portssvc.OverdueSvcFacade
}

func newInvoiceHandler(invoiceSvc portssvc.InvoiceSvcFacade, overdueSvc portssvc.OverdueSvcFacade) *invoiceHandler {
	return &invoiceHandler{invoiceService: invoiceSvc, overdueService: overdueSvc}
}

func registerInvoiceRoutes(rg *gin.RouterGroup, invoiceSvc portssvc.InvoiceSvcFacade, overdueSvc portssvc.OverdueSvcFacade) {
	h := newInvoiceHandler(invoiceSvc, overdueSvc)
	invoiceRoutes := rg.Group("/invoices")
	{
		invoiceRoutes.POST("", h.createInvoice)
		invoiceRoutes.GET("", h.listInvoices)
		invoiceRoutes.GET("/:invoiceID", h.getInvoice)
		invoiceRoutes.POST("/:invoiceID/issue", h.issueInvoice)
		invoiceRoutes.POST("/:invoiceID/cancel", h.cancelInvoice)
		invoiceRoutes.GET("/:invoiceID/reminders", h.listInvoiceReminders)
	}
}

// createInvoice godoc
// @Summary Create an invoice
// @Description Creates an invoice in DRAFT (or directly ISSUED) with a fresh sequential number
// @Tags Invoices
// @Accept json
// @Produce json
// @Param invoice body dto.CreateInvoiceRequest true "Invoice details"
// @Success 201 {object} dto.InvoiceResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /invoices [post]
func (h *invoiceHandler) createInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req dto.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	invoice, err := h.invoiceService.CreateInvoice(c.Request.Context(), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create invoice")
		return
	}

	c.JSON(http.StatusCreated, dto.ToInvoiceResponse(invoice))
}

// getInvoice godoc
// @Summary Get invoice by ID
// @Description Retrieves one invoice, decorated with the resolved student identity
// @Tags Invoices
// @Produce json
// @Param invoiceID path string true "Invoice ID (UUID)"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 404 {object} map[string]string "Invoice not found"
// @Security BearerAuth
// @Router /invoices/{invoiceID} [get]
func (h *invoiceHandler) getInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoiceID := c.Param("invoiceID")

	invoice, err := h.invoiceService.GetInvoiceByID(c.Request.Context(), invoiceID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to get invoice")
		return
	}

	c.JSON(http.StatusOK, dto.ToInvoiceResponse(invoice))
}

// listInvoices godoc
// @Summary List invoices
// @Description Retrieves a filtered, token-paginated invoice listing, newest first
// @Tags Invoices
// @Produce json
// @Param schoolYearID query string false "Filter by school year"
// @Param studentID query string false "Filter by student"
// @Param studentDatabase query string false "Student store tag" Enums(EARLY_YEARS, MIDDLE_CYCLE, SENIOR_CYCLE)
// @Param statut query string false "Filter by status"
// @Param unpaidOnly query bool false "Only invoices with an outstanding solde"
// @Param limit query int false "Page size (default 20, max 100)"
// @Param nextToken query string false "Opaque pagination token"
// @Success 200 {object} dto.ListInvoicesResponse
// @Failure 400 {object} map[string]string "Invalid pagination token"
// @Security BearerAuth
// @Router /invoices [get]
func (h *invoiceHandler) listInvoices(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListInvoicesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.invoiceService.ListInvoices(c.Request.Context(), params)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list invoices")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// issueInvoice godoc
// @Summary Issue a draft invoice
// @Description Transitions a DRAFT invoice to ISSUED, making it payable
// @Tags Invoices
// @Accept json
// @Produce json
// @Param invoiceID path string true "Invoice ID (UUID)"
// @Param options body dto.IssueInvoiceRequest false "Issue options"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 404 {object} map[string]string "Invoice not found"
// @Failure 409 {object} map[string]string "Invoice is not in DRAFT"
// @Security BearerAuth
// @Router /invoices/{invoiceID}/issue [post]
func (h *invoiceHandler) issueInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoiceID := c.Param("invoiceID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	// Body is optional for this endpoint.
	var req dto.IssueInvoiceRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	invoice, err := h.invoiceService.IssueInvoice(c.Request.Context(), invoiceID, req.CreateReminderSchedule, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to issue invoice")
		return
	}

	logger.Info("Invoice issued", slog.String("invoiceID", invoiceID), slog.String("number", invoice.Number))
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(invoice))
}

// cancelInvoice godoc
// @Summary Cancel an invoice
// @Description Soft-retires an invoice; refused when any payment is recorded against it
// @Tags Invoices
// @Accept json
// @Produce json
// @Param invoiceID path string true "Invoice ID (UUID)"
// @Param cancellation body dto.CancelInvoiceRequest true "Cancellation reason"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 404 {object} map[string]string "Invoice not found"
// @Failure 409 {object} map[string]string "Invoice has payments or is already cancelled"
// @Security BearerAuth
// @Router /invoices/{invoiceID}/cancel [post]
func (h *invoiceHandler) cancelInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoiceID := c.Param("invoiceID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req dto.CancelInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	invoice, err := h.invoiceService.CancelInvoice(c.Request.Context(), invoiceID, req.Reason, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to cancel invoice")
		return
	}

	logger.Info("Invoice cancelled", slog.String("invoiceID", invoiceID))
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(invoice))
}

// listInvoiceReminders godoc
// @Summary List reminder history for an invoice
// @Description Retrieves the reminder log entries of an invoice, most recent first
// @Tags Invoices
// @Produce json
// @Param invoiceID path string true "Invoice ID (UUID)"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "Invoice not found"
// @Security BearerAuth
// @Router /invoices/{invoiceID}/reminders [get]
func (h *invoiceHandler) listInvoiceReminders(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoiceID := c.Param("invoiceID")

	reminders, err := h.overdueService.ListReminders(c.Request.Context(), invoiceID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list reminders")
		return
	}

	c.JSON(http.StatusOK, gin.H{"reminders": reminders})
}
