package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/scolaris/school_fees_app/internal/core/ports/services"
	"github.com/scolaris/school_fees_app/internal/dto"
	"github.com/scolaris/school_fees_app/internal/middleware"
)

type paymentHandler struct {
	paymentService portssvc.PaymentSvcFacade
}

func newPaymentHandler(paymentSvc portssvc.PaymentSvcFacade) *paymentHandler {
	return &paymentHandler{paymentService: paymentSvc}
}

// RegisterPaymentRoutes mounts the payment endpoints on the given group.
func RegisterPaymentRoutes(rg *gin.RouterGroup, paymentSvc portssvc.PaymentSvcFacade) {
	h := newPaymentHandler(paymentSvc)
	paymentRoutes := rg.Group("/payments")
	{
		paymentRoutes.POST("", h.recordPayment)
		paymentRoutes.GET("", h.listPayments)
		paymentRoutes.GET("/:paymentID", h.getPayment)
		paymentRoutes.POST("/:paymentID/validate", h.validatePayment)
		paymentRoutes.POST("/:paymentID/reject", h.rejectPayment)
		paymentRoutes.POST("/:paymentID/cancel", h.cancelPayment)
	}
}

// recordPayment godoc
// @Summary Record a payment
// @Description Records a remittance against an issued invoice. Cash and mobile money validate immediately; other modes start PENDING.
// @Tags Payments
// @Accept json
// @Produce json
// @Param payment body dto.RecordPaymentRequest true "Payment details"
// @Success 201 {object} dto.PaymentResponse
// @Failure 400 {object} map[string]string "Invalid amount or overpayment"
// @Failure 404 {object} map[string]string "Invoice not found"
// @Failure 409 {object} map[string]string "Invoice not payable or concurrent update"
// @Security BearerAuth
// @Router /payments [post]
func (h *paymentHandler) recordPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req dto.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payment, invoice, err := h.paymentService.RecordPayment(c.Request.Context(), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to record payment")
		return
	}

	logger.Info("Payment recorded",
		slog.String("paymentID", payment.PaymentID),
		slog.String("reference", payment.Reference),
		slog.String("statut", string(payment.Statut)))
	c.JSON(http.StatusCreated, dto.ToPaymentResponse(payment, invoice))
}

// getPayment godoc
// @Summary Get payment by ID
// @Tags Payments
// @Produce json
// @Param paymentID path string true "Payment ID (UUID)"
// @Success 200 {object} dto.PaymentResponse
// @Failure 404 {object} map[string]string "Payment not found"
// @Security BearerAuth
// @Router /payments/{paymentID} [get]
func (h *paymentHandler) getPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	paymentID := c.Param("paymentID")

	payment, err := h.paymentService.GetPaymentByID(c.Request.Context(), paymentID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to get payment")
		return
	}

	c.JSON(http.StatusOK, dto.ToPaymentResponse(payment, nil))
}

// listPayments godoc
// @Summary List payments
// @Description Retrieves a filtered, token-paginated payment listing, newest first
// @Tags Payments
// @Produce json
// @Param invoiceID query string false "Filter by invoice"
// @Param studentID query string false "Filter by student"
// @Param statut query string false "Filter by status"
// @Param mode query string false "Filter by payment mode"
// @Param from query string false "Payment date lower bound (YYYY-MM-DD)"
// @Param to query string false "Payment date upper bound, exclusive (YYYY-MM-DD)"
// @Param limit query int false "Page size (default 20, max 100)"
// @Param nextToken query string false "Opaque pagination token"
// @Success 200 {object} dto.ListPaymentsResponse
// @Failure 400 {object} map[string]string "Invalid pagination token"
// @Security BearerAuth
// @Router /payments [get]
func (h *paymentHandler) listPayments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListPaymentsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.paymentService.ListPayments(c.Request.Context(), params)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list payments")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// validatePayment godoc
// @Summary Validate a pending payment
// @Description Confirms a PENDING payment and applies its amount to the invoice balance atomically
// @Tags Payments
// @Produce json
// @Param paymentID path string true "Payment ID (UUID)"
// @Success 200 {object} dto.PaymentResponse
// @Failure 400 {object} map[string]string "Amount no longer fits the remaining solde"
// @Failure 404 {object} map[string]string "Payment not found"
// @Failure 409 {object} map[string]string "Payment is not PENDING"
// @Security BearerAuth
// @Router /payments/{paymentID}/validate [post]
func (h *paymentHandler) validatePayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	paymentID := c.Param("paymentID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	payment, invoice, err := h.paymentService.ValidatePayment(c.Request.Context(), paymentID, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to validate payment")
		return
	}

	logger.Info("Payment validated", slog.String("paymentID", paymentID))
	c.JSON(http.StatusOK, dto.ToPaymentResponse(payment, invoice))
}

// rejectPayment godoc
// @Summary Reject a pending payment
// @Description Declines a PENDING payment with a mandatory reason. The invoice is untouched.
// @Tags Payments
// @Accept json
// @Produce json
// @Param paymentID path string true "Payment ID (UUID)"
// @Param rejection body dto.RejectPaymentRequest true "Rejection reason"
// @Success 200 {object} dto.PaymentResponse
// @Failure 404 {object} map[string]string "Payment not found"
// @Failure 409 {object} map[string]string "Payment is not PENDING"
// @Security BearerAuth
// @Router /payments/{paymentID}/reject [post]
func (h *paymentHandler) rejectPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	paymentID := c.Param("paymentID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req dto.RejectPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payment, err := h.paymentService.RejectPayment(c.Request.Context(), paymentID, userID, req.Reason)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to reject payment")
		return
	}

	logger.Info("Payment rejected", slog.String("paymentID", paymentID))
	c.JSON(http.StatusOK, dto.ToPaymentResponse(payment, nil))
}

// cancelPayment godoc
// @Summary Cancel a payment
// @Description Voids a PENDING payment or reverses a VALIDATED one, restoring the invoice balance
// @Tags Payments
// @Accept json
// @Produce json
// @Param paymentID path string true "Payment ID (UUID)"
// @Param cancellation body dto.CancelPaymentRequest true "Cancellation reason"
// @Success 200 {object} dto.PaymentResponse
// @Failure 404 {object} map[string]string "Payment not found"
// @Failure 409 {object} map[string]string "Payment already rejected or cancelled"
// @Security BearerAuth
// @Router /payments/{paymentID}/cancel [post]
func (h *paymentHandler) cancelPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	paymentID := c.Param("paymentID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req dto.CancelPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payment, invoice, err := h.paymentService.CancelPayment(c.Request.Context(), paymentID, req.Reason, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to cancel payment")
		return
	}

	logger.Info("Payment cancelled", slog.String("paymentID", paymentID))
	c.JSON(http.StatusOK, dto.ToPaymentResponse(payment, invoice))
}
