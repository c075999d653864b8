package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/scolaris/school_fees_app/internal/apperrors"
	"github.com/scolaris/school_fees_app/internal/core/domain"
	portssvc "github.com/scolaris/school_fees_app/internal/core/ports/services"
	"github.com/scolaris/school_fees_app/internal/dto"
	"github.com/scolaris/school_fees_app/internal/handlers"
	"github.com/scolaris/school_fees_app/internal/middleware"
)

// --- Mock PaymentService ---
type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) GetPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentService) ListPayments(ctx context.Context, params dto.ListPaymentsParams) (*dto.ListPaymentsResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListPaymentsResponse), args.Error(1)
}

func (m *MockPaymentService) RecordPayment(ctx context.Context, req dto.RecordPaymentRequest, receivedBy string) (*domain.Payment, *domain.Invoice, error) {
	args := m.Called(ctx, req, receivedBy)
	var p *domain.Payment
	var inv *domain.Invoice
	if args.Get(0) != nil {
		p = args.Get(0).(*domain.Payment)
	}
	if args.Get(1) != nil {
		inv = args.Get(1).(*domain.Invoice)
	}
	return p, inv, args.Error(2)
}

func (m *MockPaymentService) ValidatePayment(ctx context.Context, paymentID string, validatedBy string) (*domain.Payment, *domain.Invoice, error) {
	args := m.Called(ctx, paymentID, validatedBy)
	var p *domain.Payment
	var inv *domain.Invoice
	if args.Get(0) != nil {
		p = args.Get(0).(*domain.Payment)
	}
	if args.Get(1) != nil {
		inv = args.Get(1).(*domain.Invoice)
	}
	return p, inv, args.Error(2)
}

func (m *MockPaymentService) RejectPayment(ctx context.Context, paymentID string, validatedBy string, reason string) (*domain.Payment, error) {
	args := m.Called(ctx, paymentID, validatedBy, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentService) CancelPayment(ctx context.Context, paymentID string, reason string, userID string) (*domain.Payment, *domain.Invoice, error) {
	args := m.Called(ctx, paymentID, reason, userID)
	var p *domain.Payment
	var inv *domain.Invoice
	if args.Get(0) != nil {
		p = args.Get(0).(*domain.Payment)
	}
	if args.Get(1) != nil {
		inv = args.Get(1).(*domain.Invoice)
	}
	return p, inv, args.Error(2)
}

// Ensure mock implements the interface
var _ portssvc.PaymentSvcFacade = (*MockPaymentService)(nil)

// --- Test Suite ---
type PaymentHandlerTestSuite struct {
	suite.Suite
	router             *gin.Engine
	mockPaymentService *MockPaymentService
	jwtSecret          string
}

func (suite *PaymentHandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "sfa-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *PaymentHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		suite.Require().NoError(dto.RegisterCustomValidators(v))
	}
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.router.Use(middleware.AuthMiddleware(suite.jwtSecret))

	suite.mockPaymentService = new(MockPaymentService)

	v1 := suite.router.Group("/api/v1")
	handlers.RegisterPaymentRoutes(v1, suite.mockPaymentService)
}

func (suite *PaymentHandlerTestSuite) TestRecordPayment_Success() {
	clerkID := uuid.NewString()
	invoiceID := uuid.NewString()

	payment := &domain.Payment{
		PaymentID:    uuid.NewString(),
		Reference:    "PAY-000123",
		InvoiceID:    invoiceID,
		Montant:      decimal.NewFromInt(20000),
		ModePaiement: domain.ModeCash,
		Statut:       domain.PaymentValidated,
		DatePaiement: time.Now(),
		ReceivedBy:   clerkID,
	}
	invoice := &domain.Invoice{
		InvoiceID:   invoiceID,
		Number:      "FAC-2025-00042",
		MontantTTC:  decimal.NewFromInt(50000),
		MontantPaye: decimal.NewFromInt(20000),
		Solde:       decimal.NewFromInt(30000),
		Statut:      domain.InvoicePartiallyPaid,
	}

	suite.mockPaymentService.On("RecordPayment",
		mock.AnythingOfType("*context.valueCtx"),
		mock.MatchedBy(func(r dto.RecordPaymentRequest) bool {
			return r.InvoiceID == invoiceID && r.ModePaiement == domain.ModeCash
		}),
		clerkID,
	).Return(payment, invoice, nil).Once()

	body, _ := json.Marshal(dto.RecordPaymentRequest{
		InvoiceID:    invoiceID,
		Montant:      decimal.NewFromInt(20000),
		ModePaiement: domain.ModeCash,
		DatePaiement: time.Now(),
	})
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/payments", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(clerkID))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusCreated, w.Code)

	var resp dto.PaymentResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(payment.Reference, resp.Reference)
	suite.Equal(domain.PaymentValidated, resp.Statut)
	// The updated invoice balance is echoed back for the counter clerk.
	suite.Require().NotNil(resp.Invoice)
	suite.True(resp.Invoice.Solde.Equal(decimal.NewFromInt(30000)))

	suite.mockPaymentService.AssertExpectations(suite.T())
}

func (suite *PaymentHandlerTestSuite) TestRecordPayment_MissingTokenRejected() {
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/payments", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockPaymentService.AssertNotCalled(suite.T(), "RecordPayment", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PaymentHandlerTestSuite) TestValidatePayment_ConflictMapsTo409() {
	clerkID := uuid.NewString()
	paymentID := uuid.NewString()

	suite.mockPaymentService.On("ValidatePayment",
		mock.AnythingOfType("*context.valueCtx"), paymentID, clerkID,
	).Return(nil, nil, fmt.Errorf("%w: payment is not pending", apperrors.ErrConflict)).Once()

	url := fmt.Sprintf("/api/v1/payments/%s/validate", paymentID)
	req, _ := http.NewRequest(http.MethodPost, url, nil)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(clerkID))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusConflict, w.Code)
	suite.mockPaymentService.AssertExpectations(suite.T())
}

func (suite *PaymentHandlerTestSuite) TestGetPayment_NotFoundMapsTo404() {
	clerkID := uuid.NewString()
	paymentID := uuid.NewString()

	suite.mockPaymentService.On("GetPaymentByID",
		mock.AnythingOfType("*context.valueCtx"), paymentID,
	).Return(nil, apperrors.ErrNotFound).Once()

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/payments/"+paymentID, nil)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(clerkID))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusNotFound, w.Code)
}

// --- Run Test Suite ---
func TestPaymentHandler(t *testing.T) {
	suite.Run(t, new(PaymentHandlerTestSuite))
}
