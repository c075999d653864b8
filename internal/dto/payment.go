package dto

import (
	"time"

	"github.com/scolaris/school_fees_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RecordPaymentRequest defines the payload for recording a payment against an
// invoice.
type RecordPaymentRequest struct {
	InvoiceID            string             `json:"invoiceID" binding:"required"`
	Montant              decimal.Decimal    `json:"montant" binding:"required"`
	ModePaiement         domain.PaymentMode `json:"modePaiement" binding:"required,paymentmode"`
	DatePaiement         time.Time          `json:"datePaiement" binding:"required"`
	ReferenceTransaction string             `json:"referenceTransaction,omitempty"`
	Bank                 string             `json:"bank,omitempty"`
	CheckNumber          string             `json:"checkNumber,omitempty"`
}

// RejectPaymentRequest defines the payload for rejecting a pending payment.
type RejectPaymentRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// CancelPaymentRequest defines the payload for cancelling a payment.
type CancelPaymentRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// PaymentResponse defines the data returned for a payment.
type PaymentResponse struct {
	PaymentID            string               `json:"paymentID"`
	Reference            string               `json:"reference"`
	InvoiceID            string               `json:"invoiceID"`
	StudentRef           domain.StudentRef    `json:"studentRef"`
	Montant              decimal.Decimal      `json:"montant"`
	ModePaiement         domain.PaymentMode   `json:"modePaiement"`
	ReferenceTransaction string               `json:"referenceTransaction,omitempty"`
	Bank                 string               `json:"bank,omitempty"`
	CheckNumber          string               `json:"checkNumber,omitempty"`
	Statut               domain.PaymentStatus `json:"statut"`
	DatePaiement         time.Time            `json:"datePaiement"`
	ReceivedBy           string               `json:"receivedBy"`
	ValidatedBy          *string              `json:"validatedBy,omitempty"`
	ValidatedAt          *time.Time           `json:"validatedAt,omitempty"`
	StatusReason         string               `json:"statusReason,omitempty"`

	// Invoice balance as of this operation's commit, echoed back so counter
	// clerks see the updated solde without a second request.
	Invoice *InvoiceResponse `json:"invoice,omitempty"`
}

// ListPaymentsParams holds the query parameters for listing payments.
type ListPaymentsParams struct {
	InvoiceID       string               `form:"invoiceID"`
	StudentID       string               `form:"studentID"`
	StudentDatabase domain.StudentStore  `form:"studentDatabase"`
	Statut          domain.PaymentStatus `form:"statut"`
	Mode            domain.PaymentMode   `form:"mode"`
	From            *time.Time           `form:"from" time_format:"2006-01-02"`
	To              *time.Time           `form:"to" time_format:"2006-01-02"`
	Limit           int                  `form:"limit"`
	NextToken       *string              `form:"nextToken"`
}

// ListPaymentsResponse is the paginated payment listing payload.
type ListPaymentsResponse struct {
	Payments  []PaymentResponse `json:"payments"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ToPaymentResponse converts a domain.Payment to PaymentResponse DTO.
func ToPaymentResponse(p *domain.Payment, invoice *domain.Invoice) PaymentResponse {
	resp := PaymentResponse{
		PaymentID:            p.PaymentID,
		Reference:            p.Reference,
		InvoiceID:            p.InvoiceID,
		StudentRef:           p.StudentRef,
		Montant:              p.Montant,
		ModePaiement:         p.ModePaiement,
		ReferenceTransaction: p.ReferenceTransaction,
		Bank:                 p.Bank,
		CheckNumber:          p.CheckNumber,
		Statut:               p.Statut,
		DatePaiement:         p.DatePaiement,
		ReceivedBy:           p.ReceivedBy,
		ValidatedBy:          p.ValidatedBy,
		ValidatedAt:          p.ValidatedAt,
		StatusReason:         p.StatusReason,
	}
	if invoice != nil {
		invResp := ToInvoiceResponse(invoice)
		resp.Invoice = &invResp
	}
	return resp
}

// ToPaymentResponses converts a slice of domain.Payment to []PaymentResponse.
func ToPaymentResponses(payments []domain.Payment) []PaymentResponse {
	responses := make([]PaymentResponse, len(payments))
	for i := range payments {
		responses[i] = ToPaymentResponse(&payments[i], nil)
	}
	return responses
}
