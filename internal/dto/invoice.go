package dto

import (
	"time"

	"github.com/scolaris/school_fees_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateInvoiceRequest defines the payload for creating an invoice.
type CreateInvoiceRequest struct {
	StudentID       string              `json:"studentID" binding:"required"`
	StudentDatabase domain.StudentStore `json:"studentDatabase" binding:"required,studentstore"`
	SchoolYearID    string              `json:"schoolYearID" binding:"required"`
	EnrollmentID    *string             `json:"enrollmentID,omitempty"`
	Type            domain.InvoiceType  `json:"type" binding:"required,invoicetype"`
	MontantHT       decimal.Decimal     `json:"montantHT"`
	MontantTTC      decimal.Decimal     `json:"montantTTC" binding:"required"`
	DateEmission    time.Time           `json:"dateEmission" binding:"required"`
	DateEcheance    *time.Time          `json:"dateEcheance,omitempty"`
	// IssueImmediately skips the DRAFT state and creates the invoice ISSUED.
	IssueImmediately bool `json:"issueImmediately"`
}

// IssueInvoiceRequest defines the payload for issuing a draft invoice.
type IssueInvoiceRequest struct {
	// CreateReminderSchedule asks the ledger to seed reminder checkpoints for
	// the invoice's due date with the external dispatcher.
	CreateReminderSchedule bool `json:"createReminderSchedule"`
}

// CancelInvoiceRequest defines the payload for cancelling an invoice.
type CancelInvoiceRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// InvoiceResponse defines the data returned for an invoice.
type InvoiceResponse struct {
	InvoiceID    string                  `json:"invoiceID"`
	Number       string                  `json:"number"`
	StudentRef   domain.StudentRef       `json:"studentRef"`
	Student      *domain.StudentIdentity `json:"student,omitempty"`
	SchoolYearID string                  `json:"schoolYearID"`
	EnrollmentID *string                 `json:"enrollmentID,omitempty"`
	Type         domain.InvoiceType      `json:"type"`
	MontantHT    decimal.Decimal         `json:"montantHT"`
	MontantTTC   decimal.Decimal         `json:"montantTTC"`
	MontantPaye  decimal.Decimal         `json:"montantPaye"`
	Solde        decimal.Decimal         `json:"solde"`
	Statut       domain.InvoiceStatus    `json:"statut"`
	DateEmission time.Time               `json:"dateEmission"`
	DateEcheance *time.Time              `json:"dateEcheance,omitempty"`
	CancelReason string                  `json:"cancelReason,omitempty"`
	CreatedAt    time.Time               `json:"createdAt"`
	CreatedBy    string                  `json:"createdBy"`
}

// ListInvoicesParams holds the query parameters for listing invoices.
type ListInvoicesParams struct {
	SchoolYearID    string               `form:"schoolYearID"`
	StudentID       string               `form:"studentID"`
	StudentDatabase domain.StudentStore  `form:"studentDatabase"`
	Type            domain.InvoiceType   `form:"type"`
	Statut          domain.InvoiceStatus `form:"statut"`
	UnpaidOnly      bool                 `form:"unpaidOnly"`
	Limit           int                  `form:"limit"`
	NextToken       *string              `form:"nextToken"`
}

// ListInvoicesResponse is the paginated invoice listing payload.
type ListInvoicesResponse struct {
	Invoices  []InvoiceResponse `json:"invoices"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ToInvoiceResponse converts a domain.Invoice to InvoiceResponse DTO.
func ToInvoiceResponse(inv *domain.Invoice) InvoiceResponse {
	return InvoiceResponse{
		InvoiceID:    inv.InvoiceID,
		Number:       inv.Number,
		StudentRef:   inv.StudentRef,
		Student:      inv.Student,
		SchoolYearID: inv.SchoolYearID,
		EnrollmentID: inv.EnrollmentID,
		Type:         inv.Type,
		MontantHT:    inv.MontantHT,
		MontantTTC:   inv.MontantTTC,
		MontantPaye:  inv.MontantPaye,
		Solde:        inv.Solde,
		Statut:       inv.Statut,
		DateEmission: inv.DateEmission,
		DateEcheance: inv.DateEcheance,
		CancelReason: inv.CancelReason,
		CreatedAt:    inv.CreatedAt,
		CreatedBy:    inv.CreatedBy,
	}
}

// ToInvoiceResponses converts a slice of domain.Invoice to []InvoiceResponse.
func ToInvoiceResponses(invs []domain.Invoice) []InvoiceResponse {
	responses := make([]InvoiceResponse, len(invs))
	for i := range invs {
		responses[i] = ToInvoiceResponse(&invs[i])
	}
	return responses
}
