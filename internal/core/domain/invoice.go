package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus indicates the lifecycle state of an invoice.
type InvoiceStatus string

const (
	InvoiceDraft         InvoiceStatus = "DRAFT"
	InvoiceIssued        InvoiceStatus = "ISSUED"
	InvoicePartiallyPaid InvoiceStatus = "PARTIALLY_PAID"
	InvoicePaid          InvoiceStatus = "PAID"
	InvoiceCancelled     InvoiceStatus = "CANCELLED"
)

// InvoiceType classifies what a student is being billed for.
type InvoiceType string

const (
	InvoiceEnrollmentFee InvoiceType = "ENROLLMENT_FEE"
	InvoiceTuition       InvoiceType = "TUITION"
	InvoiceCafeteria     InvoiceType = "CAFETERIA"
	InvoiceTransport     InvoiceType = "TRANSPORT"
	InvoiceSupplies      InvoiceType = "SUPPLIES"
	InvoiceOther         InvoiceType = "OTHER"
)

// ValidInvoiceType reports whether t is one of the known invoice types.
func ValidInvoiceType(t InvoiceType) bool {
	switch t {
	case InvoiceEnrollmentFee, InvoiceTuition, InvoiceCafeteria, InvoiceTransport, InvoiceSupplies, InvoiceOther:
		return true
	}
	return false
}

// Invoice represents a billing obligation of a fixed total amount owed by one
// student for one fee type and period.
//
// Invariant: MontantPaye + Solde == MontantTTC for every non-cancelled
// invoice. MontantPaye is the sum of this invoice's VALIDATED payments and is
// only ever written by the payment repository inside the same transaction
// that mutates the payment.
type Invoice struct {
	InvoiceID    string      `json:"invoiceID"` // Primary Key (UUID)
	Number       string      `json:"number"`    // Human readable sequential number (FAC-<year>-<seq>)
	StudentRef   StudentRef  `json:"studentRef"`
	SchoolYearID string      `json:"schoolYearID"`
	EnrollmentID *string     `json:"enrollmentID,omitempty"` // Nullable FK to the enrollment module
	Type         InvoiceType `json:"type"`

	MontantHT   decimal.Decimal `json:"montantHT"`   // Pre-tax amount, informational
	MontantTTC  decimal.Decimal `json:"montantTTC"`  // Total owed, immutable once issued
	MontantPaye decimal.Decimal `json:"montantPaye"` // Derived: sum of validated payments
	Solde       decimal.Decimal `json:"solde"`       // Derived: MontantTTC - MontantPaye

	Statut       InvoiceStatus `json:"statut"`
	DateEmission time.Time     `json:"dateEmission"`
	DateEcheance *time.Time    `json:"dateEcheance,omitempty"` // Due date, nullable
	CancelReason string        `json:"cancelReason,omitempty"`

	AuditFields

	// Display-only decoration, populated by the student identity resolver on
	// listing paths. Never used for balance logic.
	Student *StudentIdentity `json:"student,omitempty"`
}

// DeriveInvoiceStatus computes the invoice status from its amounts.
// It is a pure function of (montantTTC, montantPaye, current status):
// CANCELLED is sticky and never overwritten, a fully settled invoice is PAID,
// a partially settled one is PARTIALLY_PAID, otherwise the current
// DRAFT/ISSUED state is kept. Re-applying it to its own output is a no-op.
func DeriveInvoiceStatus(montantTTC, montantPaye decimal.Decimal, current InvoiceStatus) InvoiceStatus {
	if current == InvoiceCancelled {
		return InvoiceCancelled
	}
	if montantPaye.GreaterThanOrEqual(montantTTC) {
		return InvoicePaid
	}
	if montantPaye.GreaterThan(decimal.Zero) {
		return InvoicePartiallyPaid
	}
	if current == InvoicePartiallyPaid || current == InvoicePaid {
		// Every payment was reversed; the obligation is open again.
		return InvoiceIssued
	}
	return current
}

// IsOverdue reports whether the invoice is past due with an open balance as of
// the given date.
func (i *Invoice) IsOverdue(asOf time.Time) bool {
	if i.Statut != InvoiceIssued && i.Statut != InvoicePartiallyPaid {
		return false
	}
	if i.DateEcheance == nil || !i.DateEcheance.Before(asOf) {
		return false
	}
	return i.Solde.GreaterThan(decimal.Zero)
}
