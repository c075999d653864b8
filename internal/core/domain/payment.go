package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus indicates the validation lifecycle state of a payment.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentValidated PaymentStatus = "VALIDATED"
	PaymentRejected  PaymentStatus = "REJECTED"
	PaymentCancelled PaymentStatus = "CANCELLED"
)

// PaymentMode is the means by which a payment was remitted.
type PaymentMode string

const (
	ModeCash        PaymentMode = "CASH"
	ModeCheck       PaymentMode = "CHECK"
	ModeWire        PaymentMode = "WIRE"
	ModeMobileMoney PaymentMode = "MOBILE_MONEY"
	ModeCard        PaymentMode = "CARD"
)

// ValidPaymentMode reports whether m is one of the known payment modes.
func ValidPaymentMode(m PaymentMode) bool {
	switch m {
	case ModeCash, ModeCheck, ModeWire, ModeMobileMoney, ModeCard:
		return true
	}
	return false
}

// AutoValidates reports whether payments in this mode are trusted immediately
// and created VALIDATED, without a manual validation step. Cash and mobile
// money settle at the counter; checks, wires and cards clear later.
func (m PaymentMode) AutoValidates() bool {
	return m == ModeCash || m == ModeMobileMoney
}

// ModeDetails carries the mode-specific optional attributes of a payment.
type ModeDetails struct {
	ReferenceTransaction string `json:"referenceTransaction,omitempty"` // mobile money / card transaction id
	Bank                 string `json:"bank,omitempty"`
	CheckNumber          string `json:"checkNumber,omitempty"`
}

// Payment is a recorded remittance against a specific invoice, with its own
// validation lifecycle independent of the invoice's.
//
// Invariant: a payment contributes to Invoice.MontantPaye only while its
// Statut is VALIDATED; leaving VALIDATED (cancellation) reverses its
// contribution in the same database transaction.
type Payment struct {
	PaymentID string `json:"paymentID"` // Primary Key (UUID)
	Reference string `json:"reference"` // Human readable reference (PAY-<seq>)
	InvoiceID string `json:"invoiceID"`

	// Denormalized from the parent invoice for query convenience. The
	// repository copies it from the invoice row inside the insert
	// transaction, so it cannot diverge.
	StudentRef StudentRef `json:"studentRef"`

	Montant      decimal.Decimal `json:"montant"` // Always > 0
	ModePaiement PaymentMode     `json:"modePaiement"`
	ModeDetails

	Statut       PaymentStatus `json:"statut"`
	DatePaiement time.Time     `json:"datePaiement"`
	ReceivedBy   string        `json:"receivedBy"`            // staff UserID who recorded it
	ValidatedBy  *string       `json:"validatedBy,omitempty"` // set on validation
	ValidatedAt  *time.Time    `json:"validatedAt,omitempty"`
	StatusReason string        `json:"statusReason,omitempty"` // rejection / cancellation reason

	AuditFields
}

// IsTerminal reports whether the payment can no longer transition, except for
// the single VALIDATED -> CANCELLED reversal edge.
func (p *Payment) IsTerminal() bool {
	return p.Statut == PaymentRejected || p.Statut == PaymentCancelled
}
