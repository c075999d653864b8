package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus mirrors domain.PaymentStatus at the persistence boundary.
type PaymentStatus string

// PaymentMode mirrors domain.PaymentMode at the persistence boundary.
type PaymentMode string

// Payment is the database representation of a payment row.
type Payment struct {
	PaymentID            string          `db:"payment_id"`
	Reference            string          `db:"reference"`
	InvoiceID            string          `db:"invoice_id"`
	StudentID            string          `db:"student_id"`
	StudentDatabase      string          `db:"student_database"`
	Montant              decimal.Decimal `db:"montant"`
	ModePaiement         PaymentMode     `db:"mode_paiement"`
	ReferenceTransaction string          `db:"reference_transaction"`
	Bank                 string          `db:"bank"`
	CheckNumber          string          `db:"check_number"`
	Statut               PaymentStatus   `db:"statut"`
	DatePaiement         time.Time       `db:"date_paiement"`
	ReceivedBy           string          `db:"received_by"`
	ValidatedBy          *string         `db:"validated_by"`
	ValidatedAt          *time.Time      `db:"validated_at"`
	StatusReason         string          `db:"status_reason"`
	AuditFields
}
