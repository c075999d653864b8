package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus mirrors domain.InvoiceStatus at the persistence boundary.
type InvoiceStatus string

// InvoiceType mirrors domain.InvoiceType at the persistence boundary.
type InvoiceType string

// Invoice is the database representation of an invoice row.
type Invoice struct {
	InvoiceID       string          `db:"invoice_id"`
	Number          string          `db:"number"`
	StudentID       string          `db:"student_id"`
	StudentDatabase string          `db:"student_database"`
	SchoolYearID    string          `db:"school_year_id"`
	EnrollmentID    *string         `db:"enrollment_id"`
	Type            InvoiceType     `db:"type"`
	MontantHT       decimal.Decimal `db:"montant_ht"`
	MontantTTC      decimal.Decimal `db:"montant_ttc"`
	MontantPaye     decimal.Decimal `db:"montant_paye"`
	Solde           decimal.Decimal `db:"solde"`
	Statut          InvoiceStatus   `db:"statut"`
	DateEmission    time.Time       `db:"date_emission"`
	DateEcheance    *time.Time      `db:"date_echeance"`
	CancelReason    string          `db:"cancel_reason"`
	AuditFields
}
