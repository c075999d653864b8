package mapping

import (
	"github.com/scolaris/school_fees_app/internal/core/domain"
	"github.com/scolaris/school_fees_app/internal/models"
)

// ToModelInvoice converts a domain invoice to its database model.
func ToModelInvoice(inv domain.Invoice) models.Invoice {
	return models.Invoice{
		InvoiceID:       inv.InvoiceID,
		Number:          inv.Number,
		StudentID:       inv.StudentRef.StudentID,
		StudentDatabase: string(inv.StudentRef.StudentDatabase),
		SchoolYearID:    inv.SchoolYearID,
		EnrollmentID:    inv.EnrollmentID,
		Type:            models.InvoiceType(inv.Type),
		MontantHT:       inv.MontantHT,
		MontantTTC:      inv.MontantTTC,
		MontantPaye:     inv.MontantPaye,
		Solde:           inv.Solde,
		Statut:          models.InvoiceStatus(inv.Statut),
		DateEmission:    inv.DateEmission,
		DateEcheance:    inv.DateEcheance,
		CancelReason:    inv.CancelReason,
		AuditFields:     ToModelAuditFields(inv.AuditFields),
	}
}

// ToDomainInvoice converts a database model invoice to its domain form.
func ToDomainInvoice(m models.Invoice) domain.Invoice {
	return domain.Invoice{
		InvoiceID: m.InvoiceID,
		Number:    m.Number,
		StudentRef: domain.StudentRef{
			StudentID:       m.StudentID,
			StudentDatabase: domain.StudentStore(m.StudentDatabase),
		},
		SchoolYearID: m.SchoolYearID,
		EnrollmentID: m.EnrollmentID,
		Type:         domain.InvoiceType(m.Type),
		MontantHT:    m.MontantHT,
		MontantTTC:   m.MontantTTC,
		MontantPaye:  m.MontantPaye,
		Solde:        m.Solde,
		Statut:       domain.InvoiceStatus(m.Statut),
		DateEmission: m.DateEmission,
		DateEcheance: m.DateEcheance,
		CancelReason: m.CancelReason,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}
