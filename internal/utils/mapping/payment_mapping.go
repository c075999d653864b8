package mapping

import (
	"github.com/scolaris/school_fees_app/internal/core/domain"
	"github.com/scolaris/school_fees_app/internal/models"
)

// ToModelPayment converts a domain payment to its database model.
func ToModelPayment(p domain.Payment) models.Payment {
	return models.Payment{
		PaymentID:            p.PaymentID,
		Reference:            p.Reference,
		InvoiceID:            p.InvoiceID,
		StudentID:            p.StudentRef.StudentID,
		StudentDatabase:      string(p.StudentRef.StudentDatabase),
		Montant:              p.Montant,
		ModePaiement:         models.PaymentMode(p.ModePaiement),
		ReferenceTransaction: p.ReferenceTransaction,
		Bank:                 p.Bank,
		CheckNumber:          p.CheckNumber,
		Statut:               models.PaymentStatus(p.Statut),
		DatePaiement:         p.DatePaiement,
		ReceivedBy:           p.ReceivedBy,
		ValidatedBy:          p.ValidatedBy,
		ValidatedAt:          p.ValidatedAt,
		StatusReason:         p.StatusReason,
		AuditFields:          ToModelAuditFields(p.AuditFields),
	}
}

// ToDomainPayment converts a database model payment to its domain form.
func ToDomainPayment(m models.Payment) domain.Payment {
	return domain.Payment{
		PaymentID: m.PaymentID,
		Reference: m.Reference,
		InvoiceID: m.InvoiceID,
		StudentRef: domain.StudentRef{
			StudentID:       m.StudentID,
			StudentDatabase: domain.StudentStore(m.StudentDatabase),
		},
		Montant:      m.Montant,
		ModePaiement: domain.PaymentMode(m.ModePaiement),
		ModeDetails: domain.ModeDetails{
			ReferenceTransaction: m.ReferenceTransaction,
			Bank:                 m.Bank,
			CheckNumber:          m.CheckNumber,
		},
		Statut:       domain.PaymentStatus(m.Statut),
		DatePaiement: m.DatePaiement,
		ReceivedBy:   m.ReceivedBy,
		ValidatedBy:  m.ValidatedBy,
		ValidatedAt:  m.ValidatedAt,
		StatusReason: m.StatusReason,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}
