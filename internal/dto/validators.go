package dto

import (
	"github.com/go-playground/validator/v10"
	"github.com/scolaris/school_fees_app/internal/core/domain"
)

// RegisterCustomValidators registers the closed-enum validators used by the
// binding tags of the ledger DTOs. Called once at startup against gin's
// validator engine.
func RegisterCustomValidators(v *validator.Validate) error {
	if err := v.RegisterValidation("studentstore", func(fl validator.FieldLevel) bool {
		return domain.ValidStudentStore(domain.StudentStore(fl.Field().String()))
	}); err != nil {
		return err
	}
	if err := v.RegisterValidation("invoicetype", func(fl validator.FieldLevel) bool {
		return domain.ValidInvoiceType(domain.InvoiceType(fl.Field().String()))
	}); err != nil {
		return err
	}
	return v.RegisterValidation("paymentmode", func(fl validator.FieldLevel) bool {
		return domain.ValidPaymentMode(domain.PaymentMode(fl.Field().String()))
	})
}
