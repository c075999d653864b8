package domain

import (
	"encoding/json"
	"time"
)

// AuditAction names a state-changing ledger operation.
type AuditAction string

const (
	AuditInvoiceCreated   AuditAction = "INVOICE_CREATED"
	AuditInvoiceIssued    AuditAction = "INVOICE_ISSUED"
	AuditInvoiceCancelled AuditAction = "INVOICE_CANCELLED"
	AuditPaymentRecorded  AuditAction = "PAYMENT_RECORDED"
	AuditPaymentValidated AuditAction = "PAYMENT_VALIDATED"
	AuditPaymentRejected  AuditAction = "PAYMENT_REJECTED"
	AuditPaymentCancelled AuditAction = "PAYMENT_CANCELLED"
)

// AuditRecord captures one state-changing ledger operation: who did what to
// which entity, with the entity snapshot before and after.
type AuditRecord struct {
	AuditID    string          `json:"auditID"`
	Actor      string          `json:"actor"` // staff UserID
	Action     AuditAction     `json:"action"`
	EntityType string          `json:"entityType"` // "invoice" | "payment"
	EntityID   string          `json:"entityID"`
	Before     json.RawMessage `json:"before,omitempty"`
	After      json.RawMessage `json:"after,omitempty"`
	Timestamp  time.Time       `json:"timestamp"`
}
