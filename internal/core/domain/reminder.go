package domain

import "time"

// ReminderChannel is the delivery channel a reminder is dispatched on.
type ReminderChannel string

const (
	ChannelSMS   ReminderChannel = "SMS"
	ChannelEmail ReminderChannel = "EMAIL"
)

// ReminderLog records one reminder sent for an overdue invoice. The pair
// (InvoiceID, ReminderDate) is unique: scheduling is idempotent per invoice
// per day.
type ReminderLog struct {
	ReminderID   string          `json:"reminderID"`
	InvoiceID    string          `json:"invoiceID"`
	ReminderDate time.Time       `json:"reminderDate"` // calendar day, truncated
	Channel      ReminderChannel `json:"channel"`
	Message      string          `json:"message"`
	CreatedAt    time.Time       `json:"createdAt"`
	CreatedBy    string          `json:"createdBy"`
}
