package dto

import (
	"time"

	"github.com/scolaris/school_fees_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ListOverdueParams holds the query parameters for the overdue listing.
type ListOverdueParams struct {
	AsOf *time.Time `form:"asOf" time_format:"2006-01-02"`
}

// ListUnpaidParams holds the query parameters for the collections listing.
type ListUnpaidParams struct {
	SchoolYearID    string              `form:"schoolYearID"`
	StudentDatabase domain.StudentStore `form:"studentDatabase"`
	Type            domain.InvoiceType  `form:"type"`
	Limit           int                 `form:"limit"`
	NextToken       *string             `form:"nextToken"`
}

// OverdueListResponse is the overdue/unpaid listing payload with its totals.
type OverdueListResponse struct {
	Invoices   []InvoiceResponse `json:"invoices"`
	TotalSolde decimal.Decimal   `json:"totalSolde"`
	NextToken  *string           `json:"nextToken,omitempty"`
}

// ScheduleRemindersRequest defines the payload for triggering a reminder
// batch over a set of invoices.
type ScheduleRemindersRequest struct {
	InvoiceIDs []string               `json:"invoiceIDs" binding:"required,min=1"`
	Channel    domain.ReminderChannel `json:"channel,omitempty"`
}

// ScheduleRemindersResponse reports how many reminders were actually sent.
// Invoices already reminded today, settled or cancelled are skipped.
type ScheduleRemindersResponse struct {
	Requested int `json:"requested"`
	Sent      int `json:"sent"`
}
