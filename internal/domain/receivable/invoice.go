package receivable

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DueSoonWindowDays is the inclusive horizon, in calendar days, in which an
// invoice that is not yet overdue counts as due soon.
const DueSoonWindowDays = 7

// AgingStatus is the aging bucket of an invoice relative to a given day
type AgingStatus string

const (
	AgingStatusOverdue AgingStatus = "OVERDUE"  // due date already passed
	AgingStatusDueSoon AgingStatus = "DUE_SOON" // due today or within the window
	AgingStatusCurrent AgingStatus = "CURRENT"  // due after the window
	AgingStatusUndated AgingStatus = "UNDATED"  // no due date recorded
)

// String returns the string representation of AgingStatus
func (s AgingStatus) String() string {
	return string(s)
}

// PendingInvoice is an outstanding invoice as supplied by the data source.
// All dates are optional and carry date-only precision.
type PendingInvoice struct {
	ID            uuid.UUID       `json:"id"`
	Folio         string          `json:"folio"`
	Total         decimal.Decimal `json:"total"`
	InvoiceDate   *time.Time      `json:"invoice_date,omitempty"`
	ReceptionDate *time.Time      `json:"reception_date,omitempty"`
	DueDate       *time.Time      `json:"due_date,omitempty"`
}

// Classification is the derived aging state of one invoice.
// DaysOverdue is set only for OVERDUE, DaysUntilDue only for DUE_SOON and
// CURRENT. Neither is set for UNDATED.
type Classification struct {
	Status       AgingStatus
	DaysOverdue  *int
	DaysUntilDue *int
}

// IsOverdue returns true if the invoice is past its due date
func (c Classification) IsOverdue() bool {
	return c.Status == AgingStatusOverdue
}

// IsDueSoon returns true if the invoice falls within the due-soon window
func (c Classification) IsDueSoon() bool {
	return c.Status == AgingStatusDueSoon
}

// Classify computes the aging bucket of inv as of today.
// today is supplied by the caller; only its calendar date is used.
func Classify(inv PendingInvoice, today time.Time) Classification {
	if inv.DueDate == nil {
		return Classification{Status: AgingStatusUndated}
	}

	days := DaysBetween(today, *inv.DueDate)
	switch {
	case days < 0:
		overdue := -days
		return Classification{Status: AgingStatusOverdue, DaysOverdue: &overdue}
	case days <= DueSoonWindowDays:
		return Classification{Status: AgingStatusDueSoon, DaysUntilDue: &days}
	default:
		return Classification{Status: AgingStatusCurrent, DaysUntilDue: &days}
	}
}

// EnumeratedTotal sums the totals of the given invoices. It is a cross-check
// helper only; aggregates never use it in place of the supplied pending total.
func EnumeratedTotal(invoices []PendingInvoice) decimal.Decimal {
	total := decimal.Zero
	for _, inv := range invoices {
		total = total.Add(inv.Total)
	}
	return total
}
