package receivable

import (
	"slices"
	"strconv"
	"time"
)

// DayMarker tells in which direction a displayed day count points
type DayMarker string

const (
	DayMarkerPast   DayMarker = "PAST"   // days since the due date
	DayMarkerFuture DayMarker = "FUTURE" // days until the due date
	DayMarkerNone   DayMarker = "NONE"   // no due date
)

// DayDisplay is the day count shown next to an invoice
type DayDisplay struct {
	Days   int
	Marker DayMarker
}

// String renders "-5" for five days overdue, "+3" for due in three days
// and "--" for undated invoices.
func (d DayDisplay) String() string {
	switch d.Marker {
	case DayMarkerPast:
		return "-" + strconv.Itoa(d.Days)
	case DayMarkerFuture:
		return "+" + strconv.Itoa(d.Days)
	}
	return "--"
}

// InvoiceDetail is one row of a client's invoice detail view
type InvoiceDetail struct {
	PendingInvoice
	Classification Classification
	Display        DayDisplay
}

// Detail classifies invoices as of today and orders them by due date,
// earliest first, with undated invoices last. Ties keep their input order.
func Detail(invoices []PendingInvoice, today time.Time) []InvoiceDetail {
	details := make([]InvoiceDetail, 0, len(invoices))
	for _, inv := range invoices {
		c := Classify(inv, today)
		details = append(details, InvoiceDetail{
			PendingInvoice: inv,
			Classification: c,
			Display:        displayFor(c),
		})
	}

	slices.SortStableFunc(details, func(a, b InvoiceDetail) int {
		return compareDueDates(a.DueDate, b.DueDate)
	})
	return details
}

func displayFor(c Classification) DayDisplay {
	switch {
	case c.DaysOverdue != nil:
		return DayDisplay{Days: *c.DaysOverdue, Marker: DayMarkerPast}
	case c.DaysUntilDue != nil:
		return DayDisplay{Days: *c.DaysUntilDue, Marker: DayMarkerFuture}
	}
	return DayDisplay{Marker: DayMarkerNone}
}

// compareDueDates orders by calendar date with nil treated as the latest date
func compareDueDates(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	return DateOf(*a).Compare(DateOf(*b))
}
