package receivable

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ClientAggregate rolls up the pending invoices of one client.
// It is rebuilt from source data on every load and never persisted.
type ClientAggregate struct {
	ClientID      uuid.UUID
	ClientName    string
	TotalPending  decimal.Decimal
	InvoiceCount  int
	OverdueCount  int
	OverdueAmount decimal.Decimal
	DueSoonCount  int
	DueSoonAmount decimal.Decimal
	HasOverdue    bool
	HasDueSoon    bool
	Initials      string
}

// IsCurrentOnly reports whether the client has neither overdue nor due-soon invoices
func (a ClientAggregate) IsCurrentOnly() bool {
	return !a.HasOverdue && !a.HasDueSoon
}

// Aggregate classifies every invoice as of today and buckets the overdue and
// due-soon counts and amounts. totalPending is carried through as supplied.
// An empty invoice list yields zero buckets.
func Aggregate(clientID uuid.UUID, clientName string, totalPending decimal.Decimal, invoices []PendingInvoice, today time.Time) ClientAggregate {
	agg := ClientAggregate{
		ClientID:      clientID,
		ClientName:    clientName,
		TotalPending:  totalPending,
		InvoiceCount:  len(invoices),
		OverdueAmount: decimal.Zero,
		DueSoonAmount: decimal.Zero,
		Initials:      Initials(clientName),
	}

	for _, inv := range invoices {
		switch c := Classify(inv, today); {
		case c.IsOverdue():
			agg.OverdueCount++
			agg.OverdueAmount = agg.OverdueAmount.Add(inv.Total)
		case c.IsDueSoon():
			agg.DueSoonCount++
			agg.DueSoonAmount = agg.DueSoonAmount.Add(inv.Total)
		}
	}

	agg.HasOverdue = agg.OverdueCount > 0
	agg.HasDueSoon = agg.DueSoonCount > 0
	return agg
}

// Initials derives the two-letter display code of a client name: the first
// letter of each of the first two words, or the first two characters when
// the name is a single word.
func Initials(name string) string {
	words := strings.Fields(name)
	if len(words) == 0 {
		return ""
	}

	var code string
	if len(words) >= 2 {
		code = firstRunes(words[0], 1) + firstRunes(words[1], 1)
	} else {
		code = firstRunes(words[0], 2)
	}
	return cases.Upper(language.Spanish).String(code)
}

func firstRunes(s string, n int) string {
	end := 0
	for i := 0; i < n && end < len(s); i++ {
		_, size := utf8.DecodeRuneInString(s[end:])
		end += size
	}
	return s[:end]
}

// PortfolioSummary totals a list of client aggregates
type PortfolioSummary struct {
	ClientCount        int
	InvoiceCount       int
	TotalPending       decimal.Decimal
	OverdueAmount      decimal.Decimal
	DueSoonAmount      decimal.Decimal
	ClientsWithOverdue int
	ClientsWithDueSoon int
}

// Summarize computes the portfolio summary of clients
func Summarize(clients []ClientAggregate) PortfolioSummary {
	s := PortfolioSummary{
		ClientCount:   len(clients),
		TotalPending:  decimal.Zero,
		OverdueAmount: decimal.Zero,
		DueSoonAmount: decimal.Zero,
	}
	for _, c := range clients {
		s.InvoiceCount += c.InvoiceCount
		s.TotalPending = s.TotalPending.Add(c.TotalPending)
		s.OverdueAmount = s.OverdueAmount.Add(c.OverdueAmount)
		s.DueSoonAmount = s.DueSoonAmount.Add(c.DueSoonAmount)
		if c.HasOverdue {
			s.ClientsWithOverdue++
		}
		if c.HasDueSoon {
			s.ClientsWithDueSoon++
		}
	}
	return s
}
