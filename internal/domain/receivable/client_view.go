package receivable

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// StatusFilter restricts the client view by aging flags
type StatusFilter string

const (
	StatusFilterAll         StatusFilter = "ALL"
	StatusFilterHasOverdue  StatusFilter = "HAS_OVERDUE"
	StatusFilterHasDueSoon  StatusFilter = "HAS_DUE_SOON"
	StatusFilterCurrentOnly StatusFilter = "CURRENT_ONLY"
)

// ParseStatusFilter maps s to a StatusFilter, case-insensitively.
// Unknown values fall back to StatusFilterAll.
func ParseStatusFilter(s string) StatusFilter {
	switch f := StatusFilter(strings.ToUpper(strings.TrimSpace(s))); f {
	case StatusFilterHasOverdue, StatusFilterHasDueSoon, StatusFilterCurrentOnly:
		return f
	}
	return StatusFilterAll
}

func (f StatusFilter) matches(c ClientAggregate) bool {
	switch f {
	case StatusFilterHasOverdue:
		return c.HasOverdue
	case StatusFilterHasDueSoon:
		return c.HasDueSoon
	case StatusFilterCurrentOnly:
		return c.IsCurrentOnly()
	}
	return true
}

// SortKey orders the client view
type SortKey string

const (
	SortDebtDesc         SortKey = "DEBT_DESC"
	SortDebtAsc          SortKey = "DEBT_ASC"
	SortInvoiceCountDesc SortKey = "INVOICE_COUNT_DESC"
	SortNameAsc          SortKey = "NAME_ASC"
)

// ParseSortKey maps s to a SortKey, case-insensitively.
// Unknown values fall back to SortDebtDesc.
func ParseSortKey(s string) SortKey {
	switch k := SortKey(strings.ToUpper(strings.TrimSpace(s))); k {
	case SortDebtAsc, SortInvoiceCountDesc, SortNameAsc:
		return k
	}
	return SortDebtDesc
}

// ClientViewQuery holds the search text, status filter and sort key of a client view
type ClientViewQuery struct {
	Search string
	Status StatusFilter
	Sort   SortKey
}

// View applies search, then the status filter, then a stable sort to clients.
// The input slice is not modified; a new slice is always returned.
func View(clients []ClientAggregate, q ClientViewQuery) []ClientAggregate {
	result := make([]ClientAggregate, 0, len(clients))

	fold := cases.Fold()
	needle := fold.String(strings.TrimSpace(q.Search))
	status := ParseStatusFilter(string(q.Status))

	for _, c := range clients {
		if needle != "" && !strings.Contains(fold.String(c.ClientName), needle) {
			continue
		}
		if !status.matches(c) {
			continue
		}
		result = append(result, c)
	}

	switch ParseSortKey(string(q.Sort)) {
	case SortDebtAsc:
		slices.SortStableFunc(result, func(a, b ClientAggregate) int {
			return a.TotalPending.Cmp(b.TotalPending)
		})
	case SortInvoiceCountDesc:
		slices.SortStableFunc(result, func(a, b ClientAggregate) int {
			return b.InvoiceCount - a.InvoiceCount
		})
	case SortNameAsc:
		col := collate.New(language.Spanish, collate.IgnoreCase)
		slices.SortStableFunc(result, func(a, b ClientAggregate) int {
			return col.CompareString(a.ClientName, b.ClientName)
		})
	default:
		slices.SortStableFunc(result, func(a, b ClientAggregate) int {
			return b.TotalPending.Cmp(a.TotalPending)
		})
	}

	return result
}
