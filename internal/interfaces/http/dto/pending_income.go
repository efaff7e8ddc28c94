package dto

import (
	"time"

	appreceivable "github.com/imamecatronica/backend/internal/application/receivable"
	"github.com/imamecatronica/backend/internal/domain/receivable"
	"github.com/imamecatronica/backend/internal/domain/shared/valueobject"
)

const dateLayout = "2006-01-02"

// ClientListQuery holds the query string of the client list endpoints
type ClientListQuery struct {
	Search string `form:"search" binding:"max=100"`
	Status string `form:"status" binding:"max=32"`
	Sort   string `form:"sort" binding:"max=32"`
}

// ToViewQuery converts the query string into an engine query.
// Unknown status and sort names fall back to the defaults.
func (q ClientListQuery) ToViewQuery() receivable.ClientViewQuery {
	return receivable.ClientViewQuery{
		Search: q.Search,
		Status: receivable.ParseStatusFilter(q.Status),
		Sort:   receivable.ParseSortKey(q.Sort),
	}
}

// ClientAggregateResponse is one row of the client list
type ClientAggregateResponse struct {
	ClientID      string            `json:"client_id"`
	ClientName    string            `json:"client_name"`
	Initials      string            `json:"initials"`
	TotalPending  valueobject.Money `json:"total_pending"`
	InvoiceCount  int               `json:"invoice_count"`
	OverdueCount  int               `json:"overdue_count"`
	OverdueAmount valueobject.Money `json:"overdue_amount"`
	DueSoonCount  int               `json:"due_soon_count"`
	DueSoonAmount valueobject.Money `json:"due_soon_amount"`
	HasOverdue    bool              `json:"has_overdue"`
	HasDueSoon    bool              `json:"has_due_soon"`
}

// PortfolioSummaryResponse is the summary cards of a client view
type PortfolioSummaryResponse struct {
	ClientCount        int               `json:"client_count"`
	InvoiceCount       int               `json:"invoice_count"`
	TotalPending       valueobject.Money `json:"total_pending"`
	OverdueAmount      valueobject.Money `json:"overdue_amount"`
	DueSoonAmount      valueobject.Money `json:"due_soon_amount"`
	ClientsWithOverdue int               `json:"clients_with_overdue"`
	ClientsWithDueSoon int               `json:"clients_with_due_soon"`
	Today              string            `json:"today"`
	Status             string            `json:"status"`
	Sort               string            `json:"sort"`
}

// ClientResponse is the header of the client detail. Credit terms are only
// present for callers allowed to see them.
type ClientResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Initials     string `json:"initials"`
	CreditDays   *int   `json:"credit_days,omitempty"`
	TaxID        string `json:"tax_id,omitempty"`
	ContactEmail string `json:"contact_email,omitempty"`
}

// InvoiceDetailResponse is one invoice of the client detail
type InvoiceDetailResponse struct {
	ID            string            `json:"id"`
	Folio         string            `json:"folio"`
	Total         valueobject.Money `json:"total"`
	InvoiceDate   *string           `json:"invoice_date"`
	ReceptionDate *string           `json:"reception_date"`
	DueDate       *string           `json:"due_date"`
	Status        string            `json:"status"`
	DaysOverdue   *int              `json:"days_overdue,omitempty"`
	DaysUntilDue  *int              `json:"days_until_due,omitempty"`
	Days          string            `json:"days"`
	Marker        string            `json:"marker"`
}

// ClientDetailResponse is the full client detail payload
type ClientDetailResponse struct {
	Today     string                  `json:"today"`
	Client    ClientResponse          `json:"client"`
	Aggregate ClientAggregateResponse `json:"aggregate"`
	Invoices  []InvoiceDetailResponse `json:"invoices"`
}

// ExportResponse describes a stored CSV export
type ExportResponse struct {
	Key  string `json:"key"`
	Rows int    `json:"rows"`
	Size int    `json:"size"`
}

// LoginRequest is the sign-in payload
type LoginRequest struct {
	Username string `json:"username" binding:"required,max=64"`
	Password string `json:"password" binding:"required,max=128"`
}

// LoginResponse is returned on a successful sign-in
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	Role        string    `json:"role"`
	Permissions []string  `json:"permissions"`
}

// ToExportResponse converts an export result
func ToExportResponse(r *appreceivable.ExportResult) ExportResponse {
	return ExportResponse{Key: r.Key, Rows: r.Rows, Size: r.Size}
}

// HealthResponse is the health check payload
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// ToClientAggregateResponse converts an aggregate
func ToClientAggregateResponse(a receivable.ClientAggregate) ClientAggregateResponse {
	return ClientAggregateResponse{
		ClientID:      a.ClientID.String(),
		ClientName:    a.ClientName,
		Initials:      a.Initials,
		TotalPending:  valueobject.NewMoneyMXN(a.TotalPending),
		InvoiceCount:  a.InvoiceCount,
		OverdueCount:  a.OverdueCount,
		OverdueAmount: valueobject.NewMoneyMXN(a.OverdueAmount),
		DueSoonCount:  a.DueSoonCount,
		DueSoonAmount: valueobject.NewMoneyMXN(a.DueSoonAmount),
		HasOverdue:    a.HasOverdue,
		HasDueSoon:    a.HasDueSoon,
	}
}

// ToClientAggregateResponses converts a client view, keeping its order
func ToClientAggregateResponses(clients []receivable.ClientAggregate) []ClientAggregateResponse {
	out := make([]ClientAggregateResponse, len(clients))
	for i, c := range clients {
		out[i] = ToClientAggregateResponse(c)
	}
	return out
}

// ToPortfolioSummaryResponse converts the summary of a client list
func ToPortfolioSummaryResponse(list *appreceivable.ClientList) PortfolioSummaryResponse {
	s := list.Summary
	return PortfolioSummaryResponse{
		ClientCount:        s.ClientCount,
		InvoiceCount:       s.InvoiceCount,
		TotalPending:       valueobject.NewMoneyMXN(s.TotalPending),
		OverdueAmount:      valueobject.NewMoneyMXN(s.OverdueAmount),
		DueSoonAmount:      valueobject.NewMoneyMXN(s.DueSoonAmount),
		ClientsWithOverdue: s.ClientsWithOverdue,
		ClientsWithDueSoon: s.ClientsWithDueSoon,
		Today:              list.Today.Format(dateLayout),
		Status:             string(list.Query.Status),
		Sort:               string(list.Query.Sort),
	}
}

// ToClientDetailResponse converts a client detail
func ToClientDetailResponse(d *appreceivable.ClientDetail) ClientDetailResponse {
	invoices := make([]InvoiceDetailResponse, len(d.Invoices))
	for i, inv := range d.Invoices {
		invoices[i] = InvoiceDetailResponse{
			ID:            inv.ID.String(),
			Folio:         inv.Folio,
			Total:         valueobject.NewMoneyMXN(inv.Total),
			InvoiceDate:   formatDate(inv.InvoiceDate),
			ReceptionDate: formatDate(inv.ReceptionDate),
			DueDate:       formatDate(inv.DueDate),
			Status:        inv.Classification.Status.String(),
			DaysOverdue:   inv.Classification.DaysOverdue,
			DaysUntilDue:  inv.Classification.DaysUntilDue,
			Days:          inv.Display.String(),
			Marker:        string(inv.Display.Marker),
		}
	}

	return ClientDetailResponse{
		Today: d.Today.Format(dateLayout),
		Client: ClientResponse{
			ID:           d.Client.ID.String(),
			Name:         d.Client.Name,
			Initials:     d.Aggregate.Initials,
			CreditDays:   &d.Client.CreditDays,
			TaxID:        d.Client.TaxID,
			ContactEmail: d.Client.ContactEmail,
		},
		Aggregate: ToClientAggregateResponse(d.Aggregate),
		Invoices:  invoices,
	}
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := receivable.DateOf(*t).Format(dateLayout)
	return &s
}
