package receivable

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ClientPendingTotal is one row of the client list as reported by the data
// source. TotalPending is pre-aggregated upstream and may cover invoices that
// are not enumerated by ListPendingInvoicesForClient.
type ClientPendingTotal struct {
	ClientID     uuid.UUID       `json:"client_id"`
	ClientName   string          `json:"client_name"`
	TotalPending decimal.Decimal `json:"total_pending"`
}

// Client is descriptive client metadata used for display
type Client struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	CreditDays   int       `json:"credit_days"`
	TaxID        string    `json:"tax_id,omitempty"`
	ContactEmail string    `json:"contact_email,omitempty"`
}

// PendingIncomeReader is the read side of the data source backing the
// pending-income views. Implementations report failures through the returned
// error; GetClient returns shared.ErrNotFound for unknown ids.
type PendingIncomeReader interface {
	ListClientsWithPendingTotals(ctx context.Context) ([]ClientPendingTotal, error)
	ListPendingInvoicesForClient(ctx context.Context, clientID uuid.UUID) ([]PendingInvoice, error)
	GetClient(ctx context.Context, clientID uuid.UUID) (*Client, error)
}
