package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/imamecatronica/backend/internal/domain/receivable"
	"github.com/imamecatronica/backend/internal/domain/shared"
	"github.com/imamecatronica/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DefaultMaxInvoicesPerClient caps the per-client invoice query
const DefaultMaxInvoicesPerClient = 500

// GormPendingIncomeRepository implements receivable.PendingIncomeReader using GORM
type GormPendingIncomeRepository struct {
	db          *gorm.DB
	maxInvoices int
}

// PendingIncomeRepositoryOption configures a GormPendingIncomeRepository
type PendingIncomeRepositoryOption func(*GormPendingIncomeRepository)

// WithMaxInvoicesPerClient sets the page size of ListPendingInvoicesForClient.
// Zero or negative means no limit.
func WithMaxInvoicesPerClient(n int) PendingIncomeRepositoryOption {
	return func(r *GormPendingIncomeRepository) {
		r.maxInvoices = n
	}
}

// NewGormPendingIncomeRepository creates a new GormPendingIncomeRepository
func NewGormPendingIncomeRepository(db *gorm.DB, opts ...PendingIncomeRepositoryOption) *GormPendingIncomeRepository {
	r := &GormPendingIncomeRepository{
		db:          db,
		maxInvoices: DefaultMaxInvoicesPerClient,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var _ receivable.PendingIncomeReader = (*GormPendingIncomeRepository)(nil)

type clientTotalRow struct {
	ClientID     uuid.UUID
	ClientName   string
	TotalPending decimal.Decimal
}

// ListClientsWithPendingTotals returns every client with a positive pending
// balance, ordered by name. The total is summed in SQL over all pending
// invoices, independent of the per-client invoice page size.
func (r *GormPendingIncomeRepository) ListClientsWithPendingTotals(ctx context.Context) ([]receivable.ClientPendingTotal, error) {
	var rows []clientTotalRow
	err := r.db.WithContext(ctx).
		Table("clients AS c").
		Select("c.id AS client_id, c.name AS client_name, COALESCE(SUM(i.total), 0) AS total_pending").
		Joins("JOIN invoices AS i ON i.client_id = c.id AND i.status = ?", string(models.InvoiceStatusPending)).
		Group("c.id, c.name").
		Having("COALESCE(SUM(i.total), 0) > 0").
		Order("c.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list clients with pending totals: %w: %w", shared.ErrUnavailable, err)
	}

	totals := make([]receivable.ClientPendingTotal, len(rows))
	for i, row := range rows {
		totals[i] = receivable.ClientPendingTotal{
			ClientID:     row.ClientID,
			ClientName:   row.ClientName,
			TotalPending: row.TotalPending,
		}
	}
	return totals, nil
}

// ListPendingInvoicesForClient returns the pending invoices of a client,
// earliest due date first, capped at the configured page size.
func (r *GormPendingIncomeRepository) ListPendingInvoicesForClient(ctx context.Context, clientID uuid.UUID) ([]receivable.PendingInvoice, error) {
	query := r.db.WithContext(ctx).
		Where("client_id = ? AND status = ?", clientID, string(models.InvoiceStatusPending)).
		Order("due_date ASC NULLS LAST").
		Order("folio ASC")
	if r.maxInvoices > 0 {
		query = query.Limit(r.maxInvoices)
	}

	var rows []models.InvoiceModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list pending invoices for client %s: %w: %w", clientID, shared.ErrUnavailable, err)
	}

	invoices := make([]receivable.PendingInvoice, len(rows))
	for i := range rows {
		invoices[i] = rows[i].ToDomain()
	}
	return invoices, nil
}

// GetClient returns client metadata, or shared.ErrNotFound. Query failures
// from any method wrap shared.ErrUnavailable.
func (r *GormPendingIncomeRepository) GetClient(ctx context.Context, clientID uuid.UUID) (*receivable.Client, error) {
	var model models.ClientModel
	if err := r.db.WithContext(ctx).
		First(&model, "id = ?", clientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("get client %s: %w: %w", clientID, shared.ErrUnavailable, err)
	}
	return model.ToDomain(), nil
}
