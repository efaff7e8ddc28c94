//go:build integration

package integration

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	appreceivable "github.com/imamecatronica/backend/internal/application/receivable"
	"github.com/imamecatronica/backend/internal/domain/receivable"
	"github.com/imamecatronica/backend/internal/domain/shared"
	"github.com/imamecatronica/backend/internal/infrastructure/persistence"
	"github.com/imamecatronica/backend/internal/infrastructure/storage"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func date(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}

type portfolio struct {
	borgwarner uuid.UUID
	acme       uuid.UUID
	settled    uuid.UUID
}

// seedPortfolio stores three clients; today is 2024-03-15.
func seedPortfolio(tdb *TestDB) portfolio {
	p := portfolio{borgwarner: uuid.New(), acme: uuid.New(), settled: uuid.New()}

	tdb.SeedClient(p.borgwarner, "BorgWarner", 30)
	tdb.SeedInvoice(p.borgwarner, "A-1", "1000.00", "PENDING", date(2024, 2, 11), date(2024, 2, 11), date(2024, 3, 12))
	tdb.SeedInvoice(p.borgwarner, "A-2", "3568.00", "PENDING", date(2024, 2, 19), date(2024, 2, 19), date(2024, 3, 20))
	tdb.SeedInvoice(p.borgwarner, "A-3", "1000.00", "PENDING", date(2024, 3, 31), nil, date(2024, 4, 30))
	tdb.SeedInvoice(p.borgwarner, "P-1", "999.00", "PAID", date(2024, 1, 5), date(2024, 1, 5), date(2024, 2, 4))

	tdb.SeedClient(p.acme, "Acme Industrial", 0)
	tdb.SeedInvoice(p.acme, "B-1", "500.00", "PENDING", nil, nil, nil)

	tdb.SeedClient(p.settled, "Zeta Motores", 15)
	tdb.SeedInvoice(p.settled, "Z-1", "250.00", "PAID", date(2024, 1, 10), date(2024, 1, 10), date(2024, 1, 25))
	tdb.SeedInvoice(p.settled, "Z-2", "80.00", "CANCELLED", nil, nil, nil)

	return p
}

func TestPendingIncomeRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := NewTestDB(t)
	p := seedPortfolio(testDB)
	repo := persistence.NewGormPendingIncomeRepository(testDB.DB)
	ctx := context.Background()

	t.Run("totals cover pending invoices only", func(t *testing.T) {
		totals, err := repo.ListClientsWithPendingTotals(ctx)
		require.NoError(t, err)
		require.Len(t, totals, 2)

		assert.Equal(t, "Acme Industrial", totals[0].ClientName)
		assert.True(t, decimal.RequireFromString("500").Equal(totals[0].TotalPending))
		assert.Equal(t, p.borgwarner, totals[1].ClientID)
		assert.True(t, decimal.RequireFromString("5568").Equal(totals[1].TotalPending))
	})

	t.Run("invoices by due date", func(t *testing.T) {
		invoices, err := repo.ListPendingInvoicesForClient(ctx, p.borgwarner)
		require.NoError(t, err)
		require.Len(t, invoices, 3)

		assert.Equal(t, "A-1", invoices[0].Folio)
		assert.Equal(t, "A-2", invoices[1].Folio)
		assert.Equal(t, "A-3", invoices[2].Folio)
		require.NotNil(t, invoices[0].DueDate)
		assert.Equal(t, "2024-03-12", invoices[0].DueDate.Format("2006-01-02"))
		assert.Nil(t, invoices[2].ReceptionDate)
	})

	t.Run("undated invoice keeps null dates", func(t *testing.T) {
		invoices, err := repo.ListPendingInvoicesForClient(ctx, p.acme)
		require.NoError(t, err)
		require.Len(t, invoices, 1)
		assert.Nil(t, invoices[0].DueDate)
		assert.Nil(t, invoices[0].InvoiceDate)
	})

	t.Run("page size does not change the total", func(t *testing.T) {
		capped := persistence.NewGormPendingIncomeRepository(testDB.DB, persistence.WithMaxInvoicesPerClient(2))

		invoices, err := capped.ListPendingInvoicesForClient(ctx, p.borgwarner)
		require.NoError(t, err)
		assert.Len(t, invoices, 2)

		totals, err := capped.ListClientsWithPendingTotals(ctx)
		require.NoError(t, err)
		require.Len(t, totals, 2)
		assert.True(t, decimal.RequireFromString("5568").Equal(totals[1].TotalPending))
	})

	t.Run("client metadata", func(t *testing.T) {
		client, err := repo.GetClient(ctx, p.borgwarner)
		require.NoError(t, err)
		assert.Equal(t, "BorgWarner", client.Name)
		assert.Equal(t, 30, client.CreditDays)

		_, err = repo.GetClient(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestPendingIncomeService_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := NewTestDB(t)
	p := seedPortfolio(testDB)
	reports := storage.NewMemoryReportStorage()
	svc := appreceivable.NewPendingIncomeService(
		persistence.NewGormPendingIncomeRepository(testDB.DB),
		zaptest.NewLogger(t),
		appreceivable.WithClock(func() time.Time { return time.Date(2024, time.March, 15, 18, 0, 0, 0, time.UTC) }),
		appreceivable.WithLocation(time.UTC),
		appreceivable.WithReportStorage(reports),
	)
	ctx := context.Background()

	t.Run("portfolio ordered by debt", func(t *testing.T) {
		list, err := svc.ListClients(ctx, receivable.ClientViewQuery{})
		require.NoError(t, err)
		require.Len(t, list.Clients, 2)

		borg := list.Clients[0]
		assert.Equal(t, "BorgWarner", borg.ClientName)
		assert.Equal(t, 3, borg.InvoiceCount)
		assert.Equal(t, 1, borg.OverdueCount)
		assert.True(t, decimal.RequireFromString("1000").Equal(borg.OverdueAmount))
		assert.Equal(t, 1, borg.DueSoonCount)
		assert.True(t, decimal.RequireFromString("3568").Equal(borg.DueSoonAmount))
		assert.Equal(t, "BO", borg.Initials)

		acme := list.Clients[1]
		assert.True(t, acme.IsCurrentOnly())

		assert.Equal(t, 2, list.Summary.ClientCount)
		assert.Equal(t, 4, list.Summary.InvoiceCount)
		assert.True(t, decimal.RequireFromString("6068").Equal(list.Summary.TotalPending))
	})

	t.Run("status filter", func(t *testing.T) {
		list, err := svc.ListClients(ctx, receivable.ClientViewQuery{Status: receivable.StatusFilterCurrentOnly})
		require.NoError(t, err)
		require.Len(t, list.Clients, 1)
		assert.Equal(t, p.acme, list.Clients[0].ClientID)
	})

	t.Run("detail classifies each invoice", func(t *testing.T) {
		detail, err := svc.GetClientDetail(ctx, p.borgwarner)
		require.NoError(t, err)
		require.Len(t, detail.Invoices, 3)
		assert.True(t, decimal.RequireFromString("5568").Equal(detail.Aggregate.TotalPending))

		assert.Equal(t, receivable.AgingStatusOverdue, detail.Invoices[0].Classification.Status)
		assert.Equal(t, "-3", detail.Invoices[0].Display.String())
		assert.Equal(t, receivable.AgingStatusDueSoon, detail.Invoices[1].Classification.Status)
		assert.Equal(t, "+5", detail.Invoices[1].Display.String())
		assert.Equal(t, receivable.AgingStatusCurrent, detail.Invoices[2].Classification.Status)
	})

	t.Run("unknown client", func(t *testing.T) {
		_, err := svc.GetClientDetail(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("export writes a report", func(t *testing.T) {
		result, err := svc.ExportClients(ctx, receivable.ClientViewQuery{})
		require.NoError(t, err)
		assert.Equal(t, 2, result.Rows)
		assert.Equal(t, 1, reports.Len())
	})
}
