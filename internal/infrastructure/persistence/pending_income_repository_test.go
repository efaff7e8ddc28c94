package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/imamecatronica/backend/internal/domain/receivable"
	"github.com/imamecatronica/backend/internal/domain/shared"
	"github.com/imamecatronica/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupPendingIncomeTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// every pooled connection would otherwise get its own empty database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(&models.ClientModel{}, &models.InvoiceModel{})
	require.NoError(t, err)

	return db
}

func seedClient(t *testing.T, db *gorm.DB, name string, creditDays int) models.ClientModel {
	c := models.ClientModel{Name: name, CreditDays: creditDays, TaxID: "XAXX010101000"}
	require.NoError(t, db.Create(&c).Error)
	return c
}

func seedInvoice(t *testing.T, db *gorm.DB, clientID uuid.UUID, folio, total string, status models.InvoiceStatus, due *time.Time) models.InvoiceModel {
	inv := models.InvoiceModel{
		ClientID: clientID,
		Folio:    folio,
		Total:    decimal.RequireFromString(total),
		Status:   status,
		DueDate:  due,
	}
	require.NoError(t, db.Create(&inv).Error)
	return inv
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := receivable.Date(y, m, d)
	return &t
}

func TestGormPendingIncomeRepository_ListClientsWithPendingTotals(t *testing.T) {
	db := setupPendingIncomeTestDB(t)
	repo := NewGormPendingIncomeRepository(db)
	ctx := context.Background()

	borg := seedClient(t, db, "BorgWarner", 30)
	lennox := seedClient(t, db, "Lennox", 15)
	paidUp := seedClient(t, db, "Al Corriente SA", 30)
	seedClient(t, db, "Sin Facturas", 0)

	seedInvoice(t, db, borg.ID, "A-100", "2000.00", models.InvoiceStatusPending, datePtr(2024, 3, 10))
	seedInvoice(t, db, borg.ID, "A-101", "3568.00", models.InvoiceStatusPending, datePtr(2024, 3, 18))
	seedInvoice(t, db, borg.ID, "A-102", "999.00", models.InvoiceStatusPaid, datePtr(2024, 2, 1))
	seedInvoice(t, db, lennox.ID, "B-200", "800.00", models.InvoiceStatusPending, nil)
	seedInvoice(t, db, lennox.ID, "B-201", "50.00", models.InvoiceStatusCancelled, nil)
	seedInvoice(t, db, paidUp.ID, "C-300", "120.00", models.InvoiceStatusPaid, nil)

	totals, err := repo.ListClientsWithPendingTotals(ctx)
	require.NoError(t, err)
	require.Len(t, totals, 2)

	assert.Equal(t, borg.ID, totals[0].ClientID)
	assert.Equal(t, "BorgWarner", totals[0].ClientName)
	assert.True(t, decimal.RequireFromString("5568.00").Equal(totals[0].TotalPending), totals[0].TotalPending.String())

	assert.Equal(t, lennox.ID, totals[1].ClientID)
	assert.True(t, decimal.RequireFromString("800.00").Equal(totals[1].TotalPending))
}

func TestGormPendingIncomeRepository_ListPendingInvoicesForClient(t *testing.T) {
	db := setupPendingIncomeTestDB(t)
	ctx := context.Background()

	borg := seedClient(t, db, "BorgWarner", 30)
	other := seedClient(t, db, "Otro Cliente", 30)

	seedInvoice(t, db, borg.ID, "A-3", "30.00", models.InvoiceStatusPending, nil)
	seedInvoice(t, db, borg.ID, "A-2", "20.00", models.InvoiceStatusPending, datePtr(2024, 4, 1))
	seedInvoice(t, db, borg.ID, "A-1", "10.00", models.InvoiceStatusPending, datePtr(2024, 3, 1))
	seedInvoice(t, db, borg.ID, "A-0", "99.00", models.InvoiceStatusPaid, datePtr(2024, 1, 1))
	seedInvoice(t, db, other.ID, "Z-1", "5.00", models.InvoiceStatusPending, datePtr(2024, 1, 1))

	t.Run("returns pending invoices earliest due first", func(t *testing.T) {
		repo := NewGormPendingIncomeRepository(db)

		invoices, err := repo.ListPendingInvoicesForClient(ctx, borg.ID)
		require.NoError(t, err)
		require.Len(t, invoices, 3)

		assert.Equal(t, "A-1", invoices[0].Folio)
		assert.Equal(t, "A-2", invoices[1].Folio)
		assert.Equal(t, "A-3", invoices[2].Folio)
		require.NotNil(t, invoices[0].DueDate)
		assert.Equal(t, receivable.Date(2024, 3, 1), *invoices[0].DueDate)
		assert.Nil(t, invoices[2].DueDate)
		assert.True(t, decimal.RequireFromString("10.00").Equal(invoices[0].Total))
	})

	t.Run("caps the page size", func(t *testing.T) {
		repo := NewGormPendingIncomeRepository(db, WithMaxInvoicesPerClient(2))

		invoices, err := repo.ListPendingInvoicesForClient(ctx, borg.ID)
		require.NoError(t, err)
		assert.Len(t, invoices, 2)

		totals, err := repo.ListClientsWithPendingTotals(ctx)
		require.NoError(t, err)
		require.NotEmpty(t, totals)
		assert.True(t, decimal.RequireFromString("60.00").Equal(totals[0].TotalPending))
	})

	t.Run("unknown client has no invoices", func(t *testing.T) {
		repo := NewGormPendingIncomeRepository(db)

		invoices, err := repo.ListPendingInvoicesForClient(ctx, uuid.New())
		require.NoError(t, err)
		assert.Empty(t, invoices)
	})
}

func TestGormPendingIncomeRepository_GetClient(t *testing.T) {
	db := setupPendingIncomeTestDB(t)
	repo := NewGormPendingIncomeRepository(db)
	ctx := context.Background()

	lennox := seedClient(t, db, "Lennox", 45)

	t.Run("finds existing client", func(t *testing.T) {
		c, err := repo.GetClient(ctx, lennox.ID)
		require.NoError(t, err)
		assert.Equal(t, "Lennox", c.Name)
		assert.Equal(t, 45, c.CreditDays)
		assert.Equal(t, "XAXX010101000", c.TaxID)
	})

	t.Run("returns not found for unknown id", func(t *testing.T) {
		_, err := repo.GetClient(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormPendingIncomeRepository_WrapsDriverErrors(t *testing.T) {
	db, mock, mockDB := newMockDatabase(t)
	defer mockDB.Close()
	repo := NewGormPendingIncomeRepository(db.DB)

	mock.ExpectQuery(`SELECT c.id AS client_id`).
		WillReturnError(errors.New("server closed the connection"))

	_, err := repo.ListClientsWithPendingTotals(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list clients with pending totals")
	assert.Contains(t, err.Error(), "server closed the connection")
	assert.ErrorIs(t, err, shared.ErrUnavailable)
	assert.NoError(t, mock.ExpectationsWereMet())

	mock.ExpectQuery(`SELECT \* FROM "clients" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

	_, err = repo.GetClient(context.Background(), uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
