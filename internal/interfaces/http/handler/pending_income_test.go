package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appreceivable "github.com/imamecatronica/backend/internal/application/receivable"
	"github.com/imamecatronica/backend/internal/domain/identity"
	"github.com/imamecatronica/backend/internal/domain/receivable"
	"github.com/imamecatronica/backend/internal/domain/shared"
	"github.com/imamecatronica/backend/internal/interfaces/http/dto"
	"github.com/imamecatronica/backend/internal/interfaces/http/middleware"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockPendingIncomeService struct {
	mock.Mock
}

func (m *MockPendingIncomeService) ListClients(ctx context.Context, q receivable.ClientViewQuery) (*appreceivable.ClientList, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appreceivable.ClientList), args.Error(1)
}

func (m *MockPendingIncomeService) GetClientDetail(ctx context.Context, clientID uuid.UUID) (*appreceivable.ClientDetail, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appreceivable.ClientDetail), args.Error(1)
}

func (m *MockPendingIncomeService) ExportClients(ctx context.Context, q receivable.ClientViewQuery) (*appreceivable.ExportResult, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appreceivable.ExportResult), args.Error(1)
}

var testToday = receivable.Date(2024, time.March, 15)

func borgWarnerAggregate() receivable.ClientAggregate {
	due1 := receivable.Date(2024, time.March, 10)
	due2 := receivable.Date(2024, time.March, 20)
	invoices := []receivable.PendingInvoice{
		{ID: uuid.New(), Folio: "F-1", Total: decimal.RequireFromString("2000"), DueDate: &due1},
		{ID: uuid.New(), Folio: "F-2", Total: decimal.RequireFromString("3568"), DueDate: &due2},
	}
	return receivable.Aggregate(uuid.MustParse("6f1c7a52-3a3e-4c52-9a55-1f0d1e1b2c3d"), "BorgWarner",
		decimal.RequireFromString("5568"), invoices, testToday)
}

// newPendingIncomeRouter mounts the handler with perms pre-resolved, as the
// permission middleware would
func newPendingIncomeRouter(svc PendingIncomeService, perms ...identity.Permission) *gin.Engine {
	h := NewPendingIncomeHandler(svc)
	router := gin.New()
	router.Use(middleware.RequestID(), func(c *gin.Context) {
		c.Set(middleware.PermissionsKey, identity.NewPermissionSet(perms...))
		c.Next()
	})
	router.GET("/pending-incomes/clients", h.ListClients)
	router.GET("/pending-incomes/summary", h.GetSummary)
	router.GET("/pending-incomes/clients/:id", h.GetClientDetail)
	router.POST("/pending-incomes/exports", h.ExportClients)
	return router
}

func serve(router *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestPendingIncomeHandler_ListClients(t *testing.T) {
	svc := new(MockPendingIncomeService)
	agg := borgWarnerAggregate()
	query := receivable.ClientViewQuery{Search: "borg", Status: receivable.StatusFilterHasOverdue, Sort: receivable.SortDebtDesc}
	svc.On("ListClients", mock.Anything, query).Return(&appreceivable.ClientList{
		Today:   testToday,
		Query:   query,
		Clients: []receivable.ClientAggregate{agg},
		Summary: receivable.Summarize([]receivable.ClientAggregate{agg}),
	}, nil)

	w := serve(newPendingIncomeRouter(svc), http.MethodGet, "/pending-incomes/clients?search=borg&status=has_overdue&sort=bogus")

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(1), resp.Meta.Total)

	data := resp.Data.(map[string]any)
	clients := data["clients"].([]any)
	require.Len(t, clients, 1)
	first := clients[0].(map[string]any)
	assert.Equal(t, "BorgWarner", first["client_name"])
	assert.Equal(t, "BO", first["initials"])
	assert.Equal(t, map[string]any{"amount": "5568.00", "currency": "MXN"}, first["total_pending"])
	assert.Equal(t, map[string]any{"amount": "2000.00", "currency": "MXN"}, first["overdue_amount"])
	assert.Equal(t, map[string]any{"amount": "3568.00", "currency": "MXN"}, first["due_soon_amount"])

	summary := data["summary"].(map[string]any)
	assert.Equal(t, "2024-03-15", summary["today"])
	assert.Equal(t, "HAS_OVERDUE", summary["status"])
	assert.Equal(t, "DEBT_DESC", summary["sort"])
	svc.AssertExpectations(t)
}

func TestPendingIncomeHandler_ListClients_TooLongSearch(t *testing.T) {
	svc := new(MockPendingIncomeService)
	long := make([]byte, 101)
	for i := range long {
		long[i] = 'a'
	}

	w := serve(newPendingIncomeRouter(svc), http.MethodGet, "/pending-incomes/clients?search="+string(long))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "ListClients", mock.Anything, mock.Anything)
}

func TestPendingIncomeHandler_ListClients_SourceFailure(t *testing.T) {
	svc := new(MockPendingIncomeService)
	svc.On("ListClients", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("list clients with pending totals: %w", shared.ErrUnavailable))

	w := serve(newPendingIncomeRouter(svc), http.MethodGet, "/pending-incomes/clients")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, dto.ErrCodeInternal, decodeResponse(t, w).Error.Code)
}

func TestPendingIncomeHandler_GetSummary(t *testing.T) {
	svc := new(MockPendingIncomeService)
	agg := borgWarnerAggregate()
	svc.On("ListClients", mock.Anything, receivable.ClientViewQuery{Status: receivable.StatusFilterAll, Sort: receivable.SortDebtDesc}).
		Return(&appreceivable.ClientList{
			Today:   testToday,
			Query:   receivable.ClientViewQuery{Status: receivable.StatusFilterAll, Sort: receivable.SortDebtDesc},
			Clients: []receivable.ClientAggregate{agg},
			Summary: receivable.Summarize([]receivable.ClientAggregate{agg}),
		}, nil)

	w := serve(newPendingIncomeRouter(svc), http.MethodGet, "/pending-incomes/summary")

	require.Equal(t, http.StatusOK, w.Code)
	data := decodeResponse(t, w).Data.(map[string]any)
	assert.EqualValues(t, 1, data["client_count"])
	assert.EqualValues(t, 2, data["invoice_count"])
	assert.EqualValues(t, 1, data["clients_with_overdue"])
	assert.Equal(t, map[string]any{"amount": "5568.00", "currency": "MXN"}, data["total_pending"])
}

func detailFixture() *appreceivable.ClientDetail {
	agg := borgWarnerAggregate()
	due := receivable.Date(2024, time.March, 12)
	invoices := []receivable.PendingInvoice{{ID: uuid.New(), Folio: "F-9", Total: decimal.RequireFromString("10"), DueDate: &due}}
	return &appreceivable.ClientDetail{
		Today:     testToday,
		Client:    receivable.Client{ID: agg.ClientID, Name: agg.ClientName, CreditDays: 30, TaxID: "BWM980101AB1", ContactEmail: "cxp@borgwarner.com"},
		Aggregate: agg,
		Invoices:  receivable.Detail(invoices, testToday),
	}
}

func TestPendingIncomeHandler_GetClientDetail(t *testing.T) {
	detail := detailFixture()

	t.Run("with credit permission", func(t *testing.T) {
		svc := new(MockPendingIncomeService)
		svc.On("GetClientDetail", mock.Anything, detail.Client.ID).Return(detail, nil)

		w := serve(newPendingIncomeRouter(svc, identity.PermPendingIncomeRead, identity.PermClientCreditRead),
			http.MethodGet, "/pending-incomes/clients/"+detail.Client.ID.String())

		require.Equal(t, http.StatusOK, w.Code)
		data := decodeResponse(t, w).Data.(map[string]any)
		client := data["client"].(map[string]any)
		assert.EqualValues(t, 30, client["credit_days"])
		assert.Equal(t, "BWM980101AB1", client["tax_id"])

		invoices := data["invoices"].([]any)
		require.Len(t, invoices, 1)
		inv := invoices[0].(map[string]any)
		assert.Equal(t, "OVERDUE", inv["status"])
		assert.Equal(t, "-3", inv["days"])
		assert.Equal(t, "2024-03-12", inv["due_date"])
		assert.Nil(t, inv["invoice_date"])
	})

	t.Run("without credit permission", func(t *testing.T) {
		svc := new(MockPendingIncomeService)
		svc.On("GetClientDetail", mock.Anything, detail.Client.ID).Return(detail, nil)

		w := serve(newPendingIncomeRouter(svc, identity.PermPendingIncomeRead),
			http.MethodGet, "/pending-incomes/clients/"+detail.Client.ID.String())

		require.Equal(t, http.StatusOK, w.Code)
		client := decodeResponse(t, w).Data.(map[string]any)["client"].(map[string]any)
		assert.NotContains(t, client, "credit_days")
		assert.NotContains(t, client, "tax_id")
		assert.NotContains(t, client, "contact_email")
		assert.Equal(t, "BorgWarner", client["name"])
	})

	t.Run("invalid id", func(t *testing.T) {
		svc := new(MockPendingIncomeService)
		w := serve(newPendingIncomeRouter(svc), http.MethodGet, "/pending-incomes/clients/not-a-uuid")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeBadRequest, decodeResponse(t, w).Error.Code)
		svc.AssertNotCalled(t, "GetClientDetail", mock.Anything, mock.Anything)
	})

	t.Run("unknown client", func(t *testing.T) {
		svc := new(MockPendingIncomeService)
		id := uuid.New()
		svc.On("GetClientDetail", mock.Anything, id).Return(nil, fmt.Errorf("get client %s: %w", id, shared.ErrNotFound))

		w := serve(newPendingIncomeRouter(svc), http.MethodGet, "/pending-incomes/clients/"+id.String())

		assert.Equal(t, http.StatusNotFound, w.Code)
		resp := decodeResponse(t, w)
		assert.Equal(t, dto.ErrCodeNotFound, resp.Error.Code)
		assert.NotEmpty(t, resp.Error.RequestID)
	})
}

func TestPendingIncomeHandler_ExportClients(t *testing.T) {
	t.Run("stored", func(t *testing.T) {
		svc := new(MockPendingIncomeService)
		svc.On("ExportClients", mock.Anything, receivable.ClientViewQuery{Status: receivable.StatusFilterHasDueSoon, Sort: receivable.SortNameAsc}).
			Return(&appreceivable.ExportResult{Key: "pending-incomes/20240315/abc.csv", Rows: 3, Size: 420}, nil)

		w := serve(newPendingIncomeRouter(svc), http.MethodPost, "/pending-incomes/exports?status=HAS_DUE_SOON&sort=NAME_ASC")

		require.Equal(t, http.StatusCreated, w.Code)
		assert.JSONEq(t, `{"success":true,"data":{"key":"pending-incomes/20240315/abc.csv","rows":3,"size":420}}`, w.Body.String())
	})

	t.Run("storage not configured", func(t *testing.T) {
		svc := new(MockPendingIncomeService)
		svc.On("ExportClients", mock.Anything, mock.Anything).Return(nil, appreceivable.ErrExportUnavailable)

		w := serve(newPendingIncomeRouter(svc), http.MethodPost, "/pending-incomes/exports")

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, dto.ErrCodeServiceUnavailable, decodeResponse(t, w).Error.Code)
	})
}
