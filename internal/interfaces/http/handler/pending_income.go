package handler

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appreceivable "github.com/imamecatronica/backend/internal/application/receivable"
	"github.com/imamecatronica/backend/internal/domain/identity"
	"github.com/imamecatronica/backend/internal/domain/receivable"
	"github.com/imamecatronica/backend/internal/interfaces/http/dto"
	"github.com/imamecatronica/backend/internal/interfaces/http/middleware"
)

// PendingIncomeService is the application surface used by the handler
type PendingIncomeService interface {
	ListClients(ctx context.Context, q receivable.ClientViewQuery) (*appreceivable.ClientList, error)
	GetClientDetail(ctx context.Context, clientID uuid.UUID) (*appreceivable.ClientDetail, error)
	ExportClients(ctx context.Context, q receivable.ClientViewQuery) (*appreceivable.ExportResult, error)
}

// PendingIncomeHandler serves the pending-income views
type PendingIncomeHandler struct {
	BaseHandler
	service PendingIncomeService
}

// NewPendingIncomeHandler creates a new PendingIncomeHandler
func NewPendingIncomeHandler(service PendingIncomeService) *PendingIncomeHandler {
	return &PendingIncomeHandler{service: service}
}

// ClientListResponse is the client list payload
type ClientListResponse struct {
	Clients []dto.ClientAggregateResponse `json:"clients"`
	Summary dto.PortfolioSummaryResponse  `json:"summary"`
}

// ListClients godoc
// @Summary      Clients with pending income
// @Tags         pending-incomes
// @Produce      json
// @Security     BearerAuth
// @Param        search query string false "Case-insensitive client name filter"
// @Param        status query string false "ALL, HAS_OVERDUE, HAS_DUE_SOON or CURRENT_ONLY"
// @Param        sort   query string false "DEBT_DESC, DEBT_ASC, INVOICE_COUNT_DESC or NAME_ASC"
// @Success      200 {object} dto.Response{data=ClientListResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /pending-incomes/clients [get]
func (h *PendingIncomeHandler) ListClients(c *gin.Context) {
	list, ok := h.loadList(c)
	if !ok {
		return
	}
	h.SuccessWithTotal(c, ClientListResponse{
		Clients: dto.ToClientAggregateResponses(list.Clients),
		Summary: dto.ToPortfolioSummaryResponse(list),
	}, len(list.Clients))
}

// GetSummary godoc
// @Summary      Portfolio summary of a client view
// @Tags         pending-incomes
// @Produce      json
// @Security     BearerAuth
// @Param        search query string false "Case-insensitive client name filter"
// @Param        status query string false "Status filter"
// @Success      200 {object} dto.Response{data=dto.PortfolioSummaryResponse}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /pending-incomes/summary [get]
func (h *PendingIncomeHandler) GetSummary(c *gin.Context) {
	list, ok := h.loadList(c)
	if !ok {
		return
	}
	h.Success(c, dto.ToPortfolioSummaryResponse(list))
}

func (h *PendingIncomeHandler) loadList(c *gin.Context) (*appreceivable.ClientList, bool) {
	var q dto.ClientListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		middleware.HandleValidationError(c, err)
		return nil, false
	}

	list, err := h.service.ListClients(c.Request.Context(), q.ToViewQuery())
	if err != nil {
		h.HandleError(c, err)
		return nil, false
	}
	return list, true
}

// GetClientDetail godoc
// @Summary      Pending invoices of one client
// @Tags         pending-incomes
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Client ID" format(uuid)
// @Success      200 {object} dto.Response{data=dto.ClientDetailResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /pending-incomes/clients/{id} [get]
func (h *PendingIncomeHandler) GetClientDetail(c *gin.Context) {
	clientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid client ID format")
		return
	}

	detail, err := h.service.GetClientDetail(c.Request.Context(), clientID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp := dto.ToClientDetailResponse(detail)
	if perms, ok := middleware.GetPermissions(c); !ok || !perms.Has(identity.PermClientCreditRead) {
		resp.Client.CreditDays = nil
		resp.Client.TaxID = ""
		resp.Client.ContactEmail = ""
	}
	h.Success(c, resp)
}

// ExportClients godoc
// @Summary      Export a client view as CSV
// @Tags         pending-incomes
// @Produce      json
// @Security     BearerAuth
// @Param        search query string false "Case-insensitive client name filter"
// @Param        status query string false "Status filter"
// @Param        sort   query string false "Sort order"
// @Success      201 {object} dto.Response{data=dto.ExportResponse}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /pending-incomes/exports [post]
func (h *PendingIncomeHandler) ExportClients(c *gin.Context) {
	var q dto.ClientListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.service.ExportClients(c.Request.Context(), q.ToViewQuery())
	if err != nil {
		if errors.Is(err, appreceivable.ErrExportUnavailable) {
			h.ServiceUnavailable(c, "Report export is not configured")
			return
		}
		h.HandleError(c, err)
		return
	}
	h.Created(c, dto.ToExportResponse(result))
}
