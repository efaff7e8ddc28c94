package receivable

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/imamecatronica/backend/internal/domain/receivable"
	"github.com/imamecatronica/backend/internal/domain/shared"
	"github.com/imamecatronica/backend/internal/infrastructure/logger"
	"github.com/imamecatronica/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultFetchConcurrency bounds parallel per-client invoice fetches
const DefaultFetchConcurrency = 4

// Clock returns the current instant
type Clock func() time.Time

// MetricsRecorder receives pending-income load metrics
type MetricsRecorder interface {
	RecordLoad(ctx context.Context, operation string, d time.Duration, err error)
	RecordDiscrepancy(ctx context.Context)
}

type nopMetrics struct{}

func (nopMetrics) RecordLoad(context.Context, string, time.Duration, error) {}
func (nopMetrics) RecordDiscrepancy(context.Context)                        {}

// ReportStorage stores generated report files
type ReportStorage interface {
	Put(ctx context.Context, key, contentType string, body []byte) error
}

// PendingIncomeService loads pending income through the reader, derives
// "today" in the business time zone and runs the aging engine.
type PendingIncomeService struct {
	reader      receivable.PendingIncomeReader
	storage     ReportStorage
	metrics     MetricsRecorder
	clock       Clock
	location    *time.Location
	concurrency int
	logger      *zap.Logger
}

// Option configures PendingIncomeService
type Option func(*PendingIncomeService)

// WithClock sets the clock used to derive today's date
func WithClock(clock Clock) Option {
	return func(s *PendingIncomeService) { s.clock = clock }
}

// WithLocation sets the business time zone
func WithLocation(loc *time.Location) Option {
	return func(s *PendingIncomeService) {
		if loc != nil {
			s.location = loc
		}
	}
}

// WithFetchConcurrency bounds parallel invoice fetches. Values below 1 are ignored.
func WithFetchConcurrency(n int) Option {
	return func(s *PendingIncomeService) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithMetrics sets the metrics recorder
func WithMetrics(m MetricsRecorder) Option {
	return func(s *PendingIncomeService) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithReportStorage sets where exports are written
func WithReportStorage(st ReportStorage) Option {
	return func(s *PendingIncomeService) { s.storage = st }
}

// NewPendingIncomeService creates a new pending-income service
func NewPendingIncomeService(reader receivable.PendingIncomeReader, logger *zap.Logger, opts ...Option) *PendingIncomeService {
	s := &PendingIncomeService{
		reader:      reader,
		metrics:     nopMetrics{},
		clock:       time.Now,
		location:    time.UTC,
		concurrency: DefaultFetchConcurrency,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Today returns the current calendar date in the business time zone
func (s *PendingIncomeService) Today() time.Time {
	return receivable.DateOf(s.clock().In(s.location))
}

// LoadClients builds one aggregate per client with pending income, in the
// reader's client order. Any failed fetch fails the whole load.
func (s *PendingIncomeService) LoadClients(ctx context.Context) ([]receivable.ClientAggregate, error) {
	return s.loadClients(ctx, s.Today())
}

func (s *PendingIncomeService) loadClients(ctx context.Context, today time.Time) (clients []receivable.ClientAggregate, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "pending_income", "load_clients")
	start := time.Now()
	defer func() {
		s.metrics.RecordLoad(ctx, "load_clients", time.Since(start), err)
		telemetry.EndSpan(span, err)
	}()

	totals, err := s.reader.ListClientsWithPendingTotals(ctx)
	if err != nil {
		return nil, fmt.Errorf("list clients with pending totals: %w", err)
	}
	span.SetAttributes(attribute.Int("pending_income.clients", len(totals)))

	clients = make([]receivable.ClientAggregate, len(totals))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, t := range totals {
		g.Go(func() error {
			invoices, err := s.reader.ListPendingInvoicesForClient(gctx, t.ClientID)
			if err != nil {
				return fmt.Errorf("list pending invoices for client %s: %w", t.ClientID, err)
			}
			s.checkTotal(gctx, t, invoices)
			clients[i] = receivable.Aggregate(t.ClientID, t.ClientName, t.TotalPending, invoices, today)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	logger.Enrich(ctx, s.logger).Debug("Pending income loaded",
		zap.Int("clients", len(clients)),
		zap.Time("today", today),
	)
	return clients, nil
}

// checkTotal reports clients whose supplied total differs from the sum of the
// listed invoices. The supplied total is kept as is.
func (s *PendingIncomeService) checkTotal(ctx context.Context, t receivable.ClientPendingTotal, invoices []receivable.PendingInvoice) {
	enumerated := receivable.EnumeratedTotal(invoices)
	if enumerated.Equal(t.TotalPending) {
		return
	}
	s.metrics.RecordDiscrepancy(ctx)
	logger.Enrich(ctx, s.logger).Warn("Pending total differs from enumerated invoices",
		zap.String("client_id", t.ClientID.String()),
		zap.String("client_name", t.ClientName),
		zap.String("total_pending", t.TotalPending.StringFixed(2)),
		zap.String("enumerated_total", enumerated.StringFixed(2)),
		zap.String("difference", t.TotalPending.Sub(enumerated).StringFixed(2)),
		zap.Int("invoices", len(invoices)),
	)
}

// ClientList is a filtered, sorted client view with its summary
type ClientList struct {
	Today   time.Time
	Query   receivable.ClientViewQuery
	Clients []receivable.ClientAggregate
	Summary receivable.PortfolioSummary
}

// ListClients loads all clients and applies q
func (s *PendingIncomeService) ListClients(ctx context.Context, q receivable.ClientViewQuery) (*ClientList, error) {
	today := s.Today()
	all, err := s.loadClients(ctx, today)
	if err != nil {
		return nil, err
	}
	view := receivable.View(all, q)
	return &ClientList{
		Today:   today,
		Query:   q,
		Clients: view,
		Summary: receivable.Summarize(view),
	}, nil
}

// ClientDetail is the header and due-date ordered invoices of one client
type ClientDetail struct {
	Today     time.Time
	Client    receivable.Client
	Aggregate receivable.ClientAggregate
	Invoices  []receivable.InvoiceDetail
}

// GetClientDetail resolves one client and its pending invoices. The
// aggregate carries the reader's supplied total for the client, zero when the
// client has no pending balance row.
// Unknown clients return an error wrapping shared.ErrNotFound.
func (s *PendingIncomeService) GetClientDetail(ctx context.Context, clientID uuid.UUID) (detail *ClientDetail, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "pending_income", "client_detail",
		attribute.String("client_id", clientID.String()))
	start := time.Now()
	defer func() {
		s.metrics.RecordLoad(ctx, "client_detail", time.Since(start), err)
		telemetry.EndSpan(span, err)
	}()

	if clientID == uuid.Nil {
		return nil, shared.ErrInvalidInput.WithMessage("client id is required")
	}

	client, err := s.reader.GetClient(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("get client %s: %w", clientID, err)
	}

	var (
		supplied receivable.ClientPendingTotal
		invoices []receivable.PendingInvoice
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t, err := s.suppliedTotal(gctx, client)
		supplied = t
		return err
	})
	g.Go(func() error {
		list, err := s.reader.ListPendingInvoicesForClient(gctx, clientID)
		if err != nil {
			return fmt.Errorf("list pending invoices for client %s: %w", clientID, err)
		}
		invoices = list
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	s.checkTotal(ctx, supplied, invoices)

	today := s.Today()
	return &ClientDetail{
		Today:     today,
		Client:    *client,
		Aggregate: receivable.Aggregate(client.ID, client.Name, supplied.TotalPending, invoices, today),
		Invoices:  receivable.Detail(invoices, today),
	}, nil
}

// suppliedTotal finds the client's row among the reader's pending totals
func (s *PendingIncomeService) suppliedTotal(ctx context.Context, client *receivable.Client) (receivable.ClientPendingTotal, error) {
	totals, err := s.reader.ListClientsWithPendingTotals(ctx)
	if err != nil {
		return receivable.ClientPendingTotal{}, fmt.Errorf("list clients with pending totals: %w", err)
	}
	for _, t := range totals {
		if t.ClientID == client.ID {
			return t, nil
		}
	}
	return receivable.ClientPendingTotal{ClientID: client.ID, ClientName: client.Name}, nil
}
