package receivable

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/imamecatronica/backend/internal/domain/receivable"
	"github.com/imamecatronica/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

const csvContentType = "text/csv; charset=utf-8"

// ErrExportUnavailable is returned when no report storage is configured
var ErrExportUnavailable = errors.New("report storage is not configured")

var exportHeader = []string{
	"client_id", "client", "initials", "invoices", "total_pending",
	"overdue_count", "overdue_amount", "due_soon_count", "due_soon_amount",
}

// ExportResult describes a stored export
type ExportResult struct {
	Key  string
	Rows int
	Size int
}

// ExportClients writes the client view for q as CSV to report storage.
// Rows follow the view order.
func (s *PendingIncomeService) ExportClients(ctx context.Context, q receivable.ClientViewQuery) (*ExportResult, error) {
	if s.storage == nil {
		return nil, ErrExportUnavailable
	}

	list, err := s.ListClients(ctx, q)
	if err != nil {
		return nil, err
	}

	body, err := encodeClientsCSV(list.Clients)
	if err != nil {
		return nil, fmt.Errorf("encode export: %w", err)
	}

	key := fmt.Sprintf("pending-incomes/%s/%s.csv", list.Today.Format("20060102"), uuid.New())
	if err := s.storage.Put(ctx, key, csvContentType, body); err != nil {
		return nil, fmt.Errorf("store export: %w", err)
	}

	logger.Enrich(ctx, s.logger).Info("Pending income exported",
		zap.String("key", key),
		zap.Int("rows", len(list.Clients)),
		zap.String("status", string(q.Status)),
		zap.String("sort", string(q.Sort)),
	)
	return &ExportResult{Key: key, Rows: len(list.Clients), Size: len(body)}, nil
}

func encodeClientsCSV(clients []receivable.ClientAggregate) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(exportHeader); err != nil {
		return nil, err
	}
	for _, c := range clients {
		record := []string{
			c.ClientID.String(),
			c.ClientName,
			c.Initials,
			strconv.Itoa(c.InvoiceCount),
			c.TotalPending.StringFixed(2),
			strconv.Itoa(c.OverdueCount),
			c.OverdueAmount.StringFixed(2),
			strconv.Itoa(c.DueSoonCount),
			c.DueSoonAmount.StringFixed(2),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
