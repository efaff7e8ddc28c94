// Package storage provides object storage for generated reports.
package storage

import (
	"context"
	"errors"
)

// ContentTypeCSV is the content type of CSV exports
const ContentTypeCSV = "text/csv; charset=utf-8"

// ErrEmptyKey is returned when an object key is blank
var ErrEmptyKey = errors.New("storage key is required")

// ReportStorage stores finished report files under a caller-chosen key
type ReportStorage interface {
	Put(ctx context.Context, key, contentType string, body []byte) error
}
