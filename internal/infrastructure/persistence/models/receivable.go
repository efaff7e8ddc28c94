package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/imamecatronica/backend/internal/domain/receivable"
	"github.com/shopspring/decimal"
)

// InvoiceStatus is the settlement state of a stored invoice
type InvoiceStatus string

const (
	InvoiceStatusPending   InvoiceStatus = "PENDING"   // issued, not yet collected
	InvoiceStatusPaid      InvoiceStatus = "PAID"      // collected in full
	InvoiceStatusCancelled InvoiceStatus = "CANCELLED" // voided
)

// ClientModel is the persistence model for clients
type ClientModel struct {
	BaseModel
	Name         string `gorm:"type:varchar(200);not null;index"`
	TaxID        string `gorm:"column:tax_id;type:varchar(13)"`
	ContactEmail string `gorm:"type:varchar(200)"`
	CreditDays   int    `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (ClientModel) TableName() string {
	return "clients"
}

// ToDomain converts the model to client metadata
func (m *ClientModel) ToDomain() *receivable.Client {
	return &receivable.Client{
		ID:           m.ID,
		Name:         m.Name,
		CreditDays:   m.CreditDays,
		TaxID:        m.TaxID,
		ContactEmail: m.ContactEmail,
	}
}

// InvoiceModel is the persistence model for issued invoices
type InvoiceModel struct {
	BaseModel
	ClientID      uuid.UUID       `gorm:"type:uuid;not null;index:idx_invoices_client_status,priority:1"`
	Folio         string          `gorm:"type:varchar(50);not null"`
	Total         decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Status        InvoiceStatus   `gorm:"type:varchar(20);not null;default:'PENDING';index:idx_invoices_client_status,priority:2"`
	InvoiceDate   *time.Time      `gorm:"type:date"`
	ReceptionDate *time.Time      `gorm:"type:date"`
	DueDate       *time.Time      `gorm:"type:date;index"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the model to a pending invoice
func (m *InvoiceModel) ToDomain() receivable.PendingInvoice {
	return receivable.PendingInvoice{
		ID:            m.ID,
		Folio:         m.Folio,
		Total:         m.Total,
		InvoiceDate:   dateOnly(m.InvoiceDate),
		ReceptionDate: dateOnly(m.ReceptionDate),
		DueDate:       dateOnly(m.DueDate),
	}
}

func dateOnly(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := receivable.DateOf(*t)
	return &d
}
