package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type InvoiceStatus string

const (
	InvoiceStatusDraft   InvoiceStatus = "draft"
	InvoiceStatusSent    InvoiceStatus = "sent"
	InvoiceStatusPartial InvoiceStatus = "partial"
	InvoiceStatusPaid    InvoiceStatus = "paid"
)

// InvoiceRecord is a receivable issued to a client.
// Invariant: RemainingAmount >= 0 while the invoice is unpaid.
type InvoiceRecord struct {
	ID              uuid.UUID       `json:"id"`
	ClientName      string          `json:"clientName"`
	InvoiceDate     time.Time       `json:"invoiceDate"`
	DueDate         time.Time       `json:"dueDate"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	PaidAmount      decimal.Decimal `json:"paidAmount"`
	RemainingAmount decimal.Decimal `json:"remainingAmount"`
	Status          InvoiceStatus   `json:"status"`
	PaidDate        *time.Time      `json:"paidDate,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// Outstanding returns the amount still expected from the invoice.
// An explicitly set RemainingAmount wins over TotalAmount - PaidAmount.
func (i *InvoiceRecord) Outstanding() decimal.Decimal {
	if i.Status == InvoiceStatusPaid {
		return decimal.Zero
	}
	if !i.RemainingAmount.IsZero() {
		return i.RemainingAmount
	}
	return i.TotalAmount.Sub(i.PaidAmount)
}

// RealizedDate is the date the income counts toward history:
// the paid date when known, otherwise the issue date.
func (i *InvoiceRecord) RealizedDate() time.Time {
	if i.PaidDate != nil {
		return *i.PaidDate
	}
	return i.InvoiceDate
}

type InvoiceFilters struct {
	Status    *InvoiceStatus
	StartDate *time.Time
	EndDate   *time.Time
}

type InvoiceRepository interface {
	Create(invoice *InvoiceRecord) (*InvoiceRecord, error)
	GetByID(id uuid.UUID) (*InvoiceRecord, error)
	List(filters *InvoiceFilters) ([]*InvoiceRecord, error)
	Update(invoice *InvoiceRecord) (*InvoiceRecord, error)
	Delete(id uuid.UUID) error
}
