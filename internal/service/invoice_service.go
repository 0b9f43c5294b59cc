package service

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/soldi-app/soldi-backend/internal/domain"
	"github.com/soldi-app/soldi-backend/internal/websocket"
)

// InvoiceService handles invoice-related business logic
type InvoiceService struct {
	invoiceRepo    domain.InvoiceRepository
	eventPublisher websocket.EventPublisher
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(invoiceRepo domain.InvoiceRepository) *InvoiceService {
	return &InvoiceService{
		invoiceRepo: invoiceRepo,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *InvoiceService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *InvoiceService) publishEvent(event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(event)
	}
}

// CreateInvoiceInput holds the input for creating an invoice
type CreateInvoiceInput struct {
	ClientName  string
	InvoiceDate time.Time
	DueDate     time.Time
	TotalAmount decimal.Decimal
	Status      domain.InvoiceStatus
}

// CreateInvoice creates a new invoice with validation. New invoices start as
// draft or sent; payments arrive through RecordPayment.
func (s *InvoiceService) CreateInvoice(input CreateInvoiceInput) (*domain.InvoiceRecord, error) {
	clientName := strings.TrimSpace(input.ClientName)
	if clientName == "" {
		return nil, domain.ErrNameRequired
	}
	if input.TotalAmount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	status := input.Status
	if status == "" {
		status = domain.InvoiceStatusDraft
	}
	if status != domain.InvoiceStatusDraft && status != domain.InvoiceStatusSent {
		return nil, domain.ErrInvalidStatus
	}

	dueDate := input.DueDate
	if dueDate.IsZero() {
		dueDate = input.InvoiceDate.AddDate(0, 1, 0)
	}

	invoice := &domain.InvoiceRecord{
		ID:              uuid.New(),
		ClientName:      clientName,
		InvoiceDate:     input.InvoiceDate,
		DueDate:         dueDate,
		TotalAmount:     input.TotalAmount,
		PaidAmount:      decimal.Zero,
		RemainingAmount: input.TotalAmount,
		Status:          status,
	}

	created, err := s.invoiceRepo.Create(invoice)
	if err != nil {
		return nil, err
	}

	s.publishEvent(websocket.InvoiceCreated(created))
	return created, nil
}

// GetInvoice retrieves an invoice by ID
func (s *InvoiceService) GetInvoice(id uuid.UUID) (*domain.InvoiceRecord, error) {
	return s.invoiceRepo.GetByID(id)
}

// ListInvoices retrieves invoices matching the filters
func (s *InvoiceService) ListInvoices(filters *domain.InvoiceFilters) ([]*domain.InvoiceRecord, error) {
	if filters == nil {
		filters = &domain.InvoiceFilters{}
	}
	return s.invoiceRepo.List(filters)
}

// UpdateInvoiceInput holds the updatable invoice fields
type UpdateInvoiceInput struct {
	ClientName  string
	InvoiceDate time.Time
	DueDate     time.Time
	TotalAmount decimal.Decimal
	Status      *domain.InvoiceStatus
}

// UpdateInvoice updates an unpaid invoice. Paid invoices are immutable.
func (s *InvoiceService) UpdateInvoice(id uuid.UUID, input UpdateInvoiceInput) (*domain.InvoiceRecord, error) {
	existing, err := s.invoiceRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if existing.Status == domain.InvoiceStatusPaid {
		return nil, domain.ErrInvoiceFinalized
	}

	clientName := strings.TrimSpace(input.ClientName)
	if clientName == "" {
		return nil, domain.ErrNameRequired
	}
	if input.TotalAmount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}
	if input.TotalAmount.LessThan(existing.PaidAmount) {
		return nil, domain.ErrInvalidAmount
	}

	if input.Status != nil {
		switch *input.Status {
		case domain.InvoiceStatusDraft, domain.InvoiceStatusSent:
			if existing.PaidAmount.IsPositive() {
				return nil, domain.ErrInvalidStatus
			}
			existing.Status = *input.Status
		default:
			return nil, domain.ErrInvalidStatus
		}
	}

	existing.ClientName = clientName
	existing.InvoiceDate = input.InvoiceDate
	existing.DueDate = input.DueDate
	existing.TotalAmount = input.TotalAmount
	existing.RemainingAmount = input.TotalAmount.Sub(existing.PaidAmount)

	updated, err := s.invoiceRepo.Update(existing)
	if err != nil {
		return nil, err
	}

	s.publishEvent(websocket.InvoiceUpdated(updated))
	return updated, nil
}

// DeleteInvoice removes an invoice
func (s *InvoiceService) DeleteInvoice(id uuid.UUID) error {
	invoice, err := s.invoiceRepo.GetByID(id)
	if err != nil {
		return err
	}

	if err := s.invoiceRepo.Delete(id); err != nil {
		return err
	}

	s.publishEvent(websocket.InvoiceDeleted(invoice))
	return nil
}

// RecordPayment applies a payment to an invoice, moving it to partial or
// paid. The remaining amount never drops below zero.
func (s *InvoiceService) RecordPayment(id uuid.UUID, amount decimal.Decimal, paidOn time.Time) (*domain.InvoiceRecord, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	invoice, err := s.invoiceRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if invoice.Status == domain.InvoiceStatusPaid {
		return nil, domain.ErrInvoiceFinalized
	}
	if amount.GreaterThan(invoice.Outstanding()) {
		return nil, domain.ErrOverpayment
	}

	invoice.PaidAmount = invoice.PaidAmount.Add(amount)
	invoice.RemainingAmount = invoice.TotalAmount.Sub(invoice.PaidAmount)

	if invoice.RemainingAmount.IsZero() {
		invoice.Status = domain.InvoiceStatusPaid
		paidDate := paidOn
		invoice.PaidDate = &paidDate
	} else {
		invoice.Status = domain.InvoiceStatusPartial
	}

	updated, err := s.invoiceRepo.Update(invoice)
	if err != nil {
		return nil, err
	}

	if updated.Status == domain.InvoiceStatusPaid {
		s.publishEvent(websocket.InvoicePaid(updated))
	} else {
		s.publishEvent(websocket.InvoiceUpdated(updated))
	}
	return updated, nil
}
