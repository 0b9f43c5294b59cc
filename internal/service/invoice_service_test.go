package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/soldi-app/soldi-backend/internal/domain"
	"github.com/soldi-app/soldi-backend/internal/testutil"
)

func TestInvoiceService_CreateInvoice_Defaults(t *testing.T) {
	repo := testutil.NewMockInvoiceRepository()
	publisher := testutil.NewMockPublisher()

	service := NewInvoiceService(repo)
	service.SetEventPublisher(publisher)

	invoiceDate := time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)
	created, err := service.CreateInvoice(CreateInvoiceInput{
		ClientName:  "Acme Corp",
		InvoiceDate: invoiceDate,
		TotalAmount: decimal.NewFromInt(4500),
	})

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if created.Status != domain.InvoiceStatusDraft {
		t.Errorf("expected draft status, got %s", created.Status)
	}
	wantDue := invoiceDate.AddDate(0, 1, 0)
	if !created.DueDate.Equal(wantDue) {
		t.Errorf("expected due date %s, got %s", wantDue, created.DueDate)
	}
	if !created.RemainingAmount.Equal(created.TotalAmount) {
		t.Error("expected remaining amount to start at total")
	}
	types := publisher.EventTypes()
	if len(types) != 1 || types[0] != "invoice.created" {
		t.Errorf("expected invoice.created event, got %v", types)
	}
}

func TestInvoiceService_CreateInvoice_Validation(t *testing.T) {
	partial := domain.InvoiceStatusPartial
	tests := []struct {
		name    string
		input   CreateInvoiceInput
		wantErr error
	}{
		{
			name:    "empty client name",
			input:   CreateInvoiceInput{ClientName: " ", TotalAmount: decimal.NewFromInt(100)},
			wantErr: domain.ErrNameRequired,
		},
		{
			name:    "zero total",
			input:   CreateInvoiceInput{ClientName: "Acme", TotalAmount: decimal.Zero},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name:    "cannot create as partial",
			input:   CreateInvoiceInput{ClientName: "Acme", TotalAmount: decimal.NewFromInt(100), Status: partial},
			wantErr: domain.ErrInvalidStatus,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewInvoiceService(testutil.NewMockInvoiceRepository())

			_, err := service.CreateInvoice(tt.input)
			if err != tt.wantErr {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestInvoiceService_UpdateInvoice_PaidIsImmutable(t *testing.T) {
	repo := testutil.NewMockInvoiceRepository()

	invoice := &domain.InvoiceRecord{
		ID:          uuid.New(),
		ClientName:  "Acme Corp",
		TotalAmount: decimal.NewFromInt(1000),
		PaidAmount:  decimal.NewFromInt(1000),
		Status:      domain.InvoiceStatusPaid,
	}
	repo.AddInvoice(invoice)

	service := NewInvoiceService(repo)

	_, err := service.UpdateInvoice(invoice.ID, UpdateInvoiceInput{
		ClientName:  "Acme Corp",
		TotalAmount: decimal.NewFromInt(2000),
	})

	if err != domain.ErrInvoiceFinalized {
		t.Errorf("expected ErrInvoiceFinalized, got %v", err)
	}
}

func TestInvoiceService_UpdateInvoice_TotalBelowPaid(t *testing.T) {
	repo := testutil.NewMockInvoiceRepository()

	invoice := &domain.InvoiceRecord{
		ID:              uuid.New(),
		ClientName:      "Acme Corp",
		TotalAmount:     decimal.NewFromInt(1000),
		PaidAmount:      decimal.NewFromInt(600),
		RemainingAmount: decimal.NewFromInt(400),
		Status:          domain.InvoiceStatusPartial,
	}
	repo.AddInvoice(invoice)

	service := NewInvoiceService(repo)

	_, err := service.UpdateInvoice(invoice.ID, UpdateInvoiceInput{
		ClientName:  "Acme Corp",
		TotalAmount: decimal.NewFromInt(500),
	})

	if err != domain.ErrInvalidAmount {
		t.Errorf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestInvoiceService_RecordPayment_Partial(t *testing.T) {
	repo := testutil.NewMockInvoiceRepository()
	publisher := testutil.NewMockPublisher()

	invoice := &domain.InvoiceRecord{
		ID:              uuid.New(),
		ClientName:      "Acme Corp",
		TotalAmount:     decimal.NewFromInt(5000),
		PaidAmount:      decimal.Zero,
		RemainingAmount: decimal.NewFromInt(5000),
		Status:          domain.InvoiceStatusSent,
	}
	repo.AddInvoice(invoice)

	service := NewInvoiceService(repo)
	service.SetEventPublisher(publisher)

	updated, err := service.RecordPayment(invoice.ID, decimal.NewFromInt(2000), time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if updated.Status != domain.InvoiceStatusPartial {
		t.Errorf("expected partial status, got %s", updated.Status)
	}
	if !updated.RemainingAmount.Equal(decimal.NewFromInt(3000)) {
		t.Errorf("expected remaining 3000, got %s", updated.RemainingAmount)
	}
	if updated.PaidDate != nil {
		t.Error("partial payment should not set paid date")
	}
	types := publisher.EventTypes()
	if len(types) != 1 || types[0] != "invoice.updated" {
		t.Errorf("expected invoice.updated event, got %v", types)
	}
}

func TestInvoiceService_RecordPayment_FullSettlement(t *testing.T) {
	repo := testutil.NewMockInvoiceRepository()
	publisher := testutil.NewMockPublisher()

	invoice := &domain.InvoiceRecord{
		ID:              uuid.New(),
		ClientName:      "Acme Corp",
		TotalAmount:     decimal.NewFromInt(5000),
		PaidAmount:      decimal.NewFromInt(2000),
		RemainingAmount: decimal.NewFromInt(3000),
		Status:          domain.InvoiceStatusPartial,
	}
	repo.AddInvoice(invoice)

	service := NewInvoiceService(repo)
	service.SetEventPublisher(publisher)

	paidOn := time.Date(2026, 5, 20, 0, 0, 0, 0, time.UTC)
	updated, err := service.RecordPayment(invoice.ID, decimal.NewFromInt(3000), paidOn)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if updated.Status != domain.InvoiceStatusPaid {
		t.Errorf("expected paid status, got %s", updated.Status)
	}
	if updated.PaidDate == nil || !updated.PaidDate.Equal(paidOn) {
		t.Errorf("expected paid date %s, got %v", paidOn, updated.PaidDate)
	}
	types := publisher.EventTypes()
	if len(types) != 1 || types[0] != "invoice.paid" {
		t.Errorf("expected invoice.paid event, got %v", types)
	}
}

func TestInvoiceService_RecordPayment_Overpayment(t *testing.T) {
	repo := testutil.NewMockInvoiceRepository()

	invoice := &domain.InvoiceRecord{
		ID:              uuid.New(),
		ClientName:      "Acme Corp",
		TotalAmount:     decimal.NewFromInt(1000),
		RemainingAmount: decimal.NewFromInt(1000),
		Status:          domain.InvoiceStatusSent,
	}
	repo.AddInvoice(invoice)

	service := NewInvoiceService(repo)

	_, err := service.RecordPayment(invoice.ID, decimal.NewFromInt(1500), time.Now())
	if err != domain.ErrOverpayment {
		t.Errorf("expected ErrOverpayment, got %v", err)
	}
}

func TestInvoiceService_RecordPayment_AlreadyPaid(t *testing.T) {
	repo := testutil.NewMockInvoiceRepository()

	invoice := &domain.InvoiceRecord{
		ID:          uuid.New(),
		ClientName:  "Acme Corp",
		TotalAmount: decimal.NewFromInt(1000),
		PaidAmount:  decimal.NewFromInt(1000),
		Status:      domain.InvoiceStatusPaid,
	}
	repo.AddInvoice(invoice)

	service := NewInvoiceService(repo)

	_, err := service.RecordPayment(invoice.ID, decimal.NewFromInt(1), time.Now())
	if err != domain.ErrInvoiceFinalized {
		t.Errorf("expected ErrInvoiceFinalized, got %v", err)
	}
}
