package testutil

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/soldi-app/soldi-backend/internal/domain"
	"github.com/soldi-app/soldi-backend/internal/websocket"
)

// MockExpenseRepository is a mock implementation of domain.ExpenseRepository
type MockExpenseRepository struct {
	Expenses map[uuid.UUID]*domain.ExpenseRecord
	ListFn   func(filters *domain.ExpenseFilters) ([]*domain.ExpenseRecord, error)
	CreateFn func(expense *domain.ExpenseRecord) (*domain.ExpenseRecord, error)
}

// NewMockExpenseRepository creates a new MockExpenseRepository
func NewMockExpenseRepository() *MockExpenseRepository {
	return &MockExpenseRepository{
		Expenses: make(map[uuid.UUID]*domain.ExpenseRecord),
	}
}

// AddExpense adds an expense to the mock repository (helper for tests)
func (m *MockExpenseRepository) AddExpense(expense *domain.ExpenseRecord) {
	if expense.ID == uuid.Nil {
		expense.ID = uuid.New()
	}
	m.Expenses[expense.ID] = expense
}

// Create creates a new expense
func (m *MockExpenseRepository) Create(expense *domain.ExpenseRecord) (*domain.ExpenseRecord, error) {
	if m.CreateFn != nil {
		return m.CreateFn(expense)
	}
	now := time.Now().UTC()
	expense.CreatedAt = now
	expense.UpdatedAt = now
	m.Expenses[expense.ID] = expense
	return expense, nil
}

// GetByID retrieves an expense by ID
func (m *MockExpenseRepository) GetByID(id uuid.UUID) (*domain.ExpenseRecord, error) {
	if expense, ok := m.Expenses[id]; ok {
		return expense, nil
	}
	return nil, domain.ErrExpenseNotFound
}

// List retrieves expenses matching the filters
func (m *MockExpenseRepository) List(filters *domain.ExpenseFilters) ([]*domain.ExpenseRecord, error) {
	if m.ListFn != nil {
		return m.ListFn(filters)
	}
	result := make([]*domain.ExpenseRecord, 0, len(m.Expenses))
	for _, expense := range m.Expenses {
		if filters != nil {
			if filters.StartDate != nil && expense.Date.Before(*filters.StartDate) {
				continue
			}
			if filters.EndDate != nil && expense.Date.After(*filters.EndDate) {
				continue
			}
			if filters.Category != nil && expense.Category != *filters.Category {
				continue
			}
		}
		result = append(result, expense)
	}
	return result, nil
}

// Update updates an existing expense
func (m *MockExpenseRepository) Update(expense *domain.ExpenseRecord) (*domain.ExpenseRecord, error) {
	if _, ok := m.Expenses[expense.ID]; !ok {
		return nil, domain.ErrExpenseNotFound
	}
	expense.UpdatedAt = time.Now().UTC()
	m.Expenses[expense.ID] = expense
	return expense, nil
}

// Delete removes an expense
func (m *MockExpenseRepository) Delete(id uuid.UUID) error {
	if _, ok := m.Expenses[id]; !ok {
		return domain.ErrExpenseNotFound
	}
	delete(m.Expenses, id)
	return nil
}

// TogglePaid flips the paid flag on an expense
func (m *MockExpenseRepository) TogglePaid(id uuid.UUID) (*domain.ExpenseRecord, error) {
	expense, ok := m.Expenses[id]
	if !ok {
		return nil, domain.ErrExpenseNotFound
	}
	paid := !expense.Paid()
	expense.IsPaid = &paid
	expense.UpdatedAt = time.Now().UTC()
	return expense, nil
}

// SetReceiptPath sets or clears the receipt path on an expense
func (m *MockExpenseRepository) SetReceiptPath(id uuid.UUID, path *string) (*domain.ExpenseRecord, error) {
	expense, ok := m.Expenses[id]
	if !ok {
		return nil, domain.ErrExpenseNotFound
	}
	expense.ReceiptPath = path
	expense.UpdatedAt = time.Now().UTC()
	return expense, nil
}

// MockInvoiceRepository is a mock implementation of domain.InvoiceRepository
type MockInvoiceRepository struct {
	Invoices map[uuid.UUID]*domain.InvoiceRecord
	ListFn   func(filters *domain.InvoiceFilters) ([]*domain.InvoiceRecord, error)
}

// NewMockInvoiceRepository creates a new MockInvoiceRepository
func NewMockInvoiceRepository() *MockInvoiceRepository {
	return &MockInvoiceRepository{
		Invoices: make(map[uuid.UUID]*domain.InvoiceRecord),
	}
}

// AddInvoice adds an invoice to the mock repository (helper for tests)
func (m *MockInvoiceRepository) AddInvoice(invoice *domain.InvoiceRecord) {
	if invoice.ID == uuid.Nil {
		invoice.ID = uuid.New()
	}
	m.Invoices[invoice.ID] = invoice
}

// Create creates a new invoice
func (m *MockInvoiceRepository) Create(invoice *domain.InvoiceRecord) (*domain.InvoiceRecord, error) {
	now := time.Now().UTC()
	invoice.CreatedAt = now
	invoice.UpdatedAt = now
	m.Invoices[invoice.ID] = invoice
	return invoice, nil
}

// GetByID retrieves an invoice by ID
func (m *MockInvoiceRepository) GetByID(id uuid.UUID) (*domain.InvoiceRecord, error) {
	if invoice, ok := m.Invoices[id]; ok {
		return invoice, nil
	}
	return nil, domain.ErrInvoiceNotFound
}

// List retrieves invoices matching the filters
func (m *MockInvoiceRepository) List(filters *domain.InvoiceFilters) ([]*domain.InvoiceRecord, error) {
	if m.ListFn != nil {
		return m.ListFn(filters)
	}
	result := make([]*domain.InvoiceRecord, 0, len(m.Invoices))
	for _, invoice := range m.Invoices {
		if filters != nil {
			if filters.Status != nil && invoice.Status != *filters.Status {
				continue
			}
			if filters.StartDate != nil && invoice.InvoiceDate.Before(*filters.StartDate) {
				continue
			}
			if filters.EndDate != nil && invoice.InvoiceDate.After(*filters.EndDate) {
				continue
			}
		}
		result = append(result, invoice)
	}
	return result, nil
}

// Update updates an existing invoice
func (m *MockInvoiceRepository) Update(invoice *domain.InvoiceRecord) (*domain.InvoiceRecord, error) {
	if _, ok := m.Invoices[invoice.ID]; !ok {
		return nil, domain.ErrInvoiceNotFound
	}
	invoice.UpdatedAt = time.Now().UTC()
	m.Invoices[invoice.ID] = invoice
	return invoice, nil
}

// Delete removes an invoice
func (m *MockInvoiceRepository) Delete(id uuid.UUID) error {
	if _, ok := m.Invoices[id]; !ok {
		return domain.ErrInvoiceNotFound
	}
	delete(m.Invoices, id)
	return nil
}

// MockSettingsRepository is a mock implementation of domain.SettingsRepository
type MockSettingsRepository struct {
	Settings *domain.ForecastSettings
	GetFn    func() (*domain.ForecastSettings, error)
}

// NewMockSettingsRepository creates a new MockSettingsRepository
func NewMockSettingsRepository() *MockSettingsRepository {
	return &MockSettingsRepository{}
}

// Get retrieves the settings row
func (m *MockSettingsRepository) Get() (*domain.ForecastSettings, error) {
	if m.GetFn != nil {
		return m.GetFn()
	}
	if m.Settings == nil {
		return nil, domain.ErrNotFound
	}
	return m.Settings, nil
}

// Update persists the settings row
func (m *MockSettingsRepository) Update(settings *domain.ForecastSettings) (*domain.ForecastSettings, error) {
	settings.UpdatedAt = time.Now().UTC()
	m.Settings = settings
	return settings, nil
}

// MockReceiptStorage is a mock implementation of storage.ReceiptRepository
type MockReceiptStorage struct {
	Objects  map[string][]byte
	UploadFn func(ctx context.Context, objectPath string, data io.Reader, contentType string, size int64) (string, error)
	mu       sync.Mutex
}

// NewMockReceiptStorage creates a new MockReceiptStorage
func NewMockReceiptStorage() *MockReceiptStorage {
	return &MockReceiptStorage{
		Objects: make(map[string][]byte),
	}
}

// Upload stores the object in memory
func (m *MockReceiptStorage) Upload(ctx context.Context, objectPath string, data io.Reader, contentType string, size int64) (string, error) {
	if m.UploadFn != nil {
		return m.UploadFn(ctx, objectPath, data, contentType, size)
	}
	buf, err := io.ReadAll(data)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Objects[objectPath] = buf
	return objectPath, nil
}

// Delete removes the object from memory
func (m *MockReceiptStorage) Delete(ctx context.Context, objectPath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Objects, objectPath)
	return nil
}

// GeneratePresignedURL returns a fake URL for the object
func (m *MockReceiptStorage) GeneratePresignedURL(ctx context.Context, objectPath string, expiry time.Duration) (string, error) {
	return fmt.Sprintf("https://storage.test/%s?expires=%d", objectPath, int64(expiry.Seconds())), nil
}

// MockPublisher is a mock implementation of websocket.EventPublisher that
// records published events
type MockPublisher struct {
	Events []websocket.Event
	mu     sync.Mutex
}

// NewMockPublisher creates a new MockPublisher
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

// Publish records the event
func (m *MockPublisher) Publish(event websocket.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, event)
}

// EventTypes returns the types of all published events in order
func (m *MockPublisher) EventTypes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]string, len(m.Events))
	for i, e := range m.Events {
		types[i] = e.Type
	}
	return types
}
