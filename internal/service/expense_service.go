package service

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/soldi-app/soldi-backend/internal/domain"
	"github.com/soldi-app/soldi-backend/internal/websocket"
)

// ExpenseService handles expense-related business logic
type ExpenseService struct {
	expenseRepo    domain.ExpenseRepository
	eventPublisher websocket.EventPublisher
}

// NewExpenseService creates a new ExpenseService
func NewExpenseService(expenseRepo domain.ExpenseRepository) *ExpenseService {
	return &ExpenseService{
		expenseRepo: expenseRepo,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *ExpenseService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *ExpenseService) publishEvent(event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(event)
	}
}

// CreateExpenseInput holds the input for creating an expense
type CreateExpenseInput struct {
	Name        string
	Description string
	Amount      decimal.Decimal
	Date        *time.Time
	Category    domain.ExpenseCategory
	BillType    *domain.BillType
	Recurring   bool
	IsPaid      *bool
}

var validCategories = map[domain.ExpenseCategory]bool{
	domain.CategoryFixed:         true,
	domain.CategoryHousing:       true,
	domain.CategoryLoans:         true,
	domain.CategoryFamily:        true,
	domain.CategorySubscriptions: true,
	domain.CategoryVariable:      true,
	domain.CategoryFood:          true,
	domain.CategoryLeisure:       true,
	domain.CategoryMisc:          true,
	domain.CategoryTransport:     true,
	domain.CategoryHealth:        true,
	domain.CategoryPets:          true,
	domain.CategoryTravel:        true,
}

// CreateExpense creates a new expense with validation
func (s *ExpenseService) CreateExpense(input CreateExpenseInput) (*domain.ExpenseRecord, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(name) > domain.MaxExpenseNameLength {
		return nil, domain.ErrNameTooLong
	}

	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	if !validCategories[input.Category] {
		return nil, domain.ErrInvalidCategory
	}

	date := time.Now().UTC().Truncate(24 * time.Hour)
	if input.Date != nil {
		date = *input.Date
	}

	expense := &domain.ExpenseRecord{
		ID:          uuid.New(),
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		Amount:      input.Amount,
		Date:        date,
		Category:    input.Category,
		BillType:    input.BillType,
		Recurring:   input.Recurring,
		IsPaid:      input.IsPaid,
	}

	created, err := s.expenseRepo.Create(expense)
	if err != nil {
		return nil, err
	}

	s.publishEvent(websocket.ExpenseCreated(created))
	return created, nil
}

// GetExpense retrieves an expense by ID
func (s *ExpenseService) GetExpense(id uuid.UUID) (*domain.ExpenseRecord, error) {
	return s.expenseRepo.GetByID(id)
}

// ListExpenses retrieves expenses matching the filters
func (s *ExpenseService) ListExpenses(filters *domain.ExpenseFilters) ([]*domain.ExpenseRecord, error) {
	if filters == nil {
		filters = &domain.ExpenseFilters{}
	}
	return s.expenseRepo.List(filters)
}

// UpdateExpense updates an existing expense with validation
func (s *ExpenseService) UpdateExpense(id uuid.UUID, input CreateExpenseInput) (*domain.ExpenseRecord, error) {
	existing, err := s.expenseRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(name) > domain.MaxExpenseNameLength {
		return nil, domain.ErrNameTooLong
	}
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}
	if !validCategories[input.Category] {
		return nil, domain.ErrInvalidCategory
	}

	existing.Name = name
	existing.Description = strings.TrimSpace(input.Description)
	existing.Amount = input.Amount
	if input.Date != nil {
		existing.Date = *input.Date
	}
	existing.Category = input.Category
	existing.BillType = input.BillType
	existing.Recurring = input.Recurring
	existing.IsPaid = input.IsPaid

	updated, err := s.expenseRepo.Update(existing)
	if err != nil {
		return nil, err
	}

	s.publishEvent(websocket.ExpenseUpdated(updated))
	return updated, nil
}

// DeleteExpense removes an expense
func (s *ExpenseService) DeleteExpense(id uuid.UUID) error {
	expense, err := s.expenseRepo.GetByID(id)
	if err != nil {
		return err
	}

	if err := s.expenseRepo.Delete(id); err != nil {
		return err
	}

	s.publishEvent(websocket.ExpenseDeleted(expense))
	return nil
}

// TogglePaid flips the paid flag on an expense
func (s *ExpenseService) TogglePaid(id uuid.UUID) (*domain.ExpenseRecord, error) {
	updated, err := s.expenseRepo.TogglePaid(id)
	if err != nil {
		return nil, err
	}

	s.publishEvent(websocket.ExpenseUpdated(updated))
	return updated, nil
}
