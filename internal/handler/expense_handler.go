package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/soldi-app/soldi-backend/internal/domain"
	"github.com/soldi-app/soldi-backend/internal/service"
)

// ExpenseHandler handles expense-related HTTP requests
type ExpenseHandler struct {
	expenseService *service.ExpenseService
}

// NewExpenseHandler creates a new ExpenseHandler
func NewExpenseHandler(expenseService *service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

// CreateExpenseRequest represents the create expense request body
type CreateExpenseRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Amount      string  `json:"amount"`
	Date        *string `json:"date,omitempty"`
	Category    string  `json:"category"`
	BillType    *string `json:"billType,omitempty"`
	Recurring   bool    `json:"recurring"`
	IsPaid      *bool   `json:"isPaid,omitempty"`
}

// ExpenseResponse represents an expense in API responses
type ExpenseResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Amount      string  `json:"amount"`
	Date        string  `json:"date"`
	Category    string  `json:"category"`
	BillType    *string `json:"billType,omitempty"`
	Recurring   bool    `json:"recurring"`
	IsPaid      bool    `json:"isPaid"`
	HasReceipt  bool    `json:"hasReceipt"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

func toExpenseResponse(e *domain.ExpenseRecord) ExpenseResponse {
	resp := ExpenseResponse{
		ID:          e.ID.String(),
		Name:        e.Name,
		Description: e.Description,
		Amount:      e.Amount.StringFixed(2),
		Date:        e.Date.Format("2006-01-02"),
		Category:    string(e.Category),
		Recurring:   e.Recurring,
		IsPaid:      e.Paid(),
		HasReceipt:  e.ReceiptPath != nil,
		CreatedAt:   e.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   e.UpdatedAt.Format(time.RFC3339),
	}
	if e.BillType != nil {
		bt := string(*e.BillType)
		resp.BillType = &bt
	}
	return resp
}

func (h *ExpenseHandler) parseInput(c echo.Context, req CreateExpenseRequest) (*service.CreateExpenseInput, error) {
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return nil, NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	var date *time.Time
	if req.Date != nil && *req.Date != "" {
		parsed, err := time.Parse("2006-01-02", *req.Date)
		if err != nil {
			return nil, NewValidationError(c, "Invalid date", []ValidationError{
				{Field: "date", Message: "Must be in YYYY-MM-DD format"},
			})
		}
		date = &parsed
	}

	var billType *domain.BillType
	if req.BillType != nil && *req.BillType != "" {
		bt := domain.BillType(*req.BillType)
		switch bt {
		case domain.BillTypeElectricity, domain.BillTypeWater, domain.BillTypeGas,
			domain.BillTypeInternet, domain.BillTypePhone, domain.BillTypeMunicipal:
			billType = &bt
		default:
			return nil, NewValidationError(c, "Invalid billType", []ValidationError{
				{Field: "billType", Message: "Must be one of: electricity, water, gas, internet, phone, municipal"},
			})
		}
	}

	return &service.CreateExpenseInput{
		Name:        req.Name,
		Description: req.Description,
		Amount:      amount,
		Date:        date,
		Category:    domain.ExpenseCategory(req.Category),
		BillType:    billType,
		Recurring:   req.Recurring,
		IsPaid:      req.IsPaid,
	}, nil
}

func expenseServiceError(c echo.Context, err error, action string) error {
	if errors.Is(err, domain.ErrNameRequired) {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "name", Message: "Name is required"},
		})
	}
	if errors.Is(err, domain.ErrNameTooLong) {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "name", Message: "Name must be 255 characters or less"},
		})
	}
	if errors.Is(err, domain.ErrInvalidAmount) {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "amount", Message: "Amount must be positive"},
		})
	}
	if errors.Is(err, domain.ErrInvalidCategory) {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "category", Message: "Unknown category"},
		})
	}
	if errors.Is(err, domain.ErrExpenseNotFound) {
		return NewNotFoundError(c, "Expense not found")
	}
	log.Error().Err(err).Msg("Failed to " + action)
	return NewInternalError(c, "Failed to "+action)
}

// CreateExpense godoc
// @Summary Create an expense
// @Description Record a new household expense
// @Tags expenses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateExpenseRequest true "Expense creation request"
// @Success 201 {object} ExpenseResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /expenses [post]
func (h *ExpenseHandler) CreateExpense(c echo.Context) error {
	var req CreateExpenseRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input, err := h.parseInput(c, req)
	if err != nil {
		return err
	}

	expense, err := h.expenseService.CreateExpense(*input)
	if err != nil {
		return expenseServiceError(c, err, "create expense")
	}

	log.Info().Str("expense_id", expense.ID.String()).Str("name", expense.Name).Msg("Expense created")

	return c.JSON(http.StatusCreated, toExpenseResponse(expense))
}

// GetExpenses godoc
// @Summary List expenses
// @Description Get expenses with optional date and category filters
// @Tags expenses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param startDate query string false "Start date (YYYY-MM-DD)"
// @Param endDate query string false "End date (YYYY-MM-DD)"
// @Param category query string false "Filter by category"
// @Success 200 {array} ExpenseResponse
// @Failure 401 {object} ProblemDetails
// @Router /expenses [get]
func (h *ExpenseHandler) GetExpenses(c echo.Context) error {
	filters := &domain.ExpenseFilters{}

	if v := c.QueryParam("startDate"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			return NewValidationError(c, "Invalid startDate", []ValidationError{
				{Field: "startDate", Message: "Must be in YYYY-MM-DD format"},
			})
		}
		filters.StartDate = &parsed
	}
	if v := c.QueryParam("endDate"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			return NewValidationError(c, "Invalid endDate", []ValidationError{
				{Field: "endDate", Message: "Must be in YYYY-MM-DD format"},
			})
		}
		filters.EndDate = &parsed
	}
	if v := c.QueryParam("category"); v != "" {
		category := domain.ExpenseCategory(v)
		filters.Category = &category
	}

	expenses, err := h.expenseService.ListExpenses(filters)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list expenses")
		return NewInternalError(c, "Failed to list expenses")
	}

	result := make([]ExpenseResponse, len(expenses))
	for i, e := range expenses {
		result[i] = toExpenseResponse(e)
	}
	return c.JSON(http.StatusOK, result)
}

// GetExpense godoc
// @Summary Get an expense
// @Description Get a single expense by ID
// @Tags expenses
// @Produce json
// @Security BearerAuth
// @Param id path string true "Expense ID"
// @Success 200 {object} ExpenseResponse
// @Failure 404 {object} ProblemDetails
// @Router /expenses/{id} [get]
func (h *ExpenseHandler) GetExpense(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid expense ID", nil)
	}

	expense, err := h.expenseService.GetExpense(id)
	if err != nil {
		return expenseServiceError(c, err, "get expense")
	}
	return c.JSON(http.StatusOK, toExpenseResponse(expense))
}

// UpdateExpense godoc
// @Summary Update an expense
// @Description Update an existing expense
// @Tags expenses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Expense ID"
// @Param request body CreateExpenseRequest true "Expense update request"
// @Success 200 {object} ExpenseResponse
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /expenses/{id} [put]
func (h *ExpenseHandler) UpdateExpense(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid expense ID", nil)
	}

	var req CreateExpenseRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input, err := h.parseInput(c, req)
	if err != nil {
		return err
	}

	expense, err := h.expenseService.UpdateExpense(id, *input)
	if err != nil {
		return expenseServiceError(c, err, "update expense")
	}
	return c.JSON(http.StatusOK, toExpenseResponse(expense))
}

// DeleteExpense godoc
// @Summary Delete an expense
// @Description Remove an expense
// @Tags expenses
// @Security BearerAuth
// @Param id path string true "Expense ID"
// @Success 204 "No Content"
// @Failure 404 {object} ProblemDetails
// @Router /expenses/{id} [delete]
func (h *ExpenseHandler) DeleteExpense(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid expense ID", nil)
	}

	if err := h.expenseService.DeleteExpense(id); err != nil {
		return expenseServiceError(c, err, "delete expense")
	}

	log.Info().Str("expense_id", id.String()).Msg("Expense deleted")

	return c.NoContent(http.StatusNoContent)
}

// TogglePaid godoc
// @Summary Toggle paid status
// @Description Flip the paid flag on an expense
// @Tags expenses
// @Produce json
// @Security BearerAuth
// @Param id path string true "Expense ID"
// @Success 200 {object} ExpenseResponse
// @Failure 404 {object} ProblemDetails
// @Router /expenses/{id}/toggle-paid [patch]
func (h *ExpenseHandler) TogglePaid(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid expense ID", nil)
	}

	expense, err := h.expenseService.TogglePaid(id)
	if err != nil {
		return expenseServiceError(c, err, "toggle paid status")
	}
	return c.JSON(http.StatusOK, toExpenseResponse(expense))
}
