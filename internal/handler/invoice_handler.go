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

// InvoiceHandler handles invoice-related HTTP requests
type InvoiceHandler struct {
	invoiceService *service.InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(invoiceService *service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// CreateInvoiceRequest represents the create invoice request body
type CreateInvoiceRequest struct {
	ClientName  string  `json:"clientName"`
	InvoiceDate string  `json:"invoiceDate"`
	DueDate     *string `json:"dueDate,omitempty"`
	TotalAmount string  `json:"totalAmount"`
	Status      *string `json:"status,omitempty"`
}

// RecordPaymentRequest represents the record payment request body
type RecordPaymentRequest struct {
	Amount   string  `json:"amount"`
	PaidDate *string `json:"paidDate,omitempty"`
}

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	ID              string  `json:"id"`
	ClientName      string  `json:"clientName"`
	InvoiceDate     string  `json:"invoiceDate"`
	DueDate         string  `json:"dueDate"`
	TotalAmount     string  `json:"totalAmount"`
	PaidAmount      string  `json:"paidAmount"`
	RemainingAmount string  `json:"remainingAmount"`
	Status          string  `json:"status"`
	PaidDate        *string `json:"paidDate,omitempty"`
	CreatedAt       string  `json:"createdAt"`
	UpdatedAt       string  `json:"updatedAt"`
}

func toInvoiceResponse(i *domain.InvoiceRecord) InvoiceResponse {
	resp := InvoiceResponse{
		ID:              i.ID.String(),
		ClientName:      i.ClientName,
		InvoiceDate:     i.InvoiceDate.Format("2006-01-02"),
		DueDate:         i.DueDate.Format("2006-01-02"),
		TotalAmount:     i.TotalAmount.StringFixed(2),
		PaidAmount:      i.PaidAmount.StringFixed(2),
		RemainingAmount: i.RemainingAmount.StringFixed(2),
		Status:          string(i.Status),
		CreatedAt:       i.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       i.UpdatedAt.Format(time.RFC3339),
	}
	if i.PaidDate != nil {
		pd := i.PaidDate.Format("2006-01-02")
		resp.PaidDate = &pd
	}
	return resp
}

func invoiceServiceError(c echo.Context, err error, action string) error {
	if errors.Is(err, domain.ErrNameRequired) {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "clientName", Message: "Client name is required"},
		})
	}
	if errors.Is(err, domain.ErrInvalidAmount) {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "totalAmount", Message: "Amount must be positive and not below what was already paid"},
		})
	}
	if errors.Is(err, domain.ErrInvalidStatus) {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "status", Message: "Invalid status transition"},
		})
	}
	if errors.Is(err, domain.ErrInvoiceFinalized) {
		return NewConflictError(c, "Paid invoices cannot be modified")
	}
	if errors.Is(err, domain.ErrOverpayment) {
		return NewConflictError(c, "Payment exceeds the outstanding amount")
	}
	if errors.Is(err, domain.ErrInvoiceNotFound) {
		return NewNotFoundError(c, "Invoice not found")
	}
	log.Error().Err(err).Msg("Failed to " + action)
	return NewInternalError(c, "Failed to "+action)
}

// CreateInvoice godoc
// @Summary Create an invoice
// @Description Create a new client invoice
// @Tags invoices
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateInvoiceRequest true "Invoice creation request"
// @Success 201 {object} InvoiceResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /invoices [post]
func (h *InvoiceHandler) CreateInvoice(c echo.Context) error {
	var req CreateInvoiceRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := decimal.NewFromString(req.TotalAmount)
	if err != nil {
		return NewValidationError(c, "Invalid totalAmount", []ValidationError{
			{Field: "totalAmount", Message: "Must be a valid decimal number"},
		})
	}

	invoiceDate, err := time.Parse("2006-01-02", req.InvoiceDate)
	if err != nil {
		return NewValidationError(c, "Invalid invoiceDate", []ValidationError{
			{Field: "invoiceDate", Message: "Must be in YYYY-MM-DD format"},
		})
	}

	var dueDate time.Time
	if req.DueDate != nil && *req.DueDate != "" {
		dueDate, err = time.Parse("2006-01-02", *req.DueDate)
		if err != nil {
			return NewValidationError(c, "Invalid dueDate", []ValidationError{
				{Field: "dueDate", Message: "Must be in YYYY-MM-DD format"},
			})
		}
	}

	var status domain.InvoiceStatus
	if req.Status != nil {
		status = domain.InvoiceStatus(*req.Status)
	}

	invoice, err := h.invoiceService.CreateInvoice(service.CreateInvoiceInput{
		ClientName:  req.ClientName,
		InvoiceDate: invoiceDate,
		DueDate:     dueDate,
		TotalAmount: amount,
		Status:      status,
	})
	if err != nil {
		return invoiceServiceError(c, err, "create invoice")
	}

	log.Info().Str("invoice_id", invoice.ID.String()).Str("client", invoice.ClientName).Msg("Invoice created")

	return c.JSON(http.StatusCreated, toInvoiceResponse(invoice))
}

// GetInvoices godoc
// @Summary List invoices
// @Description Get invoices with optional status and date filters
// @Tags invoices
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status"
// @Param startDate query string false "Start date (YYYY-MM-DD)"
// @Param endDate query string false "End date (YYYY-MM-DD)"
// @Success 200 {array} InvoiceResponse
// @Failure 401 {object} ProblemDetails
// @Router /invoices [get]
func (h *InvoiceHandler) GetInvoices(c echo.Context) error {
	filters := &domain.InvoiceFilters{}

	if v := c.QueryParam("status"); v != "" {
		status := domain.InvoiceStatus(v)
		filters.Status = &status
	}
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

	invoices, err := h.invoiceService.ListInvoices(filters)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list invoices")
		return NewInternalError(c, "Failed to list invoices")
	}

	result := make([]InvoiceResponse, len(invoices))
	for i, invoice := range invoices {
		result[i] = toInvoiceResponse(invoice)
	}
	return c.JSON(http.StatusOK, result)
}

// GetInvoice godoc
// @Summary Get an invoice
// @Description Get a single invoice by ID
// @Tags invoices
// @Produce json
// @Security BearerAuth
// @Param id path string true "Invoice ID"
// @Success 200 {object} InvoiceResponse
// @Failure 404 {object} ProblemDetails
// @Router /invoices/{id} [get]
func (h *InvoiceHandler) GetInvoice(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid invoice ID", nil)
	}

	invoice, err := h.invoiceService.GetInvoice(id)
	if err != nil {
		return invoiceServiceError(c, err, "get invoice")
	}
	return c.JSON(http.StatusOK, toInvoiceResponse(invoice))
}

// UpdateInvoice godoc
// @Summary Update an invoice
// @Description Update an unpaid invoice
// @Tags invoices
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Invoice ID"
// @Param request body CreateInvoiceRequest true "Invoice update request"
// @Success 200 {object} InvoiceResponse
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Failure 409 {object} ProblemDetails
// @Router /invoices/{id} [put]
func (h *InvoiceHandler) UpdateInvoice(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid invoice ID", nil)
	}

	var req CreateInvoiceRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := decimal.NewFromString(req.TotalAmount)
	if err != nil {
		return NewValidationError(c, "Invalid totalAmount", []ValidationError{
			{Field: "totalAmount", Message: "Must be a valid decimal number"},
		})
	}

	invoiceDate, err := time.Parse("2006-01-02", req.InvoiceDate)
	if err != nil {
		return NewValidationError(c, "Invalid invoiceDate", []ValidationError{
			{Field: "invoiceDate", Message: "Must be in YYYY-MM-DD format"},
		})
	}

	var dueDate time.Time
	if req.DueDate != nil && *req.DueDate != "" {
		dueDate, err = time.Parse("2006-01-02", *req.DueDate)
		if err != nil {
			return NewValidationError(c, "Invalid dueDate", []ValidationError{
				{Field: "dueDate", Message: "Must be in YYYY-MM-DD format"},
			})
		}
	}

	input := service.UpdateInvoiceInput{
		ClientName:  req.ClientName,
		InvoiceDate: invoiceDate,
		DueDate:     dueDate,
		TotalAmount: amount,
	}
	if req.Status != nil {
		status := domain.InvoiceStatus(*req.Status)
		input.Status = &status
	}

	invoice, err := h.invoiceService.UpdateInvoice(id, input)
	if err != nil {
		return invoiceServiceError(c, err, "update invoice")
	}
	return c.JSON(http.StatusOK, toInvoiceResponse(invoice))
}

// DeleteInvoice godoc
// @Summary Delete an invoice
// @Description Remove an invoice
// @Tags invoices
// @Security BearerAuth
// @Param id path string true "Invoice ID"
// @Success 204 "No Content"
// @Failure 404 {object} ProblemDetails
// @Router /invoices/{id} [delete]
func (h *InvoiceHandler) DeleteInvoice(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid invoice ID", nil)
	}

	if err := h.invoiceService.DeleteInvoice(id); err != nil {
		return invoiceServiceError(c, err, "delete invoice")
	}

	log.Info().Str("invoice_id", id.String()).Msg("Invoice deleted")

	return c.NoContent(http.StatusNoContent)
}

// RecordPayment godoc
// @Summary Record a payment
// @Description Apply a payment to an invoice, moving it to partial or paid
// @Tags invoices
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Invoice ID"
// @Param request body RecordPaymentRequest true "Payment request"
// @Success 200 {object} InvoiceResponse
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Failure 409 {object} ProblemDetails
// @Router /invoices/{id}/payments [post]
func (h *InvoiceHandler) RecordPayment(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid invoice ID", nil)
	}

	var req RecordPaymentRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	paidOn := time.Now().UTC()
	if req.PaidDate != nil && *req.PaidDate != "" {
		paidOn, err = time.Parse("2006-01-02", *req.PaidDate)
		if err != nil {
			return NewValidationError(c, "Invalid paidDate", []ValidationError{
				{Field: "paidDate", Message: "Must be in YYYY-MM-DD format"},
			})
		}
	}

	invoice, err := h.invoiceService.RecordPayment(id, amount, paidOn)
	if err != nil {
		return invoiceServiceError(c, err, "record payment")
	}

	log.Info().Str("invoice_id", id.String()).Str("amount", amount.StringFixed(2)).Str("status", string(invoice.Status)).Msg("Payment recorded")

	return c.JSON(http.StatusOK, toInvoiceResponse(invoice))
}
