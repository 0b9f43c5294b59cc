package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/soldi-app/soldi-backend/internal/domain"
	"github.com/soldi-app/soldi-backend/internal/service"
)

// ReceiptHandler handles receipt-related HTTP requests
type ReceiptHandler struct {
	receiptService *service.ReceiptService
}

// NewReceiptHandler creates a new ReceiptHandler
func NewReceiptHandler(receiptService *service.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{receiptService: receiptService}
}

// ReceiptURLsResponse represents presigned receipt URLs in API responses
type ReceiptURLsResponse struct {
	OriginalURL  string `json:"originalUrl"`
	ThumbnailURL string `json:"thumbnailUrl"`
}

// UploadReceipt godoc
// @Summary Attach a receipt
// @Description Upload a receipt image for an expense, replacing any existing one
// @Tags receipts
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param id path string true "Expense ID"
// @Param file formData file true "Receipt image (JPEG, PNG, WebP)"
// @Success 200 {object} ExpenseResponse
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Failure 503 {object} ProblemDetails
// @Router /expenses/{id}/receipt [post]
func (h *ReceiptHandler) UploadReceipt(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid expense ID", nil)
	}

	if h.receiptService == nil || !h.receiptService.IsEnabled() {
		return NewServiceUnavailableError(c, "Receipt uploads are disabled (storage not configured)")
	}

	file, err := c.FormFile("file")
	if err != nil {
		return NewValidationError(c, "No file provided", []ValidationError{
			{Field: "file", Message: "File is required"},
		})
	}

	src, err := file.Open()
	if err != nil {
		log.Error().Err(err).Msg("Failed to open uploaded file")
		return NewInternalError(c, "Failed to process file")
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		log.Error().Err(err).Msg("Failed to read uploaded file")
		return NewInternalError(c, "Failed to read file")
	}

	expense, err := h.receiptService.AttachReceipt(c.Request().Context(), id, data, file.Filename)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrReceiptTooLarge):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "file", Message: "File too large. Maximum size is 5MB"},
			})
		case errors.Is(err, service.ErrInvalidReceiptFormat):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "file", Message: "Invalid format. Supported: JPEG, PNG, WebP"},
			})
		case errors.Is(err, service.ErrReceiptTooSmall):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "file", Message: "Image too small. Minimum 50x50 pixels"},
			})
		case errors.Is(err, service.ErrInvalidReceiptData):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "file", Message: "Invalid image data"},
			})
		case errors.Is(err, domain.ErrExpenseNotFound):
			return NewNotFoundError(c, "Expense not found")
		default:
			log.Error().Err(err).Str("expense_id", id.String()).Msg("Failed to upload receipt")
			return NewInternalError(c, "Failed to upload receipt")
		}
	}

	log.Info().Str("expense_id", id.String()).Msg("Receipt attached")

	return c.JSON(http.StatusOK, toExpenseResponse(expense))
}

// GetReceipt godoc
// @Summary Get receipt URLs
// @Description Get short-lived presigned URLs for an expense's receipt
// @Tags receipts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Expense ID"
// @Success 200 {object} ReceiptURLsResponse
// @Failure 404 {object} ProblemDetails
// @Failure 503 {object} ProblemDetails
// @Router /expenses/{id}/receipt [get]
func (h *ReceiptHandler) GetReceipt(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid expense ID", nil)
	}

	if h.receiptService == nil || !h.receiptService.IsEnabled() {
		return NewServiceUnavailableError(c, "Receipt storage is not configured")
	}

	originalURL, thumbnailURL, err := h.receiptService.GetReceiptURLs(c.Request().Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrExpenseNotFound):
			return NewNotFoundError(c, "Expense not found")
		case errors.Is(err, service.ErrNoReceipt):
			return NewNotFoundError(c, "Expense has no receipt")
		default:
			log.Error().Err(err).Str("expense_id", id.String()).Msg("Failed to generate receipt URLs")
			return NewInternalError(c, "Failed to generate receipt URLs")
		}
	}

	return c.JSON(http.StatusOK, ReceiptURLsResponse{
		OriginalURL:  originalURL,
		ThumbnailURL: thumbnailURL,
	})
}

// DeleteReceipt godoc
// @Summary Remove a receipt
// @Description Delete the stored receipt of an expense
// @Tags receipts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Expense ID"
// @Success 200 {object} ExpenseResponse
// @Failure 404 {object} ProblemDetails
// @Failure 503 {object} ProblemDetails
// @Router /expenses/{id}/receipt [delete]
func (h *ReceiptHandler) DeleteReceipt(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid expense ID", nil)
	}

	if h.receiptService == nil || !h.receiptService.IsEnabled() {
		return NewServiceUnavailableError(c, "Receipt storage is not configured")
	}

	expense, err := h.receiptService.RemoveReceipt(c.Request().Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrExpenseNotFound):
			return NewNotFoundError(c, "Expense not found")
		case errors.Is(err, service.ErrNoReceipt):
			return NewNotFoundError(c, "Expense has no receipt")
		default:
			log.Error().Err(err).Str("expense_id", id.String()).Msg("Failed to delete receipt")
			return NewInternalError(c, "Failed to delete receipt")
		}
	}

	log.Info().Str("expense_id", id.String()).Msg("Receipt removed")

	return c.JSON(http.StatusOK, toExpenseResponse(expense))
}
