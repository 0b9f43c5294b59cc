package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/soldi-app/soldi-backend/internal/domain"
	"github.com/soldi-app/soldi-backend/internal/service"
)

// SettingsHandler handles forecast settings HTTP requests
type SettingsHandler struct {
	settingsService *service.SettingsService
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// SettingsRequest represents the settings update request body
type SettingsRequest struct {
	DailyRate               string  `json:"dailyRate"`
	PensionMonthly          string  `json:"pensionMonthly"`
	PaymentDelayDays        int     `json:"paymentDelayDays"`
	UseManualEstimates      bool    `json:"useManualEstimates"`
	EstimatedFixed          string  `json:"estimatedFixed"`
	EstimatedVariable       string  `json:"estimatedVariable"`
	EstimatedBills          string  `json:"estimatedBills"`
	UseCustomInitialBalance bool    `json:"useCustomInitialBalance"`
	InitialBalance          string  `json:"initialBalance"`
	InitialBalanceDate      *string `json:"initialBalanceDate,omitempty"`
	IncludeDrafts           bool    `json:"includeDrafts"`
}

// SettingsResponse represents the settings in API responses
type SettingsResponse struct {
	DailyRate               string  `json:"dailyRate"`
	PensionMonthly          string  `json:"pensionMonthly"`
	PaymentDelayDays        int     `json:"paymentDelayDays"`
	UseManualEstimates      bool    `json:"useManualEstimates"`
	EstimatedFixed          string  `json:"estimatedFixed"`
	EstimatedVariable       string  `json:"estimatedVariable"`
	EstimatedBills          string  `json:"estimatedBills"`
	UseCustomInitialBalance bool    `json:"useCustomInitialBalance"`
	InitialBalance          string  `json:"initialBalance"`
	InitialBalanceDate      *string `json:"initialBalanceDate,omitempty"`
	IncludeDrafts           bool    `json:"includeDrafts"`
	UpdatedAt               string  `json:"updatedAt"`
}

func toSettingsResponse(s *domain.ForecastSettings) SettingsResponse {
	resp := SettingsResponse{
		DailyRate:               s.DailyRate.StringFixed(2),
		PensionMonthly:          s.PensionMonthly.StringFixed(2),
		PaymentDelayDays:        s.PaymentDelayDays,
		UseManualEstimates:      s.UseManualEstimates,
		EstimatedFixed:          s.EstimatedFixed.StringFixed(2),
		EstimatedVariable:       s.EstimatedVariable.StringFixed(2),
		EstimatedBills:          s.EstimatedBills.StringFixed(2),
		UseCustomInitialBalance: s.UseCustomInitialBalance,
		InitialBalance:          s.InitialBalance.StringFixed(2),
		IncludeDrafts:           s.IncludeDrafts,
		UpdatedAt:               s.UpdatedAt.Format(time.RFC3339),
	}
	if s.InitialBalanceDate != nil {
		d := s.InitialBalanceDate.Format("2006-01-02")
		resp.InitialBalanceDate = &d
	}
	return resp
}

// GetSettings godoc
// @Summary Get forecast settings
// @Description Get the household forecast settings
// @Tags settings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} SettingsResponse
// @Failure 401 {object} ProblemDetails
// @Router /settings [get]
func (h *SettingsHandler) GetSettings(c echo.Context) error {
	settings, err := h.settingsService.GetSettings()
	if err != nil {
		log.Error().Err(err).Msg("Failed to get settings")
		return NewInternalError(c, "Failed to get settings")
	}
	return c.JSON(http.StatusOK, toSettingsResponse(settings))
}

// UpdateSettings godoc
// @Summary Update forecast settings
// @Description Update the household forecast settings
// @Tags settings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SettingsRequest true "Settings update request"
// @Success 200 {object} SettingsResponse
// @Failure 400 {object} ProblemDetails
// @Router /settings [put]
func (h *SettingsHandler) UpdateSettings(c echo.Context) error {
	var req SettingsRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	parse := func(field, value string) (decimal.Decimal, error) {
		if value == "" {
			return decimal.Zero, nil
		}
		d, err := decimal.NewFromString(value)
		if err != nil {
			return decimal.Zero, NewValidationError(c, "Invalid "+field, []ValidationError{
				{Field: field, Message: "Must be a valid decimal number"},
			})
		}
		return d, nil
	}

	dailyRate, err := parse("dailyRate", req.DailyRate)
	if err != nil {
		return err
	}
	pension, err := parse("pensionMonthly", req.PensionMonthly)
	if err != nil {
		return err
	}
	estFixed, err := parse("estimatedFixed", req.EstimatedFixed)
	if err != nil {
		return err
	}
	estVariable, err := parse("estimatedVariable", req.EstimatedVariable)
	if err != nil {
		return err
	}
	estBills, err := parse("estimatedBills", req.EstimatedBills)
	if err != nil {
		return err
	}
	initial, err := parse("initialBalance", req.InitialBalance)
	if err != nil {
		return err
	}

	var initialBalanceDate *time.Time
	if req.InitialBalanceDate != nil && *req.InitialBalanceDate != "" {
		parsed, err := time.Parse("2006-01-02", *req.InitialBalanceDate)
		if err != nil {
			return NewValidationError(c, "Invalid initialBalanceDate", []ValidationError{
				{Field: "initialBalanceDate", Message: "Must be in YYYY-MM-DD format"},
			})
		}
		initialBalanceDate = &parsed
	}

	settings, err := h.settingsService.UpdateSettings(&domain.ForecastSettings{
		DailyRate:               dailyRate,
		PensionMonthly:          pension,
		PaymentDelayDays:        req.PaymentDelayDays,
		UseManualEstimates:      req.UseManualEstimates,
		EstimatedFixed:          estFixed,
		EstimatedVariable:       estVariable,
		EstimatedBills:          estBills,
		UseCustomInitialBalance: req.UseCustomInitialBalance,
		InitialBalance:          initial,
		InitialBalanceDate:      initialBalanceDate,
		IncludeDrafts:           req.IncludeDrafts,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return NewValidationError(c, "Rates and estimates must not be negative; a custom initial balance needs a date", nil)
		}
		log.Error().Err(err).Msg("Failed to update settings")
		return NewInternalError(c, "Failed to update settings")
	}

	log.Info().Msg("Settings updated")

	return c.JSON(http.StatusOK, toSettingsResponse(settings))
}
