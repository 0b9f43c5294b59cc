package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/soldi-app/soldi-backend/internal/domain"
	"github.com/soldi-app/soldi-backend/internal/service"
)

// ForecastHandler handles forecast-related HTTP requests
type ForecastHandler struct {
	forecastService *service.ForecastService
}

// NewForecastHandler creates a new ForecastHandler
func NewForecastHandler(forecastService *service.ForecastService) *ForecastHandler {
	return &ForecastHandler{forecastService: forecastService}
}

// SnapshotResponse represents a monthly expense snapshot in API responses
type SnapshotResponse struct {
	MonthKey         string `json:"monthKey"`
	Loans            string `json:"loans"`
	Transfers        string `json:"transfers"`
	Subscriptions    string `json:"subscriptions"`
	FixedOther       string `json:"fixedOther"`
	FixedTotal       string `json:"fixedTotal"`
	VariableAverage  string `json:"variableAverage"`
	Bills            string `json:"bills"`
	MonthsConsidered int    `json:"monthsConsidered"`
	IsEstimated      bool   `json:"isEstimated"`
}

func toSnapshotResponse(s *domain.MonthlySnapshot) SnapshotResponse {
	return SnapshotResponse{
		MonthKey:         s.MonthKey,
		Loans:            s.Loans.StringFixed(2),
		Transfers:        s.Transfers.StringFixed(2),
		Subscriptions:    s.Subscriptions.StringFixed(2),
		FixedOther:       s.FixedOther.StringFixed(2),
		FixedTotal:       s.FixedTotal().StringFixed(2),
		VariableAverage:  s.VariableAverage.StringFixed(2),
		Bills:            s.Bills.StringFixed(2),
		MonthsConsidered: s.MonthsConsidered,
		IsEstimated:      s.IsEstimated,
	}
}

// ForecastMonthResponse represents one projected month in API responses
type ForecastMonthResponse struct {
	MonthKey           string `json:"monthKey"`
	ExpectedIncome     string `json:"expectedIncome"`
	DraftIncome        string `json:"draftIncome"`
	TotalExpenses      string `json:"totalExpenses"`
	EstimatedExpenses  string `json:"estimatedExpenses"`
	ActualExpenses     string `json:"actualExpenses"`
	Balance            string `json:"balance"`
	Carryover          string `json:"carryover"`
	CumulativeBalance  string `json:"cumulativeBalance"`
	WorkDaysNeeded     int    `json:"workDaysNeeded"`
	WorkDaysExtra      int    `json:"workDaysExtra"`
	HistoricalWorkDays int    `json:"historicalWorkDays"`
	HistoricalIncome   string `json:"historicalIncome"`
	Status             string `json:"status"`
}

// ForecastSummaryResponse represents the forecast summary in API responses
type ForecastSummaryResponse struct {
	AverageWorkDays   string   `json:"averageWorkDays"`
	DeficitMonths     int      `json:"deficitMonths"`
	SurplusMonths     int      `json:"surplusMonths"`
	CriticalMonths    []string `json:"criticalMonths"`
	RecommendedBuffer string   `json:"recommendedBuffer"`
	FinalBalance      string   `json:"finalBalance"`
}

// ForecastResponse represents the full forecast in API responses
type ForecastResponse struct {
	StartingBalance string                  `json:"startingBalance"`
	Months          []ForecastMonthResponse `json:"months"`
	Summary         ForecastSummaryResponse `json:"summary"`
}

func toForecastResponse(r *domain.ForecastResult) ForecastResponse {
	months := make([]ForecastMonthResponse, len(r.Months))
	for i, m := range r.Months {
		months[i] = ForecastMonthResponse{
			MonthKey:           m.MonthKey,
			ExpectedIncome:     m.ExpectedIncome.StringFixed(2),
			DraftIncome:        m.DraftIncome.StringFixed(2),
			TotalExpenses:      m.TotalExpenses.StringFixed(2),
			EstimatedExpenses:  m.EstimatedExpenses.StringFixed(2),
			ActualExpenses:     m.ActualExpenses.StringFixed(2),
			Balance:            m.Balance.StringFixed(2),
			Carryover:          m.Carryover.StringFixed(2),
			CumulativeBalance:  m.CumulativeBalance.StringFixed(2),
			WorkDaysNeeded:     m.WorkDaysNeeded,
			WorkDaysExtra:      m.WorkDaysExtra,
			HistoricalWorkDays: m.HistoricalWorkDays,
			HistoricalIncome:   m.HistoricalIncome.StringFixed(2),
			Status:             string(m.Status),
		}
	}

	criticalMonths := r.Summary.CriticalMonths
	if criticalMonths == nil {
		criticalMonths = []string{}
	}

	return ForecastResponse{
		StartingBalance: r.StartingBalance.StringFixed(2),
		Months:          months,
		Summary: ForecastSummaryResponse{
			AverageWorkDays:   r.Summary.AverageWorkDays.StringFixed(2),
			DeficitMonths:     r.Summary.DeficitMonths,
			SurplusMonths:     r.Summary.SurplusMonths,
			CriticalMonths:    criticalMonths,
			RecommendedBuffer: r.Summary.RecommendedBuffer.StringFixed(2),
			FinalBalance:      r.Summary.FinalBalance.StringFixed(2),
		},
	}
}

// HistoricalMonthResponse represents one realized month in API responses
type HistoricalMonthResponse struct {
	MonthKey string `json:"monthKey"`
	Income   string `json:"income"`
	WorkDays int    `json:"workDays"`
}

// HistoryResponse represents the trailing-12-month summary in API responses
type HistoryResponse struct {
	ReferenceYear           int                       `json:"referenceYear"`
	TotalIncome             string                    `json:"totalIncome"`
	TotalWorkDays           int                       `json:"totalWorkDays"`
	AverageWorkDaysPerMonth string                    `json:"averageWorkDaysPerMonth"`
	TopMonth                string                    `json:"topMonth"`
	TopMonthDays            int                       `json:"topMonthDays"`
	MonthCount              int                       `json:"monthCount"`
	Months                  []HistoricalMonthResponse `json:"months"`
}

func toHistoryResponse(h *domain.HistoricalSummary) HistoryResponse {
	months := make([]HistoricalMonthResponse, len(h.Months))
	for i, m := range h.Months {
		months[i] = HistoricalMonthResponse{
			MonthKey: m.MonthKey,
			Income:   m.Income.StringFixed(2),
			WorkDays: m.WorkDays,
		}
	}
	return HistoryResponse{
		ReferenceYear:           h.ReferenceYear,
		TotalIncome:             h.TotalIncome.StringFixed(2),
		TotalWorkDays:           h.TotalWorkDays,
		AverageWorkDaysPerMonth: h.AverageWorkDaysPerMonth.StringFixed(2),
		TopMonth:                h.TopMonth,
		TopMonthDays:            h.TopMonthDays,
		MonthCount:              h.MonthCount,
		Months:                  months,
	}
}

// PensionProjectionResponse represents a pension projection in API responses
type PensionProjectionResponse struct {
	MonthlyContribution string `json:"monthlyContribution"`
	Years               int    `json:"years"`
	AnnualReturnRate    string `json:"annualReturnRate"`
	FutureValue         string `json:"futureValue"`
	TotalContributed    string `json:"totalContributed"`
	TotalReturns        string `json:"totalReturns"`
}

// GetSnapshot godoc
// @Summary Get monthly snapshot
// @Description Get the classified expense snapshot for a month
// @Tags forecast
// @Produce json
// @Security BearerAuth
// @Param month query string false "Month key (YYYY-MM), defaults to current month"
// @Success 200 {object} SnapshotResponse
// @Failure 400 {object} ProblemDetails
// @Router /forecast/snapshot [get]
func (h *ForecastHandler) GetSnapshot(c echo.Context) error {
	snapshot, err := h.forecastService.GetSnapshot(c.QueryParam("month"))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return NewValidationError(c, "Invalid month", []ValidationError{
				{Field: "month", Message: "Must be in YYYY-MM format"},
			})
		}
		log.Error().Err(err).Msg("Failed to build snapshot")
		return NewInternalError(c, "Failed to build snapshot")
	}
	return c.JSON(http.StatusOK, toSnapshotResponse(snapshot))
}

// GetForecast godoc
// @Summary Get cash-flow forecast
// @Description Get the rolling 12-month cash-flow projection
// @Tags forecast
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ForecastResponse
// @Failure 401 {object} ProblemDetails
// @Router /forecast [get]
func (h *ForecastHandler) GetForecast(c echo.Context) error {
	result, err := h.forecastService.GetForecast()
	if err != nil {
		log.Error().Err(err).Msg("Failed to build forecast")
		return NewInternalError(c, "Failed to build forecast")
	}
	return c.JSON(http.StatusOK, toForecastResponse(result))
}

// GetHistory godoc
// @Summary Get income history
// @Description Get the trailing-12-month realized income summary
// @Tags forecast
// @Produce json
// @Security BearerAuth
// @Success 200 {object} HistoryResponse
// @Failure 401 {object} ProblemDetails
// @Router /forecast/history [get]
func (h *ForecastHandler) GetHistory(c echo.Context) error {
	summary, err := h.forecastService.GetHistory()
	if err != nil {
		log.Error().Err(err).Msg("Failed to build history")
		return NewInternalError(c, "Failed to build history")
	}
	return c.JSON(http.StatusOK, toHistoryResponse(summary))
}

// GetPensionProjection godoc
// @Summary Project pension savings
// @Description Compute the future value of a monthly pension contribution
// @Tags pension
// @Produce json
// @Security BearerAuth
// @Param monthlyContribution query string false "Monthly contribution, defaults to the configured pension amount"
// @Param years query int true "Contribution horizon in years"
// @Param annualRate query string false "Expected annual return rate (e.g. 0.05)" default(0)
// @Success 200 {object} PensionProjectionResponse
// @Failure 400 {object} ProblemDetails
// @Router /pension/projection [get]
func (h *ForecastHandler) GetPensionProjection(c echo.Context) error {
	years, err := strconv.Atoi(c.QueryParam("years"))
	if err != nil {
		return NewValidationError(c, "Invalid years", []ValidationError{
			{Field: "years", Message: "Must be an integer"},
		})
	}

	contribution := decimal.Zero
	if v := c.QueryParam("monthlyContribution"); v != "" {
		contribution, err = decimal.NewFromString(v)
		if err != nil {
			return NewValidationError(c, "Invalid monthlyContribution", []ValidationError{
				{Field: "monthlyContribution", Message: "Must be a valid decimal number"},
			})
		}
	}

	rate := decimal.Zero
	if v := c.QueryParam("annualRate"); v != "" {
		rate, err = decimal.NewFromString(v)
		if err != nil {
			return NewValidationError(c, "Invalid annualRate", []ValidationError{
				{Field: "annualRate", Message: "Must be a valid decimal number"},
			})
		}
	}

	projection, err := h.forecastService.GetPensionProjection(contribution, years, rate)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return NewValidationError(c, "Years and rate must not be negative", nil)
		}
		log.Error().Err(err).Msg("Failed to project pension")
		return NewInternalError(c, "Failed to project pension")
	}

	return c.JSON(http.StatusOK, PensionProjectionResponse{
		MonthlyContribution: projection.MonthlyContribution.StringFixed(2),
		Years:               projection.Years,
		AnnualReturnRate:    projection.AnnualReturnRate.String(),
		FutureValue:         projection.FutureValue.StringFixed(2),
		TotalContributed:    projection.TotalContributed.StringFixed(2),
		TotalReturns:        projection.TotalReturns.StringFixed(2),
	})
}

// RequiredContributionResponse represents the reverse pension solver output
type RequiredContributionResponse struct {
	Target              string `json:"target"`
	Years               int    `json:"years"`
	AnnualReturnRate    string `json:"annualReturnRate"`
	MonthlyContribution string `json:"monthlyContribution"`
}

// GetRequiredContribution godoc
// @Summary Solve required contribution
// @Description Compute the monthly contribution needed to reach a savings target
// @Tags pension
// @Produce json
// @Security BearerAuth
// @Param target query string true "Target amount"
// @Param years query int true "Contribution horizon in years"
// @Param annualRate query string false "Expected annual return rate (e.g. 0.05)" default(0)
// @Success 200 {object} RequiredContributionResponse
// @Failure 400 {object} ProblemDetails
// @Router /pension/required-contribution [get]
func (h *ForecastHandler) GetRequiredContribution(c echo.Context) error {
	target, err := decimal.NewFromString(c.QueryParam("target"))
	if err != nil {
		return NewValidationError(c, "Invalid target", []ValidationError{
			{Field: "target", Message: "Must be a valid decimal number"},
		})
	}

	years, err := strconv.Atoi(c.QueryParam("years"))
	if err != nil {
		return NewValidationError(c, "Invalid years", []ValidationError{
			{Field: "years", Message: "Must be an integer"},
		})
	}

	rate := decimal.Zero
	if v := c.QueryParam("annualRate"); v != "" {
		rate, err = decimal.NewFromString(v)
		if err != nil {
			return NewValidationError(c, "Invalid annualRate", []ValidationError{
				{Field: "annualRate", Message: "Must be a valid decimal number"},
			})
		}
	}

	contribution, err := h.forecastService.GetRequiredContribution(target, years, rate)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return NewValidationError(c, "Target and years must be positive, rate must not be negative", nil)
		}
		log.Error().Err(err).Msg("Failed to solve required contribution")
		return NewInternalError(c, "Failed to solve required contribution")
	}

	return c.JSON(http.StatusOK, RequiredContributionResponse{
		Target:              target.StringFixed(2),
		Years:               years,
		AnnualReturnRate:    rate.String(),
		MonthlyContribution: contribution.StringFixed(2),
	})
}
