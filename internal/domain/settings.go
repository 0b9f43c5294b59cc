package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ForecastSettings is the single household-wide settings row consumed by the
// forecast engine. DailyRate must be positive for work-day figures to be
// meaningful; the engine guards against zero instead of failing.
type ForecastSettings struct {
	DailyRate               decimal.Decimal `json:"dailyRate"`
	PensionMonthly          decimal.Decimal `json:"pensionMonthly"`
	PaymentDelayDays        int             `json:"paymentDelayDays"`
	UseManualEstimates      bool            `json:"useManualEstimates"`
	EstimatedFixed          decimal.Decimal `json:"estimatedFixed"`
	EstimatedVariable       decimal.Decimal `json:"estimatedVariable"`
	EstimatedBills          decimal.Decimal `json:"estimatedBills"`
	UseCustomInitialBalance bool            `json:"useCustomInitialBalance"`
	InitialBalance          decimal.Decimal `json:"initialBalance"`
	InitialBalanceDate      *time.Time      `json:"initialBalanceDate,omitempty"`
	IncludeDrafts           bool            `json:"includeDrafts"`
	UpdatedAt               time.Time       `json:"updatedAt"`
}

// DefaultForecastSettings returns the settings used before the household has
// saved any
func DefaultForecastSettings() *ForecastSettings {
	return &ForecastSettings{
		DailyRate:         decimal.Zero,
		PensionMonthly:    decimal.Zero,
		EstimatedFixed:    decimal.Zero,
		EstimatedVariable: decimal.Zero,
		EstimatedBills:    decimal.Zero,
		InitialBalance:    decimal.Zero,
	}
}

type SettingsRepository interface {
	Get() (*ForecastSettings, error)
	Update(settings *ForecastSettings) (*ForecastSettings, error)
}
