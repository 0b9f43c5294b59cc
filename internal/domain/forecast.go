package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MonthlySnapshot is the per-reference-month aggregation of classified
// expenses. Fixed costs are taken from the reference month only; variable
// spend is a progressive windowed average over up to 12 months of history.
// Invariant: IsEstimated is true whenever MonthsConsidered < 3.
type MonthlySnapshot struct {
	MonthKey         string          `json:"monthKey"`
	Loans            decimal.Decimal `json:"loans"`
	Transfers        decimal.Decimal `json:"transfers"`
	Subscriptions    decimal.Decimal `json:"subscriptions"`
	FixedOther       decimal.Decimal `json:"fixedOther"`
	VariableAverage  decimal.Decimal `json:"variableAverage"`
	Bills            decimal.Decimal `json:"bills"`
	MonthsConsidered int             `json:"monthsConsidered"`
	IsEstimated      bool            `json:"isEstimated"`
}

// FixedTotal sums the non-seasonal recurring fixed costs.
func (s *MonthlySnapshot) FixedTotal() decimal.Decimal {
	return s.Loans.Add(s.Transfers).Add(s.Subscriptions).Add(s.FixedOther)
}

type MonthStatus string

const (
	MonthStatusSurplus  MonthStatus = "surplus"
	MonthStatusBalanced MonthStatus = "balanced"
	MonthStatusDeficit  MonthStatus = "deficit"
)

// ForecastMonth is one projected month of the rolling 12-month forecast.
// Invariant: CumulativeBalance = Carryover + Balance, and the carryover of
// month i equals the cumulative balance of month i-1 (the starting balance
// for month 0).
type ForecastMonth struct {
	Month              time.Time       `json:"month"`
	MonthKey           string          `json:"monthKey"`
	ExpectedIncome     decimal.Decimal `json:"expectedIncome"`
	DraftIncome        decimal.Decimal `json:"draftIncome"`
	TotalExpenses      decimal.Decimal `json:"totalExpenses"`
	EstimatedExpenses  decimal.Decimal `json:"estimatedExpenses"`
	ActualExpenses     decimal.Decimal `json:"actualExpenses"`
	Balance            decimal.Decimal `json:"balance"`
	Carryover          decimal.Decimal `json:"carryover"`
	CumulativeBalance  decimal.Decimal `json:"cumulativeBalance"`
	WorkDaysNeeded     int             `json:"workDaysNeeded"`
	WorkDaysExtra      int             `json:"workDaysExtra"`
	HistoricalWorkDays int             `json:"historicalWorkDays"`
	HistoricalIncome   decimal.Decimal `json:"historicalIncome"`
	Status             MonthStatus     `json:"status"`
}

// ForecastSummary aggregates the 12-month projection for the dashboard.
type ForecastSummary struct {
	AverageWorkDays   decimal.Decimal `json:"averageWorkDays"`
	DeficitMonths     int             `json:"deficitMonths"`
	SurplusMonths     int             `json:"surplusMonths"`
	CriticalMonths    []string        `json:"criticalMonths"`
	RecommendedBuffer decimal.Decimal `json:"recommendedBuffer"`
	FinalBalance      decimal.Decimal `json:"finalBalance"`
}

type ForecastResult struct {
	StartingBalance decimal.Decimal `json:"startingBalance"`
	Months          []ForecastMonth `json:"months"`
	Summary         ForecastSummary `json:"summary"`
}

// HistoricalMonth is one realized month inside the trailing-12-month window.
type HistoricalMonth struct {
	MonthKey string          `json:"monthKey"`
	Income   decimal.Decimal `json:"income"`
	WorkDays int             `json:"workDays"`
}

// HistoricalSummary is derived strictly from issued/paid invoices over the
// trailing 12 months; the forecaster reads it but never mutates it.
type HistoricalSummary struct {
	ReferenceYear           int               `json:"referenceYear"`
	TotalIncome             decimal.Decimal   `json:"totalIncome"`
	TotalWorkDays           int               `json:"totalWorkDays"`
	AverageWorkDaysPerMonth decimal.Decimal   `json:"averageWorkDaysPerMonth"`
	TopMonth                string            `json:"topMonth"`
	TopMonthDays            int               `json:"topMonthDays"`
	MonthCount              int               `json:"monthCount"`
	Months                  []HistoricalMonth `json:"months"`
}

// MonthByKey returns the realized month for the given key, or nil.
func (h *HistoricalSummary) MonthByKey(key string) *HistoricalMonth {
	for i := range h.Months {
		if h.Months[i].MonthKey == key {
			return &h.Months[i]
		}
	}
	return nil
}

// PensionProjection is the output of the compound-growth pension solver.
type PensionProjection struct {
	MonthlyContribution decimal.Decimal `json:"monthlyContribution"`
	Years               int             `json:"years"`
	AnnualReturnRate    decimal.Decimal `json:"annualReturnRate"`
	FutureValue         decimal.Decimal `json:"futureValue"`
	TotalContributed    decimal.Decimal `json:"totalContributed"`
	TotalReturns        decimal.Decimal `json:"totalReturns"`
}
