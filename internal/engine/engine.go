// Package engine implements the financial forecast computations: expense
// classification, the monthly spending snapshot, the rolling 12-month
// cash-flow projection, the trailing-12-month historical comparator, and the
// pension solver. Every function is pure and stateless; callers supply the
// full input slices and an explicit reference time, and each call returns a
// fresh result.
package engine

import "github.com/shopspring/decimal"

const (
	// ForecastMonths is the length of the cash-flow projection
	ForecastMonths = 12

	// HistoryWindowMonths caps the windows used for the variable-spend
	// average and the historical comparator
	HistoryWindowMonths = 12

	// MinConfidentMonths is the history depth below which snapshot figures
	// are flagged as estimated
	MinConfidentMonths = 3

	// CarryoverLookbackMonths is the number of completed months used when
	// deriving a starting balance from realized cash flow
	CarryoverLookbackMonths = 3
)

var (
	decimalOne    = decimal.NewFromInt(1)
	decimalTwelve = decimal.NewFromInt(12)
)

// workDays translates a monetary amount into billable days at the given daily
// rate, rounding up. A zero or negative rate yields zero rather than a
// division error.
func workDays(amount, dailyRate decimal.Decimal) int {
	if !dailyRate.IsPositive() || !amount.IsPositive() {
		return 0
	}
	return int(amount.Div(dailyRate).Ceil().IntPart())
}
