package engine

import (
	"github.com/shopspring/decimal"
	"github.com/soldi-app/soldi-backend/internal/domain"
)

// ProjectPension computes the future value of a monthly contribution
// compounded at the annual return rate over the given horizon, using the
// closed-form annuity formula with monthly compounding:
//
//	FV = c * ((1+r)^n - 1) / r   where r = rate/12, n = years*12
//
// A zero rate degenerates to linear accumulation. A zero horizon yields a
// zero projection. Negative contributions pass through arithmetically.
func ProjectPension(monthlyContribution decimal.Decimal, years int, annualRate decimal.Decimal) *domain.PensionProjection {
	projection := &domain.PensionProjection{
		MonthlyContribution: monthlyContribution,
		Years:               years,
		AnnualReturnRate:    annualRate,
		FutureValue:         decimal.Zero,
		TotalContributed:    decimal.Zero,
		TotalReturns:        decimal.Zero,
	}

	n := years * 12
	if n <= 0 {
		return projection
	}

	months := decimal.NewFromInt(int64(n))
	projection.TotalContributed = monthlyContribution.Mul(months)

	if annualRate.IsZero() {
		projection.FutureValue = projection.TotalContributed
		return projection
	}

	monthlyRate := annualRate.Div(decimalTwelve)
	growth := decimalOne.Add(monthlyRate).Pow(months).Sub(decimalOne)
	projection.FutureValue = monthlyContribution.Mul(growth).Div(monthlyRate)
	projection.TotalReturns = projection.FutureValue.Sub(projection.TotalContributed)

	return projection
}

// RequiredContribution inverts ProjectPension: the monthly contribution
// needed to reach the target amount over the horizon. Callers must guard
// years > 0; a zero horizon returns zero rather than dividing by zero.
func RequiredContribution(target decimal.Decimal, years int, annualRate decimal.Decimal) decimal.Decimal {
	n := years * 12
	if n <= 0 {
		return decimal.Zero
	}

	months := decimal.NewFromInt(int64(n))
	if annualRate.IsZero() {
		return target.Div(months)
	}

	monthlyRate := annualRate.Div(decimalTwelve)
	growth := decimalOne.Add(monthlyRate).Pow(months).Sub(decimalOne)
	if growth.IsZero() {
		return decimal.Zero
	}
	return target.Mul(monthlyRate).Div(growth)
}
