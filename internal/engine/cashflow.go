package engine

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/soldi-app/soldi-backend/internal/domain"
	"github.com/soldi-app/soldi-backend/internal/util"
)

// Forecast produces the rolling 12-month cash-flow projection starting at the
// month of now.
//
// Per month: expected income is the outstanding amount of unpaid invoices
// whose effective due date (due date shifted by the configured payment delay)
// falls in that month, with draft invoices included only when the settings say
// so. Total expenses come from the snapshot, or from the manual estimates
// when enabled, plus the monthly pension contribution. The cumulative balance
// carries over month to month from the supplied starting balance; a negative
// cumulative balance is translated into extra work days needed to close the
// gap within that month, without reopening prior months.
//
// history supplies the realized figures for the same calendar month one year
// prior and may be nil.
func Forecast(
	invoices []*domain.InvoiceRecord,
	snapshot *domain.MonthlySnapshot,
	history *domain.HistoricalSummary,
	settings *domain.ForecastSettings,
	startingBalance decimal.Decimal,
	now time.Time,
) *domain.ForecastResult {
	estimated := settings.EstimatedFixed.Add(settings.EstimatedVariable).Add(settings.EstimatedBills)
	actual := snapshot.FixedTotal().Add(snapshot.VariableAverage).Add(snapshot.Bills)

	base := actual
	if settings.UseManualEstimates {
		base = estimated
	}
	totalExpenses := base.Add(settings.PensionMonthly)

	incomeByMonth, draftByMonth := expectedIncomeByMonth(invoices, settings)

	months := make([]domain.ForecastMonth, 0, ForecastMonths)
	cumulative := startingBalance
	totalDays := int64(0)
	summary := domain.ForecastSummary{
		CriticalMonths:    []string{},
		RecommendedBuffer: decimal.Zero,
	}
	lowest := decimal.Zero

	for i := 0; i < ForecastMonths; i++ {
		month := util.AddMonths(now, i)
		key := util.MonthKey(month)

		expected := incomeByMonth[key]
		balance := expected.Sub(totalExpenses)

		carryover := cumulative
		cumulative = carryover.Add(balance)

		fm := domain.ForecastMonth{
			Month:             month,
			MonthKey:          key,
			ExpectedIncome:    expected,
			DraftIncome:       draftByMonth[key],
			TotalExpenses:     totalExpenses,
			EstimatedExpenses: estimated,
			ActualExpenses:    actual,
			Balance:           balance,
			Carryover:         carryover,
			CumulativeBalance: cumulative,
			WorkDaysNeeded:    workDays(totalExpenses, settings.DailyRate),
			HistoricalIncome:  decimal.Zero,
		}

		if cumulative.IsNegative() {
			fm.WorkDaysExtra = workDays(cumulative.Neg(), settings.DailyRate)
			fm.Status = domain.MonthStatusDeficit
			summary.DeficitMonths++
			summary.CriticalMonths = append(summary.CriticalMonths, key)
		} else if balance.IsPositive() {
			fm.Status = domain.MonthStatusSurplus
			summary.SurplusMonths++
		} else {
			fm.Status = domain.MonthStatusBalanced
		}

		if history != nil {
			if hm := history.MonthByKey(util.MonthKey(util.AddMonths(month, -12))); hm != nil {
				fm.HistoricalWorkDays = hm.WorkDays
				fm.HistoricalIncome = hm.Income
			}
		}

		if cumulative.LessThan(lowest) {
			lowest = cumulative
		}
		totalDays += int64(fm.WorkDaysNeeded + fm.WorkDaysExtra)

		months = append(months, fm)
	}

	summary.AverageWorkDays = decimal.NewFromInt(totalDays).Div(decimal.NewFromInt(ForecastMonths)).Round(2)
	summary.RecommendedBuffer = lowest.Neg()
	summary.FinalBalance = cumulative

	return &domain.ForecastResult{
		StartingBalance: startingBalance,
		Months:          months,
		Summary:         summary,
	}
}

// expectedIncomeByMonth buckets outstanding invoice amounts by the month
// their payment is expected to land in. The second map tracks the draft
// subset for display.
func expectedIncomeByMonth(invoices []*domain.InvoiceRecord, settings *domain.ForecastSettings) (map[string]decimal.Decimal, map[string]decimal.Decimal) {
	income := make(map[string]decimal.Decimal)
	drafts := make(map[string]decimal.Decimal)

	for _, inv := range invoices {
		if inv.Status == domain.InvoiceStatusPaid {
			continue
		}
		if inv.Status == domain.InvoiceStatusDraft && !settings.IncludeDrafts {
			continue
		}

		effective := inv.DueDate.AddDate(0, 0, settings.PaymentDelayDays)
		key := util.MonthKey(effective)
		amount := inv.Outstanding()

		income[key] = income[key].Add(amount)
		if inv.Status == domain.InvoiceStatusDraft {
			drafts[key] = drafts[key].Add(amount)
		}
	}

	return income, drafts
}

// CarryoverBalance derives a starting balance from realized cash flow over
// the last fully completed months: paid invoice income minus paid expenses,
// no estimates. Used when the household has not supplied a real banking
// balance.
func CarryoverBalance(invoices []*domain.InvoiceRecord, expenses []*domain.ExpenseRecord, now time.Time) decimal.Decimal {
	windowStart := util.AddMonths(now, -CarryoverLookbackMonths)
	windowEnd := util.StartOfMonth(now) // exclusive

	balance := decimal.Zero

	for _, inv := range invoices {
		if inv.Status != domain.InvoiceStatusPaid {
			continue
		}
		realized := inv.RealizedDate()
		if realized.Before(windowStart) || !realized.Before(windowEnd) {
			continue
		}
		balance = balance.Add(inv.TotalAmount)
	}

	for _, e := range expenses {
		if !e.Paid() {
			continue
		}
		if e.Date.Before(windowStart) || !e.Date.Before(windowEnd) {
			continue
		}
		balance = balance.Sub(e.Amount)
	}

	return balance
}
