package engine

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/soldi-app/soldi-backend/internal/domain"
	"github.com/soldi-app/soldi-backend/internal/util"
)

// AggregateHistory computes the realized income and work-day statistics over
// the trailing 12 calendar months ending at now. Draft invoices are ignored;
// income counts toward the month it was paid in when a paid date exists,
// otherwise the month it was issued. Work days per month are the month's
// income divided by the daily rate, rounded to the nearest day.
func AggregateHistory(invoices []*domain.InvoiceRecord, dailyRate decimal.Decimal, now time.Time) *domain.HistoricalSummary {
	windowStart := util.AddMonths(now, -(HistoryWindowMonths - 1))
	windowEnd := util.AddMonths(now, 1) // exclusive

	incomeByMonth := make(map[string]decimal.Decimal)
	totalIncome := decimal.Zero

	for _, inv := range invoices {
		if inv.Status == domain.InvoiceStatusDraft {
			continue
		}
		realized := inv.RealizedDate()
		if realized.Before(windowStart) || !realized.Before(windowEnd) {
			continue
		}
		key := util.MonthKey(realized)
		incomeByMonth[key] = incomeByMonth[key].Add(inv.TotalAmount)
		totalIncome = totalIncome.Add(inv.TotalAmount)
	}

	summary := &domain.HistoricalSummary{
		ReferenceYear:           now.Year(),
		TotalIncome:             totalIncome,
		AverageWorkDaysPerMonth: decimal.Zero,
		Months:                  []domain.HistoricalMonth{},
	}

	keys := make([]string, 0, len(incomeByMonth))
	for key := range incomeByMonth {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		income := incomeByMonth[key]
		days := roundedWorkDays(income, dailyRate)

		summary.Months = append(summary.Months, domain.HistoricalMonth{
			MonthKey: key,
			Income:   income,
			WorkDays: days,
		})
		summary.TotalWorkDays += days

		if days > summary.TopMonthDays {
			summary.TopMonth = key
			summary.TopMonthDays = days
		}
	}

	summary.MonthCount = len(keys)

	divisor := summary.MonthCount
	if divisor < 1 {
		divisor = 1
	}
	summary.AverageWorkDaysPerMonth = decimal.NewFromInt(int64(summary.TotalWorkDays)).
		Div(decimal.NewFromInt(int64(divisor))).Round(2)

	return summary
}

// roundedWorkDays converts income to billable days at the daily rate,
// rounding to the nearest whole day. Zero rate yields zero.
func roundedWorkDays(income, dailyRate decimal.Decimal) int {
	if !dailyRate.IsPositive() || !income.IsPositive() {
		return 0
	}
	return int(income.Div(dailyRate).Round(0).IntPart())
}
