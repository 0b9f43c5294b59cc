package engine

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/soldi-app/soldi-backend/internal/domain"
)

var forecastNow = time.Date(2026, time.May, 15, 10, 0, 0, 0, time.UTC)

func testSettings(dailyRate int64) *domain.ForecastSettings {
	return &domain.ForecastSettings{
		DailyRate:         decimal.NewFromInt(dailyRate),
		PensionMonthly:    decimal.NewFromInt(200),
		EstimatedFixed:    decimal.Zero,
		EstimatedVariable: decimal.Zero,
		EstimatedBills:    decimal.Zero,
		InitialBalance:    decimal.Zero,
	}
}

func testSnapshot() *domain.MonthlySnapshot {
	return &domain.MonthlySnapshot{
		MonthKey:        "2026-05",
		Loans:           decimal.NewFromInt(400),
		Transfers:       decimal.Zero,
		Subscriptions:   decimal.NewFromInt(50),
		FixedOther:      decimal.Zero,
		VariableAverage: decimal.NewFromInt(600),
		Bills:           decimal.NewFromInt(150),
	}
}

func unpaidInvoice(due time.Time, total int64) *domain.InvoiceRecord {
	return &domain.InvoiceRecord{
		ClientName:  "Acme",
		InvoiceDate: due.AddDate(0, 0, -30),
		DueDate:     due,
		TotalAmount: decimal.NewFromInt(total),
		Status:      domain.InvoiceStatusSent,
	}
}

func TestForecast_WorkDaysFromSnapshot(t *testing.T) {
	// 400 loans + 50 subscriptions + 600 variable + 150 bills + 200 pension
	// = 1400 => ceil(1400/300) = 5 work days
	result := Forecast(nil, testSnapshot(), nil, testSettings(300), decimal.Zero, forecastNow)

	if len(result.Months) != 12 {
		t.Fatalf("forecast length = %d, want 12", len(result.Months))
	}

	first := result.Months[0]
	if got := first.TotalExpenses.StringFixed(2); got != "1400.00" {
		t.Errorf("TotalExpenses = %s, want 1400.00", got)
	}
	if first.WorkDaysNeeded != 5 {
		t.Errorf("WorkDaysNeeded = %d, want 5", first.WorkDaysNeeded)
	}
	if first.MonthKey != "2026-05" {
		t.Errorf("first month key = %s, want 2026-05", first.MonthKey)
	}
}

func TestForecast_CumulativeBalanceIdentity(t *testing.T) {
	invoices := []*domain.InvoiceRecord{
		unpaidInvoice(time.Date(2026, time.June, 10, 0, 0, 0, 0, time.UTC), 3000),
		unpaidInvoice(time.Date(2026, time.September, 10, 0, 0, 0, 0, time.UTC), 5000),
	}
	starting := decimal.NewFromInt(1000)

	result := Forecast(invoices, testSnapshot(), nil, testSettings(300), starting, forecastNow)

	running := starting
	for i, m := range result.Months {
		if !m.CumulativeBalance.Equal(m.Carryover.Add(m.Balance)) {
			t.Errorf("month %d: cumulative %s != carryover %s + balance %s",
				i, m.CumulativeBalance, m.Carryover, m.Balance)
		}
		if !m.Carryover.Equal(running) {
			t.Errorf("month %d: carryover %s, want previous cumulative %s", i, m.Carryover, running)
		}
		running = running.Add(m.Balance)
		if !m.CumulativeBalance.Equal(running) {
			t.Errorf("month %d: cumulative %s != startingBalance + sum of balances %s",
				i, m.CumulativeBalance, running)
		}
	}

	if !result.Summary.FinalBalance.Equal(running) {
		t.Errorf("final balance = %s, want %s", result.Summary.FinalBalance, running)
	}
}

func TestForecast_DeficitRecovery(t *testing.T) {
	// Starting at -500 with a +300 month keeps the running balance at -200:
	// still a deficit, extra days = ceil(200/300) = 1.
	settings := testSettings(300)
	settings.PensionMonthly = decimal.Zero
	snapshot := &domain.MonthlySnapshot{
		MonthKey:        "2026-05",
		VariableAverage: decimal.NewFromInt(700),
	}
	invoices := []*domain.InvoiceRecord{
		unpaidInvoice(time.Date(2026, time.May, 20, 0, 0, 0, 0, time.UTC), 1000),
	}

	result := Forecast(invoices, snapshot, nil, settings, decimal.NewFromInt(-500), forecastNow)

	first := result.Months[0]
	if got := first.Balance.StringFixed(2); got != "300.00" {
		t.Fatalf("Balance = %s, want 300.00", got)
	}
	if got := first.CumulativeBalance.StringFixed(2); got != "-200.00" {
		t.Fatalf("CumulativeBalance = %s, want -200.00", got)
	}
	if first.Status != domain.MonthStatusDeficit {
		t.Errorf("Status = %s, want deficit", first.Status)
	}
	if first.WorkDaysExtra != 1 {
		t.Errorf("WorkDaysExtra = %d, want 1", first.WorkDaysExtra)
	}
}

func TestForecast_WorkDaysExtraNonNegativeAndZeroWhenCovered(t *testing.T) {
	invoices := []*domain.InvoiceRecord{
		unpaidInvoice(time.Date(2026, time.May, 20, 0, 0, 0, 0, time.UTC), 20000),
	}

	result := Forecast(invoices, testSnapshot(), nil, testSettings(300), decimal.Zero, forecastNow)

	for i, m := range result.Months {
		if m.WorkDaysExtra < 0 {
			t.Errorf("month %d: WorkDaysExtra = %d, want >= 0", i, m.WorkDaysExtra)
		}
		if m.CumulativeBalance.Sign() >= 0 && m.WorkDaysExtra != 0 {
			t.Errorf("month %d: WorkDaysExtra = %d with non-negative cumulative balance", i, m.WorkDaysExtra)
		}
		if m.CumulativeBalance.IsNegative() && m.WorkDaysExtra == 0 {
			t.Errorf("month %d: WorkDaysExtra = 0 with negative cumulative balance", i)
		}
	}
}

func TestForecast_StatusTransitions(t *testing.T) {
	// Income only in month 0; later months drain the balance into deficit.
	invoices := []*domain.InvoiceRecord{
		unpaidInvoice(time.Date(2026, time.May, 20, 0, 0, 0, 0, time.UTC), 3000),
	}

	result := Forecast(invoices, testSnapshot(), nil, testSettings(300), decimal.Zero, forecastNow)

	if result.Months[0].Status != domain.MonthStatusSurplus {
		t.Errorf("month 0 status = %s, want surplus", result.Months[0].Status)
	}
	if result.Months[1].Status != domain.MonthStatusSurplus {
		// 3000 - 1400 = 1600 cumulative, month 1 balance -1400 => 200 left
		t.Logf("month 1 status = %s", result.Months[1].Status)
	}
	last := result.Months[11]
	if last.Status != domain.MonthStatusDeficit {
		t.Errorf("month 11 status = %s, want deficit", last.Status)
	}

	if result.Summary.DeficitMonths == 0 {
		t.Error("expected deficit months in summary")
	}
	if len(result.Summary.CriticalMonths) != result.Summary.DeficitMonths {
		t.Errorf("critical months %d != deficit months %d",
			len(result.Summary.CriticalMonths), result.Summary.DeficitMonths)
	}
}

func TestForecast_BalancedStatus(t *testing.T) {
	// Income exactly covers expenses: balance 0, cumulative 0 => balanced.
	invoices := []*domain.InvoiceRecord{
		unpaidInvoice(time.Date(2026, time.May, 20, 0, 0, 0, 0, time.UTC), 1400),
	}

	result := Forecast(invoices, testSnapshot(), nil, testSettings(300), decimal.Zero, forecastNow)

	if result.Months[0].Status != domain.MonthStatusBalanced {
		t.Errorf("status = %s, want balanced", result.Months[0].Status)
	}
}

func TestForecast_DraftInvoices(t *testing.T) {
	draft := unpaidInvoice(time.Date(2026, time.May, 25, 0, 0, 0, 0, time.UTC), 2000)
	draft.Status = domain.InvoiceStatusDraft
	sent := unpaidInvoice(time.Date(2026, time.May, 25, 0, 0, 0, 0, time.UTC), 1000)
	invoices := []*domain.InvoiceRecord{draft, sent}

	settings := testSettings(300)

	excluded := Forecast(invoices, testSnapshot(), nil, settings, decimal.Zero, forecastNow)
	if got := excluded.Months[0].ExpectedIncome.StringFixed(2); got != "1000.00" {
		t.Errorf("ExpectedIncome without drafts = %s, want 1000.00", got)
	}
	if !excluded.Months[0].DraftIncome.IsZero() {
		t.Errorf("DraftIncome without drafts = %s, want 0", excluded.Months[0].DraftIncome)
	}

	settings.IncludeDrafts = true
	included := Forecast(invoices, testSnapshot(), nil, settings, decimal.Zero, forecastNow)
	if got := included.Months[0].ExpectedIncome.StringFixed(2); got != "3000.00" {
		t.Errorf("ExpectedIncome with drafts = %s, want 3000.00", got)
	}
	if got := included.Months[0].DraftIncome.StringFixed(2); got != "2000.00" {
		t.Errorf("DraftIncome with drafts = %s, want 2000.00", got)
	}
}

func TestForecast_PartiallyPaidInvoiceCountsOutstanding(t *testing.T) {
	inv := unpaidInvoice(time.Date(2026, time.May, 20, 0, 0, 0, 0, time.UTC), 5000)
	inv.Status = domain.InvoiceStatusPartial
	inv.PaidAmount = decimal.NewFromInt(2000)
	inv.RemainingAmount = decimal.NewFromInt(3000)

	result := Forecast([]*domain.InvoiceRecord{inv}, testSnapshot(), nil, testSettings(300), decimal.Zero, forecastNow)

	if got := result.Months[0].ExpectedIncome.StringFixed(2); got != "3000.00" {
		t.Errorf("ExpectedIncome = %s, want 3000.00", got)
	}
}

func TestForecast_PaidInvoicesExcluded(t *testing.T) {
	inv := unpaidInvoice(time.Date(2026, time.May, 20, 0, 0, 0, 0, time.UTC), 5000)
	inv.Status = domain.InvoiceStatusPaid

	result := Forecast([]*domain.InvoiceRecord{inv}, testSnapshot(), nil, testSettings(300), decimal.Zero, forecastNow)

	if !result.Months[0].ExpectedIncome.IsZero() {
		t.Errorf("ExpectedIncome = %s, want 0 for paid invoice", result.Months[0].ExpectedIncome)
	}
}

func TestForecast_PaymentDelayShiftsIncomeMonth(t *testing.T) {
	// Due on May 25 with a 15-day collection delay lands in June.
	invoices := []*domain.InvoiceRecord{
		unpaidInvoice(time.Date(2026, time.May, 25, 0, 0, 0, 0, time.UTC), 1000),
	}
	settings := testSettings(300)
	settings.PaymentDelayDays = 15

	result := Forecast(invoices, testSnapshot(), nil, settings, decimal.Zero, forecastNow)

	if !result.Months[0].ExpectedIncome.IsZero() {
		t.Errorf("May income = %s, want 0", result.Months[0].ExpectedIncome)
	}
	if got := result.Months[1].ExpectedIncome.StringFixed(2); got != "1000.00" {
		t.Errorf("June income = %s, want 1000.00", got)
	}
}

func TestForecast_ManualEstimates(t *testing.T) {
	settings := testSettings(300)
	settings.UseManualEstimates = true
	settings.EstimatedFixed = decimal.NewFromInt(500)
	settings.EstimatedVariable = decimal.NewFromInt(400)
	settings.EstimatedBills = decimal.NewFromInt(100)

	result := Forecast(nil, testSnapshot(), nil, settings, decimal.Zero, forecastNow)

	first := result.Months[0]
	// 500 + 400 + 100 + 200 pension
	if got := first.TotalExpenses.StringFixed(2); got != "1200.00" {
		t.Errorf("TotalExpenses = %s, want 1200.00", got)
	}
	if got := first.EstimatedExpenses.StringFixed(2); got != "1000.00" {
		t.Errorf("EstimatedExpenses = %s, want 1000.00", got)
	}
	if got := first.ActualExpenses.StringFixed(2); got != "1200.00" {
		t.Errorf("ActualExpenses = %s, want snapshot-derived 1200.00", got)
	}
}

func TestForecast_ZeroDailyRate(t *testing.T) {
	settings := testSettings(0)

	result := Forecast(nil, testSnapshot(), nil, settings, decimal.NewFromInt(-1000), forecastNow)

	for i, m := range result.Months {
		if m.WorkDaysNeeded != 0 || m.WorkDaysExtra != 0 {
			t.Errorf("month %d: work days (%d, %d) with zero daily rate, want (0, 0)",
				i, m.WorkDaysNeeded, m.WorkDaysExtra)
		}
	}
}

func TestForecast_HistoricalComparison(t *testing.T) {
	history := &domain.HistoricalSummary{
		Months: []domain.HistoricalMonth{
			{MonthKey: "2025-05", Income: decimal.NewFromInt(6000), WorkDays: 20},
			{MonthKey: "2025-07", Income: decimal.NewFromInt(4500), WorkDays: 15},
		},
	}

	result := Forecast(nil, testSnapshot(), history, testSettings(300), decimal.Zero, forecastNow)

	if result.Months[0].HistoricalWorkDays != 20 {
		t.Errorf("May historical work days = %d, want 20", result.Months[0].HistoricalWorkDays)
	}
	if got := result.Months[0].HistoricalIncome.StringFixed(2); got != "6000.00" {
		t.Errorf("May historical income = %s, want 6000.00", got)
	}
	if result.Months[1].HistoricalWorkDays != 0 {
		t.Errorf("June historical work days = %d, want 0 (no data)", result.Months[1].HistoricalWorkDays)
	}
	if result.Months[2].HistoricalWorkDays != 15 {
		t.Errorf("July historical work days = %d, want 15", result.Months[2].HistoricalWorkDays)
	}
}

func TestForecast_RecommendedBuffer(t *testing.T) {
	// No income: the balance sinks deeper every month, the buffer must match
	// the most negative cumulative balance.
	result := Forecast(nil, testSnapshot(), nil, testSettings(300), decimal.Zero, forecastNow)

	worst := result.Months[11].CumulativeBalance
	if got := result.Summary.RecommendedBuffer; !got.Equal(worst.Neg()) {
		t.Errorf("RecommendedBuffer = %s, want %s", got, worst.Neg())
	}
	if result.Summary.SurplusMonths != 0 {
		t.Errorf("SurplusMonths = %d, want 0", result.Summary.SurplusMonths)
	}
	if result.Summary.DeficitMonths != 12 {
		t.Errorf("DeficitMonths = %d, want 12", result.Summary.DeficitMonths)
	}
}

func TestCarryoverBalance(t *testing.T) {
	paid := func(paidOn time.Time, total int64) *domain.InvoiceRecord {
		return &domain.InvoiceRecord{
			InvoiceDate: paidOn.AddDate(0, 0, -20),
			DueDate:     paidOn,
			TotalAmount: decimal.NewFromInt(total),
			PaidAmount:  decimal.NewFromInt(total),
			Status:      domain.InvoiceStatusPaid,
			PaidDate:    &paidOn,
		}
	}
	unpaidFlag := false

	invoices := []*domain.InvoiceRecord{
		paid(time.Date(2026, time.April, 10, 0, 0, 0, 0, time.UTC), 4000),
		paid(time.Date(2026, time.February, 10, 0, 0, 0, 0, time.UTC), 3000),
		paid(time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC), 9999), // before window
		paid(time.Date(2026, time.May, 2, 0, 0, 0, 0, time.UTC), 8888),     // current month excluded
		unpaidInvoice(time.Date(2026, time.April, 20, 0, 0, 0, 0, time.UTC), 7777),
	}
	expenses := []*domain.ExpenseRecord{
		{Name: "Rent", Amount: decimal.NewFromInt(1200), Date: time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC), Category: domain.CategoryHousing},
		{Name: "Rent", Amount: decimal.NewFromInt(1200), Date: time.Date(2026, time.May, 1, 0, 0, 0, 0, time.UTC), Category: domain.CategoryHousing},
		{Name: "Pending", Amount: decimal.NewFromInt(500), Date: time.Date(2026, time.April, 3, 0, 0, 0, 0, time.UTC), Category: domain.CategoryMisc, IsPaid: &unpaidFlag},
	}

	got := CarryoverBalance(invoices, expenses, forecastNow)

	// 4000 + 3000 income - 1200 paid expenses over Feb..Apr
	if got.StringFixed(2) != "5800.00" {
		t.Errorf("CarryoverBalance = %s, want 5800.00", got.StringFixed(2))
	}
}
