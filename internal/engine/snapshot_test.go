package engine

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/soldi-app/soldi-backend/internal/domain"
)

func variableExpense(year int, month time.Month, amount int64) *domain.ExpenseRecord {
	return &domain.ExpenseRecord{
		Name:     "Groceries",
		Amount:   decimal.NewFromInt(amount),
		Date:     time.Date(year, month, 12, 0, 0, 0, 0, time.UTC),
		Category: domain.CategoryFood,
	}
}

func TestBuildSnapshot_EmptyHistory(t *testing.T) {
	snapshot := BuildSnapshot(nil, "2026-05")

	if !snapshot.VariableAverage.IsZero() {
		t.Errorf("VariableAverage = %s, want 0", snapshot.VariableAverage)
	}
	if snapshot.MonthsConsidered != 0 {
		t.Errorf("MonthsConsidered = %d, want 0", snapshot.MonthsConsidered)
	}
	if !snapshot.IsEstimated {
		t.Error("IsEstimated = false, want true")
	}
	if !snapshot.FixedTotal().IsZero() || !snapshot.Bills.IsZero() {
		t.Error("expected all totals to be zero for empty history")
	}
}

func TestBuildSnapshot_MalformedReferenceMonth(t *testing.T) {
	snapshot := BuildSnapshot([]*domain.ExpenseRecord{variableExpense(2026, time.May, 100)}, "not-a-month")

	if !snapshot.IsEstimated || snapshot.MonthsConsidered != 0 {
		t.Error("malformed reference month must degrade to an estimated zero snapshot")
	}
}

func TestBuildSnapshot_FixedCostsReferenceMonthOnly(t *testing.T) {
	expenses := []*domain.ExpenseRecord{
		{Name: "Car loan", Amount: decimal.NewFromInt(400), Date: time.Date(2026, time.May, 1, 0, 0, 0, 0, time.UTC), Category: domain.CategoryLoans},
		{Name: "Car loan", Amount: decimal.NewFromInt(400), Date: time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC), Category: domain.CategoryLoans},
		{Name: "Streaming", Amount: decimal.NewFromInt(50), Date: time.Date(2026, time.May, 2, 0, 0, 0, 0, time.UTC), Category: domain.CategorySubscriptions},
		{Name: "Rent", Amount: decimal.NewFromInt(1200), Date: time.Date(2026, time.May, 3, 0, 0, 0, 0, time.UTC), Category: domain.CategoryHousing},
	}

	snapshot := BuildSnapshot(expenses, "2026-05")

	if got := snapshot.Loans.StringFixed(2); got != "400.00" {
		t.Errorf("Loans = %s, want 400.00 (April excluded)", got)
	}
	if got := snapshot.Subscriptions.StringFixed(2); got != "50.00" {
		t.Errorf("Subscriptions = %s, want 50.00", got)
	}
	if got := snapshot.FixedOther.StringFixed(2); got != "1200.00" {
		t.Errorf("FixedOther = %s, want 1200.00", got)
	}
	if got := snapshot.FixedTotal().StringFixed(2); got != "1650.00" {
		t.Errorf("FixedTotal = %s, want 1650.00", got)
	}
}

func TestBuildSnapshot_BillsReferenceMonthOnly(t *testing.T) {
	electricity := domain.BillTypeElectricity
	expenses := []*domain.ExpenseRecord{
		{Name: "Power", Amount: decimal.NewFromInt(150), Date: time.Date(2026, time.May, 20, 0, 0, 0, 0, time.UTC), Category: domain.CategoryVariable, BillType: &electricity},
		{Name: "Power", Amount: decimal.NewFromInt(90), Date: time.Date(2026, time.March, 20, 0, 0, 0, 0, time.UTC), Category: domain.CategoryVariable, BillType: &electricity},
	}

	snapshot := BuildSnapshot(expenses, "2026-05")

	if got := snapshot.Bills.StringFixed(2); got != "150.00" {
		t.Errorf("Bills = %s, want 150.00", got)
	}
}

func TestBuildSnapshot_ProgressiveWindow(t *testing.T) {
	tests := []struct {
		name            string
		historyMonths   int
		wantConsidered  int
		wantIsEstimated bool
	}{
		{"one month", 1, 1, true},
		{"two months", 2, 2, true},
		{"three months", 3, 3, false},
		{"eleven months", 11, 11, false},
		{"twelve months", 12, 12, false},
		{"fifteen months caps at twelve", 15, 12, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reference := time.Date(2026, time.May, 1, 0, 0, 0, 0, time.UTC)
			var expenses []*domain.ExpenseRecord
			for i := 0; i < tt.historyMonths; i++ {
				m := reference.AddDate(0, -i, 0)
				expenses = append(expenses, variableExpense(m.Year(), m.Month(), 600))
			}

			snapshot := BuildSnapshot(expenses, "2026-05")

			if snapshot.MonthsConsidered != tt.wantConsidered {
				t.Errorf("MonthsConsidered = %d, want %d", snapshot.MonthsConsidered, tt.wantConsidered)
			}
			if snapshot.IsEstimated != tt.wantIsEstimated {
				t.Errorf("IsEstimated = %v, want %v", snapshot.IsEstimated, tt.wantIsEstimated)
			}
			if got := snapshot.VariableAverage.StringFixed(2); got != "600.00" {
				t.Errorf("VariableAverage = %s, want 600.00", got)
			}
		})
	}
}

func TestBuildSnapshot_WindowTakesMostRecentMonths(t *testing.T) {
	// 14 months of history: the two oldest (cheap) months must fall outside
	// the 12-month window.
	reference := time.Date(2026, time.May, 1, 0, 0, 0, 0, time.UTC)
	var expenses []*domain.ExpenseRecord
	for i := 0; i < 14; i++ {
		m := reference.AddDate(0, -i, 0)
		amount := int64(1200)
		if i >= 12 {
			amount = 12 // old months, different spend
		}
		expenses = append(expenses, variableExpense(m.Year(), m.Month(), amount))
	}

	snapshot := BuildSnapshot(expenses, "2026-05")

	if snapshot.MonthsConsidered != 12 {
		t.Fatalf("MonthsConsidered = %d, want 12", snapshot.MonthsConsidered)
	}
	if got := snapshot.VariableAverage.StringFixed(2); got != "1200.00" {
		t.Errorf("VariableAverage = %s, want 1200.00 (old months excluded)", got)
	}
}

func TestBuildSnapshot_IgnoresVariableSpendAfterReferenceMonth(t *testing.T) {
	expenses := []*domain.ExpenseRecord{
		variableExpense(2026, time.April, 500),
		variableExpense(2026, time.May, 700),
		variableExpense(2026, time.June, 9000), // future relative to reference
	}

	snapshot := BuildSnapshot(expenses, "2026-05")

	if snapshot.MonthsConsidered != 2 {
		t.Fatalf("MonthsConsidered = %d, want 2", snapshot.MonthsConsidered)
	}
	if got := snapshot.VariableAverage.StringFixed(2); got != "600.00" {
		t.Errorf("VariableAverage = %s, want 600.00", got)
	}
}

func TestBuildSnapshot_MultipleExpensesSameMonth(t *testing.T) {
	expenses := []*domain.ExpenseRecord{
		variableExpense(2026, time.May, 200),
		variableExpense(2026, time.May, 300),
		variableExpense(2026, time.April, 100),
	}

	snapshot := BuildSnapshot(expenses, "2026-05")

	// (500 + 100) / 2 months
	if got := snapshot.VariableAverage.StringFixed(2); got != "300.00" {
		t.Errorf("VariableAverage = %s, want 300.00", got)
	}
	if snapshot.MonthsConsidered != 2 {
		t.Errorf("MonthsConsidered = %d, want 2", snapshot.MonthsConsidered)
	}
}

func TestProgressiveAverage_Deterministic(t *testing.T) {
	// The average must be a pure function of the month-key set, not of map
	// iteration order. Run repeatedly to shake out order dependence.
	byMonth := map[string]decimal.Decimal{}
	for i := 0; i < 14; i++ {
		key := fmt.Sprintf("2025-%02d", i%12+1)
		byMonth[key] = decimal.NewFromInt(int64(100 + i))
	}

	first, firstWindow := progressiveAverage(byMonth)
	for i := 0; i < 20; i++ {
		avg, window := progressiveAverage(byMonth)
		if !avg.Equal(first) || window != firstWindow {
			t.Fatalf("progressiveAverage not deterministic: %s/%d vs %s/%d", avg, window, first, firstWindow)
		}
	}
}
