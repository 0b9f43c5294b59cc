package engine

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/soldi-app/soldi-backend/internal/domain"
	"github.com/soldi-app/soldi-backend/internal/util"
)

// BuildSnapshot aggregates classified expenses into the monthly snapshot for
// the given reference month ("2006-01" key).
//
// Loans, transfers, subscriptions, other fixed costs and bills are summed over
// the reference month only; they are treated as non-seasonal recurring costs,
// so no averaging applies. Variable spend uses a progressive windowed average:
// the window grows with available history up to 12 distinct months at or
// before the reference month. Fewer than 3 months of history sets IsEstimated.
//
// Absent or malformed input degrades to zero totals with IsEstimated set;
// the builder never fails.
func BuildSnapshot(expenses []*domain.ExpenseRecord, referenceMonth string) *domain.MonthlySnapshot {
	snapshot := &domain.MonthlySnapshot{
		MonthKey:        referenceMonth,
		Loans:           decimal.Zero,
		Transfers:       decimal.Zero,
		Subscriptions:   decimal.Zero,
		FixedOther:      decimal.Zero,
		VariableAverage: decimal.Zero,
		Bills:           decimal.Zero,
		IsEstimated:     true,
	}

	reference, err := util.ParseMonthKey(referenceMonth)
	if err != nil {
		return snapshot
	}

	variableByMonth := make(map[string]decimal.Decimal)

	for _, e := range expenses {
		bucket := Classify(e)
		key := util.MonthKey(e.Date)

		if bucket == domain.BucketVariable {
			if !util.StartOfMonth(e.Date).After(reference) {
				variableByMonth[key] = variableByMonth[key].Add(e.Amount)
			}
			continue
		}

		if key != referenceMonth {
			continue
		}
		switch bucket {
		case domain.BucketLoan:
			snapshot.Loans = snapshot.Loans.Add(e.Amount)
		case domain.BucketTransfer:
			snapshot.Transfers = snapshot.Transfers.Add(e.Amount)
		case domain.BucketSubscription:
			snapshot.Subscriptions = snapshot.Subscriptions.Add(e.Amount)
		case domain.BucketFixed:
			snapshot.FixedOther = snapshot.FixedOther.Add(e.Amount)
		case domain.BucketBill:
			snapshot.Bills = snapshot.Bills.Add(e.Amount)
		}
	}

	snapshot.VariableAverage, snapshot.MonthsConsidered = progressiveAverage(variableByMonth)
	snapshot.IsEstimated = snapshot.MonthsConsidered < MinConfidentMonths

	return snapshot
}

// progressiveAverage averages the most recent windowMonths of variable spend,
// where windowMonths = min(distinct months with data, 12). Month keys sort
// lexicographically in chronological order, so ordering is a plain sort
// rather than a dependence on map iteration.
func progressiveAverage(byMonth map[string]decimal.Decimal) (decimal.Decimal, int) {
	if len(byMonth) == 0 {
		return decimal.Zero, 0
	}

	keys := make([]string, 0, len(byMonth))
	for key := range byMonth {
		keys = append(keys, key)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))

	window := len(keys)
	if window > HistoryWindowMonths {
		window = HistoryWindowMonths
	}

	total := decimal.Zero
	for _, key := range keys[:window] {
		total = total.Add(byMonth[key])
	}

	return total.Div(decimal.NewFromInt(int64(window))), window
}
