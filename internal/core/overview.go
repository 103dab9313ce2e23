package core

import "time"

const trendDays = 30

// TrendPoint is one day of the spending trend. Date is the raw reference
// instant for the day (now minus a whole number of 24h steps), not the
// midnight that bounds its bucket.
type TrendPoint struct {
	Date   time.Time
	Amount Money
}

// Overview is the aggregated dashboard view of a user's transactions.
type Overview struct {
	MonthlyIncome   Money
	MonthlyExpenses Money
	SpendingTrend   []TrendPoint
}

// ComputeOverview aggregates a user's full transaction list at a reference
// instant. It is a pure function: no I/O, no mutation, no failure mode.
// An empty input yields zero totals and thirty zero-valued trend points.
//
// The income and expense totals use a rolling window of exactly 30*24h
// ending at now, with an inclusive lower bound on raw instants. The trend
// buckets instead align to local calendar days, midnight to midnight.
// These two windowing rules disagree near day boundaries; both are kept
// as-is because the dashboard's consumers rely on the published numbers.
func ComputeOverview(transactions []Transaction, now time.Time) Overview {
	windowStart := now.Add(-trendDays * 24 * time.Hour)

	var income, expenses int64
	for _, t := range transactions {
		if t.CreatedAt.Before(windowStart) {
			continue
		}
		switch t.Type {
		case TypeIncome:
			income += t.Amount.Cents
		case TypeExpense:
			expenses += t.Amount.Cents
		}
	}

	trend := make([]TrendPoint, 0, trendDays)
	for i := trendDays - 1; i >= 0; i-- {
		ref := now.Add(-time.Duration(i) * 24 * time.Hour)
		dayStart := startOfDay(ref)
		// Inclusive upper bound one millisecond before the next midnight;
		// timestamps are stored at millisecond precision, so consecutive
		// buckets partition the span without gaps or overlaps.
		dayEnd := dayStart.Add(24*time.Hour - time.Millisecond)

		var dayExpenses int64
		for _, t := range transactions {
			if t.Type != TypeExpense {
				continue
			}
			if t.CreatedAt.Before(dayStart) || t.CreatedAt.After(dayEnd) {
				continue
			}
			dayExpenses += t.Amount.Cents
		}

		trend = append(trend, TrendPoint{Date: ref, Amount: Money{Cents: dayExpenses}})
	}

	return Overview{
		MonthlyIncome:   Money{Cents: income},
		MonthlyExpenses: Money{Cents: expenses},
		SpendingTrend:   trend,
	}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
