package core

import "time"

// BudgetStatus holds tracking and forecast data for a budget's month.
type BudgetStatus struct {
	Budget        Budget
	Spent         Money
	Remaining     Money // may be negative when the ceiling is exceeded
	UsedPercent   int   // 0-100, clamped
	DailyBurn     Money // average spend per elapsed day
	Projected     Money // burn rate extrapolated to the full month
	DaysRemaining int
}

// daysIn returns the number of days in the given month.
func daysIn(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// NewBudgetStatus computes the tracking state of a budget given the amount
// already spent in its month. Elapsed days are taken relative to now: a month
// entirely in the past counts as fully elapsed, a future month as not started.
func NewBudgetStatus(b Budget, spent Money, now time.Time) BudgetStatus {
	totalDays := daysIn(b.Year, b.Month)

	var elapsed int
	switch {
	case now.Year() > b.Year || (now.Year() == b.Year && int(now.Month()) > b.Month):
		elapsed = totalDays
	case now.Year() == b.Year && int(now.Month()) == b.Month:
		elapsed = now.Day()
	default:
		elapsed = 0
	}

	st := BudgetStatus{
		Budget:        b,
		Spent:         spent,
		Remaining:     Money{Cents: b.Limit.Cents - spent.Cents},
		DaysRemaining: totalDays - elapsed,
	}

	if b.Limit.Cents > 0 {
		pct := int((spent.Cents*100 + b.Limit.Cents/2) / b.Limit.Cents)
		if pct < 0 {
			pct = 0
		}
		if pct > 100 {
			pct = 100
		}
		st.UsedPercent = pct
	}

	if elapsed > 0 {
		burn := spent.Cents / int64(elapsed)
		st.DailyBurn = Money{Cents: burn}
		st.Projected = Money{Cents: burn * int64(totalDays)}
	}

	return st
}

// Exceeded reports whether the month's spend has passed the ceiling.
func (st BudgetStatus) Exceeded() bool {
	return st.Spent.Cents > st.Budget.Limit.Cents
}
