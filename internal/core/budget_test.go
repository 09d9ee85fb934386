package core

import (
	"testing"
	"time"
)

func TestNewBudgetStatus(t *testing.T) {
	budget := Budget{CategoryID: 1, Limit: Money{Cents: 30000}, Year: 2026, Month: 6} // June, 30 days

	tests := []struct {
		name          string
		spent         int64
		now           time.Time
		wantUsed      int
		wantBurn      int64
		wantProjected int64
		wantDaysLeft  int
	}{
		{
			name:          "mid month on pace",
			spent:         15000,
			now:           time.Date(2026, 6, 15, 10, 0, 0, 0, time.UTC),
			wantUsed:      50,
			wantBurn:      1000,
			wantProjected: 30000,
			wantDaysLeft:  15,
		},
		{
			name:          "overspending projects past limit",
			spent:         20000,
			now:           time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC),
			wantUsed:      67,
			wantBurn:      2000,
			wantProjected: 60000,
			wantDaysLeft:  20,
		},
		{
			name:          "month fully elapsed",
			spent:         33000,
			now:           time.Date(2026, 7, 2, 0, 0, 0, 0, time.UTC),
			wantUsed:      100,
			wantBurn:      1100,
			wantProjected: 33000,
			wantDaysLeft:  0,
		},
		{
			name:         "future month has no burn",
			spent:        0,
			now:          time.Date(2026, 5, 20, 0, 0, 0, 0, time.UTC),
			wantDaysLeft: 30,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := NewBudgetStatus(budget, Money{Cents: tt.spent}, tt.now)
			if st.UsedPercent != tt.wantUsed {
				t.Errorf("UsedPercent = %d, want %d", st.UsedPercent, tt.wantUsed)
			}
			if st.DailyBurn.Cents != tt.wantBurn {
				t.Errorf("DailyBurn = %d, want %d", st.DailyBurn.Cents, tt.wantBurn)
			}
			if st.Projected.Cents != tt.wantProjected {
				t.Errorf("Projected = %d, want %d", st.Projected.Cents, tt.wantProjected)
			}
			if st.DaysRemaining != tt.wantDaysLeft {
				t.Errorf("DaysRemaining = %d, want %d", st.DaysRemaining, tt.wantDaysLeft)
			}
			if wantRemaining := budget.Limit.Cents - tt.spent; st.Remaining.Cents != wantRemaining {
				t.Errorf("Remaining = %d, want %d", st.Remaining.Cents, wantRemaining)
			}
		})
	}
}

func TestBudgetStatusExceeded(t *testing.T) {
	budget := Budget{CategoryID: 1, Limit: Money{Cents: 10000}, Year: 2026, Month: 2}
	now := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)

	if NewBudgetStatus(budget, Money{Cents: 9999}, now).Exceeded() {
		t.Error("spend below limit reported as exceeded")
	}
	if !NewBudgetStatus(budget, Money{Cents: 10001}, now).Exceeded() {
		t.Error("spend above limit not reported as exceeded")
	}
}

func TestDaysInFebruary(t *testing.T) {
	if got := daysIn(2024, 2); got != 29 {
		t.Errorf("daysIn(2024, 2) = %d, want 29", got)
	}
	if got := daysIn(2026, 2); got != 28 {
		t.Errorf("daysIn(2026, 2) = %d, want 28", got)
	}
}
