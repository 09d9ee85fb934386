package core

import (
	"testing"
	"time"
)

func TestProjectGoal(t *testing.T) {
	now := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	goal := Goal{
		ID:       1,
		Name:     "emergency fund",
		Target:   Money{Cents: 100000},
		Saved:    Money{Cents: 30000},
		Deadline: NewDate(2027, 6, 1),
	}
	contributions := []GoalContribution{
		{GoalID: 1, Amount: Money{Cents: 10000}, Date: NewDate(2026, 5, 10)},
		{GoalID: 1, Amount: Money{Cents: 10000}, Date: NewDate(2026, 6, 10)},
		{GoalID: 1, Amount: Money{Cents: 10000}, Date: NewDate(2026, 7, 10)},
	}

	p := ProjectGoal(goal, contributions, now)

	if p.MonthlyRate.Cents != 10000 {
		t.Errorf("MonthlyRate = %d, want 10000", p.MonthlyRate.Cents)
	}
	if p.MonthsRemaining != 7 {
		t.Errorf("MonthsRemaining = %d, want 7", p.MonthsRemaining)
	}
	if p.ProjectedDate.Year() != 2027 || p.ProjectedDate.Month() != 3 {
		t.Errorf("ProjectedDate = %v, want March 2027", p.ProjectedDate.Time)
	}
	if !p.OnTrack {
		t.Error("projection inside deadline should be on track")
	}
	if p.ConsistencyScore != 0.5 {
		t.Errorf("ConsistencyScore = %v, want 0.5", p.ConsistencyScore)
	}
}

func TestProjectGoalMissesDeadline(t *testing.T) {
	now := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	goal := Goal{
		ID:       2,
		Name:     "car",
		Target:   Money{Cents: 500000},
		Saved:    Money{Cents: 10000},
		Deadline: NewDate(2026, 12, 31),
	}
	contributions := []GoalContribution{
		{GoalID: 2, Amount: Money{Cents: 10000}, Date: NewDate(2026, 7, 1)},
	}

	p := ProjectGoal(goal, contributions, now)
	if p.OnTrack {
		t.Error("projection far past deadline should not be on track")
	}
	if p.MonthsRemaining == 0 {
		t.Error("expected a positive months estimate")
	}
}

func TestProjectGoalNoContributions(t *testing.T) {
	now := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	goal := Goal{ID: 3, Name: "bike", Target: Money{Cents: 50000}}

	p := ProjectGoal(goal, nil, now)
	if p.OnTrack {
		t.Error("goal with no history cannot be on track")
	}
	if p.MonthsRemaining != 0 || !p.ProjectedDate.IsZero() {
		t.Errorf("expected empty projection, got months=%d date=%v", p.MonthsRemaining, p.ProjectedDate.Time)
	}
	if p.ConsistencyScore != 0 {
		t.Errorf("ConsistencyScore = %v, want 0", p.ConsistencyScore)
	}
}

func TestProjectGoalAlreadyReached(t *testing.T) {
	now := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	goal := Goal{ID: 4, Name: "laptop", Target: Money{Cents: 50000}, Saved: Money{Cents: 60000}}

	p := ProjectGoal(goal, nil, now)
	if !p.OnTrack {
		t.Error("reached goal should be on track")
	}
	if p.MonthsRemaining != 0 {
		t.Errorf("MonthsRemaining = %d, want 0", p.MonthsRemaining)
	}
}
