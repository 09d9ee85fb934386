package core

import "time"

// GoalProjection estimates when a goal will be reached based on the
// contribution history.
type GoalProjection struct {
	Goal             Goal
	MonthlyRate      Money // average contribution per month since the first one
	MonthsRemaining  int   // months needed at the current rate, 0 when unknown or done
	ProjectedDate    Date  // zero when no rate can be computed
	OnTrack          bool
	ConsistencyScore float64 // fraction of the last six months with at least one contribution
}

// monthsBetween counts calendar months from a to b, minimum 1.
func monthsBetween(a, b time.Time) int {
	months := (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
	if months < 1 {
		return 1
	}
	return months
}

// ProjectGoal derives a projection from the goal's contribution history.
// The monthly rate averages all contributions over the months elapsed since
// the earliest one. The consistency score counts how many of the six calendar
// months ending at now saw at least one contribution.
func ProjectGoal(g Goal, contributions []GoalContribution, now time.Time) GoalProjection {
	p := GoalProjection{Goal: g}

	remaining := g.Target.Cents - g.Saved.Cents
	if remaining <= 0 {
		p.OnTrack = true
		p.ConsistencyScore = consistencyScore(contributions, now)
		return p
	}

	if len(contributions) == 0 {
		return p
	}

	first := contributions[0].Date.Time
	var total int64
	for _, c := range contributions {
		total += c.Amount.Cents
		if c.Date.Time.Before(first) {
			first = c.Date.Time
		}
	}

	months := monthsBetween(first, now)
	rate := total / int64(months)
	p.MonthlyRate = Money{Cents: rate}
	p.ConsistencyScore = consistencyScore(contributions, now)

	if rate <= 0 {
		return p
	}

	need := int((remaining + rate - 1) / rate)
	p.MonthsRemaining = need
	when := now.AddDate(0, need, 0)
	p.ProjectedDate = NewDate(when.Year(), int(when.Month()), when.Day())

	if g.Deadline.IsZero() {
		p.OnTrack = true
	} else {
		p.OnTrack = !p.ProjectedDate.Time.After(g.Deadline.Time)
	}
	return p
}

func consistencyScore(contributions []GoalContribution, now time.Time) float64 {
	if len(contributions) == 0 {
		return 0
	}
	seen := make(map[int]bool, 6)
	for _, c := range contributions {
		key := c.Date.Year()*12 + c.Date.Month()
		seen[key] = true
	}
	nowKey := now.Year()*12 + int(now.Month())
	hits := 0
	for i := 0; i < 6; i++ {
		if seen[nowKey-i] {
			hits++
		}
	}
	return float64(hits) / 6
}
