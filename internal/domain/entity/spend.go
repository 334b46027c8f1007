package entity

import "time"

// SpendState is the spend accounting carried on a user.
type SpendState struct {
	TotalSpent     float64
	MonthlySpent   float64
	LastSpentReset *time.Time
}

// ApplySpend adds amount to the lifetime total and to the current calendar
// month bucket. The bucket is reset, not rolled over, when lastSpentReset
// is unset or falls in a different month or year than now. Both instants
// are compared in UTC.
func ApplySpend(s SpendState, amount float64, now time.Time) SpendState {
	now = now.UTC()
	out := SpendState{TotalSpent: s.TotalSpent + amount}
	if s.LastSpentReset == nil || !sameMonth(s.LastSpentReset.UTC(), now) {
		out.MonthlySpent = amount
		out.LastSpentReset = &now
		return out
	}
	out.MonthlySpent = s.MonthlySpent + amount
	last := *s.LastSpentReset
	out.LastSpentReset = &last
	return out
}

func sameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}
