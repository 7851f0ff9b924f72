package core

import "math"

// Summary is the set of dashboard metrics derived from a member collection.
type Summary struct {
	MemberCount        int
	TotalContributions Money
	MonthlyGoal        Money
	// ProgressPercentage is unbounded above 100 and is +Inf or NaN when the
	// goal is zero. Use ClampedProgress for display.
	ProgressPercentage float64
	PaidCount          int
	PendingCount       int
	OverdueCount       int
	Remaining          Money
}

// Summarize computes the dashboard metrics for members against goal.
// It performs no validation of goal.
func Summarize(members []Member, goal Money) Summary {
	s := Summary{
		MemberCount: len(members),
		MonthlyGoal: goal,
	}
	for _, m := range members {
		s.TotalContributions = s.TotalContributions.Add(m.Contribution)
		switch m.Status {
		case StatusPaid:
			s.PaidCount++
		case StatusPending:
			s.PendingCount++
		case StatusOverdue:
			s.OverdueCount++
		}
	}
	s.ProgressPercentage = float64(s.TotalContributions.Shillings) / float64(goal.Shillings) * 100
	s.Remaining = goal.Sub(s.TotalContributions)
	return s
}

// ClampedProgress returns the progress percentage limited to [0, 100].
// A zero goal reports 0 when nothing was collected and 100 otherwise.
func (s Summary) ClampedProgress() float64 {
	p := s.ProgressPercentage
	switch {
	case math.IsNaN(p):
		return 0
	case p < 0:
		return 0
	case p > 100:
		return 100
	}
	return p
}

// UnpaidCount is the number of members still owing for the period.
func (s Summary) UnpaidCount() int {
	return s.PendingCount + s.OverdueCount
}

// GoalReached reports whether collections met or exceeded the goal.
func (s Summary) GoalReached() bool {
	return s.Remaining.Shillings <= 0
}
