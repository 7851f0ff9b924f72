package core

import (
	"math"
	"testing"
)

func seedMembers() []Member {
	return []Member{
		{ID: 1, Name: "Mary Wanjiku", Phone: "+254712345678", Contribution: Money{5000}, Status: StatusPaid, LastPayment: NewDate(2024, 7, 1)},
		{ID: 2, Name: "John Kamau", Phone: "+254723456789", Contribution: Money{3000}, Status: StatusPending, LastPayment: NewDate(2024, 6, 15)},
		{ID: 3, Name: "Grace Njeri", Phone: "+254734567890", Contribution: Money{5000}, Status: StatusPaid, LastPayment: NewDate(2024, 7, 2)},
		{ID: 4, Name: "Peter Mwangi", Phone: "+254745678901", Contribution: Money{0}, Status: StatusOverdue, LastPayment: NewDate(2024, 5, 20)},
	}
}

func TestSummarizeSeed(t *testing.T) {
	s := Summarize(seedMembers(), Money{20000})

	if s.TotalContributions.Shillings != 13000 {
		t.Fatalf("total = %d, want 13000", s.TotalContributions.Shillings)
	}
	if s.ProgressPercentage != 65.0 {
		t.Fatalf("progress = %v, want 65", s.ProgressPercentage)
	}
	if s.PaidCount != 2 || s.PendingCount != 1 || s.OverdueCount != 1 {
		t.Fatalf("counts paid=%d pending=%d overdue=%d", s.PaidCount, s.PendingCount, s.OverdueCount)
	}
	if s.Remaining.Shillings != 7000 {
		t.Fatalf("remaining = %d, want 7000", s.Remaining.Shillings)
	}
	if s.UnpaidCount() != 2 {
		t.Fatalf("unpaid = %d, want 2", s.UnpaidCount())
	}
}

func TestSummarizeCountsAddUp(t *testing.T) {
	collections := [][]Member{
		nil,
		seedMembers(),
		seedMembers()[:1],
		append(seedMembers(), Member{ID: 9, Status: StatusOverdue}),
	}
	for i, members := range collections {
		s := Summarize(members, Money{1000})
		if s.PaidCount+s.PendingCount+s.OverdueCount != len(members) || s.MemberCount != len(members) {
			t.Fatalf("case %d: counts do not add up to %d: %+v", i, len(members), s)
		}
	}
}

func TestSummarizeGoalExceeded(t *testing.T) {
	s := Summarize(seedMembers(), Money{10000})
	if s.ProgressPercentage != 130 {
		t.Fatalf("progress = %v, want 130 (unbounded)", s.ProgressPercentage)
	}
	if s.Remaining.Shillings != -3000 {
		t.Fatalf("remaining = %d, want -3000", s.Remaining.Shillings)
	}
	if s.ClampedProgress() != 100 {
		t.Fatalf("clamped = %v", s.ClampedProgress())
	}
	if !s.GoalReached() {
		t.Fatal("goal should be reached")
	}
}

func TestSummarizeZeroGoal(t *testing.T) {
	s := Summarize(seedMembers(), Money{})
	if !math.IsInf(s.ProgressPercentage, 1) {
		t.Fatalf("progress with zero goal = %v, want +Inf", s.ProgressPercentage)
	}
	if s.ClampedProgress() != 100 {
		t.Fatalf("clamped = %v", s.ClampedProgress())
	}

	empty := Summarize(nil, Money{})
	if !math.IsNaN(empty.ProgressPercentage) {
		t.Fatalf("0/0 progress = %v, want NaN", empty.ProgressPercentage)
	}
	if empty.ClampedProgress() != 0 {
		t.Fatalf("clamped NaN = %v", empty.ClampedProgress())
	}
}
