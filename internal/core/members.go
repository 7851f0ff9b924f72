package core

import "strings"

// StatusChange describes one status mutation. Amount is only applied when
// Status is StatusPaid; nil keeps the existing contribution. Pending and
// overdue ignore Amount.
type StatusChange struct {
	MemberID int64
	Status   Status
	Amount   *Money
}

// ApplyStatus returns a new collection in which the member matching
// change.MemberID carries the new status and a last payment of today.
// When no member matches, members is returned as is and found is false.
// The input slice is never modified.
func ApplyStatus(members []Member, change StatusChange, today Date) (updated []Member, found bool) {
	idx := -1
	for i, m := range members {
		if m.ID == change.MemberID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return members, false
	}

	updated = make([]Member, len(members))
	copy(updated, members)

	m := updated[idx]
	m.Status = change.Status
	if change.Status == StatusPaid && change.Amount != nil {
		m.Contribution = *change.Amount
	}
	m.LastPayment = today
	updated[idx] = m
	return updated, true
}

// FilterMembers returns the members whose name or phone contains term,
// ignoring case, in their original order. A blank term matches everyone.
func FilterMembers(members []Member, term string) []Member {
	needle := strings.ToLower(strings.TrimSpace(term))
	out := make([]Member, 0, len(members))
	for _, m := range members {
		if needle == "" ||
			strings.Contains(strings.ToLower(m.Name), needle) ||
			strings.Contains(strings.ToLower(m.Phone), needle) {
			out = append(out, m)
		}
	}
	return out
}

// Unpaid returns the members whose status is not paid.
func Unpaid(members []Member) []Member {
	out := make([]Member, 0, len(members))
	for _, m := range members {
		if !m.IsPaid() {
			out = append(out, m)
		}
	}
	return out
}

// FindMember returns the member with the given id.
func FindMember(members []Member, id int64) (Member, bool) {
	for _, m := range members {
		if m.ID == id {
			return m, true
		}
	}
	return Member{}, false
}
