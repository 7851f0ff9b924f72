package members

import "chama/internal/core"

// Snapshot is an immutable, ordered view of the members at one version.
// Accessors hand out copies so callers cannot reach the shared backing array.
type Snapshot struct {
	Version int64
	members []core.Member
}

func newSnapshot(version int64, members []core.Member) Snapshot {
	owned := make([]core.Member, len(members))
	copy(owned, members)
	return Snapshot{Version: version, members: owned}
}

// Members returns the members in store order.
func (s Snapshot) Members() []core.Member {
	out := make([]core.Member, len(s.members))
	copy(out, s.members)
	return out
}

func (s Snapshot) Len() int {
	return len(s.members)
}

func (s Snapshot) Get(id int64) (core.Member, bool) {
	return core.FindMember(s.members, id)
}

// Filter returns the members matching term, see core.FilterMembers.
func (s Snapshot) Filter(term string) []core.Member {
	return core.FilterMembers(s.members, term)
}

// Unpaid returns the members whose status is not paid.
func (s Snapshot) Unpaid() []core.Member {
	return core.Unpaid(s.members)
}

// Summary computes the dashboard metrics against goal.
func (s Snapshot) Summary(goal core.Money) core.Summary {
	return core.Summarize(s.members, goal)
}
