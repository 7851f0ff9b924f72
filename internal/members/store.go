// Package members owns the chama's member collection.
//
// The Store publishes immutable snapshots: every successful mutation builds a
// new collection and swaps it in whole, so readers never see partial updates.
package members

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"chama/internal/core"
)

// Clock returns the current time. Tests replace it to pin "today".
type Clock func() time.Time

type Option func(*Store)

// WithClock overrides the clock used to stamp last payment dates.
func WithClock(c Clock) Option {
	return func(s *Store) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithLocation sets the time zone that decides which calendar day "today" is.
func WithLocation(loc *time.Location) Option {
	return func(s *Store) {
		if loc != nil {
			s.loc = loc
		}
	}
}

type Store struct {
	mu      sync.Mutex
	current Snapshot
	nextID  int64
	clock   Clock
	loc     *time.Location
}

// AddOutcome reports the result of an add-member request. Err is non-nil
// (core.ErrEmptyName or core.ErrEmptyPhone) when the input was rejected, in
// which case Snapshot is the unchanged current snapshot.
type AddOutcome struct {
	Member   core.Member
	Snapshot Snapshot
	Err      error
}

func (o AddOutcome) OK() bool {
	return o.Err == nil
}

// New creates a store seeded with members. Seed IDs must be unique and valid;
// new members get IDs above the largest seed ID.
func New(seed []core.Member, opts ...Option) (*Store, error) {
	s := &Store{
		clock: time.Now,
		loc:   time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}

	seen := make(map[int64]struct{}, len(seed))
	var maxID int64
	for i, m := range seed {
		if err := m.Validate(); err != nil {
			return nil, fmt.Errorf("seed member %d: %w", i, err)
		}
		if _, dup := seen[m.ID]; dup {
			return nil, fmt.Errorf("seed member %d: duplicate id %d", i, m.ID)
		}
		seen[m.ID] = struct{}{}
		if m.ID > maxID {
			maxID = m.ID
		}
	}
	s.current = newSnapshot(1, seed)
	s.nextID = maxID + 1
	return s, nil
}

// Snapshot returns the current immutable view of the store.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Today is the calendar date used to stamp mutations.
func (s *Store) Today() core.Date {
	return core.DateOf(s.clock().In(s.loc))
}

// Add appends a member built from name and phone. Both are trimmed and must
// be non-empty; otherwise nothing changes and the outcome carries the reason.
func (s *Store) Add(ctx context.Context, name, phone string) AddOutcome {
	name = strings.TrimSpace(name)
	phone = strings.TrimSpace(phone)

	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case name == "":
		return AddOutcome{Snapshot: s.current, Err: core.ErrEmptyName}
	case phone == "":
		return AddOutcome{Snapshot: s.current, Err: core.ErrEmptyPhone}
	}

	m := core.Member{
		ID:          s.nextID,
		Name:        name,
		Phone:       phone,
		Status:      core.StatusPending,
		LastPayment: core.DateOf(s.clock().In(s.loc)),
	}
	s.nextID++

	next := make([]core.Member, len(s.current.members), len(s.current.members)+1)
	copy(next, s.current.members)
	next = append(next, m)
	s.current = newSnapshot(s.current.Version+1, next)

	slog.DebugContext(ctx, "Member added", "member_id", m.ID, "version", s.current.Version)
	return AddOutcome{Member: m, Snapshot: s.current}
}

// UpdateStatus applies change to the matching member. An unknown member ID is
// a silent no-op: the current snapshot is returned and found is false.
func (s *Store) UpdateStatus(ctx context.Context, change core.StatusChange) (snap Snapshot, found bool, err error) {
	if !change.Status.IsValid() {
		return Snapshot{}, false, fmt.Errorf("%w: %q", core.ErrInvalidStatus, change.Status)
	}
	if change.Amount != nil {
		if err := change.Amount.Validate(); err != nil {
			return Snapshot{}, false, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	updated, found := core.ApplyStatus(s.current.members, change, core.DateOf(s.clock().In(s.loc)))
	if !found {
		slog.DebugContext(ctx, "Status change for unknown member ignored", "member_id", change.MemberID)
		return s.current, false, nil
	}
	s.current = newSnapshot(s.current.Version+1, updated)

	slog.DebugContext(ctx, "Member status updated",
		"member_id", change.MemberID,
		"status", change.Status,
		"version", s.current.Version)
	return s.current, true, nil
}
