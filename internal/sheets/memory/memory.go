// Package memory keeps exported reports in process memory. It stands in for
// Google Sheets when no spreadsheet is configured.
package memory

import (
	"context"
	"fmt"
	"sync"

	"chama/internal/report"
)

type Store struct {
	mu    sync.Mutex
	items []report.Report
	limit int
}

// New keeps at most limit exports; older ones are dropped first.
func New(limit int) *Store {
	if limit < 1 {
		limit = 1
	}
	return &Store{limit: limit}
}

// Export stores the report and returns a synthetic reference.
func (s *Store) Export(_ context.Context, r report.Report) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, r)
	if len(s.items) > s.limit {
		s.items = s.items[len(s.items)-s.limit:]
	}
	return fmt.Sprintf("mem:%d", len(s.items)), nil
}

// Last returns the most recent export.
func (s *Store) Last() (report.Report, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.items) == 0 {
		return report.Report{}, false
	}
	return s.items[len(s.items)-1], true
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
