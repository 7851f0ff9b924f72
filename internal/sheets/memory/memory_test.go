package memory

import (
	"context"
	"testing"
	"time"

	"chama/internal/core"
	"chama/internal/report"
)

func TestExportKeepsNewest(t *testing.T) {
	s := New(2)
	ctx := context.Background()

	if _, ok := s.Last(); ok {
		t.Fatal("Last() on empty store should report false")
	}

	for day := 1; day <= 3; day++ {
		r := report.Build(nil, core.DefaultSettings(), time.Date(2024, 7, day, 0, 0, 0, 0, time.UTC))
		ref, err := s.Export(ctx, r)
		if err != nil {
			t.Fatalf("Export() error = %v", err)
		}
		if ref == "" {
			t.Error("Export() returned empty ref")
		}
	}

	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2", s.Len())
	}
	last, ok := s.Last()
	if !ok || last.GeneratedAt.Day() != 3 {
		t.Errorf("Last() = %v, %v; want the 3 July report", last.GeneratedAt, ok)
	}
}
