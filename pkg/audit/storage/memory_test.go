package storage

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/hyperpolymath/union-policy-parser/pkg/audit"
)

func seedRecords(t *testing.T, s *MemoryStorage, n int, base time.Time) []*audit.Record {
	t.Helper()
	records := make([]*audit.Record, 0, n)
	for i := 0; i < n; i++ {
		rec := &audit.Record{
			ID:           fmt.Sprintf("id-%d", i),
			RequestID:    fmt.Sprintf("req-%d", i),
			RecordedTime: base.Add(time.Duration(i) * time.Minute),
			Target:       "team",
			State:        "effective",
		}
		if err := s.Store(context.Background(), rec); err != nil {
			t.Fatalf("Store() error = %v, want nil", err)
		}
		records = append(records, rec)
	}
	return records
}

func TestMemoryStorage_StoreAndQuery(t *testing.T) {
	s := NewMemoryStorage()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	seedRecords(t, s, 3, base)

	results, err := s.Query(context.Background(), &audit.Query{})
	if err != nil {
		t.Fatalf("Query() error = %v, want nil", err)
	}
	if len(results) != 3 {
		t.Fatalf("len(results) = %d, want 3", len(results))
	}
	// Newest first.
	if results[0].ID != "id-2" || results[2].ID != "id-0" {
		t.Errorf("order = %q .. %q, want id-2 .. id-0", results[0].ID, results[2].ID)
	}
}

func TestMemoryStorage_QueryFilters(t *testing.T) {
	s := NewMemoryStorage()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	seedRecords(t, s, 3, base)
	s.Store(context.Background(), &audit.Record{
		ID:           "failed-1",
		RecordedTime: base.Add(time.Hour),
		Target:       "other",
		State:        "failed",
	})

	tests := []struct {
		name  string
		query *audit.Query
		want  int
	}{
		{"by target", &audit.Query{Target: "team"}, 3},
		{"by state", &audit.Query{State: "failed"}, 1},
		{"by start time", &audit.Query{StartTime: timePtr(base.Add(2 * time.Minute))}, 2},
		{"by end time", &audit.Query{EndTime: timePtr(base.Add(time.Minute))}, 2},
		{"by ids", &audit.Query{IDs: []string{"id-0", "id-2"}}, 2},
		{"ids and target", &audit.Query{IDs: []string{"id-1", "failed-1"}, Target: "team"}, 1},
		{"limit", &audit.Query{Limit: 2}, 2},
		{"offset past end", &audit.Query{Offset: 10}, 0},
		{"no match", &audit.Query{Target: "nobody"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := s.Query(context.Background(), tt.query)
			if err != nil {
				t.Fatalf("Query() error = %v, want nil", err)
			}
			if len(results) != tt.want {
				t.Errorf("len(results) = %d, want %d", len(results), tt.want)
			}
		})
	}
}

func TestMemoryStorage_Count(t *testing.T) {
	s := NewMemoryStorage()
	seedRecords(t, s, 5, time.Now().UTC())

	count, err := s.Count(context.Background(), &audit.Query{Target: "team"})
	if err != nil {
		t.Fatalf("Count() error = %v, want nil", err)
	}
	if count != 5 {
		t.Errorf("Count() = %d, want 5", count)
	}
}

func TestMemoryStorage_Delete(t *testing.T) {
	s := NewMemoryStorage()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	seedRecords(t, s, 5, base)

	deleted, err := s.Delete(context.Background(), &audit.Query{
		EndTime: timePtr(base.Add(2 * time.Minute)),
	})
	if err != nil {
		t.Fatalf("Delete() error = %v, want nil", err)
	}
	if deleted != 3 {
		t.Errorf("Delete() = %d, want 3", deleted)
	}
	if s.Size() != 2 {
		t.Errorf("Size() = %d, want 2", s.Size())
	}
}

func TestMemoryStorage_DeleteByIDs(t *testing.T) {
	s := NewMemoryStorage()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	seedRecords(t, s, 4, base)

	deleted, err := s.Delete(context.Background(), &audit.Query{
		IDs: []string{"id-1", "id-3"},
	})
	if err != nil {
		t.Fatalf("Delete() error = %v, want nil", err)
	}
	if deleted != 2 {
		t.Errorf("Delete() = %d, want 2", deleted)
	}

	remaining, err := s.Query(context.Background(), &audit.Query{})
	if err != nil {
		t.Fatalf("Query() error = %v, want nil", err)
	}
	if len(remaining) != 2 || remaining[0].ID != "id-2" || remaining[1].ID != "id-0" {
		t.Errorf("remaining = %+v, want id-2 and id-0", remaining)
	}
}

func TestMemoryStorage_CopiesOnStore(t *testing.T) {
	s := NewMemoryStorage()
	rec := &audit.Record{ID: "a", Target: "team"}
	s.Store(context.Background(), rec)

	rec.Target = "mutated"

	results, _ := s.Query(context.Background(), &audit.Query{})
	if results[0].Target != "team" {
		t.Errorf("stored Target = %q, want %q (caller mutation must not leak)", results[0].Target, "team")
	}
}

func timePtr(t time.Time) *time.Time { return &t }
