package persist

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/pdxmph/taskflow/internal/task"
)

func sampleSnapshot() Snapshot {
	created := time.Date(2025, time.January, 15, 9, 30, 15, 123456789, time.UTC)
	due := time.Date(2025, time.January, 20, 0, 0, 0, 0, time.UTC)
	done := time.Date(2025, time.January, 16, 18, 0, 0, 0, time.FixedZone("PST", -8*60*60))

	return Snapshot{
		Tasks: []task.Task{
			{
				ID:          "a",
				Title:       "Buy groceries",
				Description: "milk, bread",
				Priority:    task.PriorityLow,
				Category:    task.CategoryShopping,
				DueDate:     &due,
				CreatedAt:   created,
			},
			{
				ID:          "b",
				Title:       "Morning workout",
				Completed:   true,
				Priority:    task.PriorityMedium,
				Category:    task.CategoryHealth,
				CreatedAt:   created.Add(time.Hour),
				CompletedAt: &done,
			},
		},
		Filter:      task.FilterActive,
		SearchQuery: "2025-01-15T00:00:00Z",
	}
}

func assertSnapshotEqual(t *testing.T, got, want Snapshot) {
	t.Helper()
	if got.Filter != want.Filter || got.SearchQuery != want.SearchQuery {
		t.Fatalf("state = %q/%q, want %q/%q", got.Filter, got.SearchQuery, want.Filter, want.SearchQuery)
	}
	if len(got.Tasks) != len(want.Tasks) {
		t.Fatalf("got %d tasks, want %d", len(got.Tasks), len(want.Tasks))
	}
	for i := range want.Tasks {
		g, w := got.Tasks[i], want.Tasks[i]
		if g.ID != w.ID || g.Title != w.Title || g.Description != w.Description ||
			g.Completed != w.Completed || g.Priority != w.Priority || g.Category != w.Category {
			t.Errorf("task %d = %+v, want %+v", i, g, w)
		}
		if !g.CreatedAt.Equal(w.CreatedAt) {
			t.Errorf("task %d CreatedAt = %v, want %v", i, g.CreatedAt, w.CreatedAt)
		}
		assertTimePtrEqual(t, "DueDate", g.DueDate, w.DueDate)
		assertTimePtrEqual(t, "CompletedAt", g.CompletedAt, w.CompletedAt)
	}
}

func assertTimePtrEqual(t *testing.T, field string, got, want *time.Time) {
	t.Helper()
	if (got == nil) != (want == nil) {
		t.Errorf("%s = %v, want %v", field, got, want)
		return
	}
	if got == nil {
		return
	}
	if !got.Equal(*want) {
		t.Errorf("%s = %v, want %v", field, *got, *want)
	}
	_, gotOffset := got.Zone()
	_, wantOffset := want.Zone()
	if gotOffset != wantOffset {
		t.Errorf("%s offset = %d, want %d", field, gotOffset, wantOffset)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	adapter := NewAdapter(NewMemoryStorage(), "", nil)
	want := sampleSnapshot()

	if err := adapter.Save(want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, ok, err := adapter.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !ok {
		t.Fatal("expected snapshot to be present")
	}
	assertSnapshotEqual(t, got, want)
}

func TestSaveTagsDateFields(t *testing.T) {
	storage := NewMemoryStorage()
	adapter := NewAdapter(storage, "tasks", nil)

	if err := adapter.Save(sampleSnapshot()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	raw, ok, _ := storage.GetItem("tasks")
	if !ok {
		t.Fatal("slot not written")
	}
	for _, want := range []string{
		`"createdAt":{"__type":"Date","value":"2025-01-15T09:30:15.123456789Z"}`,
		`"dueDate":{"__type":"Date","value":"2025-01-20T00:00:00Z"}`,
		`"completedAt":{"__type":"Date","value":"2025-01-16T18:00:00-08:00"}`,
		`"searchQuery":"2025-01-15T00:00:00Z"`,
		`"version":1`,
	} {
		if !strings.Contains(raw, want) {
			t.Errorf("encoded snapshot missing %s\n%s", want, raw)
		}
	}
	if strings.Contains(raw, `"description":""`) {
		t.Errorf("empty description should be omitted\n%s", raw)
	}
}

func TestLoadAbsentSlot(t *testing.T) {
	adapter := NewAdapter(NewMemoryStorage(), "", nil)

	snap, ok, err := adapter.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Errorf("expected absent slot, got %+v", snap)
	}
}

func TestLoadLegacyStringDates(t *testing.T) {
	storage := NewMemoryStorage()
	legacy := `{"state":{"tasks":[{"id":"1","title":"Set up account","completed":true,` +
		`"priority":"high","category":"work","createdAt":"2025-01-14T00:00:00.000Z",` +
		`"completedAt":"2025-01-15T00:00:00.000Z"}],"filter":"all","searchQuery":""},"version":0}`
	if err := storage.SetItem(DefaultSlot, legacy); err != nil {
		t.Fatal(err)
	}

	snap, ok, err := NewAdapter(storage, "", nil).Load()
	if err != nil || !ok {
		t.Fatalf("Load() ok=%v err=%v", ok, err)
	}
	got := snap.Tasks[0]
	if !got.CreatedAt.Equal(time.Date(2025, time.January, 14, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("CreatedAt = %v", got.CreatedAt)
	}
	if got.CompletedAt == nil || !got.CompletedAt.Equal(time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("CompletedAt = %v", got.CompletedAt)
	}
}

func TestLoadDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "not json", raw: "{oops"},
		{name: "wrong date tag", raw: `{"state":{"tasks":[{"id":"1","title":"x","priority":"low","category":"work","createdAt":{"__type":"Number","value":"1"}}],"filter":"all"},"version":1}`},
		{name: "bad date value", raw: `{"state":{"tasks":[{"id":"1","title":"x","priority":"low","category":"work","createdAt":{"__type":"Date","value":"yesterday"}}],"filter":"all"},"version":1}`},
		{name: "missing createdAt", raw: `{"state":{"tasks":[{"id":"1","title":"x","priority":"low","category":"work"}],"filter":"all"},"version":1}`},
		{name: "unknown priority", raw: `{"state":{"tasks":[{"id":"1","title":"x","priority":"urgent","category":"work","createdAt":"2025-01-14T00:00:00Z"}],"filter":"all"},"version":1}`},
		{name: "duplicate id", raw: `{"state":{"tasks":[{"id":"1","title":"x","priority":"low","category":"work","createdAt":"2025-01-14T00:00:00Z"},{"id":"1","title":"y","priority":"low","category":"work","createdAt":"2025-01-14T00:00:00Z"}],"filter":"all"},"version":1}`},
		{name: "unknown filter", raw: `{"state":{"tasks":[],"filter":"archived"},"version":1}`},
		{name: "newer schema", raw: `{"state":{"tasks":[],"filter":"all"},"version":99}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage := NewMemoryStorage()
			if err := storage.SetItem("slot", tt.raw); err != nil {
				t.Fatal(err)
			}

			_, ok, err := NewAdapter(storage, "slot", nil).Load()
			var decErr *DecodeError
			if !errors.As(err, &decErr) {
				t.Fatalf("expected DecodeError, got %v", err)
			}
			if decErr.Slot != "slot" {
				t.Errorf("Slot = %q, want %q", decErr.Slot, "slot")
			}
			if ok {
				t.Error("ok should be false on decode failure")
			}
		})
	}
}

func TestSaveStorageUnavailable(t *testing.T) {
	t.Run("quota exceeded", func(t *testing.T) {
		storage := NewMemoryStorage()
		storage.SetQuota(10)

		err := NewAdapter(storage, "", nil).Save(sampleSnapshot())
		if !errors.Is(err, ErrStorageUnavailable) {
			t.Fatalf("expected ErrStorageUnavailable, got %v", err)
		}
		if !errors.Is(err, ErrQuotaExceeded) {
			t.Errorf("expected cause to be kept, got %v", err)
		}
	})

	t.Run("disabled storage", func(t *testing.T) {
		storage := NewMemoryStorage()
		storage.SetDisabled(true)
		adapter := NewAdapter(storage, "", nil)

		if err := adapter.Save(sampleSnapshot()); !errors.Is(err, ErrStorageUnavailable) {
			t.Errorf("Save: expected ErrStorageUnavailable, got %v", err)
		}
		if _, _, err := adapter.Load(); !errors.Is(err, ErrStorageUnavailable) {
			t.Errorf("Load: expected ErrStorageUnavailable, got %v", err)
		}
		if err := adapter.Clear(); !errors.Is(err, ErrStorageUnavailable) {
			t.Errorf("Clear: expected ErrStorageUnavailable, got %v", err)
		}
	})
}

func TestClear(t *testing.T) {
	adapter := NewAdapter(NewMemoryStorage(), "", nil)

	if err := adapter.Clear(); err != nil {
		t.Fatalf("clearing a never-written slot: %v", err)
	}

	if err := adapter.Save(Snapshot{Filter: task.FilterAll}); err != nil {
		t.Fatal(err)
	}
	if err := adapter.Clear(); err != nil {
		t.Fatal(err)
	}
	if _, ok, err := adapter.Load(); ok || err != nil {
		t.Errorf("after Clear: ok=%v err=%v", ok, err)
	}
}

func TestSaveEmptySnapshotRoundTrip(t *testing.T) {
	adapter := NewAdapter(NewMemoryStorage(), "", nil)
	if err := adapter.Save(Snapshot{Filter: task.FilterCompleted, SearchQuery: "milk"}); err != nil {
		t.Fatal(err)
	}
	got, ok, err := adapter.Load()
	if err != nil || !ok {
		t.Fatalf("Load() ok=%v err=%v", ok, err)
	}
	if len(got.Tasks) != 0 || got.Filter != task.FilterCompleted || got.SearchQuery != "milk" {
		t.Errorf("got %+v", got)
	}
}
