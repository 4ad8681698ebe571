package task

import (
	"errors"
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestIsOverdue(t *testing.T) {
	now := time.Date(2025, time.January, 20, 15, 30, 0, 0, time.UTC)
	yesterday := now.AddDate(0, 0, -1)
	tomorrow := now.AddDate(0, 0, 1)
	earlierToday := day(2025, time.January, 20)

	tests := []struct {
		name string
		due  *time.Time
		want bool
	}{
		{name: "Given a due date yesterday Then overdue", due: &yesterday, want: true},
		{name: "Given a due date tomorrow Then not overdue", due: &tomorrow, want: false},
		{name: "Given no due date Then not overdue", due: nil, want: false},
		{name: "Given a due date earlier today Then not overdue", due: &earlierToday, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsOverdue(tt.due, now); got != tt.want {
				t.Errorf("IsOverdue() = %v, want %v", got, tt.want)
			}
			task := Task{DueDate: tt.due}
			if got := task.IsOverdue(now); got != tt.want {
				t.Errorf("Task.IsOverdue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsOverdueUsesCallerLocation(t *testing.T) {
	// 23:00 UTC on the 19th is already the 20th in Tokyo
	tokyo := time.FixedZone("JST", 9*60*60)
	due := time.Date(2025, time.January, 19, 23, 0, 0, 0, time.UTC)
	now := time.Date(2025, time.January, 20, 10, 0, 0, 0, tokyo)

	if IsOverdue(&due, now) {
		t.Error("expected due date falling on today in caller's zone not to be overdue")
	}
}

func TestSetCompleted(t *testing.T) {
	now := day(2025, time.March, 1)
	var task Task

	task.SetCompleted(true, now)
	if !task.Completed || task.CompletedAt == nil || !task.CompletedAt.Equal(now) {
		t.Fatalf("expected completed with CompletedAt=%v, got %+v", now, task)
	}

	later := now.Add(time.Hour)
	task.SetCompleted(true, later)
	if !task.CompletedAt.Equal(now) {
		t.Errorf("repeat completion should keep original stamp, got %v", task.CompletedAt)
	}

	task.SetCompleted(false, later)
	if task.Completed || task.CompletedAt != nil {
		t.Errorf("expected cleared completion, got %+v", task)
	}
}

func TestApply(t *testing.T) {
	now := day(2025, time.March, 1)
	due := day(2025, time.March, 10)
	base := Task{
		ID:        "1",
		Title:     "Buy milk",
		Priority:  PriorityLow,
		Category:  CategoryShopping,
		DueDate:   &due,
		CreatedAt: day(2025, time.February, 1),
	}

	t.Run("merges only set fields", func(t *testing.T) {
		task := base.Clone()
		title := "Buy oat milk"
		high := PriorityHigh
		task.Apply(Patch{Title: &title, Priority: &high}, now)

		if task.Title != title || task.Priority != PriorityHigh {
			t.Errorf("patch not applied: %+v", task)
		}
		if task.Category != CategoryShopping || task.DueDate == nil {
			t.Errorf("unset fields changed: %+v", task)
		}
		if !task.CreatedAt.Equal(base.CreatedAt) {
			t.Errorf("CreatedAt changed")
		}
	})

	t.Run("completion keeps CompletedAt in step", func(t *testing.T) {
		task := base.Clone()
		done := true
		task.Apply(Patch{Completed: &done}, now)
		if task.CompletedAt == nil || !task.CompletedAt.Equal(now) {
			t.Errorf("expected CompletedAt=%v, got %v", now, task.CompletedAt)
		}

		undone := false
		task.Apply(Patch{Completed: &undone}, now)
		if task.CompletedAt != nil {
			t.Errorf("expected CompletedAt cleared, got %v", task.CompletedAt)
		}
	})

	t.Run("clear due date wins over new due date", func(t *testing.T) {
		task := base.Clone()
		other := day(2025, time.April, 1)
		task.Apply(Patch{DueDate: &other, ClearDueDate: true}, now)
		if task.DueDate != nil {
			t.Errorf("expected due date cleared, got %v", task.DueDate)
		}
	})
}

func TestCloneDoesNotAlias(t *testing.T) {
	due := day(2025, time.March, 10)
	orig := Task{DueDate: &due}
	c := orig.Clone()
	*c.DueDate = day(2030, time.January, 1)

	if !orig.DueDate.Equal(day(2025, time.March, 10)) {
		t.Errorf("clone shares DueDate with original")
	}
}

func TestFilterNextCycles(t *testing.T) {
	f := FilterAll
	seen := []Filter{f}
	for i := 0; i < 3; i++ {
		f = f.Next()
		seen = append(seen, f)
	}
	want := []Filter{FilterAll, FilterActive, FilterCompleted, FilterAll}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("cycle = %v, want %v", seen, want)
		}
	}
}

func TestValidateNew(t *testing.T) {
	tests := []struct {
		name      string
		input     NewTask
		wantField string
	}{
		{
			name:  "valid task",
			input: NewTask{Title: "Buy milk", Priority: PriorityLow, Category: CategoryShopping},
		},
		{
			name:      "empty title",
			input:     NewTask{Title: "", Priority: PriorityLow, Category: CategoryShopping},
			wantField: "title",
		},
		{
			name:      "whitespace title",
			input:     NewTask{Title: "   ", Priority: PriorityLow, Category: CategoryShopping},
			wantField: "title",
		},
		{
			name:      "unknown priority",
			input:     NewTask{Title: "x", Priority: "urgent", Category: CategoryShopping},
			wantField: "priority",
		},
		{
			name:      "missing category",
			input:     NewTask{Title: "x", Priority: PriorityHigh},
			wantField: "category",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNew(tt.input)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", verr.Field, tt.wantField)
			}
		})
	}
}

func TestValidatePatch(t *testing.T) {
	blank := " "
	bad := Priority("urgent")
	good := CategoryHealth

	if err := ValidatePatch(Patch{}); err != nil {
		t.Errorf("empty patch should be valid: %v", err)
	}
	if err := ValidatePatch(Patch{Category: &good}); err != nil {
		t.Errorf("valid category rejected: %v", err)
	}

	var verr *ValidationError
	if err := ValidatePatch(Patch{Title: &blank}); !errors.As(err, &verr) || verr.Field != "title" {
		t.Errorf("expected title ValidationError, got %v", err)
	}
	if err := ValidatePatch(Patch{Priority: &bad}); !errors.As(err, &verr) || verr.Field != "priority" {
		t.Errorf("expected priority ValidationError, got %v", err)
	}
}

func TestValidateFilter(t *testing.T) {
	if err := ValidateFilter(FilterActive); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	var verr *ValidationError
	if err := ValidateFilter("archived"); !errors.As(err, &verr) {
		t.Errorf("expected ValidationError, got %v", err)
	}
}
