package task

import "time"

// Priority ranks how urgent a task is
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists every priority from most to least urgent
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

// Valid reports whether p is a known priority
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Rank orders priorities for sorting: high sorts first
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	default:
		return 3
	}
}

// Category groups tasks by area of life
type Category string

const (
	CategoryWork     Category = "work"
	CategoryPersonal Category = "personal"
	CategoryShopping Category = "shopping"
	CategoryHealth   Category = "health"
	CategoryOther    Category = "other"
)

// Categories lists every category in display order
var Categories = []Category{
	CategoryWork,
	CategoryPersonal,
	CategoryShopping,
	CategoryHealth,
	CategoryOther,
}

// Valid reports whether c is a known category
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Filter selects tasks by completion status
type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
)

// Filters lists the status filters in cycle order
var Filters = []Filter{FilterAll, FilterActive, FilterCompleted}

// Valid reports whether f is a known filter
func (f Filter) Valid() bool {
	switch f {
	case FilterAll, FilterActive, FilterCompleted:
		return true
	}
	return false
}

// Next returns the filter after f, wrapping around
func (f Filter) Next() Filter {
	for i, known := range Filters {
		if f == known {
			return Filters[(i+1)%len(Filters)]
		}
	}
	return FilterAll
}

// Match reports whether t passes the status filter
func (f Filter) Match(t Task) bool {
	switch f {
	case FilterActive:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	default:
		return true
	}
}

// Task is one user-visible work item
type Task struct {
	ID          string
	Title       string
	Description string // empty means no description
	Completed   bool
	Priority    Priority
	Category    Category
	DueDate     *time.Time
	CreatedAt   time.Time
	CompletedAt *time.Time // set iff Completed
}

// NewTask holds the caller-supplied fields of a task being added.
// ID and CreatedAt are assigned by the store.
type NewTask struct {
	Title       string   `validate:"notblank"`
	Description string
	Completed   bool
	Priority    Priority `validate:"required,oneof=low medium high"`
	Category    Category `validate:"required,oneof=work personal shopping health other"`
	DueDate     *time.Time
}

// Patch is a partial update; nil fields are left untouched
type Patch struct {
	Title        *string   `validate:"omitnil,notblank"`
	Description  *string
	Completed    *bool
	Priority     *Priority `validate:"omitnil,oneof=low medium high"`
	Category     *Category `validate:"omitnil,oneof=work personal shopping health other"`
	DueDate      *time.Time
	ClearDueDate bool
}

// Clone returns a copy of t that shares no pointers with it
func (t Task) Clone() Task {
	c := t
	c.DueDate = cloneTime(t.DueDate)
	c.CompletedAt = cloneTime(t.CompletedAt)
	return c
}

// IsOverdue reports whether the task's due date fell before today
func (t Task) IsOverdue(now time.Time) bool {
	return IsOverdue(t.DueDate, now)
}

// Apply merges p into t. Completion changes keep CompletedAt consistent.
func (t *Task) Apply(p Patch, now time.Time) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.ClearDueDate {
		t.DueDate = nil
	} else if p.DueDate != nil {
		t.DueDate = cloneTime(p.DueDate)
	}
	if p.Completed != nil {
		t.SetCompleted(*p.Completed, now)
	}
}

// SetCompleted moves the task into the given completion state.
// CompletedAt is stamped on a false->true transition and cleared on true->false.
func (t *Task) SetCompleted(completed bool, now time.Time) {
	if completed == t.Completed {
		return
	}
	t.Completed = completed
	if completed {
		stamp := now
		t.CompletedAt = &stamp
	} else {
		t.CompletedAt = nil
	}
}

// IsOverdue reports whether due lies on a calendar day before now's day,
// both taken in now's location. A nil due date is never overdue.
func IsOverdue(due *time.Time, now time.Time) bool {
	if due == nil {
		return false
	}
	loc := now.Location()
	today := startOfDay(now, loc)
	return startOfDay(due.In(loc), loc).Before(today)
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
