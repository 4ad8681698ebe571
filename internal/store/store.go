// Package store owns the canonical task collection and the transient query
// state (status filter and search text). Every mutation writes the whole
// snapshot through the persistence adapter before returning.
//
// A Store is not safe for concurrent mutation; it is meant to be driven from a
// single event loop such as a bubbletea program or one CLI command.
package store

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pdxmph/taskflow/internal/persist"
	"github.com/pdxmph/taskflow/internal/task"
)

// ErrNotFound is returned by lookups of an id that is not in the collection
var ErrNotFound = errors.New("task not found")

// Persister is the subset of persist.Adapter the store needs
type Persister interface {
	Save(persist.Snapshot) error
	Load() (persist.Snapshot, bool, error)
	Clear() error
}

// Store is the single source of truth for tasks
type Store struct {
	persister   Persister
	tasks       []task.Task
	filter      task.Filter
	searchQuery string

	now    func() time.Time
	newID  func() string
	seed   func(now time.Time) []task.Task
	logger *zap.Logger
}

// Option configures a Store
type Option func(*Store)

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator replaces the random UUID generator
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithSeed replaces the first-run sample collection. Pass nil to start empty.
func WithSeed(seed func(now time.Time) []task.Task) Option {
	return func(s *Store) { s.seed = seed }
}

// New creates an empty store backed by p. Call Open to rehydrate it.
func New(p Persister, opts ...Option) *Store {
	s := &Store{
		persister: p,
		filter:    task.FilterAll,
		now:       time.Now,
		newID:     uuid.NewString,
		seed:      SeedTasks,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.Named("store")
	return s
}

// Open rehydrates the store from its persisted snapshot. With no snapshot the
// seed collection is used. On a decode or storage error the store is left
// holding the seed collection and the error is returned, so the caller can
// choose between continuing and aborting.
func (s *Store) Open() error {
	snap, ok, err := s.persister.Load()
	if err != nil || !ok {
		s.reset()
		if err != nil {
			return fmt.Errorf("loading tasks: %w", err)
		}
		s.logger.Info("no saved tasks, using seed collection", zap.Int("tasks", len(s.tasks)))
		return nil
	}

	s.tasks = snap.Tasks
	s.filter = snap.Filter
	s.searchQuery = snap.SearchQuery
	s.repair()

	s.logger.Info("tasks loaded", zap.Int("tasks", len(s.tasks)), zap.String("filter", string(s.filter)))
	return nil
}

// Reset clears the saved snapshot and reinstates the seed collection
func (s *Store) Reset() error {
	if err := s.persister.Clear(); err != nil {
		return fmt.Errorf("clearing saved tasks: %w", err)
	}
	s.reset()
	return nil
}

// Flush writes the current state as it is. Open does not persist the seed
// collection; Flush does.
func (s *Store) Flush() error {
	return s.save("flush")
}

func (s *Store) reset() {
	s.tasks = nil
	if s.seed != nil {
		s.tasks = s.seed(s.now())
	}
	s.filter = task.FilterAll
	s.searchQuery = ""
}

// repair restores the completed/CompletedAt invariant on records written
// without it
func (s *Store) repair() {
	for i := range s.tasks {
		t := &s.tasks[i]
		switch {
		case t.Completed && t.CompletedAt == nil:
			stamp := t.CreatedAt
			t.CompletedAt = &stamp
			s.logger.Warn("completed task had no completion time", zap.String("id", t.ID))
		case !t.Completed && t.CompletedAt != nil:
			t.CompletedAt = nil
			s.logger.Warn("active task had a completion time", zap.String("id", t.ID))
		}
	}
}

// save persists the current state. A failed save leaves memory untouched.
func (s *Store) save(op string) error {
	err := s.persister.Save(s.snapshot())
	if err != nil {
		s.logger.Warn("saving tasks failed", zap.String("op", op), zap.Error(err))
		return fmt.Errorf("saving tasks after %s: %w", op, err)
	}
	return nil
}

func (s *Store) snapshot() persist.Snapshot {
	return persist.Snapshot{
		Tasks:       s.Tasks(),
		Filter:      s.filter,
		SearchQuery: s.searchQuery,
	}
}

func (s *Store) indexOf(id string) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// AddTask validates n, assigns an id and creation time, and appends it
func (s *Store) AddTask(n task.NewTask) (task.Task, error) {
	if err := task.ValidateNew(n); err != nil {
		return task.Task{}, err
	}

	now := s.now()
	t := task.Task{
		ID:          s.newID(),
		Title:       n.Title,
		Description: n.Description,
		Priority:    n.Priority,
		Category:    n.Category,
		DueDate:     n.DueDate,
		CreatedAt:   now,
	}
	t.SetCompleted(n.Completed, now)
	t = t.Clone()

	s.tasks = append(s.tasks, t)
	s.logger.Debug("task added", zap.String("id", t.ID))

	return t.Clone(), s.save("add")
}

// UpdateTask merges p into the task with the given id. A missing id is a no-op.
func (s *Store) UpdateTask(id string, p task.Patch) error {
	if err := task.ValidatePatch(p); err != nil {
		return err
	}

	if i := s.indexOf(id); i >= 0 {
		s.tasks[i].Apply(p, s.now())
		s.logger.Debug("task updated", zap.String("id", id))
	} else {
		s.logger.Debug("update of unknown task ignored", zap.String("id", id))
	}

	return s.save("update")
}

// DeleteTask removes the task with the given id. A missing id is a no-op.
func (s *Store) DeleteTask(id string) error {
	if i := s.indexOf(id); i >= 0 {
		s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
		s.logger.Debug("task deleted", zap.String("id", id))
	}
	return s.save("delete")
}

// ToggleTask flips the task's completion state. A missing id is a no-op.
func (s *Store) ToggleTask(id string) error {
	if i := s.indexOf(id); i >= 0 {
		t := &s.tasks[i]
		t.SetCompleted(!t.Completed, s.now())
		s.logger.Debug("task toggled", zap.String("id", id), zap.Bool("completed", t.Completed))
	}
	return s.save("toggle")
}

// SetFilter replaces the status filter
func (s *Store) SetFilter(f task.Filter) error {
	if err := task.ValidateFilter(f); err != nil {
		return err
	}
	s.filter = f
	return s.save("set filter")
}

// SetSearchQuery replaces the search text
func (s *Store) SetSearchQuery(q string) error {
	s.searchQuery = q
	return s.save("set search")
}

// ClearCompleted removes every completed task
func (s *Store) ClearCompleted() error {
	kept := s.tasks[:0]
	removed := 0
	for _, t := range s.tasks {
		if t.Completed {
			removed++
			continue
		}
		kept = append(kept, t)
	}
	clear(s.tasks[len(kept):])
	s.tasks = kept
	s.logger.Debug("completed tasks cleared", zap.Int("removed", removed))
	return s.save("clear completed")
}

// Tasks returns a copy of the full collection in insertion order
func (s *Store) Tasks() []task.Task {
	out := make([]task.Task, len(s.tasks))
	for i, t := range s.tasks {
		out[i] = t.Clone()
	}
	return out
}

// Task returns the task with the given id
func (s *Store) Task(id string) (task.Task, error) {
	if i := s.indexOf(id); i >= 0 {
		return s.tasks[i].Clone(), nil
	}
	return task.Task{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Filter returns the current status filter
func (s *Store) Filter() task.Filter {
	return s.filter
}

// SearchQuery returns the current search text
func (s *Store) SearchQuery() string {
	return s.searchQuery
}

// Stats derives statistics from the full collection on every call
func (s *Store) Stats() task.Stats {
	return task.CalculateStats(s.tasks)
}

// FilteredTasks returns the derived view: the collection narrowed by the
// status filter and search text, then sorted
func (s *Store) FilteredTasks() []task.Task {
	return Query(s.tasks, s.filter, s.searchQuery)
}

// Query applies the status filter and search text to tasks and sorts the
// result: incomplete before completed, then high before medium before low
// priority, then newest first. Ties keep their input order. tasks is not
// modified.
func Query(tasks []task.Task, filter task.Filter, search string) []task.Task {
	needle := strings.ToLower(search)

	out := make([]task.Task, 0, len(tasks))
	for _, t := range tasks {
		if !filter.Match(t) {
			continue
		}
		if needle != "" && !matches(t, needle) {
			continue
		}
		out = append(out, t.Clone())
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Completed != b.Completed {
			return !a.Completed
		}
		if a.Priority != b.Priority {
			return a.Priority.Rank() < b.Priority.Rank()
		}
		return a.CreatedAt.After(b.CreatedAt)
	})

	return out
}

// matches reports whether needle (already lower-cased) occurs in the title or description
func matches(t task.Task, needle string) bool {
	if strings.Contains(strings.ToLower(t.Title), needle) {
		return true
	}
	return t.Description != "" && strings.Contains(strings.ToLower(t.Description), needle)
}
