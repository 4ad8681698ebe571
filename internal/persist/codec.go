package persist

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/pdxmph/taskflow/internal/task"
)

// SchemaVersion is written with every snapshot
const SchemaVersion = 1

const dateTag = "Date"

// record is the on-disk layout of a snapshot
type record struct {
	State   stateRecord `json:"state"`
	Version int         `json:"version"`
}

type stateRecord struct {
	Tasks       []taskRecord `json:"tasks"`
	Filter      task.Filter  `json:"filter"`
	SearchQuery string       `json:"searchQuery"`
}

type taskRecord struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Completed   bool          `json:"completed"`
	Priority    task.Priority `json:"priority"`
	Category    task.Category `json:"category"`
	DueDate     *taggedDate   `json:"dueDate,omitempty"`
	CreatedAt   *taggedDate   `json:"createdAt"`
	CompletedAt *taggedDate   `json:"completedAt,omitempty"`
}

// taggedDate carries a type marker so dates are never confused with plain strings.
// Encoded as {"__type":"Date","value":"<RFC3339Nano>"}.
type taggedDate struct {
	time.Time
}

type taggedDateWire struct {
	Type  string `json:"__type"`
	Value string `json:"value"`
}

func (d taggedDate) MarshalJSON() ([]byte, error) {
	return json.Marshal(taggedDateWire{Type: dateTag, Value: d.Time.Format(time.RFC3339Nano)})
}

// UnmarshalJSON accepts the tagged form, and bare ISO-8601 strings written by
// records that predate the tag.
func (d *taggedDate) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		return d.parse(s)
	}

	var wire taggedDateWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return fmt.Errorf("date field: %w", err)
	}
	if wire.Type != dateTag {
		return fmt.Errorf("date field: unexpected type tag %q", wire.Type)
	}
	return d.parse(wire.Value)
}

func (d *taggedDate) parse(s string) error {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return fmt.Errorf("date field: %w", err)
	}
	d.Time = t
	return nil
}

func tag(t *time.Time) *taggedDate {
	if t == nil {
		return nil
	}
	return &taggedDate{Time: *t}
}

func untag(d *taggedDate) *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}

// encode renders a snapshot in the on-disk layout
func encode(s Snapshot) ([]byte, error) {
	rec := record{
		State: stateRecord{
			Tasks:       make([]taskRecord, 0, len(s.Tasks)),
			Filter:      s.Filter,
			SearchQuery: s.SearchQuery,
		},
		Version: SchemaVersion,
	}
	for _, t := range s.Tasks {
		createdAt := t.CreatedAt
		rec.State.Tasks = append(rec.State.Tasks, taskRecord{
			ID:          t.ID,
			Title:       t.Title,
			Description: t.Description,
			Completed:   t.Completed,
			Priority:    t.Priority,
			Category:    t.Category,
			DueDate:     tag(t.DueDate),
			CreatedAt:   tag(&createdAt),
			CompletedAt: tag(t.CompletedAt),
		})
	}
	return json.Marshal(rec)
}

// decode parses the on-disk layout back into a snapshot
func decode(data []byte) (Snapshot, error) {
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Snapshot{}, err
	}
	if rec.Version > SchemaVersion {
		return Snapshot{}, fmt.Errorf("schema version %d is newer than supported version %d", rec.Version, SchemaVersion)
	}

	snap := Snapshot{
		Tasks:       make([]task.Task, 0, len(rec.State.Tasks)),
		Filter:      rec.State.Filter,
		SearchQuery: rec.State.SearchQuery,
	}
	if snap.Filter == "" {
		snap.Filter = task.FilterAll
	}
	if !snap.Filter.Valid() {
		return Snapshot{}, fmt.Errorf("unknown filter %q", snap.Filter)
	}

	seen := make(map[string]bool, len(rec.State.Tasks))
	for i, tr := range rec.State.Tasks {
		if err := checkTask(tr); err != nil {
			return Snapshot{}, fmt.Errorf("task %d: %w", i, err)
		}
		if seen[tr.ID] {
			return Snapshot{}, fmt.Errorf("task %d: duplicate id %q", i, tr.ID)
		}
		seen[tr.ID] = true

		snap.Tasks = append(snap.Tasks, task.Task{
			ID:          tr.ID,
			Title:       tr.Title,
			Description: tr.Description,
			Completed:   tr.Completed,
			Priority:    tr.Priority,
			Category:    tr.Category,
			DueDate:     untag(tr.DueDate),
			CreatedAt:   tr.CreatedAt.Time,
			CompletedAt: untag(tr.CompletedAt),
		})
	}
	return snap, nil
}

func checkTask(tr taskRecord) error {
	switch {
	case tr.ID == "":
		return errors.New("missing id")
	case tr.CreatedAt == nil:
		return errors.New("missing createdAt")
	case !tr.Priority.Valid():
		return fmt.Errorf("unknown priority %q", tr.Priority)
	case !tr.Category.Valid():
		return fmt.Errorf("unknown category %q", tr.Category)
	}
	return nil
}
