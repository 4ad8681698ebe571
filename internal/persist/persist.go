package persist

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/pdxmph/taskflow/internal/task"
)

// DefaultSlot is the slot name snapshots are written to
const DefaultSlot = "taskflow-storage"

// Snapshot is the full persisted state of the task store
type Snapshot struct {
	Tasks       []task.Task
	Filter      task.Filter
	SearchQuery string
}

// Storage is a provider of named durable slots holding text values
type Storage interface {
	// GetItem returns the slot's value; ok is false when the slot was never written
	GetItem(name string) (value string, ok bool, err error)

	// SetItem creates or replaces the slot's value
	SetItem(name, value string) error

	// RemoveItem deletes the slot; removing an absent slot is not an error
	RemoveItem(name string) error
}

// Adapter saves and loads snapshots through a Storage slot
type Adapter struct {
	storage Storage
	slot    string
	logger  *zap.Logger
}

// NewAdapter creates an adapter writing to the named slot.
// A nil logger discards log output.
func NewAdapter(storage Storage, slot string, logger *zap.Logger) *Adapter {
	if slot == "" {
		slot = DefaultSlot
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adapter{
		storage: storage,
		slot:    slot,
		logger:  logger.Named("persist"),
	}
}

// Slot returns the slot name this adapter writes to
func (a *Adapter) Slot() string {
	return a.slot
}

// Save encodes the snapshot and writes it to the slot
func (a *Adapter) Save(s Snapshot) error {
	data, err := encode(s)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	if err := a.storage.SetItem(a.slot, string(data)); err != nil {
		return fmt.Errorf("%w: writing slot %q: %w", ErrStorageUnavailable, a.slot, err)
	}

	a.logger.Debug("snapshot saved",
		zap.String("slot", a.slot),
		zap.Int("tasks", len(s.Tasks)),
		zap.Int("bytes", len(data)),
	)
	return nil
}

// Load reads the slot. ok is false when nothing has been saved yet.
func (a *Adapter) Load() (snap Snapshot, ok bool, err error) {
	value, ok, err := a.storage.GetItem(a.slot)
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("%w: reading slot %q: %w", ErrStorageUnavailable, a.slot, err)
	}
	if !ok {
		return Snapshot{}, false, nil
	}

	snap, err = decode([]byte(value))
	if err != nil {
		return Snapshot{}, false, &DecodeError{Slot: a.slot, Err: err}
	}

	a.logger.Debug("snapshot loaded", zap.String("slot", a.slot), zap.Int("tasks", len(snap.Tasks)))
	return snap, true, nil
}

// Clear removes the slot
func (a *Adapter) Clear() error {
	if err := a.storage.RemoveItem(a.slot); err != nil {
		return fmt.Errorf("%w: removing slot %q: %w", ErrStorageUnavailable, a.slot, err)
	}
	return nil
}
