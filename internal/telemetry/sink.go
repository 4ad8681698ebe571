// Package telemetry reports product events from the presentation layer.
// Emitting is fire and forget: sinks never return errors to callers.
package telemetry

// Event names emitted by the TUI and CLI
const (
	EventTaskCreated       = "task_created"
	EventTaskCompleted     = "task_completed"
	EventTaskUncompleted   = "task_uncompleted"
	EventTaskDeleted       = "task_deleted"
	EventTaskEditStarted   = "task_edit_started"
	EventTaskEdited        = "task_edited"
	EventTaskEditCancelled = "task_edit_cancelled"
	EventTasksSearched     = "tasks_searched"
	EventFilterChanged     = "filter_changed"
	EventCompletedCleared  = "completed_cleared"
	EventUserLoggedIn      = "user_logged_in"
	EventUserLoggedOut     = "user_logged_out"
)

// Props are the properties attached to an event
type Props map[string]any

// Emitter receives telemetry events
type Emitter interface {
	// Emit records a named event
	Emit(event string, props Props)

	// Identify associates later events with a user
	Identify(distinctID string, props Props)

	// Reset forgets the identified user
	Reset()
}

// Sink is an Emitter that can be selected by name
type Sink interface {
	Emitter

	// Name returns the sink identifier (e.g., "log", "noop")
	Name() string
}

// SinkFactory creates a new instance of a Sink
type SinkFactory func(opts Options) Sink
