package telemetry

// NoopSink discards every event, used when telemetry is disabled
type NoopSink struct{}

// NewNoopSink creates a new no-op sink
func NewNoopSink() Sink {
	return &NoopSink{}
}

// Name returns the sink identifier
func (n *NoopSink) Name() string {
	return "noop"
}

// Emit does nothing
func (n *NoopSink) Emit(event string, props Props) {}

// Identify does nothing
func (n *NoopSink) Identify(distinctID string, props Props) {}

// Reset does nothing
func (n *NoopSink) Reset() {}

// noop backs disabled telemetry
func init() {
	provide("noop", func(Options) Sink { return NewNoopSink() })
}
