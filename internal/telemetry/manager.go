package telemetry

import (
	"fmt"

	"go.uber.org/zap"
)

// Manager selects the configured sink and guards calls into it
type Manager struct {
	sink   Sink
	logger *zap.Logger
}

// NewManager creates a manager for the named sink.
// When enabled is false the noop sink is used regardless of sinkName.
func NewManager(enabled bool, sinkName string, logger *zap.Logger) (*Manager, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if !enabled {
		sinkName = "noop"
	}

	sink, err := builtin.Build(sinkName, logger)
	if err != nil {
		return nil, fmt.Errorf("creating telemetry sink %s: %w", sinkName, err)
	}

	return &Manager{sink: sink, logger: logger.Named("telemetry")}, nil
}

// Name returns the name of the current sink
func (m *Manager) Name() string {
	return m.sink.Name()
}

// Emit forwards to the sink, recovering from any panic
func (m *Manager) Emit(event string, props Props) {
	defer m.guard("emit")
	m.sink.Emit(event, props)
}

// Identify forwards to the sink, recovering from any panic
func (m *Manager) Identify(distinctID string, props Props) {
	defer m.guard("identify")
	m.sink.Identify(distinctID, props)
}

// Reset forwards to the sink, recovering from any panic
func (m *Manager) Reset() {
	defer m.guard("reset")
	m.sink.Reset()
}

func (m *Manager) guard(op string) {
	if r := recover(); r != nil {
		m.logger.Warn("telemetry sink panicked", zap.String("op", op), zap.Any("panic", r))
	}
}

// Nop returns an emitter that discards everything
func Nop() Emitter {
	return NewNoopSink()
}
