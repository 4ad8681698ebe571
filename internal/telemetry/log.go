package telemetry

import (
	"sort"
	"sync"

	"go.uber.org/zap"
)

// LogSink writes one structured log line per event
type LogSink struct {
	logger *zap.Logger

	mu         sync.Mutex
	distinctID string
}

// NewLogSink creates a sink logging through logger
func NewLogSink(logger *zap.Logger) Sink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSink{logger: logger.Named("telemetry")}
}

// Name returns the sink identifier
func (l *LogSink) Name() string {
	return "log"
}

// Emit logs the event with its properties and the identified user, if any
func (l *LogSink) Emit(event string, props Props) {
	l.mu.Lock()
	id := l.distinctID
	l.mu.Unlock()

	fields := make([]zap.Field, 0, len(props)+2)
	fields = append(fields, zap.String("event", event))
	if id != "" {
		fields = append(fields, zap.String("distinct_id", id))
	}
	fields = append(fields, propFields(props)...)
	l.logger.Info("event", fields...)
}

// Identify remembers distinctID for later events
func (l *LogSink) Identify(distinctID string, props Props) {
	l.mu.Lock()
	l.distinctID = distinctID
	l.mu.Unlock()

	fields := append([]zap.Field{zap.String("distinct_id", distinctID)}, propFields(props)...)
	l.logger.Info("identify", fields...)
}

// Reset forgets the identified user
func (l *LogSink) Reset() {
	l.mu.Lock()
	l.distinctID = ""
	l.mu.Unlock()
	l.logger.Info("reset")
}

// propFields converts props to zap fields in key order
func propFields(props Props) []zap.Field {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fields := make([]zap.Field, 0, len(keys))
	for _, k := range keys {
		fields = append(fields, zap.Any(k, props[k]))
	}
	return fields
}

// log is the default sink
func init() {
	provide("log", func(opts Options) Sink { return NewLogSink(opts.Logger) })
}
