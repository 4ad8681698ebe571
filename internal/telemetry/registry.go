package telemetry

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// ErrUnknownSink is returned when the config names a sink nothing provides
var ErrUnknownSink = errors.New("unknown telemetry sink")

// Options are passed to every sink factory
type Options struct {
	Logger *zap.Logger
}

// SinkSet maps the names used in config.toml to sink factories.
// Names are matched case-insensitively with surrounding space ignored.
type SinkSet struct {
	mu        sync.Mutex
	factories map[string]SinkFactory
}

func NewSinkSet() *SinkSet {
	return &SinkSet{factories: make(map[string]SinkFactory)}
}

func sinkKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Add makes a sink available under name
func (s *SinkSet) Add(name string, factory SinkFactory) error {
	key := sinkKey(name)
	if key == "" {
		return errors.New("telemetry sink needs a name")
	}
	if factory == nil {
		return fmt.Errorf("telemetry sink %q has no factory", key)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.factories[key]; taken {
		return fmt.Errorf("telemetry sink %q is already provided", key)
	}
	s.factories[key] = factory
	return nil
}

// Build creates the sink configured as name. The error for an unknown name
// lists the ones that would have worked.
func (s *SinkSet) Build(name string, logger *zap.Logger) (Sink, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	s.mu.Lock()
	factory, ok := s.factories[sinkKey(name)]
	s.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w %q (choose from %s)", ErrUnknownSink, name, strings.Join(s.Names(), ", "))
	}
	return factory(Options{Logger: logger}), nil
}

// Names lists the available sinks in sorted order
func (s *SinkSet) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.factories))
	for name := range s.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// builtin holds the sinks compiled into taskflow; each registers itself in init
var builtin = NewSinkSet()

func provide(name string, factory SinkFactory) {
	if err := builtin.Add(name, factory); err != nil {
		panic(err)
	}
}

// SinkNames lists the sinks config.toml may select
func SinkNames() []string {
	return builtin.Names()
}
