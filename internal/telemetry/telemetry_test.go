package telemetry

import (
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return zap.New(core), logs
}

func TestBuiltinSinks(t *testing.T) {
	names := SinkNames()
	want := map[string]bool{"log": false, "noop": false}
	for _, n := range names {
		if _, ok := want[n]; ok {
			want[n] = true
		}
	}
	for n, found := range want {
		if !found {
			t.Errorf("sink %q not provided; have %v", n, names)
		}
	}
}

func TestSinkSetAdd(t *testing.T) {
	noop := func(Options) Sink { return NewNoopSink() }

	tests := []struct {
		name    string
		sink    string
		factory SinkFactory
		wantErr bool
	}{
		{name: "Given a new name Then it is added", sink: "noop", factory: noop},
		{name: "Given the same name in another case Then it is rejected", sink: " NOOP ", factory: noop, wantErr: true},
		{name: "Given a blank name Then it is rejected", sink: "  ", factory: noop, wantErr: true},
		{name: "Given no factory Then it is rejected", sink: "other", factory: nil, wantErr: true},
	}

	set := NewSinkSet()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := set.Add(tt.sink, tt.factory)
			if (err != nil) != tt.wantErr {
				t.Errorf("Add(%q) error = %v, wantErr %v", tt.sink, err, tt.wantErr)
			}
		})
	}

	if names := set.Names(); len(names) != 1 || names[0] != "noop" {
		t.Errorf("Names() = %v, want [noop]", names)
	}
}

func TestSinkSetBuild(t *testing.T) {
	set := NewSinkSet()
	if err := set.Add("log", func(opts Options) Sink { return NewLogSink(opts.Logger) }); err != nil {
		t.Fatal(err)
	}
	if err := set.Add("noop", func(Options) Sink { return NewNoopSink() }); err != nil {
		t.Fatal(err)
	}

	sink, err := set.Build(" Log", nil)
	if err != nil || sink.Name() != "log" {
		t.Fatalf("Build(\" Log\") = %v, %v", sink, err)
	}
	sink.Emit("task_created", nil)

	_, err = set.Build("posthog", nil)
	if !errors.Is(err, ErrUnknownSink) {
		t.Fatalf("Build(posthog) error = %v, want ErrUnknownSink", err)
	}
	if !strings.Contains(err.Error(), "log, noop") {
		t.Errorf("error should list the available sinks: %v", err)
	}
}

func TestNewManagerSelection(t *testing.T) {
	tests := []struct {
		name     string
		enabled  bool
		sink     string
		wantName string
		wantErr  bool
	}{
		{name: "Given telemetry enabled Then the named sink is used", enabled: true, sink: "log", wantName: "log"},
		{name: "Given telemetry disabled Then noop is used", enabled: false, sink: "log", wantName: "noop"},
		{name: "Given disabled with an unknown sink Then noop is used", enabled: false, sink: "posthog", wantName: "noop"},
		{name: "Given an unknown sink Then creation fails", enabled: true, sink: "posthog", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewManager(tt.enabled, tt.sink, nil)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewManager failed: %v", err)
			}
			if m.Name() != tt.wantName {
				t.Errorf("sink = %q, want %q", m.Name(), tt.wantName)
			}
		})
	}
}

func TestLogSinkEmitsStructuredEvents(t *testing.T) {
	logger, logs := observedLogger()
	m, err := NewManager(true, "log", logger)
	if err != nil {
		t.Fatal(err)
	}

	m.Identify("ada@example.com", Props{"name": "Ada"})
	m.Emit(EventTaskCreated, Props{"priority": "high", "category": "work"})
	m.Reset()
	m.Emit(EventFilterChanged, Props{"filter": "active"})

	events := logs.FilterMessage("event").All()
	if len(events) != 2 {
		t.Fatalf("got %d event lines, want 2", len(events))
	}

	first := events[0].ContextMap()
	if first["event"] != EventTaskCreated || first["priority"] != "high" || first["distinct_id"] != "ada@example.com" {
		t.Errorf("first event fields = %v", first)
	}
	if events[0].LoggerName != "telemetry" {
		t.Errorf("logger name = %q", events[0].LoggerName)
	}

	second := events[1].ContextMap()
	if _, ok := second["distinct_id"]; ok {
		t.Errorf("distinct_id should be cleared after Reset: %v", second)
	}
	if logs.FilterMessage("identify").Len() != 1 || logs.FilterMessage("reset").Len() != 1 {
		t.Error("identify and reset should each log once")
	}
}

type panickySink struct{ *NoopSink }

func (panickySink) Emit(string, Props) { panic("boom") }

func TestManagerRecoversSinkPanics(t *testing.T) {
	logger, logs := observedLogger()
	m := &Manager{sink: panickySink{&NoopSink{}}, logger: logger}

	m.Emit(EventTaskDeleted, nil)

	if logs.FilterMessage("telemetry sink panicked").Len() != 1 {
		t.Error("panic should be logged as a warning")
	}
}
