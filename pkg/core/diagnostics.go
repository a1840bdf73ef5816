package core

import (
	"context"
	"log/slog"
	"sort"
	"sync"
)

// Logger receives human-readable render progress lines
type Logger interface {
	Printf(format string, args ...any)
}

// Severity classifies a diagnostic
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "info"
}

// Diagnostic is a structured event raised during scene construction,
// such as a plugin type falling back to its default
type Diagnostic struct {
	Severity  Severity
	Component string // factory that raised it, e.g. "bsdf"
	Message   string
	Fields    map[string]any
}

// Diagnostics receives structured events. Implementations must be safe for concurrent use.
type Diagnostics interface {
	Report(d Diagnostic)
}

// NopDiagnostics discards every event
type NopDiagnostics struct{}

func (NopDiagnostics) Report(Diagnostic) {}

// DiagnosticsRecorder keeps every reported event in memory
type DiagnosticsRecorder struct {
	mu     sync.Mutex
	events []Diagnostic
}

func (r *DiagnosticsRecorder) Report(d Diagnostic) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, d)
}

// Events returns a copy of the recorded events
func (r *DiagnosticsRecorder) Events() []Diagnostic {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Diagnostic, len(r.events))
	copy(out, r.events)
	return out
}

// SlogDiagnostics forwards events to a structured logger
type SlogDiagnostics struct {
	logger *slog.Logger
}

// NewSlogDiagnostics creates a sink writing to logger, or to slog.Default when nil
func NewSlogDiagnostics(logger *slog.Logger) *SlogDiagnostics {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogDiagnostics{logger: logger}
}

func (s *SlogDiagnostics) Report(d Diagnostic) {
	level := slog.LevelInfo
	if d.Severity == SeverityWarning {
		level = slog.LevelWarn
	}

	keys := make([]string, 0, len(d.Fields))
	for k := range d.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	attrs := make([]slog.Attr, 0, len(keys)+1)
	attrs = append(attrs, slog.String("component", d.Component))
	for _, k := range keys {
		attrs = append(attrs, slog.Any(k, d.Fields[k]))
	}
	s.logger.LogAttrs(context.Background(), level, d.Message, attrs...)
}
