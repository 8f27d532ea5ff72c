// Package logging writes structured JSON log lines to stderr.
package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Severity levels for structured logs
type Severity string

const (
	SeverityDebug   Severity = "DEBUG"
	SeverityInfo    Severity = "INFO"
	SeverityWarning Severity = "WARNING"
	SeverityError   Severity = "ERROR"
)

func (s Severity) rank() int {
	switch s {
	case SeverityDebug:
		return 0
	case SeverityInfo:
		return 1
	case SeverityWarning:
		return 2
	case SeverityError:
		return 3
	default:
		return 1
	}
}

// ParseSeverity maps a level name such as "debug" or "warn" to a Severity.
func ParseSeverity(level string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return SeverityDebug, nil
	case "info", "":
		return SeverityInfo, nil
	case "warn", "warning":
		return SeverityWarning, nil
	case "error":
		return SeverityError, nil
	default:
		return "", fmt.Errorf("unknown log level %q", level)
	}
}

// Entry is one structured log line.
type Entry struct {
	Severity  Severity               `json:"severity"`
	Message   string                 `json:"message"`
	Timestamp time.Time              `json:"timestamp"`
	RunID     string                 `json:"run_id"`
	Labels    map[string]string      `json:"labels,omitempty"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

// Logger writes entries at or above its minimum severity. It is safe for
// concurrent use.
type Logger struct {
	writer      io.Writer
	runID       string
	labels      map[string]string
	minSeverity Severity
	mu          sync.Mutex
	closed      bool
}

// Option configures a Logger.
type Option func(*Logger)

// WithWriter sets the output writer.
func WithWriter(w io.Writer) Option {
	return func(l *Logger) {
		l.writer = w
	}
}

// WithRunID overrides the generated run ID.
func WithRunID(id string) Option {
	return func(l *Logger) {
		l.runID = id
	}
}

// WithLabels adds labels to every entry.
func WithLabels(labels map[string]string) Option {
	return func(l *Logger) {
		for k, v := range labels {
			l.labels[k] = v
		}
	}
}

// WithMinSeverity drops entries below s.
func WithMinSeverity(s Severity) Option {
	return func(l *Logger) {
		l.minSeverity = s
	}
}

// New creates a Logger writing to stderr at WARNING and above. Each logger
// gets a random run ID so lines of one invocation can be grouped.
func New(opts ...Option) *Logger {
	l := &Logger{
		writer:      os.Stderr,
		runID:       uuid.NewString(),
		labels:      map[string]string{"component": "jiralite"},
		minSeverity: SeverityWarning,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// RunID returns the identifier attached to every entry.
func (l *Logger) RunID() string {
	return l.runID
}

// Enabled reports whether entries at s are written.
func (l *Logger) Enabled(s Severity) bool {
	return s.rank() >= l.minSeverity.rank()
}

// Log writes a structured entry.
func (l *Logger) Log(severity Severity, message string, fields map[string]interface{}) {
	if !l.Enabled(severity) {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return
	}

	entry := Entry{
		Severity:  severity,
		Message:   message,
		Timestamp: time.Now().UTC(),
		RunID:     l.runID,
		Labels:    l.labels,
		Fields:    fields,
	}

	data, err := json.Marshal(entry)
	if err != nil {
		fmt.Fprintf(l.writer, `{"severity":"ERROR","message":"failed to marshal log entry: %v"}`+"\n", err)
		return
	}
	fmt.Fprintf(l.writer, "%s\n", data)
}

// Debugf writes a formatted DEBUG entry.
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.Log(SeverityDebug, fmt.Sprintf(format, args...), nil)
}

// Infof writes a formatted INFO entry.
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Log(SeverityInfo, fmt.Sprintf(format, args...), nil)
}

// Warningf writes a formatted WARNING entry.
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Log(SeverityWarning, fmt.Sprintf(format, args...), nil)
}

// Errorf writes a formatted ERROR entry.
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Log(SeverityError, fmt.Sprintf(format, args...), nil)
}

// Close flushes the writer if it supports Sync and stops further output.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}
	l.closed = true

	if syncer, ok := l.writer.(interface{ Sync() error }); ok {
		return syncer.Sync()
	}
	return nil
}
