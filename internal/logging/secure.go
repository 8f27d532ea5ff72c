package logging

import (
	"fmt"

	"github.com/andywolf/jiralite/internal/security"
)

// SecureLogger wraps Logger and sanitizes every message and string field
// before it is written.
type SecureLogger struct {
	*Logger
	sanitizer *security.LogSanitizer
}

// NewSecure creates a SecureLogger. A nil sanitizer gets the defaults.
func NewSecure(sanitizer *security.LogSanitizer, opts ...Option) *SecureLogger {
	if sanitizer == nil {
		sanitizer = security.NewLogSanitizer()
	}
	return &SecureLogger{
		Logger:    New(opts...),
		sanitizer: sanitizer,
	}
}

// Log writes a sanitized entry.
func (sl *SecureLogger) Log(severity Severity, message string, fields map[string]interface{}) {
	if !sl.Enabled(severity) {
		return
	}

	var clean map[string]interface{}
	if fields != nil {
		clean = make(map[string]interface{}, len(fields))
		for k, v := range fields {
			if s, ok := v.(string); ok {
				clean[k] = sl.sanitizer.Sanitize(s)
				continue
			}
			if err, ok := v.(error); ok {
				clean[k] = sl.sanitizer.SanitizeError(err)
				continue
			}
			clean[k] = v
		}
	}

	sl.Logger.Log(severity, sl.sanitizer.Sanitize(message), clean)
}

// Debugf formats, then sanitizes, a DEBUG entry.
func (sl *SecureLogger) Debugf(format string, args ...interface{}) {
	sl.Log(SeverityDebug, fmt.Sprintf(format, args...), nil)
}

// Infof formats, then sanitizes, an INFO entry.
func (sl *SecureLogger) Infof(format string, args ...interface{}) {
	sl.Log(SeverityInfo, fmt.Sprintf(format, args...), nil)
}

// Warningf formats, then sanitizes, a WARNING entry.
func (sl *SecureLogger) Warningf(format string, args ...interface{}) {
	sl.Log(SeverityWarning, fmt.Sprintf(format, args...), nil)
}

// Errorf formats, then sanitizes, an ERROR entry.
func (sl *SecureLogger) Errorf(format string, args ...interface{}) {
	sl.Log(SeverityError, fmt.Sprintf(format, args...), nil)
}
