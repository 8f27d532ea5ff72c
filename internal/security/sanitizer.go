// Package security provides redaction of credentials in log output and
// validation of user-supplied identifiers.
package security

import (
	"regexp"
	"strings"
)

// Patterns for credentials that may reach a log line.
var (
	// Authorization header values, Basic or Bearer.
	authHeaderPattern = regexp.MustCompile(`(?i)\b(basic|bearer)[[:space:]]+([a-zA-Z0-9_\-\.+/=]{8,})`)

	// Atlassian API tokens.
	atlassianTokenPattern = regexp.MustCompile(`ATATT[a-zA-Z0-9_\-=]{20,}`)

	// key=value or key: value pairs naming a token, password or secret.
	keyValuePattern = regexp.MustCompile(`(?i)\b(api[_-]?token|api[_-]?key|access[_-]?token|password|passwd|secret)[[:space:]]*[:=][[:space:]]*['"` + "`" + `]?([^[:space:]'"` + "`" + `,;]+)['"` + "`" + `]?`)

	// Passwords in URLs.
	urlPasswordPattern = regexp.MustCompile(`(?i)(https?)://[^:/@[:space:]]+:([^@[:space:]]+)@`)

	// JSON Web Tokens.
	jwtPattern = regexp.MustCompile(`eyJ[a-zA-Z0-9_-]*\.eyJ[a-zA-Z0-9_-]*\.[a-zA-Z0-9_-]*`)

	// Service account key material fetched alongside the token secret.
	gcpServiceAccountPattern = regexp.MustCompile(`"private_key":\s*"[^"]+"`)
)

// LogSanitizer masks credentials in log messages.
type LogSanitizer struct {
	customPatterns []*regexp.Regexp
	literals       []string
}

// NewLogSanitizer creates a sanitizer with the built-in patterns.
func NewLogSanitizer() *LogSanitizer {
	return &LogSanitizer{
		customPatterns: make([]*regexp.Regexp, 0),
	}
}

// AddCustomPattern adds a pattern whose matches are replaced by [REDACTED].
func (ls *LogSanitizer) AddCustomPattern(pattern *regexp.Regexp) {
	ls.customPatterns = append(ls.customPatterns, pattern)
}

// AddSecret registers a literal value, such as the configured API token, to
// be masked wherever it appears. Empty values are ignored.
func (ls *LogSanitizer) AddSecret(secret string) {
	if secret == "" {
		return
	}
	ls.literals = append(ls.literals, secret)
}

// Sanitize removes or masks sensitive information from a message.
func (ls *LogSanitizer) Sanitize(message string) string {
	for _, lit := range ls.literals {
		message = strings.ReplaceAll(message, lit, "[REDACTED]")
	}

	message = jwtPattern.ReplaceAllString(message, "[REDACTED-JWT]")
	message = atlassianTokenPattern.ReplaceAllString(message, "[REDACTED-API-TOKEN]")
	message = authHeaderPattern.ReplaceAllString(message, "${1} [REDACTED]")
	message = urlPasswordPattern.ReplaceAllString(message, "${1}://[REDACTED]@")
	message = gcpServiceAccountPattern.ReplaceAllString(message, `"private_key": "[REDACTED]"`)
	message = keyValuePattern.ReplaceAllString(message, "${1}=[REDACTED]")

	for _, pattern := range ls.customPatterns {
		message = pattern.ReplaceAllString(message, "[REDACTED]")
	}

	return message
}

// SanitizeError sanitizes an error message.
func (ls *LogSanitizer) SanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return ls.Sanitize(err.Error())
}

// SanitizeMap sanitizes all values in a map. Values under keys that name a
// credential are replaced outright.
func (ls *LogSanitizer) SanitizeMap(m map[string]string) map[string]string {
	sanitized := make(map[string]string, len(m))
	for k, v := range m {
		if isSensitiveKey(k) {
			sanitized[k] = "[REDACTED]"
			continue
		}
		sanitized[k] = ls.Sanitize(v)
	}
	return sanitized
}

func isSensitiveKey(key string) bool {
	lowerKey := strings.ToLower(key)
	sensitiveKeywords := []string{
		"password", "passwd",
		"secret", "token",
		"authorization", "credential",
		"api_key", "apikey",
	}

	for _, keyword := range sensitiveKeywords {
		if strings.Contains(lowerKey, keyword) {
			return true
		}
	}
	return false
}
