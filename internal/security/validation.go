package security

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	// Project key, a dash, then the issue number (e.g. ABC-123).
	issueKeyPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*-[0-9]+$`)

	// Transition IDs are numeric strings.
	transitionIDPattern = regexp.MustCompile(`^[0-9]+$`)
)

// NormalizeIssueKey trims and upper-cases key and checks its shape.
func NormalizeIssueKey(key string) (string, error) {
	key = strings.ToUpper(strings.TrimSpace(key))
	if key == "" {
		return "", fmt.Errorf("issue key cannot be empty")
	}
	if !issueKeyPattern.MatchString(key) {
		return "", fmt.Errorf("invalid issue key %q (expected PROJECT-123)", key)
	}
	return key, nil
}

// IsTransitionID reports whether s looks like a transition ID rather than a
// transition name.
func IsTransitionID(s string) bool {
	return transitionIDPattern.MatchString(s)
}

// ValidateFieldNames checks a user-supplied field list for the search API.
func ValidateFieldNames(fields []string) error {
	for _, f := range fields {
		if f == "" {
			return fmt.Errorf("field names cannot be empty")
		}
		if strings.ContainsAny(f, ", \t\n&?") {
			return fmt.Errorf("invalid field name %q", f)
		}
	}
	return nil
}
