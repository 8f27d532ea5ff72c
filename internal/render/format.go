// Package render turns domain records into terminal text and machine-readable
// output.
package render

import (
	"strings"

	"github.com/andywolf/jiralite/internal/domain"
	"github.com/mattn/go-runewidth"
)

// EmptyValue stands in for an absent change-event value.
const EmptyValue = "(empty)"

const (
	keyWidth    = 12
	statusWidth = 15
	ellipsis    = "…"
	defaultIcon = "⬛"
)

var issueTypeIcons = map[string]string{
	"objective": "🟨",
	"epic":      "🟪",
	"bug":       "🟥",
	"task":      "🟦",
	"story":     "🟩",
	"sub-task":  "⬜",
}

// IssueIcon returns the icon for an issue type name. Lookup ignores case and
// surrounding whitespace.
func IssueIcon(issueTypeName string) string {
	if icon, ok := issueTypeIcons[strings.ToLower(strings.TrimSpace(issueTypeName))]; ok {
		return icon
	}
	return defaultIcon
}

// FormatIssueLine renders one list row: icon, padded key and status, the
// summary cut to fit maxWidth, and optionally the assignee. When the fixed
// columns alone exceed maxWidth the summary is dropped.
func FormatIssueLine(issue domain.Issue, showAssignee bool, maxWidth int) string {
	icon := IssueIcon(issue.IssueType.Name)
	keyCol := runewidth.FillRight(issue.Key, keyWidth)
	statusCol := runewidth.FillRight(issue.Status, statusWidth)

	assignee := ""
	if showAssignee && issue.Assignee != nil {
		assignee = " (" + issue.Assignee.DisplayName + ")"
	}

	prefix := runewidth.StringWidth(icon) + 1 + keyWidth + 1 + statusWidth + 1
	available := maxWidth - prefix - runewidth.StringWidth(assignee)
	if available <= 0 {
		return strings.TrimSpace(icon + " " + keyCol + " " + statusCol)
	}

	return icon + " " + keyCol + " " + statusCol + " " + Truncate(issue.Summary, available) + assignee
}

// Truncate shortens text to at most maxWidth display cells, ending with an
// ellipsis when anything was cut.
func Truncate(text string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(text) <= maxWidth {
		return text
	}
	return runewidth.Truncate(text, maxWidth, ellipsis)
}

// FormatAssignee returns the display name or "Unassigned".
func FormatAssignee(u *domain.User) string {
	if u == nil {
		return "Unassigned"
	}
	return u.DisplayName
}

// ValueOrEmpty dereferences v, substituting EmptyValue when absent.
func ValueOrEmpty(v *string) string {
	if v == nil || *v == "" {
		return EmptyValue
	}
	return *v
}

// BrowseURL links to the issue in the tracker's web UI.
func BrowseURL(baseURL, key string) string {
	return strings.TrimRight(baseURL, "/") + "/browse/" + key
}
