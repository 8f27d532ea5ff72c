package jira

import (
	"fmt"
	"strings"
)

// DefaultJQLDays is the look-back window for resolved issues.
const DefaultJQLDays = 14

// BuildDefaultJQL returns the query for the default issue list: open issues
// assigned to the current user, plus ones they resolved in the last days.
func BuildDefaultJQL(days int) string {
	if days <= 0 {
		days = DefaultJQLDays
	}
	return fmt.Sprintf(
		`(assignee IN (currentUser()) AND statusCategory IN ("To Do","In Progress")) OR `+
			`(assignee IN (currentUser()) AND statusCategory IN (Done) AND resolved >= -%dd) `+
			`ORDER BY updated DESC`,
		days,
	)
}

// BuildProjectJQL narrows the default query to one project.
func BuildProjectJQL(project string, days int) string {
	project = strings.TrimSpace(project)
	if project == "" {
		return BuildDefaultJQL(days)
	}
	return fmt.Sprintf("project = %s AND (%s", project, strings.Replace(BuildDefaultJQL(days), " ORDER BY", ") ORDER BY", 1))
}
