package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/andywolf/jiralite/internal/jira"
	"github.com/andywolf/jiralite/internal/render"
	"github.com/andywolf/jiralite/internal/security"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List issues",
	Long: `List issues matching a JQL query.

Without --jql, lists open issues assigned to you plus the ones you resolved
in the last default_jql_days days. At most 100 issues are returned.

Examples:
  jiralite list
  jiralite list --project ABC
  jiralite list --jql 'project = ABC AND status = "In Review"'
  jiralite list -o json --fields key,summary,status`,
	Args: cobra.NoArgs,
	RunE: listIssues,
}

var showCmd = &cobra.Command{
	Use:   "show <issue-key>",
	Short: "Show issue details",
	Long: `Show all fields of one issue.

Example:
  jiralite show ABC-123`,
	Args: cobra.ExactArgs(1),
	RunE: showIssue,
}

func init() {
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)

	listCmd.Flags().String("jql", "", "JQL query (overrides --project)")
	listCmd.Flags().String("project", "", "limit the default query to a project key")
	listCmd.Flags().Int("days", 0, "days of resolved issues to include (default from config)")
	listCmd.Flags().StringSlice("fields", nil, "fields to request (default: all supported fields)")
	listCmd.Flags().Bool("no-assignee", false, "hide the assignee column")
}

func listIssues(cmd *cobra.Command, args []string) error {
	jqlFlag, _ := cmd.Flags().GetString("jql")
	project, _ := cmd.Flags().GetString("project")
	days, _ := cmd.Flags().GetInt("days")
	fields, _ := cmd.Flags().GetStringSlice("fields")
	noAssignee, _ := cmd.Flags().GetBool("no-assignee")

	fields = trimFields(fields)
	if err := security.ValidateFieldNames(fields); err != nil {
		return err
	}

	return runWithSession(cmd, func(ctx context.Context, s *session) error {
		if days <= 0 {
			days = s.cfg.Jira.DefaultJQLDays
		}
		jql := buildJQL(jqlFlag, project, days)
		s.logger.Debugf("searching: %s", jql)

		return runList(ctx, s.client, s.printer, jql, fields)
	}, render.WithAssignee(!noAssignee))
}

func runList(ctx context.Context, t tracker, p *render.Printer, jql string, fields []string) error {
	issues, err := t.SearchIssues(ctx, jql, fields)
	if err != nil {
		return fmt.Errorf("failed to search issues: %w", err)
	}
	return p.Issues(issues)
}

func showIssue(cmd *cobra.Command, args []string) error {
	key, err := security.NormalizeIssueKey(args[0])
	if err != nil {
		return err
	}

	return runWithSession(cmd, func(ctx context.Context, s *session) error {
		return runShow(ctx, s.client, s.printer, key, render.BrowseURL(s.cfg.Jira.BaseURL, key))
	})
}

func runShow(ctx context.Context, t tracker, p *render.Printer, key, browseURL string) error {
	issue, err := t.GetIssue(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to get %s: %w", key, err)
	}
	return p.Issue(issue, browseURL)
}

// buildJQL picks the query: an explicit one wins, then a project filter,
// then the default.
func buildJQL(jql, project string, days int) string {
	if q := strings.TrimSpace(jql); q != "" {
		return q
	}
	if strings.TrimSpace(project) != "" {
		return jira.BuildProjectJQL(project, days)
	}
	return jira.BuildDefaultJQL(days)
}

func trimFields(fields []string) []string {
	if len(fields) == 0 {
		return nil
	}
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		out = append(out, strings.TrimSpace(f))
	}
	return out
}
