package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/andywolf/jiralite/internal/cli/wizard"
	"github.com/andywolf/jiralite/internal/domain"
	"github.com/andywolf/jiralite/internal/render"
	"github.com/andywolf/jiralite/internal/security"
	"github.com/spf13/cobra"
)

var transitionsCmd = &cobra.Command{
	Use:   "transitions <issue-key>",
	Short: "List the status transitions available for an issue",
	Args:  cobra.ExactArgs(1),
	RunE:  listTransitions,
}

var transitionCmd = &cobra.Command{
	Use:   "transition <issue-key> [transition]",
	Short: "Move an issue to another status",
	Long: `Apply a workflow transition to an issue.

The transition may be given by ID or by name (case-insensitive). A name
also matches the target status. Without one, an interactive picker is shown.

Examples:
  jiralite transition ABC-123 31
  jiralite transition ABC-123 "In Progress" -m "Picking this up"
  jiralite transition ABC-123`,
	Args: cobra.RangeArgs(1, 2),
	RunE: applyTransition,
}

func init() {
	rootCmd.AddCommand(transitionsCmd)
	rootCmd.AddCommand(transitionCmd)

	transitionCmd.Flags().StringP("message", "m", "", "comment to add with the transition")
}

func listTransitions(cmd *cobra.Command, args []string) error {
	key, err := security.NormalizeIssueKey(args[0])
	if err != nil {
		return err
	}

	return runWithSession(cmd, func(ctx context.Context, s *session) error {
		return runTransitions(ctx, s.client, s.printer, key)
	})
}

func runTransitions(ctx context.Context, t tracker, p *render.Printer, key string) error {
	transitions, err := t.ListTransitions(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to list transitions for %s: %w", key, err)
	}
	return p.Transitions(transitions)
}

func applyTransition(cmd *cobra.Command, args []string) error {
	key, err := security.NormalizeIssueKey(args[0])
	if err != nil {
		return err
	}

	query := ""
	if len(args) > 1 {
		query = args[1]
	}
	message, _ := cmd.Flags().GetString("message")

	if query == "" && !isInteractive() {
		return fmt.Errorf("transition is required when not running in a terminal")
	}

	return runWithSession(cmd, func(ctx context.Context, s *session) error {
		if query == "" {
			return runTransitionPicker(ctx, s.client, cmd.OutOrStdout(), key)
		}
		return runTransition(ctx, s.client, cmd.OutOrStdout(), key, query, message)
	})
}

func runTransition(ctx context.Context, t tracker, w io.Writer, key, query, message string) error {
	transitions, err := t.ListTransitions(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to list transitions for %s: %w", key, err)
	}

	tr, err := resolveTransition(transitions, query)
	if err != nil {
		return err
	}

	if err := t.ApplyTransition(ctx, key, tr.ID, strings.TrimSpace(message)); err != nil {
		return fmt.Errorf("failed to transition %s: %w", key, err)
	}

	fmt.Fprintf(w, "%s → %s\n", key, tr.ToStatus)
	return nil
}

func runTransitionPicker(ctx context.Context, t tracker, w io.Writer, key string) error {
	issue, err := t.GetIssue(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to get %s: %w", key, err)
	}
	transitions, err := t.ListTransitions(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to list transitions for %s: %w", key, err)
	}

	id, comment, err := wizard.SelectTransition(issue, transitions)
	if err != nil {
		return err
	}

	return runTransition(ctx, t, w, key, id, comment)
}

// resolveTransition finds the transition named by query: an exact ID first,
// then a case-insensitive transition name, then a target status name.
func resolveTransition(transitions []domain.Transition, query string) (domain.Transition, error) {
	query = strings.TrimSpace(query)

	if security.IsTransitionID(query) {
		for _, t := range transitions {
			if t.ID == query {
				return t, nil
			}
		}
	}

	for _, t := range transitions {
		if strings.EqualFold(t.Name, query) {
			return t, nil
		}
	}

	var matches []domain.Transition
	for _, t := range transitions {
		if strings.EqualFold(t.ToStatus, query) {
			matches = append(matches, t)
		}
	}
	if len(matches) == 1 {
		return matches[0], nil
	}

	names := make([]string, 0, len(transitions))
	for _, t := range transitions {
		names = append(names, fmt.Sprintf("%s (%s)", t.Name, t.ID))
	}
	if len(matches) > 1 {
		return domain.Transition{}, fmt.Errorf("transition %q is ambiguous; use an ID: %s", query, strings.Join(names, ", "))
	}
	return domain.Transition{}, fmt.Errorf("no transition %q; available: %s", query, strings.Join(names, ", "))
}
