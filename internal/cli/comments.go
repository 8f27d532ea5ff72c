package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/andywolf/jiralite/internal/cli/wizard"
	"github.com/andywolf/jiralite/internal/render"
	"github.com/andywolf/jiralite/internal/security"
	"github.com/spf13/cobra"
)

var commentsCmd = &cobra.Command{
	Use:   "comments <issue-key>",
	Short: "List comments on an issue",
	Args:  cobra.ExactArgs(1),
	RunE:  listComments,
}

var commentCmd = &cobra.Command{
	Use:   "comment <issue-key>",
	Short: "Add a comment to an issue",
	Long: `Add a plain-text comment to an issue.

The text comes from --message, from stdin when it is "-", or from an
interactive prompt.

Examples:
  jiralite comment ABC-123 -m "Deployed to staging"
  git log -1 --format=%B | jiralite comment ABC-123 -m -
  jiralite comment ABC-123`,
	Args: cobra.ExactArgs(1),
	RunE: addComment,
}

func init() {
	rootCmd.AddCommand(commentsCmd)
	rootCmd.AddCommand(commentCmd)

	commentCmd.Flags().StringP("message", "m", "", `comment text, or "-" to read stdin`)
}

func listComments(cmd *cobra.Command, args []string) error {
	key, err := security.NormalizeIssueKey(args[0])
	if err != nil {
		return err
	}

	return runWithSession(cmd, func(ctx context.Context, s *session) error {
		return runComments(ctx, s.client, s.printer, key)
	})
}

func runComments(ctx context.Context, t tracker, p *render.Printer, key string) error {
	comments, err := t.ListComments(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to list comments for %s: %w", key, err)
	}
	return p.Comments(comments)
}

func addComment(cmd *cobra.Command, args []string) error {
	key, err := security.NormalizeIssueKey(args[0])
	if err != nil {
		return err
	}

	message, _ := cmd.Flags().GetString("message")
	text, err := commentText(cmd, message, key)
	if err != nil {
		return err
	}

	return runWithSession(cmd, func(ctx context.Context, s *session) error {
		return runAddComment(ctx, s.client, s.printer, key, text)
	})
}

func runAddComment(ctx context.Context, t tracker, p *render.Printer, key, text string) error {
	comment, err := t.AddComment(ctx, key, text)
	if err != nil {
		return fmt.Errorf("failed to add comment to %s: %w", key, err)
	}
	return p.Comment(comment)
}

// commentText resolves the comment body from the flag, stdin, or a prompt.
func commentText(cmd *cobra.Command, message, key string) (string, error) {
	switch {
	case message == "-":
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read comment from stdin: %w", err)
		}
		message = string(data)
	case message == "" && isInteractive():
		return wizard.PromptComment(key)
	}

	message = strings.TrimSpace(message)
	if message == "" {
		return "", fmt.Errorf("comment text is required (use --message)")
	}
	return message, nil
}
