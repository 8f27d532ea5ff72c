package cli

import (
	"context"
	"fmt"

	"github.com/andywolf/jiralite/internal/render"
	"github.com/spf13/cobra"
)

var whoamiCmd = &cobra.Command{
	Use:     "whoami",
	Aliases: []string{"me"},
	Short:   "Print the authenticated user",
	Long: `Print the account the configured credentials belong to. Useful to check
that the configuration works.`,
	Args: cobra.NoArgs,
	RunE: whoami,
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}

func whoami(cmd *cobra.Command, args []string) error {
	return runWithSession(cmd, func(ctx context.Context, s *session) error {
		return runWhoami(ctx, s.client, s.printer)
	})
}

func runWhoami(ctx context.Context, t tracker, p *render.Printer) error {
	user, err := t.CurrentUser(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current user: %w", err)
	}
	return p.User(user)
}
