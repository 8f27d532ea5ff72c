package cli

import (
	"context"
	"fmt"
	"sync"

	"github.com/andywolf/jiralite/internal/domain"
	"github.com/andywolf/jiralite/internal/history"
	"github.com/andywolf/jiralite/internal/render"
	"github.com/andywolf/jiralite/internal/security"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history <issue-key>",
	Short: "Show comments and field changes in order",
	Long: `Show an issue's comments and changelog merged into one timeline,
oldest first.

Example:
  jiralite history ABC-123`,
	Args: cobra.ExactArgs(1),
	RunE: showHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
}

func showHistory(cmd *cobra.Command, args []string) error {
	key, err := security.NormalizeIssueKey(args[0])
	if err != nil {
		return err
	}

	return runWithSession(cmd, func(ctx context.Context, s *session) error {
		return runHistory(ctx, s.client, s.printer, key)
	})
}

func runHistory(ctx context.Context, t tracker, p *render.Printer, key string) error {
	entries, err := fetchHistory(ctx, t, key)
	if err != nil {
		return err
	}
	return p.History(key, entries)
}

// fetchHistory loads comments and the changelog in parallel and merges them.
// The first failure cancels the other request and is the one returned.
func fetchHistory(ctx context.Context, t tracker, key string) ([]history.Entry, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
		comments []domain.Comment
		events   []domain.ChangeEvent
	)

	fail := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		if firstErr == nil {
			firstErr = err
			cancel()
		}
	}

	wg.Add(2)
	go func() {
		defer wg.Done()
		var err error
		if comments, err = t.ListComments(ctx, key); err != nil {
			fail(fmt.Errorf("failed to list comments for %s: %w", key, err))
		}
	}()
	go func() {
		defer wg.Done()
		var err error
		if events, err = t.Changelog(ctx, key); err != nil {
			fail(fmt.Errorf("failed to get changelog for %s: %w", key, err))
		}
	}()
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}

	return history.Merge(comments, events), nil
}
