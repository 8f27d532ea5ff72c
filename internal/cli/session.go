package cli

import (
	"context"
	"io"
	"os"

	"github.com/andywolf/jiralite/internal/cloud/gcp"
	"github.com/andywolf/jiralite/internal/config"
	"github.com/andywolf/jiralite/internal/domain"
	"github.com/andywolf/jiralite/internal/jira"
	"github.com/andywolf/jiralite/internal/logging"
	"github.com/andywolf/jiralite/internal/render"
	"github.com/andywolf/jiralite/internal/security"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// tracker is the subset of *jira.Client the commands use.
type tracker interface {
	CurrentUser(ctx context.Context) (domain.User, error)
	SearchIssues(ctx context.Context, jql string, fields []string) ([]domain.Issue, error)
	GetIssue(ctx context.Context, key string) (domain.Issue, error)
	ListComments(ctx context.Context, key string) ([]domain.Comment, error)
	AddComment(ctx context.Context, key, text string) (domain.Comment, error)
	ListTransitions(ctx context.Context, key string) ([]domain.Transition, error)
	ApplyTransition(ctx context.Context, key, transitionID, comment string) error
	Changelog(ctx context.Context, key string) ([]domain.ChangeEvent, error)
}

// session bundles what one command invocation needs. Close releases it.
type session struct {
	cfg     *config.Config
	client  *jira.Client
	printer *render.Printer
	logger  *logging.SecureLogger
}

func newSession(cmd *cobra.Command, printerOpts ...render.PrinterOption) (*session, error) {
	if cfgErr != nil {
		return nil, cfgErr
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		if cfgMissing != nil {
			return nil, cfgMissing
		}
		return nil, err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if cfg.NeedsSecret() {
		sm, err := gcp.NewSecretManagerClient(ctx, "")
		if err != nil {
			return nil, domain.NewAuthenticationError("failed to reach secret manager: %v", err)
		}
		err = cfg.ResolveSecrets(ctx, sm)
		_ = sm.Close()
		if err != nil {
			return nil, err
		}
	}

	sanitizer := security.NewLogSanitizer()
	sanitizer.AddSecret(cfg.Jira.APIToken)

	severity := logging.SeverityWarning
	if viper.GetBool("debug") {
		severity = logging.SeverityDebug
	}
	logger := logging.NewSecure(sanitizer,
		logging.WithMinSeverity(severity),
		logging.WithLabels(map[string]string{"command": cmd.Name()}),
	)

	timeout, err := cfg.TimeoutDuration()
	if err != nil {
		return nil, err
	}

	client, err := jira.NewClient(cfg.Jira.BaseURL, cfg.Jira.Email, cfg.Jira.APIToken,
		jira.WithTimeout(timeout),
		jira.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	out := cmd.OutOrStdout()
	opts := append([]render.PrinterOption{render.WithWidth(terminalWidth(out))}, printerOpts...)
	printer, err := render.NewPrinter(out, cfg.Output.Format, opts...)
	if err != nil {
		_ = client.Close()
		return nil, err
	}

	logger.Debugf("session started for %s as %s", cfg.Jira.BaseURL, cfg.Jira.Email)

	return &session{
		cfg:     cfg,
		client:  client,
		printer: printer,
		logger:  logger,
	}, nil
}

// Close releases idle connections and flushes the logger.
func (s *session) Close() {
	_ = s.client.Close()
	_ = s.logger.Close()
}

// runWithSession opens a session, hands it to fn and always closes it.
func runWithSession(cmd *cobra.Command, fn func(ctx context.Context, s *session) error, printerOpts ...render.PrinterOption) error {
	s, err := newSession(cmd, printerOpts...)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return fn(ctx, s)
}

// terminalWidth returns the width of w when it is a terminal.
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(f.Fd()) {
		return render.DefaultWidth
	}
	width, _, err := term.GetSize(f.Fd())
	if err != nil || width <= 0 {
		return render.DefaultWidth
	}
	return width
}

// isInteractive reports whether prompts can be shown.
func isInteractive() bool {
	return term.IsTerminal(os.Stdin.Fd()) && term.IsTerminal(os.Stdout.Fd())
}
