package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/andywolf/jiralite/internal/cli/wizard"
	"github.com/andywolf/jiralite/internal/config"
	"github.com/andywolf/jiralite/internal/render"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the configuration file",
	Long: `Create ~/.config/jiralite/config.yaml.

With --base-url, --email and either --token or --token-secret the file is
written directly; otherwise an interactive wizard asks for the values.

Examples:
  jiralite init
  jiralite init --base-url https://acme.atlassian.net --email me@acme.com \
    --token-secret projects/acme/secrets/jira-token`,
	Args: cobra.NoArgs,
	RunE: initConfigFile,
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().String("base-url", "", "Jira site URL")
	initCmd.Flags().String("email", "", "account email")
	initCmd.Flags().String("token", "", "API token")
	initCmd.Flags().String("token-secret", "", "GCP Secret Manager path holding the API token")
	initCmd.Flags().Int("days", 14, "days of resolved issues to list")
	initCmd.Flags().String("path", "", "where to write the file (default ~/.config/jiralite/config.yaml)")
	initCmd.Flags().Bool("force", false, "overwrite an existing file")
}

func initConfigFile(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("path")
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to locate home directory: %w", err)
		}
		path = config.DefaultPath(home)
	}

	answers := wizard.InitAnswers{}
	answers.BaseURL, _ = cmd.Flags().GetString("base-url")
	answers.Email, _ = cmd.Flags().GetString("email")
	answers.APIToken, _ = cmd.Flags().GetString("token")
	answers.APITokenSecret, _ = cmd.Flags().GetString("token-secret")
	answers.DefaultJQLDays, _ = cmd.Flags().GetInt("days")
	if answers.APITokenSecret != "" {
		answers.TokenSource = wizard.TokenSourceSecret
	}

	force, _ := cmd.Flags().GetBool("force")
	complete := answers.BaseURL != "" && answers.Email != "" && (answers.APIToken != "" || answers.APITokenSecret != "")
	interactive := !complete && isInteractive()

	if _, err := os.Stat(path); err == nil && !force {
		if !interactive {
			return fmt.Errorf("config file already exists at %s (use --force to overwrite)", path)
		}
		ok, err := wizard.ConfirmOverwrite(path)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}

	if !complete {
		if !interactive {
			return fmt.Errorf("--base-url, --email and --token or --token-secret are required when not running in a terminal")
		}
		var err error
		if answers, err = wizard.PromptInit(answers); err != nil {
			return err
		}
	}

	cfg := configFromAnswers(answers)
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := writeConfig(path, cfg); err != nil {
		return err
	}

	printNextSteps(cmd.OutOrStdout(), path)
	return nil
}

func configFromAnswers(a wizard.InitAnswers) config.Config {
	cfg := config.Config{
		Jira: config.JiraConfig{
			BaseURL:        strings.TrimRight(strings.TrimSpace(a.BaseURL), "/"),
			Email:          strings.TrimSpace(a.Email),
			APIToken:       a.APIToken,
			APITokenSecret: a.APITokenSecret,
			DefaultJQLDays: a.DefaultJQLDays,
			Timeout:        "30s",
		},
		Output: config.OutputConfig{Format: render.FormatTable},
	}
	if cfg.Jira.DefaultJQLDays == 0 {
		cfg.Jira.DefaultJQLDays = 14
	}
	return cfg
}

// writeConfig writes cfg as YAML, readable only by the owner since it may
// hold the API token.
func writeConfig(path string, cfg config.Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := `# jiralite configuration
# Environment variables override any key, e.g. JIRALITE_JIRA_API_TOKEN.

`

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, append([]byte(header), data...), 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func printNextSteps(w io.Writer, path string) {
	fmt.Fprintf(w, "Created %s\n\n", path)
	fmt.Fprintln(w, "Next steps:")
	fmt.Fprintln(w, "  1. Run 'jiralite whoami' to check the credentials")
	fmt.Fprintln(w, "  2. Run 'jiralite list' to see your issues")
}
