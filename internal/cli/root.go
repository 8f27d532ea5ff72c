package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/andywolf/jiralite/internal/config"
	"github.com/andywolf/jiralite/internal/version"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string

	// cfgErr is reported by commands that need a config, not by ones
	// such as init and version that run without one.
	cfgErr error

	// cfgMissing is only reported when the environment alone does not
	// hold a valid config.
	cfgMissing error
)

var rootCmd = &cobra.Command{
	Use:   "jiralite",
	Short: "jiralite - a fast terminal client for Jira Cloud",
	Long: `jiralite lists, inspects and updates Jira Cloud issues from the terminal.

Configuration is read from the first file found among --config,
$JIRALITE_CONFIG, ~/.config/jiralite/config.{toml,yaml} and
~/.jiralite.{toml,yaml}. Any key can be overridden from the environment,
e.g. JIRALITE_JIRA_API_TOKEN.

Example:
  jiralite list
  jiralite show ABC-123
  jiralite transition ABC-123 Done -m "Shipped in 1.4"`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext runs the root command with ctx as the parent of every
// request.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	// Set version for --version flag
	rootCmd.Version = version.Short()
	rootCmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.config/jiralite/config.toml)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging to stderr")
	rootCmd.PersistentFlags().StringP("output", "o", "", "output format: table, json or yaml")
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("output.format", rootCmd.PersistentFlags().Lookup("output"))
}

func initConfig() {
	v := viper.GetViper()
	config.BindEnv(v)

	path := cfgFile
	if path == "" {
		found, err := config.FindFile()
		if err != nil {
			cfgMissing = err
			return
		}
		path = found
	}

	if err := config.ReadFile(v, path); err != nil {
		cfgErr = err
		return
	}

	if viper.GetBool("debug") {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
