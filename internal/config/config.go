package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/andywolf/jiralite/internal/domain"
	"github.com/andywolf/jiralite/internal/render"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g.
// JIRALITE_JIRA_API_TOKEN.
const EnvPrefix = "JIRALITE"

// EnvConfigPath names an explicit config file.
const EnvConfigPath = "JIRALITE_CONFIG"

const (
	defaultJQLDays = 14
	defaultTimeout = "30s"
	defaultFormat  = render.FormatTable
)

// Config represents the full jiralite configuration
type Config struct {
	Jira   JiraConfig   `mapstructure:"jira" yaml:"jira"`
	Output OutputConfig `mapstructure:"output" yaml:"output,omitempty"`
}

// JiraConfig contains the site and credentials
type JiraConfig struct {
	BaseURL        string `mapstructure:"base_url" yaml:"base_url"`
	Email          string `mapstructure:"email" yaml:"email"`
	APIToken       string `mapstructure:"api_token" yaml:"api_token,omitempty"`
	APITokenSecret string `mapstructure:"api_token_secret" yaml:"api_token_secret,omitempty"`
	DefaultJQLDays int    `mapstructure:"default_jql_days" yaml:"default_jql_days,omitempty"`
	Timeout        string `mapstructure:"timeout" yaml:"timeout,omitempty"`
}

// OutputConfig controls how results are printed
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format,omitempty"`
}

// SecretFetcher resolves a secret path to its payload.
type SecretFetcher interface {
	FetchSecret(ctx context.Context, secretPath string) (string, error)
}

// Load loads configuration from the file and environment already read into
// viper.
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom unmarshals v and applies defaults.
func LoadFrom(v *viper.Viper) (*Config, error) {
	cfg := &Config{}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, domain.NewConfigurationError("failed to unmarshal config: %v", err)
	}

	applyDefaults(cfg)

	return cfg, nil
}

// BindEnv wires JIRALITE_* environment overrides into v. Keys must be bound
// explicitly for Unmarshal to see them when no file sets them.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for _, key := range []string{
		"jira.base_url",
		"jira.email",
		"jira.api_token",
		"jira.api_token_secret",
		"jira.default_jql_days",
		"jira.timeout",
		"output.format",
	} {
		_ = v.BindEnv(key)
	}
}

// applyDefaults sets default values for unset fields
func applyDefaults(cfg *Config) {
	cfg.Jira.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.Jira.BaseURL), "/")
	cfg.Jira.Email = strings.TrimSpace(cfg.Jira.Email)

	if cfg.Jira.DefaultJQLDays == 0 {
		cfg.Jira.DefaultJQLDays = defaultJQLDays
	}

	if cfg.Jira.Timeout == "" {
		cfg.Jira.Timeout = defaultTimeout
	}

	if cfg.Output.Format == "" {
		cfg.Output.Format = defaultFormat
	}
	cfg.Output.Format = strings.ToLower(cfg.Output.Format)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Jira.BaseURL == "" {
		return domain.NewConfigurationError("missing 'base_url' in [jira] section")
	}

	if !strings.HasPrefix(c.Jira.BaseURL, "https://") && !strings.HasPrefix(c.Jira.BaseURL, "http://") {
		return domain.NewConfigurationError("invalid base_url %q (must start with https://)", c.Jira.BaseURL)
	}

	if c.Jira.Email == "" {
		return domain.NewAuthenticationError("missing 'email' in [jira] section")
	}

	if c.Jira.APIToken == "" && c.Jira.APITokenSecret == "" {
		return domain.NewAuthenticationError("missing 'api_token' in [jira] section")
	}

	if c.Jira.DefaultJQLDays < 0 {
		return domain.NewConfigurationError("invalid default_jql_days: %d", c.Jira.DefaultJQLDays)
	}

	if _, err := c.TimeoutDuration(); err != nil {
		return err
	}

	switch c.Output.Format {
	case render.FormatTable, render.FormatJSON, render.FormatYAML:
	default:
		return domain.NewConfigurationError("invalid output format: %s (must be table, json, or yaml)", c.Output.Format)
	}

	return nil
}

// TimeoutDuration parses the configured request timeout.
func (c *Config) TimeoutDuration() (time.Duration, error) {
	d, err := time.ParseDuration(c.Jira.Timeout)
	if err != nil {
		return 0, domain.NewConfigurationError("invalid timeout: %v", err)
	}
	if d <= 0 {
		return 0, domain.NewConfigurationError("invalid timeout: %s (must be positive)", c.Jira.Timeout)
	}
	return d, nil
}

// NeedsSecret reports whether the API token must come from a secret store.
func (c *Config) NeedsSecret() bool {
	return c.Jira.APIToken == "" && c.Jira.APITokenSecret != ""
}

// ResolveSecrets fills APIToken from APITokenSecret when no literal token is
// configured.
func (c *Config) ResolveSecrets(ctx context.Context, fetcher SecretFetcher) error {
	if !c.NeedsSecret() {
		return nil
	}

	token, err := fetcher.FetchSecret(ctx, c.Jira.APITokenSecret)
	if err != nil {
		return domain.NewAuthenticationError("failed to fetch api_token_secret: %v", err)
	}
	if token == "" {
		return domain.NewAuthenticationError("api_token_secret %s is empty", c.Jira.APITokenSecret)
	}

	c.Jira.APIToken = token
	return nil
}

// SearchPaths lists candidate config files in lookup order. An explicit path
// from the environment comes first.
func SearchPaths(home string) []string {
	var paths []string
	if p := os.Getenv(EnvConfigPath); p != "" {
		paths = append(paths, p)
	}

	dir := filepath.Join(home, ".config", "jiralite")
	return append(paths,
		filepath.Join(dir, "config.toml"),
		filepath.Join(dir, "config.yaml"),
		filepath.Join(home, ".jiralite.toml"),
		filepath.Join(home, ".jiralite.yaml"),
	)
}

// FindFile returns the first existing file from SearchPaths.
func FindFile() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", domain.NewConfigurationError("failed to locate home directory: %v", err)
	}

	for _, p := range SearchPaths(home) {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", domain.NewConfigurationError(
		"configuration file not found: %s\n"+
			"Create it with:\n"+
			"  [jira]\n"+
			"  base_url = 'https://your-domain.atlassian.net'\n"+
			"  email = 'your-email@example.com'\n"+
			"  api_token = 'your-api-token'\n"+
			"or run 'jiralite init'",
		DefaultPath(home),
	)
}

// DefaultPath is where init writes a new config.
func DefaultPath(home string) string {
	return filepath.Join(home, ".config", "jiralite", "config.yaml")
}

// ReadFile reads path into v. The format follows the extension.
func ReadFile(v *viper.Viper, path string) error {
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return domain.NewConfigurationError("failed to parse config file %s: %v", path, err)
	}
	return nil
}
