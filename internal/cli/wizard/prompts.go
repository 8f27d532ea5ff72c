// Package wizard provides interactive prompts for CLI commands.
package wizard

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/andywolf/jiralite/internal/domain"
	"github.com/charmbracelet/huh"
)

// Token sources offered by the init wizard.
const (
	TokenSourceLiteral = "token"
	TokenSourceSecret  = "secret"
)

// InitAnswers holds the values collected by PromptInit.
type InitAnswers struct {
	BaseURL        string
	Email          string
	TokenSource    string
	APIToken       string
	APITokenSecret string
	DefaultJQLDays int
}

// PromptComment asks for a comment body. Blank input is rejected.
func PromptComment(issueKey string) (string, error) {
	var body string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title(fmt.Sprintf("Add comment to %s", issueKey)).
				Value(&body).
				Validate(requireText("comment")),
		),
	)

	if err := form.Run(); err != nil {
		return "", fmt.Errorf("prompt cancelled: %w", err)
	}

	return strings.TrimSpace(body), nil
}

// SelectTransition lets the user pick a transition and enter the comment that
// accompanies it. It returns the transition ID and the trimmed comment.
func SelectTransition(issue domain.Issue, transitions []domain.Transition) (string, string, error) {
	if len(transitions) == 0 {
		return "", "", fmt.Errorf("no transitions available for %s", issue.Key)
	}

	var transitionID, comment string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title(fmt.Sprintf("Change status for %s (current: %s)", issue.Key, issue.Status)).
				Options(transitionOptions(transitions)...).
				Value(&transitionID),

			huh.NewText().
				Title("Comment (required)").
				Value(&comment).
				Validate(requireText("comment")),
		),
	)

	if err := form.Run(); err != nil {
		return "", "", fmt.Errorf("prompt cancelled: %w", err)
	}

	return transitionID, strings.TrimSpace(comment), nil
}

// PromptInit collects connection settings, starting from defaults.
func PromptInit(defaults InitAnswers) (InitAnswers, error) {
	answers := defaults
	if answers.TokenSource == "" {
		answers.TokenSource = TokenSourceLiteral
	}
	days := ""
	if answers.DefaultJQLDays > 0 {
		days = strconv.Itoa(answers.DefaultJQLDays)
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Jira base URL").
				Placeholder("https://your-domain.atlassian.net").
				Value(&answers.BaseURL).
				Validate(validateBaseURL),

			huh.NewInput().
				Title("Email").
				Value(&answers.Email).
				Validate(requireText("email")),

			huh.NewSelect[string]().
				Title("API token source").
				Options(
					huh.NewOption("Store the token in the config file", TokenSourceLiteral),
					huh.NewOption("Read it from GCP Secret Manager", TokenSourceSecret),
				).
				Value(&answers.TokenSource),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("API token").
				EchoMode(huh.EchoModePassword).
				Value(&answers.APIToken).
				Validate(requireText("API token")),
		).WithHideFunc(func() bool { return answers.TokenSource != TokenSourceLiteral }),
		huh.NewGroup(
			huh.NewInput().
				Title("Secret path").
				Placeholder("projects/PROJECT/secrets/jira-token").
				Value(&answers.APITokenSecret).
				Validate(requireText("secret path")),
		).WithHideFunc(func() bool { return answers.TokenSource != TokenSourceSecret }),
		huh.NewGroup(
			huh.NewInput().
				Title("Days of resolved issues to list").
				Placeholder("14").
				Value(&days).
				Validate(func(s string) error {
					_, err := ParseDays(s)
					return err
				}),
		),
	)

	if err := form.Run(); err != nil {
		return InitAnswers{}, fmt.Errorf("prompt cancelled: %w", err)
	}

	n, _ := ParseDays(days)
	answers.DefaultJQLDays = n
	answers.BaseURL = strings.TrimRight(strings.TrimSpace(answers.BaseURL), "/")
	answers.Email = strings.TrimSpace(answers.Email)
	if answers.TokenSource == TokenSourceSecret {
		answers.APIToken = ""
	} else {
		answers.APITokenSecret = ""
	}

	return answers, nil
}

// ConfirmOverwrite asks before replacing an existing config file.
func ConfirmOverwrite(path string) (bool, error) {
	var confirmed bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("%s already exists. Overwrite?", path)).
				Value(&confirmed),
		),
	)

	if err := form.Run(); err != nil {
		return false, err
	}

	return confirmed, nil
}

// ParseDays parses the look-back window. Blank means zero, which callers
// replace with the default.
func ParseDays(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("enter a whole number of days")
	}
	return n, nil
}

func transitionOptions(transitions []domain.Transition) []huh.Option[string] {
	opts := make([]huh.Option[string], 0, len(transitions))
	for _, t := range transitions {
		opts = append(opts, huh.NewOption(fmt.Sprintf("%s → %s", t.Name, t.ToStatus), t.ID))
	}
	return opts
}

func requireText(what string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", what)
		}
		return nil
	}
}

func validateBaseURL(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("base URL is required")
	}
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "https" && u.Scheme != "http") || u.Host == "" {
		return fmt.Errorf("enter a URL such as https://your-domain.atlassian.net")
	}
	return nil
}
