package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/andywolf/jiralite/internal/domain"
	"github.com/andywolf/jiralite/internal/history"
	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

// Output formats accepted by NewPrinter.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// DefaultWidth is used when the terminal width is unknown.
const DefaultWidth = 100

const timeLayout = "2006-01-02 15:04:05"

// Printer writes records in one output format.
type Printer struct {
	w            io.Writer
	format       string
	width        int
	showAssignee bool

	header lipgloss.Style
	label  lipgloss.Style
	muted  lipgloss.Style
}

// PrinterOption configures a Printer.
type PrinterOption func(*Printer)

// WithWidth sets the line width for table output.
func WithWidth(width int) PrinterOption {
	return func(p *Printer) {
		if width > 0 {
			p.width = width
		}
	}
}

// WithAssignee toggles the assignee column in issue lists.
func WithAssignee(show bool) PrinterOption {
	return func(p *Printer) {
		p.showAssignee = show
	}
}

// NewPrinter returns a Printer for format. Styling is decided by w: ANSI
// sequences are only emitted when w is a color terminal.
func NewPrinter(w io.Writer, format string, opts ...PrinterOption) (*Printer, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	switch format {
	case "":
		format = FormatTable
	case FormatTable, FormatJSON, FormatYAML:
	default:
		return nil, domain.NewConfigurationError("invalid output format: %s (must be table, json, or yaml)", format)
	}

	r := lipgloss.NewRenderer(w)
	p := &Printer{
		w:            w,
		format:       format,
		width:        DefaultWidth,
		showAssignee: true,
		header:       r.NewStyle().Bold(true),
		label:        r.NewStyle().Bold(true).Foreground(lipgloss.Color("8")),
		muted:        r.NewStyle().Italic(true).Foreground(lipgloss.Color("8")),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p, nil
}

// Issues prints an issue list.
func (p *Printer) Issues(issues []domain.Issue) error {
	if p.format != FormatTable {
		return p.encode(issues)
	}

	if len(issues) == 0 {
		_, err := fmt.Fprintln(p.w, "No issues found.")
		return err
	}

	for _, issue := range issues {
		if _, err := fmt.Fprintln(p.w, FormatIssueLine(issue, p.showAssignee, p.width)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(p.w, "\n%d issue(s)\n", len(issues))
	return err
}

// Issue prints one issue with all of its fields. browseURL is omitted from
// the output when empty.
func (p *Printer) Issue(issue domain.Issue, browseURL string) error {
	if p.format != FormatTable {
		return p.encode(issue)
	}

	var b strings.Builder
	b.WriteString(p.header.Render(fmt.Sprintf("%s %s: %s", IssueIcon(issue.IssueType.Name), issue.Key, issue.Summary)))
	b.WriteString("\n\n")

	p.field(&b, "Type", issue.IssueType.Name)
	p.field(&b, "Status", issue.Status)
	p.field(&b, "Assignee", FormatAssignee(issue.Assignee))
	if issue.Reporter != nil {
		p.field(&b, "Reporter", issue.Reporter.DisplayName)
	}
	if issue.Priority != nil {
		p.field(&b, "Priority", *issue.Priority)
	}
	if len(issue.FixVersions) > 0 {
		p.field(&b, "Fix Versions", strings.Join(issue.FixVersions, ", "))
	}
	if len(issue.Labels) > 0 {
		p.field(&b, "Labels", strings.Join(issue.Labels, ", "))
	}
	if len(issue.Components) > 0 {
		p.field(&b, "Components", strings.Join(issue.Components, ", "))
	}
	if issue.Created != nil {
		p.field(&b, "Created", issue.Created.Format(timeLayout))
	}
	if issue.Updated != nil {
		p.field(&b, "Updated", issue.Updated.Format(timeLayout))
	}
	if browseURL != "" {
		p.field(&b, "URL", browseURL)
	}

	desc := "No description"
	if issue.Description != nil {
		desc = *issue.Description
	}
	b.WriteString("\n")
	b.WriteString(p.label.Render("Description"))
	b.WriteString("\n")
	b.WriteString(desc)
	b.WriteString("\n")

	_, err := io.WriteString(p.w, b.String())
	return err
}

// Comments prints comments oldest first.
func (p *Printer) Comments(comments []domain.Comment) error {
	if p.format != FormatTable {
		return p.encode(comments)
	}

	if len(comments) == 0 {
		_, err := fmt.Fprintln(p.w, "No comments.")
		return err
	}

	var b strings.Builder
	for i, c := range comments {
		if i > 0 {
			b.WriteString("\n")
		}
		p.commentBlock(&b, c)
	}
	_, err := io.WriteString(p.w, b.String())
	return err
}

// Comment prints a single comment, typically the one just added.
func (p *Printer) Comment(c domain.Comment) error {
	if p.format != FormatTable {
		return p.encode(c)
	}

	var b strings.Builder
	p.commentBlock(&b, c)
	_, err := io.WriteString(p.w, b.String())
	return err
}

// Transitions prints the transitions available for an issue.
func (p *Printer) Transitions(transitions []domain.Transition) error {
	if p.format != FormatTable {
		return p.encode(transitions)
	}

	if len(transitions) == 0 {
		_, err := fmt.Fprintln(p.w, "No transitions available.")
		return err
	}

	if _, err := fmt.Fprintln(p.w, p.header.Render(fmt.Sprintf("%-8s %-25s %s", "ID", "NAME", "TO STATUS"))); err != nil {
		return err
	}
	for _, t := range transitions {
		if _, err := fmt.Fprintf(p.w, "%-8s %-25s → %s\n", t.ID, t.Name, t.ToStatus); err != nil {
			return err
		}
	}
	return nil
}

// History prints merged comments and change events.
func (p *Printer) History(key string, entries []history.Entry) error {
	if p.format != FormatTable {
		return p.encode(entries)
	}

	var b strings.Builder
	b.WriteString(p.header.Render("History for " + key))
	b.WriteString("\n\n")

	if len(entries) == 0 {
		b.WriteString("No history available\n")
		_, err := io.WriteString(p.w, b.String())
		return err
	}

	for i, e := range entries {
		if i > 0 {
			b.WriteString("\n")
		}
		switch {
		case e.Comment != nil:
			p.commentBlock(&b, *e.Comment)
		case e.Change != nil:
			p.changeBlock(&b, *e.Change)
		}
	}

	_, err := io.WriteString(p.w, b.String())
	return err
}

// User prints the account details.
func (p *Printer) User(u domain.User) error {
	if p.format != FormatTable {
		return p.encode(u)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Account ID: %s\n", u.AccountID)
	fmt.Fprintf(&b, "Display Name: %s\n", u.DisplayName)
	if u.Email != nil {
		fmt.Fprintf(&b, "Email: %s\n", *u.Email)
	}
	_, err := io.WriteString(p.w, b.String())
	return err
}

func (p *Printer) field(b *strings.Builder, name, value string) {
	b.WriteString(p.label.Render(fmt.Sprintf("%-13s", name)))
	b.WriteString(" ")
	b.WriteString(value)
	b.WriteString("\n")
}

func (p *Printer) commentBlock(b *strings.Builder, c domain.Comment) {
	b.WriteString(p.muted.Render(fmt.Sprintf("💬 %s · %s", c.Author.DisplayName, formatTime(c.Created))))
	b.WriteString("\n")
	b.WriteString(c.Body)
	b.WriteString("\n")
}

func (p *Printer) changeBlock(b *strings.Builder, ev domain.ChangeEvent) {
	b.WriteString(p.muted.Render(fmt.Sprintf("📝 %s · %s", ev.Author.DisplayName, formatTime(ev.Timestamp))))
	b.WriteString("\n")
	fmt.Fprintf(b, "%s: %s → %s\n", ev.Field, ValueOrEmpty(ev.From), ValueOrEmpty(ev.To))
}

func (p *Printer) encode(v interface{}) error {
	switch p.format {
	case FormatJSON:
		enc := json.NewEncoder(p.w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(p.w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported format %q", p.format)
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(timeLayout)
}
