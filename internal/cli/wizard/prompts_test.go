package wizard

import (
	"testing"

	"github.com/andywolf/jiralite/internal/domain"
)

func TestParseDays(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"", 0, false},
		{"  ", 0, false},
		{"14", 14, false},
		{" 30 ", 30, false},
		{"0", 0, false},
		{"-1", 0, true},
		{"two", 0, true},
		{"1.5", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDays(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDays(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseDays(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidateBaseURL(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"https://example.atlassian.net", false},
		{"http://localhost:8080", false},
		{"", true},
		{"example.atlassian.net", true},
		{"ftp://example.com", true},
		{"https://", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := validateBaseURL(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateBaseURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestRequireText(t *testing.T) {
	check := requireText("comment")
	if err := check(" \n\t"); err == nil {
		t.Error("expected error for blank input")
	} else if err.Error() != "comment is required" {
		t.Errorf("error = %q", err.Error())
	}
	if err := check("done"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestTransitionOptions(t *testing.T) {
	opts := transitionOptions([]domain.Transition{
		{ID: "11", Name: "Start Progress", ToStatus: "In Progress"},
		{ID: "31", Name: "Done", ToStatus: "Done"},
	})

	if len(opts) != 2 {
		t.Fatalf("expected 2 options, got %d", len(opts))
	}
	if opts[0].Key != "Start Progress → In Progress" || opts[0].Value != "11" {
		t.Errorf("option 0 = %q/%q", opts[0].Key, opts[0].Value)
	}
	if opts[1].Value != "31" {
		t.Errorf("option 1 value = %q", opts[1].Value)
	}
}

func TestSelectTransition_NoTransitions(t *testing.T) {
	_, _, err := SelectTransition(domain.Issue{Key: "ABC-1"}, nil)
	if err == nil {
		t.Fatal("expected error when no transitions are available")
	}
}
