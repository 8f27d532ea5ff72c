package jira

import (
	"errors"
	"testing"

	"github.com/andywolf/jiralite/internal/domain"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		body       string
		wantKind   domain.ErrorKind
		wantMsg    string
	}{
		{
			name:       "unauthorized",
			statusCode: 401,
			body:       `{"errorMessages":["ignored"]}`,
			wantKind:   domain.KindAuthentication,
			wantMsg:    "Authentication failed. Check email and API token.",
		},
		{
			name:       "not found",
			statusCode: 404,
			body:       `{"errorMessages":["Issue does not exist or you do not have permission to see it."]}`,
			wantKind:   domain.KindNotFound,
			wantMsg:    "Issue not found",
		},
		{
			name:       "server error with messages",
			statusCode: 500,
			body:       `{"errorMessages":["boom"]}`,
			wantKind:   domain.KindAPI,
			wantMsg:    "boom",
		},
		{
			name:       "multiple messages are joined",
			statusCode: 400,
			body:       `{"errorMessages":["first","second"],"errors":{}}`,
			wantKind:   domain.KindAPI,
			wantMsg:    "first; second",
		},
		{
			name:       "json without messages",
			statusCode: 400,
			body:       `{"errors":{"jql":"bad"}}`,
			wantKind:   domain.KindAPI,
			wantMsg:    "400",
		},
		{
			name:       "empty message list",
			statusCode: 403,
			body:       `{"errorMessages":[]}`,
			wantKind:   domain.KindAPI,
			wantMsg:    "403",
		},
		{
			name:       "html body",
			statusCode: 502,
			body:       `<html>Bad Gateway</html>`,
			wantKind:   domain.KindAPI,
			wantMsg:    "HTTP 502",
		},
		{
			name:       "empty body",
			statusCode: 503,
			body:       ``,
			wantKind:   domain.KindAPI,
			wantMsg:    "HTTP 503",
		},
		{
			name:       "json array body",
			statusCode: 500,
			body:       `["x"]`,
			wantKind:   domain.KindAPI,
			wantMsg:    "500",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Classify(tt.statusCode, []byte(tt.body))
			if err == nil {
				t.Fatal("Classify() returned nil")
			}
			if err.Kind != tt.wantKind {
				t.Errorf("Kind = %v, want %v", err.Kind, tt.wantKind)
			}
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.StatusCode != tt.statusCode {
				t.Errorf("StatusCode = %d, want %d", err.StatusCode, tt.statusCode)
			}
		})
	}
}

func TestClassify_ErrorsIs(t *testing.T) {
	var err error = Classify(500, []byte(`{"errorMessages":["boom"]}`))
	if !errors.Is(err, domain.ErrAPI) {
		t.Errorf("expected %v to match ErrAPI", err)
	}

	var domErr *domain.Error
	if !errors.As(err, &domErr) || domErr.StatusCode != 500 {
		t.Errorf("errors.As() = %+v", domErr)
	}
}
