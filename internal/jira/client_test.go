package jira

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/andywolf/jiralite/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(server.URL+"/", "me@example.com", "secret-token")
	if err != nil {
		t.Fatalf("NewClient() error: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestNewClient_Validation(t *testing.T) {
	tests := []struct {
		name     string
		baseURL  string
		email    string
		token    string
		wantKind domain.ErrorKind
	}{
		{"missing base URL", "", "me@example.com", "tok", domain.KindConfiguration},
		{"relative base URL", "example.atlassian.net", "me@example.com", "tok", domain.KindConfiguration},
		{"missing email", "https://example.atlassian.net", "", "tok", domain.KindAuthentication},
		{"missing token", "https://example.atlassian.net", "me@example.com", "", domain.KindAuthentication},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.baseURL, tt.email, tt.token)
			if client != nil {
				t.Error("expected nil client on error")
			}
			var domErr *domain.Error
			if !errors.As(err, &domErr) {
				t.Fatalf("expected *domain.Error, got %v", err)
			}
			if domErr.Kind != tt.wantKind {
				t.Errorf("Kind = %v, want %v", domErr.Kind, tt.wantKind)
			}
		})
	}
}

func TestNewClient_Options(t *testing.T) {
	custom := &http.Client{Timeout: 5 * time.Second}
	client, err := NewClient("https://example.atlassian.net/", "me@example.com", "tok",
		WithHTTPClient(custom),
		WithUserAgent("test-agent"),
	)
	if err != nil {
		t.Fatalf("NewClient() error: %v", err)
	}
	if client.httpClient != custom {
		t.Error("expected custom http client")
	}
	if client.baseURL != "https://example.atlassian.net" {
		t.Errorf("baseURL = %q, want trailing slash trimmed", client.baseURL)
	}
	if client.userAgent != "test-agent" {
		t.Errorf("userAgent = %q", client.userAgent)
	}

	def, _ := NewClient("https://example.atlassian.net", "me@example.com", "tok")
	if def.httpClient.Timeout != DefaultTimeout {
		t.Errorf("default timeout = %v, want %v", def.httpClient.Timeout, DefaultTimeout)
	}
}

func TestClient_Headers(t *testing.T) {
	wantAuth := "Basic " + base64.StdEncoding.EncodeToString([]byte("me@example.com:secret-token"))

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != wantAuth {
			t.Errorf("Authorization = %q, want %q", got, wantAuth)
		}
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Errorf("Accept = %q", got)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("Content-Type = %q", got)
		}
		if r.URL.Path != "/rest/api/3/myself" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		_, _ = io.WriteString(w, `{"accountId":"u-1","displayName":"Me","emailAddress":"me@example.com"}`)
	})

	user, err := client.CurrentUser(context.Background())
	if err != nil {
		t.Fatalf("CurrentUser() error: %v", err)
	}
	if user.AccountID != "u-1" || user.DisplayName != "Me" || user.Email == nil || *user.Email != "me@example.com" {
		t.Errorf("unexpected user: %+v", user)
	}
}

func TestClient_SearchIssues(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if r.URL.Path != "/rest/api/3/search/jql" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("jql") != "project = ABC" {
			t.Errorf("jql = %q", q.Get("jql"))
		}
		if q.Get("fields") != strings.Join(DefaultFields, ",") {
			t.Errorf("fields = %q", q.Get("fields"))
		}
		if q.Get("maxResults") != "100" {
			t.Errorf("maxResults = %q", q.Get("maxResults"))
		}
		_, _ = io.WriteString(w, `{"issues":[
			{"key":"ABC-1","fields":{"summary":"one","status":{"name":"To Do"},"issuetype":{"name":"Task"}}},
			{"key":"ABC-2","fields":{"summary":"two"}}
		]}`)
	})

	issues, err := client.SearchIssues(context.Background(), "project = ABC", nil)
	if err != nil {
		t.Fatalf("SearchIssues() error: %v", err)
	}
	if len(issues) != 2 {
		t.Fatalf("len = %d, want 2", len(issues))
	}
	if issues[0].Key != "ABC-1" || issues[0].Status != "To Do" || issues[0].IssueType.Name != "Task" {
		t.Errorf("unexpected first issue: %+v", issues[0])
	}
	if issues[1].Status != "Unknown" {
		t.Errorf("Status = %q, want Unknown", issues[1].Status)
	}
}

func TestClient_SearchIssues_CustomFields(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("fields"); got != "summary,status" {
			t.Errorf("fields = %q", got)
		}
		_, _ = io.WriteString(w, `{}`)
	})

	issues, err := client.SearchIssues(context.Background(), "x", []string{"summary", "status"})
	if err != nil {
		t.Fatalf("SearchIssues() error: %v", err)
	}
	if issues == nil || len(issues) != 0 {
		t.Errorf("issues = %#v, want empty slice", issues)
	}
}

func TestClient_GetIssue(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rest/api/3/issue/ABC-123" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("fields") == "" {
			t.Error("expected fields query")
		}
		_, _ = io.WriteString(w, fullIssueFixture)
	})

	issue, err := client.GetIssue(context.Background(), "ABC-123")
	if err != nil {
		t.Fatalf("GetIssue() error: %v", err)
	}
	if issue.Key != "ABC-123" || len(issue.Labels) != 2 || issue.FixVersions[0] != "1.0" {
		t.Errorf("unexpected issue: %+v", issue)
	}
}

func TestClient_ErrorClassification(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		call     func(*Client) error
		target   error
		wantMsg  string
		wantCode int
	}{
		{
			name:   "401 on current user",
			status: http.StatusUnauthorized,
			call: func(c *Client) error {
				_, err := c.CurrentUser(context.Background())
				return err
			},
			target:   domain.ErrAuthentication,
			wantMsg:  "Authentication failed. Check email and API token.",
			wantCode: 401,
		},
		{
			name:   "401 on search",
			status: http.StatusUnauthorized,
			call: func(c *Client) error {
				_, err := c.SearchIssues(context.Background(), "x", nil)
				return err
			},
			target:   domain.ErrAuthentication,
			wantMsg:  "Authentication failed. Check email and API token.",
			wantCode: 401,
		},
		{
			name:   "404 on get issue",
			status: http.StatusNotFound,
			body:   `{"errorMessages":["Issue does not exist"]}`,
			call: func(c *Client) error {
				_, err := c.GetIssue(context.Background(), "NOPE-1")
				return err
			},
			target:   domain.ErrNotFound,
			wantMsg:  "Issue not found",
			wantCode: 404,
		},
		{
			name:   "500 on comments",
			status: http.StatusInternalServerError,
			body:   `{"errorMessages":["boom"]}`,
			call: func(c *Client) error {
				_, err := c.ListComments(context.Background(), "ABC-1")
				return err
			},
			target:   domain.ErrAPI,
			wantMsg:  "boom",
			wantCode: 500,
		},
		{
			name:   "200 is not success for transitions post",
			status: http.StatusOK,
			body:   `{}`,
			call: func(c *Client) error {
				return c.ApplyTransition(context.Background(), "ABC-1", "11", "")
			},
			target:   domain.ErrAPI,
			wantMsg:  "200",
			wantCode: 200,
		},
		{
			name:   "400 on add comment",
			status: http.StatusBadRequest,
			body:   `{"errorMessages":["Comment body can not be empty!"]}`,
			call: func(c *Client) error {
				_, err := c.AddComment(context.Background(), "ABC-1", "")
				return err
			},
			target:   domain.ErrAPI,
			wantMsg:  "Comment body can not be empty!",
			wantCode: 400,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			err := tt.call(client)
			if !errors.Is(err, tt.target) {
				t.Fatalf("error = %v, want kind of %v", err, tt.target)
			}
			var domErr *domain.Error
			if !errors.As(err, &domErr) {
				t.Fatalf("expected *domain.Error, got %T", err)
			}
			if domErr.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", domErr.Message, tt.wantMsg)
			}
			if domErr.StatusCode != tt.wantCode {
				t.Errorf("StatusCode = %d, want %d", domErr.StatusCode, tt.wantCode)
			}
		})
	}
}

func TestClient_InvalidJSONResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `<html>login</html>`)
	})

	_, err := client.GetIssue(context.Background(), "ABC-1")
	var domErr *domain.Error
	if !errors.As(err, &domErr) {
		t.Fatalf("expected *domain.Error, got %v", err)
	}
	if domErr.Kind != domain.KindAPI || domErr.Message != "invalid JSON response" || domErr.StatusCode != 200 {
		t.Errorf("unexpected error: %+v", domErr)
	}
}

func TestClient_AddComment(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/rest/api/3/issue/ABC-1/comment" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}

		var payload map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("failed to decode body: %v", err)
		}
		body := payload["body"].(map[string]interface{})
		if body["type"] != "doc" || body["version"] != 1.0 {
			t.Errorf("unexpected envelope: %v", body)
		}
		para := body["content"].([]interface{})[0].(map[string]interface{})
		leaf := para["content"].([]interface{})[0].(map[string]interface{})
		if para["type"] != "paragraph" || leaf["type"] != "text" || leaf["text"] != "Ship it" {
			t.Errorf("unexpected content: %v", para)
		}

		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id":"900","author":{"accountId":"u-1","displayName":"Me"},
			"body":{"type":"doc","content":[{"type":"paragraph","content":[{"type":"text","text":"Ship it"}]}]},
			"created":"2024-05-01T10:00:00.000+0000"}`)
	})

	comment, err := client.AddComment(context.Background(), "ABC-1", "Ship it")
	if err != nil {
		t.Fatalf("AddComment() error: %v", err)
	}
	if comment.ID != "900" || comment.Body != "Ship it" || comment.Author.DisplayName != "Me" {
		t.Errorf("unexpected comment: %+v", comment)
	}
}

func TestClient_Transitions(t *testing.T) {
	var gotBody map[string]interface{}

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rest/api/3/issue/ABC-1/transitions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		switch r.Method {
		case http.MethodGet:
			_, _ = io.WriteString(w, `{"transitions":[{"id":"21","name":"Done","to":{"name":"Closed"}}]}`)
		case http.MethodPost:
			if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
				t.Errorf("failed to decode body: %v", err)
			}
			w.WriteHeader(http.StatusNoContent)
		}
	})

	transitions, err := client.ListTransitions(context.Background(), "ABC-1")
	if err != nil {
		t.Fatalf("ListTransitions() error: %v", err)
	}
	if len(transitions) != 1 || transitions[0].ToStatus != "Closed" {
		t.Fatalf("unexpected transitions: %+v", transitions)
	}

	if err := client.ApplyTransition(context.Background(), "ABC-1", "21", ""); err != nil {
		t.Fatalf("ApplyTransition() error: %v", err)
	}
	if id := gotBody["transition"].(map[string]interface{})["id"]; id != "21" {
		t.Errorf("transition id = %v", id)
	}
	if _, ok := gotBody["update"]; ok {
		t.Error("update should be omitted without a comment")
	}

	if err := client.ApplyTransition(context.Background(), "ABC-1", "21", "closing"); err != nil {
		t.Fatalf("ApplyTransition() with comment error: %v", err)
	}
	update, ok := gotBody["update"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected update block, got %v", gotBody)
	}
	add := update["comment"].([]interface{})[0].(map[string]interface{})["add"].(map[string]interface{})
	doc := add["body"].(map[string]interface{})
	if doc["type"] != "doc" {
		t.Errorf("comment body type = %v", doc["type"])
	}
}

func TestClient_Changelog(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rest/api/3/issue/ABC-1" || r.URL.Query().Get("expand") != "changelog" {
			t.Errorf("unexpected request: %s", r.URL.String())
		}
		_, _ = io.WriteString(w, `{"key":"ABC-1","changelog":{"histories":[
			{"author":{"accountId":"u-1","displayName":"Alice"},"created":"2024-03-01T10:00:00.000+0000",
			 "items":[{"field":"status","fromString":"To Do","toString":"Done"},{"field":"resolution","toString":"Fixed"}]}
		]}}`)
	})

	events, err := client.Changelog(context.Background(), "ABC-1")
	if err != nil {
		t.Fatalf("Changelog() error: %v", err)
	}
	if len(events) != 2 || events[0].Field != "status" || events[1].Field != "resolution" {
		t.Errorf("unexpected events: %+v", events)
	}
}

func TestClient_PathEscapesKey(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.EscapedPath() != "/rest/api/3/issue/A%2FB/comment" {
			t.Errorf("unexpected escaped path: %s", r.URL.EscapedPath())
		}
		_, _ = io.WriteString(w, `{"comments":[]}`)
	})

	if _, err := client.ListComments(context.Background(), "A/B"); err != nil {
		t.Fatalf("ListComments() error: %v", err)
	}
}

func TestClient_Cancellation(t *testing.T) {
	release := make(chan struct{})
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.CurrentUser(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

type recordingLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *recordingLogger) Debugf(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

func TestClient_WithLogger(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"transitions":[]}`)
	}))
	defer server.Close()

	logger := &recordingLogger{}
	client, err := NewClient(server.URL, "me@example.com", "secret-token", WithLogger(logger))
	if err != nil {
		t.Fatalf("NewClient() error: %v", err)
	}
	defer client.Close()

	if _, err := client.ListTransitions(context.Background(), "ABC-1"); err != nil {
		t.Fatalf("ListTransitions() error: %v", err)
	}

	if len(logger.lines) != 1 {
		t.Fatalf("expected one log line, got %v", logger.lines)
	}
	line := logger.lines[0]
	if !strings.HasPrefix(line, "GET /rest/api/3/issue/ABC-1/transitions -> 200") {
		t.Errorf("unexpected log line: %q", line)
	}
	if strings.Contains(line, "secret-token") {
		t.Error("log line must not contain credentials")
	}
}

func TestClient_ConcurrentCalls(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"comments":[{"id":"1","created":"2024-01-01T00:00:00Z"}]}`)
	})

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := client.ListComments(context.Background(), "ABC-1")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Errorf("concurrent call failed: %v", err)
		}
	}
}
