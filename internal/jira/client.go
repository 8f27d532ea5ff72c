// Package jira talks to the tracker's REST API and maps its responses into
// domain records.
package jira

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/andywolf/jiralite/internal/adf"
	"github.com/andywolf/jiralite/internal/domain"
	"github.com/andywolf/jiralite/internal/version"
)

const (
	// DefaultTimeout applies to every request unless overridden.
	DefaultTimeout = 30 * time.Second

	// MaxResults bounds a search to a single page.
	MaxResults = 100

	apiPrefix = "/rest/api/3"
)

// DefaultFields is the field set requested for searches and issue lookups.
var DefaultFields = []string{
	"key",
	"summary",
	"issuetype",
	"status",
	"assignee",
	"reporter",
	"description",
	"priority",
	"labels",
	"fixVersions",
	"components",
	"created",
	"updated",
}

// Logger receives one line per request. Implementations must not retain args.
type Logger interface {
	Debugf(format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...interface{}) {}

// Client is an authenticated connection to one tracker site. It holds no
// state between calls beyond its HTTP client, so it may be shared by
// concurrent callers. Call Close when done with it.
type Client struct {
	baseURL    string
	authHeader string
	userAgent  string
	httpClient *http.Client
	logger     Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithLogger sets the sink for request tracing. The default discards.
func WithLogger(l Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// NewClient creates a client for baseURL authenticating as email with the
// given API token.
func NewClient(baseURL, email, apiToken string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, domain.NewConfigurationError("base URL is required")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, domain.NewConfigurationError("invalid base URL %q: %v", baseURL, err)
	}
	if email == "" {
		return nil, domain.NewAuthenticationError("email is required")
	}
	if apiToken == "" {
		return nil, domain.NewAuthenticationError("API token is required")
	}

	creds := base64.StdEncoding.EncodeToString([]byte(email + ":" + apiToken))

	c := &Client{
		baseURL:    baseURL,
		authHeader: "Basic " + creds,
		userAgent:  version.UserAgent(),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     nopLogger{},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Close releases idle connections held by the client.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// CurrentUser returns the authenticated user.
func (c *Client) CurrentUser(ctx context.Context) (domain.User, error) {
	v, err := c.getJSON(ctx, apiPrefix+"/myself", nil)
	if err != nil {
		return domain.User{}, err
	}
	if u := ParseUser(v); u != nil {
		return *u, nil
	}
	return domain.UnknownUser(), nil
}

// SearchIssues runs a JQL query and returns at most MaxResults issues. A nil
// fields slice requests DefaultFields.
func (c *Client) SearchIssues(ctx context.Context, jql string, fields []string) ([]domain.Issue, error) {
	if fields == nil {
		fields = DefaultFields
	}

	q := url.Values{}
	q.Set("jql", jql)
	q.Set("fields", strings.Join(fields, ","))
	q.Set("maxResults", strconv.Itoa(MaxResults))

	v, err := c.getJSON(ctx, apiPrefix+"/search/jql", q)
	if err != nil {
		return nil, err
	}

	items := asObject(v).list("issues")
	issues := make([]domain.Issue, 0, len(items))
	for _, item := range items {
		issues = append(issues, ParseIssue(item))
	}
	return issues, nil
}

// GetIssue fetches one issue by key.
func (c *Client) GetIssue(ctx context.Context, key string) (domain.Issue, error) {
	q := url.Values{}
	q.Set("fields", strings.Join(DefaultFields, ","))

	v, err := c.getJSON(ctx, issuePath(key), q)
	if err != nil {
		return domain.Issue{}, err
	}
	return ParseIssue(v), nil
}

// ListComments returns the comments of an issue in source order.
func (c *Client) ListComments(ctx context.Context, key string) ([]domain.Comment, error) {
	v, err := c.getJSON(ctx, issuePath(key)+"/comment", nil)
	if err != nil {
		return nil, err
	}

	items := asObject(v).list("comments")
	comments := make([]domain.Comment, 0, len(items))
	for _, item := range items {
		comments = append(comments, ParseComment(item))
	}
	return comments, nil
}

type commentRequest struct {
	Body adf.Document `json:"body"`
}

// AddComment posts text as a new comment and returns the created comment.
func (c *Client) AddComment(ctx context.Context, key, text string) (domain.Comment, error) {
	req := commentRequest{Body: adf.NewDocument(text)}

	status, data, err := c.do(ctx, http.MethodPost, issuePath(key)+"/comment", nil, req, http.StatusOK, http.StatusCreated)
	if err != nil {
		return domain.Comment{}, err
	}

	v, err := decodeBody(status, data)
	if err != nil {
		return domain.Comment{}, err
	}
	return ParseComment(v), nil
}

// ListTransitions returns the transitions available from the issue's
// current status.
func (c *Client) ListTransitions(ctx context.Context, key string) ([]domain.Transition, error) {
	v, err := c.getJSON(ctx, issuePath(key)+"/transitions", nil)
	if err != nil {
		return nil, err
	}
	return ParseTransitions(v), nil
}

type transitionRequest struct {
	Transition transitionRef     `json:"transition"`
	Update     *transitionUpdate `json:"update,omitempty"`
}

type transitionRef struct {
	ID string `json:"id"`
}

type transitionUpdate struct {
	Comment []commentOp `json:"comment"`
}

type commentOp struct {
	Add commentRequest `json:"add"`
}

// ApplyTransition moves an issue through the given transition. A non-empty
// comment is recorded together with the transition.
func (c *Client) ApplyTransition(ctx context.Context, key, transitionID, comment string) error {
	req := transitionRequest{Transition: transitionRef{ID: transitionID}}
	if comment != "" {
		req.Update = &transitionUpdate{
			Comment: []commentOp{{Add: commentRequest{Body: adf.NewDocument(comment)}}},
		}
	}

	_, _, err := c.do(ctx, http.MethodPost, issuePath(key)+"/transitions", nil, req, http.StatusNoContent)
	return err
}

// Changelog returns the issue's field changes, one event per changed field.
func (c *Client) Changelog(ctx context.Context, key string) ([]domain.ChangeEvent, error) {
	q := url.Values{}
	q.Set("expand", "changelog")

	v, err := c.getJSON(ctx, issuePath(key), q)
	if err != nil {
		return nil, err
	}
	return ParseChangelog(v), nil
}

func issuePath(key string) string {
	return apiPrefix + "/issue/" + url.PathEscape(key)
}

func (c *Client) getJSON(ctx context.Context, path string, q url.Values) (interface{}, error) {
	status, data, err := c.do(ctx, http.MethodGet, path, q, nil, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return decodeBody(status, data)
}

// do issues one request. Any status outside expect is classified.
func (c *Client) do(ctx context.Context, method, path string, q url.Values, body interface{}, expect ...int) (int, []byte, error) {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", c.authHeader)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debugf("%s %s failed after %s: %v", method, path, time.Since(start), err)
		return 0, nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response body: %w", err)
	}

	c.logger.Debugf("%s %s -> %d in %s", method, path, resp.StatusCode, time.Since(start))

	for _, code := range expect {
		if resp.StatusCode == code {
			return resp.StatusCode, data, nil
		}
	}
	return resp.StatusCode, data, Classify(resp.StatusCode, data)
}

func decodeBody(status int, data []byte) (interface{}, error) {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, &domain.Error{
			Kind:       domain.KindAPI,
			Message:    "invalid JSON response",
			StatusCode: status,
			Err:        err,
		}
	}
	return v, nil
}
