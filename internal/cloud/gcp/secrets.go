// Package gcp resolves credentials stored in GCP Secret Manager.
package gcp

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"strings"
	"time"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"google.golang.org/api/option"
)

// fetchTimeout bounds a single secret access.
const fetchTimeout = 10 * time.Second

// SecretFetcher fetches a secret payload by path.
type SecretFetcher interface {
	FetchSecret(ctx context.Context, secretPath string) (string, error)
	Close() error
}

// SecretManagerClient wraps the GCP Secret Manager client
type SecretManagerClient struct {
	client    *secretmanager.Client
	projectID string
}

// NewSecretManagerClient creates a Secret Manager client. projectID is only
// needed for bare secret names; when empty it is looked up from the
// environment, then from the metadata server.
func NewSecretManagerClient(ctx context.Context, projectID string, opts ...option.ClientOption) (*SecretManagerClient, error) {
	client, err := secretmanager.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create secret manager client: %w", err)
	}

	if projectID == "" {
		// Not fatal: fully qualified paths do not need it.
		projectID, _ = getProjectID(ctx)
	}

	return &SecretManagerClient{
		client:    client,
		projectID: projectID,
	}, nil
}

// getProjectID retrieves the GCP project ID from environment variable or metadata server
func getProjectID(ctx context.Context) (string, error) {
	for _, env := range []string{"GOOGLE_CLOUD_PROJECT", "GCP_PROJECT", "GCLOUD_PROJECT"} {
		if projectID := os.Getenv(env); projectID != "" {
			return projectID, nil
		}
	}

	return getProjectIDFromMetadata(ctx)
}

// getProjectIDFromMetadata fetches the project ID from GCP metadata server
func getProjectIDFromMetadata(ctx context.Context) (string, error) {
	const metadataURL = "http://metadata.google.internal/computeMetadata/v1/project/project-id"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, metadataURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create metadata request: %w", err)
	}
	req.Header.Set("Metadata-Flavor", "Google")

	client := &http.Client{Timeout: 2 * time.Second}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch project ID from metadata server: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("metadata server returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read metadata response: %w", err)
	}

	projectID := strings.TrimSpace(string(body))
	if projectID == "" {
		return "", fmt.Errorf("empty project ID from metadata server")
	}

	return projectID, nil
}

// FetchSecret retrieves a secret from GCP Secret Manager.
// secretPath can be in one of the following formats:
//   - projects/PROJECT_ID/secrets/SECRET_NAME/versions/VERSION
//   - projects/PROJECT_ID/secrets/SECRET_NAME (defaults to latest)
//   - SECRET_NAME (requires a project ID)
//
// Surrounding whitespace, typically a trailing newline, is trimmed.
func (c *SecretManagerClient) FetchSecret(ctx context.Context, secretPath string) (string, error) {
	name, err := c.normalizeSecretPath(secretPath)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	result, err := c.client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: name,
	})
	if err != nil {
		return "", fmt.Errorf("failed to access secret version: %w", err)
	}

	return strings.TrimSpace(string(result.GetPayload().GetData())), nil
}

// normalizeSecretPath expands secretPath to a full version resource name.
func (c *SecretManagerClient) normalizeSecretPath(secretPath string) (string, error) {
	secretPath = strings.TrimSpace(secretPath)
	if secretPath == "" {
		return "", fmt.Errorf("secret path cannot be empty")
	}

	if strings.HasPrefix(secretPath, "projects/") && strings.Contains(secretPath, "/versions/") {
		return secretPath, nil
	}

	if strings.HasPrefix(secretPath, "projects/") && strings.Contains(secretPath, "/secrets/") {
		return secretPath + "/versions/latest", nil
	}

	if c.projectID == "" {
		return "", fmt.Errorf("project ID is required for secret %q", secretPath)
	}

	secretName := path.Base(secretPath)
	return fmt.Sprintf("projects/%s/secrets/%s/versions/latest", c.projectID, secretName), nil
}

// Close closes the Secret Manager client
func (c *SecretManagerClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}
