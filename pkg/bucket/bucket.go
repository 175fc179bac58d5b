// Package bucket manages the Cloud Storage bucket used for batch
// processing artifacts: the staging area for batch LLM jobs and pipeline
// exports.
package bucket

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// bucketSuffix names the batch-processing bucket after the project.
const bucketSuffix = "-batch-processing"

// defaultLocation keeps the bucket colocated with the batch LLM endpoint.
const defaultLocation = "us-central1"

// Client wraps Cloud Storage operations for the pipeline's bucket.
type Client struct {
	storage   *storage.Client
	projectID string
	logger    *slog.Logger
}

// NewClient authenticates with a service account key file. The project id
// comes from the key itself so no extra configuration is needed.
func NewClient(ctx context.Context, keyPath string, logger *slog.Logger) (*Client, error) {
	projectID, err := projectIDFromKey(keyPath)
	if err != nil {
		return nil, err
	}

	sc, err := storage.NewClient(ctx, option.WithCredentialsFile(keyPath))
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	return &Client{storage: sc, projectID: projectID, logger: logger}, nil
}

// BucketName returns the project's batch-processing bucket name.
func (c *Client) BucketName() string {
	return c.projectID + bucketSuffix
}

// Ensure creates the batch-processing bucket if it does not exist yet and
// returns its name. Existing buckets are left untouched.
func (c *Client) Ensure(ctx context.Context) (string, error) {
	name := c.BucketName()
	handle := c.storage.Bucket(name)

	_, err := handle.Attrs(ctx)
	switch err {
	case nil:
		c.logger.Info("bucket already exists", "bucket", name)
		return name, nil
	case storage.ErrBucketNotExist:
		// Fall through and create it.
	default:
		return "", fmt.Errorf("failed to check bucket %s: %w", name, err)
	}

	attrs := &storage.BucketAttrs{Location: defaultLocation}
	if err := handle.Create(ctx, c.projectID, attrs); err != nil {
		return "", fmt.Errorf("failed to create bucket %s: %w", name, err)
	}
	c.logger.Info("bucket created", "bucket", name, "location", defaultLocation)
	return name, nil
}

// List returns the names of every bucket visible to the service account.
// An authorization error here usually means the account is missing the
// Storage Admin role.
func (c *Client) List(ctx context.Context) ([]string, error) {
	var names []string
	it := c.storage.Buckets(ctx, c.projectID)
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list buckets: %w", err)
		}
		names = append(names, attrs.Name)
	}
	return names, nil
}

// Close releases the underlying storage client.
func (c *Client) Close() error {
	return c.storage.Close()
}

// projectIDFromKey reads the project id out of a service account key file.
func projectIDFromKey(keyPath string) (string, error) {
	data, err := os.ReadFile(keyPath)
	if err != nil {
		return "", fmt.Errorf("failed to read service account key: %w", err)
	}

	var key struct {
		ProjectID string `json:"project_id"`
	}
	if err := json.Unmarshal(data, &key); err != nil {
		return "", fmt.Errorf("invalid service account key: %w", err)
	}
	if key.ProjectID == "" {
		return "", fmt.Errorf("service account key has no project_id")
	}
	return key.ProjectID, nil
}
