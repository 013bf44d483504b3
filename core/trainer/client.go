package trainer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"trainloop/core/models"
)

// Client talks to the external training service that owns pipeline execution.
// This side never mutates pipeline state directly; it submits requests and
// reads back what the trainer reports.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a trainer client against the given base URL
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// SubmitRequest is what the trainer needs to start a pipeline
type SubmitRequest struct {
	Name          string                `json:"name"`
	UserIntent    string                `json:"user_intent"`
	UseCase       models.UseCase        `json:"use_case"`
	TargetMetrics *models.TargetMetrics `json:"target_metrics,omitempty"`
}

// ListJobs fetches the current pipeline list. One call per refresh tick;
// retries are the caller's concern.
func (c *Client) ListJobs(ctx context.Context) ([]models.Job, error) {
	var resp struct {
		Pipelines []models.Job `json:"pipelines"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/pipelines", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Pipelines, nil
}

// GetJob fetches a single pipeline by ID
func (c *Client) GetJob(ctx context.Context, id string) (*models.Job, error) {
	var job models.Job
	if err := c.do(ctx, http.MethodGet, "/v1/pipelines/"+id, nil, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// SubmitJob asks the trainer to create and start a pipeline
func (c *Client) SubmitJob(ctx context.Context, req SubmitRequest) (*models.Job, error) {
	var job models.Job
	if err := c.do(ctx, http.MethodPost, "/v1/pipelines", req, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// DeployJob asks the trainer to deploy a completed pipeline's model
func (c *Client) DeployJob(ctx context.Context, id string) (*models.DeploymentInfo, error) {
	var info models.DeploymentInfo
	if err := c.do(ctx, http.MethodPost, "/v1/pipelines/"+id+"/deploy", nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("calling trainer: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("trainer returned %d: %s", resp.StatusCode, string(data))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding trainer response: %w", err)
	}
	return nil
}
