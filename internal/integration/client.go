// Package integration is a Go client of the clustering HTTP API.
package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-sod/kmeans/internal/httputil"
	"github.com/go-sod/kmeans/internal/kmeans"
)

// APIError is returned for every non-2xx answer.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("kmeans api: %d %s", e.StatusCode, e.Message)
}

// NewClient returns a client of the server listening on addr, which may be
// host:port or a full base URL.
func NewClient(addr string, cfg httputil.HTTPClientConfig) (*Client, error) {
	client, err := httputil.NewClientFromConfig(cfg, false)
	if err != nil {
		return nil, err
	}
	client.Transport = httputil.NewPrefixRoundTripper(addr, client.Transport)
	return &Client{client: client}, nil
}

type Client struct {
	client *http.Client
}

func (c *Client) KMeans(ctx context.Context, r kmeans.Request) (*kmeans.Response, error) {
	b, err := json.Marshal(&r)
	if err != nil {
		return nil, fmt.Errorf("unable marshal kmeans request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "/api/kmeans", bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("create new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var resp kmeans.Response
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Runs(ctx context.Context, limit int) ([]kmeans.RunSummary, error) {
	path := "/api/runs"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, fmt.Errorf("create new request: %w", err)
	}

	var resp kmeans.RunsResponse
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}
	return resp.Runs, nil
}

func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "/health", nil)
	if err != nil {
		return fmt.Errorf("create new request: %w", err)
	}
	return c.do(req, nil)
}

func (c *Client) do(req *http.Request, v interface{}) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var errResp httputil.ErrorResponse
		if json.Unmarshal(body, &errResp) == nil && errResp.Error != "" {
			apiErr.Message = errResp.Error
		}
		return apiErr
	}

	if v == nil {
		return nil
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("unable unmarshal response: %w", err)
	}
	return nil
}
