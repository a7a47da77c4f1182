// Package ghl is a minimal client for the GoHighLevel v2 REST API, covering
// the contact and calendar-event surface this bridge needs.
package ghl

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/clinicsync/nubimed-ghl-bridge/pkg/logging"
)

const (
	defaultTimeout = 20 * time.Second

	// apiVersion is the fixed Version header GoHighLevel requires on every
	// v2 API call.
	apiVersion = "2021-07-28"
)

// Client is a GoHighLevel REST client scoped to one location.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
	locationID string
	logger     *logging.Logger
}

// NewClient creates a GoHighLevel client. baseURL must not end with a slash.
func NewClient(baseURL, token, locationID string, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		token:      token,
		locationID: locationID,
		logger:     logger,
	}
}

// LocationID returns the location this client operates on.
func (c *Client) LocationID() string {
	return c.locationID
}

// APIError is a non-2xx response from GoHighLevel.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	msg := e.Body
	if len(msg) > 300 {
		msg = msg[:300]
	}
	return fmt.Sprintf("ghl: status %d: %s", e.Status, msg)
}

// IsNotFound reports whether err is a GoHighLevel 404 response.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// ConfigError reports a missing credential detected at call time.
type ConfigError struct {
	Missing string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("ghl: missing %s", e.Missing)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	if strings.TrimSpace(c.token) == "" {
		return &ConfigError{Missing: "api token"}
	}
	if strings.TrimSpace(c.locationID) == "" {
		return &ConfigError{Missing: "location id"}
	}

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("ghl: marshal request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("ghl: create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Version", apiVersion)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ghl: http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("ghl: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{Status: resp.StatusCode, Body: string(respBody)}
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("ghl: unmarshal response: %w", err)
		}
	}
	return nil
}
