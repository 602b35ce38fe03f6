package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	v1 "github.com/mcp2everything/PID-agent/internal/api/rest/v1"
	"github.com/mcp2everything/PID-agent/internal/domain/device"
)

// Client is a thin REST client for the pid-agent API, used by the terminal
// dashboard.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a Client for the given server base URL, e.g.
// "http://localhost:8000". token may be empty when the server runs without
// authentication.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/") + v1.BasePath,
		token:      token,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Health fetches the unauthenticated health endpoint.
func (c *Client) Health(ctx context.Context) (*v1.HealthResponse, error) {
	var out v1.HealthResponse
	if err := c.do(ctx, http.MethodGet, "/health", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Ports lists the selectable serial ports.
func (c *Client) Ports(ctx context.Context) (*v1.PortsResponse, error) {
	var out v1.PortsResponse
	if err := c.do(ctx, http.MethodGet, "/device/ports", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Connect opens the device link on the server.
func (c *Client) Connect(ctx context.Context, req v1.ConnectRequest) (*v1.ConnectionResponse, error) {
	var out v1.ConnectionResponse
	if err := c.do(ctx, http.MethodPost, "/device/connect", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Disconnect closes the device link on the server.
func (c *Client) Disconnect(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/device/disconnect", nil, nil)
}

// Status fetches the current controller snapshot.
func (c *Client) Status(ctx context.Context) (*device.Status, error) {
	var out device.Status
	if err := c.do(ctx, http.MethodGet, "/device/status", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetHeating switches heating on or off for a channel.
func (c *Client) SetHeating(ctx context.Context, channel int, heating bool) error {
	body := map[string]bool{"heating": heating}
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/device/channels/%d/control", channel), body, nil)
}

// SetPID pushes new PID parameters to a channel.
func (c *Client) SetPID(ctx context.Context, channel int, req v1.SetPIDRequest) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/device/channels/%d/pid", channel), req, nil)
}

// Analyze runs the tuning analysis for one channel.
func (c *Client) Analyze(ctx context.Context, channel int, hours float64) (*v1.AnalysisResponse, error) {
	var out v1.AnalysisResponse
	path := fmt.Sprintf("/optimization/channels/%d/analyze?hours=%g", channel, hours)
	if err := c.do(ctx, http.MethodPost, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		var errorResponse v1.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errorResponse); err == nil && errorResponse.Message != "" {
			return fmt.Errorf("server returned %d: %s", resp.StatusCode, errorResponse.Message)
		}
		return fmt.Errorf("server returned %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
