package salesforce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/andbeder/PurpleFox/internal/branding"
	"github.com/andbeder/PurpleFox/internal/chart"
)

// DefaultAPIVersion is used when no API version is configured.
const DefaultAPIVersion = "60.0"

// Client is a minimal CRM Analytics REST client.
type Client struct {
	instanceURL string
	apiVersion  string
	token       string
	httpClient  *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client (useful for testing).
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithAPIVersion sets the REST API version, e.g. "60.0".
func WithAPIVersion(v string) Option {
	return func(cl *Client) {
		if v != "" {
			cl.apiVersion = v
		}
	}
}

// New creates a Client for the org at instanceURL authenticating with token.
func New(instanceURL, token string, opts ...Option) (*Client, error) {
	if instanceURL == "" {
		return nil, fmt.Errorf("%w: instance URL is not set (SF_INSTANCE_URL)", chart.ErrInputNotFound)
	}
	c := &Client{
		instanceURL: strings.TrimRight(instanceURL, "/"),
		apiVersion:  DefaultAPIVersion,
		token:       token,
		httpClient:  http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	v, err := NormalizeAPIVersion(c.apiVersion)
	if err != nil {
		return nil, err
	}
	c.apiVersion = v
	return c, nil
}

// DashboardURL returns the REST resource of a dashboard.
func (c *Client) DashboardURL(name string) string {
	return fmt.Sprintf("%s/services/data/v%s/wave/dashboards/%s", c.instanceURL, c.apiVersion, url.PathEscape(name))
}

// FetchDashboard retrieves the raw dashboard definition. Error bodies are
// reported as chart.ErrExternalCall with the server's message.
func (c *Client) FetchDashboard(ctx context.Context, name string) ([]byte, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: dashboard API name is required", chart.ErrInputNotFound)
	}
	body, err := c.get(ctx, c.DashboardURL(name))
	if err != nil {
		return nil, err
	}
	if msg, failed := errorMessage(body); failed {
		return nil, fmt.Errorf("%w: dashboard retrieval failed: %s", chart.ErrExternalCall, msg)
	}
	return body, nil
}

// SaveDashboard fetches a dashboard and writes it to <dir>/<name>.json.
func (c *Client) SaveDashboard(ctx context.Context, name, dir string) (string, error) {
	body, err := c.FetchDashboard(ctx, name)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating directory %s: %w", dir, err)
	}
	path := filepath.Join(dir, name+".json")
	if err := os.WriteFile(path, body, 0644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

type dashboardList struct {
	Dashboards []struct {
		Name  string `json:"name"`
		Label string `json:"label"`
	} `json:"dashboards"`
}

// LookupAPIName resolves a dashboard label to its API name.
func (c *Client) LookupAPIName(ctx context.Context, label string) (string, error) {
	body, err := c.get(ctx, fmt.Sprintf("%s/services/data/v%s/wave/dashboards", c.instanceURL, c.apiVersion))
	if err != nil {
		return "", err
	}
	var list dashboardList
	if err := json.Unmarshal(body, &list); err != nil {
		return "", fmt.Errorf("%w: parsing dashboard list: %v", chart.ErrExternalCall, err)
	}
	for _, d := range list.Dashboards {
		if d.Label == label {
			return d.Name, nil
		}
	}
	return "", fmt.Errorf("%w: dashboard with label %q not found", chart.ErrInputNotFound, label)
}

func (c *Client) get(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", branding.CLIName())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: GET %s: %v", chart.ErrExternalCall, target, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response body: %v", chart.ErrExternalCall, err)
	}
	if resp.StatusCode != http.StatusOK {
		msg, ok := errorMessage(body)
		if !ok {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, fmt.Errorf("%w: GET %s returned status %d: %s", chart.ErrExternalCall, target, resp.StatusCode, msg)
	}
	return body, nil
}

type apiError struct {
	ErrorCode string `json:"errorCode"`
	Message   string `json:"message"`
}

// errorMessage reports whether body is a REST error payload, either a single
// object or a list whose first element carries an errorCode.
func errorMessage(body []byte) (string, bool) {
	trimmed := bytes.TrimSpace(body)
	var e apiError
	switch {
	case len(trimmed) > 0 && trimmed[0] == '[':
		var list []apiError
		if json.Unmarshal(trimmed, &list) != nil || len(list) == 0 {
			return "", false
		}
		e = list[0]
	case json.Unmarshal(trimmed, &e) != nil:
		return "", false
	}
	if e.ErrorCode == "" {
		return "", false
	}
	if e.Message == "" {
		e.Message = "Unknown error"
	}
	return e.Message, true
}
