// Package apexdocs looks up short descriptions of ApexCharts options on the
// public documentation site. The dashboard extractor uses it to annotate
// newly seen style-metadata keys in the style ledger.
package apexdocs

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/andbeder/PurpleFox/internal/chart"
	"golang.org/x/net/html"
)

// DefaultBaseURL is the root of the ApexCharts options documentation.
const DefaultBaseURL = "https://apexcharts.com/docs/options"

// Placeholder is the description used when a page has no usable heading or
// the lookup fails.
const Placeholder = "ApexCharts option"

// Client fetches option pages and extracts their headings.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client (useful for testing).
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithBaseURL overrides the documentation root.
func WithBaseURL(base string) Option {
	return func(cl *Client) {
		if base != "" {
			cl.baseURL = base
		}
	}
}

// New creates a Client with the given options.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Describe returns the page heading for an option key: the first <h1>, else
// the <title>, else Placeholder. Transport and HTTP status failures are
// reported as chart.ErrExternalCall.
func (c *Client) Describe(ctx context.Context, key string) (string, error) {
	pageURL := strings.TrimRight(c.baseURL, "/") + "/" + url.PathEscape(key) + "/"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "text/html")
	req.Header.Set("User-Agent", "purplefox-docs")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: fetching %s: %v", chart.ErrExternalCall, pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: %s returned status %d", chart.ErrExternalCall, pageURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
	if err != nil {
		return "", fmt.Errorf("%w: reading %s: %v", chart.ErrExternalCall, pageURL, err)
	}

	return headingOf(string(body)), nil
}

// headingOf returns the text of the first h1 element, falling back to the
// document title.
func headingOf(page string) string {
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return Placeholder
	}
	if h1 := firstElement(doc, "h1"); h1 != nil {
		if text := strings.TrimSpace(textContent(h1)); text != "" {
			return text
		}
	}
	if title := firstElement(doc, "title"); title != nil {
		if text := strings.TrimSpace(textContent(title)); text != "" {
			return text
		}
	}
	return Placeholder
}

func firstElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := firstElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(textContent(c))
	}
	return sb.String()
}
