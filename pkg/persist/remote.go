package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// SaveResult is the service's confirmation of a stored document. PublicURL
// and AdminURL are resolved to absolute form before the result is handed
// out, since the service may answer with site-relative paths.
type SaveResult struct {
	SiteName  string `json:"site_name"`
	PublicURL string `json:"public_url"`
	AdminURL  string `json:"admin_url"`
}

type saveResponse struct {
	OK        bool   `json:"ok"`
	Error     string `json:"error"`
	SiteName  string `json:"site_name"`
	PublicURL string `json:"public_url"`
	AdminURL  string `json:"admin_url"`
}

// ClientOption customises the remote client.
type ClientOption func(*Client)

// WithHTTPClient swaps the transport used for save requests.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// Client posts form documents to the hosted save endpoint. The endpoint URL
// always carries the ajax=1 marker so the service answers JSON instead of an
// HTML redirect; the marker is appended here once so callers never think
// about it.
type Client struct {
	endpoint *url.URL
	http     *http.Client
}

// NewClient validates the endpoint URL and prepares a client for it.
func NewClient(endpoint string, options ...ClientOption) (*Client, error) {
	trimmed := strings.TrimSpace(endpoint)
	if trimmed == "" {
		return nil, errors.New("persist: endpoint is required")
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("persist: parse endpoint: %w", err)
	}
	query := parsed.Query()
	if query.Get("ajax") != "1" {
		query.Set("ajax", "1")
		parsed.RawQuery = query.Encode()
	}

	c := &Client{
		endpoint: parsed,
		http:     &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c, nil
}

// Endpoint returns the effective endpoint URL including the ajax marker.
func (c *Client) Endpoint() string {
	return c.endpoint.String()
}

// Save posts the form-encoded document and decodes the confirmation. Any
// non-2xx status, non-JSON body, or ok=false payload is a failure; the
// server-provided message is preferred, with the HTTP status as fallback.
func (c *Client) Save(ctx context.Context, form url.Values) (SaveResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint.String(), strings.NewReader(form.Encode()))
	if err != nil {
		return SaveResult{}, fmt.Errorf("persist: build save request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return SaveResult{}, fmt.Errorf("persist: save request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return SaveResult{}, fmt.Errorf("persist: read save response: %w", err)
	}

	var decoded saveResponse
	if jsonErr := json.Unmarshal(body, &decoded); jsonErr != nil {
		decoded = saveResponse{}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !decoded.OK {
		msg := strings.TrimSpace(decoded.Error)
		if msg == "" {
			msg = "HTTP " + resp.Status
		}
		return SaveResult{}, fmt.Errorf("persist: save rejected: %s", msg)
	}

	return SaveResult{
		SiteName:  decoded.SiteName,
		PublicURL: c.absolute(decoded.PublicURL),
		AdminURL:  c.absolute(decoded.AdminURL),
	}, nil
}

func (c *Client) absolute(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	ref, err := url.Parse(trimmed)
	if err != nil {
		return trimmed
	}
	return c.endpoint.ResolveReference(ref).String()
}
