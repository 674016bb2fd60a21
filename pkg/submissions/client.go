package submissions

import (
	"bytes"
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

// ClientOption customises the admin client.
type ClientOption func(*Client)

// WithHTTPClient swaps the transport used for admin requests.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// Client talks to one site's admin API. Review actions post JSON; listing
// and gallery are plain GETs. Export endpoints stream files, so the client
// only derives their URLs for the host to open.
type Client struct {
	base *url.URL
	site string
	http *http.Client
}

// NewClient binds a client to the service base URL and a site name.
func NewClient(base, site string, options ...ClientOption) (*Client, error) {
	trimmedSite := strings.TrimSpace(site)
	if trimmedSite == "" {
		return nil, errors.New("submissions: site name is required")
	}
	parsed, err := url.Parse(strings.TrimSpace(base))
	if err != nil {
		return nil, fmt.Errorf("submissions: parse base url: %w", err)
	}

	c := &Client{
		base: parsed,
		site: trimmedSite,
		http: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c, nil
}

// Site returns the bound site name.
func (c *Client) Site() string {
	return c.site
}

// List fetches submissions, optionally filtered by a search query.
func (c *Client) List(ctx context.Context, query string) ([]Record, error) {
	endpoint := c.adminURL("api/submissions")
	if query != "" {
		endpoint += "?q=" + url.QueryEscape(query)
	}

	var decoded struct {
		OK    bool     `json:"ok"`
		Error string   `json:"error"`
		Items []Record `json:"items"`
	}
	if err := c.getJSON(ctx, endpoint, &decoded); err != nil {
		return nil, err
	}
	if !decoded.OK {
		return nil, failure("list submissions", decoded.Error)
	}
	return decoded.Items, nil
}

// Review records a verdict and an optional reviewer note on one submission.
func (c *Client) Review(ctx context.Context, id int64, status Status, comment string) error {
	payload := map[string]any{
		"id":             id,
		"status":         string(status),
		"review_comment": comment,
	}
	return c.postJSON(ctx, c.adminURL("api/review"), "review submission", payload)
}

// Delete removes one submission permanently.
func (c *Client) Delete(ctx context.Context, id int64) error {
	return c.postJSON(ctx, c.adminURL("api/delete"), "delete submission", map[string]any{"id": id})
}

// SendMail asks the service to send the notification mail for one
// submission.
func (c *Client) SendMail(ctx context.Context, id int64) error {
	return c.postJSON(ctx, c.adminURL("api/send_mail"), "send mail", map[string]any{"id": id})
}

// Gallery lists the uploaded images collected by this site's form.
func (c *Client) Gallery(ctx context.Context) ([]GalleryItem, error) {
	var decoded struct {
		OK    bool          `json:"ok"`
		Error string        `json:"error"`
		Items []GalleryItem `json:"items"`
	}
	if err := c.getJSON(ctx, c.adminURL("api/gallery"), &decoded); err != nil {
		return nil, err
	}
	if decoded.Items == nil {
		return nil, failure("load gallery", decoded.Error)
	}
	return decoded.Items, nil
}

// ExportWordURL is the per-submission Word download location.
func (c *Client) ExportWordURL(id int64) string {
	return c.adminURL(fmt.Sprintf("export_word/%d", id))
}

// ExportExcelURL is the per-submission Excel download location.
func (c *Client) ExportExcelURL(id int64) string {
	return c.adminURL(fmt.Sprintf("export_excel/%d", id))
}

// ExportAllExcelURL is the whole-table Excel download location.
func (c *Client) ExportAllExcelURL() string {
	return c.adminURL("api/export_all_excel")
}

func (c *Client) adminURL(suffix string) string {
	ref := &url.URL{Path: "/site/" + c.site + "/admin/" + suffix}
	return c.base.ResolveReference(ref).String()
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	if ctx == nil {
		ctx = context.Background()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("submissions: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	return c.do(req, out)
}

func (c *Client) postJSON(ctx context.Context, endpoint, action string, payload any) error {
	if ctx == nil {
		ctx = context.Background()
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("submissions: encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("submissions: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	var decoded struct {
		OK    bool   `json:"ok"`
		Error string `json:"error"`
	}
	if err := c.do(req, &decoded); err != nil {
		return err
	}
	if !decoded.OK {
		return failure(action, decoded.Error)
	}
	return nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("submissions: request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("submissions: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := serverMessage(body)
		if msg == "" {
			msg = "HTTP " + resp.Status
		}
		return fmt.Errorf("submissions: request failed: %s", msg)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("submissions: decode response: %w", err)
	}
	return nil
}

func serverMessage(body []byte) string {
	var decoded struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &decoded); err != nil {
		return ""
	}
	return strings.TrimSpace(decoded.Error)
}

func failure(action, serverErr string) error {
	msg := strings.TrimSpace(serverErr)
	if msg == "" {
		msg = "service refused"
	}
	return fmt.Errorf("submissions: %s: %s", action, msg)
}
