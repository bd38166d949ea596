package items

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Service is the remote item API as seen by the state actions.
// *Client implements it; tests substitute fakes.
type Service interface {
	ListItems(ctx context.Context) ([]Item, error)
	GetItem(ctx context.Context, id int64) (Item, error)
	CreateItem(ctx context.Context, draft Draft) (Item, error)
	UpdateItem(ctx context.Context, id int64, draft Draft) (Item, error)
	DeleteItem(ctx context.Context, id int64) error
	FetchVersion(ctx context.Context) (string, error)
}

// Ensure Client implements Service at compile time.
var _ Service = (*Client)(nil)

// Client talks to the weekplan proxy over HTTP.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	defaultAPIURL         = "http://127.0.0.1:8080"
	defaultUserAgent      = "weekplan/0.1"
	defaultRequestTimeout = 10 * time.Second
)

// ClientOption customizes a Client.
type ClientOption func(*Client)

// WithTimeout sets the per-request timeout. Non-positive values are ignored.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// NewClient builds a Client for the proxy at apiURL. A bare host:port is
// treated as http.
func NewClient(apiURL string, opts ...ClientOption) (*Client, error) {
	base, err := parseBaseURL(apiURL)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL:   base,
		http:      &http.Client{Timeout: defaultRequestTimeout},
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ListItems fetches every item.
func (c *Client) ListItems(ctx context.Context) ([]Item, error) {
	var payload []Item
	if err := c.do(ctx, http.MethodGet, "/api/items", nil, &payload); err != nil {
		return nil, err
	}
	return Clone(payload), nil
}

// GetItem fetches a single item. A missing id yields an error matching ErrNotFound.
func (c *Client) GetItem(ctx context.Context, id int64) (Item, error) {
	var payload Item
	if err := c.do(ctx, http.MethodGet, itemPath(id), nil, &payload); err != nil {
		return Item{}, err
	}
	return payload, nil
}

// CreateItem posts a draft and returns the stored item.
func (c *Client) CreateItem(ctx context.Context, draft Draft) (Item, error) {
	var payload Item
	if err := c.do(ctx, http.MethodPost, "/api/items", draft, &payload); err != nil {
		return Item{}, err
	}
	return payload, nil
}

// UpdateItem replaces the item with id and returns the stored item.
func (c *Client) UpdateItem(ctx context.Context, id int64, draft Draft) (Item, error) {
	var payload Item
	if err := c.do(ctx, http.MethodPut, itemPath(id), draft, &payload); err != nil {
		return Item{}, err
	}
	return payload, nil
}

// DeleteItem removes the item with id. The response body is ignored.
func (c *Client) DeleteItem(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, itemPath(id), nil, nil)
}

// FetchVersion returns the service version string.
func (c *Client) FetchVersion(ctx context.Context) (string, error) {
	var payload VersionInfo
	if err := c.do(ctx, http.MethodGet, "/api/version", nil, &payload); err != nil {
		return "", err
	}
	return payload.Version, nil
}

func itemPath(id int64) string {
	return "/api/items/" + strconv.FormatInt(id, 10)
}

func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	reqURL := c.baseURL.ResolveReference(&url.URL{Path: path})

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Method: method, Path: path, Status: resp.StatusCode}
		var errBody ErrorBody
		if decodeErr := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&errBody); decodeErr == nil {
			apiErr.Message = strings.TrimSpace(errBody.Error)
		}
		return apiErr
	}
	if dest == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseBaseURL(apiURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiURL)
	if trimmed == "" {
		trimmed = defaultAPIURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api url %q: %w", apiURL, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api url %q: missing host", apiURL)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
