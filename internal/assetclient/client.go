// Package assetclient talks to the remote asset store over HTTP/JSON.
// Every call is a single round trip: no retries, no caching.
package assetclient

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

	"asset-inventory/internal/auth"
	"asset-inventory/internal/logger"
	"asset-inventory/internal/models"
)

// DefaultTimeout bounds a single round trip unless overridden
const DefaultTimeout = 10 * time.Second

// maxBodyBytes caps how much of a response body is read
const maxBodyBytes = 10 << 20

// Observer receives one observation per call
type Observer interface {
	ObserveCall(op string, statusCode int, elapsed time.Duration)
}

// Page is one page of the store's paginated listing
type Page struct {
	Content       []models.Asset `json:"content"`
	TotalElements int            `json:"totalElements"`
	TotalPages    int            `json:"totalPages"`
	Number        int            `json:"number"`
	Size          int            `json:"size"`
}

// Client is the asset repository client
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     auth.TokenSource
	log        logger.Logger
	observer   Observer
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the transport timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithTokenSource attaches a bearer token to every request
func WithTokenSource(ts auth.TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithLogger sets the request logger
func WithLogger(l logger.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithObserver records call counts and latency
func WithObserver(o Observer) Option {
	return func(c *Client) { c.observer = o }
}

// New creates a client for the asset collection at baseURL,
// e.g. http://localhost:8080/api/assets
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		log:        logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the collection endpoint
func (c *Client) BaseURL() string {
	return c.baseURL
}

// List returns every asset held by the store
func (c *Client) List(ctx context.Context) ([]models.Asset, error) {
	var assets []models.Asset
	if err := c.do(ctx, "list", http.MethodGet, "", nil, &assets); err != nil {
		return nil, err
	}
	if assets == nil {
		assets = []models.Asset{}
	}
	return assets, nil
}

// Get returns a single asset
func (c *Client) Get(ctx context.Context, id string) (models.Asset, error) {
	var asset models.Asset
	err := c.do(ctx, "get", http.MethodGet, "/"+url.PathEscape(id), nil, &asset)
	return asset, err
}

// ListPage returns one page of the store's listing. page is 0-based.
func (c *Client) ListPage(ctx context.Context, page, size int) (Page, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))

	var p Page
	err := c.do(ctx, "list_page", http.MethodGet, "/paginated?"+q.Encode(), nil, &p)
	return p, err
}

// Create stores a new asset and returns the store's representation
func (c *Client) Create(ctx context.Context, draft models.Asset) (models.Asset, error) {
	draft.ID = ""
	var created models.Asset
	err := c.do(ctx, "create", http.MethodPost, "", draft, &created)
	return created, err
}

// Update replaces every field of the asset with id
func (c *Client) Update(ctx context.Context, id string, draft models.Asset) (models.Asset, error) {
	draft.ID = ""
	var updated models.Asset
	err := c.do(ctx, "update", http.MethodPut, "/"+url.PathEscape(id), draft, &updated)
	return updated, err
}

// Delete removes the asset with id
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, "delete", http.MethodDelete, "/"+url.PathEscape(id), nil, nil)
}

func (c *Client) do(ctx context.Context, op, method, path string, in, out interface{}) error {
	target := c.baseURL + path

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", op, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("build %s request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		token, err := c.tokens.Token()
		if err != nil {
			return fmt.Errorf("obtain token: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	c.log.Debugw("→ request", "op", op, "method", method, "url", target)
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(op, 0, start)
		c.log.Warnw("✗ request failed", "op", op, "method", method, "url", target, "error", err)
		return &RemoteError{Message: GenericMessage, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	c.observe(op, resp.StatusCode, start)
	if err != nil {
		return &RemoteError{StatusCode: resp.StatusCode, Message: GenericMessage, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		rerr := decodeError(resp.StatusCode, data)
		c.log.Warnw("✗ request rejected", "op", op, "status", resp.StatusCode, "url", target, "message", rerr.Message)
		return rerr
	}

	c.log.Debugw("✓ response", "op", op, "status", resp.StatusCode, "url", target, "elapsed", time.Since(start))

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s response: %w", op, err)
	}
	return nil
}

func (c *Client) observe(op string, status int, start time.Time) {
	if c.observer != nil {
		c.observer.ObserveCall(op, status, time.Since(start))
	}
}
