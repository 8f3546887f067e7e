package api

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

const (
	// DefaultTimeout bounds a single catalog fetch.
	DefaultTimeout = 10 * time.Second

	userAgent    = "appcmp/1.0 (+https://github.com/tayloree/appliance-compare)"
	maxBodyBytes = 16 << 20
)

var (
	// ErrTimeout is returned when a fetch exceeds the client timeout.
	ErrTimeout = errors.New("catalog request timed out")
	// ErrUnavailable wraps transport failures and non-2xx replies.
	ErrUnavailable = errors.New("catalog source unavailable")
	// ErrBadResponse wraps bodies that are not a product list.
	ErrBadResponse = errors.New("malformed catalog response")
)

// Client fetches raw product records from a Supabase-style REST endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	timeout    time.Duration
}

// Option customizes a Client.
type Option func(*Client)

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient creates a catalog client for baseURL. apiKey may be empty.
func NewClient(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		timeout:    DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured endpoint root.
func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) getAndDecode(ctx context.Context, reqURL string, out *[]RawRecord) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%w after %s", ErrTimeout, c.timeout)
		}
		return fmt.Errorf("%w: executing request: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: unexpected status %d from %s", ErrUnavailable, resp.StatusCode, reqURL)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%w after %s", ErrTimeout, c.timeout)
		}
		return fmt.Errorf("%w: reading response: %w", ErrUnavailable, err)
	}
	return decodeRecords(body, out)
}

// decodeRecords accepts either a bare JSON array or a {"products": [...]}
// envelope.
func decodeRecords(body []byte, out *[]RawRecord) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return fmt.Errorf("%w: empty body", ErrBadResponse)
	}

	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, out); err != nil {
			return fmt.Errorf("%w: %w", ErrBadResponse, err)
		}
		return nil
	}

	var file CatalogFile
	if err := json.Unmarshal(trimmed, &file); err != nil {
		return fmt.Errorf("%w: %w", ErrBadResponse, err)
	}
	*out = file.Products
	return nil
}

// FetchProducts fetches the raw records of one category.
func (c *Client) FetchProducts(ctx context.Context, category string, inStockOnly bool) ([]RawRecord, error) {
	params := url.Values{
		"select":   {"*"},
		"category": {"eq." + category},
		"order":    {"id.asc"},
	}
	if inStockOnly {
		params.Set("in_stock", "eq.true")
	}

	var records []RawRecord
	if err := c.getAndDecode(ctx, c.baseURL+"/products?"+params.Encode(), &records); err != nil {
		return nil, fmt.Errorf("fetching %s products: %w", category, err)
	}
	return records, nil
}

// DecodeCatalogFile parses a bundled catalog file.
func DecodeCatalogFile(data []byte) ([]RawRecord, error) {
	var records []RawRecord
	if err := decodeRecords(data, &records); err != nil {
		return nil, err
	}
	return records, nil
}
