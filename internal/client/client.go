// Package client talks to the sponsor tracker REST API.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"sponsortracker/internal/logging"
	"sponsortracker/internal/paging"
	"sponsortracker/internal/sponsor"

	"github.com/google/uuid"
)

var (
	// ErrFetchFailed wraps every failure of a data request.
	ErrFetchFailed = errors.New("failed to fetch data")
	// ErrSyncFailed wraps every failure of a sync request.
	ErrSyncFailed = errors.New("sync failed")
)

// maxErrorBody bounds how much of a failed response is kept for diagnostics.
const maxErrorBody = 4 << 10

// StatusError is returned when the API answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("api returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("api returned status %d: %s", e.StatusCode, e.Body)
}

// Client is a tracker API client. It is safe for concurrent use.
type Client struct {
	baseURL   string
	http      *http.Client
	timeout   time.Duration
	userAgent string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// New creates a client for the API rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 {
		hc := *c.http
		hc.Timeout = c.timeout
		c.http = &hc
	}
	return c
}

// FetchPage requests one window of the register, optionally filtered by a
// search term. The page is returned as decoded; callers decide what to do
// with a page whose echoed range differs from the request.
func (c *Client) FetchPage(ctx context.Context, w paging.Window, search string) (*sponsor.Page, error) {
	q := url.Values{}
	q.Set("from", strconv.Itoa(w.From))
	q.Set("to", strconv.Itoa(w.To))
	q.Set("search", search)

	req, err := c.newRequest(ctx, http.MethodGet, "/api/data?"+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	log := requestLogger(req)
	timer := logging.StartTimer(logging.CategoryAPI, fmt.Sprintf("GET data %d-%d", w.From, w.To))
	defer timer.Stop()

	resp, err := c.http.Do(req)
	if err != nil {
		log.Error("GET /api/data failed: %v", err)
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		log.Error("GET /api/data: %v", err)
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}

	var page sponsor.Page
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		log.Error("GET /api/data: decode: %v", err)
		return nil, fmt.Errorf("%w: failed to decode response: %w", ErrFetchFailed, err)
	}
	log.Info("GET /api/data from=%d to=%d search=%q -> %d organisations, %d licences (total %d)",
		page.From, page.To, search, len(page.Organisations), len(page.Licences), page.TotalOrganisations)
	return &page, nil
}

// Sync asks the backend to run a sync. The response body is discarded.
func (c *Client) Sync(ctx context.Context) error {
	req, err := c.newRequest(ctx, http.MethodPost, "/api/sync")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSyncFailed, err)
	}
	log := requestLogger(req)
	timer := logging.StartTimer(logging.CategoryAPI, "POST sync")
	defer timer.Stop()

	resp, err := c.http.Do(req)
	if err != nil {
		log.Error("POST /api/sync failed: %v", err)
		return fmt.Errorf("%w: %w", ErrSyncFailed, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		log.Error("POST /api/sync: %v", err)
		return fmt.Errorf("%w: %w", ErrSyncFailed, err)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	log.Info("POST /api/sync -> %d", resp.StatusCode)
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	return req, nil
}

func requestLogger(req *http.Request) *logging.Logger {
	return logging.Get(logging.CategoryAPI).With("request_id", req.Header.Get("X-Request-ID"))
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
}
