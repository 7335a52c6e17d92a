package daily

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL points at a locally running AI Daily server.
	DefaultBaseURL = "http://localhost:8000/ai-daily/v1"

	// DefaultTimeout bounds read operations; summarization gets its own
	// longer budget because the server downloads and processes a PDF.
	DefaultTimeout          = 30 * time.Second
	DefaultSummarizeTimeout = 3 * time.Minute

	// RateLimit keeps the client polite toward a shared deployment.
	RateLimit = 4.0

	baseURLEnvVar = "AIDAILY_BASE_URL"
)

// Range selects the server-side history window.
type Range string

const (
	RangeWeek  Range = "7"
	RangeMonth Range = "30"
	RangeAll   Range = "all"
)

// Valid reports whether the range is one the server accepts.
func (r Range) Valid() bool {
	switch r {
	case RangeWeek, RangeMonth, RangeAll:
		return true
	}
	return false
}

// Label returns the human form used in the status bar and legend.
func (r Range) Label() string {
	switch r {
	case RangeWeek:
		return "last 7 days"
	case RangeMonth:
		return "last 30 days"
	default:
		return "all time"
	}
}

// Client is a rate-limited HTTP client for the AI Daily service.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	timeout    time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the service base URL (also settable via AIDAILY_BASE_URL).
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout overrides the read-operation budget. Summarization keeps
// its own longer budget regardless.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// NewClient creates an AI Daily API client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultSummarizeTimeout},
		limiter:    rate.NewLimiter(rate.Limit(RateLimit), 1),
		baseURL:    DefaultBaseURL,
		timeout:    DefaultTimeout,
	}
	if env := os.Getenv(baseURLEnvVar); env != "" {
		c.baseURL = strings.TrimRight(env, "/")
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type todayResponse struct {
	Date   string  `json:"date"`
	Count  int     `json:"count"`
	Papers []Paper `json:"papers"`
}

type historyResponse struct {
	History map[string][]Paper `json:"history"`
}

type paperResponse struct {
	Paper Paper `json:"paper"`
}

type healthResponse struct {
	OK     bool `json:"ok"`
	Cached int  `json:"cached"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

// FetchToday returns the papers recorded today. An empty slice is a
// valid outcome meaning no paper has been fetched yet.
func (c *Client) FetchToday(ctx context.Context) ([]Paper, error) {
	var parsed todayResponse
	if err := c.getJSON(ctx, "/today", &parsed); err != nil {
		return nil, err
	}
	return parsed.Papers, nil
}

// FetchHistory returns the raw date-keyed paper mapping for the window.
func (c *Client) FetchHistory(ctx context.Context, r Range) (map[string][]Paper, error) {
	if !r.Valid() {
		r = RangeAll
	}
	path := "/history?date_range=" + url.QueryEscape(string(r))
	var parsed historyResponse
	if err := c.getJSON(ctx, path, &parsed); err != nil {
		return nil, err
	}
	return parsed.History, nil
}

// FetchPaper returns the full record for a single paper.
func (c *Client) FetchPaper(ctx context.Context, id string) (Paper, error) {
	if strings.TrimSpace(id) == "" {
		return Paper{}, &TransportError{Op: "paper", Message: "paper id is empty"}
	}
	var parsed paperResponse
	if err := c.getJSON(ctx, "/paper/"+url.PathEscape(id), &parsed); err != nil {
		return Paper{}, err
	}
	return parsed.Paper, nil
}

// Ping checks service reachability and reports the cached paper count.
func (c *Client) Ping(ctx context.Context) (int, error) {
	var parsed healthResponse
	if err := c.getJSON(ctx, "/health", &parsed); err != nil {
		return 0, err
	}
	return parsed.Cached, nil
}

// Summarize asks the server to produce long-form summary text for the
// paper. It consumes API quota on the server side, so callers must only
// issue it in direct response to an explicit user action.
func (c *Client) Summarize(ctx context.Context, apiKey, paperID string) (Paper, error) {
	payload, err := json.Marshal(summarizeRequest{APIKey: apiKey, PaperID: paperID})
	if err != nil {
		return Paper{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, DefaultSummarizeTimeout)
	defer cancel()
	if err := c.limiter.Wait(ctx); err != nil {
		return Paper{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/summarize", bytes.NewReader(payload))
	if err != nil {
		return Paper{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Paper{}, &SummarizationError{Detail: fmt.Sprintf("request failed: %v", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return Paper{}, &SummarizationError{Detail: fmt.Sprintf("reading response: %v", err)}
	}
	if resp.StatusCode >= 400 {
		return Paper{}, &SummarizationError{Status: resp.StatusCode, Detail: detailFrom(body, resp.Status)}
	}

	var parsed paperResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Paper{}, &SummarizationError{Detail: fmt.Sprintf("malformed response: %v", err)}
	}
	return parsed.Paper, nil
}

type summarizeRequest struct {
	APIKey  string `json:"api_key"`
	PaperID string `json:"paper_id"`
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	op := strings.TrimLeft(strings.SplitN(path, "?", 2)[0], "/")
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Op: op, Message: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return &TransportError{Op: op, Message: err.Error()}
	}
	if resp.StatusCode >= 400 {
		return &TransportError{Op: op, Status: resp.StatusCode, Message: detailFrom(body, resp.Status)}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &TransportError{Op: op, Message: fmt.Sprintf("malformed response: %v", err)}
	}
	return nil
}

// detailFrom prefers the server-supplied detail message over the bare status.
func detailFrom(body []byte, status string) string {
	var parsed errorResponse
	if err := json.Unmarshal(body, &parsed); err == nil && strings.TrimSpace(parsed.Detail) != "" {
		return parsed.Detail
	}
	return status
}
