// Package intervals is the single gateway to the Intervals.icu REST API.
// Every outbound call goes through Client.Send, which never panics and never
// returns a Go error: all outcomes are folded into a Result.
package intervals

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/kokistudios/intervals-mcp/internal/metrics"
	"github.com/kokistudios/intervals-mcp/internal/record"
)

const (
	DefaultBaseURL = "https://intervals.icu/api/v1"
	UserAgent      = "intervalsicu-mcp-server/1.0"
	RequestTimeout = 30 * time.Second

	authUsername = "API_KEY"
)

// Params are scalar query parameters.
type Params map[string]any

// RequestSpec describes one GET request. Path is relative to the base URL.
// An empty APIKey uses the client's default key.
type RequestSpec struct {
	Path   string
	Params Params
	APIKey string
}

// Result is either a decoded payload or a Failure.
type Result struct {
	Payload record.Payload
	Failure *Failure
}

// OK reports whether the request produced a payload.
func (r Result) OK() bool {
	return r.Failure == nil
}

// Sender is anything that can perform a RequestSpec.
type Sender interface {
	Send(ctx context.Context, spec RequestSpec) Result
}

// Config configures a Client.
type Config struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *log.Logger
}

// Client is safe for concurrent use and holds one shared connection pool.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *log.Logger

	closed    atomic.Bool
	closeOnce sync.Once
}

// NewClient builds a client from cfg. The default API key is required.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("intervals: API key is required")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = RequestTimeout
	}
	// Copy so the caller's client keeps its own timeout.
	httpClient := &http.Client{}
	if cfg.HTTPClient != nil {
		c := *cfg.HTTPClient
		httpClient = &c
	}
	httpClient.Timeout = timeout

	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}

	return &Client{
		baseURL:    baseURL,
		apiKey:     cfg.APIKey,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// Send performs a single GET attempt and classifies the outcome. The body is
// parsed before the status is inspected, so an error page that is not JSON
// surfaces as InvalidResponse.
func (c *Client) Send(ctx context.Context, spec RequestSpec) Result {
	logger := c.loggerFor(ctx)
	start := time.Now()

	if c.closed.Load() {
		logger.Error("Request error", "err", "client is closed")
		return c.fail(start, &Failure{Kind: RequestError, Message: "Request error: client is closed"})
	}

	fullURL := c.baseURL + spec.Path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		logger.Error("Request error", "err", err)
		return c.fail(start, &Failure{Kind: RequestError, Message: fmt.Sprintf("Request error: %v", err)})
	}
	if len(spec.Params) > 0 {
		req.URL.RawQuery = encodeParams(spec.Params)
	}

	key := spec.APIKey
	if key == "" {
		key = c.apiKey
	}
	req.SetBasicAuth(authUsername, key)
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Error("Request error", "err", err)
		return c.fail(start, &Failure{Kind: RequestError, Message: fmt.Sprintf("Request error: %v", err)})
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.Error("Request error", "err", err)
		return c.fail(start, &Failure{Kind: RequestError, Message: fmt.Sprintf("Request error: %v", err)})
	}

	payload, err := record.DecodePayload(body)
	if err != nil {
		logger.Error("Invalid JSON in response", "url", fullURL, "status", resp.StatusCode)
		return c.fail(start, &Failure{Kind: InvalidResponse, Status: resp.StatusCode, Message: "Invalid JSON in response"})
	}

	if resp.StatusCode >= http.StatusBadRequest {
		text := string(body)
		logger.Error("HTTP error", "status", resp.StatusCode, "body", text)
		return c.fail(start, &Failure{Kind: HTTPError, Status: resp.StatusCode, Message: Classify(resp.StatusCode, text)})
	}

	metrics.RecordRequest(metrics.OutcomeOK, time.Since(start))
	return Result{Payload: payload}
}

// Close releases pooled connections. Later calls to Send fail fast.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		c.httpClient.CloseIdleConnections()
	})
}

func (c *Client) fail(start time.Time, f *Failure) Result {
	metrics.RecordRequest(f.Kind.String(), time.Since(start))
	return Result{Failure: f}
}

// loggerFor prefers a logger carried by the call context, which tool
// handlers tag with a call ID.
func (c *Client) loggerFor(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(log.ContextKey).(*log.Logger); ok && l != nil {
		return l
	}
	return c.logger
}

func encodeParams(params Params) string {
	values := url.Values{}
	for k, v := range params {
		values.Set(k, paramString(v))
	}
	return values.Encode()
}

func paramString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case fmt.Stringer:
		return t.String()
	}
	return fmt.Sprint(v)
}
