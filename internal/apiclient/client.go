package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"lakbaycli/internal/config"
	"lakbaycli/pkg/contracts"
	"lakbaycli/pkg/contracts/domain"
)

// ErrUnauthorized is returned when the API rejects the bearer token
var ErrUnauthorized = errors.New("lakbay api: unauthorized")

// maxErrorBody caps how much of an error response is kept on StatusError
const maxErrorBody = 4 << 10

// StatusError is a non-2xx answer from the API
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("lakbay api: %s %s: HTTP %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// Unwrap lets errors.Is(err, ErrUnauthorized) match 401 responses
func (e *StatusError) Unwrap() error {
	if e.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return nil
}

// TokenSource supplies the bearer token for each request
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a fixed bearer token
type StaticToken string

// Token implements TokenSource
func (s StaticToken) Token(context.Context) (string, error) {
	return string(s), nil
}

// Client talks to the Lakbay REST API
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	tokens     TokenSource
	limiter    *rate.Limiter
	logger     *slog.Logger
	tracer     trace.Tracer
}

// Option customizes a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTokenSource sets where bearer tokens come from
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithLogger sets the client logger
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger.With(slog.String("component", "apiclient")) }
}

// New creates a client for cfg.BaseURL. The configured token, when set, is
// used until a TokenSource option or WithToken overrides it.
func New(cfg config.APIConfig, opts ...Option) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid api base url %q: %w", cfg.BaseURL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid api base url %q: scheme and host are required", cfg.BaseURL)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = config.DefaultHTTPTimeout
	}

	limit := rate.Inf
	if cfg.RPS > 0 {
		limit = rate.Limit(cfg.RPS)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	c := &Client{
		baseURL:    base,
		httpClient: &http.Client{Timeout: timeout},
		tokens:     StaticToken(cfg.Token),
		limiter:    rate.NewLimiter(limit, burst),
		logger:     slog.Default().With(slog.String("component", "apiclient")),
		tracer:     otel.Tracer("lakbaycli/apiclient"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// WithToken returns a copy of the client that authenticates as token. The
// copy shares the HTTP client and rate limiter with its parent.
func (c *Client) WithToken(token string) *Client {
	clone := *c
	clone.tokens = StaticToken(token)
	return &clone
}

// ListUsers calls GET /users
func (c *Client) ListUsers(ctx context.Context, q Query) (*UsersResponse, error) {
	var resp UsersResponse
	if err := c.get(ctx, "/users", q.Values(), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListEvents calls GET /events
func (c *Client) ListEvents(ctx context.Context, q Query) (*EventsResponse, error) {
	var resp EventsResponse
	if err := c.get(ctx, "/events", q.Values(), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListHotlines calls GET /hotlines
func (c *Client) ListHotlines(ctx context.Context, q Query) (*HotlinesResponse, error) {
	var resp HotlinesResponse
	if err := c.get(ctx, "/hotlines", q.Values(), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Dashboard calls GET /dashboard and returns the snapshot the monthly
// report is built from
func (c *Client) Dashboard(ctx context.Context) (*domain.DashboardSnapshot, error) {
	var snapshot domain.DashboardSnapshot
	if err := c.get(ctx, "/dashboard", nil, &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) (err error) {
	ctx, span := c.tracer.Start(ctx, "apiclient.GET "+path,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("http.route", path)),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	endpoint := *c.baseURL
	endpoint.Path = c.baseURL.Path + path
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "lakbaycli/"+contracts.Version)

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return fmt.Errorf("failed to obtain api token: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("lakbay api: GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	c.logger.DebugContext(ctx, "api request completed",
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{
			Method:     http.MethodGet,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("lakbay api: decode %s response: %w", path, err)
	}
	return nil
}
