package client

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

	"github.com/dmitrijs2005/postdesk/internal/logging"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	RequestIDHeaderName = "X-Request-ID"
	maxResponseBytes    = 8 << 20
)

type authMode int

const (
	authNone     authMode = iota // never send the token (login, register)
	authOptional                 // send it when there is one (public reads)
	authRequired                 // refuse to dispatch without one
)

// HTTPClient implements Client over JSON/HTTP.
type HTTPClient struct {
	baseURL        string
	httpClient     *http.Client
	tokens         TokenSource
	limiter        *rate.Limiter
	logger         logging.Logger
	onUnauthorized func(ctx context.Context)
}

type Option func(*HTTPClient)

// WithHTTPClient replaces the default client (10s timeout).
func WithHTTPClient(c *http.Client) Option {
	return func(h *HTTPClient) { h.httpClient = c }
}

// WithRateLimit throttles outbound requests to rps per second (burst 1).
// rps <= 0 leaves requests unthrottled.
func WithRateLimit(rps float64) Option {
	return func(h *HTTPClient) {
		if rps > 0 {
			h.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

func WithLogger(l logging.Logger) Option {
	return func(h *HTTPClient) { h.logger = l }
}

// WithUnauthorizedHandler registers fn to run when a request that carried
// the bearer token is rejected with 401 or 403.
func WithUnauthorizedHandler(fn func(ctx context.Context)) Option {
	return func(h *HTTPClient) { h.onUnauthorized = fn }
}

func NewHTTPClient(baseURL string, tokens TokenSource, opts ...Option) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid API base URL: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid API base URL %q: want http(s)://host[:port]", baseURL)
	}

	c := &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		tokens:     tokens,
		logger:     logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("component", "gateway")
	return c, nil
}

type request struct {
	method string
	path   string
	body   any
	auth   authMode
}

// do performs one call and returns the body of a 2xx response. Every other
// outcome is an *APIError.
func (c *HTTPClient) do(ctx context.Context, r request) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &APIError{Kind: ErrUnavailable, Cause: err}
		}
	}

	var token string
	if r.auth != authNone && c.tokens != nil {
		token = c.tokens.Token()
	}
	if r.auth == authRequired && token == "" {
		return nil, &APIError{Kind: ErrUnauthorized, Cause: errNoToken}
	}

	var body io.Reader
	if r.body != nil {
		b, err := json.Marshal(r.body)
		if err != nil {
			return nil, &APIError{Cause: fmt.Errorf("encode request: %w", err)}
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+r.path, body)
	if err != nil {
		return nil, &APIError{Cause: err}
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeaderName, requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	log := c.logger.With("request_id", requestID, "method", r.method, "path", r.path)
	started := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn(ctx, "api request failed", "error", err)
		return nil, &APIError{Kind: ErrUnavailable, Cause: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		log.Warn(ctx, "api response read failed", "status", resp.StatusCode, "error", err)
		return nil, &APIError{Status: resp.StatusCode, Kind: ErrUnavailable, Cause: err}
	}
	log.Debug(ctx, "api request", "status", resp.StatusCode, "elapsed", time.Since(started))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return data, nil
	}

	apiErr := &APIError{Status: resp.StatusCode, Kind: kindForStatus(resp.StatusCode)}
	var e struct {
		Msg     string `json:"msg"`
		Message string `json:"message"`
	}
	if json.Unmarshal(data, &e) == nil {
		apiErr.Msg, apiErr.ServerMessage = e.Msg, e.Message
	}

	if token != "" && errors.Is(apiErr, ErrUnauthorized) && c.onUnauthorized != nil {
		log.Info(ctx, "credential rejected", "status", resp.StatusCode)
		c.onUnauthorized(ctx)
	}
	return nil, apiErr
}

func postPath(id string) string { return "/api/post/" + url.PathEscape(id) }
func userPath(id string) string { return "/api/users/" + url.PathEscape(id) }
