// Package api is the typed HTTP client for the storefront REST backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"slices"
	"strings"
	"sync"
	"time"

	"storefront/config"
	deliverycontext "storefront/internal/delivery/context"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/service"
	"storefront/internal/errors"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/fx"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/sync/singleflight"
)

const (
	defaultTimeout   = 15 * time.Second
	defaultUserAgent = "storefront-cli"

	// Upper bound on a response body we are willing to buffer.
	maxResponseBytes = 4 << 20

	refreshKey = "refresh-token"
)

// Params defines the dependencies of the API client, injected by Fx
type Params struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
	Tokens service.TokenStore
}

// Client talks to the storefront backend. Every call goes through one pipeline
// that attaches the bearer token and, on a 401, refreshes the token at most
// once per call before replaying it.
type Client struct {
	baseURL   string
	userAgent string
	timeout   time.Duration
	http      *http.Client
	breaker   *gobreaker.CircuitBreaker[*response]
	tokens    service.TokenStore
	logger    *slog.Logger

	// Concurrent 401s share a single in-flight refresh.
	refreshGroup singleflight.Group

	hooksMu      sync.RWMutex
	expiredHooks []func(ctx context.Context)
}

var _ service.StorefrontAPI = (*Client)(nil)

// New creates the client from application config.
func New(params Params) (*Client, error) {
	return NewClient(params.Config.API, params.Tokens, params.Logger)
}

// NewClient creates a client for the backend described by cfg.
func NewClient(cfg config.APIConfig, tokens service.TokenStore, logger *slog.Logger) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, errors.New("api base URL is required")
	}
	if _, err := url.ParseRequestURI(base); err != nil {
		return nil, errors.Wrap(err, "invalid api base URL")
	}

	// The refresh credential lives in a server-set cookie.
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create cookie jar")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	client := &Client{
		baseURL:   base,
		userAgent: userAgent,
		timeout:   timeout,
		http: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Jar:       jar,
		},
		tokens: tokens,
		logger: logger,
	}
	if cfg.CircuitBreaker.Enabled {
		client.breaker = newBreaker(cfg.CircuitBreaker, logger)
	}

	return client, nil
}

// OnSessionExpired registers fn to run after a failed refresh cleared the token.
func (c *Client) OnSessionExpired(fn func(ctx context.Context)) {
	c.hooksMu.Lock()
	defer c.hooksMu.Unlock()

	c.expiredHooks = append(c.expiredHooks, fn)
}

func (c *Client) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, c.logger)
}

type response struct {
	status int
	body   []byte
}

type callOptions struct {
	skipRefresh bool
}

type callOption func(*callOptions)

// withoutRefresh surfaces a 401 as is. Used by the credential exchanges themselves.
func withoutRefresh() callOption {
	return func(o *callOptions) {
		o.skipRefresh = true
	}
}

// do sends in as JSON, decodes a 2xx body into out and maps every other
// outcome to a domain error.
func (c *Client) do(ctx context.Context, method, path string, in, out any, opts ...callOption) error {
	var o callOptions
	for _, opt := range opts {
		opt(&o)
	}

	var body []byte
	if in != nil {
		encoded, err := json.Marshal(in)
		if err != nil {
			return errors.Wrapf(err, "encode %s request", path)
		}
		body = encoded
	}

	// The replay below shares the request id of the first attempt.
	ctx, _ = deliverycontext.EnsureRequestID(ctx)

	token, err := c.tokens.Load(ctx)
	if err != nil {
		return errors.Wrap(err, "load token")
	}

	resp, err := c.send(ctx, method, path, body, token)
	if err != nil {
		return err
	}

	// At most one refresh per call: the replay's own 401 is returned as is.
	if resp.status == http.StatusUnauthorized && !o.skipRefresh && !deliverycontext.TokenRefreshDisabled(ctx) {
		fresh, refreshErr := c.refreshAfter(ctx, token)
		if refreshErr != nil {
			return errors.Wrapf(statusError(method, path, resp), "token refresh failed: %v", refreshErr)
		}

		resp, err = c.send(ctx, method, path, body, fresh)
		if err != nil {
			return err
		}
	}

	if resp.status < http.StatusOK || resp.status >= http.StatusMultipleChoices {
		return statusError(method, path, resp)
	}

	if out == nil || len(bytes.TrimSpace(resp.body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.body, out); err != nil {
		return errors.Wrapf(err, "decode %s response", path)
	}

	return nil
}

// refreshAfter returns a token newer than stale. Callers that saw a 401 for
// the same token at the same time share one refresh call.
func (c *Client) refreshAfter(ctx context.Context, stale string) (string, error) {
	v, err, shared := c.refreshGroup.Do(refreshKey, func() (any, error) {
		// Another caller may have finished a refresh after our request went out.
		if current, loadErr := c.tokens.Load(ctx); loadErr == nil && current != "" && current != stale {
			return &refreshed{token: current}, nil
		}

		return c.exchangeRefresh(ctx)
	})
	if err != nil {
		return "", err
	}
	c.log(ctx).Debug("Token refresh settled", slog.Bool("shared", shared))

	return v.(*refreshed).token, nil
}

type refreshed struct {
	token  string
	result *authResponse
}

// exchangeRefresh performs the refresh call and persists the new token. On any
// failure the token is cleared and the session-expired hooks run.
func (c *Client) exchangeRefresh(ctx context.Context) (*refreshed, error) {
	// Detached so that one waiter giving up does not fail the others.
	ctx = context.WithoutCancel(ctx)

	var payload authResponse
	err := c.do(ctx, http.MethodPost, "user/refresh-token", nil, &payload, withoutRefresh())
	if err == nil && payload.token() == "" {
		err = errors.New("refresh response carried no access token")
	}
	if err == nil {
		err = errors.Wrap(c.tokens.Save(ctx, payload.token()), "save refreshed token")
	}
	if err != nil {
		c.expire(ctx, err)

		return nil, err
	}

	c.log(ctx).Info("Access token refreshed")

	return &refreshed{token: payload.token(), result: &payload}, nil
}

func (c *Client) expire(ctx context.Context, cause error) {
	c.log(ctx).Warn("Session expired, clearing stored token", slog.Any("error", cause))

	if err := c.tokens.Clear(ctx); err != nil {
		c.log(ctx).Error("Failed to clear stored token", slog.Any("error", err))
	}

	c.hooksMu.RLock()
	hooks := slices.Clone(c.expiredHooks)
	c.hooksMu.RUnlock()

	for _, fn := range hooks {
		fn(ctx)
	}
}

func (c *Client) send(ctx context.Context, method, path string, body []byte, token string) (*response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if c.breaker == nil {
		return c.exchange(ctx, method, path, body, token)
	}

	resp, err := c.breaker.Execute(func() (*response, error) {
		resp, err := c.exchange(ctx, method, path, body, token)
		if err == nil && resp.status >= http.StatusInternalServerError {
			return resp, errUpstreamFailure
		}

		return resp, err
	})

	switch {
	case errors.Is(err, errUpstreamFailure):
		return resp, nil
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return nil, domainerrors.NewNetworkError(err, path)
	}

	return resp, err
}

func (c *Client) exchange(ctx context.Context, method, path string, body []byte, token string) (*response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), reader)
	if err != nil {
		return nil, errors.Wrapf(err, "build %s %s", method, path)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(deliverycontext.HeaderXRequestID, deliverycontext.GetRequestIDFromContext(ctx))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	res, err := c.http.Do(req)
	if err != nil {
		c.log(ctx).Debug("Store call failed",
			slog.String("method", method),
			slog.String("path", path),
			slog.Any("error", err),
		)

		return nil, domainerrors.NewNetworkError(err, path)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBytes))
	if err != nil {
		return nil, domainerrors.NewNetworkError(err, path)
	}

	c.log(ctx).Debug("Store call",
		slog.String("request_id", deliverycontext.GetRequestIDFromContext(ctx)),
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", res.StatusCode),
		slog.Duration("latency", time.Since(start)),
	)

	return &response{status: res.StatusCode, body: data}, nil
}

func (c *Client) endpoint(path string) string {
	return c.baseURL + "/" + strings.TrimLeft(path, "/")
}

// statusError maps a non-2xx response to an APIError carrying the backend's message.
func statusError(method, path string, resp *response) error {
	var payload struct {
		Message string `json:"message"`
		Error   any    `json:"error"`
	}
	// Non-JSON bodies simply leave the message empty.
	_ = json.Unmarshal(resp.body, &payload)

	message := payload.Message
	if s, ok := payload.Error.(string); ok && message == "" {
		message = s
	}

	return errors.WithStack(domainerrors.NewAPIError(resp.status, method, path, message))
}
