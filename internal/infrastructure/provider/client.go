package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/force3dev/Forc3-sub001/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	// DefaultTimeout bounds a single provider call
	DefaultTimeout = 5 * time.Second

	// DefaultLimit caps how many items one provider contributes to a merge
	DefaultLimit = 15

	defaultUserAgent = "Forc3/1.0 (nutrition search)"
	maxBodyBytes     = 4 << 20
)

// Config holds the settings shared by every provider adapter
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	Limit   int

	// RequestsPerHour throttles outbound calls; 0 disables throttling
	RequestsPerHour int
	UserAgent       string
}

// HTTPStatusError is returned when a provider answers with a non-2xx status
type HTTPStatusError struct {
	StatusCode int
	Body       string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("%v: status %d", domain.ErrProviderUnavailable, e.StatusCode)
}

func (e *HTTPStatusError) Unwrap() error {
	return domain.ErrProviderUnavailable
}

// Client is the HTTP plumbing embedded by each provider adapter
type Client struct {
	name        string
	httpClient  *http.Client
	baseURL     string
	apiKey      string
	timeout     time.Duration
	limit       int
	userAgent   string
	rateLimiter *rate.Limiter
	logger      *zap.Logger
}

// sharedTransport is reused by all adapters so connections to the same host pool together
var sharedTransport = &http.Transport{
	Proxy:               http.ProxyFromEnvironment,
	MaxIdleConns:        100,
	MaxIdleConnsPerHost: 10,
	IdleConnTimeout:     90 * time.Second,
}

// NewClient creates the shared client for the named provider
func NewClient(name string, cfg Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	limit := cfg.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerHour > 0 {
		// burst of 10 so a handful of parallel users are not serialized
		limiter = rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerHour)/3600.0), 10)
	}

	return &Client{
		name:        name,
		httpClient:  &http.Client{Transport: sharedTransport},
		baseURL:     cfg.BaseURL,
		apiKey:      cfg.APIKey,
		timeout:     timeout,
		limit:       limit,
		userAgent:   userAgent,
		rateLimiter: limiter,
		logger:      logger.With(zap.String("provider", name)),
	}
}

// Name returns the provider identifier
func (c *Client) Name() string {
	return c.name
}

// BaseURL returns the provider endpoint root
func (c *Client) BaseURL() string {
	return c.baseURL
}

// APIKey returns the configured credential, possibly empty
func (c *Client) APIKey() string {
	return c.apiKey
}

// Enabled reports whether a credential is configured
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

// Limit returns the maximum number of results this provider contributes
func (c *Client) Limit() int {
	return c.limit
}

// Timeout returns the per-call timeout
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// Logger returns the provider-scoped logger
func (c *Client) Logger() *zap.Logger {
	return c.logger
}

// GetJSON performs a GET bounded by the provider timeout and decodes a 2xx body into out.
func (c *Client) GetJSON(ctx context.Context, reqURL string, headers map[string]string, out interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if c.rateLimiter != nil {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrRateLimited, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return classifyTransportError(ctx, err)
	}
	defer resp.Body.Close()

	body := io.LimitReader(resp.Body, maxBodyBytes)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(body, 512))
		return &HTTPStatusError{StatusCode: resp.StatusCode, Body: string(snippet)}
	}

	if err := json.NewDecoder(body).Decode(out); err != nil {
		if ctx.Err() != nil {
			return classifyTransportError(ctx, err)
		}
		return fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}

	return nil
}

// classifyTransportError distinguishes timeouts from other network failures
func classifyTransportError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", domain.ErrProviderTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", domain.ErrProviderTimeout, err)
	}
	return fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err)
}
