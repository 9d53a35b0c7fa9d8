package rest

import (
	"context"
	"io"
	nethttp "net/http"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/ferrischat/ferrisgo/logger"
)

const (
	// DefaultTimeout is the default request timeout duration
	DefaultTimeout = 30 * time.Second

	// DefaultMaxAttempts is the default size of the retry budget
	DefaultMaxAttempts = 3

	// serverErrorCutoff is the attempt index at which server-error
	// retries stop regardless of the remaining budget. It is
	// deliberately independent of MaxAttempts.
	serverErrorCutoff = 1
)

// attemptResult classifies a single request/response cycle.
type attemptResult int

const (
	attemptSuccess attemptResult = iota
	attemptClientError
	attemptServerError
)

func classify(status int) attemptResult {
	switch {
	case status >= 200 && status < 300:
		return attemptSuccess
	case status >= 400 && status < 500:
		return attemptClientError
	default:
		// 5xx, and whatever 1xx/3xx the transport lets through.
		return attemptServerError
	}
}

// Requester issues HTTP requests with a bounded, status-driven retry
// policy. It holds no per-call mutable state and is safe for concurrent
// use.
type Requester struct {
	httpClient           *nethttp.Client
	logger               logger.Logger
	config               *Config
	buckets              *bucketSet
	limiter              *rate.Limiter
	requestInterceptors  []RequestInterceptor
	responseInterceptors []ResponseInterceptor
	callCount            int64
}

var _ Client = (*Requester)(nil)

// New creates a requester identified to remote servers by userAgent.
// Construction fails when the identity string cannot be carried as a
// header value.
func New(userAgent string, log logger.Logger) (*Requester, error) {
	return NewBuilder(userAgent, log).Build()
}

// Builder provides a fluent interface for configuring the requester.
type Builder struct {
	config     *Config
	logger     logger.Logger
	httpClient *nethttp.Client
}

// NewBuilder creates a requester builder with default configuration.
func NewBuilder(userAgent string, log logger.Logger) *Builder {
	return &Builder{
		config: &Config{
			UserAgent:      userAgent,
			Timeout:        DefaultTimeout,
			MaxAttempts:    DefaultMaxAttempts,
			DefaultHeaders: make(map[string]string),
		},
		logger: log,
	}
}

// WithTimeout sets the per-request timeout.
func (b *Builder) WithTimeout(timeout time.Duration) *Builder {
	b.config.Timeout = timeout
	return b
}

// WithMaxAttempts sets the retry budget. Values below 1 are ignored.
func (b *Builder) WithMaxAttempts(n int) *Builder {
	if n >= 1 {
		b.config.MaxAttempts = n
	}
	return b
}

// WithRateLimit paces DoWithRetry calls to limit requests per second.
func (b *Builder) WithRateLimit(rps float64, burst int) *Builder {
	b.config.RateLimit = rps
	b.config.RateBurst = burst
	return b
}

// WithDefaultHeader adds a header sent with every request.
func (b *Builder) WithDefaultHeader(key, value string) *Builder {
	b.config.DefaultHeaders[key] = value
	return b
}

// WithRequestInterceptor adds a request interceptor.
func (b *Builder) WithRequestInterceptor(interceptor RequestInterceptor) *Builder {
	b.config.RequestInterceptors = append(b.config.RequestInterceptors, interceptor)
	return b
}

// WithResponseInterceptor adds a response interceptor.
func (b *Builder) WithResponseInterceptor(interceptor ResponseInterceptor) *Builder {
	b.config.ResponseInterceptors = append(b.config.ResponseInterceptors, interceptor)
	return b
}

// WithHTTPClient replaces the underlying transport. Tests use this to
// install stub round trippers.
func (b *Builder) WithHTTPClient(client *nethttp.Client) *Builder {
	b.httpClient = client
	return b
}

// Build creates the requester, validating the identity string.
func (b *Builder) Build() (*Requester, error) {
	if err := validateUserAgent(b.config.UserAgent); err != nil {
		return nil, err
	}

	httpClient := b.httpClient
	if httpClient == nil {
		httpClient = &nethttp.Client{Timeout: b.config.Timeout}
	}

	var limiter *rate.Limiter
	if b.config.RateLimit > 0 {
		burst := b.config.RateBurst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(b.config.RateLimit), burst)
	}

	return &Requester{
		httpClient:           httpClient,
		logger:               b.logger,
		config:               b.config,
		buckets:              newBucketSet(),
		limiter:              limiter,
		requestInterceptors:  b.config.RequestInterceptors,
		responseInterceptors: b.config.ResponseInterceptors,
	}, nil
}

// validateUserAgent rejects identity strings that cannot travel as a
// header value.
func validateUserAgent(ua string) error {
	if ua == "" {
		return NewTransportInitError("user agent must not be empty", nil)
	}
	for _, c := range ua {
		if c < 0x20 || c == 0x7f {
			return NewTransportInitError("user agent contains control characters", nil)
		}
	}
	return nil
}

// validMethodToken reports whether s is a valid HTTP method token
// (RFC 7230 tchar).
func validMethodToken(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case strings.ContainsRune("!#$%&'*+-.^_`|~", c):
		default:
			return false
		}
	}
	return true
}

// ExecuteWithRetry performs the request described by spec under the
// retry policy and reduces it to a two-variant outcome: the body of a
// success, or the status code the loop stopped on. Transport failures
// surface immediately as errors and are never retried.
func (r *Requester) ExecuteWithRetry(ctx context.Context, spec *RequestSpec) (Outcome, error) {
	if err := r.validateSpec(spec); err != nil {
		return Outcome{}, err
	}

	var last uint16
	for attempt := 0; attempt < r.config.MaxAttempts; attempt++ {
		resp, err := r.do(ctx, spec)
		if err != nil {
			return Outcome{}, err
		}

		switch classify(resp.StatusCode) {
		case attemptSuccess:
			return BodyOutcome(string(resp.Body)), nil
		case attemptClientError:
			return StatusOutcome(uint16(resp.StatusCode)), nil
		case attemptServerError:
			last = uint16(resp.StatusCode)
			if attempt == serverErrorCutoff {
				return StatusOutcome(last), nil
			}
		}
	}

	// Only reachable when MaxAttempts leaves no room for the cutoff
	// check (e.g. a budget of 1). Still deterministic.
	return StatusOutcome(last), nil
}

// DoWithRetry performs the request under the same retry policy but
// keeps the full terminal response, so callers can decode error bodies.
// Unlike ExecuteWithRetry it waits out 429 responses: the affected
// method/URL bucket is held for the advertised retry_after and the
// attempt is not charged against the budget.
func (r *Requester) DoWithRetry(ctx context.Context, spec *RequestSpec) (*Response, error) {
	if err := r.validateSpec(spec); err != nil {
		return nil, err
	}

	start := time.Now()
	callCount := atomic.AddInt64(&r.callCount, 1)
	bucket := r.buckets.get(spec.Method, spec.URL)

	var last *Response
	attempts := 0
	for attempt := 0; attempt < r.config.MaxAttempts; attempt++ {
		if err := bucket.wait(ctx); err != nil {
			return nil, NewTransportError("canceled while rate limited", err)
		}
		if r.limiter != nil {
			if err := r.limiter.Wait(ctx); err != nil {
				return nil, NewTransportError("canceled while pacing", err)
			}
		}

		resp, err := r.do(ctx, spec)
		if err != nil {
			return nil, err
		}
		attempts++
		resp.Stats = Stats{ElapsedTime: time.Since(start), Attempts: attempts, CallCount: callCount}

		if resp.StatusCode == nethttp.StatusTooManyRequests {
			delay := retryAfter(resp.Body)
			r.logResponse(resp)
			bucket.hold(delay)
			attempt--
			continue
		}

		switch classify(resp.StatusCode) {
		case attemptSuccess, attemptClientError:
			r.logResponse(resp)
			return resp, nil
		case attemptServerError:
			last = resp
			if attempt == serverErrorCutoff {
				r.logResponse(resp)
				return resp, nil
			}
		}
	}

	r.logResponse(last)
	return last, nil
}

// do performs exactly one request/response cycle.
func (r *Requester) do(ctx context.Context, spec *RequestSpec) (*Response, error) {
	r.logRequest(spec)

	httpReq, err := r.buildRequest(ctx, spec)
	if err != nil {
		return nil, err
	}

	httpResp, err := r.httpClient.Do(httpReq)
	if err != nil {
		return nil, NewTransportError("request execution failed", err)
	}
	defer httpResp.Body.Close()

	if err := r.runResponseInterceptors(ctx, httpReq, httpResp); err != nil {
		return nil, NewInterceptorError("response interceptor failed", "response", err)
	}

	// Reading the body to completion also drains the connection so it
	// can be reused on retry.
	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, NewTransportError("failed to read response body", err)
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Body:       respBody,
		Headers:    httpResp.Header,
	}, nil
}

func (r *Requester) validateSpec(spec *RequestSpec) error {
	if spec == nil {
		return NewValidationError("request spec cannot be nil", "spec")
	}
	if spec.URL == "" {
		return NewValidationError("URL cannot be empty", "url")
	}
	if !validMethodToken(spec.Method) {
		return NewTransportError("invalid HTTP method token: "+spec.Method, nil)
	}
	return nil
}

func (r *Requester) buildRequest(ctx context.Context, spec *RequestSpec) (*nethttp.Request, error) {
	var body io.Reader
	if spec.Body != "" {
		body = strings.NewReader(spec.Body)
	}

	httpReq, err := nethttp.NewRequestWithContext(ctx, spec.Method, spec.URL, body)
	if err != nil {
		return nil, NewTransportError("failed to create HTTP request", err)
	}

	httpReq.Header.Set("User-Agent", r.config.UserAgent)
	for key, value := range r.config.DefaultHeaders {
		httpReq.Header.Set(key, value)
	}
	for key, value := range spec.Headers {
		httpReq.Header.Set(key, value)
	}
	if spec.Body != "" && httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	if err := r.runRequestInterceptors(ctx, httpReq); err != nil {
		return nil, NewInterceptorError("request interceptor failed", "request", err)
	}
	return httpReq, nil
}

func (r *Requester) runRequestInterceptors(ctx context.Context, req *nethttp.Request) error {
	for _, interceptor := range r.requestInterceptors {
		if err := interceptor(ctx, req); err != nil {
			return err
		}
	}
	return nil
}

func (r *Requester) runResponseInterceptors(ctx context.Context, req *nethttp.Request, resp *nethttp.Response) error {
	for _, interceptor := range r.responseInterceptors {
		if err := interceptor(ctx, req, resp); err != nil {
			return err
		}
	}
	return nil
}

func (r *Requester) logRequest(spec *RequestSpec) {
	if r.logger == nil {
		return
	}
	r.logger.Debug().
		Str("direction", "outbound").
		Str("method", spec.Method).
		Str("url", spec.URL).
		Msg("REST request")
}

func (r *Requester) logResponse(resp *Response) {
	if r.logger == nil || resp == nil {
		return
	}
	r.logger.Debug().
		Str("direction", "inbound").
		Int("status", resp.StatusCode).
		Int("attempts", resp.Stats.Attempts).
		Dur("elapsed", resp.Stats.ElapsedTime).
		Msg("REST response")
}
