package rest

import (
	"context"
	nethttp "net/http"
	"time"
)

// Client is the outbound HTTP contract the SDK builds on.
type Client interface {
	// ExecuteWithRetry runs the bare status-classification retry loop
	// and reduces the exchange to a two-variant outcome.
	ExecuteWithRetry(ctx context.Context, spec *RequestSpec) (Outcome, error)
	// DoWithRetry runs the same loop but returns the full terminal
	// response, waiting out 429 rate-limit buckets along the way.
	DoWithRetry(ctx context.Context, spec *RequestSpec) (*Response, error)
}

// RequestSpec describes a single HTTP exchange. It is not mutated by
// the requester.
type RequestSpec struct {
	URL     string
	Method  string
	Body    string
	Headers map[string]string
}

// Response is the terminal response of a retried exchange.
type Response struct {
	StatusCode int
	Body       []byte
	Headers    nethttp.Header
	Stats      Stats
}

// Stats contains request execution statistics.
type Stats struct {
	ElapsedTime time.Duration
	Attempts    int
	CallCount   int64
}

// Outcome is the result of ExecuteWithRetry: exactly one of a success
// body or a terminal non-success status code.
type Outcome struct {
	body   string
	status uint16
	isBody bool
}

// BodyOutcome wraps a successful response payload.
func BodyOutcome(text string) Outcome {
	return Outcome{body: text, isBody: true}
}

// StatusOutcome wraps a terminal non-success status code.
func StatusOutcome(code uint16) Outcome {
	return Outcome{status: code}
}

// IsBody reports whether the outcome carries a response body.
func (o Outcome) IsBody() bool {
	return o.isBody
}

// Body returns the response payload of a success outcome.
func (o Outcome) Body() string {
	return o.body
}

// Status returns the terminal status code of a non-success outcome.
func (o Outcome) Status() uint16 {
	return o.status
}

// RequestInterceptor is called on the built request before it is sent.
type RequestInterceptor func(ctx context.Context, req *nethttp.Request) error

// ResponseInterceptor is called after a response is received.
type ResponseInterceptor func(ctx context.Context, req *nethttp.Request, resp *nethttp.Response) error

// Config holds the requester configuration.
type Config struct {
	UserAgent            string
	Timeout              time.Duration
	MaxAttempts          int
	RateLimit            float64
	RateBurst            int
	DefaultHeaders       map[string]string
	RequestInterceptors  []RequestInterceptor
	ResponseInterceptors []ResponseInterceptor
}
