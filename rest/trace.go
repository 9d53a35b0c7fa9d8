package rest

import (
	"context"
	nethttp "net/http"

	"github.com/google/uuid"
)

// HeaderXRequestID is the header each outbound request is stamped with.
const HeaderXRequestID = "X-Request-ID"

// RequestIDInterceptor returns a request interceptor that assigns a
// unique request ID to every outbound call, preserving one already set
// by the caller.
func RequestIDInterceptor() RequestInterceptor {
	return func(_ context.Context, req *nethttp.Request) error {
		if req.Header.Get(HeaderXRequestID) == "" {
			req.Header.Set(HeaderXRequestID, uuid.New().String())
		}
		return nil
	}
}
