package rest

import (
	"net/url"
	"strconv"
	"strings"
)

// DefaultBaseURL is the root of the FerrisChat API.
const DefaultBaseURL = "https://api.ferris.chat/v0"

// Router builds absolute endpoint URLs by chaining path segments onto
// an API base URL. Routes are values; chaining never mutates the
// receiver.
type Router struct {
	base string
}

// NewRouter creates a router over base, falling back to DefaultBaseURL
// when base is empty.
func NewRouter(base string) *Router {
	if base == "" {
		base = DefaultBaseURL
	}
	return &Router{base: strings.TrimRight(base, "/")}
}

// Route starts a route from the base URL with the given path segments.
func (r *Router) Route(segments ...string) Route {
	rt := Route{url: r.base}
	for _, seg := range segments {
		rt = rt.Join(seg)
	}
	return rt
}

// Route is a URL under the API base, extended one segment at a time.
type Route struct {
	url string
}

// Join appends a path segment, escaping it.
func (rt Route) Join(segment string) Route {
	return Route{url: rt.url + "/" + url.PathEscape(segment)}
}

// ID appends a snowflake segment.
func (rt Route) ID(id uint64) Route {
	return Route{url: rt.url + "/" + strconv.FormatUint(id, 10)}
}

// String returns the absolute URL.
func (rt Route) String() string {
	return rt.url
}
