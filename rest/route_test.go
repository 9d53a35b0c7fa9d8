package rest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRouterDefaults(t *testing.T) {
	r := NewRouter("")
	assert.Equal(t, DefaultBaseURL+"/guilds", r.Route("guilds").String())
}

func TestRouterTrimsTrailingSlash(t *testing.T) {
	r := NewRouter("https://example.test/v0/")
	assert.Equal(t, "https://example.test/v0/users", r.Route("users").String())
}

func TestRouteChaining(t *testing.T) {
	r := NewRouter("https://example.test/v0")

	rt := r.Route("guilds").ID(123).Join("channels").ID(456)
	assert.Equal(t, "https://example.test/v0/guilds/123/channels/456", rt.String())

	// Chaining must not mutate the parent route.
	base := r.Route("guilds")
	_ = base.ID(1)
	assert.Equal(t, "https://example.test/v0/guilds", base.String())
}

func TestRouteEscapesSegments(t *testing.T) {
	r := NewRouter("https://example.test/v0")
	rt := r.Route("invites").Join("a b/c")
	assert.Equal(t, "https://example.test/v0/invites/a%20b%2Fc", rt.String())
}
