package ferris

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferrischat/ferrisgo/config"
	"github.com/ferrischat/ferrisgo/logger"
	"github.com/ferrischat/ferrisgo/rest"
)

// fakeRest scripts responses for the client without any network.
type fakeRest struct {
	mu      sync.Mutex
	calls   []rest.RequestSpec
	respond func(spec *rest.RequestSpec) (*rest.Response, error)
}

func (f *fakeRest) DoWithRetry(_ context.Context, spec *rest.RequestSpec) (*rest.Response, error) {
	f.mu.Lock()
	f.calls = append(f.calls, *spec)
	f.mu.Unlock()
	return f.respond(spec)
}

func (f *fakeRest) ExecuteWithRetry(ctx context.Context, spec *rest.RequestSpec) (rest.Outcome, error) {
	resp, err := f.DoWithRetry(ctx, spec)
	if err != nil {
		return rest.Outcome{}, err
	}
	if rest.IsSuccessStatus(resp.StatusCode) {
		return rest.BodyOutcome(string(resp.Body)), nil
	}
	return rest.StatusOutcome(uint16(resp.StatusCode)), nil
}

func (f *fakeRest) lastCall() rest.RequestSpec {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}

func jsonResponse(status int, body string) (*rest.Response, error) {
	return &rest.Response{StatusCode: status, Body: []byte(body)}, nil
}

func newTestClient(t *testing.T, respond func(spec *rest.RequestSpec) (*rest.Response, error)) (*Client, *fakeRest) {
	t.Helper()
	cfg, err := config.LoadBytes([]byte("api:\n  base_url: https://example.test/v0\n"))
	require.NoError(t, err)

	c, err := New(cfg, logger.Disabled())
	require.NoError(t, err)

	fake := &fakeRest{respond: respond}
	c.rest = fake
	return c, fake
}

func TestNewRequiresConfig(t *testing.T) {
	_, err := New(nil, logger.Disabled())
	assert.Error(t, err)
}

func TestStartWithTokenSetsAuthorization(t *testing.T) {
	c, fake := newTestClient(t, func(*rest.RequestSpec) (*rest.Response, error) {
		return jsonResponse(200, `{"id":1,"name":"g","owner_id":2}`)
	})
	require.NoError(t, c.StartWithToken(context.Background(), "tok-123"))
	assert.Equal(t, "tok-123", c.Token())

	_, err := c.CreateGuild(context.Background(), "g")
	require.NoError(t, err)
	assert.Equal(t, "tok-123", fake.lastCall().Headers["Authorization"])
}

func TestStartWithTokenRejectsEmpty(t *testing.T) {
	c, _ := newTestClient(t, nil)
	assert.Error(t, c.StartWithToken(context.Background(), ""))
}

func TestStartWithTokenDispatchesLogin(t *testing.T) {
	c, _ := newTestClient(t, nil)

	got := make(chan any, 1)
	c.On(EventLogin, func(_ context.Context, data any) {
		got <- data
	})

	require.NoError(t, c.StartWithToken(context.Background(), "tok"))
	select {
	case data := <-got:
		assert.Same(t, c, data)
	case <-time.After(time.Second):
		t.Fatal("login event never dispatched")
	}
}

func TestStartWithCredentials(t *testing.T) {
	c, fake := newTestClient(t, func(spec *rest.RequestSpec) (*rest.Response, error) {
		return jsonResponse(200, `{"token":"issued-token"}`)
	})

	id := NewSnowflake(0, 77)
	require.NoError(t, c.StartWithCredentials(context.Background(), "crab@ferris.chat", "pincers", id))
	assert.Equal(t, "issued-token", c.Token())

	call := fake.lastCall()
	assert.Equal(t, "POST", call.Method)
	assert.Equal(t, "https://example.test/v0/auth/77", call.URL)
	assert.Equal(t, "crab@ferris.chat", call.Headers["Email"])
	assert.Equal(t, "pincers", call.Headers["Password"])
}

func TestStartWithCredentialsUnauthorized(t *testing.T) {
	c, _ := newTestClient(t, func(*rest.RequestSpec) (*rest.Response, error) {
		return jsonResponse(401, "bad credentials")
	})
	err := c.StartWithCredentials(context.Background(), "crab@ferris.chat", "wrong", Snowflake{})
	assert.True(t, IsUnauthorized(err))
	assert.Empty(t, c.Token())
}

func TestStartWithCredentialsValidation(t *testing.T) {
	c, _ := newTestClient(t, nil)
	assert.Error(t, c.StartWithCredentials(context.Background(), "", "pw", Snowflake{}))
	assert.Error(t, c.StartWithCredentials(context.Background(), "a@b.c", "", Snowflake{}))
}

func TestCreateGuildBindsAndCaches(t *testing.T) {
	c, fake := newTestClient(t, func(*rest.RequestSpec) (*rest.Response, error) {
		return jsonResponse(200, `{
			"id": 10, "owner_id": 1, "name": "The Burrow",
			"channels": [{"id": 20, "name": "general", "guild_id": 10}],
			"members": [{"user_id": 1, "guild_id": 10, "user": {"id": 1, "name": "ferris"}}]
		}`)
	})

	g, err := c.CreateGuild(context.Background(), "The Burrow")
	require.NoError(t, err)

	call := fake.lastCall()
	assert.Equal(t, "POST", call.Method)
	assert.Equal(t, "https://example.test/v0/guilds", call.URL)
	assert.JSONEq(t, `{"name":"The Burrow"}`, call.Body)

	assert.Equal(t, "The Burrow", g.Name)
	require.Len(t, g.Channels, 1)
	require.Len(t, g.Members, 1)

	// Nested objects land in the cache.
	assert.Same(t, g, c.GetGuild(g.ID))
	assert.NotNil(t, c.GetChannel(NewSnowflake(0, 20)))
	assert.NotNil(t, c.GetUser(NewSnowflake(0, 1)))

	assert.Same(t, g.Channels[0], g.Channel(NewSnowflake(0, 20)))
	assert.Same(t, g.Members[0], g.Member(NewSnowflake(0, 1)))
}

func TestFetchGuildQueryFlags(t *testing.T) {
	c, fake := newTestClient(t, func(*rest.RequestSpec) (*rest.Response, error) {
		return jsonResponse(200, `{"id": 10, "owner_id": 1, "name": "g"}`)
	})

	_, err := c.FetchGuild(context.Background(), NewSnowflake(0, 10), nil)
	require.NoError(t, err)
	url := fake.lastCall().URL
	assert.True(t, strings.HasPrefix(url, "https://example.test/v0/guilds/10?"))
	assert.Contains(t, url, "channels=true")
	assert.Contains(t, url, "members=false")

	_, err = c.FetchGuild(context.Background(), NewSnowflake(0, 10), &FetchGuildOptions{Members: true})
	require.NoError(t, err)
	url = fake.lastCall().URL
	assert.Contains(t, url, "members=true")
	assert.Contains(t, url, "channels=false")
}

func TestFetchGuildNotFound(t *testing.T) {
	c, _ := newTestClient(t, func(*rest.RequestSpec) (*rest.Response, error) {
		return jsonResponse(404, `{"reason":"unknown guild"}`)
	})
	_, err := c.FetchGuild(context.Background(), NewSnowflake(0, 10), nil)
	assert.True(t, IsNotFound(err))
}

func TestChannelSend(t *testing.T) {
	c, fake := newTestClient(t, func(*rest.RequestSpec) (*rest.Response, error) {
		return jsonResponse(200, `{"id": 30, "content": "hi", "channel_id": 20, "author_id": 1}`)
	})

	ch := &Channel{client: c, ID: NewSnowflake(0, 20)}
	m, err := ch.Send(context.Background(), "hi")
	require.NoError(t, err)

	call := fake.lastCall()
	assert.Equal(t, "https://example.test/v0/channels/20/messages", call.URL)
	assert.JSONEq(t, `{"content":"hi"}`, call.Body)
	assert.Equal(t, "hi", m.Content)

	// Sent messages enter the bounded buffer.
	assert.Same(t, m, c.GetMessage(m.ID))
}

func TestMessageDelete(t *testing.T) {
	c, fake := newTestClient(t, func(*rest.RequestSpec) (*rest.Response, error) {
		return jsonResponse(200, "{}")
	})

	m := &Message{client: c, ID: NewSnowflake(0, 30)}
	require.NoError(t, m.Delete(context.Background()))

	call := fake.lastCall()
	assert.Equal(t, "DELETE", call.Method)
	assert.Equal(t, "https://example.test/v0/messages/30", call.URL)
}

func TestRoleEdit(t *testing.T) {
	c, fake := newTestClient(t, func(*rest.RequestSpec) (*rest.Response, error) {
		return jsonResponse(200, `{"id": 40, "guild_id": 10, "name": "mods", "color": 255, "position": 2, "permissions": 8}`)
	})

	r := &Role{client: c, ID: NewSnowflake(0, 40), GuildID: NewSnowflake(0, 10), Name: "old"}
	name := "mods"
	color := 255
	require.NoError(t, r.Edit(context.Background(), RoleEdit{Name: &name, Color: &color}))

	call := fake.lastCall()
	assert.Equal(t, "PATCH", call.Method)
	assert.Equal(t, "https://example.test/v0/guilds/10/roles/40", call.URL)
	assert.JSONEq(t, `{"name":"mods","color":255}`, call.Body)

	assert.Equal(t, "mods", r.Name)
	assert.Equal(t, uint64(8), r.Permissions)
}

func TestFetchInvite(t *testing.T) {
	c, fake := newTestClient(t, func(*rest.RequestSpec) (*rest.Response, error) {
		return jsonResponse(200, `{"code":"crab","owner_id":1,"guild_id":10,"created_at":60,"uses":2,"max_uses":5,"max_age":3600}`)
	})

	inv, err := c.FetchInvite(context.Background(), "crab")
	require.NoError(t, err)
	assert.Equal(t, "https://example.test/v0/invites/crab", fake.lastCall().URL)
	assert.Equal(t, "crab", inv.Code)
	assert.Equal(t, 2, inv.Uses)
	assert.Equal(t, FerrisEpoch.Add(time.Minute), inv.CreatedAt())
}

func TestRequestTransportErrorPassesThrough(t *testing.T) {
	c, _ := newTestClient(t, func(*rest.RequestSpec) (*rest.Response, error) {
		return nil, rest.NewTransportError("request execution failed", fmt.Errorf("refused"))
	})
	_, err := c.FetchUser(context.Background(), NewSnowflake(0, 1))
	assert.True(t, rest.IsErrorType(err, rest.TransportError))
}

func TestFetchUserDecodesGuilds(t *testing.T) {
	c, _ := newTestClient(t, func(*rest.RequestSpec) (*rest.Response, error) {
		return jsonResponse(200, `{"id": 1, "name": "ferris", "flags": 513, "guilds": [{"id": 10, "owner_id": 1, "name": "g"}]}`)
	})

	u, err := c.FetchUser(context.Background(), NewSnowflake(0, 1))
	require.NoError(t, err)
	assert.True(t, u.Flags.Has(UserFlagBotAccount))
	assert.True(t, u.Flags.Has(UserFlagDonator))
	require.Len(t, u.Guilds, 1)
	// Embedded guilds are cached too.
	assert.NotNil(t, c.GetGuild(NewSnowflake(0, 10)))
}

func TestBadRequestPayloadDecoding(t *testing.T) {
	c, _ := newTestClient(t, func(*rest.RequestSpec) (*rest.Response, error) {
		return jsonResponse(400, `{"reason":"name too long","location":{"line":1,"character":8}}`)
	})
	_, err := c.CreateGuild(context.Background(), strings.Repeat("x", 500))
	var badReq *BadRequestError
	require.ErrorAs(t, err, &badReq)
	assert.Equal(t, "name too long", badReq.Reason)
	assert.Equal(t, 1, badReq.Line)
}

func TestRequestPayloadEncoding(t *testing.T) {
	c, fake := newTestClient(t, func(*rest.RequestSpec) (*rest.Response, error) {
		return jsonResponse(200, `{"id":1,"owner_id":1,"name":"g"}`)
	})

	_, err := c.CreateGuild(context.Background(), "g")
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(fake.lastCall().Body), &decoded))
	assert.Equal(t, "g", decoded["name"])
}
