package ferris

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"sync"

	"github.com/ferrischat/ferrisgo/config"
	"github.com/ferrischat/ferrisgo/logger"
	"github.com/ferrischat/ferrisgo/rest"
)

// EventHandler receives dispatched client events.
type EventHandler func(ctx context.Context, data any)

// Lifecycle events the client dispatches itself. Gateway events reuse
// the same registry.
const (
	EventLogin = "login"
)

// Client is a FerrisChat API client.
type Client struct {
	cfg    *config.Config
	log    logger.Logger
	rest   rest.Client
	router *rest.Router
	state  *State

	mu       sync.RWMutex
	token    string
	handlers map[string][]EventHandler
}

// New creates a client from configuration. The requester inherits the
// configured identity, timeout, retry budget, and pacing.
func New(cfg *config.Config, log logger.Logger) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if log == nil {
		log = logger.Disabled()
	}

	requester, err := rest.NewBuilder(cfg.API.UserAgent, log).
		WithTimeout(cfg.HTTP.Timeout).
		WithMaxAttempts(cfg.HTTP.MaxAttempts).
		WithRateLimit(cfg.HTTP.Rate.Limit, cfg.HTTP.Rate.Burst).
		WithRequestInterceptor(rest.RequestIDInterceptor()).
		Build()
	if err != nil {
		return nil, err
	}

	return &Client{
		cfg:      cfg,
		log:      log,
		rest:     requester,
		router:   rest.NewRouter(cfg.API.BaseURL),
		state:    NewState(cfg.Cache.MaxMessages),
		handlers: make(map[string][]EventHandler),
	}, nil
}

// State exposes the client's object cache.
func (c *Client) State() *State {
	return c.state
}

// On registers a handler for the named event.
func (c *Client) On(event string, handler EventHandler) {
	c.mu.Lock()
	c.handlers[event] = append(c.handlers[event], handler)
	c.mu.Unlock()
}

// dispatch runs every handler registered for event on its own
// goroutine.
func (c *Client) dispatch(ctx context.Context, event string, data any) {
	c.mu.RLock()
	handlers := c.handlers[event]
	c.mu.RUnlock()
	for _, h := range handlers {
		go h(ctx, data)
	}
}

// StartWithToken authenticates the client with an existing API token.
func (c *Client) StartWithToken(ctx context.Context, token string) error {
	if token == "" {
		return fmt.Errorf("token cannot be empty")
	}
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()

	c.log.Info().Str("base_url", c.cfg.API.BaseURL).Msg("client started")
	c.dispatch(ctx, EventLogin, c)
	return nil
}

// StartWithCredentials exchanges an email/password pair for a token via
// POST /auth/{id} and authenticates with it.
func (c *Client) StartWithCredentials(ctx context.Context, email, password string, id Snowflake) error {
	if email == "" || password == "" {
		return fmt.Errorf("email and password cannot be empty")
	}

	route := c.route("auth").Join(id.String())
	spec := &rest.RequestSpec{
		URL:    route.String(),
		Method: "POST",
		Headers: map[string]string{
			"Email":    email,
			"Password": password,
		},
	}

	resp, err := c.rest.DoWithRetry(ctx, spec)
	if err != nil {
		return err
	}
	if !rest.IsSuccessStatus(resp.StatusCode) {
		return apiErrorFromResponse(resp)
	}

	var payload struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(resp.Body, &payload); err != nil {
		return fmt.Errorf("failed to decode auth response: %w", err)
	}
	if payload.Token == "" {
		return fmt.Errorf("auth response carried no token")
	}

	return c.StartWithToken(ctx, payload.Token)
}

// Token returns the token the client authenticated with.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// CreateGuild creates a new guild.
func (c *Client) CreateGuild(ctx context.Context, name string) (*Guild, error) {
	body, err := c.request(ctx, "POST", c.route("guilds").String(), map[string]any{"name": name})
	if err != nil {
		return nil, err
	}
	return c.decodeGuild(body)
}

// FetchGuildOptions controls what FetchGuild loads alongside the guild.
type FetchGuildOptions struct {
	Members  bool
	Channels bool
}

// FetchGuild fetches a guild by ID. By default channels are included
// and members are not, matching the API's defaults.
func (c *Client) FetchGuild(ctx context.Context, id Snowflake, opts *FetchGuildOptions) (*Guild, error) {
	if opts == nil {
		opts = &FetchGuildOptions{Channels: true}
	}
	query := url.Values{}
	query.Set("members", strconv.FormatBool(opts.Members))
	query.Set("channels", strconv.FormatBool(opts.Channels))

	target := c.route("guilds").Join(id.String()).String() + "?" + query.Encode()
	body, err := c.request(ctx, "GET", target, nil)
	if err != nil {
		return nil, err
	}
	return c.decodeGuild(body)
}

// FetchChannel fetches a channel by ID.
func (c *Client) FetchChannel(ctx context.Context, id Snowflake) (*Channel, error) {
	body, err := c.request(ctx, "GET", c.route("channels").Join(id.String()).String(), nil)
	if err != nil {
		return nil, err
	}
	ch, err := decodeChannel(body)
	if err != nil {
		return nil, err
	}
	ch.bind(c)
	return ch, nil
}

// FetchMessage fetches a message by ID.
func (c *Client) FetchMessage(ctx context.Context, id Snowflake) (*Message, error) {
	body, err := c.request(ctx, "GET", c.route("messages").Join(id.String()).String(), nil)
	if err != nil {
		return nil, err
	}
	m, err := decodeMessage(body)
	if err != nil {
		return nil, err
	}
	m.bind(c)
	return m, nil
}

// FetchUser fetches a user by ID.
func (c *Client) FetchUser(ctx context.Context, id Snowflake) (*User, error) {
	body, err := c.request(ctx, "GET", c.route("users").Join(id.String()).String(), nil)
	if err != nil {
		return nil, err
	}
	u, err := decodeUser(body)
	if err != nil {
		return nil, err
	}
	u.bind(c)
	return u, nil
}

// FetchInvite fetches an invite by code.
func (c *Client) FetchInvite(ctx context.Context, code string) (*Invite, error) {
	body, err := c.request(ctx, "GET", c.route("invites").Join(code).String(), nil)
	if err != nil {
		return nil, err
	}
	var inv Invite
	if err := json.Unmarshal(body, &inv); err != nil {
		return nil, err
	}
	inv.bind(c)
	return &inv, nil
}

// GetGuild returns a guild from the cache, or nil.
func (c *Client) GetGuild(id Snowflake) *Guild {
	return c.state.GetGuild(id)
}

// GetChannel returns a channel from the cache, or nil.
func (c *Client) GetChannel(id Snowflake) *Channel {
	return c.state.GetChannel(id)
}

// GetUser returns a user from the cache, or nil.
func (c *Client) GetUser(id Snowflake) *User {
	return c.state.GetUser(id)
}

// GetMessage returns a message from the cache, or nil.
func (c *Client) GetMessage(id Snowflake) *Message {
	return c.state.GetMessage(id)
}

// route starts an endpoint route from the configured base URL.
func (c *Client) route(segments ...string) rest.Route {
	return c.router.Route(segments...)
}

// request performs an authenticated API call and returns the success
// body; terminal non-success responses come back as typed API errors.
func (c *Client) request(ctx context.Context, method, target string, payload any) ([]byte, error) {
	var body string
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request payload: %w", err)
		}
		body = string(raw)
	}

	spec := &rest.RequestSpec{
		URL:     target,
		Method:  method,
		Body:    body,
		Headers: c.authHeaders(),
	}

	resp, err := c.rest.DoWithRetry(ctx, spec)
	if err != nil {
		return nil, err
	}
	if !rest.IsSuccessStatus(resp.StatusCode) {
		return nil, apiErrorFromResponse(resp)
	}
	return resp.Body, nil
}

func (c *Client) authHeaders() map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.token == "" {
		return nil
	}
	return map[string]string{"Authorization": c.token}
}

func (c *Client) decodeGuild(body []byte) (*Guild, error) {
	var g Guild
	if err := json.Unmarshal(body, &g); err != nil {
		return nil, err
	}
	g.bind(c)
	return &g, nil
}
