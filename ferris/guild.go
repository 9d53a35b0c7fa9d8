package ferris

import (
	"context"
	"encoding/json"
	"fmt"
)

// Guild is a FerrisChat guild.
type Guild struct {
	client *Client

	ID       Snowflake  `json:"id"`
	OwnerID  Snowflake  `json:"owner_id"`
	Name     string     `json:"name"`
	Flags    GuildFlags `json:"flags"`
	Channels []*Channel `json:"channels"`
	Members  []*Member  `json:"members"`
}

// bind attaches the guild and its nested objects to the client and
// caches them.
func (g *Guild) bind(c *Client) {
	g.client = c
	for _, ch := range g.Channels {
		ch.bind(c)
	}
	for _, m := range g.Members {
		m.bind(c)
	}
	c.state.StoreGuild(g)
}

// Channel returns the loaded channel with the given ID, or nil.
func (g *Guild) Channel(id Snowflake) *Channel {
	for _, ch := range g.Channels {
		if ch.ID == id {
			return ch
		}
	}
	return nil
}

// Member returns the loaded member with the given user ID, or nil.
func (g *Guild) Member(id Snowflake) *Member {
	for _, m := range g.Members {
		if m.UserID == id {
			return m
		}
	}
	return nil
}

// CreateChannel creates a text channel in this guild.
func (g *Guild) CreateChannel(ctx context.Context, name string) (*Channel, error) {
	route := g.client.route("guilds").Join(g.ID.String()).Join("channels")
	body, err := g.client.request(ctx, "POST", route.String(), map[string]any{"name": name})
	if err != nil {
		return nil, err
	}
	ch, err := decodeChannel(body)
	if err != nil {
		return nil, err
	}
	ch.bind(g.client)
	return ch, nil
}

// FetchChannel fetches a channel that belongs to this guild.
func (g *Guild) FetchChannel(ctx context.Context, id Snowflake) (*Channel, error) {
	route := g.client.route("guilds").Join(g.ID.String()).Join("channels").Join(id.String())
	body, err := g.client.request(ctx, "GET", route.String(), nil)
	if err != nil {
		return nil, err
	}
	ch, err := decodeChannel(body)
	if err != nil {
		return nil, err
	}
	ch.bind(g.client)
	return ch, nil
}

// CreateRole creates a role in this guild.
func (g *Guild) CreateRole(ctx context.Context, name string) (*Role, error) {
	route := g.client.route("guilds").Join(g.ID.String()).Join("roles")
	body, err := g.client.request(ctx, "POST", route.String(), map[string]any{"name": name})
	if err != nil {
		return nil, err
	}
	r := Role{}
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, err
	}
	r.bind(g.client)
	return &r, nil
}

// CreateInvite creates an invite to this guild.
func (g *Guild) CreateInvite(ctx context.Context) (*Invite, error) {
	route := g.client.route("guilds").Join(g.ID.String()).Join("invites")
	body, err := g.client.request(ctx, "POST", route.String(), nil)
	if err != nil {
		return nil, err
	}
	inv := Invite{}
	if err := json.Unmarshal(body, &inv); err != nil {
		return nil, err
	}
	inv.bind(g.client)
	return &inv, nil
}

// Delete deletes this guild.
func (g *Guild) Delete(ctx context.Context) error {
	route := g.client.route("guilds").Join(g.ID.String())
	_, err := g.client.request(ctx, "DELETE", route.String(), nil)
	return err
}

func (g *Guild) String() string {
	return g.Name
}

// GoString makes debug output readable without dumping nested slices.
func (g *Guild) GoString() string {
	return fmt.Sprintf("Guild{ID: %s, Name: %q, OwnerID: %s}", g.ID, g.Name, g.OwnerID)
}
