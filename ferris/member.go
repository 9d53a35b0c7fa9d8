package ferris

import "context"

// Member is a user's membership in a guild.
type Member struct {
	client *Client

	UserID  Snowflake `json:"user_id"`
	GuildID Snowflake `json:"guild_id"`
	User    *User     `json:"user"`
}

func (m *Member) bind(c *Client) {
	m.client = c
	if m.User != nil {
		m.User.bind(c)
	}
}

// Guild returns the cached guild this member belongs to, or nil.
func (m *Member) Guild() *Guild {
	return m.client.state.GetGuild(m.GuildID)
}

// Kick removes this member from its guild.
func (m *Member) Kick(ctx context.Context) error {
	route := m.client.route("guilds").Join(m.GuildID.String()).Join("members").Join(m.UserID.String())
	_, err := m.client.request(ctx, "DELETE", route.String(), nil)
	return err
}
