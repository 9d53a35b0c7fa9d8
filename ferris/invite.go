package ferris

import "time"

// Invite is an invitation to join a guild.
type Invite struct {
	client *Client

	Code    string    `json:"code"`
	OwnerID Snowflake `json:"owner_id"`
	GuildID Snowflake `json:"guild_id"`
	// CreatedAtOffset is seconds since the Ferris epoch.
	CreatedAtOffset int64 `json:"created_at"`
	Uses            int   `json:"uses"`
	MaxUses         int   `json:"max_uses"`
	MaxAge          int64 `json:"max_age"`
}

func (i *Invite) bind(c *Client) {
	i.client = c
}

// CreatedAt returns the creation time of the invite.
func (i *Invite) CreatedAt() time.Time {
	return time.Unix(i.CreatedAtOffset+ferrisEpochMS/1000, 0).UTC()
}

// Guild returns the cached guild this invite is for, or nil.
func (i *Invite) Guild() *Guild {
	return i.client.state.GetGuild(i.GuildID)
}

// Owner returns the invite's creator: the guild member when the guild
// is loaded, otherwise the cached user, otherwise nil.
func (i *Invite) Owner() *User {
	if g := i.Guild(); g != nil {
		if m := g.Member(i.OwnerID); m != nil && m.User != nil {
			return m.User
		}
	}
	return i.client.state.GetUser(i.OwnerID)
}
