package ferris

import (
	"context"
	"encoding/json"
)

// Role is a guild role.
type Role struct {
	client *Client

	ID          Snowflake `json:"id"`
	GuildID     Snowflake `json:"guild_id"`
	Name        string    `json:"name"`
	Color       int       `json:"color"`
	Position    int       `json:"position"`
	Permissions uint64    `json:"permissions"`
}

func (r *Role) bind(c *Client) {
	r.client = c
}

// Guild returns the cached guild this role belongs to, or nil.
func (r *Role) Guild() *Guild {
	return r.client.state.GetGuild(r.GuildID)
}

// RoleEdit describes the fields Role.Edit changes. Nil fields are left
// untouched.
type RoleEdit struct {
	Name        *string `json:"name,omitempty"`
	Color       *int    `json:"color,omitempty"`
	Position    *int    `json:"position,omitempty"`
	Permissions *uint64 `json:"permissions,omitempty"`
}

// Edit updates the role and refreshes it in place from the response.
func (r *Role) Edit(ctx context.Context, edit RoleEdit) error {
	route := r.client.route("guilds").Join(r.GuildID.String()).Join("roles").Join(r.ID.String())
	body, err := r.client.request(ctx, "PATCH", route.String(), edit)
	if err != nil {
		return err
	}
	updated := Role{client: r.client}
	if err := json.Unmarshal(body, &updated); err != nil {
		return err
	}
	*r = updated
	return nil
}

// Delete deletes the role.
func (r *Role) Delete(ctx context.Context) error {
	route := r.client.route("guilds").Join(r.GuildID.String()).Join("roles").Join(r.ID.String())
	_, err := r.client.request(ctx, "DELETE", route.String(), nil)
	return err
}
