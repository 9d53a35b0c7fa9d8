package ferris

import (
	"context"
	"encoding/json"
)

// Channel is a text channel in a guild.
type Channel struct {
	client *Client

	ID      Snowflake `json:"id"`
	Name    string    `json:"name"`
	GuildID Snowflake `json:"guild_id"`
}

func (ch *Channel) bind(c *Client) {
	ch.client = c
	c.state.StoreChannel(ch)
}

// Guild returns the cached guild this channel belongs to, or nil when
// it has not been loaded.
func (ch *Channel) Guild() *Guild {
	return ch.client.state.GetGuild(ch.GuildID)
}

// Send sends a message to this channel.
func (ch *Channel) Send(ctx context.Context, content string) (*Message, error) {
	route := ch.client.route("channels").Join(ch.ID.String()).Join("messages")
	body, err := ch.client.request(ctx, "POST", route.String(), map[string]any{"content": content})
	if err != nil {
		return nil, err
	}
	m, err := decodeMessage(body)
	if err != nil {
		return nil, err
	}
	m.bind(ch.client)
	return m, nil
}

// FetchMessage fetches a message by ID.
func (ch *Channel) FetchMessage(ctx context.Context, id Snowflake) (*Message, error) {
	return ch.client.FetchMessage(ctx, id)
}

// Delete deletes this channel.
func (ch *Channel) Delete(ctx context.Context) error {
	route := ch.client.route("channels").Join(ch.ID.String())
	_, err := ch.client.request(ctx, "DELETE", route.String(), nil)
	return err
}

func decodeChannel(body []byte) (*Channel, error) {
	var ch Channel
	if err := json.Unmarshal(body, &ch); err != nil {
		return nil, err
	}
	return &ch, nil
}
