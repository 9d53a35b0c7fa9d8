package ferris

import (
	"context"
	"encoding/json"
)

// Message is a message sent to a channel.
type Message struct {
	client *Client

	ID        Snowflake `json:"id"`
	Content   string    `json:"content"`
	ChannelID Snowflake `json:"channel_id"`
	AuthorID  Snowflake `json:"author_id"`
}

func (m *Message) bind(c *Client) {
	m.client = c
	c.state.StoreMessage(m)
}

// Channel returns the cached channel this message was sent to, or nil.
func (m *Message) Channel() *Channel {
	return m.client.state.GetChannel(m.ChannelID)
}

// Author returns the cached author, or nil.
func (m *Message) Author() *User {
	return m.client.state.GetUser(m.AuthorID)
}

// Delete deletes this message.
func (m *Message) Delete(ctx context.Context) error {
	route := m.client.route("messages").Join(m.ID.String())
	_, err := m.client.request(ctx, "DELETE", route.String(), nil)
	return err
}

func decodeMessage(body []byte) (*Message, error) {
	var m Message
	if err := json.Unmarshal(body, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
