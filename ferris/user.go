package ferris

import "encoding/json"

// PartialUser is the slim user shape some payloads embed.
type PartialUser struct {
	ID   Snowflake `json:"id"`
	Name string    `json:"name"`
}

// User is a FerrisChat user.
type User struct {
	client *Client

	ID     Snowflake `json:"id"`
	Name   string    `json:"name"`
	Flags  UserFlags `json:"flags"`
	Guilds []*Guild  `json:"guilds"`
}

func (u *User) bind(c *Client) {
	u.client = c
	for _, g := range u.Guilds {
		g.bind(c)
	}
	c.state.StoreUser(u)
}

func (u *User) String() string {
	return u.Name
}

func decodeUser(body []byte) (*User, error) {
	var u User
	if err := json.Unmarshal(body, &u); err != nil {
		return nil, err
	}
	return &u, nil
}
