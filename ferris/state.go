package ferris

import "sync"

// DefaultMaxMessages bounds the message buffer when the configuration
// does not say otherwise.
const DefaultMaxMessages = 1000

// State is the client's in-memory object cache. All methods are safe
// for concurrent use.
type State struct {
	mu          sync.RWMutex
	users       map[string]*User
	guilds      map[string]*Guild
	channels    map[string]*Channel
	messages    []*Message
	maxMessages int
}

// NewState creates a cache whose message buffer holds at most
// maxMessages entries; values below 1 fall back to DefaultMaxMessages.
func NewState(maxMessages int) *State {
	if maxMessages < 1 {
		maxMessages = DefaultMaxMessages
	}
	s := &State{maxMessages: maxMessages}
	s.Clear()
	return s
}

// Clear drops every cached object.
func (s *State) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = make(map[string]*User)
	s.guilds = make(map[string]*Guild)
	s.channels = make(map[string]*Channel)
	s.messages = nil
}

// StoreUser caches a user.
func (s *State) StoreUser(u *User) {
	if u == nil || u.ID.IsZero() {
		return
	}
	s.mu.Lock()
	s.users[u.ID.String()] = u
	s.mu.Unlock()
}

// StoreGuild caches a guild.
func (s *State) StoreGuild(g *Guild) {
	if g == nil || g.ID.IsZero() {
		return
	}
	s.mu.Lock()
	s.guilds[g.ID.String()] = g
	s.mu.Unlock()
}

// StoreChannel caches a channel.
func (s *State) StoreChannel(c *Channel) {
	if c == nil || c.ID.IsZero() {
		return
	}
	s.mu.Lock()
	s.channels[c.ID.String()] = c
	s.mu.Unlock()
}

// StoreMessage appends a message to the bounded buffer, evicting the
// oldest entry when full.
func (s *State) StoreMessage(m *Message) {
	if m == nil {
		return
	}
	s.mu.Lock()
	if len(s.messages) >= s.maxMessages {
		s.messages = s.messages[1:]
	}
	s.messages = append(s.messages, m)
	s.mu.Unlock()
}

// DerefUser drops a user from the cache.
func (s *State) DerefUser(id Snowflake) {
	s.mu.Lock()
	delete(s.users, id.String())
	s.mu.Unlock()
}

// DerefChannel drops a channel from the cache.
func (s *State) DerefChannel(id Snowflake) {
	s.mu.Lock()
	delete(s.channels, id.String())
	s.mu.Unlock()
}

// GetUser returns the cached user with the given ID, or nil.
func (s *State) GetUser(id Snowflake) *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.users[id.String()]
}

// GetGuild returns the cached guild with the given ID, or nil.
func (s *State) GetGuild(id Snowflake) *Guild {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.guilds[id.String()]
}

// GetChannel returns the cached channel with the given ID, or nil.
func (s *State) GetChannel(id Snowflake) *Channel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.channels[id.String()]
}

// GetMessage returns the buffered message with the given ID, or nil.
func (s *State) GetMessage(id Snowflake) *Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := len(s.messages) - 1; i >= 0; i-- {
		if s.messages[i].ID == id {
			return s.messages[i]
		}
	}
	return nil
}
