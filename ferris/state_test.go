package ferris

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateStoreAndGet(t *testing.T) {
	s := NewState(10)

	u := &User{ID: NewSnowflake(0, 1), Name: "ferris"}
	g := &Guild{ID: NewSnowflake(0, 2), Name: "The Burrow"}
	ch := &Channel{ID: NewSnowflake(0, 3), Name: "general"}

	s.StoreUser(u)
	s.StoreGuild(g)
	s.StoreChannel(ch)

	assert.Same(t, u, s.GetUser(u.ID))
	assert.Same(t, g, s.GetGuild(g.ID))
	assert.Same(t, ch, s.GetChannel(ch.ID))
	assert.Nil(t, s.GetUser(NewSnowflake(0, 99)))
}

func TestStateIgnoresNilAndZeroIDs(t *testing.T) {
	s := NewState(10)
	s.StoreUser(nil)
	s.StoreUser(&User{Name: "no id"})
	s.StoreGuild(nil)
	s.StoreChannel(nil)
	s.StoreMessage(nil)
	assert.Nil(t, s.GetUser(Snowflake{}))
}

func TestStateDeref(t *testing.T) {
	s := NewState(10)
	u := &User{ID: NewSnowflake(0, 1)}
	ch := &Channel{ID: NewSnowflake(0, 2)}
	s.StoreUser(u)
	s.StoreChannel(ch)

	s.DerefUser(u.ID)
	s.DerefChannel(ch.ID)
	assert.Nil(t, s.GetUser(u.ID))
	assert.Nil(t, s.GetChannel(ch.ID))
}

func TestStateMessageBufferEvictsOldest(t *testing.T) {
	s := NewState(3)
	for i := 1; i <= 4; i++ {
		s.StoreMessage(&Message{
			ID:      NewSnowflake(0, uint64(i)),
			Content: fmt.Sprintf("message %d", i),
		})
	}

	assert.Nil(t, s.GetMessage(NewSnowflake(0, 1)), "oldest message evicted")
	for i := 2; i <= 4; i++ {
		assert.NotNil(t, s.GetMessage(NewSnowflake(0, uint64(i))))
	}
}

func TestStateClear(t *testing.T) {
	s := NewState(10)
	s.StoreUser(&User{ID: NewSnowflake(0, 1)})
	s.StoreMessage(&Message{ID: NewSnowflake(0, 2)})

	s.Clear()
	assert.Nil(t, s.GetUser(NewSnowflake(0, 1)))
	assert.Nil(t, s.GetMessage(NewSnowflake(0, 2)))
}
