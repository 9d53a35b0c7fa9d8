package ferris

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnowflakeCreatedAt(t *testing.T) {
	// Upper half carries milliseconds since the Ferris epoch.
	s := NewSnowflake(1500, 7)
	assert.Equal(t, FerrisEpoch.Add(1500*time.Millisecond), s.CreatedAt())
}

func TestSnowflakeFromTime(t *testing.T) {
	at := FerrisEpoch.Add(42 * time.Second)
	s := SnowflakeFromTime(at)
	assert.Equal(t, at, s.CreatedAt())

	// Before the epoch clamps to it.
	before := SnowflakeFromTime(FerrisEpoch.Add(-time.Hour))
	assert.Equal(t, FerrisEpoch, before.CreatedAt())
}

func TestSnowflakeStringRoundTrip(t *testing.T) {
	s := NewSnowflake(123456789, 987654321)
	parsed, err := ParseSnowflake(s.String())
	require.NoError(t, err)
	assert.Equal(t, s, parsed)
}

func TestParseSnowflakeRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "abc", "-5", "12.5"} {
		_, err := ParseSnowflake(in)
		assert.Error(t, err, "input %q", in)
	}
}

func TestSnowflakeJSON(t *testing.T) {
	t.Run("number wider than 64 bits", func(t *testing.T) {
		// 1<<64 + 2: representable only because ids are 128-bit.
		var s Snowflake
		require.NoError(t, json.Unmarshal([]byte("18446744073709551618"), &s))
		assert.Equal(t, NewSnowflake(1, 2), s)
	})

	t.Run("decimal string", func(t *testing.T) {
		var s Snowflake
		require.NoError(t, json.Unmarshal([]byte(`"42"`), &s))
		assert.Equal(t, NewSnowflake(0, 42), s)
	})

	t.Run("null is zero", func(t *testing.T) {
		var s Snowflake
		require.NoError(t, json.Unmarshal([]byte("null"), &s))
		assert.True(t, s.IsZero())
	})

	t.Run("marshal round trip", func(t *testing.T) {
		s := NewSnowflake(9, 9)
		raw, err := json.Marshal(s)
		require.NoError(t, err)
		var back Snowflake
		require.NoError(t, json.Unmarshal(raw, &back))
		assert.Equal(t, s, back)
	})
}

func TestGuildFlags(t *testing.T) {
	f := GuildFlagVerified | GuildFlagVerifiedScam
	assert.True(t, f.Has(GuildFlagVerified))
	assert.True(t, f.Has(GuildFlagVerifiedScam))
	assert.False(t, GuildFlags(0).Has(GuildFlagVerified))
}

func TestUserFlags(t *testing.T) {
	f := UserFlagBotAccount | UserFlagLibraryDev
	assert.True(t, f.Has(UserFlagBotAccount))
	assert.True(t, f.Has(UserFlagLibraryDev))
	assert.False(t, f.Has(UserFlagMaintainer))
	assert.Equal(t, UserFlags(1<<13), UserFlagBugHunter)
}
