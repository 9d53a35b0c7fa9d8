package ferris

import (
	"bytes"
	"fmt"
	"math/big"
	"time"
)

// ferrisEpochMS is the FerrisChat epoch (2020-01-01T00:00:00Z) in
// milliseconds.
const ferrisEpochMS int64 = 1_577_836_800_000

// FerrisEpoch is the FerrisChat epoch as a time.Time.
var FerrisEpoch = time.UnixMilli(ferrisEpochMS).UTC()

// Snowflake is a FerrisChat 128-bit ID. The upper 64 bits carry the
// creation time in milliseconds since the Ferris epoch; the lower 64
// bits disambiguate IDs minted in the same millisecond.
type Snowflake struct {
	hi uint64
	lo uint64
}

// NewSnowflake builds a snowflake from its two halves.
func NewSnowflake(hi, lo uint64) Snowflake {
	return Snowflake{hi: hi, lo: lo}
}

// SnowflakeFromTime generates a snowflake whose creation time is t.
// The low half is zero, which makes it suitable as a range boundary.
func SnowflakeFromTime(t time.Time) Snowflake {
	ms := t.UnixMilli() - ferrisEpochMS
	if ms < 0 {
		ms = 0
	}
	return Snowflake{hi: uint64(ms)}
}

// ParseSnowflake parses a decimal snowflake string.
func ParseSnowflake(s string) (Snowflake, error) {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok || n.Sign() < 0 || n.BitLen() > 128 {
		return Snowflake{}, fmt.Errorf("invalid snowflake: %q", s)
	}
	return snowflakeFromBig(n), nil
}

// IsZero reports whether the snowflake is unset.
func (s Snowflake) IsZero() bool {
	return s.hi == 0 && s.lo == 0
}

// CreatedAt returns the creation time encoded in the snowflake.
func (s Snowflake) CreatedAt() time.Time {
	return time.UnixMilli(int64(s.hi) + ferrisEpochMS).UTC()
}

// String returns the decimal representation.
func (s Snowflake) String() string {
	return s.big().String()
}

func (s Snowflake) big() *big.Int {
	n := new(big.Int).SetUint64(s.hi)
	n.Lsh(n, 64)
	return n.Or(n, new(big.Int).SetUint64(s.lo))
}

func snowflakeFromBig(n *big.Int) Snowflake {
	lo := new(big.Int).And(n, new(big.Int).SetUint64(^uint64(0)))
	hi := new(big.Int).Rsh(n, 64)
	return Snowflake{hi: hi.Uint64(), lo: lo.Uint64()}
}

// MarshalJSON encodes the snowflake as a JSON number, matching the API
// wire format.
func (s Snowflake) MarshalJSON() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalJSON accepts either a JSON number or a decimal string.
func (s *Snowflake) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	if len(data) == 0 || string(data) == "null" {
		*s = Snowflake{}
		return nil
	}
	parsed, err := ParseSnowflake(string(data))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
