package ferris

// GuildFlags is the bitset of a guild's moderation/verification state.
type GuildFlags uint64

const (
	// GuildFlagVerified marks a guild whose purpose has been verified.
	GuildFlagVerified GuildFlags = 1 << iota
	// GuildFlagVerifiedScam marks a guild confirmed as promoting scams.
	GuildFlagVerifiedScam
)

// Has reports whether all bits of flag are set.
func (f GuildFlags) Has(flag GuildFlags) bool {
	return f&flag == flag
}

// UserFlags is the bitset of a user account's badges and state.
type UserFlags uint64

const (
	UserFlagBotAccount UserFlags = 1 << iota
	UserFlagVerifiedScam
	UserFlagPossibleScam
	UserFlagCompromised
	UserFlagSystem
	UserFlagEarlyBot
	UserFlagEarlyBotDev
	UserFlagEarlySupporter
	UserFlagDonator
	UserFlagLibraryDev
	UserFlagContributor
	UserFlagMaintainer
	UserFlagChristmasEventWinner
	UserFlagBugHunter
)

// Has reports whether all bits of flag are set.
func (f UserFlags) Has(flag UserFlags) bool {
	return f&flag == flag
}
