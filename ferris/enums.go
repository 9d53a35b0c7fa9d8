package ferris

// ModelType identifies the kind of API object a snowflake refers to.
type ModelType int

const (
	ModelGuild ModelType = iota
	ModelUser
	ModelChannel
	ModelMember
	ModelRole
)

func (m ModelType) String() string {
	switch m {
	case ModelGuild:
		return "guild"
	case ModelUser:
		return "user"
	case ModelChannel:
		return "channel"
	case ModelMember:
		return "member"
	case ModelRole:
		return "role"
	default:
		return "unknown"
	}
}

// Pronouns enumerates the pronoun choices a user profile can carry.
type Pronouns int

const (
	PronounsHeHim Pronouns = iota
	PronounsHeIt
	PronounsHeShe
	PronounsHeThey
	PronounsItHim
	PronounsItIts
	PronounsItShe
	PronounsItThey
	PronounsSheHe
	PronounsSheHer
	PronounsSheIt
	PronounsSheThey
	PronounsTheyHe
	PronounsTheyIt
	PronounsTheyShe
	PronounsTheyThem
	PronounsAny
	PronounsOtherAsk
	PronounsAvoid
)
