package chat

// Role identifies who authored a turn. The set is closed.
type Role int

const (
	RoleUser Role = iota
	RoleNarrator
	RoleSystem
)

func (r Role) String() string {
	switch r {
	case RoleUser:
		return "user"
	case RoleNarrator:
		return "narrator"
	case RoleSystem:
		return "system"
	default:
		return "unknown"
	}
}

// APIRole maps a role onto the completion service vocabulary.
func (r Role) APIRole() string {
	switch r {
	case RoleUser:
		return "user"
	case RoleNarrator:
		return "assistant"
	default:
		return "system"
	}
}

// Turn is one message in the conversation. Turns are values and are never
// edited after they are appended to a Transcript.
type Turn struct {
	Role    Role
	Content string
}

// Transcript is the ordered, append-only conversation.
type Transcript struct {
	turns []Turn
}

// NewTranscript returns a transcript seeded with the Narrator's introduction.
func NewTranscript() *Transcript {
	return &Transcript{turns: []Turn{IntroTurn()}}
}

// Append adds a turn at the end of the conversation.
func (t *Transcript) Append(turn Turn) {
	t.turns = append(t.turns, turn)
}

// Len returns the number of turns.
func (t *Transcript) Len() int { return len(t.turns) }

// Turns returns a copy of the conversation so callers running on another
// goroutine never share the backing array with later appends.
func (t *Transcript) Turns() []Turn {
	out := make([]Turn, len(t.turns))
	copy(out, t.turns)
	return out
}

// Last returns the most recent turn of the given role.
func (t *Transcript) Last(role Role) (Turn, bool) {
	for i := len(t.turns) - 1; i >= 0; i-- {
		if t.turns[i].Role == role {
			return t.turns[i], true
		}
	}
	return Turn{}, false
}
