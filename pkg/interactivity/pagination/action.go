package pagination

import "github.com/robalyx/interactivity/pkg/interactivity/types"

// Action is what a paginator does in response to one of its emotes.
type Action int

const (
	ActionNone Action = iota
	ActionForward
	ActionBackward
	ActionSkipToStart
	ActionSkipToEnd
	ActionExit
)

// String returns the name of the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionForward:
		return "Forward"
	case ActionBackward:
		return "Backward"
	case ActionSkipToStart:
		return "SkipToStart"
	case ActionSkipToEnd:
		return "SkipToEnd"
	case ActionExit:
		return "Exit"
	default:
		return "Unknown"
	}
}

// Emote binds a reaction emoji to a paginator action.
type Emote struct {
	Emoji  types.Emoji
	Action Action
}

// DefaultEmotes returns the emotes attached when none are configured.
func DefaultEmotes() []Emote {
	return []Emote{
		{Emoji: types.NewEmoji("◀"), Action: ActionBackward},
		{Emoji: types.NewEmoji("▶"), Action: ActionForward},
		{Emoji: types.NewEmoji("⏮"), Action: ActionSkipToStart},
		{Emoji: types.NewEmoji("⏭"), Action: ActionSkipToEnd},
		{Emoji: types.NewEmoji("🛑"), Action: ActionExit},
	}
}
