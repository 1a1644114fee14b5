package types

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
)

// ErrInvalidEmoji indicates that an emoji string could not be parsed.
var ErrInvalidEmoji = errors.New("invalid emoji")

// Emoji identifies a reaction emoji. Unicode emojis only carry a Name,
// custom guild emojis carry both a Name and an ID.
type Emoji struct {
	ID       snowflake.ID
	Name     string
	Animated bool
}

// NewEmoji creates a unicode emoji.
func NewEmoji(unicode string) Emoji {
	return Emoji{Name: unicode}
}

// NewCustomEmoji creates a custom guild emoji.
func NewCustomEmoji(name string, id snowflake.ID, animated bool) Emoji {
	return Emoji{ID: id, Name: name, Animated: animated}
}

// EmojiFromPartial converts the emoji attached to a gateway reaction event.
func EmojiFromPartial(e discord.PartialEmoji) Emoji {
	var emoji Emoji
	if e.ID != nil {
		emoji.ID = *e.ID
	}
	if e.Name != nil {
		emoji.Name = *e.Name
	}
	emoji.Animated = e.Animated
	return emoji
}

// ParseEmoji parses the chat form (<:name:id> or <a:name:id>), the
// reaction form (name:id) or a plain unicode emoji.
func ParseEmoji(s string) (Emoji, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Emoji{}, fmt.Errorf("%w: empty string", ErrInvalidEmoji)
	}

	animated := false
	if strings.HasPrefix(s, "<") {
		if !strings.HasSuffix(s, ">") {
			return Emoji{}, fmt.Errorf("%w: %q", ErrInvalidEmoji, s)
		}
		s = strings.TrimSuffix(strings.TrimPrefix(s, "<"), ">")
		if strings.HasPrefix(s, "a:") {
			animated = true
			s = strings.TrimPrefix(s, "a")
		}
		s = strings.TrimPrefix(s, ":")
	}

	name, rawID, found := strings.Cut(s, ":")
	if !found {
		if animated {
			return Emoji{}, fmt.Errorf("%w: animated emoji without id", ErrInvalidEmoji)
		}
		return NewEmoji(s), nil
	}

	id, err := strconv.ParseUint(rawID, 10, 64)
	if err != nil || name == "" {
		return Emoji{}, fmt.Errorf("%w: %q", ErrInvalidEmoji, s)
	}

	return NewCustomEmoji(name, snowflake.ID(id), animated), nil
}

// IsCustom reports whether the emoji is a custom guild emoji.
func (e Emoji) IsCustom() bool {
	return e.ID != 0
}

// Reaction returns the form expected by the reaction REST endpoints.
func (e Emoji) Reaction() string {
	if e.IsCustom() {
		return e.Name + ":" + e.ID.String()
	}
	return e.Name
}

// String returns the form used to render the emoji inside a message.
func (e Emoji) String() string {
	if !e.IsCustom() {
		return e.Name
	}
	if e.Animated {
		return "<a:" + e.Name + ":" + e.ID.String() + ">"
	}
	return "<:" + e.Name + ":" + e.ID.String() + ">"
}

// Equal compares custom emojis by ID and unicode emojis by name.
func (e Emoji) Equal(other Emoji) bool {
	if e.IsCustom() || other.IsCustom() {
		return e.ID == other.ID
	}
	return e.Name == other.Name
}

// Key returns a value usable as a map key that follows the rules of Equal.
func (e Emoji) Key() string {
	if e.IsCustom() {
		return e.ID.String()
	}
	return e.Name
}
