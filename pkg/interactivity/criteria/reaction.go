package criteria

import (
	"context"
	"slices"

	"github.com/disgoorg/snowflake/v2"
	"github.com/robalyx/interactivity/pkg/interactivity/types"
)

// ReactionUser accepts reactions added by one of the given users.
func ReactionUser(ids ...snowflake.ID) Criterion[types.Reaction] {
	return Func[types.Reaction](func(_ context.Context, r types.Reaction) bool {
		return slices.Contains(ids, r.UserID)
	})
}

// ReactionMessage accepts reactions added to the given message.
func ReactionMessage(messageID snowflake.ID) Criterion[types.Reaction] {
	return Func[types.Reaction](func(_ context.Context, r types.Reaction) bool {
		return r.MessageID == messageID
	})
}

// ReactionEmoji accepts reactions using one of the given emojis.
func ReactionEmoji(emojis ...types.Emoji) Criterion[types.Reaction] {
	keys := make(map[string]struct{}, len(emojis))
	for _, emoji := range emojis {
		keys[emoji.Key()] = struct{}{}
	}

	return Func[types.Reaction](func(_ context.Context, r types.Reaction) bool {
		_, ok := keys[r.Emoji.Key()]
		return ok
	})
}
