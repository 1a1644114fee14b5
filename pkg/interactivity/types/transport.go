package types

import (
	"context"
	"errors"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
)

// ErrUnknownMessage is wrapped by transports when the target message no
// longer exists.
var ErrUnknownMessage = errors.New("unknown message")

// Transport is the subset of the Discord REST API the interactivity
// requests need. It is satisfied by the disgo client adapter.
type Transport interface {
	// SelfID returns the user ID of the bot, used to ignore its own events.
	SelfID() snowflake.ID
	SendMessage(ctx context.Context, channelID snowflake.ID, msg discord.MessageCreate) (*discord.Message, error)
	EditMessage(ctx context.Context, channelID, messageID snowflake.ID, msg discord.MessageUpdate) (*discord.Message, error)
	DeleteMessage(ctx context.Context, channelID, messageID snowflake.ID) error
	AddReaction(ctx context.Context, channelID, messageID snowflake.ID, emoji Emoji) error
	RemoveUserReaction(ctx context.Context, channelID, messageID snowflake.ID, emoji Emoji, userID snowflake.ID) error
	RemoveAllReactions(ctx context.Context, channelID, messageID snowflake.ID) error
}
