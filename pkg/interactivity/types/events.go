package types

import (
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
)

// Message is a message received through the gateway.
type Message = discord.Message

// Reaction is a reaction added to a message.
type Reaction struct {
	UserID    snowflake.ID
	ChannelID snowflake.ID
	MessageID snowflake.ID
	GuildID   *snowflake.ID
	Member    *discord.Member
	Emoji     Emoji
}
