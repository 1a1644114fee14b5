package types

import "github.com/disgoorg/disgo/discord"

// Colors of the embeds shown when a request ends without an answer.
const (
	CancelledColor = 0xE67E22
	TimedOutColor  = 0xE74C3C
)

// CancelledEmbed is the embed shown by default after a cancelled request.
func CancelledEmbed() *discord.Embed {
	embed := discord.NewEmbedBuilder().
		SetTitle("Cancelled! :thumbsup:").
		SetColor(CancelledColor).
		Build()
	return &embed
}

// TimedOutEmbed is the embed shown by default after a timed out request.
func TimedOutEmbed() *discord.Embed {
	embed := discord.NewEmbedBuilder().
		SetTitle("Timed out! :alarm_clock:").
		SetColor(TimedOutColor).
		Build()
	return &embed
}
