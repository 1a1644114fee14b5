package pagination

import (
	"github.com/disgoorg/disgo/discord"
	"github.com/robalyx/interactivity/pkg/interactivity/types"
)

// Builder holds the settings shared by the static and lazy builders.
type Builder struct {
	Users          []discord.User
	Emotes         []Emote
	CancelledEmbed *discord.Embed
	TimedOutEmbed  *discord.Embed
	Deletion       types.DeletionOptions
	Footer         Footer
	StartPage      int

	// Defaults fills the values a page leaves empty.
	Defaults *PageBuilder
}

func newBuilder() Builder {
	return Builder{
		CancelledEmbed: types.CancelledEmbed(),
		TimedOutEmbed:  types.TimedOutEmbed(),
		Footer:         FooterPageNumber,
	}
}

// footer renders the footer of the page at index.
func (b *Builder) footer(index, maxIndex int) *discord.EmbedFooter {
	return BuildFooter(b.Footer, index, maxIndex, b.Users)
}
