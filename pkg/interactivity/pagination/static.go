package pagination

import (
	"context"
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/robalyx/interactivity/pkg/interactivity/types"
)

// StaticPaginator is a paginator whose pages are all built up front.
type StaticPaginator struct {
	*Base
	pages []Page
}

var _ Paginator = (*StaticPaginator)(nil)

// Page implements Paginator.
func (p *StaticPaginator) Page(_ context.Context, index int) (Page, error) {
	if index < 0 || index >= len(p.pages) {
		return Page{}, fmt.Errorf("page %d out of range [0, %d]", index, len(p.pages)-1)
	}
	return p.pages[index], nil
}

// Pages returns every page of the paginator.
func (p *StaticPaginator) Pages() []Page {
	return p.pages
}

// StaticBuilder builds a StaticPaginator.
type StaticBuilder struct {
	Builder
	Pages []*PageBuilder
}

// NewStaticBuilder creates a builder with the default embeds and footer.
func NewStaticBuilder() *StaticBuilder {
	return &StaticBuilder{Builder: newBuilder()}
}

// WithUsers restricts navigation to users. Everyone may navigate when none is set.
func (b *StaticBuilder) WithUsers(users ...discord.User) *StaticBuilder {
	b.Users = users
	return b
}

// WithEmotes replaces the default emotes.
func (b *StaticBuilder) WithEmotes(emotes ...Emote) *StaticBuilder {
	b.Emotes = emotes
	return b
}

// AddEmote binds an additional emoji to an action.
func (b *StaticBuilder) AddEmote(emoji types.Emoji, action Action) *StaticBuilder {
	b.Emotes = append(b.Emotes, Emote{Emoji: emoji, Action: action})
	return b
}

// WithCancelledEmbed sets the embed shown after exiting. Nil keeps the last page.
func (b *StaticBuilder) WithCancelledEmbed(embed *discord.Embed) *StaticBuilder {
	b.CancelledEmbed = embed
	return b
}

// WithTimedOutEmbed sets the embed shown after the timeout. Nil keeps the last page.
func (b *StaticBuilder) WithTimedOutEmbed(embed *discord.Embed) *StaticBuilder {
	b.TimedOutEmbed = embed
	return b
}

// WithDeletion sets which messages and reactions get deleted.
func (b *StaticBuilder) WithDeletion(deletion types.DeletionOptions) *StaticBuilder {
	b.Deletion = deletion
	return b
}

// WithFooter sets the footer stamped on every page.
func (b *StaticBuilder) WithFooter(footer Footer) *StaticBuilder {
	b.Footer = footer
	return b
}

// WithStartPage sets the page shown first. It is clamped to the page range.
func (b *StaticBuilder) WithStartPage(index int) *StaticBuilder {
	b.StartPage = index
	return b
}

// WithDefaults sets the values pages fall back to for unset fields.
func (b *StaticBuilder) WithDefaults(defaults *PageBuilder) *StaticBuilder {
	b.Defaults = defaults
	return b
}

// WithPages replaces the pages.
func (b *StaticBuilder) WithPages(pages ...*PageBuilder) *StaticBuilder {
	b.Pages = pages
	return b
}

// AddPage appends a page.
func (b *StaticBuilder) AddPage(page *PageBuilder) *StaticBuilder {
	b.Pages = append(b.Pages, page)
	return b
}

// WithEmbeds adds one page per embed.
func (b *StaticBuilder) WithEmbeds(embeds ...discord.Embed) *StaticBuilder {
	for _, embed := range embeds {
		b.Pages = append(b.Pages, PageFromEmbed(embed))
	}
	return b
}

// Build renders every page and stamps its footer.
func (b *StaticBuilder) Build() (*StaticPaginator, error) {
	if len(b.Pages) == 0 {
		return nil, ErrNoPages
	}

	maxIndex := len(b.Pages) - 1
	pages := make([]Page, len(b.Pages))
	for i, pb := range b.Pages {
		page, err := pb.withDefaults(b.Defaults).Build(b.footer(i, maxIndex))
		if err != nil {
			return nil, fmt.Errorf("failed to build page %d: %w", i, err)
		}
		pages[i] = page
	}

	return &StaticPaginator{
		Base:  newBase(&b.Builder, maxIndex),
		pages: pages,
	}, nil
}
