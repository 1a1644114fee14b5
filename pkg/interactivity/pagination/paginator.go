// Package pagination implements multi page messages navigated through
// reactions.
package pagination

import (
	"context"
	"errors"
	"sync"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/robalyx/interactivity/pkg/interactivity/actions"
	"github.com/robalyx/interactivity/pkg/interactivity/criteria"
	"github.com/robalyx/interactivity/pkg/interactivity/types"
)

// ErrNoPages is returned when building a paginator without any page.
var ErrNoPages = errors.New("paginator needs at least one page")

// Paginator is a multi page message.
type Paginator interface {
	CurrentPageIndex() int
	MaxPageIndex() int
	Users() []discord.User
	Emotes() []Emote
	CancelledEmbed() *discord.Embed
	TimedOutEmbed() *discord.Embed
	Deletion() types.DeletionOptions

	// Page returns the rendered page at index.
	Page(ctx context.Context, index int) (Page, error)
	// Target returns the index action leads to from the current page.
	Target(action Action) int
	// SetCurrentPage makes index the current page. Out of range indexes are
	// clamped.
	SetCurrentPage(index int)
	// ParseAction returns the action bound to emoji, or ActionNone.
	ParseAction(emoji types.Emoji) Action
}

// Base holds the state shared by every paginator.
type Base struct {
	mu           sync.Mutex
	current      int
	maxPageIndex int

	users          []discord.User
	emotes         []Emote
	cancelledEmbed *discord.Embed
	timedOutEmbed  *discord.Embed
	deletion       types.DeletionOptions
}

func newBase(b *Builder, maxPageIndex int) *Base {
	start := min(max(b.StartPage, 0), maxPageIndex)

	emotes := b.Emotes
	if len(emotes) == 0 {
		emotes = DefaultEmotes()
	}

	return &Base{
		current:        start,
		maxPageIndex:   maxPageIndex,
		users:          b.Users,
		emotes:         emotes,
		cancelledEmbed: b.CancelledEmbed,
		timedOutEmbed:  b.TimedOutEmbed,
		deletion:       b.Deletion,
	}
}

// CurrentPageIndex implements Paginator.
func (b *Base) CurrentPageIndex() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}

// MaxPageIndex implements Paginator.
func (b *Base) MaxPageIndex() int { return b.maxPageIndex }

// Users implements Paginator.
func (b *Base) Users() []discord.User { return b.users }

// Emotes implements Paginator.
func (b *Base) Emotes() []Emote { return b.emotes }

// CancelledEmbed implements Paginator.
func (b *Base) CancelledEmbed() *discord.Embed { return b.cancelledEmbed }

// TimedOutEmbed implements Paginator.
func (b *Base) TimedOutEmbed() *discord.Embed { return b.timedOutEmbed }

// Deletion implements Paginator.
func (b *Base) Deletion() types.DeletionOptions { return b.deletion }

// Target implements Paginator. Backward and Forward stop at either end.
func (b *Base) Target(action Action) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch action {
	case ActionBackward:
		return max(b.current-1, 0)
	case ActionForward:
		return min(b.current+1, b.maxPageIndex)
	case ActionSkipToStart:
		return 0
	case ActionSkipToEnd:
		return b.maxPageIndex
	case ActionNone, ActionExit:
	}
	return b.current
}

// SetCurrentPage implements Paginator.
func (b *Base) SetCurrentPage(index int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.current = min(max(index, 0), b.maxPageIndex)
}

// ParseAction implements Paginator.
func (b *Base) ParseAction(emoji types.Emoji) Action {
	for _, emote := range b.emotes {
		if emote.Emoji.Equal(emoji) {
			return emote.Action
		}
	}
	return ActionNone
}

// UserIDs returns the IDs of the users allowed to interact.
func UserIDs(p Paginator) []snowflake.ID {
	users := p.Users()
	ids := make([]snowflake.ID, len(users))
	for i, user := range users {
		ids[i] = user.ID
	}
	return ids
}

// Emojis returns the emojis of the paginator in the order they are attached.
func Emojis(p Paginator) []types.Emoji {
	emotes := p.Emotes()
	emojis := make([]types.Emoji, len(emotes))
	for i, emote := range emotes {
		emojis[i] = emote.Emoji
	}
	return emojis
}

// ReactionCriteria decides whether a reaction on the paginator message
// drives the paginator.
func ReactionCriteria(p Paginator) criteria.Criteria[types.Reaction] {
	c := criteria.New(criteria.ReactionEmoji(Emojis(p)...))
	if len(p.Users()) > 0 {
		c = c.Add(criteria.ReactionUser(UserIDs(p)...))
	}
	return c
}

// ReactionActions removes the reactions driving the paginator so they can
// be used again, and other reactions when DeletionInvalids is set.
func ReactionActions(p Paginator) actions.Collection[types.Reaction] {
	return actions.Collection[types.Reaction]{
		actions.DeleteReactions(p.Deletion().Has(types.DeletionInvalids), true),
	}
}
