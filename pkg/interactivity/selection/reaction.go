package selection

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/robalyx/interactivity/pkg/interactivity/types"
)

var (
	// ErrNotEnoughEmojis is returned when a reaction selection has fewer
	// emojis than values.
	ErrNotEnoughEmojis = errors.New("selection has fewer emojis than values")

	// ErrCancelEmojiInUse is returned when the cancel emoji is also used
	// for a value.
	ErrCancelEmojiInUse = errors.New("cancel emoji is used by a value")
)

// ReactionSelection is answered by reacting with the emoji of an entry.
type ReactionSelection[T any] struct {
	base[T]
	emojis      []types.Emoji
	allowCancel bool
}

var _ Selection[int] = (*ReactionSelection[int])(nil)

// Mode implements Selection.
func (s *ReactionSelection[T]) Mode() Mode { return ModeReaction }

// AllowCancel reports whether the cancel emoji is attached.
func (s *ReactionSelection[T]) AllowCancel() bool {
	return s.allowCancel
}

// Emojis returns the emojis attached to the selection message, in order.
func (s *ReactionSelection[T]) Emojis() []types.Emoji {
	return s.emojis
}

// Initialize implements Selection by adding every emoji to the message.
func (s *ReactionSelection[T]) Initialize(ctx context.Context, transport types.Transport, sent *discord.Message) error {
	for _, emoji := range s.emojis {
		if err := transport.AddReaction(ctx, sent.ChannelID, sent.ID, emoji); err != nil {
			return fmt.Errorf("failed to add reaction %s: %w", emoji.Reaction(), err)
		}
	}
	return nil
}

// HandleMessage implements Selection. Messages never answer a reaction
// selection.
func (s *ReactionSelection[T]) HandleMessage(
	context.Context, *discord.Message, types.Message,
) (types.Result[T], bool) {
	return types.Result[T]{}, false
}

// HandleReaction implements Selection.
func (s *ReactionSelection[T]) HandleReaction(
	_ context.Context, sent *discord.Message, r types.Reaction,
) (types.Result[T], bool) {
	if sent != nil && r.MessageID != sent.ID {
		return types.Result[T]{}, false
	}

	index := slices.IndexFunc(s.emojis, r.Emoji.Equal)
	switch {
	case index < 0:
		return types.Result[T]{}, false
	case index >= len(s.values):
		return types.Cancelled[T](0), true
	default:
		return types.Success(s.values[index], 0), true
	}
}

// ReactionBuilder builds a ReactionSelection.
type ReactionBuilder[T any] struct {
	Builder[T]
	Emojis      []types.Emoji
	CancelEmoji types.Emoji
}

// NewReactionBuilder creates a builder that allows cancelling with ❌ and
// lists the entries in the selection embed.
func NewReactionBuilder[T any]() *ReactionBuilder[T] {
	return &ReactionBuilder[T]{
		Builder:     newBuilder[T](),
		CancelEmoji: types.NewEmoji("❌"),
	}
}

// WithValues sets the selectable values.
func (b *ReactionBuilder[T]) WithValues(values ...T) *ReactionBuilder[T] {
	b.Values = values
	return b
}

// WithEmojis sets the emoji of each value, in order. Build fails when
// fewer emojis than values are given.
func (b *ReactionBuilder[T]) WithEmojis(emojis ...types.Emoji) *ReactionBuilder[T] {
	b.Emojis = emojis
	return b
}

// WithCancelEmoji sets the emoji cancelling the selection.
func (b *ReactionBuilder[T]) WithCancelEmoji(emoji types.Emoji) *ReactionBuilder[T] {
	b.CancelEmoji = emoji
	return b
}

// WithUsers restricts who may choose. Everyone may when none is set.
func (b *ReactionBuilder[T]) WithUsers(users ...snowflake.ID) *ReactionBuilder[T] {
	b.Users = users
	return b
}

// WithEmbed sets the embed the choices are listed in.
func (b *ReactionBuilder[T]) WithEmbed(embed *discord.Embed) *ReactionBuilder[T] {
	b.Embed = embed
	return b
}

// WithCancelledEmbed sets the embed shown after cancelling.
func (b *ReactionBuilder[T]) WithCancelledEmbed(embed *discord.Embed) *ReactionBuilder[T] {
	b.CancelledEmbed = embed
	return b
}

// WithTimedOutEmbed sets the embed shown after the timeout.
func (b *ReactionBuilder[T]) WithTimedOutEmbed(embed *discord.Embed) *ReactionBuilder[T] {
	b.TimedOutEmbed = embed
	return b
}

// WithDeletion sets which messages and reactions get deleted.
func (b *ReactionBuilder[T]) WithDeletion(deletion types.DeletionOptions) *ReactionBuilder[T] {
	b.Deletion = deletion
	return b
}

// WithStringConverter sets how values are rendered in the embed.
func (b *ReactionBuilder[T]) WithStringConverter(converter func(T) string) *ReactionBuilder[T] {
	b.StringConverter = converter
	return b
}

// WithAllowCancel controls whether the cancel emoji is offered.
func (b *ReactionBuilder[T]) WithAllowCancel(allow bool) *ReactionBuilder[T] {
	b.AllowCancel = allow
	return b
}

// WithDefaultSelectionDescription controls whether the choices are listed
// in the embed description.
func (b *ReactionBuilder[T]) WithDefaultSelectionDescription(enabled bool) *ReactionBuilder[T] {
	b.EnableDefaultSelectionDescription = enabled
	return b
}

// WithTitle sets the embed title.
func (b *ReactionBuilder[T]) WithTitle(title string) *ReactionBuilder[T] {
	b.Title = title
	return b
}

// Build checks the emojis against the values. Extra emojis beyond the
// number of values are not attached.
func (b *ReactionBuilder[T]) Build() (*ReactionSelection[T], error) {
	if len(b.Values) == 0 {
		return nil, ErrNoValues
	}
	if len(b.Emojis) < len(b.Values) {
		return nil, fmt.Errorf("%w: %d emojis for %d values", ErrNotEnoughEmojis, len(b.Emojis), len(b.Values))
	}
	if slices.ContainsFunc(b.Emojis, b.CancelEmoji.Equal) {
		return nil, ErrCancelEmojiInUse
	}

	emojis := slices.Clone(b.Emojis[:len(b.Values)])
	lines := make([]string, len(b.Values))
	for i, value := range b.Values {
		lines[i] = emojis[i].String() + " - " + b.convert(value)
	}
	if b.AllowCancel {
		emojis = append(emojis, b.CancelEmoji)
	}

	return &ReactionSelection[T]{
		base:        b.build(lines),
		emojis:      emojis,
		allowCancel: b.AllowCancel,
	}, nil
}
