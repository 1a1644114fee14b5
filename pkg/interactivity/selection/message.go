package selection

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/robalyx/interactivity/pkg/interactivity/types"
	"golang.org/x/text/cases"
)

// DefaultCancelDisplayName is the name of the cancel entry of a message
// selection.
const DefaultCancelDisplayName = "Cancel"

// possibilitiesPerValue is the number of accepted spellings per entry:
// "i", "#i", the name and "#i - name".
const possibilitiesPerValue = 4

// MessageSelection is answered by writing one of the listed entries.
type MessageSelection[T any] struct {
	base[T]
	possibilities []string
	caseSensitive bool
}

var _ Selection[int] = (*MessageSelection[int])(nil)

// Mode implements Selection.
func (s *MessageSelection[T]) Mode() Mode { return ModeMessage }

// Possibilities returns every accepted answer, grouped by entry.
func (s *MessageSelection[T]) Possibilities() []string {
	return s.possibilities
}

// Initialize implements Selection. Message selections need no preparation.
func (s *MessageSelection[T]) Initialize(context.Context, types.Transport, *discord.Message) error {
	return nil
}

// HandleMessage implements Selection. Only messages written in the channel
// of the selection are considered.
func (s *MessageSelection[T]) HandleMessage(
	_ context.Context, sent *discord.Message, msg types.Message,
) (types.Result[T], bool) {
	if sent != nil && msg.ChannelID != sent.ChannelID {
		return types.Result[T]{}, false
	}

	content := s.normalize(msg.Content)
	for i, possibility := range s.possibilities {
		if possibility != content {
			continue
		}

		index := i / possibilitiesPerValue
		if index >= len(s.values) {
			return types.Cancelled[T](0), true
		}
		return types.Success(s.values[index], 0), true
	}
	return types.Result[T]{}, false
}

// HandleReaction implements Selection. Reactions never answer a message
// selection.
func (s *MessageSelection[T]) HandleReaction(
	context.Context, *discord.Message, types.Reaction,
) (types.Result[T], bool) {
	return types.Result[T]{}, false
}

func (s *MessageSelection[T]) normalize(text string) string {
	text = strings.TrimSpace(text)
	if s.caseSensitive {
		return text
	}
	// Casers keep state and cannot be shared between goroutines.
	return cases.Fold().String(text)
}

// MessageBuilder builds a MessageSelection.
type MessageBuilder[T any] struct {
	Builder[T]
	CancelDisplayName string
	CaseSensitive     bool
}

// NewMessageBuilder creates a builder that allows cancelling and lists the
// entries in the selection embed.
func NewMessageBuilder[T any]() *MessageBuilder[T] {
	return &MessageBuilder[T]{
		Builder:           newBuilder[T](),
		CancelDisplayName: DefaultCancelDisplayName,
	}
}

// WithValues sets the selectable values.
func (b *MessageBuilder[T]) WithValues(values ...T) *MessageBuilder[T] {
	b.Values = values
	return b
}

// WithUsers restricts who may answer. Everyone may when none is set.
func (b *MessageBuilder[T]) WithUsers(users ...snowflake.ID) *MessageBuilder[T] {
	b.Users = users
	return b
}

// WithEmbed sets the embed the choices are listed in.
func (b *MessageBuilder[T]) WithEmbed(embed *discord.Embed) *MessageBuilder[T] {
	b.Embed = embed
	return b
}

// WithCancelledEmbed sets the embed shown after cancelling.
func (b *MessageBuilder[T]) WithCancelledEmbed(embed *discord.Embed) *MessageBuilder[T] {
	b.CancelledEmbed = embed
	return b
}

// WithTimedOutEmbed sets the embed shown after the timeout.
func (b *MessageBuilder[T]) WithTimedOutEmbed(embed *discord.Embed) *MessageBuilder[T] {
	b.TimedOutEmbed = embed
	return b
}

// WithDeletion sets which messages and reactions get deleted.
func (b *MessageBuilder[T]) WithDeletion(deletion types.DeletionOptions) *MessageBuilder[T] {
	b.Deletion = deletion
	return b
}

// WithStringConverter sets how values are rendered and matched.
func (b *MessageBuilder[T]) WithStringConverter(converter func(T) string) *MessageBuilder[T] {
	b.StringConverter = converter
	return b
}

// WithAllowCancel controls whether writing the cancel name cancels.
func (b *MessageBuilder[T]) WithAllowCancel(allow bool) *MessageBuilder[T] {
	b.AllowCancel = allow
	return b
}

// WithDefaultSelectionDescription controls whether the choices are listed
// in the embed description.
func (b *MessageBuilder[T]) WithDefaultSelectionDescription(enabled bool) *MessageBuilder[T] {
	b.EnableDefaultSelectionDescription = enabled
	return b
}

// WithTitle sets the embed title.
func (b *MessageBuilder[T]) WithTitle(title string) *MessageBuilder[T] {
	b.Title = title
	return b
}

// WithCancelDisplayName sets the text that cancels the selection.
func (b *MessageBuilder[T]) WithCancelDisplayName(name string) *MessageBuilder[T] {
	b.CancelDisplayName = name
	return b
}

// WithCaseSensitive controls whether answers must match the case of a value.
func (b *MessageBuilder[T]) WithCaseSensitive(caseSensitive bool) *MessageBuilder[T] {
	b.CaseSensitive = caseSensitive
	return b
}

// Build computes the accepted answers of every entry.
func (b *MessageBuilder[T]) Build() (*MessageSelection[T], error) {
	if len(b.Values) == 0 {
		return nil, ErrNoValues
	}

	s := &MessageSelection[T]{caseSensitive: b.CaseSensitive}

	names := make([]string, 0, len(b.Values)+1)
	for _, value := range b.Values {
		names = append(names, b.convert(value))
	}
	if b.AllowCancel {
		names = append(names, b.CancelDisplayName)
	}

	lines := make([]string, 0, len(names))
	s.possibilities = make([]string, 0, len(names)*possibilitiesPerValue)
	for i, name := range names {
		number := strconv.Itoa(i + 1)
		entry := fmt.Sprintf("#%s - %s", number, name)

		lines = append(lines, entry)
		s.possibilities = append(s.possibilities,
			s.normalize(number),
			s.normalize("#"+number),
			s.normalize(name),
			s.normalize(entry),
		)
	}

	s.base = b.build(lines)
	return s, nil
}
