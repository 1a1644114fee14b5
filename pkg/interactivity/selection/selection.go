// Package selection implements multiple choice requests answered either by
// writing a message or by reacting.
package selection

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/robalyx/interactivity/pkg/interactivity/types"
)

const (
	// DefaultColor is the colour of the default selection embed.
	DefaultColor = 0x3498DB

	// DefaultTitle names the field listing the possibilities.
	DefaultTitle = "Select one of these"
)

// ErrNoValues is returned when building a selection without values.
var ErrNoValues = errors.New("selection needs at least one value")

// Mode tells which gateway events answer a selection.
type Mode int

const (
	ModeMessage Mode = iota
	ModeReaction
)

// Selection lets users pick one of several values.
type Selection[T any] interface {
	Mode() Mode
	Embed() discord.Embed
	Users() []snowflake.ID
	Deletion() types.DeletionOptions
	CancelledEmbed() *discord.Embed
	TimedOutEmbed() *discord.Embed

	// Initialize prepares the sent selection message, e.g. by adding reactions.
	Initialize(ctx context.Context, transport types.Transport, sent *discord.Message) error
	// HandleMessage parses a message answering the selection sent as sent.
	// It reports false when the message does not pick anything.
	HandleMessage(ctx context.Context, sent *discord.Message, msg types.Message) (types.Result[T], bool)
	// HandleReaction parses a reaction added to the selection message.
	HandleReaction(ctx context.Context, sent *discord.Message, r types.Reaction) (types.Result[T], bool)
}

// base holds the settings shared by both selection kinds.
type base[T any] struct {
	values         []T
	users          []snowflake.ID
	embed          discord.Embed
	cancelledEmbed *discord.Embed
	timedOutEmbed  *discord.Embed
	deletion       types.DeletionOptions
}

func (s *base[T]) Values() []T                     { return s.values }
func (s *base[T]) Embed() discord.Embed            { return s.embed }
func (s *base[T]) Users() []snowflake.ID           { return s.users }
func (s *base[T]) Deletion() types.DeletionOptions { return s.deletion }
func (s *base[T]) CancelledEmbed() *discord.Embed  { return s.cancelledEmbed }
func (s *base[T]) TimedOutEmbed() *discord.Embed   { return s.timedOutEmbed }

// Builder holds the settings shared by the message and reaction builders.
type Builder[T any] struct {
	Values         []T
	Users          []snowflake.ID
	Embed          *discord.Embed
	CancelledEmbed *discord.Embed
	TimedOutEmbed  *discord.Embed
	Deletion       types.DeletionOptions

	// StringConverter renders a value. It defaults to fmt.Sprint.
	StringConverter func(T) string

	AllowCancel                       bool
	EnableDefaultSelectionDescription bool
	Title                             string
}

func newBuilder[T any]() Builder[T] {
	return Builder[T]{
		CancelledEmbed:                    types.CancelledEmbed(),
		TimedOutEmbed:                     types.TimedOutEmbed(),
		AllowCancel:                       true,
		EnableDefaultSelectionDescription: true,
		Title:                             DefaultTitle,
	}
}

func (b *Builder[T]) convert(value T) string {
	if b.StringConverter != nil {
		return b.StringConverter(value)
	}
	return fmt.Sprint(value)
}

// build assembles the shared part of a selection. lines are listed in the
// default description field when it is enabled.
func (b *Builder[T]) build(lines []string) base[T] {
	var embed discord.Embed
	if b.Embed != nil {
		embed = *b.Embed
		embed.Fields = append([]discord.EmbedField(nil), b.Embed.Fields...)
	} else {
		embed = discord.NewEmbedBuilder().SetColor(DefaultColor).Build()
	}

	if b.EnableDefaultSelectionDescription {
		inline := false
		embed.Fields = append(embed.Fields, discord.EmbedField{
			Name:   b.Title,
			Value:  strings.Join(lines, "\n"),
			Inline: &inline,
		})
	}

	return base[T]{
		values:         append([]T(nil), b.Values...),
		users:          append([]snowflake.ID(nil), b.Users...),
		embed:          embed,
		cancelledEmbed: b.CancelledEmbed,
		timedOutEmbed:  b.TimedOutEmbed,
		deletion:       b.Deletion,
	}
}
