// Package confirmation describes yes/no requests answered by reacting to a
// message.
package confirmation

import (
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/robalyx/interactivity/pkg/interactivity/actions"
	"github.com/robalyx/interactivity/pkg/interactivity/criteria"
	"github.com/robalyx/interactivity/pkg/interactivity/types"
)

// Action is the answer given to a confirmation request.
type Action int

const (
	ActionConfirm Action = iota
	ActionDecline
)

// String returns the name of the action.
func (a Action) String() string {
	if a == ActionConfirm {
		return "Confirm"
	}
	return "Decline"
}

// Appearance holds the emojis and embeds of a confirmation request.
type Appearance struct {
	ConfirmEmoji   types.Emoji
	DeclineEmoji   types.Emoji
	TimedOutEmbed  *discord.Embed
	CancelledEmbed *discord.Embed
}

// DefaultAppearance returns ✅ and ❌ with the default end embeds.
func DefaultAppearance() Appearance {
	return Appearance{
		ConfirmEmoji:   types.NewEmoji("✅"),
		DeclineEmoji:   types.NewEmoji("❌"),
		TimedOutEmbed:  types.TimedOutEmbed(),
		CancelledEmbed: types.CancelledEmbed(),
	}
}

// Request asks the users to confirm or decline by reacting to Message.
type Request struct {
	Message *discord.Message
	Users   []snowflake.ID
	Appearance
}

// Option configures a Request.
type Option func(*Request)

// WithUsers restricts who may answer. Everyone may answer by default.
func WithUsers(users ...snowflake.ID) Option {
	return func(r *Request) {
		r.Users = users
	}
}

// WithAppearance replaces the default emojis and embeds.
func WithAppearance(appearance Appearance) Option {
	return func(r *Request) {
		r.Appearance = appearance
	}
}

// NewRequest creates a request bound to an already sent message.
func NewRequest(msg *discord.Message, opts ...Option) *Request {
	r := &Request{
		Message:    msg,
		Appearance: DefaultAppearance(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Emojis returns the emojis attached to the message, confirm first.
func (r *Request) Emojis() []types.Emoji {
	return []types.Emoji{r.ConfirmEmoji, r.DeclineEmoji}
}

// Filter selects the reactions that concern the request at all. Reactions
// on other messages are ignored without running any action.
func (r *Request) Filter() criteria.Criterion[types.Reaction] {
	return criteria.ReactionMessage(r.Message.ID)
}

// Criteria decides whether a reaction on the request message answers it.
func (r *Request) Criteria() criteria.Criteria[types.Reaction] {
	c := criteria.New(criteria.ReactionEmoji(r.Emojis()...))
	if len(r.Users) > 0 {
		c = c.Add(criteria.ReactionUser(r.Users...))
	}
	return c
}

// Actions returns the actions applied to reactions on the request message.
// Matching reactions are removed whether valid or not.
func (r *Request) Actions() actions.Collection[types.Reaction] {
	return actions.Collection[types.Reaction]{actions.DeleteReactions(true, true)}
}

// ParseAction maps a reaction emoji to the answer it stands for.
func (r *Request) ParseAction(emoji types.Emoji) Action {
	if emoji.Equal(r.ConfirmEmoji) {
		return ActionConfirm
	}
	return ActionDecline
}
