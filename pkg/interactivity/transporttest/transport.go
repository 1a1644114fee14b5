// Package transporttest provides an in-memory Transport that records every
// call, for testing code built on the interactivity package.
package transporttest

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/robalyx/interactivity/pkg/interactivity/types"
)

// ErrInjected is returned by calls whose method was made to fail with Fail.
var ErrInjected = errors.New("injected transport failure")

// Call kinds recorded by the Transport.
const (
	CallSend               = "SendMessage"
	CallEdit               = "EditMessage"
	CallDelete             = "DeleteMessage"
	CallAddReaction        = "AddReaction"
	CallRemoveUserReaction = "RemoveUserReaction"
	CallRemoveAllReactions = "RemoveAllReactions"
)

// Call is a single recorded transport call.
type Call struct {
	Kind      string
	ChannelID snowflake.ID
	MessageID snowflake.ID
	UserID    snowflake.ID
	Emoji     types.Emoji
	Create    discord.MessageCreate
	Update    discord.MessageUpdate
}

// Transport is a recording types.Transport. Sent messages get increasing IDs
// starting at 1001.
type Transport struct {
	self snowflake.ID

	mu      sync.Mutex
	calls   []Call
	nextID  snowflake.ID
	failing map[string]failure
	holds   map[string]chan struct{}
	notify  chan Call
}

var _ types.Transport = (*Transport)(nil)

// New creates a Transport whose bot user has the given ID.
func New(selfID snowflake.ID) *Transport {
	return &Transport{
		self:    selfID,
		nextID:  1000,
		failing: make(map[string]failure),
		holds:   make(map[string]chan struct{}),
		notify:  make(chan Call, 256),
	}
}

type failure struct {
	remaining int
	err       error
}

// Fail makes the next n calls of the given kind return ErrInjected.
func (t *Transport) Fail(kind string, n int) {
	t.FailWith(kind, n, ErrInjected)
}

// FailWith makes the next n calls of the given kind return err.
func (t *Transport) FailWith(kind string, n int, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.failing[kind] = failure{remaining: n, err: err}
}

// Hold blocks the calls of the given kind after they are recorded, until
// the returned release function is called.
func (t *Transport) Hold(kind string) (release func()) {
	gate := make(chan struct{})

	t.mu.Lock()
	t.holds[kind] = gate
	t.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			t.mu.Lock()
			if t.holds[kind] == gate {
				delete(t.holds, kind)
			}
			t.mu.Unlock()
			close(gate)
		})
	}
}

// Calls returns a copy of every recorded call.
func (t *Transport) Calls() []Call {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.calls)
}

// CallsOf returns the recorded calls of one kind.
func (t *Transport) CallsOf(kind string) []Call {
	t.mu.Lock()
	defer t.mu.Unlock()

	var out []Call
	for _, c := range t.calls {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

// Notify returns a channel receiving every call as it is recorded. Calls
// are dropped once the buffer is full.
func (t *Transport) Notify() <-chan Call {
	return t.notify
}

func (t *Transport) record(c Call) error {
	t.mu.Lock()
	t.calls = append(t.calls, c)
	select {
	case t.notify <- c:
	default:
	}

	var err error
	if f := t.failing[c.Kind]; f.remaining > 0 {
		f.remaining--
		t.failing[c.Kind] = f
		err = f.err
	}
	gate := t.holds[c.Kind]
	t.mu.Unlock()

	if gate != nil {
		<-gate
	}
	return err
}

// SelfID returns the bot user ID given to New.
func (t *Transport) SelfID() snowflake.ID {
	return t.self
}

// SendMessage records the call and returns a message with the next ID.
func (t *Transport) SendMessage(
	_ context.Context, channelID snowflake.ID, msg discord.MessageCreate,
) (*discord.Message, error) {
	t.mu.Lock()
	t.nextID++
	id := t.nextID
	t.mu.Unlock()

	if err := t.record(Call{Kind: CallSend, ChannelID: channelID, MessageID: id, Create: msg}); err != nil {
		return nil, err
	}
	return &discord.Message{
		ID:        id,
		ChannelID: channelID,
		Content:   msg.Content,
		Embeds:    msg.Embeds,
		Author:    discord.User{ID: t.self, Bot: true},
	}, nil
}

// EditMessage records the call and returns the edited message.
func (t *Transport) EditMessage(
	_ context.Context, channelID, messageID snowflake.ID, msg discord.MessageUpdate,
) (*discord.Message, error) {
	if err := t.record(Call{Kind: CallEdit, ChannelID: channelID, MessageID: messageID, Update: msg}); err != nil {
		return nil, err
	}

	edited := &discord.Message{ID: messageID, ChannelID: channelID, Author: discord.User{ID: t.self, Bot: true}}
	if msg.Content != nil {
		edited.Content = *msg.Content
	}
	if msg.Embeds != nil {
		edited.Embeds = *msg.Embeds
	}
	return edited, nil
}

// DeleteMessage records the call.
func (t *Transport) DeleteMessage(_ context.Context, channelID, messageID snowflake.ID) error {
	return t.record(Call{Kind: CallDelete, ChannelID: channelID, MessageID: messageID})
}

// AddReaction records the call.
func (t *Transport) AddReaction(_ context.Context, channelID, messageID snowflake.ID, emoji types.Emoji) error {
	return t.record(Call{Kind: CallAddReaction, ChannelID: channelID, MessageID: messageID, Emoji: emoji})
}

// RemoveUserReaction records the call.
func (t *Transport) RemoveUserReaction(
	_ context.Context, channelID, messageID snowflake.ID, emoji types.Emoji, userID snowflake.ID,
) error {
	return t.record(Call{
		Kind:      CallRemoveUserReaction,
		ChannelID: channelID,
		MessageID: messageID,
		UserID:    userID,
		Emoji:     emoji,
	})
}

// RemoveAllReactions records the call.
func (t *Transport) RemoveAllReactions(_ context.Context, channelID, messageID snowflake.ID) error {
	return t.record(Call{Kind: CallRemoveAllReactions, ChannelID: channelID, MessageID: messageID})
}
