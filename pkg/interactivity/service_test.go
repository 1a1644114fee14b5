package interactivity_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/snowflake/v2"
	"github.com/robalyx/interactivity/pkg/interactivity"
	"github.com/robalyx/interactivity/pkg/interactivity/actions"
	"github.com/robalyx/interactivity/pkg/interactivity/criteria"
	"github.com/robalyx/interactivity/pkg/interactivity/transporttest"
	"github.com/robalyx/interactivity/pkg/interactivity/types"
	"github.com/robalyx/interactivity/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const (
	botID     snowflake.ID = 1
	userID    snowflake.ID = 5
	otherID   snowflake.ID = 6
	channelID snowflake.ID = 10
)

func setupService(t *testing.T, opts ...interactivity.Option) (*interactivity.Service, *transporttest.Transport) {
	t.Helper()

	transport := transporttest.New(botID)
	opts = append([]interactivity.Option{
		interactivity.WithCleanupRetry(utils.RetryOptions{
			MaxElapsedTime:  time.Second,
			InitialInterval: time.Millisecond,
			MaxInterval:     5 * time.Millisecond,
			MaxRetries:      3,
		}),
	}, opts...)

	svc, err := interactivity.New(transport, zaptest.NewLogger(t), opts...)
	require.NoError(t, err)
	t.Cleanup(svc.Close)

	return svc, transport
}

// waitPending blocks until n requests are subscribed to events.
func waitPending(t *testing.T, svc *interactivity.Service, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return svc.Pending() == n }, time.Second, time.Millisecond)
}

// async runs fn in a goroutine and returns a channel receiving its result.
func async[T any](fn func() T) <-chan T {
	ch := make(chan T, 1)
	go func() { ch <- fn() }()
	return ch
}

func receive[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(2 * time.Second):
		require.FailNow(t, "request did not finish")
		var zero T
		return zero
	}
}

var lastMessageID atomic.Uint64

func userMessage(author snowflake.ID, content string) types.Message {
	return types.Message{
		ID:        snowflake.ID(lastMessageID.Add(1)),
		ChannelID: channelID,
		Author:    discord.User{ID: author},
		Content:   content,
	}
}

func reaction(user, messageID snowflake.ID, emoji string) types.Reaction {
	return types.Reaction{UserID: user, ChannelID: channelID, MessageID: messageID, Emoji: types.NewEmoji(emoji)}
}

func TestNewValidatesTimeout(t *testing.T) {
	t.Parallel()

	_, err := interactivity.New(transporttest.New(botID), nil, interactivity.WithDefaultTimeout(0))
	require.ErrorIs(t, err, interactivity.ErrInvalidTimeout)

	_, err = interactivity.New(transporttest.New(botID), nil, interactivity.WithDefaultTimeout(-time.Second))
	require.ErrorIs(t, err, interactivity.ErrInvalidTimeout)

	svc, err := interactivity.New(transporttest.New(botID), nil, interactivity.WithEventBuffer(4))
	require.NoError(t, err)
	defer svc.Close()

	assert.Equal(t, interactivity.DefaultTimeout, svc.DefaultTimeout())
	assert.Equal(t, 45*time.Second, svc.DefaultTimeout())
	assert.GreaterOrEqual(t, svc.Uptime(), time.Duration(0))
}

func TestNextMessage(t *testing.T) {
	t.Parallel()

	svc, transport := setupService(t)

	done := async(func() types.Result[types.Message] {
		return svc.NextMessage(t.Context(), time.Second,
			interactivity.WithCriterion(criteria.MessageUser(userID)),
			interactivity.WithAction(actions.DeleteMessages(true, false)),
		)
	})
	waitPending(t, svc, 1)

	svc.DispatchMessage(userMessage(botID, "ignored, written by the bot"))
	svc.DispatchMessage(userMessage(otherID, "invalid"))
	svc.DispatchMessage(userMessage(userID, "hello"))

	result := receive(t, done)
	require.True(t, result.IsSuccess())
	assert.Equal(t, "hello", result.Value.Content)
	assert.Positive(t, result.Elapsed)

	deletes := transport.CallsOf(transporttest.CallDelete)
	require.Len(t, deletes, 1, "only the invalid message is deleted")
	assert.Equal(t, 0, svc.Pending())
}

func TestNextMessageTimeout(t *testing.T) {
	t.Parallel()

	svc, _ := setupService(t)

	result := svc.NextMessage(t.Context(), 20*time.Millisecond)
	assert.True(t, result.IsTimedOut())
	assert.GreaterOrEqual(t, result.Elapsed, 20*time.Millisecond)
}

func TestNextMessageDefaultTimeout(t *testing.T) {
	t.Parallel()

	svc, _ := setupService(t, interactivity.WithDefaultTimeout(20*time.Millisecond))

	result := svc.NextMessage(t.Context(), 0)
	assert.True(t, result.IsTimedOut())
}

func TestNextMessageCancelled(t *testing.T) {
	t.Parallel()

	svc, _ := setupService(t)
	ctx, cancel := context.WithCancel(t.Context())

	done := async(func() types.Result[types.Message] {
		return svc.NextMessage(ctx, time.Minute)
	})
	waitPending(t, svc, 1)
	cancel()

	assert.True(t, receive(t, done).IsCancelled())
}

func TestNextMessageDeadlineIsCancellation(t *testing.T) {
	t.Parallel()

	svc, _ := setupService(t)
	ctx, cancel := context.WithTimeout(t.Context(), 20*time.Millisecond)
	defer cancel()

	result := svc.NextMessage(ctx, time.Minute)
	assert.True(t, result.IsCancelled())
}

func TestNextReactionFilter(t *testing.T) {
	t.Parallel()

	svc, transport := setupService(t)

	var invalidRuns, validRuns int
	done := async(func() types.Result[types.Reaction] {
		return svc.NextReaction(t.Context(), time.Second,
			interactivity.WithFilter(criteria.ReactionMessage(99)),
			interactivity.WithCriterion(criteria.ReactionEmoji(types.NewEmoji("👍"))),
			interactivity.WithActionFunc(func(context.Context, types.Transport, types.Reaction) error {
				invalidRuns++
				return nil
			}, true, false),
			interactivity.WithActionFunc(func(context.Context, types.Transport, types.Reaction) error {
				validRuns++
				return nil
			}, false, true),
		)
	})
	waitPending(t, svc, 1)

	svc.DispatchReaction(types.Reaction{UserID: userID, MessageID: 98, Emoji: types.NewEmoji("👍")})
	svc.DispatchReaction(types.Reaction{UserID: userID, MessageID: 99, Emoji: types.NewEmoji("👎")})
	svc.DispatchReaction(types.Reaction{UserID: botID, MessageID: 99, Emoji: types.NewEmoji("👍")})
	svc.DispatchReaction(types.Reaction{UserID: userID, MessageID: 99, Emoji: types.NewEmoji("👍")})

	result := receive(t, done)
	require.True(t, result.IsSuccess())
	assert.Equal(t, userID, result.Value.UserID)
	assert.Equal(t, 1, invalidRuns, "the filtered reaction runs no action")
	assert.Equal(t, 1, validRuns)
	assert.Empty(t, transport.Calls())
}

func TestConcurrentWaiters(t *testing.T) {
	t.Parallel()

	svc, _ := setupService(t)

	first := async(func() types.Result[types.Message] {
		return svc.NextMessage(t.Context(), time.Second, interactivity.WithCriterion(criteria.MessageUser(userID)))
	})
	second := async(func() types.Result[types.Message] {
		return svc.NextMessage(t.Context(), time.Second, interactivity.WithCriterion(criteria.MessageUser(otherID)))
	})
	waitPending(t, svc, 2)

	svc.DispatchMessage(userMessage(otherID, "second"))
	svc.DispatchMessage(userMessage(userID, "first"))

	assert.Equal(t, "first", receive(t, first).Value.Content)
	assert.Equal(t, "second", receive(t, second).Value.Content)
}

func TestCloseCancelsWaiters(t *testing.T) {
	t.Parallel()

	svc, err := interactivity.New(transporttest.New(botID), zaptest.NewLogger(t))
	require.NoError(t, err)

	done := async(func() types.Result[types.Message] {
		return svc.NextMessage(context.Background(), time.Minute)
	})
	waitPending(t, svc, 1)

	svc.Close()
	assert.True(t, receive(t, done).IsCancelled())
	require.ErrorIs(t, svc.DelayedDeleteMessage(channelID, 1, time.Millisecond), interactivity.ErrServiceClosed)
}

func reactionAdd(user, messageID snowflake.ID, emoji discord.PartialEmoji) *events.MessageReactionAdd {
	return &events.MessageReactionAdd{
		GenericReaction: &events.GenericReaction{
			UserID:    user,
			ChannelID: channelID,
			MessageID: messageID,
			Emoji:     emoji,
		},
	}
}

func messageCreate(msg types.Message) *events.MessageCreate {
	return &events.MessageCreate{
		GenericMessage: &events.GenericMessage{
			MessageID: msg.ID,
			Message:   msg,
			ChannelID: msg.ChannelID,
		},
	}
}

func TestOnEventReactionAdd(t *testing.T) {
	t.Parallel()

	svc, _ := setupService(t)

	done := async(func() types.Result[types.Reaction] {
		return svc.NextReaction(t.Context(), time.Second)
	})
	waitPending(t, svc, 1)

	emojiID := snowflake.ID(77)
	name := "party"
	guildID := snowflake.ID(3)
	event := reactionAdd(userID, 42, discord.PartialEmoji{ID: &emojiID, Name: &name, Animated: true})
	event.GuildID = &guildID
	event.Member = &discord.Member{User: discord.User{ID: userID}, Nick: &name}
	svc.OnEvent(event)

	result := receive(t, done)
	require.True(t, result.IsSuccess())
	got := result.Value
	assert.Equal(t, userID, got.UserID)
	assert.Equal(t, channelID, got.ChannelID)
	assert.Equal(t, snowflake.ID(42), got.MessageID)
	require.NotNil(t, got.GuildID)
	assert.Equal(t, guildID, *got.GuildID)
	require.NotNil(t, got.Member)
	assert.Equal(t, userID, got.Member.User.ID)
	assert.Equal(t, types.NewCustomEmoji("party", emojiID, true), got.Emoji)
}

func TestOnEventMessageCreate(t *testing.T) {
	t.Parallel()

	svc, _ := setupService(t)

	done := async(func() types.Result[types.Message] {
		return svc.NextMessage(t.Context(), time.Second)
	})
	waitPending(t, svc, 1)

	msg := userMessage(userID, "hello")
	svc.OnEvent(messageCreate(msg))

	result := receive(t, done)
	require.True(t, result.IsSuccess())
	assert.Equal(t, msg.ID, result.Value.ID)
	assert.Equal(t, "hello", result.Value.Content)
}

func TestOnEventIgnoresEvents(t *testing.T) {
	t.Parallel()

	unicode := "👍"
	tests := []struct {
		name  string
		event bot.Event
	}{
		{
			name:  "reaction added by the bot",
			event: reactionAdd(botID, 42, discord.PartialEmoji{Name: &unicode}),
		},
		{
			name:  "message written by the bot",
			event: messageCreate(userMessage(botID, "from the bot")),
		},
		{
			name: "reaction removed",
			event: &events.MessageReactionRemove{
				GenericReaction: &events.GenericReaction{UserID: userID, ChannelID: channelID, MessageID: 42},
			},
		},
		{
			name: "message updated",
			event: &events.MessageUpdate{
				GenericMessage: &events.GenericMessage{Message: userMessage(userID, "edited"), ChannelID: channelID},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc, _ := setupService(t)

			messages := async(func() types.Result[types.Message] {
				return svc.NextMessage(t.Context(), time.Second)
			})
			reactions := async(func() types.Result[types.Reaction] {
				return svc.NextReaction(t.Context(), time.Second)
			})
			waitPending(t, svc, 2)

			svc.OnEvent(tt.event)
			svc.OnEvent(messageCreate(userMessage(userID, "sentinel")))
			svc.OnEvent(reactionAdd(userID, 43, discord.PartialEmoji{Name: &unicode}))

			assert.Equal(t, "sentinel", receive(t, messages).Value.Content)
			assert.Equal(t, snowflake.ID(43), receive(t, reactions).Value.MessageID)
		})
	}
}

func TestFullBufferDropsEvents(t *testing.T) {
	t.Parallel()

	svc, _ := setupService(t, interactivity.WithEventBuffer(1))

	started := make(chan struct{})
	gate := make(chan struct{})
	var rejected atomic.Int32
	done := async(func() types.Result[types.Message] {
		return svc.NextMessage(t.Context(), time.Second,
			interactivity.WithCriterion[types.Message](criteria.Func[types.Message](
				func(_ context.Context, msg types.Message) bool { return msg.Content == "answer" },
			)),
			interactivity.WithActionFunc(func(_ context.Context, _ types.Transport, msg types.Message) error {
				if msg.Content == "slow" {
					close(started)
					<-gate
				}
				rejected.Add(1)
				return nil
			}, true, false),
		)
	})
	waitPending(t, svc, 1)

	svc.DispatchMessage(userMessage(userID, "slow"))
	<-started

	// The request is stuck in its action. The buffer takes one event and
	// publishing never waits for it.
	published := async(func() bool {
		svc.DispatchMessage(userMessage(userID, "buffered"))
		svc.DispatchMessage(userMessage(userID, "dropped"))
		return true
	})
	assert.True(t, receive(t, published))

	close(gate)
	require.Eventually(t, func() bool { return rejected.Load() == 2 }, time.Second, time.Millisecond)

	svc.DispatchMessage(userMessage(userID, "answer"))
	result := receive(t, done)
	require.True(t, result.IsSuccess())
	assert.Equal(t, "answer", result.Value.Content)
	assert.Equal(t, int32(2), rejected.Load(), "the dropped message never reached the request")
}
