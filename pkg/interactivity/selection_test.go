package interactivity_test

import (
	"testing"
	"time"

	"github.com/robalyx/interactivity/pkg/interactivity"
	"github.com/robalyx/interactivity/pkg/interactivity/selection"
	"github.com/robalyx/interactivity/pkg/interactivity/transporttest"
	"github.com/robalyx/interactivity/pkg/interactivity/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type selectionResult[T any] struct {
	result types.Result[T]
	err    error
}

func startSelection[T any](
	t *testing.T, svc *interactivity.Service, sel selection.Selection[T], timeout time.Duration,
) <-chan selectionResult[T] {
	t.Helper()

	done := async(func() selectionResult[T] {
		result, err := interactivity.SendSelection(t.Context(), svc, sel, channelID, timeout)
		return selectionResult[T]{result, err}
	})
	waitPending(t, svc, 1)
	return done
}

func TestSendMessageSelection(t *testing.T) {
	t.Parallel()

	svc, transport := setupService(t)
	sel, err := selection.NewMessageBuilder[string]().
		WithValues("Apple", "Banana").
		WithUsers(userID).
		WithDeletion(types.DeletionValid | types.DeletionInvalids | types.DeletionAfterCapturedContext).
		Build()
	require.NoError(t, err)

	done := startSelection(t, svc, sel, time.Second)

	other := userMessage(otherID, "1")
	elsewhere := userMessage(userID, "1")
	elsewhere.ChannelID = channelID + 1
	wrong := userMessage(userID, "not an entry")
	answer := userMessage(userID, "  banana ")

	svc.DispatchMessage(other)
	svc.DispatchMessage(elsewhere)
	svc.DispatchMessage(wrong)
	svc.DispatchMessage(answer)

	got := receive(t, done)
	require.NoError(t, got.err)
	require.True(t, got.result.IsSuccess())
	assert.Equal(t, "Banana", got.result.Value)

	sent := transport.CallsOf(transporttest.CallSend)
	require.Len(t, sent, 1)
	require.Len(t, sent[0].Create.Embeds, 1)
	assert.Equal(t, selection.DefaultTitle, sent[0].Create.Embeds[0].Fields[0].Name)

	var deleted []uint64
	for _, c := range transport.CallsOf(transporttest.CallDelete) {
		deleted = append(deleted, uint64(c.MessageID))
	}
	assert.Equal(t, []uint64{
		uint64(other.ID), uint64(wrong.ID), uint64(answer.ID), uint64(sent[0].MessageID),
	}, deleted, "messages in other channels are left alone")
	assert.Empty(t, transport.CallsOf(transporttest.CallEdit))
}

func TestSendMessageSelectionCancel(t *testing.T) {
	t.Parallel()

	svc, transport := setupService(t)
	sel, err := selection.NewMessageBuilder[int]().WithValues(1, 2).Build()
	require.NoError(t, err)

	done := startSelection(t, svc, sel, time.Second)
	svc.DispatchMessage(userMessage(userID, "cancel"))

	got := receive(t, done)
	require.NoError(t, got.err)
	assert.True(t, got.result.IsCancelled())

	edits := transport.CallsOf(transporttest.CallEdit)
	require.Len(t, edits, 1)
	assert.Equal(t, types.CancelledEmbed().Title, (*edits[0].Update.Embeds)[0].Title)
	assert.Empty(t, transport.CallsOf(transporttest.CallDelete))
}

func TestSendReactionSelection(t *testing.T) {
	t.Parallel()

	svc, transport := setupService(t)
	one, two := types.NewEmoji("1️⃣"), types.NewEmoji("2️⃣")
	sel, err := selection.NewReactionBuilder[string]().
		WithValues("Apple", "Banana").
		WithEmojis(one, two, types.NewEmoji("3️⃣")).
		WithDeletion(types.DeletionInvalids).
		Build()
	require.NoError(t, err)

	done := startSelection(t, svc, sel, time.Second)

	waitCalls(t, transport, transporttest.CallAddReaction, 3)
	added := transport.CallsOf(transporttest.CallAddReaction)
	require.Len(t, added, 3, "two values and the cancel emoji")
	sentID := added[0].MessageID

	svc.DispatchReaction(reaction(userID, sentID, "🍌"))
	svc.DispatchReaction(types.Reaction{UserID: userID, ChannelID: channelID, MessageID: sentID, Emoji: two})

	got := receive(t, done)
	require.NoError(t, got.err)
	require.True(t, got.result.IsSuccess())
	assert.Equal(t, "Banana", got.result.Value)

	removed := transport.CallsOf(transporttest.CallRemoveUserReaction)
	require.Len(t, removed, 1)
	assert.Equal(t, "🍌", removed[0].Emoji.Name)
}

func TestSendReactionSelectionTimeout(t *testing.T) {
	t.Parallel()

	svc, transport := setupService(t)
	sel, err := selection.NewReactionBuilder[string]().
		WithValues("Apple").
		WithEmojis(types.NewEmoji("1️⃣")).
		Build()
	require.NoError(t, err)

	result, err := interactivity.SendSelection(t.Context(), svc, sel, channelID, 30*time.Millisecond)
	require.NoError(t, err)
	assert.True(t, result.IsTimedOut())

	edits := transport.CallsOf(transporttest.CallEdit)
	require.Len(t, edits, 1)
	assert.Equal(t, types.TimedOutEmbed().Title, (*edits[0].Update.Embeds)[0].Title)
}
