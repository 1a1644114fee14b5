package interactivity_test

import (
	"testing"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/robalyx/interactivity/pkg/interactivity"
	"github.com/robalyx/interactivity/pkg/interactivity/confirmation"
	"github.com/robalyx/interactivity/pkg/interactivity/transporttest"
	"github.com/robalyx/interactivity/pkg/interactivity/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type confirmResult struct {
	result types.Result[bool]
	err    error
}

func startConfirm(
	t *testing.T, svc *interactivity.Service, req *confirmation.Request, timeout time.Duration,
) <-chan confirmResult {
	t.Helper()

	done := async(func() confirmResult {
		result, err := svc.Confirm(t.Context(), req, timeout)
		return confirmResult{result, err}
	})
	waitPending(t, svc, 1)
	return done
}

func confirmMessage() *discord.Message {
	return &discord.Message{ID: 500, ChannelID: channelID}
}

func TestConfirmNilRequest(t *testing.T) {
	t.Parallel()

	svc, _ := setupService(t)

	_, err := svc.Confirm(t.Context(), nil, time.Second)
	require.ErrorIs(t, err, interactivity.ErrNilRequest)

	_, err = svc.Confirm(t.Context(), confirmation.NewRequest(nil), time.Second)
	require.ErrorIs(t, err, interactivity.ErrNilRequest)
}

func TestConfirmAccepted(t *testing.T) {
	t.Parallel()

	svc, transport := setupService(t)
	req := confirmation.NewRequest(confirmMessage(), confirmation.WithUsers(userID))
	done := startConfirm(t, svc, req, time.Second)

	// Reactions on other messages or by other users do not count.
	svc.DispatchReaction(reaction(userID, 501, "✅"))
	svc.DispatchReaction(reaction(otherID, 500, "✅"))
	svc.DispatchReaction(reaction(userID, 500, "✅"))

	got := receive(t, done)
	require.NoError(t, got.err)
	require.True(t, got.result.IsSuccess())
	assert.True(t, got.result.Value)

	added := transport.CallsOf(transporttest.CallAddReaction)
	require.Len(t, added, 2)
	assert.Equal(t, "✅", added[0].Emoji.Name)
	assert.Equal(t, "❌", added[1].Emoji.Name)

	removed := transport.CallsOf(transporttest.CallRemoveUserReaction)
	require.Len(t, removed, 2, "the foreign and the accepted reaction are removed")
	assert.Equal(t, otherID, removed[0].UserID)
	assert.Equal(t, userID, removed[1].UserID)

	assert.Empty(t, transport.CallsOf(transporttest.CallEdit))
}

func TestConfirmDeclined(t *testing.T) {
	t.Parallel()

	svc, transport := setupService(t)
	done := startConfirm(t, svc, confirmation.NewRequest(confirmMessage()), time.Second)

	svc.DispatchReaction(reaction(otherID, 500, "❌"))

	got := receive(t, done)
	require.NoError(t, got.err)
	require.True(t, got.result.IsCancelled())
	assert.False(t, got.result.Value)

	edits := transport.CallsOf(transporttest.CallEdit)
	require.Len(t, edits, 1)
	require.NotNil(t, edits[0].Update.Embeds)
	require.Len(t, *edits[0].Update.Embeds, 1)
	assert.Equal(t, types.CancelledEmbed().Title, (*edits[0].Update.Embeds)[0].Title)
}

func TestConfirmTimedOut(t *testing.T) {
	t.Parallel()

	svc, transport := setupService(t)
	result, err := svc.Confirm(t.Context(), confirmation.NewRequest(confirmMessage()), 30*time.Millisecond)
	require.NoError(t, err)
	assert.True(t, result.IsTimedOut())

	edits := transport.CallsOf(transporttest.CallEdit)
	require.Len(t, edits, 1)
	assert.Equal(t, types.TimedOutEmbed().Title, (*edits[0].Update.Embeds)[0].Title)
}

func TestConfirmReactionFailure(t *testing.T) {
	t.Parallel()

	svc, transport := setupService(t)
	transport.Fail(transporttest.CallAddReaction, 1)

	_, err := svc.Confirm(t.Context(), confirmation.NewRequest(confirmMessage()), time.Second)
	require.ErrorIs(t, err, transporttest.ErrInjected)
	assert.Equal(t, 0, svc.Pending())
}

func TestConfirmAnswerSurvivesUnrelatedTraffic(t *testing.T) {
	t.Parallel()

	svc, transport := setupService(t, interactivity.WithEventBuffer(4))
	req := confirmation.NewRequest(confirmMessage(), confirmation.WithUsers(userID))
	done := startConfirm(t, svc, req, time.Second)
	waitCalls(t, transport, transporttest.CallAddReaction, 2)

	// Removing the foreign reaction stalls the request while traffic from
	// other channels and messages keeps arriving.
	release := transport.Hold(transporttest.CallRemoveUserReaction)
	defer release()

	svc.DispatchReaction(reaction(otherID, 500, "✅"))
	waitCalls(t, transport, transporttest.CallRemoveUserReaction, 1)

	for range 64 {
		chatter := userMessage(otherID, "chatter")
		chatter.ChannelID = 999
		svc.DispatchMessage(chatter)
		svc.DispatchReaction(reaction(otherID, 501, "✅"))
	}
	svc.DispatchReaction(reaction(userID, 500, "✅"))
	release()

	got := receive(t, done)
	require.NoError(t, got.err)
	require.True(t, got.result.IsSuccess())
	assert.True(t, got.result.Value)
}
