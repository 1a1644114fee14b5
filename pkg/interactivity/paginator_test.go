package interactivity_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/robalyx/interactivity/pkg/interactivity"
	"github.com/robalyx/interactivity/pkg/interactivity/pagination"
	"github.com/robalyx/interactivity/pkg/interactivity/transporttest"
	"github.com/robalyx/interactivity/pkg/interactivity/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type paginatorResult struct {
	result types.Result[int]
	err    error
}

func startPaginator(
	t *testing.T, svc *interactivity.Service, p pagination.Paginator, timeout time.Duration,
) <-chan paginatorResult {
	t.Helper()

	done := async(func() paginatorResult {
		result, err := svc.SendPaginator(t.Context(), p, channelID, timeout)
		return paginatorResult{result, err}
	})
	waitPending(t, svc, 1)
	return done
}

func threePages(t *testing.T, deletion types.DeletionOptions) *pagination.StaticPaginator {
	t.Helper()

	p, err := pagination.NewStaticBuilder().
		WithUsers(discord.User{ID: userID, Username: "alice"}).
		WithDeletion(deletion).
		WithPages(
			pagination.NewPageBuilder().WithTitle("one"),
			pagination.NewPageBuilder().WithTitle("two"),
			pagination.NewPageBuilder().WithTitle("three"),
		).
		Build()
	require.NoError(t, err)
	return p
}

// waitCalls blocks until transport recorded n calls of kind.
func waitCalls(t *testing.T, transport *transporttest.Transport, kind string, n int) {
	t.Helper()
	require.Eventually(t, func() bool {
		return len(transport.CallsOf(kind)) >= n
	}, time.Second, time.Millisecond)
}

func TestSendPaginatorNavigation(t *testing.T) {
	t.Parallel()

	svc, transport := setupService(t)
	done := startPaginator(t, svc, threePages(t, types.DeletionNone), time.Second)

	waitCalls(t, transport, transporttest.CallAddReaction, len(pagination.DefaultEmotes()))
	sentID := transport.CallsOf(transporttest.CallSend)[0].MessageID
	react := func(user snowflake.ID, emoji string) {
		svc.DispatchReaction(types.Reaction{
			UserID:    user,
			ChannelID: channelID,
			MessageID: sentID,
			Emoji:     types.NewEmoji(emoji),
		})
	}

	react(otherID, "▶")
	react(userID, "▶")
	waitCalls(t, transport, transporttest.CallEdit, 1)
	react(userID, "⏭")
	waitCalls(t, transport, transporttest.CallEdit, 2)
	react(userID, "▶")
	react(userID, "🛑")

	got := receive(t, done)
	require.NoError(t, got.err)
	require.True(t, got.result.IsCancelled())
	assert.Equal(t, 2, got.result.Value)

	edits := transport.CallsOf(transporttest.CallEdit)
	require.Len(t, edits, 3, "two page changes and the cancelled embed")
	assert.Equal(t, "two", (*edits[0].Update.Embeds)[0].Title)
	assert.Equal(t, "three", (*edits[1].Update.Embeds)[0].Title)
	assert.Equal(t, types.CancelledEmbed().Title, (*edits[2].Update.Embeds)[0].Title)

	assert.Len(t, transport.CallsOf(transporttest.CallRemoveAllReactions), 1)
	for _, c := range transport.CallsOf(transporttest.CallRemoveUserReaction) {
		assert.Equal(t, userID, c.UserID, "reactions of other users are kept without DeletionInvalids")
	}
}

func TestSendPaginatorDeletesAfterwards(t *testing.T) {
	t.Parallel()

	svc, transport := setupService(t)
	p := threePages(t, types.DeletionAfterCapturedContext)
	result, err := svc.SendPaginator(t.Context(), p, channelID, 30*time.Millisecond)
	require.NoError(t, err)
	assert.True(t, result.IsTimedOut())
	assert.Equal(t, 0, result.Value)

	sentID := transport.CallsOf(transporttest.CallSend)[0].MessageID
	deletes := transport.CallsOf(transporttest.CallDelete)
	require.Len(t, deletes, 1)
	assert.Equal(t, sentID, deletes[0].MessageID)
	assert.Empty(t, transport.CallsOf(transporttest.CallEdit))
}

func TestSendPaginatorSendFailure(t *testing.T) {
	t.Parallel()

	svc, transport := setupService(t)
	transport.Fail(transporttest.CallSend, 1)

	_, err := svc.SendPaginator(t.Context(), threePages(t, types.DeletionNone), channelID, time.Second)
	require.ErrorIs(t, err, transporttest.ErrInjected)
}

func TestSendPaginatorKeepsPageWhenLoadFails(t *testing.T) {
	t.Parallel()

	errUnavailable := errors.New("page unavailable")
	p, err := pagination.NewLazyBuilder().
		WithUsers(discord.User{ID: userID}).
		WithMaxPageIndex(2).
		WithPageFactory(func(_ context.Context, index int) (*pagination.PageBuilder, error) {
			if index == 1 {
				return nil, errUnavailable
			}
			return pagination.NewPageBuilder().WithTitle(fmt.Sprintf("page %d", index)), nil
		}).
		Build()
	require.NoError(t, err)

	svc, transport := setupService(t)
	done := startPaginator(t, svc, p, time.Second)
	waitCalls(t, transport, transporttest.CallAddReaction, len(pagination.DefaultEmotes()))
	sentID := transport.CallsOf(transporttest.CallSend)[0].MessageID

	svc.DispatchReaction(reaction(userID, sentID, "▶"))
	waitCalls(t, transport, transporttest.CallRemoveUserReaction, 1)
	assert.Equal(t, 0, p.CurrentPageIndex(), "a page that failed to load is never current")

	svc.DispatchReaction(reaction(userID, sentID, "⏭"))
	waitCalls(t, transport, transporttest.CallEdit, 1)
	svc.DispatchReaction(reaction(userID, sentID, "◀"))
	svc.DispatchReaction(reaction(userID, sentID, "🛑"))

	got := receive(t, done)
	require.NoError(t, got.err)
	require.True(t, got.result.IsCancelled())
	assert.Equal(t, 2, got.result.Value)

	edits := transport.CallsOf(transporttest.CallEdit)
	require.Len(t, edits, 2, "the last page and the cancelled embed")
	assert.Equal(t, "page 2", (*edits[0].Update.Embeds)[0].Title)
	assert.Equal(t, types.CancelledEmbed().Title, (*edits[1].Update.Embeds)[0].Title)
}

func TestSendPaginatorKeepsPageWhenEditFails(t *testing.T) {
	t.Parallel()

	svc, transport := setupService(t)
	p := threePages(t, types.DeletionNone)
	done := startPaginator(t, svc, p, time.Second)
	waitCalls(t, transport, transporttest.CallAddReaction, len(pagination.DefaultEmotes()))
	sentID := transport.CallsOf(transporttest.CallSend)[0].MessageID

	transport.Fail(transporttest.CallEdit, 1)
	svc.DispatchReaction(reaction(userID, sentID, "▶"))
	waitCalls(t, transport, transporttest.CallEdit, 1)
	svc.DispatchReaction(reaction(userID, sentID, "🛑"))

	got := receive(t, done)
	require.NoError(t, got.err)
	assert.Equal(t, 0, got.result.Value)
}
