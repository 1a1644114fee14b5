package interactivity

import (
	"context"
	"fmt"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/robalyx/interactivity/pkg/interactivity/criteria"
	"github.com/robalyx/interactivity/pkg/interactivity/pagination"
	"github.com/robalyx/interactivity/pkg/interactivity/types"
	"go.uber.org/zap"
)

// SendPaginator sends the current page of p to channelID, attaches its
// emotes and lets the users flip through the pages until they exit or the
// timeout elapses. Exiting ends as cancelled. The result holds the index of
// the page shown last.
//
// Afterwards every reaction is removed, then the message is deleted when
// DeletionAfterCapturedContext is set or shows the matching end embed.
func (s *Service) SendPaginator(
	ctx context.Context, p pagination.Paginator, channelID snowflake.ID, timeout time.Duration,
) (types.Result[int], error) {
	page, err := p.Page(ctx, p.CurrentPageIndex())
	if err != nil {
		return types.Result[int]{}, fmt.Errorf("failed to load first page: %w", err)
	}

	sent, err := s.transport.SendMessage(ctx, channelID, page.MessageCreate())
	if err != nil {
		return types.Result[int]{}, fmt.Errorf("failed to send paginator: %w", err)
	}

	sub := s.hub.subscribe(reactionsOn(sent.ID))
	defer s.hub.unsubscribe(sub)

	for _, emoji := range pagination.Emojis(p) {
		if err := s.transport.AddReaction(ctx, sent.ChannelID, sent.ID, emoji); err != nil {
			return types.Result[int]{}, fmt.Errorf("failed to add paginator reaction: %w", err)
		}
	}

	logger := s.logger.With(zap.Uint64("messageID", uint64(sent.ID)))
	filter := criteria.New(criteria.ReactionMessage(sent.ID))
	crit := pagination.ReactionCriteria(p)
	acts := pagination.ReactionActions(p)

	result := race(ctx, s, sub, timeout, func(ctx context.Context, event any) (types.Result[int], bool) {
		r, ok := event.(types.Reaction)
		if !ok || !judge(ctx, s, r, filter, crit, acts) {
			return types.Result[int]{}, false
		}

		action := p.ParseAction(r.Emoji)
		if action == pagination.ActionExit {
			return types.CancelledWith(p.CurrentPageIndex(), 0), true
		}
		target := p.Target(action)
		if target == p.CurrentPageIndex() {
			return types.Result[int]{}, false
		}

		// The current page only moves once the target page is shown.
		page, err := p.Page(ctx, target)
		if err != nil {
			logger.Warn("Failed to load page", zap.Int("index", target), zap.Error(err))
			return types.Result[int]{}, false
		}
		if _, err := s.transport.EditMessage(ctx, sent.ChannelID, sent.ID, page.MessageUpdate()); err != nil {
			logger.Warn("Failed to show page", zap.Int("index", target), zap.Error(err))
			return types.Result[int]{}, false
		}
		p.SetCurrentPage(target)
		return types.Result[int]{}, false
	})
	result.Value = p.CurrentPageIndex()

	cleanupCtx, cancel := s.cleanupContext(ctx)
	defer cancel()
	if err := s.transport.RemoveAllReactions(cleanupCtx, sent.ChannelID, sent.ID); err != nil {
		logger.Warn("Failed to remove paginator reactions", zap.Error(err))
	}

	s.finishSelection(ctx, sent, p.Deletion(), result.Status, p.CancelledEmbed(), p.TimedOutEmbed())
	return result, nil
}
