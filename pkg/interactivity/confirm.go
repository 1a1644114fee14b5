package interactivity

import (
	"context"
	"fmt"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/robalyx/interactivity/pkg/interactivity/confirmation"
	"github.com/robalyx/interactivity/pkg/interactivity/criteria"
	"github.com/robalyx/interactivity/pkg/interactivity/types"
	"go.uber.org/zap"
)

// Confirm adds the confirm and decline emojis to the request message and
// waits for an answer. Confirming succeeds with true, declining ends as
// cancelled carrying false. A cancelled or timed out request replaces the
// message embed with the matching end embed.
func (s *Service) Confirm(
	ctx context.Context, req *confirmation.Request, timeout time.Duration,
) (types.Result[bool], error) {
	if req == nil || req.Message == nil {
		return types.Result[bool]{}, ErrNilRequest
	}

	sub := s.hub.subscribe(reactionsOn(req.Message.ID))
	defer s.hub.unsubscribe(sub)

	for _, emoji := range req.Emojis() {
		if err := s.transport.AddReaction(ctx, req.Message.ChannelID, req.Message.ID, emoji); err != nil {
			return types.Result[bool]{}, fmt.Errorf("failed to add confirmation reaction: %w", err)
		}
	}

	filter := criteria.New(req.Filter())
	crit := req.Criteria()
	acts := req.Actions()

	result := race(ctx, s, sub, timeout, func(ctx context.Context, event any) (types.Result[bool], bool) {
		r, ok := event.(types.Reaction)
		if !ok || !judge(ctx, s, r, filter, crit, acts) {
			return types.Result[bool]{}, false
		}

		if req.ParseAction(r.Emoji) == confirmation.ActionConfirm {
			return types.Success(true, 0), true
		}
		return types.CancelledWith(false, 0), true
	})

	switch {
	case result.IsCancelled():
		s.replaceEmbed(ctx, req.Message.ChannelID, req.Message.ID, req.CancelledEmbed)
	case result.IsTimedOut():
		s.replaceEmbed(ctx, req.Message.ChannelID, req.Message.ID, req.TimedOutEmbed)
	}

	return result, nil
}

// replaceEmbed swaps the embeds of a message for embed. A nil embed keeps
// the message as it is.
func (s *Service) replaceEmbed(ctx context.Context, channelID, messageID snowflake.ID, embed *discord.Embed) {
	if embed == nil {
		return
	}

	ctx, cancel := s.cleanupContext(ctx)
	defer cancel()

	update := discord.NewMessageUpdateBuilder().SetEmbeds(*embed).Build()
	if _, err := s.transport.EditMessage(ctx, channelID, messageID, update); err != nil {
		s.logger.Warn("Failed to replace message embed",
			zap.Uint64("messageID", uint64(messageID)),
			zap.Error(err))
	}
}
