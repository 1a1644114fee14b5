package interactivity

import (
	"context"
	"fmt"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/robalyx/interactivity/pkg/interactivity/actions"
	"github.com/robalyx/interactivity/pkg/interactivity/criteria"
	"github.com/robalyx/interactivity/pkg/interactivity/selection"
	"github.com/robalyx/interactivity/pkg/interactivity/types"
	"go.uber.org/zap"
)

// SendSelection sends the selection embed to channelID and waits for a
// user to pick a value. Picking the cancel entry ends as cancelled.
//
// Once the wait is over the message is deleted when DeletionAfterCapturedContext
// is set, otherwise a cancelled or timed out selection shows the matching
// end embed.
func SendSelection[T any](
	ctx context.Context, s *Service, sel selection.Selection[T], channelID snowflake.ID, timeout time.Duration,
) (types.Result[T], error) {
	create := discord.NewMessageCreateBuilder().SetEmbeds(sel.Embed()).Build()
	sent, err := s.transport.SendMessage(ctx, channelID, create)
	if err != nil {
		return types.Result[T]{}, fmt.Errorf("failed to send selection: %w", err)
	}

	interest := messagesIn(sent.ChannelID)
	if sel.Mode() == selection.ModeReaction {
		interest = reactionsOn(sent.ID)
	}
	sub := s.hub.subscribe(interest)
	defer s.hub.unsubscribe(sub)

	if err := sel.Initialize(ctx, s.transport, sent); err != nil {
		return types.Result[T]{}, fmt.Errorf("failed to initialize selection: %w", err)
	}

	var handle handler[T]
	switch sel.Mode() {
	case selection.ModeReaction:
		handle = reactionSelectionHandler(s, sel, sent)
	default:
		handle = messageSelectionHandler(s, sel, sent)
	}

	result := race(ctx, s, sub, timeout, handle)
	s.finishSelection(ctx, sent, sel.Deletion(), result.Status, sel.CancelledEmbed(), sel.TimedOutEmbed())
	return result, nil
}

func messageSelectionHandler[T any](s *Service, sel selection.Selection[T], sent *discord.Message) handler[T] {
	filter := criteria.New(criteria.MessageChannel(sent.ChannelID))
	users := userCriteria(sel.Users(), criteria.MessageUser)
	var acts actions.Collection[types.Message]
	if action := actions.MessagesFromDeletion(sel.Deletion()); action != nil {
		acts = append(acts, action)
	}

	return func(ctx context.Context, event any) (types.Result[T], bool) {
		msg, ok := event.(types.Message)
		if !ok || !filter.Judge(ctx, msg) {
			return types.Result[T]{}, false
		}

		result, matched := sel.HandleMessage(ctx, sent, msg)
		valid := matched && users.Judge(ctx, msg)
		if err := acts.Apply(ctx, s.transport, msg, !valid); err != nil {
			s.logger.Warn("Failed to apply selection actions", zap.Error(err))
		}
		return result, valid
	}
}

func reactionSelectionHandler[T any](s *Service, sel selection.Selection[T], sent *discord.Message) handler[T] {
	filter := criteria.New(criteria.ReactionMessage(sent.ID))
	users := userCriteria(sel.Users(), criteria.ReactionUser)
	var acts actions.Collection[types.Reaction]
	if action := actions.ReactionsFromDeletion(sel.Deletion()); action != nil {
		acts = append(acts, action)
	}

	return func(ctx context.Context, event any) (types.Result[T], bool) {
		r, ok := event.(types.Reaction)
		if !ok || !filter.Judge(ctx, r) {
			return types.Result[T]{}, false
		}

		result, matched := sel.HandleReaction(ctx, sent, r)
		valid := matched && users.Judge(ctx, r)
		if err := acts.Apply(ctx, s.transport, r, !valid); err != nil {
			s.logger.Warn("Failed to apply selection actions", zap.Error(err))
		}
		return result, valid
	}
}

// userCriteria restricts a request to users, or accepts everyone when no
// user is given.
func userCriteria[T any](
	users []snowflake.ID, restrict func(...snowflake.ID) criteria.Criterion[T],
) criteria.Criteria[T] {
	if len(users) == 0 {
		return criteria.Criteria[T]{}
	}
	return criteria.New(restrict(users...))
}

// finishSelection cleans up the message of a selection or paginator after
// its wait ended.
func (s *Service) finishSelection(
	ctx context.Context, sent *discord.Message, deletion types.DeletionOptions, status types.Status,
	cancelledEmbed, timedOutEmbed *discord.Embed,
) {
	if deletion.Has(types.DeletionAfterCapturedContext) {
		cleanupCtx, cancel := s.cleanupContext(ctx)
		defer cancel()

		if err := s.deleteWithRetry(cleanupCtx, sent.ChannelID, sent.ID); err != nil {
			s.logger.Warn("Failed to delete message after request",
				zap.Uint64("messageID", uint64(sent.ID)),
				zap.Error(err))
		}
		return
	}

	switch status {
	case types.StatusCancelled:
		s.replaceEmbed(ctx, sent.ChannelID, sent.ID, cancelledEmbed)
	case types.StatusTimedOut:
		s.replaceEmbed(ctx, sent.ChannelID, sent.ID, timedOutEmbed)
	case types.StatusSuccess:
	}
}
