package interactivity

import (
	"context"
	"errors"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/robalyx/interactivity/pkg/interactivity/types"
	"github.com/robalyx/interactivity/pkg/utils"
	"go.uber.org/zap"
)

// DelayedSendMessageAndDelete sends msg to channelID after sendDelay and
// deletes it deleteDelay later. A non-positive deleteDelay uses the default
// timeout. Files travel inside msg. The work runs in the background; it
// returns ErrServiceClosed when the service no longer accepts work.
func (s *Service) DelayedSendMessageAndDelete(
	channelID snowflake.ID, sendDelay, deleteDelay time.Duration, msg discord.MessageCreate,
) error {
	return s.spawn(func() {
		if utils.ContextSleep(s.ctx, sendDelay) == utils.SleepCancelled {
			return
		}

		sent, err := s.transport.SendMessage(s.ctx, channelID, msg)
		if err != nil {
			s.logger.Warn("Failed to send delayed message",
				zap.Uint64("channelID", uint64(channelID)),
				zap.Error(err))
			return
		}

		s.deleteAfter(sent.ChannelID, sent.ID, deleteDelay)
	})
}

// DelayedDeleteMessage deletes a message after delay. A non-positive delay
// uses the default timeout.
func (s *Service) DelayedDeleteMessage(channelID, messageID snowflake.ID, delay time.Duration) error {
	return s.spawn(func() {
		s.deleteAfter(channelID, messageID, delay)
	})
}

// spawn runs fn in the background unless the service is closed.
func (s *Service) spawn(fn func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrServiceClosed
	}
	s.tasks.Go(fn)
	return nil
}

func (s *Service) deleteAfter(channelID, messageID snowflake.ID, delay time.Duration) {
	if utils.ContextSleep(s.ctx, s.timeout(delay)) == utils.SleepCancelled {
		s.logger.Debug("Delayed deletion cancelled", zap.Uint64("messageID", uint64(messageID)))
		return
	}

	if err := s.deleteWithRetry(s.ctx, channelID, messageID); err != nil {
		s.logger.Warn("Failed to delete message",
			zap.Uint64("messageID", uint64(messageID)),
			zap.Error(err))
	}
}

// deleteWithRetry deletes a message, retrying transient failures. A message
// that is already gone counts as deleted.
func (s *Service) deleteWithRetry(ctx context.Context, channelID, messageID snowflake.ID) error {
	_, err := utils.WithRetry(ctx, func() (struct{}, error) {
		err := s.transport.DeleteMessage(ctx, channelID, messageID)
		if errors.Is(err, types.ErrUnknownMessage) {
			return struct{}{}, utils.Permanent(err)
		}
		return struct{}{}, err
	}, s.retry)
	if errors.Is(err, types.ErrUnknownMessage) {
		return nil
	}
	return err
}
