package interactivity

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
	"github.com/robalyx/interactivity/pkg/interactivity/types"
)

// ClientTransport sends requests through the REST client of a disgo bot.
type ClientTransport struct {
	client bot.Client
}

var _ types.Transport = (*ClientTransport)(nil)

// NewClientTransport wraps a disgo client.
func NewClientTransport(client bot.Client) *ClientTransport {
	return &ClientTransport{client: client}
}

// SelfID returns the user ID of the connected bot.
func (t *ClientTransport) SelfID() snowflake.ID {
	return t.client.ID()
}

// SendMessage creates msg in channelID.
func (t *ClientTransport) SendMessage(
	ctx context.Context, channelID snowflake.ID, msg discord.MessageCreate,
) (*discord.Message, error) {
	return t.client.Rest().CreateMessage(channelID, msg, rest.WithCtx(ctx))
}

// EditMessage updates an existing message. A missing message wraps
// types.ErrUnknownMessage.
func (t *ClientTransport) EditMessage(
	ctx context.Context, channelID, messageID snowflake.ID, msg discord.MessageUpdate,
) (*discord.Message, error) {
	edited, err := t.client.Rest().UpdateMessage(channelID, messageID, msg, rest.WithCtx(ctx))
	return edited, markUnknownMessage(err)
}

// DeleteMessage deletes a message. A missing message wraps
// types.ErrUnknownMessage.
func (t *ClientTransport) DeleteMessage(ctx context.Context, channelID, messageID snowflake.ID) error {
	return markUnknownMessage(t.client.Rest().DeleteMessage(channelID, messageID, rest.WithCtx(ctx)))
}

// AddReaction reacts to a message as the bot.
func (t *ClientTransport) AddReaction(ctx context.Context, channelID, messageID snowflake.ID, emoji types.Emoji) error {
	return t.client.Rest().AddReaction(channelID, messageID, emoji.Reaction(), rest.WithCtx(ctx))
}

// RemoveUserReaction removes the reaction emoji of userID from a message.
func (t *ClientTransport) RemoveUserReaction(
	ctx context.Context, channelID, messageID snowflake.ID, emoji types.Emoji, userID snowflake.ID,
) error {
	return t.client.Rest().RemoveUserReaction(channelID, messageID, emoji.Reaction(), userID, rest.WithCtx(ctx))
}

// RemoveAllReactions clears every reaction of a message.
func (t *ClientTransport) RemoveAllReactions(ctx context.Context, channelID, messageID snowflake.ID) error {
	return t.client.Rest().RemoveAllReactions(channelID, messageID, rest.WithCtx(ctx))
}

// markUnknownMessage wraps types.ErrUnknownMessage around a 404 response.
func markUnknownMessage(err error) error {
	var restErr rest.Error
	if errors.As(err, &restErr) && restErr.Response != nil && restErr.Response.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %w", types.ErrUnknownMessage, err)
	}
	return err
}
