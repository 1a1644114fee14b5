package actions

import (
	"context"
	"fmt"

	"github.com/robalyx/interactivity/pkg/interactivity/types"
)

// DeleteMessages deletes the messages it is applied to.
func DeleteMessages(deleteInvalids, deleteValid bool) Action[types.Message] {
	return Func(func(ctx context.Context, transport types.Transport, msg types.Message) error {
		if err := transport.DeleteMessage(ctx, msg.ChannelID, msg.ID); err != nil {
			return fmt.Errorf("failed to delete message %s: %w", msg.ID, err)
		}
		return nil
	}, deleteInvalids, deleteValid)
}

// DeleteReactions removes the reactions it is applied to.
func DeleteReactions(deleteInvalids, deleteValid bool) Action[types.Reaction] {
	return Func(func(ctx context.Context, transport types.Transport, r types.Reaction) error {
		if err := transport.RemoveUserReaction(ctx, r.ChannelID, r.MessageID, r.Emoji, r.UserID); err != nil {
			return fmt.Errorf("failed to remove reaction %s: %w", r.Emoji.Reaction(), err)
		}
		return nil
	}, deleteInvalids, deleteValid)
}

// MessagesFromDeletion returns the message deletion matching the options,
// or nil when neither valid nor invalid messages are deleted.
func MessagesFromDeletion(opts types.DeletionOptions) Action[types.Message] {
	invalids, valid := opts.Has(types.DeletionInvalids), opts.Has(types.DeletionValid)
	if !invalids && !valid {
		return nil
	}
	return DeleteMessages(invalids, valid)
}

// ReactionsFromDeletion returns the reaction removal matching the options,
// or nil when neither valid nor invalid reactions are removed.
func ReactionsFromDeletion(opts types.DeletionOptions) Action[types.Reaction] {
	invalids, valid := opts.Has(types.DeletionInvalids), opts.Has(types.DeletionValid)
	if !invalids && !valid {
		return nil
	}
	return DeleteReactions(invalids, valid)
}
