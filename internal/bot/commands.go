package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/robalyx/interactivity/pkg/interactivity"
	"github.com/robalyx/interactivity/pkg/interactivity/actions"
	"github.com/robalyx/interactivity/pkg/interactivity/confirmation"
	"github.com/robalyx/interactivity/pkg/interactivity/criteria"
	"github.com/robalyx/interactivity/pkg/interactivity/pagination"
	"github.com/robalyx/interactivity/pkg/interactivity/selection"
	"github.com/robalyx/interactivity/pkg/interactivity/types"
)

// LazyPageCount is the number of pages of the lazy command.
const LazyPageCount = 10

// Commands returns every command of the example bot.
func Commands() []*Command {
	return []*Command{
		{Name: "help", Description: "List the commands", Run: runHelp},
		{Name: "confirm", Description: "Ask for a confirmation", Run: runConfirm},
		{Name: "paginator", Description: "Flip through a few pages", Run: runPaginator},
		{Name: "lazy", Description: "Flip through pages loaded on demand", Run: runLazy},
		{Name: "delete", Description: "Send messages that delete themselves", Run: runDelete},
		{Name: "nextmessage", Description: "Repeat your next message", Run: runNextMessage},
		{Name: "deleteall", Description: "Delete every message for 15 seconds", Run: runDeleteAll},
		{Name: "select", Description: "Pick a greeting with a reaction", Run: runSelect},
		{Name: "choose", Description: "Pick a color by writing it", Run: runChoose},
	}
}

func runHelp(ctx context.Context, c *Context) error {
	lines := make([]string, 0, len(c.Commands))
	for _, cmd := range c.Commands {
		lines = append(lines, fmt.Sprintf("`%s` - %s", cmd.Name, cmd.Description))
	}
	_, err := c.Reply(ctx, strings.Join(lines, "\n"))
	return err
}

func runConfirm(ctx context.Context, c *Context) error {
	msg, err := c.Reply(ctx, "Please confirm!")
	if err != nil {
		return err
	}

	req := confirmation.NewRequest(msg, confirmation.WithUsers(c.Author().ID))
	result, err := c.Service.Confirm(ctx, req, 0)
	if err != nil {
		return err
	}

	if result.IsSuccess() && result.Value {
		update := discord.NewMessageUpdateBuilder().SetContent("Confirmed :thumbsup:!").Build()
		_, err = c.Service.Transport().EditMessage(ctx, msg.ChannelID, msg.ID, update)
	}
	return err
}

func runPaginator(ctx context.Context, c *Context) error {
	p, err := pagination.NewStaticBuilder().
		WithEmbeds(
			discord.Embed{Title: "I"},
			discord.Embed{Title: "am"},
			discord.Embed{Title: "cool"},
			discord.Embed{Title: ":sunglasses:"},
		).
		WithUsers(c.Author()).
		WithFooter(pagination.FooterPageNumber | pagination.FooterUsers).
		WithDeletion(types.DeletionInvalids).
		Build()
	if err != nil {
		return err
	}

	_, err = c.Service.SendPaginator(ctx, p, c.ChannelID(), 2*time.Minute)
	return err
}

func runLazy(ctx context.Context, c *Context) error {
	p, err := pagination.NewLazyBuilder().
		WithMaxPageIndex(LazyPageCount - 1).
		WithPageFactory(func(_ context.Context, index int) (*pagination.PageBuilder, error) {
			return pagination.NewPageBuilder().
				WithTitle(fmt.Sprintf("Square of %d", index+1)).
				WithDescription(fmt.Sprintf("%d × %d = %d", index+1, index+1, (index+1)*(index+1))), nil
		}).
		WithCache(c.NewPageCache()).
		WithUsers(c.Author()).
		WithFooter(pagination.FooterPageNumber).
		WithLogger(c.Logger).
		Build()
	if err != nil {
		return err
	}

	_, err = c.Service.SendPaginator(ctx, p, c.ChannelID(), 2*time.Minute)
	return err
}

func runDelete(ctx context.Context, c *Context) error {
	later := discord.NewMessageCreateBuilder().SetContent("How are you? :D").Build()
	if err := c.Service.DelayedSendMessageAndDelete(c.ChannelID(), 5*time.Second, 20*time.Second, later); err != nil {
		return err
	}

	msg, err := c.Reply(ctx, "Hello")
	if err != nil {
		return err
	}
	return c.Service.DelayedDeleteMessage(msg.ChannelID, msg.ID, 3*time.Second)
}

func runNextMessage(ctx context.Context, c *Context) error {
	result := c.Service.NextMessage(ctx, 0,
		interactivity.WithCriterion(criteria.MessageUser(c.Author().ID)),
	)
	if !result.IsSuccess() {
		return nil
	}

	next := result.Value
	if next.Content == "" && len(next.Embeds) == 0 {
		return nil
	}

	builder := discord.NewMessageCreateBuilder().SetContent(next.Content)
	if len(next.Embeds) > 0 {
		builder.SetEmbeds(next.Embeds[0])
	}
	return c.Service.DelayedSendMessageAndDelete(c.ChannelID(), 0, 20*time.Second, builder.Build())
}

func runDeleteAll(ctx context.Context, c *Context) error {
	if _, err := c.Reply(ctx, "You can't send messages anymore!"); err != nil {
		return err
	}

	c.Service.NextMessage(ctx, 15*time.Second,
		interactivity.WithFilter(criteria.MessageChannel(c.ChannelID())),
		interactivity.WithCriterion[types.Message](criteria.Func[types.Message](
			func(context.Context, types.Message) bool { return false },
		)),
		interactivity.WithAction(actions.DeleteMessages(true, false)),
	)

	_, err := c.Reply(ctx, "You can now send messages!")
	return err
}

func runSelect(ctx context.Context, c *Context) error {
	sel, err := selection.NewReactionBuilder[string]().
		WithValues("Hi", "How", "Hey", "Huh?!").
		WithEmojis(types.NewEmoji("💵"), types.NewEmoji("🍭"), types.NewEmoji("😩"), types.NewEmoji("💠")).
		WithUsers(c.Author().ID).
		WithDeletion(types.DeletionAfterCapturedContext | types.DeletionInvalids).
		Build()
	if err != nil {
		return err
	}

	result, err := interactivity.SendSelection(ctx, c.Service, sel, c.ChannelID(), 50*time.Second)
	if err != nil || !result.IsSuccess() {
		return err
	}

	_, err = c.Reply(ctx, result.Value)
	return err
}

func runChoose(ctx context.Context, c *Context) error {
	sel, err := selection.NewMessageBuilder[string]().
		WithValues("Red", "Green", "Blue").
		WithUsers(c.Author().ID).
		WithTitle("Pick a color").
		WithDeletion(types.DeletionValid | types.DeletionAfterCapturedContext).
		Build()
	if err != nil {
		return err
	}

	result, err := interactivity.SendSelection(ctx, c.Service, sel, c.ChannelID(), 50*time.Second)
	if err != nil || !result.IsSuccess() {
		return err
	}

	_, err = c.Reply(ctx, "You chose "+result.Value+".")
	return err
}
