package bot

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/snowflake/v2"
	"github.com/robalyx/interactivity/pkg/interactivity"
	"github.com/robalyx/interactivity/pkg/interactivity/pagination"
	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/panics"
	"go.uber.org/zap"
)

// Command is a text command of the example bot.
type Command struct {
	Name        string
	Description string
	Run         func(ctx context.Context, c *Context) error
}

// Context is handed to a running command.
type Context struct {
	Service *interactivity.Service
	Message discord.Message
	Args    []string
	Logger  *zap.Logger

	// NewPageCache creates the cache of a lazy paginator.
	NewPageCache func() pagination.PageCache
	// Commands lists every registered command, sorted by name.
	Commands []*Command
}

// ChannelID returns the channel the command was written in.
func (c *Context) ChannelID() snowflake.ID {
	return c.Message.ChannelID
}

// Author returns the user who ran the command.
func (c *Context) Author() discord.User {
	return c.Message.Author
}

// Reply sends content to the channel of the command.
func (c *Context) Reply(ctx context.Context, content string) (*discord.Message, error) {
	msg := discord.NewMessageCreateBuilder().SetContent(content).Build()
	return c.Service.Transport().SendMessage(ctx, c.ChannelID(), msg)
}

// RouterOptions configures a Router.
type RouterOptions struct {
	Prefix            string
	CommandsPerSecond float64
	Burst             int
	NewPageCache      func() pagination.PageCache
}

// Router runs the commands of messages starting with the prefix. Commands
// run in their own goroutine since most of them wait for user input.
type Router struct {
	prefix   string
	commands map[string]*Command
	sorted   []*Command
	limiter  *userLimiter
	service  *interactivity.Service
	newCache func() pagination.PageCache
	logger   *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	mu     sync.Mutex
	closed bool
	tasks  conc.WaitGroup
}

// NewRouter creates a router for the given commands.
func NewRouter(
	service *interactivity.Service, opts RouterOptions, logger *zap.Logger, commands ...*Command,
) *Router {
	newCache := opts.NewPageCache
	if newCache == nil {
		newCache = func() pagination.PageCache { return pagination.NewMemoryCache() }
	}

	r := &Router{
		prefix:   strings.ToLower(opts.Prefix),
		commands: make(map[string]*Command, len(commands)),
		limiter:  newUserLimiter(opts.CommandsPerSecond, opts.Burst),
		service:  service,
		newCache: newCache,
		logger:   logger.Named("router"),
	}
	r.ctx, r.cancel = context.WithCancel(context.Background())

	for _, cmd := range commands {
		r.commands[strings.ToLower(cmd.Name)] = cmd
		r.sorted = append(r.sorted, cmd)
	}
	slices.SortFunc(r.sorted, func(a, b *Command) int { return strings.Compare(a.Name, b.Name) })

	return r
}

// OnMessageCreate handles the message events of the gateway.
func (r *Router) OnMessageCreate(event *events.MessageCreate) {
	r.HandleMessage(event.Message)
}

// HandleMessage starts the command written in msg. It reports whether a
// command was started.
func (r *Router) HandleMessage(msg discord.Message) bool {
	if msg.Author.Bot || msg.Author.ID == r.service.Transport().SelfID() {
		return false
	}

	name, args, ok := r.parse(msg.Content)
	if !ok {
		return false
	}

	logger := r.logger.With(
		zap.String("command", name),
		zap.Uint64("userID", uint64(msg.Author.ID)),
		zap.Uint64("channelID", uint64(msg.ChannelID)))

	cmd, exists := r.commands[name]
	if !exists {
		return r.spawn(func() {
			r.reply(msg.ChannelID, fmt.Sprintf("Unknown command `%s`. Try `%shelp`.", name, r.prefix), logger)
		})
	}

	if !r.limiter.Allow(msg.Author.ID) {
		logger.Debug("Command rate limited")
		return r.spawn(func() {
			r.reply(msg.ChannelID, "You are running commands too quickly. Please wait a moment.", logger)
		})
	}

	c := &Context{
		Service:      r.service,
		Message:      msg,
		Args:         args,
		Logger:       logger,
		NewPageCache: r.newCache,
		Commands:     r.sorted,
	}
	return r.spawn(func() { r.run(cmd, c) })
}

// Close stops the running commands and waits for them to return.
func (r *Router) Close() {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()

	r.cancel()
	r.tasks.Wait()
}

// parse splits content into the lower-cased command name and its
// arguments. The prefix is matched case-insensitively.
func (r *Router) parse(content string) (string, []string, bool) {
	content = strings.TrimSpace(content)
	if len(content) <= len(r.prefix) || !strings.EqualFold(content[:len(r.prefix)], r.prefix) {
		return "", nil, false
	}

	fields := strings.Fields(content[len(r.prefix):])
	if len(fields) == 0 {
		return "", nil, false
	}
	return strings.ToLower(fields[0]), fields[1:], true
}

func (r *Router) spawn(fn func()) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return false
	}
	r.tasks.Go(fn)
	return true
}

func (r *Router) run(cmd *Command, c *Context) {
	start := time.Now()

	var err error
	var catcher panics.Catcher
	catcher.Try(func() {
		err = cmd.Run(r.ctx, c)
	})

	duration := time.Since(start)
	if recovered := catcher.Recovered(); recovered != nil {
		c.Logger.Error("Panic in command handler",
			zap.Error(recovered.AsError()),
			zap.String("stack", string(recovered.Stack)))
		r.reply(c.ChannelID(), "Internal error. Please report this to an administrator.", c.Logger)
		return
	}

	if err != nil {
		c.Logger.Warn("Command failed", zap.Error(err), zap.Duration("duration", duration))
		r.reply(c.ChannelID(), "Something went wrong while running this command.", c.Logger)
		return
	}

	c.Logger.Debug("Command handled", zap.Duration("duration", duration))
}

func (r *Router) reply(channelID snowflake.ID, content string, logger *zap.Logger) {
	msg := discord.NewMessageCreateBuilder().SetContent(content).Build()
	if _, err := r.service.Transport().SendMessage(r.ctx, channelID, msg); err != nil {
		logger.Warn("Failed to send reply", zap.Error(err))
	}
}
