package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/disgoorg/disgo"
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/gateway"
	"github.com/robalyx/interactivity/internal/redis"
	"github.com/robalyx/interactivity/internal/setup"
	"github.com/robalyx/interactivity/pkg/interactivity"
	"github.com/robalyx/interactivity/pkg/interactivity/pagination"
	"go.uber.org/zap"
)

// Bot connects the interactivity service and the command router to Discord.
type Bot struct {
	client  bot.Client
	service *interactivity.Service
	router  *Router
	logger  *zap.Logger
}

// New creates the Discord client and registers the interactivity service
// and the command router as its event listeners.
func New(app *setup.App) (*Bot, error) {
	cfg := app.Config.Bot

	client, err := disgo.New(cfg.Discord.Token,
		bot.WithGatewayConfigOpts(
			gateway.WithIntents(
				gateway.IntentGuildMessages,
				gateway.IntentGuildMessageReactions,
				gateway.IntentDirectMessages,
				gateway.IntentDirectMessageReactions,
				gateway.IntentMessageContent,
			),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord client: %w", err)
	}

	service, err := interactivity.New(interactivity.NewClientTransport(client), app.Logger,
		interactivity.WithDefaultTimeout(cfg.Interactivity.DefaultTimeoutDuration()),
		interactivity.WithEventBuffer(cfg.Interactivity.EventBuffer),
		interactivity.WithCleanupRetry(app.RetryOptions()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create interactivity service: %w", err)
	}

	newPageCache, err := pageCacheFactory(app)
	if err != nil {
		service.Close()
		return nil, err
	}

	router := NewRouter(service, RouterOptions{
		Prefix:            cfg.Discord.Prefix,
		CommandsPerSecond: cfg.RateLimit.CommandsPerSecond,
		Burst:             cfg.RateLimit.Burst,
		NewPageCache:      newPageCache,
	}, app.Logger, Commands()...)

	client.AddEventListeners(
		service,
		&events.ListenerAdapter{OnMessageCreate: router.OnMessageCreate},
	)

	return &Bot{
		client:  client,
		service: service,
		router:  router,
		logger:  app.Logger.Named("bot"),
	}, nil
}

// pageCacheFactory returns the page caches of lazy paginators, kept in
// Redis when it is enabled.
func pageCacheFactory(app *setup.App) (func() pagination.PageCache, error) {
	if app.RedisManager == nil {
		return func() pagination.PageCache { return pagination.NewMemoryCache() }, nil
	}

	client, err := app.RedisManager.GetClient(redis.PageCacheDBIndex)
	if err != nil {
		return nil, err
	}

	ttl := time.Duration(app.Config.Bot.Redis.PageTTL) * time.Second
	return func() pagination.PageCache { return pagination.NewRedisCache(client, ttl) }, nil
}

// Start opens the gateway connection.
func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info("Starting bot")
	return b.client.OpenGateway(ctx)
}

// Close stops the running commands and the pending cleanups, then closes
// the gateway connection.
func (b *Bot) Close(ctx context.Context) {
	b.logger.Info("Closing bot")
	b.router.Close()
	b.service.Close()
	b.client.Close(ctx)
}
