// Package interactivity waits for users to answer bot messages. It offers
// confirmations, selections, paginators, delayed message cleanup and the
// NextMessage/NextReaction primitives they are built on. Every wait ends
// with a Result that either succeeded, timed out or was cancelled.
package interactivity

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/events"
	"github.com/robalyx/interactivity/pkg/interactivity/types"
	"github.com/robalyx/interactivity/pkg/utils"
	"github.com/sourcegraph/conc"
	"go.uber.org/zap"
)

// Service dispatches gateway events to the requests waiting for them.
// Register it as an event listener of the disgo client.
type Service struct {
	transport      types.Transport
	logger         *zap.Logger
	hub            *hub
	defaultTimeout time.Duration
	retry          utils.RetryOptions
	startTime      time.Time

	ctx    context.Context
	cancel context.CancelFunc
	mu     sync.Mutex
	closed bool
	tasks  conc.WaitGroup
}

var _ bot.EventListener = (*Service)(nil)

// New creates a service sending its requests through transport.
func New(transport types.Transport, logger *zap.Logger, opts ...Option) (*Service, error) {
	o := options{
		defaultTimeout: DefaultTimeout,
		eventBuffer:    DefaultEventBuffer,
		retry:          utils.GetCleanupRetryOptions(),
	}
	for _, opt := range opts {
		if err := opt(&o); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("interactivity")

	ctx, cancel := context.WithCancel(context.Background())
	return &Service{
		transport:      transport,
		logger:         logger,
		hub:            newHub(o.eventBuffer, logger),
		defaultTimeout: o.defaultTimeout,
		retry:          o.retry,
		startTime:      time.Now(),
		ctx:            ctx,
		cancel:         cancel,
	}, nil
}

// DefaultTimeout returns the timeout used when a request passes none.
func (s *Service) DefaultTimeout() time.Duration {
	return s.defaultTimeout
}

// Uptime returns how long the service has existed.
func (s *Service) Uptime() time.Duration {
	return time.Since(s.startTime)
}

// Transport returns the transport requests are sent through.
func (s *Service) Transport() types.Transport {
	return s.transport
}

// Pending returns the number of requests currently waiting for events.
func (s *Service) Pending() int {
	return s.hub.size()
}

// OnEvent implements bot.EventListener.
func (s *Service) OnEvent(event bot.Event) {
	switch e := event.(type) {
	case *events.MessageCreate:
		s.DispatchMessage(e.Message)
	case *events.MessageReactionAdd:
		s.DispatchReaction(types.Reaction{
			UserID:    e.UserID,
			ChannelID: e.ChannelID,
			MessageID: e.MessageID,
			GuildID:   e.GuildID,
			Member:    e.Member,
			Emoji:     types.EmojiFromPartial(e.Emoji),
		})
	}
}

// DispatchMessage hands a received message to the waiting requests.
// Messages written by the bot itself are ignored.
func (s *Service) DispatchMessage(msg types.Message) {
	if msg.Author.ID == s.transport.SelfID() {
		return
	}
	s.hub.publish(msg)
}

// DispatchReaction hands an added reaction to the waiting requests.
// Reactions added by the bot itself are ignored.
func (s *Service) DispatchReaction(r types.Reaction) {
	if r.UserID == s.transport.SelfID() {
		return
	}
	s.hub.publish(r)
}

// Close cancels the pending cleanup tasks and ends the waiting requests
// as cancelled. It blocks until every background task returned.
func (s *Service) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	s.tasks.Wait()
	s.logger.Debug("Interactivity service closed")
}

func (s *Service) timeout(timeout time.Duration) time.Duration {
	if timeout <= 0 {
		return s.defaultTimeout
	}
	return timeout
}

// cleanupContext returns a context for the calls made after a wait ended,
// which must still run when the caller's context was cancelled.
func (s *Service) cleanupContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
}

func eventName(event any) string {
	switch event.(type) {
	case types.Message:
		return "message"
	case types.Reaction:
		return "reaction"
	default:
		return fmt.Sprintf("%T", event)
	}
}
