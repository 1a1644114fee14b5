package interactivity

import (
	"sync"

	"github.com/disgoorg/snowflake/v2"
	"github.com/google/uuid"
	"github.com/robalyx/interactivity/pkg/interactivity/types"
	"go.uber.org/zap"
)

// interest decides on the publishing goroutine whether a subscription
// buffers an event. It must not block.
type interest func(event any) bool

// eventsOf accepts every event of type T.
func eventsOf[T any]() interest {
	return func(event any) bool {
		_, ok := event.(T)
		return ok
	}
}

// reactionsOn accepts the reactions added to messageID.
func reactionsOn(messageID snowflake.ID) interest {
	return func(event any) bool {
		r, ok := event.(types.Reaction)
		return ok && r.MessageID == messageID
	}
}

// messagesIn accepts the messages sent to channelID.
func messagesIn(channelID snowflake.ID) interest {
	return func(event any) bool {
		msg, ok := event.(types.Message)
		return ok && msg.ChannelID == channelID
	}
}

// subscription receives the published events its interest accepts while a
// request waits.
type subscription struct {
	id       uuid.UUID
	events   chan any
	interest interest
}

// hub fans gateway events out to the waiting requests.
type hub struct {
	mu     sync.RWMutex
	subs   map[uuid.UUID]*subscription
	buffer int
	logger *zap.Logger
}

func newHub(buffer int, logger *zap.Logger) *hub {
	return &hub{
		subs:   make(map[uuid.UUID]*subscription),
		buffer: buffer,
		logger: logger,
	}
}

func (h *hub) subscribe(interest interest) *subscription {
	sub := &subscription{
		id:       uuid.New(),
		events:   make(chan any, h.buffer),
		interest: interest,
	}

	h.mu.Lock()
	h.subs[sub.id] = sub
	h.mu.Unlock()

	return sub
}

func (h *hub) unsubscribe(sub *subscription) {
	h.mu.Lock()
	delete(h.subs, sub.id)
	h.mu.Unlock()
}

// publish never blocks. A subscriber with a full buffer misses the event.
func (h *hub) publish(event any) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for id, sub := range h.subs {
		if sub.interest != nil && !sub.interest(event) {
			continue
		}

		select {
		case sub.events <- event:
		default:
			h.logger.Warn("Dropped event for slow request",
				zap.String("subscription", id.String()),
				zap.String("event", eventName(event)))
		}
	}
}

// size returns the number of waiting requests.
func (h *hub) size() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
