package criteria

import (
	"context"
	"slices"
	"sync"

	"github.com/disgoorg/snowflake/v2"
	"github.com/robalyx/interactivity/pkg/interactivity/types"
)

// MessageUser accepts messages written by one of the given users.
func MessageUser(ids ...snowflake.ID) Criterion[types.Message] {
	return Func[types.Message](func(_ context.Context, msg types.Message) bool {
		return slices.Contains(ids, msg.Author.ID)
	})
}

// MessageChannel accepts messages sent in the given channel.
func MessageChannel(channelID snowflake.ID) Criterion[types.Message] {
	return Func[types.Message](func(_ context.Context, msg types.Message) bool {
		return msg.ChannelID == channelID
	})
}

// MessageCriteria combines the channel and user checks most requests need.
// Zero IDs are skipped.
func MessageCriteria(channelID, userID snowflake.ID) Criteria[types.Message] {
	var c Criteria[types.Message]
	if channelID != 0 {
		c = c.Add(MessageChannel(channelID))
	}
	if userID != 0 {
		c = c.Add(MessageUser(userID))
	}
	return c
}

// LimitedMessages counts the messages it has judged per author and rejects
// an author once they went over the limit.
type LimitedMessages struct {
	limit  int
	mu     sync.Mutex
	counts map[snowflake.ID]int
}

// LimitedMessagesPerUser creates a criterion accepting at most limit
// messages from each author.
func LimitedMessagesPerUser(limit int) *LimitedMessages {
	return &LimitedMessages{
		limit:  limit,
		counts: make(map[snowflake.ID]int),
	}
}

// Judge implements Criterion.
func (l *LimitedMessages) Judge(_ context.Context, msg types.Message) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.counts[msg.Author.ID]++
	return l.counts[msg.Author.ID] <= l.limit
}

// Count returns how many messages have been judged for a user.
func (l *LimitedMessages) Count(userID snowflake.ID) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.counts[userID]
}
