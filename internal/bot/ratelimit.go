package bot

import (
	"sync"

	"github.com/disgoorg/snowflake/v2"
	"golang.org/x/time/rate"
)

// userLimiter rate limits commands per user.
type userLimiter struct {
	limiters     map[snowflake.ID]*rate.Limiter
	limiterMutex sync.RWMutex
	limit        rate.Limit
	burst        int
}

func newUserLimiter(perSecond float64, burst int) *userLimiter {
	limit := rate.Limit(perSecond)
	if perSecond <= 0 {
		limit = rate.Inf
	}
	if burst <= 0 {
		burst = 1
	}
	return &userLimiter{
		limiters: make(map[snowflake.ID]*rate.Limiter),
		limit:    limit,
		burst:    burst,
	}
}

// Allow reports whether the user may run a command now.
func (l *userLimiter) Allow(userID snowflake.ID) bool {
	return l.getLimiter(userID).Allow()
}

// getLimiter retrieves or creates the limiter of a user.
func (l *userLimiter) getLimiter(userID snowflake.ID) *rate.Limiter {
	l.limiterMutex.RLock()
	limiter, exists := l.limiters[userID]
	l.limiterMutex.RUnlock()

	if !exists {
		l.limiterMutex.Lock()
		limiter, exists = l.limiters[userID]
		if !exists {
			limiter = rate.NewLimiter(l.limit, l.burst)
			l.limiters[userID] = limiter
		}
		l.limiterMutex.Unlock()
	}

	return limiter
}
