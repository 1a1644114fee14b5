package interactivity

import (
	"fmt"
	"time"

	"github.com/robalyx/interactivity/pkg/utils"
)

const (
	// DefaultTimeout is how long requests wait when no timeout is given.
	DefaultTimeout = 45 * time.Second

	// DefaultEventBuffer is the number of events buffered per waiting request.
	DefaultEventBuffer = 64
)

type options struct {
	defaultTimeout time.Duration
	eventBuffer    int
	retry          utils.RetryOptions
}

// Option configures a Service.
type Option func(*options) error

// WithDefaultTimeout sets the timeout used by requests that do not pass
// one. It must be positive.
func WithDefaultTimeout(timeout time.Duration) Option {
	return func(o *options) error {
		if timeout <= 0 {
			return fmt.Errorf("%w: %s", ErrInvalidTimeout, timeout)
		}
		o.defaultTimeout = timeout
		return nil
	}
}

// WithEventBuffer sets how many events a waiting request may fall behind
// before new events are dropped for it.
func WithEventBuffer(size int) Option {
	return func(o *options) error {
		if size > 0 {
			o.eventBuffer = size
		}
		return nil
	}
}

// WithCleanupRetry sets how deletions of the background cleanup tasks are
// retried.
func WithCleanupRetry(retry utils.RetryOptions) Option {
	return func(o *options) error {
		o.retry = retry
		return nil
	}
}
