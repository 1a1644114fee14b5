package interactivity

import (
	"context"
	"time"

	"github.com/robalyx/interactivity/pkg/interactivity/actions"
	"github.com/robalyx/interactivity/pkg/interactivity/criteria"
	"github.com/robalyx/interactivity/pkg/interactivity/types"
	"go.uber.org/zap"
)

// handler inspects one event and reports the final result once the wait is over.
type handler[T any] func(ctx context.Context, event any) (types.Result[T], bool)

// race delivers the events of sub to handle until it reports a result, the
// timeout elapses, ctx ends or the service closes.
func race[T any](
	ctx context.Context, s *Service, sub *subscription, timeout time.Duration, handle handler[T],
) types.Result[T] {
	start := time.Now()
	timer := time.NewTimer(s.timeout(timeout))
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return types.Cancelled[T](time.Since(start))
		case <-s.ctx.Done():
			return types.Cancelled[T](time.Since(start))
		case <-timer.C:
			return types.TimedOut[T](time.Since(start))
		case event := <-sub.events:
			if result, done := handle(ctx, event); done {
				result.Elapsed = time.Since(start)
				return result
			}
		}
	}
}

// judge runs the filter, criteria and actions shared by every request on
// event. It reports whether the event passed the criteria.
func judge[T any](
	ctx context.Context, s *Service, event T,
	filter criteria.Criteria[T], crit criteria.Criteria[T], acts actions.Collection[T],
) bool {
	if !filter.Judge(ctx, event) {
		return false
	}

	valid := crit.Judge(ctx, event)
	if err := acts.Apply(ctx, s.transport, event, !valid); err != nil {
		s.logger.Warn("Failed to apply actions", zap.Bool("valid", valid), zap.Error(err))
	}
	return valid
}

// WaitOption configures NextMessage and NextReaction.
type WaitOption[T any] func(*waitConfig[T])

type waitConfig[T any] struct {
	filter   criteria.Criteria[T]
	criteria criteria.Criteria[T]
	actions  actions.Collection[T]
}

// WithFilter skips events silently. Filtered events run no action.
func WithFilter[T any](filters ...criteria.Criterion[T]) WaitOption[T] {
	return func(c *waitConfig[T]) {
		c.filter = c.filter.Add(filters...)
	}
}

// WithCriterion adds criteria an event must pass to end the wait. Events
// failing them run the invalid-side actions.
func WithCriterion[T any](crit ...criteria.Criterion[T]) WaitOption[T] {
	return func(c *waitConfig[T]) {
		c.criteria = c.criteria.Add(crit...)
	}
}

// WithAction adds actions run on the events passing the filter.
func WithAction[T any](acts ...actions.Action[T]) WaitOption[T] {
	return func(c *waitConfig[T]) {
		c.actions = append(c.actions, acts...)
	}
}

// WithActionFunc adds a function action.
func WithActionFunc[T any](
	fn func(ctx context.Context, transport types.Transport, event T) error, applyToInvalid, applyToValid bool,
) WaitOption[T] {
	return WithAction(actions.Func(fn, applyToInvalid, applyToValid))
}

func next[T any](ctx context.Context, s *Service, timeout time.Duration, opts []WaitOption[T]) types.Result[T] {
	var cfg waitConfig[T]
	for _, opt := range opts {
		opt(&cfg)
	}

	sub := s.hub.subscribe(eventsOf[T]())
	defer s.hub.unsubscribe(sub)

	return race(ctx, s, sub, timeout, func(ctx context.Context, event any) (types.Result[T], bool) {
		e, ok := event.(T)
		if !ok {
			return types.Result[T]{}, false
		}
		if !judge(ctx, s, e, cfg.filter, cfg.criteria, cfg.actions) {
			return types.Result[T]{}, false
		}
		return types.Success(e, 0), true
	})
}

// NextMessage waits for the next message passing the given criteria. A
// non-positive timeout uses the default timeout.
func (s *Service) NextMessage(
	ctx context.Context, timeout time.Duration, opts ...WaitOption[types.Message],
) types.Result[types.Message] {
	return next(ctx, s, timeout, opts)
}

// NextReaction waits for the next reaction passing the given criteria. A
// non-positive timeout uses the default timeout.
func (s *Service) NextReaction(
	ctx context.Context, timeout time.Duration, opts ...WaitOption[types.Reaction],
) types.Result[types.Reaction] {
	return next(ctx, s, timeout, opts)
}
