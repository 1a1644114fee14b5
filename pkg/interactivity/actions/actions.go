// Package actions holds the side effects applied to inbound events while an
// interactivity request is waiting, such as removing the user's reaction.
package actions

import (
	"context"
	"errors"
	"fmt"

	"github.com/robalyx/interactivity/pkg/interactivity/types"
	"github.com/sourcegraph/conc/panics"
)

// Action is a side effect applied to events that passed (valid) or failed
// (invalid) the request's criteria.
type Action[T any] interface {
	Apply(ctx context.Context, transport types.Transport, event T) error
	ApplyToValid() bool
	ApplyToInvalid() bool
}

// Collection runs a list of actions in order.
type Collection[T any] []Action[T]

// Apply runs every action matching the validity of the event. A failing or
// panicking action does not stop the remaining ones; all errors are joined.
func (c Collection[T]) Apply(ctx context.Context, transport types.Transport, event T, invalid bool) error {
	var errs []error
	for _, action := range c {
		if action == nil {
			continue
		}
		if invalid && !action.ApplyToInvalid() || !invalid && !action.ApplyToValid() {
			continue
		}

		var err error
		var pc panics.Catcher
		pc.Try(func() {
			err = action.Apply(ctx, transport, event)
		})
		if recovered := pc.Recovered(); recovered != nil {
			err = fmt.Errorf("action panicked: %w", recovered.AsError())
		}
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type funcAction[T any] struct {
	fn        func(ctx context.Context, transport types.Transport, event T) error
	toInvalid bool
	toValid   bool
}

// Func wraps a function into an Action.
func Func[T any](
	fn func(ctx context.Context, transport types.Transport, event T) error, applyToInvalid, applyToValid bool,
) Action[T] {
	return &funcAction[T]{fn: fn, toInvalid: applyToInvalid, toValid: applyToValid}
}

func (a *funcAction[T]) Apply(ctx context.Context, transport types.Transport, event T) error {
	return a.fn(ctx, transport, event)
}

func (a *funcAction[T]) ApplyToValid() bool   { return a.toValid }
func (a *funcAction[T]) ApplyToInvalid() bool { return a.toInvalid }
