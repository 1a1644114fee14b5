// Package criteria provides the filters that decide whether an inbound
// gateway event counts as a response to an interactivity request.
package criteria

import "context"

// Criterion judges a single event.
type Criterion[T any] interface {
	Judge(ctx context.Context, event T) bool
}

// Func adapts a predicate into a Criterion.
type Func[T any] func(ctx context.Context, event T) bool

// Judge calls f.
func (f Func[T]) Judge(ctx context.Context, event T) bool {
	return f(ctx, event)
}

// Criteria is an ordered set of criteria that must all pass.
// The zero value accepts every event.
type Criteria[T any] struct {
	list []Criterion[T]
}

// New creates a set from the given criteria, skipping nil entries.
func New[T any](criteria ...Criterion[T]) Criteria[T] {
	return Criteria[T]{}.Add(criteria...)
}

// Add returns a copy of the set with the criteria appended.
func (c Criteria[T]) Add(criteria ...Criterion[T]) Criteria[T] {
	list := make([]Criterion[T], 0, len(c.list)+len(criteria))
	list = append(list, c.list...)
	for _, criterion := range criteria {
		if criterion != nil {
			list = append(list, criterion)
		}
	}
	return Criteria[T]{list: list}
}

// Len returns the number of criteria in the set.
func (c Criteria[T]) Len() int {
	return len(c.list)
}

// Judge reports whether every criterion accepts the event. It stops at the
// first rejection.
func (c Criteria[T]) Judge(ctx context.Context, event T) bool {
	for _, criterion := range c.list {
		if !criterion.Judge(ctx, event) {
			return false
		}
	}
	return true
}
