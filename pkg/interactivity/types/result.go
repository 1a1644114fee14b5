package types

import "time"

// Status describes how an interactive wait ended.
type Status int

const (
	// StatusSuccess means a qualifying event arrived before the timeout.
	StatusSuccess Status = iota
	// StatusTimedOut means the timeout elapsed first.
	StatusTimedOut
	// StatusCancelled means the caller's context ended or the user backed out.
	StatusCancelled
)

// String returns the name of the status.
func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "Success"
	case StatusTimedOut:
		return "TimedOut"
	case StatusCancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

// Result is the tri-state outcome of every interactive request.
// A cancelled result may still carry a value, e.g. a declined confirmation carries false.
type Result[T any] struct {
	Value   T
	Elapsed time.Duration
	Status  Status
}

// Success creates a successful result holding value.
func Success[T any](value T, elapsed time.Duration) Result[T] {
	return Result[T]{Value: value, Elapsed: elapsed, Status: StatusSuccess}
}

// TimedOut creates a timed out result.
func TimedOut[T any](elapsed time.Duration) Result[T] {
	return Result[T]{Elapsed: elapsed, Status: StatusTimedOut}
}

// Cancelled creates a cancelled result.
func Cancelled[T any](elapsed time.Duration) Result[T] {
	return Result[T]{Elapsed: elapsed, Status: StatusCancelled}
}

// CancelledWith creates a cancelled result that still carries a value.
func CancelledWith[T any](value T, elapsed time.Duration) Result[T] {
	return Result[T]{Value: value, Elapsed: elapsed, Status: StatusCancelled}
}

// IsSuccess reports whether the request completed with a value.
func (r Result[T]) IsSuccess() bool { return r.Status == StatusSuccess }

// IsTimedOut reports whether the request ran out of time.
func (r Result[T]) IsTimedOut() bool { return r.Status == StatusTimedOut }

// IsCancelled reports whether the request was cancelled.
func (r Result[T]) IsCancelled() bool { return r.Status == StatusCancelled }
