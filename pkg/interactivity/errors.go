package interactivity

import "errors"

var (
	// ErrInvalidTimeout is returned when a default timeout is not positive.
	ErrInvalidTimeout = errors.New("timeout must be positive")

	// ErrNilRequest is returned when a request or its message is missing.
	ErrNilRequest = errors.New("request is missing its message")

	// ErrServiceClosed is returned when scheduling work on a closed service.
	ErrServiceClosed = errors.New("interactivity service is closed")
)
