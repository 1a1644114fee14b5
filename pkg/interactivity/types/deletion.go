package types

// DeletionOptions controls which inbound events and messages get removed while
// and after a request runs. Options are bit flags and may be combined.
type DeletionOptions int

const (
	// DeletionNone keeps everything.
	DeletionNone DeletionOptions = 0
	// DeletionValid removes the accepted reactions or messages.
	DeletionValid DeletionOptions = 1 << 0
	// DeletionInvalids removes reactions or messages that did not qualify.
	DeletionInvalids DeletionOptions = 1 << 1
	// DeletionAfterCapturedContext removes the request message once a result was captured.
	DeletionAfterCapturedContext DeletionOptions = 1 << 2
)

// Has reports whether every flag in flag is set.
func (d DeletionOptions) Has(flag DeletionOptions) bool {
	return d&flag == flag
}
