package messaging

// MessagingError is a custom error type for declines raised by the transport
type MessagingError string

// Error implements the error interface
func (e MessagingError) Error() string {
	return string(e)
}

const (
	// ErrRateLimited is returned to clients sending events too quickly
	ErrRateLimited MessagingError = "too many requests"
)
