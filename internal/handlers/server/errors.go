package server

// ServerError is a custom error type for server wiring errors
type ServerError string

// Error implements the error interface
func (e ServerError) Error() string {
	return string(e)
}

const (
	ErrNilConfig        ServerError = "config cannot be nil"
	ErrNilHub           ServerError = "hub cannot be nil"
	ErrNilRoomService   ServerError = "room service cannot be nil"
	ErrNilRouter        ServerError = "router cannot be nil"
	ErrNilMessaging     ServerError = "messaging service cannot be nil"
	ErrNilUUIDGenerator ServerError = "UUID generator cannot be nil"
)
