package router

// GameError is a custom error type for routing errors
type GameError string

// Error implements the error interface
func (e GameError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrUnknownAction    GameError = "unknown action"
	ErrInvalidPayload   GameError = "invalid action payload"
	ErrNilConfig        GameError = "config cannot be nil"
	ErrNilRoomService   GameError = "room service cannot be nil"
	ErrNilBroadcaster   GameError = "broadcaster cannot be nil"
	ErrNilScheduler     GameError = "scheduler cannot be nil"
	ErrNilClock         GameError = "clock cannot be nil"
	ErrNilUUIDGenerator GameError = "UUID generator cannot be nil"
)
