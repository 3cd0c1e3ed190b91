package room

// GameError is a custom error type for room-related errors
type GameError string

// Error implements the error interface
func (e GameError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrRoomNotFound        GameError = "room not found"
	ErrRoomFull            GameError = "room is full"
	ErrGameNotStarted      GameError = "game not started"
	ErrInvalidRoomOptions  GameError = "invalid room options"
	ErrAlreadyInRoom       GameError = "connection is already in a room"
	ErrPlayerNotInRoom     GameError = "player not in room"
	ErrRoomCodeUnavailable GameError = "no free room code"
	ErrNilConfig           GameError = "config cannot be nil"
	ErrNilCatalog          GameError = "phrase catalog cannot be nil"
	ErrNilWheel            GameError = "wheel cannot be nil"
	ErrNilRoller           GameError = "roller cannot be nil"
	ErrNilClock            GameError = "clock cannot be nil"
	ErrNilUUIDGenerator    GameError = "UUID generator cannot be nil"
	ErrNilBroadcaster      GameError = "broadcaster cannot be nil"
)
