package game

// GameError is a custom error type for game-related errors
type GameError string

// Error implements the error interface
func (e GameError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrGameNotStarted     GameError = "game not started"
	ErrActionNotAllowed   GameError = "action not allowed in current mode"
	ErrSpinPending        GameError = "wheel is already spinning"
	ErrStaleSpin          GameError = "spin no longer applies"
	ErrInvalidLetter      GameError = "letter must be a single letter"
	ErrInvalidLetterCount GameError = "letter count cannot be negative"
	ErrNilConfig          GameError = "config cannot be nil"
	ErrEmptyGameID        GameError = "game ID cannot be empty"
	ErrNoPlayers          GameError = "game needs at least one player"
	ErrInvalidMaxRounds   GameError = "max rounds must be at least 1"
	ErrNilPool            GameError = "phrase pool cannot be nil"
	ErrNilWheel           GameError = "wheel cannot be nil"
	ErrNilRoller          GameError = "roller cannot be nil"
)
