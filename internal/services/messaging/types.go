package messaging

import (
	"github.com/KirkDiggler/fortuna/internal/common/random"
)

// DeclineCode is a stable, machine-readable reason for a declined request
type DeclineCode string

const (
	CodeRoomNotFound        DeclineCode = "ROOM_NOT_FOUND"
	CodeRoomFull            DeclineCode = "ROOM_FULL"
	CodeGameNotStarted      DeclineCode = "GAME_NOT_STARTED"
	CodeGameOver            DeclineCode = "GAME_OVER"
	CodeUnknownAction       DeclineCode = "UNKNOWN_ACTION"
	CodeInvalidPayload      DeclineCode = "INVALID_PAYLOAD"
	CodeInvalidRoomOptions  DeclineCode = "INVALID_ROOM_OPTIONS"
	CodeAlreadyInRoom       DeclineCode = "ALREADY_IN_ROOM"
	CodePlayerNotInRoom     DeclineCode = "PLAYER_NOT_IN_ROOM"
	CodeRoomCodeUnavailable DeclineCode = "ROOM_CODE_UNAVAILABLE"
	CodeActionNotAllowed    DeclineCode = "ACTION_NOT_ALLOWED"
	CodeSpinPending         DeclineCode = "SPIN_PENDING"
	CodePhrasePoolExhausted DeclineCode = "PHRASE_POOL_EXHAUSTED"
	CodeRateLimited         DeclineCode = "RATE_LIMITED"
	CodeInternal            DeclineCode = "INTERNAL"
)

// ServiceConfig holds configuration for the messaging service
type ServiceConfig struct {
	// Roller picks between message variants; defaults to a clock-seeded roller
	Roller random.Roller
}

// GetDeclineMessageInput contains parameters for explaining a declined request
type GetDeclineMessageInput struct {
	Err error
}

// GetDeclineMessageOutput contains the explanation of a declined request
type GetDeclineMessageOutput struct {
	Code    DeclineCode
	Message string
}

// GetJoinRoomMessageInput contains parameters for greeting a player
type GetJoinRoomMessageInput struct {
	PlayerName string
	RoomID     string

	// Started is true when this player filled the room
	Started bool
}

// GetJoinRoomMessageOutput contains the greeting
type GetJoinRoomMessageOutput struct {
	Message string
}
