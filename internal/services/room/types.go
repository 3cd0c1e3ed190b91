package room

import (
	"github.com/rs/zerolog"

	"github.com/KirkDiggler/fortuna/internal/common/clock"
	"github.com/KirkDiggler/fortuna/internal/common/random"
	"github.com/KirkDiggler/fortuna/internal/common/uuid"
	"github.com/KirkDiggler/fortuna/internal/models"
	"github.com/KirkDiggler/fortuna/internal/phrases"
	"github.com/KirkDiggler/fortuna/internal/wheel"
)

const (
	// CodeAlphabet is what room codes are sampled from
	CodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	DefaultCodeLength      = 6
	DefaultMaxCodeAttempts = 100
	DefaultMaxPlayers      = 10
	DefaultPublicRoomLimit = 5
)

// Config holds configuration for the room service
type Config struct {
	// MaxPlayers caps RoomOptions.MaxPlayers
	MaxPlayers int

	// RoomCodeLength is between 3 and 6
	RoomCodeLength int

	// MaxCodeAttempts bounds the collision retry loop
	MaxCodeAttempts int

	Catalog       *phrases.Catalog
	Wheel         *wheel.Wheel
	Roller        random.Roller
	Clock         clock.Clock
	UUIDGenerator uuid.UUID
	Broadcaster   Broadcaster

	// Logger defaults to the global logger
	Logger *zerolog.Logger
}

// CreateRoomInput defines the input for creating a room
type CreateRoomInput struct {
	HostID  string
	Options models.RoomOptions
}

// CreateRoomOutput defines the output for creating a room
type CreateRoomOutput struct {
	RoomID string
}

// JoinRoomInput defines the input for joining a room
type JoinRoomInput struct {
	RoomID       string
	ConnectionID string
	Name         string
}

// JoinRoomOutput defines the output for joining a room
type JoinRoomOutput struct {
	// Players is the roster after the join
	Players []*models.Player

	// Started is true when this join filled the room
	Started bool

	// Snapshot is set when the game started
	Snapshot *models.GameSnapshot
}

// FindPublicRoomsInput defines the input for listing public rooms
type FindPublicRoomsInput struct {
	// Limit defaults to DefaultPublicRoomLimit
	Limit int
}

// FindPublicRoomsOutput defines the output for listing public rooms
type FindPublicRoomsOutput struct {
	Rooms []models.RoomSummary
}

// GetGameDataInput defines the input for reading a game
type GetGameDataInput struct {
	RoomID string
}

// GetGameDataOutput defines the output for reading a game
type GetGameDataOutput struct {
	Snapshot *models.GameSnapshot
}

// HandleDisconnectInput defines the input for a dropped connection
type HandleDisconnectInput struct {
	ConnectionID string
}

// HandleDisconnectOutput defines the output for a dropped connection
type HandleDisconnectOutput struct {
	// RoomID is empty when the connection was not in a room
	RoomID string

	// TurnMoved is true when the player held the turn
	TurnMoved bool

	// RoomDeleted is true when nobody is left
	RoomDeleted bool
}

// StartGamePayload is broadcast when a room fills
type StartGamePayload struct {
	RoomID string `json:"roomId"`
	GameID string `json:"gameId"`
}
