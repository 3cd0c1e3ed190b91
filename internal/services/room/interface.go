package room

import "context"

//go:generate mockgen -package=mocks -destination=mocks/mock_broadcaster.go github.com/KirkDiggler/fortuna/internal/services/room Broadcaster

// Broadcaster delivers an event to every connection subscribed to a room.
// It is called with the directory locked and must not block or call back
// into the Service.
type Broadcaster interface {
	Broadcast(roomID string, event string, payload any)
}

// Service is the process-wide room directory
type Service interface {
	// CreateRoom registers an empty room under a fresh code
	CreateRoom(ctx context.Context, input *CreateRoomInput) (*CreateRoomOutput, error)

	// JoinRoom adds a player and starts the game once the room is full
	JoinRoom(ctx context.Context, input *JoinRoomInput) (*JoinRoomOutput, error)

	// FindPublicRooms lists public rooms that still have seats
	FindPublicRooms(ctx context.Context, input *FindPublicRoomsInput) (*FindPublicRoomsOutput, error)

	// GetGameData returns the current snapshot of a room's game
	GetGameData(ctx context.Context, input *GetGameDataInput) (*GetGameDataOutput, error)

	// HandleDisconnect marks a connection's player as gone
	HandleDisconnect(ctx context.Context, input *HandleDisconnectInput) (*HandleDisconnectOutput, error)

	// WithRoom runs fn against a room while holding the directory lock
	WithRoom(ctx context.Context, roomID string, fn func(*Room) error) error
}
