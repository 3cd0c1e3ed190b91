package round_ledger

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/KirkDiggler/fortuna/internal/repositories/round_ledger Repository

import (
	"context"
)

// Repository defines the interface for completed round persistence
type Repository interface {
	// AddRoundRecord appends a completed round to the ledger
	AddRoundRecord(ctx context.Context, input *AddRoundRecordInput) error

	// GetRoundRecordsForRoom retrieves the rounds played in a room, oldest first
	GetRoundRecordsForRoom(ctx context.Context, input *GetRoundRecordsForRoomInput) (*GetRoundRecordsForRoomOutput, error)

	// GetLeaderboard sums banked points per winner for a game
	GetLeaderboard(ctx context.Context, input *GetLeaderboardInput) (*GetLeaderboardOutput, error)
}
