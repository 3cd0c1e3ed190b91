package round_ledger

import "github.com/KirkDiggler/fortuna/internal/models"

// AddRoundRecordInput contains parameters for adding a round record
type AddRoundRecordInput struct {
	Record *models.RoundRecord
}

// GetRoundRecordsForRoomInput contains parameters for retrieving a room's rounds
type GetRoundRecordsForRoomInput struct {
	RoomID string
}

// GetRoundRecordsForRoomOutput contains the result of retrieving a room's rounds
type GetRoundRecordsForRoomOutput struct {
	Records []*models.RoundRecord
}

// GetLeaderboardInput contains parameters for retrieving a game leaderboard
type GetLeaderboardInput struct {
	GameID string
}

// GetLeaderboardOutput contains the result of retrieving a game leaderboard
type GetLeaderboardOutput struct {
	Leaderboard *models.Leaderboard
}
