package models

// LeaderboardEntry is one winner's banked points in a game
type LeaderboardEntry struct {
	PlayerID   string  `json:"playerId"`
	PlayerName string  `json:"playerName"`
	Points     float64 `json:"points"`
}

// Leaderboard represents the round winners of a game, best first
type Leaderboard struct {
	// GameID is the unique identifier for the game
	GameID string `json:"gameId"`

	Entries []*LeaderboardEntry `json:"entries"`
}
