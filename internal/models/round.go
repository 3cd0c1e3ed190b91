package models

import (
	"time"
)

// RoundRecord is a completed phrase written to the round ledger
type RoundRecord struct {
	// ID is the unique identifier for the record
	ID string `json:"id"`

	// RoomID is the room code the round was played in
	RoomID string `json:"roomId"`

	// GameID identifies the session, since room codes are reused
	GameID string `json:"gameId"`

	// Round is the round number that was completed
	Round int `json:"round"`

	Phrase   string `json:"phrase"`
	Category string `json:"category"`

	// WinnerID is the player who completed the phrase
	WinnerID   string `json:"winnerId"`
	WinnerName string `json:"winnerName"`

	// Points is the pot the winner banked
	Points float64 `json:"points"`

	// CompletedAt is when the phrase was solved
	CompletedAt time.Time `json:"completedAt"`
}
