package models

import (
	"time"
)

// Player is a participant in a room. The same record is referenced by the
// room roster and the game session.
type Player struct {
	// ID is the connection handle the player joined with
	ID string `json:"id"`

	// Name is the display name chosen by the player
	Name string `json:"name"`

	// Connected flips to false on disconnect and never back
	Connected bool `json:"connected"`

	// Amount is the pot collected during the current phrase
	Amount float64 `json:"amount"`

	// Total is the score banked across completed rounds
	Total float64 `json:"total"`

	// JoinedAt is when the player entered the room
	JoinedAt time.Time `json:"joinedAt"`
}
