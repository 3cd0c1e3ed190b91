package game

import (
	"github.com/KirkDiggler/fortuna/internal/common/random"
	"github.com/KirkDiggler/fortuna/internal/models"
	"github.com/KirkDiggler/fortuna/internal/phrases"
	"github.com/KirkDiggler/fortuna/internal/wheel"
)

// Vowels are the letters that can be left for last
var Vowels = map[rune]bool{
	'A': true, 'E': true, 'I': true, 'O': true, 'U': true,
	'Y': true, 'Ą': true, 'Ę': true, 'Ó': true,
}

// Config holds what a session needs to start
type Config struct {
	// GameID is unique per session, never the room code
	GameID string

	// Players in join order. The records are shared with the room.
	Players []*models.Player

	// MaxRounds is reported to clients; the session does not stop on it
	MaxRounds int

	Pool   *phrases.Pool
	Wheel  *wheel.Wheel
	Roller random.Roller
}

// SpinTicket identifies one outstanding spin
type SpinTicket struct {
	GameID string
	Seq    uint64
}

// RoundResult describes a phrase that was just completed
type RoundResult struct {
	Round      int
	Phrase     models.Phrase
	WinnerID   string
	WinnerName string
	Points     float64
}
