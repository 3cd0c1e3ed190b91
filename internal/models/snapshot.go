package models

// Mode is the phase of the current turn
type Mode string

const (
	// ModeRotating waits for the current player to spin
	ModeRotating Mode = "rotating"

	// ModeGuessing lets the current player solve the whole phrase
	ModeGuessing Mode = "guessing"

	// ModeLetter waits for a single letter after a spin
	ModeLetter Mode = "letter"

	// ModeGameOver is terminal: nobody is left to play
	ModeGameOver Mode = "gameover"
)

// Phrase is a puzzle and the category shown as its hint
type Phrase struct {
	Text     string `json:"phrase"`
	Category string `json:"category"`
}

// GameSnapshot is the state clients receive after every change
type GameSnapshot struct {
	GameID             string    `json:"gameID"`
	Stake              Reward    `json:"stake"`
	Players            []*Player `json:"players"`
	Round              int       `json:"round"`
	MaxRounds          int       `json:"maxRounds"`
	CurrentPlayerIndex int       `json:"currentPlayerIndex"`
	GoodLetters        []string  `json:"goodLetters"`
	BadLetters         []string  `json:"badLetters"`
	Phrase             string    `json:"phrase"`
	Category           string    `json:"category"`
	CurrentLetter      string    `json:"currentLetter"`
	Mode               Mode      `json:"mode"`
	RotateDeg          float64   `json:"rotateDeg"`
	TotalRotateDeg     float64   `json:"totalRotateDeg"`
	GoodGuess          bool      `json:"goodGuess"`
	OnlyVowels         bool      `json:"onlyVowels"`
	AfterRotate        bool      `json:"afterRotate"`
	HasRotated         bool      `json:"hasRotated"`
	Solo               bool      `json:"solo"`
}
