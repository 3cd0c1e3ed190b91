package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"unicode"
	"unicode/utf8"
)

// Action names accepted from clients
const (
	ActionSpinWheel          = "spinWheel"
	ActionGuessLetter        = "guessLetter"
	ActionAddPoints          = "addPoints"
	ActionAdvanceTurn        = "advanceTurn"
	ActionResetCurrentPlayer = "resetCurrentPlayer"
	ActionResetHalfPoints    = "resetHalfPoints"
	ActionLetMeGuess         = "letMeGuess"
	ActionResetStake         = "resetStake"
)

// aliases are the names older clients send
var aliases = map[string]string{
	"rotate":      ActionSpinWheel,
	"letterClick": ActionGuessLetter,
	"nextPlayer":  ActionAdvanceTurn,
	"resetPoints": ActionResetCurrentPlayer,
	"resetHalf":   ActionResetHalfPoints,
}

// Action is a validated player action
type Action interface {
	Name() string
}

// SpinWheel starts a spin; the reward lands after the spin delay
type SpinWheel struct{}

// GuessLetter plays one letter
type GuessLetter struct {
	Letter rune
}

// AddPoints credits the stake times LetterCount
type AddPoints struct {
	LetterCount int
}

// AdvanceTurn passes the turn
type AdvanceTurn struct{}

// ResetCurrentPlayer empties the current pot and passes the turn
type ResetCurrentPlayer struct{}

// ResetHalfPoints halves the current pot and passes the turn
type ResetHalfPoints struct{}

// LetMeGuess switches to solving the whole phrase
type LetMeGuess struct{}

// ResetStake clears the stake
type ResetStake struct{}

func (SpinWheel) Name() string          { return ActionSpinWheel }
func (GuessLetter) Name() string        { return ActionGuessLetter }
func (AddPoints) Name() string          { return ActionAddPoints }
func (AdvanceTurn) Name() string        { return ActionAdvanceTurn }
func (ResetCurrentPlayer) Name() string { return ActionResetCurrentPlayer }
func (ResetHalfPoints) Name() string    { return ActionResetHalfPoints }
func (LetMeGuess) Name() string         { return ActionLetMeGuess }
func (ResetStake) Name() string         { return ActionResetStake }

type guessLetterPayload struct {
	Letter *string `json:"letter"`
}

type addPointsPayload struct {
	LetterCount *int `json:"letterCount"`
}

// ParseAction checks an action name and its raw JSON payload
func ParseAction(name string, payload json.RawMessage) (Action, error) {
	if canonical, ok := aliases[name]; ok {
		name = canonical
	}

	switch name {
	case ActionSpinWheel:
		return SpinWheel{}, nil
	case ActionAdvanceTurn:
		return AdvanceTurn{}, nil
	case ActionResetCurrentPlayer:
		return ResetCurrentPlayer{}, nil
	case ActionResetHalfPoints:
		return ResetHalfPoints{}, nil
	case ActionLetMeGuess:
		return LetMeGuess{}, nil
	case ActionResetStake:
		return ResetStake{}, nil

	case ActionGuessLetter:
		var p guessLetterPayload
		if err := decode(payload, &p); err != nil {
			return nil, err
		}
		if p.Letter == nil {
			return nil, fmt.Errorf("%w: letter is required", ErrInvalidPayload)
		}

		r, size := utf8.DecodeRuneInString(*p.Letter)
		if size == 0 || size != len(*p.Letter) || !unicode.IsLetter(r) {
			return nil, fmt.Errorf("%w: %q is not a single letter", ErrInvalidPayload, *p.Letter)
		}
		return GuessLetter{Letter: r}, nil

	case ActionAddPoints:
		var p addPointsPayload
		if err := decode(payload, &p); err != nil {
			return nil, err
		}
		if p.LetterCount == nil {
			return nil, fmt.Errorf("%w: letterCount is required", ErrInvalidPayload)
		}
		if *p.LetterCount < 0 {
			return nil, fmt.Errorf("%w: letterCount cannot be negative", ErrInvalidPayload)
		}
		return AddPoints{LetterCount: *p.LetterCount}, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrUnknownAction, name)
}

func decode(payload json.RawMessage, v any) error {
	if len(bytes.TrimSpace(payload)) == 0 {
		return fmt.Errorf("%w: payload is required", ErrInvalidPayload)
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return nil
}
