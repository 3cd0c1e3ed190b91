package models

import (
	"encoding/json"
	"fmt"
)

// RewardKind tells a point value apart from the wheel's special sectors
type RewardKind string

const (
	// RewardPoints is a plain point value
	RewardPoints RewardKind = "points"

	// RewardStop passes the turn without penalty
	RewardStop RewardKind = "STOP"

	// RewardBankrupt wipes the current player's pot and passes the turn
	RewardBankrupt RewardKind = "-100%"
)

// Reward is a wheel sector and doubles as the session stake
type Reward struct {
	Kind   RewardKind
	Points int
}

// Points builds a point-value reward
func Points(v int) Reward {
	return Reward{Kind: RewardPoints, Points: v}
}

var (
	// Stop is the "STOP" sector
	Stop = Reward{Kind: RewardStop}

	// Bankrupt is the "-100%" sector
	Bankrupt = Reward{Kind: RewardBankrupt}
)

// IsToken reports whether the reward is one of the special sectors
func (r Reward) IsToken() bool {
	return r.Kind == RewardStop || r.Kind == RewardBankrupt
}

// Multiplier is the per-letter credit of the reward. Tokens are worth nothing.
func (r Reward) Multiplier() float64 {
	if r.IsToken() {
		return 0
	}
	return float64(r.Points)
}

func (r Reward) String() string {
	if r.IsToken() {
		return string(r.Kind)
	}
	return fmt.Sprintf("%d", r.Points)
}

// MarshalJSON writes point values as numbers and tokens as strings
func (r Reward) MarshalJSON() ([]byte, error) {
	if r.IsToken() {
		return json.Marshal(string(r.Kind))
	}
	return json.Marshal(r.Points)
}

// UnmarshalJSON accepts either a number or one of the token strings
func (r *Reward) UnmarshalJSON(data []byte) error {
	var token string
	if err := json.Unmarshal(data, &token); err == nil {
		switch RewardKind(token) {
		case RewardStop, RewardBankrupt:
			*r = Reward{Kind: RewardKind(token)}
			return nil
		}
		return fmt.Errorf("unknown reward token %q", token)
	}

	var points int
	if err := json.Unmarshal(data, &points); err != nil {
		return fmt.Errorf("reward must be a number or token: %w", err)
	}
	*r = Points(points)
	return nil
}
