package router

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/KirkDiggler/fortuna/internal/common/clock"
	"github.com/KirkDiggler/fortuna/internal/common/scheduler"
	"github.com/KirkDiggler/fortuna/internal/common/uuid"
	"github.com/KirkDiggler/fortuna/internal/models"
	"github.com/KirkDiggler/fortuna/internal/repositories/round_ledger"
	"github.com/KirkDiggler/fortuna/internal/services/room"
)

// DefaultSpinDelay is how long clients animate the wheel
const DefaultSpinDelay = 2 * time.Second

// Config holds configuration for the router
type Config struct {
	Rooms       room.Service
	Broadcaster room.Broadcaster
	Scheduler   scheduler.Scheduler

	// SpinDelay defaults to DefaultSpinDelay
	SpinDelay time.Duration

	// Ledger is optional; completed rounds are not recorded without it
	Ledger round_ledger.Repository

	Clock         clock.Clock
	UUIDGenerator uuid.UUID

	// Logger defaults to the global logger
	Logger *zerolog.Logger
}

// DispatchInput defines the input for dispatching an action
type DispatchInput struct {
	RoomID       string
	ConnectionID string
	Action       Action
}

// DispatchOutput defines the output for dispatching an action
type DispatchOutput struct {
	// Snapshot is the game state right after the action
	Snapshot *models.GameSnapshot
}
