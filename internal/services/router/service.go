package router

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/KirkDiggler/fortuna/internal/common/clock"
	"github.com/KirkDiggler/fortuna/internal/common/logger"
	"github.com/KirkDiggler/fortuna/internal/common/scheduler"
	"github.com/KirkDiggler/fortuna/internal/common/uuid"
	"github.com/KirkDiggler/fortuna/internal/game"
	"github.com/KirkDiggler/fortuna/internal/models"
	"github.com/KirkDiggler/fortuna/internal/repositories/round_ledger"
	"github.com/KirkDiggler/fortuna/internal/services/room"
)

// service implements the Service interface
type service struct {
	rooms         room.Service
	broadcaster   room.Broadcaster
	scheduler     scheduler.Scheduler
	spinDelay     time.Duration
	ledger        round_ledger.Repository
	clock         clock.Clock
	uuidGenerator uuid.UUID
	log           zerolog.Logger
}

// New creates a new router
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.Rooms == nil {
		return nil, ErrNilRoomService
	}
	if cfg.Broadcaster == nil {
		return nil, ErrNilBroadcaster
	}
	if cfg.Scheduler == nil {
		return nil, ErrNilScheduler
	}
	if cfg.Clock == nil {
		return nil, ErrNilClock
	}
	if cfg.UUIDGenerator == nil {
		return nil, ErrNilUUIDGenerator
	}

	delay := cfg.SpinDelay
	if delay <= 0 {
		delay = DefaultSpinDelay
	}

	return &service{
		rooms:         cfg.Rooms,
		broadcaster:   cfg.Broadcaster,
		scheduler:     cfg.Scheduler,
		spinDelay:     delay,
		ledger:        cfg.Ledger,
		clock:         cfg.Clock,
		uuidGenerator: cfg.UUIDGenerator,
		log:           logger.OrDefault(cfg.Logger).With().Str("component", "router").Logger(),
	}, nil
}

// Dispatch applies an action and broadcasts the new game state
func (s *service) Dispatch(ctx context.Context, input *DispatchInput) (*DispatchOutput, error) {
	if input == nil || input.Action == nil {
		return nil, fmt.Errorf("%w: no action given", ErrUnknownAction)
	}

	log := s.log.With().
		Str("room_id", input.RoomID).
		Str("connection_id", input.ConnectionID).
		Str("action", input.Action.Name()).
		Logger()

	var (
		snapshot *models.GameSnapshot
		result   *game.RoundResult
		gameID   string
	)

	err := s.rooms.WithRoom(ctx, input.RoomID, func(r *room.Room) error {
		if r.Session == nil {
			return room.ErrGameNotStarted
		}
		if r.Player(input.ConnectionID) == nil {
			return room.ErrPlayerNotInRoom
		}

		if err := s.apply(r, input.Action); err != nil {
			return err
		}

		snapshot = r.Session.Snapshot()
		result = r.Session.TakeRoundResult()
		gameID = r.Session.GameID()

		// broadcast before releasing the room so updates keep apply order
		s.broadcaster.Broadcast(r.ID, models.EventGameUpdate, snapshot)
		return nil
	})
	if err != nil {
		log.Debug().Err(err).Msg("action declined")
		return nil, err
	}

	log.Debug().Str("mode", string(snapshot.Mode)).Msg("action applied")

	if result != nil {
		s.recordRound(ctx, input.RoomID, gameID, result)
	}

	return &DispatchOutput{Snapshot: snapshot}, nil
}

// apply runs the action against the room's session. Callers hold the room lock.
func (s *service) apply(r *room.Room, action Action) error {
	session := r.Session

	switch a := action.(type) {
	case SpinWheel:
		ticket, err := session.SpinWheel()
		if err != nil {
			return err
		}

		roomID := r.ID
		task := s.scheduler.AfterFunc(s.spinDelay, func() {
			s.resolveSpin(roomID, ticket)
		})
		r.SetPendingSpin(ticket, task)
		return nil
	case GuessLetter:
		return session.GuessLetter(a.Letter)
	case AddPoints:
		return session.AddPoints(a.LetterCount)
	case AdvanceTurn:
		return session.NextPlayer()
	case ResetCurrentPlayer:
		return session.ResetCurrentPlayer()
	case ResetHalfPoints:
		return session.ResetHalf()
	case LetMeGuess:
		return session.LetMeGuess()
	case ResetStake:
		return session.ResetStake()
	}

	return fmt.Errorf("%w: %s", ErrUnknownAction, action.Name())
}

// resolveSpin runs when a spin timer fires. The room may be gone or have
// moved on, in which case nothing happens.
func (s *service) resolveSpin(roomID string, ticket game.SpinTicket) {
	log := s.log.With().Str("room_id", roomID).Str("game_id", ticket.GameID).Uint64("spin", ticket.Seq).Logger()

	err := s.rooms.WithRoom(context.Background(), roomID, func(r *room.Room) error {
		if !r.TakePendingSpin(ticket) || r.Session == nil {
			return game.ErrStaleSpin
		}

		reward, err := r.Session.ResolveSpin(ticket)
		if err != nil {
			return err
		}

		log.Debug().Stringer("reward", reward).Msg("spin resolved")
		s.broadcaster.Broadcast(roomID, models.EventGameUpdate, r.Session.Snapshot())
		return nil
	})
	if err != nil {
		log.Debug().Err(err).Msg("spin discarded")
	}
}

// recordRound appends a completed round to the ledger. Failures are logged
// and never fail the action.
func (s *service) recordRound(ctx context.Context, roomID, gameID string, result *game.RoundResult) {
	if s.ledger == nil {
		return
	}

	record := &models.RoundRecord{
		ID:          s.uuidGenerator.NewUUID(),
		RoomID:      roomID,
		GameID:      gameID,
		Round:       result.Round,
		Phrase:      result.Phrase.Text,
		Category:    result.Phrase.Category,
		WinnerID:    result.WinnerID,
		WinnerName:  result.WinnerName,
		Points:      result.Points,
		CompletedAt: s.clock.Now(),
	}

	if err := s.ledger.AddRoundRecord(ctx, &round_ledger.AddRoundRecordInput{Record: record}); err != nil {
		s.log.Error().Err(err).
			Str("room_id", roomID).
			Str("game_id", gameID).
			Int("round", result.Round).
			Msg("failed to record round")
	}
}
