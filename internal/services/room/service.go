package room

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/KirkDiggler/fortuna/internal/common/clock"
	"github.com/KirkDiggler/fortuna/internal/common/logger"
	"github.com/KirkDiggler/fortuna/internal/common/random"
	"github.com/KirkDiggler/fortuna/internal/common/uuid"
	"github.com/KirkDiggler/fortuna/internal/game"
	"github.com/KirkDiggler/fortuna/internal/models"
	"github.com/KirkDiggler/fortuna/internal/phrases"
	"github.com/KirkDiggler/fortuna/internal/wheel"
)

// service implements the Service interface
type service struct {
	maxPlayers      int
	codeLength      int
	maxCodeAttempts int

	catalog       *phrases.Catalog
	wheel         *wheel.Wheel
	roller        random.Roller
	clock         clock.Clock
	uuidGenerator uuid.UUID
	broadcaster   Broadcaster
	log           zerolog.Logger

	// mu serializes every room mutation in the process
	mu    sync.Mutex
	rooms map[string]*Room
	order []string

	// members maps a connection to the room it joined
	members map[string]string
}

// New creates a new room service
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.Catalog == nil {
		return nil, ErrNilCatalog
	}
	if cfg.Wheel == nil {
		return nil, ErrNilWheel
	}
	if cfg.Roller == nil {
		return nil, ErrNilRoller
	}
	if cfg.Clock == nil {
		return nil, ErrNilClock
	}
	if cfg.UUIDGenerator == nil {
		return nil, ErrNilUUIDGenerator
	}
	if cfg.Broadcaster == nil {
		return nil, ErrNilBroadcaster
	}

	maxPlayers := cfg.MaxPlayers
	if maxPlayers <= 0 {
		maxPlayers = DefaultMaxPlayers
	}

	codeLength := cfg.RoomCodeLength
	if codeLength == 0 {
		codeLength = DefaultCodeLength
	}
	if codeLength < 3 || codeLength > 6 {
		return nil, fmt.Errorf("room code length must be between 3 and 6, got %d", codeLength)
	}

	attempts := cfg.MaxCodeAttempts
	if attempts <= 0 {
		attempts = DefaultMaxCodeAttempts
	}

	return &service{
		maxPlayers:      maxPlayers,
		codeLength:      codeLength,
		maxCodeAttempts: attempts,
		catalog:         cfg.Catalog,
		wheel:           cfg.Wheel,
		roller:          cfg.Roller,
		clock:           cfg.Clock,
		uuidGenerator:   cfg.UUIDGenerator,
		broadcaster:     cfg.Broadcaster,
		log:             logger.OrDefault(cfg.Logger).With().Str("component", "rooms").Logger(),
		rooms:           make(map[string]*Room),
		members:         make(map[string]string),
	}, nil
}

// CreateRoom registers an empty room under a fresh code
func (s *service) CreateRoom(ctx context.Context, input *CreateRoomInput) (*CreateRoomOutput, error) {
	if input == nil {
		return nil, ErrInvalidRoomOptions
	}

	opts := input.Options
	if opts.MaxPlayers < 1 || opts.MaxPlayers > s.maxPlayers {
		return nil, fmt.Errorf("%w: maxPlayers must be between 1 and %d", ErrInvalidRoomOptions, s.maxPlayers)
	}
	if opts.Rounds < 1 {
		return nil, fmt.Errorf("%w: rounds must be at least 1", ErrInvalidRoomOptions)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	code, err := s.newCode()
	if err != nil {
		return nil, err
	}

	s.rooms[code] = &Room{
		ID:        code,
		HostID:    input.HostID,
		Options:   opts,
		Players:   []*models.Player{},
		CreatedAt: s.clock.Now(),
	}
	s.order = append(s.order, code)

	s.log.Info().
		Str("room_id", code).
		Str("connection_id", input.HostID).
		Int("max_players", opts.MaxPlayers).
		Int("rounds", opts.Rounds).
		Bool("public", opts.IsPublic).
		Msg("room created")

	return &CreateRoomOutput{RoomID: code}, nil
}

// newCode samples codes until it finds an unused one. Callers hold mu.
func (s *service) newCode() (string, error) {
	var b strings.Builder
	for attempt := 0; attempt < s.maxCodeAttempts; attempt++ {
		b.Reset()
		for i := 0; i < s.codeLength; i++ {
			b.WriteByte(CodeAlphabet[s.roller.Intn(len(CodeAlphabet))])
		}

		code := b.String()
		if _, taken := s.rooms[code]; !taken {
			return code, nil
		}
	}

	return "", fmt.Errorf("%w after %d attempts", ErrRoomCodeUnavailable, s.maxCodeAttempts)
}

// JoinRoom adds a player and starts the game once the room is full
func (s *service) JoinRoom(ctx context.Context, input *JoinRoomInput) (*JoinRoomOutput, error) {
	if input == nil {
		return nil, ErrRoomNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	output, gameID, err := s.join(input)
	if err != nil {
		return nil, err
	}

	// events leave under mu, in the order they were applied
	s.broadcaster.Broadcast(input.RoomID, models.EventPlayerJoined, output.Players)
	if output.Started {
		s.broadcaster.Broadcast(input.RoomID, models.EventStartGame, &StartGamePayload{
			RoomID: input.RoomID,
			GameID: gameID,
		})
	}

	return output, nil
}

// join adds the player to the roster. Callers hold mu.
func (s *service) join(input *JoinRoomInput) (*JoinRoomOutput, string, error) {
	if current, ok := s.members[input.ConnectionID]; ok {
		return nil, "", fmt.Errorf("%w: %s", ErrAlreadyInRoom, current)
	}

	room, ok := s.rooms[input.RoomID]
	if !ok {
		return nil, "", ErrRoomNotFound
	}
	if room.IsFull() {
		return nil, "", ErrRoomFull
	}

	room.Players = append(room.Players, &models.Player{
		ID:        input.ConnectionID,
		Name:      input.Name,
		Connected: true,
		JoinedAt:  s.clock.Now(),
	})
	s.members[input.ConnectionID] = room.ID

	log := s.log.With().Str("room_id", room.ID).Str("connection_id", input.ConnectionID).Logger()
	log.Info().Int("players", len(room.Players)).Msg("player joined")

	output := &JoinRoomOutput{}
	var gameID string

	if room.IsFull() {
		session, err := s.startGame(room)
		if err != nil {
			room.Players = room.Players[:len(room.Players)-1]
			delete(s.members, input.ConnectionID)
			return nil, "", err
		}

		gameID = session.GameID()
		output.Started = true
		output.Snapshot = session.Snapshot()
		log.Info().Str("game_id", gameID).Msg("game started")
	}

	output.Players = room.Roster()
	return output, gameID, nil
}

// startGame builds the session for a full room. Callers hold mu.
func (s *service) startGame(room *Room) (*game.Session, error) {
	pool, err := phrases.NewPool(s.catalog, s.roller)
	if err != nil {
		return nil, err
	}

	session, err := game.New(&game.Config{
		GameID:    s.uuidGenerator.NewUUID(),
		Players:   room.Players,
		MaxRounds: room.Options.Rounds,
		Pool:      pool,
		Wheel:     s.wheel,
		Roller:    s.roller,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start game in room %s: %w", room.ID, err)
	}

	room.Options.IsPublic = false
	room.Session = session
	return session, nil
}

// FindPublicRooms lists public rooms that still have seats, oldest first
func (s *service) FindPublicRooms(ctx context.Context, input *FindPublicRoomsInput) (*FindPublicRoomsOutput, error) {
	limit := DefaultPublicRoomLimit
	if input != nil && input.Limit > 0 {
		limit = input.Limit
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rooms := make([]models.RoomSummary, 0, limit)
	for _, id := range s.order {
		if len(rooms) == limit {
			break
		}

		room := s.rooms[id]
		if !room.Options.IsPublic || len(room.Players) == 0 || room.IsFull() {
			continue
		}
		rooms = append(rooms, room.Summary())
	}

	return &FindPublicRoomsOutput{Rooms: rooms}, nil
}

// GetGameData returns the current snapshot of a room's game
func (s *service) GetGameData(ctx context.Context, input *GetGameDataInput) (*GetGameDataOutput, error) {
	if input == nil {
		return nil, ErrRoomNotFound
	}

	var snapshot *models.GameSnapshot
	err := s.WithRoom(ctx, input.RoomID, func(room *Room) error {
		if room.Session == nil {
			return ErrGameNotStarted
		}
		snapshot = room.Session.Snapshot()
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &GetGameDataOutput{Snapshot: snapshot}, nil
}

// HandleDisconnect marks a connection's player as gone, moves the turn on if
// they held it and deletes the room once nobody is left
func (s *service) HandleDisconnect(ctx context.Context, input *HandleDisconnectInput) (*HandleDisconnectOutput, error) {
	if input == nil {
		return &HandleDisconnectOutput{}, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	output, roster, snapshot := s.disconnect(input.ConnectionID)
	if output.RoomID == "" || output.RoomDeleted {
		return output, nil
	}

	if output.TurnMoved && snapshot != nil {
		s.broadcaster.Broadcast(output.RoomID, models.EventGameUpdate, snapshot)
	}
	s.broadcaster.Broadcast(output.RoomID, models.EventPlayerDisconnect, roster)

	return output, nil
}

// disconnect updates the directory for a dropped connection. Callers hold mu.
func (s *service) disconnect(connectionID string) (*HandleDisconnectOutput, []*models.Player, *models.GameSnapshot) {
	output := &HandleDisconnectOutput{}

	s.dropEmptyRoomsHostedBy(connectionID)

	roomID, ok := s.members[connectionID]
	if !ok {
		return output, nil, nil
	}
	delete(s.members, connectionID)

	room, ok := s.rooms[roomID]
	if !ok {
		return output, nil, nil
	}
	output.RoomID = roomID

	if room.Session != nil {
		output.TurnMoved = room.Session.MarkDisconnected(connectionID)
	} else if p := room.Player(connectionID); p != nil {
		p.Connected = false
	}

	log := s.log.With().Str("room_id", roomID).Str("connection_id", connectionID).Logger()
	log.Info().Bool("turn_moved", output.TurnMoved).Msg("player disconnected")

	if room.AllDisconnected() {
		s.deleteRoom(room)
		output.RoomDeleted = true
		log.Info().Msg("room deleted")
		return output, nil, nil
	}

	var snapshot *models.GameSnapshot
	if room.Session != nil {
		snapshot = room.Session.Snapshot()
	}

	return output, room.Roster(), snapshot
}

// dropEmptyRoomsHostedBy removes rooms nobody ever joined once their creator
// goes away. Callers hold mu.
func (s *service) dropEmptyRoomsHostedBy(connectionID string) {
	for _, id := range append([]string(nil), s.order...) {
		room := s.rooms[id]
		if room.HostID == connectionID && len(room.Players) == 0 {
			s.deleteRoom(room)
			s.log.Info().Str("room_id", id).Msg("empty room deleted")
		}
	}
}

// deleteRoom removes a room and invalidates its spin timer. Callers hold mu.
func (s *service) deleteRoom(room *Room) {
	room.CancelPendingSpin()

	delete(s.rooms, room.ID)
	for i, id := range s.order {
		if id == room.ID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}

	for _, p := range room.Players {
		if s.members[p.ID] == room.ID {
			delete(s.members, p.ID)
		}
	}
}

// WithRoom runs fn against a room while holding the directory lock. fn must
// not block or call back into the service; broadcasting from fn is allowed.
func (s *service) WithRoom(ctx context.Context, roomID string, fn func(*Room) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[roomID]
	if !ok {
		return ErrRoomNotFound
	}

	return fn(room)
}
