package server

import (
	"context"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/KirkDiggler/fortuna/internal/common/logger"
	"github.com/KirkDiggler/fortuna/internal/common/uuid"
	"github.com/KirkDiggler/fortuna/internal/repositories/round_ledger"
	"github.com/KirkDiggler/fortuna/internal/services/messaging"
	"github.com/KirkDiggler/fortuna/internal/services/room"
	"github.com/KirkDiggler/fortuna/internal/services/router"
)

// Config holds configuration for the server
type Config struct {
	Hub       *Hub
	Rooms     room.Service
	Router    router.Service
	Messaging messaging.Service

	// Ledger backs the history endpoints; they answer 404 without it
	Ledger round_ledger.Repository

	UUIDGenerator uuid.UUID

	// AllowedOrigins lists CORS and websocket origins; "*" allows any
	AllowedOrigins []string

	// EventRate and EventBurst bound client events per connection
	EventRate  rate.Limit
	EventBurst int

	// Logger defaults to the global logger
	Logger *zerolog.Logger
}

// Per-connection event budget when the config leaves it unset
const (
	DefaultEventRate  rate.Limit = 5
	DefaultEventBurst            = 10
)

// Server serves the websocket game protocol and the HTTP lookup endpoints
type Server struct {
	hub       *Hub
	rooms     room.Service
	router    router.Service
	messaging messaging.Service
	ledger    round_ledger.Repository
	uuid      uuid.UUID

	origins    []string
	anyOrig    bool
	upgrader   websocket.Upgrader
	eventRate  rate.Limit
	eventBurst int
	log        zerolog.Logger

	mu    sync.Mutex
	conns map[*Conn]struct{}
}

// New creates a new server
func New(cfg *Config) (*Server, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.Hub == nil {
		return nil, ErrNilHub
	}
	if cfg.Rooms == nil {
		return nil, ErrNilRoomService
	}
	if cfg.Router == nil {
		return nil, ErrNilRouter
	}
	if cfg.Messaging == nil {
		return nil, ErrNilMessaging
	}
	if cfg.UUIDGenerator == nil {
		return nil, ErrNilUUIDGenerator
	}

	s := &Server{
		hub:        cfg.Hub,
		rooms:      cfg.Rooms,
		router:     cfg.Router,
		messaging:  cfg.Messaging,
		ledger:     cfg.Ledger,
		uuid:       cfg.UUIDGenerator,
		origins:    cfg.AllowedOrigins,
		eventRate:  cfg.EventRate,
		eventBurst: cfg.EventBurst,
		log:        logger.OrDefault(cfg.Logger).With().Str("component", "server").Logger(),
		conns:      make(map[*Conn]struct{}),
	}

	if s.eventRate <= 0 {
		s.eventRate = DefaultEventRate
	}
	if s.eventBurst <= 0 {
		s.eventBurst = DefaultEventBurst
	}

	if len(s.origins) == 0 {
		s.anyOrig = true
	}
	for _, o := range s.origins {
		if o == "*" {
			s.anyOrig = true
		}
	}

	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return s.allowOrigin(r.Header.Get("Origin"))
		},
	}

	return s, nil
}

func (s *Server) allowOrigin(origin string) bool {
	if s.anyOrig || origin == "" {
		return true
	}
	for _, o := range s.origins {
		if o == origin {
			return true
		}
	}
	return false
}

// serveWS upgrades the request and runs the connection until it drops
func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	c := newConn(s.uuid.NewUUID(), ws, rate.NewLimiter(s.eventRate, s.eventBurst), s.log)
	c.log.Info().Str("remote_addr", r.RemoteAddr).Msg("client connected")

	go c.writePump()
	s.run(c)
}

// run reads client events until the connection drops, then releases its seat
func (s *Server) run(c *Conn) {
	s.track(c)

	c.readPump(
		func(in *Inbound) { s.handle(c, in) },
		func(in *Inbound) { s.decline(c, in, messaging.ErrRateLimited) },
	)

	s.disconnect(c)
}

func (s *Server) track(c *Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conns[c] = struct{}{}
}

func (s *Server) disconnect(c *Conn) {
	s.mu.Lock()
	delete(s.conns, c)
	s.mu.Unlock()

	s.hub.UnsubscribeAll(c)

	out, err := s.rooms.HandleDisconnect(context.Background(), &room.HandleDisconnectInput{
		ConnectionID: c.ID,
	})
	if err != nil {
		c.log.Error().Err(err).Msg("failed to handle disconnect")
		return
	}

	c.log.Info().
		Str("room_id", out.RoomID).
		Bool("room_deleted", out.RoomDeleted).
		Msg("client disconnected")
}

// Close drops every open websocket. http.Server.Shutdown does not touch
// hijacked connections.
func (s *Server) Close() {
	s.mu.Lock()
	conns := make([]*Conn, 0, len(s.conns))
	for c := range s.conns {
		conns = append(conns, c)
	}
	s.mu.Unlock()

	for _, c := range conns {
		c.close()
	}
}
