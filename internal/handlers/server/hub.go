package server

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"

	"github.com/KirkDiggler/fortuna/internal/common/logger"
)

// Hub tracks which connections listen to which room and fans events out to
// them. It implements room.Broadcaster.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Conn]struct{}
	log   zerolog.Logger
}

// NewHub creates an empty hub
func NewHub(l *zerolog.Logger) *Hub {
	return &Hub{
		rooms: make(map[string]map[*Conn]struct{}),
		log:   logger.OrDefault(l).With().Str("component", "hub").Logger(),
	}
}

// Subscribe starts delivering a room's events to c
func (h *Hub) Subscribe(roomID string, c *Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns, ok := h.rooms[roomID]
	if !ok {
		conns = make(map[*Conn]struct{})
		h.rooms[roomID] = conns
	}
	conns[c] = struct{}{}
}

// Unsubscribe stops delivering a room's events to c
func (h *Hub) Unsubscribe(roomID string, c *Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.unsubscribe(roomID, c)
}

// UnsubscribeAll removes c from every room
func (h *Hub) UnsubscribeAll(c *Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for roomID := range h.rooms {
		h.unsubscribe(roomID, c)
	}
}

func (h *Hub) unsubscribe(roomID string, c *Conn) {
	conns, ok := h.rooms[roomID]
	if !ok {
		return
	}
	delete(conns, c)
	if len(conns) == 0 {
		delete(h.rooms, roomID)
	}
}

// Subscribers counts the connections listening to a room
func (h *Hub) Subscribers(roomID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.rooms[roomID])
}

// Broadcast sends an event to every connection in a room
func (h *Hub) Broadcast(roomID string, event string, payload any) {
	msg, err := json.Marshal(&Envelope[any]{Type: event, Data: payload})
	if err != nil {
		h.log.Error().Err(err).Str("room_id", roomID).Str("event", event).Msg("failed to encode event")
		return
	}

	h.mu.RLock()
	conns := make([]*Conn, 0, len(h.rooms[roomID]))
	for c := range h.rooms[roomID] {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	for _, c := range conns {
		c.enqueue(msg)
	}

	h.log.Debug().
		Str("room_id", roomID).
		Str("event", event).
		Int("recipients", len(conns)).
		Msg("event broadcast")
}
