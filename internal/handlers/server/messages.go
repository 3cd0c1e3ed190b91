package server

import (
	"encoding/json"

	"github.com/KirkDiggler/fortuna/internal/models"
)

// Client event types
const (
	EventCreateRoom      = "createRoom"
	EventJoinRoom        = "joinRoom"
	EventFindPublicRooms = "findPublicRooms"
	EventGetGameData     = "getGameData"
	EventNewGameEvent    = "newGameEvent"

	// EventAck answers a client event carrying the same requestId
	EventAck = "ack"
)

// Envelope frames every websocket message in both directions
type Envelope[T any] struct {
	Type      string `json:"type"`
	RequestID string `json:"requestId,omitempty"`
	Data      T      `json:"data"`
}

// Inbound is an envelope whose data is decoded per event type
type Inbound = Envelope[json.RawMessage]

type createRoomRequest struct {
	MaxPlayers int  `json:"maxPlayers"`
	Rounds     int  `json:"rounds"`
	IsPublic   bool `json:"isPublic"`
}

type joinRoomRequest struct {
	RoomID string `json:"roomId"`
	Name   string `json:"name"`
}

type findPublicRoomsRequest struct {
	Limit int `json:"limit"`
}

type getGameDataRequest struct {
	RoomID string `json:"roomId"`
}

type newGameEventRequest struct {
	RoomID  string          `json:"roomId"`
	Name    string          `json:"name"`
	Payload json.RawMessage `json:"payload"`
}

// Ack is the common part of every acknowledgement
type Ack struct {
	Success bool   `json:"success"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// CreateRoomAck answers createRoom
type CreateRoomAck struct {
	Ack
	RoomID string `json:"roomId"`
}

// JoinRoomAck answers joinRoom
type JoinRoomAck struct {
	Ack
	RoomID  string           `json:"roomId"`
	Players []*models.Player `json:"players"`
	Started bool             `json:"started"`
}

// FindPublicRoomsAck answers findPublicRooms
type FindPublicRoomsAck struct {
	Ack
	Rooms []models.RoomSummary `json:"rooms"`
}

// GameDataAck answers getGameData and newGameEvent
type GameDataAck struct {
	Ack
	GameData *models.GameSnapshot `json:"gameData"`
}
