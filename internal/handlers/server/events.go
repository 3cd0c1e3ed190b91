package server

import (
	"encoding/json"
	"fmt"

	"github.com/KirkDiggler/fortuna/internal/models"
	"github.com/KirkDiggler/fortuna/internal/services/messaging"
	"github.com/KirkDiggler/fortuna/internal/services/room"
	"github.com/KirkDiggler/fortuna/internal/services/router"
)

// handle runs one client event and acks it
func (s *Server) handle(c *Conn, in *Inbound) {
	c.log.Debug().Str("event", in.Type).Str("request_id", in.RequestID).Msg("event received")

	switch in.Type {
	case EventCreateRoom:
		s.handleCreateRoom(c, in)
	case EventJoinRoom:
		s.handleJoinRoom(c, in)
	case EventFindPublicRooms:
		s.handleFindPublicRooms(c, in)
	case EventGetGameData:
		s.handleGetGameData(c, in)
	case EventNewGameEvent:
		s.handleNewGameEvent(c, in)
	default:
		s.decline(c, in, fmt.Errorf("%w: event %q", router.ErrUnknownAction, in.Type))
	}
}

func (s *Server) handleCreateRoom(c *Conn, in *Inbound) {
	var req createRoomRequest
	if err := decodeData(in.Data, &req); err != nil {
		s.decline(c, in, err)
		return
	}

	out, err := s.rooms.CreateRoom(c.ctx, &room.CreateRoomInput{
		HostID: c.ID,
		Options: models.RoomOptions{
			MaxPlayers: req.MaxPlayers,
			Rounds:     req.Rounds,
			IsPublic:   req.IsPublic,
		},
	})
	if err != nil {
		s.decline(c, in, err)
		return
	}

	s.ack(c, in, &CreateRoomAck{
		Ack:    Ack{Success: true},
		RoomID: out.RoomID,
	})
}

func (s *Server) handleJoinRoom(c *Conn, in *Inbound) {
	var req joinRoomRequest
	if err := decodeData(in.Data, &req); err != nil {
		s.decline(c, in, err)
		return
	}

	// subscribe first so the joiner sees its own playerJoined and startGame
	subscribed := c.roomID == ""
	if subscribed {
		s.hub.Subscribe(req.RoomID, c)
	}

	out, err := s.rooms.JoinRoom(c.ctx, &room.JoinRoomInput{
		RoomID:       req.RoomID,
		ConnectionID: c.ID,
		Name:         req.Name,
	})
	if err != nil {
		if subscribed {
			s.hub.Unsubscribe(req.RoomID, c)
		}
		s.decline(c, in, err)
		return
	}
	c.roomID = req.RoomID

	ack := &JoinRoomAck{
		Ack:     Ack{Success: true},
		RoomID:  req.RoomID,
		Players: out.Players,
		Started: out.Started,
	}

	greeting, err := s.messaging.GetJoinRoomMessage(c.ctx, &messaging.GetJoinRoomMessageInput{
		PlayerName: req.Name,
		RoomID:     req.RoomID,
		Started:    out.Started,
	})
	if err != nil {
		c.log.Warn().Err(err).Msg("failed to build join greeting")
	} else {
		ack.Message = greeting.Message
	}

	s.ack(c, in, ack)
}

func (s *Server) handleFindPublicRooms(c *Conn, in *Inbound) {
	var req findPublicRoomsRequest
	if len(in.Data) > 0 && string(in.Data) != "null" {
		if err := decodeData(in.Data, &req); err != nil {
			s.decline(c, in, err)
			return
		}
	}

	out, err := s.rooms.FindPublicRooms(c.ctx, &room.FindPublicRoomsInput{Limit: req.Limit})
	if err != nil {
		s.decline(c, in, err)
		return
	}

	s.ack(c, in, &FindPublicRoomsAck{
		Ack:   Ack{Success: true},
		Rooms: out.Rooms,
	})
}

func (s *Server) handleGetGameData(c *Conn, in *Inbound) {
	var req getGameDataRequest
	if err := decodeData(in.Data, &req); err != nil {
		s.decline(c, in, err)
		return
	}

	out, err := s.rooms.GetGameData(c.ctx, &room.GetGameDataInput{RoomID: req.RoomID})
	if err != nil {
		s.decline(c, in, err)
		return
	}

	s.ack(c, in, &GameDataAck{
		Ack:      Ack{Success: true},
		GameData: out.Snapshot,
	})
}

func (s *Server) handleNewGameEvent(c *Conn, in *Inbound) {
	var req newGameEventRequest
	if err := decodeData(in.Data, &req); err != nil {
		s.decline(c, in, err)
		return
	}

	action, err := router.ParseAction(req.Name, req.Payload)
	if err != nil {
		s.decline(c, in, err)
		return
	}

	out, err := s.router.Dispatch(c.ctx, &router.DispatchInput{
		RoomID:       req.RoomID,
		ConnectionID: c.ID,
		Action:       action,
	})
	if err != nil {
		s.decline(c, in, err)
		return
	}

	s.ack(c, in, &GameDataAck{
		Ack:      Ack{Success: true},
		GameData: out.Snapshot,
	})
}

func (s *Server) ack(c *Conn, in *Inbound, data any) {
	c.reply(&Envelope[any]{
		Type:      EventAck,
		RequestID: in.RequestID,
		Data:      data,
	})
}

// decline acks a failed event with a player-facing explanation
func (s *Server) decline(c *Conn, in *Inbound, cause error) {
	ack := &Ack{
		Code:    string(messaging.CodeInternal),
		Message: "Something went wrong processing that request.",
	}

	out, err := s.messaging.GetDeclineMessage(c.ctx, &messaging.GetDeclineMessageInput{Err: cause})
	if err != nil {
		c.log.Error().Err(err).Msg("failed to build decline message")
	} else {
		ack.Code = string(out.Code)
		ack.Message = out.Message
	}

	log := c.log.Debug()
	if ack.Code == string(messaging.CodeInternal) {
		log = c.log.Error()
	}
	log.Err(cause).Str("event", in.Type).Str("code", ack.Code).Msg("event declined")

	s.ack(c, in, ack)
}

func decodeData(data json.RawMessage, v any) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: data is required", router.ErrInvalidPayload)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", router.ErrInvalidPayload, err)
	}
	return nil
}
