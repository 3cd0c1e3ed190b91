package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/suite"
	"golang.org/x/time/rate"

	"github.com/KirkDiggler/fortuna/internal/common/clock"
	"github.com/KirkDiggler/fortuna/internal/common/random"
	"github.com/KirkDiggler/fortuna/internal/common/scheduler"
	"github.com/KirkDiggler/fortuna/internal/common/uuid"
	"github.com/KirkDiggler/fortuna/internal/models"
	"github.com/KirkDiggler/fortuna/internal/phrases"
	"github.com/KirkDiggler/fortuna/internal/repositories/round_ledger"
	"github.com/KirkDiggler/fortuna/internal/services/messaging"
	"github.com/KirkDiggler/fortuna/internal/services/room"
	"github.com/KirkDiggler/fortuna/internal/services/router"
	"github.com/KirkDiggler/fortuna/internal/wheel"
)

const readTimeout = 3 * time.Second

type ServerTestSuite struct {
	suite.Suite
	mini   *miniredis.Miniredis
	ledger round_ledger.Repository
	hub    *Hub
	srv    *Server
	http   *httptest.Server
	log    zerolog.Logger
	nextID int
}

func (s *ServerTestSuite) SetupTest() {
	s.log = zerolog.New(io.Discard)
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{Addr: s.mini.Addr()})
	s.T().Cleanup(func() { _ = client.Close() })

	ledger, err := round_ledger.NewRedis(&round_ledger.Config{RedisClient: client})
	s.Require().NoError(err)
	s.ledger = ledger

	s.srv = s.newServer(ledger)
	s.hub = s.srv.hub
	s.http = httptest.NewServer(s.srv.RegisterRoutes())
}

func (s *ServerTestSuite) TearDownTest() {
	s.srv.Close()
	s.http.Close()
}

func (s *ServerTestSuite) newServer(ledger round_ledger.Repository) *Server {
	hub := NewHub(&s.log)

	w, err := wheel.New(wheel.DefaultTable)
	s.Require().NoError(err)

	rooms, err := room.New(&room.Config{
		MaxPlayers:     4,
		RoomCodeLength: 4,
		Catalog:        phrases.DefaultCatalog(),
		Wheel:          w,
		Roller:         random.New(&random.Config{Seed: 7}),
		Clock:          clock.New(),
		UUIDGenerator:  uuid.New(),
		Broadcaster:    hub,
		Logger:         &s.log,
	})
	s.Require().NoError(err)

	rt, err := router.New(&router.Config{
		Rooms:         rooms,
		Broadcaster:   hub,
		Scheduler:     scheduler.New(),
		SpinDelay:     100 * time.Millisecond,
		Ledger:        ledger,
		Clock:         clock.New(),
		UUIDGenerator: uuid.New(),
		Logger:        &s.log,
	})
	s.Require().NoError(err)

	msgs, err := messaging.NewService(&messaging.ServiceConfig{
		Roller: random.New(&random.Config{Seed: 1}),
	})
	s.Require().NoError(err)

	srv, err := New(&Config{
		Hub:            hub,
		Rooms:          rooms,
		Router:         rt,
		Messaging:      msgs,
		Ledger:         ledger,
		UUIDGenerator:  uuid.New(),
		AllowedOrigins: []string{"*"},
		Logger:         &s.log,
	})
	s.Require().NoError(err)
	return srv
}

func (s *ServerTestSuite) dial() *websocket.Conn {
	return s.dialURL(s.http.URL)
}

func (s *ServerTestSuite) dialURL(base string) *websocket.Conn {
	url := "ws" + strings.TrimPrefix(base, "http") + "/ws"
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	s.Require().NoError(err)
	s.T().Cleanup(func() { _ = ws.Close() })
	return ws
}

// request sends a client event and decodes the matching ack into out
func (s *ServerTestSuite) request(ws *websocket.Conn, event string, data any, out any) {
	s.nextID++
	requestID := "req-" + strconv.Itoa(s.nextID)

	s.Require().NoError(ws.WriteJSON(map[string]any{
		"type":      event,
		"requestId": requestID,
		"data":      data,
	}))

	for {
		env := s.read(ws)
		if env.Type == EventAck && env.RequestID == requestID {
			s.Require().NoError(json.Unmarshal(env.Data, out))
			return
		}
	}
}

func (s *ServerTestSuite) read(ws *websocket.Conn) Inbound {
	s.Require().NoError(ws.SetReadDeadline(time.Now().Add(readTimeout)))

	var env Inbound
	s.Require().NoError(ws.ReadJSON(&env))
	return env
}

// readUntil skips messages until one of the given type arrives
func (s *ServerTestSuite) readUntil(ws *websocket.Conn, event string) json.RawMessage {
	for {
		env := s.read(ws)
		if env.Type == event {
			return env.Data
		}
	}
}

func (s *ServerTestSuite) createRoom(ws *websocket.Conn, maxPlayers int, public bool) string {
	var ack CreateRoomAck
	s.request(ws, EventCreateRoom, map[string]any{
		"maxPlayers": maxPlayers,
		"rounds":     3,
		"isPublic":   public,
	}, &ack)
	s.Require().True(ack.Success, ack.Message)
	s.Require().Len(ack.RoomID, 4)
	return ack.RoomID
}

func (s *ServerTestSuite) joinRoom(ws *websocket.Conn, roomID, name string) JoinRoomAck {
	var ack JoinRoomAck
	s.request(ws, EventJoinRoom, map[string]any{"roomId": roomID, "name": name}, &ack)
	return ack
}

func (s *ServerTestSuite) getJSON(path string, out any) int {
	resp, err := http.Get(s.http.URL + path)
	s.Require().NoError(err)
	defer resp.Body.Close()

	if out != nil {
		s.Require().NoError(json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (s *ServerTestSuite) TestNewValidatesConfig() {
	_, err := New(nil)
	s.ErrorIs(err, ErrNilConfig)

	_, err = New(&Config{})
	s.ErrorIs(err, ErrNilHub)

	_, err = New(&Config{Hub: s.hub})
	s.ErrorIs(err, ErrNilRoomService)
}

func (s *ServerTestSuite) TestHealth() {
	var body map[string]string
	s.Equal(http.StatusOK, s.getJSON("/health", &body))
	s.Equal("ok", body["status"])
}

func (s *ServerTestSuite) TestCORSPreflight() {
	req, err := http.NewRequest(http.MethodOptions, s.http.URL+"/rooms", nil)
	s.Require().NoError(err)
	req.Header.Set("Origin", "http://localhost:5173")

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusNoContent, resp.StatusCode)
	s.Equal("*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func (s *ServerTestSuite) TestRestrictedOrigins() {
	srv := s.newServer(nil)
	srv.origins = []string{"https://fortuna.example"}
	srv.anyOrig = false

	s.True(srv.allowOrigin("https://fortuna.example"))
	s.True(srv.allowOrigin(""))
	s.False(srv.allowOrigin("https://evil.example"))
}

func (s *ServerTestSuite) TestGameFlow() {
	alice := s.dial()
	bob := s.dial()

	roomID := s.createRoom(alice, 2, true)

	ack := s.joinRoom(alice, roomID, "Alice")
	s.True(ack.Success)
	s.False(ack.Started)
	s.NotEmpty(ack.Message)
	s.Require().Len(ack.Players, 1)
	s.Equal("Alice", ack.Players[0].Name)

	var listing struct {
		Rooms []models.RoomSummary `json:"rooms"`
	}
	s.Equal(http.StatusOK, s.getJSON("/rooms", &listing))
	s.Require().Len(listing.Rooms, 1)
	s.Equal(roomID, listing.Rooms[0].RoomID)
	s.Equal(1, listing.Rooms[0].PlayerCount)

	ack = s.joinRoom(bob, roomID, "Bob")
	s.True(ack.Success)
	s.True(ack.Started)
	s.Len(ack.Players, 2)

	var start room.StartGamePayload
	s.Require().NoError(json.Unmarshal(s.readUntil(alice, models.EventStartGame), &start))
	s.Equal(roomID, start.RoomID)
	s.NotEmpty(start.GameID)

	// a started room is no longer listed
	s.Equal(http.StatusOK, s.getJSON("/rooms", &listing))
	s.Empty(listing.Rooms)

	var data GameDataAck
	s.request(alice, EventGetGameData, map[string]any{"roomId": roomID}, &data)
	s.Require().True(data.Success)
	s.Equal(models.ModeRotating, data.GameData.Mode)
	s.Equal(start.GameID, data.GameData.GameID)

	s.request(alice, EventNewGameEvent, map[string]any{
		"roomId":  roomID,
		"name":    "rotate",
		"payload": map[string]any{},
	}, &data)
	s.Require().True(data.Success, data.Message)
	s.True(data.GameData.HasRotated)
	s.Equal(models.ModeRotating, data.GameData.Mode)

	// the wheel stops after the spin delay and both players hear about it
	for _, ws := range []*websocket.Conn{alice, bob} {
		for {
			var snapshot models.GameSnapshot
			s.Require().NoError(json.Unmarshal(s.readUntil(ws, models.EventGameUpdate), &snapshot))
			if snapshot.Mode == models.ModeLetter {
				break
			}
		}
	}
}

func (s *ServerTestSuite) TestDeclines() {
	ws := s.dial()

	var ack Ack
	s.request(ws, "dance", map[string]any{}, &ack)
	s.False(ack.Success)
	s.Equal(string(messaging.CodeUnknownAction), ack.Code)

	s.request(ws, EventJoinRoom, map[string]any{"roomId": "NOPE", "name": "Alice"}, &ack)
	s.False(ack.Success)
	s.Equal(string(messaging.CodeRoomNotFound), ack.Code)
	s.NotEmpty(ack.Message)

	roomID := s.createRoom(ws, 3, false)
	s.True(s.joinRoom(ws, roomID, "Alice").Success)

	s.request(ws, EventNewGameEvent, map[string]any{
		"roomId": roomID,
		"name":   router.ActionSpinWheel,
	}, &ack)
	s.False(ack.Success)
	s.Equal(string(messaging.CodeGameNotStarted), ack.Code)

	s.request(ws, EventNewGameEvent, map[string]any{
		"roomId":  roomID,
		"name":    router.ActionGuessLetter,
		"payload": map[string]any{"letter": "ab"},
	}, &ack)
	s.False(ack.Success)
	s.Equal(string(messaging.CodeInvalidPayload), ack.Code)

	// a second join from the same connection keeps the first subscription
	join := s.joinRoom(ws, roomID, "Alice again")
	s.False(join.Success)
	s.Equal(string(messaging.CodeAlreadyInRoom), join.Code)
	s.Equal(1, s.hub.Subscribers(roomID))
}

func (s *ServerTestSuite) TestFindPublicRoomsEvent() {
	host := s.dial()
	roomID := s.createRoom(host, 3, true)
	s.True(s.joinRoom(host, roomID, "Host").Success)

	hidden := s.createRoom(host, 3, false)
	s.NotEqual(roomID, hidden)

	guest := s.dial()
	var ack FindPublicRoomsAck
	s.request(guest, EventFindPublicRooms, nil, &ack)
	s.True(ack.Success)
	s.Require().Len(ack.Rooms, 1)
	s.Equal(roomID, ack.Rooms[0].RoomID)
	s.Equal(3, ack.Rooms[0].MaxPlayers)
}

func (s *ServerTestSuite) TestDisconnectNotifiesRoom() {
	alice := s.dial()
	bob := s.dial()

	roomID := s.createRoom(alice, 3, false)
	s.True(s.joinRoom(alice, roomID, "Alice").Success)
	s.True(s.joinRoom(bob, roomID, "Bob").Success)
	s.Equal(2, s.hub.Subscribers(roomID))

	s.Require().NoError(bob.Close())

	var roster []*models.Player
	s.Require().NoError(json.Unmarshal(s.readUntil(alice, models.EventPlayerDisconnect), &roster))
	s.Require().Len(roster, 2)
	s.True(roster[0].Connected)
	s.Equal("Bob", roster[1].Name)
	s.False(roster[1].Connected)
	s.Equal(1, s.hub.Subscribers(roomID))
}

func (s *ServerTestSuite) TestRoomHistory() {
	completed := time.Date(2025, 4, 19, 12, 0, 0, 0, time.UTC)
	s.Require().NoError(s.ledger.AddRoundRecord(context.Background(), &round_ledger.AddRoundRecordInput{
		Record: &models.RoundRecord{
			ID:          "round-1",
			RoomID:      "ABCD",
			GameID:      "game-1",
			Round:       1,
			Phrase:      "Czas leczy rany",
			Category:    phrases.DefaultCategory,
			WinnerID:    "conn-1",
			WinnerName:  "Alice",
			Points:      700,
			CompletedAt: completed,
		},
	}))

	var history struct {
		RoomID string                `json:"roomId"`
		Rounds []*models.RoundRecord `json:"rounds"`
	}
	s.Equal(http.StatusOK, s.getJSON("/rooms/ABCD/history", &history))
	s.Equal("ABCD", history.RoomID)
	s.Require().Len(history.Rounds, 1)
	s.Equal("Czas leczy rany", history.Rounds[0].Phrase)
	s.True(completed.Equal(history.Rounds[0].CompletedAt))

	s.Equal(http.StatusOK, s.getJSON("/rooms/ZZZZ/history", &history))
	s.Empty(history.Rounds)

	var board models.Leaderboard
	s.Equal(http.StatusOK, s.getJSON("/games/game-1/leaderboard", &board))
	s.Require().Len(board.Entries, 1)
	s.Equal("Alice", board.Entries[0].PlayerName)
	s.Equal(700.0, board.Entries[0].Points)
}

func (s *ServerTestSuite) TestHistoryDisabledWithoutLedger() {
	srv := s.newServer(nil)
	ts := httptest.NewServer(srv.RegisterRoutes())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/rooms/ABCD/history")
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusNotFound, resp.StatusCode)
}

func (s *ServerTestSuite) TestRateLimitedEvents() {
	srv := s.newServer(nil)
	srv.eventRate = rate.Every(time.Hour)
	srv.eventBurst = 1
	ts := httptest.NewServer(srv.RegisterRoutes())
	defer ts.Close()
	defer srv.Close()

	ws := s.dialURL(ts.URL)

	var rooms FindPublicRoomsAck
	s.request(ws, EventFindPublicRooms, nil, &rooms)
	s.True(rooms.Success)

	var ack Ack
	s.request(ws, EventFindPublicRooms, nil, &ack)
	s.False(ack.Success)
	s.Equal(string(messaging.CodeRateLimited), ack.Code)
}

func (s *ServerTestSuite) TestSlowClientIsDropped() {
	alice := s.dial()
	roomID := s.createRoom(alice, 4, false)
	s.True(s.joinRoom(alice, roomID, "Alice").Success)

	// the slow client sits in the room with a one-message buffer and no writer
	joined := make(chan *Conn, 1)
	slowServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := s.srv.upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}

		c := newConn("conn-slow", ws, rate.NewLimiter(rate.Inf, 1), s.log)
		c.send = make(chan []byte, 1)

		s.srv.hub.Subscribe(roomID, c)
		_, err = s.srv.rooms.JoinRoom(c.ctx, &room.JoinRoomInput{
			RoomID:       roomID,
			ConnectionID: c.ID,
			Name:         "Slow",
		})
		s.NoError(err)
		c.roomID = roomID
		joined <- c

		s.srv.run(c)
	}))
	defer slowServer.Close()

	slow := s.dialURL(slowServer.URL)

	var c *Conn
	select {
	case c = <-joined:
	case <-time.After(readTimeout):
		s.FailNow("slow client never joined")
	}

	// its own playerJoined filled the buffer; the next event overflows it
	s.Require().Len(c.send, 1)
	s.True(s.joinRoom(s.dial(), roomID, "Bob").Success)

	var roster []*models.Player
	s.Require().NoError(json.Unmarshal(s.readUntil(alice, models.EventPlayerDisconnect), &roster))
	s.Require().Len(roster, 3)
	s.Equal("Slow", roster[1].Name)
	s.False(roster[1].Connected)
	s.True(roster[2].Connected)

	s.Error(c.ctx.Err())
	s.Equal(2, s.srv.hub.Subscribers(roomID))

	s.Require().NoError(slow.SetReadDeadline(time.Now().Add(readTimeout)))
	_, _, err := slow.ReadMessage()
	s.Require().Error(err)

	var netErr net.Error
	s.False(errors.As(err, &netErr) && netErr.Timeout(), "socket left open: %v", err)
}

func TestServerSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}
