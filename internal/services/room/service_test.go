package room

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	clockMocks "github.com/KirkDiggler/fortuna/internal/common/clock/mocks"
	randomMocks "github.com/KirkDiggler/fortuna/internal/common/random/mocks"
	schedulerMocks "github.com/KirkDiggler/fortuna/internal/common/scheduler/mocks"
	uuidMocks "github.com/KirkDiggler/fortuna/internal/common/uuid/mocks"
	"github.com/KirkDiggler/fortuna/internal/game"
	"github.com/KirkDiggler/fortuna/internal/models"
	"github.com/KirkDiggler/fortuna/internal/phrases"
	"github.com/KirkDiggler/fortuna/internal/services/room/mocks"
	"github.com/KirkDiggler/fortuna/internal/wheel"
)

type RoomServiceTestSuite struct {
	suite.Suite
	mockCtrl        *gomock.Controller
	mockRoller      *randomMocks.MockRoller
	mockClock       *clockMocks.MockClock
	mockUUID        *uuidMocks.MockUUID
	mockBroadcaster *mocks.MockBroadcaster
	service         *service
	ctx             context.Context

	testTime    time.Time
	testGameID  string
	catalogSize int
}

func (s *RoomServiceTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockRoller = randomMocks.NewMockRoller(s.mockCtrl)
	s.mockClock = clockMocks.NewMockClock(s.mockCtrl)
	s.mockUUID = uuidMocks.NewMockUUID(s.mockCtrl)
	s.mockBroadcaster = mocks.NewMockBroadcaster(s.mockCtrl)
	s.ctx = context.Background()

	s.testTime = time.Date(2025, 4, 19, 12, 0, 0, 0, time.UTC)
	s.testGameID = "test-game-id"

	s.mockClock.EXPECT().Now().Return(s.testTime).AnyTimes()

	catalog := phrases.DefaultCatalog()
	s.catalogSize = catalog.Len()

	w, err := wheel.New(wheel.DefaultTable)
	s.Require().NoError(err)

	log := zerolog.New(io.Discard)
	s.service, err = New(&Config{
		MaxPlayers:      4,
		RoomCodeLength:  3,
		MaxCodeAttempts: 3,
		Catalog:         catalog,
		Wheel:           w,
		Roller:          s.mockRoller,
		Clock:           s.mockClock,
		UUIDGenerator:   s.mockUUID,
		Broadcaster:     s.mockBroadcaster,
		Logger:          &log,
	})
	s.Require().NoError(err)
}

func (s *RoomServiceTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

// expectCode makes the roller produce the given room code
func (s *RoomServiceTestSuite) expectCode(code string) {
	for i := 0; i < len(code); i++ {
		s.mockRoller.EXPECT().Intn(len(CodeAlphabet)).Return(strings.IndexByte(CodeAlphabet, code[i]))
	}
}

func (s *RoomServiceTestSuite) createRoom(code string, opts models.RoomOptions) {
	s.expectCode(code)
	out, err := s.service.CreateRoom(s.ctx, &CreateRoomInput{HostID: "host-" + code, Options: opts})
	s.Require().NoError(err)
	s.Require().Equal(code, out.RoomID)
}

func (s *RoomServiceTestSuite) join(roomID, connectionID, name string) *JoinRoomOutput {
	s.mockBroadcaster.EXPECT().Broadcast(roomID, models.EventPlayerJoined, gomock.Any())
	out, err := s.service.JoinRoom(s.ctx, &JoinRoomInput{RoomID: roomID, ConnectionID: connectionID, Name: name})
	s.Require().NoError(err)
	return out
}

// joinAndStart joins the player that fills the room
func (s *RoomServiceTestSuite) joinAndStart(roomID, connectionID, name string) *JoinRoomOutput {
	s.mockUUID.EXPECT().NewUUID().Return(s.testGameID)
	s.mockRoller.EXPECT().Intn(s.catalogSize).Return(0)
	s.mockBroadcaster.EXPECT().Broadcast(roomID, models.EventStartGame, &StartGamePayload{
		RoomID: roomID,
		GameID: s.testGameID,
	})
	return s.join(roomID, connectionID, name)
}

func (s *RoomServiceTestSuite) TestNewValidation() {
	_, err := New(nil)
	s.ErrorIs(err, ErrNilConfig)

	_, err = New(&Config{})
	s.ErrorIs(err, ErrNilCatalog)

	w, _ := wheel.New(wheel.DefaultTable)
	_, err = New(&Config{
		Catalog:        phrases.DefaultCatalog(),
		Wheel:          w,
		Roller:         s.mockRoller,
		Clock:          s.mockClock,
		UUIDGenerator:  s.mockUUID,
		Broadcaster:    s.mockBroadcaster,
		RoomCodeLength: 8,
	})
	s.Error(err)
}

func (s *RoomServiceTestSuite) TestCreateRoomValidatesOptions() {
	tests := []models.RoomOptions{
		{MaxPlayers: 0, Rounds: 3},
		{MaxPlayers: 5, Rounds: 3},
		{MaxPlayers: 2, Rounds: 0},
	}

	for _, opts := range tests {
		_, err := s.service.CreateRoom(s.ctx, &CreateRoomInput{HostID: "host", Options: opts})
		s.ErrorIs(err, ErrInvalidRoomOptions)
	}
}

func (s *RoomServiceTestSuite) TestCreateRoomRetriesTakenCodes() {
	s.createRoom("AAA", models.RoomOptions{MaxPlayers: 2, Rounds: 3})

	s.expectCode("AAA")
	s.expectCode("B7Z")
	out, err := s.service.CreateRoom(s.ctx, &CreateRoomInput{HostID: "host", Options: models.RoomOptions{MaxPlayers: 2, Rounds: 3}})
	s.Require().NoError(err)
	s.Equal("B7Z", out.RoomID)
}

func (s *RoomServiceTestSuite) TestCreateRoomGivesUpAfterMaxAttempts() {
	s.createRoom("AAA", models.RoomOptions{MaxPlayers: 2, Rounds: 3})

	s.mockRoller.EXPECT().Intn(len(CodeAlphabet)).Return(0).Times(9)
	_, err := s.service.CreateRoom(s.ctx, &CreateRoomInput{HostID: "host", Options: models.RoomOptions{MaxPlayers: 2, Rounds: 3}})
	s.ErrorIs(err, ErrRoomCodeUnavailable)
}

func (s *RoomServiceTestSuite) TestJoinRoomStartsGameWhenFull() {
	s.createRoom("AAA", models.RoomOptions{MaxPlayers: 2, Rounds: 3, IsPublic: true})

	first := s.join("AAA", "conn-a", "A")
	s.False(first.Started)
	s.Nil(first.Snapshot)
	s.Require().Len(first.Players, 1)
	s.Equal("A", first.Players[0].Name)
	s.True(first.Players[0].Connected)
	s.Equal(s.testTime, first.Players[0].JoinedAt)

	second := s.joinAndStart("AAA", "conn-b", "B")
	s.True(second.Started)
	s.Len(second.Players, 2)
	s.Require().NotNil(second.Snapshot)
	s.Equal(s.testGameID, second.Snapshot.GameID)
	s.Equal(models.ModeRotating, second.Snapshot.Mode)
	s.Equal(1, second.Snapshot.Round)
	s.Equal(3, second.Snapshot.MaxRounds)
	s.Equal(0, second.Snapshot.CurrentPlayerIndex)

	err := s.service.WithRoom(s.ctx, "AAA", func(r *Room) error {
		s.False(r.Options.IsPublic)
		s.NotNil(r.Session)
		return nil
	})
	s.NoError(err)
}

func (s *RoomServiceTestSuite) TestJoinRoomErrors() {
	_, err := s.service.JoinRoom(s.ctx, &JoinRoomInput{RoomID: "ZZZ", ConnectionID: "conn-a", Name: "A"})
	s.ErrorIs(err, ErrRoomNotFound)

	s.createRoom("AAA", models.RoomOptions{MaxPlayers: 1, Rounds: 1})
	s.joinAndStart("AAA", "conn-a", "A")

	_, err = s.service.JoinRoom(s.ctx, &JoinRoomInput{RoomID: "AAA", ConnectionID: "conn-b", Name: "B"})
	s.ErrorIs(err, ErrRoomFull)

	s.createRoom("BBB", models.RoomOptions{MaxPlayers: 2, Rounds: 1})
	_, err = s.service.JoinRoom(s.ctx, &JoinRoomInput{RoomID: "BBB", ConnectionID: "conn-a", Name: "A"})
	s.ErrorIs(err, ErrAlreadyInRoom)
}

func (s *RoomServiceTestSuite) TestFindPublicRooms() {
	s.createRoom("AAA", models.RoomOptions{MaxPlayers: 3, Rounds: 2, IsPublic: true})
	s.createRoom("BBB", models.RoomOptions{MaxPlayers: 3, Rounds: 2})
	s.createRoom("CCC", models.RoomOptions{MaxPlayers: 3, Rounds: 2, IsPublic: true})
	s.createRoom("DDD", models.RoomOptions{MaxPlayers: 1, Rounds: 2, IsPublic: true})
	s.createRoom("EEE", models.RoomOptions{MaxPlayers: 4, Rounds: 5, IsPublic: true})

	s.join("AAA", "conn-a", "A")
	s.join("BBB", "conn-b", "B")
	s.joinAndStart("DDD", "conn-d", "D")
	s.join("EEE", "conn-e1", "E1")
	s.join("EEE", "conn-e2", "E2")

	out, err := s.service.FindPublicRooms(s.ctx, &FindPublicRoomsInput{})
	s.Require().NoError(err)
	s.Equal([]models.RoomSummary{
		{RoomID: "AAA", PlayerCount: 1, MaxPlayers: 3, MaxRounds: 2},
		{RoomID: "EEE", PlayerCount: 2, MaxPlayers: 4, MaxRounds: 5},
	}, out.Rooms)

	out, err = s.service.FindPublicRooms(s.ctx, &FindPublicRoomsInput{Limit: 1})
	s.Require().NoError(err)
	s.Len(out.Rooms, 1)
	s.Equal("AAA", out.Rooms[0].RoomID)
}

func (s *RoomServiceTestSuite) TestGetGameData() {
	_, err := s.service.GetGameData(s.ctx, &GetGameDataInput{RoomID: "AAA"})
	s.ErrorIs(err, ErrRoomNotFound)

	s.createRoom("AAA", models.RoomOptions{MaxPlayers: 2, Rounds: 3})
	s.join("AAA", "conn-a", "A")

	_, err = s.service.GetGameData(s.ctx, &GetGameDataInput{RoomID: "AAA"})
	s.ErrorIs(err, ErrGameNotStarted)

	s.joinAndStart("AAA", "conn-b", "B")

	out, err := s.service.GetGameData(s.ctx, &GetGameDataInput{RoomID: "AAA"})
	s.Require().NoError(err)
	s.Equal(s.testGameID, out.Snapshot.GameID)
	s.Len(out.Snapshot.Players, 2)
}

func (s *RoomServiceTestSuite) TestDisconnectBeforeGameStarts() {
	s.createRoom("AAA", models.RoomOptions{MaxPlayers: 3, Rounds: 3})
	s.join("AAA", "conn-a", "A")
	s.join("AAA", "conn-b", "B")

	s.mockBroadcaster.EXPECT().Broadcast("AAA", models.EventPlayerDisconnect, gomock.Any()).
		Do(func(_ string, _ string, payload any) {
			roster := payload.([]*models.Player)
			s.Require().Len(roster, 2)
			s.False(roster[0].Connected)
			s.True(roster[1].Connected)
		})

	out, err := s.service.HandleDisconnect(s.ctx, &HandleDisconnectInput{ConnectionID: "conn-a"})
	s.Require().NoError(err)
	s.Equal("AAA", out.RoomID)
	s.False(out.TurnMoved)
	s.False(out.RoomDeleted)

	out, err = s.service.HandleDisconnect(s.ctx, &HandleDisconnectInput{ConnectionID: "conn-b"})
	s.Require().NoError(err)
	s.True(out.RoomDeleted)

	err = s.service.WithRoom(s.ctx, "AAA", func(*Room) error { return nil })
	s.ErrorIs(err, ErrRoomNotFound)
}

func (s *RoomServiceTestSuite) TestDisconnectOfTurnHolderMovesTurn() {
	s.createRoom("AAA", models.RoomOptions{MaxPlayers: 2, Rounds: 3})
	s.join("AAA", "conn-a", "A")
	s.joinAndStart("AAA", "conn-b", "B")

	gomock.InOrder(
		s.mockBroadcaster.EXPECT().Broadcast("AAA", models.EventGameUpdate, gomock.Any()).
			Do(func(_ string, _ string, payload any) {
				snap := payload.(*models.GameSnapshot)
				s.Equal(1, snap.CurrentPlayerIndex)
				s.False(snap.Players[0].Connected)
			}),
		s.mockBroadcaster.EXPECT().Broadcast("AAA", models.EventPlayerDisconnect, gomock.Any()),
	)

	out, err := s.service.HandleDisconnect(s.ctx, &HandleDisconnectInput{ConnectionID: "conn-a"})
	s.Require().NoError(err)
	s.True(out.TurnMoved)

	// room roster and session share the same player record
	err = s.service.WithRoom(s.ctx, "AAA", func(r *Room) error {
		s.False(r.Players[0].Connected)
		s.False(r.Session.Snapshot().Players[0].Connected)
		return nil
	})
	s.NoError(err)
}

func (s *RoomServiceTestSuite) TestDeletingRoomCancelsPendingSpin() {
	s.createRoom("AAA", models.RoomOptions{MaxPlayers: 2, Rounds: 3})
	s.join("AAA", "conn-a", "A")
	s.joinAndStart("AAA", "conn-b", "B")

	task := schedulerMocks.NewMockTask(s.mockCtrl)
	err := s.service.WithRoom(s.ctx, "AAA", func(r *Room) error {
		r.SetPendingSpin(game.SpinTicket{GameID: s.testGameID, Seq: 1}, task)
		s.True(r.HasPendingSpin())
		return nil
	})
	s.Require().NoError(err)

	s.mockBroadcaster.EXPECT().Broadcast("AAA", models.EventPlayerDisconnect, gomock.Any())
	_, err = s.service.HandleDisconnect(s.ctx, &HandleDisconnectInput{ConnectionID: "conn-b"})
	s.Require().NoError(err)

	task.EXPECT().Cancel().Return(true)
	out, err := s.service.HandleDisconnect(s.ctx, &HandleDisconnectInput{ConnectionID: "conn-a"})
	s.Require().NoError(err)
	s.True(out.RoomDeleted)
}

func (s *RoomServiceTestSuite) TestHostLeavingEmptyRoomDeletesIt() {
	s.createRoom("AAA", models.RoomOptions{MaxPlayers: 2, Rounds: 3, IsPublic: true})

	out, err := s.service.HandleDisconnect(s.ctx, &HandleDisconnectInput{ConnectionID: "host-AAA"})
	s.Require().NoError(err)
	s.Empty(out.RoomID)

	err = s.service.WithRoom(s.ctx, "AAA", func(*Room) error { return nil })
	s.ErrorIs(err, ErrRoomNotFound)
}

func (s *RoomServiceTestSuite) TestDisconnectUnknownConnection() {
	out, err := s.service.HandleDisconnect(s.ctx, &HandleDisconnectInput{ConnectionID: "nobody"})
	s.Require().NoError(err)
	s.Equal(&HandleDisconnectOutput{}, out)
}

func (s *RoomServiceTestSuite) TestBroadcastsHappenWithDirectoryLocked() {
	locked := func(string, string, any) {
		if s.service.mu.TryLock() {
			s.service.mu.Unlock()
			s.Fail("broadcast outside the directory lock")
		}
	}

	s.createRoom("AAA", models.RoomOptions{MaxPlayers: 2, Rounds: 3})

	s.mockBroadcaster.EXPECT().Broadcast("AAA", models.EventPlayerJoined, gomock.Any()).Do(locked)
	_, err := s.service.JoinRoom(s.ctx, &JoinRoomInput{RoomID: "AAA", ConnectionID: "conn-a", Name: "A"})
	s.Require().NoError(err)

	s.mockUUID.EXPECT().NewUUID().Return(s.testGameID)
	s.mockRoller.EXPECT().Intn(s.catalogSize).Return(0)
	gomock.InOrder(
		s.mockBroadcaster.EXPECT().Broadcast("AAA", models.EventPlayerJoined, gomock.Any()).Do(locked),
		s.mockBroadcaster.EXPECT().Broadcast("AAA", models.EventStartGame, gomock.Any()).Do(locked),
	)
	_, err = s.service.JoinRoom(s.ctx, &JoinRoomInput{RoomID: "AAA", ConnectionID: "conn-b", Name: "B"})
	s.Require().NoError(err)

	gomock.InOrder(
		s.mockBroadcaster.EXPECT().Broadcast("AAA", models.EventGameUpdate, gomock.Any()).Do(locked),
		s.mockBroadcaster.EXPECT().Broadcast("AAA", models.EventPlayerDisconnect, gomock.Any()).Do(locked),
	)
	_, err = s.service.HandleDisconnect(s.ctx, &HandleDisconnectInput{ConnectionID: "conn-a"})
	s.Require().NoError(err)
}

func TestRoomServiceSuite(t *testing.T) {
	suite.Run(t, new(RoomServiceTestSuite))
}
