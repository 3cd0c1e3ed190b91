package messaging

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	randomMocks "github.com/KirkDiggler/fortuna/internal/common/random/mocks"
	"github.com/KirkDiggler/fortuna/internal/game"
	"github.com/KirkDiggler/fortuna/internal/services/room"
	"github.com/KirkDiggler/fortuna/internal/services/router"
)

type MessagingServiceTestSuite struct {
	suite.Suite
	mockCtrl   *gomock.Controller
	mockRoller *randomMocks.MockRoller
	service    Service
	ctx        context.Context
}

func (s *MessagingServiceTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockRoller = randomMocks.NewMockRoller(s.mockCtrl)
	s.ctx = context.Background()

	svc, err := NewService(&ServiceConfig{Roller: s.mockRoller})
	s.Require().NoError(err)
	s.service = svc
}

func (s *MessagingServiceTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func (s *MessagingServiceTestSuite) TestDeclineCodes() {
	s.mockRoller.EXPECT().Intn(gomock.Any()).Return(0).AnyTimes()

	tests := []struct {
		err  error
		want DeclineCode
	}{
		{room.ErrRoomNotFound, CodeRoomNotFound},
		{room.ErrRoomFull, CodeRoomFull},
		{room.ErrGameNotStarted, CodeGameNotStarted},
		{fmt.Errorf("%w: game is over", game.ErrGameNotStarted), CodeGameOver},
		{fmt.Errorf("%w: bankruptEveryone", router.ErrUnknownAction), CodeUnknownAction},
		{router.ErrInvalidPayload, CodeInvalidPayload},
		{game.ErrSpinPending, CodeSpinPending},
		{fmt.Errorf("%w: spin before guessing a letter", game.ErrActionNotAllowed), CodeActionNotAllowed},
		{ErrRateLimited, CodeRateLimited},
		{errors.New("boom"), CodeInternal},
	}

	for _, tt := range tests {
		out, err := s.service.GetDeclineMessage(s.ctx, &GetDeclineMessageInput{Err: tt.err})
		s.Require().NoError(err)
		s.Equal(tt.want, out.Code, tt.err.Error())
		s.NotEmpty(out.Message)
	}
}

func (s *MessagingServiceTestSuite) TestDeclineMessagePicksVariant() {
	s.mockRoller.EXPECT().Intn(2).Return(1)

	out, err := s.service.GetDeclineMessage(s.ctx, &GetDeclineMessageInput{Err: game.ErrSpinPending})
	s.Require().NoError(err)
	s.Equal("Patience, the wheel has not stopped yet.", out.Message)
}

func (s *MessagingServiceTestSuite) TestDeclineMessageNeedsError() {
	_, err := s.service.GetDeclineMessage(s.ctx, &GetDeclineMessageInput{})
	s.Error(err)
}

func (s *MessagingServiceTestSuite) TestJoinRoomMessage() {
	s.mockRoller.EXPECT().Intn(2).Return(0).Times(2)

	out, err := s.service.GetJoinRoomMessage(s.ctx, &GetJoinRoomMessageInput{PlayerName: "Ala", RoomID: "AB12CD"})
	s.Require().NoError(err)
	s.Equal("Welcome to room AB12CD, Ala! Waiting for the others.", out.Message)

	out, err = s.service.GetJoinRoomMessage(s.ctx, &GetJoinRoomMessageInput{PlayerName: "Ola", RoomID: "AB12CD", Started: true})
	s.Require().NoError(err)
	s.Equal("Ola fills the last seat. Let's spin!", out.Message)
}

func TestMessagingServiceSuite(t *testing.T) {
	suite.Run(t, new(MessagingServiceTestSuite))
}
