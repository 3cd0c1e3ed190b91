package messaging

import (
	"context"
	"errors"
	"fmt"

	"github.com/KirkDiggler/fortuna/internal/common/random"
	"github.com/KirkDiggler/fortuna/internal/game"
	"github.com/KirkDiggler/fortuna/internal/phrases"
	"github.com/KirkDiggler/fortuna/internal/services/room"
	"github.com/KirkDiggler/fortuna/internal/services/router"
)

// service implements the Service interface
type service struct {
	// Random number generator for selecting random messages
	roller random.Roller
}

// NewService creates a new messaging service
func NewService(config *ServiceConfig) (Service, error) {
	roller := random.New(nil)
	if config != nil && config.Roller != nil {
		roller = config.Roller
	}

	return &service{
		roller: roller,
	}, nil
}

// declines lists the known errors, most specific first
var declines = []struct {
	err      error
	code     DeclineCode
	messages []string
}{
	{room.ErrRoomNotFound, CodeRoomNotFound, []string{
		"That room does not exist. Double-check the code?",
		"No room with that code. Maybe it already closed.",
	}},
	{room.ErrRoomFull, CodeRoomFull, []string{
		"This room is full. Try another one!",
		"Every seat is taken here. Find another room or start your own.",
	}},
	{room.ErrGameNotStarted, CodeGameNotStarted, []string{
		"The game has not started yet. Waiting for more players.",
	}},
	{game.ErrGameNotStarted, CodeGameOver, []string{
		"This game is over. Nobody is left to take a turn.",
	}},
	{router.ErrUnknownAction, CodeUnknownAction, []string{
		"Unknown action.",
	}},
	{router.ErrInvalidPayload, CodeInvalidPayload, []string{
		"That request was missing something. Pick a single letter and try again.",
	}},
	{game.ErrInvalidLetter, CodeInvalidPayload, []string{
		"That is not a letter.",
	}},
	{game.ErrInvalidLetterCount, CodeInvalidPayload, []string{
		"Letter count cannot be negative.",
	}},
	{room.ErrInvalidRoomOptions, CodeInvalidRoomOptions, []string{
		"Those room settings will not work. Check the player count and rounds.",
	}},
	{room.ErrAlreadyInRoom, CodeAlreadyInRoom, []string{
		"You are already sitting in a room.",
		"One room at a time! You already joined one.",
	}},
	{room.ErrPlayerNotInRoom, CodePlayerNotInRoom, []string{
		"You are not a player in this room.",
	}},
	{room.ErrRoomCodeUnavailable, CodeRoomCodeUnavailable, []string{
		"Could not find a free room code. Please try again.",
	}},
	{game.ErrSpinPending, CodeSpinPending, []string{
		"The wheel is still spinning!",
		"Patience, the wheel has not stopped yet.",
	}},
	{game.ErrActionNotAllowed, CodeActionNotAllowed, []string{
		"You cannot do that right now.",
		"Not now! Wait for the right moment in your turn.",
	}},
	{phrases.ErrPhrasePoolExhausted, CodePhrasePoolExhausted, []string{
		"We ran out of phrases. Please tell the host.",
	}},
	{ErrRateLimited, CodeRateLimited, []string{
		"Slow down! You are sending moves too fast.",
		"Easy there. Give the wheel a moment.",
	}},
}

// GetDeclineMessage explains to a player why their request was declined
func (s *service) GetDeclineMessage(ctx context.Context, input *GetDeclineMessageInput) (*GetDeclineMessageOutput, error) {
	if input == nil || input.Err == nil {
		return nil, errors.New("input and error cannot be nil")
	}

	for _, d := range declines {
		if errors.Is(input.Err, d.err) {
			return &GetDeclineMessageOutput{
				Code:    d.code,
				Message: s.pick(d.messages),
			}, nil
		}
	}

	return &GetDeclineMessageOutput{
		Code:    CodeInternal,
		Message: "Something went wrong processing that request.",
	}, nil
}

// GetJoinRoomMessage greets a player who joined a room
func (s *service) GetJoinRoomMessage(ctx context.Context, input *GetJoinRoomMessageInput) (*GetJoinRoomMessageOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	var messages []string
	if input.Started {
		messages = []string{
			fmt.Sprintf("%s fills the last seat. Let's spin!", input.PlayerName),
			fmt.Sprintf("Room %s is complete, %s. The wheel is yours to spin soon.", input.RoomID, input.PlayerName),
		}
	} else {
		messages = []string{
			fmt.Sprintf("Welcome to room %s, %s! Waiting for the others.", input.RoomID, input.PlayerName),
			fmt.Sprintf("%s joined. Share code %s to fill the room faster.", input.PlayerName, input.RoomID),
		}
	}

	return &GetJoinRoomMessageOutput{Message: s.pick(messages)}, nil
}

func (s *service) pick(messages []string) string {
	if len(messages) == 1 {
		return messages[0]
	}
	return messages[s.roller.Intn(len(messages))]
}
