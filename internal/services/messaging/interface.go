package messaging

import "context"

// Service is the interface for the messaging service
type Service interface {
	// GetDeclineMessage explains to a player why their request was declined
	GetDeclineMessage(ctx context.Context, input *GetDeclineMessageInput) (*GetDeclineMessageOutput, error)

	// GetJoinRoomMessage greets a player who joined a room
	GetJoinRoomMessage(ctx context.Context, input *GetJoinRoomMessageInput) (*GetJoinRoomMessageOutput, error)
}
