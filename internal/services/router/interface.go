package router

import "context"

// Service routes player actions into the game of their room
type Service interface {
	// Dispatch applies an action and broadcasts the new game state
	Dispatch(ctx context.Context, input *DispatchInput) (*DispatchOutput, error)
}
