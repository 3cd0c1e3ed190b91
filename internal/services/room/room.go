package room

import (
	"time"

	"github.com/KirkDiggler/fortuna/internal/common/scheduler"
	"github.com/KirkDiggler/fortuna/internal/game"
	"github.com/KirkDiggler/fortuna/internal/models"
)

// Room is one lobby and, once full, its game. Rooms are only touched under
// the directory lock, usually through Service.WithRoom.
type Room struct {
	ID        string
	HostID    string
	Options   models.RoomOptions
	Players   []*models.Player
	Session   *game.Session
	CreatedAt time.Time

	spin *pendingSpin
}

type pendingSpin struct {
	ticket game.SpinTicket
	task   scheduler.Task
}

// Player returns the roster entry for a connection
func (r *Room) Player(connectionID string) *models.Player {
	for _, p := range r.Players {
		if p.ID == connectionID {
			return p
		}
	}
	return nil
}

// Roster returns copies of the players safe to use after the lock is released
func (r *Room) Roster() []*models.Player {
	out := make([]*models.Player, len(r.Players))
	for i, p := range r.Players {
		cp := *p
		out[i] = &cp
	}
	return out
}

// IsFull reports whether every seat is taken
func (r *Room) IsFull() bool {
	return len(r.Players) >= r.Options.MaxPlayers
}

// AllDisconnected reports whether nobody in the roster is still connected
func (r *Room) AllDisconnected() bool {
	for _, p := range r.Players {
		if p.Connected {
			return false
		}
	}
	return true
}

// Summary is the matchmaking view of the room
func (r *Room) Summary() models.RoomSummary {
	return models.RoomSummary{
		RoomID:      r.ID,
		PlayerCount: len(r.Players),
		MaxPlayers:  r.Options.MaxPlayers,
		MaxRounds:   r.Options.Rounds,
	}
}

// SetPendingSpin records the timer that will resolve ticket, cancelling any
// timer it replaces
func (r *Room) SetPendingSpin(ticket game.SpinTicket, task scheduler.Task) {
	r.CancelPendingSpin()
	r.spin = &pendingSpin{ticket: ticket, task: task}
}

// TakePendingSpin clears the pending spin if it is the one for ticket
func (r *Room) TakePendingSpin(ticket game.SpinTicket) bool {
	if r.spin == nil || r.spin.ticket != ticket {
		return false
	}
	r.spin = nil
	return true
}

// HasPendingSpin reports whether a spin timer is outstanding
func (r *Room) HasPendingSpin() bool {
	return r.spin != nil
}

// CancelPendingSpin stops the outstanding spin timer, if any
func (r *Room) CancelPendingSpin() {
	if r.spin == nil {
		return
	}
	if r.spin.task != nil {
		r.spin.task.Cancel()
	}
	r.spin = nil
}
