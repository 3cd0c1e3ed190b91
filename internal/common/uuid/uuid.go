package uuid

import "github.com/google/uuid"

//go:generate mockgen -package=mocks -destination=mocks/mock_uuid.go github.com/KirkDiggler/fortuna/internal/common/uuid UUID

// UUID hands out identifiers for games, connections and ledger records
type UUID interface {
	NewUUID() string
}

type generator struct{}

// New returns a generator backed by random (v4) UUIDs
func New() UUID {
	return generator{}
}

// NewUUID returns a new random UUID string
func (generator) NewUUID() string {
	return uuid.NewString()
}
