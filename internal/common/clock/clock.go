package clock

import "time"

//go:generate mockgen -package=mocks -destination=mocks/mock_clock.go github.com/KirkDiggler/fortuna/internal/common/clock Clock

// Clock supplies timestamps for room creation, joins and round records
type Clock interface {
	Now() time.Time
}

// systemClock reads the wall clock in UTC
type systemClock struct{}

// New returns the system clock
func New() Clock {
	return systemClock{}
}

// Now returns the current time in UTC
func (systemClock) Now() time.Time {
	return time.Now().UTC()
}
