package wheel

import (
	"errors"
	"math"

	"github.com/KirkDiggler/fortuna/internal/common/random"
	"github.com/KirkDiggler/fortuna/internal/models"
)

const (
	// MinIncrement is the shortest spin in degrees
	MinIncrement = 180.0

	// MaxIncrement is the longest spin in degrees
	MaxIncrement = 720.0
)

// ErrEmptyTable is returned when a wheel has no sectors
var ErrEmptyTable = errors.New("wheel table cannot be empty")

// DefaultTable is the sector layout clients draw, clockwise from 0 degrees
var DefaultTable = []models.Reward{
	models.Points(100),
	models.Points(250),
	models.Points(400),
	models.Stop,
	models.Points(150),
	models.Points(500),
	models.Points(300),
	models.Bankrupt,
	models.Points(200),
	models.Points(350),
	models.Points(1000),
	models.Points(450),
}

// Wheel maps an accumulated rotation to a reward sector
type Wheel struct {
	table []models.Reward
}

// New creates a wheel over the given ordered sectors
func New(table []models.Reward) (*Wheel, error) {
	if len(table) == 0 {
		return nil, ErrEmptyTable
	}

	sectors := make([]models.Reward, len(table))
	copy(sectors, table)

	return &Wheel{table: sectors}, nil
}

// Sectors returns the number of equal slices on the wheel
func (w *Wheel) Sectors() int {
	return len(w.table)
}

// Value returns the reward under the pointer after rotating by angle degrees
func (w *Wheel) Value(angle float64) models.Reward {
	n := len(w.table)

	norm := math.Mod(angle, 360)
	if norm < 0 {
		norm += 360
	}

	sector := int(math.Floor(norm/(360/float64(n)))) % n
	return w.table[sector]
}

// Increment draws a spin length uniformly from [MinIncrement, MaxIncrement).
// MaxIncrement itself is never returned since Float64 is below 1.
func Increment(roller random.Roller) float64 {
	return MinIncrement + roller.Float64()*(MaxIncrement-MinIncrement)
}
