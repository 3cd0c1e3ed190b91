package random

import (
	"math/rand"
	"sync"
	"time"
)

//go:generate mockgen -package=mocks -destination=mocks/mock_roller.go github.com/KirkDiggler/fortuna/internal/common/random Roller

// Roller is the single source of randomness for wheel spins, phrase draws
// and room codes
type Roller interface {
	// Intn returns a uniform value in [0, n). n must be positive.
	Intn(n int) int

	// Float64 returns a uniform value in [0.0, 1.0)
	Float64() float64
}

// Config for the roller
type Config struct {
	// Optional seed for reproducible sequences
	Seed int64
}

// roller guards a math/rand source; rand.Rand is not safe for concurrent use
type roller struct {
	mu     sync.Mutex
	random *rand.Rand
}

// New creates a roller seeded from cfg or, when no seed is given, the clock
func New(cfg *Config) Roller {
	seed := time.Now().UnixNano()
	if cfg != nil && cfg.Seed != 0 {
		seed = cfg.Seed
	}

	return &roller{
		random: rand.New(rand.NewSource(seed)),
	}
}

func (r *roller) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.random.Intn(n)
}

func (r *roller) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.random.Float64()
}
