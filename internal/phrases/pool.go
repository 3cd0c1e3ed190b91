package phrases

import (
	"github.com/KirkDiggler/fortuna/internal/common/random"
	"github.com/KirkDiggler/fortuna/internal/models"
)

// Pool samples phrases from a catalog without replacement. A pool belongs to
// one game session and is not safe for concurrent use.
type Pool struct {
	catalog *Catalog
	roller  random.Roller

	// remaining holds catalog indices in catalog order
	remaining []int
	used      map[int]bool
	current   int
}

// NewPool creates a pool with every catalog phrase remaining
func NewPool(catalog *Catalog, roller random.Roller) (*Pool, error) {
	if catalog == nil {
		return nil, ErrNilCatalog
	}
	if roller == nil {
		return nil, ErrNilRoller
	}

	p := &Pool{
		catalog: catalog,
		roller:  roller,
		used:    make(map[int]bool),
		current: -1,
	}
	p.remaining = p.all()

	return p, nil
}

// Draw picks a random remaining phrase, refilling from the catalog (minus
// the phrase in play) once everything has been used
func (p *Pool) Draw() (models.Phrase, error) {
	if p.catalog.Len() == 0 {
		return models.Phrase{}, ErrPhrasePoolExhausted
	}

	if len(p.remaining) == 0 {
		p.refill()
	}

	pick := p.roller.Intn(len(p.remaining))
	idx := p.remaining[pick]

	p.remaining = append(p.remaining[:pick], p.remaining[pick+1:]...)
	p.used[idx] = true
	p.current = idx

	return p.catalog.At(idx), nil
}

// Retire drops a finished phrase from the bookkeeping so it only comes back
// after the pool is refilled
func (p *Pool) Retire(phrase models.Phrase) {
	idx := p.catalog.indexOf(phrase.Text)
	if idx < 0 {
		return
	}

	delete(p.used, idx)
	for i, r := range p.remaining {
		if r == idx {
			p.remaining = append(p.remaining[:i], p.remaining[i+1:]...)
			break
		}
	}
}

// Remaining returns how many phrases can be drawn before the next refill
func (p *Pool) Remaining() int {
	return len(p.remaining)
}

// Used returns how many drawn phrases are still tracked
func (p *Pool) Used() int {
	return len(p.used)
}

func (p *Pool) refill() {
	clear(p.used)

	p.remaining = p.remaining[:0]
	for i := 0; i < p.catalog.Len(); i++ {
		if i != p.current {
			p.remaining = append(p.remaining, i)
		}
	}

	if len(p.remaining) == 0 {
		p.remaining = p.all()
	}
}

func (p *Pool) all() []int {
	out := make([]int, p.catalog.Len())
	for i := range out {
		out[i] = i
	}
	return out
}
