package tone

import (
	"fmt"
	"math/rand/v2"
)

// Rand is the source of randomness consumed by the rules.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	// Float64 returns a number in [0.0, 1.0).
	Float64() float64
	// IntN returns a number in [0, n). It panics if n <= 0.
	IntN(n int) int
}

// globalRand draws from the process-wide math/rand/v2 source, which is
// safe for concurrent use.
type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }
func (globalRand) IntN(n int) int   { return rand.IntN(n) }

// Engine applies tone rules to text.
type Engine struct {
	rand Rand
}

// New returns an Engine backed by the process-wide random source.
func New() *Engine {
	return &Engine{rand: globalRand{}}
}

// NewWithRand returns an Engine drawing from r. A nil r falls back to the
// process-wide source.
func NewWithRand(r Rand) *Engine {
	if r == nil {
		r = globalRand{}
	}
	return &Engine{rand: r}
}

// NewSeeded returns an Engine whose output is fully determined by seed.
// The returned Engine must not be shared between goroutines.
func NewSeeded(seed uint64) *Engine {
	return NewWithRand(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

// Apply rewrites text in tone t.
func (e *Engine) Apply(t Tone, text string) (string, error) {
	if !t.Valid() {
		return "", fmt.Errorf("%w: %d", ErrInvalidTone, int(t))
	}
	return registry[t].rule(e.rand, text), nil
}

// ApplyName resolves name with Parse and rewrites text in that tone.
func (e *Engine) ApplyName(name, text string) (string, error) {
	t, err := Parse(name)
	if err != nil {
		return "", err
	}
	return e.Apply(t, text)
}
