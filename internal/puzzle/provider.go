// Package puzzle supplies the challenge content the wake-up gates are
// built from. The alarm core treats it as a black box: it only ever
// asks for the next puzzle and whether a given answer matches an
// expected one.
package puzzle

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
)

// Puzzle is one question/answer pair.
type Puzzle struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Provider hands out puzzles and judges answers.
type Provider interface {
	// Next returns a fresh puzzle. Providers are stateless suppliers;
	// consecutive calls may repeat content.
	Next() Puzzle
	// Match reports whether a user-supplied answer counts as the
	// expected one. Matching is tolerant of case and surrounding
	// whitespace. An empty expected answer never matches: it is the
	// marker of a session phase with no outstanding puzzle.
	Match(given, expected string) bool
}

// Arithmetic generates small mental-math puzzles. Safe for concurrent
// use; the random source is guarded because deadline callbacks and the
// scheduler sweep run on different goroutines.
type Arithmetic struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewArithmetic returns a Provider backed by the given random source.
func NewArithmetic(rng *rand.Rand) *Arithmetic {
	return &Arithmetic{rng: rng}
}

func (a *Arithmetic) Next() Puzzle {
	a.mu.Lock()
	defer a.mu.Unlock()
	x := a.rng.Intn(40) + 10
	y := a.rng.Intn(40) + 10
	switch a.rng.Intn(3) {
	case 0:
		return Puzzle{Question: fmt.Sprintf("%d + %d = ?", x, y), Answer: fmt.Sprintf("%d", x+y)}
	case 1:
		if x < y {
			x, y = y, x
		}
		return Puzzle{Question: fmt.Sprintf("%d - %d = ?", x, y), Answer: fmt.Sprintf("%d", x-y)}
	default:
		x, y = x%10+2, y%10+2
		return Puzzle{Question: fmt.Sprintf("%d * %d = ?", x, y), Answer: fmt.Sprintf("%d", x*y)}
	}
}

func (a *Arithmetic) Match(given, expected string) bool {
	if expected == "" {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(given), strings.TrimSpace(expected))
}
