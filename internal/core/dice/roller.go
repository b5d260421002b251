package dice

import (
	"fmt"
	"math/rand"
)

// Roller is the randomness port used by combat resolution.
//
// Implementations are not required to be safe for concurrent use; a battle
// owns its roller for the whole resolution.
type Roller interface {
	// Roll2D6 rolls two six-sided dice.
	Roll2D6() Roll
	// RollD6 rolls one six-sided die.
	RollD6() int
	// Pick returns a uniformly chosen index in [0, n).
	Pick(n int) int
}

var twoD6 = []Spec{{Sides: 6, Count: 2}}

// Seeded rolls dice from a seeded math/rand source.
type Seeded struct {
	rng *rand.Rand
}

// NewSeeded returns a roller whose sequence is fully determined by seed.
func NewSeeded(seed int64) *Seeded {
	return &Seeded{rng: rand.New(rand.NewSource(seed))}
}

// Roll2D6 rolls two six-sided dice.
func (s *Seeded) Roll2D6() Roll {
	result, err := RollWithRng(s.rng, twoD6)
	if err != nil {
		// twoD6 is a constant, valid request.
		panic(err)
	}
	return result.Rolls[0]
}

// RollD6 rolls one six-sided die.
func (s *Seeded) RollD6() int {
	return s.rng.Intn(6) + 1
}

// Pick returns a uniformly chosen index in [0, n).
func (s *Seeded) Pick(n int) int {
	if n <= 0 {
		panic(fmt.Sprintf("dice: pick from %d options", n))
	}
	return s.rng.Intn(n)
}

// Scripted replays a fixed sequence of values. Each Roll2D6 or RollD6 call
// consumes one value as the total; each Pick call consumes one value as the
// index. Running out of values panics.
type Scripted struct {
	values []int
	next   int
}

// NewScripted returns a roller that replays values in order.
func NewScripted(values ...int) *Scripted {
	return &Scripted{values: append([]int(nil), values...)}
}

// Remaining reports how many scripted values have not been consumed.
func (s *Scripted) Remaining() int {
	return len(s.values) - s.next
}

// Roll2D6 returns the next scripted total split across two dice.
func (s *Scripted) Roll2D6() Roll {
	total := s.take("2d6")
	if total < 2 || total > 12 {
		panic(fmt.Sprintf("dice: scripted 2d6 total %d out of range", total))
	}
	first := total / 2
	return Roll{Sides: 6, Results: []int{first, total - first}, Total: total}
}

// RollD6 returns the next scripted value.
func (s *Scripted) RollD6() int {
	value := s.take("d6")
	if value < 1 || value > 6 {
		panic(fmt.Sprintf("dice: scripted d6 value %d out of range", value))
	}
	return value
}

// Pick returns the next scripted index.
func (s *Scripted) Pick(n int) int {
	value := s.take("pick")
	if value < 0 || value >= n {
		panic(fmt.Sprintf("dice: scripted pick %d outside [0, %d)", value, n))
	}
	return value
}

func (s *Scripted) take(kind string) int {
	if s.next >= len(s.values) {
		panic(fmt.Sprintf("dice: scripted roller exhausted on %s", kind))
	}
	value := s.values[s.next]
	s.next++
	return value
}
