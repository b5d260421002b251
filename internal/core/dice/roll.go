package dice

import (
	"errors"
	"math/rand"
)

var (
	// ErrMissingDice indicates a roll request had no dice specified.
	ErrMissingDice = errors.New("at least one die must be provided")
	// ErrInvalidDiceSpec indicates a die specification has invalid fields.
	ErrInvalidDiceSpec = errors.New("dice must have positive sides and count")
)

// Spec describes a die to roll and how many times to roll it.
type Spec struct {
	Sides int
	Count int
}

// Request describes a seeded roll of one or more dice specs.
type Request struct {
	Dice []Spec
	Seed int64
}

// Result holds the outcome of rolling every spec in a request.
type Result struct {
	Rolls []Roll
	Total int
}

// Roll holds the faces rolled for one spec.
type Roll struct {
	Sides   int
	Results []int
	Total   int
}

// RollDice rolls dice based on the provided request.
//
// # Determinism
//
// RollDice is deterministic with respect to the Seed field on Request.
// Given the same Seed and the same Dice slice (including order and values),
// RollDice will always produce the same Result.
//
// # Errors
//
//   - At least one Spec must be provided in Request.Dice, otherwise
//     ErrMissingDice is returned.
//   - Each Spec must have Sides > 0 and Count > 0, otherwise
//     ErrInvalidDiceSpec is returned.
func RollDice(request Request) (Result, error) {
	return RollWithRng(rand.New(rand.NewSource(request.Seed)), request.Dice)
}

// RollWithRng rolls dice using a provided random source.
// Rolls appear in the same order as specs.
func RollWithRng(rng *rand.Rand, specs []Spec) (Result, error) {
	if len(specs) == 0 {
		return Result{}, ErrMissingDice
	}

	rolls := make([]Roll, 0, len(specs))
	total := 0
	for _, spec := range specs {
		if spec.Sides <= 0 || spec.Count <= 0 {
			return Result{}, ErrInvalidDiceSpec
		}

		results := make([]int, spec.Count)
		rollTotal := 0
		for i := range results {
			results[i] = rng.Intn(spec.Sides) + 1
			rollTotal += results[i]
		}
		rolls = append(rolls, Roll{Sides: spec.Sides, Results: results, Total: rollTotal})
		total += rollTotal
	}

	return Result{Rolls: rolls, Total: total}, nil
}
