// Package scenario loads battle setups written in a small Lua DSL and turns
// them into battle state ready for resolution.
//
// A scenario script builds a Battle and returns it:
//
//	local b = Battle.new("Ridge ambush")
//	b:seed(42)
//	b:player{id = 1, name = "Alpha", team = 1}
//	b:formation{id = 10, player = 1, name = "Lance", tactics = 4, skill = 4, morale = 4,
//	    units = {{name = "Atlas", skill = 4, armor = 10,
//	              damage = {short = 4, medium = 4, long = 2}, elements = {{id = 100}}}}}
//	b:range(10, 20, "short")
//	b:victory("Round >= 10")
//	return b
package scenario

import (
	"fmt"
	"strconv"
	"strings"

	apperrors "github.com/megamek/acar/internal/platform/errors"
	"github.com/megamek/acar/internal/services/combat/domain/battle"
	"github.com/megamek/acar/internal/services/combat/domain/victory"
)

// Scenario is the parsed, not yet validated, battle setup.
type Scenario struct {
	Name       string
	Seed       int64
	HasSeed    bool
	MaxRounds  int
	Players    []battle.Player
	Formations []FormationSpec
	Ranges     map[Pair]battle.Range
	Victory    string
	// DefaultRange applies to pairs without an explicit range.
	DefaultRange battle.Range
}

// FormationSpec is a formation with the elements its units aggregate.
type FormationSpec struct {
	Formation battle.Formation
	Units     []UnitSpec
}

// UnitSpec is a unit and its elements.
type UnitSpec struct {
	Unit     battle.Unit
	Elements []battle.Element
}

// Pair is an unordered pair of formation ids.
type Pair struct {
	A, B int
}

// NewPair normalizes a and b so lookups are symmetric.
func NewPair(a, b int) Pair {
	if a > b {
		a, b = b, a
	}
	return Pair{A: a, B: b}
}

func newScenario(name string) *Scenario {
	return &Scenario{
		Name:         name,
		Ranges:       map[Pair]battle.Range{},
		DefaultRange: battle.RangeMedium,
	}
}

// Range returns the scripted range between two formations.
func (s *Scenario) Range(attacker, target int) battle.Range {
	if r, ok := s.Ranges[NewPair(attacker, target)]; ok {
		return r
	}
	return s.DefaultRange
}

// Build assembles a fresh battle state. Each call returns independent state,
// so one scenario can seed many runs.
func (s *Scenario) Build() (*battle.State, error) {
	if len(s.Players) == 0 {
		return nil, invalid("scenario %q has no players", s.Name)
	}
	if len(s.Formations) == 0 {
		return nil, invalid("scenario %q has no formations", s.Name)
	}
	state := battle.NewState()
	for _, p := range s.Players {
		if err := state.AddPlayer(p); err != nil {
			return nil, apperrors.Wrap(apperrors.CodeScenarioInvalid, "add player", err)
		}
	}
	for _, spec := range s.Formations {
		f := spec.Formation
		if len(spec.Units) == 0 {
			return nil, invalid("formation %d has no units", f.ID)
		}
		f.Units = make([]*battle.Unit, 0, len(spec.Units))
		for _, us := range spec.Units {
			unit := us.Unit
			if unit.Armor <= 0 {
				return nil, invalid("formation %d unit %q needs positive armor", f.ID, unit.Name)
			}
			if unit.CurrentArmor <= 0 || unit.CurrentArmor > unit.Armor {
				unit.CurrentArmor = unit.Armor
			}
			unit.ElementIDs = make([]int, 0, len(us.Elements))
			for _, e := range us.Elements {
				if err := state.AddElement(e); err != nil {
					return nil, apperrors.WrapWithMetadata(apperrors.CodeScenarioInvalid, "add element",
						map[string]string{"formation": strconv.Itoa(f.ID), "element": strconv.Itoa(e.ID)}, err)
				}
				unit.ElementIDs = append(unit.ElementIDs, e.ID)
			}
			f.Units = append(f.Units, &unit)
		}
		if f.Size <= 0 {
			f.Size = len(f.Units)
		}
		if err := state.AddFormation(&f); err != nil {
			return nil, apperrors.WrapWithMetadata(apperrors.CodeScenarioInvalid, "add formation",
				map[string]string{"formation": strconv.Itoa(f.ID)}, err)
		}
	}
	if len(state.ActiveTeams()) < 2 {
		return nil, invalid("scenario %q needs at least two teams", s.Name)
	}
	return state, nil
}

// Evaluator returns the victory evaluator for the scenario.
func (s *Scenario) Evaluator() (victory.Evaluator, error) {
	if strings.TrimSpace(s.Victory) == "" {
		return victory.LastTeamStanding{}, nil
	}
	x, err := victory.Compile(s.Victory)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeVictoryInvalid, "compile victory expression", err)
	}
	return x, nil
}

func invalid(format string, args ...any) error {
	return apperrors.New(apperrors.CodeScenarioInvalid, fmt.Sprintf(format, args...))
}
