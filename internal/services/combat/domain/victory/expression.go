package victory

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/megamek/acar/internal/services/combat/domain/battle"
)

// Env is the environment victory expressions are evaluated against.
type Env struct {
	Round int
	state *battle.State
}

// ActiveTeams returns how many teams still have active formations.
func (e Env) ActiveTeams() int {
	return len(e.state.ActiveTeams())
}

// Formations returns the number of active formations on team.
func (e Env) Formations(team int) int {
	n := 0
	for _, f := range e.state.Formations() {
		if e.state.Team(f) == team {
			n++
		}
	}
	return n
}

// Armor returns the remaining armor of team's active formations.
func (e Env) Armor(team int) int {
	total := 0
	for _, f := range e.state.Formations() {
		if e.state.Team(f) == team {
			total += f.Armor()
		}
	}
	return total
}

// ArmorRatio returns team's remaining armor as a fraction of its starting
// armor, counting formations that have left the field as zero.
func (e Env) ArmorRatio(team int) float64 {
	current, starting := 0, 0
	for _, f := range e.state.AllFormations() {
		if e.state.Team(f) != team {
			continue
		}
		starting += f.MaxArmor()
		if o, _ := e.state.Outcome(f.ID); o == battle.OutcomeActive {
			current += f.Armor()
		}
	}
	if starting == 0 {
		return 0
	}
	return float64(current) / float64(starting)
}

// Routed returns how many of team's active formations are routed.
func (e Env) Routed(team int) int {
	n := 0
	for _, f := range e.state.Formations() {
		if e.state.Team(f) == team && f.MoraleStatus == battle.MoraleRouted {
			n++
		}
	}
	return n
}

// Kills returns the number of kills credited to team's elements.
func (e Env) Kills(team int) int {
	n := 0
	for _, k := range e.state.Kills() {
		killer, ok := e.state.Element(k.KillerID)
		if !ok {
			continue
		}
		for _, f := range e.state.AllFormations() {
			if f.ID == killer.FormationID && e.state.Team(f) == team {
				n++
			}
		}
	}
	return n
}

// Expression ends the battle when a boolean expression holds. The team with
// the most remaining armor wins; without a unique leader the result is a
// draw. The last-team-standing rule always applies as well.
type Expression struct {
	source  string
	program *vm.Program
}

// Compile parses and type-checks a victory expression.
func Compile(source string) (*Expression, error) {
	trimmed := strings.TrimSpace(source)
	if trimmed == "" {
		return nil, fmt.Errorf("victory expression is required")
	}
	program, err := expr.Compile(trimmed, expr.Env(Env{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile victory expression %q: %w", trimmed, err)
	}
	return &Expression{source: trimmed, program: program}, nil
}

// Source returns the expression text.
func (x *Expression) Source() string {
	return x.source
}

// Evaluate runs the expression against state.
func (x *Expression) Evaluate(state *battle.State) (Result, error) {
	if result, err := (LastTeamStanding{}).Evaluate(state); err != nil || result.Victory {
		return result, err
	}
	out, err := vm.Run(x.program, Env{Round: state.Round(), state: state})
	if err != nil {
		return Result{}, fmt.Errorf("evaluate victory expression %q: %w", x.source, err)
	}
	if match, ok := out.(bool); !ok || !match {
		return Result{}, nil
	}
	if team, ok := Leader(state); ok {
		return Win(team), nil
	}
	return Draw(state), nil
}
