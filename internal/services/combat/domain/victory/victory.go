// Package victory decides when a battle is over and who won.
package victory

import (
	"sort"

	"github.com/megamek/acar/internal/services/combat/domain/battle"
	"github.com/megamek/acar/internal/services/combat/domain/report"
)

// Result is the outcome of a victory check.
type Result struct {
	// Victory is true once the battle is over, whether won or drawn.
	Victory     bool
	Draw        bool
	WinningTeam int
	Reports     []report.Entry
}

// Evaluator checks the state for a victory.
type Evaluator interface {
	Evaluate(state *battle.State) (Result, error)
}

// LastTeamStanding ends the battle when at most one team has active
// formations left.
type LastTeamStanding struct{}

// Evaluate returns a victory for the surviving team, a draw when nobody
// survives, and no victory otherwise.
func (LastTeamStanding) Evaluate(state *battle.State) (Result, error) {
	teams := state.ActiveTeams()
	switch len(teams) {
	case 0:
		return Draw(state), nil
	case 1:
		return Win(teams[0]), nil
	default:
		return Result{}, nil
	}
}

// Win returns a victory for team.
func Win(team int) Result {
	return Result{
		Victory:     true,
		WinningTeam: team,
		Reports:     []report.Entry{report.New(report.MsgVictory, team)},
	}
}

// Draw returns a drawn result.
func Draw(state *battle.State) Result {
	return Result{
		Victory: true,
		Draw:    true,
		Reports: []report.Entry{report.New(report.MsgDraw, state.Round())},
	}
}

// Leader returns the team with the most remaining armor among active
// formations, or false when there is no unique leader.
func Leader(state *battle.State) (int, bool) {
	armor := make(map[int]int)
	for _, f := range state.Formations() {
		armor[state.Team(f)] += f.Armor()
	}
	teams := make([]int, 0, len(armor))
	for team := range armor {
		teams = append(teams, team)
	}
	if len(teams) == 0 {
		return 0, false
	}
	sort.Slice(teams, func(i, j int) bool { return armor[teams[i]] > armor[teams[j]] })
	if len(teams) > 1 && armor[teams[0]] == armor[teams[1]] {
		return 0, false
	}
	return teams[0], true
}
