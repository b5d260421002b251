// Package initiative rolls per-round initiative and derives the turn order
// for each phase.
package initiative

import (
	"sort"
	"strings"

	"github.com/megamek/acar/internal/core/dice"
	"github.com/megamek/acar/internal/services/combat/domain/battle"
	"github.com/megamek/acar/internal/services/combat/domain/report"
)

// Turn grants one formation activation to a player.
type Turn struct {
	PlayerID int
}

// Roll rolls 2d6 plus bonus for every player and stores the result.
// It returns the players in ascending initiative order.
func Roll(state *battle.State, roller dice.Roller, sink report.Sink) []*battle.Player {
	players := state.Players()
	for _, p := range players {
		roll := roller.Roll2D6().Total
		p.Initiative = roll + p.InitiativeBonus
		if sink != nil {
			sink.Add(report.New(report.MsgInitiativeRoll, p.Name, p.Initiative, roll, p.InitiativeBonus).Indented(1))
		}
	}
	ordered := Order(state)
	if sink != nil {
		names := make([]string, 0, len(ordered))
		for _, p := range ordered {
			names = append(names, p.Name)
		}
		sink.Add(report.New(report.MsgInitiativeOrder, strings.Join(names, ", ")).Indented(1))
	}
	return ordered
}

// Order returns players in ascending initiative, ties broken by id.
func Order(state *battle.State) []*battle.Player {
	players := state.Players()
	sort.SliceStable(players, func(i, j int) bool {
		if players[i].Initiative != players[j].Initiative {
			return players[i].Initiative < players[j].Initiative
		}
		return players[i].ID < players[j].ID
	})
	return players
}

// Eligible reports whether f may take a turn in phase this round.
func Eligible(state *battle.State, f *battle.Formation, phase battle.Phase) bool {
	if f.Done {
		return false
	}
	switch phase {
	case battle.PhaseDeployment:
		return !f.Deployed && f.DeployRound <= state.Round()
	case battle.PhaseMovement, battle.PhaseFiring, battle.PhaseEnd:
		return f.Deployed
	default:
		return false
	}
}

// Count is a player's number of pending activations.
type Count struct {
	PlayerID int
	N        int
}

// TurnOrder returns the turns for phase. Movement and firing group all of a
// player's formations together in initiative order, as does deployment over
// undeployed formations. Other phases interleave players.
func TurnOrder(state *battle.State, phase battle.Phase) []Turn {
	counts := make(map[int]int)
	for _, f := range state.Formations() {
		if Eligible(state, f, phase) {
			counts[f.PlayerID]++
		}
	}
	ordered := make([]Count, 0, len(counts))
	for _, p := range Order(state) {
		if n := counts[p.ID]; n > 0 {
			ordered = append(ordered, Count{PlayerID: p.ID, N: n})
		}
	}
	switch phase {
	case battle.PhaseDeployment, battle.PhaseMovement, battle.PhaseFiring:
		return Grouped(ordered)
	default:
		return Interleave(ordered)
	}
}

// Grouped gives each player all of its turns before the next player.
func Grouped(counts []Count) []Turn {
	var turns []Turn
	for _, c := range counts {
		for i := 0; i < c.N; i++ {
			turns = append(turns, Turn{PlayerID: c.PlayerID})
		}
	}
	return turns
}

// Interleave spreads turns so players with more formations move
// proportionally more often. Each pass finds the smallest nonzero count and
// gives every player count/min turns, in the given order.
func Interleave(counts []Count) []Turn {
	remaining := make([]Count, len(counts))
	copy(remaining, counts)

	var turns []Turn
	for {
		lowest := 0
		for _, c := range remaining {
			if c.N > 0 && (lowest == 0 || c.N < lowest) {
				lowest = c.N
			}
		}
		if lowest == 0 {
			return turns
		}
		for i := range remaining {
			if remaining[i].N == 0 {
				continue
			}
			n := remaining[i].N / lowest
			for j := 0; j < n; j++ {
				turns = append(turns, Turn{PlayerID: remaining[i].PlayerID})
			}
			remaining[i].N -= n
		}
	}
}
