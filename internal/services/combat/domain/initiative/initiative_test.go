package initiative

import (
	"reflect"
	"testing"

	"github.com/megamek/acar/internal/core/dice"
	"github.com/megamek/acar/internal/services/combat/domain/battle"
	"github.com/megamek/acar/internal/services/combat/domain/report"
)

func playerIDs(turns []Turn) []int {
	ids := make([]int, 0, len(turns))
	for _, turn := range turns {
		ids = append(ids, turn.PlayerID)
	}
	return ids
}

func TestInterleave(t *testing.T) {
	tests := []struct {
		name   string
		counts []Count
		want   []int
	}{
		{name: "four against two", counts: []Count{{1, 4}, {2, 2}}, want: []int{1, 1, 2, 1, 1, 2}},
		{name: "equal", counts: []Count{{2, 2}, {1, 2}}, want: []int{2, 1, 2, 1}},
		{name: "three against two", counts: []Count{{1, 3}, {2, 2}}, want: []int{1, 2, 1, 1, 2}},
		{name: "single player", counts: []Count{{1, 3}}, want: []int{1, 1, 1}},
		{name: "empty", counts: nil, want: []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := playerIDs(Interleave(tt.counts)); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Interleave() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInterleaveGivesEveryActivation(t *testing.T) {
	counts := []Count{{1, 7}, {2, 3}, {3, 5}}
	got := make(map[int]int)
	for _, turn := range Interleave(counts) {
		got[turn.PlayerID]++
	}
	for _, c := range counts {
		if got[c.PlayerID] != c.N {
			t.Fatalf("player %d turns = %d, want %d", c.PlayerID, got[c.PlayerID], c.N)
		}
	}
}

func newState(t *testing.T) *battle.State {
	t.Helper()
	s := battle.NewState()
	for _, p := range []battle.Player{
		{ID: 1, Name: "Alpha", Team: 1, InitiativeBonus: 2},
		{ID: 2, Name: "Bravo", Team: 2},
	} {
		if err := s.AddPlayer(p); err != nil {
			t.Fatalf("AddPlayer() error = %v", err)
		}
	}
	formations := []*battle.Formation{
		{ID: 10, PlayerID: 1, Deployed: true},
		{ID: 11, PlayerID: 1, Deployed: true},
		{ID: 20, PlayerID: 2, Deployed: true},
		{ID: 21, PlayerID: 2, DeployRound: 2},
	}
	for _, f := range formations {
		if err := s.AddFormation(f); err != nil {
			t.Fatalf("AddFormation() error = %v", err)
		}
	}
	s.NextRound()
	return s
}

func TestRollOrdersByInitiative(t *testing.T) {
	s := newState(t)
	var log report.Log

	ordered := Roll(s, dice.NewScripted(5, 8), &log)

	if ordered[0].ID != 1 || ordered[0].Initiative != 7 {
		t.Fatalf("first = %+v, want player 1 at 7", ordered[0])
	}
	if ordered[1].ID != 2 || ordered[1].Initiative != 8 {
		t.Fatalf("second = %+v, want player 2 at 8", ordered[1])
	}
	if log.Len() != 3 {
		t.Fatalf("reports = %d, want 3", log.Len())
	}
}

func TestOrderBreaksTiesByID(t *testing.T) {
	s := newState(t)
	Roll(s, dice.NewScripted(6, 8), nil)

	ordered := Order(s)
	if ordered[0].ID != 1 || ordered[1].ID != 2 {
		t.Fatalf("order = %d,%d, want 1,2", ordered[0].ID, ordered[1].ID)
	}
}

func TestTurnOrder(t *testing.T) {
	s := newState(t)
	Roll(s, dice.NewScripted(10, 4), nil)

	if got := playerIDs(TurnOrder(s, battle.PhaseMovement)); !reflect.DeepEqual(got, []int{2, 1, 1}) {
		t.Fatalf("movement turns = %v, want [2 1 1]", got)
	}
	if got := playerIDs(TurnOrder(s, battle.PhaseEnd)); !reflect.DeepEqual(got, []int{2, 1, 1}) {
		t.Fatalf("end turns = %v, want [2 1 1]", got)
	}
	if got := TurnOrder(s, battle.PhaseDeployment); len(got) != 0 {
		t.Fatalf("deployment turns = %v, want none before round 2", got)
	}

	s.NextRound()
	if got := playerIDs(TurnOrder(s, battle.PhaseDeployment)); !reflect.DeepEqual(got, []int{2}) {
		t.Fatalf("deployment turns = %v, want [2]", got)
	}
}

func TestEligibleSkipsDoneFormations(t *testing.T) {
	s := newState(t)
	f, _ := s.Formation(10)
	f.Done = true
	if Eligible(s, f, battle.PhaseFiring) {
		t.Fatal("done formation should not be eligible")
	}
}
