package battle

import (
	"errors"
	"testing"
)

func newTestState(t *testing.T) *State {
	t.Helper()
	s := NewState()
	for _, p := range []Player{{ID: 1, Name: "Alpha", Team: 1}, {ID: 2, Name: "Bravo", Team: 2}} {
		if err := s.AddPlayer(p); err != nil {
			t.Fatalf("AddPlayer() error = %v", err)
		}
	}
	for _, id := range []int{101, 102, 201} {
		if err := s.AddElement(Element{ID: id}); err != nil {
			t.Fatalf("AddElement() error = %v", err)
		}
	}
	mustAdd := func(f *Formation) {
		if err := s.AddFormation(f); err != nil {
			t.Fatalf("AddFormation() error = %v", err)
		}
	}
	mustAdd(&Formation{ID: 10, PlayerID: 1, Units: []*Unit{
		{Armor: 4, CurrentArmor: 4, ElementIDs: []int{101}},
		{Armor: 4, CurrentArmor: 4, ElementIDs: []int{102}},
	}})
	mustAdd(&Formation{ID: 20, PlayerID: 2, Units: []*Unit{
		{Armor: 6, CurrentArmor: 6, ElementIDs: []int{201}},
	}})
	return s
}

func TestAddFormationValidation(t *testing.T) {
	s := newTestState(t)

	tests := []struct {
		name      string
		formation *Formation
		wantErr   error
	}{
		{name: "duplicate", formation: &Formation{ID: 10, PlayerID: 1}, wantErr: ErrDuplicateID},
		{name: "unknown player", formation: &Formation{ID: 30, PlayerID: 9}, wantErr: ErrUnknownPlayer},
		{name: "invalid id", formation: &Formation{ID: 0, PlayerID: 1}, wantErr: ErrInvalidID},
		{
			name:      "unknown element",
			formation: &Formation{ID: 31, PlayerID: 1, Units: []*Unit{{ElementIDs: []int{999}}}},
			wantErr:   ErrUnknownElement,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := s.AddFormation(tt.formation); !errors.Is(err, tt.wantErr) {
				t.Fatalf("AddFormation() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAddFormationBindsElements(t *testing.T) {
	s := newTestState(t)
	e, ok := s.Element(102)
	if !ok {
		t.Fatal("expected element 102")
	}
	if e.FormationID != 10 {
		t.Fatalf("FormationID = %d, want 10", e.FormationID)
	}
}

func TestRemoveFormationLeavesActiveSet(t *testing.T) {
	s := newTestState(t)

	if !s.RemoveFormation(20, OutcomeWithdrawn) {
		t.Fatal("expected removal")
	}
	if s.RemoveFormation(20, OutcomeDestroyed) {
		t.Fatal("second removal should be refused")
	}
	if _, ok := s.Formation(20); ok {
		t.Fatal("removed formation still resolvable")
	}
	if got := len(s.Formations()); got != 1 {
		t.Fatalf("active formations = %d, want 1", got)
	}
	if got := len(s.AllFormations()); got != 2 {
		t.Fatalf("all formations = %d, want 2", got)
	}
	if o, _ := s.Outcome(20); o != OutcomeWithdrawn {
		t.Fatalf("outcome = %v, want withdrawn", o)
	}
	if teams := s.ActiveTeams(); len(teams) != 1 || teams[0] != 1 {
		t.Fatalf("active teams = %v, want [1]", teams)
	}
}

func TestEnemies(t *testing.T) {
	s := newTestState(t)
	f, _ := s.Formation(10)
	enemies := s.Enemies(f)
	if len(enemies) != 1 || enemies[0].ID != 20 {
		t.Fatalf("enemies = %v, want formation 20", enemies)
	}
}

func TestFormationCrippled(t *testing.T) {
	tests := []struct {
		name  string
		armor []int
		want  bool
	}{
		{name: "healthy", armor: []int{4, 4}, want: false},
		{name: "one of two crippled", armor: []int{1, 4}, want: true},
		{name: "exactly half armor is not crippled", armor: []int{2, 4}, want: false},
		{name: "one of three destroyed", armor: []int{0, 4, 4}, want: false},
		{name: "two of three crippled", armor: []int{0, 1, 4}, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &Formation{}
			for _, a := range tt.armor {
				f.Units = append(f.Units, &Unit{Armor: 4, CurrentArmor: a})
			}
			if got := f.Crippled(); got != tt.want {
				t.Fatalf("Crippled() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFormationResetRoundClearsMemory(t *testing.T) {
	f := &Formation{JumpUsed: 2, TargetMoveModifier: 1, HighStressEpisode: true, TargetID: 5}
	f.RecordEngagement(EngagementRecord{TargetID: 5, Control: EngagementOverrun, Victory: true})
	if _, ok := f.Engagement(5); !ok {
		t.Fatal("expected engagement record")
	}

	f.ResetRound()

	if f.JumpUsed != 0 || f.TargetMoveModifier != 0 || f.HighStressEpisode || f.TargetID != 0 {
		t.Fatalf("round state not reset: %+v", f)
	}
	if _, ok := f.Engagement(5); ok {
		t.Fatal("engagement record survived reset")
	}
}

func TestDamageMultiplier(t *testing.T) {
	tests := []struct {
		record EngagementRecord
		want   float64
	}{
		{EngagementRecord{Control: EngagementOverrun, Victory: true}, 0.25},
		{EngagementRecord{Control: EngagementForced, Victory: true}, 0.5},
		{EngagementRecord{Control: EngagementEvade, Victory: false}, 0.5},
		{EngagementRecord{Control: EngagementEvade, Victory: true}, 1},
		{EngagementRecord{Control: EngagementOverrun, Victory: false}, 1},
		{EngagementRecord{Control: EngagementNone, Victory: true}, 1},
	}
	for _, tt := range tests {
		if got := tt.record.DamageMultiplier(); got != tt.want {
			t.Errorf("%+v multiplier = %v, want %v", tt.record, got, tt.want)
		}
	}
}

func TestMoraleTransitions(t *testing.T) {
	tests := []struct {
		from   MoraleStatus
		worse  MoraleStatus
		better MoraleStatus
		isBest bool
	}{
		{MoraleNormal, MoraleShaken, MoraleNormal, true},
		{MoraleShaken, MoraleUnsteady, MoraleNormal, false},
		{MoraleUnsteady, MoraleBroken, MoraleShaken, false},
		{MoraleBroken, MoraleRouted, MoraleUnsteady, false},
		{MoraleRouted, MoraleRouted, MoraleBroken, false},
	}
	for _, tt := range tests {
		t.Run(tt.from.String(), func(t *testing.T) {
			if got := tt.from.Worsen(); got != tt.worse {
				t.Fatalf("Worsen() = %v, want %v", got, tt.worse)
			}
			if got := tt.from.Improve(); got != tt.better {
				t.Fatalf("Improve() = %v, want %v", got, tt.better)
			}
			if got := tt.from.IsBest(); got != tt.isBest {
				t.Fatalf("IsBest() = %v, want %v", got, tt.isBest)
			}
		})
	}
}

func TestMoraleOutOfRangePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	MoraleStatus(9).Worsen()
}

func TestParsers(t *testing.T) {
	if r, err := ParseRange(" Long "); err != nil || r != RangeLong {
		t.Fatalf("ParseRange() = %v, %v", r, err)
	}
	if _, err := ParseRange("point-blank"); err == nil {
		t.Fatal("expected range error")
	}
	if m, err := ParseMoraleStatus("broken"); err != nil || m != MoraleBroken {
		t.Fatalf("ParseMoraleStatus() = %v, %v", m, err)
	}
	if e, err := ParseEngagementControl("forced_engagement"); err != nil || e != EngagementForced {
		t.Fatalf("ParseEngagementControl() = %v, %v", e, err)
	}
	if e, err := ParseEngagementControl(""); err != nil || e != EngagementNone {
		t.Fatalf("ParseEngagementControl(empty) = %v, %v", e, err)
	}
	if k, err := ParseFormationKind("Infantry"); err != nil || k != KindInfantry {
		t.Fatalf("ParseFormationKind() = %v, %v", k, err)
	}
}
