package scenario

import (
	"errors"
	"path/filepath"
	"testing"

	apperrors "github.com/megamek/acar/internal/platform/errors"
	"github.com/megamek/acar/internal/services/combat/domain/battle"
	"github.com/megamek/acar/internal/services/combat/domain/victory"
)

func TestLoadFile(t *testing.T) {
	s, err := LoadFile(filepath.Join("testdata", "ridge.lua"))
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if s.Name != "Ridge ambush" {
		t.Fatalf("Name = %q", s.Name)
	}
	if !s.HasSeed || s.Seed != 42 || s.MaxRounds != 12 {
		t.Fatalf("seed/max = %v %d %d", s.HasSeed, s.Seed, s.MaxRounds)
	}
	if len(s.Players) != 2 || s.Players[0].InitiativeBonus != 1 {
		t.Fatalf("players = %+v", s.Players)
	}
	if got := s.Range(20, 10); got != battle.RangeShort {
		t.Fatalf("Range(20, 10) = %v, want short", got)
	}
	if got := s.Range(10, 30); got != battle.RangeMedium {
		t.Fatalf("Range(10, 30) = %v, want medium default", got)
	}

	state, err := s.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	lance, ok := state.Formation(10)
	if !ok {
		t.Fatal("formation 10 missing")
	}
	if lance.Preferred != battle.EngagementOverrun || lance.Size != 2 || lance.Jump != 1 {
		t.Fatalf("lance = %+v", lance)
	}
	marauder := lance.Units[1]
	if marauder.Skill != 3 || marauder.Damage.Long != 2 || marauder.CurrentArmor != 7 {
		t.Fatalf("marauder = %+v", marauder)
	}
	if lance.Units[0].Skill != 4 {
		t.Fatalf("atlas skill = %d, want formation skill", lance.Units[0].Skill)
	}
	e, ok := state.Element(101)
	if !ok || e.FormationID != 10 || e.Name != "Marauder" {
		t.Fatalf("element 101 = %+v", e)
	}

	hatamoto, _ := state.Formation(20)
	if hatamoto.Kind != battle.KindVehicle || hatamoto.MoraleStatus != battle.MoraleShaken || hatamoto.DeployRound != 2 {
		t.Fatalf("hatamoto = %+v", hatamoto)
	}
	if hatamoto.Skill != defaultSkill {
		t.Fatalf("hatamoto skill = %d, want default", hatamoto.Skill)
	}

	evaluator, err := s.Evaluator()
	if err != nil {
		t.Fatalf("Evaluator() error = %v", err)
	}
	if _, ok := evaluator.(*victory.Expression); !ok {
		t.Fatalf("evaluator = %T, want expression", evaluator)
	}
}

func TestBuildReturnsIndependentState(t *testing.T) {
	s, err := LoadFile(filepath.Join("testdata", "ridge.lua"))
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	first, err := s.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	f, _ := first.Formation(10)
	f.Units[0].CurrentArmor = 1

	second, err := s.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	g, _ := second.Formation(10)
	if g.Units[0].CurrentArmor != 10 {
		t.Fatalf("second build armor = %d, want 10", g.Units[0].CurrentArmor)
	}
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.lua"))
	if apperrors.GetCode(err) != apperrors.CodeScenarioMissing {
		t.Fatalf("code = %s, err = %v", apperrors.GetCode(err), err)
	}
}

func TestLoadStringErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		code   apperrors.Code
	}{
		{"syntax", "local b = ", apperrors.CodeScenarioScriptFailed},
		{"runtime error", `error("boom")`, apperrors.CodeScenarioScriptFailed},
		{"returns nothing", "local x = 1", apperrors.CodeScenarioInvalid},
		{"bad range", `local b = Battle.new() b:range(1, 2, "orbital") return b`, apperrors.CodeScenarioScriptFailed},
		{"player without id", `local b = Battle.new() b:player{name = "x"} return b`, apperrors.CodeScenarioScriptFailed},
		{"fractional skill", `local b = Battle.new() b:formation{id = 1, player = 1, skill = 3.5} return b`, apperrors.CodeScenarioScriptFailed},
		{"bad kind", `local b = Battle.new() b:formation{id = 1, player = 1, kind = "naval"} return b`, apperrors.CodeScenarioScriptFailed},
		{"max rounds zero", `local b = Battle.new() b:max_rounds(0) return b`, apperrors.CodeScenarioScriptFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadString(tt.name, tt.source)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := apperrors.GetCode(err); got != tt.code {
				t.Fatalf("code = %s, want %s (%v)", got, tt.code, err)
			}
		})
	}
}

func TestBuildValidation(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   error
	}{
		{
			name:   "no players",
			source: `return Battle.new("x")`,
		},
		{
			name: "one team",
			source: `local b = Battle.new("x")
b:player{id = 1, team = 1}
b:formation{id = 1, player = 1, units = {{armor = 3, elements = {1}}}}
return b`,
		},
		{
			name: "unknown player",
			source: `local b = Battle.new("x")
b:player{id = 1}
b:formation{id = 1, player = 9, units = {{armor = 3, elements = {1}}}}
return b`,
			want: battle.ErrUnknownPlayer,
		},
		{
			name: "duplicate element",
			source: `local b = Battle.new("x")
b:player{id = 1}
b:player{id = 2}
b:formation{id = 1, player = 1, units = {{armor = 3, elements = {1}}}}
b:formation{id = 2, player = 2, units = {{armor = 3, elements = {1}}}}
return b`,
			want: battle.ErrDuplicateID,
		},
		{
			name: "no units",
			source: `local b = Battle.new("x")
b:player{id = 1}
b:formation{id = 1, player = 1}
return b`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := LoadString(tt.name, tt.source)
			if err != nil {
				t.Fatalf("LoadString() error = %v", err)
			}
			_, err = s.Build()
			if apperrors.GetCode(err) != apperrors.CodeScenarioInvalid {
				t.Fatalf("Build() error = %v, want scenario invalid", err)
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Fatalf("Build() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestEvaluatorDefaultsToLastTeamStanding(t *testing.T) {
	s, err := LoadString("plain", `return Battle.new("plain")`)
	if err != nil {
		t.Fatalf("LoadString() error = %v", err)
	}
	evaluator, err := s.Evaluator()
	if err != nil {
		t.Fatalf("Evaluator() error = %v", err)
	}
	if _, ok := evaluator.(victory.LastTeamStanding); !ok {
		t.Fatalf("evaluator = %T", evaluator)
	}

	s.Victory = "Round >"
	if _, err := s.Evaluator(); apperrors.GetCode(err) != apperrors.CodeVictoryInvalid {
		t.Fatalf("Evaluator() error = %v, want victory invalid", err)
	}
}

func TestDeployedFormationsStartDeployed(t *testing.T) {
	s, err := LoadFile(filepath.Join("..", "..", "..", "..", "scenarios", "skirmish.lua"))
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	state, err := s.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	for _, f := range state.Formations() {
		if !f.Deployed {
			t.Fatalf("formation %d not deployed", f.ID)
		}
	}
	e, _ := state.Element(24)
	if !e.Deployed || e.Name != "LCT-1V" {
		t.Fatalf("element 24 = %+v", e)
	}
}

func TestBuildErrorNamesFormation(t *testing.T) {
	s, err := LoadString("dup", `local b = Battle.new("dup")
b:player{id = 1}
b:player{id = 2}
b:formation{id = 1, player = 1, units = {{armor = 3, elements = {7}}}}
b:formation{id = 2, player = 2, units = {{armor = 3, elements = {7}}}}
return b`)
	if err != nil {
		t.Fatalf("LoadString() error = %v", err)
	}
	_, err = s.Build()
	var domainErr *apperrors.Error
	if !errors.As(err, &domainErr) {
		t.Fatalf("Build() error = %v, want domain error", err)
	}
	if domainErr.Metadata["formation"] != "2" || domainErr.Metadata["element"] != "7" {
		t.Fatalf("metadata = %v", domainErr.Metadata)
	}
}
