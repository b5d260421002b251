package action

import (
	"errors"
	"testing"

	"github.com/megamek/acar/internal/services/combat/domain/battle"
)

func TestSubmitRefusesIllegalActions(t *testing.T) {
	tests := []struct {
		name   string
		action Action
	}{
		{name: "nil", action: nil},
		{name: "self attack", action: Attack{Attacker: 1, Target: 1}},
		{name: "missing target", action: Attack{Attacker: 1}},
		{name: "negative unit", action: Attack{Attacker: 1, Target: 2, UnitIndex: -1}},
		{name: "bad range", action: Attack{Attacker: 1, Target: 2, Range: battle.Range(9)}},
		{name: "engagement without stance", action: EngagementControl{Attacker: 1, Target: 2}},
		{name: "morale check without formation", action: MoraleCheck{}},
		{name: "withdraw without formation", action: Withdraw{}},
		{name: "nerve without formation", action: RecoveringNerve{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var q Queue
			if err := q.Submit(tt.action); !errors.Is(err, ErrIllegalAction) {
				t.Fatalf("Submit() error = %v, want %v", err, ErrIllegalAction)
			}
			if q.Len() != 0 {
				t.Fatalf("queue len = %d, want 0", q.Len())
			}
		})
	}
}

func TestDrainKeepsSubmissionOrder(t *testing.T) {
	var q Queue
	submitted := []Action{
		Attack{Attacker: 1, Target: 2, Range: battle.RangeShort},
		MoraleCheck{Formation: 2},
		Withdraw{Formation: 3},
	}
	for _, a := range submitted {
		if err := q.Submit(a); err != nil {
			t.Fatalf("Submit() error = %v", err)
		}
	}

	drained := q.Drain()
	if len(drained) != len(submitted) {
		t.Fatalf("drained = %d, want %d", len(drained), len(submitted))
	}
	for i := range submitted {
		if drained[i] != submitted[i] {
			t.Fatalf("drained[%d] = %#v, want %#v", i, drained[i], submitted[i])
		}
	}
	if q.Len() != 0 {
		t.Fatalf("queue len after drain = %d", q.Len())
	}
}

func TestDistinctTargets(t *testing.T) {
	var q Queue
	for _, target := range []int{2, 2, 3} {
		if err := q.Submit(Attack{Attacker: 1, Target: target}); err != nil {
			t.Fatalf("Submit() error = %v", err)
		}
	}
	if got := q.DistinctTargets(1); got != 2 {
		t.Fatalf("DistinctTargets(1) = %d, want 2", got)
	}
	if got := q.DistinctTargets(2); got != 0 {
		t.Fatalf("DistinctTargets(2) = %d, want 0", got)
	}

	q.Drain()
	if got := q.DistinctTargets(1); got != 2 {
		t.Fatalf("targets should survive drain, got %d", got)
	}
	q.ResetRound()
	if got := q.DistinctTargets(1); got != 0 {
		t.Fatalf("DistinctTargets after reset = %d, want 0", got)
	}
}
