package dice

import "testing"

func TestSeededRollerIsReproducible(t *testing.T) {
	a := NewSeeded(7)
	b := NewSeeded(7)
	for i := 0; i < 50; i++ {
		ra, rb := a.Roll2D6(), b.Roll2D6()
		if ra.Total != rb.Total {
			t.Fatalf("roll %d = %d vs %d", i, ra.Total, rb.Total)
		}
		if ra.Total < 2 || ra.Total > 12 {
			t.Fatalf("2d6 total = %d, out of range", ra.Total)
		}
		if d := a.RollD6(); d != b.RollD6() || d < 1 || d > 6 {
			t.Fatalf("d6 mismatch or out of range at %d", i)
		}
		if p := a.Pick(5); p != b.Pick(5) || p < 0 || p >= 5 {
			t.Fatalf("pick mismatch or out of range at %d", i)
		}
	}
}

func TestScriptedRollerReplaysValues(t *testing.T) {
	roller := NewScripted(7, 3, 1, 12)

	if got := roller.Roll2D6().Total; got != 7 {
		t.Fatalf("first roll = %d, want 7", got)
	}
	if got := roller.RollD6(); got != 3 {
		t.Fatalf("d6 = %d, want 3", got)
	}
	if got := roller.Pick(2); got != 1 {
		t.Fatalf("pick = %d, want 1", got)
	}
	roll := roller.Roll2D6()
	if roll.Total != 12 || roll.Results[0]+roll.Results[1] != 12 {
		t.Fatalf("last roll = %+v, want total 12", roll)
	}
	if roller.Remaining() != 0 {
		t.Fatalf("remaining = %d, want 0", roller.Remaining())
	}
}

func TestScriptedRollerPanicsWhenExhausted(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	NewScripted().Roll2D6()
}

func TestScriptedRollerRejectsImpossibleTotals(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	NewScripted(13).Roll2D6()
}
