package dice

import (
	"errors"
	"math/rand"
	"testing"
)

func TestRollDice_Basic(t *testing.T) {
	tests := []struct {
		name    string
		request Request
		wantErr error
	}{
		{
			name:    "2d6",
			request: Request{Dice: []Spec{{Sides: 6, Count: 2}}, Seed: 42},
		},
		{
			name: "2d6 + 1d8",
			request: Request{
				Dice: []Spec{{Sides: 6, Count: 2}, {Sides: 8, Count: 1}},
				Seed: 42,
			},
		},
		{
			name:    "no dice",
			request: Request{Seed: 42},
			wantErr: ErrMissingDice,
		},
		{
			name:    "invalid sides",
			request: Request{Dice: []Spec{{Sides: 0, Count: 1}}, Seed: 42},
			wantErr: ErrInvalidDiceSpec,
		},
		{
			name:    "invalid count",
			request: Request{Dice: []Spec{{Sides: 6, Count: 0}}, Seed: 42},
			wantErr: ErrInvalidDiceSpec,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := RollDice(tt.request)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("RollDice() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				return
			}
			if len(result.Rolls) != len(tt.request.Dice) {
				t.Fatalf("rolls = %d, want %d", len(result.Rolls), len(tt.request.Dice))
			}
			total := 0
			for i, roll := range result.Rolls {
				if len(roll.Results) != tt.request.Dice[i].Count {
					t.Fatalf("Roll[%d] results = %d, want %d", i, len(roll.Results), tt.request.Dice[i].Count)
				}
				sum := 0
				for j, face := range roll.Results {
					if face < 1 || face > roll.Sides {
						t.Fatalf("Roll[%d].Results[%d] = %d, out of range [1, %d]", i, j, face, roll.Sides)
					}
					sum += face
				}
				if roll.Total != sum {
					t.Fatalf("Roll[%d].Total = %d, want %d", i, roll.Total, sum)
				}
				total += sum
			}
			if result.Total != total {
				t.Fatalf("Result.Total = %d, want %d", result.Total, total)
			}
		})
	}
}

func TestRollDice_Determinism(t *testing.T) {
	request := Request{Dice: []Spec{{Sides: 6, Count: 4}}, Seed: 12345}

	first, err := RollDice(request)
	if err != nil {
		t.Fatalf("RollDice() error = %v", err)
	}
	second, err := RollDice(request)
	if err != nil {
		t.Fatalf("RollDice() error = %v", err)
	}
	for i := range first.Rolls[0].Results {
		if first.Rolls[0].Results[i] != second.Rolls[0].Results[i] {
			t.Fatalf("Results[%d] differs: %d vs %d", i, first.Rolls[0].Results[i], second.Rolls[0].Results[i])
		}
	}
}

func TestRollWithRng(t *testing.T) {
	result, err := RollWithRng(rand.New(rand.NewSource(42)), []Spec{{Sides: 6, Count: 2}})
	if err != nil {
		t.Fatalf("RollWithRng() error = %v", err)
	}
	if len(result.Rolls) != 1 || len(result.Rolls[0].Results) != 2 {
		t.Fatalf("unexpected roll shape: %+v", result)
	}
}
