package extrusion

import (
	"math"
	"testing"
)

func TestAccumulator_StartsAtZero(t *testing.T) {
	a := NewAccumulator()
	if a.Total() != 0 {
		t.Errorf("Total() = %v, want 0", a.Total())
	}
}

func TestAccumulator_Advance(t *testing.T) {
	a := NewAccumulator()
	step := 40 * 0.024
	for i := 1; i <= 8; i++ {
		got := a.Advance(step)
		want := float64(i) * step
		if math.Abs(got-want) > 1e-9 {
			t.Errorf("advance %d = %v, want %v", i, got, want)
		}
	}
}

func TestAccumulator_MonotonicForNonNegative(t *testing.T) {
	a := NewAccumulator()
	amounts := []float64{0.5, 0, 1.25, 0, 0, 0.001, 3}
	prev := a.Total()
	for i, amt := range amounts {
		got := a.Advance(amt)
		if got < prev {
			t.Fatalf("step %d: %v < previous %v", i, got, prev)
		}
		if amt > 0 && got <= prev {
			t.Fatalf("step %d: positive amount %v did not increase total (%v)", i, amt, got)
		}
		prev = got
	}
}

func TestAccumulator_AdvanceZeroIsNoOp(t *testing.T) {
	a := NewAccumulator()
	a.Advance(2.5)
	before := a.Total()
	if got := a.Advance(0); got != before {
		t.Errorf("Advance(0) = %v, want %v", got, before)
	}
	if a.Total() != before {
		t.Errorf("Total() after Advance(0) = %v, want %v", a.Total(), before)
	}
}

func TestAccumulator_Reset(t *testing.T) {
	a := NewAccumulator()
	a.Advance(7)
	a.Reset()
	if a.Total() != 0 {
		t.Errorf("Total() after Reset = %v, want 0", a.Total())
	}
	if got := a.Advance(1); got != 1 {
		t.Errorf("Advance(1) after Reset = %v, want 1", got)
	}
}
