package environment

import (
	"testing"

	"github.com/biotica/biotica/internal/rng"
	"github.com/biotica/biotica/internal/worldstate"
)

func TestStepIsBudgetIndependentOfSize(t *testing.T) {
	w := worldstate.New(50, 50, 5)
	for i := range w.Temperature {
		w.Temperature[i] = uint8(i % 256)
	}
	u := NewUpdater()
	r := rng.New(1)
	// Budget far smaller than grid size must not panic or touch more cells
	// than requested.
	u.Step(w, r, 1, 10, Tuning{HazardDecayRate: 0.1})
	if u.State() != 10 {
		t.Fatalf("expected cursor to advance by budget, got %d", u.State())
	}
}

func TestHazardDecaysTowardZero(t *testing.T) {
	w := worldstate.New(4, 4, 1)
	idx := w.Index(1, 1)
	w.Hazard[idx] = 200
	u := NewUpdater()
	r := rng.New(1)
	for i := 0; i < 200; i++ {
		u.Step(w, r, i, w.Width*w.Height, Tuning{HazardDecayRate: 0.2})
	}
	if w.Hazard[idx] > 5 {
		t.Fatalf("expected hazard to decay near zero, got %d", w.Hazard[idx])
	}
}

func TestDiffusionDeterministic(t *testing.T) {
	w1 := worldstate.New(10, 10, 9)
	w2 := worldstate.New(10, 10, 9)
	for i := range w1.Temperature {
		w1.Temperature[i] = uint8(i * 7 % 256)
		w2.Temperature[i] = uint8(i * 7 % 256)
	}
	u1, u2 := NewUpdater(), NewUpdater()
	r1, r2 := rng.New(3), rng.New(3)
	for tick := 0; tick < 50; tick++ {
		u1.Step(w1, r1, tick, 100, Tuning{HazardDecayRate: 0.1})
		u2.Step(w2, r2, tick, 100, Tuning{HazardDecayRate: 0.1})
	}
	for i := range w1.Temperature {
		if w1.Temperature[i] != w2.Temperature[i] {
			t.Fatalf("diffusion diverged at cell %d", i)
		}
	}
}

func TestBootstrapStaysWithinBounds(t *testing.T) {
	w := worldstate.New(20, 20, 3)
	Bootstrap(w)
	for _, f := range w.Fertility {
		if f > 255 {
			t.Fatalf("fertility must fit in a byte")
		}
	}
}
