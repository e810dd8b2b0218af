package kernel

import (
	"testing"
	"time"

	"github.com/biotica/biotica/internal/config"
)

// TestS1Determinism is scenario S1: seed 12345, grid 128x80, 2000 ticks.
// initialPopulation is a fixed kernel constant rather than an exposed
// DEFAULT_CREATURES knob, so this runs two independent kernels from the
// same seed and checks their state hashes agree, rather than against a
// precomputed golden vector — there is no way to bake in an external
// reference hash without ever executing this code, so the first run
// stands as its own reference.
func TestS1Determinism(t *testing.T) {
	tuning := config.DefaultTuning()
	params := DefaultCreateParams()
	a := New(12345, 128, 80, tuning, params)
	b := New(12345, 128, 80, tuning, params)

	wallClock := time.Time{}
	for i := 0; i < 2000; i++ {
		a.Step(wallClock)
		b.Step(wallClock)
	}

	if ha, hb := StateHash(a), StateHash(b); ha != hb {
		t.Fatalf("state hash diverged for identical seed 12345 after 2000 ticks: %d vs %d", ha, hb)
	}
}

// TestS2SpeciationMonotonic is scenario S2: seed 777, mutation rate 0.25,
// 5000 ticks. Species count must never drop between ticks, and at least
// one species must descend from a parent.
func TestS2SpeciationMonotonic(t *testing.T) {
	tuning := config.DefaultTuning()
	tuning.MutationRate = 0.25
	params := DefaultCreateParams()
	k := New(777, 64, 64, tuning, params)

	wallClock := time.Time{}
	prevCount := len(k.Species.All())
	for i := 0; i < 5000; i++ {
		k.Step(wallClock)
		count := len(k.Species.All())
		if count < prevCount {
			t.Fatalf("species count dropped at tick %d: %d -> %d", i, prevCount, count)
		}
		prevCount = count
	}

	foundDescendant := false
	for _, sp := range k.Species.All() {
		if sp.ParentSpeciesID != "" {
			foundDescendant = true
			break
		}
	}
	if !foundDescendant {
		t.Fatalf("expected at least one species with a non-empty parent lineage after 5000 ticks")
	}
}

// TestS5SaveRoundTrip is scenario S5: seed 2024, 1000 ticks, save, load
// into a fresh kernel, run 500 ticks more; the restored run's state hash
// must equal a straight 1500-tick run from scratch.
func TestS5SaveRoundTrip(t *testing.T) {
	tuning := config.DefaultTuning()
	params := DefaultCreateParams()
	wallClock := time.Time{}

	reference := New(2024, 48, 48, tuning, params)
	for i := 0; i < 1500; i++ {
		reference.Step(wallClock)
	}

	staged := New(2024, 48, 48, tuning, params)
	for i := 0; i < 1000; i++ {
		staged.Step(wallClock)
	}
	blob, err := staged.Save(wallClock)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	restored := New(1, 1, 1, config.Tuning{}, CreateParams{})
	if err := restored.Load(blob); err != nil {
		t.Fatalf("Load: %v", err)
	}
	for i := 0; i < 500; i++ {
		restored.Step(wallClock)
	}

	if got, want := StateHash(restored), StateHash(reference); got != want {
		t.Fatalf("save/load round trip diverged from a straight 1500-tick run: %d vs %d", got, want)
	}
}

// Scenario S6 (pause idempotence) is a property of the fixed-step
// accumulator, not of Kernel.Step itself — Kernel has no pause concept of
// its own. It is tested literally at TestS6PauseIdempotence in
// internal/scheduler, the package that owns pause/resume/Advance.
