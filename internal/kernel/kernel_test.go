package kernel

import (
	"testing"
	"time"

	"github.com/biotica/biotica/internal/config"
	"github.com/biotica/biotica/internal/presets"
)

func TestNewIsDeterministicForSameSeed(t *testing.T) {
	tuning := config.DefaultTuning()
	params := DefaultCreateParams()
	a := New(42, 24, 24, tuning, params)
	b := New(42, 24, 24, tuning, params)

	wallClock := time.Time{}
	for i := 0; i < 30; i++ {
		a.Step(wallClock)
		b.Step(wallClock)
	}

	if a.World.Tick != b.World.Tick {
		t.Fatalf("tick mismatch: %d vs %d", a.World.Tick, b.World.Tick)
	}
	if a.Creatures.Count() != b.Creatures.Count() {
		t.Fatalf("population mismatch: %d vs %d", a.Creatures.Count(), b.Creatures.Count())
	}
	aCreatures, bCreatures := a.Creatures.All(), b.Creatures.All()
	if len(aCreatures) != len(bCreatures) {
		t.Fatalf("creature slice length mismatch: %d vs %d", len(aCreatures), len(bCreatures))
	}
	for i := range aCreatures {
		if aCreatures[i].X != bCreatures[i].X || aCreatures[i].Y != bCreatures[i].Y {
			t.Fatalf("creature %d position diverged: (%d,%d) vs (%d,%d)", i, aCreatures[i].X, aCreatures[i].Y, bCreatures[i].X, bCreatures[i].Y)
		}
	}
}

func TestStepPreservesFixedSubsystemOrdering(t *testing.T) {
	k := New(7, 16, 16, config.DefaultTuning(), DefaultCreateParams())
	startTick := k.World.Tick
	k.Step(time.Time{})
	if k.World.Tick != startTick+1 {
		t.Fatalf("expected tick to advance by exactly 1, got %d -> %d", startTick, k.World.Tick)
	}
}

func TestSaveLoadRoundTripMatchesContinuedRun(t *testing.T) {
	tuning := config.DefaultTuning()
	params := DefaultCreateParams()
	seed := int32(99)

	reference := New(seed, 20, 20, tuning, params)
	saved := New(seed, 20, 20, tuning, params)

	const ticksBeforeSave = 15
	const ticksAfterSave = 15
	wallClock := time.Time{}

	for i := 0; i < ticksBeforeSave; i++ {
		reference.Step(wallClock)
		saved.Step(wallClock)
	}

	blob, err := saved.Save(wallClock)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	restored := New(1, 1, 1, config.Tuning{}, CreateParams{})
	if err := restored.Load(blob); err != nil {
		t.Fatalf("Load: %v", err)
	}

	for i := 0; i < ticksAfterSave; i++ {
		reference.Step(wallClock)
		restored.Step(wallClock)
	}

	if reference.World.Tick != restored.World.Tick {
		t.Fatalf("tick mismatch after round trip: %d vs %d", reference.World.Tick, restored.World.Tick)
	}
	if reference.Creatures.Count() != restored.Creatures.Count() {
		t.Fatalf("population mismatch after round trip: %d vs %d", reference.Creatures.Count(), restored.Creatures.Count())
	}

	refCreatures, restoredCreatures := reference.Creatures.All(), restored.Creatures.All()
	if len(refCreatures) != len(restoredCreatures) {
		t.Fatalf("creature slice length mismatch after round trip: %d vs %d", len(refCreatures), len(restoredCreatures))
	}
	for i := range refCreatures {
		if refCreatures[i].X != restoredCreatures[i].X || refCreatures[i].Y != restoredCreatures[i].Y {
			t.Fatalf("creature %d diverged after round trip: (%d,%d) vs (%d,%d)", i, refCreatures[i].X, refCreatures[i].Y, restoredCreatures[i].X, restoredCreatures[i].Y)
		}
	}
}

func TestResetSimulationIssuesFreshToken(t *testing.T) {
	k := New(1, 10, 10, config.DefaultTuning(), DefaultCreateParams())
	before := k.CurrentResetToken()

	after := k.ResetSimulation(2, 10, 10, presets.Patch{}, DefaultCreateParams(), []string{"test-reset"})
	if after == before {
		t.Fatalf("expected a new reset token, got the same one back")
	}
	if !k.Tokens.Valid(after) {
		t.Fatalf("expected the returned token to be valid against the kernel's own generation")
	}
	if k.Tokens.Valid(before) {
		t.Fatalf("expected the pre-reset token to be superseded")
	}
}
