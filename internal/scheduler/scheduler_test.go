package scheduler

import (
	"testing"
)

func TestAdvanceConsumesOneTickPerFixedStep(t *testing.T) {
	ticks := 0
	s := New(func() { ticks++ })

	consumed := s.Advance(FixedStep * 3)
	if consumed != 3 {
		t.Fatalf("expected 3 ticks consumed, got %d", consumed)
	}
	if ticks != 3 {
		t.Fatalf("expected tick func called 3 times, got %d", ticks)
	}
	if s.TicksRun() != 3 {
		t.Fatalf("expected TicksRun()==3, got %d", s.TicksRun())
	}
}

func TestAdvanceCarriesFractionalRemainderForward(t *testing.T) {
	ticks := 0
	s := New(func() { ticks++ })

	s.Advance(FixedStep + FixedStep/2)
	if ticks != 1 {
		t.Fatalf("expected 1 tick from 1.5 steps, got %d", ticks)
	}
	s.Advance(FixedStep / 2)
	if ticks != 2 {
		t.Fatalf("expected remainder to accumulate into a second tick, got %d", ticks)
	}
}

func TestAdvanceCapsStepsPerFrame(t *testing.T) {
	ticks := 0
	s := New(func() { ticks++ })

	consumed := s.Advance(FixedStep * 100)
	if consumed != MaxStepsPerFrame {
		t.Fatalf("expected steps capped at %d, got %d", MaxStepsPerFrame, consumed)
	}
	if ticks != MaxStepsPerFrame {
		t.Fatalf("expected %d tick calls, got %d", MaxStepsPerFrame, ticks)
	}
}

func TestPausedAdvanceConsumesNoTicks(t *testing.T) {
	ticks := 0
	s := New(func() { ticks++ })
	s.Pause()

	consumed := s.Advance(FixedStep * 10)
	if consumed != 0 || ticks != 0 {
		t.Fatalf("paused scheduler must not tick, got consumed=%d ticks=%d", consumed, ticks)
	}
	if !s.IsPaused() {
		t.Fatalf("expected IsPaused() true")
	}
}

func TestResumeZeroesAccumulator(t *testing.T) {
	ticks := 0
	s := New(func() { ticks++ })

	// Build up a partial accumulator, then pause mid-step.
	s.Advance(FixedStep / 2)
	s.Pause()
	s.Resume()

	// A fresh half step should not combine with the pre-pause half step
	// to produce a tick; the accumulator was zeroed on resume.
	consumed := s.Advance(FixedStep / 2)
	if consumed != 0 || ticks != 0 {
		t.Fatalf("expected accumulator reset on resume, got consumed=%d ticks=%d", consumed, ticks)
	}
}

func TestSpeedMultiplierScalesElapsedTime(t *testing.T) {
	ticks := 0
	s := New(func() { ticks++ })
	s.SetSpeed(2)

	consumed := s.Advance(FixedStep)
	if consumed != 2 {
		t.Fatalf("expected 2x speed to double ticks for one FixedStep of elapsed time, got %d", consumed)
	}
}

func TestZeroOrNegativeScaleFallsBackToRealTime(t *testing.T) {
	ticks := 0
	s := New(func() { ticks++ })
	s.SetSpeed(0)
	s.SetSimulationSpeed(0)

	consumed := s.Advance(FixedStep)
	if consumed != 1 {
		t.Fatalf("expected non-positive scale to fall back to 1x, got %d ticks", consumed)
	}
}

func TestUnpausedSequenceMatchesContinuousAdvance(t *testing.T) {
	var a, b []int
	sa := New(func() { a = append(a, len(a)) })
	sb := New(func() { b = append(b, len(b)) })

	sa.Advance(FixedStep * 4)

	sb.Advance(FixedStep * 2)
	sb.Advance(FixedStep * 2)

	if len(a) != len(b) {
		t.Fatalf("expected equal tick counts across different Advance call shapes, got %d vs %d", len(a), len(b))
	}
}

// TestS6PauseIdempotence is scenario S6: pausing for N host frames at a
// tick boundary, then resuming, must yield the same tick sequence from
// that point on as a scheduler that never paused at all. Frames spent
// paused consume no ticks and leave no accumulator residue for Resume to
// carry forward.
func TestS6PauseIdempotence(t *testing.T) {
	var never, withPause []int
	sNever := New(func() { never = append(never, len(never)) })
	sPaused := New(func() { withPause = append(withPause, len(withPause)) })

	sNever.Advance(FixedStep * 5)
	sPaused.Advance(FixedStep * 5)

	sPaused.Pause()
	for i := 0; i < 20; i++ {
		if consumed := sPaused.Advance(FixedStep); consumed != 0 {
			t.Fatalf("expected 0 ticks consumed while paused, got %d", consumed)
		}
	}
	sPaused.Resume()

	sNever.Advance(FixedStep * 5)
	sPaused.Advance(FixedStep * 5)

	if len(never) != len(withPause) {
		t.Fatalf("expected equal tick counts with and without an intervening pause, got %d vs %d", len(never), len(withPause))
	}
	for i := range never {
		if never[i] != withPause[i] {
			t.Fatalf("tick sequence diverged at index %d: %d vs %d", i, never[i], withPause[i])
		}
	}
}
