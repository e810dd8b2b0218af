// Package scheduler implements the fixed-step accumulator tick loop (§4.9):
// 20 ticks/second, speed-scaled wall clock, capped steps per frame, with
// pause/resume semantics that never produce a different tick sequence than
// running unpaused (§8 scenario S6).
package scheduler

import "time"

// FixedStepMS is the simulation's fixed tick duration (§4.9).
const FixedStepMS = 50

// FixedStep is FixedStepMS as a time.Duration.
const FixedStep = FixedStepMS * time.Millisecond

// MaxStepsPerFrame bounds how many ticks one Advance call may consume, to
// avoid a spiral of death when the host falls behind (§4.9).
const MaxStepsPerFrame = 6

// TickFunc advances the kernel by exactly one tick.
type TickFunc func()

// Scheduler owns the accumulator and pause state. It never calls TickFunc
// concurrently with itself; Advance is meant to be called from one host
// loop goroutine.
type Scheduler struct {
	tick            TickFunc
	accumulator     time.Duration
	paused          bool
	speedMultiplier float64
	simulationSpeed float64
	ticksRun        int
}

// AllowedSpeeds is the closed set of speed multipliers the run surface may
// select (§6.3).
var AllowedSpeeds = []float64{0.25, 0.5, 1, 2, 5, 10}

// New builds a scheduler at 1x speed, unpaused.
func New(tick TickFunc) *Scheduler {
	return &Scheduler{tick: tick, speedMultiplier: 1, simulationSpeed: 1}
}

// Pause stops ticks from being consumed by future Advance calls.
func (s *Scheduler) Pause() { s.paused = true }

// Resume zeroes the accumulator and resumes ticking (§4.9: "Pausing zeroes
// the accumulator on resume" — applied at Resume so a long pause never
// produces a burst of catch-up ticks).
func (s *Scheduler) Resume() {
	s.paused = false
	s.accumulator = 0
}

// IsPaused reports the current pause state.
func (s *Scheduler) IsPaused() bool { return s.paused }

// SetSpeed sets the host-controlled speed multiplier; callers should
// restrict values to AllowedSpeeds, though Advance itself does not enforce
// the closed set.
func (s *Scheduler) SetSpeed(multiplier float64) { s.speedMultiplier = multiplier }

// SetSimulationSpeed applies SimTuning's simulationSpeed factor, composed
// multiplicatively with the host speed multiplier (§4.9).
func (s *Scheduler) SetSimulationSpeed(v float64) { s.simulationSpeed = v }

// TicksRun returns the total number of ticks consumed since construction.
func (s *Scheduler) TicksRun() int { return s.ticksRun }

// Advance consumes elapsed wall-clock time, scaled by speed, and calls
// TickFunc once per fixed step, up to MaxStepsPerFrame times. Returns the
// number of ticks actually consumed this call.
func (s *Scheduler) Advance(elapsed time.Duration) int {
	if s.paused {
		return 0
	}
	scale := s.speedMultiplier * s.simulationSpeed
	if scale <= 0 {
		scale = 1
	}
	s.accumulator += time.Duration(float64(elapsed) * scale)

	steps := 0
	for s.accumulator >= FixedStep && steps < MaxStepsPerFrame {
		s.tick()
		s.accumulator -= FixedStep
		steps++
		s.ticksRun++
	}
	if steps == MaxStepsPerFrame {
		// Dropped catch-up time rather than spiraling: the remaining
		// accumulator carries over, rather than compounding every frame.
		if s.accumulator > FixedStep*MaxStepsPerFrame {
			s.accumulator = FixedStep * MaxStepsPerFrame
		}
	}
	return steps
}
