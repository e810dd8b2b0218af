// Package event implements the environmental event state machine (§4.5):
// Scheduled -> Active -> Finished, driven by tick counters and deterministic
// RNG draws. No exception ever escapes Step; invalid states are clamped or
// reset instead of propagated (§7).
package event

import (
	"github.com/biotica/biotica/internal/rng"
	"github.com/biotica/biotica/internal/worldstate"
)

// Kind is the closed enum of event kinds. Drought/Storm/Eruption are named
// directly in spec.md; Blight and Migration fill out its "…" to give the
// closed enum real membership (§9 design note; SPEC_FULL.md §4.5).
type Kind uint8

const (
	Drought Kind = iota
	Storm
	Heatwave
	Eruption
	Blight
	Migration
	kindCount
)

func (k Kind) String() string {
	switch k {
	case Drought:
		return "drought"
	case Storm:
		return "storm"
	case Heatwave:
		return "heatwave"
	case Eruption:
		return "eruption"
	case Blight:
		return "blight"
	case Migration:
		return "migration"
	default:
		return "unknown"
	}
}

// State is the closed enum of an event's lifecycle stage.
type State uint8

const (
	Scheduled State = iota
	Active
	Finished
)

// Profile describes a kind's spawn/lifecycle parameters.
type Profile struct {
	MinDuration     int
	MaxDuration     int
	SpawnWeight     float64
	BaseIntensity   float64
	DecayPerTick    float64
	Radius          int
	SpawnCooldown   int
}

var profiles = map[Kind]Profile{
	Drought:   {MinDuration: 400, MaxDuration: 1200, SpawnWeight: 1.0, BaseIntensity: 0.8, DecayPerTick: 0.0008, Radius: 10, SpawnCooldown: 600},
	Storm:     {MinDuration: 40, MaxDuration: 160, SpawnWeight: 1.4, BaseIntensity: 1.0, DecayPerTick: 0.01, Radius: 6, SpawnCooldown: 150},
	Heatwave:  {MinDuration: 200, MaxDuration: 600, SpawnWeight: 0.9, BaseIntensity: 0.7, DecayPerTick: 0.002, Radius: 12, SpawnCooldown: 500},
	Eruption:  {MinDuration: 80, MaxDuration: 200, SpawnWeight: 0.0, BaseIntensity: 1.0, DecayPerTick: 0.01, Radius: 6, SpawnCooldown: 0},
	Blight:    {MinDuration: 150, MaxDuration: 500, SpawnWeight: 0.6, BaseIntensity: 0.6, DecayPerTick: 0.003, Radius: 8, SpawnCooldown: 400},
	Migration: {MinDuration: 60, MaxDuration: 200, SpawnWeight: 0.7, BaseIntensity: 0.5, DecayPerTick: 0.004, Radius: 14, SpawnCooldown: 300},
}

// Event is one active/scheduled/finished environmental event.
type Event struct {
	ID          int
	Kind        Kind
	State       State
	X, Y        int
	Radius      int
	StartTick   int
	Duration    int
	Elapsed     int
	Intensity   float64
}

// Overlay carries three scalar alphas purely for external atmospheric
// rendering; the kernel never reads them back (§4.5).
type Overlay struct {
	StormAlpha float64
	HeatAlpha  float64
	HazeAlpha  float64
}

// Tuning carries the subset of SimTuning this subsystem reads.
type Tuning struct {
	EventRate float64
}

const maxActiveEvents = 6

// System owns all event state for a world run.
type System struct {
	Active         []*Event
	Recent         []*Event
	nextID         int
	cooldownUntil  map[Kind]int
	maxRecent      int
}

// NewSystem creates an empty event system.
func NewSystem() *System {
	return &System{
		nextID:        1,
		cooldownUntil: make(map[Kind]int),
		maxRecent:     200,
	}
}

// Step advances active events, retires finished ones, and may spawn new
// ones, applying side effects onto world fields. It never panics or returns
// an error; failures are represented as no-ops.
func (s *System) Step(w *worldstate.World, r *rng.Stream, tick int, t Tuning) Overlay {
	s.advance(w, tick)
	s.maybeSpawn(w, r, tick, t)
	return s.computeOverlay()
}

func (s *System) advance(w *worldstate.World, tick int) {
	kept := s.Active[:0]
	for _, e := range s.Active {
		e.Elapsed++
		e.Intensity -= profiles[e.Kind].DecayPerTick
		if e.Intensity < 0 {
			e.Intensity = 0
		}
		applyEffects(w, e)

		if e.Elapsed >= e.Duration {
			e.State = Finished
			s.appendRecent(e)
			continue
		}
		kept = append(kept, e)
	}
	s.Active = kept
}

func (s *System) appendRecent(e *Event) {
	s.Recent = append(s.Recent, e)
	if len(s.Recent) > s.maxRecent {
		s.Recent = s.Recent[len(s.Recent)-s.maxRecent:]
	}
}

func (s *System) maybeSpawn(w *worldstate.World, r *rng.Stream, tick int, t Tuning) {
	if len(s.Active) >= maxActiveEvents {
		return
	}

	rate := t.EventRate
	if rate <= 0 {
		rate = 1
	}

	if w.Volcano.Active && tick >= w.Volcano.NextEruption && w.Volcano.ActiveEruption == 0 {
		s.spawnEruption(w, tick)
	}

	// Base per-tick probability of considering any non-eruption spawn.
	if !r.Chance(0.01 * rate) {
		return
	}

	candidates := make([]Kind, 0, kindCount)
	weights := make([]float64, 0, kindCount)
	for k := Kind(0); k < kindCount; k++ {
		if k == Eruption {
			continue
		}
		if tick < s.cooldownUntil[k] {
			continue
		}
		candidates = append(candidates, k)
		weights = append(weights, profiles[k].SpawnWeight)
	}
	if len(candidates) == 0 {
		return
	}

	chosen := weightedPick(r, candidates, weights)
	s.spawn(w, r, chosen, tick)
}

func weightedPick(r *rng.Stream, candidates []Kind, weights []float64) Kind {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return candidates[0]
	}
	roll := r.NextFloat() * total
	for i, w := range weights {
		roll -= w
		if roll <= 0 {
			return candidates[i]
		}
	}
	return candidates[len(candidates)-1]
}

func (s *System) spawn(w *worldstate.World, r *rng.Stream, k Kind, tick int) {
	p := profiles[k]
	x := r.NextInt(w.Width)
	y := r.NextInt(w.Height)
	duration := r.NextRange(p.MinDuration, p.MaxDuration)

	e := &Event{
		ID:        s.nextID,
		Kind:      k,
		State:     Active,
		X:         x,
		Y:         y,
		Radius:    p.Radius,
		StartTick: tick,
		Duration:  duration,
		Intensity: p.BaseIntensity,
	}
	s.nextID++
	s.Active = append(s.Active, e)
	s.cooldownUntil[k] = tick + p.SpawnCooldown
}

// spawnEruption spawns deterministically at the world's volcano anchor,
// never at an RNG-sampled location (§4.5 point 3).
func (s *System) spawnEruption(w *worldstate.World, tick int) {
	p := profiles[Eruption]
	e := &Event{
		ID:        s.nextID,
		Kind:      Eruption,
		State:     Active,
		X:         w.Volcano.X,
		Y:         w.Volcano.Y,
		Radius:    p.Radius,
		StartTick: tick,
		Duration:  (p.MinDuration + p.MaxDuration) / 2,
		Intensity: p.BaseIntensity,
	}
	s.nextID++
	s.Active = append(s.Active, e)
	w.Volcano.ActiveEruption = e.ID
	w.Volcano.NextEruption = tick + w.Volcano.MinIntervalTick
}

// applyEffects clamps to world bounds and applies the event's per-kind
// field mutation, capped to MaxLavaTiles for eruptions.
func applyEffects(w *worldstate.World, e *Event) {
	switch e.Kind {
	case Storm:
		forEachInRadius(w, e, func(idx int) {
			w.AddHumidity(idx, int(20*e.Intensity))
			w.AddHazard(idx, int(15*e.Intensity))
		})
	case Heatwave:
		forEachInRadius(w, e, func(idx int) {
			w.AddTemperature(idx, int(25*e.Intensity))
		})
	case Drought:
		forEachInRadius(w, e, func(idx int) {
			w.AddHumidity(idx, -int(20*e.Intensity))
		})
	case Blight:
		forEachInRadius(w, e, func(idx int) {
			cur := int(w.PlantBiomass[idx])
			cur -= int(10 * e.Intensity)
			if cur < 0 {
				cur = 0
			}
			w.PlantBiomass[idx] = uint8(cur)
			w.AddHazard(idx, int(5*e.Intensity))
		})
	case Eruption:
		applyEruption(w, e)
	case Migration:
		// Migration has no direct field effect; it is read by CreatureSystem
		// as a temporary spawn-pressure signal via ActiveMigration().
	}
}

func applyEruption(w *worldstate.World, e *Event) {
	maxTiles := w.Volcano.MaxLavaTiles
	if maxTiles <= 0 {
		maxTiles = 16
	}
	placed := 0
	for dy := -e.Radius; dy <= e.Radius && placed < maxTiles; dy++ {
		for dx := -e.Radius; dx <= e.Radius && placed < maxTiles; dx++ {
			if dx*dx+dy*dy > e.Radius*e.Radius {
				continue
			}
			x, y := e.X+dx, e.Y+dy
			if !w.InBounds(x, y) {
				continue
			}
			idx := w.Index(x, y)
			dist := dx*dx + dy*dy
			if dist <= 4 {
				w.SetBiome(idx, worldstate.Lava)
			} else {
				w.SetBiome(idx, worldstate.Scorched)
			}
			w.AddHazard(idx, 200)
			placed++
		}
	}
}

func forEachInRadius(w *worldstate.World, e *Event, fn func(idx int)) {
	for dy := -e.Radius; dy <= e.Radius; dy++ {
		for dx := -e.Radius; dx <= e.Radius; dx++ {
			if dx*dx+dy*dy > e.Radius*e.Radius {
				continue
			}
			x, y := e.X+dx, e.Y+dy
			if !w.InBounds(x, y) {
				continue
			}
			fn(w.Index(x, y))
		}
	}
}

// computeOverlay resets to zero if there is nothing active, per §4.5's
// failure-semantics note about invalid states.
func (s *System) computeOverlay() Overlay {
	if len(s.Active) == 0 {
		return Overlay{}
	}
	var o Overlay
	for _, e := range s.Active {
		switch e.Kind {
		case Storm:
			if e.Intensity > o.StormAlpha {
				o.StormAlpha = e.Intensity
			}
		case Heatwave:
			if e.Intensity > o.HeatAlpha {
				o.HeatAlpha = e.Intensity
			}
		case Drought, Blight, Eruption:
			if e.Intensity > o.HazeAlpha {
				o.HazeAlpha = e.Intensity
			}
		}
	}
	return o
}

// ActiveMigration reports whether a Migration event is currently active, and
// its intensity, for CreatureSystem's spawn-pressure hook.
func (s *System) ActiveMigration() (bool, float64) {
	for _, e := range s.Active {
		if e.Kind == Migration && e.State == Active {
			return true, e.Intensity
		}
	}
	return false, 0
}
