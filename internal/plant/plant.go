// Package plant advances per-tile biomass growth/decay (§4.4). It holds no
// species-level state; all plant presence is represented by
// worldstate.World.PlantBiomass.
package plant

import (
	"github.com/biotica/biotica/internal/rng"
	"github.com/biotica/biotica/internal/worldstate"
)

// Tuning carries the subset of SimTuning this subsystem reads.
type Tuning struct {
	BaseGrowth float64
	MaxBiomass uint8
	Decay      float64
}

// Updater tracks the deterministic budgeted sweep cursor, mirroring
// environment.Updater's discipline so both subsystems divide work the same
// way.
type Updater struct {
	cursor int
}

func NewUpdater() *Updater { return &Updater{} }

func (u *Updater) State() int        { return u.cursor }
func (u *Updater) SetState(c int)    { u.cursor = c }

// Step grows/decays biomass for up to budgetCells tiles. rng is accepted
// for signature symmetry but unused: growth is a pure function of
// fertility/humidity, matching the deterministic formula in §4.4.
func (u *Updater) Step(w *worldstate.World, r *rng.Stream, tick int, budgetCells int, t Tuning) {
	_ = r
	_ = tick
	n := w.Width * w.Height
	if n == 0 {
		return
	}
	if budgetCells <= 0 || budgetCells > n {
		budgetCells = n
	}
	for i := 0; i < budgetCells; i++ {
		idx := (u.cursor + i) % n
		stepCell(w, idx, t)
	}
	u.cursor = (u.cursor + budgetCells) % n
}

func stepCell(w *worldstate.World, idx int, t Tuning) {
	biome := w.Tiles[idx]
	current := float64(w.PlantBiomass[idx])

	growth := 0.0
	if !biome.BlocksPlantGrowth() {
		growth = growthFor(biome, float64(w.Fertility[idx])/255, float64(w.Humidity[idx])/255, t.BaseGrowth)
	}
	decay := current * t.Decay

	next := current + growth - decay
	maxB := float64(t.MaxBiomass)
	if maxB <= 0 {
		maxB = 255
	}
	if next < 0 {
		next = 0
	}
	if next > maxB {
		next = maxB
	}
	w.PlantBiomass[idx] = uint8(next)
}

// SeedInitialBiomass bootstraps every growable tile's starting biomass to a
// fraction of its biome's max, scaled by density ∈ [0,1] (§6.3's
// create-world treeDensity). Called once at world creation, never mid-run.
func SeedInitialBiomass(w *worldstate.World, density float64) {
	if density < 0 {
		density = 0
	}
	if density > 1 {
		density = 1
	}
	for idx, biome := range w.Tiles {
		if biome.BlocksPlantGrowth() {
			continue
		}
		mult := biomeGrowthMultiplier(biome)
		seeded := 255 * mult * density
		if seeded < 0 {
			seeded = 0
		}
		if seeded > 255 {
			seeded = 255
		}
		w.PlantBiomass[idx] = uint8(seeded)
	}
}

// growthFor scales base growth by fertility and humidity, with a small
// per-biome multiplier reflecting how hospitable the biome is to plants.
func growthFor(b worldstate.Biome, fertility, humidity, base float64) float64 {
	mult := biomeGrowthMultiplier(b)
	return base * mult * (0.4 + 0.6*fertility) * (0.3 + 0.7*humidity)
}

func biomeGrowthMultiplier(b worldstate.Biome) float64 {
	switch b {
	case worldstate.Jungle:
		return 1.6
	case worldstate.Forest:
		return 1.3
	case worldstate.Grassland:
		return 1.1
	case worldstate.Swamp:
		return 1.0
	case worldstate.Savanna:
		return 0.7
	case worldstate.Beach:
		return 0.3
	case worldstate.Hills:
		return 0.5
	case worldstate.Desert:
		return 0.05
	default:
		return 0.0
	}
}
