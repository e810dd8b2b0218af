// Package environment advances temperature/humidity/fertility diffusion and
// hazard decay each tick, bounded to a per-tick cell budget so cost stays
// independent of world size past a threshold (§4.3).
package environment

import (
	"github.com/ojrac/opensimplex-go"

	"github.com/biotica/biotica/internal/rng"
	"github.com/biotica/biotica/internal/worldstate"
)

// Tuning carries the subset of SimTuning this subsystem reads.
type Tuning struct {
	HazardDecayRate float64 // fraction of hazard removed per tick, (0,1)
}

// Bootstrap seeds initial fertility/hazard texture from an opensimplex
// field decorrelated from the terrain generator's Perlin field, so the two
// noise sources don't visibly correlate tile-for-tile.
func Bootstrap(w *worldstate.World) {
	noise := opensimplex.New(int64(w.Seed) ^ 0x5A17)
	for y := 0; y < w.Height; y++ {
		for x := 0; x < w.Width; x++ {
			idx := w.Index(x, y)
			if w.Tiles[idx].BlocksPlantGrowth() {
				continue
			}
			v := (noise.Eval2(float64(x)*0.12, float64(y)*0.12) + 1) / 2
			boosted := int(w.Fertility[idx]) + int(v*40) - 20
			if boosted < 0 {
				boosted = 0
			}
			if boosted > 255 {
				boosted = 255
			}
			w.Fertility[idx] = uint8(boosted)
		}
	}
}

// cellStride is the deterministic step used to cycle through cells across
// ticks so that, given enough ticks, every cell is eventually visited even
// when budgetCells caps the per-tick work (§4.3).
const cellStride = 1

// cursor is process-local deterministic state tracking which cell to start
// the budgeted sweep from. It is exported via State/SetState for save
// round-tripping.
type Updater struct {
	cursor int
}

// NewUpdater creates an Updater starting its sweep at cell 0.
func NewUpdater() *Updater { return &Updater{} }

// State returns the sweep cursor for save serialization.
func (u *Updater) State() int { return u.cursor }

// SetState restores the sweep cursor from a save record.
func (u *Updater) SetState(cursor int) { u.cursor = cursor }

// Step performs up to budgetCells diffusion/decay updates, cycling through
// the grid via a deterministic stride from the saved cursor. rng is
// accepted for interface symmetry with other subsystems' Step signatures;
// diffusion itself is deterministic arithmetic and does not consume it.
func (u *Updater) Step(w *worldstate.World, r *rng.Stream, tick int, budgetCells int, t Tuning) {
	_ = r
	n := w.Width * w.Height
	if n == 0 {
		return
	}
	if budgetCells <= 0 || budgetCells > n {
		budgetCells = n
	}
	for i := 0; i < budgetCells; i++ {
		idx := (u.cursor + i*cellStride) % n
		diffuseCell(w, idx)
		decayHazard(w, idx, t.HazardDecayRate)
	}
	u.cursor = (u.cursor + budgetCells) % n
}

// diffuseCell averages a tile's temperature/humidity/fertility against its
// up-to-8 neighbors (3x3 neighborhood average, per §4.3), clamped to byte
// range. Edge tiles average over however many in-bounds neighbors exist.
func diffuseCell(w *worldstate.World, idx int) {
	x := idx % w.Width
	y := idx / w.Width

	var tempSum, humSum, fertSum, count int
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			nx, ny := x+dx, y+dy
			if !w.InBounds(nx, ny) {
				continue
			}
			nIdx := w.Index(nx, ny)
			tempSum += int(w.Temperature[nIdx])
			humSum += int(w.Humidity[nIdx])
			fertSum += int(w.Fertility[nIdx])
			count++
		}
	}
	if count == 0 {
		return
	}
	// Blend the averaged neighborhood with the current value rather than
	// replacing it outright, so diffusion is gradual instead of instant.
	const blend = 4
	w.Temperature[idx] = blendByte(w.Temperature[idx], tempSum, count, blend)
	w.Humidity[idx] = blendByte(w.Humidity[idx], humSum, count, blend)
	w.Fertility[idx] = blendByte(w.Fertility[idx], fertSum, count, blend)
}

func blendByte(current uint8, sum, count, blendDivisor int) uint8 {
	avg := sum / count
	blended := (int(current)*(blendDivisor-1) + avg) / blendDivisor
	if blended < 0 {
		return 0
	}
	if blended > 255 {
		return 255
	}
	return uint8(blended)
}

func decayHazard(w *worldstate.World, idx int, rate float64) {
	if rate <= 0 {
		return
	}
	current := float64(w.Hazard[idx])
	decayed := current * (1 - rate)
	if decayed < 0 {
		decayed = 0
	}
	w.Hazard[idx] = uint8(decayed)
}
