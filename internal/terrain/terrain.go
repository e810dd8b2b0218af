// Package terrain deterministically derives a biome map from (width, height,
// seed) by layering fBm octaves of Perlin noise for macro elevation/moisture
// shape, per §4.1's TerrainGenerator contract.
package terrain

import (
	"github.com/aquilax/go-perlin"

	"github.com/biotica/biotica/internal/worldstate"
)

// Params tunes the fBm fractal sum. Alpha/Beta/Octaves follow the go-perlin
// convention (persistence/lacunarity-equivalent knobs).
type Params struct {
	Alpha   float64
	Beta    float64
	Octaves int32

	// PlaceVolcano mirrors §6.3's create-world volcanoCount ∈ {0,1}: a
	// false value skips placing any volcano anchor at all.
	PlaceVolcano bool
}

// DefaultParams is the default biome-variety knob, expressed in
// noise-fractal terms.
var DefaultParams = Params{Alpha: 2.0, Beta: 2.0, Octaves: 4, PlaceVolcano: true}

// Generate fills a freshly allocated world's Tiles and bootstraps its
// environmental fields from two independent noise fields: elevation (for
// biome selection) and moisture (for initial humidity/fertility). Both are
// pure functions of (x, y, seed): identical seeds produce identical maps on
// any platform.
func Generate(w *worldstate.World, p Params) {
	elevSeed := int64(w.Seed) ^ int64(worldstate.TerrainSeedConstant)
	moistSeed := elevSeed ^ 0x9E3779B97F4A7C15

	elevation := perlin.NewPerlin(p.Alpha, p.Beta, p.Octaves, elevSeed)
	moisture := perlin.NewPerlin(p.Alpha, p.Beta, p.Octaves, moistSeed)

	for y := 0; y < w.Height; y++ {
		for x := 0; x < w.Width; x++ {
			idx := w.Index(x, y)
			e := normalize(elevation.Noise2D(float64(x)*0.08, float64(y)*0.08))
			m := normalize(moisture.Noise2D(float64(x)*0.08, float64(y)*0.08))

			w.Tiles[idx] = classify(e, m)
			w.Humidity[idx] = toByte(m)
			w.Fertility[idx] = toByte(fertilityFor(w.Tiles[idx], m))
			w.Temperature[idx] = toByte(temperatureFor(y, w.Height, e))
		}
	}

	placeVolcano(w, p)
}

// normalize maps go-perlin's roughly [-1,1] output into [0,1].
func normalize(v float64) float64 {
	out := (v + 1) / 2
	if out < 0 {
		return 0
	}
	if out > 1 {
		return 1
	}
	return out
}

func toByte(v float64) uint8 {
	scaled := v * 255
	if scaled < 0 {
		return 0
	}
	if scaled > 255 {
		return 255
	}
	return uint8(scaled)
}

// classify turns (elevation, moisture) into one of the closed biome kinds.
// Thresholds are fixed constants, not tunable, matching §3.1's closed enum.
func classify(elevation, moisture float64) worldstate.Biome {
	switch {
	case elevation < 0.28:
		return worldstate.DeepWater
	case elevation < 0.34:
		return worldstate.ShallowWater
	case elevation < 0.37:
		return worldstate.Beach
	case elevation > 0.9:
		return worldstate.Snow
	case elevation > 0.82:
		return worldstate.Mountain
	case elevation > 0.72:
		return worldstate.Hills
	}

	switch {
	case moisture > 0.8:
		return worldstate.Jungle
	case moisture > 0.6:
		return worldstate.Forest
	case moisture > 0.45:
		return worldstate.Grassland
	case moisture > 0.3:
		return worldstate.Savanna
	case moisture > 0.18:
		return worldstate.Swamp
	default:
		return worldstate.Desert
	}
}

func fertilityFor(b worldstate.Biome, moisture float64) float64 {
	if b.BlocksPlantGrowth() {
		return 0
	}
	return moisture
}

// temperatureFor applies a latitude gradient (colder near the grid's north
// and south edges) modulated by local elevation noise.
func temperatureFor(y, height int, elevation float64) float64 {
	mid := float64(height-1) / 2
	dist := 0.0
	if mid > 0 {
		dist = (mid - absf(float64(y)-mid)) / mid
	}
	return clamp01(dist*0.7 + (1-elevation)*0.3)
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// placeVolcano deterministically picks a mountainous anchor tile, or leaves
// the volcano inactive if none exists, per §3.1's optional anchor. A false
// p.PlaceVolcano (§6.3's volcanoCount=0) skips this entirely.
func placeVolcano(w *worldstate.World, p Params) {
	if !p.PlaceVolcano {
		return
	}
	for y := 0; y < w.Height; y++ {
		for x := 0; x < w.Width; x++ {
			idx := w.Index(x, y)
			if w.Tiles[idx] == worldstate.Mountain {
				w.Volcano = worldstate.VolcanoState{
					Active:          true,
					X:               x,
					Y:               y,
					MinIntervalTick: 4000,
					MaxIntervalTick: 12000,
					MaxLavaTiles:    24,
					NextEruption:    6000,
				}
				return
			}
		}
	}
}
