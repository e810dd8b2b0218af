// Package snapshot builds the immutable per-tick projection handed to
// external observers (§5: "An immutable snapshot produced at tick commit,
// safe to hand to other threads") and streams it over a websocket.
package snapshot

import "github.com/biotica/biotica/internal/worldstate"

// Snapshot is the stable, versioned shape pushed to external observers
// (§6.4: "snapshot shape is stable and versioned").
type Snapshot struct {
	SchemaVersion int    `json:"schemaVersion"`
	Tick          int    `json:"tick"`
	WorldWidth    int    `json:"worldWidth"`
	WorldHeight   int    `json:"worldHeight"`

	Population   int     `json:"population"`
	SpeciesCount int     `json:"speciesCount"`
	FactionCount int     `json:"factionCount"`
	ActiveEvents int      `json:"activeEvents"`
	Overlay      Overlay `json:"overlay"`

	Biomes []worldstate.Biome `json:"biomes"`
}

// Overlay carries the three atmospheric alphas computed by EventSystem
// (§4.5), reproduced here purely for external renderers.
type Overlay struct {
	StormAlpha float64 `json:"stormAlpha"`
	HeatAlpha  float64 `json:"heatAlpha"`
	HazeAlpha  float64 `json:"hazeAlpha"`
}

// SchemaVersion is bumped whenever Snapshot's shape changes incompatibly.
const SchemaVersion = 1

// Inputs bundles the read-only values SnapshotBuilder needs; every field
// is a post-commit value from the owning subsystem, never touched mid-tick.
type Inputs struct {
	World        *worldstate.World
	Population   int
	SpeciesCount int
	FactionCount int
	ActiveEvents int
	Overlay      Overlay
}

// Builder produces Snapshot values. It holds no mutable kernel references;
// Build takes everything it needs as Inputs so the builder itself can be
// handed across goroutine boundaries safely.
type Builder struct{}

// NewBuilder constructs a Builder.
func NewBuilder() *Builder { return &Builder{} }

// Build deep-copies the biome field (the only per-tile field external
// viewers need for a basemap) and assembles the stable Snapshot shape.
func (b *Builder) Build(tick int, in Inputs) Snapshot {
	biomes := make([]worldstate.Biome, len(in.World.Tiles))
	copy(biomes, in.World.Tiles)

	return Snapshot{
		SchemaVersion: SchemaVersion,
		Tick:          tick,
		WorldWidth:    int(in.World.Width),
		WorldHeight:   int(in.World.Height),
		Population:    in.Population,
		SpeciesCount:  in.SpeciesCount,
		FactionCount:  in.FactionCount,
		ActiveEvents:  in.ActiveEvents,
		Overlay:       in.Overlay,
		Biomes:        biomes,
	}
}
