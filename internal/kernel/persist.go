package kernel

import (
	"time"

	"github.com/biotica/biotica/internal/items"
	"github.com/biotica/biotica/internal/rng"
	"github.com/biotica/biotica/internal/save"
)

// Save assembles a save.Record from every subsystem's exported state and
// encodes it (§4.10). savedAt is supplied by the caller since the kernel
// itself never reads the wall clock. Every independently-advancing RNG
// stream and budgeted-sweep cursor is captured alongside tick, not just
// domain state: re-deriving the forked streams from mainRNG alone would
// reconstruct each at its INITIAL fork state rather than its current
// advanced one, breaking the round-trip invariant (§8).
func (k *Kernel) Save(savedAt time.Time) ([]byte, error) {
	rec := save.Record{
		Seed:           k.World.Seed,
		Tick:           k.World.Tick,
		Tuning:         k.Tuning,
		World:          *k.World,
		ItemCatalogSrc: items.DefaultCatalogSource,

		RNG: save.RNGState{
			Main:    k.mainRNG.State(),
			Terrain: k.terrainRNG.State(),
			Species: k.speciesRNG.State(),
			Civ:     k.civRNG.State(),
			Event:   k.eventRNG.State(),
			Item:    k.itemRNG.State(),
		},
		EnvironmentCursor: k.envUpdater.State(),
		PlantCursor:       k.plantUpdater.State(),

		Species:   k.Species.Export(),
		Creatures: k.Creatures.Export(),
		Civ:       k.Civ.Export(),
		Crafting:  k.Crafting.Export(),
		Events:    k.Events.Export(),
		Log:       k.Log.Export(),
	}
	return save.Encode(rec, savedAt)
}

// Load decodes blob and replaces every subsystem's state with the saved
// record's (§4.10 round-trip invariant). On any decode failure, the
// kernel's current state is left completely untouched (§6.2).
func (k *Kernel) Load(blob []byte) error {
	rec, err := save.Decode(blob)
	if err != nil {
		return err
	}

	w := rec.World
	k.World = &w
	k.Tuning = rec.Tuning

	k.mainRNG = rng.New(rec.RNG.Main)
	k.mainRNG.SetState(rec.RNG.Main)
	k.terrainRNG = rng.New(rec.RNG.Terrain)
	k.terrainRNG.SetState(rec.RNG.Terrain)
	k.speciesRNG = rng.New(rec.RNG.Species)
	k.speciesRNG.SetState(rec.RNG.Species)
	k.civRNG = rng.New(rec.RNG.Civ)
	k.civRNG.SetState(rec.RNG.Civ)
	k.eventRNG = rng.New(rec.RNG.Event)
	k.eventRNG.SetState(rec.RNG.Event)
	k.itemRNG = rng.New(rec.RNG.Item)
	k.itemRNG.SetState(rec.RNG.Item)

	k.envUpdater.SetState(rec.EnvironmentCursor)
	k.plantUpdater.SetState(rec.PlantCursor)

	k.Species.Restore(rec.Species)
	k.Creatures.Restore(rec.Creatures)
	k.Civ.Restore(rec.Civ)
	k.Crafting.Restore(rec.Crafting)
	k.Events.Restore(rec.Events)
	k.Log.Restore(rec.Log)
	return nil
}
