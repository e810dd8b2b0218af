// Package kernel orchestrates every subsystem into the fixed per-tick data
// flow: EventSystem → EnvironmentUpdater → PlantSystem → CreatureSystem →
// CivSystem → EventLog/snapshot delta (§2). It is the only place that
// knows the full wiring; every subsystem package stays decoupled from its
// neighbors.
package kernel

import (
	"time"

	"github.com/biotica/biotica/internal/civ"
	"github.com/biotica/biotica/internal/config"
	"github.com/biotica/biotica/internal/creature"
	"github.com/biotica/biotica/internal/environment"
	"github.com/biotica/biotica/internal/event"
	"github.com/biotica/biotica/internal/eventlog"
	"github.com/biotica/biotica/internal/genesis"
	"github.com/biotica/biotica/internal/genome"
	"github.com/biotica/biotica/internal/items"
	"github.com/biotica/biotica/internal/plant"
	"github.com/biotica/biotica/internal/rng"
	"github.com/biotica/biotica/internal/save"
	"github.com/biotica/biotica/internal/snapshot"
	"github.com/biotica/biotica/internal/terrain"
	"github.com/biotica/biotica/internal/worldstate"
)

// environmentBudget and plantBudget bound the per-tick sweep cost
// independently of world size (§4.3/§4.4).
const (
	environmentBudgetCells = 2048
	plantBudgetCells       = 2048
	initialPopulation      = 40
)

// Kernel owns the world and every subsystem, and is the single-writer for
// all of it (§5). Exactly one goroutine may call Step.
type Kernel struct {
	World  *worldstate.World
	Tuning config.Tuning

	mainRNG    *rng.Stream
	terrainRNG *rng.Stream
	speciesRNG *rng.Stream
	civRNG     *rng.Stream
	eventRNG   *rng.Stream
	itemRNG    *rng.Stream

	Params CreateParams

	Species   *genome.Registry
	Creatures *creature.System
	Civ       *civ.System
	Events    *event.System
	Log       *eventlog.Log

	ItemCatalog *items.Catalog
	Crafting    *items.Evolution

	envUpdater   *environment.Updater
	plantUpdater *plant.Updater

	snapshotBuilder *snapshot.Builder
	lastOverlay     event.Overlay

	Tokens     genesis.Tokens
	resetToken genesis.Token
}

// New builds a fresh kernel at the given seed and dimensions, generating
// terrain, bootstrapping environment fields, seeding the item catalog, and
// spawning the initial population (§4.1-§4.7).
func New(seed int32, width, height int, tuning config.Tuning, params CreateParams) *Kernel {
	w := worldstate.New(width, height, seed)
	terrainParams := terrain.DefaultParams
	terrainParams.PlaceVolcano = params.VolcanoCount > 0
	terrain.Generate(w, terrainParams)
	environment.Bootstrap(w)
	plant.SeedInitialBiomass(w, params.TreeDensity)

	k := &Kernel{
		World:        w,
		Tuning:       tuning,
		Params:       params,
		mainRNG:      rng.New(uint32(seed)),
		Species:      genome.NewRegistry(seed),
		Creatures:    creature.NewSystem(),
		Events:       event.NewSystem(),
		Log:          eventlog.New(5000),
		envUpdater:   environment.NewUpdater(),
		plantUpdater: plant.NewUpdater(),
		snapshotBuilder: snapshot.NewBuilder(),
	}
	k.deriveStreams()

	catalog, recipes, err := items.NewCatalog(items.DefaultCatalogSource)
	if err != nil {
		panic("kernel: default item catalog failed to parse: " + err.Error())
	}
	k.ItemCatalog = catalog
	k.Crafting = items.NewEvolution(catalog, recipes)
	k.Civ = civ.NewSystem(w, k.Crafting)

	k.resetToken = k.Tokens.Next()
	k.seedInitialPopulation()
	return k
}

// deriveStreams forks every subsystem's independent RNG stream from the
// main stream using the named seed constants of §3.1.
func (k *Kernel) deriveStreams() {
	k.terrainRNG = k.mainRNG.Fork(worldstate.TerrainSeedConstant)
	k.speciesRNG = k.mainRNG.Fork(worldstate.SpeciesSeedConstant)
	k.civRNG = k.mainRNG.Fork(worldstate.CivSeedConstant)
	k.eventRNG = k.mainRNG.Fork(worldstate.EventSeedConstant)
	k.itemRNG = k.mainRNG.Fork(worldstate.ItemSeedConstant)
}

// seedInitialPopulation spawns initialPopulation creatures with random
// genomes at random in-bounds, growable tiles, assigning each a species.
func (k *Kernel) seedInitialPopulation() {
	for i := 0; i < initialPopulation; i++ {
		x, y := k.randomHabitableTile()
		g := genome.Random(k.speciesRNG)
		sp := k.Species.AssignSpecies(g, 0, k.speciesRNG)
		c := k.Creatures.Spawn(g, x, y, 0)
		c.SpeciesID = sp.ID
	}
}

func (k *Kernel) randomHabitableTile() (int, int) {
	for attempt := 0; attempt < 64; attempt++ {
		x := k.speciesRNG.NextInt(k.World.Width)
		y := k.speciesRNG.NextInt(k.World.Height)
		if !k.World.Tiles[k.World.Index(x, y)].BlocksPlantGrowth() {
			return x, y
		}
	}
	return k.World.Width / 2, k.World.Height / 2
}

// Step advances the kernel by exactly one tick, in the fixed order of §2.
// wallClock is used only for log metadata (§5 determinism requirement);
// it never influences simulation state.
func (k *Kernel) Step(wallClock time.Time) {
	tick := k.World.Tick

	overlay := k.Events.Step(k.World, k.eventRNG, tick, event.Tuning{EventRate: k.Tuning.EventRate})

	k.envUpdater.Step(k.World, k.mainRNG, tick, environmentBudgetCells, environment.Tuning{
		HazardDecayRate: 0.02,
	})

	k.plantUpdater.Step(k.World, k.mainRNG, tick, plantBudgetCells, plant.Tuning{
		BaseGrowth: k.Tuning.PlantBaseGrowth,
		MaxBiomass: uint8(clampByte(k.Tuning.PlantMaxBiomass)),
		Decay:      k.Tuning.PlantDecay,
	})

	migrationActive, migrationIntensity := k.Events.ActiveMigration()
	k.Creatures.Step(k.World, k.mainRNG, k.Species, k.Log, tick, wallClock, creature.Tuning{
		BaseMetabolism:        k.Tuning.BaseMetabolism,
		ReproductionThreshold: k.Tuning.ReproductionThreshold,
		ReproductionCost:      k.Tuning.ReproductionCost,
		MutationRate:          k.Tuning.MutationRate,
		EnableGeneAgent:       k.Params.EnableGeneAgent,
		EnablePredators:       k.Params.EnablePredators,
	}, creature.MigrationPressure{Active: migrationActive, Intensity: migrationIntensity})

	if k.Params.EnableCivs {
		for _, f := range k.Civ.Factions() {
			k.Crafting.StepFaction(f.ID, int(f.TechLevel), k.itemRNG, tick)
		}
		k.Civ.Step(k.World, k.civRNG, k.Log, tick, k.cognitionSamples())
	}

	k.lastOverlay = overlay
	k.World.Tick++
}

func clampByte(v float64) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return int(v)
}

// cognitionSamples derives one CognitionSample per species from its
// centroid's current living population, using the average position of
// that species' living creatures as the candidate faction's home tile
// (§4.8.8's "awakening" trigger needs a location, which Species itself
// does not carry).
func (k *Kernel) cognitionSamples() []civ.CognitionSample {
	sumX := map[string]int{}
	sumY := map[string]int{}
	count := map[string]int{}
	for _, c := range k.Creatures.All() {
		sumX[c.SpeciesID] += c.X
		sumY[c.SpeciesID] += c.Y
		count[c.SpeciesID]++
	}

	var out []civ.CognitionSample
	for _, sp := range k.Species.All() {
		n := count[sp.ID]
		if n == 0 {
			continue
		}
		out = append(out, civ.CognitionSample{
			SpeciesID:      sp.ID,
			CognitionScore: sp.CognitionScore,
			CentroidX:      sumX[sp.ID] / n,
			CentroidY:      sumY[sp.ID] / n,
		})
	}
	return out
}

// Snapshot builds the immutable external projection of the current tick
// (§5).
func (k *Kernel) Snapshot() snapshot.Snapshot {
	return k.snapshotBuilder.Build(k.World.Tick, snapshot.Inputs{
		World:        k.World,
		Population:   k.Creatures.Count(),
		SpeciesCount: len(k.Species.All()),
		FactionCount: len(k.Civ.Factions()),
		ActiveEvents: len(k.Events.Active),
		Overlay: snapshot.Overlay{
			StormAlpha: k.lastOverlay.StormAlpha,
			HeatAlpha:  k.lastOverlay.HeatAlpha,
			HazeAlpha:  k.lastOverlay.HazeAlpha,
		},
	})
}
