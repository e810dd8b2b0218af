package creature

import (
	"testing"
	"time"

	"github.com/biotica/biotica/internal/eventlog"
	"github.com/biotica/biotica/internal/genome"
	"github.com/biotica/biotica/internal/rng"
	"github.com/biotica/biotica/internal/worldstate"
)

func newTestWorld() *worldstate.World {
	w := worldstate.New(20, 20, 1)
	for i := range w.Tiles {
		w.Tiles[i] = worldstate.Grassland
		w.PlantBiomass[i] = 200
		w.Fertility[i] = 200
		w.Humidity[i] = 150
		w.Temperature[i] = 150
	}
	return w
}

func testTuning() Tuning {
	return Tuning{BaseMetabolism: 1, ReproductionThreshold: 0.6, ReproductionCost: 0.3, MutationRate: 0.1}
}

func TestPopulationConservation(t *testing.T) {
	w := newTestWorld()
	sys := NewSystem()
	reg := genome.NewRegistry(1)
	log := eventlog.New(5000)
	r := rng.New(1)

	for i := 0; i < 30; i++ {
		g := genome.Random(r)
		c := sys.Spawn(g, r.NextInt(20), r.NextInt(20), 0)
		sp := reg.AssignSpecies(g, 0, r)
		c.SpeciesID = sp.ID
	}

	for tick := 1; tick <= 200; tick++ {
		sys.Step(w, r, reg, log, tick, time.Time{}, testTuning(), MigrationPressure{})

		total := sys.Count()
		sum := 0
		for _, sp := range reg.All() {
			sum += sp.Population
		}
		if sum != total {
			t.Fatalf("tick %d: population conservation violated: sum(species)=%d != |creatures|=%d", tick, sum, total)
		}
	}
}

func TestGenomeBoundsStayValidAcrossTicks(t *testing.T) {
	w := newTestWorld()
	sys := NewSystem()
	reg := genome.NewRegistry(2)
	log := eventlog.New(5000)
	r := rng.New(5)

	for i := 0; i < 20; i++ {
		g := genome.Random(r)
		c := sys.Spawn(g, r.NextInt(20), r.NextInt(20), 0)
		sp := reg.AssignSpecies(g, 0, r)
		c.SpeciesID = sp.ID
	}

	for tick := 1; tick <= 150; tick++ {
		sys.Step(w, r, reg, log, tick, time.Time{}, testTuning(), MigrationPressure{})
		for _, c := range sys.All() {
			g := c.Genome
			for name, b := range genome.FieldBounds {
				var v float64
				switch name {
				case "MetabolismRate":
					v = g.MetabolismRate
				case "MoveCost":
					v = g.MoveCost
				case "PreferredTemp":
					v = g.PreferredTemp
				case "TempTolerance":
					v = g.TempTolerance
				case "PreferredHumidity":
					v = g.PreferredHumidity
				case "HumidityTolerance":
					v = g.HumidityTolerance
				case "Aggression":
					v = g.Aggression
				case "ReproductionThreshold":
					v = g.ReproductionThreshold
				case "ReproductionCost":
					v = g.ReproductionCost
				case "Efficiency":
					v = g.Efficiency
				case "MaxEnergy":
					v = g.MaxEnergy
				}
				if v < b.Min || v > b.Max {
					t.Fatalf("tick %d: creature %d field %s out of bounds: %f not in [%f,%f]", tick, c.ID, name, v, b.Min, b.Max)
				}
			}
			if c.Genome.PerceptionRadius < 1 || c.Genome.PerceptionRadius > 6 {
				t.Fatalf("perception radius out of bounds: %d", c.Genome.PerceptionRadius)
			}
		}
	}
}

func TestDeathsAppliedAfterPassKeepsStableIteration(t *testing.T) {
	w := newTestWorld()
	// No food anywhere, so the zero-energy creature cannot eat before the
	// end-of-tick death check.
	for i := range w.PlantBiomass {
		w.PlantBiomass[i] = 0
	}
	sys := NewSystem()
	reg := genome.NewRegistry(3)
	log := eventlog.New(5000)
	r := rng.New(9)

	g := genome.Random(r)
	g.MaxEnergy = 10
	c := sys.Spawn(g, 5, 5, 0)
	c.Energy = 0
	sp := reg.AssignSpecies(g, 0, r)
	c.SpeciesID = sp.ID

	sys.Step(w, r, reg, log, 1, time.Time{}, testTuning(), MigrationPressure{})
	if sys.Count() != 0 {
		t.Fatalf("expected starved creature to be removed")
	}
}

func TestBornCreaturesDoNotActSameTick(t *testing.T) {
	w := newTestWorld()
	sys := NewSystem()
	reg := genome.NewRegistry(4)
	log := eventlog.New(5000)
	r := rng.New(13)

	g := genome.Random(r)
	g.ReproductionThreshold = 0.1
	g.ReproductionCost = 0.05
	g.MaxAge = 5000
	a := sys.Spawn(g, 5, 5, 0)
	a.Energy = g.MaxEnergy
	a.Age = minBreedAge + 1
	sp := reg.AssignSpecies(g, 0, r)
	a.SpeciesID = sp.ID

	b := sys.Spawn(g, 5, 6, 0)
	b.Energy = g.MaxEnergy
	b.Age = minBreedAge + 1
	b.SpeciesID = sp.ID

	before := sys.Count()
	sys.Step(w, r, reg, log, 1, time.Time{}, testTuning(), MigrationPressure{})
	after := sys.Count()
	if after < before {
		t.Fatalf("population should not shrink from a reproduction tick")
	}

	for _, c := range sys.All() {
		if c.BornTick == 1 && c.Age != 0 {
			t.Fatalf("a creature born this tick must not have aged yet")
		}
	}
}
