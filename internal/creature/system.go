package creature

import (
	"fmt"
	"time"

	"github.com/biotica/biotica/internal/eventlog"
	"github.com/biotica/biotica/internal/genome"
	"github.com/biotica/biotica/internal/rng"
	"github.com/biotica/biotica/internal/worldstate"
)

// Tuning carries the subset of SimTuning CreatureSystem reads.
type Tuning struct {
	BaseMetabolism        float64
	ReproductionThreshold float64
	ReproductionCost      float64
	MutationRate          float64
	EnableGeneAgent       bool
	EnablePredators       bool
}

// migrationSpawnChanceScale and migrationMutationRate are fixed constants
// governing how an active Migration event (§4.5) seeds new arrivals; they
// are not part of SimTuning since they describe a one-off event effect,
// not a continuously-tunable rate.
const (
	migrationSpawnChanceScale = 0.15
	migrationMutationRate     = 0.25
)

// MigrationPressure describes a temporary spawn-pressure signal fed in by
// the kernel from an active Migration event (§4.5/§9), without coupling
// CreatureSystem directly to the event package.
type MigrationPressure struct {
	Active    bool
	Intensity float64
}

// System owns the live creature population and its spatial index.
type System struct {
	creatures []*Creature // stable insertion (and roughly id-ascending) order
	byID      map[int]*Creature
	nextID    int
	index     *SpatialIndex
}

// NewSystem creates an empty creature population.
func NewSystem() *System {
	return &System{byID: make(map[int]*Creature)}
}

// Count returns the live population size.
func (s *System) Count() int { return len(s.creatures) }

// All returns the live population in stable id-ascending order.
func (s *System) All() []*Creature {
	out := make([]*Creature, len(s.creatures))
	copy(out, s.creatures)
	return out
}

// Get looks up a creature by id.
func (s *System) Get(id int) (*Creature, bool) {
	c, ok := s.byID[id]
	return c, ok
}

// Spawn creates and registers a new creature, used for initial population
// seeding. It does not assign a species; callers do that via Registry.
func (s *System) Spawn(g genome.Genome, x, y, tick int) *Creature {
	id := s.nextID
	s.nextID++
	c := &Creature{
		ID:        id,
		Name:      nameFor(id),
		Energy:    g.MaxEnergy * 0.7,
		Health:    100,
		Hydration: 80,
		WaterNeed: 0.02,
		MaxAge:    g.MaxAge,
		X:         x,
		Y:         y,
		Genome:    g,
		BornTick:  tick,
	}
	s.creatures = append(s.creatures, c)
	s.byID[id] = c
	return c
}

const perceptionCellSize = 6

// Step advances every living creature exactly once, in the stable id order
// captured at the start of the tick (§4.7, §5). Newly born creatures are
// appended to the population but never act this tick.
func (s *System) Step(
	w *worldstate.World,
	r *rng.Stream,
	reg *genome.Registry,
	log *eventlog.Log,
	tick int,
	wallClock time.Time,
	t Tuning,
	migration MigrationPressure,
) {
	s.index = NewSpatialIndex(s.creatures, w.Width, w.Height, perceptionCellSize)
	active := s.All() // snapshot: order fixed for this tick

	var toRemove []*Creature
	var born []*Creature

	for _, c := range active {
		if c.IsDead() {
			continue
		}
		perceiveAndAct(s, w, r, reg, log, wallClock, c, tick, t, &born)
		applyMetabolism(c, w, t)
		c.Age++
		c.LastActionTick = tick

		if c.Energy <= 0 {
			c.markDead("starvation")
		} else if c.Age >= c.MaxAge {
			c.markDead("old_age")
		}
	}

	// Collected after the pass so prey killed by a predator that acted
	// later in the same pass is removed and logged as well.
	for _, c := range active {
		if c.IsDead() {
			toRemove = append(toRemove, c)
		}
	}

	for _, c := range born {
		s.creatures = append(s.creatures, c)
		s.byID[c.ID] = c
	}

	s.spawnMigrants(w, r, reg, log, tick, wallClock, migration, t)

	for _, c := range toRemove {
		cause := c.DeathCause()
		log.Append(tick, wallClock, eventlog.Warn, eventlog.CategoryDeaths,
			fmt.Sprintf("%s (%s) died of %s", c.Name, c.SpeciesID, cause),
			eventlog.WithSubject(speciesOrCreature(c)),
			eventlog.WithPosition(c.X, c.Y),
			eventlog.WithPayload(map[string]interface{}{"cause": cause, "creature_id": c.ID}),
		)
	}
	s.removeDead()

	counts := map[string]int{}
	for _, c := range s.creatures {
		counts[c.SpeciesID]++
	}
	reg.SetPopulationCounts(counts)
}

// Snapshot is the serializable projection of a creature population, used by
// SaveManager (§4.10: "creature array (id, species, genome, fields)").
type Snapshot struct {
	Creatures []Creature
	NextID    int
}

// Export captures the live population for persistence. The spatial index
// and any dead-but-not-yet-removed entries are not carried: Step always
// removes dead creatures before a tick commits, so Export never observes
// them.
func (s *System) Export() Snapshot {
	out := make([]Creature, len(s.creatures))
	for i, c := range s.creatures {
		out[i] = *c
	}
	return Snapshot{Creatures: out, NextID: s.nextID}
}

// Restore replaces the live population with snap's contents, rebuilding the
// id index. The spatial index is rebuilt lazily on the next Step.
func (s *System) Restore(snap Snapshot) {
	s.creatures = make([]*Creature, len(snap.Creatures))
	s.byID = make(map[int]*Creature, len(snap.Creatures))
	for i := range snap.Creatures {
		c := snap.Creatures[i]
		s.creatures[i] = &c
		s.byID[c.ID] = &c
	}
	s.nextID = snap.NextID
	s.index = nil
}

// spawnMigrants implements the Migration event's spawn-pressure signal
// (§4.5): an active migration has a chance, scaled by its remaining
// intensity, to introduce one new arrival derived from an existing
// creature's genome rather than conjured from nothing.
func (s *System) spawnMigrants(w *worldstate.World, r *rng.Stream, reg *genome.Registry, log *eventlog.Log, tick int, wallClock time.Time, migration MigrationPressure, t Tuning) {
	if !migration.Active || len(s.creatures) == 0 {
		return
	}
	if !r.Chance(migration.Intensity * migrationSpawnChanceScale) {
		return
	}

	donor := s.creatures[r.NextRange(0, len(s.creatures)-1)]
	migrantGenome := donor.Genome
	if t.EnableGeneAgent {
		migrantGenome = genome.Mutate(migrantGenome, r, migrationMutationRate)
	}
	mx, my := freeAdjacentTile(w, donor.X, donor.Y)

	migrant := s.Spawn(migrantGenome, mx, my, tick)
	sp := reg.AssignSpecies(migrantGenome, tick, r)
	migrant.SpeciesID = sp.ID

	log.Append(tick, wallClock, eventlog.Info, eventlog.CategoryBirths,
		fmt.Sprintf("%s arrived with a migration wave (species %s)", migrant.Name, migrant.SpeciesID),
		eventlog.WithSubject(fmt.Sprintf("creature-%d", migrant.ID)),
		eventlog.WithPosition(migrant.X, migrant.Y),
		eventlog.WithPayload(map[string]interface{}{"cause": "migration"}),
	)
}

func speciesOrCreature(c *Creature) string {
	return fmt.Sprintf("creature-%d", c.ID)
}

func (s *System) removeDead() {
	kept := s.creatures[:0]
	for _, c := range s.creatures {
		if c.IsDead() {
			delete(s.byID, c.ID)
			continue
		}
		kept = append(kept, c)
	}
	s.creatures = kept
}
