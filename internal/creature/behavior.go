package creature

import (
	"fmt"
	"time"

	"github.com/biotica/biotica/internal/eventlog"
	"github.com/biotica/biotica/internal/genome"
	"github.com/biotica/biotica/internal/rng"
	"github.com/biotica/biotica/internal/worldstate"
)

type perception struct {
	foodX, foodY   int
	foodFound      bool
	foodBiomass    uint8
	preyID         int
	preyFound      bool
	waterX, waterY int
	waterFound     bool
	worstHazard    uint8
}

func clampRadius(r int) int {
	if r < 1 {
		return 1
	}
	if r > 6 {
		return 6
	}
	return r
}

// perceive scans cells within perceptionRadius per §4.7 step 1.
func perceive(s *System, w *worldstate.World, c *Creature) perception {
	radius := clampRadius(c.Genome.PerceptionRadius)
	var p perception
	bestFoodDist := radius*radius + 1
	bestWaterDist := bestFoodDist
	bestPreyDist := bestFoodDist

	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			dist2 := dx*dx + dy*dy
			if dist2 > radius*radius {
				continue
			}
			x, y := c.X+dx, c.Y+dy
			if !w.InBounds(x, y) {
				continue
			}
			idx := w.Index(x, y)

			if h := w.Hazard[idx]; h > p.worstHazard {
				p.worstHazard = h
			}

			if w.Tiles[idx].IsWater() && dist2 < bestWaterDist {
				bestWaterDist = dist2
				p.waterX, p.waterY = x, y
				p.waterFound = true
			}

			if c.Genome.DietType == genome.Herbivore || c.Genome.DietType == genome.Omnivore {
				if b := w.PlantBiomass[idx]; b > 10 && dist2 < bestFoodDist {
					bestFoodDist = dist2
					p.foodX, p.foodY = x, y
					p.foodBiomass = b
					p.foodFound = true
				}
			}
		}
	}

	if c.Genome.DietType == genome.Predator || c.Genome.DietType == genome.Omnivore {
		candidates := s.index.QueryRect(s.byID, c.X-radius, c.Y-radius, c.X+radius, c.Y+radius)
		for _, id := range candidates {
			if id == c.ID {
				continue
			}
			other, ok := s.byID[id]
			if !ok || other.IsDead() {
				continue
			}
			if other.Energy >= c.Energy {
				continue
			}
			dx, dy := other.X-c.X, other.Y-c.Y
			dist2 := dx*dx + dy*dy
			if dist2 > radius*radius {
				continue
			}
			if dist2 < bestPreyDist {
				bestPreyDist = dist2
				p.preyID = other.ID
				p.preyFound = true
				if !p.foodFound || dist2 < bestFoodDist {
					bestFoodDist = dist2
					p.foodX, p.foodY = other.X, other.Y
					p.foodFound = true
				}
			}
		}
	}

	return p
}

// applyStress computes temperature/humidity stress per §4.7 step 2.
func applyStress(c *Creature, w *worldstate.World) {
	idx := w.Index(c.X, c.Y)
	tempNorm := float64(w.Temperature[idx]) / 255
	humNorm := float64(w.Humidity[idx]) / 255

	c.TempStress = posOrZero(absDiff(tempNorm, c.Genome.PreferredTemp) - c.Genome.TempTolerance)
	c.HumidityStress = posOrZero(absDiff(humNorm, c.Genome.PreferredHumidity) - c.Genome.HumidityTolerance)
}

func absDiff(a, b float64) float64 {
	if a > b {
		return a - b
	}
	return b - a
}

func posOrZero(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

// perceiveAndAct runs perception, stress, the decision tree, and the
// resulting state mutation for one creature (§4.7 steps 1-3).
func perceiveAndAct(
	s *System,
	w *worldstate.World,
	r *rng.Stream,
	reg *genome.Registry,
	log *eventlog.Log,
	wallClock time.Time,
	c *Creature,
	tick int,
	t Tuning,
	born *[]*Creature,
) {
	applyStress(c, w)
	p := perceive(s, w, c)

	moved := false
	switch {
	case c.Hydration < 25 && p.waterFound:
		moved = seekWater(c, w, p)
	case c.Energy < c.Genome.ReproductionThreshold*c.Genome.MaxEnergy*0.6 && p.foodFound:
		moved = seekFood(s, w, r, c, p)
	case canReproduce(c) && findMate(s, c, clampRadius(c.Genome.PerceptionRadius)) != 0:
		moved = attemptReproduction(s, w, r, reg, log, wallClock, c, tick, t, born)
	default:
		moved = wander(w, r, c)
	}

	c.lastMoved = moved
}

func canReproduce(c *Creature) bool {
	return c.Age > minBreedAge && c.Energy >= c.Genome.ReproductionThreshold*c.Genome.MaxEnergy
}

// findMate returns the nearest eligible same-species creature's id, or 0.
func findMate(s *System, c *Creature, radius int) int {
	candidates := s.index.QueryRect(s.byID, c.X-radius, c.Y-radius, c.X+radius, c.Y+radius)
	best := 0
	bestDist := radius*radius + 1
	for _, id := range candidates {
		if id == c.ID {
			continue
		}
		other, ok := s.byID[id]
		if !ok || other.IsDead() || other.SpeciesID != c.SpeciesID {
			continue
		}
		if !canReproduce(other) {
			continue
		}
		dx, dy := other.X-c.X, other.Y-c.Y
		dist2 := dx*dx + dy*dy
		if dist2 > radius*radius {
			continue
		}
		if dist2 < bestDist || (dist2 == bestDist && id < best) {
			bestDist = dist2
			best = id
		}
	}
	return best
}

func signOf(v int) int {
	if v > 0 {
		return 1
	}
	if v < 0 {
		return -1
	}
	return 0
}

func stepToward(w *worldstate.World, c *Creature, tx, ty int) bool {
	dx, dy := signOf(tx-c.X), signOf(ty-c.Y)
	if dx == 0 && dy == 0 {
		return false
	}
	nx, ny := c.X+dx, c.Y+dy
	if !w.InBounds(nx, ny) {
		return false
	}
	c.X, c.Y = nx, ny
	return true
}

func seekWater(c *Creature, w *worldstate.World, p perception) bool {
	if c.X == p.waterX && c.Y == p.waterY {
		c.Hydration += 40
		if c.Hydration > 100 {
			c.Hydration = 100
		}
		return false
	}
	return stepToward(w, c, p.waterX, p.waterY)
}

// predationPressureThreshold is how many successful hunts a parent needs
// before its offspring can be promoted to Predator (§4.7, EnablePredators).
const predationPressureThreshold = 5

const adjacentRange = 1

func isAdjacent(ax, ay, bx, by int) bool {
	dx, dy := ax-bx, ay-by
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return dx <= adjacentRange && dy <= adjacentRange
}

func seekFood(s *System, w *worldstate.World, r *rng.Stream, c *Creature, p perception) bool {
	if isAdjacent(c.X, c.Y, p.foodX, p.foodY) {
		feed(s, w, r, c, p)
		return false
	}
	return stepToward(w, c, p.foodX, p.foodY)
}

func feed(s *System, w *worldstate.World, r *rng.Stream, c *Creature, p perception) {
	if (c.Genome.DietType == genome.Predator || c.Genome.DietType == genome.Omnivore) && p.preyFound {
		prey, ok := s.byID[p.preyID]
		if ok && !prey.IsDead() && isAdjacent(c.X, c.Y, prey.X, prey.Y) {
			if r.Chance(0.2 + 0.6*c.Genome.Aggression) {
				gained := prey.Energy * 0.6
				c.Energy += gained * c.Genome.Efficiency
				prey.markDead("predation")
				c.successfulHunts++
			} else {
				c.Energy -= 5
			}
			if c.Energy > c.Genome.MaxEnergy {
				c.Energy = c.Genome.MaxEnergy
			}
			return
		}
	}

	idx := w.Index(p.foodX, p.foodY)
	biomass := w.PlantBiomass[idx]
	if biomass == 0 {
		return
	}
	eaten := biomass
	if eaten > 40 {
		eaten = 40
	}
	w.PlantBiomass[idx] = biomass - eaten
	c.Energy += float64(eaten) * c.Genome.Efficiency
	if c.Energy > c.Genome.MaxEnergy {
		c.Energy = c.Genome.MaxEnergy
	}
}

func wander(w *worldstate.World, r *rng.Stream, c *Creature) bool {
	dx := r.NextRange(-1, 1)
	dy := r.NextRange(-1, 1)
	if dx == 0 && dy == 0 {
		return false
	}
	nx, ny := c.X+dx, c.Y+dy
	if !w.InBounds(nx, ny) {
		return false
	}
	c.X, c.Y = nx, ny
	return true
}

// attemptReproduction implements §4.7 step 3's third priority branch.
func attemptReproduction(
	s *System,
	w *worldstate.World,
	r *rng.Stream,
	reg *genome.Registry,
	log *eventlog.Log,
	wallClock time.Time,
	c *Creature,
	tick int,
	t Tuning,
	born *[]*Creature,
) bool {
	radius := clampRadius(c.Genome.PerceptionRadius)
	mateID := findMate(s, c, radius)
	if mateID == 0 {
		return wander(w, r, c)
	}
	mate := s.byID[mateID]
	if !isAdjacent(c.X, c.Y, mate.X, mate.Y) {
		return stepToward(w, c, mate.X, mate.Y)
	}

	offspringGenome := genome.Blend(c.Genome, mate.Genome)
	if t.EnableGeneAgent {
		offspringGenome = genome.Mutate(offspringGenome, r, t.MutationRate)
	}
	if t.EnablePredators && offspringGenome.DietType != genome.Predator {
		if c.successfulHunts >= predationPressureThreshold || mate.successfulHunts >= predationPressureThreshold {
			offspringGenome = genome.PromoteToPredator(offspringGenome)
		}
	}

	c.Energy -= c.Genome.ReproductionCost * c.Genome.MaxEnergy
	mate.Energy -= mate.Genome.ReproductionCost * mate.Genome.MaxEnergy
	if c.Energy < 0 {
		c.Energy = 0
	}
	if mate.Energy < 0 {
		mate.Energy = 0
	}

	ox, oy := freeAdjacentTile(w, c.X, c.Y)
	child := s.spawnOffspring(offspringGenome, ox, oy, tick, c, mate)
	*born = append(*born, child)

	speciesCountBefore := len(reg.All())
	sp := reg.AssignSpecies(offspringGenome, tick, r)
	child.SpeciesID = sp.ID
	newSpecies := len(reg.All()) > speciesCountBefore
	LogBirth(log, tick, wallClock, child, c.ID, mate.ID, newSpecies)
	return false
}

func freeAdjacentTile(w *worldstate.World, x, y int) (int, int) {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			nx, ny := x+dx, y+dy
			if w.InBounds(nx, ny) {
				return nx, ny
			}
		}
	}
	return x, y
}

func (s *System) spawnOffspring(g genome.Genome, x, y, tick int, a, b *Creature) *Creature {
	id := s.nextID
	s.nextID++
	child := &Creature{
		ID:         id,
		Name:       nameFor(id),
		Energy:     g.MaxEnergy * 0.5,
		Health:     100,
		Hydration:  70,
		WaterNeed:  0.02,
		MaxAge:     g.MaxAge,
		X:          x,
		Y:          y,
		Generation: maxInt(a.Generation, b.Generation) + 1,
		ParentIDs:  [2]int{a.ID, b.ID},
		Genome:     g,
		BornTick:   tick,
	}
	return child
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// applyMetabolism implements §4.7 step 4. moved/hydration drain happen here
// because the decision step above already updated position for this tick.
func applyMetabolism(c *Creature, w *worldstate.World, t Tuning) {
	moveFactor := 0.0
	if c.lastMoved {
		moveFactor = 1.0
	}
	drain := t.BaseMetabolism * c.Genome.MetabolismRate *
		(1 + 0.5*c.TempStress + 0.4*c.HumidityStress + c.Genome.MoveCost*moveFactor)
	c.Energy -= drain
	c.Hydration -= c.Genome.MetabolismRate * 0.3

	if c.Energy < 0 {
		c.Energy = 0
	}
	if c.Hydration < 0 {
		c.Hydration = 0
	}
	if c.Hydration > 100 {
		c.Hydration = 100
	}
}

// LogBirth appends a births entry, and a speciation entry when the offspring
// founded a new species. Called from attemptReproduction during Step, once
// per offspring.
func LogBirth(log *eventlog.Log, tick int, wallClock time.Time, child *Creature, parentA, parentB int, newSpecies bool) {
	log.Append(tick, wallClock, eventlog.Info, eventlog.CategoryBirths,
		fmt.Sprintf("%s born (species %s)", child.Name, child.SpeciesID),
		eventlog.WithSubject(fmt.Sprintf("creature-%d", child.ID)),
		eventlog.WithPosition(child.X, child.Y),
		eventlog.WithPayload(map[string]interface{}{
			"parent_a": parentA, "parent_b": parentB, "generation": child.Generation,
		}),
	)
	if newSpecies {
		log.Append(tick, wallClock, eventlog.Info, eventlog.CategorySpeciation,
			fmt.Sprintf("new species %s emerged", child.SpeciesID),
			eventlog.WithSubject(fmt.Sprintf("creature-%d", child.ID)),
			eventlog.WithPosition(child.X, child.Y),
		)
	}
}
