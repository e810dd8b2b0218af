// Package creature implements individual fauna: perception, decision,
// movement, feeding, reproduction, and death (§4.7).
package creature

import (
	"github.com/biotica/biotica/internal/genome"
)

// Creature is one living fauna individual (§3.4).
type Creature struct {
	ID              int
	SpeciesID       string
	Name            string
	Energy          float64
	Health          float64
	Hydration       float64
	WaterNeed       float64
	Age             int
	MaxAge          int
	X, Y            int
	Generation      int
	ParentIDs       [2]int // 0 = none
	Genome          genome.Genome
	TempStress      float64
	HumidityStress  float64
	Description     string // non-authoritative, optional

	BornTick        int
	LastActionTick  int

	dead            bool
	deathCause      string
	lastMoved       bool
	successfulHunts int
}

// IsDead reports whether this creature was marked for removal this tick.
func (c *Creature) IsDead() bool { return c.dead }

// DeathCause returns the reason this creature died, if any.
func (c *Creature) DeathCause() string { return c.deathCause }

func (c *Creature) markDead(cause string) {
	c.dead = true
	c.deathCause = cause
}

// minBreedAge gates reproduction eligibility (§4.7 decision step 3).
const minBreedAge = 20

var namePool = []string{
	"Aki", "Bolo", "Cira", "Doran", "Eshe", "Finn", "Gala", "Haru", "Ira",
	"Juno", "Kael", "Lira", "Moro", "Nyx", "Oda", "Pira", "Quin", "Rua",
	"Sami", "Talo",
}

func nameFor(id int) string {
	return namePool[id%len(namePool)]
}
