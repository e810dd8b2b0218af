// Package civ implements tribal civilization: factions, agents, structures,
// territory control, crafting, language, and diplomacy (§3.5, §4.8).
package civ

import (
	"github.com/biotica/biotica/internal/items"
	"github.com/biotica/biotica/internal/worldstate"
)

// Strategy is the closed enum of faction-level behavioral stances.
type Strategy uint8

const (
	StrategyExpand Strategy = iota
	StrategyDefend
	StrategyTrade
	StrategyIsolate
)

// Culture is the five-axis culture vector (§3.5), each in [0,1].
type Culture struct {
	Collectivism  float64
	Aggression    float64
	Curiosity     float64
	Spirituality  float64
	TradeAffinity float64
}

// Faction is a tribal civilization (§3.5).
type Faction struct {
	ID       string
	Name     string // empty until a narrative service assigns one
	Founding struct {
		SpeciesID string
		Tick      int
	}
	Population   int
	TechLevel    float64
	LiteracyRate float64
	Strategy     Strategy
	Culture      Culture
	HomeX, HomeY int
	Territory    map[int]bool // tile index -> claimed by this faction (derived, not authoritative)

	Lexicon *Lexicon

	StorageCapacity float64
	DefenseBonus    float64

	craftInventory map[string]int
}

func newFaction(id, speciesID string, tick int, homeX, homeY int, culture Culture) *Faction {
	f := &Faction{
		ID:             id,
		Territory:      map[int]bool{},
		Culture:        culture,
		HomeX:          homeX,
		HomeY:          homeY,
		Lexicon:        newLexicon(),
		craftInventory: map[string]int{},
	}
	f.Founding.SpeciesID = speciesID
	f.Founding.Tick = tick
	return f
}

// Role is the closed enum of agent occupations.
type Role uint8

const (
	RoleGatherer Role = iota
	RoleHunter
	RoleCrafter
	RoleBuilder
	RoleScribe
	RoleWarrior
)

// Intent is the closed enum of per-tick agent intents (§4.8.1).
type Intent uint8

const (
	IntentGather Intent = iota
	IntentHunt
	IntentCraft
	IntentBuild
	IntentMove
	IntentRest
	IntentTrade
	IntentWorship
	IntentPatrol
	IntentFlee
)

// MentalState is an agent's subjective read on its situation (§3.5).
type MentalState struct {
	PerceivedFoodLevel   float64
	PerceivedThreatLevel float64
	StressLevel          float64
	LoyaltyToFaction     float64
	LastReasonCodes      []string
}

// Agent is one civilization member (§3.5).
type Agent struct {
	ID          string
	FactionID   string
	SpeciesID   string
	EthnicityID string
	Role        Role
	X, Y        int
	Energy      float64
	Hydration   float64
	Age         int
	Goal        Intent
	Activity    Intent
	Inventory   map[string]float64 // food/wood/stone/ore
	Items       []items.Stack
	Mental      MentalState
	Thoughts    []string

	lastActionTick int
}

// StructureType is the closed enum of building kinds.
type StructureType uint8

const (
	StructureCamp StructureType = iota
	StructureStorage
	StructureWorkshop
	StructureWall
	StructureShrine
)

// Structure is an in-progress or completed building (§3.5).
type Structure struct {
	ID        string
	Type      StructureType
	FactionID string
	X, Y      int
	Progress  float64
	Completed bool
	HP, MaxHP float64
}

// Note is an authored token sequence tied to the tile it was produced on
// (§3.5). Translation is a non-authoritative, optional field filled in by
// an external text service.
type Note struct {
	ID          string
	FactionID   string
	AuthorID    string
	X, Y        int
	Tokens      []string
	Translation string
}

// RelationStatus is the closed enum of inter-faction relationship states.
type RelationStatus uint8

const (
	RelationNeutral RelationStatus = iota
	RelationTrade
	RelationAlly
	RelationWar
)

// Relation is a directed faction-pair relationship (§3.5).
type Relation struct {
	From, To  string
	Status    RelationStatus
	Trust     float64
	Tension   float64
	Intensity float64
}

// System owns every faction, agent, structure, note, and relation, plus the
// territory ownership/control maps and the shared CraftingEvolution (§4.8).
type System struct {
	factions   map[string]*Faction
	factionSeq []string
	agents     map[string]*Agent
	agentSeq   []string
	structures map[string]*Structure
	notes      []*Note
	relations  map[[2]string]*Relation

	owner       []int8    // tile index -> faction index + 1 (0 = unclaimed)
	factionCtrl [][]uint8 // per faction, per tile control in [0,255]
	version     int

	crafting *items.Evolution

	tileCount int

	nextAgentID     int
	nextStructureID int
	nextNoteID      int
}

// NewSystem creates an empty civilization layer sized to the world grid.
func NewSystem(w *worldstate.World, crafting *items.Evolution) *System {
	size := int(w.Width) * int(w.Height)
	return &System{
		factions:   map[string]*Faction{},
		agents:     map[string]*Agent{},
		structures: map[string]*Structure{},
		relations:  map[[2]string]*Relation{},
		owner:      make([]int8, size),
		tileCount:  size,
		crafting:   crafting,
	}
}

// addFaction registers a new faction and grows its per-tile control slice.
func (s *System) addFaction(f *Faction) {
	s.factions[f.ID] = f
	s.factionSeq = append(s.factionSeq, f.ID)
	s.factionCtrl = append(s.factionCtrl, make([]uint8, s.tileCount))
}

// Factions returns every faction in creation order.
func (s *System) Factions() []*Faction {
	out := make([]*Faction, 0, len(s.factionSeq))
	for _, id := range s.factionSeq {
		out = append(out, s.factions[id])
	}
	return out
}

// Faction looks up a faction by id.
func (s *System) Faction(id string) (*Faction, bool) {
	f, ok := s.factions[id]
	return f, ok
}

// Agents returns every live agent in id order.
func (s *System) Agents() []*Agent {
	out := make([]*Agent, 0, len(s.agentSeq))
	for _, id := range s.agentSeq {
		if a, ok := s.agents[id]; ok {
			out = append(out, a)
		}
	}
	return out
}

// TerritoryVersion returns the monotonic counter incremented whenever the
// ownership map changes (§4.8.3).
func (s *System) TerritoryVersion() int { return s.version }

// ClaimedByFaction returns the count of tiles a faction owns, satisfying
// invariant 5 (§8): this is a direct count over owner, never cached.
func (s *System) ClaimedByFaction(factionID string) int {
	idx := s.factionIndex(factionID)
	if idx < 0 {
		return 0
	}
	count := 0
	for _, o := range s.owner {
		if int(o)-1 == idx {
			count++
		}
	}
	return count
}

func (s *System) factionIndex(id string) int {
	for i, fid := range s.factionSeq {
		if fid == id {
			return i
		}
	}
	return -1
}
