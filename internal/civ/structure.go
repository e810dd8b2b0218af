package civ

import (
	"fmt"
	"time"

	"github.com/biotica/biotica/internal/eventlog"
	"github.com/biotica/biotica/internal/worldstate"
)

// structureMaxHP gives each structure type's completed hit points.
var structureMaxHP = map[StructureType]float64{
	StructureCamp:     80,
	StructureStorage:  60,
	StructureWorkshop: 70,
	StructureWall:     150,
	StructureShrine:   50,
}

// structureCost gives the resource cost consumed per tick of progress,
// keyed by the same resource names used in Agent.Inventory (§3.5).
var structureCost = map[StructureType]map[string]float64{
	StructureCamp:     {"wood": 2},
	StructureStorage:  {"wood": 1, "stone": 1},
	StructureWorkshop: {"wood": 1, "stone": 2},
	StructureWall:     {"stone": 3},
	StructureShrine:   {"stone": 2, "ore": 1},
}

const progressPerTickUnit = 5.0

// BeginStructure starts a new in-progress structure for a faction.
func (s *System) BeginStructure(factionID string, t StructureType, x, y int) *Structure {
	st := &Structure{
		ID:        fmt.Sprintf("structure-%d", s.nextStructureID),
		Type:      t,
		FactionID: factionID,
		X:         x,
		Y:         y,
		MaxHP:     structureMaxHP[t],
	}
	s.nextStructureID++
	s.structures[st.ID] = st
	return st
}

// buildIfNeeded starts a new structure at a builder's current tile when its
// faction has no in-progress one, otherwise leaves the builder in place
// while StepStructures advances whatever is already underway (§4.8.4).
func (s *System) buildIfNeeded(a *Agent, tick int) {
	f, ok := s.factions[a.FactionID]
	if !ok || s.hasInProgressStructure(a.FactionID) {
		return
	}
	s.BeginStructure(a.FactionID, structureTypeFor(f), a.X, a.Y)
}

func (s *System) hasInProgressStructure(factionID string) bool {
	for _, st := range s.structures {
		if st.FactionID == factionID && !st.Completed {
			return true
		}
	}
	return false
}

// structureTypeFor picks the next structure a faction's builders raise from
// its culture vector: Spirituality, TradeAffinity and Aggression are
// checked in that order, and the first above 0.6 selects a shrine, storage
// or wall respectively; otherwise a workshop (§4.8.4, §3.5).
func structureTypeFor(f *Faction) StructureType {
	switch {
	case f.Culture.Spirituality > 0.6:
		return StructureShrine
	case f.Culture.TradeAffinity > 0.6:
		return StructureStorage
	case f.Culture.Aggression > 0.6:
		return StructureWall
	default:
		return StructureWorkshop
	}
}

func structureTypeName(t StructureType) string {
	switch t {
	case StructureCamp:
		return "camp"
	case StructureStorage:
		return "storage"
	case StructureWorkshop:
		return "workshop"
	case StructureWall:
		return "wall"
	case StructureShrine:
		return "shrine"
	default:
		return "structure"
	}
}

// Structures returns every structure (in-progress and completed).
func (s *System) Structures() []*Structure {
	out := make([]*Structure, 0, len(s.structures))
	for _, id := range s.structureIDsSorted() {
		out = append(out, s.structures[id])
	}
	return out
}

func (s *System) structureIDsSorted() []string {
	ids := make([]string, 0, len(s.structures))
	for id := range s.structures {
		ids = append(ids, id)
	}
	for i := 1; i < len(ids); i++ {
		v := ids[i]
		j := i - 1
		for j >= 0 && ids[j] > v {
			ids[j+1] = ids[j]
			j--
		}
		ids[j+1] = v
	}
	return ids
}

// StepStructures advances every in-progress structure by consuming its
// per-tick material cost from its faction's inventory; if materials are
// missing, progress stalls without error (§4.8.4).
func (s *System) StepStructures(w *worldstate.World, log *eventlog.Log, tick int) {
	for _, id := range s.structureIDsSorted() {
		st := s.structures[id]
		if st.Completed {
			continue
		}
		f, ok := s.factions[st.FactionID]
		if !ok {
			continue
		}
		cost := structureCost[st.Type]
		affordable := true
		for item, amount := range cost {
			if f.craftInventory[item] < int(amount) {
				affordable = false
				break
			}
		}
		if !affordable {
			continue
		}
		for item, amount := range cost {
			f.craftInventory[item] -= int(amount)
		}
		st.Progress += progressPerTickUnit
		if st.Progress >= st.MaxHP {
			st.Progress = st.MaxHP
			st.Completed = true
			st.HP = st.MaxHP
			applyStructureEffect(f, st)
			log.Append(tick, time.Time{}, eventlog.Info, eventlog.CategoryCivStructure,
				fmt.Sprintf("%s completed a %s", f.ID, structureTypeName(st.Type)),
				eventlog.WithSubject(st.ID),
				eventlog.WithPosition(st.X, st.Y),
			)
		}
	}
}

// applyStructureEffect grants the faction the completed structure's bonus:
// storage capacity for StructureStorage, a TechLevel bump for
// StructureWorkshop, a DefenseBonus increment for StructureWall, and a small
// Spirituality increase for StructureShrine (§4.8.4).
func applyStructureEffect(f *Faction, st *Structure) {
	switch st.Type {
	case StructureStorage:
		f.StorageCapacity += 100
	case StructureWorkshop:
		f.TechLevel += 0.1
	case StructureWall:
		f.DefenseBonus += 1
	case StructureShrine:
		f.Culture.Spirituality = clamp01(f.Culture.Spirituality + 0.05)
	}
}
