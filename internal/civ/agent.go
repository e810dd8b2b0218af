package civ

import (
	"fmt"

	"github.com/biotica/biotica/internal/eventlog"
	"github.com/biotica/biotica/internal/rng"
	"github.com/biotica/biotica/internal/worldstate"
)

const maxThoughtBuffer = 5

// SpawnAgent creates and registers a new civilization member for a faction.
func (s *System) SpawnAgent(factionID, speciesID string, x, y int, tick int) *Agent {
	id := fmt.Sprintf("agent-%d", s.nextAgentID)
	s.nextAgentID++
	a := &Agent{
		ID:             id,
		FactionID:      factionID,
		SpeciesID:      speciesID,
		X:              x,
		Y:              y,
		Energy:         100,
		Hydration:      100,
		Inventory:      map[string]float64{},
		lastActionTick: tick,
	}
	s.agents[id] = a
	s.agentSeq = append(s.agentSeq, id)
	return a
}

// StepAgents runs perception, intent selection, movement, and inventory
// updates for every live agent in stable id order (§4.8.1).
func (s *System) StepAgents(w *worldstate.World, r *rng.Stream, log *eventlog.Log, tick int) {
	for _, a := range s.Agents() {
		perceiveAgent(w, a)
		selectIntent(a)
		actOnIntent(s, w, r, log, a, tick)
		a.lastActionTick = tick
	}
}

// perceiveAgent updates mental state from a bounded-radius scan (§4.8.1).
func perceiveAgent(w *worldstate.World, a *Agent) {
	worstHazard := uint8(0)
	foodSignal := 0.0
	for dy := -agentPerceptionRadius; dy <= agentPerceptionRadius; dy++ {
		for dx := -agentPerceptionRadius; dx <= agentPerceptionRadius; dx++ {
			if dx*dx+dy*dy > agentPerceptionRadius*agentPerceptionRadius {
				continue
			}
			x, y := a.X+dx, a.Y+dy
			if !w.InBounds(x, y) {
				continue
			}
			idx := w.Index(x, y)
			if h := w.Hazard[idx]; h > worstHazard {
				worstHazard = h
			}
			foodSignal += float64(w.PlantBiomass[idx])
		}
	}
	a.Mental.PerceivedThreatLevel = float64(worstHazard) / 255
	a.Mental.PerceivedFoodLevel = clamp01(foodSignal / (255 * 80))
	a.Mental.StressLevel = clamp01(a.Mental.PerceivedThreatLevel*0.6 + (1-a.Mental.PerceivedFoodLevel)*0.4)
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

// selectIntent picks the agent's intent from the closed set via a simple
// priority rule over mental state and role (§4.8.1).
func selectIntent(a *Agent) {
	reason := ""
	switch {
	case a.Mental.PerceivedThreatLevel > 0.7:
		a.Goal = IntentFlee
		reason = "high_threat"
	case a.Mental.PerceivedFoodLevel < 0.2 && a.Role == RoleGatherer:
		a.Goal = IntentGather
		reason = "low_food"
	case a.Role == RoleHunter:
		a.Goal = IntentHunt
		reason = "role_hunter"
	case a.Role == RoleCrafter:
		a.Goal = IntentCraft
		reason = "role_crafter"
	case a.Role == RoleBuilder:
		a.Goal = IntentBuild
		reason = "role_builder"
	case a.Role == RoleScribe:
		a.Goal = IntentWorship
		reason = "role_scribe"
	case a.Role == RoleWarrior:
		a.Goal = IntentPatrol
		reason = "role_warrior"
	default:
		a.Goal = IntentPatrol
		reason = "default_patrol"
	}
	a.Mental.LastReasonCodes = []string{reason}
}

func actOnIntent(s *System, w *worldstate.World, r *rng.Stream, log *eventlog.Log, a *Agent, tick int) {
	switch a.Goal {
	case IntentFlee:
		moveAwayFromHazard(w, a)
	case IntentGather:
		gather(w, a)
	case IntentHunt:
		a.Inventory["food"] += 1
	case IntentCraft:
		craftForFaction(s, a, r)
	case IntentBuild:
		s.buildIfNeeded(a, tick)
	case IntentWorship:
		if r.Chance(noteAuthorChance) {
			if note := s.AuthorNote(a, r, 2+r.NextInt(3)); note != nil {
				appendThought(a, fmt.Sprintf("inscribed %d tokens", len(note.Tokens)))
			}
		} else if utterance := s.speakToken(a, r); utterance != "" {
			appendThought(a, utterance)
		}
	case IntentPatrol:
		patrol(s, w, r, a)
	case IntentTrade, IntentRest, IntentMove:
		// no-op placeholders within the closed intent set; agents idle
	}
}

// noteAuthorChance is how often a scribe on worship duty authors a note
// instead of just speaking a single token, keeping Notes growth bounded.
const noteAuthorChance = 0.1

func moveAwayFromHazard(w *worldstate.World, a *Agent) {
	nx, ny := a.X, a.Y
	lowest := w.Hazard[w.Index(a.X, a.Y)]
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			x, y := a.X+dx, a.Y+dy
			if !w.InBounds(x, y) {
				continue
			}
			if h := w.Hazard[w.Index(x, y)]; h < lowest {
				lowest = h
				nx, ny = x, y
			}
		}
	}
	a.X, a.Y = nx, ny
}

func gather(w *worldstate.World, a *Agent) {
	idx := w.Index(a.X, a.Y)
	biomass := w.PlantBiomass[idx]
	if biomass == 0 {
		return
	}
	taken := biomass
	if taken > 20 {
		taken = 20
	}
	w.PlantBiomass[idx] = biomass - taken
	a.Inventory["food"] += float64(taken)
}

func patrol(s *System, w *worldstate.World, r *rng.Stream, a *Agent) {
	if a.Role == RoleWarrior {
		patrolBorder(s, w, r, a)
		return
	}
	dx, dy := r.NextRange(-1, 1), r.NextRange(-1, 1)
	nx, ny := a.X+dx, a.Y+dy
	if w.InBounds(nx, ny) {
		a.X, a.Y = nx, ny
	}
}

const warriorPatrolScanRadius = 3

// patrolBorder steps a warrior toward the nearest border tile within a
// short scan radius, putting it where StepBorderContacts can find contact;
// it wanders like any other patroller when no border tile is in range.
func patrolBorder(s *System, w *worldstate.World, r *rng.Stream, a *Agent) {
	bestX, bestY, bestDist := a.X, a.Y, -1
	for dy := -warriorPatrolScanRadius; dy <= warriorPatrolScanRadius; dy++ {
		for dx := -warriorPatrolScanRadius; dx <= warriorPatrolScanRadius; dx++ {
			x, y := a.X+dx, a.Y+dy
			if !w.InBounds(x, y) || !s.IsBorder(w, x, y) {
				continue
			}
			dist := dx*dx + dy*dy
			if bestDist == -1 || dist < bestDist {
				bestDist, bestX, bestY = dist, x, y
			}
		}
	}
	if bestDist == -1 {
		dx, dy := r.NextRange(-1, 1), r.NextRange(-1, 1)
		nx, ny := a.X+dx, a.Y+dy
		if w.InBounds(nx, ny) {
			a.X, a.Y = nx, ny
		}
		return
	}
	nx, ny := a.X+signOf(bestX-a.X), a.Y+signOf(bestY-a.Y)
	if w.InBounds(nx, ny) {
		a.X, a.Y = nx, ny
	}
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

func craftForFaction(s *System, a *Agent, r *rng.Stream) {
	if s.crafting == nil {
		return
	}
	f, ok := s.factions[a.FactionID]
	if !ok {
		return
	}
	produced, ok := s.crafting.AttemptCraft(a.FactionID, f.craftInventory, r)
	if !ok {
		return
	}
	for _, stack := range produced {
		a.Items = append(a.Items, stack)
	}
}

func appendThought(a *Agent, thought string) {
	a.Thoughts = append(a.Thoughts, thought)
	if len(a.Thoughts) > maxThoughtBuffer {
		a.Thoughts = a.Thoughts[len(a.Thoughts)-maxThoughtBuffer:]
	}
}
