package civ

import (
	"fmt"
	"time"

	"github.com/biotica/biotica/internal/eventlog"
	"github.com/biotica/biotica/internal/rng"
	"github.com/biotica/biotica/internal/worldstate"
)

// relationKey is the map key for a directed faction pair (§3.5: Relation is
// directed, so (from,to) and (to,from) are tracked separately).
func relationKey(from, to string) [2]string { return [2]string{from, to} }

const (
	trustThresholdAlly  = 0.7
	tensionThresholdWar = 0.6
	trustDecay          = 0.01
	tensionDecay        = 0.02
)

// Relation looks up (or lazily creates, at neutral) the directed relation
// from -> to.
func (s *System) Relation(from, to string) *Relation {
	key := relationKey(from, to)
	r, ok := s.relations[key]
	if !ok {
		r = &Relation{From: from, To: to, Status: RelationNeutral}
		s.relations[key] = r
	}
	return r
}

// RecordBorderContact nudges tension up slightly; sustained contact with
// low trust eventually tips the relation to war (§4.8.7).
func (s *System) RecordBorderContact(from, to string) {
	r := s.Relation(from, to)
	r.Tension = clamp01(r.Tension + 0.01)
	r.Intensity = clamp01(r.Intensity + 0.005)
	resolveStatus(r)
}

// RecordTrade raises trust between two factions (§4.8.7).
func (s *System) RecordTrade(from, to string) {
	r := s.Relation(from, to)
	r.Trust = clamp01(r.Trust + 0.03)
	r.Tension = clamp01(r.Tension - 0.01)
	resolveStatus(r)
}

// RecordAttack raises tension sharply and can immediately tip to war
// (§4.8.7).
func (s *System) RecordAttack(from, to string) {
	r := s.Relation(from, to)
	r.Tension = clamp01(r.Tension + 0.2)
	r.Trust = clamp01(r.Trust - 0.1)
	resolveStatus(r)
}

// StepDiplomacy decays trust/tension toward neutral each tick for every
// relation that exists, then re-resolves status (§4.8.7).
func (s *System) StepDiplomacy() {
	for _, r := range s.relations {
		r.Trust = decayToward(r.Trust, 0, trustDecay)
		r.Tension = decayToward(r.Tension, 0, tensionDecay)
		resolveStatus(r)
	}
}

// StepBorderContacts scans every pair of agents from different factions for
// spatial adjacency during the agent phase. Adjacency always nudges the
// pair's relation toward contact; a pair already at war also resolves a
// skirmish, and a pair at Trade or Ally status records a trade if both
// agents are carrying goods (§4.8.7: relations "evolve from interactions
// (border contact, trade, attacks)" and "wars deterministically resolve
// skirmishes during the agent phase").
func (s *System) StepBorderContacts(w *worldstate.World, r *rng.Stream, log *eventlog.Log, tick int) {
	agents := s.Agents()
	seenPair := map[[2]string]bool{}
	for i := 0; i < len(agents); i++ {
		a := agents[i]
		if _, ok := s.agents[a.ID]; !ok {
			continue // removed by an earlier skirmish resolution this tick
		}
		for j := i + 1; j < len(agents); j++ {
			b := agents[j]
			if a.FactionID == "" || b.FactionID == "" || a.FactionID == b.FactionID {
				continue
			}
			if _, ok := s.agents[b.ID]; !ok {
				continue
			}
			if !isAdjacentAgents(a, b) {
				continue
			}
			pairKey := idPairKey(a.FactionID, b.FactionID)
			if seenPair[pairKey] {
				continue
			}
			seenPair[pairKey] = true

			s.RecordBorderContact(a.FactionID, b.FactionID)
			s.RecordBorderContact(b.FactionID, a.FactionID)

			switch s.Relation(a.FactionID, b.FactionID).Status {
			case RelationWar:
				s.resolveSkirmish(a, b, r, log, tick)
			case RelationTrade, RelationAlly:
				if hasTradeGoods(a) && hasTradeGoods(b) {
					s.RecordTrade(a.FactionID, b.FactionID)
					s.RecordTrade(b.FactionID, a.FactionID)
				}
			}
		}
	}
}

// hasTradeGoods reports whether an agent is carrying anything another
// faction's agent would trade for, gating RecordTrade so peaceful border
// contact alone doesn't raise trust for free.
func hasTradeGoods(a *Agent) bool {
	for _, v := range a.Inventory {
		if v > 0 {
			return true
		}
	}
	return len(a.Items) > 0
}

func isAdjacentAgents(a, b *Agent) bool {
	dx, dy := a.X-b.X, a.Y-b.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return dx <= 1 && dy <= 1
}

func idPairKey(a, b string) [2]string {
	if a < b {
		return [2]string{a, b}
	}
	return [2]string{b, a}
}

// resolveSkirmish deterministically settles a border clash between two
// agents whose factions are already at war: the loser is removed from the
// simulation and the attack feeds back into diplomacy (§4.8.7).
func (s *System) resolveSkirmish(a, b *Agent, r *rng.Stream, log *eventlog.Log, tick int) {
	aWeight, bWeight := s.combatWeight(a), s.combatWeight(b)
	total := aWeight + bWeight
	if total <= 0 {
		return
	}
	winner, loser := a, b
	if r.NextFloat()*total >= aWeight {
		winner, loser = b, a
	}

	s.killAgent(loser.ID)
	s.RecordAttack(winner.FactionID, loser.FactionID)

	log.Append(tick, time.Time{}, eventlog.Warn, eventlog.CategoryCivDiplomacy,
		fmt.Sprintf("%s routed %s at the border", winner.FactionID, loser.FactionID),
		eventlog.WithSubject(winner.ID),
		eventlog.WithPosition(winner.X, winner.Y),
		eventlog.WithPayload(map[string]interface{}{
			"loser": loser.ID, "loser_faction": loser.FactionID,
		}),
	)
}

// combatWeight folds energy, role, and the faction's built-up defense bonus
// into a single skirmish weight; RoleWarrior doubles it (§4.8.1, §4.8.4).
func (s *System) combatWeight(a *Agent) float64 {
	weight := 1.0 + a.Energy/100
	if a.Role == RoleWarrior {
		weight *= 2
	}
	if f, ok := s.factions[a.FactionID]; ok {
		weight += f.DefenseBonus
	}
	return weight
}

func (s *System) killAgent(id string) {
	delete(s.agents, id)
	for i, aid := range s.agentSeq {
		if aid == id {
			s.agentSeq = append(s.agentSeq[:i], s.agentSeq[i+1:]...)
			break
		}
	}
}

func decayToward(v, target, rate float64) float64 {
	if v > target {
		v -= rate
		if v < target {
			v = target
		}
	} else if v < target {
		v += rate
		if v > target {
			v = target
		}
	}
	return v
}

func resolveStatus(r *Relation) {
	switch {
	case r.Tension >= tensionThresholdWar:
		r.Status = RelationWar
	case r.Trust >= trustThresholdAlly:
		r.Status = RelationAlly
	case r.Trust > 0.3 && r.Tension < 0.2:
		r.Status = RelationTrade
	default:
		r.Status = RelationNeutral
	}
}
