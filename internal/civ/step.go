package civ

import (
	"github.com/biotica/biotica/internal/eventlog"
	"github.com/biotica/biotica/internal/rng"
	"github.com/biotica/biotica/internal/worldstate"
)

// CognitionSample is fed in by the kernel from CreatureSystem/SpeciesRegistry
// for the Foundation/Split trigger (§4.8.8), keeping CivSystem decoupled
// from the genome package the way CreatureSystem is decoupled from events.
type CognitionSample struct {
	SpeciesID      string
	CognitionScore float64
	CentroidX      int
	CentroidY      int
}

// Step runs the full per-tick civilization pipeline in the order of
// §4.8: agents, faction aggregates, territory, structures, crafting is
// folded into the agent pass, language is folded into agent utterances,
// diplomacy, then foundation/split.
func (s *System) Step(w *worldstate.World, r *rng.Stream, log *eventlog.Log, tick int, cognition []CognitionSample) {
	s.StepAgents(w, r, log, tick)
	s.stepFactionAggregates()
	s.StepTerritory(w)
	s.StepStructures(w, log, tick)
	s.StepBorderContacts(w, r, log, tick)
	s.StepDiplomacy()

	for _, sample := range cognition {
		s.MaybeFoundFaction(sample.SpeciesID, sample.CognitionScore, sample.CentroidX, sample.CentroidY, tick, log)
	}
	for _, f := range s.Factions() {
		s.MaybeSplit(f.ID, r, tick, log)
	}
}

// stepFactionAggregates recomputes each faction's demographic summary and
// evaluates a strategy switch from a simple utility rule over its culture
// vector (§4.8.2).
func (s *System) stepFactionAggregates() {
	counts := map[string]int{}
	for _, a := range s.Agents() {
		counts[a.FactionID]++
	}
	for _, f := range s.Factions() {
		f.Population = counts[f.ID]
		f.LiteracyRate = clamp01(float64(len(f.Lexicon.tokens)) / maxLexiconSize)
		f.Strategy = strategyFor(f)
	}
}

func strategyFor(f *Faction) Strategy {
	switch {
	case f.Culture.Aggression > 0.6:
		return StrategyExpand
	case f.Culture.TradeAffinity > 0.6:
		return StrategyTrade
	case f.Culture.Collectivism > 0.6 && f.Culture.Aggression < 0.3:
		return StrategyDefend
	default:
		return StrategyIsolate
	}
}
