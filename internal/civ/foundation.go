package civ

import (
	"fmt"
	"time"

	"github.com/biotica/biotica/internal/eventlog"
	"github.com/biotica/biotica/internal/rng"
)

const foundationIDPrefix = "faction"

var defaultCulture = Culture{
	Collectivism:  0.5,
	Aggression:    0.3,
	Curiosity:     0.5,
	Spirituality:  0.3,
	TradeAffinity: 0.4,
}

// MaybeFoundFaction founds a new faction centered at (x,y) once a species'
// cognitionScore crosses the "intelligence awakening" threshold, provided
// no faction has already been founded from that species (§4.8.8).
func (s *System) MaybeFoundFaction(speciesID string, cognitionScore float64, x, y int, tick int, log *eventlog.Log) *Faction {
	if cognitionScore < foundingCognitionThreshold {
		return nil
	}
	for _, f := range s.Factions() {
		if f.Founding.SpeciesID == speciesID {
			return nil
		}
	}
	id := fmt.Sprintf("%s-%d", foundationIDPrefix, len(s.factionSeq))
	f := newFaction(id, speciesID, tick, x, y, defaultCulture)
	s.addFaction(f)

	if log != nil {
		log.Append(tick, time.Time{}, eventlog.Info, eventlog.CategoryCivFaction,
			fmt.Sprintf("faction %s founded from species %s", id, speciesID),
			eventlog.WithFaction(id),
			eventlog.WithPosition(x, y),
		)
	}
	return f
}

// MaybeSplit spawns a new faction once a faction exceeds the configured
// population or territory threshold (§4.8.8). The child copies the parent's
// culture with a small random shift in Aggression, and its home is offset
// from the parent's home by up to 5 tiles on each axis. No territory,
// agents or structures are moved from the parent; the parent keeps its home
// and all of its claims.
func (s *System) MaybeSplit(parentID string, r *rng.Stream, tick int, log *eventlog.Log) *Faction {
	parent, ok := s.factions[parentID]
	if !ok {
		return nil
	}
	territory := s.ClaimedByFaction(parentID)
	if parent.Population < splitPopulationThreshold && territory < splitTerritoryThreshold {
		return nil
	}

	childID := fmt.Sprintf("%s-%d", foundationIDPrefix, len(s.factionSeq))
	offsetX := parent.HomeX + r.NextRange(-5, 5)
	offsetY := parent.HomeY + r.NextRange(-5, 5)
	culture := parent.Culture
	culture.Aggression = clamp01(culture.Aggression + r.Gaussian()*0.05)

	child := newFaction(childID, parent.Founding.SpeciesID, tick, offsetX, offsetY, culture)
	s.addFaction(child)

	if log != nil {
		log.Append(tick, time.Time{}, eventlog.Info, eventlog.CategoryCivFaction,
			fmt.Sprintf("faction %s split from %s", childID, parentID),
			eventlog.WithFaction(childID),
			eventlog.WithPosition(offsetX, offsetY),
		)
	}
	return child
}
