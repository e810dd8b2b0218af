// Package toolrouter implements the read-only ToolRouter facade (§4.12):
// fifteen named query operations over the kernel's committed state,
// called only between ticks (§5). No operation here mutates anything; a
// missing id returns a structured NotFoundError rather than a panic.
package toolrouter

import (
	"fmt"

	"github.com/biotica/biotica/internal/civ"
	"github.com/biotica/biotica/internal/creature"
	"github.com/biotica/biotica/internal/event"
	"github.com/biotica/biotica/internal/eventlog"
	"github.com/biotica/biotica/internal/genome"
	"github.com/biotica/biotica/internal/kernel"
	"github.com/biotica/biotica/internal/worldstate"
)

// NotFoundError is returned by any lookup-by-id operation that finds
// nothing; callers pattern-match on Kind rather than parsing messages.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("toolrouter: %s %q not found", e.Kind, e.ID)
}

// Router binds every query to the kernel's live (but read-only, as far as
// this package is concerned) subsystem references. It holds no state of
// its own beyond the Era bucket width.
type Router struct {
	World     *worldstate.World
	Species   *genome.Registry
	Creatures *creature.System
	Civ       *civ.System
	Events    *event.System
	Log       *eventlog.Log

	EraLengthTicks int
}

// New constructs a Router over the kernel's subsystems. eraLengthTicks
// bounds how many ticks each derived Era spans; 0 uses DefaultEraLength.
func New(w *worldstate.World, species *genome.Registry, creatures *creature.System, c *civ.System, events *event.System, log *eventlog.Log, eraLengthTicks int) *Router {
	if eraLengthTicks <= 0 {
		eraLengthTicks = DefaultEraLength
	}
	return &Router{World: w, Species: species, Creatures: creatures, Civ: c, Events: events, Log: log, EraLengthTicks: eraLengthTicks}
}

// Rebind repoints Router at k's current subsystem pointers. Required after
// any run-surface operation that replaces the kernel's state wholesale
// (ResetSimulation's in-place *k = *fresh, or a fresh Load): Router's
// fields are copies taken at construction, not a live reference into k.
func (rt *Router) Rebind(k *kernel.Kernel) {
	rt.World = k.World
	rt.Species = k.Species
	rt.Creatures = k.Creatures
	rt.Civ = k.Civ
	rt.Events = k.Events
	rt.Log = k.Log
}

// WorldSummary is the payload for getWorldSummary.
type WorldSummary struct {
	Tick         int
	Width        int
	Height       int
	Population   int
	SpeciesCount int
	FactionCount int
	ActiveEvents int
}

// GetWorldSummary returns the current top-level world counters.
func (rt *Router) GetWorldSummary() WorldSummary {
	return WorldSummary{
		Tick:         rt.World.Tick,
		Width:        rt.World.Width,
		Height:       rt.World.Height,
		Population:   rt.Creatures.Count(),
		SpeciesCount: len(rt.Species.All()),
		FactionCount: len(rt.Civ.Factions()),
		ActiveEvents: len(rt.Events.Active),
	}
}

// GetTopSpecies returns species ranked by population, descending, paged.
// Ties break by id for stable ordering (§9: never hash-map order).
func (rt *Router) GetTopSpecies(page, size int) []*genome.Species {
	all := append([]*genome.Species(nil), rt.Species.All()...)
	sortSpeciesByPopulationDesc(all)
	return paginate(all, page, size)
}

// GetSpecies looks up one species by id.
func (rt *Router) GetSpecies(id string) (*genome.Species, error) {
	s, ok := rt.Species.Get(id)
	if !ok {
		return nil, &NotFoundError{Kind: "species", ID: id}
	}
	return s, nil
}

// GetSpeciesLineage walks ParentSpeciesID back to the root, returning the
// chain from the queried species to its root ancestor.
func (rt *Router) GetSpeciesLineage(id string) ([]*genome.Species, error) {
	s, ok := rt.Species.Get(id)
	if !ok {
		return nil, &NotFoundError{Kind: "species", ID: id}
	}
	var chain []*genome.Species
	for s != nil {
		chain = append(chain, s)
		if s.ParentSpeciesID == "" {
			break
		}
		next, ok := rt.Species.Get(s.ParentSpeciesID)
		if !ok {
			break
		}
		s = next
	}
	return chain, nil
}

// GetCreature looks up one live creature by id.
func (rt *Router) GetCreature(id int) (*creature.Creature, error) {
	c, ok := rt.Creatures.Get(id)
	if !ok {
		return nil, &NotFoundError{Kind: "creature", ID: fmt.Sprint(id)}
	}
	return c, nil
}

// SearchCreatures returns up to limit live creatures whose name or species
// id contains query (case-sensitive substring, id-ascending order).
func (rt *Router) SearchCreatures(query string, limit int) []*creature.Creature {
	var out []*creature.Creature
	for _, c := range rt.Creatures.All() {
		if limit > 0 && len(out) >= limit {
			break
		}
		if containsSubstring(c.Name, query) || containsSubstring(c.SpeciesID, query) {
			out = append(out, c)
		}
	}
	return out
}

// GetCiv looks up one faction by id.
func (rt *Router) GetCiv(id string) (*civ.Faction, error) {
	f, ok := rt.Civ.Faction(id)
	if !ok {
		return nil, &NotFoundError{Kind: "faction", ID: id}
	}
	return f, nil
}

// ListCivs returns up to limit factions in creation order.
func (rt *Router) ListCivs(limit int) []*civ.Faction {
	all := rt.Civ.Factions()
	if limit > 0 && limit < len(all) {
		return all[:limit]
	}
	return all
}

// TerritorySummary is the payload for getTerritory.
type TerritorySummary struct {
	FactionID     string
	ClaimedTiles  int
	TerritoryVers int
}

// GetTerritory reports a faction's current territory counters.
func (rt *Router) GetTerritory(civID string) (TerritorySummary, error) {
	if _, ok := rt.Civ.Faction(civID); !ok {
		return TerritorySummary{}, &NotFoundError{Kind: "faction", ID: civID}
	}
	return TerritorySummary{
		FactionID:     civID,
		ClaimedTiles:  rt.Civ.ClaimedByFaction(civID),
		TerritoryVers: rt.Civ.TerritoryVersion(),
	}, nil
}

// ListActiveEvents returns every currently active world event.
func (rt *Router) ListActiveEvents() []*event.Event {
	return append([]*event.Event(nil), rt.Events.Active...)
}

// GetEvent looks up one event (active or recent) by id.
func (rt *Router) GetEvent(id int) (*event.Event, error) {
	for _, e := range rt.Events.Active {
		if e.ID == id {
			return e, nil
		}
	}
	for _, e := range rt.Events.Recent {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, &NotFoundError{Kind: "event", ID: fmt.Sprint(id)}
}

// RegionQuery is the payload for queryRegion: the per-tile slice of world
// state within the requested rectangle, in row-major order.
type RegionQuery struct {
	X0, Y0, X1, Y1 int
	Tiles          []worldstate.Biome
	Temperature    []uint8
	Humidity       []uint8
	PlantBiomass   []uint8
}

// QueryRegion returns the per-tile fields within [x0,x1]x[y0,y1], clamped
// to the world bounds.
func (rt *Router) QueryRegion(x0, y0, x1, y1 int) RegionQuery {
	x0, x1 = clampRange(x0, x1, rt.World.Width)
	y0, y1 = clampRange(y0, y1, rt.World.Height)

	out := RegionQuery{X0: x0, Y0: y0, X1: x1, Y1: y1}
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			idx := rt.World.Index(x, y)
			out.Tiles = append(out.Tiles, rt.World.Tiles[idx])
			out.Temperature = append(out.Temperature, rt.World.Temperature[idx])
			out.Humidity = append(out.Humidity, rt.World.Humidity[idx])
			out.PlantBiomass = append(out.PlantBiomass, rt.World.PlantBiomass[idx])
		}
	}
	return out
}

// GetRecentLogs applies filter and pages over the log buffer.
func (rt *Router) GetRecentLogs(filter eventlog.Filter, page, limit int) []eventlog.Entry {
	return rt.Log.Query(filter, page, limit)
}

func clampRange(a, b, bound int) (int, int) {
	if a > b {
		a, b = b, a
	}
	if a < 0 {
		a = 0
	}
	if b >= bound {
		b = bound - 1
	}
	if a > b {
		return 0, -1
	}
	return a, b
}

func containsSubstring(haystack, needle string) bool {
	if needle == "" {
		return true
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return true
		}
	}
	return false
}

func paginate[T any](all []T, page, size int) []T {
	if size <= 0 {
		size = len(all)
	}
	start := page * size
	if start >= len(all) || start < 0 {
		return nil
	}
	end := start + size
	if end > len(all) {
		end = len(all)
	}
	return all[start:end]
}

func sortSpeciesByPopulationDesc(s []*genome.Species) {
	for i := 1; i < len(s); i++ {
		j := i
		for j > 0 && less(s[j], s[j-1]) {
			s[j], s[j-1] = s[j-1], s[j]
			j--
		}
	}
}

func less(a, b *genome.Species) bool {
	if a.Population != b.Population {
		return a.Population > b.Population
	}
	return a.ID < b.ID
}
