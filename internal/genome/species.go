package genome

import (
	"fmt"
	"math"

	"github.com/biotica/biotica/internal/rng"
	"github.com/biotica/biotica/internal/worldstate"
)

// Species is a centroid-tracked lineage per §3.3.
type Species struct {
	ID               string
	CreationTick     int
	Color            [3]uint8
	CentroidGenome   Genome
	CentroidSamples  int
	AllowedBiomes    map[worldstate.Biome]bool
	HabitatHint      string
	DietKind         string
	SizeClass        string
	CommonName       string
	ParentSpeciesID  string // "" if root
	LineageIDs       []string
	Population       int
	CognitionScore   float64 // SPEC_FULL.md §3.9: fed by CreatureSystem, read by CivSystem
}

// Registry owns all species for a run. Species are never deleted (§3.3
// invariant).
type Registry struct {
	Seed     int32
	bySeq    []*Species         // insertion order, stable id-ascending iteration
	byID     map[string]*Species
	nextIdx  int
	usedName map[string]bool
}

// NewRegistry creates an empty registry for the given base seed. Species ids
// are derived as sp-<seed^const>-<index> so they are stable across runs with
// the same seed.
func NewRegistry(seed int32) *Registry {
	return &Registry{
		Seed:     seed,
		byID:     make(map[string]*Species),
		usedName: make(map[string]bool),
	}
}

// All returns species in stable creation order (§9 design note: stable
// iteration, never hash-map order).
func (reg *Registry) All() []*Species {
	return reg.bySeq
}

// Get looks up a species by id.
func (reg *Registry) Get(id string) (*Species, bool) {
	s, ok := reg.byID[id]
	return s, ok
}

// geneticDistance computes the weighted-L1 distance between a candidate
// genome and a species centroid, with a fixed penalty for diet mismatch.
func geneticDistance(g, centroid Genome) float64 {
	d := 0.0
	d += fieldWeights["MetabolismRate"] * normDiff(g.MetabolismRate, centroid.MetabolismRate, FieldBounds["MetabolismRate"])
	d += fieldWeights["MoveCost"] * normDiff(g.MoveCost, centroid.MoveCost, FieldBounds["MoveCost"])
	d += fieldWeights["PreferredTemp"] * normDiff(g.PreferredTemp, centroid.PreferredTemp, FieldBounds["PreferredTemp"])
	d += fieldWeights["TempTolerance"] * normDiff(g.TempTolerance, centroid.TempTolerance, FieldBounds["TempTolerance"])
	d += fieldWeights["PreferredHumidity"] * normDiff(g.PreferredHumidity, centroid.PreferredHumidity, FieldBounds["PreferredHumidity"])
	d += fieldWeights["HumidityTolerance"] * normDiff(g.HumidityTolerance, centroid.HumidityTolerance, FieldBounds["HumidityTolerance"])
	d += fieldWeights["Aggression"] * normDiff(g.Aggression, centroid.Aggression, FieldBounds["Aggression"])
	d += fieldWeights["ReproductionThreshold"] * normDiff(g.ReproductionThreshold, centroid.ReproductionThreshold, FieldBounds["ReproductionThreshold"])
	d += fieldWeights["ReproductionCost"] * normDiff(g.ReproductionCost, centroid.ReproductionCost, FieldBounds["ReproductionCost"])
	d += fieldWeights["Efficiency"] * normDiff(g.Efficiency, centroid.Efficiency, FieldBounds["Efficiency"])
	d += fieldWeights["MaxEnergy"] * normDiff(g.MaxEnergy, centroid.MaxEnergy, FieldBounds["MaxEnergy"])

	if g.DietType != centroid.DietType {
		d += DietMismatchPenalty
	}
	return d
}

func normDiff(a, b float64, bounds Bounds) float64 {
	span := bounds.Max - bounds.Min
	if span <= 0 {
		return 0
	}
	return math.Abs(a-b) / span
}

// AssignSpecies implements §4.6's assignment algorithm: attach to the
// nearest centroid within SpeciationThreshold (tie-break by creation tick,
// then id), else create a new species parented to the nearest existing one.
func (reg *Registry) AssignSpecies(g Genome, tick int, r *rng.Stream) *Species {
	var best *Species
	bestDist := math.Inf(1)
	for _, s := range reg.bySeq {
		d := geneticDistance(g, s.CentroidGenome)
		if d < bestDist ||
			(d == bestDist && best != nil && (s.CreationTick < best.CreationTick ||
				(s.CreationTick == best.CreationTick && s.ID < best.ID))) {
			bestDist = d
			best = s
		}
	}

	if best != nil && bestDist <= SpeciationThreshold {
		reg.updateCentroid(best, g)
		return best
	}

	return reg.create(g, tick, best, r)
}

func (reg *Registry) updateCentroid(s *Species, g Genome) {
	s.CentroidSamples++
	alpha := 1.0 / math.Max(18, float64(s.CentroidSamples+1))
	c := &s.CentroidGenome
	c.MetabolismRate += alpha * (g.MetabolismRate - c.MetabolismRate)
	c.MoveCost += alpha * (g.MoveCost - c.MoveCost)
	c.PreferredTemp += alpha * (g.PreferredTemp - c.PreferredTemp)
	c.TempTolerance += alpha * (g.TempTolerance - c.TempTolerance)
	c.PreferredHumidity += alpha * (g.PreferredHumidity - c.PreferredHumidity)
	c.HumidityTolerance += alpha * (g.HumidityTolerance - c.HumidityTolerance)
	c.Aggression += alpha * (g.Aggression - c.Aggression)
	c.ReproductionThreshold += alpha * (g.ReproductionThreshold - c.ReproductionThreshold)
	c.ReproductionCost += alpha * (g.ReproductionCost - c.ReproductionCost)
	c.Efficiency += alpha * (g.Efficiency - c.Efficiency)
	c.MaxEnergy += alpha * (g.MaxEnergy - c.MaxEnergy)
	c.Clamp()
}

func (reg *Registry) create(g Genome, tick int, parent *Species, r *rng.Stream) *Species {
	idx := reg.nextIdx
	reg.nextIdx++
	id := fmt.Sprintf("sp-%d-%d", reg.Seed, idx)

	lineage := []string{id}
	parentID := ""
	if parent != nil {
		parentID = parent.ID
		lineage = append(append([]string{}, parent.LineageIDs...), id)
	}

	s := &Species{
		ID:              id,
		CreationTick:    tick,
		Color:           colorForIndex(reg.Seed, idx),
		CentroidGenome:  g,
		CentroidSamples: 1,
		AllowedBiomes:   allowedBiomesFor(g),
		HabitatHint:     habitatHintFor(g),
		DietKind:        dietKindName(g.DietType),
		SizeClass:       sizeClassFor(g),
		ParentSpeciesID: parentID,
		LineageIDs:      lineage,
	}
	s.CommonName = reg.uniqueName(s, r)

	reg.bySeq = append(reg.bySeq, s)
	reg.byID[id] = s
	return s
}

// SetPopulationCounts assigns recomputed per-species population counts
// (called once per tick at the end of CreatureSystem.step, §4.7).
func (reg *Registry) SetPopulationCounts(counts map[string]int) {
	for _, s := range reg.bySeq {
		s.Population = counts[s.ID]
	}
}

func dietKindName(d Diet) string {
	switch d {
	case Predator:
		return "predator"
	case Omnivore:
		return "omnivore"
	default:
		return "herbivore"
	}
}

func habitatHintFor(g Genome) string {
	switch {
	case g.PreferredHumidity > 0.7:
		return "wetland"
	case g.PreferredHumidity < 0.3:
		return "arid"
	case g.PreferredTemp > 0.7:
		return "tropical"
	case g.PreferredTemp < 0.3:
		return "cold"
	default:
		return "temperate"
	}
}

func sizeClassFor(g Genome) string {
	switch {
	case g.MaxEnergy > 300:
		return "large"
	case g.MaxEnergy > 150:
		return "medium"
	default:
		return "small"
	}
}

// allowedBiomesFor derives the centroid's habitat once at creation, per §3.3.
func allowedBiomesFor(g Genome) map[worldstate.Biome]bool {
	allowed := map[worldstate.Biome]bool{}
	hot := g.PreferredTemp > 0.6
	cold := g.PreferredTemp < 0.4
	wet := g.PreferredHumidity > 0.6
	dry := g.PreferredHumidity < 0.4

	allowed[worldstate.Grassland] = true
	allowed[worldstate.Hills] = true
	if wet {
		allowed[worldstate.Forest] = true
		allowed[worldstate.Swamp] = true
		allowed[worldstate.Jungle] = hot
	}
	if dry {
		allowed[worldstate.Savanna] = true
		allowed[worldstate.Desert] = hot
	}
	if cold {
		allowed[worldstate.Snow] = true
		allowed[worldstate.Mountain] = true
	}
	if !hot && !cold {
		allowed[worldstate.Forest] = true
	}
	allowed[worldstate.Beach] = true
	return allowed
}

func colorForIndex(seed int32, idx int) [3]uint8 {
	h := uint32(seed)*2654435761 + uint32(idx)*40503
	return [3]uint8{uint8(h), uint8(h >> 8), uint8(h >> 16)}
}

var nameAdjectives = []string{
	"Crimson", "Azure", "Dusky", "Lithe", "Hardy", "Swift", "Gilded", "Shadow",
	"Ember", "Frost", "Verdant", "Iron", "Silent", "Nimble", "Brindle",
}

var nameNouns = []string{
	"Strider", "Grazer", "Stalker", "Runner", "Forager", "Crawler", "Glider",
	"Burrower", "Wader", "Climber", "Prowler", "Nester", "Drifter",
}

// RegistrySnapshot is the serializable projection of a Registry, used by
// SaveManager (§4.10: "species registry (records and counter)").
type RegistrySnapshot struct {
	Seed     int32
	Species  []Species
	NextIdx  int
	UsedName map[string]bool
}

// Export captures every species record, including extinct ones (species are
// never deleted, §3.3).
func (reg *Registry) Export() RegistrySnapshot {
	out := make([]Species, len(reg.bySeq))
	for i, s := range reg.bySeq {
		out[i] = *s
	}
	used := make(map[string]bool, len(reg.usedName))
	for k, v := range reg.usedName {
		used[k] = v
	}
	return RegistrySnapshot{Seed: reg.Seed, Species: out, NextIdx: reg.nextIdx, UsedName: used}
}

// Restore replaces the registry's contents with snap's, rebuilding the id
// index.
func (reg *Registry) Restore(snap RegistrySnapshot) {
	reg.Seed = snap.Seed
	reg.nextIdx = snap.NextIdx
	reg.bySeq = make([]*Species, len(snap.Species))
	reg.byID = make(map[string]*Species, len(snap.Species))
	for i := range snap.Species {
		s := snap.Species[i]
		reg.bySeq[i] = &s
		reg.byID[s.ID] = &s
	}
	reg.usedName = make(map[string]bool, len(snap.UsedName))
	for k, v := range snap.UsedName {
		reg.usedName[k] = v
	}
}

// uniqueName deterministically derives a common name from the species index
// and diet kind, regenerating with a numeric suffix on collision within the
// run (§4.6).
func (reg *Registry) uniqueName(s *Species, r *rng.Stream) string {
	h := uint32(reg.Seed)*2654435761 + uint32(reg.nextIdx)*40503
	adj := nameAdjectives[h%uint32(len(nameAdjectives))]
	noun := nameNouns[(h/uint32(len(nameAdjectives)))%uint32(len(nameNouns))]
	base := adj + " " + noun

	name := base
	suffix := 2
	for reg.usedName[name] {
		name = fmt.Sprintf("%s %d", base, suffix)
		suffix++
	}
	reg.usedName[name] = true
	return name
}
