// Package genome implements the fixed-schema quantitative genome (§3.2) and
// the centroid-based species registry with drift and speciation (§4.6).
package genome

import (
	"math"

	"github.com/biotica/biotica/internal/rng"
)

// Diet is the closed enum of dietary strategies.
type Diet uint8

const (
	Herbivore Diet = iota
	Predator
	Omnivore
)

// Genome is the 14-field quantitative schema of §3.2. All continuous
// fields are bounded; Clamp enforces the bounds after mutation or blending.
type Genome struct {
	MetabolismRate        float64
	MoveCost              float64
	PreferredTemp         float64
	TempTolerance         float64
	PreferredHumidity     float64
	HumidityTolerance     float64
	Aggression            float64
	ReproductionThreshold float64
	ReproductionCost      float64
	PerceptionRadius      int
	DietType              Diet
	Efficiency            float64
	MaxEnergy             float64
	MaxAge                int
}

// Bounds is a [min,max] pair.
type Bounds struct{ Min, Max float64 }

// FieldBounds pins the declared bounds for every continuous field (§8
// invariant 6). PerceptionRadius and MaxAge are integer-bounded separately.
var FieldBounds = map[string]Bounds{
	"MetabolismRate":        {0.2, 3.0},
	"MoveCost":              {0.05, 2.0},
	"PreferredTemp":         {0.0, 1.0},
	"TempTolerance":         {0.02, 0.9},
	"PreferredHumidity":     {0.0, 1.0},
	"HumidityTolerance":     {0.02, 0.9},
	"Aggression":            {0.0, 1.0},
	"ReproductionThreshold": {0.2, 0.95},
	"ReproductionCost":      {0.1, 0.8},
	"Efficiency":            {0.1, 1.0},
	"MaxEnergy":             {50.0, 400.0},
}

const (
	minPerceptionRadius = 1
	maxPerceptionRadius = 6
	minMaxAge           = 100
	maxMaxAge           = 20000
)

// initialDiets are the only diets Random may roll. Predator is reachable
// solely via PromoteToPredator.
var initialDiets = []Diet{Herbivore, Omnivore}

func clamp(v float64, b Bounds) float64 {
	if v < b.Min {
		return b.Min
	}
	if v > b.Max {
		return b.Max
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp enforces every field's declared bounds in place.
func (g *Genome) Clamp() {
	g.MetabolismRate = clamp(g.MetabolismRate, FieldBounds["MetabolismRate"])
	g.MoveCost = clamp(g.MoveCost, FieldBounds["MoveCost"])
	g.PreferredTemp = clamp(g.PreferredTemp, FieldBounds["PreferredTemp"])
	g.TempTolerance = clamp(g.TempTolerance, FieldBounds["TempTolerance"])
	g.PreferredHumidity = clamp(g.PreferredHumidity, FieldBounds["PreferredHumidity"])
	g.HumidityTolerance = clamp(g.HumidityTolerance, FieldBounds["HumidityTolerance"])
	g.Aggression = clamp(g.Aggression, FieldBounds["Aggression"])
	g.ReproductionThreshold = clamp(g.ReproductionThreshold, FieldBounds["ReproductionThreshold"])
	g.ReproductionCost = clamp(g.ReproductionCost, FieldBounds["ReproductionCost"])
	g.Efficiency = clamp(g.Efficiency, FieldBounds["Efficiency"])
	g.MaxEnergy = clamp(g.MaxEnergy, FieldBounds["MaxEnergy"])
	g.PerceptionRadius = clampInt(g.PerceptionRadius, minPerceptionRadius, maxPerceptionRadius)
	g.MaxAge = clampInt(g.MaxAge, minMaxAge, maxMaxAge)
}

// Random produces a genome with each field drawn uniformly from its bounds,
// used for initial spawn population seeding.
func Random(r *rng.Stream) Genome {
	g := Genome{
		MetabolismRate:        r.NextFloatRange(FieldBounds["MetabolismRate"].Min, FieldBounds["MetabolismRate"].Max),
		MoveCost:              r.NextFloatRange(FieldBounds["MoveCost"].Min, FieldBounds["MoveCost"].Max),
		PreferredTemp:         r.NextFloatRange(0, 1),
		TempTolerance:         r.NextFloatRange(FieldBounds["TempTolerance"].Min, FieldBounds["TempTolerance"].Max),
		PreferredHumidity:     r.NextFloatRange(0, 1),
		HumidityTolerance:     r.NextFloatRange(FieldBounds["HumidityTolerance"].Min, FieldBounds["HumidityTolerance"].Max),
		Aggression:            r.NextFloatRange(0, 1),
		ReproductionThreshold: r.NextFloatRange(FieldBounds["ReproductionThreshold"].Min, FieldBounds["ReproductionThreshold"].Max),
		ReproductionCost:      r.NextFloatRange(FieldBounds["ReproductionCost"].Min, FieldBounds["ReproductionCost"].Max),
		PerceptionRadius:      r.NextRange(minPerceptionRadius, maxPerceptionRadius),
		DietType:              initialDiets[r.NextInt(len(initialDiets))], // initial spawn never rolls Predator directly
		Efficiency:            r.NextFloatRange(FieldBounds["Efficiency"].Min, FieldBounds["Efficiency"].Max),
		MaxEnergy:             r.NextFloatRange(FieldBounds["MaxEnergy"].Min, FieldBounds["MaxEnergy"].Max),
		MaxAge:                r.NextRange(minMaxAge, maxMaxAge),
	}
	g.Clamp()
	return g
}

// Blend produces an offspring's pre-mutation genome as the arithmetic mean
// of two parents, per §4.7's reproduction decision.
func Blend(a, b Genome) Genome {
	diet := a.DietType
	if a.DietType != b.DietType {
		if a.DietType == Predator || b.DietType == Predator {
			diet = Predator
		} else {
			diet = Omnivore
		}
	}
	g := Genome{
		MetabolismRate:        (a.MetabolismRate + b.MetabolismRate) / 2,
		MoveCost:              (a.MoveCost + b.MoveCost) / 2,
		PreferredTemp:         (a.PreferredTemp + b.PreferredTemp) / 2,
		TempTolerance:         (a.TempTolerance + b.TempTolerance) / 2,
		PreferredHumidity:     (a.PreferredHumidity + b.PreferredHumidity) / 2,
		HumidityTolerance:     (a.HumidityTolerance + b.HumidityTolerance) / 2,
		Aggression:            (a.Aggression + b.Aggression) / 2,
		ReproductionThreshold: (a.ReproductionThreshold + b.ReproductionThreshold) / 2,
		ReproductionCost:      (a.ReproductionCost + b.ReproductionCost) / 2,
		PerceptionRadius:      (a.PerceptionRadius + b.PerceptionRadius) / 2,
		DietType:              diet,
		Efficiency:            (a.Efficiency + b.Efficiency) / 2,
		MaxEnergy:             (a.MaxEnergy + b.MaxEnergy) / 2,
		MaxAge:                (a.MaxAge + b.MaxAge) / 2,
	}
	g.Clamp()
	return g
}

// Mutate returns a new genome where each continuous field is perturbed by a
// pseudo-gaussian sum-of-uniforms scaled by rate (§4.6). Integer fields are
// rounded after perturbation. DietType may flip Herbivore<->Omnivore with
// probability 0.03+rate*0.2; Predator never arises spontaneously here.
func Mutate(base Genome, r *rng.Stream, rate float64) Genome {
	g := base
	perturb := func(v float64, scale float64) float64 {
		return v + r.Gaussian()*rate*scale
	}
	g.MetabolismRate = perturb(g.MetabolismRate, 0.3)
	g.MoveCost = perturb(g.MoveCost, 0.15)
	g.PreferredTemp = perturb(g.PreferredTemp, 0.1)
	g.TempTolerance = perturb(g.TempTolerance, 0.08)
	g.PreferredHumidity = perturb(g.PreferredHumidity, 0.1)
	g.HumidityTolerance = perturb(g.HumidityTolerance, 0.08)
	g.Aggression = perturb(g.Aggression, 0.1)
	g.ReproductionThreshold = perturb(g.ReproductionThreshold, 0.05)
	g.ReproductionCost = perturb(g.ReproductionCost, 0.05)
	g.Efficiency = perturb(g.Efficiency, 0.05)
	g.MaxEnergy = perturb(g.MaxEnergy, 10)

	if r.Chance(0.4 * rate * 10) {
		delta := int(math.Round(r.Gaussian() * rate * 2))
		g.PerceptionRadius += delta
	}
	if r.Chance(0.4 * rate * 10) {
		delta := int(math.Round(r.Gaussian() * rate * 200))
		g.MaxAge += delta
	}

	if g.DietType != Predator && r.Chance(0.03+rate*0.2) {
		if g.DietType == Herbivore {
			g.DietType = Omnivore
		} else {
			g.DietType = Herbivore
		}
	}

	g.Clamp()
	return g
}

// PromoteToPredator is the only path by which a lineage becomes Predator;
// spontaneous mutation never sets it (§4.6). attemptReproduction in
// internal/creature calls this for offspring of a parent whose hunting
// streak has crossed the predation-pressure threshold, when EnablePredators
// is on.
func PromoteToPredator(g Genome) Genome {
	g.DietType = Predator
	return g
}
