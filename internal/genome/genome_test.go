package genome

import (
	"testing"

	"github.com/biotica/biotica/internal/rng"
)

func TestRandomGenomeWithinBounds(t *testing.T) {
	r := rng.New(1)
	for i := 0; i < 200; i++ {
		g := Random(r)
		assertBounds(t, g)
	}
}

func TestMutateStaysWithinBounds(t *testing.T) {
	r := rng.New(2)
	g := Random(r)
	for i := 0; i < 500; i++ {
		g = Mutate(g, r, 0.3)
		assertBounds(t, g)
	}
}

func TestMutatePredatorNeverSpontaneous(t *testing.T) {
	r := rng.New(3)
	g := Genome{DietType: Herbivore}
	g.Clamp()
	for i := 0; i < 5000; i++ {
		g = Mutate(g, r, 0.5)
		if g.DietType == Predator {
			t.Fatalf("Predator must never arise from spontaneous mutation")
		}
	}
}

func TestRandomNeverRollsPredatorDirectly(t *testing.T) {
	r := rng.New(5)
	for i := 0; i < 2000; i++ {
		g := Random(r)
		if g.DietType == Predator {
			t.Fatalf("Random must never roll Predator directly; only PromoteToPredator may")
		}
	}
}

func TestBlendWithinBounds(t *testing.T) {
	r := rng.New(4)
	a := Random(r)
	b := Random(r)
	g := Blend(a, b)
	assertBounds(t, g)
}

func assertBounds(t *testing.T, g Genome) {
	t.Helper()
	for name, b := range FieldBounds {
		var v float64
		switch name {
		case "MetabolismRate":
			v = g.MetabolismRate
		case "MoveCost":
			v = g.MoveCost
		case "PreferredTemp":
			v = g.PreferredTemp
		case "TempTolerance":
			v = g.TempTolerance
		case "PreferredHumidity":
			v = g.PreferredHumidity
		case "HumidityTolerance":
			v = g.HumidityTolerance
		case "Aggression":
			v = g.Aggression
		case "ReproductionThreshold":
			v = g.ReproductionThreshold
		case "ReproductionCost":
			v = g.ReproductionCost
		case "Efficiency":
			v = g.Efficiency
		case "MaxEnergy":
			v = g.MaxEnergy
		}
		if v < b.Min || v > b.Max {
			t.Fatalf("field %s out of bounds: %f not in [%f,%f]", name, v, b.Min, b.Max)
		}
	}
	if g.PerceptionRadius < minPerceptionRadius || g.PerceptionRadius > maxPerceptionRadius {
		t.Fatalf("PerceptionRadius out of bounds: %d", g.PerceptionRadius)
	}
	if g.MaxAge < minMaxAge || g.MaxAge > maxMaxAge {
		t.Fatalf("MaxAge out of bounds: %d", g.MaxAge)
	}
}
