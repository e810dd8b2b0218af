package genome

import (
	"testing"

	"github.com/biotica/biotica/internal/rng"
)

func TestSpeciesNeverDeletedAndLineageEndsInSelf(t *testing.T) {
	reg := NewRegistry(777)
	r := rng.New(1)
	for i := 0; i < 500; i++ {
		g := Mutate(Random(r), r, 0.3)
		s := reg.AssignSpecies(g, i, r)
		if s.LineageIDs[len(s.LineageIDs)-1] != s.ID {
			t.Fatalf("lineage must end with species' own id")
		}
		if s.ParentSpeciesID != "" {
			if _, ok := reg.Get(s.ParentSpeciesID); !ok {
				t.Fatalf("parent species must be present in registry")
			}
		}
	}
	count := len(reg.All())
	// Simulate further ticks; species count must never decrease.
	for i := 500; i < 1000; i++ {
		g := Mutate(Random(r), r, 0.3)
		reg.AssignSpecies(g, i, r)
		if len(reg.All()) < count {
			t.Fatalf("species count decreased")
		}
		count = len(reg.All())
	}
}

func TestAssignSpeciesReusesCloseCentroid(t *testing.T) {
	reg := NewRegistry(1)
	r := rng.New(1)
	g := Random(r)
	s1 := reg.AssignSpecies(g, 0, r)
	s2 := reg.AssignSpecies(g, 1, r)
	if s1.ID != s2.ID {
		t.Fatalf("identical genome should reuse the same species")
	}
	if len(reg.All()) != 1 {
		t.Fatalf("expected exactly one species")
	}
}

func TestUniqueNamesWithinRun(t *testing.T) {
	reg := NewRegistry(5)
	r := rng.New(9)
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		g := Genome{
			MetabolismRate: float64(i) * 0.05, PreferredTemp: float64(i%10) / 10,
			PreferredHumidity: float64((i * 3) % 10) / 10, MaxEnergy: 50 + float64(i)*5,
		}
		g.Clamp()
		s := reg.create(g, i, nil, r)
		if seen[s.CommonName] {
			t.Fatalf("duplicate common name %q", s.CommonName)
		}
		seen[s.CommonName] = true
	}
}
