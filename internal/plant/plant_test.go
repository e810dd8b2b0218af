package plant

import (
	"testing"

	"github.com/biotica/biotica/internal/rng"
	"github.com/biotica/biotica/internal/worldstate"
)

func tuning() Tuning {
	return Tuning{BaseGrowth: 5, MaxBiomass: 200, Decay: 0.02}
}

func TestNoGrowthOnWater(t *testing.T) {
	w := worldstate.New(3, 3, 1)
	idx := w.Index(1, 1)
	w.Tiles[idx] = worldstate.DeepWater
	w.Fertility[idx] = 255
	w.Humidity[idx] = 255
	u := NewUpdater()
	r := rng.New(1)
	for i := 0; i < 100; i++ {
		u.Step(w, r, i, 9, tuning())
	}
	if w.PlantBiomass[idx] != 0 {
		t.Fatalf("expected no growth on water, got %d", w.PlantBiomass[idx])
	}
}

func TestGrowthClampsToMax(t *testing.T) {
	w := worldstate.New(2, 2, 1)
	idx := w.Index(0, 0)
	w.Tiles[idx] = worldstate.Jungle
	w.Fertility[idx] = 255
	w.Humidity[idx] = 255
	u := NewUpdater()
	r := rng.New(1)
	tn := tuning()
	for i := 0; i < 500; i++ {
		u.Step(w, r, i, 4, tn)
		if w.PlantBiomass[idx] > tn.MaxBiomass {
			t.Fatalf("biomass exceeded MaxBiomass: %d > %d", w.PlantBiomass[idx], tn.MaxBiomass)
		}
	}
	if w.PlantBiomass[idx] == 0 {
		t.Fatalf("expected growth on a fertile jungle tile")
	}
}

func TestDecayReducesBiomass(t *testing.T) {
	w := worldstate.New(2, 2, 1)
	idx := w.Index(0, 0)
	w.Tiles[idx] = worldstate.Desert
	w.PlantBiomass[idx] = 100
	w.Fertility[idx] = 0
	w.Humidity[idx] = 0
	u := NewUpdater()
	r := rng.New(1)
	u.Step(w, r, 0, 4, Tuning{BaseGrowth: 0, MaxBiomass: 200, Decay: 0.5})
	if w.PlantBiomass[idx] >= 100 {
		t.Fatalf("expected decay to reduce biomass, got %d", w.PlantBiomass[idx])
	}
}
