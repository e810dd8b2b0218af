package config

import "testing"

func TestDefaultTuningWithinBounds(t *testing.T) {
	tu := DefaultTuning()
	tu.Clamp()
	if tu != DefaultTuning() {
		t.Fatalf("defaults should already satisfy their own bounds")
	}
}

func TestClampEnforcesBounds(t *testing.T) {
	tu := Tuning{MutationRate: 5, PlantMaxBiomass: -10, SimulationSpeed: 1000}
	tu.Clamp()
	if tu.MutationRate != 1.0 {
		t.Fatalf("expected MutationRate clamped to 1.0, got %v", tu.MutationRate)
	}
	if tu.PlantMaxBiomass != 10 {
		t.Fatalf("expected PlantMaxBiomass clamped to its minimum, got %v", tu.PlantMaxBiomass)
	}
	if tu.SimulationSpeed != 20.0 {
		t.Fatalf("expected SimulationSpeed clamped to its maximum, got %v", tu.SimulationSpeed)
	}
}

func TestLoadTextServiceDefaultsWhenUnset(t *testing.T) {
	t.Setenv("AI_PROVIDER", "")
	t.Setenv("AI_TIMEOUT_MS", "")
	svc := LoadTextService(nil)
	if svc.Provider != ProviderOllama {
		t.Fatalf("expected default provider ollama, got %v", svc.Provider)
	}
	if svc.TimeoutMS != 30000 {
		t.Fatalf("expected default timeout, got %v", svc.TimeoutMS)
	}
}

func TestLoadTextServiceClampsBoundedKeys(t *testing.T) {
	t.Setenv("AI_TIMEOUT_MS", "999999")
	t.Setenv("AI_CACHE_MAX_ENTRIES", "1")
	svc := LoadTextService(nil)
	if svc.TimeoutMS != 120000 {
		t.Fatalf("expected timeout clamped to 120000, got %v", svc.TimeoutMS)
	}
	if svc.CacheMaxEntries != 16 {
		t.Fatalf("expected cache max entries clamped to 16, got %v", svc.CacheMaxEntries)
	}
}

func TestLoadTextServiceScopeOverrides(t *testing.T) {
	svc := LoadTextService([]string{"AI_CIV_MODEL=tiny-llama"})
	if svc.ScopeModelOverride["CIV"] != "tiny-llama" {
		t.Fatalf("expected scope override parsed, got %+v", svc.ScopeModelOverride)
	}
}
