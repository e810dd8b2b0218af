package presets

import (
	"testing"

	"github.com/biotica/biotica/internal/config"
)

func TestParseDefaultSource(t *testing.T) {
	lib, err := Parse([]byte(DefaultSource))
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if len(lib.Names()) != 3 {
		t.Fatalf("expected 3 default presets, got %d", len(lib.Names()))
	}
	if _, ok := lib.Get("lush"); !ok {
		t.Fatalf("expected lush preset to exist")
	}
}

func TestApplyOverlaysAndClamps(t *testing.T) {
	lib, err := Parse([]byte(DefaultSource))
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	p, _ := lib.Get("arid")
	base := config.DefaultTuning()
	result := p.Patch.Apply(base)
	if result.PlantBaseGrowth != 0.3 {
		t.Fatalf("expected arid preset to override PlantBaseGrowth, got %v", result.PlantBaseGrowth)
	}
	if result.ReproductionCost != base.ReproductionCost {
		t.Fatalf("expected unrelated fields left at base values")
	}

	over := 5.0
	clamped := Patch{MutationRate: &over}.Apply(base)
	if clamped.MutationRate != 1.0 {
		t.Fatalf("expected out-of-bounds MutationRate clamped to 1.0, got %v", clamped.MutationRate)
	}
}

func TestDuplicatePresetNameRejected(t *testing.T) {
	_, err := Parse([]byte("presets:\n  - name: a\n  - name: a\n"))
	if err == nil {
		t.Fatalf("expected an error for duplicate preset names")
	}
}
