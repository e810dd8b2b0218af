// Package presets loads named world-creation presets (§6.3's "preset"
// argument) from YAML and turns them into SimTuning patches applied
// through WorldGenesis acceptance.
package presets

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/biotica/biotica/internal/config"
)

// Patch is a partial SimTuning overlay; nil fields mean "leave default".
type Patch struct {
	PlantBaseGrowth       *float64 `yaml:"plantBaseGrowth,omitempty"`
	PlantMaxBiomass       *float64 `yaml:"plantMaxBiomass,omitempty"`
	PlantDecay            *float64 `yaml:"plantDecay,omitempty"`
	BaseMetabolism        *float64 `yaml:"baseMetabolism,omitempty"`
	ReproductionThreshold *float64 `yaml:"reproductionThreshold,omitempty"`
	ReproductionCost      *float64 `yaml:"reproductionCost,omitempty"`
	MutationRate          *float64 `yaml:"mutationRate,omitempty"`
	EventRate             *float64 `yaml:"eventRate,omitempty"`
	SimulationSpeed       *float64 `yaml:"simulationSpeed,omitempty"`
}

// Preset is one named, YAML-defined world-creation preset.
type Preset struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Patch       Patch  `yaml:"tuning"`
}

type document struct {
	Presets []Preset `yaml:"presets"`
}

// Library is the parsed, named set of presets, keyed by name.
type Library struct {
	byName map[string]Preset
	order  []string
}

// Parse reads a presets YAML document.
func Parse(src []byte) (*Library, error) {
	var doc document
	if err := yaml.Unmarshal(src, &doc); err != nil {
		return nil, fmt.Errorf("presets: parse yaml: %w", err)
	}
	lib := &Library{byName: make(map[string]Preset, len(doc.Presets))}
	for _, p := range doc.Presets {
		if _, dup := lib.byName[p.Name]; dup {
			return nil, fmt.Errorf("presets: duplicate preset name %q", p.Name)
		}
		lib.byName[p.Name] = p
		lib.order = append(lib.order, p.Name)
	}
	return lib, nil
}

// Get looks up a preset by name.
func (l *Library) Get(name string) (Preset, bool) {
	p, ok := l.byName[name]
	return p, ok
}

// Names returns every preset name in declaration order.
func (l *Library) Names() []string {
	out := make([]string, len(l.order))
	copy(out, l.order)
	return out
}

// Apply overlays a patch onto a base tuning, then clamps the result (§4.0,
// §4.11: WorldGenesis always clamps on acceptance).
func (p Patch) Apply(base config.Tuning) config.Tuning {
	t := base
	if p.PlantBaseGrowth != nil {
		t.PlantBaseGrowth = *p.PlantBaseGrowth
	}
	if p.PlantMaxBiomass != nil {
		t.PlantMaxBiomass = *p.PlantMaxBiomass
	}
	if p.PlantDecay != nil {
		t.PlantDecay = *p.PlantDecay
	}
	if p.BaseMetabolism != nil {
		t.BaseMetabolism = *p.BaseMetabolism
	}
	if p.ReproductionThreshold != nil {
		t.ReproductionThreshold = *p.ReproductionThreshold
	}
	if p.ReproductionCost != nil {
		t.ReproductionCost = *p.ReproductionCost
	}
	if p.MutationRate != nil {
		t.MutationRate = *p.MutationRate
	}
	if p.EventRate != nil {
		t.EventRate = *p.EventRate
	}
	if p.SimulationSpeed != nil {
		t.SimulationSpeed = *p.SimulationSpeed
	}
	t.Clamp()
	return t
}

// DefaultSource is the stock preset set shipped with the binary.
const DefaultSource = `
presets:
  - name: lush
    description: dense plant growth, mild events
    tuning:
      plantBaseGrowth: 1.2
      plantMaxBiomass: 255
      eventRate: 0.6
  - name: arid
    description: sparse growth, frequent droughts
    tuning:
      plantBaseGrowth: 0.3
      plantDecay: 0.4
      eventRate: 1.4
  - name: volcanic
    description: high hazard pressure from eruptions
    tuning:
      eventRate: 1.8
      plantDecay: 0.3
`
