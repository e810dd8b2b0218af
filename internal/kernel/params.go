package kernel

// CreateParams carries the one-time, world-creation-only inputs named by
// §6.3's create-world surface (name, terrain toggles, feature gates). These
// are distinct from config.Tuning's continuously-adjustable rates: a
// CreateParams value only matters at New/ResetSimulation time, never
// mid-run.
type CreateParams struct {
	Name string

	// TreeDensity seeds every growable tile's starting plant biomass as a
	// fraction of its biome's max (§6.3).
	TreeDensity float64

	// VolcanoCount is the closed {0,1} toggle from §6.3: 0 disables the
	// terrain generator's single optional volcano anchor.
	VolcanoCount int

	// EnableGeneAgent gates whether reproduction runs genome.Mutate at all;
	// disabled, offspring are a pure Blend of their parents with no
	// mutation step.
	EnableGeneAgent bool

	// EnableCivs gates whether CivSystem steps at all each tick.
	EnableCivs bool

	// EnablePredators gates whether a hunting streak can ever promote an
	// offspring's diet to Predator.
	EnablePredators bool
}

// DefaultCreateParams mirrors config.DefaultTuning's role for CreateParams:
// a named world, one volcano, and every optional subsystem enabled.
func DefaultCreateParams() CreateParams {
	return CreateParams{
		Name:            "world",
		TreeDensity:     0.4,
		VolcanoCount:    1,
		EnableGeneAgent: true,
		EnableCivs:      true,
		EnablePredators: true,
	}
}
