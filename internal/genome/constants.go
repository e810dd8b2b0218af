package genome

// SpeciationThreshold is the calibration constant from spec.md §4.6: a
// creature attaches to the nearest species centroid when the weighted
// genetic distance is at or below this value, otherwise a new species is
// created. Open Question (spec.md §9): treated as tunable but default-fixed,
// not exposed via SimTuning.
const SpeciationThreshold = 1.55

// DietMismatchPenalty is added to genetic distance when candidate and
// centroid disagree on DietType.
const DietMismatchPenalty = 0.6

// fieldWeights is the weighted-L1 distance weighting over normalized
// genome fields. Behavioral fields (aggression, diet-adjacent traits)
// weigh more heavily than metabolic housekeeping fields.
var fieldWeights = map[string]float64{
	"MetabolismRate":        0.7,
	"MoveCost":              0.5,
	"PreferredTemp":         1.0,
	"TempTolerance":         0.6,
	"PreferredHumidity":     1.0,
	"HumidityTolerance":     0.6,
	"Aggression":            1.1,
	"ReproductionThreshold": 0.4,
	"ReproductionCost":      0.4,
	"Efficiency":            0.5,
	"MaxEnergy":             0.5,
}
