package civ

// Territory control tuning (§9 open question: "territory control increments
// and decay rates are not fully parameterized in the source"). Pinned here
// as fixed constants, tunable but not exposed via SimTuning.
const (
	controlIncrementAtTile = 18  // control gained on the agent's own tile
	controlIncrementRadial = 4   // control gained on tiles within influence radius
	controlInfluenceRadius = 2
	controlDecayPerTick    = 1
	maxControl             = 255

	foundingCognitionThreshold = 0.72 // §4.8.8 "intelligence awakening"
	splitPopulationThreshold   = 60
	splitTerritoryThreshold    = 400

	agentPerceptionRadius = 4 // §4.8.1, bounded <= 4
)
