package worldstate

// Biome is the closed enum of tile biome kinds (§3.1).
type Biome uint8

const (
	DeepWater Biome = iota
	ShallowWater
	Beach
	Grassland
	Forest
	Jungle
	Desert
	Savanna
	Swamp
	Hills
	Mountain
	Snow
	Rock
	Lava
	Scorched
)

var biomeNames = [...]string{
	"DeepWater", "ShallowWater", "Beach", "Grassland", "Forest", "Jungle",
	"Desert", "Savanna", "Swamp", "Hills", "Mountain", "Snow", "Rock",
	"Lava", "Scorched",
}

// String returns the enum member name, matching spec.md's closed set.
func (b Biome) String() string {
	if int(b) < len(biomeNames) {
		return biomeNames[b]
	}
	return "Unknown"
}

// IsWater reports whether the biome is one of the water kinds.
func (b Biome) IsWater() bool {
	return b == DeepWater || b == ShallowWater
}

// BlocksPlantGrowth reports whether plant biomass growth is zero on this
// biome per §4.4.
func (b Biome) BlocksPlantGrowth() bool {
	switch b {
	case DeepWater, ShallowWater, Lava, Snow, Scorched, Rock:
		return true
	default:
		return false
	}
}
