package snapshot

import (
	"testing"

	"github.com/biotica/biotica/internal/worldstate"
)

func TestBuildCopiesBiomesNotAliased(t *testing.T) {
	w := worldstate.New(4, 4, 1)
	w.Tiles[0] = worldstate.Lava

	b := NewBuilder()
	snap := b.Build(10, Inputs{World: w, Population: 3})

	w.Tiles[0] = worldstate.Grassland
	if snap.Biomes[0] != worldstate.Lava {
		t.Fatalf("snapshot biomes must not alias the live world tiles")
	}
}

func TestBuildStampsSchemaVersionAndTick(t *testing.T) {
	w := worldstate.New(4, 4, 1)
	b := NewBuilder()
	snap := b.Build(42, Inputs{World: w})
	if snap.SchemaVersion != SchemaVersion {
		t.Fatalf("expected schema version %d, got %d", SchemaVersion, snap.SchemaVersion)
	}
	if snap.Tick != 42 {
		t.Fatalf("expected tick 42, got %d", snap.Tick)
	}
}
