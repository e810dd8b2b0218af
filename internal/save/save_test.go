package save

import (
	"bytes"
	"encoding/gob"
	"testing"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/biotica/biotica/internal/config"
	"github.com/biotica/biotica/internal/creature"
	"github.com/biotica/biotica/internal/event"
	"github.com/biotica/biotica/internal/eventlog"
	"github.com/biotica/biotica/internal/genome"
	"github.com/biotica/biotica/internal/items"
	"github.com/biotica/biotica/internal/worldstate"
)

func testRecord(t *testing.T) Record {
	t.Helper()
	w := worldstate.New(6, 6, 42)
	w.Tick = 7
	w.Tiles[3] = worldstate.Forest

	reg := genome.NewRegistry(42)
	cs := creature.NewSystem()

	catalog, recipes, err := items.NewCatalog(items.DefaultCatalogSource)
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	evo := items.NewEvolution(catalog, recipes)

	log := eventlog.New(100)
	log.Append(7, time.Time{}, eventlog.Info, eventlog.CategoryInfo, "boot")

	return Record{
		Seed:           42,
		Tick:           7,
		Tuning:         config.DefaultTuning(),
		World:          *w,
		ItemCatalogSrc: items.DefaultCatalogSource,
		Species:        reg.Export(),
		Creatures:      cs.Export(),
		Crafting:       evo.Export(),
		Events:         event.NewSystem().Export(),
		Log:            log.Export(),
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	rec := testRecord(t)
	blob, err := Encode(rec, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	got, err := Decode(blob)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if got.Tick != rec.Tick || got.Seed != rec.Seed {
		t.Fatalf("round trip mismatch: got tick=%d seed=%d, want tick=%d seed=%d", got.Tick, got.Seed, rec.Tick, rec.Seed)
	}
	if got.World.Tiles[3] != worldstate.Forest {
		t.Fatalf("expected decoded world to preserve tile biome")
	}
	if got.SchemaVersion != SchemaVersion {
		t.Fatalf("expected schema version %d, got %d", SchemaVersion, got.SchemaVersion)
	}
	if got.ContainerID == "" {
		t.Fatalf("expected a non-empty container id")
	}
}

func TestEncodeIsDeterministicForSameSeedAndTick(t *testing.T) {
	rec := testRecord(t)
	stamp := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	a, err := Encode(rec, stamp)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	decodedA, _ := Decode(a)

	b, err := Encode(rec, stamp)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	decodedB, _ := Decode(b)

	if decodedA.ContainerID != decodedB.ContainerID {
		t.Fatalf("expected container id derived from seed+tick to be stable across encodes")
	}
}

func TestDecodeCorruptPayloadReturnsTypedError(t *testing.T) {
	_, err := Decode([]byte("not a valid zstd frame"))
	if err == nil {
		t.Fatalf("expected an error for a corrupt payload")
	}
	var loadErr *LoadError
	if !asLoadError(err, &loadErr) {
		t.Fatalf("expected a *LoadError, got %T", err)
	}
	if loadErr.Code != CorruptPayload {
		t.Fatalf("expected CorruptPayload, got %v", loadErr.Code)
	}
}

func TestDecodeSchemaTooNewIsRejected(t *testing.T) {
	rec := testRecord(t)
	rec.SchemaVersion = SchemaVersion + 1
	rec.SavedAt = time.Now()
	rec.ContainerID = newContainerID(rec.Seed, rec.Tick)

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(&rec); err != nil {
		t.Fatalf("gob encode: %v", err)
	}
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		t.Fatalf("zstd writer: %v", err)
	}
	blob := enc.EncodeAll(buf.Bytes(), nil)
	enc.Close()

	_, err = Decode(blob)
	if err == nil {
		t.Fatalf("expected an error decoding a newer-than-supported schema")
	}
	var loadErr *LoadError
	if !asLoadError(err, &loadErr) {
		t.Fatalf("expected a *LoadError, got %T", err)
	}
	if loadErr.Code != SchemaTooNew {
		t.Fatalf("expected SchemaTooNew, got %v", loadErr.Code)
	}
}

func asLoadError(err error, target **LoadError) bool {
	le, ok := err.(*LoadError)
	if !ok {
		return false
	}
	*target = le
	return true
}
