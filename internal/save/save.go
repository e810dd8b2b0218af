// Package save implements the SaveManager contract (§4.10): a binary,
// versioned container holding every piece of deterministic kernel state,
// compressed with zstd. Loading a corrupt or unsupported-schema payload
// never partially mutates the caller (§6.2).
package save

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"

	"github.com/biotica/biotica/internal/civ"
	"github.com/biotica/biotica/internal/config"
	"github.com/biotica/biotica/internal/creature"
	"github.com/biotica/biotica/internal/event"
	"github.com/biotica/biotica/internal/eventlog"
	"github.com/biotica/biotica/internal/genome"
	"github.com/biotica/biotica/internal/items"
	"github.com/biotica/biotica/internal/worldstate"
)

// SchemaVersion is bumped whenever Record's shape changes incompatibly.
// Migrations, when introduced, apply monotonically from any older version
// up to SchemaVersion.
const SchemaVersion = 1

// Record is the complete deserializable kernel state (§4.10's field list).
// It is the payload gob-encodes and zstd-compresses to produce a save file.
type Record struct {
	SchemaVersion int
	SavedAt       time.Time
	ContainerID   string

	Seed   int32
	Tick   int
	Tuning config.Tuning

	World          worldstate.World
	ItemCatalogSrc string

	// RNG carries every subsystem's independent stream state (§3.1's
	// seed-derived forks), required alongside Tick for the round-trip
	// invariant: a fork reconstructed from MainRNG alone would not match
	// a stream that has since advanced on its own.
	RNG RNGState

	EnvironmentCursor int
	PlantCursor       int

	Species   genome.RegistrySnapshot
	Creatures creature.Snapshot
	Civ       civ.Snapshot
	Crafting  items.EvolutionSnapshot
	Events    event.Snapshot
	Log       eventlog.Snapshot
}

// RNGState is every named RNG stream's raw xorshift32 state.
type RNGState struct {
	Main    uint32
	Terrain uint32
	Species uint32
	Civ     uint32
	Event   uint32
	Item    uint32
}

// ErrorCode is the closed enum of LoadError reasons (§6.2).
type ErrorCode uint8

const (
	CorruptPayload ErrorCode = iota
	SchemaTooNew
	SchemaUnsupported
	Io
)

func (c ErrorCode) String() string {
	switch c {
	case CorruptPayload:
		return "CorruptPayload"
	case SchemaTooNew:
		return "SchemaTooNew"
	case SchemaUnsupported:
		return "SchemaUnsupported"
	case Io:
		return "Io"
	default:
		return "Unknown"
	}
}

// LoadError is returned by Decode when a payload cannot be safely applied.
type LoadError struct {
	Code ErrorCode
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("save: %s: %v", e.Code, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// containerNamespace is a fixed namespace UUID for deriving container ids;
// any value works as long as it is stable across runs.
var containerNamespace = uuid.MustParse("6f6d2e6f-5361-4776-8272-6f6f744944ff")

// newContainerID derives a deterministic id from the seed and tick, never
// from wall clock or OS entropy (§5 determinism requirement: "Wall-clock
// values may appear only in log metadata and save headers").
func newContainerID(seed int32, tick int) string {
	name := fmt.Sprintf("biotica-%d-%d", seed, tick)
	return uuid.NewSHA1(containerNamespace, []byte(name)).String()
}

// Encode gob-encodes and zstd-compresses rec into a save blob. SavedAt and
// ContainerID are stamped here; callers supply savedAt from their own
// wall-clock source since the package itself must not read the clock
// (kept as an explicit parameter rather than time.Now to stay testable).
func Encode(rec Record, savedAt time.Time) ([]byte, error) {
	rec.SchemaVersion = SchemaVersion
	rec.SavedAt = savedAt
	rec.ContainerID = newContainerID(rec.Seed, rec.Tick)

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(&rec); err != nil {
		return nil, fmt.Errorf("save: encode: %w", err)
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("save: init compressor: %w", err)
	}
	defer enc.Close()

	return enc.EncodeAll(buf.Bytes(), nil), nil
}

// Decode decompresses and gob-decodes a save blob. It returns a typed
// LoadError on any failure; the caller's state is never touched before a
// full, successful decode.
func Decode(blob []byte) (Record, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return Record{}, &LoadError{Code: Io, Err: err}
	}
	defer dec.Close()

	raw, err := dec.DecodeAll(blob, nil)
	if err != nil {
		return Record{}, &LoadError{Code: CorruptPayload, Err: err}
	}

	var rec Record
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&rec); err != nil {
		return Record{}, &LoadError{Code: CorruptPayload, Err: err}
	}

	switch {
	case rec.SchemaVersion > SchemaVersion:
		return Record{}, &LoadError{Code: SchemaTooNew, Err: fmt.Errorf("schema %d newer than supported %d", rec.SchemaVersion, SchemaVersion)}
	case rec.SchemaVersion <= 0:
		return Record{}, &LoadError{Code: SchemaUnsupported, Err: fmt.Errorf("schema %d unsupported", rec.SchemaVersion)}
	}

	return rec, nil
}
