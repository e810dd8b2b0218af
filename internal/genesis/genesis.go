// Package genesis implements WorldGenesis acceptance (§4.11): applying an
// externally supplied SimTuning patch exactly once at reset, clamped to
// bounds, with a reset-token discipline that lets in-flight async setup
// tasks detect they were superseded (§5).
package genesis

import (
	"fmt"
	"time"

	"github.com/biotica/biotica/internal/config"
	"github.com/biotica/biotica/internal/eventlog"
	"github.com/biotica/biotica/internal/presets"
)

// Token is a monotonically increasing reset generation counter. Every call
// to Reset produces a new Token; async setup tasks (catalog generation,
// genesis tuning) carry the Token they started with and must check it
// against Current before committing their result, aborting silently on
// mismatch (§5).
type Token uint64

// Tokens issues strictly increasing Token values for one run of the kernel.
type Tokens struct {
	current Token
}

// Current returns the active reset generation.
func (t *Tokens) Current() Token { return t.current }

// Next bumps the generation and returns the new token, to be used for a
// fresh resetSimulation(seed) call.
func (t *Tokens) Next() Token {
	t.current++
	return t.current
}

// Valid reports whether tok is still the active generation; async tasks
// call this immediately before applying their result to the kernel.
func (t *Tokens) Valid(tok Token) bool { return tok == t.current }

// Summary records what WorldGenesis acceptance actually applied, for the
// single info-level log entry §4.11 requires.
type Summary struct {
	ReasonCodes []string
	Clamped     []string // field names that were out of bounds and clamped
	Applied     config.Tuning
}

// Accept applies patch to base exactly once: every field patch sets is
// clamped to its documented bounds, any field that required clamping is
// recorded by name, and the result plus the caller's reasonCodes are
// assembled into a Summary. It never mutates base.
func Accept(base config.Tuning, patch presets.Patch, reasonCodes []string) Summary {
	after := patch.Apply(base)

	var clamped []string
	compareClamped(&clamped, "PlantBaseGrowth", patch.PlantBaseGrowth, after.PlantBaseGrowth)
	compareClamped(&clamped, "PlantMaxBiomass", patch.PlantMaxBiomass, after.PlantMaxBiomass)
	compareClamped(&clamped, "PlantDecay", patch.PlantDecay, after.PlantDecay)
	compareClamped(&clamped, "BaseMetabolism", patch.BaseMetabolism, after.BaseMetabolism)
	compareClamped(&clamped, "ReproductionThreshold", patch.ReproductionThreshold, after.ReproductionThreshold)
	compareClamped(&clamped, "ReproductionCost", patch.ReproductionCost, after.ReproductionCost)
	compareClamped(&clamped, "MutationRate", patch.MutationRate, after.MutationRate)
	compareClamped(&clamped, "EventRate", patch.EventRate, after.EventRate)
	compareClamped(&clamped, "SimulationSpeed", patch.SimulationSpeed, after.SimulationSpeed)

	return Summary{
		ReasonCodes: append([]string(nil), reasonCodes...),
		Clamped:     clamped,
		Applied:     after,
	}
}

func compareClamped(out *[]string, name string, requested *float64, applied float64) {
	if requested != nil && *requested != applied {
		*out = append(*out, name)
	}
}

// LogAccept emits the single info-level log entry §4.11 requires, at the
// given tick (always 0: genesis acceptance only happens at reset).
func LogAccept(log *eventlog.Log, tick int, s Summary) {
	log.Append(tick, time.Time{}, eventlog.Info, eventlog.CategoryInfo,
		fmt.Sprintf("world genesis accepted tuning (reasons: %v, clamped: %v)", s.ReasonCodes, s.Clamped),
		eventlog.WithPayload(map[string]interface{}{
			"reasonCodes": s.ReasonCodes,
			"clamped":     s.Clamped,
		}),
	)
}
