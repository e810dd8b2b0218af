package toolrouter

import (
	"strconv"

	"github.com/biotica/biotica/internal/eventlog"
)

// DefaultEraLength buckets simulation history into fixed-width tick spans
// when no dedicated era boundaries exist (§4.12 lists listEras/getEra but
// leaves era derivation to the kernel; see DESIGN.md's Open Question
// decisions).
const DefaultEraLength = 2000

// Era is a derived, fixed-width slice of simulation history, summarized
// from the log entries that fall within it.
type Era struct {
	Index      int
	StartTick  int
	EndTick    int // exclusive
	EventCount int
	DeathCount int
	BirthCount int
}

// ListEras buckets [0, currentTick] into EraLengthTicks-wide spans (the
// last span contains the current tick) and summarizes each from the log
// buffer.
func (rt *Router) ListEras() []Era {
	count := rt.World.Tick/rt.EraLengthTicks + 1
	eras := make([]Era, count)
	for i := range eras {
		eras[i] = Era{Index: i, StartTick: i * rt.EraLengthTicks, EndTick: (i + 1) * rt.EraLengthTicks}
	}
	for _, e := range rt.Log.Recent(rt.Log.Len()) {
		idx := e.Tick / rt.EraLengthTicks
		if idx < 0 || idx >= len(eras) {
			continue
		}
		switch e.Category {
		case eventlog.CategoryDeaths:
			eras[idx].DeathCount++
		case eventlog.CategoryBirths:
			eras[idx].BirthCount++
		default:
			eras[idx].EventCount++
		}
	}
	return eras
}

// GetEra looks up one derived era by index.
func (rt *Router) GetEra(index int) (Era, error) {
	eras := rt.ListEras()
	if index < 0 || index >= len(eras) {
		return Era{}, &NotFoundError{Kind: "era", ID: strconv.Itoa(index)}
	}
	return eras[index], nil
}
