package tui

import (
	"testing"

	"github.com/biotica/biotica/internal/scheduler"
	"github.com/biotica/biotica/internal/worldstate"
)

type fakeController struct {
	paused bool
	speed  float64
}

func (f *fakeController) Pause()                    { f.paused = true }
func (f *fakeController) Resume()                    { f.paused = false }
func (f *fakeController) IsPaused() bool             { return f.paused }
func (f *fakeController) SetSpeed(multiplier float64) { f.speed = multiplier }
func (f *fakeController) TicksRun() int              { return 0 }

var _ Controller = (*fakeController)(nil)

func TestBiomeStylesCoverEveryBiome(t *testing.T) {
	for b := worldstate.DeepWater; b <= worldstate.Scorched; b++ {
		if _, ok := biomeStyles[b.String()]; !ok {
			t.Fatalf("no style registered for biome %s", b.String())
		}
	}
}

func TestViewCyclesThroughEveryMode(t *testing.T) {
	m := Model{selected: "grid"}
	for i := 0; i < len(viewModes); i++ {
		for j, mode := range viewModes {
			if mode == m.selected {
				m.selected = viewModes[(j+1)%len(viewModes)]
				break
			}
		}
	}
	if m.selected != "grid" {
		t.Fatalf("expected a full cycle to return to grid, got %s", m.selected)
	}
}

func TestSpeedIndexStartsAtUnitSpeed(t *testing.T) {
	idx := defaultSpeedIndex()
	if idx < 0 || idx >= len(scheduler.AllowedSpeeds) {
		t.Fatalf("default speed index %d out of range", idx)
	}
	if scheduler.AllowedSpeeds[idx] != 1 {
		t.Fatalf("expected default speed 1x, got %v", scheduler.AllowedSpeeds[idx])
	}
}
