package toolrouter

import (
	"github.com/biotica/biotica/internal/kernel"
	"github.com/biotica/biotica/internal/presets"
)

// SchedulerControl is the pause/resume/speed subset scheduler.Scheduler
// satisfies. Kept as a narrow interface so this package depends only on
// the capability it needs, not scheduler's tick-accounting internals.
type SchedulerControl interface {
	Pause()
	Resume()
	SetSpeed(multiplier float64)
}

// CreateWorldRequest is the payload for POST /run/create (§6.3: "create
// world (name, seed, preset, worldSize, eventRate, treeDensity,
// volcanoCount, simulationSpeed, enableGeneAgent, enableCivs,
// enablePredators)").
type CreateWorldRequest struct {
	Name            string  `json:"name"`
	Seed            int32   `json:"seed"`
	Preset          string  `json:"preset"`
	Width           int     `json:"width"`
	Height          int     `json:"height"`
	EventRate       float64 `json:"eventRate"`
	TreeDensity     float64 `json:"treeDensity"`
	VolcanoCount    int     `json:"volcanoCount"`
	SimulationSpeed float64 `json:"simulationSpeed"`
	EnableGeneAgent bool    `json:"enableGeneAgent"`
	EnableCivs      bool    `json:"enableCivs"`
	EnablePredators bool    `json:"enablePredators"`
}

// KernelRunSurface is the full §6.3 run surface: the scheduler's
// pause/resume/speed control plus create/load/reset, which replace the
// kernel's state wholesale rather than just its tick cadence. Router's
// subsystem fields are copies taken at construction time, so every
// operation that replaces the kernel also rebinds Router to the result.
type KernelRunSurface struct {
	Scheduler SchedulerControl
	Kernel    *kernel.Kernel
	Router    *Router
	Presets   *presets.Library
}

func (rs *KernelRunSurface) Pause()                      { rs.Scheduler.Pause() }
func (rs *KernelRunSurface) Resume()                     { rs.Scheduler.Resume() }
func (rs *KernelRunSurface) SetSpeed(multiplier float64) { rs.Scheduler.SetSpeed(multiplier) }

// CreateWorld discards the current world and builds a fresh one per req
// (§6.3 "create world").
func (rs *KernelRunSurface) CreateWorld(req CreateWorldRequest) error {
	width, height := req.Width, req.Height
	if width <= 0 {
		width = rs.Kernel.World.Width
	}
	if height <= 0 {
		height = rs.Kernel.World.Height
	}

	var patch presets.Patch
	if req.Preset != "" && rs.Presets != nil {
		if p, ok := rs.Presets.Get(req.Preset); ok {
			patch = p.Patch
		}
	}
	if req.EventRate > 0 {
		patch.EventRate = &req.EventRate
	}
	if req.SimulationSpeed > 0 {
		patch.SimulationSpeed = &req.SimulationSpeed
	}

	params := kernel.CreateParams{
		Name:            req.Name,
		TreeDensity:     req.TreeDensity,
		VolcanoCount:    req.VolcanoCount,
		EnableGeneAgent: req.EnableGeneAgent,
		EnableCivs:      req.EnableCivs,
		EnablePredators: req.EnablePredators,
	}
	rs.Kernel.ResetSimulation(req.Seed, width, height, patch, params, []string{"run-surface-create"})
	rs.Router.Rebind(rs.Kernel)
	return nil
}

// LoadWorld replaces the kernel's live state from a save blob (§6.3 "load
// world"). The kernel's own Load already leaves state untouched on a
// decode failure; this only rebinds Router on success.
func (rs *KernelRunSurface) LoadWorld(blob []byte) error {
	if err := rs.Kernel.Load(blob); err != nil {
		return err
	}
	rs.Router.Rebind(rs.Kernel)
	return nil
}

// Reset re-seeds the kernel in place at its current dimensions and
// CreateParams (§6.3 "reset (seed)").
func (rs *KernelRunSurface) Reset(seed int32) {
	rs.Kernel.ResetSimulation(seed, rs.Kernel.World.Width, rs.Kernel.World.Height, presets.Patch{}, rs.Kernel.Params, []string{"run-surface-reset"})
	rs.Router.Rebind(rs.Kernel)
}
