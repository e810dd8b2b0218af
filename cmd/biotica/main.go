// Command biotica runs the deterministic world simulation: a fixed-step
// kernel loop, an HTTP read/run surface, and an optional terminal
// dashboard, wired the way a single entrypoint binary wires its world,
// state manager, and CLI/web front ends.
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/biotica/biotica/internal/autosave"
	"github.com/biotica/biotica/internal/config"
	"github.com/biotica/biotica/internal/genesis"
	"github.com/biotica/biotica/internal/kernel"
	"github.com/biotica/biotica/internal/logging"
	"github.com/biotica/biotica/internal/metrics"
	"github.com/biotica/biotica/internal/presets"
	"github.com/biotica/biotica/internal/scheduler"
	"github.com/biotica/biotica/internal/snapshot"
	"github.com/biotica/biotica/internal/toolrouter"
	"github.com/biotica/biotica/internal/tui"
)

func main() {
	var (
		help       = flag.Bool("help", false, "show help message")
		seed       = flag.Int64("seed", 1, "world seed")
		width      = flag.Int("width", 64, "world width in tiles")
		height     = flag.Int("height", 64, "world height in tiles")
		presetFile = flag.String("preset-file", "", "path to a presets YAML document")
		presetName = flag.String("preset", "", "named preset to apply from preset-file")
		loadPath   = flag.String("load", "", "load a save file instead of starting a fresh world")
		savePath   = flag.String("save", "", "save the world to this path and exit without running")
		httpAddr   = flag.String("http-addr", ":8090", "address for the query/run HTTP surface")
		jwtSecret  = flag.String("jwt-secret", "", "HMAC secret gating the /run/* routes (required to mutate the scheduler over HTTP)")
		autosaveSpec = flag.String("autosave", "", "cron spec for periodic autosave, e.g. \"*/10 * * * *\" (disabled if empty)")
		autosaveTo = flag.String("autosave-path", "autosave.biotica", "destination path for autosave writes")
		headless   = flag.Bool("headless", false, "run without the terminal dashboard")
		eraLength  = flag.Int("era-length", toolrouter.DefaultEraLength, "tick width of one era bucket")
		name            = flag.String("name", kernel.DefaultCreateParams().Name, "world name, recorded in saves and the run surface")
		eventRate       = flag.Float64("eventRate", 0, "override the preset's event rate (0 keeps the preset/default)")
		treeDensity     = flag.Float64("treeDensity", kernel.DefaultCreateParams().TreeDensity, "initial plant biomass density in [0,1]")
		volcanoCount    = flag.Int("volcanoCount", kernel.DefaultCreateParams().VolcanoCount, "number of volcano anchors to place (0 or 1)")
		enableGeneAgent = flag.Bool("enableGeneAgent", kernel.DefaultCreateParams().EnableGeneAgent, "allow genome mutation on reproduction and migration")
		enableCivs      = flag.Bool("enableCivs", kernel.DefaultCreateParams().EnableCivs, "run the civilization subsystem each tick")
		enablePredators = flag.Bool("enablePredators", kernel.DefaultCreateParams().EnablePredators, "allow offspring to be promoted to the predator diet")
	)
	flag.Parse()

	if *help {
		printHelp()
		return
	}

	log := logging.NewConsole(zerolog.InfoLevel)

	tuning := config.DefaultTuning()
	patch := presets.Patch{}
	var presetLib *presets.Library
	if *presetFile != "" {
		raw, err := os.ReadFile(*presetFile)
		if err != nil {
			log.Fatal().Err(err).Msg("reading preset file")
		}
		lib, err := presets.Parse(raw)
		if err != nil {
			log.Fatal().Err(err).Msg("parsing preset file")
		}
		presetLib = lib
		if *presetName != "" {
			p, ok := lib.Get(*presetName)
			if !ok {
				log.Fatal().Str("preset", *presetName).Msg("preset not found")
			}
			patch = p.Patch
		}
	}
	if *eventRate > 0 {
		patch.EventRate = eventRate
	}
	summary := genesis.Accept(tuning, patch, []string{"cli-boot"})

	params := kernel.CreateParams{
		Name:            *name,
		TreeDensity:     *treeDensity,
		VolcanoCount:    *volcanoCount,
		EnableGeneAgent: *enableGeneAgent,
		EnableCivs:      *enableCivs,
		EnablePredators: *enablePredators,
	}
	k := kernel.New(int32(*seed), *width, *height, summary.Applied, params)
	genesis.LogAccept(k.Log, 0, summary)

	if *loadPath != "" {
		blob, err := os.ReadFile(*loadPath)
		if err != nil {
			log.Fatal().Err(err).Msg("reading save file")
		}
		if err := k.Load(blob); err != nil {
			log.Fatal().Err(err).Msg("loading save file")
		}
		log.Info().Str("path", *loadPath).Int("tick", k.World.Tick).Msg("loaded save")
	}

	if *savePath != "" {
		blob, err := k.Save(time.Now())
		if err != nil {
			log.Fatal().Err(err).Msg("encoding save file")
		}
		if err := os.WriteFile(*savePath, blob, 0o644); err != nil {
			log.Fatal().Err(err).Msg("writing save file")
		}
		log.Info().Str("path", *savePath).Msg("saved and exiting")
		return
	}

	promReg := prometheus.NewRegistry()
	metricsReg := metrics.NewRegistry(promReg)

	sched := scheduler.New(func() {
		start := time.Now()
		k.Step(time.Now())
		metricsReg.Observe(time.Since(start).Seconds(), metrics.Sample{
			Population:   k.Creatures.Count(),
			ActiveEvents: len(k.Events.Active),
			FactionCount: len(k.Civ.Factions()),
			SpeciesCount: len(k.Species.All()),
		})
	})
	sched.SetSimulationSpeed(summary.Applied.SimulationSpeed)

	if *autosaveSpec != "" {
		as, err := autosave.New(*autosaveSpec, func() {
			blob, err := k.Save(time.Now())
			if err != nil {
				log.Error().Err(err).Msg("autosave encode failed")
				return
			}
			if err := os.WriteFile(*autosaveTo, blob, 0o644); err != nil {
				log.Error().Err(err).Msg("autosave write failed")
				return
			}
			log.Info().Str("path", *autosaveTo).Int("tick", k.World.Tick).Msg("autosave complete")
		})
		if err != nil {
			log.Fatal().Err(err).Msg("configuring autosave")
		}
		as.Start()
		defer as.Stop()
	}

	rt := toolrouter.New(k.World, k.Species, k.Creatures, k.Civ, k.Events, k.Log, *eraLength)
	runSurface := &toolrouter.KernelRunSurface{Scheduler: sched, Kernel: k, Router: rt, Presets: presetLib}
	httpServer := toolrouter.NewServer(rt, runSurface, []byte(*jwtSecret))

	mux := http.NewServeMux()
	mux.Handle("/", httpServer)
	mux.Handle("/metrics", promhttp.HandlerFor(promReg, promhttp.HandlerOpts{}))

	go func() {
		log.Info().Str("addr", *httpAddr).Msg("serving query/run HTTP surface")
		if err := http.ListenAndServe(*httpAddr, mux); err != nil {
			log.Error().Err(err).Msg("http server stopped")
		}
	}()

	stop := make(chan struct{})
	go runTickLoop(sched, stop)
	defer close(stop)

	if *headless {
		log.Info().Msg("running headless; press ctrl+c to stop")
		select {}
	}

	builder := snapshot.NewBuilder()
	refresh := func() snapshot.Snapshot {
		return builder.Build(k.World.Tick, snapshot.Inputs{
			World:        k.World,
			Population:   k.Creatures.Count(),
			SpeciesCount: len(k.Species.All()),
			FactionCount: len(k.Civ.Factions()),
			ActiveEvents: len(k.Events.Active),
		})
	}

	model := tui.New(rt, sched, refresh)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		log.Fatal().Err(err).Msg("dashboard exited with an error")
	}
}

// runTickLoop drives the scheduler from real wall-clock frames, the same
// role a repeated tea.Tick message plays inside the dashboard's own Update
// loop, but decoupled from bubbletea so it also runs in --headless mode.
func runTickLoop(sched *scheduler.Scheduler, stop <-chan struct{}) {
	ticker := time.NewTicker(scheduler.FixedStep)
	defer ticker.Stop()
	last := time.Now()
	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			sched.Advance(now.Sub(last))
			last = now
		}
	}
}

func printHelp() {
	fmt.Println("biotica — deterministic seeded world simulation")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Printf("  %s [options]\n", os.Args[0])
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Controls (in the dashboard):")
	fmt.Println("  space      pause/resume")
	fmt.Println("  v          cycle grid/species/civ/events views")
	fmt.Println("  + / -      raise/lower the speed multiplier")
	fmt.Println("  ?          toggle help")
	fmt.Println("  q          quit")
}
