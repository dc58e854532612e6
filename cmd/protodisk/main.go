package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/san-kum/protodisk/internal/config"
	"github.com/san-kum/protodisk/internal/integrators"
	"github.com/san-kum/protodisk/internal/logging"
	"github.com/san-kum/protodisk/internal/storage"
	"github.com/san-kum/protodisk/internal/viz"
)

var (
	dataDir   string
	logLevel  string
	logPretty bool
	logger    zerolog.Logger

	// Disk settings shared by every command that builds a run.
	flagCfg    config.Config
	configFile string
	preset     string

	// live
	stepsPerFrame int
	historyFrames int
	theme         string

	// list / analyze / export
	reindex bool
	bins    int
	outFile string
	svgSize int

	// ensemble / sweep / tune / scenario
	numRuns    int
	sweepMin   float64
	sweepMax   float64
	sweepN     int
	gridParams []string
	metricName string
	saveRuns   bool
)

// main wires the protodisk commands and exits with status 1 when a command
// fails.
func main() {
	rootCmd := &cobra.Command{
		Use:           "protodisk",
		Short:         "protoplanetary disk simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger = logging.Setup(os.Stderr, logLevel, logPretty)
		},
		// No subcommand opens the live viewer with default settings.
		RunE: runLive,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".protodisk", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "INFO", "log level (TRACE, DEBUG, INFO, WARN, ERROR)")
	rootCmd.PersistentFlags().BoolVar(&logPretty, "log-pretty", true, "human readable log output")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a headless simulation and save the final state",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addDiskFlags(runCmd)

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run simulation with live terminal visualization",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addDiskFlags(liveCmd)
	liveCmd.Flags().IntVar(&stepsPerFrame, "steps-per-frame", 1, "simulation steps per rendered frame")
	liveCmd.Flags().IntVar(&historyFrames, "history", 120, "snapshots kept for replay")
	liveCmd.Flags().StringVar(&theme, "theme", "night", fmt.Sprintf("color theme %v", viz.ThemeNames()))

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}
	listCmd.Flags().BoolVar(&reindex, "reindex", false, "rebuild the run catalog from run directories first")

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "print run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "radial structure of a saved disk",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().IntVar(&bins, "bins", 20, "number of radial bins")

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot rotation curve and surface density",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&bins, "bins", 40, "number of radial bins")
	plotCmd.Flags().StringVarP(&outFile, "out", "o", "", "also write the rotation curve as SVG")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata and particles to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export a top-down SVG snapshot of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default <run_id>.svg)")
	exportSVGCmd.Flags().IntVar(&svgSize, "size", 800, "image size in pixels")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	compareCmd := &cobra.Command{
		Use:   "compare [integrator] [integrator] ...",
		Short: "compare integrators on the same initial disk",
		RunE:  compareIntegrators,
	}
	addDiskFlags(compareCmd)

	ensembleCmd := &cobra.Command{
		Use:   "ensemble",
		Short: "run the same disk from consecutive seeds in parallel",
		Args:  cobra.NoArgs,
		RunE:  runEnsemble,
	}
	addDiskFlags(ensembleCmd)
	ensembleCmd.Flags().IntVar(&numRuns, "runs", 8, "number of seeds")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark step throughput",
		Args:  cobra.NoArgs,
		RunE:  benchStep,
	}
	addDiskFlags(benchCmd)

	sweepCmd := &cobra.Command{
		Use:   "sweep [param]",
		Short: "sweep one parameter and report energy drift",
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}
	addDiskFlags(sweepCmd)
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 1, "last value")
	sweepCmd.Flags().IntVar(&sweepN, "points", 5, "number of values")

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid search parameters minimizing a metric",
		Args:  cobra.NoArgs,
		RunE:  runTune,
	}
	addDiskFlags(tuneCmd)
	tuneCmd.Flags().StringArrayVar(&gridParams, "grid", nil, "grid axis as name=v1,v2,... (repeatable)")
	tuneCmd.Flags().StringVar(&metricName, "metric", "energy_drift", "metric to minimize")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted sequence of simulations",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	addDiskFlags(scenarioCmd)
	scenarioCmd.Flags().BoolVar(&saveRuns, "save", false, "save every step as a run")

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, showCmd, analyzeCmd, plotCmd, exportJSONCmd, exportSVGCmd,
		presetsCmd, compareCmd, ensembleCmd, benchCmd, sweepCmd, tuneCmd, scenarioCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

func addDiskFlags(cmd *cobra.Command) {
	d := config.DefaultConfig()
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "use preset configuration")
	f.IntVarP(&flagCfg.Particles, "particles", "n", d.Particles, "particle count")
	f.Float64Var(&flagCfg.G, "g", d.G, "gravitational constant")
	f.Float64Var(&flagCfg.Mass, "mass", d.Mass, "central mass")
	f.Float64Var(&flagCfg.Dt, "dt", d.Dt, "timestep")
	f.Float64Var(&flagCfg.MaxRadius, "radius", d.MaxRadius, "initial sphere radius")
	f.Float64Var(&flagCfg.ProtostarFraction, "fraction", d.ProtostarFraction, "protostar fraction of particles")
	f.Float64Var(&flagCfg.Thickness, "thickness", d.Thickness, "vertical velocity scale relative to orbital speed")
	f.Int64Var(&flagCfg.Seed, "seed", d.Seed, "random seed")
	f.IntVar(&flagCfg.Steps, "steps", d.Steps, "number of steps")
	f.StringVar(&flagCfg.Integrator, "integrator", d.Integrator, fmt.Sprintf("integrator %v", integrators.Names()))
	f.IntVar(&flagCfg.Workers, "workers", d.Workers, "goroutines per step (0 = GOMAXPROCS)")
	f.IntVar(&flagCfg.SnapshotEvery, "snapshot-every", d.SnapshotEvery, "steps between recorded snapshots")
}

// resolveConfig layers defaults, preset, config file, environment and
// explicitly set flags, in that order.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if configFile != "" {
		if err := config.LoadInto(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}
	config.ApplyEnv(cfg)

	f := cmd.Flags()
	if f.Changed("particles") {
		cfg.Particles = flagCfg.Particles
	}
	if f.Changed("g") {
		cfg.G = flagCfg.G
	}
	if f.Changed("mass") {
		cfg.Mass = flagCfg.Mass
	}
	if f.Changed("dt") {
		cfg.Dt = flagCfg.Dt
	}
	if f.Changed("radius") {
		cfg.MaxRadius = flagCfg.MaxRadius
	}
	if f.Changed("fraction") {
		cfg.ProtostarFraction = flagCfg.ProtostarFraction
	}
	if f.Changed("thickness") {
		cfg.Thickness = flagCfg.Thickness
	}
	if f.Changed("seed") {
		cfg.Seed = flagCfg.Seed
	}
	if f.Changed("steps") {
		cfg.Steps = flagCfg.Steps
	}
	if f.Changed("integrator") {
		cfg.Integrator = flagCfg.Integrator
	}
	if f.Changed("workers") {
		cfg.Workers = flagCfg.Workers
	}
	if f.Changed("snapshot-every") {
		cfg.SnapshotEvery = flagCfg.SnapshotEvery
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger.Debug().
		Str("preset", preset).
		Str("file", configFile).
		Interface("config", cfg).
		Msg("resolved config")
	return cfg, nil
}

func openStore() (*storage.Store, error) {
	st := storage.New(dataDir, logger)
	if err := st.Init(); err != nil {
		return nil, err
	}
	return st, nil
}
