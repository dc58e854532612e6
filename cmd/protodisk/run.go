package main

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/san-kum/protodisk/internal/dynamo"
	"github.com/san-kum/protodisk/internal/experiment"
	"github.com/san-kum/protodisk/internal/storage"
	"github.com/san-kum/protodisk/internal/viz"
)

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	exp, err := experiment.New(*cfg, logger)
	if err != nil {
		return err
	}

	logger.Info().
		Int("particles", cfg.Particles).
		Int("steps", cfg.Steps).
		Int64("seed", cfg.Seed).
		Str("integrator", cfg.Integrator).
		Msg("running simulation")

	result, err := exp.Run(cmd.Context())
	if err != nil {
		// An interrupted run still has a consistent state worth keeping.
		if !errors.Is(err, dynamo.ErrContextCanceled) || result == nil {
			return err
		}
		logger.Warn().Int("step", result.Steps).Msg("interrupted, saving partial run")
	}

	meta := &storage.RunMetadata{
		Preset:      preset,
		Config:      *cfg,
		Steps:       result.Steps,
		SimTime:     result.Time,
		EnergyDrift: result.EnergyDrift,
		Elapsed:     exp.Elapsed().Seconds(),
		Metrics:     result.Metrics,
	}
	runID, err := st.Save(meta, exp.View())
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", exp.Elapsed().Round(time.Millisecond))
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d (t = %.2f)\n", result.Steps, result.Time)
	fmt.Printf("energy drift: %.3e\n", result.EnergyDrift)
	fmt.Println("\nmetrics:")
	printMetrics(result.Metrics)

	return nil
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, m[name])
	}
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	// The viewer owns the terminal, so only errors are logged.
	return viz.Run(viz.Options{
		Particles:     cfg.Particles,
		Params:        cfg.Params(),
		Seed:          cfg.Seed,
		Integrator:    cfg.Integrator,
		Workers:       cfg.Workers,
		StepsPerFrame: stepsPerFrame,
		SnapshotEvery: cfg.SnapshotEvery,
		HistoryFrames: historyFrames,
		Theme:         theme,
		Logger:        logger.Level(zerolog.ErrorLevel),
	})
}
