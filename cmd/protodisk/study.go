package main

import (
	"fmt"
	"os"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/protodisk/internal/automation"
	"github.com/san-kum/protodisk/internal/dynamo"
	"github.com/san-kum/protodisk/internal/experiment"
	"github.com/san-kum/protodisk/internal/integrators"
	"github.com/san-kum/protodisk/internal/metrics"
	"github.com/san-kum/protodisk/internal/optim"
	"github.com/san-kum/protodisk/internal/sim"
	"github.com/san-kum/protodisk/internal/storage"
)

func compareIntegrators(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	names := args
	if len(names) == 0 {
		names = integrators.Names()
	}

	fmt.Printf("comparing %d integrators, %d particles, %d steps, dt=%g\n\n", len(names), cfg.Particles, cfg.Steps, cfg.Dt)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEGRATOR\tTIME\tENERGY DRIFT\tRADIUS DRIFT\tL DRIFT\tBOUND")

	for _, name := range names {
		c := *cfg
		c.Integrator = name

		exp, err := experiment.New(c, logger)
		if err != nil {
			return err
		}
		res, err := exp.Run(cmd.Context())
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}

		fmt.Fprintf(w, "%s\t%v\t%.3e\t%.3e\t%.3e\t%.3f\n",
			name,
			exp.Elapsed().Round(time.Millisecond),
			res.EnergyDrift,
			res.Metrics["radius_drift"],
			res.Metrics["angular_momentum_drift"],
			res.Metrics["bound"],
		)
	}

	return w.Flush()
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	params := cfg.Params()

	ens := sim.NewEnsemble(params, cfg.Particles, numRuns, cfg.Seed)
	ens.Integrator = cfg.Integrator
	ens.Metrics = func() []dynamo.Metric { return metrics.Standard(params) }
	ens.Logger = logger

	logger.Info().Int("runs", numRuns).Int64("seed_start", cfg.Seed).Msg("running ensemble")
	start := time.Now()
	results, err := ens.Run(cmd.Context(), dynamo.Config{Steps: cfg.Steps, ValidateState: true})
	if err != nil {
		return err
	}

	drifts := make([]float64, len(results))
	bound := make([]float64, len(results))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tSTEPS\tENERGY DRIFT\tBOUND")
	for i, res := range results {
		drifts[i] = res.EnergyDrift
		bound[i] = res.Metrics["bound"]
		fmt.Fprintf(w, "%d\t%d\t%.3e\t%.3f\n", cfg.Seed+int64(i), res.Steps, drifts[i], bound[i])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	dMean, dStd := stat.MeanStdDev(drifts, nil)
	bMean, bStd := stat.MeanStdDev(bound, nil)
	fmt.Printf("\nenergy drift %.3e ± %.1e\n", dMean, dStd)
	fmt.Printf("bound        %.3f ± %.3f\n", bMean, bStd)
	fmt.Printf("wall time    %v\n", time.Since(start).Round(time.Millisecond))

	return nil
}

func benchStep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	steps := 50
	if cmd.Flags().Changed("steps") {
		steps = cfg.Steps
	}

	counts := []int{1000, 10000, cfg.Particles}
	workers := []int{1, runtime.GOMAXPROCS(0)}

	fmt.Printf("benchmarking %s, %d steps\n\n", cfg.Integrator, steps)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PARTICLES\tWORKERS\tTIME\tSTEPS/SEC\tPARTICLE-STEPS/SEC")

	for _, n := range counts {
		for _, wk := range workers {
			c := *cfg
			c.Particles = n
			c.Workers = wk
			c.Steps = steps

			exp, err := experiment.New(c, logger)
			if err != nil {
				return err
			}
			if _, err := exp.Run(cmd.Context()); err != nil {
				return err
			}

			elapsed := exp.Elapsed()
			stepsPerSec := float64(steps) / elapsed.Seconds()
			fmt.Fprintf(w, "%d\t%d\t%v\t%.1f\t%.3e\n",
				n, wk, elapsed.Round(time.Microsecond), stepsPerSec, stepsPerSec*float64(n))
		}
	}

	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	sweep := &automation.ParameterSweep{
		ParamName: args[0],
		ParamMin:  sweepMin,
		ParamMax:  sweepMax,
		NumSteps:  sweepN,
	}
	results, err := automation.RunSweep(cmd.Context(), sweep, *cfg, logger)
	if err != nil {
		return err
	}

	drifts := make([]float64, len(results))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tENERGY DRIFT\tRADIUS DRIFT\tBOUND\n", strings.ToUpper(sweep.ParamName))
	for i, r := range results {
		drifts[i] = r.EnergyDrift
		fmt.Fprintf(w, "%g\t%.3e\t%.3e\t%.3f\n", r.ParamValue, r.EnergyDrift, r.Metrics["radius_drift"], r.Metrics["bound"])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(asciigraph.Plot(drifts,
		asciigraph.Height(10),
		asciigraph.Width(60),
		asciigraph.Caption(fmt.Sprintf("energy drift vs %s", sweep.ParamName)),
	))
	return nil
}

// parseGrid turns "name=v1,v2" axes into parallel name and value slices.
func parseGrid(axes []string) ([]string, [][]float64, error) {
	names := make([]string, 0, len(axes))
	ranges := make([][]float64, 0, len(axes))
	for _, axis := range axes {
		name, list, ok := strings.Cut(axis, "=")
		if !ok || name == "" || list == "" {
			return nil, nil, fmt.Errorf("invalid grid axis %q, want name=v1,v2,...", axis)
		}
		var vals []float64
		for _, s := range strings.Split(list, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("grid axis %s: %w", name, err)
			}
			vals = append(vals, v)
		}
		names = append(names, name)
		ranges = append(ranges, vals)
	}
	return names, ranges, nil
}

func runTune(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if len(gridParams) == 0 {
		return fmt.Errorf("at least one --grid axis is required (parameters: %v)", experiment.ParamNames())
	}
	names, ranges, err := parseGrid(gridParams)
	if err != nil {
		return err
	}

	gs := optim.NewGridSearch(names, ranges, logger)
	best, val, trials, err := gs.Search(cmd.Context(), *cfg, metricName)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\n", strings.ToUpper(strings.Join(names, "\t")), strings.ToUpper(metricName))
	for _, t := range trials {
		cols := make([]string, len(names))
		for i, n := range names {
			cols[i] = strconv.FormatFloat(t.Params[n], 'g', -1, 64)
		}
		result := fmt.Sprintf("%.4e", t.Value)
		if t.Err != nil {
			result = "error: " + t.Err.Error()
		}
		fmt.Fprintf(w, "%s\t%s\n", strings.Join(cols, "\t"), result)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	keys := make([]string, 0, len(best))
	for k := range best {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fmt.Printf("\nbest %s = %.4e at", metricName, val)
	for _, k := range keys {
		fmt.Printf(" %s=%g", k, best[k])
	}
	fmt.Println()
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	logger.Info().Str("scenario", sc.Name).Int("steps", len(sc.Steps)).Msg(sc.Description)

	results, err := automation.RunScenario(cmd.Context(), sc, *cfg, logger)
	if err != nil {
		return err
	}

	var st *storage.Store
	if saveRuns {
		if st, err = openStore(); err != nil {
			return err
		}
		defer st.Close()
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tPARTICLES\tSTEPS\tENERGY DRIFT\tBOUND\tRUN")
	for _, r := range results {
		runID := "-"
		if st != nil {
			meta := &storage.RunMetadata{
				Preset:      r.Label,
				Config:      r.Experiment.Config(),
				Steps:       r.Result.Steps,
				SimTime:     r.Result.Time,
				EnergyDrift: r.Result.EnergyDrift,
				Elapsed:     r.Experiment.Elapsed().Seconds(),
				Metrics:     r.Result.Metrics,
			}
			if runID, err = st.Save(meta, r.Experiment.View()); err != nil {
				return err
			}
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%.3e\t%.3f\t%s\n",
			r.Label, r.Experiment.View().Len(), r.Result.Steps, r.Result.EnergyDrift, r.Result.Metrics["bound"], runID)
	}
	return w.Flush()
}
