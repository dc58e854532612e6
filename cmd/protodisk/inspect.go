package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/protodisk/internal/analysis"
	"github.com/san-kum/protodisk/internal/config"
	"github.com/san-kum/protodisk/internal/dynamo"
	"github.com/san-kum/protodisk/internal/export"
	"github.com/san-kum/protodisk/internal/storage"
)

func listRuns(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	if reindex {
		n, err := st.Reindex()
		if err != nil {
			return err
		}
		logger.Info().Int("runs", n).Msg("catalog rebuilt")
	}

	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tPARTICLES\tSTEPS\tDT\tINTEG\tDRIFT")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%.4f\t%s\t%.2e\n",
			run.ID,
			orDash(run.Preset),
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Particles,
			run.Steps,
			run.Config.Dt,
			run.Config.Integrator,
			run.EnergyDrift,
		)
	}

	return w.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func showRun(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

// loadRun returns a saved run's metadata and final particle state.
func loadRun(runID string) (*storage.RunMetadata, *dynamo.ParticleState, error) {
	st, err := openStore()
	if err != nil {
		return nil, nil, err
	}
	defer st.Close()

	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	state, err := st.LoadParticles(runID)
	if err != nil {
		return nil, nil, err
	}
	if state.DiskCount() == 0 {
		return nil, nil, fmt.Errorf("run %s has no disk particles", runID)
	}
	return meta, state, nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, state, err := loadRun(args[0])
	if err != nil {
		return err
	}
	v := state.View()
	maxR := meta.Config.MaxRadius

	fmt.Printf("radial analysis: %s\n", meta.ID)
	fmt.Printf("particles: %d (%d protostar), t = %.2f\n\n", meta.Particles, meta.Protostars, meta.SimTime)

	m := analysis.RadialMoments(v)
	fmt.Printf("radius mean %.2f  stddev %.2f  median %.2f  max %.2f\n", m.Mean, m.StdDev, m.Median, m.Max)
	fmt.Printf("vertical thickness (rms z): %.3f\n\n", analysis.VerticalThickness(v))

	shells := analysis.RadialProfile(v, maxR, bins)
	annuli := analysis.SurfaceDensity(v, maxR, bins)
	centers := shells.Centers()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "R\tSHELL N\tNUMBER DENSITY\tANNULUS N\tSURFACE DENSITY")
	for i, r := range centers {
		fmt.Fprintf(w, "%.1f\t%.0f\t%.3e\t%.0f\t%.3e\n",
			r, shells.Counts[i], shells.Density[i], annuli.Counts[i], annuli.Density[i])
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\nbeyond r = %.0f: %d particles\n", maxR, shells.Outside)

	return nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, state, err := loadRun(args[0])
	if err != nil {
		return err
	}
	v := state.View()

	fmt.Printf("run: %s\n\n", meta.ID)

	curve := analysis.RotationCurve(v)
	fmt.Println("rotation curve (planar radius vs tangential speed)")
	fmt.Println(analysis.ScatterToASCII(curve, 80, 20))
	fmt.Println()

	annuli := analysis.SurfaceDensity(v, meta.Config.MaxRadius, bins)
	graph := asciigraph.Plot(annuli.Density,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("surface density, 0..%.0f", meta.Config.MaxRadius)),
	)
	fmt.Println(graph)

	if outFile != "" {
		svg := export.CurveToSVG(curve, 800, 400, "#4fc3f7")
		if err := os.WriteFile(outFile, []byte(svg), 0644); err != nil {
			return err
		}
		logger.Info().Str("path", outFile).Msg("rotation curve written")
	}

	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, state, err := loadRun(args[0])
	if err != nil {
		return err
	}

	out := os.Stdout
	if outFile != "" {
		f, err := os.Create(outFile)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	if err := storage.ExportJSON(out, meta, state.View()); err != nil {
		return err
	}
	if outFile != "" {
		logger.Info().Str("path", outFile).Msg("exported")
	}
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	meta, state, err := loadRun(args[0])
	if err != nil {
		return err
	}

	path := outFile
	if path == "" {
		path = meta.ID + ".svg"
	}
	svg := export.SnapshotToSVG(state.View(), svgSize, 1.5*meta.Config.MaxRadius)
	if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
		return err
	}

	logger.Info().Str("path", path).Msg("snapshot written")
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tPARTICLES\tMASS\tDT\tRADIUS\tFRACTION\tTHICKNESS\tSTEPS\tINTEG")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%d\t%g\t%g\t%g\t%g\t%g\t%d\t%s\n",
			name, p.Particles, p.Mass, p.Dt, p.MaxRadius, p.ProtostarFraction, p.Thickness, p.Steps, p.Integrator)
	}
	return w.Flush()
}
