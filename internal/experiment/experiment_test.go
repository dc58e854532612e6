package experiment

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/san-kum/protodisk/internal/config"
	"github.com/san-kum/protodisk/internal/dynamo"
)

func smallConfig() config.Config {
	cfg := config.DefaultConfig()
	cfg.Particles = 300
	cfg.Steps = 50
	cfg.Workers = 1
	return *cfg
}

func TestExperimentRun(t *testing.T) {
	exp, err := New(smallConfig(), zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}

	res, err := exp.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.Steps != 50 {
		t.Errorf("Steps = %d, want 50", res.Steps)
	}
	for _, name := range []string{"energy_drift", "radius_drift", "angular_momentum_drift", "bound"} {
		if _, ok := res.Metrics[name]; !ok {
			t.Errorf("missing metric %q", name)
		}
	}
	if exp.View().ProtostarCount() != 15 {
		t.Errorf("ProtostarCount() = %d, want 15", exp.View().ProtostarCount())
	}
	if exp.Elapsed() <= 0 {
		t.Error("Elapsed() not recorded")
	}
}

func TestExperiment_Reproducible(t *testing.T) {
	run := func() *dynamo.Result {
		exp, err := New(smallConfig(), zerolog.Nop())
		if err != nil {
			t.Fatal(err)
		}
		res, err := exp.Run(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		return res
	}
	a, b := run(), run()
	if a.EnergyDrift != b.EnergyDrift || a.Metrics["radius_drift"] != b.Metrics["radius_drift"] {
		t.Error("same seed produced different runs")
	}
}

func TestExperiment_Observers(t *testing.T) {
	calls := 0
	obs := dynamo.ObserverFunc(func(v dynamo.View, step int, tm float64) { calls++ })

	exp, err := New(smallConfig(), zerolog.Nop(), obs)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := exp.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if calls != 50 {
		t.Errorf("observer calls = %d, want 50", calls)
	}
}

func TestExperiment_Invalid(t *testing.T) {
	cfg := smallConfig()
	cfg.Dt = -1
	if _, err := New(cfg, zerolog.Nop()); !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("New() error = %v, want ErrParameterBounds", err)
	}

	cfg = smallConfig()
	cfg.Steps = 0
	exp, err := New(cfg, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := exp.Run(context.Background()); !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("Run() error = %v, want ErrParameterBounds", err)
	}
}

func TestSetParam(t *testing.T) {
	cfg := smallConfig()

	if err := SetParam(&cfg, "dt", 0.05); err != nil {
		t.Fatal(err)
	}
	if err := SetParam(&cfg, "particles", 99.6); err != nil {
		t.Fatal(err)
	}
	if cfg.Dt != 0.05 || cfg.Particles != 100 {
		t.Errorf("cfg = dt %v particles %d, want 0.05 / 100", cfg.Dt, cfg.Particles)
	}
	if err := SetParam(&cfg, "omega", 1); err == nil {
		t.Error("unknown parameter should fail")
	}
}

func TestApply_CopiesBase(t *testing.T) {
	base := smallConfig()
	cfg, err := Apply(base, map[string]float64{"thickness": 0.3, "mass": 40})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Thickness != 0.3 || cfg.Mass != 40 {
		t.Errorf("Apply() = %+v", cfg)
	}
	if base.Thickness != config.DefaultThickness {
		t.Error("Apply() modified the base config")
	}
}
