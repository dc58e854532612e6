package automation

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/floats"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/protodisk/internal/config"
	"github.com/san-kum/protodisk/internal/dynamo"
	"github.com/san-kum/protodisk/internal/experiment"
)

// Scenario defines a scripted sequence of runs.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is a single run in a scenario. Preset is applied first,
// then Set overrides individual parameters.
type ScenarioStep struct {
	Preset string             `yaml:"preset"`
	Set    map[string]float64 `yaml:"set"`
	SaveAs string             `yaml:"save_as"`
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", scenario.Name)
	}

	return &scenario, nil
}

// StepResult pairs a finished experiment with its result.
type StepResult struct {
	Label      string
	Experiment *experiment.Experiment
	Result     *dynamo.Result
}

// RunScenario executes all steps in order, starting each from base. It
// stops at the first failing step and returns the results so far.
func RunScenario(ctx context.Context, scenario *Scenario, base config.Config, log zerolog.Logger) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		cfg := base
		if step.Preset != "" {
			p := config.GetPreset(step.Preset)
			if p == nil {
				return results, fmt.Errorf("step %d: unknown preset: %s", i+1, step.Preset)
			}
			cfg = *p
		}
		cfg, err := experiment.Apply(cfg, step.Set)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		label := step.SaveAs
		if label == "" {
			label = fmt.Sprintf("%s-%d", scenario.Name, i+1)
		}
		log.Info().Int("step", i+1).Int("of", len(scenario.Steps)).Str("label", label).Msg("scenario step")

		exp, err := experiment.New(cfg, log)
		if err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}
		res, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		results = append(results, StepResult{Label: label, Experiment: exp, Result: res})
	}

	return results, nil
}

// ParameterSweep runs the base configuration across evenly spaced values
// of one parameter.
type ParameterSweep struct {
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
}

// SweepResult holds results from a parameter sweep
type SweepResult struct {
	ParamValue  float64
	EnergyDrift float64
	Metrics     map[string]float64
}

// RunSweep executes a parameter sweep
func RunSweep(ctx context.Context, sweep *ParameterSweep, base config.Config, log zerolog.Logger) ([]SweepResult, error) {
	if sweep.NumSteps < 2 {
		return nil, fmt.Errorf("sweep needs at least 2 steps, got %d", sweep.NumSteps)
	}
	values := floats.Span(make([]float64, sweep.NumSteps), sweep.ParamMin, sweep.ParamMax)
	results := make([]SweepResult, 0, len(values))

	for i, val := range values {
		cfg, err := experiment.Apply(base, map[string]float64{sweep.ParamName: val})
		if err != nil {
			return nil, err
		}
		exp, err := experiment.New(cfg, log)
		if err != nil {
			return nil, fmt.Errorf("%s=%g: %w", sweep.ParamName, val, err)
		}
		res, err := exp.Run(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s=%g: %w", sweep.ParamName, val, err)
		}

		results = append(results, SweepResult{
			ParamValue:  val,
			EnergyDrift: res.EnergyDrift,
			Metrics:     res.Metrics,
		})

		log.Info().
			Int("point", i+1).
			Int("of", len(values)).
			Str("param", sweep.ParamName).
			Float64("value", val).
			Float64("energy_drift", res.EnergyDrift).
			Msg("sweep point")
	}

	return results, nil
}
