package experiment

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/san-kum/protodisk/internal/config"
	"github.com/san-kum/protodisk/internal/dynamo"
	"github.com/san-kum/protodisk/internal/integrators"
	"github.com/san-kum/protodisk/internal/metrics"
	"github.com/san-kum/protodisk/internal/physics"
	"github.com/san-kum/protodisk/internal/sampler"
	"github.com/san-kum/protodisk/internal/sim"
)

// Experiment is one seeded headless run built from a Config.
type Experiment struct {
	cfg     config.Config
	state   *dynamo.ParticleState
	stepper *sim.Stepper
	log     zerolog.Logger
	elapsed time.Duration
}

// New validates cfg, generates the initial disk and wires the stepper with
// the standard metric set plus any extra observers.
func New(cfg config.Config, log zerolog.Logger, observers ...dynamo.Observer) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	params := cfg.Params()

	state, err := physics.Generate(cfg.Particles, params, sampler.NewSource(cfg.Seed))
	if err != nil {
		return nil, err
	}
	integ, err := integrators.New(cfg.Integrator, cfg.Workers)
	if err != nil {
		return nil, err
	}
	st, err := sim.New(state, params, integ,
		sim.WithLogger(log),
		sim.WithMetrics(metrics.Standard(params)...),
		sim.WithObservers(observers...))
	if err != nil {
		return nil, err
	}

	return &Experiment{cfg: cfg, state: state, stepper: st, log: log}, nil
}

// Run steps the configured number of times.
func (e *Experiment) Run(ctx context.Context) (*dynamo.Result, error) {
	if e.cfg.Steps == 0 {
		return nil, fmt.Errorf("%w: experiment has no steps", dynamo.ErrParameterBounds)
	}
	start := time.Now()
	res, err := e.stepper.Run(ctx, dynamo.Config{Steps: e.cfg.Steps, ValidateState: true})
	e.elapsed = time.Since(start)
	return res, err
}

func (e *Experiment) Config() config.Config { return e.cfg }
func (e *Experiment) View() dynamo.View      { return e.state.View() }

// Stepper returns the underlying stepper for adding observers.
func (e *Experiment) Stepper() *sim.Stepper { return e.stepper }

// Elapsed is the wall time of the last Run.
func (e *Experiment) Elapsed() time.Duration { return e.elapsed }
