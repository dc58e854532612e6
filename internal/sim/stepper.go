package sim

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/metric"

	"github.com/san-kum/protodisk/internal/dynamo"
	"github.com/san-kum/protodisk/internal/physics"
)

// Stepper advances a particle state one tick at a time and notifies
// observers after each tick. It holds no state beyond the particle buffers,
// the parameters and its counters; callers decide the cadence.
type Stepper struct {
	state      *dynamo.ParticleState
	params     dynamo.Params
	integrator dynamo.Integrator
	metrics    []dynamo.Metric
	observers  []dynamo.Observer
	logger     zerolog.Logger

	step int
	t    float64

	ticks    metric.Int64Counter
	duration metric.Float64Histogram
}

type Option func(*Stepper)

// WithLogger sets the logger used for debug output. The default discards.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Stepper) { s.logger = l }
}

func WithMetrics(ms ...dynamo.Metric) Option {
	return func(s *Stepper) { s.metrics = append(s.metrics, ms...) }
}

func WithObservers(obs ...dynamo.Observer) Option {
	return func(s *Stepper) { s.observers = append(s.observers, obs...) }
}

// New returns a stepper for state. The parameters are validated once here
// and not again on each tick.
// Uses the global OTel meter for metrics (no-op if not configured).
func New(state *dynamo.ParticleState, params dynamo.Params, integ dynamo.Integrator, opts ...Option) (*Stepper, error) {
	if state == nil {
		return nil, fmt.Errorf("%w: nil particle state", dynamo.ErrInvalidState)
	}
	if len(state.Pos) != len(state.Vel) {
		return nil, fmt.Errorf("%w: %d positions, %d velocities", dynamo.ErrDimensionMismatch, len(state.Pos), len(state.Vel))
	}
	if integ == nil {
		return nil, fmt.Errorf("nil integrator")
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	s := &Stepper{
		state:      state,
		params:     params,
		integrator: integ,
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	m := meter()
	var err error
	s.ticks, err = m.Int64Counter(
		"protodisk.ticks",
		metric.WithDescription("Total simulation ticks"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating tick counter: %w", err)
	}
	s.duration, err = m.Float64Histogram(
		"protodisk.step.duration",
		metric.WithDescription("Wall time of one integrator step"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating step duration histogram: %w", err)
	}

	return s, nil
}

func (s *Stepper) AddMetric(m dynamo.Metric)     { s.metrics = append(s.metrics, m) }
func (s *Stepper) AddObserver(o dynamo.Observer) { s.observers = append(s.observers, o) }

func (s *Stepper) Step() int             { return s.step }
func (s *Stepper) Time() float64         { return s.t }
func (s *Stepper) Params() dynamo.Params { return s.params }
func (s *Stepper) View() dynamo.View     { return s.state.View() }

// Tick performs exactly one integrator step and then notifies metrics and
// observers with a read-only view of the updated state.
func (s *Stepper) Tick() {
	start := time.Now()
	s.integrator.Step(s.state, s.params.G, s.params.M, s.params.Dt)
	elapsed := time.Since(start)

	s.step++
	s.t = float64(s.step) * s.params.Dt

	ctx := context.Background()
	s.ticks.Add(ctx, 1)
	s.duration.Record(ctx, elapsed.Seconds())

	v := s.state.View()
	for _, m := range s.metrics {
		m.Observe(v, s.t)
	}
	for _, o := range s.observers {
		o.OnStep(v, s.step, s.t)
	}
}

// ResetMetrics resets every metric and seeds it with the current state, so
// drift is measured from now on.
func (s *Stepper) ResetMetrics() {
	v := s.state.View()
	for _, m := range s.metrics {
		m.Reset()
		m.Observe(v, s.t)
	}
}

// Run ticks cfg.Steps times, checking ctx between ticks. On cancellation the
// partial result is returned with the context error.
func (s *Stepper) Run(ctx context.Context, cfg dynamo.Config) (*dynamo.Result, error) {
	if cfg.Steps <= 0 {
		return nil, fmt.Errorf("%w: steps must be positive, got %d", dynamo.ErrParameterBounds, cfg.Steps)
	}

	s.ResetMetrics()
	gm := s.params.GM()
	e0 := physics.Energy(s.state.View(), gm)
	startStep := s.step
	began := time.Now()

	s.logger.Debug().
		Int("particles", s.state.Len()).
		Int("protostars", s.state.ProtostarCount()).
		Int("steps", cfg.Steps).
		Float64("dt", s.params.Dt).
		Msg("run started")

	var runErr error
	for i := 0; i < cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			runErr = fmt.Errorf("%w: %w", dynamo.ErrContextCanceled, ctx.Err())
		default:
		}
		if runErr != nil {
			break
		}

		s.Tick()

		if cfg.ValidateState && !s.state.IsValid() {
			runErr = &dynamo.SimulationError{Step: s.step, Time: s.t, Wrapped: dynamo.ErrInvalidState}
			break
		}
	}

	result := &dynamo.Result{
		Steps:   s.step - startStep,
		Time:    s.t,
		Metrics: make(map[string]float64, len(s.metrics)),
	}
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	if e0 != 0 {
		result.EnergyDrift = math.Abs(physics.Energy(s.state.View(), gm)-e0) / math.Abs(e0)
	}

	s.logger.Debug().
		Int("steps", result.Steps).
		Float64("energy_drift", result.EnergyDrift).
		Dur("elapsed", time.Since(began)).
		Err(runErr).
		Msg("run finished")

	return result, runErr
}
