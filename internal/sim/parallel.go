package sim

import (
	"context"
	"fmt"
	"runtime"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/protodisk/internal/dynamo"
	"github.com/san-kum/protodisk/internal/integrators"
	"github.com/san-kum/protodisk/internal/physics"
	"github.com/san-kum/protodisk/internal/sampler"
)

// Ensemble runs the same configuration from consecutive seeds.
type Ensemble struct {
	Params     dynamo.Params
	Particles  int
	Integrator string
	NumRuns    int
	SeedStart  int64
	// Metrics builds a fresh metric set for each member.
	Metrics func() []dynamo.Metric
	Logger  zerolog.Logger
}

func NewEnsemble(params dynamo.Params, particles, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{
		Params:     params,
		Particles:  particles,
		Integrator: integrators.Default,
		NumRuns:    numRuns,
		SeedStart:  seedStart,
		Logger:     zerolog.Nop(),
	}
}

// Run executes every member with at most GOMAXPROCS members in flight.
// Each member steps single-threaded. The first failure cancels the rest.
func (e *Ensemble) Run(ctx context.Context, cfg dynamo.Config) ([]*dynamo.Result, error) {
	if e.NumRuns <= 0 {
		return nil, fmt.Errorf("%w: ensemble needs at least one run", dynamo.ErrParameterBounds)
	}

	results := make([]*dynamo.Result, e.NumRuns)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i := 0; i < e.NumRuns; i++ {
		i := i
		seed := e.SeedStart + int64(i)
		g.Go(func() error {
			res, err := e.runOne(ctx, seed, cfg)
			if err != nil {
				return fmt.Errorf("seed %d: %w", seed, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (e *Ensemble) runOne(ctx context.Context, seed int64, cfg dynamo.Config) (*dynamo.Result, error) {
	state, err := physics.Generate(e.Particles, e.Params, sampler.NewSource(seed))
	if err != nil {
		return nil, err
	}
	integ, err := integrators.New(e.Integrator, 1)
	if err != nil {
		return nil, err
	}

	opts := []Option{WithLogger(e.Logger.With().Int64("seed", seed).Logger())}
	if e.Metrics != nil {
		opts = append(opts, WithMetrics(e.Metrics()...))
	}
	st, err := New(state, e.Params, integ, opts...)
	if err != nil {
		return nil, err
	}
	return st.Run(ctx, cfg)
}
