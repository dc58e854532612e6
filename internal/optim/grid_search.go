package optim

import (
	"context"
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/san-kum/protodisk/internal/config"
	"github.com/san-kum/protodisk/internal/experiment"
)

// GridSearch evaluates every combination of parameter values and keeps the
// one that minimizes a result metric.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	log        zerolog.Logger
}

func NewGridSearch(params []string, ranges [][]float64, log zerolog.Logger) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges, log: log}
}

// Trial is one evaluated grid point.
type Trial struct {
	Params map[string]float64
	Value  float64
	Err    error
}

// Search runs the grid from base. Failed grid points are recorded in the
// trials and skipped. metricName may be any result metric or
// "energy_drift".
func (g *GridSearch) Search(ctx context.Context, base config.Config, metricName string) (map[string]float64, float64, []Trial, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, 0, nil, fmt.Errorf("grid has %d names but %d ranges", len(g.paramNames), len(g.ranges))
	}

	best := math.Inf(1)
	var bestParams map[string]float64
	var trials []Trial

	err := g.searchRecursive(ctx, 0, make(map[string]float64), func(params map[string]float64) {
		val, err := g.evaluate(ctx, base, params, metricName)
		trials = append(trials, Trial{Params: params, Value: val, Err: err})
		if err != nil {
			g.log.Warn().Err(err).Interface("params", params).Msg("grid point failed")
			return
		}
		if val < best {
			best = val
			bestParams = params
		}
	})
	if err != nil {
		return bestParams, best, trials, err
	}
	if bestParams == nil {
		return nil, best, trials, fmt.Errorf("no grid point completed")
	}
	return bestParams, best, trials, nil
}

func (g *GridSearch) evaluate(ctx context.Context, base config.Config, params map[string]float64, metricName string) (float64, error) {
	cfg, err := experiment.Apply(base, params)
	if err != nil {
		return 0, err
	}
	exp, err := experiment.New(cfg, g.log)
	if err != nil {
		return 0, err
	}
	res, err := exp.Run(ctx)
	if err != nil {
		return 0, err
	}
	if metricName == "energy_drift" {
		return res.EnergyDrift, nil
	}
	val, ok := res.Metrics[metricName]
	if !ok {
		return 0, fmt.Errorf("unknown metric: %s", metricName)
	}
	return val, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	visit func(map[string]float64),
) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if depth == len(g.paramNames) {
		visit(current)
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, visit); err != nil {
			return err
		}
	}
	return nil
}
