package experiment

import (
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/protodisk/internal/config"
)

// setters maps tunable parameter names to the config field they write.
var setters = map[string]func(c *config.Config, v float64){
	"particles":          func(c *config.Config, v float64) { c.Particles = int(math.Round(v)) },
	"g":                  func(c *config.Config, v float64) { c.G = v },
	"mass":               func(c *config.Config, v float64) { c.Mass = v },
	"dt":                 func(c *config.Config, v float64) { c.Dt = v },
	"max_radius":         func(c *config.Config, v float64) { c.MaxRadius = v },
	"protostar_fraction": func(c *config.Config, v float64) { c.ProtostarFraction = v },
	"thickness":          func(c *config.Config, v float64) { c.Thickness = v },
	"steps":              func(c *config.Config, v float64) { c.Steps = int(math.Round(v)) },
	"seed":               func(c *config.Config, v float64) { c.Seed = int64(v) },
}

// SetParam writes a named numeric parameter into cfg.
func SetParam(cfg *config.Config, name string, value float64) error {
	fn, ok := setters[name]
	if !ok {
		return fmt.Errorf("unknown parameter: %s (available: %v)", name, ParamNames())
	}
	fn(cfg, value)
	return nil
}

// Apply writes every entry of params into a copy of base.
func Apply(base config.Config, params map[string]float64) (config.Config, error) {
	cfg := base
	for k, v := range params {
		if err := SetParam(&cfg, k, v); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}

func ParamNames() []string {
	names := make([]string, 0, len(setters))
	for name := range setters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
