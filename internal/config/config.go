package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/protodisk/internal/dynamo"
	"github.com/san-kum/protodisk/internal/integrators"
)

const (
	DefaultParticles     = 30000
	DefaultG             = 10.0
	DefaultMass          = 20.0
	DefaultDt            = 0.1
	DefaultMaxRadius     = 200.0
	DefaultFraction      = 0.05
	DefaultThickness     = 0.05
	DefaultSteps         = 1000
	DefaultSnapshotEvery = 10
)

// EnvPrefix prefixes environment overrides, e.g. PROTODISK_DT.
const EnvPrefix = "PROTODISK"

type Config struct {
	Particles         int     `yaml:"particles" json:"particles"`
	G                 float64 `yaml:"g" json:"g"`
	Mass              float64 `yaml:"mass" json:"mass"`
	Dt                float64 `yaml:"dt" json:"dt"`
	MaxRadius         float64 `yaml:"max_radius" json:"max_radius"`
	ProtostarFraction float64 `yaml:"protostar_fraction" json:"protostar_fraction"`
	Thickness         float64 `yaml:"thickness" json:"thickness"`
	Seed              int64   `yaml:"seed" json:"seed"`
	Steps             int     `yaml:"steps" json:"steps"`
	Integrator        string  `yaml:"integrator" json:"integrator"`
	Workers           int     `yaml:"workers" json:"workers"`
	SnapshotEvery     int     `yaml:"snapshot_every" json:"snapshot_every"`
}

func DefaultConfig() *Config {
	return &Config{
		Particles:         DefaultParticles,
		G:                 DefaultG,
		Mass:              DefaultMass,
		Dt:                DefaultDt,
		MaxRadius:         DefaultMaxRadius,
		ProtostarFraction: DefaultFraction,
		Thickness:         DefaultThickness,
		Seed:              1,
		Steps:             DefaultSteps,
		Integrator:        integrators.Default,
		SnapshotEvery:     DefaultSnapshotEvery,
	}
}

// Load reads a YAML file over the defaults. Keys missing from the file keep
// their default values.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := LoadInto(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadInto reads a YAML file over cfg, so a file can refine a preset.
func LoadInto(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ApplyEnv overrides fields from PROTODISK_* environment variables.
func ApplyEnv(cfg *Config) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if v.IsSet("particles") {
		cfg.Particles = v.GetInt("particles")
	}
	if v.IsSet("g") {
		cfg.G = v.GetFloat64("g")
	}
	if v.IsSet("mass") {
		cfg.Mass = v.GetFloat64("mass")
	}
	if v.IsSet("dt") {
		cfg.Dt = v.GetFloat64("dt")
	}
	if v.IsSet("max_radius") {
		cfg.MaxRadius = v.GetFloat64("max_radius")
	}
	if v.IsSet("protostar_fraction") {
		cfg.ProtostarFraction = v.GetFloat64("protostar_fraction")
	}
	if v.IsSet("thickness") {
		cfg.Thickness = v.GetFloat64("thickness")
	}
	if v.IsSet("seed") {
		cfg.Seed = v.GetInt64("seed")
	}
	if v.IsSet("steps") {
		cfg.Steps = v.GetInt("steps")
	}
	if v.IsSet("integrator") {
		cfg.Integrator = v.GetString("integrator")
	}
	if v.IsSet("workers") {
		cfg.Workers = v.GetInt("workers")
	}
	if v.IsSet("snapshot_every") {
		cfg.SnapshotEvery = v.GetInt("snapshot_every")
	}
}

func (c *Config) Params() dynamo.Params {
	return dynamo.Params{
		G:                 c.G,
		M:                 c.Mass,
		Dt:                c.Dt,
		MaxRadius:         c.MaxRadius,
		ProtostarFraction: c.ProtostarFraction,
		Thickness:         c.Thickness,
	}
}

// Validate checks the run settings and the physical parameters.
func (c *Config) Validate() error {
	if c.Particles <= 0 {
		return fmt.Errorf("%w: particle count must be positive, got %d", dynamo.ErrParameterBounds, c.Particles)
	}
	if c.Steps < 0 {
		return fmt.Errorf("%w: steps must be non-negative, got %d", dynamo.ErrParameterBounds, c.Steps)
	}
	if c.SnapshotEvery < 0 {
		return fmt.Errorf("%w: snapshot interval must be non-negative, got %d", dynamo.ErrParameterBounds, c.SnapshotEvery)
	}
	if _, err := integrators.New(c.Integrator, c.Workers); err != nil {
		return err
	}
	return c.Params().Validate()
}
