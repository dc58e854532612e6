package config

import "sort"

// Presets are named variations on the default disk. Fields left zero are
// taken from DefaultConfig by GetPreset.
var Presets = map[string]*Config{
	"default": DefaultConfig(),
	"small": {
		Particles: 3000, Steps: 2000,
	},
	"flat": {
		Thickness: -1,
	},
	"puffy": {
		Thickness: 0.3,
	},
	"dense-core": {
		ProtostarFraction: 0.2,
	},
	"wide": {
		Particles: 60000, MaxRadius: 400, Dt: 0.2, Steps: 2000,
	},
	"heavy": {
		Mass: 80, Dt: 0.05, Steps: 4000,
	},
	"precise": {
		Integrator: "leapfrog", Dt: 0.02, Steps: 5000,
	},
}

// GetPreset returns a copy of the named preset merged over the defaults,
// or nil when no such preset exists.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	return merge(DefaultConfig(), p)
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// merge copies the non-zero fields of over into base. A negative Thickness
// in over selects a flat disk.
func merge(base, over *Config) *Config {
	if over.Particles != 0 {
		base.Particles = over.Particles
	}
	if over.G != 0 {
		base.G = over.G
	}
	if over.Mass != 0 {
		base.Mass = over.Mass
	}
	if over.Dt != 0 {
		base.Dt = over.Dt
	}
	if over.MaxRadius != 0 {
		base.MaxRadius = over.MaxRadius
	}
	if over.ProtostarFraction != 0 {
		base.ProtostarFraction = over.ProtostarFraction
	}
	switch {
	case over.Thickness < 0:
		base.Thickness = 0
	case over.Thickness > 0:
		base.Thickness = over.Thickness
	}
	if over.Seed != 0 {
		base.Seed = over.Seed
	}
	if over.Steps != 0 {
		base.Steps = over.Steps
	}
	if over.Integrator != "" {
		base.Integrator = over.Integrator
	}
	if over.Workers != 0 {
		base.Workers = over.Workers
	}
	if over.SnapshotEvery != 0 {
		base.SnapshotEvery = over.SnapshotEvery
	}
	return base
}
