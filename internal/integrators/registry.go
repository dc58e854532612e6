package integrators

import (
	"fmt"
	"sort"

	"github.com/san-kum/protodisk/internal/dynamo"
)

var registry = map[string]func(workers int) dynamo.Integrator{
	"symplectic": func(w int) dynamo.Integrator { return &SymplecticEuler{Workers: w, MinChunk: DefaultMinChunk} },
	"euler":      func(w int) dynamo.Integrator { return &Euler{Workers: w, MinChunk: DefaultMinChunk} },
	"leapfrog":   func(w int) dynamo.Integrator { return &Leapfrog{Workers: w, MinChunk: DefaultMinChunk} },
}

// Default is the integrator used when none is named.
const Default = "symplectic"

// New returns the integrator registered under name. workers <= 0 uses
// GOMAXPROCS goroutines per step.
func New(name string, workers int) (dynamo.Integrator, error) {
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s (available: %v)", name, Names())
	}
	return fn(workers), nil
}

func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
