package metrics

import (
	"math"

	"github.com/san-kum/protodisk/internal/dynamo"
	"github.com/san-kum/protodisk/internal/physics"
)

// EnergyDrift tracks the largest relative change in total disk energy
// since the first observation.
type EnergyDrift struct {
	name          string
	gm            float64
	initialEnergy float64
	currentEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift(gm float64) *EnergyDrift {
	return &EnergyDrift{
		name: "energy_drift",
		gm:   gm,
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(v dynamo.View, t float64) {
	energy := physics.Energy(v, e.gm)

	if e.samples == 0 {
		e.initialEnergy = energy
	}

	e.currentEnergy = energy
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

// Current is the most recently observed total energy.
func (e *EnergyDrift) Current() float64 { return e.currentEnergy }

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.currentEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}
