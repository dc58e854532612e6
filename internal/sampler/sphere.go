// Package sampler draws random points for initial conditions.
package sampler

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"
)

// Source is a uniform random source on [0, 1). *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// NewSource returns a seeded source, so runs with the same seed sample the
// same initial conditions.
func NewSource(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// RandomPointInSphere returns a point distributed uniformly over the volume
// of the ball of radius maxRadius centred on the origin.
//
// It consumes exactly three values from src: azimuth, polar angle and
// radius, in that order.
func RandomPointInSphere(src Source, maxRadius float64) r3.Vec {
	theta := 2 * math.Pi * src.Float64()
	phi := math.Acos(2*src.Float64() - 1)
	// cube root so that the radial density grows as r²
	r := maxRadius * math.Cbrt(src.Float64())

	sinPhi, cosPhi := math.Sincos(phi)
	sinTheta, cosTheta := math.Sincos(theta)
	return r3.Vec{
		X: r * sinPhi * cosTheta,
		Y: r * sinPhi * sinTheta,
		Z: r * cosPhi,
	}
}
