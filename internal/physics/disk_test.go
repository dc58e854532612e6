package physics_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/protodisk/internal/dynamo"
	"github.com/san-kum/protodisk/internal/physics"
	"github.com/san-kum/protodisk/internal/sampler"
)

type zeroSource struct{}

func (zeroSource) Float64() float64 { return 0 }

var _ = Describe("Generate", func() {
	var params dynamo.Params

	BeforeEach(func() {
		params = dynamo.DefaultParams()
	})

	DescribeTable("places the protostar group at rest at the origin",
		func(n int, fraction float64, expected int) {
			params.ProtostarFraction = fraction
			s, err := physics.Generate(n, params, sampler.NewSource(1))
			Expect(err).NotTo(HaveOccurred())

			Expect(s.Len()).To(Equal(n))
			Expect(s.ProtostarCount()).To(Equal(expected))
			Expect(s.DiskCount()).To(Equal(n - expected))
			for i := 0; i < s.ProtostarCount(); i++ {
				Expect(s.Pos[i]).To(Equal(r3.Vec{}))
				Expect(s.Vel[i]).To(Equal(r3.Vec{}))
			}
			for i := s.ProtostarCount(); i < n; i++ {
				Expect(r3.Norm(s.Pos[i])).To(BeNumerically("<=", params.MaxRadius*(1+1e-12)))
			}
		},
		Entry("default disk", 30000, 0.05, 1500),
		Entry("small run", 100, 0.05, 5),
		Entry("rounds down", 39, 0.05, 1),
		Entry("no protostar", 50, 0.0, 0),
		Entry("half collapsed", 10, 0.5, 5),
		Entry("single protostar", 1, 1.0, 1),
		Entry("empty", 0, 0.05, 0),
	)

	It("gives disk particles tangential Keplerian velocities", func() {
		params.Thickness = 0.3
		s, err := physics.Generate(5000, params, sampler.NewSource(11))
		Expect(err).NotTo(HaveOccurred())

		gm := params.GM()
		for i := s.ProtostarCount(); i < s.Len(); i++ {
			p, v := s.Pos[i], s.Vel[i]
			rho := math.Hypot(p.X, p.Y)
			if rho == 0 {
				continue
			}
			speed := math.Hypot(v.X, v.Y)
			Expect(speed).To(BeNumerically("~", physics.KeplerSpeed(gm, rho), 1e-9*speed))

			// perpendicular to the planar radius vector
			dot := p.X*v.X + p.Y*v.Y
			Expect(math.Abs(dot)).To(BeNumerically("<", 1e-9*rho*speed))

			// counter-clockwise about +z
			Expect(p.X*v.Y - p.Y*v.X).To(BeNumerically(">", 0))
		}
	})

	It("bounds the vertical velocity by the thickness", func() {
		params.Thickness = 0.2
		s, err := physics.Generate(20000, params, sampler.NewSource(5))
		Expect(err).NotTo(HaveOccurred())

		var sum, sumSq float64
		n := 0
		for i := s.ProtostarCount(); i < s.Len(); i++ {
			v := s.Vel[i]
			planar := math.Hypot(v.X, v.Y)
			if planar == 0 {
				continue
			}
			ratio := v.Z / planar
			Expect(math.Abs(ratio)).To(BeNumerically("<=", params.Thickness*(1+1e-9)))
			sum += ratio
			sumSq += ratio * ratio
			n++
		}

		// uniform on [-t, t] has standard deviation t/sqrt(3)
		mean := sum / float64(n)
		std := math.Sqrt(sumSq/float64(n) - mean*mean)
		Expect(mean).To(BeNumerically("~", 0, 0.01))
		Expect(std).To(BeNumerically("~", params.Thickness/math.Sqrt(3), 0.01))
	})

	It("produces a flat velocity field when thickness is zero", func() {
		params.Thickness = 0
		s, err := physics.Generate(1000, params, sampler.NewSource(2))
		Expect(err).NotTo(HaveOccurred())

		for i := s.ProtostarCount(); i < s.Len(); i++ {
			Expect(s.Vel[i].Z).To(BeZero())
		}
	})

	It("leaves particles on the spin axis at rest", func() {
		params.ProtostarFraction = 0
		s, err := physics.Generate(3, params, zeroSource{})
		Expect(err).NotTo(HaveOccurred())

		Expect(s.ProtostarCount()).To(BeZero())
		for i := 0; i < s.Len(); i++ {
			Expect(math.Hypot(s.Pos[i].X, s.Pos[i].Y)).To(BeZero())
			Expect(s.Vel[i]).To(Equal(r3.Vec{}))
		}
	})

	It("is reproducible for a fixed seed", func() {
		a, err := physics.Generate(500, params, sampler.NewSource(99))
		Expect(err).NotTo(HaveOccurred())
		b, err := physics.Generate(500, params, sampler.NewSource(99))
		Expect(err).NotTo(HaveOccurred())

		Expect(a.Pos).To(Equal(b.Pos))
		Expect(a.Vel).To(Equal(b.Vel))
	})

	It("does not need a timestep", func() {
		params.Dt = 0
		_, err := physics.Generate(10, params, sampler.NewSource(1))
		Expect(err).NotTo(HaveOccurred())
	})

	DescribeTable("rejects invalid configuration",
		func(n int, mutate func(p *dynamo.Params)) {
			mutate(&params)
			s, err := physics.Generate(n, params, sampler.NewSource(1))
			Expect(err).To(MatchError(dynamo.ErrParameterBounds))
			Expect(s).To(BeNil())
		},
		Entry("negative count", -1, func(p *dynamo.Params) {}),
		Entry("zero G", 10, func(p *dynamo.Params) { p.G = 0 }),
		Entry("negative mass", 10, func(p *dynamo.Params) { p.M = -20 }),
		Entry("zero radius", 10, func(p *dynamo.Params) { p.MaxRadius = 0 }),
		Entry("fraction above one", 10, func(p *dynamo.Params) { p.ProtostarFraction = 1.01 }),
		Entry("negative thickness", 10, func(p *dynamo.Params) { p.Thickness = -0.1 }),
	)
})

var _ = Describe("conserved quantities", func() {
	const gm = 200.0

	It("matches the circular orbit energy and angular momentum", func() {
		s := dynamo.NewParticleState(2, 1)
		r := 50.0
		v := physics.KeplerSpeed(gm, r)
		s.Pos[1] = r3.Vec{X: r}
		s.Vel[1] = r3.Vec{Y: v}

		Expect(physics.Energy(s.View(), gm)).To(BeNumerically("~", -gm/(2*r), 1e-12))
		Expect(physics.AngularMomentum(s.View())).To(Equal(r3.Vec{Z: r * v}))
		Expect(physics.SpecificEnergy(s.Pos[1], s.Vel[1], gm)).To(BeNumerically("~", -gm/(2*r), 1e-12))
	})

	It("ignores the protostar group and particles at the origin", func() {
		s := dynamo.NewParticleState(3, 1)
		s.Vel[0] = r3.Vec{X: 100}
		s.Vel[1] = r3.Vec{X: 100}

		Expect(physics.Energy(s.View(), gm)).To(BeZero())
		Expect(physics.AngularMomentum(s.View())).To(Equal(r3.Vec{}))
	})
})
