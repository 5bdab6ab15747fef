package integrators_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/corona/internal/dynamo"
	"github.com/san-kum/corona/internal/integrators"
)

var growth = dynamo.DeriveFunc(func(x dynamo.State, t float64) (dynamo.State, error) {
	return x.Clone(), nil
})

func globalError(order integrators.Order, steps int) float64 {
	traj, err := integrators.IntegrateOrder(growth, dynamo.State{1}, dynamo.Linspace(0, 1, steps+1), order)
	Expect(err).NotTo(HaveOccurred())
	return math.Abs(traj.Final()[0] - math.E)
}

var _ = Describe("explicit Runge-Kutta family", func() {
	DescribeTable("converges at its nominal order when dt is halved",
		func(order integrators.Order) {
			coarse := globalError(order, 32)
			fine := globalError(order, 64)
			Expect(fine).To(BeNumerically("<", coarse))

			observed := math.Log2(coarse / fine)
			Expect(observed).To(BeNumerically("~", float64(order), 0.15))
		},
		Entry("euler", integrators.Euler),
		Entry("midpoint", integrators.Midpoint),
		Entry("rk3", integrators.Kutta3),
		Entry("rk4", integrators.RK4),
	)

	DescribeTable("preserves the state length",
		func(n int) {
			x0 := make(dynamo.State, n)
			for i := range x0 {
				x0[i] = float64(i) + 1
			}
			for _, o := range integrators.Orders() {
				next, err := integrators.Step(growth, x0, 0, 0.1, o)
				Expect(err).NotTo(HaveOccurred())
				Expect(next).To(HaveLen(n))
			}

			traj, err := integrators.Integrate(growth, x0, []float64{0, 0.5, 1})
			Expect(err).NotTo(HaveOccurred())
			Expect(traj.States).To(HaveEach(HaveLen(n)))
		},
		Entry("scalar", 1),
		Entry("vector", 6),
		Entry("empty", 0),
	)

	It("accepts tensor states through a logical shape", func() {
		x0 := dynamo.State{1, 2, 3, 4, 5, 6}
		traj, err := integrators.Integrate(growth, x0, []float64{0, 0.1, 0.2})
		Expect(err).NotTo(HaveOccurred())
		Expect(traj.WithShape(2, 3)).To(Succeed())
		Expect(traj.Dims()).To(Equal([]int{3, 2, 3}))
	})

	It("integrates a constant derivative exactly at every order", func() {
		constant := dynamo.DeriveFunc(func(x dynamo.State, t float64) (dynamo.State, error) {
			return dynamo.State{0.75}, nil
		})
		for _, o := range integrators.Orders() {
			next, err := integrators.Step(constant, dynamo.State{2}, 1, 0.5, o)
			Expect(err).NotTo(HaveOccurred())
			Expect(next[0]).To(Equal(2 + 0.75*0.5))
		}
	})

	It("rejects orders outside 1..4", func() {
		for _, o := range []integrators.Order{0, 5} {
			_, err := integrators.Step(growth, dynamo.State{1}, 0, 0.1, o)
			Expect(err).To(MatchError(dynamo.ErrUnsupportedOrder))
		}
	})

	It("lets NaN flow through without failing", func() {
		traj, err := integrators.Integrate(growth, dynamo.State{math.NaN()}, []float64{0, 1, 2})
		Expect(err).NotTo(HaveOccurred())
		Expect(math.IsNaN(traj.Final()[0])).To(BeTrue())
	})
})
