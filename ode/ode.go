// Package ode advances ordinary differential equations with the explicit
// Runge-Kutta methods https://en.wikipedia.org/wiki/Runge–Kutta_methods.
// The right hand side is a time invariant vector field f(x, u), see the
// ssm package, where the input u is held constant over the step.
package ode

import (
	"gonum.org/v1/gonum/mat"

	"github.com/theol0403/allwpilib/ssm"
)

// RungeKutta holds the butcherTableau which describes the Runge Kutta method.
type RungeKutta struct {
	Description butcherTableau
}

// butcherTableau which describes the approximate solution, see
// https://en.wikipedia.org/wiki/Runge–Kutta_methods. The node column of
// the tableau is omitted; the vector fields here are time invariant, so
// the stage times never enter the computation.
type butcherTableau struct {
	stages           int
	weights          []float64
	rungeKuttaMatrix [][]float64
}

// Step advances the state x one fixed step of length dt through the vector
// field f with the input u held constant. The returned vector is freshly
// allocated; x is left untouched.
func (rk RungeKutta) Step(f ssm.VectorField, x, u mat.Vector, dt float64) *mat.VecDense {
	m := x.Len()

	// The precomputed derivative points
	K := make([]*mat.VecDense, rk.Description.stages)

	var stage mat.VecDense
	for index := range K {
		// Combine previously computed derivative points according to the
		// Butcher tableau.
		stage.CloneFromVec(x)
		for index2, a := range rk.Description.rungeKuttaMatrix[index] {
			if a != 0 {
				stage.AddScaledVec(&stage, dt*a, K[index2])
			}
		}
		// Insert the new derivative point
		K[index] = mat.NewVecDense(m, nil)
		K[index].CopyVec(f(&stage, u))
	}

	// Sum up the different contributions with relevant weights.
	res := mat.NewVecDense(m, nil)
	res.CloneFromVec(x)
	for index, k := range K {
		res.AddScaledVec(res, dt*rk.Description.weights[index], k)
	}
	return res
}

// NewRK4 function returns a forth order Runge-Kutta object
func NewRK4() *RungeKutta {
	var temp butcherTableau
	temp.stages = 4
	temp.weights = []float64{1. / 6., 1. / 3., 1. / 3., 1. / 6.}
	temp.rungeKuttaMatrix = [][]float64{
		nil,
		{1. / 2.},
		{0, 1. / 2.},
		{0, 0, 1.},
	}
	rk := RungeKutta{temp}
	return &rk
}

// NewEulerMethod returns a pointer to a Runge-Kutta that does the Euler method.
func NewEulerMethod() *RungeKutta {
	var temp butcherTableau
	temp.stages = 1
	temp.weights = []float64{1}
	temp.rungeKuttaMatrix = [][]float64{nil}
	rk := RungeKutta{temp}
	return &rk
}
