// Package ssm describes state space models of the form
//
// x'(t) = f(x(t), u(t))
//
// y(t) = h(x(t), u(t))
//
// where x is the state vector, u the input vector and y the observation
// vector. Nonlinear models are expressed directly as vector fields while
// linear models carry their (A, B, C, D) matrices.
package ssm

import (
	"gonum.org/v1/gonum/mat"
)

// VectorField is a vector valued function of a state and an input vector.
// It is the common shape of both state dynamics, where it returns the state
// derivative x' = f(x, u), and observation maps, where it returns the
// observation y = h(x, u).
type VectorField func(x, u mat.Vector) mat.Vector

// StateSpaceModel is anything that exposes state dynamics and an
// observation map together with its dimensions.
type StateSpaceModel interface {
	// Derivative of the state, x'(t) = f(x, u)
	Derivative(x, u mat.Vector) mat.Vector
	// Observation of the state, y(t) = h(x, u)
	Observation(x, u mat.Vector) mat.Vector
	// Returns the state space order
	StateSpaceOrder() int
	// Returns the input space order
	InputSpaceOrder() int
	// Returns the observation space order.
	ObservationSpaceOrder() int
}
