package sim

import (
	"gonum.org/v1/gonum/mat"
)

// Signal is a time dependent input vector u(t).
type Signal func(t float64) mat.Vector

// Shaped decomposes a vectorial input into a scalar waveform u(t) and a
// fixed direction B, as in the state space model term Bu(t).
func Shaped(u func(float64) float64, B mat.Vector) Signal {
	return func(t float64) mat.Vector {
		var res mat.VecDense
		res.CloneFromVec(B)
		res.ScaleVec(u(t), &res)
		return &res
	}
}

// Constant holds the input vector fixed for all time.
func Constant(u mat.Vector) Signal {
	return func(t float64) mat.Vector {
		return u
	}
}

// Zero is an input vector of zeros with the given dimension.
func Zero(inputs int) Signal {
	u := mat.NewVecDense(inputs, nil)
	return Constant(u)
}
