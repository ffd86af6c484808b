// Package jacobian numerically differentiates vector fields with central
// differences. No closed form derivatives are required of the model.
package jacobian

import (
	"gonum.org/v1/gonum/mat"

	"github.com/theol0403/allwpilib/ssm"
)

// Perturbation size of the central differences.
const epsilon = 1e-5

// X returns the Jacobian of f with respect to the state, evaluated at (x, u).
// The result has one column per state and one row per element of f(x, u).
func X(f ssm.VectorField, x, u mat.Vector) *mat.Dense {
	rows := f(x, u).Len()
	cols := x.Len()
	res := mat.NewDense(rows, cols, nil)

	var xPlus, xMinus, col mat.VecDense
	for i := 0; i < cols; i++ {
		xPlus.CloneFromVec(x)
		xMinus.CloneFromVec(x)
		xPlus.SetVec(i, xPlus.AtVec(i)+epsilon)
		xMinus.SetVec(i, xMinus.AtVec(i)-epsilon)

		col.SubVec(f(&xPlus, u), f(&xMinus, u))
		col.ScaleVec(1/(2*epsilon), &col)
		for row := 0; row < rows; row++ {
			res.Set(row, i, col.AtVec(row))
		}
	}
	return res
}

// U returns the Jacobian of f with respect to the input, evaluated at (x, u).
func U(f ssm.VectorField, x, u mat.Vector) *mat.Dense {
	rows := f(x, u).Len()
	cols := u.Len()
	res := mat.NewDense(rows, cols, nil)

	var uPlus, uMinus, col mat.VecDense
	for i := 0; i < cols; i++ {
		uPlus.CloneFromVec(u)
		uMinus.CloneFromVec(u)
		uPlus.SetVec(i, uPlus.AtVec(i)+epsilon)
		uMinus.SetVec(i, uMinus.AtVec(i)-epsilon)

		col.SubVec(f(x, &uPlus), f(x, &uMinus))
		col.ScaleVec(1/(2*epsilon), &col)
		for row := 0; row < rows; row++ {
			res.Set(row, i, col.AtVec(row))
		}
	}
	return res
}
