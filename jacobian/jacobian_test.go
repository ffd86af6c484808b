package jacobian

import (
	"testing"

	"gonum.org/v1/gonum/mat"
)

// For a linear field f(x, u) = Ax + Bu the Jacobians are A and B exactly.
func TestLinearField(t *testing.T) {
	A := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	B := mat.NewDense(2, 1, []float64{5, 6})

	f := func(x, u mat.Vector) mat.Vector {
		var ax, bu mat.VecDense
		ax.MulVec(A, x)
		bu.MulVec(B, u)
		res := mat.NewVecDense(2, nil)
		res.AddVec(&ax, &bu)
		return res
	}

	x := mat.NewVecDense(2, []float64{0.4, -1.2})
	u := mat.NewVecDense(1, []float64{2})

	if !mat.EqualApprox(X(f, x, u), A, 1e-8) {
		t.Errorf("Wrong state Jacobian:\n%v", mat.Formatted(X(f, x, u)))
	}
	if !mat.EqualApprox(U(f, x, u), B, 1e-8) {
		t.Errorf("Wrong input Jacobian:\n%v", mat.Formatted(U(f, x, u)))
	}
}

// f(x) = [x0², x0 x1] has the Jacobian [2 x0, 0; x1, x0].
func TestQuadraticField(t *testing.T) {
	f := func(x, u mat.Vector) mat.Vector {
		return mat.NewVecDense(2, []float64{
			x.AtVec(0) * x.AtVec(0),
			x.AtVec(0) * x.AtVec(1),
		})
	}

	x := mat.NewVecDense(2, []float64{3, -2})
	u := mat.NewVecDense(1, nil)

	expected := mat.NewDense(2, 2, []float64{
		6, 0,
		-2, 3,
	})
	if !mat.EqualApprox(X(f, x, u), expected, 1e-6) {
		t.Errorf("Wrong Jacobian:\n%v", mat.Formatted(X(f, x, u)))
	}
}

// A wide observation map must give a rectangular Jacobian.
func TestRectangular(t *testing.T) {
	h := func(x, u mat.Vector) mat.Vector {
		return mat.NewVecDense(1, []float64{x.AtVec(0) + 2*x.AtVec(2)})
	}
	x := mat.NewVecDense(3, []float64{1, 1, 1})
	u := mat.NewVecDense(1, nil)

	expected := mat.NewDense(1, 3, []float64{1, 0, 2})
	if !mat.EqualApprox(X(h, x, u), expected, 1e-8) {
		t.Errorf("Wrong Jacobian:\n%v", mat.Formatted(X(h, x, u)))
	}
}
