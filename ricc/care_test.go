package ricc

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// For the scalar equation -x²/r + q = 0 the stabilizing solution is
// sqrt(q r).
func TestCareScalar(t *testing.T) {
	A := mat.NewDense(1, 1, []float64{0})
	C := mat.NewDense(1, 1, []float64{1})
	Rinv := mat.NewDense(1, 1, []float64{1})
	Q := mat.NewDense(1, 1, []float64{1})

	X := Care(A, C, Rinv, Q)
	if math.Abs(X.At(0, 0)-1) > 1e-9 {
		t.Errorf("Expected 1, got %v", X.At(0, 0))
	}

	Q4 := mat.NewDense(1, 1, []float64{4})
	X4 := Care(A, C, Rinv, Q4)
	if math.Abs(X4.At(0, 0)-2) > 1e-9 {
		t.Errorf("Expected 2, got %v", X4.At(0, 0))
	}
}

// The returned matrix must satisfy the equation it claims to solve.
func TestCareResidual(t *testing.T) {
	A := mat.NewDense(2, 2, []float64{0, 1, 0, 0})
	C := mat.NewDense(1, 2, []float64{1, 0})
	Rinv := mat.NewDense(1, 1, []float64{1 / 0.01})
	Q := mat.NewDense(2, 2, []float64{0.01, 0, 0, 0.04})

	X := Care(A, C, Rinv, Q)

	// A X + X Aᵀ - X Cᵀ Rinv C X + Q
	var ax, xat, ctr, g, xg, xgx, residual mat.Dense
	ax.Mul(A, X)
	xat.Mul(X, A.T())
	ctr.Mul(C.T(), Rinv)
	g.Mul(&ctr, C)
	xg.Mul(X, &g)
	xgx.Mul(&xg, X)
	residual.Add(&ax, &xat)
	residual.Sub(&residual, &xgx)
	residual.Add(&residual, Q)

	if mat.Norm(&residual, 2) > 1e-6 {
		t.Errorf("Residual too large:\n%v", mat.Formatted(&residual))
	}

	// The steady state covariance is symmetric with positive variances.
	for i := 0; i < 2; i++ {
		if X.At(i, i) <= 0 {
			t.Errorf("Variance %v not positive: %v", i, X.At(i, i))
		}
		for j := 0; j < 2; j++ {
			if math.Abs(X.At(i, j)-X.At(j, i)) > 1e-12 {
				t.Error("Solution not symmetric")
			}
		}
	}
}
