// Package ricc solves the continuous algebraic Riccati equation that
// governs steady state estimation error, as shown in [Optimal Solution to
// Matrix Riccati Equation – For Kalman Filter Implementation](http://cdn.intechopen.com/pdfs/39345/intech-optimal_solution_to_matrix_riccati_equation_for_kalman_filter_implementation.pdf).
package ricc

import (
	"gonum.org/v1/gonum/mat"

	"github.com/theol0403/allwpilib/matutil"
)

// Care computes the stabilizing solution X of
//
// A X + X Aᵀ - X Cᵀ Rinv C X + Q = 0
//
// which is the steady state covariance of a continuous time filter with
// dynamics A, observation matrix C, inverse measurement noise Rinv and
// process noise Q.
//
// The solution is factored out of the matrix exponential of the
// associated linear flow
//
//	[x1]'   [-Aᵀ  G] [x1]
//	[x2]  = [ Q   A] [x2]
//
// where G = Cᵀ Rinv C and X = x2 x1⁻¹ at a large time horizon, when the
// stable subspace dominates.
func Care(A, C, Rinv, Q mat.Matrix) *mat.Dense {
	n, _ := A.Dims()

	// G = Cᵀ Rinv C
	var tmp0, G mat.Dense
	tmp0.Mul(C.T(), Rinv)
	G.Mul(&tmp0, C)

	var Am, At mat.Dense
	At.Scale(-1, A.T())
	Am.CloneFrom(A)

	// psi = [-Aᵀ G; Q A]
	var top, bottom, psi mat.Dense
	top.Augment(&At, &G)
	bottom.Augment(Q, &Am)
	psi.Stack(&top, &bottom)

	// Flow the system for a large time constant and read the solution off
	// the dominating subspace.
	t := 1e2
	psi.Scale(t, &psi)
	psi.Exp(&psi)

	// Initial value [I; I]
	eye := matutil.Eye(n, n)
	var init, flowed mat.Dense
	init.Stack(eye, eye)
	flowed.Mul(&psi, &init)

	// X = x2 x1⁻¹ through a matrix factorization rather than an inverse.
	var Xt mat.Dense
	Xt.Solve(flowed.Slice(0, n, 0, n).T(), flowed.Slice(n, 2*n, 0, n).T())

	// The stabilizing solution is symmetric; fold the factorization round
	// off back in.
	X := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			X.Set(i, j, (Xt.At(i, j)+Xt.At(j, i))/2)
		}
	}
	return X
}
