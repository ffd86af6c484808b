// Package c2d converts continuous time system and noise descriptions into
// their discrete time equivalents for a given sampling period.
package c2d

import (
	"gonum.org/v1/gonum/mat"
)

// DiscretizeA returns the discrete state transition matrix
//
// Ad = e^(A dt)
func DiscretizeA(contA mat.Matrix, dt float64) *mat.Dense {
	var res mat.Dense
	res.Scale(dt, contA)
	res.Exp(&res)
	return &res
}

// DiscretizeAB discretizes a state transition and input matrix pair by
// taking the matrix exponential of the augmented system
//
//	[A B]      [Ad Bd]
//	[0 0] dt → [0  I ]
func DiscretizeAB(contA, contB mat.Matrix, dt float64) (discA, discB *mat.Dense) {
	n, _ := contA.Dims()
	_, m := contB.Dims()

	M := mat.NewDense(n+m, n+m, nil)
	var top mat.Dense
	top.Augment(contA, contB)
	for i := 0; i < n; i++ {
		for j := 0; j < n+m; j++ {
			M.Set(i, j, dt*top.At(i, j))
		}
	}
	var phi mat.Dense
	phi.Exp(M)

	discA = mat.DenseCopyOf(phi.Slice(0, n, 0, n))
	discB = mat.DenseCopyOf(phi.Slice(0, n, n, n+m))
	return
}

// DiscretizeAQTaylor discretizes a state transition matrix and its
// continuous process noise covariance. The noise integral
//
// Qd = ∫ e^(A τ) Q e^(Aᵀ τ) dτ over [0, dt]
//
// is approximated with a fifth order Taylor series and symmetrized to keep
// round off from skewing the result.
func DiscretizeAQTaylor(contA mat.Matrix, contQ mat.Symmetric, dt float64) (discA *mat.Dense, discQ *mat.SymDense) {
	n, _ := contA.Dims()

	var lastTerm mat.Dense
	lastTerm.CloneFrom(contQ)
	lastCoeff := dt

	// Aᵀ^n
	var Atn mat.Dense
	Atn.CloneFrom(contA.T())

	var phi12 mat.Dense
	phi12.Scale(lastCoeff, &lastTerm)

	// Fifth order approximation of the noise integral.
	var term1, term2 mat.Dense
	for i := 2; i < 6; i++ {
		term1.Mul(contA, &lastTerm)
		term2.Mul(contQ, &Atn)
		lastTerm.Sub(&term2, &term1)
		lastCoeff *= dt / float64(i)

		var scaled mat.Dense
		scaled.Scale(lastCoeff, &lastTerm)
		phi12.Add(&phi12, &scaled)

		Atn.Mul(&Atn, contA.T())
	}

	discA = DiscretizeA(contA, dt)

	var q mat.Dense
	q.Mul(discA, &phi12)
	discQ = mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			discQ.SetSym(i, j, (q.At(i, j)+q.At(j, i))/2)
		}
	}
	return
}

// DiscretizeAQVanLoan discretizes a state transition matrix and its
// continuous process noise covariance with the Van Loan block exponential
//
//	[-A Q ]      [ ...  Ad⁻¹Qd]
//	[ 0 Aᵀ] dt → [ 0    Adᵀ  ]
//
// which is exact up to the matrix exponential itself.
func DiscretizeAQVanLoan(contA mat.Matrix, contQ mat.Symmetric, dt float64) (discA *mat.Dense, discQ *mat.SymDense) {
	n, _ := contA.Dims()

	var Am, Qm, At mat.Dense
	Am.Scale(-dt, contA)
	Qm.Scale(dt, contQ)
	At.Scale(dt, contA.T())

	var top, bottom, M mat.Dense
	top.Augment(&Am, &Qm)
	bottom.Augment(mat.NewDense(n, n, nil), &At)
	M.Stack(&top, &bottom)
	M.Exp(&M)

	// Ad is the transpose of the lower right block and Ad⁻¹Qd the upper
	// right one.
	discA = mat.NewDense(n, n, nil)
	discA.CloneFrom(M.Slice(n, 2*n, n, 2*n).T())

	var q mat.Dense
	q.Mul(discA, M.Slice(0, n, n, 2*n))
	discQ = mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			discQ.SetSym(i, j, (q.At(i, j)+q.At(j, i))/2)
		}
	}
	return
}

// DiscretizeR scales a continuous measurement noise covariance to the
// sampling period,
//
// Rd = R / dt
func DiscretizeR(contR mat.Symmetric, dt float64) *mat.SymDense {
	n := contR.SymmetricDim()
	res := mat.NewSymDense(n, nil)
	res.ScaleSym(1/dt, contR)
	return res
}
