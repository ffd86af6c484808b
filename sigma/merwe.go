// Package sigma generates deterministic sigma point sets for a mean and
// covariance and reduces transformed sets back to their weighted moments.
// The point selection follows Van der Merwe's scaled formulation, see
// https://www.cse.sc.edu/~terejanu/files/tutorialUKF.pdf.
package sigma

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
)

// MerweScaledSigmaPoints selects 2N+1 sigma points for an N dimensional
// distribution together with the weight vectors that reproduce its mean
// and covariance exactly under linear maps.
type MerweScaledSigmaPoints struct {
	n     int
	alpha float64
	beta  float64
	kappa float64
	wm    []float64
	wc    []float64
}

// NewMerweScaledSigmaPoints returns a generator for state dimension n with
// the usual scaling constants alpha = 1e-3, beta = 2 and kappa = 3 - n.
func NewMerweScaledSigmaPoints(n int) *MerweScaledSigmaPoints {
	return NewMerweScaledSigmaPointsScaled(n, 1e-3, 2, 3-float64(n))
}

// NewMerweScaledSigmaPointsScaled returns a generator with explicit scaling
// constants. Alpha controls the spread around the mean, beta folds in prior
// knowledge of the distribution shape (2 is exact for gaussians) and kappa
// is a secondary scaling constant.
func NewMerweScaledSigmaPointsScaled(n int, alpha, beta, kappa float64) *MerweScaledSigmaPoints {
	if n <= 0 {
		panic(errors.New("State dimension must be positive"))
	}
	pts := &MerweScaledSigmaPoints{n: n, alpha: alpha, beta: beta, kappa: kappa}
	pts.computeWeights()
	return pts
}

// NumSigmas returns the number of generated points, 2N+1.
func (pts *MerweScaledSigmaPoints) NumSigmas() int {
	return 2*pts.n + 1
}

// Wm returns the mean weights.
func (pts *MerweScaledSigmaPoints) Wm() []float64 {
	return pts.wm
}

// Wc returns the covariance weights.
func (pts *MerweScaledSigmaPoints) Wc() []float64 {
	return pts.wc
}

// SigmaPoints returns the points as the columns of an n by 2n+1 matrix. The
// first column is the mean itself, the remaining ones lie symmetrically
// along the columns of the scaled Cholesky factor of P. A covariance
// without spread, or one that has lost positive definiteness, collapses
// every point onto the mean.
func (pts *MerweScaledSigmaPoints) SigmaPoints(x mat.Vector, P mat.Symmetric) *mat.Dense {
	n := pts.n
	lambda := pts.alpha*pts.alpha*(float64(n)+pts.kappa) - float64(n)

	sigmas := mat.NewDense(n, 2*n+1, nil)
	for col := 0; col < 2*n+1; col++ {
		for row := 0; row < n; row++ {
			sigmas.Set(row, col, x.AtVec(row))
		}
	}

	var scaled mat.SymDense
	scaled.ScaleSym(lambda+float64(n), P)

	var chol mat.Cholesky
	if chol.Factorize(&scaled) {
		var L mat.TriDense
		chol.LTo(&L)
		for k := 0; k < n; k++ {
			for row := k; row < n; row++ {
				sigmas.Set(row, k+1, sigmas.At(row, k+1)+L.At(row, k))
				sigmas.Set(row, n+k+1, sigmas.At(row, n+k+1)-L.At(row, k))
			}
		}
	}

	return sigmas
}

func (pts *MerweScaledSigmaPoints) computeWeights() {
	n := float64(pts.n)
	lambda := pts.alpha*pts.alpha*(n+pts.kappa) - n

	numSigmas := pts.NumSigmas()
	pts.wm = make([]float64, numSigmas)
	pts.wc = make([]float64, numSigmas)

	c := 0.5 / (n + lambda)
	for i := 1; i < numSigmas; i++ {
		pts.wm[i] = c
		pts.wc[i] = c
	}
	pts.wm[0] = lambda / (n + lambda)
	pts.wc[0] = lambda/(n+lambda) + (1 - pts.alpha*pts.alpha + pts.beta)

	if math.IsNaN(pts.wm[0]) || math.IsNaN(pts.wc[0]) {
		panic(errors.New("Degenerate sigma point weights"))
	}
}
