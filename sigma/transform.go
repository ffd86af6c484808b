package sigma

import (
	"errors"

	"gonum.org/v1/gonum/mat"
)

// UnscentedTransform reduces a set of transformed sigma points, stored as
// the columns of sigmas, back to their weighted mean and covariance.
func UnscentedTransform(sigmas *mat.Dense, Wm, Wc []float64) (*mat.VecDense, *mat.SymDense) {
	m, cols := sigmas.Dims()
	if cols != len(Wm) || cols != len(Wc) {
		panic(errors.New("Weight vectors don't match the sigma point set"))
	}

	// New mean is the weighted sum of the columns.
	wmVec := mat.NewVecDense(cols, Wm)
	mean := mat.NewVecDense(m, nil)
	mean.MulVec(sigmas, wmVec)

	// New covariance is the weighted outer product of the deviations from
	// that mean.
	cov := mat.NewSymDense(m, nil)
	var diff mat.VecDense
	for i := 0; i < cols; i++ {
		diff.SubVec(sigmas.ColView(i), mean)
		cov.SymRankOne(cov, Wc[i], &diff)
	}

	return mean, cov
}
