package ssm

import (
	"gonum.org/v1/gonum/stat/distuv"

	"gonum.org/v1/gonum/mat"
)

// MakeCovMatrix builds the diagonal covariance matrix corresponding to a
// list of per element standard deviations.
func MakeCovMatrix(stdDevs []float64) *mat.SymDense {
	n := len(stdDevs)
	cov := mat.NewSymDense(n, nil)
	for i, s := range stdDevs {
		cov.SetSym(i, i, s*s)
	}
	return cov
}

// MakeWhiteNoiseVector draws a vector whose elements are independent zero
// mean gaussians with the given standard deviations. A zero standard
// deviation yields a deterministic zero element.
func MakeWhiteNoiseVector(stdDevs []float64) *mat.VecDense {
	res := mat.NewVecDense(len(stdDevs), nil)
	for i, s := range stdDevs {
		if s == 0 {
			continue
		}
		dist := distuv.Normal{Mu: 0, Sigma: s}
		res.SetVec(i, dist.Rand())
	}
	return res
}
