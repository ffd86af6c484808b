package sigma

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestNumSigmasAndWeights(t *testing.T) {
	pts := NewMerweScaledSigmaPoints(3)
	if pts.NumSigmas() != 7 {
		t.Errorf("Expected 7 sigma points, got %v", pts.NumSigmas())
	}

	var sum float64
	for _, w := range pts.Wm() {
		sum += w
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Errorf("Mean weights sum to %v, not 1", sum)
	}
}

// Generating points from a distribution and reducing them again must give
// the distribution back.
func TestMomentReconstruction(t *testing.T) {
	pts := NewMerweScaledSigmaPoints(2)
	x := mat.NewVecDense(2, []float64{1, -2})
	P := mat.NewSymDense(2, []float64{2, 0.5, 0.5, 1})

	sigmas := pts.SigmaPoints(x, P)
	mean, cov := UnscentedTransform(sigmas, pts.Wm(), pts.Wc())

	if !mat.EqualApprox(mean, x, 1e-9) {
		t.Errorf("Mean not reconstructed:\n%v", mat.Formatted(mean))
	}
	if !mat.EqualApprox(cov, P, 1e-9) {
		t.Errorf("Covariance not reconstructed:\n%v", mat.Formatted(cov))
	}
}

// The transform is exact for affine maps of the points.
func TestAffineExactness(t *testing.T) {
	pts := NewMerweScaledSigmaPoints(2)
	x := mat.NewVecDense(2, []float64{0.3, 0.7})
	P := mat.NewSymDense(2, []float64{1, 0.2, 0.2, 0.5})
	A := mat.NewDense(2, 2, []float64{2, 1, 0, -1})
	b := mat.NewVecDense(2, []float64{5, -3})

	sigmas := pts.SigmaPoints(x, P)
	mapped := mat.NewDense(2, pts.NumSigmas(), nil)
	var col mat.VecDense
	for i := 0; i < pts.NumSigmas(); i++ {
		col.MulVec(A, sigmas.ColView(i))
		col.AddVec(&col, b)
		for row := 0; row < 2; row++ {
			mapped.Set(row, i, col.AtVec(row))
		}
	}

	mean, cov := UnscentedTransform(mapped, pts.Wm(), pts.Wc())

	var expectedMean mat.VecDense
	expectedMean.MulVec(A, x)
	expectedMean.AddVec(&expectedMean, b)

	var ap, apat mat.Dense
	ap.Mul(A, P)
	apat.Mul(&ap, A.T())

	if !mat.EqualApprox(mean, &expectedMean, 1e-9) {
		t.Errorf("Wrong mean:\n%v", mat.Formatted(mean))
	}
	if !mat.EqualApprox(cov, &apat, 1e-9) {
		t.Errorf("Wrong covariance:\n%v", mat.Formatted(cov))
	}
}

// A covariance without spread must collapse every point onto the mean, so
// that an observer reset to zero uncertainty stays well defined.
func TestZeroCovarianceCollapse(t *testing.T) {
	pts := NewMerweScaledSigmaPoints(2)
	x := mat.NewVecDense(2, []float64{4, 2})
	P := mat.NewSymDense(2, nil)

	sigmas := pts.SigmaPoints(x, P)
	for i := 0; i < pts.NumSigmas(); i++ {
		if !mat.EqualApprox(sigmas.ColView(i), x, 1e-15) {
			t.Fatalf("Column %v did not collapse onto the mean", i)
		}
	}
}

func TestDeterminism(t *testing.T) {
	pts := NewMerweScaledSigmaPoints(3)
	x := mat.NewVecDense(3, []float64{1, 2, 3})
	P := mat.NewSymDense(3, []float64{1, 0, 0, 0, 2, 0, 0, 0, 3})

	a := pts.SigmaPoints(x, P)
	b := pts.SigmaPoints(x, P)
	if !mat.Equal(a, b) {
		t.Error("Sigma point generation is not deterministic")
	}
}
