package matutil

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestEye(t *testing.T) {
	eye := Eye(3, 2)
	for row := 0; row < 3; row++ {
		for col := 0; col < 2; col++ {
			want := 0.
			if row == col {
				want = 1.
			}
			if eye.At(row, col) != want {
				t.Errorf("Eye(3, 2) wrong at (%v, %v): %v", row, col, eye.At(row, col))
			}
		}
	}
}

func TestEyeSym(t *testing.T) {
	p := EyeSym(2, 0.25)
	if p.At(0, 0) != 0.25 || p.At(1, 1) != 0.25 || p.At(0, 1) != 0 {
		t.Errorf("Wrong scaled identity:\n%v", mat.Formatted(p))
	}
}

func TestHasNaNOrInf(t *testing.T) {
	clean := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	if HasNaNOrInf(clean) {
		t.Error("Clean matrix flagged")
	}
	dirty := mat.NewDense(2, 2, []float64{1, math.NaN(), 3, 4})
	if !HasNaNOrInf(dirty) {
		t.Error("NaN not flagged")
	}
	inf := mat.NewDense(1, 2, []float64{1, math.Inf(-1)})
	if !HasNaNOrInf(inf) {
		t.Error("Inf not flagged")
	}
}
