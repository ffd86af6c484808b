// Package matutil collects small matrix constructors and probes that gonum
// does not ship directly.
package matutil

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Eye returns a (m by n) identity matrix
func Eye(m, n int) mat.Matrix {
	data := make([]float64, int(math.Min(float64(m), float64(n))))
	for entry := range data {
		data[entry] = 1
	}
	return mat.NewDiagonalRect(m, n, data)
}

// EyeSym returns an identity matrix scaled by value
func EyeSym(n int, value float64) *mat.SymDense {
	tmp := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		tmp.SetSym(i, i, value)
	}
	return tmp
}

// HasNaNOrInf reports whether any entry of matrix is NaN or infinite. A
// filter that has gone numerically unstable keeps running silently, so
// callers that care should probe the estimate and covariance with this
// after stepping.
func HasNaNOrInf(matrix mat.Matrix) bool {
	m, n := matrix.Dims()
	for row := 0; row < m; row++ {
		for col := 0; col < n; col++ {
			if math.IsNaN(matrix.At(row, col)) || math.IsInf(matrix.At(row, col), 0) {
				return true
			}
		}
	}
	return false
}
