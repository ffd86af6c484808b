package estimator

import (
	"errors"

	"gonum.org/v1/gonum/mat"

	"github.com/theol0403/allwpilib/c2d"
	"github.com/theol0403/allwpilib/jacobian"
	"github.com/theol0403/allwpilib/ode"
	"github.com/theol0403/allwpilib/ssm"
)

// ExtendedKalmanFilter estimates the state of a nonlinear system by
// relinearizing the model around the current estimate on every call. The
// mean is still propagated through the full nonlinear dynamics; only the
// covariance goes through the Jacobians.
type ExtendedKalmanFilter struct {
	f ssm.VectorField
	h ssm.VectorField

	states  int
	inputs  int
	outputs int

	xHat  *mat.VecDense
	p     *mat.SymDense
	contQ *mat.SymDense
	contR *mat.SymDense
	discR *mat.SymDense

	rk *ode.RungeKutta
}

// NewExtendedKalmanFilter constructs an extended Kalman filter with the
// same constructor shape as the unscented one.
func NewExtendedKalmanFilter(states, inputs, outputs int, f, h ssm.VectorField,
	stateStdDevs, measurementStdDevs []float64, dt float64) *ExtendedKalmanFilter {
	if len(stateStdDevs) != states || len(measurementStdDevs) != outputs {
		panic(errors.New("Noise parameters don't match the system dimensions"))
	}

	ekf := &ExtendedKalmanFilter{
		f:       f,
		h:       h,
		states:  states,
		inputs:  inputs,
		outputs: outputs,
		contQ:   ssm.MakeCovMatrix(stateStdDevs),
		contR:   ssm.MakeCovMatrix(measurementStdDevs),
		rk:      ode.NewRK4(),
	}
	ekf.discR = c2d.DiscretizeR(ekf.contR, dt)
	ekf.xHat = mat.NewVecDense(states, nil)
	ekf.p = mat.NewSymDense(states, nil)
	return ekf
}

// Xhat returns the state estimate.
func (ekf *ExtendedKalmanFilter) Xhat() *mat.VecDense {
	return ekf.xHat
}

// XhatAt returns element i of the state estimate.
func (ekf *ExtendedKalmanFilter) XhatAt(i int) float64 {
	return ekf.xHat.AtVec(i)
}

// SetXhat sets the state estimate.
func (ekf *ExtendedKalmanFilter) SetXhat(xHat mat.Vector) {
	ekf.xHat.CopyVec(xHat)
}

// SetXhatAt sets element i of the state estimate.
func (ekf *ExtendedKalmanFilter) SetXhatAt(i int, value float64) {
	ekf.xHat.SetVec(i, value)
}

// P returns the error covariance.
func (ekf *ExtendedKalmanFilter) P() *mat.SymDense {
	return ekf.p
}

// PAt returns element (i, j) of the error covariance.
func (ekf *ExtendedKalmanFilter) PAt(i, j int) float64 {
	return ekf.p.At(i, j)
}

// SetP sets the error covariance.
func (ekf *ExtendedKalmanFilter) SetP(p mat.Symmetric) {
	ekf.p.CopySym(p)
}

// Reset zeroes the state estimate and the error covariance.
func (ekf *ExtendedKalmanFilter) Reset() {
	ekf.xHat.Zero()
	ekf.p.Zero()
}

// Predict projects the estimate one timestep into the future with the
// control input u.
func (ekf *ExtendedKalmanFilter) Predict(u mat.Vector, dt float64) {
	contA := jacobian.X(ekf.f, ekf.xHat, u)
	discA, discQ := c2d.DiscretizeAQTaylor(contA, ekf.contQ, dt)

	ekf.xHat.CopyVec(ekf.rk.Step(ekf.f, ekf.xHat, u, dt))

	// P = Ad P Adᵀ + Qd
	var ap, apat mat.Dense
	ap.Mul(discA, ekf.p)
	apat.Mul(&ap, discA.T())
	for i := 0; i < ekf.states; i++ {
		for j := i; j < ekf.states; j++ {
			ekf.p.SetSym(i, j, (apat.At(i, j)+apat.At(j, i))/2+discQ.At(i, j))
		}
	}

	ekf.discR = c2d.DiscretizeR(ekf.contR, dt)
}

// Correct fuses the measurement y into the estimate using the observation
// map given at construction.
func (ekf *ExtendedKalmanFilter) Correct(u, y mat.Vector) {
	ekf.CorrectWith(u, y, ekf.h, ekf.discR)
}

// CorrectWith fuses the measurement y into the estimate using an arbitrary
// observation map and measurement noise covariance.
func (ekf *ExtendedKalmanFilter) CorrectWith(u, y mat.Vector, h ssm.VectorField, R mat.Symmetric) {
	rows := y.Len()

	C := jacobian.X(h, ekf.xHat, u)
	yHat := h(ekf.xHat, u)

	// Pxy = P Cᵀ and S = C P Cᵀ + R
	var pct, cpct mat.Dense
	pct.Mul(ekf.p, C.T())
	cpct.Mul(C, &pct)
	s := mat.NewSymDense(rows, nil)
	for i := 0; i < rows; i++ {
		for j := i; j < rows; j++ {
			s.SetSym(i, j, (cpct.At(i, j)+cpct.At(j, i))/2+R.At(i, j))
		}
	}

	kt := mat.NewDense(rows, ekf.states, nil)
	var chol mat.Cholesky
	if chol.Factorize(s) {
		_ = chol.SolveTo(kt, pct.T())
	} else {
		_ = kt.Solve(s, pct.T())
	}
	var K mat.Dense
	K.CloneFrom(kt.T())

	var innovation, correction mat.VecDense
	innovation.SubVec(y, yHat)
	correction.MulVec(&K, &innovation)
	ekf.xHat.AddVec(ekf.xHat, &correction)

	// P -= K S Kᵀ
	var ks, kskt mat.Dense
	ks.Mul(&K, s)
	kskt.Mul(&ks, K.T())
	for i := 0; i < ekf.states; i++ {
		for j := i; j < ekf.states; j++ {
			ekf.p.SetSym(i, j, ekf.p.At(i, j)-kskt.At(i, j))
		}
	}
}
