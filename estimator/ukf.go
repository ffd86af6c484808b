// Package estimator holds state observers built around the predict/correct
// cycle: a linear Kalman filter, an extended Kalman filter and a sigma
// point (unscented) Kalman filter. All of them keep a running state
// estimate xHat with its error covariance P and fuse noisy observations
// into it once per control cycle.
package estimator

import (
	"errors"

	"gonum.org/v1/gonum/mat"

	"github.com/theol0403/allwpilib/c2d"
	"github.com/theol0403/allwpilib/jacobian"
	"github.com/theol0403/allwpilib/ode"
	"github.com/theol0403/allwpilib/sigma"
	"github.com/theol0403/allwpilib/ssm"
)

// UnscentedKalmanFilter estimates the state of a nonlinear system by
// propagating a deterministic sigma point set through the full nonlinear
// dynamics instead of linearizing the state transition. The dynamics only
// get linearized to discretize the process noise.
//
// A filter instance is not safe for concurrent use. The caller drives the
// Predict then Correct cycle; Correct consumes the sigma points propagated
// by the most recent Predict, so calling it without a preceding Predict
// reads stale (or, on a fresh filter, zero) points.
type UnscentedKalmanFilter struct {
	f ssm.VectorField
	h ssm.VectorField

	states  int
	inputs  int
	outputs int

	xHat    *mat.VecDense
	p       *mat.SymDense
	contQ   *mat.SymDense
	contR   *mat.SymDense
	discR   *mat.SymDense
	sigmasF *mat.Dense

	pts *sigma.MerweScaledSigmaPoints
	rk  *ode.RungeKutta
}

// NewUnscentedKalmanFilter constructs an unscented Kalman filter for a
// system with the given dimensions.
//
// f is the continuous time state derivative f(x, u) and h the observation
// map h(x, u). The standard deviation lists describe the continuous
// process and measurement noise and are fixed for the lifetime of the
// filter; dt is the nominal discretization timestep used to seed the
// discrete measurement noise before the first Predict call.
func NewUnscentedKalmanFilter(states, inputs, outputs int, f, h ssm.VectorField,
	stateStdDevs, measurementStdDevs []float64, dt float64) *UnscentedKalmanFilter {
	if len(stateStdDevs) != states || len(measurementStdDevs) != outputs {
		panic(errors.New("Noise parameters don't match the system dimensions"))
	}

	ukf := &UnscentedKalmanFilter{
		f:       f,
		h:       h,
		states:  states,
		inputs:  inputs,
		outputs: outputs,
		contQ:   ssm.MakeCovMatrix(stateStdDevs),
		contR:   ssm.MakeCovMatrix(measurementStdDevs),
		pts:     sigma.NewMerweScaledSigmaPoints(states),
		rk:      ode.NewRK4(),
	}
	ukf.discR = c2d.DiscretizeR(ukf.contR, dt)
	ukf.xHat = mat.NewVecDense(states, nil)
	ukf.p = mat.NewSymDense(states, nil)
	ukf.sigmasF = mat.NewDense(states, ukf.pts.NumSigmas(), nil)
	return ukf
}

// Xhat returns the state estimate.
func (ukf *UnscentedKalmanFilter) Xhat() *mat.VecDense {
	return ukf.xHat
}

// XhatAt returns element i of the state estimate.
func (ukf *UnscentedKalmanFilter) XhatAt(i int) float64 {
	return ukf.xHat.AtVec(i)
}

// SetXhat sets the state estimate.
func (ukf *UnscentedKalmanFilter) SetXhat(xHat mat.Vector) {
	ukf.xHat.CopyVec(xHat)
}

// SetXhatAt sets element i of the state estimate.
func (ukf *UnscentedKalmanFilter) SetXhatAt(i int, value float64) {
	ukf.xHat.SetVec(i, value)
}

// P returns the error covariance.
func (ukf *UnscentedKalmanFilter) P() *mat.SymDense {
	return ukf.p
}

// PAt returns element (i, j) of the error covariance.
func (ukf *UnscentedKalmanFilter) PAt(i, j int) float64 {
	return ukf.p.At(i, j)
}

// SetP sets the error covariance.
func (ukf *UnscentedKalmanFilter) SetP(p mat.Symmetric) {
	ukf.p.CopySym(p)
}

// Reset zeroes the state estimate, the error covariance and the propagated
// sigma points. The noise models survive a reset.
func (ukf *UnscentedKalmanFilter) Reset() {
	ukf.xHat.Zero()
	ukf.p.Zero()
	ukf.sigmasF.Zero()
}

// Predict projects the estimate one timestep into the future with the
// control input u.
func (ukf *UnscentedKalmanFilter) Predict(u mat.Vector, dt float64) {
	// Discretize Q before projecting mean and covariance forward. The
	// dynamics are linearized at the mean only for this conversion; the
	// mean itself is never propagated through the Jacobian.
	contA := jacobian.X(ukf.f, ukf.xHat, u)
	_, discQ := c2d.DiscretizeAQTaylor(contA, ukf.contQ, dt)

	sigmas := ukf.pts.SigmaPoints(ukf.xHat, ukf.p)

	// Each sigma point takes one full nonlinear step.
	for i := 0; i < ukf.pts.NumSigmas(); i++ {
		next := ukf.rk.Step(ukf.f, sigmas.ColView(i), u, dt)
		ukf.sigmasF.SetCol(i, next.RawVector().Data)
	}

	xHat, p := sigma.UnscentedTransform(ukf.sigmasF, ukf.pts.Wm(), ukf.pts.Wc())
	ukf.xHat.CopyVec(xHat)
	ukf.p.CopySym(p)

	ukf.p.AddSym(ukf.p, discQ)
	// Rediscretize R with this call's timestep so that variable rate
	// operation keeps the two argument Correct consistent.
	ukf.discR = c2d.DiscretizeR(ukf.contR, dt)
}

// Correct fuses the measurement y into the estimate using the observation
// map given at construction and the measurement noise discretized by the
// last Predict call. u must be the same control input used in the predict
// step.
func (ukf *UnscentedKalmanFilter) Correct(u, y mat.Vector) {
	ukf.CorrectWith(u, y, ukf.h, ukf.discR)
}

// CorrectWith fuses the measurement y into the estimate using an arbitrary
// observation map and measurement noise covariance. This is useful when
// the measurements available during a timestep vary, e.g. when some
// sensors drop out; y and R may have any (matching) dimension.
func (ukf *UnscentedKalmanFilter) CorrectWith(u, y mat.Vector, h ssm.VectorField, R mat.Symmetric) {
	rows := y.Len()
	numSigmas := ukf.pts.NumSigmas()

	// Transform sigma points into measurement space.
	sigmas := ukf.pts.SigmaPoints(ukf.xHat, ukf.p)
	sigmasH := mat.NewDense(rows, numSigmas, nil)
	for i := 0; i < numSigmas; i++ {
		hCol := h(sigmas.ColView(i), u)
		for row := 0; row < rows; row++ {
			sigmasH.Set(row, i, hCol.AtVec(row))
		}
	}

	// Mean and covariance of the predicted observation.
	yHat, py := sigma.UnscentedTransform(sigmasH, ukf.pts.Wm(), ukf.pts.Wc())
	py.AddSym(py, R)

	// Cross covariance of the state and the observation. The state side
	// uses the sigma points propagated by the last Predict call, from the
	// pre predict distribution, while the observation side uses the points
	// just generated above; matching columns pair up. This cross pairing
	// carries the correlation between the propagated prior and the
	// observation map through the update.
	wc := ukf.pts.Wc()
	pxy := mat.NewDense(ukf.states, rows, nil)
	var dx, dy mat.VecDense
	var outer mat.Dense
	for i := 0; i < numSigmas; i++ {
		dx.SubVec(ukf.sigmasF.ColView(i), ukf.xHat)
		dy.SubVec(sigmasH.ColView(i), yHat)
		outer.Outer(wc[i], &dx, &dy)
		pxy.Add(pxy, &outer)
	}

	// K = Pxy Py⁻¹, computed as the solution of Pyᵀ Kᵀ = Pxyᵀ rather than
	// through an explicit inverse.
	kt := mat.NewDense(rows, ukf.states, nil)
	var chol mat.Cholesky
	if chol.Factorize(py) {
		_ = chol.SolveTo(kt, pxy.T())
	} else {
		// An indefinite Py corrupts the gain silently rather than
		// reporting; the filter contract has no error path.
		_ = kt.Solve(py, pxy.T())
	}
	var K mat.Dense
	K.CloneFrom(kt.T())

	var innovation, correction mat.VecDense
	innovation.SubVec(y, yHat)
	correction.MulVec(&K, &innovation)
	ukf.xHat.AddVec(ukf.xHat, &correction)

	// Standard form covariance update, P -= K Py Kᵀ.
	var kpy, kpykt mat.Dense
	kpy.Mul(&K, py)
	kpykt.Mul(&kpy, K.T())
	for i := 0; i < ukf.states; i++ {
		for j := i; j < ukf.states; j++ {
			ukf.p.SetSym(i, j, ukf.p.At(i, j)-kpykt.At(i, j))
		}
	}
}
