package estimator

import (
	"errors"

	"gonum.org/v1/gonum/mat"

	"github.com/theol0403/allwpilib/c2d"
	"github.com/theol0403/allwpilib/ssm"
)

// KalmanFilter estimates the state of a linear time invariant system. The
// continuous model is rediscretized on every Predict call so that the
// filter tolerates a varying cycle time.
type KalmanFilter struct {
	sys *ssm.LinearStateSpaceModel

	xHat  *mat.VecDense
	p     *mat.SymDense
	contQ *mat.SymDense
	contR *mat.SymDense
	discR *mat.SymDense
}

// NewKalmanFilter constructs a Kalman filter over the given linear model
// with diagonal continuous process and measurement noise built from the
// standard deviation lists.
func NewKalmanFilter(sys *ssm.LinearStateSpaceModel, stateStdDevs, measurementStdDevs []float64, dt float64) *KalmanFilter {
	if len(stateStdDevs) != sys.StateSpaceOrder() || len(measurementStdDevs) != sys.ObservationSpaceOrder() {
		panic(errors.New("Noise parameters don't match the system dimensions"))
	}

	kf := &KalmanFilter{
		sys:   sys,
		contQ: ssm.MakeCovMatrix(stateStdDevs),
		contR: ssm.MakeCovMatrix(measurementStdDevs),
	}
	kf.discR = c2d.DiscretizeR(kf.contR, dt)
	kf.xHat = mat.NewVecDense(sys.StateSpaceOrder(), nil)
	kf.p = mat.NewSymDense(sys.StateSpaceOrder(), nil)
	return kf
}

// Xhat returns the state estimate.
func (kf *KalmanFilter) Xhat() *mat.VecDense {
	return kf.xHat
}

// XhatAt returns element i of the state estimate.
func (kf *KalmanFilter) XhatAt(i int) float64 {
	return kf.xHat.AtVec(i)
}

// SetXhat sets the state estimate.
func (kf *KalmanFilter) SetXhat(xHat mat.Vector) {
	kf.xHat.CopyVec(xHat)
}

// SetXhatAt sets element i of the state estimate.
func (kf *KalmanFilter) SetXhatAt(i int, value float64) {
	kf.xHat.SetVec(i, value)
}

// P returns the error covariance.
func (kf *KalmanFilter) P() *mat.SymDense {
	return kf.p
}

// PAt returns element (i, j) of the error covariance.
func (kf *KalmanFilter) PAt(i, j int) float64 {
	return kf.p.At(i, j)
}

// SetP sets the error covariance.
func (kf *KalmanFilter) SetP(p mat.Symmetric) {
	kf.p.CopySym(p)
}

// Reset zeroes the state estimate and the error covariance.
func (kf *KalmanFilter) Reset() {
	kf.xHat.Zero()
	kf.p.Zero()
}

// Predict projects the estimate one timestep into the future with the
// control input u.
func (kf *KalmanFilter) Predict(u mat.Vector, dt float64) {
	discA, discB := c2d.DiscretizeAB(kf.sys.A, kf.sys.B, dt)
	_, discQ := c2d.DiscretizeAQTaylor(kf.sys.A, kf.contQ, dt)

	var ax, bu mat.VecDense
	ax.MulVec(discA, kf.xHat)
	bu.MulVec(discB, u)
	kf.xHat.AddVec(&ax, &bu)

	// P = Ad P Adᵀ + Qd
	var ap, apat mat.Dense
	ap.Mul(discA, kf.p)
	apat.Mul(&ap, discA.T())
	n := kf.sys.StateSpaceOrder()
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			kf.p.SetSym(i, j, (apat.At(i, j)+apat.At(j, i))/2+discQ.At(i, j))
		}
	}

	kf.discR = c2d.DiscretizeR(kf.contR, dt)
}

// Correct fuses the measurement y into the estimate. u must be the same
// control input used in the predict step.
func (kf *KalmanFilter) Correct(u, y mat.Vector) {
	n := kf.sys.StateSpaceOrder()
	outputs := kf.sys.ObservationSpaceOrder()

	yHat := kf.sys.Observation(kf.xHat, u)

	// Pxy = P Cᵀ and S = C P Cᵀ + Rd
	var pct, cpct mat.Dense
	pct.Mul(kf.p, kf.sys.C.T())
	cpct.Mul(kf.sys.C, &pct)
	s := mat.NewSymDense(outputs, nil)
	for i := 0; i < outputs; i++ {
		for j := i; j < outputs; j++ {
			s.SetSym(i, j, (cpct.At(i, j)+cpct.At(j, i))/2+kf.discR.At(i, j))
		}
	}

	// K = Pxy S⁻¹ through the same transposed solve as the sigma point
	// filter.
	kt := mat.NewDense(outputs, n, nil)
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
	kf.xHat.AddVec(kf.xHat, &correction)

	// P -= K S Kᵀ
	var ks, kskt mat.Dense
	ks.Mul(&K, s)
	kskt.Mul(&ks, K.T())
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			kf.p.SetSym(i, j, kf.p.At(i, j)-kskt.At(i, j))
		}
	}
}
