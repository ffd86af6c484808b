package ssm

import (
	"errors"

	"gonum.org/v1/gonum/mat"
)

// LinearStateSpaceModel struct represents the system
//
// x'(t) = A x(t) + B u(t)
//
// y(t) = C x(t) + D u(t)
type LinearStateSpaceModel struct {
	// State dynamics
	A *mat.Dense
	// Input matrix
	B *mat.Dense
	// Observation matrix
	C *mat.Dense
	// Feedthrough matrix
	D *mat.Dense
}

// NewLinearStateSpaceModel creates a new linear state space model.
// The matrix dimensions are checked once here such that the Derivative and
// Observation calls can assume consistency.
func NewLinearStateSpaceModel(A, B, C, D *mat.Dense) *LinearStateSpaceModel {
	m, n := A.Dims()
	mB, nB := B.Dims()
	mC, nC := C.Dims()
	mD, nD := D.Dims()
	if m != n || mB != m || nC != m || mD != mC || nD != nB {
		panic(errors.New("System Parameters don't match"))
	}
	sys := LinearStateSpaceModel{A, B, C, D}
	return &sys
}

// NewIntegratorChain returns a linear state space model of an integrator
// chain of size N where the input enters at the first stage and the last
// state is observed.
func NewIntegratorChain(N int, stageGain float64) *LinearStateSpaceModel {
	a := make([]float64, N*N)
	b := make([]float64, N)
	c := make([]float64, N)
	stride := N
	b[0] = stageGain
	c[N-1] = 1
	for row := 1; row < N; row++ {
		a[row*stride+row-1] = stageGain
	}
	A := mat.NewDense(N, N, a)
	B := mat.NewDense(N, 1, b)
	C := mat.NewDense(1, N, c)
	D := mat.NewDense(1, 1, nil)
	return NewLinearStateSpaceModel(A, B, C, D)
}

// Derivative returns the state derivative
// x'(t) = Ax(t) + Bu(t)
func (model LinearStateSpaceModel) Derivative(x, u mat.Vector) mat.Vector {
	m, _ := model.A.Dims()
	var tmpState, tmpInput mat.VecDense
	tmpState.MulVec(model.A, x)
	tmpInput.MulVec(model.B, u)
	res := mat.NewVecDense(m, nil)
	res.AddVec(&tmpState, &tmpInput)
	return res
}

// Observation returns the observed state
// y(t) = Cx(t) + Du(t)
func (model LinearStateSpaceModel) Observation(x, u mat.Vector) mat.Vector {
	mC, _ := model.C.Dims()
	var tmpState, tmpInput mat.VecDense
	tmpState.MulVec(model.C, x)
	tmpInput.MulVec(model.D, u)
	res := mat.NewVecDense(mC, nil)
	res.AddVec(&tmpState, &tmpInput)
	return res
}

// Dynamics returns the state derivative as a VectorField.
func (model *LinearStateSpaceModel) Dynamics() VectorField {
	return func(x, u mat.Vector) mat.Vector { return model.Derivative(x, u) }
}

// Measurement returns the observation map as a VectorField.
func (model *LinearStateSpaceModel) Measurement() VectorField {
	return func(x, u mat.Vector) mat.Vector { return model.Observation(x, u) }
}

func (model LinearStateSpaceModel) StateSpaceOrder() int {
	m, _ := model.A.Dims()
	return m
}

func (model LinearStateSpaceModel) InputSpaceOrder() int {
	_, n := model.B.Dims()
	return n
}

func (model LinearStateSpaceModel) ObservationSpaceOrder() int {
	m, _ := model.C.Dims()
	return m
}
