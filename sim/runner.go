// Package sim steps a continuous plant forward in time and produces the
// noisy measurement stream an observer would see, so that filters can be
// exercised against a known ground truth.
package sim

import (
	"gonum.org/v1/gonum/mat"

	"github.com/theol0403/allwpilib/ode"
	"github.com/theol0403/allwpilib/ssm"
)

// Runner integrates the plant dynamics between samples and observes the
// state through the measurement map, corrupting both with white noise of
// the configured standard deviations.
type Runner struct {
	Dynamics           ssm.VectorField
	Measurement        ssm.VectorField
	Input              Signal
	ProcessStdDevs     []float64
	MeasurementStdDevs []float64
	Dt                 float64

	rk *ode.RungeKutta
}

// History is the recorded trajectory of a run. Row k of States holds the
// true state after k steps and row k of Measurements the sample taken
// there; Inputs holds the input applied over step k.
type History struct {
	Times        []float64
	States       *mat.Dense
	Measurements *mat.Dense
	Inputs       *mat.Dense
}

// NewRunner returns a runner with a fourth order integrator.
func NewRunner(f, h ssm.VectorField, input Signal, processStdDevs, measurementStdDevs []float64, dt float64) *Runner {
	return &Runner{
		Dynamics:           f,
		Measurement:        h,
		Input:              input,
		ProcessStdDevs:     processStdDevs,
		MeasurementStdDevs: measurementStdDevs,
		Dt:                 dt,
		rk:                 ode.NewRK4(),
	}
}

// Run simulates steps samples starting from x0 and returns the recorded
// trajectory. The initial state is recorded as row zero with its own
// measurement, so the returned history holds steps+1 rows.
func (r *Runner) Run(x0 mat.Vector, steps int) *History {
	states := x0.Len()
	u0 := r.Input(0)
	inputs := u0.Len()
	outputs := r.Measurement(x0, u0).Len()

	hist := &History{
		Times:        make([]float64, steps+1),
		States:       mat.NewDense(steps+1, states, nil),
		Measurements: mat.NewDense(steps+1, outputs, nil),
		Inputs:       mat.NewDense(steps+1, inputs, nil),
	}

	x := mat.NewVecDense(states, nil)
	x.CloneFromVec(x0)
	r.record(hist, 0, 0, x, u0)

	for k := 1; k <= steps; k++ {
		t := float64(k-1) * r.Dt
		u := r.Input(t)
		x.CopyVec(r.rk.Step(r.Dynamics, x, u, r.Dt))
		if r.ProcessStdDevs != nil {
			x.AddVec(x, ssm.MakeWhiteNoiseVector(r.ProcessStdDevs))
		}
		r.record(hist, k, float64(k)*r.Dt, x, u)
	}
	return hist
}

func (r *Runner) record(hist *History, k int, t float64, x, u mat.Vector) {
	hist.Times[k] = t
	for i := 0; i < x.Len(); i++ {
		hist.States.Set(k, i, x.AtVec(i))
	}
	for i := 0; i < u.Len(); i++ {
		hist.Inputs.Set(k, i, u.AtVec(i))
	}
	y := r.Measurement(x, u)
	var yn mat.VecDense
	yn.CloneFromVec(y)
	if r.MeasurementStdDevs != nil {
		yn.AddVec(&yn, ssm.MakeWhiteNoiseVector(r.MeasurementStdDevs))
	}
	for i := 0; i < yn.Len(); i++ {
		hist.Measurements.Set(k, i, yn.AtVec(i))
	}
}

// StateAt returns the true state after k steps.
func (h *History) StateAt(k int) mat.Vector {
	return h.States.RowView(k)
}

// MeasurementAt returns the sampled measurement after k steps.
func (h *History) MeasurementAt(k int) mat.Vector {
	return h.Measurements.RowView(k)
}

// InputAt returns the input applied over step k.
func (h *History) InputAt(k int) mat.Vector {
	return h.Inputs.RowView(k)
}

// Steps returns the number of integration steps recorded.
func (h *History) Steps() int {
	return len(h.Times) - 1
}
