package integrators

import (
	"fmt"
	"math"

	"github.com/san-kum/oscnet/internal/dynamo"
)

// Runge-Kutta-Fehlberg 4(5) coefficients
const (
	a2 = 1.0 / 4.0
	a3 = 3.0 / 8.0
	a4 = 12.0 / 13.0
	a6 = 1.0 / 2.0

	b21 = 1.0 / 4.0
	b31 = 3.0 / 32.0
	b32 = 9.0 / 32.0
	b41 = 1932.0 / 2197.0
	b42 = -7200.0 / 2197.0
	b43 = 7296.0 / 2197.0
	b51 = 439.0 / 216.0
	b52 = -8.0
	b53 = 3680.0 / 513.0
	b54 = -845.0 / 4104.0
	b61 = -8.0 / 27.0
	b62 = 2.0
	b63 = -3544.0 / 2565.0
	b64 = 1859.0 / 4104.0
	b65 = -11.0 / 40.0

	// fifth-order weights
	c1 = 16.0 / 135.0
	c3 = 6656.0 / 12825.0
	c4 = 28561.0 / 56430.0
	c5 = -9.0 / 50.0
	c6 = 2.0 / 55.0

	// fifth minus fourth order
	e1 = 1.0 / 360.0
	e3 = -128.0 / 4275.0
	e4 = -2197.0 / 75240.0
	e5 = 1.0 / 50.0
	e6 = 2.0 / 55.0
)

var _ dynamo.AdaptiveIntegrator = (*RKF45)(nil)

// RKF45 is an adaptive embedded Runge-Kutta-Fehlberg integrator. Step
// integrates exactly to t+dt, starting from a trial step of dt/Substeps and
// adapting it to keep the local error estimate below Tolerance.
type RKF45 struct {
	Substeps  int
	Tolerance float64
	MinStep   float64

	// Fallbacks counts Step calls that could not meet Tolerance and finished
	// their interval with one unchecked step.
	Fallbacks int

	safety   float64
	minScale float64
	maxScale float64
	nextStep float64

	k1, k2, k3, k4, k5, k6 dynamo.State
	scratch                dynamo.State
}

func NewRKF45(substeps int) *RKF45 {
	if substeps < 1 {
		substeps = 1
	}
	return &RKF45{
		Substeps:  substeps,
		Tolerance: 1e-6,
		MinStep:   1e-12,
		safety:    0.9,
		minScale:  0.2,
		maxScale:  5.0,
	}
}

func (r *RKF45) ensureScratch(n int) {
	if len(r.k1) != n {
		r.k1 = make(dynamo.State, n)
		r.k2 = make(dynamo.State, n)
		r.k3 = make(dynamo.State, n)
		r.k4 = make(dynamo.State, n)
		r.k5 = make(dynamo.State, n)
		r.k6 = make(dynamo.State, n)
		r.scratch = make(dynamo.State, n)
	}
}

func (r *RKF45) Step(sys dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	substeps := r.Substeps
	if substeps < 1 {
		substeps = 1
	}

	end := t + dt
	h := dt / float64(substeps)
	cur := x.Clone()
	tc := t

	for {
		remaining := end - tc
		if remaining <= math.Abs(dt)*1e-12 {
			break
		}
		if h > remaining {
			h = remaining
		}

		next, taken, err := r.StepAdaptive(sys, cur, tc, h, r.Tolerance)
		if err != nil {
			// The error estimate is unusable; finish the interval in one step.
			cur, _ = r.attempt(sys, cur, tc, remaining, r.Tolerance)
			r.Fallbacks++
			break
		}

		cur = next
		tc += taken
		if r.nextStep > 0 {
			h = r.nextStep
		}
	}

	return cur.Wrap()
}

// StepAdaptive advances x by at most h, shrinking the step until the local
// error estimate is within tol. It returns the new state and the step taken;
// the recommended size for the following step is kept for the next call of Step.
func (r *RKF45) StepAdaptive(sys dynamo.System, x dynamo.State, t, h, tol float64) (dynamo.State, float64, error) {
	if len(x) != sys.StateDim() {
		return x, 0, fmt.Errorf("%w: state has %d entries, system %d", dynamo.ErrDimensionMismatch, len(x), sys.StateDim())
	}
	if tol <= 0 {
		tol = r.Tolerance
	}

	for {
		if h < r.MinStep {
			return x, 0, dynamo.ErrStepTooSmall
		}

		xNew, errRatio := r.attempt(sys, x, t, h, tol)
		if errRatio <= 1 {
			r.nextStep = h * r.growth(errRatio)
			return xNew, h, nil
		}

		if math.IsNaN(errRatio) || math.IsInf(errRatio, 0) {
			return x, 0, dynamo.ErrStepTooSmall
		}
		h *= math.Max(r.minScale, r.safety*math.Pow(errRatio, -0.25))
	}
}

func (r *RKF45) growth(errRatio float64) float64 {
	if errRatio == 0 {
		return r.maxScale
	}
	return math.Min(r.maxScale, r.safety*math.Pow(errRatio, -0.2))
}

// attempt performs one Fehlberg step of size h and returns the fifth-order
// solution with the error ratio relative to tol.
func (r *RKF45) attempt(sys dynamo.System, x dynamo.State, t, h, tol float64) (dynamo.State, float64) {
	n := len(x)
	r.ensureScratch(n)

	copy(r.k1, sys.Derive(x, t))

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + h*b21*r.k1[i]
	}
	copy(r.k2, sys.Derive(r.scratch, t+a2*h))

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + h*(b31*r.k1[i]+b32*r.k2[i])
	}
	copy(r.k3, sys.Derive(r.scratch, t+a3*h))

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + h*(b41*r.k1[i]+b42*r.k2[i]+b43*r.k3[i])
	}
	copy(r.k4, sys.Derive(r.scratch, t+a4*h))

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + h*(b51*r.k1[i]+b52*r.k2[i]+b53*r.k3[i]+b54*r.k4[i])
	}
	copy(r.k5, sys.Derive(r.scratch, t+h))

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + h*(b61*r.k1[i]+b62*r.k2[i]+b63*r.k3[i]+b64*r.k4[i]+b65*r.k5[i])
	}
	copy(r.k6, sys.Derive(r.scratch, t+a6*h))

	xNew := make(dynamo.State, n)
	errMax := 0.0
	for i := 0; i < n; i++ {
		xNew[i] = x[i] + h*(c1*r.k1[i]+c3*r.k3[i]+c4*r.k4[i]+c5*r.k5[i]+c6*r.k6[i])
		errEst := h * (e1*r.k1[i] + e3*r.k3[i] + e4*r.k4[i] + e5*r.k5[i] + e6*r.k6[i])
		scale := tol * (1 + math.Abs(x[i]))
		errMax = math.Max(errMax, math.Abs(errEst)/scale)
	}

	return xNew, errMax
}
