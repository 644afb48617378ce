package cosinor

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Errors returned by cosinor fitting.
var (
	ErrInvalidPeriod    = errors.New("cosinor: period must be positive")
	ErrInsufficientData = errors.New("cosinor: need at least 4 samples to fit three parameters")
	ErrLengthMismatch   = errors.New("cosinor: times and values differ in length")
	ErrNoConvergence    = errors.New("cosinor: fit did not converge")
)

const (
	// DefaultMaxIterations bounds the Levenberg-Marquardt refinement.
	DefaultMaxIterations = 200

	// DefaultTolerance is the relative residual improvement below which
	// the fit is considered converged.
	DefaultTolerance = 1e-10

	minSamples = 4

	initialLambda = 1e-3
	minLambda     = 1e-12
	maxLambda     = 1e12
)

// Config holds cosinor fitting parameters.
type Config struct {
	// Tau is the rhythm period in hours. The angular frequency is fixed
	// at 2*pi/Tau during the fit; Tau itself is not a free parameter.
	Tau float64

	// MaxIterations bounds the refinement loop. Defaults to
	// DefaultMaxIterations.
	MaxIterations int

	// Tolerance is the relative residual improvement that stops the
	// refinement. Defaults to DefaultTolerance.
	Tolerance float64
}

// Validate checks that the configuration describes a fittable model.
func (c Config) Validate() error {
	if c.Tau <= 0 || math.IsNaN(c.Tau) || math.IsInf(c.Tau, 0) {
		return fmt.Errorf("%w, got %v hours", ErrInvalidPeriod, c.Tau)
	}

	return nil
}

func normalizeConfig(cfg Config) Config {
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = DefaultMaxIterations
	}

	if cfg.Tolerance <= 0 {
		cfg.Tolerance = DefaultTolerance
	}

	return cfg
}

// FitResult holds the raw fitted parameters of the model
//
//	y(t) = M + A*cos(omega*t + Phi),  omega = 2*pi/Tau
//
// A and Phi are reported as the optimizer found them; A may be negative
// and Phi unwrapped. [FitResult.Canonical] maps them to the conventional
// parameterization.
type FitResult struct {
	M   float64 // midline level
	A   float64 // signed amplitude
	Phi float64 // phase in radians at t = 0
	Tau float64 // fixed period in hours

	// Cov is the 3x3 parameter covariance matrix in (M, A, Phi) order,
	// scaled by the residual variance. Nil when the final normal matrix
	// could not be inverted.
	Cov *mat.SymDense

	RSS        float64 // residual sum of squares at the optimum
	Iterations int     // refinement iterations spent
	N          int     // number of fitted samples
}

// Fit estimates midline, amplitude, and phase for a fixed-period cosine
// by damped least squares.
//
// tHours holds sample times in hours, values the measurements. Starting
// from (mean, half the range, 0), each iteration solves the damped
// normal equations
//
//	(JtJ + lambda*diag(JtJ)) * delta = Jt*r
//
// accepting steps that reduce the residual and raising lambda otherwise.
// The fit stops when the relative residual improvement drops below
// Config.Tolerance. Failure to get there within Config.MaxIterations
// returns ErrNoConvergence; that is a property of the data rather than a
// precondition violation, and callers typically continue without rhythm
// parameters.
func Fit(tHours, values []float64, cfg Config) (*FitResult, error) {
	if len(tHours) != len(values) {
		return nil, fmt.Errorf("%w: %d times, %d values", ErrLengthMismatch, len(tHours), len(values))
	}

	if len(values) < minSamples {
		return nil, fmt.Errorf("%w, got %d", ErrInsufficientData, len(values))
	}

	cfg = normalizeConfig(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	omega := 2 * math.Pi / cfg.Tau

	m := stat.Mean(values, nil)
	a := (floats.Max(values) - floats.Min(values)) / 2
	phi := 0.0

	rss := residualSS(tHours, values, omega, m, a, phi)
	lambda := initialLambda

	jtj := mat.NewSymDense(3, nil)
	jtr := mat.NewVecDense(3, nil)
	delta := mat.NewVecDense(3, nil)
	damped := mat.NewSymDense(3, nil)

	var ch mat.Cholesky

	converged := false
	iters := 0

	for iters < cfg.MaxIterations {
		iters++

		normalEquations(jtj, jtr, tHours, values, omega, m, a, phi)

		solved := false

		for lambda <= maxLambda {
			damped.CopySym(jtj)
			for k := range 3 {
				damped.SetSym(k, k, jtj.At(k, k)*(1+lambda))
			}

			if ch.Factorize(damped) {
				if err := ch.SolveVecTo(delta, jtr); err == nil {
					solved = true
					break
				}
			}

			lambda *= 10
		}

		if !solved {
			break
		}

		newM := m + delta.AtVec(0)
		newA := a + delta.AtVec(1)
		newPhi := phi + delta.AtVec(2)

		newRSS := residualSS(tHours, values, omega, newM, newA, newPhi)
		if newRSS <= rss {
			improvement := rss - newRSS
			m, a, phi, rss = newM, newA, newPhi, newRSS
			lambda = math.Max(lambda/10, minLambda)

			if improvement <= cfg.Tolerance*(rss+cfg.Tolerance) {
				converged = true
				break
			}
		} else {
			lambda *= 10
			if lambda > maxLambda {
				break
			}
		}
	}

	if !converged {
		return nil, fmt.Errorf("%w after %d iterations", ErrNoConvergence, iters)
	}

	return &FitResult{
		M:          m,
		A:          a,
		Phi:        phi,
		Tau:        cfg.Tau,
		Cov:        covariance(tHours, values, omega, m, a, phi, rss),
		RSS:        rss,
		Iterations: iters,
		N:          len(values),
	}, nil
}

// normalEquations fills jtj and jtr for the current parameters. The
// Jacobian columns are dM=1, dA=cos(omega*t+phi), dPhi=-A*sin(omega*t+phi).
func normalEquations(jtj *mat.SymDense, jtr *mat.VecDense, tHours, values []float64, omega, m, a, phi float64) {
	var (
		sumJJ [3][3]float64
		sumJr [3]float64
	)

	for i, t := range tHours {
		c := math.Cos(omega*t + phi)
		s := math.Sin(omega*t + phi)

		j := [3]float64{1, c, -a * s}
		r := values[i] - (m + a*c)

		for p := range 3 {
			sumJr[p] += j[p] * r
			for q := p; q < 3; q++ {
				sumJJ[p][q] += j[p] * j[q]
			}
		}
	}

	for p := range 3 {
		jtr.SetVec(p, sumJr[p])
		for q := p; q < 3; q++ {
			jtj.SetSym(p, q, sumJJ[p][q])
		}
	}
}

func residualSS(tHours, values []float64, omega, m, a, phi float64) float64 {
	sum := 0.0

	for i, t := range tHours {
		r := values[i] - (m + a*math.Cos(omega*t+phi))
		sum += r * r
	}

	return sum
}

// covariance inverts the undamped normal matrix at the optimum and scales
// it by the residual variance RSS/(N-3).
func covariance(tHours, values []float64, omega, m, a, phi, rss float64) *mat.SymDense {
	jtj := mat.NewSymDense(3, nil)
	jtr := mat.NewVecDense(3, nil)
	normalEquations(jtj, jtr, tHours, values, omega, m, a, phi)

	var ch mat.Cholesky
	if !ch.Factorize(jtj) {
		return nil
	}

	cov := mat.NewSymDense(3, nil)
	if err := ch.InverseTo(cov); err != nil {
		return nil
	}

	sigma2 := rss / float64(len(values)-3)
	cov.ScaleSym(sigma2, cov)

	return cov
}
