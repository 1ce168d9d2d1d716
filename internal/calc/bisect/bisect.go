// Package bisect implements the bracketed bisection search shared by the
// cantilever solver and its corrections.
package bisect

import (
	"errors"
	"fmt"
	"math"
)

const (
	DefaultTolerance     = 1e-7
	DefaultMaxIterations = 200
)

var (
	ErrMalformedBracket = errors.New("bisect: malformed bracket")
	ErrNoConvergence    = errors.New("bisect: no convergence")
)

// Options tune a search. Zero values select the defaults.
type Options struct {
	Tolerance     float64
	MaxIterations int
}

// Result is the state of the bracket when the search stopped.
type Result struct {
	Value      float64 // last midpoint evaluated
	Lower      float64
	Upper      float64
	Iterations int
}

// Width is Upper - Lower.
func (r Result) Width() float64 { return r.Upper - r.Lower }

// Search halves [lower, upper] until its width is at most the tolerance.
// At each midpoint x, tooLow(x) == true moves the lower bound up to x,
// otherwise the upper bound comes down to x. An error from tooLow stops the
// search and is returned unchanged.
func Search(lower, upper float64, opts Options, tooLow func(x float64) (bool, error)) (Result, error) {
	tol := opts.Tolerance
	if tol == 0 {
		tol = DefaultTolerance
	}
	maxIter := opts.MaxIterations
	if maxIter == 0 {
		maxIter = DefaultMaxIterations
	}

	switch {
	case math.IsNaN(lower) || math.IsInf(lower, 0) || math.IsNaN(upper) || math.IsInf(upper, 0):
		return Result{}, fmt.Errorf("%w: bounds [%g, %g] are not finite", ErrMalformedBracket, lower, upper)
	case lower >= upper:
		return Result{}, fmt.Errorf("%w: lower %g >= upper %g", ErrMalformedBracket, lower, upper)
	case !(tol > 0):
		return Result{}, fmt.Errorf("%w: tolerance %g", ErrMalformedBracket, tol)
	case maxIter < 0:
		return Result{}, fmt.Errorf("%w: max iterations %d", ErrMalformedBracket, maxIter)
	}

	r := Result{Lower: lower, Upper: upper}
	for r.Upper-r.Lower > tol {
		if r.Iterations == maxIter {
			return r, fmt.Errorf("%w: width %g after %d iterations", ErrNoConvergence, r.Width(), r.Iterations)
		}
		r.Iterations++
		r.Value = (r.Lower + r.Upper) / 2

		low, err := tooLow(r.Value)
		if err != nil {
			return r, err
		}
		if low {
			r.Lower = r.Value
		} else {
			r.Upper = r.Value
		}
	}
	if r.Iterations == 0 {
		// bracket already narrower than the tolerance
		r.Value = (r.Lower + r.Upper) / 2
	}
	return r, nil
}
