package cantilever

import (
	"fmt"

	"Cantilever/internal/calc/bisect"
	"Cantilever/internal/calc/formula"
)

// Section is a rectangular cross-section in metres.
type Section struct {
	Base   float64 `json:"base_m"`
	Height float64 `json:"height_m"`
}

// Solution is the section found by Solve and the bracket it converged in.
type Solution struct {
	Section
	Search bisect.Result
}

// Solve searches [BaseMin, BaseMax] for the thinnest base whose deflection
// height stays below both the buckling length and the height ceiling.
// The candidate is the last midpoint, so it may sit on the infeasible side of
// the boundary by less than the tolerance. A bracket with no feasible base
// converges to its upper bound; that case is reported as ErrInfeasible
// together with the candidate found.
func Solve(p Params) (Solution, error) {
	infeasible := func(base float64) (bool, error) {
		h, bl, err := p.deflectionAndBuckling(base)
		if err != nil {
			return false, err
		}
		return h >= bl || h >= p.MaxHeight, nil
	}

	r, err := bisect.Search(p.BaseMin, p.BaseMax, p.Search, infeasible)
	if err != nil {
		return Solution{Search: r}, fmt.Errorf("solve base thickness: %w", err)
	}

	h, err := p.deflectionHeight(r.Value)
	if err != nil {
		return Solution{Search: r}, fmt.Errorf("solve base thickness: %w", err)
	}
	sol := Solution{Section: Section{Base: r.Value, Height: h}, Search: r}

	// Upper only stays at BaseMax when every midpoint was infeasible.
	if r.Upper < p.BaseMax {
		return sol, nil
	}
	bad, err := infeasible(p.BaseMax)
	if err != nil {
		return sol, fmt.Errorf("solve base thickness: %w", err)
	}
	if bad {
		return sol, fmt.Errorf("solve base thickness: %w [%g, %g]: base %g needs height %g",
			ErrInfeasible, p.BaseMin, p.BaseMax, sol.Base, sol.Height)
	}
	return sol, nil
}

func (p Params) deflectionHeight(base float64) (float64, error) {
	return formula.RequiredHeight(p.AllowableDeflection, p.DistributedForce, p.Length, p.LoadOffset, p.YoungsModulus, base)
}

// bucklingLength evaluates the Euler length with the initial base width as
// section width and the candidate base as section depth.
func (p Params) bucklingLength(base float64) (float64, error) {
	return formula.BucklingCriticalLength(p.DistributedForce, p.YoungsModulus, p.KFactor, p.BucklingBase, base)
}

func (p Params) deflectionAndBuckling(base float64) (height, buckling float64, err error) {
	if height, err = p.deflectionHeight(base); err != nil {
		return 0, 0, err
	}
	if buckling, err = p.bucklingLength(base); err != nil {
		return 0, 0, err
	}
	return height, buckling, nil
}
