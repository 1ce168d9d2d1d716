package cantilever

import (
	"fmt"

	"Cantilever/internal/calc/bisect"
	"Cantilever/internal/calc/formula"
)

// CorrectStress resizes s so the fatigue stress equals MaxStress. The height
// is raised first; if that would exceed MaxHeight the height is clamped and
// the base widened instead.
func CorrectStress(p Params, s Section) (Section, error) {
	h, err := formula.StressLimitedHeight(p.StressForce, p.Length, s.Base, p.MaxStress)
	if err != nil {
		return s, fmt.Errorf("stress correction: %w", err)
	}
	if h <= p.MaxHeight {
		return Section{Base: s.Base, Height: h}, nil
	}

	b, err := formula.StressLimitedBase(p.StressForce, p.Length, p.MaxHeight, p.MaxStress)
	if err != nil {
		return s, fmt.Errorf("stress correction: %w", err)
	}
	return Section{Base: b, Height: p.MaxHeight}, nil
}

// CorrectBuckling replaces the base with the buckling-consistent dimension for
// the current height, then bisects [0, Height] for the height at which the
// fatigue stress on that base falls to MaxStress.
//
// Stress is 6*S*L/(b*h^2), strictly decreasing in h, so a midpoint at or
// above the limit is too low and one below it is high enough.
func CorrectBuckling(p Params, s Section) (Section, error) {
	base, err := formula.BucklingConsistentBase(p.DistributedForce, p.KFactor, s.Height, p.Length, p.YoungsModulus)
	if err != nil {
		return s, fmt.Errorf("buckling correction: %w", err)
	}

	r, err := bisect.Search(0, s.Height, p.Search, func(h float64) (bool, error) {
		stress, err := formula.FatigueStress(h/2, p.StressForce, p.Length, base, h)
		if err != nil {
			return false, err
		}
		return stress >= p.MaxStress, nil
	})
	if err != nil {
		return s, fmt.Errorf("buckling correction: %w", err)
	}
	return Section{Base: base, Height: r.Value}, nil
}
