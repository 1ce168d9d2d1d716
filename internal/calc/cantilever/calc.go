// Package cantilever sizes the rectangular section of a cantilever arm so it
// meets a deflection limit, resists Euler buckling and stays under a fatigue
// stress limit within a fixed installation height.
package cantilever

import (
	"fmt"
	"math"

	"Cantilever/internal/calc/formula"
)

// jointTolerance is the relative slack allowed when checking the final
// geometry against each limit.
const jointTolerance = 1e-4

type Result struct {
	BaseM                 float64 `json:"base_m"`
	HeightM               float64 `json:"height_m"`
	BaseMM                float64 `json:"base_mm"`
	HeightMM              float64 `json:"height_mm"`
	StressPa              float64 `json:"stress_pa"`
	MaxStressPa           float64 `json:"max_stress_pa"`
	BucklingLengthM       float64 `json:"buckling_length_m"`
	BucklingLengthMM      float64 `json:"buckling_length_mm"`
	DeflectionM           float64 `json:"deflection_m"`
	DeflectionMM          float64 `json:"deflection_mm"`
	AllowableDeflectionMM float64 `json:"allowable_deflection_mm"`
	MaxHeightMM           float64 `json:"max_height_mm"`
	SolverIterations      int     `json:"solver_iterations"`
	StressCorrected       bool    `json:"stress_corrected"`
	BucklingCorrected     bool    `json:"buckling_corrected"`
	OKStress              bool    `json:"ok_stress"`
	OKBuckling            bool    `json:"ok_buckling"`
	OKHeight              bool    `json:"ok_height"`
	OKDeflection          bool    `json:"ok_deflection"`
	Notes                 string  `json:"notes"`
}

// OK reports whether every constraint holds at the final geometry.
func (r Result) OK() bool {
	return r.OKStress && r.OKBuckling && r.OKHeight && r.OKDeflection
}

// Summary is the one-line sizing statement.
func (r Result) Summary() string {
	return fmt.Sprintf("The minimum base of the cantilever must be at least %.3fmm thick, with a height of %.3fmm", r.BaseMM, r.HeightMM)
}

// Calculate solves for the base, applies the stress and buckling corrections
// when their checks fail and evaluates the final geometry. The corrections run
// once each, in that order; the stress limit is not re-checked after a
// buckling correction unless StrictJointFeasibility is set.
func Calculate(in Input) (Result, error) {
	p, err := Resolve(in)
	if err != nil {
		return Result{}, err
	}

	sol, err := Solve(p)
	if err != nil {
		return Result{}, err
	}
	s := sol.Section
	res := Result{SolverIterations: sol.Search.Iterations}

	stress, err := formula.FatigueStress(s.Height/2, p.StressForce, p.Length, s.Base, s.Height)
	if err != nil {
		return Result{}, fmt.Errorf("stress check: %w", err)
	}
	if stress > p.MaxStress {
		if s, err = CorrectStress(p, s); err != nil {
			return Result{}, err
		}
		res.StressCorrected = true
	}

	bl, err := p.bucklingLength(s.Base)
	if err != nil {
		return Result{}, fmt.Errorf("buckling check: %w", err)
	}
	if s.Height > bl {
		if s, err = CorrectBuckling(p, s); err != nil {
			return Result{}, err
		}
		res.BucklingCorrected = true
	}

	if err := p.evaluate(s, &res); err != nil {
		return Result{}, err
	}
	if p.Strict {
		if err := res.jointCheck(p, s); err != nil {
			return Result{}, err
		}
	}
	return res, nil
}

func (p Params) evaluate(s Section, res *Result) error {
	stress, err := formula.FatigueStress(s.Height/2, p.StressForce, p.Length, s.Base, s.Height)
	if err != nil {
		return fmt.Errorf("final stress: %w", err)
	}
	bl, err := p.bucklingLength(s.Base)
	if err != nil {
		return fmt.Errorf("final buckling length: %w", err)
	}
	defl, err := formula.Deflection(p.DistributedForce, p.Length, p.LoadOffset, p.YoungsModulus, s.Base, s.Height)
	if err != nil {
		return fmt.Errorf("final deflection: %w", err)
	}

	res.BaseM = s.Base
	res.HeightM = s.Height
	res.BaseMM = roundMM(s.Base)
	res.HeightMM = roundMM(s.Height)
	res.StressPa = stress
	res.MaxStressPa = p.MaxStress
	res.BucklingLengthM = bl
	res.BucklingLengthMM = bl * 1000
	res.DeflectionM = defl
	res.DeflectionMM = defl * 1000
	res.AllowableDeflectionMM = p.AllowableDeflection * 1000
	res.MaxHeightMM = p.MaxHeight * 1000
	res.OKStress = within(stress, p.MaxStress)
	res.OKBuckling = within(s.Height, bl)
	res.OKHeight = within(s.Height, p.MaxHeight)
	res.OKDeflection = within(defl, p.AllowableDeflection)
	res.Notes = notes(res)
	return nil
}

func (r Result) jointCheck(p Params, s Section) error {
	switch {
	case !r.OKStress:
		return &ConstraintError{Constraint: "stress", Value: r.StressPa, Limit: p.MaxStress}
	case !r.OKBuckling:
		return &ConstraintError{Constraint: "height over buckling length", Value: s.Height, Limit: r.BucklingLengthM}
	case !r.OKHeight:
		return &ConstraintError{Constraint: "height", Value: s.Height, Limit: p.MaxHeight}
	case !r.OKDeflection:
		return &ConstraintError{Constraint: "deflection", Value: r.DeflectionM, Limit: p.AllowableDeflection}
	}
	return nil
}

func notes(r *Result) string {
	switch {
	case r.StressCorrected && r.BucklingCorrected:
		return "Resized for fatigue stress, then for buckling."
	case r.StressCorrected:
		return "Resized for fatigue stress."
	case r.BucklingCorrected:
		return "Resized for buckling."
	}
	return "Deflection governs."
}

func within(v, limit float64) bool {
	return v <= limit*(1+jointTolerance)
}

func roundMM(m float64) float64 {
	return math.Round(m*1000*1000) / 1000
}
