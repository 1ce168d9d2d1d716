package cantilever

import (
	"fmt"
	"math"

	"Cantilever/internal/calc/bisect"
)

const (
	DefaultDeflectionRatio = 1.0 / 180 // civil engineering serviceability limit
	DefaultBaseMin         = 0.012     // smallest machinable base, m
	DefaultBaseMax         = 0.1
)

// Input is one parameter set. Forces are totals in newtons shared by
// ArmCount arms; lengths are metres; modulus and stress are pascals.
// AllowableDeflectionRatio is the permitted deflection as a fraction of
// CantileverLength. Zero optional fields take their defaults in Resolve.
type Input struct {
	TotalForce               float64 `json:"total_force" toml:"total_force" yaml:"total_force"`
	ArmCount                 int     `json:"arm_count" toml:"arm_count" yaml:"arm_count"`
	StressForceTotal         float64 `json:"stress_force_total" toml:"stress_force_total" yaml:"stress_force_total"`
	YoungsModulus            float64 `json:"youngs_modulus" toml:"youngs_modulus" yaml:"youngs_modulus"`
	BucklingKFactor          float64 `json:"buckling_k_factor" toml:"buckling_k_factor" yaml:"buckling_k_factor"`
	CantileverLength         float64 `json:"cantilever_length" toml:"cantilever_length" yaml:"cantilever_length"`
	MaxHeight                float64 `json:"max_height" toml:"max_height" yaml:"max_height"`
	BaseWidthInitial         float64 `json:"base_width_initial" toml:"base_width_initial" yaml:"base_width_initial"`
	LoadOffset               float64 `json:"load_offset" toml:"load_offset" yaml:"load_offset"`
	AllowableDeflectionRatio float64 `json:"allowable_deflection_ratio" toml:"allowable_deflection_ratio" yaml:"allowable_deflection_ratio"`
	MaxStress                float64 `json:"max_stress" toml:"max_stress" yaml:"max_stress"`

	StrictJointFeasibility bool `json:"strict_joint_feasibility" toml:"strict_joint_feasibility" yaml:"strict_joint_feasibility"`

	BaseMin       float64 `json:"base_min" toml:"base_min" yaml:"base_min"`
	BaseMax       float64 `json:"base_max" toml:"base_max" yaml:"base_max"`
	Tolerance     float64 `json:"tolerance" toml:"tolerance" yaml:"tolerance"`
	MaxIterations int     `json:"max_iterations" toml:"max_iterations" yaml:"max_iterations"`
}

// ReferenceInput is the 12-arm aluminium design the calculator was built for.
func ReferenceInput() Input {
	return Input{
		TotalForce:               4300,
		ArmCount:                 12,
		StressForceTotal:         2900,
		YoungsModulus:            7.1e10,
		BucklingKFactor:          0.5,
		CantileverLength:         0.01,
		MaxHeight:                0.01,
		AllowableDeflectionRatio: DefaultDeflectionRatio,
		MaxStress:                5.25e8, // fatigue limit at 1.5e6 cycles
	}
}

// Params is an Input with defaults applied and per-arm loads derived.
type Params struct {
	DistributedForce    float64 // N per arm
	StressForce         float64 // N per arm
	YoungsModulus       float64
	KFactor             float64
	Length              float64
	LoadOffset          float64
	BucklingBase        float64
	MaxHeight           float64
	AllowableDeflection float64 // m
	MaxStress           float64

	BaseMin float64
	BaseMax float64
	Search  bisect.Options
	Strict  bool
}

// Resolve validates in and fills defaults.
func Resolve(in Input) (Params, error) {
	if in.ArmCount <= 0 {
		return Params{}, invalid("arm_count", float64(in.ArmCount))
	}
	required := []struct {
		field string
		v     float64
	}{
		{"total_force", in.TotalForce},
		{"youngs_modulus", in.YoungsModulus},
		{"buckling_k_factor", in.BucklingKFactor},
		{"cantilever_length", in.CantileverLength},
		{"max_height", in.MaxHeight},
		{"max_stress", in.MaxStress},
	}
	for _, r := range required {
		if !(r.v > 0) || math.IsInf(r.v, 0) {
			return Params{}, invalid(r.field, r.v)
		}
	}
	if in.StressForceTotal < 0 || math.IsNaN(in.StressForceTotal) || math.IsInf(in.StressForceTotal, 0) {
		return Params{}, invalid("stress_force_total", in.StressForceTotal)
	}

	if in.LoadOffset <= 0 {
		in.LoadOffset = in.CantileverLength
	}
	if in.BaseWidthInitial <= 0 {
		in.BaseWidthInitial = in.CantileverLength
	}
	if in.AllowableDeflectionRatio <= 0 {
		in.AllowableDeflectionRatio = DefaultDeflectionRatio
	}
	if in.BaseMin <= 0 {
		in.BaseMin = DefaultBaseMin
	}
	if in.BaseMax <= 0 {
		in.BaseMax = DefaultBaseMax
	}
	if in.BaseMin >= in.BaseMax {
		return Params{}, fmt.Errorf("%w: base_min %g must be below base_max %g", ErrInvalidInput, in.BaseMin, in.BaseMax)
	}
	if in.LoadOffset > in.CantileverLength {
		return Params{}, fmt.Errorf("%w: load_offset %g beyond cantilever_length %g", ErrInvalidInput, in.LoadOffset, in.CantileverLength)
	}

	arms := float64(in.ArmCount)
	return Params{
		DistributedForce:    in.TotalForce / arms,
		StressForce:         in.StressForceTotal / arms,
		YoungsModulus:       in.YoungsModulus,
		KFactor:             in.BucklingKFactor,
		Length:              in.CantileverLength,
		LoadOffset:          in.LoadOffset,
		BucklingBase:        in.BaseWidthInitial,
		MaxHeight:           in.MaxHeight,
		AllowableDeflection: in.CantileverLength * in.AllowableDeflectionRatio,
		MaxStress:           in.MaxStress,
		BaseMin:             in.BaseMin,
		BaseMax:             in.BaseMax,
		Search: bisect.Options{
			Tolerance:     in.Tolerance,
			MaxIterations: in.MaxIterations,
		},
		Strict: in.StrictJointFeasibility,
	}, nil
}
