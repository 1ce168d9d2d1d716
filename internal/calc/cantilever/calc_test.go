package cantilever

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// heavyInput overloads the reference arm so both corrections fire.
func heavyInput() Input {
	in := ReferenceInput()
	in.TotalForce = 12e6
	in.StressForceTotal = 12 * 6.7e5
	in.MaxHeight = 0.1
	return in
}

// overconstrainedInput leaves stress, buckling and deflection violated after
// both corrections.
func overconstrainedInput() Input {
	return Input{
		TotalForce:               2300,
		ArmCount:                 1,
		StressForceTotal:         75,
		YoungsModulus:            5e7,
		BucklingKFactor:          0.55,
		CantileverLength:         0.04,
		MaxHeight:                0.14,
		BaseWidthInitial:         0.013,
		AllowableDeflectionRatio: 0.02,
		MaxStress:                1e5,
	}
}

func TestCalculateReference(t *testing.T) {
	in := ReferenceInput()
	res, err := Calculate(in)
	require.NoError(t, err)

	assert.Greater(t, res.BaseM, DefaultBaseMin)
	assert.Less(t, res.BaseM, DefaultBaseMax)
	assert.Equal(t, 12.0, res.BaseMM)
	assert.Equal(t, 3.117, res.HeightMM)
	assert.InEpsilon(t, 124374783.07682881, res.StressPa, 1e-9)
	assert.InEpsilon(t, 3356.2263280591837, res.BucklingLengthMM, 1e-9)

	assert.False(t, res.StressCorrected)
	assert.False(t, res.BucklingCorrected)
	assert.Equal(t, "Deflection governs.", res.Notes)

	assert.LessOrEqual(t, res.StressPa, in.MaxStress*(1+1e-4))
	assert.LessOrEqual(t, res.HeightM, res.BucklingLengthM*(1+1e-4))
	assert.LessOrEqual(t, res.DeflectionM, in.CantileverLength/180*(1+1e-4))
	assert.True(t, res.OK())
	assert.Equal(t, "The minimum base of the cantilever must be at least 12.000mm thick, with a height of 3.117mm", res.Summary())
}

func TestCalculateIsDeterministic(t *testing.T) {
	for _, in := range []Input{ReferenceInput(), heavyInput()} {
		first, err := Calculate(in)
		require.NoError(t, err)
		second, err := Calculate(in)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	}
}

func TestCalculateStressCorrection(t *testing.T) {
	t.Run("height raised within ceiling", func(t *testing.T) {
		in := ReferenceInput()
		in.MaxStress = 1e8
		res, err := Calculate(in)
		require.NoError(t, err)

		assert.True(t, res.StressCorrected)
		assert.False(t, res.BucklingCorrected)
		assert.InDelta(t, 0.012000083923339844, res.BaseM, 1e-12)
		assert.InEpsilon(t, 0.00347609678055481, res.HeightM, 1e-9)
		assert.InEpsilon(t, in.MaxStress, res.StressPa, 1e-9)
		assert.True(t, res.OK())
	})

	t.Run("height clamped and base widened", func(t *testing.T) {
		in := ReferenceInput()
		in.MaxStress = 1e6
		res, err := Calculate(in)
		require.NoError(t, err)

		assert.True(t, res.StressCorrected)
		assert.Equal(t, in.MaxHeight, res.HeightM)
		assert.InEpsilon(t, 0.145, res.BaseM, 1e-9)
		assert.Equal(t, 145.0, res.BaseMM)
		assert.InEpsilon(t, in.MaxStress, res.StressPa, 1e-9)
		assert.InEpsilon(t, 140970.03847680224, res.BucklingLengthMM, 1e-9)
		assert.True(t, res.OK())
	})
}

func TestCalculateBothCorrections(t *testing.T) {
	in := heavyInput()
	res, err := Calculate(in)
	require.NoError(t, err)

	assert.True(t, res.StressCorrected)
	assert.True(t, res.BucklingCorrected)
	assert.Equal(t, "Resized for fatigue stress, then for buckling.", res.Notes)
	assert.InEpsilon(t, 0.01397918574985977, res.BaseM, 1e-9)
	assert.InDelta(t, 0.07401037733330962, res.HeightM, 1e-6)

	assert.InEpsilon(t, in.MaxStress, res.StressPa, 1e-4)
	assert.LessOrEqual(t, res.HeightM, res.BucklingLengthM)
	assert.LessOrEqual(t, res.HeightM, in.MaxHeight)
	assert.True(t, res.OK())

	in.StrictJointFeasibility = true
	strict, err := Calculate(in)
	require.NoError(t, err)
	assert.Equal(t, res, strict)
}

func TestCalculateJointFeasibility(t *testing.T) {
	in := overconstrainedInput()

	res, err := Calculate(in)
	require.NoError(t, err)
	assert.True(t, res.StressCorrected)
	assert.True(t, res.BucklingCorrected)
	assert.False(t, res.OKStress)
	assert.False(t, res.OK())

	in.StrictJointFeasibility = true
	_, err = Calculate(in)
	require.ErrorIs(t, err, ErrJointInfeasible)

	var ce *ConstraintError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "stress", ce.Constraint)
	assert.Greater(t, ce.Value, ce.Limit)
}

func TestCalculateErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Input)
		want   error
	}{
		{name: "no arms", mutate: func(in *Input) { in.ArmCount = 0 }, want: ErrInvalidInput},
		{name: "negative modulus", mutate: func(in *Input) { in.YoungsModulus = -1 }, want: ErrInvalidInput},
		{name: "missing max stress", mutate: func(in *Input) { in.MaxStress = 0 }, want: ErrInvalidInput},
		{name: "negative stress force", mutate: func(in *Input) { in.StressForceTotal = -5 }, want: ErrInvalidInput},
		{name: "offset beyond length", mutate: func(in *Input) { in.LoadOffset = 1 }, want: ErrInvalidInput},
		{name: "inverted bracket", mutate: func(in *Input) { in.BaseMin, in.BaseMax = 0.2, 0.1 }, want: ErrInvalidInput},
		{name: "no room for any base", mutate: func(in *Input) { in.MaxHeight = 0.001 }, want: ErrInfeasible},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := ReferenceInput()
			tt.mutate(&in)
			res, err := Calculate(in)
			assert.ErrorIs(t, err, tt.want)
			assert.Zero(t, res)
		})
	}
}

func TestResolveDefaults(t *testing.T) {
	in := ReferenceInput()
	in.AllowableDeflectionRatio = 0
	p, err := Resolve(in)
	require.NoError(t, err)

	assert.InEpsilon(t, 4300.0/12, p.DistributedForce, 1e-15)
	assert.InEpsilon(t, 2900.0/12, p.StressForce, 1e-15)
	assert.Equal(t, in.CantileverLength, p.LoadOffset)
	assert.Equal(t, in.CantileverLength, p.BucklingBase)
	assert.InEpsilon(t, in.CantileverLength/180, p.AllowableDeflection, 1e-15)
	assert.Equal(t, DefaultBaseMin, p.BaseMin)
	assert.Equal(t, DefaultBaseMax, p.BaseMax)
	assert.False(t, p.Strict)
}
