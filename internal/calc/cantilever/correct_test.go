package cantilever

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Cantilever/internal/calc/formula"
)

func stressAt(t *testing.T, p Params, s Section) float64 {
	t.Helper()
	v, err := formula.FatigueStress(s.Height/2, p.StressForce, p.Length, s.Base, s.Height)
	require.NoError(t, err)
	return v
}

func TestCorrectStress(t *testing.T) {
	tests := []struct {
		name       string
		maxStress  float64
		wantHeight float64
		wantBase   float64
	}{
		{name: "raise height", maxStress: 1e8, wantHeight: 0.00347609678055481, wantBase: 0.012000083923339844},
		{name: "clamp height and widen base", maxStress: 1e6, wantHeight: 0.01, wantBase: 0.145},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := ReferenceInput()
			in.MaxStress = tt.maxStress
			p := resolve(t, in)

			got, err := CorrectStress(p, Section{Base: 0.012000083923339844, Height: 0.0031169202558350515})
			require.NoError(t, err)
			assert.InEpsilon(t, tt.wantHeight, got.Height, 1e-6)
			assert.InEpsilon(t, tt.wantBase, got.Base, 1e-9)
			assert.LessOrEqual(t, got.Height, p.MaxHeight)
			assert.InEpsilon(t, tt.maxStress, stressAt(t, p, got), 1e-9)

			again, err := CorrectStress(p, got)
			require.NoError(t, err)
			assert.Less(t, math.Abs(again.Base-got.Base), 1e-7)
			assert.Less(t, math.Abs(again.Height-got.Height), 1e-7)
		})
	}
}

func TestCorrectStressDomainError(t *testing.T) {
	p := resolve(t, ReferenceInput())
	_, err := CorrectStress(p, Section{Base: 0, Height: 0.003})
	assert.ErrorIs(t, err, formula.ErrDomain)
}

func TestCorrectBuckling(t *testing.T) {
	p := resolve(t, heavyInput())
	start := Section{Base: 0.012000083923339844, Height: 0.07988058434539361}

	got, err := CorrectBuckling(p, start)
	require.NoError(t, err)
	assert.InEpsilon(t, 0.01397918574985977, got.Base, 1e-9)
	assert.InDelta(t, 0.07401037733330962, got.Height, 1e-6)
	assert.LessOrEqual(t, got.Height, start.Height)
	assert.InEpsilon(t, p.MaxStress, stressAt(t, p, got), 1e-4)
}

func TestCorrectBucklingStressFallsWithHeight(t *testing.T) {
	p := resolve(t, heavyInput())
	base := 0.014
	prev := math.Inf(1)
	for h := 0.005; h < 0.1; h += 0.005 {
		s := stressAt(t, p, Section{Base: base, Height: h})
		assert.Less(t, s, prev)
		prev = s
	}
}

func TestCorrectBucklingZeroHeight(t *testing.T) {
	p := resolve(t, heavyInput())
	_, err := CorrectBuckling(p, Section{Base: 0.012, Height: 0})
	assert.Error(t, err)
}
