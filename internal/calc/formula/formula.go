// Package formula holds the closed-form relations used to size a rectangular
// cantilever: point-load deflection, Euler buckling and outer-fibre bending
// stress. All lengths are metres, forces newtons, modulus and stress pascals.
//
// Every function validates its arguments and returns a *DomainError instead
// of NaN, Inf or the result of a root of a negative number.
package formula

import "math"

// SecondMoment returns b*h^3/12 for a rectangular section.
func SecondMoment(b, h float64) (float64, error) {
	if err := positive("second moment", "base", b); err != nil {
		return 0, err
	}
	if err := positive("second moment", "height", h); err != nil {
		return 0, err
	}
	return b * h * h * h / 12.0, nil
}

// RequiredHeight inverts d = P a^2 (3L - a) / (6 E I) for the section height
// that deflects exactly d under a point load P applied at offset a.
func RequiredHeight(d, P, L, a, E, b float64) (float64, error) {
	const name = "required height"
	if err := finite(name, arg{"deflection", d}, arg{"force", P}, arg{"length", L}, arg{"offset", a}, arg{"modulus", E}, arg{"base", b}); err != nil {
		return 0, err
	}
	if err := nonZero(name, "deflection", d); err != nil {
		return 0, err
	}
	if err := nonZero(name, "modulus", E); err != nil {
		return 0, err
	}
	if err := nonZero(name, "base", b); err != nil {
		return 0, err
	}

	I := (P * a * a * (3*L - a)) / (6 * E * d)
	radicand := 12 * I / b
	if radicand < 0 {
		return 0, domainErr(name, "12*I/base", radicand, "negative cube root argument")
	}
	return math.Cbrt(radicand), nil
}

// BucklingCriticalLength is the Euler length at which a member of section
// b x h with end-condition factor K buckles under axial load P.
func BucklingCriticalLength(P, E, K, b, h float64) (float64, error) {
	const name = "buckling length"
	if err := finite(name, arg{"force", P}, arg{"modulus", E}, arg{"k factor", K}, arg{"base", b}, arg{"height", h}); err != nil {
		return 0, err
	}
	if err := nonZero(name, "k factor*force", K*P); err != nil {
		return 0, err
	}
	radicand := 3 * E * b * h * P
	if radicand < 0 {
		return 0, domainErr(name, "3*E*b*h*P", radicand, "negative square root argument")
	}
	return (math.Pi * h) / (6 * K * P) * math.Sqrt(radicand), nil
}

// FatigueStress is the bending stress y*M/I at distance y from the neutral
// axis, with M = P*L and I = b*h^3/12.
func FatigueStress(y, P, L, b, h float64) (float64, error) {
	const name = "fatigue stress"
	if err := finite(name, arg{"fibre distance", y}, arg{"force", P}, arg{"length", L}, arg{"base", b}, arg{"height", h}); err != nil {
		return 0, err
	}
	I := b * h * h * h / 12.0
	if err := nonZero(name, "second moment", I); err != nil {
		return 0, err
	}
	return (y * P * L) / I, nil
}

// Deflection is the displacement at the load point for a point load P at
// offset a on a cantilever of length L.
func Deflection(P, L, a, E, b, h float64) (float64, error) {
	const name = "deflection"
	if err := finite(name, arg{"force", P}, arg{"length", L}, arg{"offset", a}, arg{"modulus", E}); err != nil {
		return 0, err
	}
	I, err := SecondMoment(b, h)
	if err != nil {
		return 0, err
	}
	if err := nonZero(name, "modulus", E); err != nil {
		return 0, err
	}
	return (P * a * a * (3*L - a)) / (6 * E * I), nil
}

// StressLimitedHeight solves 6*S*L/(b*h^2) = maxStress for h.
func StressLimitedHeight(S, L, b, maxStress float64) (float64, error) {
	const name = "stress limited height"
	if err := finite(name, arg{"force", S}, arg{"length", L}, arg{"base", b}, arg{"max stress", maxStress}); err != nil {
		return 0, err
	}
	if err := nonZero(name, "base*max stress", b*maxStress); err != nil {
		return 0, err
	}
	radicand := 6 * L * S * b * maxStress
	if radicand < 0 {
		return 0, domainErr(name, "6*L*S*b*max stress", radicand, "negative square root argument")
	}
	return math.Sqrt(radicand) / (b * maxStress), nil
}

// StressLimitedBase solves 6*S*L/(b*h^2) = maxStress for b.
func StressLimitedBase(S, L, h, maxStress float64) (float64, error) {
	const name = "stress limited base"
	if err := finite(name, arg{"force", S}, arg{"length", L}, arg{"height", h}, arg{"max stress", maxStress}); err != nil {
		return 0, err
	}
	if err := nonZero(name, "max stress*height^2", maxStress*h*h); err != nil {
		return 0, err
	}
	return (6 * L * S) / (maxStress * h * h), nil
}

// BucklingConsistentBase is the section dimension for which the Euler load
// of a member of effective length K*h equals P.
func BucklingConsistentBase(P, K, h, L, E float64) (float64, error) {
	const name = "buckling consistent base"
	if err := finite(name, arg{"force", P}, arg{"k factor", K}, arg{"height", h}, arg{"length", L}, arg{"modulus", E}); err != nil {
		return 0, err
	}
	if err := nonZero(name, "length*modulus", L*E); err != nil {
		return 0, err
	}
	radicand := (12 * P * (K * h) * (K * h)) / (L * math.Pi * math.Pi * E)
	if radicand < 0 {
		return 0, domainErr(name, "12*P*(K*h)^2/(L*pi^2*E)", radicand, "negative cube root argument")
	}
	return math.Cbrt(radicand), nil
}
