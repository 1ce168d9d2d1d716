package cantilever

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput = errors.New("invalid input")

	// ErrInfeasible means no base in the search bracket keeps the deflection
	// height below both the buckling length and the height ceiling.
	ErrInfeasible = errors.New("no feasible solution in bracket")

	// ErrJointInfeasible is only returned in strict mode, when the corrected
	// geometry still violates one of the constraints.
	ErrJointInfeasible = errors.New("constraints not jointly satisfied")
)

func invalid(field string, v float64) error {
	return fmt.Errorf("%w: %s = %g", ErrInvalidInput, field, v)
}

// ConstraintError names the clause a final geometry violates.
type ConstraintError struct {
	Constraint string
	Value      float64
	Limit      float64
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("%s: %s %g exceeds limit %g", ErrJointInfeasible, e.Constraint, e.Value, e.Limit)
}

func (e *ConstraintError) Unwrap() error { return ErrJointInfeasible }
