package formula

import (
	"errors"
	"fmt"
	"math"
)

// ErrDomain is matched by every *DomainError.
var ErrDomain = errors.New("numeric domain error")

// DomainError reports which formula rejected which argument.
type DomainError struct {
	Formula  string
	Argument string
	Value    float64
	Reason   string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: %s: %s = %g (%s)", ErrDomain, e.Formula, e.Argument, e.Value, e.Reason)
}

func (e *DomainError) Unwrap() error { return ErrDomain }

type arg struct {
	name  string
	value float64
}

func domainErr(formula, argument string, v float64, reason string) error {
	return &DomainError{Formula: formula, Argument: argument, Value: v, Reason: reason}
}

func finite(formula string, args ...arg) error {
	for _, a := range args {
		if math.IsNaN(a.value) || math.IsInf(a.value, 0) {
			return domainErr(formula, a.name, a.value, "not a finite number")
		}
	}
	return nil
}

func nonZero(formula, argument string, v float64) error {
	if v == 0 {
		return domainErr(formula, argument, v, "division by zero")
	}
	return nil
}

func positive(formula, argument string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return domainErr(formula, argument, v, "must be positive")
	}
	return nil
}
