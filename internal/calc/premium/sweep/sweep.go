// Package sweep varies a single input field over a range and sizes the
// cantilever at every point.
package sweep

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"Cantilever/internal/calc/cantilever"
	"Cantilever/internal/calc/premium/batch"
)

var ErrUnknownField = errors.New("unknown sweep field")

var setters = map[string]func(*cantilever.Input, float64){
	"max_height":        func(in *cantilever.Input, v float64) { in.MaxHeight = v },
	"max_stress":        func(in *cantilever.Input, v float64) { in.MaxStress = v },
	"cantilever_length": func(in *cantilever.Input, v float64) { in.CantileverLength = v },
	"total_force":       func(in *cantilever.Input, v float64) { in.TotalForce = v },
	"youngs_modulus":    func(in *cantilever.Input, v float64) { in.YoungsModulus = v },
	"buckling_k_factor": func(in *cantilever.Input, v float64) { in.BucklingKFactor = v },
	"arm_count":         func(in *cantilever.Input, v float64) { in.ArmCount = int(math.Round(v)) },
}

// Fields lists the names accepted as Input.Field.
func Fields() []string {
	out := make([]string, 0, len(setters))
	for k := range setters {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

type Input struct {
	Base    cantilever.Input `json:"base"`
	Field   string           `json:"field"`
	From    float64          `json:"from"`
	To      float64          `json:"to"`
	Steps   int              `json:"steps"`
	Workers int              `json:"workers,omitempty"`
}

type Point struct {
	Value float64 `json:"value"`
	batch.Item
}

type Result struct {
	RunID  string  `json:"run_id"`
	Field  string  `json:"field"`
	Failed int     `json:"failed"`
	Points []Point `json:"points"`
}

// Values returns steps evenly spaced values from from to to inclusive.
func Values(from, to float64, steps int) []float64 {
	if steps == 1 {
		return []float64{from}
	}
	out := make([]float64, steps)
	for i := range out {
		out[i] = from + (to-from)*float64(i)/float64(steps-1)
	}
	out[steps-1] = to
	return out
}

func Run(ctx context.Context, in Input) (Result, error) {
	set, ok := setters[in.Field]
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownField, in.Field)
	}
	if in.Steps <= 0 || in.Steps > batch.MaxItems {
		return Result{}, fmt.Errorf("steps must be in [1, %d], got %d", batch.MaxItems, in.Steps)
	}
	if math.IsNaN(in.From) || math.IsNaN(in.To) || math.IsInf(in.From, 0) || math.IsInf(in.To, 0) {
		return Result{}, fmt.Errorf("sweep range must be finite")
	}

	values := Values(in.From, in.To, in.Steps)
	items := make([]cantilever.Input, len(values))
	for i, v := range values {
		items[i] = in.Base
		set(&items[i], v)
	}

	rep, err := batch.Run(ctx, batch.Input{Items: items, Workers: in.Workers})
	if err != nil {
		return Result{}, err
	}
	res := Result{RunID: rep.RunID, Field: in.Field, Failed: rep.Failed, Points: make([]Point, len(values))}
	for i, it := range rep.Results {
		res.Points[i] = Point{Value: values[i], Item: it}
	}
	return res, nil
}
