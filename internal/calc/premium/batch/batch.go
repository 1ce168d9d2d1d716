// Package batch evaluates many independent parameter sets in parallel.
package batch

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"Cantilever/internal/calc/cantilever"
)

// MaxItems bounds one request.
const MaxItems = 10000

var ErrEmpty = errors.New("no items")

type Input struct {
	Items   []cantilever.Input `json:"items"`
	Workers int                `json:"workers,omitempty"`
}

// Item is the outcome for Items[Index]. Exactly one of Result and Error is set.
type Item struct {
	Index  int                `json:"index"`
	Input  cantilever.Input   `json:"input"`
	Result *cantilever.Result `json:"result,omitempty"`
	Error  string             `json:"error,omitempty"`
}

type Report struct {
	RunID   string `json:"run_id"`
	Count   int    `json:"count"`
	Failed  int    `json:"failed"`
	Results []Item `json:"results"`
}

// Run calculates every item, preserving input order. A failing item is
// recorded in its slot and does not stop the others; only cancellation of
// ctx aborts the run.
func Run(ctx context.Context, in Input) (Report, error) {
	if len(in.Items) == 0 {
		return Report{}, ErrEmpty
	}
	if len(in.Items) > MaxItems {
		return Report{}, fmt.Errorf("too many items: %d > %d", len(in.Items), MaxItems)
	}
	workers := in.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	out := make([]Item, len(in.Items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, item := range in.Items {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = Item{Index: i, Input: item}
			res, err := cantilever.Calculate(item)
			if err != nil {
				out[i].Error = err.Error()
				return nil
			}
			out[i].Result = &res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Report{}, err
	}
	if err := ctx.Err(); err != nil {
		return Report{}, err
	}

	rep := Report{RunID: uuid.NewString(), Count: len(out), Results: out}
	for _, it := range out {
		if it.Error != "" {
			rep.Failed++
		}
	}
	return rep, nil
}
