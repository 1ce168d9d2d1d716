package batch

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Cantilever/internal/calc/cantilever"
)

func items() []cantilever.Input {
	ref := cantilever.ReferenceInput()
	tight := ref
	tight.MaxStress = 1e8
	infeasible := ref
	infeasible.MaxHeight = 0.001
	return []cantilever.Input{ref, tight, infeasible, ref}
}

func TestRun(t *testing.T) {
	rep, err := Run(context.Background(), Input{Items: items(), Workers: 2})
	require.NoError(t, err)

	_, err = uuid.Parse(rep.RunID)
	assert.NoError(t, err)
	assert.Equal(t, 4, rep.Count)
	assert.Equal(t, 1, rep.Failed)
	require.Len(t, rep.Results, 4)

	for i, it := range rep.Results {
		assert.Equal(t, i, it.Index)
	}
	require.NotNil(t, rep.Results[0].Result)
	assert.False(t, rep.Results[0].Result.StressCorrected)
	require.NotNil(t, rep.Results[1].Result)
	assert.True(t, rep.Results[1].Result.StressCorrected)
	assert.Nil(t, rep.Results[2].Result)
	assert.Contains(t, rep.Results[2].Error, "no feasible solution")

	// independent solves agree with a sequential one
	want, err := cantilever.Calculate(cantilever.ReferenceInput())
	require.NoError(t, err)
	if diff := cmp.Diff(want, *rep.Results[3].Result); diff != "" {
		t.Errorf("parallel result differs (-want +got):\n%s", diff)
	}
}

func TestRunEmpty(t *testing.T) {
	_, err := Run(context.Background(), Input{})
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, Input{Items: items()})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHandlerCalc(t *testing.T) {
	body, err := json.Marshal(Input{Items: items()[:2]})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	(&Handler{}).Calc(rec, httptest.NewRequest(http.MethodPost, "/api/tools/cantilever/batch", bytes.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)

	var rep Report
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&rep))
	assert.Equal(t, 2, rep.Count)
	assert.Zero(t, rep.Failed)
}
