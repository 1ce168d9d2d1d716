package importer

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"Cantilever/internal/calc/cantilever"
	"Cantilever/internal/calc/premium/batch"
)

var header = []interface{}{
	"total_force", "arm_count", "stress_force_total", "youngs_modulus",
	"buckling_k_factor", "cantilever_length", "max_height", "max_stress",
}

var referenceRow = []interface{}{4300, 12, 2900, 7.1e10, 0.5, 0.01, 0.01, 5.25e8}

func workbook(t *testing.T, rows ...[]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestParseSheet(t *testing.T) {
	bad := []interface{}{4300, 12.5, 2900, 7.1e10, 0.5, 0.01, 0.01, 5.25e8}
	missing := []interface{}{4300, 12, 2900, 7.1e10, 0.5, 0.01, "", 5.25e8}
	text := []interface{}{4300, 12, 2900, "stiff", 0.5, 0.01, 0.01, 5.25e8}

	inputs, rowErrs, err := ParseSheet(workbook(t, header, referenceRow, bad, missing, text, referenceRow))
	require.NoError(t, err)

	require.Len(t, inputs, 2)
	want := cantilever.ReferenceInput()
	want.AllowableDeflectionRatio = 0
	assert.Equal(t, want, inputs[0])

	require.Len(t, rowErrs, 3)
	assert.Equal(t, RowError{Row: 3, Column: "arm_count", Err: "not a whole number: 12.5"}, rowErrs[0])
	assert.Equal(t, 4, rowErrs[1].Row)
	assert.Equal(t, "max_height", rowErrs[1].Column)
	assert.Equal(t, 5, rowErrs[2].Row)
	assert.Equal(t, "youngs_modulus", rowErrs[2].Column)
}

func TestParseSheetOptionalColumns(t *testing.T) {
	hdr := append([]interface{}{"allowable_deflection_ratio"}, header...)
	row := append([]interface{}{0.004}, referenceRow...)

	inputs, rowErrs, err := ParseSheet(workbook(t, hdr, row))
	require.NoError(t, err)
	assert.Empty(t, rowErrs)
	require.Len(t, inputs, 1)
	assert.Equal(t, 0.004, inputs[0].AllowableDeflectionRatio)
	assert.Equal(t, 12, inputs[0].ArmCount)
}

func TestParseSheetErrors(t *testing.T) {
	_, _, err := ParseSheet(workbook(t, header))
	assert.ErrorIs(t, err, ErrNoData)

	_, _, err = ParseSheet(workbook(t, header[:7], referenceRow[:7]))
	assert.ErrorIs(t, err, ErrMissingColumn)

	_, _, err = ParseSheet(bytes.NewReader([]byte("not a workbook")))
	assert.Error(t, err)
}

func TestWriteResults(t *testing.T) {
	bad := cantilever.ReferenceInput()
	bad.MaxHeight = 0.001
	rep, err := batch.Run(context.Background(), batch.Input{Items: []cantilever.Input{cantilever.ReferenceInput(), bad}})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteResults(&buf, rep))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(resultSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "base_mm", rows[0][5])
	assert.Equal(t, "12", rows[1][5])
	assert.Equal(t, "TRUE", rows[1][12])
	assert.Contains(t, rows[2][14], "no feasible solution")
}

func upload(t *testing.T, body *bytes.Buffer, query string) *httptest.ResponseRecorder {
	t.Helper()
	var form bytes.Buffer
	mw := multipart.NewWriter(&form)
	part, err := mw.CreateFormFile("file", "designs.xlsx")
	require.NoError(t, err)
	_, err = part.Write(body.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/tools/cantilever/import"+query, &form)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	(&Handler{}).Calc(rec, req)
	return rec
}

func TestHandlerCalc(t *testing.T) {
	rec := upload(t, workbook(t, header, referenceRow, referenceRow), "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 2, resp.Count)
	assert.Empty(t, resp.RowErrors)
}

func TestHandlerCalcXLSX(t *testing.T) {
	rec := upload(t, workbook(t, header, referenceRow), "?format=xlsx")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "spreadsheetml")
}

func TestHandlerCalcNoFile(t *testing.T) {
	rec := httptest.NewRecorder()
	(&Handler{}).Calc(rec, httptest.NewRequest(http.MethodPost, "/api/tools/cantilever/import", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
