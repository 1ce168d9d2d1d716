// Package importer reads parameter sets from an xlsx sheet and writes batch
// results back out as xlsx.
package importer

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"Cantilever/internal/calc/cantilever"
	"Cantilever/internal/calc/premium/batch"
)

var (
	ErrNoData        = errors.New("sheet has no data rows")
	ErrMissingColumn = errors.New("missing column")
)

type column struct {
	name     string
	required bool
	set      func(*cantilever.Input, float64) error
}

var columns = []column{
	{"total_force", true, func(in *cantilever.Input, v float64) error { in.TotalForce = v; return nil }},
	{"arm_count", true, func(in *cantilever.Input, v float64) error {
		if v != math.Trunc(v) {
			return fmt.Errorf("not a whole number: %v", v)
		}
		in.ArmCount = int(v)
		return nil
	}},
	{"stress_force_total", true, func(in *cantilever.Input, v float64) error { in.StressForceTotal = v; return nil }},
	{"youngs_modulus", true, func(in *cantilever.Input, v float64) error { in.YoungsModulus = v; return nil }},
	{"buckling_k_factor", true, func(in *cantilever.Input, v float64) error { in.BucklingKFactor = v; return nil }},
	{"cantilever_length", true, func(in *cantilever.Input, v float64) error { in.CantileverLength = v; return nil }},
	{"max_height", true, func(in *cantilever.Input, v float64) error { in.MaxHeight = v; return nil }},
	{"max_stress", true, func(in *cantilever.Input, v float64) error { in.MaxStress = v; return nil }},
	{"base_width_initial", false, func(in *cantilever.Input, v float64) error { in.BaseWidthInitial = v; return nil }},
	{"load_offset", false, func(in *cantilever.Input, v float64) error { in.LoadOffset = v; return nil }},
	{"allowable_deflection_ratio", false, func(in *cantilever.Input, v float64) error { in.AllowableDeflectionRatio = v; return nil }},
}

// RowError describes a data row that could not be turned into an Input.
// Row is the 1-based sheet row number.
type RowError struct {
	Row    int    `json:"row"`
	Column string `json:"column,omitempty"`
	Err    string `json:"error"`
}

// ParseSheet reads the first sheet of an xlsx workbook. The first row is a
// header naming the Input fields by their json names, in any order. Blank
// rows are skipped; rows with unparsable cells are reported and left out.
func ParseSheet(r io.Reader) ([]cantilever.Input, []RowError, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, nil, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) < 2 {
		return nil, nil, ErrNoData
	}

	index := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, c := range columns {
		if _, ok := index[c.name]; c.required && !ok {
			return nil, nil, fmt.Errorf("%w: %s", ErrMissingColumn, c.name)
		}
	}

	var inputs []cantilever.Input
	var rowErrs []RowError
	for n, row := range rows[1:] {
		if blank(row) {
			continue
		}
		in, rerr := parseRow(row, index)
		if rerr != nil {
			rerr.Row = n + 2
			rowErrs = append(rowErrs, *rerr)
			continue
		}
		inputs = append(inputs, in)
	}
	if len(inputs) == 0 && len(rowErrs) == 0 {
		return nil, nil, ErrNoData
	}
	return inputs, rowErrs, nil
}

func parseRow(row []string, index map[string]int) (cantilever.Input, *RowError) {
	var in cantilever.Input
	for _, c := range columns {
		i, ok := index[c.name]
		cell := ""
		if ok && i < len(row) {
			cell = strings.TrimSpace(row[i])
		}
		if cell == "" {
			if c.required {
				return cantilever.Input{}, &RowError{Column: c.name, Err: "empty cell"}
			}
			continue
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err == nil {
			err = c.set(&in, v)
		}
		if err != nil {
			return cantilever.Input{}, &RowError{Column: c.name, Err: err.Error()}
		}
	}
	return in, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

const resultSheet = "Results"

var resultHeader = []interface{}{
	"index", "total_force", "arm_count", "max_height", "max_stress",
	"base_mm", "height_mm", "stress_pa", "buckling_length_mm", "deflection_mm",
	"stress_corrected", "buckling_corrected", "ok", "notes", "error",
}

// WriteResults writes rep as a single-sheet workbook, one row per item.
func WriteResults(w io.Writer, rep batch.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), resultSheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(resultSheet, "A1", &resultHeader); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetRowStyle(resultSheet, 1, 1, bold); err != nil {
		return err
	}

	for i, it := range rep.Results {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{it.Index, it.Input.TotalForce, it.Input.ArmCount, it.Input.MaxHeight, it.Input.MaxStress}
		if res := it.Result; res != nil {
			row = append(row, res.BaseMM, res.HeightMM, res.StressPa, res.BucklingLengthMM, res.DeflectionMM,
				res.StressCorrected, res.BucklingCorrected, res.OK(), res.Notes, "")
		} else {
			row = append(row, "", "", "", "", "", "", "", false, "", it.Error)
		}
		if err := f.SetSheetRow(resultSheet, cell, &row); err != nil {
			return err
		}
	}
	return f.Write(w)
}
