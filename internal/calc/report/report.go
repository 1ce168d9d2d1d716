// Package report renders a cantilever design as a one-page PDF.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/phpdave11/gofpdf"

	"Cantilever/internal/calc/cantilever"
)

type Meta struct {
	Project string    `json:"project"`
	Author  string    `json:"author"`
	Title   string    `json:"title"`
	Notes   string    `json:"notes"`
	Date    time.Time `json:"-"`
}

type row struct {
	label, value, limit, status string
}

// Write renders the parameters and the sized section to w.
func Write(w io.Writer, meta Meta, in cantilever.Input, res cantilever.Result) error {
	if meta.Title == "" {
		meta.Title = "Cantilever Sizing Report"
	}
	if meta.Date.IsZero() {
		meta.Date = time.Now()
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, meta.Title)
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Project: %s", meta.Project))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Author: %s", meta.Author))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Date: %s", meta.Date.Format("2006-01-02")))
	pdf.Ln(10)

	section(pdf, "Parameters")
	params := [][2]string{
		{"Total force", fmt.Sprintf("%g N", in.TotalForce)},
		{"Arms", fmt.Sprintf("%d", in.ArmCount)},
		{"Fatigue force", fmt.Sprintf("%g N", in.StressForceTotal)},
		{"Young's modulus", fmt.Sprintf("%g Pa", in.YoungsModulus)},
		{"K factor", fmt.Sprintf("%g", in.BucklingKFactor)},
		{"Cantilever length", fmt.Sprintf("%g mm", in.CantileverLength*1000)},
		{"Max height", fmt.Sprintf("%g mm", in.MaxHeight*1000)},
		{"Max stress", fmt.Sprintf("%g Pa", in.MaxStress)},
	}
	for _, p := range params {
		pdf.CellFormat(60, 6, p[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, p[1], "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	section(pdf, "Section")
	pdf.MultiCell(0, 6, res.Summary(), "", "L", false)
	pdf.Ln(2)

	section(pdf, "Checks")
	pdf.SetFont("Helvetica", "B", 10)
	for i, h := range []string{"Check", "Value", "Limit", "Status"} {
		pdf.CellFormat(colWidth(i), 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Helvetica", "", 10)
	for _, r := range checks(res) {
		pdf.CellFormat(colWidth(0), 6, r.label, "1", 0, "L", false, 0, "")
		pdf.CellFormat(colWidth(1), 6, r.value, "1", 0, "R", false, 0, "")
		pdf.CellFormat(colWidth(2), 6, r.limit, "1", 0, "R", false, 0, "")
		pdf.CellFormat(colWidth(3), 6, r.status, "1", 1, "C", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, 6, res.Notes, "", "L", false)
	if meta.Notes != "" {
		pdf.Ln(2)
		pdf.MultiCell(0, 6, meta.Notes, "", "L", false)
	}

	return pdf.Output(w)
}

func section(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, title)
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
}

func colWidth(i int) float64 {
	return []float64{70, 40, 40, 30}[i]
}

func checks(res cantilever.Result) []row {
	return []row{
		{"Fatigue stress, Pa", fmt.Sprintf("%.4g", res.StressPa), fmt.Sprintf("%.4g", res.MaxStressPa), status(res.OKStress)},
		{"Height vs buckling length, mm", fmt.Sprintf("%.3f", res.HeightMM), fmt.Sprintf("%.3f", res.BucklingLengthMM), status(res.OKBuckling)},
		{"Height vs available space, mm", fmt.Sprintf("%.3f", res.HeightMM), fmt.Sprintf("%.3f", res.MaxHeightMM), status(res.OKHeight)},
		{"Deflection, mm", fmt.Sprintf("%.5f", res.DeflectionMM), fmt.Sprintf("%.5f", res.AllowableDeflectionMM), status(res.OKDeflection)},
	}
}

func status(ok bool) string {
	if ok {
		return "OK"
	}
	return "FAIL"
}
