package report

import (
	"bytes"
	"encoding/json"
	"net/http"

	"Cantilever/internal/calc/cantilever"
)

type Input struct {
	Meta
	Design cantilever.Input `json:"design"`
}

type Handler struct{}

func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	res, err := cantilever.Calculate(input.Design)
	if err != nil {
		http.Error(w, err.Error(), cantilever.StatusFor(err))
		return
	}

	// render fully before writing headers so a failure can still be a 500
	var buf bytes.Buffer
	if err := Write(&buf, input.Meta, input.Design, res); err != nil {
		http.Error(w, "Report generation error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=\"report.pdf\"")
	w.Write(buf.Bytes())
}
