package importer

import (
	"bytes"
	"encoding/json"
	"net/http"

	"Cantilever/internal/calc/premium/batch"
)

type Handler struct{}

type Response struct {
	RowErrors []RowError `json:"row_errors,omitempty"`
	batch.Report
}

// Calc sizes every row of the uploaded sheet. With ?format=xlsx the results
// come back as a workbook instead of JSON.
func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "File required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	inputs, rowErrs, err := ParseSheet(file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if len(inputs) == 0 {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(Response{RowErrors: rowErrs})
		return
	}

	rep, err := batch.Run(r.Context(), batch.Input{Items: inputs})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if r.URL.Query().Get("format") == "xlsx" {
		var buf bytes.Buffer
		if err := WriteResults(&buf, rep); err != nil {
			http.Error(w, "Export error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", "attachment; filename=\"results.xlsx\"")
		w.Write(buf.Bytes())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(Response{RowErrors: rowErrs, Report: rep})
}
