// Package history lets signed-in users keep the designs they calculate.
package history

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"

	"Cantilever/internal/auth"
	"Cantilever/internal/calc/cantilever"
	"Cantilever/internal/repo"
)

const maxNameLen = 200

type Handler struct {
	Repo   repo.Repository
	Logger *log.Logger
}

type SaveRequest struct {
	Name  string           `json:"name"`
	Input cantilever.Input `json:"input"`
}

func (h *Handler) logger() *log.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return log.Default()
}

// Save calculates the posted design and stores input and result together.
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req SaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || len(req.Name) > maxNameLen {
		http.Error(w, "Name required", http.StatusBadRequest)
		return
	}

	res, err := cantilever.Calculate(req.Input)
	if err != nil {
		http.Error(w, err.Error(), cantilever.StatusFor(err))
		return
	}

	d := repo.Design{UserID: userID, Name: req.Name, Input: req.Input, Result: res}
	d.ID, err = h.Repo.SaveDesign(r.Context(), d)
	if err != nil {
		h.logger().Error("save design", "user_id", userID, "err", err)
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}
	h.logger().Info("design saved", "user_id", userID, "design_id", d.ID, "ok", res.OK())

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(d)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	designs, err := h.Repo.ListDesigns(r.Context(), userID)
	if err != nil {
		h.logger().Error("list designs", "user_id", userID, "err", err)
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}
	if designs == nil {
		designs = []repo.Design{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(designs)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid id", http.StatusBadRequest)
		return
	}
	d, err := h.Repo.GetDesign(r.Context(), userID, id)
	if errors.Is(err, repo.ErrNotFound) {
		http.Error(w, "Design not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger().Error("get design", "user_id", userID, "design_id", id, "err", err)
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(d)
}
