package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"cap-customizer/preset"
)

func (h *handler) getState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.caps.Get())
}

func (h *handler) getAll(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.caps.All())
}

func (h *handler) getSelected(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.caps.Selected())
}

func (h *handler) addCap(w http.ResponseWriter, r *http.Request) {
	var c preset.Cap
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if _, err := h.caps.Add(r.Context(), c); err != nil {
		h.writeCapError(w, "add", err)
		return
	}
	writeJSON(w, http.StatusCreated, h.caps.Get())
}

func (h *handler) updateCap(w http.ResponseWriter, r *http.Request) {
	var c preset.Cap
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	// The path names the cap; a body id is ignored.
	c.ID = chi.URLParam(r, "id")
	if _, err := h.caps.Update(r.Context(), c); err != nil {
		h.writeCapError(w, "update", err)
		return
	}
	writeJSON(w, http.StatusOK, h.caps.Get())
}

func (h *handler) removeCap(w http.ResponseWriter, r *http.Request) {
	if err := h.caps.Remove(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeCapError(w, "remove", err)
		return
	}
	writeJSON(w, http.StatusOK, h.caps.Get())
}

func (h *handler) selectCap(w http.ResponseWriter, r *http.Request) {
	if err := h.caps.Select(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeCapError(w, "select", err)
		return
	}
	writeJSON(w, http.StatusOK, h.caps.Get())
}

func (h *handler) getPlaylists(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, preset.Playlists())
}

func (h *handler) writeCapError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, preset.ErrInvalidCap):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, preset.ErrNotFound):
		http.Error(w, "cap not found", http.StatusNotFound)
	case errors.Is(err, preset.ErrLastCap):
		http.Error(w, "cannot delete the last cap", http.StatusConflict)
	default:
		h.logger.Error("cap operation failed", zap.String("op", op), zap.Error(err))
		http.Error(w, "failed to "+op+" cap", http.StatusInternalServerError)
	}
}
