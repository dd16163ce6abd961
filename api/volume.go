package api

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"cap-customizer/preset"
)

type volumeBody struct {
	Volume *float64 `json:"volume"`
}

func (h *handler) getVolume(w http.ResponseWriter, r *http.Request) {
	v := preset.LoadVolume(r.Context(), h.backend)
	writeJSON(w, http.StatusOK, map[string]float64{"volume": v})
}

func (h *handler) putVolume(w http.ResponseWriter, r *http.Request) {
	var body volumeBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Volume == nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	v, err := preset.SaveVolume(r.Context(), h.backend, *body.Volume)
	if err != nil {
		h.logger.Error("saving volume failed", zap.Error(err))
		http.Error(w, "failed to save volume", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]float64{"volume": v})
}
