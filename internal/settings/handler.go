package settings

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/validation"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	s, err := h.service.Get(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to get settings")
		respondError(w, http.StatusInternalServerError, "fetch_failed", "Internal server error")
		return
	}
	respondJSON(w, http.StatusOK, s)
}

func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON payload: "+err.Error())
		return
	}

	s, err := h.service.Update(r.Context(), req)
	if err != nil {
		if errors.Is(err, validation.ErrInvalid) {
			respondError(w, http.StatusBadRequest, "validation_error", err.Error())
			return
		}
		log.Error().Err(err).Msg("failed to update settings")
		respondError(w, http.StatusInternalServerError, "update_failed", "Internal server error")
		return
	}
	respondJSON(w, http.StatusOK, s)
}

func respondJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}

func respondError(w http.ResponseWriter, statusCode int, errorType, message string) {
	respondJSON(w, statusCode, map[string]interface{}{
		"error":   errorType,
		"message": message,
	})
}
