package dashboard

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/auth"
	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/users"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) ProviderDashboard(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "User not authenticated")
		return
	}

	d, err := h.service.Provider(r.Context(), principal.LocalUserID)
	if err != nil {
		serviceError(w, err, "fetch_failed")
		return
	}
	respondJSON(w, http.StatusOK, d)
}

func (h *Handler) MotherDashboard(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "User not authenticated")
		return
	}

	d, err := h.service.Mother(r.Context(), principal.LocalUserID)
	if err != nil {
		serviceError(w, err, "fetch_failed")
		return
	}
	respondJSON(w, http.StatusOK, d)
}

func (h *Handler) AdminDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.service.Admin(r.Context())
	if err != nil {
		serviceError(w, err, "fetch_failed")
		return
	}
	respondJSON(w, http.StatusOK, d)
}

func serviceError(w http.ResponseWriter, err error, fallback string) {
	if errors.Is(err, users.ErrUserNotFound) {
		respondError(w, http.StatusNotFound, "not_found", "User not found")
		return
	}
	log.Error().Err(err).Str("error_type", fallback).Msg("dashboard request failed")
	respondError(w, http.StatusInternalServerError, fallback, "Internal server error")
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
