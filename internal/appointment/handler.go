package appointment

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/auth"
	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/pagination"
	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/validation"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service ServiceInterface
}

func NewHandler(service ServiceInterface) *Handler {
	return &Handler{service: service}
}

func (h *Handler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "User not authenticated")
		return
	}

	var req CreateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON payload: "+err.Error())
		return
	}

	appointment, err := h.service.CreateAppointment(r.Context(), req, principal)
	if err != nil {
		serviceError(w, err, "creation_failed")
		return
	}
	respondJSON(w, http.StatusCreated, appointment)
}

func (h *Handler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	response, err := h.service.ListAppointments(r.Context(), pagination.ParseParams(r))
	if err != nil {
		serviceError(w, err, "fetch_failed")
		return
	}
	respondJSON(w, http.StatusOK, response)
}

func (h *Handler) RecentAppointments(w http.ResponseWriter, r *http.Request) {
	appointments, err := h.service.RecentAppointments(r.Context())
	if err != nil {
		serviceError(w, err, "fetch_failed")
		return
	}
	respondJSON(w, http.StatusOK, appointments)
}

func (h *Handler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	id, ok := appointmentID(w, r)
	if !ok {
		return
	}
	appointment, err := h.service.GetAppointment(r.Context(), id)
	if err != nil {
		serviceError(w, err, "fetch_failed")
		return
	}
	respondJSON(w, http.StatusOK, appointment)
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "User not authenticated")
		return
	}
	id, ok := appointmentID(w, r)
	if !ok {
		return
	}

	var req StatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON payload: "+err.Error())
		return
	}

	appointment, err := h.service.UpdateStatus(r.Context(), id, req.Status, principal)
	if err != nil {
		serviceError(w, err, "update_failed")
		return
	}
	respondJSON(w, http.StatusOK, appointment)
}

// GetMotherAppointments is the calling mother's upcoming and past appointments.
func (h *Handler) GetMotherAppointments(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "User not authenticated")
		return
	}

	classified, err := h.service.MotherAppointments(r.Context(), principal.LocalUserID)
	if err != nil {
		serviceError(w, err, "fetch_failed")
		return
	}
	respondJSON(w, http.StatusOK, classified)
}

func (h *Handler) GetProviderFeed(w http.ResponseWriter, r *http.Request) {
	feed, err := h.service.ProviderFeed(r.Context(), pagination.ParseParamsWithLimit(r, FeedPageSize))
	if err != nil {
		serviceError(w, err, "fetch_failed")
		return
	}
	respondJSON(w, http.StatusOK, feed)
}

func (h *Handler) PatchProviderAppointment(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "User not authenticated")
		return
	}

	var req PatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON payload: "+err.Error())
		return
	}

	if err := h.service.PatchStatus(r.Context(), req.ID, req.Source, req.Status, principal); err != nil {
		serviceError(w, err, "update_failed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Status updated",
	})
}

func appointmentID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_id", "Invalid appointment ID")
		return 0, false
	}
	return id, true
}

func serviceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, validation.ErrInvalid),
		errors.Is(err, ErrInvalidArgument):
		respondError(w, http.StatusBadRequest, "validation_error", err.Error())
	case errors.Is(err, ErrNotFound):
		respondError(w, http.StatusNotFound, "not_found", err.Error())
	default:
		log.Error().Err(err).Str("error_type", fallback).Msg("appointment request failed")
		respondError(w, http.StatusInternalServerError, fallback, "Internal server error")
	}
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
