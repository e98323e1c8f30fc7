package examination

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/auth"
	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/mothers"
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

func (h *Handler) CreateExamination(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "User not authenticated")
		return
	}

	var req CreateExaminationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON payload: "+err.Error())
		return
	}

	exam, err := h.service.CreateExamination(r.Context(), mux.Vars(r)["customID"], req, principal)
	if err != nil {
		serviceError(w, err, "creation_failed")
		return
	}
	respondJSON(w, http.StatusCreated, exam)
}

func (h *Handler) ListExaminations(w http.ResponseWriter, r *http.Request) {
	response, err := h.service.ListExaminations(r.Context(), mux.Vars(r)["customID"], pagination.ParseParams(r))
	if err != nil {
		serviceError(w, err, "fetch_failed")
		return
	}
	respondJSON(w, http.StatusOK, response)
}

func (h *Handler) ListOwnExaminations(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "User not authenticated")
		return
	}

	response, err := h.service.OwnExaminations(r.Context(), principal.LocalUserID, pagination.ParseParams(r))
	if err != nil {
		serviceError(w, err, "fetch_failed")
		return
	}
	respondJSON(w, http.StatusOK, response)
}

func (h *Handler) GetExamination(w http.ResponseWriter, r *http.Request) {
	id, ok := examinationID(w, r)
	if !ok {
		return
	}

	exam, err := h.service.GetExamination(r.Context(), mux.Vars(r)["customID"], id)
	if err != nil {
		serviceError(w, err, "fetch_failed")
		return
	}
	respondJSON(w, http.StatusOK, exam)
}

func (h *Handler) UpdateExamination(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "User not authenticated")
		return
	}
	id, ok := examinationID(w, r)
	if !ok {
		return
	}

	var req UpdateExaminationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON payload: "+err.Error())
		return
	}

	exam, err := h.service.UpdateExamination(r.Context(), mux.Vars(r)["customID"], id, req, principal)
	if err != nil {
		serviceError(w, err, "update_failed")
		return
	}
	respondJSON(w, http.StatusOK, exam)
}

func (h *Handler) DeleteExamination(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "User not authenticated")
		return
	}
	id, ok := examinationID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteExamination(r.Context(), mux.Vars(r)["customID"], id, principal); err != nil {
		serviceError(w, err, "delete_failed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Examination deleted successfully",
	})
}

func examinationID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_id", "Invalid examination ID")
		return 0, false
	}
	return id, true
}

func serviceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, validation.ErrInvalid),
		errors.Is(err, mothers.ErrInvalidCustomID),
		errors.Is(err, ErrInvalidStatus),
		errors.Is(err, ErrNoFieldsToUpdate):
		respondError(w, http.StatusBadRequest, "validation_error", err.Error())
	case errors.Is(err, mothers.ErrMotherNotFound),
		errors.Is(err, ErrExaminationNotFound):
		respondError(w, http.StatusNotFound, "not_found", err.Error())
	default:
		log.Error().Err(err).Str("error_type", fallback).Msg("examination request failed")
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
