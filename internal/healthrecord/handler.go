package healthrecord

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/auth"
	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/mothers"
	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/validation"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) GetRecord(w http.ResponseWriter, r *http.Request) {
	rec, err := h.service.GetRecord(r.Context(), mux.Vars(r)["customID"])
	if err != nil {
		serviceError(w, err, "fetch_failed")
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

func (h *Handler) ReplaceRecord(w http.ResponseWriter, r *http.Request) {
	h.writeRecord(w, r, h.service.ReplaceRecord)
}

func (h *Handler) PatchRecord(w http.ResponseWriter, r *http.Request) {
	h.writeRecord(w, r, h.service.PatchRecord)
}

type recordWriter func(ctx context.Context, customID string, f Fields, principal *auth.Principal) (*HealthRecord, error)

func (h *Handler) writeRecord(w http.ResponseWriter, r *http.Request, write recordWriter) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "User not authenticated")
		return
	}

	var f Fields
	if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON payload: "+err.Error())
		return
	}

	rec, err := write(r.Context(), mux.Vars(r)["customID"], f, principal)
	if err != nil {
		serviceError(w, err, "update_failed")
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

func (h *Handler) GetOwnRecord(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "User not authenticated")
		return
	}

	own, err := h.service.OwnRecord(r.Context(), principal.LocalUserID)
	if err != nil {
		serviceError(w, err, "fetch_failed")
		return
	}
	respondJSON(w, http.StatusOK, own)
}

func (h *Handler) ListPregnancies(w http.ResponseWriter, r *http.Request) {
	pregnancies, err := h.service.ListPregnancies(r.Context(), mux.Vars(r)["customID"])
	if err != nil {
		serviceError(w, err, "fetch_failed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"previous_pregnancies": pregnancies,
		"total":                len(pregnancies),
	})
}

func (h *Handler) CreatePregnancy(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "User not authenticated")
		return
	}

	var f PregnancyFields
	if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON payload: "+err.Error())
		return
	}

	p, err := h.service.CreatePregnancy(r.Context(), mux.Vars(r)["customID"], f, principal)
	if err != nil {
		serviceError(w, err, "creation_failed")
		return
	}
	respondJSON(w, http.StatusCreated, p)
}

func (h *Handler) GetPregnancy(w http.ResponseWriter, r *http.Request) {
	id, ok := pregnancyID(w, r)
	if !ok {
		return
	}
	p, err := h.service.GetPregnancy(r.Context(), mux.Vars(r)["customID"], id)
	if err != nil {
		serviceError(w, err, "fetch_failed")
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (h *Handler) UpdatePregnancy(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "User not authenticated")
		return
	}
	id, ok := pregnancyID(w, r)
	if !ok {
		return
	}

	var f PregnancyFields
	if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON payload: "+err.Error())
		return
	}

	p, err := h.service.UpdatePregnancy(r.Context(), mux.Vars(r)["customID"], id, f, principal)
	if err != nil {
		serviceError(w, err, "update_failed")
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (h *Handler) DeletePregnancy(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "User not authenticated")
		return
	}
	id, ok := pregnancyID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeletePregnancy(r.Context(), mux.Vars(r)["customID"], id, principal); err != nil {
		serviceError(w, err, "delete_failed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": "Previous pregnancy deleted"})
}

func pregnancyID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_id", "Invalid pregnancy ID")
		return 0, false
	}
	return id, true
}

func serviceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, validation.ErrInvalid),
		errors.Is(err, mothers.ErrInvalidCustomID),
		errors.Is(err, ErrNoFieldsToUpdate):
		respondError(w, http.StatusBadRequest, "validation_error", err.Error())
	case errors.Is(err, mothers.ErrMotherNotFound),
		errors.Is(err, ErrRecordNotFound),
		errors.Is(err, ErrPregnancyNotFound):
		respondError(w, http.StatusNotFound, "not_found", err.Error())
	default:
		log.Error().Err(err).Str("error_type", fallback).Msg("health record request failed")
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
