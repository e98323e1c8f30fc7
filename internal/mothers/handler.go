package mothers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/auth"
	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/pagination"
	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/users"
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

type MotherSuccessResponse struct {
	Success bool    `json:"success"`
	Message string  `json:"message"`
	Mother  *Mother `json:"mother,omitempty"`
}

func (h *Handler) CreateMother(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "User not authenticated")
		return
	}

	var req CreateMotherRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON payload: "+err.Error())
		return
	}

	mother, err := h.service.CreateMother(r.Context(), req, principal)
	if err != nil {
		serviceError(w, err, "creation_failed")
		return
	}

	respondJSON(w, http.StatusCreated, MotherSuccessResponse{
		Success: true,
		Message: "Mother registered successfully",
		Mother:  mother,
	})
}

func (h *Handler) ListMothers(w http.ResponseWriter, r *http.Request) {
	params := pagination.ParseParams(r)

	from, err := parseDateParam(r, "from")
	if err != nil {
		respondError(w, http.StatusBadRequest, "validation_error", "from must be YYYY-MM-DD")
		return
	}
	to, err := parseDateParam(r, "to")
	if err != nil {
		respondError(w, http.StatusBadRequest, "validation_error", "to must be YYYY-MM-DD")
		return
	}

	response, err := h.service.ListMothers(r.Context(), params, from, to)
	if err != nil {
		serviceError(w, err, "fetch_failed")
		return
	}

	respondJSON(w, http.StatusOK, response)
}

func (h *Handler) GetMother(w http.ResponseWriter, r *http.Request) {
	mother, err := h.service.GetMother(r.Context(), mux.Vars(r)["customID"])
	if err != nil {
		serviceError(w, err, "fetch_failed")
		return
	}

	respondJSON(w, http.StatusOK, MotherSuccessResponse{Success: true, Message: "Mother retrieved successfully", Mother: mother})
}

func (h *Handler) UpdateMother(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "User not authenticated")
		return
	}

	var req UpdateMotherRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON payload: "+err.Error())
		return
	}

	mother, err := h.service.UpdateMother(r.Context(), mux.Vars(r)["customID"], req, principal)
	if err != nil {
		serviceError(w, err, "update_failed")
		return
	}

	respondJSON(w, http.StatusOK, MotherSuccessResponse{Success: true, Message: "Mother updated successfully", Mother: mother})
}

func (h *Handler) DeleteMother(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "User not authenticated")
		return
	}

	if err := h.service.DeleteMother(r.Context(), mux.Vars(r)["customID"], principal); err != nil {
		serviceError(w, err, "delete_failed")
		return
	}

	respondJSON(w, http.StatusOK, MotherSuccessResponse{Success: true, Message: "Mother deleted successfully"})
}

func parseDateParam(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func serviceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, validation.ErrInvalid),
		errors.Is(err, ErrInvalidCustomID),
		errors.Is(err, ErrInvalidDateRange),
		errors.Is(err, ErrNoFieldsToUpdate):
		respondError(w, http.StatusBadRequest, "validation_error", err.Error())
	case errors.Is(err, users.ErrUsernameTaken):
		respondError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, ErrMotherNotFound):
		respondError(w, http.StatusNotFound, "not_found", err.Error())
	default:
		log.Error().Err(err).Str("error_type", fallback).Msg("mother request failed")
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
