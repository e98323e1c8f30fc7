package users

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

// Handler serves account administration and the caller's own profile.
type Handler struct {
	service ServiceInterface
}

func NewHandler(service ServiceInterface) *Handler {
	return &Handler{service: service}
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	var req CreateUserRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := h.service.CreateUser(r.Context(), req, principal)
	if err != nil {
		h.serviceError(w, err, "creation_failed")
		return
	}
	respondJSON(w, http.StatusCreated, user)
}

// ListUsers accepts ?role to narrow the directory to one role.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	role := Role(r.URL.Query().Get("role"))
	page, err := h.service.ListUsers(r.Context(), role, pagination.ParseParams(r))
	if err != nil {
		h.serviceError(w, err, "fetch_failed")
		return
	}
	respondJSON(w, http.StatusOK, page)
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}
	user, err := h.service.GetUser(r.Context(), id)
	if err != nil {
		h.serviceError(w, err, "fetch_failed")
		return
	}
	respondJSON(w, http.StatusOK, user)
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	id, ok := userID(w, r)
	if !ok {
		return
	}
	var req UpdateUserRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := h.service.UpdateUser(r.Context(), id, req, principal)
	if err != nil {
		h.serviceError(w, err, "update_failed")
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// DeleteUser deactivates the account; the row is kept.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	id, ok := userID(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteUser(r.Context(), id, principal); err != nil {
		h.serviceError(w, err, "delete_failed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "User deactivated",
		"id":      id,
	})
}

func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	me, err := h.service.Me(r.Context(), principal)
	if err != nil {
		h.serviceError(w, err, "fetch_failed")
		return
	}
	respondJSON(w, http.StatusOK, me)
}

func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	var req UpdateProfileRequest
	if !decodeBody(w, r, &req) {
		return
	}

	me, err := h.service.UpdateMe(r.Context(), req, principal)
	if err != nil {
		h.serviceError(w, err, "update_failed")
		return
	}
	respondJSON(w, http.StatusOK, me)
}

func (h *Handler) serviceError(w http.ResponseWriter, err error, fallback string) {
	status, kind := http.StatusInternalServerError, fallback
	switch {
	case errors.Is(err, validation.ErrInvalid),
		errors.Is(err, ErrDesignationNotAllowed),
		errors.Is(err, ErrNoFieldsToUpdate),
		errors.Is(err, ErrInvalidRole):
		status, kind = http.StatusBadRequest, "validation_error"
	case errors.Is(err, ErrUsernameTaken):
		status, kind = http.StatusConflict, "conflict"
	case errors.Is(err, ErrUserNotFound):
		status, kind = http.StatusNotFound, "not_found"
	case errors.Is(err, ErrCannotDeactivateSelf):
		status, kind = http.StatusForbidden, "forbidden"
	}

	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("error_type", fallback).Msg("user request failed")
		respondError(w, status, kind, "Internal server error")
		return
	}
	respondError(w, status, kind, err.Error())
}

func requirePrincipal(w http.ResponseWriter, r *http.Request) (*auth.Principal, bool) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "User not authenticated")
	}
	return principal, ok
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON payload: "+err.Error())
		return false
	}
	return true
}

func userID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_id", "Invalid user ID")
		return 0, false
	}
	return id, true
}

func respondJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Warn().Err(err).Msg("failed to write response")
	}
}

func respondError(w http.ResponseWriter, statusCode int, errorType, message string) {
	respondJSON(w, statusCode, map[string]string{"error": errorType, "message": message})
}
