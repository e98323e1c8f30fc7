package activity

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/pagination"
	"github.com/rs/zerolog/log"
)

// Lister is the read side used by the handler.
type Lister interface {
	List(ctx context.Context, params pagination.Params) (*PaginatedActivityResponse, error)
}

type Handler struct {
	service Lister
}

func NewHandler(service Lister) *Handler {
	return &Handler{service: service}
}

func (h *Handler) ListActivity(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.List(r.Context(), pagination.ParseParams(r))
	if err != nil {
		log.Error().Err(err).Msg("failed to list activity")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "fetch_failed", "message": "Internal server error"})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
