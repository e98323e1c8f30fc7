package activity

import (
	"time"

	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/pagination"
)

// Entry is one audit trail line.
type Entry struct {
	ID          int64     `json:"id"`
	ActorID     *int64    `json:"actor_id,omitempty"`
	ActorName   string    `json:"actor_name,omitempty"`
	Action      string    `json:"action"`
	Target      string    `json:"target,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type PaginatedActivityResponse struct {
	Entries    []Entry         `json:"entries"`
	Pagination pagination.Meta `json:"pagination"`
}
