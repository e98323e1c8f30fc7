package reminder

import (
	"context"

	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/db"
)

// Store is the persistence the dispatcher needs.
type Store interface {
	Due(ctx context.Context, date string, kind Kind) ([]Due, error)
	Deliver(ctx context.Context, d Due, send func(ctx context.Context, q db.Querier) error) error
}

var _ Store = (*Repository)(nil)
