package store

import (
	"context"

	"lexscreen/internal/regulation/models"
)

// Store is the single query primitive the screening engine needs from the
// regulation corpus. Implementations must support unlimited concurrent reads.
type Store interface {
	FindRegulations(ctx context.Context, params models.QueryParams) (*models.QueryResult, error)
}
