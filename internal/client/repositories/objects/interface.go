package objects

import (
	"context"
	"time"

	"github.com/dmitrijs2005/bookexpert/internal/client/models"
)

// Repository persists cached remote objects.
type Repository interface {
	// Upsert inserts obj with CreatedAt = now, or overwrites name and data and
	// sets UpdatedAt = now when the stored content differs. It reports whether
	// a row was written.
	Upsert(ctx context.Context, obj models.RemoteObject, now time.Time) (bool, error)

	// GetAll returns every cached object, most recently created first.
	GetAll(ctx context.Context) ([]models.CachedObject, error)

	// GetByID returns the object or (nil, nil) when it is not cached.
	GetByID(ctx context.Context, id string) (*models.CachedObject, error)

	// DeleteByID removes the object and reports whether it existed.
	DeleteByID(ctx context.Context, id string) (bool, error)

	// Prune removes every object whose id is not in keep.
	Prune(ctx context.Context, keep map[string]struct{}) (int, error)
}
