// Package images persists captured JPEG images together with their
// dimensions and checksum. Rows are addressed by the id assigned at capture.
package images

import (
	"context"

	"github.com/dmitrijs2005/bookexpert/internal/client/models"
)

type Repository interface {
	Insert(ctx context.Context, img *models.SavedImage) error
	// GetAll returns every image, most recently created first.
	GetAll(ctx context.Context) ([]models.SavedImage, error)
	// GetByID returns (nil, nil) when the image does not exist.
	GetByID(ctx context.Context, id string) (*models.SavedImage, error)
	DeleteByID(ctx context.Context, id string) (bool, error)
}
