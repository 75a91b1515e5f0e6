package repository

import (
	"context"

	"github.com/romariotrain/video-catalog/internal/videos/models"
)

// VideoRepository владеет каталогом. Порядок вставки сохраняется,
// наружу отдаются только копии.
type VideoRepository interface {
	List(ctx context.Context) ([]*models.Video, error)
	GetByID(ctx context.Context, id int64) (*models.Video, error)
	Create(ctx context.Context, v *models.Video) error
	Update(ctx context.Context, v *models.Video) error
	Delete(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) error
}
