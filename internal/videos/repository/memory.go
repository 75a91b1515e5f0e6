package repository

import (
	"context"
	"slices"
	"sync"

	"github.com/romariotrain/video-catalog/internal/videos/models"
)

type MemoryRepository struct {
	mu     sync.RWMutex
	videos []*models.Video
}

func NewMemoryRepository(seed ...*models.Video) *MemoryRepository {
	r := &MemoryRepository{videos: make([]*models.Video, 0, len(seed))}
	for _, v := range seed {
		if v == nil || r.indexOf(v.ID) >= 0 {
			continue
		}
		r.videos = append(r.videos, v.Clone())
	}
	return r
}

// indexOf вызывать только под mu.
func (r *MemoryRepository) indexOf(id int64) int {
	return slices.IndexFunc(r.videos, func(v *models.Video) bool { return v.ID == id })
}

func (r *MemoryRepository) List(ctx context.Context) ([]*models.Video, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.Video, 0, len(r.videos))
	for _, v := range r.videos {
		out = append(out, v.Clone())
	}
	return out, nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id int64) (*models.Video, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, models.ErrNotFound
	}
	return r.videos[i].Clone(), nil
}

func (r *MemoryRepository) Create(ctx context.Context, v *models.Video) error {
	if v == nil {
		return models.ErrInvalidArgument
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexOf(v.ID) >= 0 {
		return models.ErrConflict
	}
	r.videos = append(r.videos, v.Clone())
	return nil
}

// Update заменяет запись с тем же id, позиция в каталоге сохраняется.
func (r *MemoryRepository) Update(ctx context.Context, v *models.Video) error {
	if v == nil {
		return models.ErrInvalidArgument
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(v.ID)
	if i < 0 {
		return models.ErrNotFound
	}
	r.videos[i] = v.Clone()
	return nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return models.ErrNotFound
	}
	r.videos = slices.Delete(r.videos, i, i+1)
	return nil
}

func (r *MemoryRepository) DeleteAll(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	clear(r.videos)
	r.videos = r.videos[:0]
	return nil
}

func (r *MemoryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.videos)
}
