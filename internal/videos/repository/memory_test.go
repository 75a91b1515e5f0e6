package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/romariotrain/video-catalog/internal/videos/models"
)

func video(id int64, title string) *models.Video {
	return &models.Video{
		ID:                   id,
		Title:                title,
		Author:               "author",
		AvailableResolutions: []models.Resolution{},
	}
}

func ids(t *testing.T, r *MemoryRepository) []int64 {
	t.Helper()
	all, err := r.List(context.Background())
	require.NoError(t, err)
	out := make([]int64, 0, len(all))
	for _, v := range all {
		out = append(out, v.ID)
	}
	return out
}

func TestMemoryRepository_CreateKeepsOrder(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()

	for _, id := range []int64{3, 1, 2} {
		require.NoError(t, r.Create(ctx, video(id, "v")))
	}

	if diff := cmp.Diff([]int64{3, 1, 2}, ids(t, r)); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestMemoryRepository_CreateDuplicate(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository(video(1, "a"))

	err := r.Create(ctx, video(1, "b"))
	require.ErrorIs(t, err, models.ErrConflict)
	assert.Equal(t, 1, r.Len())
}

func TestMemoryRepository_CreateNil(t *testing.T) {
	r := NewMemoryRepository()
	require.ErrorIs(t, r.Create(context.Background(), nil), models.ErrInvalidArgument)
}

func TestMemoryRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository(video(7, "seven"))

	got, err := r.GetByID(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "seven", got.Title)

	_, err = r.GetByID(ctx, 555)
	require.ErrorIs(t, err, models.ErrNotFound)
}

func TestMemoryRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()

	in := video(1, "original")
	require.NoError(t, r.Create(ctx, in))
	in.Title = "mutated after create"

	got, err := r.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "original", got.Title)

	got.Title = "mutated after get"
	again, err := r.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "original", again.Title)
}

func TestMemoryRepository_UpdateKeepsPosition(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository(video(1, "a"), video(2, "b"), video(3, "c"))

	require.NoError(t, r.Update(ctx, video(2, "B")))

	got, err := r.GetByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "B", got.Title)
	assert.Equal(t, []int64{1, 2, 3}, ids(t, r))

	require.ErrorIs(t, r.Update(ctx, video(9, "x")), models.ErrNotFound)
}

func TestMemoryRepository_Delete(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository(video(1, "a"), video(2, "b"), video(3, "c"))

	require.NoError(t, r.Delete(ctx, 2))
	assert.Equal(t, []int64{1, 3}, ids(t, r))

	require.ErrorIs(t, r.Delete(ctx, 2), models.ErrNotFound)
	assert.Equal(t, []int64{1, 3}, ids(t, r))
}

func TestMemoryRepository_DeleteAll(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository(video(1, "a"), video(2, "b"))

	require.NoError(t, r.DeleteAll(ctx))

	all, err := r.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)
}

func TestMemoryRepository_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := NewMemoryRepository(video(1, "a"))

	_, err := r.List(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.ErrorIs(t, r.Create(ctx, video(2, "b")), context.Canceled)
	require.ErrorIs(t, r.Delete(ctx, 1), context.Canceled)
	assert.Equal(t, 1, r.Len())
}

func TestMemoryRepository_ConcurrentCreates(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()

	var wg sync.WaitGroup
	for i := int64(1); i <= 50; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			_ = r.Create(ctx, video(id, "v"))
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 50, r.Len())
}
