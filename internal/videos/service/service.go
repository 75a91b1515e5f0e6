package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/romariotrain/video-catalog/internal/videos/models"
	"github.com/romariotrain/video-catalog/internal/videos/repository"
)

// EventRecorder получает доменные события после изменения каталога.
type EventRecorder interface {
	Record(ctx context.Context, event models.DomainEvent) error
}

type CreateVideoInput struct {
	Title                models.Optional[string]
	Author               models.Optional[string]
	AvailableResolutions models.Optional[[]any]
}

// UpdateVideoInput: опциональное поле применяется, если ключ пришёл,
// даже со значением false или null.
type UpdateVideoInput struct {
	Title                models.Optional[string]
	Author               models.Optional[string]
	AvailableResolutions models.Optional[[]any]
	MinAgeRestriction    models.Optional[int]
	CanBeDownloaded      models.Optional[bool]
	PublicationDate      models.Optional[string]
}

type Service struct {
	repo   repository.VideoRepository
	events EventRecorder
	logger zerolog.Logger
	clock  func() time.Time
	idGen  func() int64
}

// New: events может быть nil, если события никто не читает.
func New(repo repository.VideoRepository, events EventRecorder, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		events: events,
		logger: logger.With().Str("component", "video_service").Logger(),
		clock:  time.Now,
		idGen:  NewSequence(1),
	}
}

// NewSequence: потокобезопасный генератор id (start, start+1, ...).
func NewSequence(start int64) func() int64 {
	var n atomic.Int64
	n.Store(start - 1)
	return func() int64 { return n.Add(1) }
}

func (s *Service) ListVideos(ctx context.Context) ([]*models.Video, error) {
	videos, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	if videos == nil {
		videos = []*models.Video{}
	}
	return videos, nil
}

// GetVideo оборачивает ошибки репозитория, models.ErrNotFound доступен через errors.Is.
func (s *Service) GetVideo(ctx context.Context, id int64) (*models.Video, error) {
	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get video %d: %w", id, err)
	}
	return v, nil
}

func (s *Service) CreateVideo(ctx context.Context, in CreateVideoInput) (*models.Video, error) {
	var verr models.ValidationError
	title := checkText(&verr, fieldTitle, msgTitle, in.Title, maxTitleLen)
	author := checkText(&verr, fieldAuthor, msgAuthor, in.Author, maxAuthorLen)
	resolutions := checkResolutions(&verr, in.AvailableResolutions)
	if err := verr.Err(); err != nil {
		return nil, err
	}

	now := models.NewTimestamp(s.clock())
	v := &models.Video{
		ID:                   s.idGen(),
		Title:                title,
		Author:               author,
		CanBeDownloaded:      false,
		MinAgeRestriction:    nil,
		CreatedAt:            now,
		PublicationDate:      now,
		AvailableResolutions: resolutions,
	}

	if err := s.repo.Create(ctx, v); err != nil {
		return nil, fmt.Errorf("create video: %w", err)
	}

	s.logger.Debug().Int64("video_id", v.ID).Msg("video created")
	s.record(ctx, models.NewVideoChanged(models.VideoCreated, v.ID, v, now.Time))
	return v, nil
}

// UpdateVideo сначала валидирует весь payload и только потом ищет запись:
// невалидный запрос получает 400 даже для несуществующего id.
func (s *Service) UpdateVideo(ctx context.Context, id int64, in UpdateVideoInput) error {
	var verr models.ValidationError
	title := checkText(&verr, fieldTitle, msgTitle, in.Title, maxTitleLen)
	author := checkText(&verr, fieldAuthor, msgAuthor, in.Author, maxAuthorLen)
	resolutions := checkResolutions(&verr, in.AvailableResolutions)
	checkMinAge(&verr, in.MinAgeRestriction)
	checkCanBeDownloaded(&verr, in.CanBeDownloaded)
	publicationDate, hasPublicationDate := checkPublicationDate(&verr, in.PublicationDate)
	if err := verr.Err(); err != nil {
		return err
	}

	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("update video %d: %w", id, err)
	}

	v.Title = title
	v.Author = author
	if in.AvailableResolutions.Set {
		v.AvailableResolutions = resolutions
	}
	if in.CanBeDownloaded.Present() {
		v.CanBeDownloaded = in.CanBeDownloaded.Value
	}
	if in.MinAgeRestriction.Set {
		if in.MinAgeRestriction.Null {
			v.MinAgeRestriction = nil
		} else {
			age := in.MinAgeRestriction.Value
			v.MinAgeRestriction = &age
		}
	}
	if hasPublicationDate {
		v.PublicationDate = publicationDate
	}

	if err := s.repo.Update(ctx, v); err != nil {
		return fmt.Errorf("update video %d: %w", id, err)
	}

	s.logger.Debug().Int64("video_id", id).Msg("video updated")
	s.record(ctx, models.NewVideoChanged(models.VideoUpdated, id, v, s.clock()))
	return nil
}

func (s *Service) DeleteVideo(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete video %d: %w", id, err)
	}

	s.logger.Debug().Int64("video_id", id).Msg("video deleted")
	s.record(ctx, models.NewVideoChanged(models.VideoDeleted, id, nil, s.clock()))
	return nil
}

// ResetCatalog удаляет все записи. Вызывается только из testing-роутов.
func (s *Service) ResetCatalog(ctx context.Context) error {
	if err := s.repo.DeleteAll(ctx); err != nil {
		return fmt.Errorf("reset catalog: %w", err)
	}

	s.logger.Info().Msg("catalog reset")
	s.record(ctx, models.NewVideoChanged(models.CatalogReset, 0, nil, s.clock()))
	return nil
}

func (s *Service) record(ctx context.Context, event models.DomainEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.Record(ctx, event); err != nil {
		s.logger.Warn().
			Err(err).
			Str("event_type", event.EventType()).
			Str("aggregate_id", event.AggregateID()).
			Msg("failed to record domain event")
	}
}
