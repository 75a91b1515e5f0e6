package httpapi

import (
	"math"

	"github.com/romariotrain/video-catalog/internal/videos/models"
	"github.com/romariotrain/video-catalog/internal/videos/service"
)

type CreateVideoRequest struct {
	Title                models.Optional[string] `json:"title"`
	Author               models.Optional[string] `json:"author"`
	AvailableResolutions models.Optional[[]any]  `json:"availableResolutions"`
}

func (r CreateVideoRequest) toInput() service.CreateVideoInput {
	return service.CreateVideoInput{
		Title:                r.Title,
		Author:               r.Author,
		AvailableResolutions: r.AvailableResolutions,
	}
}

type UpdateVideoRequest struct {
	Title                models.Optional[string]  `json:"title"`
	Author               models.Optional[string]  `json:"author"`
	AvailableResolutions models.Optional[[]any]   `json:"availableResolutions"`
	MinAgeRestriction    models.Optional[float64] `json:"minAgeRestriction"`
	CanBeDownloaded      models.Optional[bool]    `json:"canBeDownloaded"`
	PublicationDate      models.Optional[string]  `json:"publicationDate"`
}

func (r UpdateVideoRequest) toInput() service.UpdateVideoInput {
	return service.UpdateVideoInput{
		Title:                r.Title,
		Author:               r.Author,
		AvailableResolutions: r.AvailableResolutions,
		MinAgeRestriction:    wholeNumber(r.MinAgeRestriction),
		CanBeDownloaded:      r.CanBeDownloaded,
		PublicationDate:      r.PublicationDate,
	}
}

// wholeNumber принимает любое целое JSON-число: 18.0 и 1.8e1 это 18.
// Дробные и выходящие за int32 значения невалидны.
func wholeNumber(in models.Optional[float64]) models.Optional[int] {
	out := models.Optional[int]{Set: in.Set, Null: in.Null}
	if !in.Present() {
		return out
	}
	v := in.Value
	if v != math.Trunc(v) || v < math.MinInt32 || v > math.MaxInt32 {
		return out
	}
	out.Valid = true
	out.Value = int(v)
	return out
}

type ErrorsResponse struct {
	ErrorsMessages []models.FieldError `json:"errorsMessages"`
}
