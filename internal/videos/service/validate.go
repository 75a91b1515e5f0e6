package service

import (
	"strings"
	"unicode/utf8"

	"github.com/romariotrain/video-catalog/internal/videos/models"
)

const (
	maxTitleLen  = 40
	maxAuthorLen = 20

	minAge = 1
	maxAge = 18
)

const (
	fieldTitle                = "title"
	fieldAuthor               = "author"
	fieldAvailableResolutions = "availableResolutions"
	fieldMinAgeRestriction    = "minAgeRestriction"
	fieldCanBeDownloaded      = "canBeDownloaded"
	fieldPublicationDate      = "publicationDate"
)

const (
	msgTitle                = "Incorrect title"
	msgAuthor               = "Incorrect author"
	msgAvailableResolutions = "Incorrect availableResolutions"
	msgMinAgeRestriction    = "min1,max 18"
	msgCanBeDownloaded      = "boolean value"
	msgPublicationDate      = "Date value, type string"
)

// checkText возвращает значение без пробелов по краям. Для любой проблемы
// (нет поля, null, не строка, пусто, слишком длинно) одно и то же сообщение.
func checkText(verr *models.ValidationError, field, message string, in models.Optional[string], max int) string {
	if !in.Present() {
		verr.Add(field, message)
		return ""
	}
	s := strings.TrimSpace(in.Value)
	if s == "" || utf8.RuneCountInString(s) > max {
		verr.Add(field, message)
		return ""
	}
	return s
}

// checkResolutions: не массив превращается в пустой набор.
// Сколько бы ни было неизвестных тегов, ошибка одна.
func checkResolutions(verr *models.ValidationError, in models.Optional[[]any]) []models.Resolution {
	out := []models.Resolution{}
	if !in.Present() {
		return out
	}

	for _, raw := range in.Value {
		s, ok := raw.(string)
		r := models.Resolution(s)
		if !ok || !r.Valid() {
			if !verr.Has(fieldAvailableResolutions) {
				verr.Add(fieldAvailableResolutions, msgAvailableResolutions)
			}
			continue
		}
		out = append(out, r)
	}
	return out
}

func checkMinAge(verr *models.ValidationError, in models.Optional[int]) {
	if !in.Set || in.Null {
		return
	}
	if !in.Valid || in.Value < minAge || in.Value > maxAge {
		verr.Add(fieldMinAgeRestriction, msgMinAgeRestriction)
	}
}

func checkCanBeDownloaded(verr *models.ValidationError, in models.Optional[bool]) {
	if in.Set && !in.Null && !in.Valid {
		verr.Add(fieldCanBeDownloaded, msgCanBeDownloaded)
	}
}

func checkPublicationDate(verr *models.ValidationError, in models.Optional[string]) (models.Timestamp, bool) {
	if !in.Set || in.Null {
		return models.Timestamp{}, false
	}
	if !in.Valid {
		verr.Add(fieldPublicationDate, msgPublicationDate)
		return models.Timestamp{}, false
	}
	ts, err := models.ParseTimestamp(in.Value)
	if err != nil {
		verr.Add(fieldPublicationDate, msgPublicationDate)
		return models.Timestamp{}, false
	}
	return ts, true
}
