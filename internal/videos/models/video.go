package models

import (
	"encoding/json"
	"strings"
	"time"
)

// TimestampLayout: UTC с миллисекундами, например 2024-02-01T18:57:08.689Z.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

type Timestamp struct {
	time.Time
}

func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.UTC().Truncate(time.Millisecond)}
}

func ParseTimestamp(s string) (Timestamp, error) {
	t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(s))
	if err != nil {
		return Timestamp{}, err
	}
	return NewTimestamp(t), nil
}

func (t Timestamp) String() string {
	return t.UTC().Format(TimestampLayout)
}

func (t Timestamp) Equal(o Timestamp) bool {
	return t.Time.Equal(o.Time)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

type Video struct {
	ID                   int64        `json:"id"`
	Title                string       `json:"title"`
	Author               string       `json:"author"`
	CanBeDownloaded      bool         `json:"canBeDownloaded"`
	MinAgeRestriction    *int         `json:"minAgeRestriction"`
	CreatedAt            Timestamp    `json:"createdAt"`
	PublicationDate      Timestamp    `json:"publicationDate"`
	AvailableResolutions []Resolution `json:"availableResolutions"`
}

// Clone: глубокая копия, чтобы снаружи не мутировали хранимый объект.
func (v *Video) Clone() *Video {
	cp := *v
	if v.MinAgeRestriction != nil {
		age := *v.MinAgeRestriction
		cp.MinAgeRestriction = &age
	}
	cp.AvailableResolutions = append([]Resolution{}, v.AvailableResolutions...)
	return &cp
}
