package models

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
)

type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	AggregateID() string
	OccurredAt() time.Time
}

type EventType string

const (
	VideoCreated EventType = "VideoCreated"
	VideoUpdated EventType = "VideoUpdated"
	VideoDeleted EventType = "VideoDeleted"
	CatalogReset EventType = "CatalogReset"
)

// VideoChanged пишется после каждого успешного изменения каталога.
// Для удаления и сброса снапшота нет.
type VideoChanged struct {
	eventID    uuid.UUID
	eventType  EventType
	videoID    int64
	snapshot   *Video
	occurredAt time.Time
}

func NewVideoChanged(t EventType, videoID int64, snapshot *Video, at time.Time) *VideoChanged {
	var snap *Video
	if snapshot != nil {
		snap = snapshot.Clone()
	}
	return &VideoChanged{
		eventID:    uuid.New(),
		eventType:  t,
		videoID:    videoID,
		snapshot:   snap,
		occurredAt: at,
	}
}

func (e *VideoChanged) EventID() uuid.UUID    { return e.eventID }
func (e *VideoChanged) EventType() string     { return string(e.eventType) }
func (e *VideoChanged) OccurredAt() time.Time { return e.occurredAt }
func (e *VideoChanged) VideoID() int64        { return e.videoID }
func (e *VideoChanged) Snapshot() *Video      { return e.snapshot }

func (e *VideoChanged) AggregateID() string {
	if e.eventType == CatalogReset {
		return "catalog"
	}
	return strconv.FormatInt(e.videoID, 10)
}

func (e *VideoChanged) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		EventID    uuid.UUID `json:"event_id"`
		EventType  EventType `json:"event_type"`
		VideoID    int64     `json:"video_id"`
		Video      *Video    `json:"video,omitempty"`
		OccurredAt time.Time `json:"occurred_at"`
	}{
		EventID:    e.eventID,
		EventType:  e.eventType,
		VideoID:    e.videoID,
		Video:      e.snapshot,
		OccurredAt: e.occurredAt,
	})
}
