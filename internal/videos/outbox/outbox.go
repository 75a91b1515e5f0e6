package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/romariotrain/video-catalog/internal/videos/models"
)

var ErrFull = errors.New("outbox: capacity reached")

type Record struct {
	ID          int64
	EventID     string
	EventType   string
	AggregateID string
	Payload     json.RawMessage
	OccurredAt  time.Time
}

// Store: in-memory outbox с ограниченной ёмкостью. Запись висит в pending,
// пока publisher не пометит её обработанной.
type Store struct {
	mu       sync.Mutex
	capacity int
	nextID   int64
	pending  []Record
}

func NewStore(capacity int) *Store {
	return &Store{capacity: capacity}
}

// Record реализует service.EventRecorder.
func (s *Store) Record(ctx context.Context, event models.DomainEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.capacity > 0 && len(s.pending) >= s.capacity {
		return ErrFull
	}

	s.nextID++
	s.pending = append(s.pending, Record{
		ID:          s.nextID,
		EventID:     event.EventID().String(),
		EventType:   event.EventType(),
		AggregateID: event.AggregateID(),
		Payload:     payload,
		OccurredAt:  event.OccurredAt(),
	})
	return nil
}

// GetPending: до limit самых старых необработанных записей.
func (s *Store) GetPending(ctx context.Context, limit int) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	n := min(limit, len(s.pending))
	out := make([]Record, n)
	copy(out, s.pending[:n])
	return out, nil
}

func (s *Store) MarkProcessed(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, r := range s.pending {
		if r.ID == id {
			s.pending = append(s.pending[:i], s.pending[i+1:]...)
			return nil
		}
	}
	return models.ErrNotFound
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}
