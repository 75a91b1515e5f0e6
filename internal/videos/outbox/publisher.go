package outbox

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/romariotrain/video-catalog/internal/videos/kafka"
)

// Producer: то, что publisher-у нужно от Kafka producer.
type Producer interface {
	PublishBatch(ctx context.Context, messages []kafka.Message) error
}

// Publisher выгребает outbox в Kafka. Доставка at-least-once: запись,
// опубликованная, но не помеченная, уйдёт повторно на следующем тике.
type Publisher struct {
	store     *Store
	producer  Producer
	interval  time.Duration
	batchSize int
	logger    zerolog.Logger
}

type PublisherConfig struct {
	Store     *Store
	Producer  Producer
	Interval  time.Duration
	BatchSize int
	Logger    zerolog.Logger
}

func NewPublisher(cfg PublisherConfig) (*Publisher, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("outbox store is required")
	}
	if cfg.Producer == nil {
		return nil, fmt.Errorf("kafka producer is required")
	}
	if cfg.Interval <= 0 {
		return nil, fmt.Errorf("interval must be positive, got: %v", cfg.Interval)
	}
	if cfg.BatchSize <= 0 {
		return nil, fmt.Errorf("batch size must be positive, got: %d", cfg.BatchSize)
	}

	return &Publisher{
		store:     cfg.Store,
		producer:  cfg.Producer,
		interval:  cfg.Interval,
		batchSize: cfg.BatchSize,
		logger:    cfg.Logger.With().Str("component", "outbox_publisher").Logger(),
	}, nil
}

// Start опрашивает outbox каждые interval, пока ctx не отменён.
func (p *Publisher) Start(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.logger.Info().
		Dur("interval", p.interval).
		Int("batch_size", p.batchSize).
		Msg("outbox publisher started")

	for {
		select {
		case <-ctx.Done():
			p.logger.Info().
				Err(ctx.Err()).
				Msg("outbox publisher stopped")
			return ctx.Err()

		case <-ticker.C:
			if err := p.publishBatch(ctx); err != nil {
				p.logger.Error().
					Err(err).
					Msg("failed to publish batch")
			}
		}
	}
}

func (p *Publisher) publishBatch(ctx context.Context) error {
	records, err := p.store.GetPending(ctx, p.batchSize)
	if err != nil {
		return fmt.Errorf("get pending records: %w", err)
	}

	if len(records) == 0 {
		return nil
	}

	// Одна запись на тик сохраняет порядок outbox. При ошибке ничего не помечаем,
	// весь batch уйдёт на следующем тике.
	messages := make([]kafka.Message, 0, len(records))
	for _, record := range records {
		messages = append(messages, kafka.Message{Key: record.EventID, Value: record.Payload})
	}

	if err := p.producer.PublishBatch(ctx, messages); err != nil {
		p.logger.Error().
			Err(err).
			Int("total", len(records)).
			Int64("first_outbox_id", records[0].ID).
			Msg("failed to publish events to kafka")
		return nil
	}

	for _, record := range records {
		if err := p.store.MarkProcessed(ctx, record.ID); err != nil {
			p.logger.Warn().
				Err(err).
				Str("event_id", record.EventID).
				Str("event_type", record.EventType).
				Str("aggregate_id", record.AggregateID).
				Int64("outbox_id", record.ID).
				Msg("failed to mark event as processed")
		}
	}

	p.logger.Debug().
		Int("published", len(records)).
		Msg("batch processing completed")

	return nil
}
