package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr          string
	ReadHeaderTimeout time.Duration
	ShutdownTimeout   time.Duration

	LogLevel  string
	LogPretty bool

	SeedDemo            bool
	EnableTestingRoutes bool

	KafkaBrokers    []string
	KafkaTopic      string
	OutboxInterval  time.Duration
	OutboxBatchSize int
	OutboxCapacity  int
}

func Default() Config {
	return Config{
		HTTPAddr:            ":8080",
		ReadHeaderTimeout:   5 * time.Second,
		ShutdownTimeout:     10 * time.Second,
		LogLevel:            "info",
		SeedDemo:            true,
		EnableTestingRoutes: true,
		KafkaTopic:          "videos.events",
		OutboxInterval:      time.Second,
		OutboxBatchSize:     100,
		OutboxCapacity:      10000,
	}
}

// EventsEnabled: отправлять ли изменения каталога в Kafka.
func (c Config) EventsEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

// Load читает .env (если есть), потом окружение процесса.
// Уже выставленные переменные окружения важнее файла.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv собирает Config поверх Default.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	p := parser{lookup: lookup}

	p.str("HTTP_ADDR", &cfg.HTTPAddr)
	p.duration("READ_HEADER_TIMEOUT", &cfg.ReadHeaderTimeout)
	p.duration("SHUTDOWN_TIMEOUT", &cfg.ShutdownTimeout)
	p.str("LOG_LEVEL", &cfg.LogLevel)
	p.boolean("LOG_PRETTY", &cfg.LogPretty)
	p.boolean("SEED_DEMO", &cfg.SeedDemo)
	p.boolean("ENABLE_TESTING_ROUTES", &cfg.EnableTestingRoutes)
	p.list("KAFKA_BROKERS", &cfg.KafkaBrokers)
	p.str("KAFKA_TOPIC", &cfg.KafkaTopic)
	p.duration("OUTBOX_INTERVAL", &cfg.OutboxInterval)
	p.integer("OUTBOX_BATCH_SIZE", &cfg.OutboxBatchSize)
	p.integer("OUTBOX_CAPACITY", &cfg.OutboxCapacity)

	if p.err != nil {
		return Config{}, p.err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.HTTPAddr == "" {
		return fmt.Errorf("HTTP_ADDR is empty")
	}
	if c.EventsEnabled() {
		if c.KafkaTopic == "" {
			return fmt.Errorf("KAFKA_TOPIC is empty")
		}
		if c.OutboxInterval <= 0 {
			return fmt.Errorf("OUTBOX_INTERVAL must be positive, got %v", c.OutboxInterval)
		}
		if c.OutboxBatchSize <= 0 {
			return fmt.Errorf("OUTBOX_BATCH_SIZE must be positive, got %d", c.OutboxBatchSize)
		}
	}
	return nil
}

// parser запоминает первую ошибку, остальные ключи пропускает.
type parser struct {
	lookup func(string) (string, bool)
	err    error
}

func (p *parser) get(key string) (string, bool) {
	if p.err != nil {
		return "", false
	}
	v, ok := p.lookup(key)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(v), true
}

func (p *parser) str(key string, dst *string) {
	if v, ok := p.get(key); ok {
		*dst = v
	}
}

func (p *parser) boolean(key string, dst *bool) {
	v, ok := p.get(key)
	if !ok || v == "" {
		return
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		p.err = fmt.Errorf("%s: %w", key, err)
		return
	}
	*dst = b
}

func (p *parser) integer(key string, dst *int) {
	v, ok := p.get(key)
	if !ok || v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.err = fmt.Errorf("%s: %w", key, err)
		return
	}
	*dst = n
}

func (p *parser) duration(key string, dst *time.Duration) {
	v, ok := p.get(key)
	if !ok || v == "" {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		p.err = fmt.Errorf("%s: %w", key, err)
		return
	}
	*dst = d
}

func (p *parser) list(key string, dst *[]string) {
	v, ok := p.get(key)
	if !ok {
		return
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	*dst = out
}
