package entity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"

	"kycdesk/internal/entity/events"
	"kycdesk/internal/entity/handler"
	"kycdesk/internal/entity/metrics"
	"kycdesk/internal/entity/service"
	"kycdesk/internal/entity/store"
	"kycdesk/internal/platform/config"
	"kycdesk/internal/platform/kafka"
	"kycdesk/internal/platform/postgres"
	"kycdesk/internal/platform/redis"
)

// Directory is the entity collection with its selection.
type Directory = service.Directory

// Handler wires the desk page and JSON API to a Directory.
type Handler = handler.Handler

// Backend is the opened key-value store plus whatever must be closed with it.
type Backend struct {
	KV      store.KV
	closers []func() error
}

// Close releases the backend connections.
func (b *Backend) Close() error {
	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		errs = append(errs, b.closers[i]())
	}
	return errors.Join(errs...)
}

// OpenBackend connects to the store driver named in cfg.Store.
func OpenBackend(ctx context.Context, cfg config.Config) (*Backend, error) {
	switch cfg.Store.Driver {
	case config.DriverMemory:
		return &Backend{KV: store.NewInMemory()}, nil
	case config.DriverFile:
		return &Backend{KV: store.NewFile(cfg.Store.FilePath)}, nil
	case config.DriverRedis:
		client, err := redis.New(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		return &Backend{KV: store.NewRedis(client.Client), closers: []func() error{client.Close}}, nil
	case config.DriverPostgres:
		db, err := postgres.Open(ctx, cfg.Postgres)
		if err != nil {
			return nil, err
		}
		kv, err := store.NewPostgres(db, cfg.Postgres.Table)
		if err == nil {
			err = kv.Migrate(ctx)
		}
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		return &Backend{KV: kv, closers: []func() error{db.Close}}, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// NewRepository namespaces kv with the configured prefix. A nil m disables
// the fallback counter.
func NewRepository(kv store.KV, cfg config.StoreConfig, logger *slog.Logger, m *metrics.Metrics) *store.Repository {
	return store.NewRepository(kv,
		store.WithKeyPrefix(cfg.KeyPrefix),
		store.WithLogger(logger),
		store.WithMalformedHook(m.IncrementLoadFallback),
	)
}

// NewPublisher returns the Kafka change feed when brokers are configured, and
// a log publisher otherwise.
func NewPublisher(ctx context.Context, cfg config.KafkaConfig, logger *slog.Logger, m *metrics.Metrics) (events.Publisher, error) {
	client, err := kafka.NewProducer(cfg)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return events.NewLogPublisher(logger), nil
	}
	if err := kafka.EnsureTopic(ctx, client, cfg.Topic); err != nil {
		logger.WarnContext(ctx, "could not ensure change feed topic", "topic", cfg.Topic, "error", err)
	}
	return newKafkaPublisher(client, cfg.Topic, logger, m), nil
}

func newKafkaPublisher(client *kgo.Client, topic string, logger *slog.Logger, m *metrics.Metrics) *events.KafkaPublisher {
	return events.NewKafkaPublisher(client, topic,
		events.WithLogger(logger),
		events.WithMetrics(m),
	)
}

// NewDirectory rehydrates the directory from repo.
func NewDirectory(ctx context.Context, repo *store.Repository, logger *slog.Logger, publisher events.Publisher, m *metrics.Metrics) (*Directory, error) {
	return service.New(ctx, repo,
		service.WithLogger(logger),
		service.WithPublisher(publisher),
		service.WithMetrics(m),
	)
}

// NewHandler constructs the HTTP handler for the desk.
func NewHandler(d *Directory, logger *slog.Logger) *Handler {
	return handler.New(d, logger)
}
