package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"kycdesk/internal/entity"
	"kycdesk/internal/entity/events"
	"kycdesk/internal/platform/clipboard"
	"kycdesk/internal/platform/config"
	"kycdesk/internal/platform/logger"
	platformstrings "kycdesk/pkg/platform/strings"
	"kycdesk/pkg/requestcontext"
)

const clientName = "kycctl"

type app struct {
	stdout io.Writer
	stderr io.Writer
	stdin  io.Reader
	clip   clipboard.Writer

	cfg config.Config
	log *slog.Logger
}

// session is one opened directory plus what must be closed after the command.
type session struct {
	ctx       context.Context
	directory *entity.Directory
	backend   *entity.Backend
	publisher events.Publisher
}

func (s *session) close() {
	_ = s.publisher.Close()
	_ = s.backend.Close()
}

// storeFlags overlays the environment configuration.
func storeFlags(cfg *config.Config) *pflag.FlagSet {
	fs := pflag.NewFlagSet("store", pflag.ContinueOnError)
	fs.StringVar(&cfg.Store.Driver, "store", cfg.Store.Driver, "store driver (memory, file, redis, postgres)")
	fs.StringVar(&cfg.Store.FilePath, "store-file", cfg.Store.FilePath, "path of the file store")
	fs.StringVar(&cfg.Store.KeyPrefix, "key-prefix", cfg.Store.KeyPrefix, "namespace prepended to every store key")
	fs.StringVar(&cfg.Redis.URL, "redis-url", cfg.Redis.URL, "redis connection URL")
	fs.StringVar(&cfg.Postgres.DSN, "postgres-dsn", cfg.Postgres.DSN, "postgres connection string")
	fs.StringSliceVar(&cfg.Kafka.Brokers, "kafka-brokers", cfg.Kafka.Brokers, "change feed brokers; empty logs changes instead")
	fs.StringVar(&cfg.Logging.Level, "log-level", cfg.Logging.Level, "log level for diagnostics on stderr")
	return fs
}

// loadConfig reads the environment and file configuration before flags are parsed.
func (a *app) loadConfig() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	a.cfg = cfg
	return nil
}

func (a *app) open(cmd *cobra.Command) (*session, error) {
	a.cfg.Kafka.Brokers = platformstrings.DedupeAndTrim(a.cfg.Kafka.Brokers)
	if err := a.cfg.Validate(); err != nil {
		return nil, err
	}
	a.log = logger.NewWithWriter(a.stderr, a.cfg.Logging)

	ctx := requestcontext.WithTime(cmd.Context(), time.Now().UTC())
	ctx = requestcontext.WithRequestID(ctx, uuid.NewString())
	ctx = requestcontext.WithClientName(ctx, clientName)

	backend, err := entity.OpenBackend(ctx, a.cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", a.cfg.Store.Driver, err)
	}
	publisher, err := entity.NewPublisher(ctx, a.cfg.Kafka, a.log, nil)
	if err != nil {
		_ = backend.Close()
		return nil, err
	}
	repo := entity.NewRepository(backend.KV, a.cfg.Store, a.log, nil)
	directory, err := entity.NewDirectory(ctx, repo, a.log, publisher, nil)
	if err != nil {
		_ = publisher.Close()
		_ = backend.Close()
		return nil, err
	}
	return &session{ctx: ctx, directory: directory, backend: backend, publisher: publisher}, nil
}

// run opens a session for the duration of fn.
func (a *app) run(fn func(cmd *cobra.Command, args []string, s *session) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		s, err := a.open(cmd)
		if err != nil {
			return err
		}
		defer s.close()
		return fn(cmd, args, s)
	}
}
