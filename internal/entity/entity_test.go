package entity

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kycdesk/internal/entity/events"
	"kycdesk/internal/entity/metrics"
	"kycdesk/internal/entity/store"
	"kycdesk/internal/platform/config"
	"kycdesk/internal/platform/logger"
)

func TestOpenBackendDrivers(t *testing.T) {
	ctx := context.Background()

	cfg := config.Default()
	cfg.Store.Driver = config.DriverMemory
	b, err := OpenBackend(ctx, cfg)
	require.NoError(t, err)
	assert.IsType(t, &store.InMemory{}, b.KV)
	require.NoError(t, b.Close())

	cfg.Store.Driver = config.DriverFile
	cfg.Store.FilePath = filepath.Join(t.TempDir(), "desk.json")
	b, err = OpenBackend(ctx, cfg)
	require.NoError(t, err)
	assert.IsType(t, &store.File{}, b.KV)

	cfg.Store.Driver = "etcd"
	_, err = OpenBackend(ctx, cfg)
	require.Error(t, err)
}

func TestFileBackendPersistsAcrossRestarts(t *testing.T) {
	ctx := context.Background()
	cfg := config.Default()
	cfg.Store.FilePath = filepath.Join(t.TempDir(), "desk.json")
	cfg.Store.KeyPrefix = "eu:"

	open := func() *Directory {
		b, err := OpenBackend(ctx, cfg)
		require.NoError(t, err)
		repo := NewRepository(b.KV, cfg.Store, logger.Discard(), nil)
		d, err := NewDirectory(ctx, repo, logger.Discard(), &events.Recorder{}, nil)
		require.NoError(t, err)
		return d
	}

	first := open()
	added := first.Add(ctx)
	require.True(t, first.Select(ctx, added.ID))

	second := open()
	assert.Len(t, second.List(ctx), 3)
	sel, ok := second.Selected(ctx)
	require.True(t, ok)
	assert.Equal(t, added.ID, sel.ID)
}

func TestFileBackendStartsOverCorruptDocument(t *testing.T) {
	ctx := context.Background()
	cfg := config.Default()
	cfg.Store.FilePath = filepath.Join(t.TempDir(), "desk.json")
	require.NoError(t, os.WriteFile(cfg.Store.FilePath, []byte(`{"kyc_entities": [`), 0o600))

	b, err := OpenBackend(ctx, cfg)
	require.NoError(t, err)
	m := metrics.New(prometheus.NewRegistry())
	repo := NewRepository(b.KV, cfg.Store, logger.Discard(), m)
	d, err := NewDirectory(ctx, repo, logger.Discard(), &events.Recorder{}, m)
	require.NoError(t, err)

	assert.Len(t, d.List(ctx), 2)
	assert.Equal(t, 1.0, promtestutil.ToFloat64(m.StoreLoadFallbacks))
	added := d.Add(ctx)
	assert.Equal(t, added.ID, d.List(ctx)[2].ID)
}

func TestRepositoryCountsMalformedFallback(t *testing.T) {
	ctx := context.Background()
	kv := store.NewInMemory()
	require.NoError(t, kv.Set(ctx, store.EntitiesKey, "{not json"))

	m := metrics.New(prometheus.NewRegistry())
	repo := NewRepository(kv, config.StoreConfig{}, logger.Discard(), m)
	_, err := NewDirectory(ctx, repo, logger.Discard(), nil, m)
	require.NoError(t, err)

	assert.Equal(t, 1.0, promtestutil.ToFloat64(m.StoreLoadFallbacks))
}

func TestNewPublisherWithoutBrokersLogs(t *testing.T) {
	p, err := NewPublisher(context.Background(), config.KafkaConfig{Topic: "changes"}, logger.Discard(), nil)
	require.NoError(t, err)
	assert.IsType(t, &events.LogPublisher{}, p)
}
