//go:build integration

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"kycdesk/pkg/testutil/containers"
)

func TestRedisKV(t *testing.T) {
	rc := containers.NewRedisContainer(t)
	suite.Run(t, &kvContractSuite{newKV: func() KV {
		require.NoError(t, rc.FlushAll(context.Background()))
		return NewRedis(rc.Client)
	}})
}

func TestPostgresKV(t *testing.T) {
	pc := containers.NewPostgresContainer(t)
	kv, err := NewPostgres(pc.DB, "kv_store_it")
	require.NoError(t, err)
	require.NoError(t, kv.Migrate(context.Background()))

	suite.Run(t, &kvContractSuite{newKV: func() KV {
		require.NoError(t, pc.Truncate(context.Background(), "kv_store_it"))
		return kv
	}})
}
