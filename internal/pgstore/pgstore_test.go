package pgstore_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	testcontainers "github.com/testcontainers/testcontainers-go"
	tcpg "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/temifoden/alx-backend-storage/internal/pgstore"
)

const (
	pgTestImage = "postgres:16-alpine"
	pgTestDB    = "storagetest"
	pgTestUser  = "storagetest"
	pgTestPass  = "storagetest"
)

// newPGStore starts a Postgres container and opens a migrated Store on it.
// Skips if Docker is unavailable.
func newPGStore(t *testing.T, prefix string) *pgstore.Store {
	t.Helper()
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	pgc, err := tcpg.Run(ctx, pgTestImage,
		tcpg.WithDatabase(pgTestDB),
		tcpg.WithUsername(pgTestUser),
		tcpg.WithPassword(pgTestPass),
		tcpg.BasicWaitStrategies(),
	)
	require.NoError(t, err, "start postgres container")

	dsn, err := pgc.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	s, err := pgstore.Open(ctx, dsn, pgstore.Options{KeyPrefix: prefix}, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = s.Close()
		_ = pgc.Terminate(ctx)
	})
	return s
}

func TestPG_SetGetIncrLists(t *testing.T) {
	s := newPGStore(t, "")
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k1", []byte("foo")))
	got, ok, err := s.Get(ctx, "k1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("foo"), got)

	_, ok, err = s.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	for want := int64(1); want <= 3; want++ {
		n, err := s.Incr(ctx, "Cache.Store")
		require.NoError(t, err)
		assert.Equal(t, want, n)
	}
	counter, _, err := s.Get(ctx, "Cache.Store")
	require.NoError(t, err)
	assert.Equal(t, "3", string(counter))

	_, err = s.Incr(ctx, "k1")
	assert.Error(t, err, "incr on non-integer value must fail")

	for _, v := range []string{"a", "b", "c"} {
		require.NoError(t, s.RPush(ctx, "log", v))
	}
	list, err := s.LRange(ctx, "log")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, list)

	empty, err := s.LRange(ctx, "nolog")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestPG_MigrateIdempotent(t *testing.T) {
	s := newPGStore(t, "")
	require.NoError(t, s.Migrate(context.Background()))
	require.NoError(t, s.Ping(context.Background()))
}

func TestPG_FlushPrefix(t *testing.T) {
	s := newPGStore(t, "app")
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []byte("v")))
	require.NoError(t, s.RPush(ctx, "l", "x"))
	_, err := s.Pool().Exec(ctx, "INSERT INTO storage_kv (key, value) VALUES ('foreign', 'keep')")
	require.NoError(t, err)

	require.NoError(t, s.Flush(ctx))

	_, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
	list, err := s.LRange(ctx, "l")
	require.NoError(t, err)
	assert.Empty(t, list)

	var n int
	require.NoError(t, s.Pool().QueryRow(ctx, "SELECT COUNT(*) FROM storage_kv").Scan(&n))
	assert.Equal(t, 1, n)
}
