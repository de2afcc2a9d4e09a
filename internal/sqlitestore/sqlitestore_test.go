package sqlitestore_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/temifoden/alx-backend-storage/internal/sqlitestore"
)

func newTestStore(t *testing.T, prefix string) *sqlitestore.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "storage.db")
	s, err := sqlitestore.Open(context.Background(), path, sqlitestore.Options{KeyPrefix: prefix})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLite_SetGet(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, "")

	require.NoError(t, s.Set(ctx, "k1", []byte("foo")))
	require.NoError(t, s.Set(ctx, "k1", []byte("bar")))
	got, ok, err := s.Get(ctx, "k1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("bar"), got)

	_, ok, err = s.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSQLite_Incr(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, "")

	for want := int64(1); want <= 3; want++ {
		n, err := s.Incr(ctx, "Cache.Store")
		require.NoError(t, err)
		assert.Equal(t, want, n)
	}
	got, _, err := s.Get(ctx, "Cache.Store")
	require.NoError(t, err)
	assert.Equal(t, "3", string(got))

	require.NoError(t, s.Set(ctx, "text", []byte("abc")))
	_, err = s.Incr(ctx, "text")
	require.ErrorIs(t, err, sqlitestore.ErrNotInteger)

	// The failed increment must not have touched the value.
	got, _, err = s.Get(ctx, "text")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func TestSQLite_RPushLRange(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, "")

	for _, v := range []string{"a", "b", "c"} {
		require.NoError(t, s.RPush(ctx, "log", v))
	}
	got, err := s.LRange(ctx, "log")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, got)

	empty, err := s.LRange(ctx, "nolog")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestSQLite_Flush(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, "")

	require.NoError(t, s.Set(ctx, "a", []byte("1")))
	require.NoError(t, s.RPush(ctx, "b", "x"))
	require.NoError(t, s.Flush(ctx))

	_, ok, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)
	list, err := s.LRange(ctx, "b")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestSQLite_FlushPrefix(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "shared.db")

	app, err := sqlitestore.Open(ctx, path, sqlitestore.Options{KeyPrefix: "app"})
	require.NoError(t, err)
	defer app.Close()
	other, err := sqlitestore.Open(ctx, path, sqlitestore.Options{KeyPrefix: "other"})
	require.NoError(t, err)
	defer other.Close()

	require.NoError(t, app.Set(ctx, "k", []byte("1")))
	require.NoError(t, other.Set(ctx, "k", []byte("2")))
	require.NoError(t, app.Flush(ctx))

	_, ok, err := app.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
	got, ok, err := other.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("2"), got)
}

func TestSQLite_FlushPrefix_NonASCII(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "shared.db")

	cafe, err := sqlitestore.Open(ctx, path, sqlitestore.Options{KeyPrefix: "café"})
	require.NoError(t, err)
	defer cafe.Close()
	near, err := sqlitestore.Open(ctx, path, sqlitestore.Options{KeyPrefix: "cafés"})
	require.NoError(t, err)
	defer near.Close()

	require.NoError(t, cafe.Set(ctx, "k", []byte("1")))
	require.NoError(t, cafe.RPush(ctx, "l", "x"))
	require.NoError(t, near.Set(ctx, "k", []byte("2")))
	require.NoError(t, cafe.Flush(ctx))

	_, ok, err := cafe.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
	items, err := cafe.LRange(ctx, "l")
	require.NoError(t, err)
	assert.Empty(t, items)
	_, ok, err = near.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSQLite_Ping(t *testing.T) {
	s := newTestStore(t, "")
	assert.NoError(t, s.Ping(context.Background()))
}
