package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseBackend runs the behaviour every Backend must share.
func exerciseBackend(t *testing.T, b Backend) {
	t.Helper()
	ctx := context.Background()

	_, err := b.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, b.Put(ctx, "k", []byte("первый")))
	got, err := b.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "первый", string(got))

	require.NoError(t, b.Put(ctx, "k", []byte("второй")))
	got, err = b.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "второй", string(got))
}

func TestMemoryBackend(t *testing.T) {
	exerciseBackend(t, NewMemoryBackend())
}

func TestMemoryBackend_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBackend()
	value := []byte("abc")

	require.NoError(t, b.Put(ctx, "k", value))
	value[0] = 'x'
	got, err := b.Get(ctx, "k")
	require.NoError(t, err)
	got[1] = 'y'

	again, err := b.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(again))
}

func TestSQLiteBackend(t *testing.T) {
	b, err := NewSQLiteBackend(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	defer b.Close()

	exerciseBackend(t, b)
}

func TestSQLiteBackend_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cache.db")

	first, err := NewSQLiteBackend(path)
	require.NoError(t, err)
	NewObservationCache(first).Save(ctx, moscow)
	require.NoError(t, first.Close())

	second, err := NewSQLiteBackend(path)
	require.NoError(t, err)
	defer second.Close()

	got, ok := NewObservationCache(second).Load(ctx)
	require.True(t, ok)
	assert.Equal(t, moscow, got)
}

func TestRedisBackend(t *testing.T) {
	mr := miniredis.RunT(t)

	b, err := NewRedisBackend(mr.Addr(), "", 0)
	require.NoError(t, err)
	defer b.Close()

	exerciseBackend(t, b)
	assert.Zero(t, mr.TTL("k"))
}

func TestRedisBackend_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedisBackend(addr, "", 0)

	assert.Error(t, err)
}
