package badger

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docrep/docrep/pkg/blob"
)

var testHandle = strings.Repeat("ef", 32)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := New(Config{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestPutGetDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, testHandle, []byte("ciphertext")))

	data, err := s.Get(ctx, testHandle)
	require.NoError(t, err)
	assert.Equal(t, []byte("ciphertext"), data)

	require.NoError(t, s.Delete(ctx, testHandle))
	_, err = s.Get(ctx, testHandle)
	assert.ErrorIs(t, err, blob.ErrNotFound)

	require.NoError(t, s.Delete(ctx, testHandle))
}

func TestPersistenceAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := New(Config{Path: dir})
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, testHandle, []byte("durable")))
	require.NoError(t, s.Close())

	s, err = New(Config{Path: dir})
	require.NoError(t, err)
	defer s.Close()

	data, err := s.Get(ctx, testHandle)
	require.NoError(t, err)
	assert.Equal(t, []byte("durable"), data)
}

func TestClosed(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Close())
	assert.ErrorIs(t, s.Put(ctx, testHandle, nil), blob.ErrStoreClosed)
	_, err := s.Get(ctx, testHandle)
	assert.ErrorIs(t, err, blob.ErrStoreClosed)

	// Closing twice is fine.
	require.NoError(t, s.Close())
}

func TestHealthCheck(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.HealthCheck(context.Background()))
}
