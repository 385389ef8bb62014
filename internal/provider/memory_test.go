package provider

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plughost/credhub/internal/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestMemoryProvider_SaveRead(t *testing.T) {
	mem := NewMemoryProvider(testLogger())
	ctx := context.Background()

	cred := models.NewCredential("test_namespace|test_id", "hunter2")
	require.NoError(t, mem.Save(ctx, cred.ID, cred))

	got, err := mem.Read(ctx, "test_namespace|test_id")
	require.NoError(t, err)
	assert.Equal(t, "test_namespace|test_id", got.ID)
	assert.Equal(t, "hunter2", got.Secret)
}

func TestMemoryProvider_ReadReturnsCopy(t *testing.T) {
	mem := NewMemoryProvider(testLogger())
	ctx := context.Background()

	cred := models.NewCredential("ns|id", "original")
	require.NoError(t, mem.Save(ctx, cred.ID, cred))

	// Mutating the caller's credential after Save changes nothing
	cred.Secret = "mutated-after-save"

	first, err := mem.Read(ctx, "ns|id")
	require.NoError(t, err)
	first.Secret = "mutated-after-read"

	second, err := mem.Read(ctx, "ns|id")
	require.NoError(t, err)
	assert.Equal(t, "original", second.Secret)
}

func TestMemoryProvider_ReadMissing(t *testing.T) {
	mem := NewMemoryProvider(testLogger())

	_, err := mem.Read(context.Background(), "missing|key")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryProvider_DeleteIdempotent(t *testing.T) {
	mem := NewMemoryProvider(testLogger())
	ctx := context.Background()

	cred := models.NewCredential("ns|id", "secret")
	require.NoError(t, mem.Save(ctx, cred.ID, cred))

	require.NoError(t, mem.Delete(ctx, "ns|id"))
	assert.False(t, mem.Has("ns|id"))

	// Second delete of the same key still succeeds
	assert.NoError(t, mem.Delete(ctx, "ns|id"))
}

func TestMemoryProvider_Keys(t *testing.T) {
	mem := NewMemoryProvider(testLogger())
	ctx := context.Background()

	for _, key := range []string{"b|2", "a|1", "c|3"} {
		require.NoError(t, mem.Save(ctx, key, models.NewCredential(key, "x")))
	}

	keys, err := mem.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a|1", "b|2", "c|3"}, keys)
}
