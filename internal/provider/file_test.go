package provider

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plughost/credhub/internal/models"
)

func newTestFileProvider(t *testing.T, sealer *Sealer) (*FileProvider, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vault.json")
	fp, err := NewFileProvider(path, sealer, testLogger())
	require.NoError(t, err)
	return fp, path
}

func TestFileProvider_CreatesEmptyVault(t *testing.T) {
	_, path := newTestFileProvider(t, nil)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "credentials")
}

func TestFileProvider_SaveReadDelete(t *testing.T) {
	fp, _ := newTestFileProvider(t, nil)
	ctx := context.Background()

	cred := models.NewCredential("test_namespace|test_id", "s3cret")
	require.NoError(t, fp.Save(ctx, cred.ID, cred))

	got, err := fp.Read(ctx, "test_namespace|test_id")
	require.NoError(t, err)
	assert.Equal(t, "s3cret", got.Secret)

	require.NoError(t, fp.Delete(ctx, "test_namespace|test_id"))
	_, err = fp.Read(ctx, "test_namespace|test_id")
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting again succeeds without touching the file
	assert.NoError(t, fp.Delete(ctx, "test_namespace|test_id"))
}

func TestFileProvider_PersistsAcrossReopen(t *testing.T) {
	fp, path := newTestFileProvider(t, nil)
	ctx := context.Background()

	cred := models.NewCredential("ns|id", "durable")
	require.NoError(t, fp.Save(ctx, cred.ID, cred))

	// Reopen the same vault file
	fp2, err := NewFileProvider(path, nil, testLogger())
	require.NoError(t, err)

	got, err := fp2.Read(ctx, "ns|id")
	require.NoError(t, err)
	assert.Equal(t, "durable", got.Secret)
}

func TestFileProvider_SealedVaultHidesPlaintext(t *testing.T) {
	sealer, err := NewSealerFromPassphrase("correct horse battery staple")
	require.NoError(t, err)

	fp, path := newTestFileProvider(t, sealer)
	ctx := context.Background()

	cred := models.NewCredential("ns|id", "super-secret-password")
	require.NoError(t, fp.Save(ctx, cred.ID, cred))

	// Plaintext must not appear on disk
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "super-secret-password")

	// Reads unseal transparently
	got, err := fp.Read(ctx, "ns|id")
	require.NoError(t, err)
	assert.Equal(t, "super-secret-password", got.Secret)
}

func TestFileProvider_SealedVaultWrongKey(t *testing.T) {
	sealer, err := NewSealerFromPassphrase("right key")
	require.NoError(t, err)
	fp, path := newTestFileProvider(t, sealer)
	ctx := context.Background()

	cred := models.NewCredential("ns|id", "secret")
	require.NoError(t, fp.Save(ctx, cred.ID, cred))

	wrong, err := NewSealerFromPassphrase("wrong key")
	require.NoError(t, err)
	fp2, err := NewFileProvider(path, wrong, testLogger())
	require.NoError(t, err)

	_, err = fp2.Read(ctx, "ns|id")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestFileProvider_Keys(t *testing.T) {
	fp, _ := newTestFileProvider(t, nil)
	ctx := context.Background()

	for _, key := range []string{"ns|b", "ns|a"} {
		require.NoError(t, fp.Save(ctx, key, models.NewCredential(key, "x")))
	}

	keys, err := fp.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"ns|a", "ns|b"}, keys)
}
