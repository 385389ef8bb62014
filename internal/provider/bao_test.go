package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plughost/credhub/internal/models"
)

// fakeBao is a minimal KV v2 server covering the endpoints the provider uses
type fakeBao struct {
	mu      sync.Mutex
	secrets map[string]map[string]string
	token   string
}

func newFakeBao(token string) *fakeBao {
	return &fakeBao{
		secrets: make(map[string]map[string]string),
		token:   token,
	}
}

func (f *fakeBao) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Vault-Token") != f.token {
			w.WriteHeader(http.StatusForbidden)
			return
		}

		f.mu.Lock()
		defer f.mu.Unlock()

		// Keep percent-escaping intact so composite keys stay distinct
		path := r.URL.EscapedPath()

		switch {
		case strings.HasPrefix(path, "/v1/secret/data/"):
			key := strings.TrimPrefix(path, "/v1/secret/data/")
			switch r.Method {
			case http.MethodGet:
				data, ok := f.secrets[key]
				if !ok {
					w.WriteHeader(http.StatusNotFound)
					return
				}
				json.NewEncoder(w).Encode(map[string]any{
					"data": map[string]any{"data": data},
				})
			case http.MethodPost:
				var payload struct {
					Data map[string]string `json:"data"`
				}
				if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
					w.WriteHeader(http.StatusBadRequest)
					return
				}
				f.secrets[key] = payload.Data
				w.WriteHeader(http.StatusOK)
			}

		case strings.HasPrefix(path, "/v1/secret/metadata/"):
			key := strings.TrimPrefix(path, "/v1/secret/metadata/")
			switch r.Method {
			case http.MethodDelete:
				if _, ok := f.secrets[key]; !ok {
					w.WriteHeader(http.StatusNotFound)
					return
				}
				delete(f.secrets, key)
				w.WriteHeader(http.StatusNoContent)
			case http.MethodGet:
				if r.URL.Query().Get("list") != "true" {
					w.WriteHeader(http.StatusBadRequest)
					return
				}
				prefix := key + "/"
				var keys []string
				for k := range f.secrets {
					if strings.HasPrefix(k, prefix) {
						keys = append(keys, strings.TrimPrefix(k, prefix))
					}
				}
				json.NewEncoder(w).Encode(map[string]any{
					"data": map[string]any{"keys": keys},
				})
			}

		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
}

func newTestBaoProvider(t *testing.T) (*BaoProvider, *fakeBao) {
	t.Helper()
	fake := newFakeBao("test-token")
	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)

	host := strings.TrimPrefix(srv.URL, "http://")
	uri, err := ParseURI(fmt.Sprintf("bao://%s/secret/credhub?tls=off", host))
	require.NoError(t, err)

	bp, err := NewBaoProvider(uri, "test-token", testLogger())
	require.NoError(t, err)
	return bp, fake
}

func TestBaoProvider_SaveReadDelete(t *testing.T) {
	bp, _ := newTestBaoProvider(t)
	ctx := context.Background()

	cred := models.NewCredential("test_namespace|test_id", "bao-secret")
	require.NoError(t, bp.Save(ctx, cred.ID, cred))

	got, err := bp.Read(ctx, "test_namespace|test_id")
	require.NoError(t, err)
	assert.Equal(t, "test_namespace|test_id", got.ID)
	assert.Equal(t, "bao-secret", got.Secret)

	require.NoError(t, bp.Delete(ctx, "test_namespace|test_id"))
	_, err = bp.Read(ctx, "test_namespace|test_id")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBaoProvider_DeleteAbsent(t *testing.T) {
	bp, _ := newTestBaoProvider(t)

	// 404 from the metadata endpoint maps to success
	assert.NoError(t, bp.Delete(context.Background(), "never|stored"))
}

func TestBaoProvider_ReadMissing(t *testing.T) {
	bp, _ := newTestBaoProvider(t)

	_, err := bp.Read(context.Background(), "missing|key")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBaoProvider_EscapesCompositeKeys(t *testing.T) {
	bp, fake := newTestBaoProvider(t)
	ctx := context.Background()

	cred := models.NewCredential("ns|some id", "x")
	require.NoError(t, bp.Save(ctx, cred.ID, cred))

	fake.mu.Lock()
	_, exists := fake.secrets["credhub/"+url.PathEscape("ns|some id")]
	fake.mu.Unlock()
	assert.True(t, exists)
}

func TestBaoProvider_Keys(t *testing.T) {
	bp, _ := newTestBaoProvider(t)
	ctx := context.Background()

	for _, key := range []string{"ns|a", "ns|b"} {
		require.NoError(t, bp.Save(ctx, key, models.NewCredential(key, "x")))
	}

	keys, err := bp.Keys(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"ns|a", "ns|b"}, keys)
}

func TestBaoProvider_BadToken(t *testing.T) {
	fake := newFakeBao("right-token")
	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)

	host := strings.TrimPrefix(srv.URL, "http://")
	uri, err := ParseURI(fmt.Sprintf("bao://%s/secret/credhub?tls=off", host))
	require.NoError(t, err)

	bp, err := NewBaoProvider(uri, "wrong-token", testLogger())
	require.NoError(t, err)

	err = bp.Save(context.Background(), "ns|id", models.NewCredential("ns|id", "x"))
	assert.ErrorIs(t, err, ErrUnavailable)
}
