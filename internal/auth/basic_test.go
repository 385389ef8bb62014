package auth

import (
	"fmt"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeUsersFile(t *testing.T, username, password string) string {
	t.Helper()

	hash, err := HashPassword(password)
	require.NoError(t, err)

	content := fmt.Sprintf("users:\n  - username: %s\n    password: %q\n", username, hash)
	path := filepath.Join(t.TempDir(), "users.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestBasicAuth_Authenticate(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	usersFile := writeUsersFile(t, "alice", "s3cret")

	ba, err := NewBasicAuth(usersFile, logger)
	require.NoError(t, err)

	tests := []struct {
		name      string
		username  string
		password  string
		wantError bool
	}{
		{name: "valid credentials", username: "alice", password: "s3cret"},
		{name: "wrong password", username: "alice", password: "wrong", wantError: true},
		{name: "unknown user", username: "bob", password: "s3cret", wantError: true},
		{name: "missing credentials", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/v1/whoami", nil)
			if tt.username != "" {
				req.SetBasicAuth(tt.username, tt.password)
			}

			user, err := ba.Authenticate(req)
			if tt.wantError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.username, user.Username)
		})
	}
}

func TestNewBasicAuth_MissingFile(t *testing.T) {
	logger := slog.Default()
	_, err := NewBasicAuth("/nonexistent/users.yaml", logger)
	assert.Error(t, err)
}

func TestNoAuth_Authenticate(t *testing.T) {
	na := NewNoAuth()
	req := httptest.NewRequest("GET", "/", nil)

	user, err := na.Authenticate(req)
	require.NoError(t, err)
	assert.Equal(t, "anonymous", user.Username)
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("password")
	require.NoError(t, err)
	assert.NotEqual(t, "password", hash)
	assert.Contains(t, hash, "$2a$")
}
