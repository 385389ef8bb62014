package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/plughost/credhub/internal/auth"
)

func TestWhoamiHandler_GetWhoami(t *testing.T) {
	logger := slog.Default()

	tests := []struct {
		name           string
		authType       string
		username       string
		password       string
		expectStatus   int
		expectUsername string
	}{
		{
			name:           "successful authentication",
			authType:       "basic",
			username:       "testuser",
			password:       "testpass",
			expectStatus:   http.StatusOK,
			expectUsername: "testuser",
		},
		{
			name:         "no authentication",
			authType:     "basic",
			expectStatus: http.StatusUnauthorized,
		},
		{
			name:         "invalid credentials",
			authType:     "basic",
			username:     "wronguser",
			password:     "wrongpass",
			expectStatus: http.StatusUnauthorized,
		},
		{
			name:           "no auth mode - anyone can authenticate",
			authType:       "none",
			expectStatus:   http.StatusOK,
			expectUsername: "anonymous",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var authenticator auth.Authenticator
			if tt.authType == "none" {
				authenticator = auth.NewNoAuth()
			} else {
				authenticator = &mockAuthenticator{
					validUsername: "testuser",
					validPassword: "testpass",
				}
			}

			handler := NewWhoamiHandler(authenticator, logger)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/whoami", nil)
			if tt.username != "" && tt.password != "" {
				req.SetBasicAuth(tt.username, tt.password)
			}

			rr := httptest.NewRecorder()
			handler.GetWhoami(rr, req)

			if rr.Code != tt.expectStatus {
				t.Errorf("handler returned wrong status code: got %v want %v", rr.Code, tt.expectStatus)
			}

			if tt.expectStatus == http.StatusOK {
				var response WhoamiResponse
				if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
					t.Fatalf("failed to decode response: %v", err)
				}

				if response.Username != tt.expectUsername {
					t.Errorf("handler returned wrong username: got %v want %v", response.Username, tt.expectUsername)
				}
			}

			if tt.expectStatus == http.StatusUnauthorized {
				wwwAuth := rr.Header().Get("WWW-Authenticate")
				if wwwAuth != `Basic realm="Credhub"` {
					t.Errorf("handler returned wrong WWW-Authenticate header: got %v", wwwAuth)
				}
			}
		})
	}
}

// mockAuthenticator is a simple mock for testing
type mockAuthenticator struct {
	validUsername string
	validPassword string
}

func (m *mockAuthenticator) Authenticate(r *http.Request) (*auth.User, error) {
	username, password, ok := r.BasicAuth()
	if !ok || username != m.validUsername || password != m.validPassword {
		return nil, fmt.Errorf("invalid credentials")
	}
	return &auth.User{Username: username}, nil
}

func (m *mockAuthenticator) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return next
	}
}
