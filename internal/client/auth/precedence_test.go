package auth

import (
	"testing"
)

func TestResolveToken_FlagTakesPriority(t *testing.T) {
	t.Setenv(TokenEnvVar, "env:token")

	token, err := ResolveToken("flag:token")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token != "flag:token" {
		t.Errorf("expected flag token, got %q", token)
	}
}

func TestResolveToken_EnvVarFallback(t *testing.T) {
	t.Setenv(TokenEnvVar, "env:token")

	token, err := ResolveToken("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token != "env:token" {
		t.Errorf("expected env token, got %q", token)
	}
}
