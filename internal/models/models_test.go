package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNamespacedID(t *testing.T) {
	assert.Equal(t, "test_namespace|test_id", NamespacedID("test_namespace", "test_id"))
}

func TestSplitNamespacedID(t *testing.T) {
	namespace, id, ok := SplitNamespacedID("test_namespace|test_id")
	assert.True(t, ok)
	assert.Equal(t, "test_namespace", namespace)
	assert.Equal(t, "test_id", id)

	_, _, ok = SplitNamespacedID("no_separator")
	assert.False(t, ok)
}

func TestValidateNamespace(t *testing.T) {
	tests := []struct {
		name      string
		namespace string
		wantErr   bool
	}{
		{"valid", "test_namespace", false},
		{"empty", "", true},
		{"whitespace only", "   ", true},
		{"tab only", "\t", true},
		{"contains separator", "bad|namespace", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNamespace(tt.namespace)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateCredentialID(t *testing.T) {
	assert.NoError(t, ValidateCredentialID("test_id"))
	assert.Error(t, ValidateCredentialID(""))
}

func TestValidateSecret(t *testing.T) {
	assert.NoError(t, ValidateSecret(""))
	assert.NoError(t, ValidateSecret("test_password"))
	assert.Error(t, ValidateSecret(string(make([]byte, 64*1024+1))))
}
