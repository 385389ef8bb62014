package models

import "strings"

// Separator joins a namespace id and a caller-supplied credential id
// into the composite storage key.
const Separator = "|"

// Credential represents a stored secret. ID carries the composite
// namespaced id once the credential has been stored.
type Credential struct {
	ID     string `json:"credential_id"`
	Secret string `json:"password"`
}

// NewCredential creates a credential under the given composite key
func NewCredential(namespacedID, secret string) *Credential {
	return &Credential{
		ID:     namespacedID,
		Secret: secret,
	}
}

// NamespacedID builds the composite storage key for a credential
func NamespacedID(namespace, id string) string {
	return namespace + Separator + id
}

// SplitNamespacedID splits a composite key back into namespace and id.
// The namespace never contains the separator, so the first occurrence wins.
func SplitNamespacedID(key string) (namespace, id string, ok bool) {
	namespace, id, ok = strings.Cut(key, Separator)
	return namespace, id, ok
}

// Vault is the root persistence structure for blob-backed providers
type Vault struct {
	Credentials map[string]*Credential `json:"credentials"`
}

// NewVault creates an empty vault
func NewVault() *Vault {
	return &Vault{
		Credentials: make(map[string]*Credential),
	}
}
