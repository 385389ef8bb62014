package auth

// This file documents the shared credential management functions.
// Platform-specific implementations are in:
// - file.go (Linux)
// - keyring_darwin.go (macOS)

// LoadStoredURL is implemented in platform-specific files
// LoadStoredToken is implemented in platform-specific files
// SaveCredentials is implemented in platform-specific files
// DeleteCredentials is implemented in platform-specific files
