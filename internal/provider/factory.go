package provider

import (
	"fmt"
	"log/slog"
)

// New creates a credential provider based on the URI scheme:
//   - mem://                      -> MemoryProvider
//   - file://<path>               -> FileProvider
//   - s3://<endpoint>/<bucket>/<key> -> S3Provider (token ACCESS_KEY:SECRET_KEY)
//   - keyring://<service>         -> KeyringProvider
//   - bao://<host>/<mount>        -> BaoProvider (requires token)
//
// sealer applies to blob-backed providers (file, s3); keyring and bao
// backends encrypt on their own side.
func New(uri *URI, token string, sealer *Sealer, logger *slog.Logger) (Provider, error) {
	switch uri.Scheme {
	case "mem":
		return NewMemoryProvider(logger), nil

	case "file":
		if token != "" {
			logger.Warn("Provider token provided but file provider does not use authentication",
				"file_path", uri.Path)
		}
		return NewFileProvider(uri.Path, sealer, logger)

	case "s3", "s3+http":
		return NewS3Provider(uri, token, sealer, logger)

	case "keyring":
		return NewKeyringProvider(uri.Host, logger), nil

	case "bao":
		if token == "" {
			return nil, fmt.Errorf("%w: bao provider requires authentication token (--provider-token or CREDHUB_PROVIDER_TOKEN)", ErrTokenRequired)
		}
		return NewBaoProvider(uri, token, logger)

	default:
		return nil, fmt.Errorf("unsupported provider scheme: %s", uri.Scheme)
	}
}
