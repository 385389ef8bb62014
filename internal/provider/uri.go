package provider

import (
	"fmt"
	"net/url"
	"strings"
)

// SupportedSchemes lists all currently supported provider URI schemes
var SupportedSchemes = []string{"mem", "file", "s3", "s3+http", "keyring", "bao"}

// URI represents a parsed credential provider URI
type URI struct {
	Scheme string // Provider backend type (e.g. "file", "s3", "bao")
	Host   string // Host for network backends (empty for mem/file)
	Path   string // Path to the backing resource
	Query  url.Values
	Raw    string // Original URI string for logging/debugging
}

// NormalizeURI ensures the URI has a scheme, prepending "file://" if missing
func NormalizeURI(uri string) string {
	if uri == "" {
		return uri
	}
	if !strings.Contains(uri, "://") {
		return "file://" + uri
	}
	return uri
}

// ParseURI parses a provider URI string into its components
func ParseURI(uri string) (*URI, error) {
	if uri == "" {
		return nil, fmt.Errorf("provider URI cannot be empty")
	}

	normalized := NormalizeURI(uri)

	parsed, err := url.Parse(normalized)
	if err != nil {
		return nil, fmt.Errorf("invalid URI format: %w", err)
	}

	if parsed.Scheme == "" {
		return nil, fmt.Errorf("URI must have a scheme (e.g. file://)")
	}
	if err := validateScheme(parsed.Scheme); err != nil {
		return nil, err
	}

	path := parsed.Path
	switch parsed.Scheme {
	case "mem":
		// mem:// takes no path
		path = ""

	case "file":
		// Relative paths land in Opaque or in Host for file://./path
		if path == "" && parsed.Opaque != "" {
			path = parsed.Opaque
		}
		if parsed.Host == "." && strings.HasPrefix(path, "/") {
			path = "./" + strings.TrimPrefix(path, "/")
		}
		if path == "" {
			return nil, fmt.Errorf("file URI must have a path")
		}

	case "keyring":
		// keyring://<service>
		if parsed.Host == "" {
			return nil, fmt.Errorf("keyring URI must include a service name: keyring://<service>")
		}

	case "s3", "s3+http":
		// s3://<endpoint>/<bucket>/<key...>
		if parsed.Host == "" {
			return nil, fmt.Errorf("S3 URI must include an endpoint: s3://<endpoint>/<bucket>/<key>")
		}
		trimmed := strings.TrimPrefix(path, "/")
		if !strings.Contains(trimmed, "/") {
			return nil, fmt.Errorf("S3 URI must include bucket and key: s3://<endpoint>/<bucket>/<key>")
		}
		path = trimmed

	case "bao":
		// bao://<host>/<mount>[/prefix]
		if parsed.Host == "" {
			return nil, fmt.Errorf("bao URI must include a server host: bao://<host>/<mount>")
		}
		trimmed := strings.TrimPrefix(path, "/")
		if trimmed == "" {
			return nil, fmt.Errorf("bao URI must include a KV mount: bao://<host>/<mount>")
		}
		path = trimmed
	}

	return &URI{
		Scheme: parsed.Scheme,
		Host:   parsed.Host,
		Path:   path,
		Query:  parsed.Query(),
		Raw:    uri,
	}, nil
}

// validateScheme checks if the scheme is supported
func validateScheme(scheme string) error {
	for _, s := range SupportedSchemes {
		if scheme == s {
			return nil
		}
	}
	return fmt.Errorf("unsupported provider scheme %q; supported schemes: %s",
		scheme, strings.Join(SupportedSchemes, ", "))
}

// IsS3Scheme returns true for s3:// and s3+http:// URIs
func (u *URI) IsS3Scheme() bool {
	return u.Scheme == "s3" || u.Scheme == "s3+http"
}

// S3Endpoint returns the S3 endpoint host
func (u *URI) S3Endpoint() string {
	return u.Host
}

// S3Bucket returns the bucket component of an S3 URI
func (u *URI) S3Bucket() string {
	bucket, _, _ := strings.Cut(u.Path, "/")
	return bucket
}

// S3Key returns the object key component of an S3 URI
func (u *URI) S3Key() string {
	_, key, _ := strings.Cut(u.Path, "/")
	return key
}

// S3UseSSL returns true unless the s3+http scheme was used
func (u *URI) S3UseSSL() bool {
	return u.Scheme != "s3+http"
}

// S3Region returns the region query parameter, if any
func (u *URI) S3Region() string {
	return u.Query.Get("region")
}

// BaoMount returns the KV v2 mount of a bao URI
func (u *URI) BaoMount() string {
	mount, _, _ := strings.Cut(u.Path, "/")
	return mount
}

// BaoPrefix returns the optional path prefix of a bao URI
func (u *URI) BaoPrefix() string {
	_, prefix, _ := strings.Cut(u.Path, "/")
	return prefix
}

// BaoUseTLS returns false when the tls=off query parameter is set
func (u *URI) BaoUseTLS() bool {
	return u.Query.Get("tls") != "off"
}

// String returns the original URI string
func (u *URI) String() string {
	return u.Raw
}
