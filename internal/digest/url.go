package digest

import (
	"fmt"
	"net/url"
	"strings"
)

// NormalizeLocator validates and canonicalizes a raw locator string. It
// strips the leading "@" artifact some callers prepend, requires an absolute
// http(s) URL, and rewrites http to https leaving host, path, and query
// untouched. The returned string is used uniformly as cache key and fetch
// target. Pure function; never spawns a process.
func NormalizeLocator(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.TrimPrefix(trimmed, "@")

	u, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidLocator, err)
	}
	switch u.Scheme {
	case "https":
	case "http":
		u.Scheme = "https"
	default:
		return "", fmt.Errorf("%w: unsupported scheme %q", ErrInvalidLocator, u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%w: missing host", ErrInvalidLocator)
	}
	return u.String(), nil
}
