package media

import (
	"fmt"
	"net/url"
	"path/filepath"
)

// FileURL returns the file:// URL for path, made absolute first.
func FileURL(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	return u.String()
}

// PathFromURL returns the local path a file:// URL points at. Bare paths
// are returned unchanged.
func PathFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parsing track url: %w", err)
	}
	switch u.Scheme {
	case "":
		return raw, nil
	case "file":
		return filepath.FromSlash(u.Path), nil
	default:
		return "", fmt.Errorf("unsupported track url scheme %q", u.Scheme)
	}
}
