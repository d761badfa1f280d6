package utils

import "strings"

// StringPtr returns a pointer to s
func StringPtr(s string) *string {
	return &s
}

// NonEmpty returns nil for blank strings and a pointer otherwise
func NonEmpty(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

// ForceHTTPS rewrites an http:// URL to https://
func ForceHTTPS(rawURL string) string {
	if strings.HasPrefix(rawURL, "http://") {
		return "https://" + strings.TrimPrefix(rawURL, "http://")
	}
	return rawURL
}

// ImageURL joins an image CDN prefix and a path, returning nil when path is empty
func ImageURL(prefix string, path *string) *string {
	if path == nil || *path == "" {
		return nil
	}
	return StringPtr(prefix + *path)
}
