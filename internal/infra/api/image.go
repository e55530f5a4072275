package api

import (
	"regexp"
	"strings"
)

var absoluteURL = regexp.MustCompile(`(?i)^https?://`)

// ResolveImageURL makes a backend image path absolute. Absolute http(s) URLs
// are returned unchanged; relative paths are joined to the backend origin,
// which is the base URL without its trailing "/api".
func (c *Client) ResolveImageURL(path string) string {
	return ResolveImageURL(c.baseURL, path)
}

// ResolveImageURL resolves path against the origin of base.
func ResolveImageURL(base, path string) string {
	if path == "" {
		return ""
	}
	if absoluteURL.MatchString(path) {
		return path
	}

	origin := strings.TrimSuffix(strings.TrimRight(base, "/"), "/api")

	return origin + "/" + strings.TrimLeft(path, "/")
}
