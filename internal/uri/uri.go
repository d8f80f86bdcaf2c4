// Package uri builds GitHub contents and raw-content URLs for writeups.
package uri

import (
	"net/url"
	"strings"
)

// EscapePath URI encodes each segment of a repository path, keeping slashes
// as slashes.
func EscapePath(path string) string {
	cleanPath := strings.Trim(path, "/")
	if cleanPath == "" {
		return ""
	}

	parts := strings.Split(cleanPath, "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return strings.Join(parts, "/")
}

// ContentsURL returns the contents API URL for path. An empty path addresses
// the repository root.
func ContentsURL(apiBase, owner, repo, path string) string {
	base := strings.TrimSuffix(apiBase, "/") + "/repos/" +
		url.PathEscape(owner) + "/" + url.PathEscape(repo) + "/contents"
	return base + "/" + EscapePath(path)
}

// RawURL returns the raw content URL for path on branch.
func RawURL(rawBase, owner, repo, branch, path string) string {
	return strings.TrimSuffix(rawBase, "/") + "/" +
		url.PathEscape(owner) + "/" + url.PathEscape(repo) + "/" +
		EscapePath(branch) + "/" + EscapePath(path)
}

// WriteupPath returns the repository path of a writeup identified by its
// platform and extensionless name.
func WriteupPath(platform, name, ext string) string {
	return strings.Trim(platform, "/") + "/" + name + ext
}

// PageURL returns the site-relative URL for the given path segments.
func PageURL(segments ...string) string {
	escaped := make([]string, 0, len(segments))
	for _, s := range segments {
		escaped = append(escaped, url.PathEscape(s))
	}
	return "/" + strings.Join(escaped, "/")
}
