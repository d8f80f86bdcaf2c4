// Package pathfilter decides which repository entries are platforms and
// which are writeups.
package pathfilter

import (
	"regexp"
	"strings"

	"github.com/taigrr/ctf-writeups/internal/types"
)

// DefaultExtension is the file extension of a writeup.
const DefaultExtension = ".md"

// PathFilter classifies repository entries.
type PathFilter struct {
	ignored           []*regexp.Regexp
	allowedExtensions []string
}

// New creates a new PathFilter with the given configuration. With a nil
// config only the markdown extension is allowed and nothing is ignored.
func New(config *types.PathFilterConfig) *PathFilter {
	pf := &PathFilter{
		allowedExtensions: []string{DefaultExtension},
	}

	if config != nil {
		for _, pattern := range config.IgnoredPatterns {
			if re := globToRegexp(pattern); re != nil {
				pf.ignored = append(pf.ignored, re)
			}
		}
		if len(config.AllowedExtensions) > 0 {
			pf.allowedExtensions = config.AllowedExtensions
		}
	}

	return pf
}

// globToRegexp converts a glob pattern to an anchored regex.
func globToRegexp(pattern string) *regexp.Regexp {
	normalizedPattern := strings.Trim(strings.ReplaceAll(pattern, "\\", "/"), "/")
	if normalizedPattern == "" {
		return nil
	}

	regexPattern := regexp.QuoteMeta(normalizedPattern)

	regexPattern = strings.ReplaceAll(regexPattern, `\*\*`, ".*")  // ** matches any
	regexPattern = strings.ReplaceAll(regexPattern, `\*`, "[^/]*") // * matches non-slash
	regexPattern = strings.ReplaceAll(regexPattern, `\?`, "[^/]")  // ? matches single char

	re, err := regexp.Compile("^" + regexPattern + "$")
	if err != nil {
		return nil
	}
	return re
}

// IsIgnored reports whether a repository path matches an ignored pattern.
func (pf *PathFilter) IsIgnored(path string) bool {
	normalizedPath := strings.Trim(strings.ReplaceAll(path, "\\", "/"), "/")
	for _, re := range pf.ignored {
		if re.MatchString(normalizedPath) {
			return true
		}
	}
	return false
}

// HasAllowedExtension reports whether name ends in one of the allowed
// extensions. The comparison is case sensitive.
func (pf *PathFilter) HasAllowedExtension(name string) bool {
	for _, ext := range pf.allowedExtensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// IsPlatform reports whether entry is a platform directory.
func (pf *PathFilter) IsPlatform(entry types.RepositoryEntry) bool {
	return entry.IsDir() && !pf.IsIgnored(entry.Path)
}

// IsWriteup reports whether entry is a markdown writeup file.
func (pf *PathFilter) IsWriteup(entry types.RepositoryEntry) bool {
	return entry.IsFile() && pf.HasAllowedExtension(entry.Name) && !pf.IsIgnored(entry.Path)
}

// Platforms keeps the platform directories of a listing, in order.
func (pf *PathFilter) Platforms(entries []types.RepositoryEntry) []types.RepositoryEntry {
	return pf.filter(entries, pf.IsPlatform)
}

// Writeups keeps the writeup files of a listing, in order.
func (pf *PathFilter) Writeups(entries []types.RepositoryEntry) []types.RepositoryEntry {
	return pf.filter(entries, pf.IsWriteup)
}

// Extensions returns the allowed writeup extensions in preference order.
func (pf *PathFilter) Extensions() []string {
	return append([]string(nil), pf.allowedExtensions...)
}

// TrimExtension strips the first matching allowed extension from name.
func (pf *PathFilter) TrimExtension(name string) string {
	for _, ext := range pf.allowedExtensions {
		if strings.HasSuffix(name, ext) {
			return strings.TrimSuffix(name, ext)
		}
	}
	return name
}

func (pf *PathFilter) filter(entries []types.RepositoryEntry, keep func(types.RepositoryEntry) bool) []types.RepositoryEntry {
	allowed := make([]types.RepositoryEntry, 0, len(entries))
	for _, entry := range entries {
		if keep(entry) {
			allowed = append(allowed, entry)
		}
	}
	return allowed
}
