// Package types defines the data structures shared across the writeup site.
package types

// EntryKind is the type of a repository entry as reported by the contents API.
type EntryKind string

const (
	EntryFile      EntryKind = "file"
	EntryDirectory EntryKind = "dir"
)

type (
	// RepositoryEntry is one file or directory returned by a directory listing.
	RepositoryEntry struct {
		Name        string    `json:"name"`
		Path        string    `json:"path"`
		SHA         string    `json:"sha"`
		Size        int64     `json:"size"`
		URL         string    `json:"url"`
		HTMLURL     string    `json:"html_url"`
		GitURL      string    `json:"git_url"`
		DownloadURL *string   `json:"download_url"`
		Type        EntryKind `json:"type"`
	}

	// Platform is a top-level directory of the writeup repository.
	Platform struct {
		Name string `json:"name"`
	}
)

// IsDir reports whether the entry is a directory.
func (e RepositoryEntry) IsDir() bool {
	return e.Type == EntryDirectory
}

// IsFile reports whether the entry is a regular file.
func (e RepositoryEntry) IsFile() bool {
	return e.Type == EntryFile
}

// Normalize returns a copy of the entry with the raw content URL cleared for
// anything that is not a file.
func (e RepositoryEntry) Normalize() RepositoryEntry {
	if !e.IsFile() {
		e.DownloadURL = nil
	}
	if e.Size < 0 {
		e.Size = 0
	}
	return e
}
