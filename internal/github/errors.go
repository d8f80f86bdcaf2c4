package github

import (
	"errors"
	"fmt"
	"net/http"
)

// Operations reported by RemoteError.
const (
	OpList  = "list"
	OpFetch = "fetch"
)

// RemoteError is a non-success response from GitHub.
type RemoteError struct {
	Op         string
	URL        string
	StatusCode int
	Status     string
}

func (e *RemoteError) Error() string {
	if e.Op == OpList {
		return fmt.Sprintf("GitHub API error: %d %s", e.StatusCode, e.Status)
	}
	return fmt.Sprintf("failed to fetch file: %d %s", e.StatusCode, e.Status)
}

// IsNotFound reports whether err is a RemoteError for a missing resource.
func IsNotFound(err error) bool {
	var remoteErr *RemoteError
	return errors.As(err, &remoteErr) && remoteErr.StatusCode == http.StatusNotFound
}
