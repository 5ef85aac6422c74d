package github

import (
	"errors"
	"fmt"
)

// ErrNotFound marks a 404 from the upstream API: the username does not
// exist. Callers distinguish it from generic failures with errors.Is.
var ErrNotFound = errors.New("github: user not found")

// FetchError is any non-404, non-2xx upstream response.
type FetchError struct {
	StatusCode int
	Username   string
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("github: fetching repos for %q failed with status %d", e.Username, e.StatusCode)
}
