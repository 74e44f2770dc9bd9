package api

import (
	"errors"
	"fmt"
)

// ErrNoCredential means no usable Riot API key is configured. It is returned
// before any network I/O so a run can fail fast without burning rate limit.
var ErrNoCredential = errors.New("riot api credential unavailable")

// UpstreamError is a non-2xx response from the provider. The caller decides
// whether it is fatal; the client never retries on its own.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream request failed: status %d: %s", e.Status, e.Body)
}

// IsUpstreamError reports whether err wraps an UpstreamError and returns it.
func IsUpstreamError(err error) (*UpstreamError, bool) {
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return ue, true
	}
	return nil, false
}
