package httputil

import (
	"net/http"
	"time"
)

// DefaultTimeout bounds interactive fetches; a search should fail fast
// rather than hold the loading state open.
const DefaultTimeout = 10 * time.Second

// NewClient returns an HTTP client with standard timeout configuration.
func NewClient() *http.Client {
	return &http.Client{
		Timeout: DefaultTimeout,
	}
}
