package ports

import "net/http"

// HTTPClient abstracts the HTTP client for testability
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}
