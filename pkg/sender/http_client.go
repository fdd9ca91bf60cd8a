package sender

import "net/http"

// HTTPClient executes requests. *http.Client satisfies it; tests and
// custom transports can substitute their own.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}
