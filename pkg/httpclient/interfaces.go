package httpclient

import "context"

// Response is a minimal HTTP response contract.
type Response interface {
	Body() []byte
	StatusCode() int
}

// Client abstracts HTTP calls so callers can inject mocks or different transports.
// Bodies passed to Post and Put are encoded as JSON.
type Client interface {
	Get(ctx context.Context, url string, headers map[string]string) (Response, error)
	Post(ctx context.Context, url string, body any, headers map[string]string) (Response, error)
	Put(ctx context.Context, url string, body any, headers map[string]string) (Response, error)
	Delete(ctx context.Context, url string, headers map[string]string) (Response, error)
}
