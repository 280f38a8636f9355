package httpclient

import (
	"context"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// RestyClient adapts resty.Client to the httpclient.Client interface.
type RestyClient struct {
	client *resty.Client
}

// NewRestyClient creates a new RestyClient with the specified timeout.
func NewRestyClient(timeout time.Duration) *RestyClient {
	return &RestyClient{client: newRestyBaseClient(timeout)}
}

// NewRestyClientWithBaseURL creates a RestyClient that resolves relative
// request URLs (e.g. "api/heroes/5") against baseURL.
func NewRestyClientWithBaseURL(baseURL string, timeout time.Duration) *RestyClient {
	c := newRestyBaseClient(timeout)
	if baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/"); baseURL != "" {
		c.SetBaseURL(baseURL)
	}
	return &RestyClient{client: c}
}

// NewRestyHTTPClient exposes a configured resty.Client for callers needing custom verbs.
func NewRestyHTTPClient(timeout time.Duration) *resty.Client {
	return newRestyBaseClient(timeout)
}

// newRestyBaseClient creates a new resty.Client with the specified timeout.
func newRestyBaseClient(timeout time.Duration) *resty.Client {
	c := resty.New()
	c.SetTimeout(timeout)
	return c
}

// Get performs an HTTP GET request with the specified context, URL, and headers.
func (r *RestyClient) Get(ctx context.Context, url string, headers map[string]string) (Response, error) {
	return r.execute(r.request(ctx, headers), resty.MethodGet, url)
}

// Post sends body as JSON with an HTTP POST.
func (r *RestyClient) Post(ctx context.Context, url string, body any, headers map[string]string) (Response, error) {
	return r.execute(r.request(ctx, headers).SetBody(body), resty.MethodPost, url)
}

// Put sends body as JSON with an HTTP PUT.
func (r *RestyClient) Put(ctx context.Context, url string, body any, headers map[string]string) (Response, error) {
	return r.execute(r.request(ctx, headers).SetBody(body), resty.MethodPut, url)
}

// Delete performs an HTTP DELETE request.
func (r *RestyClient) Delete(ctx context.Context, url string, headers map[string]string) (Response, error) {
	return r.execute(r.request(ctx, headers), resty.MethodDelete, url)
}

func (r *RestyClient) request(ctx context.Context, headers map[string]string) *resty.Request {
	req := r.client.R().SetContext(ctx)
	if len(headers) > 0 {
		req.SetHeaders(headers)
	}
	return req
}

func (r *RestyClient) execute(req *resty.Request, method, url string) (Response, error) {
	resp, err := req.Execute(method, url)
	if err != nil {
		return nil, Wrap(url, err)
	}
	return &restyResponseAdapter{resp: resp}, nil
}

// restyResponseAdapter adapts resty.Response to the httpclient.Response interface.
type restyResponseAdapter struct {
	resp *resty.Response
}

func (r *restyResponseAdapter) Body() []byte    { return r.resp.Body() }
func (r *restyResponseAdapter) StatusCode() int { return r.resp.StatusCode() }
