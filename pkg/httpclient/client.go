package httpclient

import (
	"context"
	"io"
	"net/http"
	"time"
)

type HttpClient struct {
	client *http.Client
}

func NewHttpClient(timeout time.Duration) *HttpClient {
	return &HttpClient{
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (h *HttpClient) Get(ctx context.Context, url string, header http.Header) (*http.Response, error) {
	return h.do(ctx, http.MethodGet, url, "", nil, header)
}

func (h *HttpClient) Post(ctx context.Context, url string, contentType string, body io.Reader, header http.Header) (*http.Response, error) {
	return h.do(ctx, http.MethodPost, url, contentType, body, header)
}

func (h *HttpClient) Delete(ctx context.Context, url string, header http.Header) (*http.Response, error) {
	return h.do(ctx, http.MethodDelete, url, "", nil, header)
}

func (h *HttpClient) do(ctx context.Context, method, url, contentType string, body io.Reader, header http.Header) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return h.client.Do(req)
}
