package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ResponseInfo carries response details.
type ResponseInfo struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	Duration   time.Duration
}

// Client wraps HTTP requests against the fantasy API.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		timeout:    timeout,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// NewWithHTTPClient uses a caller-provided transport, e.g. an httptest server client.
func NewWithHTTPClient(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    baseURL,
		timeout:    httpClient.Timeout,
		httpClient: httpClient,
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) SetBaseURL(baseURL string) {
	c.baseURL = baseURL
}

func (c *Client) Timeout() time.Duration {
	return c.timeout
}

func (c *Client) SetTimeout(timeout time.Duration) {
	if timeout > 0 {
		c.timeout = timeout
		c.httpClient.Timeout = timeout
	}
}

// Do sends a raw request. Only transport failures are returned as errors.
func (c *Client) Do(ctx context.Context, method, path string, headers map[string]string, body []byte) (ResponseInfo, error) {
	var info ResponseInfo

	var reader io.Reader
	if len(body) > 0 {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, fmt.Sprintf("%s%s", c.baseURL, path), reader)
	if err != nil {
		return info, fmt.Errorf("build request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		if v != "" {
			req.Header.Set(k, v)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	info.Duration = time.Since(start)
	if err != nil {
		return info, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	info.StatusCode = resp.StatusCode
	info.Headers = resp.Header
	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return info, fmt.Errorf("read response body failed: %w", err)
	}
	info.Body = bodyBytes
	return info, nil
}

// Get fetches path and decodes the envelope data into T.
func Get[T any](ctx context.Context, c *Client, path string) (*ResponseWrapper[T], error) {
	return send[T](ctx, c, http.MethodGet, path, nil)
}

// Post sends model as JSON and ignores the response data.
func Post[T any](ctx context.Context, c *Client, path string, model T) (*ResponseWrapper[json.RawMessage], error) {
	return sendJSON[T, json.RawMessage](ctx, c, http.MethodPost, path, model)
}

// PostWithResponse sends model as JSON and decodes the response data into R.
func PostWithResponse[T, R any](ctx context.Context, c *Client, path string, model T) (*ResponseWrapper[R], error) {
	return sendJSON[T, R](ctx, c, http.MethodPost, path, model)
}

// Put sends model as JSON and ignores the response data.
func Put[T any](ctx context.Context, c *Client, path string, model T) (*ResponseWrapper[json.RawMessage], error) {
	return sendJSON[T, json.RawMessage](ctx, c, http.MethodPut, path, model)
}

// PutWithResponse sends model as JSON and decodes the response data into R.
func PutWithResponse[T, R any](ctx context.Context, c *Client, path string, model T) (*ResponseWrapper[R], error) {
	return sendJSON[T, R](ctx, c, http.MethodPut, path, model)
}

// Delete issues a DELETE on path.
func Delete(ctx context.Context, c *Client, path string) (*ResponseWrapper[json.RawMessage], error) {
	return send[json.RawMessage](ctx, c, http.MethodDelete, path, nil)
}

func sendJSON[T, R any](ctx context.Context, c *Client, method, path string, model T) (*ResponseWrapper[R], error) {
	body, err := json.Marshal(model)
	if err != nil {
		return nil, fmt.Errorf("marshal request body failed: %w", err)
	}
	return send[R](ctx, c, method, path, body)
}

func send[T any](ctx context.Context, c *Client, method, path string, body []byte) (*ResponseWrapper[T], error) {
	info, err := c.Do(ctx, method, path, nil, body)
	if err != nil {
		return nil, err
	}
	return wrap[T](info)
}
